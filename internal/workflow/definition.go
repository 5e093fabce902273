// Package workflow runs the end-to-end small-baseline pipeline from a
// declarative YAML definition: catalog search, pair selection, job
// submission, product download, clipping, and time-series setup.
package workflow

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/insar-sbas/internal/asf"
	"github.com/robert-malhotra/insar-sbas/internal/hyp3"
	"github.com/robert-malhotra/insar-sbas/pkg/geojson"
)

// SearchSpec narrows the catalog search for candidate scenes.
type SearchSpec struct {
	Platform        string `yaml:"platform"`
	BeamMode        string `yaml:"beam_mode"`
	FlightDirection string `yaml:"flight_direction"`
	RelativeOrbit   int    `yaml:"relative_orbit"`
	ProcessingLevel string `yaml:"processing_level"`
	Start           string `yaml:"start"`
	End             string `yaml:"end"`
	MaxResults      int    `yaml:"max_results"`
}

// PairSpec bounds the pair selection.
type PairSpec struct {
	MaxTemporalDays  int     `yaml:"max_temporal_days"`
	MaxPerpendicular float64 `yaml:"max_perpendicular"`
}

// JobSpec configures the submitted processing jobs.
type JobSpec struct {
	Type                string `yaml:"type"`
	Looks               string `yaml:"looks"`
	IncludeDEM          bool   `yaml:"include_dem"`
	IncludeIncMap       bool   `yaml:"include_inc_map"`
	IncludeLookVectors  bool   `yaml:"include_look_vectors"`
	IncludeWrappedPhase bool   `yaml:"include_wrapped_phase"`
	ApplyWaterMask      bool   `yaml:"apply_water_mask"`
}

// AnalysisSpec configures the time-series step.
type AnalysisSpec struct {
	Run               bool              `yaml:"run"`
	TroposphericDelay string            `yaml:"tropospheric_delay"`
	Extra             map[string]string `yaml:"extra"`
}

// Definition is a declarative pipeline run.
type Definition struct {
	Name      string       `yaml:"name"`
	Project   string       `yaml:"project"`
	AOI       string       `yaml:"aoi"` // WKT
	AOIBBox   []float64    `yaml:"aoi_bbox"`
	Reference string       `yaml:"reference"`
	WorkDir   string       `yaml:"work_dir"`
	Search    SearchSpec   `yaml:"search"`
	Pairs     PairSpec     `yaml:"pairs"`
	Jobs      JobSpec      `yaml:"jobs"`
	Analysis  AnalysisSpec `yaml:"analysis"`
}

// Load reads and validates a pipeline definition from path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow definition: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing workflow definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the definition and fills in defaults.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("workflow name is required")
	}
	if d.AOI == "" && len(d.AOIBBox) > 0 {
		geom, err := geojson.NewPolygonFromBBox(d.AOIBBox)
		if err != nil {
			return fmt.Errorf("aoi_bbox: %w", err)
		}
		wkt, err := geojson.ToWKT(geom)
		if err != nil {
			return fmt.Errorf("aoi_bbox: %w", err)
		}
		d.AOI = wkt
	}
	if d.AOI == "" && d.Reference == "" {
		return fmt.Errorf("either an AOI or a reference scene is required")
	}
	if d.Pairs.MaxTemporalDays <= 0 {
		return fmt.Errorf("pairs.max_temporal_days must be positive")
	}
	if d.WorkDir == "" {
		d.WorkDir = d.Name
	}
	if d.Jobs.Type == "" {
		d.Jobs.Type = string(hyp3.JobTypeInsarGamma)
	}
	switch hyp3.JobType(d.Jobs.Type) {
	case hyp3.JobTypeInsarGamma, hyp3.JobTypeInsarIsceBurst:
	default:
		return fmt.Errorf("unknown job type %q", d.Jobs.Type)
	}
	for _, field := range []struct{ name, value string }{
		{"search.start", d.Search.Start},
		{"search.end", d.Search.End},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", field.value); err != nil {
			return fmt.Errorf("%s: invalid date %q, want YYYY-MM-DD", field.name, field.value)
		}
	}
	return nil
}

// SearchParams builds the catalog query for the definition.
func (d *Definition) SearchParams() (asf.SearchParams, error) {
	params := asf.SearchParams{
		IntersectsWith: d.AOI,
		MaxResults:     d.Search.MaxResults,
	}
	if d.Search.Platform != "" {
		params.Platform = []asf.Platform{asf.Platform(d.Search.Platform)}
	}
	if d.Search.BeamMode != "" {
		params.BeamMode = []asf.BeamMode{asf.BeamMode(d.Search.BeamMode)}
	}
	if d.Search.FlightDirection != "" {
		params.FlightDirection = asf.FlightDirection(d.Search.FlightDirection)
	}
	if d.Search.RelativeOrbit != 0 {
		params.RelativeOrbit = []int{d.Search.RelativeOrbit}
	}
	level := d.Search.ProcessingLevel
	if level == "" {
		level = string(asf.ProcessingLevelSLC)
	}
	params.ProcessingLevel = []asf.ProcessingLevel{asf.ProcessingLevel(level)}

	for _, bound := range []struct {
		value string
		dst   **time.Time
	}{
		{d.Search.Start, &params.Start},
		{d.Search.End, &params.End},
	} {
		if bound.value == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", bound.value)
		if err != nil {
			return asf.SearchParams{}, fmt.Errorf("invalid date %q: %w", bound.value, err)
		}
		*bound.dst = &t
	}
	return params, nil
}
