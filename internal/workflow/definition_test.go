package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/insar-sbas/internal/asf"
)

const sampleDefinition = `
name: ridgecrest-2019
project: ridgecrest
aoi: POLYGON((-118 35,-117 35,-117 36,-118 36,-118 35))
work_dir: /data/ridgecrest
search:
  platform: SENTINEL-1
  beam_mode: IW
  flight_direction: DESCENDING
  relative_orbit: 71
  start: 2019-06-01
  end: 2019-08-01
pairs:
  max_temporal_days: 24
  max_perpendicular: 150
jobs:
  type: INSAR_GAMMA
  looks: 20x4
  include_dem: true
analysis:
  run: false
  tropospheric_delay: "no"
`

func writeDefinition(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	def, err := Load(writeDefinition(t, sampleDefinition))
	require.NoError(t, err)

	assert.Equal(t, "ridgecrest-2019", def.Name)
	assert.Equal(t, 24, def.Pairs.MaxTemporalDays)
	assert.Equal(t, 150.0, def.Pairs.MaxPerpendicular)
	assert.Equal(t, "INSAR_GAMMA", def.Jobs.Type)
	assert.True(t, def.Jobs.IncludeDEM)
	assert.Equal(t, "/data/ridgecrest", def.WorkDir)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeDefinition(t, "name: [unclosed"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateBBoxAOI(t *testing.T) {
	def := Definition{
		Name:    "run1",
		AOIBBox: []float64{-118, 35, -117, 36},
		Pairs:   PairSpec{MaxTemporalDays: 24},
	}
	require.NoError(t, def.Validate())
	assert.Equal(t, "POLYGON((-118 35,-117 35,-117 36,-118 36,-118 35))", def.AOI)
}

func TestValidateBadBBox(t *testing.T) {
	def := Definition{
		Name:    "run1",
		AOIBBox: []float64{-117, 36, -118, 35},
		Pairs:   PairSpec{MaxTemporalDays: 24},
	}
	assert.Error(t, def.Validate())
}

func TestValidateDefaults(t *testing.T) {
	def := Definition{
		Name:  "run1",
		AOI:   "POINT(-117.5 35.7)",
		Pairs: PairSpec{MaxTemporalDays: 24},
	}
	require.NoError(t, def.Validate())
	assert.Equal(t, "run1", def.WorkDir)
	assert.Equal(t, "INSAR_GAMMA", def.Jobs.Type)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Definition)
	}{
		{"missing name", func(d *Definition) { d.Name = "" }},
		{"no aoi or reference", func(d *Definition) { d.AOI = "" }},
		{"non-positive temporal limit", func(d *Definition) { d.Pairs.MaxTemporalDays = 0 }},
		{"unknown job type", func(d *Definition) { d.Jobs.Type = "RTC_GAMMA" }},
		{"bad start date", func(d *Definition) { d.Search.Start = "June 2019" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := Definition{
				Name:  "run1",
				AOI:   "POINT(-117.5 35.7)",
				Pairs: PairSpec{MaxTemporalDays: 24},
			}
			tt.mutate(&def)
			assert.Error(t, def.Validate())
		})
	}
}

func TestSearchParams(t *testing.T) {
	def, err := Load(writeDefinition(t, sampleDefinition))
	require.NoError(t, err)

	params, err := def.SearchParams()
	require.NoError(t, err)

	assert.Equal(t, def.AOI, params.IntersectsWith)
	assert.Equal(t, []asf.Platform{asf.PlatformSentinel1}, params.Platform)
	assert.Equal(t, []asf.BeamMode{asf.BeamModeIW}, params.BeamMode)
	assert.Equal(t, asf.FlightDirectionDescending, params.FlightDirection)
	assert.Equal(t, []int{71}, params.RelativeOrbit)
	assert.Equal(t, []asf.ProcessingLevel{asf.ProcessingLevelSLC}, params.ProcessingLevel)
	require.NotNil(t, params.Start)
	assert.Equal(t, "2019-06-01", params.Start.Format("2006-01-02"))
	require.NotNil(t, params.End)
}
