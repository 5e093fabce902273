package asf

import (
	"time"

	"github.com/robert-malhotra/insar-sbas/pkg/geojson"
)

// FeatureCollection is the catalog's GeoJSON response envelope.
type FeatureCollection struct {
	Type     string    `json:"type"` // "FeatureCollection"
	Features []Feature `json:"features"`
}

// Feature is a single scene returned by the catalog.
type Feature struct {
	Type       string            `json:"type"` // "Feature"
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties Properties        `json:"properties"`
}

// Properties contains the scene metadata the pipeline consumes. Optional
// fields the catalog may omit are pointers.
type Properties struct {
	SceneName string `json:"sceneName"`
	FileID    string `json:"fileID"`
	Platform  string `json:"platform"`

	BeamModeType    string `json:"beamModeType"`
	Polarization    string `json:"polarization"`
	FlightDirection string `json:"flightDirection"`
	PathNumber      *int   `json:"pathNumber"`
	FrameNumber     *int   `json:"frameNumber"`

	ProcessingLevel string `json:"processingLevel"`
	StartTime       string `json:"startTime"`
	StopTime        string `json:"stopTime"`

	CenterLat *float64 `json:"centerLat"`
	CenterLon *float64 `json:"centerLon"`

	URL       string   `json:"url"`
	FileName  string   `json:"fileName"`
	FileSize  *int64   `json:"fileSize"`
	Browse    []string `json:"browse"`
	Thumbnail string   `json:"thumbnail"`

	GroupID      string  `json:"groupID"`
	InsarStackID *string `json:"insarStackId"`

	// Baseline annotations, present on baseline-stack responses.
	TemporalBaseline      *int     `json:"temporalBaseline"`
	PerpendicularBaseline *float64 `json:"perpendicularBaseline"`
}

// asfTimeLayouts covers the timestamp formats the catalog emits.
var asfTimeLayouts = []string{
	"2006-01-02T15:04:05.000000Z",
	"2006-01-02T15:04:05.000000",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// StartTimeParsed parses the scene start timestamp. The zero time is
// returned when the field is absent or unparseable.
func (p *Properties) StartTimeParsed() time.Time {
	return parseASFTime(p.StartTime)
}

// StopTimeParsed parses the scene stop timestamp.
func (p *Properties) StopTimeParsed() time.Time {
	return parseASFTime(p.StopTime)
}

func parseASFTime(s string) time.Time {
	for _, layout := range asfTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
