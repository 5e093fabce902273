package asf

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SearchParams represents parameters for catalog keyword searches.
type SearchParams struct {
	// Dataset and platform filters
	Dataset  []string
	Platform []Platform

	// Spatial filter: WKT geometry string
	IntersectsWith string

	// Temporal filters (inclusive)
	Start *time.Time
	End   *time.Time

	// Granule identification. The catalog does not allow combining
	// granule_list with any other filter.
	GranuleList []string

	// SAR-specific filters
	BeamMode     []BeamMode
	Polarization []string

	// Orbital filters
	FlightDirection FlightDirection
	RelativeOrbit   []int

	// Processing filters
	ProcessingLevel []ProcessingLevel

	// Result limiting. The catalog always sorts descending by start
	// time and supports no pagination; results are consumed whole.
	MaxResults int
	Output     string
}

// ToURLValues converts SearchParams to url.Values for query string building.
func (p *SearchParams) ToURLValues() url.Values {
	values := url.Values{}

	for _, d := range p.Dataset {
		values.Add("dataset", d)
	}
	for _, pl := range p.Platform {
		values.Add("platform", pl.String())
	}

	if p.IntersectsWith != "" {
		values.Set("intersectsWith", p.IntersectsWith)
	}

	if p.Start != nil {
		values.Set("start", formatASFTime(*p.Start))
	}
	if p.End != nil {
		values.Set("end", formatASFTime(*p.End))
	}

	if len(p.GranuleList) > 0 {
		values.Set("granule_list", strings.Join(p.GranuleList, ","))
	}

	for _, bm := range p.BeamMode {
		values.Add("beamMode", bm.String())
	}
	for _, pol := range p.Polarization {
		values.Add("polarization", pol)
	}

	if p.FlightDirection != "" {
		values.Set("flightDirection", p.FlightDirection.String())
	}
	for _, ro := range p.RelativeOrbit {
		values.Add("relativeOrbit", strconv.Itoa(ro))
	}

	if len(p.ProcessingLevel) > 0 {
		levels := make([]string, len(p.ProcessingLevel))
		for i, l := range p.ProcessingLevel {
			levels[i] = l.String()
		}
		values.Set("processingLevel", strings.Join(levels, ","))
	}

	if p.MaxResults > 0 {
		values.Set("maxResults", strconv.Itoa(p.MaxResults))
	}

	if p.Output != "" {
		values.Set("output", p.Output)
	} else {
		values.Set("output", "geojson")
	}

	return values
}

// ToQueryString converts SearchParams to a URL query string.
func (p *SearchParams) ToQueryString() string {
	return p.ToURLValues().Encode()
}

// BaselineParams represents parameters for baseline-stack queries.
type BaselineParams struct {
	// Reference is the scene name whose stack is requested.
	Reference string

	// Output format (default "geojson").
	Output string
}

// ToURLValues converts BaselineParams to url.Values.
func (p *BaselineParams) ToURLValues() url.Values {
	values := url.Values{}
	values.Set("reference", p.Reference)
	if p.Output != "" {
		values.Set("output", p.Output)
	} else {
		values.Set("output", "geojson")
	}
	return values
}

// formatASFTime formats a time.Time for catalog queries.
// The API expects ISO 8601: YYYY-MM-DDTHH:MM:SSZ.
func formatASFTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
