// Package geojson provides the GeoJSON geometry handling needed to move
// areas of interest between GeoJSON, bounding boxes, and the WKT strings
// the ASF search API expects.
package geojson

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Geometry represents a GeoJSON geometry object.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Point returns the coordinates as [lon, lat].
func (g *Geometry) Point() ([]float64, error) {
	if g.Type != "Point" {
		return nil, fmt.Errorf("geometry is not a Point, got %s", g.Type)
	}
	var coords []float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Point coordinates: %w", err)
	}
	if len(coords) < 2 {
		return nil, fmt.Errorf("invalid Point coordinates: expected at least 2 values, got %d", len(coords))
	}
	return coords, nil
}

// Polygon returns the coordinates as rings of [lon, lat] pairs.
func (g *Geometry) Polygon() ([][][]float64, error) {
	if g.Type != "Polygon" {
		return nil, fmt.Errorf("geometry is not a Polygon, got %s", g.Type)
	}
	var coords [][][]float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Polygon coordinates: %w", err)
	}
	return coords, nil
}

// MultiPolygon returns the coordinates as a list of polygons.
func (g *Geometry) MultiPolygon() ([][][][]float64, error) {
	if g.Type != "MultiPolygon" {
		return nil, fmt.Errorf("geometry is not a MultiPolygon, got %s", g.Type)
	}
	var coords [][][][]float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal MultiPolygon coordinates: %w", err)
	}
	return coords, nil
}

// BBox computes the bounding box of the geometry as [west, south, east, north].
func (g *Geometry) BBox() ([]float64, error) {
	if g == nil {
		return nil, fmt.Errorf("geometry is nil")
	}

	var points [][]float64
	switch g.Type {
	case "Point":
		p, err := g.Point()
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	case "Polygon":
		rings, err := g.Polygon()
		if err != nil {
			return nil, err
		}
		for _, ring := range rings {
			points = append(points, ring...)
		}
	case "MultiPolygon":
		polys, err := g.MultiPolygon()
		if err != nil {
			return nil, err
		}
		for _, poly := range polys {
			for _, ring := range poly {
				points = append(points, ring...)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported geometry type: %s", g.Type)
	}

	west, south := math.Inf(1), math.Inf(1)
	east, north := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		if len(p) < 2 {
			continue
		}
		west = math.Min(west, p[0])
		east = math.Max(east, p[0])
		south = math.Min(south, p[1])
		north = math.Max(north, p[1])
	}
	if math.IsInf(west, 0) || math.IsInf(south, 0) {
		return nil, fmt.Errorf("failed to compute bounding box: no valid coordinates found")
	}
	return []float64{west, south, east, north}, nil
}

// NewPolygonFromBBox creates a rectangular polygon geometry from
// [west, south, east, north].
func NewPolygonFromBBox(bbox []float64) (*Geometry, error) {
	if len(bbox) != 4 {
		return nil, fmt.Errorf("bbox must have 4 values [west, south, east, north], got %d", len(bbox))
	}

	west, south, east, north := bbox[0], bbox[1], bbox[2], bbox[3]
	if east < west || north < south {
		return nil, fmt.Errorf("bbox is inverted: [%g %g %g %g]", west, south, east, north)
	}

	coords := [][][]float64{{
		{west, south},
		{east, south},
		{east, north},
		{west, north},
		{west, south},
	}}

	raw, err := json.Marshal(coords)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal polygon coordinates: %w", err)
	}

	return &Geometry{Type: "Polygon", Coordinates: raw}, nil
}

// ToWKT converts a geometry to its WKT representation. Point, Polygon, and
// MultiPolygon are supported; that covers everything the catalog accepts
// for intersectsWith.
func ToWKT(g *Geometry) (string, error) {
	if g == nil {
		return "", fmt.Errorf("geometry is nil")
	}

	switch g.Type {
	case "Point":
		p, err := g.Point()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("POINT(%s %s)", fmtCoord(p[0]), fmtCoord(p[1])), nil

	case "Polygon":
		rings, err := g.Polygon()
		if err != nil {
			return "", err
		}
		body, err := ringsToWKT(rings)
		if err != nil {
			return "", err
		}
		return "POLYGON" + body, nil

	case "MultiPolygon":
		polys, err := g.MultiPolygon()
		if err != nil {
			return "", err
		}
		parts := make([]string, 0, len(polys))
		for _, rings := range polys {
			body, err := ringsToWKT(rings)
			if err != nil {
				return "", err
			}
			parts = append(parts, body)
		}
		return "MULTIPOLYGON(" + strings.Join(parts, ",") + ")", nil

	default:
		return "", fmt.Errorf("unsupported geometry type for WKT conversion: %s", g.Type)
	}
}

func ringsToWKT(rings [][][]float64) (string, error) {
	parts := make([]string, 0, len(rings))
	for _, ring := range rings {
		points := make([]string, 0, len(ring))
		for _, p := range ring {
			if len(p) < 2 {
				return "", fmt.Errorf("invalid point in ring: expected at least 2 coordinates")
			}
			points = append(points, fmtCoord(p[0])+" "+fmtCoord(p[1]))
		}
		parts = append(parts, "("+strings.Join(points, ",")+")")
	}
	return "(" + strings.Join(parts, ",") + ")", nil
}

// FromWKT parses a WKT string into a GeoJSON geometry. Point, Polygon, and
// MultiPolygon are supported.
func FromWKT(wkt string) (*Geometry, error) {
	wkt = strings.TrimSpace(wkt)
	if wkt == "" {
		return nil, fmt.Errorf("empty WKT string")
	}

	upper := strings.ToUpper(wkt)
	switch {
	case strings.HasPrefix(upper, "MULTIPOLYGON"):
		groups, err := splitGroups(innerBody(wkt))
		if err != nil {
			return nil, fmt.Errorf("invalid MULTIPOLYGON: %w", err)
		}
		polys := make([][][][]float64, 0, len(groups))
		for _, g := range groups {
			rings, err := parseRings(strings.TrimSpace(g))
			if err != nil {
				return nil, fmt.Errorf("invalid MULTIPOLYGON: %w", err)
			}
			polys = append(polys, rings)
		}
		raw, err := json.Marshal(polys)
		if err != nil {
			return nil, err
		}
		return &Geometry{Type: "MultiPolygon", Coordinates: raw}, nil

	case strings.HasPrefix(upper, "POLYGON"):
		rings, err := parseRings(innerBody(wkt))
		if err != nil {
			return nil, fmt.Errorf("invalid POLYGON: %w", err)
		}
		raw, err := json.Marshal(rings)
		if err != nil {
			return nil, err
		}
		return &Geometry{Type: "Polygon", Coordinates: raw}, nil

	case strings.HasPrefix(upper, "POINT"):
		pair, err := parsePair(innerBody(wkt))
		if err != nil {
			return nil, fmt.Errorf("invalid POINT: %w", err)
		}
		raw, err := json.Marshal(pair)
		if err != nil {
			return nil, err
		}
		return &Geometry{Type: "Point", Coordinates: raw}, nil

	default:
		return nil, fmt.Errorf("unsupported WKT geometry type")
	}
}

// innerBody returns the text between the outermost parentheses, or "" when
// the parentheses are missing or unbalanced.
func innerBody(s string) string {
	open := strings.Index(s, "(")
	close := strings.LastIndex(s, ")")
	if open == -1 || close == -1 || open >= close {
		return ""
	}
	return s[open+1 : close]
}

// splitGroups splits "(...),(...)" into its top-level parenthesized groups,
// with the outer parentheses of each group removed.
func splitGroups(s string) ([]string, error) {
	var groups []string
	depth := 0
	start := -1
	for i, ch := range s {
		switch ch {
		case '(':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unmatched closing parenthesis at position %d", i)
			}
			if depth == 0 {
				groups = append(groups, s[start:i])
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unmatched parentheses")
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no parenthesized groups found")
	}
	return groups, nil
}

// parseRings parses a polygon ring list like "(x y,x y,...),(x y,...)",
// with the polygon's own outer parentheses already removed.
func parseRings(s string) ([][][]float64, error) {
	ringStrs, err := splitGroups(s)
	if err != nil {
		return nil, err
	}

	rings := make([][][]float64, 0, len(ringStrs))
	for _, rs := range ringStrs {
		var ring [][]float64
		for _, pairStr := range strings.Split(rs, ",") {
			pair, err := parsePair(pairStr)
			if err != nil {
				return nil, err
			}
			ring = append(ring, pair)
		}
		rings = append(rings, ring)
	}
	return rings, nil
}

func parsePair(s string) ([]float64, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) < 2 {
		return nil, fmt.Errorf("invalid coordinate pair: %q", s)
	}
	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude: %s", fields[0])
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude: %s", fields[1])
	}
	return []float64{lon, lat}, nil
}

func fmtCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
