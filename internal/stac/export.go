package stac

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/robert-malhotra/insar-sbas/internal/asf"
)

// FeatureToItem converts a catalog scene to a STAC Item. Baseline
// annotations, when present, are written as insar: properties so a
// stack export preserves pair selection inputs.
func FeatureToItem(feature *asf.Feature, collection string) (*Item, error) {
	if feature == nil {
		return nil, fmt.Errorf("feature is nil")
	}

	props := feature.Properties
	itemID := props.FileID
	if itemID == "" {
		itemID = props.SceneName
	}
	if itemID == "" {
		return nil, fmt.Errorf("feature has no fileID or sceneName")
	}

	item := NewItem(itemID, collection)

	if feature.Geometry != nil {
		item.Geometry = feature.Geometry
		if bbox, err := feature.Geometry.BBox(); err == nil {
			item.Bbox = bbox
		}
	}

	// STAC wants start/end for an acquisition interval and a null datetime.
	item.Properties["datetime"] = nil
	if t := props.StartTimeParsed(); !t.IsZero() {
		item.Properties["start_datetime"] = t
	}
	if t := props.StopTimeParsed(); !t.IsZero() {
		item.Properties["end_datetime"] = t
	}

	if props.Platform != "" {
		item.Properties["platform"] = strings.ToLower(props.Platform)
		if constellation := constellationFor(props.Platform); constellation != "" {
			item.Properties["constellation"] = constellation
		}
	}

	if props.BeamModeType != "" {
		item.Properties["sar:instrument_mode"] = props.BeamModeType
	}
	if polarizations := parsePolarizations(props.Polarization); len(polarizations) > 0 {
		item.Properties["sar:polarizations"] = polarizations
	}
	if props.ProcessingLevel != "" {
		item.Properties["sar:product_type"] = props.ProcessingLevel
	}

	if props.FlightDirection != "" {
		item.Properties["sat:orbit_state"] = strings.ToLower(props.FlightDirection)
	}
	if props.PathNumber != nil {
		item.Properties["sat:relative_orbit"] = *props.PathNumber
	}

	if props.TemporalBaseline != nil {
		item.Properties["insar:temporal_baseline"] = *props.TemporalBaseline
	}
	if props.PerpendicularBaseline != nil {
		item.Properties["insar:perpendicular_baseline"] = *props.PerpendicularBaseline
	}

	addAssets(item, &props)
	return item, nil
}

// ExportStack converts a set of catalog scenes to an ItemCollection.
func ExportStack(features []asf.Feature, collection string) (*ItemCollection, error) {
	items := make([]*Item, 0, len(features))
	for i := range features {
		item, err := FeatureToItem(&features[i], collection)
		if err != nil {
			return nil, fmt.Errorf("converting scene %d: %w", i, err)
		}
		items = append(items, item)
	}
	return NewItemCollection(items), nil
}

// WriteStack writes the scenes as an indented ItemCollection document.
func WriteStack(w io.Writer, features []asf.Feature, collection string) error {
	ic, err := ExportStack(features, collection)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ic)
}

func addAssets(item *Item, props *asf.Properties) {
	if props.URL != "" {
		item.Assets["data"] = &Asset{
			Href:  props.URL,
			Title: "Product Data",
			Type:  mediaTypeFor(props.URL),
			Roles: []string{"data"},
		}
	}
	if props.Thumbnail != "" {
		item.Assets["thumbnail"] = &Asset{
			Href:  props.Thumbnail,
			Title: "Thumbnail Image",
			Type:  "image/jpeg",
			Roles: []string{"thumbnail"},
		}
	}
	if len(props.Browse) > 0 {
		item.Assets["browse"] = &Asset{
			Href:  props.Browse[0],
			Title: "Browse Image",
			Type:  mediaTypeFor(props.Browse[0]),
			Roles: []string{"overview"},
		}
	}
}

func constellationFor(platform string) string {
	platform = strings.ToLower(platform)
	switch {
	case strings.HasPrefix(platform, "sentinel-1"):
		return "sentinel-1"
	case strings.HasPrefix(platform, "alos"):
		return "alos"
	case strings.HasPrefix(platform, "radarsat"):
		return "radarsat"
	default:
		return ""
	}
}

// parsePolarizations splits a polarization string like "VV+VH" into
// ["VV", "VH"].
func parsePolarizations(pol string) []string {
	parts := strings.FieldsFunc(pol, func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	})
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, strings.ToUpper(p))
		}
	}
	return result
}

func mediaTypeFor(url string) string {
	url = strings.ToLower(url)
	switch {
	case strings.HasSuffix(url, ".zip"):
		return "application/zip"
	case strings.HasSuffix(url, ".tif"), strings.HasSuffix(url, ".tiff"):
		return "image/tiff; application=geotiff"
	case strings.HasSuffix(url, ".jpg"), strings.HasSuffix(url, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(url, ".png"):
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
