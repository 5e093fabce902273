// Package sbas builds short-baseline-subset interferometric pairs from a
// baseline stack of SAR scenes.
package sbas

import (
	"fmt"
	"sort"
	"time"

	"github.com/robert-malhotra/insar-sbas/internal/asf"
	"github.com/robert-malhotra/insar-sbas/pkg/geojson"
)

// Scene is one acquisition in a baseline stack.
type Scene struct {
	Name      string
	FileID    string
	StartTime time.Time

	// TemporalBaseline is the acquisition's separation from the stack
	// reference in days. Negative for scenes acquired before it.
	TemporalBaseline int

	// PerpendicularBaseline is the across-track separation from the
	// stack reference in meters.
	PerpendicularBaseline float64

	Geometry *geojson.Geometry
}

// Stack is an in-memory table of baseline-annotated scenes sharing a
// ground track, sorted by temporal baseline.
type Stack struct {
	Reference string
	Scenes    []Scene
}

// NewStack builds a Stack from a baseline-stack catalog response. Scenes
// without a temporal baseline annotation are dropped; an error is returned
// when nothing usable remains.
func NewStack(reference string, fc *asf.FeatureCollection) (*Stack, error) {
	if fc == nil {
		return nil, fmt.Errorf("feature collection is nil")
	}

	scenes := make([]Scene, 0, len(fc.Features))
	for i := range fc.Features {
		props := fc.Features[i].Properties
		if props.TemporalBaseline == nil {
			continue
		}

		scene := Scene{
			Name:             props.SceneName,
			FileID:           props.FileID,
			StartTime:        props.StartTimeParsed(),
			TemporalBaseline: *props.TemporalBaseline,
			Geometry:         fc.Features[i].Geometry,
		}
		if props.PerpendicularBaseline != nil {
			scene.PerpendicularBaseline = *props.PerpendicularBaseline
		}
		scenes = append(scenes, scene)
	}

	if len(scenes) == 0 {
		return nil, fmt.Errorf("stack for %s has no baseline-annotated scenes", reference)
	}

	sort.Slice(scenes, func(i, j int) bool {
		if scenes[i].TemporalBaseline != scenes[j].TemporalBaseline {
			return scenes[i].TemporalBaseline < scenes[j].TemporalBaseline
		}
		return scenes[i].Name < scenes[j].Name
	})

	return &Stack{Reference: reference, Scenes: scenes}, nil
}

// Len returns the number of scenes in the stack.
func (s *Stack) Len() int {
	return len(s.Scenes)
}

// Span returns the temporal extent of the stack in days.
func (s *Stack) Span() int {
	if len(s.Scenes) == 0 {
		return 0
	}
	return s.Scenes[len(s.Scenes)-1].TemporalBaseline - s.Scenes[0].TemporalBaseline
}
