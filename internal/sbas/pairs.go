package sbas

import (
	"fmt"
	"math"
	"sort"
)

// Pair is an unordered-set element of interferometric pairing: Reference
// is the earlier scene, Secondary the later one.
type Pair struct {
	Reference string
	Secondary string
}

// String returns the pair as "reference/secondary".
func (p Pair) String() string {
	return p.Reference + "/" + p.Secondary
}

// PairOptions controls short-baseline pair selection.
type PairOptions struct {
	// MaxTemporalDays is the largest allowed temporal separation of a
	// pair in days. Required, must be positive.
	MaxTemporalDays int

	// MaxPerpendicular, when positive, drops pairs whose perpendicular
	// baseline difference exceeds this many meters.
	MaxPerpendicular float64
}

// SelectPairs forms the short-baseline subset of the stack: for each
// candidate reference scene, it pairs every scene whose temporal baseline
// exceeds the reference's by an amount in (0, MaxTemporalDays]. The result
// is deduplicated and sorted by reference, then secondary.
//
// Every returned pair satisfies
// 0 < secondary.TemporalBaseline - reference.TemporalBaseline <= MaxTemporalDays.
func (s *Stack) SelectPairs(opts PairOptions) ([]Pair, error) {
	if opts.MaxTemporalDays <= 0 {
		return nil, fmt.Errorf("max temporal baseline must be positive, got %d", opts.MaxTemporalDays)
	}

	seen := make(map[Pair]struct{})
	var pairs []Pair

	for i := range s.Scenes {
		ref := &s.Scenes[i]
		for j := range s.Scenes {
			sec := &s.Scenes[j]

			delta := sec.TemporalBaseline - ref.TemporalBaseline
			if delta <= 0 || delta > opts.MaxTemporalDays {
				continue
			}
			if opts.MaxPerpendicular > 0 &&
				math.Abs(sec.PerpendicularBaseline-ref.PerpendicularBaseline) > opts.MaxPerpendicular {
				continue
			}

			pair := Pair{Reference: ref.Name, Secondary: sec.Name}
			if _, ok := seen[pair]; ok {
				continue
			}
			seen[pair] = struct{}{}
			pairs = append(pairs, pair)
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Reference != pairs[j].Reference {
			return pairs[i].Reference < pairs[j].Reference
		}
		return pairs[i].Secondary < pairs[j].Secondary
	})

	return pairs, nil
}

// SceneByName returns the stack scene with the given name.
func (s *Stack) SceneByName(name string) (*Scene, bool) {
	for i := range s.Scenes {
		if s.Scenes[i].Name == name {
			return &s.Scenes[i], true
		}
	}
	return nil, false
}
