// Package export renders session views as YAML, for the CLI's tour
// output and for golden-file tests — the read-only half of the
// teacher's frontmatter codec, since nothing here writes back to the
// game (spec's Non-goals).
package export

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/starwatch/voyager/internal/model"
	"github.com/starwatch/voyager/internal/session"
)

// SystemView is the YAML projection of one explored star system.
type SystemView struct {
	Name        string      `yaml:"name"`
	SystemAddress int64     `yaml:"system_address"`
	StarClass   string      `yaml:"star_class"`
	FSSComplete bool        `yaml:"fss_complete"`
	Bodies      []BodyView  `yaml:"bodies"`
}

// BodyView is the YAML projection of one scanned body.
type BodyView struct {
	BodyID int32  `yaml:"body_id"`
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Value  int64  `yaml:"value,omitempty"`
	Mapped bool   `yaml:"mapped,omitempty"`
}

// RouteView is the YAML projection of the plotted route's progress.
type RouteView struct {
	RemainingHops     int     `yaml:"remaining_hops"`
	RemainingDistance float64 `yaml:"remaining_distance_ly"`
	NextSystem        string  `yaml:"next_system,omitempty"`
}

// System converts a StarSystem to its YAML view.
func System(sys *model.StarSystem) SystemView {
	if sys == nil {
		return SystemView{}
	}
	view := SystemView{
		Name:          sys.Name,
		SystemAddress: sys.SystemAddress,
		StarClass:     sys.StarClass,
		FSSComplete:   sys.FSSComplete,
		Bodies:        make([]BodyView, len(sys.Bodies)),
	}
	for i, b := range sys.Bodies {
		bv := BodyView{BodyID: b.BodyID, Name: b.Name}
		switch b.Kind {
		case model.BodyKindStar:
			bv.Kind = "star"
			if b.Star != nil {
				bv.Value = b.Star.Value
			}
		case model.BodyKindPlanet:
			bv.Kind = "planet"
			if b.Planet != nil {
				bv.Value = b.Planet.Value
				bv.Mapped = b.Planet.Mapped
			}
		}
		view.Bodies[i] = bv
	}
	return view
}

// Route converts a route and its progress helpers into a YAML view.
func Route(route []model.RouteItem, remaining int, remainingDistance float64) RouteView {
	view := RouteView{RemainingHops: remaining, RemainingDistance: remainingDistance}
	for _, r := range route {
		if !r.Visited {
			view.NextSystem = r.SystemName
			break
		}
	}
	return view
}

// TourView is the YAML projection of one sub-system's planned visiting
// order (C4), reporting the refined stop order and both tour lengths
// so a caller can see the 2-opt improvement over the seed.
type TourView struct {
	ParentPlanetID  int32   `yaml:"parent_planet_id"`
	Stops           []int32 `yaml:"stops"`
	SeedLengthLS    float64 `yaml:"seed_length_ls"`
	RefinedLengthLS float64 `yaml:"refined_length_ls"`
}

// Tour converts a session's planned tour groups into their YAML view,
// one entry per sub-system.
func Tour(groups []session.TourGroup) []TourView {
	views := make([]TourView, len(groups))
	for i, g := range groups {
		stops := make([]int32, len(g.Refined))
		for j, s := range g.Refined {
			stops[j] = s.BodyID
		}
		views[i] = TourView{
			ParentPlanetID:  g.ParentPlanetID,
			Stops:           stops,
			SeedLengthLS:    g.SeedLengthLS,
			RefinedLengthLS: g.RefinedLengthLS,
		}
	}
	return views
}

// RenderYAML marshals any view into YAML bytes.
func RenderYAML(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rendering yaml: %w", err)
	}
	return out, nil
}
