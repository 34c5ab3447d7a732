package session

import (
	"github.com/starwatch/voyager/internal/model"
	"github.com/starwatch/voyager/internal/orbital"
	"github.com/starwatch/voyager/internal/valuation"
)

// TourGroup is the planned visiting order for one sub-system (bodies
// sharing a parent_planet, or the -1 group for bodies with none), per
// §4.4's sub-system grouping rule.
type TourGroup struct {
	ParentPlanetID  int32
	Seed            []orbital.Stop
	Refined         []orbital.Stop
	SeedLengthLS    float64
	RefinedLengthLS float64
}

// TourPlan estimates every body's position from its Kepler elements and
// plans a short visiting tour per sub-system over medium/high value
// bodies, starting from the system's primary (position zero) per C4.
// Returns nil if the current system has no qualifying bodies.
func (s *Session) TourPlan() []TourGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sys := s.state.CurrentSystem
	if sys == nil {
		return nil
	}

	nodes := buildOrbitalNodes(sys)
	stops := qualifyingStops(sys, nodes)
	if len(stops) == 0 {
		return nil
	}

	groups := orbital.GroupByParentPlanet(stops)
	plans := make([]TourGroup, 0, len(groups))
	start := orbital.Vec3{}
	for parentPlanetID, groupStops := range groups {
		seed, refined := orbital.PlanTour(groupStops, start)
		plans = append(plans, TourGroup{
			ParentPlanetID:  parentPlanetID,
			Seed:            seed,
			Refined:         refined,
			SeedLengthLS:    orbital.TourLengthLS(start, seed),
			RefinedLengthLS: orbital.TourLengthLS(start, refined),
		})
	}
	return plans
}

// buildOrbitalNodes converts a system's bodies and bary-centres into
// the position graph ChainPosition walks, keyed by body id.
func buildOrbitalNodes(sys *model.StarSystem) map[int32]orbital.Node {
	nodes := make(map[int32]orbital.Node, len(sys.Bodies)+len(sys.BaryCentres))
	for _, b := range sys.Bodies {
		var meanAnomaly, ascendingNode float64
		if b.Planet != nil {
			meanAnomaly = b.Planet.MeanAnomaly
			ascendingNode = b.Planet.AscendingNode
		}
		nodes[b.BodyID] = orbital.Node{
			ID: b.BodyID,
			Elements: orbital.Elements{
				SemiMajorAxis:      b.SemiMajorAxis,
				Eccentricity:       b.Eccentricity,
				OrbitalInclination: b.OrbitalInclination,
				Periapsis:          b.Periapsis,
				AscendingNode:      ascendingNode,
				MeanAnomaly:        meanAnomaly,
			},
			ParentID: b.ImmediateParentID(),
		}
	}
	for _, bc := range sys.BaryCentres {
		parentID := bc.ParentStarID
		if bc.ParentBaryCentreID != nil {
			parentID = bc.ParentBaryCentreID
		}
		nodes[bc.BodyID] = orbital.Node{
			ID: bc.BodyID,
			Elements: orbital.Elements{
				SemiMajorAxis:      bc.SemiMajorAxis,
				Eccentricity:       bc.Eccentricity,
				OrbitalInclination: bc.OrbitalInclination,
				Periapsis:          bc.Periapsis,
			},
			ParentID: parentID,
		}
	}
	return nodes
}

// qualifyingStops selects the medium/high value planets (§4.4's "medium
// or high value" filter) and resolves each one's Cartesian position via
// the parent chain.
func qualifyingStops(sys *model.StarSystem, nodes map[int32]orbital.Node) []orbital.Stop {
	var stops []orbital.Stop
	for _, b := range sys.Bodies {
		if b.Planet == nil {
			continue
		}
		if valuation.ClassBand(b.Planet.Value) == valuation.BandLow {
			continue
		}
		stops = append(stops, orbital.Stop{
			BodyID:         b.BodyID,
			ParentPlanetID: b.ParentPlanetID,
			Position:       orbital.ChainPosition(b.BodyID, nodes),
		})
	}
	return stops
}
