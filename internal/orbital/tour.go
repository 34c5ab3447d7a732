package orbital

// Stop is one body or bary-centre candidate for the visiting tour,
// carrying the position resolved by ChainPosition plus the fields the
// caller needs to label the stop (body id and, via ParentPlanetID, the
// sub-system it belongs to).
type Stop struct {
	BodyID         int32
	ParentPlanetID *int32
	Position       Vec3
}

// GroupByParentPlanet partitions stops by their ParentPlanetID, per
// §4.4's sub-system grouping rule: bodies without a planetary parent
// form the -1 group.
func GroupByParentPlanet(stops []Stop) map[int32][]Stop {
	groups := make(map[int32][]Stop)
	for _, s := range stops {
		key := int32(-1)
		if s.ParentPlanetID != nil {
			key = *s.ParentPlanetID
		}
		groups[key] = append(groups[key], s)
	}
	return groups
}

// SeedTour builds a Nearest-Neighbour tour starting from the absolute
// position nearest to start (per §4.4: "the first absolute position
// for the seed stage"). stops is left unmodified; the returned slice
// is a fresh ordering.
func SeedTour(stops []Stop, start Vec3) []Stop {
	if len(stops) == 0 {
		return nil
	}

	remaining := append([]Stop(nil), stops...)
	ordered := make([]Stop, 0, len(remaining))

	current := start
	for len(remaining) > 0 {
		nearestIdx := 0
		nearestDist := current.Distance(remaining[0].Position)
		for i := 1; i < len(remaining); i++ {
			d := current.Distance(remaining[i].Position)
			if d < nearestDist {
				nearestIdx, nearestDist = i, d
			}
		}
		ordered = append(ordered, remaining[nearestIdx])
		current = remaining[nearestIdx].Position
		remaining = append(remaining[:nearestIdx], remaining[nearestIdx+1:]...)
	}
	return ordered
}

// tourLength returns the total Euclidean path length starting at start
// and visiting stops in order.
func tourLength(start Vec3, stops []Stop) float64 {
	total := 0.0
	prev := start
	for _, s := range stops {
		total += prev.Distance(s.Position)
		prev = s.Position
	}
	return total
}

// improvementThreshold is the minimum length reduction a 2-opt swap
// must achieve to be applied, per §4.4.
const improvementThreshold = 1e-6

// Refine2Opt runs Open-TSP 2-opt refinement over an already-seeded
// tour, with the start position locked at index 0 (i.e. start itself
// is never part of the reordered slice; it only anchors the first
// edge). Iterates until no improving swap exists.
func Refine2Opt(start Vec3, stops []Stop) []Stop {
	tour := append([]Stop(nil), stops...)
	n := len(tour)
	if n < 3 {
		return tour
	}

	improved := true
	for improved {
		improved = false
		for i := 0; i < n-1; i++ {
			a := start
			if i > 0 {
				a = tour[i-1].Position
			}
			b := tour[i].Position

			for j := i + 1; j < n; j++ {
				c := tour[j].Position
				hasD := j < n-1

				oldCost := a.Distance(b)
				newCost := a.Distance(c)
				if hasD {
					d := tour[j+1].Position
					oldCost += c.Distance(d)
					newCost += b.Distance(d)
				}

				if oldCost-newCost > improvementThreshold {
					tour = reverseSegment(tour, i, j)
					b = tour[i].Position
					improved = true
				}
			}
		}
	}
	return tour
}

// reverseSegment returns a copy of tour with the closed interval
// [i, j] reversed — the classic 2-opt move.
func reverseSegment(tour []Stop, i, j int) []Stop {
	out := append([]Stop(nil), tour...)
	for lo, hi := i, j; lo < hi; lo, hi = lo+1, hi-1 {
		out[lo], out[hi] = out[hi], out[lo]
	}
	return out
}

// TourLengthLS returns the tour's total length in light-seconds.
func TourLengthLS(start Vec3, stops []Stop) float64 {
	return tourLength(start, stops) / LightSecond
}

// PlanTour produces the full tour for one sub-system group: seed via
// Nearest-Neighbour, then refine with 2-opt. Returns the ordered
// stops; callers compare TourLengthLS(start, seed) and
// TourLengthLS(start, refined) to check the non-worsening property
// (P7).
func PlanTour(stops []Stop, start Vec3) (seed, refined []Stop) {
	seed = SeedTour(stops, start)
	refined = Refine2Opt(start, seed)
	return seed, refined
}
