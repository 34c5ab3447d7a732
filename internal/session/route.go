package session

import (
	"math"

	"github.com/starwatch/voyager/internal/journal"
	"github.com/starwatch/voyager/internal/model"
)

// buildRoute converts a decoded NavRoute event into the plotted-route
// view (C8), computing each hop's distance from the previous star
// position in light-years per §3's RouteItem.
func buildRoute(items []journal.NavRouteItem) []model.RouteItem {
	route := make([]model.RouteItem, len(items))
	var prev model.Coordinate
	for i, it := range items {
		pos := coordinateFromStarPos(it.StarPos)
		dist := 0.0
		if i > 0 {
			dist = distanceLY(prev, pos)
		}
		route[i] = model.RouteItem{
			SystemName:           it.StarSystem,
			SystemAddress:        it.SystemAddress,
			StarPosition:         pos,
			StarClass:            it.StarClass,
			DistanceFromPrevious: dist,
		}
		prev = pos
	}
	return route
}

func coordinateFromStarPos(pos []float64) model.Coordinate {
	if len(pos) < 3 {
		return model.Coordinate{}
	}
	return model.Coordinate{X: pos[0], Y: pos[1], Z: pos[2]}
}

func distanceLY(a, b model.Coordinate) float64 {
	dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// markVisited marks every route entry up to and including the one
// matching systemAddress as visited (C8). Entries are matched by
// SystemAddress; a route with no matching entry is left unchanged.
func markVisited(route []model.RouteItem, systemAddress int64) {
	for i := range route {
		if route[i].SystemAddress == systemAddress {
			for j := 0; j <= i; j++ {
				route[j].Visited = true
			}
			return
		}
	}
}

// routeRemaining reports the count of unvisited route entries.
func routeRemaining(route []model.RouteItem) int {
	n := 0
	for _, r := range route {
		if !r.Visited {
			n++
		}
	}
	return n
}

// routeNext returns the first unvisited route entry, or ok=false if the
// route is empty or fully visited.
func routeNext(route []model.RouteItem) (model.RouteItem, bool) {
	for _, r := range route {
		if !r.Visited {
			return r, true
		}
	}
	return model.RouteItem{}, false
}

// routeRemainingDistance sums DistanceFromPrevious over unvisited
// entries, the "total remaining distance" of spec scenario 6.
func routeRemainingDistance(route []model.RouteItem) float64 {
	total := 0.0
	for _, r := range route {
		if !r.Visited {
			total += r.DistanceFromPrevious
		}
	}
	return total
}
