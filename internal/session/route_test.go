package session

import (
	"math"
	"testing"

	"github.com/starwatch/voyager/internal/journal"
	"github.com/starwatch/voyager/internal/model"
)

func TestBuildRouteComputesDistanceFromPrevious(t *testing.T) {
	items := []journal.NavRouteItem{
		{StarSystem: "Sys A", SystemAddress: 1, StarPos: []float64{0, 0, 0}},
		{StarSystem: "Sys B", SystemAddress: 2, StarPos: []float64{3, 0, 4}},
		{StarSystem: "Sys C", SystemAddress: 3, StarPos: []float64{3, 0, 4}},
	}
	route := buildRoute(items)
	if len(route) != 3 {
		t.Fatalf("len(route) = %d, want 3", len(route))
	}
	if route[0].DistanceFromPrevious != 0 {
		t.Errorf("first hop distance = %v, want 0", route[0].DistanceFromPrevious)
	}
	if math.Abs(route[1].DistanceFromPrevious-5) > 1e-9 {
		t.Errorf("second hop distance = %v, want 5", route[1].DistanceFromPrevious)
	}
	if route[2].DistanceFromPrevious != 0 {
		t.Errorf("third hop distance = %v, want 0", route[2].DistanceFromPrevious)
	}
}

func TestBuildRouteShortStarPosYieldsZeroCoordinate(t *testing.T) {
	items := []journal.NavRouteItem{{StarSystem: "Sys A", SystemAddress: 1, StarPos: []float64{1, 2}}}
	route := buildRoute(items)
	if route[0].StarPosition != (model.Coordinate{}) {
		t.Errorf("StarPosition = %+v, want zero value for malformed StarPos", route[0].StarPosition)
	}
}

func TestMarkVisitedMarksUpToAndIncludingMatch(t *testing.T) {
	route := []model.RouteItem{
		{SystemAddress: 1},
		{SystemAddress: 2},
		{SystemAddress: 3},
	}
	markVisited(route, 2)
	if !route[0].Visited || !route[1].Visited {
		t.Error("expected entries 0 and 1 visited")
	}
	if route[2].Visited {
		t.Error("expected entry 2 not visited")
	}
}

func TestMarkVisitedNoMatchLeavesRouteUnchanged(t *testing.T) {
	route := []model.RouteItem{{SystemAddress: 1}, {SystemAddress: 2}}
	markVisited(route, 99)
	for i, r := range route {
		if r.Visited {
			t.Errorf("entry %d unexpectedly visited", i)
		}
	}
}

func TestRouteRemainingAndNext(t *testing.T) {
	route := []model.RouteItem{
		{SystemAddress: 1, Visited: true},
		{SystemAddress: 2, Visited: false},
		{SystemAddress: 3, Visited: false},
	}
	if n := routeRemaining(route); n != 2 {
		t.Errorf("routeRemaining() = %d, want 2", n)
	}
	next, ok := routeNext(route)
	if !ok || next.SystemAddress != 2 {
		t.Errorf("routeNext() = (%+v, %v), want system 2", next, ok)
	}
}

func TestRouteNextEmptyWhenFullyVisited(t *testing.T) {
	route := []model.RouteItem{{SystemAddress: 1, Visited: true}}
	_, ok := routeNext(route)
	if ok {
		t.Error("expected ok=false when every entry is visited")
	}
}

func TestRouteRemainingDistanceSumsUnvisitedOnly(t *testing.T) {
	route := []model.RouteItem{
		{DistanceFromPrevious: 10, Visited: true},
		{DistanceFromPrevious: 5, Visited: false},
		{DistanceFromPrevious: 7, Visited: false},
	}
	if d := routeRemainingDistance(route); d != 12 {
		t.Errorf("routeRemainingDistance() = %v, want 12", d)
	}
}
