package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/starwatch/voyager/internal/journal"
	"github.com/starwatch/voyager/internal/model"
	"github.com/starwatch/voyager/internal/store"
)

func newTestMachine(t *testing.T) (*machine, *store.Store, *model.SessionState) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "voyager.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	state := model.NewSessionState()
	m := newMachine(db, state, newNotifier())
	return m, db, state
}

func TestLocationCreatesSystemAndClearsBuffer(t *testing.T) {
	m, _, state := newTestMachine(t)
	state.BufferedSignals[7] = model.BufferedSignal{Signals: []model.Signal{{Type: "stale", Count: 1}}}

	err := m.Apply(journal.Event{Tag: journal.TagLocation, Location: &journal.Location{
		StarSystem: "Sys A", SystemAddress: 1, StarPos: []float64{1, 2, 3}, StarClass: "K",
	}})
	if err != nil {
		t.Fatalf("Apply(Location) error = %v", err)
	}
	if state.CurrentSystem == nil || state.CurrentSystem.SystemAddress != 1 {
		t.Fatalf("CurrentSystem = %+v, want system 1", state.CurrentSystem)
	}
	if len(state.BufferedSignals) != 0 {
		t.Errorf("BufferedSignals not cleared on Location: %+v", state.BufferedSignals)
	}
}

func TestFSDJumpMismatchedAddressIsDropped(t *testing.T) {
	m, _, state := newTestMachine(t)
	if err := m.Apply(journal.Event{Tag: journal.TagLocation, Location: &journal.Location{
		StarSystem: "Sys A", SystemAddress: 1, StarPos: []float64{0, 0, 0}, StarClass: "K",
	}}); err != nil {
		t.Fatalf("setup Location error = %v", err)
	}

	err := m.Apply(journal.Event{Tag: journal.TagFSDJump, FSDJump: &journal.FSDJump{
		StarSystem: "Sys B", SystemAddress: 999, StarPos: []float64{1, 1, 1}, StarClass: "M",
	}})
	if err != nil {
		t.Fatalf("Apply(FSDJump) error = %v", err)
	}
	if state.CurrentSystem.SystemAddress != 1 {
		t.Errorf("CurrentSystem.SystemAddress = %d, want unchanged 1", state.CurrentSystem.SystemAddress)
	}
}

func TestScanAfterFSSCompleteIsIgnored(t *testing.T) {
	m, _, state := newTestMachine(t)
	mustApply(t, m, journal.Event{Tag: journal.TagLocation, Location: &journal.Location{
		StarSystem: "Sys A", SystemAddress: 1, StarPos: []float64{0, 0, 0}, StarClass: "K",
	}})
	mustApply(t, m, journal.Event{Tag: journal.TagFSSAllBodiesFound, FSSAllBodiesFound: &journal.FSSAllBodiesFound{
		SystemAddress: 1, Count: 0,
	}})

	err := m.Apply(journal.Event{Tag: journal.TagScan, Scan: &journal.Scan{BodyID: 1, BodyName: "Sys A 1", PlanetClass: "Rocky body"}})
	if err != nil {
		t.Fatalf("Apply(Scan) error = %v", err)
	}
	if state.CurrentSystem.HasBody(1) {
		t.Error("expected scan to be dropped once FSS complete (I1)")
	}
}

func TestScanSameBodyIDTwiceInsertsOnce(t *testing.T) {
	m, _, state := newTestMachine(t)
	mustApply(t, m, journal.Event{Tag: journal.TagLocation, Location: &journal.Location{
		StarSystem: "Sys A", SystemAddress: 1, StarPos: []float64{0, 0, 0}, StarClass: "K",
	}})
	scan := journal.Event{Tag: journal.TagScan, Scan: &journal.Scan{BodyID: 1, BodyName: "Sys A 1", PlanetClass: "Rocky body"}}
	mustApply(t, m, scan)
	mustApply(t, m, scan)

	if len(state.CurrentSystem.Bodies) != 1 {
		t.Fatalf("len(Bodies) = %d, want 1 (I2 at-most-once insert)", len(state.CurrentSystem.Bodies))
	}
}

func TestScanCapturesCompositionRatios(t *testing.T) {
	m, _, state := newTestMachine(t)
	mustApply(t, m, journal.Event{Tag: journal.TagLocation, Location: &journal.Location{
		StarSystem: "Sys A", SystemAddress: 1, StarPos: []float64{0, 0, 0}, StarClass: "K",
	}})
	mustApply(t, m, journal.Event{Tag: journal.TagScan, Scan: &journal.Scan{
		BodyID: 1, BodyName: "Sys A 1", PlanetClass: "Rocky body",
		Composition: journal.JournalComposition{Ice: 0.1, Rock: 0.7, Metal: 0.2},
	}})

	body, ok := state.CurrentSystem.BodyByID(1)
	if !ok || body.Planet == nil {
		t.Fatal("expected body 1 with planet details")
	}
	if body.Planet.MassiveIceRatio != 0.1 || body.Planet.RockRatio != 0.7 || body.Planet.MetalRatio != 0.2 {
		t.Errorf("composition ratios = ice %v rock %v metal %v, want 0.1/0.7/0.2",
			body.Planet.MassiveIceRatio, body.Planet.RockRatio, body.Planet.MetalRatio)
	}
}

func TestScanCapturesStarAge(t *testing.T) {
	m, _, state := newTestMachine(t)
	mustApply(t, m, journal.Event{Tag: journal.TagLocation, Location: &journal.Location{
		StarSystem: "Sys A", SystemAddress: 1, StarPos: []float64{0, 0, 0}, StarClass: "K",
	}})
	mustApply(t, m, journal.Event{Tag: journal.TagScan, Scan: &journal.Scan{
		BodyID: 0, BodyName: "Sys A", StarType: "K", AgeMY: 4500,
	}})

	body, ok := state.CurrentSystem.BodyByID(0)
	if !ok || body.Star == nil {
		t.Fatal("expected body 0 with star details")
	}
	if body.Star.AgeMY != 4500 {
		t.Errorf("AgeMY = %d, want 4500", body.Star.AgeMY)
	}
}

// TestScan_PersistsAfterBufferMerge pins the resolution of the "scan
// persistence ordering" design question: buffered signals/genuses for a
// body arrive before the Scan does, and must already be present on the
// in-memory Body at the moment it is first persisted, so storage and
// memory never disagree.
func TestScan_PersistsAfterBufferMerge(t *testing.T) {
	m, db, state := newTestMachine(t)
	mustApply(t, m, journal.Event{Tag: journal.TagLocation, Location: &journal.Location{
		StarSystem: "Sys A", SystemAddress: 1, StarPos: []float64{0, 0, 0}, StarClass: "K",
	}})

	mustApply(t, m, journal.Event{Tag: journal.TagSAASignalsFound, SAASignalsFound: &journal.SAASignalsFound{
		BodyID:   1,
		BodyName: "Sys A 1",
		Signals:  []journal.JournalSignal{{Type: "$SAA_SignalType_Biological;", Count: 2}},
		Genuses:  []journal.JournalGenus{{Genus: "$Codex_Ent_Bacterial_Genus_Name;"}},
	}})
	if _, ok := state.BufferedSignals[1]; !ok {
		t.Fatal("expected signal to be buffered ahead of Scan")
	}

	mustApply(t, m, journal.Event{Tag: journal.TagScan, Scan: &journal.Scan{
		BodyID: 1, BodyName: "Sys A 1", PlanetClass: "Rocky body",
	}})

	body, ok := state.CurrentSystem.BodyByID(1)
	if !ok || body.Planet == nil {
		t.Fatal("expected body 1 to be present with planet details")
	}
	if len(body.Planet.Signals) != 1 || len(body.Planet.Genuses) != 1 {
		t.Fatalf("in-memory body missing merged buffer: signals=%v genuses=%v", body.Planet.Signals, body.Planet.Genuses)
	}
	if _, buffered := state.BufferedSignals[1]; buffered {
		t.Error("buffer entry should be consumed once merged")
	}

	loaded, found, err := db.LoadSystem(1)
	if err != nil || !found {
		t.Fatalf("LoadSystem() error = %v, found = %v", err, found)
	}
	stored, ok := loaded.BodyByID(1)
	if !ok || stored.Planet == nil {
		t.Fatal("expected stored body 1 with planet details")
	}
	if len(stored.Planet.Signals) != 1 {
		t.Fatalf("stored body signals = %v, want the buffered signal persisted with the body row", stored.Planet.Signals)
	}
}

func TestSAAScanCompleteBackfillsRingBodyID(t *testing.T) {
	m, _, state := newTestMachine(t)
	mustApply(t, m, journal.Event{Tag: journal.TagLocation, Location: &journal.Location{
		StarSystem: "Sys A", SystemAddress: 1, StarPos: []float64{0, 0, 0}, StarClass: "K",
	}})
	mustApply(t, m, journal.Event{Tag: journal.TagScan, Scan: &journal.Scan{
		BodyID: 1, BodyName: "Sys A 1", PlanetClass: "Rocky body",
		Rings: []journal.JournalRing{{Name: "Sys A 1 A Ring", RingClass: "eRingClass_Rocky"}},
	}})

	err := m.Apply(journal.Event{Tag: journal.TagSAAScanComplete, SAAScanComplete: &journal.SAAScanComplete{
		BodyName: "Sys A 1 A Ring", BodyID: 2,
	}})
	if err != nil {
		t.Fatalf("Apply(SAAScanComplete) error = %v", err)
	}
	ring, found := state.CurrentSystem.RingByParent(1, "Sys A 1 A Ring")
	if !found {
		t.Fatal("expected ring to be present")
	}
	if ring.BodyID == nil || *ring.BodyID != 2 {
		t.Fatalf("ring.BodyID = %v, want pointer to 2", ring.BodyID)
	}
}

func TestSAAScanCompleteRingBackfillLogicViolationIsDropped(t *testing.T) {
	m, _, state := newTestMachine(t)
	mustApply(t, m, journal.Event{Tag: journal.TagLocation, Location: &journal.Location{
		StarSystem: "Sys A", SystemAddress: 1, StarPos: []float64{0, 0, 0}, StarClass: "K",
	}})
	mustApply(t, m, journal.Event{Tag: journal.TagScan, Scan: &journal.Scan{
		BodyID: 1, BodyName: "Sys A 1", PlanetClass: "Rocky body",
	}})

	err := m.Apply(journal.Event{Tag: journal.TagSAAScanComplete, SAAScanComplete: &journal.SAAScanComplete{
		BodyName: "Sys A 1 A Ring", BodyID: 2,
	}})
	if err != nil {
		t.Fatalf("expected logic violation to be swallowed, got error = %v", err)
	}
	if state.CurrentSystem.HasBody(2) {
		t.Error("expected no side effect from an unmatched ring backfill")
	}
}

func TestMissionAcceptedIsIdempotent(t *testing.T) {
	m, _, state := newTestMachine(t)
	accepted := journal.Event{Tag: journal.TagMissionAccepted, MissionAccepted: &journal.MissionAccepted{
		MissionID: 42, Name: "Mission_Massacre", Faction: "Faction A",
		Expiry: time.Now().Add(24 * time.Hour),
	}}
	mustApply(t, m, accepted)
	mustApply(t, m, accepted)

	if len(state.Missions) != 1 {
		t.Fatalf("len(Missions) = %d, want 1 (I6 at-most-once insert)", len(state.Missions))
	}
}

func TestMissionRedirectedUnknownMissionDropped(t *testing.T) {
	m, _, state := newTestMachine(t)
	err := m.Apply(journal.Event{Tag: journal.TagMissionRedirected, MissionRedirected: &journal.MissionRedirected{
		MissionID: 1, NewDestinationSystem: "Sys B",
	}})
	if err != nil {
		t.Fatalf("expected logic violation to be swallowed, got error = %v", err)
	}
	if len(state.Missions) != 0 {
		t.Errorf("len(Missions) = %d, want 0", len(state.Missions))
	}
}

func TestNavRouteClearEmptiesRoute(t *testing.T) {
	m, _, state := newTestMachine(t)
	mustApply(t, m, journal.Event{Tag: journal.TagNavRoute, NavRoute: &journal.NavRoute{
		Route: []journal.NavRouteItem{{StarSystem: "Sys A", SystemAddress: 1, StarPos: []float64{0, 0, 0}}},
	}})
	if len(state.Route) != 1 {
		t.Fatalf("len(Route) = %d, want 1", len(state.Route))
	}
	mustApply(t, m, journal.Event{Tag: journal.TagNavRouteClear, NavRouteClear: &journal.NavRouteClear{}})
	if state.Route != nil {
		t.Errorf("Route = %+v, want nil after clear", state.Route)
	}
}

func TestUpsertFactionsSkipsRewriteWhenUnchanged(t *testing.T) {
	m, db, state := newTestMachine(t)
	mustApply(t, m, journal.Event{Tag: journal.TagLocation, Location: &journal.Location{
		StarSystem: "Sys A", SystemAddress: 1, StarPos: []float64{0, 0, 0}, StarClass: "K",
		Factions: []journal.JournalFaction{{Name: "Faction A", Influence: 0.5, Government: "Corporate"}},
	}})
	first, _, err := db.LoadFaction("Faction A")
	if err != nil {
		t.Fatalf("LoadFaction() error = %v", err)
	}

	mustApply(t, m, journal.Event{Tag: journal.TagFSDJump, FSDJump: &journal.FSDJump{
		StarSystem: "Sys A", SystemAddress: 1, StarPos: []float64{0, 0, 0}, StarClass: "K",
		Factions: []journal.JournalFaction{{Name: "Faction A", Influence: 0.5, Government: "Corporate"}},
	}})
	second, _, err := db.LoadFaction("Faction A")
	if err != nil {
		t.Fatalf("LoadFaction() error = %v", err)
	}
	if !first.Equal(second) {
		t.Errorf("faction changed despite identical standing: %+v vs %+v", first, second)
	}
	if len(state.Factions) != 1 {
		t.Fatalf("len(Factions) = %d, want 1", len(state.Factions))
	}
}

func mustApply(t *testing.T, m *machine, ev journal.Event) {
	t.Helper()
	if err := m.Apply(ev); err != nil {
		t.Fatalf("Apply(%s) error = %v", ev.Tag, err)
	}
}
