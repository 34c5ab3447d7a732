package session

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/starwatch/voyager/internal/journal"
	"github.com/starwatch/voyager/internal/logging"
	"github.com/starwatch/voyager/internal/model"
	"github.com/starwatch/voyager/internal/store"
	"github.com/starwatch/voyager/internal/valuation"
)

// machine applies one decoded journal event at a time to state,
// persisting deltas through db as it goes, per §4.6. It holds no
// goroutines of its own — Apply runs inline on whichever task owns it
// (the façade's ingestion task in production, the test goroutine in
// unit tests).
type machine struct {
	db     *store.Store
	state  *model.SessionState
	notify *notifier
}

func newMachine(db *store.Store, state *model.SessionState, n *notifier) *machine {
	return &machine{db: db, state: state, notify: n}
}

// Apply dispatches ev to its handler. Only genuine storage failures are
// returned as errors — per §7 these are fatal and the caller should stop
// ingestion; logic violations are logged and the event is dropped
// in-line, never surfaced as an error.
func (m *machine) Apply(ev journal.Event) error {
	switch ev.Tag {
	case journal.TagStartJump:
		return m.handleStartJump(ev.StartJump)
	case journal.TagLocation:
		return m.handleLocation(ev.Location)
	case journal.TagFSDJump:
		return m.handleFSDJump(ev.FSDJump)
	case journal.TagFSDTarget:
		return m.handleFSDTarget(ev.FSDTarget)
	case journal.TagFSSDiscoveryScan:
		return m.handleFSSDiscoveryScan(ev.FSSDiscoveryScan)
	case journal.TagScan:
		return m.handleScan(ev.Scan)
	case journal.TagScanBaryCentre:
		return m.handleScanBaryCentre(ev.ScanBaryCentre)
	case journal.TagFSSBodySignals:
		return m.handleFSSBodySignals(ev.FSSBodySignals)
	case journal.TagSAASignalsFound:
		return m.handleSAASignalsFound(ev.SAASignalsFound)
	case journal.TagFSSAllBodiesFound:
		return m.handleFSSAllBodiesFound(ev.FSSAllBodiesFound)
	case journal.TagSAAScanComplete:
		return m.handleSAAScanComplete(ev.SAAScanComplete)
	case journal.TagLoadout:
		return m.handleLoadout(ev.Loadout)
	case journal.TagFuelScoop:
		return m.handleFuelScoop(ev.FuelScoop)
	case journal.TagCargo:
		return m.handleCargo(ev.Cargo)
	case journal.TagMissionAccepted:
		return m.handleMissionAccepted(ev.MissionAccepted)
	case journal.TagMissionCompleted:
		return m.handleMissionTerminal(ev.MissionCompleted.MissionID, model.MissionStatusCompleted)
	case journal.TagMissionFailed:
		return m.handleMissionTerminal(ev.MissionFailed.MissionID, model.MissionStatusFailed)
	case journal.TagMissionAbandoned:
		return m.handleMissionTerminal(ev.MissionAbandoned.MissionID, model.MissionStatusAbandoned)
	case journal.TagMissionRedirected:
		return m.handleMissionRedirected(ev.MissionRedirected)
	case journal.TagMissions:
		return m.handleMissionsBulk(ev.Missions)
	case journal.TagNavRoute:
		return m.handleNavRoute(ev.NavRoute)
	case journal.TagNavRouteClear:
		return m.handleNavRouteClear()
	default:
		return nil
	}
}

func isLogicViolation(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "logic_violation:")
}

// loadOrCreateSystem loads system by address, or constructs and stores
// a minimal record if absent — the StartJump/Location "create on first
// mention" lifecycle of §3.
func (m *machine) loadOrCreateSystem(address int64, name, starClass string) (*model.StarSystem, error) {
	sys, found, err := m.db.LoadSystem(address)
	if err != nil {
		return nil, err
	}
	if found {
		return sys, nil
	}
	sys = &model.StarSystem{SystemAddress: address, Name: name, StarClass: starClass}
	if err := m.db.StoreSystem(*sys); err != nil {
		return nil, err
	}
	return sys, nil
}

func (m *machine) handleStartJump(ev *journal.StartJump) error {
	sys, err := m.loadOrCreateSystem(ev.SystemAddress, ev.StarSystem, ev.StarClass)
	if err != nil {
		return err
	}
	m.state.CurrentSystem = sys
	m.state.CurrentAddress = sys.SystemAddress
	m.state.Factions = nil

	markVisited(m.state.Route, sys.SystemAddress)
	m.notify.publish(SystemChanged)
	m.notify.publish(RouteChanged)
	return nil
}

func (m *machine) handleLocation(ev *journal.Location) error {
	sys, err := m.loadOrCreateSystem(ev.SystemAddress, ev.StarSystem, ev.StarClass)
	if err != nil {
		return err
	}

	coord := coordinateFromStarPos(ev.StarPos)
	if coord != sys.Coordinate || ev.StarClass != sys.StarClass {
		if err := m.db.StoreSystemLocation(sys.SystemAddress, coord, ev.StarClass); err != nil {
			return err
		}
		sys.Coordinate = coord
		sys.StarClass = ev.StarClass
	}

	m.state.CurrentSystem = sys
	m.state.CurrentAddress = sys.SystemAddress
	m.state.BufferedSignals = make(map[int32]model.BufferedSignal) // I4

	if err := m.upsertFactions(ev.Factions); err != nil {
		return err
	}

	markVisited(m.state.Route, sys.SystemAddress)
	m.notify.publish(SystemChanged)
	m.notify.publish(RouteChanged)
	return nil
}

func (m *machine) handleFSDJump(ev *journal.FSDJump) error {
	if m.state.CurrentSystem == nil || m.state.CurrentSystem.SystemAddress != ev.SystemAddress {
		logging.Error("FSDJump system_address mismatch, dropping event",
			logging.F("event_address", ev.SystemAddress))
		return nil
	}
	sys := m.state.CurrentSystem

	coord := coordinateFromStarPos(ev.StarPos)
	if coord != sys.Coordinate || ev.StarClass != sys.StarClass {
		if err := m.db.StoreSystemLocation(sys.SystemAddress, coord, ev.StarClass); err != nil {
			return err
		}
		sys.Coordinate = coord
		sys.StarClass = ev.StarClass
	}

	if m.state.Loadout != nil {
		m.state.Loadout.FuelMain = ev.FuelLevel
		m.notify.publish(ShipChanged)
	}

	if err := m.upsertFactions(ev.Factions); err != nil {
		return err
	}

	markVisited(m.state.Route, sys.SystemAddress)
	m.notify.publish(SystemChanged)
	m.notify.publish(RouteChanged)
	return nil
}

func (m *machine) handleFSDTarget(ev *journal.FSDTarget) error {
	m.state.LastJumpTarget = ev.Name
	m.notify.publish(SystemChanged)
	return nil
}

// handleFSSDiscoveryScan reserves body storage capacity; it mutates no
// persisted state and emits no notification.
func (m *machine) handleFSSDiscoveryScan(ev *journal.FSSDiscoveryScan) error {
	if m.state.CurrentSystem == nil {
		return nil
	}
	sys := m.state.CurrentSystem
	if cap(sys.Bodies) < ev.BodyCount {
		grown := make([]model.Body, len(sys.Bodies), ev.BodyCount)
		copy(grown, sys.Bodies)
		sys.Bodies = grown
	}
	return nil
}

func (m *machine) upsertFactions(jf []journal.JournalFaction) error {
	if len(jf) == 0 {
		return nil
	}
	factions := make([]model.Faction, len(jf))
	for i, f := range jf {
		happiness := f.HappinessLocalised
		if happiness == "" {
			happiness = f.Happiness
		}
		factions[i] = model.Faction{
			Name:       f.Name,
			Influence:  f.Influence,
			Reputation: f.MyReputation,
			Government: f.Government,
			Allegiance: f.Allegiance,
			Happiness:  happiness,
		}
		if err := m.db.UpsertFaction(factions[i]); err != nil {
			return err
		}
	}
	m.state.Factions = factions
	return nil
}

// handleScan applies a detailed (FSS or DSS) body scan: I1 and I2 both
// gate on it, buffered signals merge in before the body is ever
// persisted so storage and memory agree from the first write (the
// pinned resolution of the "scan persistence ordering" design
// question).
func (m *machine) handleScan(ev *journal.Scan) error {
	sys := m.state.CurrentSystem
	if sys == nil {
		return nil
	}
	if sys.FSSComplete { // I1
		return nil
	}
	if sys.HasBody(ev.BodyID) { // I2
		return nil
	}

	body := bodyFromScan(ev)

	if buffered, ok := m.state.BufferedSignals[ev.BodyID]; ok { // I3 / P4
		if body.Planet != nil {
			body.Planet.Signals = append(body.Planet.Signals, buffered.Signals...)
			body.Planet.Genuses = append(body.Planet.Genuses, buffered.Genuses...)
		}
		delete(m.state.BufferedSignals, ev.BodyID)
	}

	if err := m.db.StoreBody(sys.SystemAddress, body); err != nil {
		return err
	}
	sys.Bodies = append(sys.Bodies, body)

	for _, jr := range ev.Rings {
		noBody := int32(-1)
		ring := model.Ring{
			ParentBodyID: ev.BodyID,
			Name:         jr.Name,
			Class:        jr.RingClass,
			MassMT:       jr.MassMT,
			InnerRadius:  jr.InnerRad,
			OuterRadius:  jr.OuterRad,
			BodyID:       &noBody,
		}
		if err := m.db.StoreRing(sys.SystemAddress, ring); err != nil {
			return err
		}
		sys.Rings = append(sys.Rings, ring)
	}

	m.notify.publish(SystemChanged)
	return nil
}

func bodyFromScan(ev *journal.Scan) model.Body {
	parents := make([]model.ParentRef, len(ev.Parents))
	for i, p := range ev.Parents {
		parents[i] = model.ParentRef{PlanetID: p.PlanetID, StarID: p.StarID, BaryCentreID: p.BaryCentreID}
	}
	parentPlanetID, parentStarID, parentBaryID := model.ResolveBodyParents(parents)

	b := model.Body{
		BodyID:                ev.BodyID,
		Name:                  ev.BodyName,
		ParentPlanetID:        parentPlanetID,
		ParentStarID:          parentStarID,
		ParentBaryCentreID:    parentBaryID,
		DistanceFromArrivalLS: ev.DistanceFromArrivalLS,
		WasDiscovered:         ev.WasDiscovered,
		SemiMajorAxis:         ev.SemiMajorAxis,
		Eccentricity:          ev.Eccentricity,
		OrbitalInclination:    ev.OrbitalInclination,
		Periapsis:             ev.Periapsis,
		OrbitalPeriod:         ev.OrbitalPeriod,
		RadiusKM:              ev.Radius,
	}

	if ev.StarType != "" {
		b.Kind = model.BodyKindStar
		rotation := ev.RotationPeriod
		b.Star = &model.StarDetails{
			StarType:           ev.StarType,
			Subclass:           ev.Subclass,
			StellarMassSolar:   ev.StellarMass,
			AbsoluteMagnitude:  ev.AbsoluteMagnitude,
			SurfaceTemperature: ev.SurfaceTemperature,
			Luminosity:         ev.Luminosity,
			RotationPeriod:     &rotation,
			AgeMY:              ev.AgeMY,
			Value:              valuation.StarValue(ev.StarType, ev.StellarMass),
		}
		return b
	}

	b.Kind = model.BodyKindPlanet
	atmos := make([]model.AtmosphereElement, len(ev.AtmosphereComposition))
	for i, a := range ev.AtmosphereComposition {
		atmos[i] = model.AtmosphereElement{Name: a.Name, Percent: a.Percent}
	}
	b.Planet = &model.PlanetDetails{
		PlanetClass:           ev.PlanetClass,
		Atmosphere:            ev.Atmosphere,
		AtmosphereType:        ev.AtmosphereType,
		AtmosphereComposition: atmos,
		Volcanism:             ev.Volcanism,
		TerraformState:        ev.TerraformState,
		MassEM:                ev.MassEM,
		SurfaceGravity:        ev.SurfaceGravity,
		SurfacePressure:       ev.SurfacePressure,
		MassiveIceRatio:       ev.Composition.Ice,
		RockRatio:             ev.Composition.Rock,
		MetalRatio:            ev.Composition.Metal,
		AscendingNode:         ev.AscendingNode,
		MeanAnomaly:           ev.MeanAnomaly,
		AxialTilt:             ev.AxialTilt,
		RotationPeriod:        ev.RotationPeriod,
		Landable:              ev.Landable,
		TidalLock:             ev.TidalLock,
		WasMapped:             ev.WasMapped,
	}
	b.Planet.Value = valuation.BodyValue(valuation.ScanInput{
		PlanetClass:    ev.PlanetClass,
		MassEM:         ev.MassEM,
		TerraformState: ev.TerraformState,
		WasDiscovered:  ev.WasDiscovered,
		WasMapped:      ev.WasMapped,
	})
	return b
}

func (m *machine) handleScanBaryCentre(ev *journal.ScanBaryCentre) error {
	sys := m.state.CurrentSystem
	if sys == nil {
		return nil
	}
	parents := make([]model.ParentRef, len(ev.Parents))
	for i, p := range ev.Parents {
		parents[i] = model.ParentRef{PlanetID: p.PlanetID, StarID: p.StarID, BaryCentreID: p.BaryCentreID}
	}
	_, parentStarID, parentBaryID := model.ResolveBodyParents(parents)

	for _, existing := range sys.BaryCentres {
		if existing.BodyID == ev.BodyID {
			return nil
		}
	}

	b := model.BaryCentre{
		BodyID:             ev.BodyID,
		SemiMajorAxis:      ev.SemiMajorAxis,
		Eccentricity:       ev.Eccentricity,
		OrbitalInclination: ev.OrbitalInclination,
		Periapsis:          ev.Periapsis,
		OrbitalPeriod:      ev.OrbitalPeriod,
		ParentStarID:       parentStarID,
		ParentBaryCentreID: parentBaryID,
	}
	if err := m.db.StoreBaryCentre(sys.SystemAddress, b); err != nil {
		return err
	}
	sys.BaryCentres = append(sys.BaryCentres, b)
	m.notify.publish(SystemChanged)
	return nil
}

func (m *machine) handleFSSBodySignals(ev *journal.FSSBodySignals) error {
	sys := m.state.CurrentSystem
	if sys == nil {
		return nil
	}
	signals := journalSignalsToModel(ev.Signals)

	if !sys.HasBody(ev.BodyID) {
		m.bufferSignals(ev.BodyID, signals, nil)
		return nil
	}
	if err := m.db.StoreBodySignals(sys.SystemAddress, ev.BodyID, signals); err != nil {
		return err
	}
	if body, ok := sys.BodyByID(ev.BodyID); ok && body.Planet != nil {
		body.Planet.Signals = signals
	}
	m.notify.publish(SystemChanged)
	return nil
}

// handleSAASignalsFound attaches DSS-level signals/genuses, routing
// ring-named reports to the ring's own signal list instead of a body.
func (m *machine) handleSAASignalsFound(ev *journal.SAASignalsFound) error {
	sys := m.state.CurrentSystem
	if sys == nil {
		return nil
	}
	signals := journalSignalsToModel(ev.Signals)
	genuses := make([]string, len(ev.Genuses))
	for i, g := range ev.Genuses {
		name := g.GenusLocalised
		if name == "" {
			name = g.Genus
		}
		genuses[i] = name
	}

	if isRingName(ev.BodyName) {
		ring, found := findRingByFullName(sys, ev.BodyName)
		if !found {
			logging.Error("SAASignalsFound ring not found, buffering", logging.F("ring", ev.BodyName))
			m.bufferSignals(ev.BodyID, signals, genuses)
			return nil
		}
		ringOID, found, err := m.db.RingOIDByName(sys.SystemAddress, ring.ParentBodyID, ring.Name)
		if err != nil {
			return err
		}
		if !found {
			logging.Error("SAASignalsFound ring row missing in storage", logging.F("ring", ev.BodyName))
			return nil
		}
		if err := m.db.StoreRingSignals(ringOID, signals); err != nil {
			return err
		}
		ring.Signals = signals
		m.notify.publish(SystemChanged)
		return nil
	}

	if !sys.HasBody(ev.BodyID) {
		m.bufferSignals(ev.BodyID, signals, genuses)
		return nil
	}

	body, _ := sys.BodyByID(ev.BodyID)
	if body.Planet == nil {
		return nil
	}
	if len(signals) != len(body.Planet.Signals) {
		if err := m.db.StoreBodySignals(sys.SystemAddress, ev.BodyID, signals); err != nil {
			return err
		}
		body.Planet.Signals = signals
	}
	body.Planet.Genuses = genuses
	m.notify.publish(SystemChanged)
	return nil
}

func (m *machine) bufferSignals(bodyID int32, signals []model.Signal, genuses []string) {
	existing := m.state.BufferedSignals[bodyID]
	existing.Signals = append(existing.Signals, signals...)
	existing.Genuses = append(existing.Genuses, genuses...)
	m.state.BufferedSignals[bodyID] = existing
}

func journalSignalsToModel(js []journal.JournalSignal) []model.Signal {
	out := make([]model.Signal, len(js))
	for i, s := range js {
		typ := s.TypeLocalised
		if typ == "" {
			typ = s.Type
		}
		out[i] = model.Signal{Type: typ, Count: s.Count}
	}
	return out
}

func findBodyIDByName(sys *model.StarSystem, name string) int32 {
	for _, b := range sys.Bodies {
		if b.Name == name {
			return b.BodyID
		}
	}
	return -1
}

func findRingByFullName(sys *model.StarSystem, name string) (*model.Ring, bool) {
	for i := range sys.Rings {
		if sys.Rings[i].Name == name {
			return &sys.Rings[i], true
		}
	}
	return nil, false
}

func (m *machine) handleFSSAllBodiesFound(ev *journal.FSSAllBodiesFound) error {
	sys := m.state.CurrentSystem
	if sys == nil {
		return nil
	}
	if err := m.db.StoreFSSComplete(sys.SystemAddress); err != nil {
		return err
	}
	sys.FSSComplete = true
	m.notify.publish(SystemChanged)
	return nil
}

// handleSAAScanComplete marks a body mapped, or (for a ring-shaped body
// name) backfills the matching ring's body id — I5.
func (m *machine) handleSAAScanComplete(ev *journal.SAAScanComplete) error {
	sys := m.state.CurrentSystem
	if sys == nil {
		return nil
	}

	if isRingName(ev.BodyName) {
		planetName, _ := planetNameFromRingName(ev.BodyName)
		parentID := findBodyIDByName(sys, planetName)
		if parentID == -1 {
			logging.Error("SAAScanComplete ring backfill: parent body not found", logging.F("ring", ev.BodyName))
			return nil
		}
		ring, found := sys.RingByParent(parentID, ev.BodyName)
		if !found {
			logging.Error("SAAScanComplete ring backfill: ring not found", logging.F("ring", ev.BodyName))
			return nil
		}
		err := m.db.StoreRingBodyID(sys.SystemAddress, parentID, ev.BodyName, ev.BodyID)
		if isLogicViolation(err) {
			logging.Error("SAAScanComplete ring backfill logic violation", logging.F("ring", ev.BodyName), logging.F("err", err.Error()))
			return nil
		}
		if err != nil {
			return err
		}
		bodyID := ev.BodyID
		ring.BodyID = &bodyID
		m.notify.publish(SystemChanged)
		return nil
	}

	if err := m.db.StoreDSSComplete(sys.SystemAddress, ev.BodyID); err != nil {
		return err
	}
	if body, ok := sys.BodyByID(ev.BodyID); ok && body.Planet != nil {
		body.Planet.Mapped = true
	}
	m.notify.publish(SystemChanged)
	return nil
}

func (m *machine) handleLoadout(ev *journal.Loadout) error {
	modules := make([]model.ShipModule, len(ev.Modules))
	for i, mod := range ev.Modules {
		modules[i] = model.ShipModule{
			Slot:     mod.Slot,
			Item:     mod.Item,
			On:       mod.On,
			Priority: mod.Priority,
			Health:   mod.Health,
		}
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Priority < modules[j].Priority })

	loadout := &model.ShipLoadout{
		HullValue:   ev.HullValue,
		FuelMain:    ev.FuelCapacity.Main,
		FuelReserve: ev.FuelCapacity.Reserve,
		Modules:     modules,
	}
	if m.state.Loadout != nil {
		loadout.CargoCount = m.state.Loadout.CargoCount
	}
	m.state.Loadout = loadout
	m.notify.publish(ShipChanged)
	return nil
}

func (m *machine) handleFuelScoop(ev *journal.FuelScoop) error {
	if m.state.Loadout == nil {
		m.state.Loadout = &model.ShipLoadout{}
	}
	m.state.Loadout.FuelMain = ev.Total
	m.notify.publish(ShipChanged)
	return nil
}

func (m *machine) handleCargo(ev *journal.Cargo) error {
	if m.state.Loadout == nil {
		m.state.Loadout = &model.ShipLoadout{}
	}
	m.state.Loadout.CargoCount = ev.Count
	m.notify.publish(ShipChanged)
	return nil
}

func (m *machine) handleMissionAccepted(ev *journal.MissionAccepted) error {
	exists, err := m.db.MissionExists(ev.MissionID) // I6
	if err != nil {
		return err
	}
	if !exists {
		mission := model.Mission{
			MissionID:             ev.MissionID,
			Status:                model.MissionStatusAccepted,
			Expiry:                ev.Expiry,
			Faction:                ev.Faction,
			Type:                   ev.Name,
			Description:            ev.LocalisedName,
			Reward:                 ev.Reward,
			TargetName:             ev.Target,
			TargetType:             ev.TargetType,
			TargetFaction:          ev.TargetFaction,
			DestinationSystem:      ev.DestinationSystem,
			DestinationStation:     ev.DestinationStation,
			DestinationSettlement:  ev.DestinationSettlement,
			CountGeneric:           ev.Count,
			CountKill:              ev.KillCount,
			CountPassenger:         ev.PassengerCount,
		}
		if err := m.db.InsertMission(mission); err != nil {
			return err
		}
	}
	return m.reloadMissions()
}

func (m *machine) handleMissionTerminal(missionID int64, status model.MissionStatus) error {
	err := m.db.ChangeMissionStatus(missionID, status)
	if isLogicViolation(err) {
		logging.Error("mission status change: unknown mission", logging.F("mission_id", missionID))
		return m.reloadMissions()
	}
	if err != nil {
		return err
	}
	return m.reloadMissions()
}

func (m *machine) handleMissionRedirected(ev *journal.MissionRedirected) error {
	err := m.db.RedirectMission(ev.MissionID, ev.NewDestinationSystem, ev.NewDestinationStation)
	if isLogicViolation(err) {
		logging.Error("mission redirect: unknown mission", logging.F("mission_id", ev.MissionID))
		return m.reloadMissions()
	}
	if err != nil {
		return err
	}
	return m.reloadMissions()
}

func (m *machine) handleMissionsBulk(ev *journal.Missions) error {
	for _, entry := range ev.Failed {
		err := m.db.ChangeMissionStatus(entry.MissionID, model.MissionStatusFailed)
		if err != nil && !isLogicViolation(err) {
			return err
		}
	}
	for _, entry := range ev.Complete {
		err := m.db.ChangeMissionStatus(entry.MissionID, model.MissionStatusCompleted)
		if err != nil && !isLogicViolation(err) {
			return err
		}
	}
	return m.reloadMissions()
}

func (m *machine) reloadMissions() error {
	active, err := m.db.LoadActiveMissions(time.Now())
	if err != nil {
		return err
	}
	m.state.Missions = active
	m.notify.publish(MissionsChanged)
	return nil
}

func (m *machine) handleNavRoute(ev *journal.NavRoute) error {
	m.state.Route = buildRoute(ev.Route)
	if m.state.CurrentSystem != nil {
		markVisited(m.state.Route, m.state.CurrentSystem.SystemAddress)
	}
	m.notify.publish(RouteChanged)
	return nil
}

func (m *machine) handleNavRouteClear() error {
	m.state.Route = nil
	m.notify.publish(RouteChanged)
	return nil
}

// categoryOf returns the error category ("bad_message", "io_error" or
// "logic_violation") taken from err's message prefix, or "unknown: "
// plus the message when no known prefix is present. Nothing in the
// package calls it.
func categoryOf(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, prefix := range []string{"bad_message:", "io_error:", "logic_violation:"} {
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimSuffix(prefix, ":")
		}
	}
	return fmt.Sprintf("unknown: %s", msg)
}
