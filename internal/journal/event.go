package journal

import "time"

// Tag identifies the concrete shape of an Event's payload.
type Tag string

const (
	TagFSDTarget         Tag = "FSDTarget"
	TagStartJump         Tag = "StartJump"
	TagFSDJump           Tag = "FSDJump"
	TagLocation          Tag = "Location"
	TagFSSDiscoveryScan  Tag = "FSSDiscoveryScan"
	TagFSSBodySignals    Tag = "FSSBodySignals"
	TagSAASignalsFound   Tag = "SAASignalsFound"
	TagFSSAllBodiesFound Tag = "FSSAllBodiesFound"
	TagScan              Tag = "Scan"
	TagScanBaryCentre    Tag = "ScanBaryCentre"
	TagSAAScanComplete   Tag = "SAAScanComplete"
	TagFuelScoop         Tag = "FuelScoop"
	TagLoadout           Tag = "Loadout"
	TagCargo             Tag = "Cargo"
	TagMissionAccepted   Tag = "MissionAccepted"
	TagMissionCompleted  Tag = "MissionCompleted"
	TagMissionAbandoned  Tag = "MissionAbandoned"
	TagMissionFailed     Tag = "MissionFailed"
	TagMissionRedirected Tag = "MissionRedirected"
	TagMissions          Tag = "Missions"
	TagNavRoute          Tag = "NavRoute"
	TagNavRouteClear     Tag = "NavRouteClear"
)

// Event is one decoded journal line: a timestamp, its tag, and the
// concrete payload selected by that tag. Exactly one of the payload
// fields is non-nil, matching Tag. Unrecognised tags decode with a nil
// payload and Tag holding the raw string, for the caller to ignore.
type Event struct {
	Timestamp time.Time
	Tag       Tag

	FSDTarget         *FSDTarget
	StartJump         *StartJump
	FSDJump           *FSDJump
	Location          *Location
	FSSDiscoveryScan  *FSSDiscoveryScan
	FSSBodySignals    *FSSBodySignals
	SAASignalsFound   *SAASignalsFound
	FSSAllBodiesFound *FSSAllBodiesFound
	Scan              *Scan
	ScanBaryCentre    *ScanBaryCentre
	SAAScanComplete   *SAAScanComplete
	FuelScoop         *FuelScoop
	Loadout           *Loadout
	Cargo             *Cargo
	MissionAccepted   *MissionAccepted
	MissionCompleted  *MissionCompleted
	MissionAbandoned  *MissionAbandoned
	MissionFailed     *MissionFailed
	MissionRedirected *MissionRedirected
	Missions          *Missions
	NavRoute          *NavRoute
	NavRouteClear     *NavRouteClear
}

// FSDTarget announces the next jump target the player has locked.
type FSDTarget struct {
	Name          string `json:"Name"`
	SystemAddress int64  `json:"SystemAddress"`
	StarClass     string `json:"StarClass"`
}

// StartJump begins a hyperspace or supercruise transition.
type StartJump struct {
	JumpType      string `json:"JumpType"`
	StarSystem    string `json:"StarSystem"`
	SystemAddress int64  `json:"SystemAddress"`
	StarClass     string `json:"StarClass"`
}

// FSDJump is emitted on arrival at a new system.
type FSDJump struct {
	StarSystem    string    `json:"StarSystem"`
	SystemAddress int64     `json:"SystemAddress"`
	StarPos       []float64 `json:"StarPos"`
	StarClass     string    `json:"StarClass"`
	FuelUsed      float64   `json:"FuelUsed"`
	FuelLevel     float64   `json:"FuelLevel"`
	Factions      []JournalFaction `json:"Factions"`
}

// Location is emitted on game load/respawn with the player's current
// system and position.
type Location struct {
	StarSystem    string           `json:"StarSystem"`
	SystemAddress int64            `json:"SystemAddress"`
	StarPos       []float64        `json:"StarPos"`
	StarClass     string           `json:"StarClass"`
	Factions      []JournalFaction `json:"Factions"`
}

// JournalFaction is the faction-standing shape shared by Location and
// FSDJump event payloads.
type JournalFaction struct {
	Name               string  `json:"Name"`
	FactionState        string  `json:"FactionState"`
	Government          string  `json:"Government"`
	Influence           float64 `json:"Influence"`
	Allegiance          string  `json:"Allegiance"`
	Happiness           string  `json:"Happiness"`
	HappinessLocalised string  `json:"Happiness_Localised"`
	MyReputation       float64 `json:"MyReputation"`
}

// FSSDiscoveryScan is the "honk" announcing total body count for a
// system.
type FSSDiscoveryScan struct {
	BodyCount int `json:"BodyCount"`
}

// FSSBodySignals reports a body's FSS-level signal summary.
type FSSBodySignals struct {
	BodyID   int32           `json:"BodyID"`
	BodyName string          `json:"BodyName"`
	Signals  []JournalSignal `json:"Signals"`
}

// JournalSignal is one signal-type/count pair as reported by the
// journal, preferring the localised type name when present.
type JournalSignal struct {
	Type          string `json:"Type"`
	TypeLocalised string `json:"Type_Localised"`
	Count         int    `json:"Count"`
}

// SAASignalsFound reports a DSS-level signal summary, possibly
// including genuses for biological signals.
type SAASignalsFound struct {
	BodyID   int32           `json:"BodyID"`
	BodyName string          `json:"BodyName"`
	Signals  []JournalSignal `json:"Signals"`
	Genuses  []JournalGenus  `json:"Genuses"`
}

// JournalGenus names one localized life taxon.
type JournalGenus struct {
	Genus          string `json:"Genus"`
	GenusLocalised string `json:"Genus_Localised"`
}

// FSSAllBodiesFound marks the system's FSS sweep complete.
type FSSAllBodiesFound struct {
	SystemAddress int64 `json:"SystemAddress"`
	Count         int   `json:"Count"`
}

// Scan is a detailed (FSS or DSS) body scan; ScanType distinguishes
// the two and was the field peeked in phase 1 of decoding.
type Scan struct {
	ScanType      string  `json:"ScanType"`
	BodyName      string  `json:"BodyName"`
	BodyID        int32   `json:"BodyID"`
	Parents       []Parent `json:"Parents"`
	DistanceFromArrivalLS float64 `json:"DistanceFromArrivalLS"`
	WasDiscovered bool    `json:"WasDiscovered"`
	WasMapped     bool    `json:"WasMapped"`

	SemiMajorAxis      float64 `json:"SemiMajorAxis"`
	Eccentricity       float64 `json:"Eccentricity"`
	OrbitalInclination float64 `json:"OrbitalInclination"`
	Periapsis          float64 `json:"Periapsis"`
	OrbitalPeriod      float64 `json:"OrbitalPeriod"`
	Radius             float64 `json:"Radius"`
	AscendingNode      float64 `json:"AscendingNode"`
	MeanAnomaly        float64 `json:"MeanAnomaly"`
	AxialTilt          float64 `json:"AxialTilt"`
	RotationPeriod     float64 `json:"RotationPeriod"`

	// Star fields.
	StarType           string   `json:"StarType"`
	Subclass           int      `json:"Subclass"`
	StellarMass        float64  `json:"StellarMass"`
	AbsoluteMagnitude  float64  `json:"AbsoluteMagnitude"`
	SurfaceTemperature float64  `json:"SurfaceTemperature"`
	Luminosity         string   `json:"Luminosity"`
	AgeMY              int      `json:"Age_MY"`

	// Planet fields.
	PlanetClass        string                   `json:"PlanetClass"`
	Atmosphere         string                   `json:"Atmosphere"`
	AtmosphereType     string                   `json:"AtmosphereType"`
	AtmosphereComposition []JournalAtmosphereElem `json:"AtmosphereComposition"`
	Volcanism          string                   `json:"Volcanism"`
	TerraformState     string                   `json:"TerraformState"`
	Composition        JournalComposition       `json:"Composition"`
	MassEM             float64                  `json:"MassEM"`
	SurfaceGravity     float64                  `json:"SurfaceGravity"`
	SurfacePressure    float64                  `json:"SurfacePressure"`
	Landable           bool                     `json:"Landable"`
	TidalLock          bool                     `json:"TidalLock"`

	Rings []JournalRing `json:"Rings"`
}

// JournalComposition is a planet's ice/rock/metal mass-ratio breakdown.
type JournalComposition struct {
	Ice   float64 `json:"Ice"`
	Rock  float64 `json:"Rock"`
	Metal float64 `json:"Metal"`
}

// Parent is one entry of a Scan event's Parents array; exactly one
// field is non-nil, naming the parent body's kind and id.
type Parent struct {
	PlanetID     *int32 `json:"Planet,omitempty"`
	StarID       *int32 `json:"Star,omitempty"`
	BaryCentreID *int32 `json:"Null,omitempty"`
}

// JournalAtmosphereElem is one gas component reported by a Scan event.
type JournalAtmosphereElem struct {
	Name    string  `json:"Name"`
	Percent float64 `json:"Percent"`
}

// JournalRing is one ring entry attached to a planet/star Scan.
type JournalRing struct {
	Name        string  `json:"Name"`
	RingClass   string  `json:"RingClass"`
	MassMT      float64 `json:"MassMT"`
	InnerRad    float64 `json:"InnerRad"`
	OuterRad    float64 `json:"OuterRad"`
}

// ScanBaryCentre reports an unobserved centre-of-mass's orbital
// elements.
type ScanBaryCentre struct {
	BodyID             int32   `json:"BodyID"`
	SemiMajorAxis      float64 `json:"SemiMajorAxis"`
	Eccentricity       float64 `json:"Eccentricity"`
	OrbitalInclination float64 `json:"OrbitalInclination"`
	Periapsis          float64 `json:"Periapsis"`
	OrbitalPeriod      float64 `json:"OrbitalPeriod"`
	Parents            []Parent `json:"Parents"`
}

// SAAScanComplete marks a DSS probe finished for a body (or ring).
type SAAScanComplete struct {
	BodyName string `json:"BodyName"`
	BodyID   int32  `json:"BodyID"`
}

// FuelScoop reports a scoop event's resulting fuel level.
type FuelScoop struct {
	Scooped float64 `json:"Scooped"`
	Total   float64 `json:"Total"`
}

// Loadout is the full ship module/hull snapshot.
type Loadout struct {
	ShipName   string            `json:"ShipName"`
	HullValue  int64             `json:"HullValue"`
	FuelCapacity FuelCapacity    `json:"FuelCapacity"`
	Modules    []JournalModule   `json:"Modules"`
}

// FuelCapacity is the ship's main/reserve tank sizes.
type FuelCapacity struct {
	Main    float64 `json:"Main"`
	Reserve float64 `json:"Reserve"`
}

// JournalModule is one fitted module slot in a Loadout event.
type JournalModule struct {
	Slot       string  `json:"Slot"`
	Item       string  `json:"Item"`
	On         bool    `json:"On"`
	Priority   int     `json:"Priority"`
	Health     float64 `json:"Health"`
}

// Cargo reports the ship's current cargo item count.
type Cargo struct {
	Count int `json:"Count"`
}

// MissionAccepted is emitted when a mission is taken on.
type MissionAccepted struct {
	MissionID             int64     `json:"MissionID"`
	Faction                string    `json:"Faction"`
	Name                   string    `json:"Name"`
	LocalisedName          string    `json:"LocalisedName"`
	Expiry                 time.Time `json:"Expiry"`
	TargetType             string    `json:"TargetType"`
	TargetFaction          string    `json:"TargetFaction"`
	Target                 string    `json:"Target"`
	DestinationSystem      string    `json:"DestinationSystem"`
	DestinationStation     string    `json:"DestinationStation"`
	DestinationSettlement  string    `json:"DestinationSettlement"`
	Reward                 int64     `json:"Reward"`
	KillCount              int       `json:"KillCount"`
	PassengerCount         int       `json:"PassengerCount"`
	Count                  int       `json:"Count"`
}

// MissionCompleted is emitted when a mission succeeds.
type MissionCompleted struct {
	MissionID int64 `json:"MissionID"`
}

// MissionAbandoned is emitted when the player abandons a mission.
type MissionAbandoned struct {
	MissionID int64 `json:"MissionID"`
}

// MissionFailed is emitted when a mission fails (e.g. expiry).
type MissionFailed struct {
	MissionID int64 `json:"MissionID"`
}

// MissionRedirected is emitted when a mission's destination changes.
type MissionRedirected struct {
	MissionID                    int64  `json:"MissionID"`
	NewDestinationSystem         string `json:"NewDestinationSystem"`
	NewDestinationStation        string `json:"NewDestinationStation"`
}

// Missions is the startup bulk mission-list view.
type Missions struct {
	Active   []MissionsEntry `json:"Active"`
	Failed   []MissionsEntry `json:"Failed"`
	Complete []MissionsEntry `json:"Complete"`
}

// MissionsEntry is one mission reference inside a Missions bulk event.
type MissionsEntry struct {
	MissionID int64 `json:"MissionID"`
	Expiry    time.Time `json:"Expiry"`
}

// NavRoute is emitted when a multi-jump route is plotted; its body is
// usually stored in a companion file, but the contract here covers the
// decoded items regardless of source.
type NavRoute struct {
	Route []NavRouteItem `json:"Route"`
}

// NavRouteItem is one hop of a plotted route.
type NavRouteItem struct {
	StarSystem    string    `json:"StarSystem"`
	SystemAddress int64     `json:"SystemAddress"`
	StarPos       []float64 `json:"StarPos"`
	StarClass     string    `json:"StarClass"`
}

// NavRouteClear is emitted when the plotted route is cancelled.
type NavRouteClear struct{}
