package model

// Body is a star or planet within a StarSystem, keyed by BodyID within
// that system. Exactly one of Star or Planet is non-nil, selected by
// Kind.
type Body struct {
	BodyID                 int32
	Name                   string
	ParentPlanetID         *int32
	ParentStarID           *int32
	ParentBaryCentreID     *int32
	DistanceFromArrivalLS  float64
	WasDiscovered          bool

	SemiMajorAxis    float64
	Eccentricity     float64
	OrbitalInclination float64
	Periapsis        float64
	OrbitalPeriod    float64
	RadiusKM         float64

	Kind   BodyKind
	Star   *StarDetails
	Planet *PlanetDetails
}

// BodyKind distinguishes a Body's concrete detail variant.
type BodyKind int

const (
	BodyKindUnknown BodyKind = iota
	BodyKindStar
	BodyKindPlanet
)

// StarDetails holds the fields the journal reports only for stars.
type StarDetails struct {
	StarType           string
	Subclass           int
	StellarMassSolar   float64
	AbsoluteMagnitude  float64
	SurfaceTemperature float64
	Luminosity         string
	RotationPeriod     *float64
	AgeMY              int

	// Value is the exploration sale credits computed by the valuation
	// engine at scan time (C3).
	Value int64
}

// PlanetDetails holds the fields the journal reports only for planets.
type PlanetDetails struct {
	PlanetClass      string
	Atmosphere       string
	AtmosphereType   string
	AtmosphereComposition []AtmosphereElement
	Volcanism        string
	TerraformState   string
	MassEM           float64
	SurfaceGravity   float64
	SurfacePressure  float64
	MassiveIceRatio  float64
	RockRatio        float64
	MetalRatio       float64
	AscendingNode    float64
	MeanAnomaly      float64
	AxialTilt        float64
	RotationPeriod   float64

	Landable      bool
	TidalLock     bool
	WasMapped     bool
	Mapped        bool
	WasFootfalled bool
	Footfalled    bool

	Signals []Signal
	Genuses []string

	// Value is the exploration sale credits computed by the valuation
	// engine at scan time (C3).
	Value int64
}

// ParentRef is one entry of a body's ordered ancestor chain, as
// reported by the journal's Parents array: the chain runs from the
// immediate parent outward to the root star, with exactly one field
// set per entry.
type ParentRef struct {
	PlanetID     *int32
	StarID       *int32
	BaryCentreID *int32
}

// ResolveBodyParents scans an ordered ancestor chain and returns the
// first planet/star/bary-centre id of each kind found anywhere in it.
// A body typically has at most one ancestor of each kind (e.g. a moon's
// chain is [{Planet: P}, {Star: S}]), but the chain is not assumed to be
// well-formed; only the first occurrence of each kind is kept.
func ResolveBodyParents(chain []ParentRef) (parentPlanetID, parentStarID, parentBaryCentreID *int32) {
	for _, p := range chain {
		if p.PlanetID != nil && parentPlanetID == nil {
			parentPlanetID = p.PlanetID
		}
		if p.StarID != nil && parentStarID == nil {
			parentStarID = p.StarID
		}
		if p.BaryCentreID != nil && parentBaryCentreID == nil {
			parentBaryCentreID = p.BaryCentreID
		}
	}
	return
}

// ImmediateParentID returns the id of this body's direct orbital parent
// for chain-position walking. A planet parent is preferred over a star
// parent, which is preferred over a bary-centre parent, when more than
// one is recorded.
func (b Body) ImmediateParentID() *int32 {
	switch {
	case b.ParentPlanetID != nil:
		return b.ParentPlanetID
	case b.ParentStarID != nil:
		return b.ParentStarID
	default:
		return b.ParentBaryCentreID
	}
}

// AtmosphereElement is one gas component of a planet's atmosphere.
type AtmosphereElement struct {
	Name    string
	Percent float64
}

// Signal is a surface or FSS-detected signal (geological, biological,
// human, thargoid, guardian...).
type Signal struct {
	Type  string
	Count int
}

// BaryCentre is the centre of mass of a binary or multi-body orbit; it
// has no physical surface but participates in the parent chain the
// same way a star or planet does.
type BaryCentre struct {
	BodyID             int32
	SemiMajorAxis      float64
	Eccentricity       float64
	OrbitalInclination float64
	Periapsis          float64
	OrbitalPeriod      float64
	ParentStarID       *int32
	ParentBaryCentreID *int32
}

// Ring is keyed by (parent body, name) within a system; the BodyID it
// represents is not known until a detailed surface scan (DSS) reports
// it, hence the pointer.
type Ring struct {
	ParentBodyID int32
	Name         string
	Class        string
	MassMT       float64
	InnerRadius  float64
	OuterRadius  float64
	Signals      []Signal
	BodyID       *int32
}
