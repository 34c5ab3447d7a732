package store

import (
	"time"

	"github.com/starwatch/voyager/internal/model"
)

// Row types mirror the schema in schema.sql one field at a time via
// `db` tags; conversion to/from internal/model happens in this file
// rather than inside the domain types themselves, so the domain model
// stays free of storage concerns (the same split the teacher draws
// between its api.Issue and db.Issue types).

type starSystemRow struct {
	SystemAddress int64   `db:"system_address,pk"`
	Name          string  `db:"name"`
	StarClass     string  `db:"star_class"`
	CoordX        float64 `db:"coord_x"`
	CoordY        float64 `db:"coord_y"`
	CoordZ        float64 `db:"coord_z"`
	FSSComplete   bool    `db:"fss_complete"`
}

func toStarSystemRow(s model.StarSystem) starSystemRow {
	return starSystemRow{
		SystemAddress: s.SystemAddress,
		Name:          s.Name,
		StarClass:     s.StarClass,
		CoordX:        s.Coordinate.X,
		CoordY:        s.Coordinate.Y,
		CoordZ:        s.Coordinate.Z,
		FSSComplete:   s.FSSComplete,
	}
}

func (r starSystemRow) toModel() model.StarSystem {
	return model.StarSystem{
		SystemAddress: r.SystemAddress,
		Name:          r.Name,
		StarClass:     r.StarClass,
		Coordinate:    model.Coordinate{X: r.CoordX, Y: r.CoordY, Z: r.CoordZ},
		FSSComplete:   r.FSSComplete,
	}
}

type baryCentreRow struct {
	OID                *int64  `db:"oid,pk"`
	SystemAddress      int64   `db:"system_address"`
	BodyID             int32   `db:"body_id"`
	SemiMajorAxis      float64 `db:"semi_major_axis"`
	Eccentricity       float64 `db:"eccentricity"`
	OrbitalInclination float64 `db:"orbital_inclination"`
	Periapsis          float64 `db:"periapsis"`
	OrbitalPeriod      float64 `db:"orbital_period"`
	ParentStarID       *int32  `db:"parent_star_id"`
	ParentBaryCentreID *int32  `db:"parent_bary_centre_id"`
}

func toBaryCentreRow(systemAddress int64, b model.BaryCentre) baryCentreRow {
	return baryCentreRow{
		SystemAddress:      systemAddress,
		BodyID:             b.BodyID,
		SemiMajorAxis:      b.SemiMajorAxis,
		Eccentricity:       b.Eccentricity,
		OrbitalInclination: b.OrbitalInclination,
		Periapsis:          b.Periapsis,
		OrbitalPeriod:      b.OrbitalPeriod,
		ParentStarID:       b.ParentStarID,
		ParentBaryCentreID: b.ParentBaryCentreID,
	}
}

func (r baryCentreRow) toModel() model.BaryCentre {
	return model.BaryCentre{
		BodyID:             r.BodyID,
		SemiMajorAxis:      r.SemiMajorAxis,
		Eccentricity:       r.Eccentricity,
		OrbitalInclination: r.OrbitalInclination,
		Periapsis:          r.Periapsis,
		OrbitalPeriod:      r.OrbitalPeriod,
		ParentStarID:       r.ParentStarID,
		ParentBaryCentreID: r.ParentBaryCentreID,
	}
}

type bodyRow struct {
	OID                   *int64  `db:"oid,pk"`
	SystemAddress         int64   `db:"system_address"`
	BodyID                int32   `db:"body_id"`
	Name                  string  `db:"name"`
	Kind                  string  `db:"kind"`
	ParentPlanetID        *int32  `db:"parent_planet_id"`
	ParentStarID          *int32  `db:"parent_star_id"`
	ParentBaryCentreID    *int32  `db:"parent_bary_centre_id"`
	DistanceFromArrivalLS float64 `db:"distance_from_arrival_ls"`
	WasDiscovered         bool    `db:"was_discovered"`
	SemiMajorAxis         float64 `db:"semi_major_axis"`
	Eccentricity          float64 `db:"eccentricity"`
	OrbitalInclination    float64 `db:"orbital_inclination"`
	Periapsis             float64 `db:"periapsis"`
	OrbitalPeriod         float64 `db:"orbital_period"`
	RadiusKM              float64 `db:"radius_km"`
}

func toBodyRow(systemAddress int64, b model.Body) bodyRow {
	kind := "unknown"
	switch b.Kind {
	case model.BodyKindStar:
		kind = "star"
	case model.BodyKindPlanet:
		kind = "planet"
	}
	return bodyRow{
		SystemAddress:         systemAddress,
		BodyID:                b.BodyID,
		Name:                  b.Name,
		Kind:                  kind,
		ParentPlanetID:        b.ParentPlanetID,
		ParentStarID:          b.ParentStarID,
		ParentBaryCentreID:    b.ParentBaryCentreID,
		DistanceFromArrivalLS: b.DistanceFromArrivalLS,
		WasDiscovered:         b.WasDiscovered,
		SemiMajorAxis:         b.SemiMajorAxis,
		Eccentricity:          b.Eccentricity,
		OrbitalInclination:    b.OrbitalInclination,
		Periapsis:             b.Periapsis,
		OrbitalPeriod:         b.OrbitalPeriod,
		RadiusKM:              b.RadiusKM,
	}
}

func (r bodyRow) toModel() model.Body {
	kind := model.BodyKindUnknown
	switch r.Kind {
	case "star":
		kind = model.BodyKindStar
	case "planet":
		kind = model.BodyKindPlanet
	}
	return model.Body{
		BodyID:                r.BodyID,
		Name:                  r.Name,
		ParentPlanetID:        r.ParentPlanetID,
		ParentStarID:          r.ParentStarID,
		ParentBaryCentreID:    r.ParentBaryCentreID,
		DistanceFromArrivalLS: r.DistanceFromArrivalLS,
		WasDiscovered:         r.WasDiscovered,
		SemiMajorAxis:         r.SemiMajorAxis,
		Eccentricity:          r.Eccentricity,
		OrbitalInclination:    r.OrbitalInclination,
		Periapsis:             r.Periapsis,
		OrbitalPeriod:         r.OrbitalPeriod,
		RadiusKM:              r.RadiusKM,
		Kind:                  kind,
	}
}

type starDetailsRow struct {
	OID                *int64   `db:"oid,pk"`
	BodyOID            int64    `db:"body_oid"`
	StarType           string   `db:"star_type"`
	Subclass           int32    `db:"subclass"`
	StellarMassSolar   float64  `db:"stellar_mass_solar"`
	AbsoluteMagnitude  float64  `db:"absolute_magnitude"`
	SurfaceTemperature float64  `db:"surface_temperature"`
	Luminosity         string   `db:"luminosity"`
	RotationPeriod     *float64 `db:"rotation_period"`
	AgeMY              int32    `db:"age_my"`
	Value              int64    `db:"value"`
}

func toStarDetailsRow(bodyOID int64, d model.StarDetails) starDetailsRow {
	return starDetailsRow{
		BodyOID:            bodyOID,
		StarType:           d.StarType,
		Subclass:           int32(d.Subclass),
		StellarMassSolar:   d.StellarMassSolar,
		AbsoluteMagnitude:  d.AbsoluteMagnitude,
		SurfaceTemperature: d.SurfaceTemperature,
		Luminosity:         d.Luminosity,
		RotationPeriod:     d.RotationPeriod,
		AgeMY:              int32(d.AgeMY),
		Value:              d.Value,
	}
}

func (r starDetailsRow) toModel() model.StarDetails {
	return model.StarDetails{
		StarType:           r.StarType,
		Subclass:           int(r.Subclass),
		StellarMassSolar:   r.StellarMassSolar,
		AbsoluteMagnitude:  r.AbsoluteMagnitude,
		SurfaceTemperature: r.SurfaceTemperature,
		Luminosity:         r.Luminosity,
		RotationPeriod:     r.RotationPeriod,
		AgeMY:              int(r.AgeMY),
		Value:              r.Value,
	}
}

type planetDetailsRow struct {
	OID             *int64  `db:"oid,pk"`
	BodyOID         int64   `db:"body_oid"`
	PlanetClass     string  `db:"planet_class"`
	Atmosphere      string  `db:"atmosphere"`
	AtmosphereType  string  `db:"atmosphere_type"`
	Volcanism       string  `db:"volcanism"`
	TerraformState  string  `db:"terraform_state"`
	MassEM          float64 `db:"mass_em"`
	SurfaceGravity  float64 `db:"surface_gravity"`
	SurfacePressure float64 `db:"surface_pressure"`
	MassiveIceRatio float64 `db:"massive_ice_ratio"`
	RockRatio       float64 `db:"rock_ratio"`
	MetalRatio      float64 `db:"metal_ratio"`
	AscendingNode   float64 `db:"ascending_node"`
	MeanAnomaly     float64 `db:"mean_anomaly"`
	AxialTilt       float64 `db:"axial_tilt"`
	RotationPeriod  float64 `db:"rotation_period"`
	Landable        bool    `db:"landable"`
	TidalLock       bool    `db:"tidal_lock"`
	WasMapped       bool    `db:"was_mapped"`
	Mapped          bool    `db:"mapped"`
	WasFootfalled   bool    `db:"was_footfalled"`
	Footfalled      bool    `db:"footfalled"`
	Value           int64   `db:"value"`
}

func toPlanetDetailsRow(bodyOID int64, d model.PlanetDetails) planetDetailsRow {
	return planetDetailsRow{
		BodyOID:         bodyOID,
		PlanetClass:     d.PlanetClass,
		Atmosphere:      d.Atmosphere,
		AtmosphereType:  d.AtmosphereType,
		Volcanism:       d.Volcanism,
		TerraformState:  d.TerraformState,
		MassEM:          d.MassEM,
		SurfaceGravity:  d.SurfaceGravity,
		SurfacePressure: d.SurfacePressure,
		MassiveIceRatio: d.MassiveIceRatio,
		RockRatio:       d.RockRatio,
		MetalRatio:      d.MetalRatio,
		AscendingNode:   d.AscendingNode,
		MeanAnomaly:     d.MeanAnomaly,
		AxialTilt:       d.AxialTilt,
		RotationPeriod:  d.RotationPeriod,
		Landable:        d.Landable,
		TidalLock:       d.TidalLock,
		WasMapped:       d.WasMapped,
		Mapped:          d.Mapped,
		WasFootfalled:   d.WasFootfalled,
		Footfalled:      d.Footfalled,
		Value:           d.Value,
	}
}

func (r planetDetailsRow) toModel() model.PlanetDetails {
	return model.PlanetDetails{
		PlanetClass:     r.PlanetClass,
		Atmosphere:      r.Atmosphere,
		AtmosphereType:  r.AtmosphereType,
		Volcanism:       r.Volcanism,
		TerraformState:  r.TerraformState,
		MassEM:          r.MassEM,
		SurfaceGravity:  r.SurfaceGravity,
		SurfacePressure: r.SurfacePressure,
		MassiveIceRatio: r.MassiveIceRatio,
		RockRatio:       r.RockRatio,
		MetalRatio:      r.MetalRatio,
		AscendingNode:   r.AscendingNode,
		MeanAnomaly:     r.MeanAnomaly,
		AxialTilt:       r.AxialTilt,
		RotationPeriod:  r.RotationPeriod,
		Landable:        r.Landable,
		TidalLock:       r.TidalLock,
		WasMapped:       r.WasMapped,
		Mapped:          r.Mapped,
		WasFootfalled:   r.WasFootfalled,
		Footfalled:      r.Footfalled,
		Value:           r.Value,
	}
}

type atmosphereElementRow struct {
	OID     *int64  `db:"oid,pk"`
	BodyOID int64   `db:"body_oid"`
	Name    string  `db:"name"`
	Percent float64 `db:"percent"`
}

func toAtmosphereElementRows(bodyOID int64, elements []model.AtmosphereElement) []atmosphereElementRow {
	rows := make([]atmosphereElementRow, len(elements))
	for i, e := range elements {
		rows[i] = atmosphereElementRow{BodyOID: bodyOID, Name: e.Name, Percent: e.Percent}
	}
	return rows
}

func (r atmosphereElementRow) toModel() model.AtmosphereElement {
	return model.AtmosphereElement{Name: r.Name, Percent: r.Percent}
}

type signalOwnerKind string

const (
	signalOwnerBody signalOwnerKind = "body"
	signalOwnerRing signalOwnerKind = "ring"
)

type signalRow struct {
	OID       *int64 `db:"oid,pk"`
	OwnerOID  int64  `db:"owner_oid"`
	OwnerKind string `db:"owner_kind"`
	Type      string `db:"type"`
	Count     int32  `db:"count"`
}

func toSignalRows(ownerOID int64, kind signalOwnerKind, signals []model.Signal) []signalRow {
	rows := make([]signalRow, len(signals))
	for i, s := range signals {
		rows[i] = signalRow{OwnerOID: ownerOID, OwnerKind: string(kind), Type: s.Type, Count: int32(s.Count)}
	}
	return rows
}

func (r signalRow) toModel() model.Signal {
	return model.Signal{Type: r.Type, Count: int(r.Count)}
}

type genusRow struct {
	OID     *int64 `db:"oid,pk"`
	BodyOID int64  `db:"body_oid"`
	Genus   string `db:"genus"`
}

type ringRow struct {
	OID           *int64 `db:"oid,pk"`
	SystemAddress int64  `db:"system_address"`
	ParentBodyID  int32  `db:"parent_body_id"`
	Name          string `db:"name"`
	Class         string `db:"class"`
	MassMT        float64 `db:"mass_mt"`
	InnerRadius   float64 `db:"inner_radius"`
	OuterRadius   float64 `db:"outer_radius"`
	BodyID        *int32 `db:"body_id"`
}

func toRingRow(systemAddress int64, r model.Ring) ringRow {
	return ringRow{
		SystemAddress: systemAddress,
		ParentBodyID:  r.ParentBodyID,
		Name:          r.Name,
		Class:         r.Class,
		MassMT:        r.MassMT,
		InnerRadius:   r.InnerRadius,
		OuterRadius:   r.OuterRadius,
		BodyID:        r.BodyID,
	}
}

func (r ringRow) toModel() model.Ring {
	return model.Ring{
		ParentBodyID: r.ParentBodyID,
		Name:         r.Name,
		Class:        r.Class,
		MassMT:       r.MassMT,
		InnerRadius:  r.InnerRadius,
		OuterRadius:  r.OuterRadius,
		BodyID:       r.BodyID,
	}
}

type factionRow struct {
	OID        *int64  `db:"oid,pk"`
	Name       string  `db:"name"`
	Influence  float64 `db:"influence"`
	Reputation float64 `db:"reputation"`
	Government string  `db:"government"`
	Allegiance string  `db:"allegiance"`
	Happiness  string  `db:"happiness"`
}

func toFactionRow(f model.Faction) factionRow {
	return factionRow{
		Name:       f.Name,
		Influence:  f.Influence,
		Reputation: f.Reputation,
		Government: f.Government,
		Allegiance: f.Allegiance,
		Happiness:  f.Happiness,
	}
}

func (r factionRow) toModel() model.Faction {
	return model.Faction{
		Name:       r.Name,
		Influence:  r.Influence,
		Reputation: r.Reputation,
		Government: r.Government,
		Allegiance: r.Allegiance,
		Happiness:  r.Happiness,
	}
}

type missionRow struct {
	MissionID                    int64     `db:"mission_id,pk"`
	Status                       string    `db:"status"`
	Expiry                       time.Time `db:"expiry"`
	Faction                      string    `db:"faction"`
	Type                         string    `db:"type"`
	Description                  string    `db:"description"`
	Reward                       int64     `db:"reward"`
	TargetName                   string    `db:"target_name"`
	TargetType                   string    `db:"target_type"`
	TargetFaction                string    `db:"target_faction"`
	DestinationSystem            string    `db:"destination_system"`
	DestinationStation           string    `db:"destination_station"`
	DestinationSettlement        string    `db:"destination_settlement"`
	RedirectedDestinationSystem  string    `db:"redirected_destination_system"`
	RedirectedDestinationStation string    `db:"redirected_destination_station"`
	CountGeneric                 int32     `db:"count_generic"`
	CountKill                    int32     `db:"count_kill"`
	CountPassenger               int32     `db:"count_passenger"`
}

func toMissionRow(m model.Mission) missionRow {
	return missionRow{
		MissionID:                    m.MissionID,
		Status:                       m.Status.String(),
		Expiry:                       m.Expiry,
		Faction:                      m.Faction,
		Type:                         m.Type,
		Description:                  m.Description,
		Reward:                       m.Reward,
		TargetName:                   m.TargetName,
		TargetType:                   m.TargetType,
		TargetFaction:                m.TargetFaction,
		DestinationSystem:            m.DestinationSystem,
		DestinationStation:           m.DestinationStation,
		DestinationSettlement:        m.DestinationSettlement,
		RedirectedDestinationSystem:  m.RedirectedDestinationSystem,
		RedirectedDestinationStation: m.RedirectedDestinationStation,
		CountGeneric:                 int32(m.CountGeneric),
		CountKill:                    int32(m.CountKill),
		CountPassenger:               int32(m.CountPassenger),
	}
}

func missionStatusFromString(s string) model.MissionStatus {
	switch s {
	case "redirected":
		return model.MissionStatusRedirected
	case "completed":
		return model.MissionStatusCompleted
	case "failed":
		return model.MissionStatusFailed
	case "abandoned":
		return model.MissionStatusAbandoned
	default:
		return model.MissionStatusAccepted
	}
}

func (r missionRow) toModel() model.Mission {
	return model.Mission{
		MissionID:                    r.MissionID,
		Status:                       missionStatusFromString(r.Status),
		Expiry:                       r.Expiry,
		Faction:                      r.Faction,
		Type:                         r.Type,
		Description:                  r.Description,
		Reward:                       r.Reward,
		TargetName:                   r.TargetName,
		TargetType:                   r.TargetType,
		TargetFaction:                r.TargetFaction,
		DestinationSystem:            r.DestinationSystem,
		DestinationStation:           r.DestinationStation,
		DestinationSettlement:        r.DestinationSettlement,
		RedirectedDestinationSystem:  r.RedirectedDestinationSystem,
		RedirectedDestinationStation: r.RedirectedDestinationStation,
		CountGeneric:                 int(r.CountGeneric),
		CountKill:                    int(r.CountKill),
		CountPassenger:               int(r.CountPassenger),
	}
}
