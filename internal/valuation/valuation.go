// Package valuation computes exploration sale credits for scanned
// bodies and stars, and the low/medium/high class bands used to flag
// high-value systems to the tour planner.
package valuation

import "math"

// classEntry is a per-planet-class {base, terraform_bonus} pair.
type classEntry struct {
	base           float64
	terraformBonus float64
}

// classTable holds the fixed per-class valuation constants.
var classTable = map[string]classEntry{
	"Metal rich body":                          {21790, 0},
	"High metal content body":                  {9693, 93328},
	"Rocky body":                               {300, 93328},
	"Icy body":                                 {300, 0},
	"Rocky ice body":                           {300, 0},
	"Earthlike body":                           {181126, 0},
	"Water world":                              {24831, 116295},
	"Ammonia world":                            {33268, 0},
	"Water giant":                              {1000, 0},
	"Water giant with life":                    {1500, 0},
	"Gas giant with water based life":          {3000, 0},
	"Gas giant with ammonia based life":        {1500, 0},
	"Sudarsky class I gas giant":                {1650, 0},
	"Sudarsky class II gas giant":               {9650, 0},
	"Sudarsky class III gas giant":              {500, 0},
	"Sudarsky class IV gas giant":                {2800, 0},
	"Sudarsky class V gas giant":                 {3100, 0},
	"Helium rich gas giant":                     {3000, 0},
	"Helium gas giant":                          {500, 0},
}

// ScanInput carries the fields the valuation formula needs from a
// scanned planet.
type ScanInput struct {
	PlanetClass     string
	MassEM          float64
	TerraformState  string
	WasDiscovered   bool
	WasMapped       bool
	FirstFootfall   bool
}

// efficiencyBonus is always true for the session's own DSS maps, per
// §4.3: the reference implementation hard-codes this for the live
// session and only varies it for imported third-party map data, which
// this implementation does not ingest.
const efficiencyBonus = true

// BodyValue computes the exploration sale credits for a scanned body.
// Unrecognised classes return 0, matching the spec's "missing classes
// produce 0" rule.
func BodyValue(in ScanInput) int64 {
	entry, ok := classTable[in.PlanetClass]
	if !ok {
		return 0
	}

	q := math.Max(0.3, math.Pow(in.MassEM, 0.2))

	terraform := 0.0
	if in.TerraformState != "" {
		terraform = entry.terraformBonus
	}
	fss := (entry.base + terraform) * q

	dssMultiplier := 10.0 / 3.0
	if efficiencyBonus {
		dssMultiplier *= 1.25
	}
	dss := fss * dssMultiplier

	firstDiscoverer := !in.WasDiscovered
	firstMapper := !in.WasMapped

	var final float64
	switch {
	case firstDiscoverer && firstMapper:
		final = (fss + dss) * 3.695244
	case firstDiscoverer:
		final = fss*2.6 + dss
	case firstMapper:
		final = fss + dss*3.695244
	default:
		final = fss + dss
	}

	return int64(math.Max(500, math.Round(final)))
}

// starBaseValue is the fixed per-type base used by StarValue.
func starBaseValue(starType string) float64 {
	switch {
	case len(starType) > 0 && starType[0] == 'D':
		return 14057
	case starType == "Neutron" || starType == "BlackHole":
		return 22628
	case containsSuperGiant(starType):
		return 33
	default:
		return 1200
	}
}

func containsSuperGiant(s string) bool {
	const needle = "SuperGiant"
	if len(s) < len(needle) {
		return false
	}
	for i := 0; i+len(needle) <= len(s); i++ {
		if s[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

// StarValue computes the exploration sale credits for a scanned star.
func StarValue(starType string, stellarMassSolar float64) int64 {
	base := starBaseValue(starType)
	final := base + stellarMassSolar*base/66.25
	return int64(math.Round(final))
}

// Band is the low/medium/high class tag used to flag a body or star
// for the tour planner.
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// ClassBand buckets a computed value into its display band.
func ClassBand(value int64) Band {
	switch {
	case value > 400000:
		return BandHigh
	case value > 200000:
		return BandMedium
	default:
		return BandLow
	}
}
