package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/starwatch/voyager/internal/logging"
)

// envelope is the tolerant phase-1 peek: just enough to route the line
// to a concrete decoder without committing to its full shape.
type envelope struct {
	timestamp time.Time
	tag       Tag
	scanType  string
}

// peekEnvelope extracts {timestamp, event, ScanType?} from a raw
// journal line without attempting to parse the rest of it. A missing
// timestamp or event field, or a timestamp that is not RFC 3339, is an
// error; an absent ScanType decodes to the empty string.
func peekEnvelope(line []byte) (envelope, error) {
	ts := gjson.GetBytes(line, "timestamp")
	if !ts.Exists() {
		return envelope{}, fmt.Errorf("missing timestamp field")
	}
	t, err := time.Parse(time.RFC3339, ts.String())
	if err != nil {
		return envelope{}, fmt.Errorf("invalid timestamp %q: %w", ts.String(), err)
	}

	ev := gjson.GetBytes(line, "event")
	if !ev.Exists() {
		return envelope{}, fmt.Errorf("missing event field")
	}

	return envelope{
		timestamp: t,
		tag:       Tag(ev.String()),
		scanType:  gjson.GetBytes(line, "ScanType").String(),
	}, nil
}

// Decode performs the two-phase parse of a single journal line: a
// tolerant peek of {timestamp, event, ScanType}, then a strict
// encoding/json decode into the concrete payload selected by the tag.
// Unrecognised tags return an Event with a nil payload and no error —
// §4.2 requires unknown tags to be silently ignored, not rejected.
func Decode(line []byte) (Event, error) {
	env, err := peekEnvelope(line)
	if err != nil {
		return Event{}, fmt.Errorf("parse error: %w", err)
	}

	out := Event{Timestamp: env.timestamp, Tag: env.tag}

	switch env.tag {
	case TagFSDTarget:
		out.FSDTarget = new(FSDTarget)
		err = json.Unmarshal(line, out.FSDTarget)
	case TagStartJump:
		out.StartJump = new(StartJump)
		err = json.Unmarshal(line, out.StartJump)
	case TagFSDJump:
		out.FSDJump = new(FSDJump)
		err = json.Unmarshal(line, out.FSDJump)
	case TagLocation:
		out.Location = new(Location)
		err = json.Unmarshal(line, out.Location)
	case TagFSSDiscoveryScan:
		out.FSSDiscoveryScan = new(FSSDiscoveryScan)
		err = json.Unmarshal(line, out.FSSDiscoveryScan)
	case TagFSSBodySignals:
		out.FSSBodySignals = new(FSSBodySignals)
		err = json.Unmarshal(line, out.FSSBodySignals)
	case TagSAASignalsFound:
		out.SAASignalsFound = new(SAASignalsFound)
		err = json.Unmarshal(line, out.SAASignalsFound)
	case TagFSSAllBodiesFound:
		out.FSSAllBodiesFound = new(FSSAllBodiesFound)
		err = json.Unmarshal(line, out.FSSAllBodiesFound)
	case TagScan:
		out.Scan = new(Scan)
		err = json.Unmarshal(line, out.Scan)
	case TagScanBaryCentre:
		out.ScanBaryCentre = new(ScanBaryCentre)
		err = json.Unmarshal(line, out.ScanBaryCentre)
	case TagSAAScanComplete:
		out.SAAScanComplete = new(SAAScanComplete)
		err = json.Unmarshal(line, out.SAAScanComplete)
	case TagFuelScoop:
		out.FuelScoop = new(FuelScoop)
		err = json.Unmarshal(line, out.FuelScoop)
	case TagLoadout:
		out.Loadout = new(Loadout)
		err = json.Unmarshal(line, out.Loadout)
	case TagCargo:
		out.Cargo = new(Cargo)
		err = json.Unmarshal(line, out.Cargo)
	case TagMissionAccepted:
		out.MissionAccepted = new(MissionAccepted)
		err = json.Unmarshal(line, out.MissionAccepted)
	case TagMissionCompleted:
		out.MissionCompleted = new(MissionCompleted)
		err = json.Unmarshal(line, out.MissionCompleted)
	case TagMissionAbandoned:
		out.MissionAbandoned = new(MissionAbandoned)
		err = json.Unmarshal(line, out.MissionAbandoned)
	case TagMissionFailed:
		out.MissionFailed = new(MissionFailed)
		err = json.Unmarshal(line, out.MissionFailed)
	case TagMissionRedirected:
		out.MissionRedirected = new(MissionRedirected)
		err = json.Unmarshal(line, out.MissionRedirected)
	case TagMissions:
		out.Missions = new(Missions)
		err = json.Unmarshal(line, out.Missions)
	case TagNavRoute:
		out.NavRoute = new(NavRoute)
		err = json.Unmarshal(line, out.NavRoute)
	case TagNavRouteClear:
		out.NavRouteClear = new(NavRouteClear)
	default:
		// All other tags pass through with no payload; callers switch
		// on out.Tag.
		return out, nil
	}

	if err != nil {
		return Event{}, fmt.Errorf("schema mismatch for %s: %w", env.tag, err)
	}

	return out, nil
}

// DecodeLine is Decode plus the §4.2 failure semantics: a malformed
// line is logged with a bounded excerpt and skipped rather than
// returned as an error, so callers can loop without special-casing
// parse failures.
func DecodeLine(line []byte) (Event, bool) {
	ev, err := Decode(line)
	if err != nil {
		logging.Warn("journal: skipping malformed line", logging.F("error", err), logging.F("excerpt", excerpt(line)))
		return Event{}, false
	}
	return ev, true
}

// excerpt returns the first 40 bytes of line, followed by "..." when
// the line is longer, for diagnostic logging of malformed input without
// flooding logs with whole-line dumps. The excerpt always starts at the
// beginning of the line; it is not positioned at the offset where
// decoding failed.
func excerpt(line []byte) string {
	const radius = 40
	if len(line) <= radius {
		return string(line)
	}
	return string(line[:radius]) + "..."
}
