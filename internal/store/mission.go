package store

import (
	"fmt"
	"time"

	"github.com/starwatch/voyager/internal/model"
)

// MissionExists reports whether a mission with the given id is
// already stored, used to enforce idempotent inserts across journal
// replays (invariant I6 / P1).
func (s *Store) MissionExists(missionID int64) (bool, error) {
	_, ok, err := SelectScalar(s.db, `SELECT mission_id FROM mission WHERE mission_id = ?`, missionID)
	return ok, err
}

// InsertMission inserts a new mission row. Callers must check
// MissionExists first; inserting a duplicate mission_id is a primary
// key violation since mission_id is the mission's own identifier,
// never a generated row id.
func (s *Store) InsertMission(m model.Mission) error {
	_, err := Store(s.db, "mission", toMissionRow(m))
	return err
}

// ChangeMissionStatus updates a mission's status only (the targeted
// `change_mission_status` update), used for Completed/Failed/
// Abandoned transitions.
func (s *Store) ChangeMissionStatus(missionID int64, status model.MissionStatus) error {
	res, err := s.db.Exec(`UPDATE mission SET status = ? WHERE mission_id = ?`, status.String(), missionID)
	if err != nil {
		return fmt.Errorf("bad_message: change_mission_status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("logic_violation: mission %d not found", missionID)
	}
	return nil
}

// RedirectMission updates status to redirected plus the redirected
// destination fields (the targeted `redirect_mission` update).
func (s *Store) RedirectMission(missionID int64, newSystem, newStation string) error {
	res, err := s.db.Exec(
		`UPDATE mission SET status = ?, redirected_destination_system = ?, redirected_destination_station = ? WHERE mission_id = ?`,
		model.MissionStatusRedirected.String(), newSystem, newStation, missionID,
	)
	if err != nil {
		return fmt.Errorf("bad_message: redirect_mission: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("logic_violation: mission %d not found", missionID)
	}
	return nil
}

// LoadActiveMissions fetches every mission where status = accepted
// and expiry > now, or status = redirected — the §4.9 reload policy.
func (s *Store) LoadActiveMissions(now time.Time) ([]model.Mission, error) {
	rows, err := s.db.Query(`
		SELECT mission_id, status, expiry, faction, type, description, reward,
			target_name, target_type, target_faction,
			destination_system, destination_station, destination_settlement,
			redirected_destination_system, redirected_destination_station,
			count_generic, count_kill, count_passenger
		FROM mission
		WHERE (status = 'accepted' AND expiry > ?) OR status = 'redirected'
	`, now.UTC().Format("2006-01-02T15:04:05Z"))
	if err != nil {
		return nil, fmt.Errorf("bad_message: load_missions: %w", err)
	}
	defer rows.Close()

	var out []model.Mission
	for rows.Next() {
		var r missionRow
		var expiryStr string
		if err := rows.Scan(
			&r.MissionID, &r.Status, &expiryStr, &r.Faction, &r.Type, &r.Description, &r.Reward,
			&r.TargetName, &r.TargetType, &r.TargetFaction,
			&r.DestinationSystem, &r.DestinationStation, &r.DestinationSettlement,
			&r.RedirectedDestinationSystem, &r.RedirectedDestinationStation,
			&r.CountGeneric, &r.CountKill, &r.CountPassenger,
		); err != nil {
			return nil, fmt.Errorf("bad_message: scan mission row: %w", err)
		}
		if t, err := time.Parse("2006-01-02T15:04:05Z", expiryStr); err == nil {
			r.Expiry = t
		}
		out = append(out, r.toModel())
	}
	return out, rows.Err()
}

// MassacreTallies aggregates kill-type missions among active into the
// massacre view of §4.9: grouped by (destination_system, faction),
// counting kills_pending (accepted) vs kills_done (redirected).
func MassacreTallies(active []model.Mission) []model.MassacreTally {
	type key struct {
		system  string
		faction string
	}
	byKey := make(map[key]*model.MassacreTally)
	var order []key

	for _, m := range active {
		if m.CountKill == 0 {
			continue
		}
		k := key{system: m.DestinationSystem, faction: m.TargetFaction}
		t, ok := byKey[k]
		if !ok {
			t = &model.MassacreTally{DestinationSystem: m.DestinationSystem, Faction: m.TargetFaction}
			byKey[k] = t
			order = append(order, k)
		}
		if m.Status == model.MissionStatusRedirected {
			t.KillsDone += m.CountKill
		} else {
			t.KillsPending += m.CountKill
		}
	}

	out := make([]model.MassacreTally, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}
	return out
}
