package store

import "github.com/starwatch/voyager/internal/model"

// LoadFaction retrieves the stored faction by name, or ok=false if
// absent.
func (s *Store) LoadFaction(name string) (model.Faction, bool, error) {
	rows, err := SelectWhere[factionRow](s.db, "faction_info", "name = ?", name)
	if err != nil {
		return model.Faction{}, false, err
	}
	if len(rows) == 0 {
		return model.Faction{}, false, nil
	}
	return rows[0].toModel(), true, nil
}

// UpsertFaction inserts f if absent, or updates it by row id if
// present and not value-equal (the row-id comparator excludes, per
// §4.5's upsert contract).
func (s *Store) UpsertFaction(f model.Faction) error {
	existing, found, err := s.LoadFaction(f.Name)
	if err != nil {
		return err
	}
	if !found {
		_, err := Store(s.db, "faction_info", toFactionRow(f))
		return err
	}
	if existing.Equal(f) {
		return nil
	}

	var oid int64
	row := s.db.QueryRow(`SELECT oid FROM faction_info WHERE name = ?`, f.Name)
	if err := row.Scan(&oid); err != nil {
		return err
	}
	return UpdatePK(s.db, "faction_info", "oid", oid, toFactionRow(f))
}
