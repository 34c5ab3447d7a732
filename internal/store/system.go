package store

import (
	"fmt"

	"github.com/starwatch/voyager/internal/model"
)

// StoreSystem inserts a new star system row. Callers check existence
// via LoadSystem first — §4.6's StartJump/Location handlers only
// construct a minimal system when the load misses.
func (s *Store) StoreSystem(sys model.StarSystem) error {
	_, err := Store(s.db, "star_system", toStarSystemRow(sys))
	return err
}

// StoreSystemLocation updates the coordinate and star class of an
// existing system (the targeted `store_system_location` update from
// §4.5), used when Location/FSDJump observes a StarPos that wasn't
// known at system creation.
func (s *Store) StoreSystemLocation(systemAddress int64, coord model.Coordinate, starClass string) error {
	_, err := s.db.Exec(
		`UPDATE star_system SET coord_x = ?, coord_y = ?, coord_z = ?, star_class = ? WHERE system_address = ?`,
		coord.X, coord.Y, coord.Z, starClass, systemAddress,
	)
	if err != nil {
		return fmt.Errorf("bad_message: store_system_location: %w", err)
	}
	return nil
}

// StoreFSSComplete sets the fss_complete flag, per §4.6's
// FSSAllBodiesFound handler.
func (s *Store) StoreFSSComplete(systemAddress int64) error {
	_, err := s.db.Exec(`UPDATE star_system SET fss_complete = 1 WHERE system_address = ?`, systemAddress)
	if err != nil {
		return fmt.Errorf("bad_message: store_fss_complete: %w", err)
	}
	return nil
}

// LoadSystem returns the system identified by systemAddress, with its
// bodies (each with star/planet details, signals, genuses), bary
// centres, and rings (each with its signals) referenced-hydrated, per
// §4.5's load_system contract. Returns (nil, false, nil) if absent.
func (s *Store) LoadSystem(systemAddress int64) (*model.StarSystem, bool, error) {
	rows, err := SelectWhere[starSystemRow](s.db, "star_system", "system_address = ?", systemAddress)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	sys := rows[0].toModel()

	bodyRows, err := SelectWhere[bodyRow](s.db, "body", "system_address = ?", systemAddress)
	if err != nil {
		return nil, false, err
	}
	for _, br := range bodyRows {
		body := br.toModel()
		if br.OID == nil {
			continue
		}
		bodyOID := *br.OID

		switch body.Kind {
		case model.BodyKindStar:
			details, err := SelectWhere[starDetailsRow](s.db, "star_details", "body_oid = ?", bodyOID)
			if err != nil {
				return nil, false, err
			}
			if len(details) > 0 {
				sd := details[0].toModel()
				body.Star = &sd
			}
		case model.BodyKindPlanet:
			details, err := SelectWhere[planetDetailsRow](s.db, "planet_details", "body_oid = ?", bodyOID)
			if err != nil {
				return nil, false, err
			}
			if len(details) > 0 {
				pd := details[0].toModel()

				atmoRows, err := SelectWhere[atmosphereElementRow](s.db, "atmosphere_element", "body_oid = ?", bodyOID)
				if err != nil {
					return nil, false, err
				}
				for _, ar := range atmoRows {
					pd.AtmosphereComposition = append(pd.AtmosphereComposition, ar.toModel())
				}

				sigRows, err := SelectWhere[signalRow](s.db, "signal", "owner_oid = ? AND owner_kind = ?", bodyOID, string(signalOwnerBody))
				if err != nil {
					return nil, false, err
				}
				for _, sr := range sigRows {
					pd.Signals = append(pd.Signals, sr.toModel())
				}

				genusRows, err := SelectWhere[genusRow](s.db, "genus", "body_oid = ?", bodyOID)
				if err != nil {
					return nil, false, err
				}
				for _, gr := range genusRows {
					pd.Genuses = append(pd.Genuses, gr.Genus)
				}

				body.Planet = &pd
			}
		}

		sys.Bodies = append(sys.Bodies, body)
	}

	baryRows, err := SelectWhere[baryCentreRow](s.db, "bary_centre", "system_address = ?", systemAddress)
	if err != nil {
		return nil, false, err
	}
	for _, r := range baryRows {
		sys.BaryCentres = append(sys.BaryCentres, r.toModel())
	}

	ringRows, err := SelectWhere[ringRow](s.db, "ring", "system_address = ?", systemAddress)
	if err != nil {
		return nil, false, err
	}
	for _, rr := range ringRows {
		ring := rr.toModel()
		if rr.OID != nil {
			sigRows, err := SelectWhere[signalRow](s.db, "signal", "owner_oid = ? AND owner_kind = ?", *rr.OID, string(signalOwnerRing))
			if err != nil {
				return nil, false, err
			}
			for _, sr := range sigRows {
				ring.Signals = append(ring.Signals, sr.toModel())
			}
		}
		sys.Rings = append(sys.Rings, ring)
	}

	return &sys, true, nil
}

// StoreBody inserts a body and its details/atmosphere/signals/genuses,
// propagating the new body's row id as the foreign key for each
// dependent row, per §4.5's insert semantics.
func (s *Store) StoreBody(systemAddress int64, body model.Body) error {
	bodyOID, err := Store(s.db, "body", toBodyRow(systemAddress, body))
	if err != nil {
		return err
	}

	switch {
	case body.Star != nil:
		if _, err := Store(s.db, "star_details", toStarDetailsRow(bodyOID, *body.Star)); err != nil {
			return err
		}
	case body.Planet != nil:
		if _, err := Store(s.db, "planet_details", toPlanetDetailsRow(bodyOID, *body.Planet)); err != nil {
			return err
		}
		for _, el := range toAtmosphereElementRows(bodyOID, body.Planet.AtmosphereComposition) {
			if _, err := Store(s.db, "atmosphere_element", el); err != nil {
				return err
			}
		}
		for _, sig := range toSignalRows(bodyOID, signalOwnerBody, body.Planet.Signals) {
			if _, err := Store(s.db, "signal", sig); err != nil {
				return err
			}
		}
		for _, g := range body.Planet.Genuses {
			if _, err := Store(s.db, "genus", genusRow{BodyOID: bodyOID, Genus: g}); err != nil {
				return err
			}
		}
	}

	return nil
}

// StoreRing inserts a ring attached to a scan, with body_id = -1
// pending DSS, per §3's ring invariant.
func (s *Store) StoreRing(systemAddress int64, ring model.Ring) error {
	_, err := Store(s.db, "ring", toRingRow(systemAddress, ring))
	return err
}

// StoreRingBodyID writes the DSS-observed body id back onto the ring
// identified by (system_address, parent_body_id, name) — the targeted
// `store_ring_body_id` update, and nowhere else (invariant I5).
func (s *Store) StoreRingBodyID(systemAddress int64, parentBodyID int32, name string, bodyID int32) error {
	res, err := s.db.Exec(
		`UPDATE ring SET body_id = ? WHERE system_address = ? AND parent_body_id = ? AND name = ?`,
		bodyID, systemAddress, parentBodyID, name,
	)
	if err != nil {
		return fmt.Errorf("bad_message: store_ring_body_id: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("logic_violation: no ring matched (system=%d, parent=%d, name=%q)", systemAddress, parentBodyID, name)
	}
	return nil
}

// StoreDSSComplete marks a body mapped, in storage (the targeted
// `store_dss_complete` update). The in-memory mark is the caller's
// responsibility (C6).
func (s *Store) StoreDSSComplete(systemAddress int64, bodyID int32) error {
	_, err := s.db.Exec(`
		UPDATE planet_details SET mapped = 1
		WHERE body_oid = (SELECT oid FROM body WHERE system_address = ? AND body_id = ?)
	`, systemAddress, bodyID)
	if err != nil {
		return fmt.Errorf("bad_message: store_dss_complete: %w", err)
	}
	return nil
}

// StoreBodySignals attaches or replaces a body's FSS/DSS signal list
// (replace-if-count-differs semantics are enforced by the caller in
// C6; this always replaces wholesale once the caller has decided to
// write).
func (s *Store) StoreBodySignals(systemAddress int64, bodyID int32, signals []model.Signal) error {
	var bodyOID int64
	row := s.db.QueryRow(`SELECT oid FROM body WHERE system_address = ? AND body_id = ?`, systemAddress, bodyID)
	if err := row.Scan(&bodyOID); err != nil {
		return fmt.Errorf("logic_violation: body (system=%d, id=%d) not found for signal attach: %w", systemAddress, bodyID, err)
	}

	if _, err := s.db.Exec(`DELETE FROM signal WHERE owner_oid = ? AND owner_kind = ?`, bodyOID, string(signalOwnerBody)); err != nil {
		return fmt.Errorf("bad_message: clear body signals: %w", err)
	}
	for _, sig := range toSignalRows(bodyOID, signalOwnerBody, signals) {
		if _, err := Store(s.db, "signal", sig); err != nil {
			return err
		}
	}
	return nil
}

// StoreRingSignals attaches a ring's DSS signal list, located by ring
// row id.
func (s *Store) StoreRingSignals(ringOID int64, signals []model.Signal) error {
	if _, err := s.db.Exec(`DELETE FROM signal WHERE owner_oid = ? AND owner_kind = ?`, ringOID, string(signalOwnerRing)); err != nil {
		return fmt.Errorf("bad_message: clear ring signals: %w", err)
	}
	for _, sig := range toSignalRows(ringOID, signalOwnerRing, signals) {
		if _, err := Store(s.db, "signal", sig); err != nil {
			return err
		}
	}
	return nil
}

// StoreBaryCentre inserts a bary-centre's orbital elements.
func (s *Store) StoreBaryCentre(systemAddress int64, b model.BaryCentre) error {
	_, err := Store(s.db, "bary_centre", toBaryCentreRow(systemAddress, b))
	return err
}

// RingOIDByName resolves a ring's row id by its natural key, for
// callers that need to attach signals after a DSS scan.
func (s *Store) RingOIDByName(systemAddress int64, parentBodyID int32, name string) (int64, bool, error) {
	var oid int64
	row := s.db.QueryRow(`SELECT oid FROM ring WHERE system_address = ? AND parent_body_id = ? AND name = ?`, systemAddress, parentBodyID, name)
	if err := row.Scan(&oid); err != nil {
		return 0, false, nil
	}
	return oid, true, nil
}
