package store

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"lifdb/internal/logging"
)

// Write inserts a row and its side-table entries in one transaction and
// returns the assigned id. A missing unique id is generated; mtime is
// always set to the write time. The passed row is updated in place with
// id, unique id and mtime.
func (s *Store) Write(row *Row) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row.UniqueID == "" {
		row.UniqueID = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	row.Mtime = NowYears()
	if row.Ctime == 0 {
		row.Ctime = row.Mtime
	}

	kvpText, err := jsonText(row.KeyValuePairs)
	if err != nil {
		return 0, fmt.Errorf("encode key_value_pairs: %w", err)
	}
	dataText, err := jsonText(row.Data)
	if err != nil {
		return 0, fmt.Errorf("encode data: %w", err)
	}
	paramsText, err := jsonText(row.CalculatorParameters)
	if err != nil {
		return 0, fmt.Errorf("encode calculator_parameters: %w", err)
	}

	var stressBlob, dipoleBlob []byte
	if row.Stress != nil {
		stressBlob = blobFromFloats(row.Stress[:])
	}
	if row.Dipole != nil {
		dipoleBlob = blobFromFloats(row.Dipole[:])
	}

	var volume *float64
	if v := row.Atoms.Volume(); v > 0 {
		volume = &v
	}
	mass := row.Atoms.Mass()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin write: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO systems (
			unique_id, ctime, mtime, username,
			numbers, positions, cell, pbc,
			calculator, calculator_parameters,
			energy, free_energy, forces, stress, dipole, magmom,
			key_value_pairs, data,
			natoms, fmax, smax, volume, mass
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.UniqueID, row.Ctime, row.Mtime, nullString(row.User),
		blobFromInts(row.Atoms.Numbers), blobFromVectors(row.Atoms.Positions),
		blobFromCell(row.Atoms.Cell), row.Atoms.PBCBits(),
		nullString(row.Calculator), nullString(paramsText),
		row.Energy, row.FreeEnergy, blobFromVectors(row.Forces), stressBlob, dipoleBlob, row.Magmom,
		nullString(kvpText), nullString(dataText),
		row.Atoms.NAtoms(), row.fmax(), row.smax(), volume, mass,
	)
	if err != nil {
		return 0, fmt.Errorf("insert row: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	if err := writeSpecies(tx, id, row); err != nil {
		return 0, err
	}
	if err := writeKeyValues(tx, id, row); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit write: %w", err)
	}

	row.ID = id
	logging.StoreDebug("wrote row id=%d unique_id=%s formula=%s", id, row.UniqueID, row.Formula())
	return id, nil
}

func writeSpecies(tx *sql.Tx, id int64, row *Row) error {
	counts := row.Atoms.SpeciesCounts()
	zs := make([]int, 0, len(counts))
	for z := range counts {
		zs = append(zs, z)
	}
	sort.Ints(zs)
	for _, z := range zs {
		if _, err := tx.Exec("INSERT INTO species (Z, n, id) VALUES (?, ?, ?)", z, counts[z], id); err != nil {
			return fmt.Errorf("insert species: %w", err)
		}
	}
	return nil
}

func writeKeyValues(tx *sql.Tx, id int64, row *Row) error {
	keys := make([]string, 0, len(row.KeyValuePairs))
	for k := range row.KeyValuePairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := tx.Exec("INSERT INTO keys (key, id) VALUES (?, ?)", k, id); err != nil {
			return fmt.Errorf("insert key %q: %w", k, err)
		}
		switch v := row.KeyValuePairs[k].(type) {
		case string:
			if _, err := tx.Exec("INSERT INTO text_key_values (key, value, id) VALUES (?, ?, ?)", k, v, id); err != nil {
				return fmt.Errorf("insert text value for %q: %w", k, err)
			}
		case bool:
			n := 0.0
			if v {
				n = 1.0
			}
			if _, err := tx.Exec("INSERT INTO number_key_values (key, value, id) VALUES (?, ?, ?)", k, n, id); err != nil {
				return fmt.Errorf("insert bool value for %q: %w", k, err)
			}
		case int:
			if err := insertNumber(tx, k, float64(v), id); err != nil {
				return err
			}
		case int64:
			if err := insertNumber(tx, k, float64(v), id); err != nil {
				return err
			}
		case float64:
			if err := insertNumber(tx, k, v, id); err != nil {
				return err
			}
		default:
			return fmt.Errorf("key %q has unsupported value type %T", k, v)
		}
	}
	return nil
}

func insertNumber(tx *sql.Tx, key string, v float64, id int64) error {
	if _, err := tx.Exec("INSERT INTO number_key_values (key, value, id) VALUES (?, ?, ?)", key, v, id); err != nil {
		return fmt.Errorf("insert number value for %q: %w", key, err)
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
