package store

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"lifdb/internal/atoms"
)

// Selection filters rows. Zero fields are ignored.
type Selection struct {
	User  string            // match the username column
	Keys  map[string]string // match text key-value pairs, e.g. subset_name
	MaxID int64             // id upper bound, exclusive
	Limit int
}

const rowColumns = `
	id, unique_id, ctime, mtime, username,
	numbers, positions, cell, pbc,
	calculator, calculator_parameters,
	energy, free_energy, forces, stress, dipole, magmom,
	key_value_pairs, data`

// Get returns the row with the given id.
func (s *Store) Get(id int64) (*Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT"+rowColumns+" FROM systems WHERE id = ?", id)
	r, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("row %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get row %d: %w", id, err)
	}
	return r, nil
}

// Select returns the rows matching the selection, ordered by id.
func (s *Store) Select(sel Selection) ([]*Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if sel.User != "" {
		where = append(where, "username = ?")
		args = append(args, sel.User)
	}
	keys := make([]string, 0, len(sel.Keys))
	for k := range sel.Keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		where = append(where, "id IN (SELECT id FROM text_key_values WHERE key = ? AND value = ?)")
		args = append(args, k, sel.Keys[k])
	}
	if sel.MaxID > 0 {
		where = append(where, "id < ?")
		args = append(args, sel.MaxID)
	}

	query := "SELECT" + rowColumns + " FROM systems"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"
	if sel.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", sel.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("select rows: %w", err)
	}
	defer rows.Close()

	var out []*Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UniqueValues returns the sorted distinct values of a categorical key.
// "user" reads the username column; any other key reads the text
// key-value pairs.
func (s *Store) UniqueValues(key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rows *sql.Rows
		err  error
	)
	if key == "user" {
		rows, err = s.db.Query("SELECT DISTINCT username FROM systems WHERE username IS NOT NULL")
	} else {
		rows, err = s.db.Query("SELECT DISTINCT value FROM text_key_values WHERE key = ?", key)
	}
	if err != nil {
		return nil, fmt.Errorf("unique values of %q: %w", key, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan value of %q: %w", key, err)
		}
		values = append(values, v)
	}
	sort.Strings(values)
	return values, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(src scanner) (*Row, error) {
	var (
		r                             Row
		uniqueID, username            sql.NullString
		numbers, positions, cell      []byte
		pbc                           sql.NullInt64
		calculator, params, kvp, data sql.NullString
		energy, freeEnergy, magmom    sql.NullFloat64
		forces, stress, dipole        []byte
	)

	err := src.Scan(
		&r.ID, &uniqueID, &r.Ctime, &r.Mtime, &username,
		&numbers, &positions, &cell, &pbc,
		&calculator, &params,
		&energy, &freeEnergy, &forces, &stress, &dipole, &magmom,
		&kvp, &data,
	)
	if err != nil {
		return nil, err
	}

	r.UniqueID = uniqueID.String
	r.User = username.String
	r.Calculator = calculator.String

	if r.Atoms.Numbers, err = intsFromBlob(numbers); err != nil {
		return nil, err
	}
	if r.Atoms.Positions, err = vectorsFromBlob(positions); err != nil {
		return nil, err
	}
	if r.Atoms.Cell, err = cellFromBlob(cell); err != nil {
		return nil, err
	}
	r.Atoms.PBC = atoms.PBCFromBits(int(pbc.Int64))

	if energy.Valid {
		r.Energy = &energy.Float64
	}
	if freeEnergy.Valid {
		r.FreeEnergy = &freeEnergy.Float64
	}
	if magmom.Valid {
		r.Magmom = &magmom.Float64
	}
	if r.Forces, err = vectorsFromBlob(forces); err != nil {
		return nil, err
	}
	if len(stress) > 0 {
		values, err := floatsFromBlob(stress)
		if err != nil {
			return nil, err
		}
		if len(values) != 6 {
			return nil, fmt.Errorf("stress blob holds %d values, want 6", len(values))
		}
		var v [6]float64
		copy(v[:], values)
		r.Stress = &v
	}
	if len(dipole) > 0 {
		values, err := floatsFromBlob(dipole)
		if err != nil {
			return nil, err
		}
		if len(values) != 3 {
			return nil, fmt.Errorf("dipole blob holds %d values, want 3", len(values))
		}
		var v [3]float64
		copy(v[:], values)
		r.Dipole = &v
	}

	if r.CalculatorParameters, err = mapFromJSON(params.String); err != nil {
		return nil, err
	}
	if r.KeyValuePairs, err = mapFromJSON(kvp.String); err != nil {
		return nil, err
	}
	if r.Data, err = mapFromJSON(data.String); err != nil {
		return nil, err
	}
	return &r, nil
}
