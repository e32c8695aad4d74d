// lifdb-query is a small read-only inspector for dataset files. It uses
// the pure-Go SQLite driver so it can run without cgo, e.g. on a cluster
// login node where the main tool is not installed.
//
// Usage:
//
//	lifdb-query data/LiF.db              list rows
//	lifdb-query data/LiF.db 42           dump one row
//	lifdb-query data/LiF.db task=nvt     list rows matching a key
package main

import (
	"database/sql"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: lifdb-query <db> [id | key=value]")
		os.Exit(1)
	}

	db, err := sql.Open("sqlite", "file:"+os.Args[1]+"?mode=ro")
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	defer db.Close()

	if len(os.Args) < 3 {
		if err := listRows(db, "", ""); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	arg := os.Args[2]
	if key, value, found := strings.Cut(arg, "="); found {
		if err := listRows(db, key, value); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "argument %q is neither an id nor key=value\n", arg)
		os.Exit(1)
	}
	if err := dumpRow(db, id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func listRows(db *sql.DB, key, value string) error {
	query := `
		SELECT s.id, COALESCE(s.username, ''), s.natoms, s.energy
		FROM systems s`
	var args []any
	if key != "" {
		query += ` JOIN text_key_values t ON t.id = s.id AND t.key = ? AND t.value = ?`
		args = append(args, key, value)
	}
	query += ` ORDER BY s.id`

	rows, err := db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var (
			id     int64
			user   string
			natoms int
			energy sql.NullFloat64
		)
		if err := rows.Scan(&id, &user, &natoms, &energy); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		e := "      --"
		if energy.Valid {
			e = fmt.Sprintf("%8.3f", energy.Float64)
		}
		fmt.Printf("%4d  %-20s  %3d atoms  %s eV\n", id, user, natoms, e)
		n++
	}
	fmt.Printf("%d row(s)\n", n)
	return rows.Err()
}

func dumpRow(db *sql.DB, id int64) error {
	var (
		uniqueID, user, calculator sql.NullString
		kvp, data                  sql.NullString
		ctime                      float64
		natoms                     int
		energy                     sql.NullFloat64
	)
	err := db.QueryRow(`
		SELECT unique_id, username, calculator, key_value_pairs, data, ctime, natoms, energy
		FROM systems WHERE id = ?`, id).Scan(
		&uniqueID, &user, &calculator, &kvp, &data, &ctime, &natoms, &energy)
	if err == sql.ErrNoRows {
		return fmt.Errorf("row %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("query row %d: %w", id, err)
	}

	fmt.Printf("id:              %d\n", id)
	fmt.Printf("unique_id:       %s\n", uniqueID.String)
	fmt.Printf("username:        %s\n", user.String)
	fmt.Printf("calculator:      %s\n", calculator.String)
	fmt.Printf("natoms:          %d\n", natoms)
	fmt.Printf("ctime:           %.6f years since 2000\n", ctime)
	if energy.Valid {
		fmt.Printf("energy:          %.6f eV\n", energy.Float64)
	}
	if kvp.Valid && kvp.String != "" {
		fmt.Printf("key_value_pairs: %s\n", kvp.String)
	}
	if data.Valid && data.String != "" {
		keys, err := dataKeys(data.String)
		if err != nil {
			return err
		}
		fmt.Printf("data keys:       %s\n", strings.Join(keys, ", "))
	}

	rows, err := db.Query("SELECT Z, n FROM species WHERE id = ? ORDER BY Z", id)
	if err != nil {
		return fmt.Errorf("query species: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var z, n int
		if err := rows.Scan(&z, &n); err != nil {
			return fmt.Errorf("scan species: %w", err)
		}
		fmt.Printf("species:         Z=%d n=%d\n", z, n)
	}
	return rows.Err()
}

func dataKeys(raw string) ([]string, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("parse data column: %w", err)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
