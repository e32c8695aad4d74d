package store

import (
	"database/sql"
	"fmt"

	"lifdb/internal/logging"
)

// FormatVersion is the ASE SQLite format version the schema follows. The
// value is recorded in the information table so external browsers accept
// the file.
const FormatVersion = 9

// systemsTable is the main row table. One row per stored configuration.
// Array columns hold little-endian blobs (int32 for numbers, float64 for
// everything else); key_value_pairs and data hold JSON text.
const systemsTable = `
CREATE TABLE IF NOT EXISTS systems (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	unique_id TEXT UNIQUE,
	ctime REAL,
	mtime REAL,
	username TEXT,
	numbers BLOB,
	positions BLOB,
	cell BLOB,
	pbc INTEGER,
	initial_magmoms BLOB,
	initial_charges BLOB,
	masses BLOB,
	tags BLOB,
	momenta BLOB,
	constraints TEXT,
	calculator TEXT,
	calculator_parameters TEXT,
	energy REAL,
	free_energy REAL,
	forces BLOB,
	stress BLOB,
	dipole BLOB,
	magmoms BLOB,
	magmom REAL,
	charges BLOB,
	key_value_pairs TEXT,
	data TEXT,
	natoms INTEGER,
	fmax REAL,
	smax REAL,
	volume REAL,
	mass REAL,
	charge REAL
);
CREATE INDEX IF NOT EXISTS idx_systems_unique_id ON systems(unique_id);
CREATE INDEX IF NOT EXISTS idx_systems_ctime ON systems(ctime);
CREATE INDEX IF NOT EXISTS idx_systems_username ON systems(username);
CREATE INDEX IF NOT EXISTS idx_systems_calculator ON systems(calculator);
CREATE INDEX IF NOT EXISTS idx_systems_natoms ON systems(natoms);
`

// Side tables mirror the searchable parts of each row.
const sideTables = `
CREATE TABLE IF NOT EXISTS species (
	Z INTEGER,
	n INTEGER,
	id INTEGER,
	FOREIGN KEY (id) REFERENCES systems(id)
);
CREATE INDEX IF NOT EXISTS idx_species_z ON species(Z);
CREATE INDEX IF NOT EXISTS idx_species_id ON species(id);

CREATE TABLE IF NOT EXISTS keys (
	key TEXT,
	id INTEGER,
	FOREIGN KEY (id) REFERENCES systems(id)
);
CREATE INDEX IF NOT EXISTS idx_keys_key ON keys(key);
CREATE INDEX IF NOT EXISTS idx_keys_id ON keys(id);

CREATE TABLE IF NOT EXISTS text_key_values (
	key TEXT,
	value TEXT,
	id INTEGER,
	FOREIGN KEY (id) REFERENCES systems(id)
);
CREATE INDEX IF NOT EXISTS idx_text_kv_key ON text_key_values(key);
CREATE INDEX IF NOT EXISTS idx_text_kv_id ON text_key_values(id);

CREATE TABLE IF NOT EXISTS number_key_values (
	key TEXT,
	value REAL,
	id INTEGER,
	FOREIGN KEY (id) REFERENCES systems(id)
);
CREATE INDEX IF NOT EXISTS idx_number_kv_key ON number_key_values(key);
CREATE INDEX IF NOT EXISTS idx_number_kv_id ON number_key_values(id);

CREATE TABLE IF NOT EXISTS information (
	name TEXT,
	value TEXT
);
`

// Migration defines a database schema migration.
type Migration struct {
	Table  string
	Column string
	Def    string
}

// pendingMigrations lists column-level migrations for databases written by
// older format versions. Derived columns were not stored before version 8.
var pendingMigrations = []Migration{
	{"systems", "fmax", "REAL"},
	{"systems", "smax", "REAL"},
	{"systems", "volume", "REAL"},
	{"systems", "mass", "REAL"},
	{"systems", "charge", "REAL"},
}

// RunMigrations applies schema migrations for existing databases.
func RunMigrations(db *sql.DB) error {
	applied := 0
	for _, m := range pendingMigrations {
		if !tableExists(db, m.Table) {
			continue
		}
		if columnExists(db, m.Table, m.Column) {
			continue
		}
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		if _, err := db.Exec(query); err != nil {
			logging.Get(logging.CategoryStore).Warnf("migration failed for %s.%s: %v", m.Table, m.Column, err)
			continue
		}
		applied++
	}
	if applied > 0 {
		logging.Store("schema migrations applied: %d", applied)
	}
	return nil
}

// columnExists checks if a column exists in a table using PRAGMA table_info.
func columnExists(db *sql.DB, table, column string) bool {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var cid, notnull, pk int
		var name, ctype string
		var dflt any
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}

// tableExists checks if a table exists in the database.
func tableExists(db *sql.DB, table string) bool {
	var name string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
	).Scan(&name)
	return err == nil
}
