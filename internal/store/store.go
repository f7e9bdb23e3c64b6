// Package store provides the SQLite persistence layer for inventory,
// recipes, nutrition facts, and meal plans.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS ingredients (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	ingredient_id   INTEGER,
	name            TEXT NOT NULL,
	amount          REAL NOT NULL,
	unit            TEXT NOT NULL,
	expiry_date     TEXT,
	original_string TEXT,
	aisle           TEXT,
	recipe_id       INTEGER
);

CREATE TABLE IF NOT EXISTS recipes (
	recipe_id   INTEGER PRIMARY KEY NOT NULL,
	recipe_name TEXT NOT NULL,
	source_url  TEXT,
	total_cost  REAL NOT NULL,
	prep_time   INTEGER NOT NULL,
	image_url   TEXT,
	servings    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS nutrition (
	recipe_id   INTEGER PRIMARY KEY NOT NULL,
	calories    REAL,
	protein     REAL,
	carbs       REAL,
	fat         REAL,
	fiber       REAL,
	cholesterol REAL,
	sodium      REAL,
	FOREIGN KEY (recipe_id) REFERENCES recipes (recipe_id)
);

CREATE TABLE IF NOT EXISTS meal_plans (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	start_date TEXT NOT NULL,
	num_days   INTEGER NOT NULL,
	breakfast  TEXT NOT NULL,
	lunch      TEXT NOT NULL,
	dinner     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ingredients_recipe ON ingredients(recipe_id);
`

// DB wraps a sql.DB with meal-prep specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Clear wipes all rows from all four tables and resets the AUTOINCREMENT
// counters, so the next insert receives the same first id as a fresh store.
func (db *DB) Clear(ctx context.Context) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, stmt := range []string{
		`DELETE FROM meal_plans`,
		`DELETE FROM nutrition`,
		`DELETE FROM ingredients`,
		`DELETE FROM recipes`,
		`DELETE FROM sqlite_sequence`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: clear: %w", err)
		}
	}
	return tx.Commit()
}
