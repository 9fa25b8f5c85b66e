package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/liamzebedee/feevote-go/core"
	"github.com/liamzebedee/feevote-go/core/feevote"
	_ "github.com/mattn/go-sqlite3"
)

var logger = core.NewLogger("db", "")

func dbGetVersion(db *sql.DB) (int, error) {
	row := db.QueryRow("SELECT version FROM feevote_version ORDER BY version DESC LIMIT 1")
	databaseVersion := -1
	err := row.Scan(&databaseVersion)
	if err != nil && err != sql.ErrNoRows {
		return -1, fmt.Errorf("error checking database version: %w", err)
	}
	return databaseVersion, nil
}

func dbMigrate(db *sql.DB, migrationIndex int, migrateFn func(tx *sql.Tx) error) error {
	version, err := dbGetVersion(db)
	if err != nil {
		return err
	}

	// Skip migration if the database is already at the target version.
	if migrationIndex <= version {
		return nil
	}

	logger.Printf("Running migration: %d\n", migrationIndex)
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := migrateFn(tx); err != nil {
		tx.Rollback()
		return err
	}

	_, err = tx.Exec("insert into feevote_version (version) values (?)", migrationIndex)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// OpenDB opens the sqlite database at dbPath and brings its schema up to date.
// Use ":memory:" for a throwaway database.
func OpenDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// One connection, so ":memory:" databases are shared across calls.
	db.SetMaxOpenConns(1)

	_, err = db.Exec("create table if not exists feevote_version (version int)")
	if err != nil {
		return nil, fmt.Errorf("error checking database version: %w", err)
	}
	databaseVersion, err := dbGetVersion(db)
	if err != nil {
		return nil, err
	}
	logger.Printf("Database version: %d\n", databaseVersion)

	err = dbMigrate(db, 0, func(tx *sql.Tx) error {
		_, err := tx.Exec(`create table datastores (
			-- use k,v instead of key,value to avoid reserved word conflicts
			k TEXT PRIMARY KEY, 
			v blob
		)`)
		if err != nil {
			return fmt.Errorf("error creating 'datastores' table: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = dbMigrate(db, 1, func(tx *sql.Tx) error {
		_, err := tx.Exec(`alter table datastores add column updated_at integer not null default 0`)
		if err != nil {
			return fmt.Errorf("error adding 'updated_at' column: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// DataStore is the set of types persisted in the datastores table.
// Each is stored as JSON under a unique key.
type DataStore interface {
	SnapshotStore | EndpointsStore
}

// SnapshotStore holds the latest fetched snapshot pair. It is overwritten every cycle.
type SnapshotStore struct {
	Snapshot *feevote.Snapshot `json:"snapshot"`
}

// EndpointsStore remembers the sources the snapshot was fetched from.
type EndpointsStore struct {
	LedgerURL   string `json:"ledgerURL"`
	RegistryURL string `json:"registryURL"`
}

// Load a data store from the database by key. A missing key yields the zero value.
func LoadDataStore[T DataStore](db *sql.DB, key string) (*T, error) {
	buf := []byte("{}")
	err := db.QueryRow("SELECT v FROM datastores WHERE k = ?", key).Scan(&buf)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	var store T
	if err := json.Unmarshal(buf, &store); err != nil {
		return nil, err
	}

	logger.Printf("store name=%s loaded\n", color.HiYellowString(key))
	return &store, nil
}

// Persist a data store to the database under the given key.
func SaveDataStore[T DataStore](db *sql.DB, key string, value T) error {
	buf, err := json.Marshal(value)
	if err != nil {
		return err
	}

	_, err = db.Exec(
		"INSERT INTO datastores (k, v, updated_at) VALUES (?, ?, strftime('%s','now')) ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at",
		key, buf,
	)
	if err != nil {
		return err
	}

	logger.Printf("store name=%s saved\n", color.HiYellowString(key))
	return nil
}
