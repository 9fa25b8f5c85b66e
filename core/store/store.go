package store

import (
	"database/sql"

	"github.com/liamzebedee/feevote-go/core/feevote"
)

const (
	snapshotKey  = "snapshot"
	endpointsKey = "endpoints"
)

var _ feevote.SnapshotStore = (*Store)(nil)

// Store keeps the latest snapshot in sqlite. It implements feevote.SnapshotStore.
type Store struct {
	db        *sql.DB
	endpoints EndpointsStore
}

func NewStore(db *sql.DB, endpoints EndpointsStore) *Store {
	return &Store{
		db:        db,
		endpoints: endpoints,
	}
}

// LoadSnapshot returns the stored snapshot. A snapshot taken from different
// endpoints than the current ones is ignored.
func (s *Store) LoadSnapshot() (*feevote.Snapshot, error) {
	endpoints, err := LoadDataStore[EndpointsStore](s.db, endpointsKey)
	if err != nil {
		return nil, err
	}
	if *endpoints != s.endpoints {
		logger.Printf("stored snapshot is from other endpoints (%s, %s), ignoring\n", endpoints.LedgerURL, endpoints.RegistryURL)
		return nil, nil
	}

	stored, err := LoadDataStore[SnapshotStore](s.db, snapshotKey)
	if err != nil {
		return nil, err
	}
	return stored.Snapshot, nil
}

func (s *Store) SaveSnapshot(snapshot feevote.Snapshot) error {
	if err := SaveDataStore(s.db, endpointsKey, s.endpoints); err != nil {
		return err
	}
	return SaveDataStore(s.db, snapshotKey, SnapshotStore{Snapshot: &snapshot})
}
