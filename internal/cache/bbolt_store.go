package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"quill/internal/types"
)

var bucketSnapshots = []byte("snapshots")

// BboltStore keeps all per-user snapshots in one bucket, keyed by user key.
type BboltStore struct {
	db *bolt.DB
}

func NewBboltStore(path string) (*BboltStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("snapshot db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BboltStore{db: db}, nil
}

func (s *BboltStore) Load(ctx context.Context, userID string) (*types.Snapshot, bool, error) {
	var (
		out *types.Snapshot
		ok  bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSnapshots)
		if b == nil {
			return nil
		}
		value := b.Get([]byte(userKey(userID)))
		if value == nil {
			return nil
		}
		var file snapshotFile
		if err := json.Unmarshal(value, &file); err != nil {
			// Corrupt snapshot reads as a miss.
			return nil
		}
		if file.Snapshot == nil {
			return nil
		}
		out = file.Snapshot
		ok = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, ok, nil
}

func (s *BboltStore) Save(ctx context.Context, userID string, snapshot *types.Snapshot) error {
	if snapshot == nil {
		return errors.New("snapshot is required")
	}
	stored := types.CloneSnapshot(snapshot)
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}
	value, err := json.Marshal(&snapshotFile{
		Version:  snapshotSchemaVersion,
		Snapshot: stored,
	})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		if err != nil {
			return err
		}
		return b.Put([]byte(userKey(userID)), value)
	})
}

func (s *BboltStore) Delete(ctx context.Context, userID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSnapshots)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(userKey(userID)))
	})
}

func (s *BboltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
