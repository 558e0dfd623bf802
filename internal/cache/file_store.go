package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"quill/internal/types"
)

const snapshotSchemaVersion = 1

type snapshotFile struct {
	Version  int             `json:"version"`
	Snapshot *types.Snapshot `json:"snapshot"`
}

// FileStore keeps one JSON snapshot file per user key under a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Load(ctx context.Context, userID string) (*types.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file := &snapshotFile{}
	if err := readJSON(s.path(userID), file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		// Corrupt snapshot reads as a miss.
		return nil, false, nil
	}
	if file.Snapshot == nil {
		return nil, false, nil
	}
	return types.CloneSnapshot(file.Snapshot), true, nil
}

func (s *FileStore) Save(ctx context.Context, userID string, snapshot *types.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot == nil {
		return errors.New("snapshot is required")
	}
	stored := types.CloneSnapshot(snapshot)
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}
	return writeJSONAtomic(s.path(userID), &snapshotFile{
		Version:  snapshotSchemaVersion,
		Snapshot: stored,
	})
}

func (s *FileStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(userID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(userID string) string {
	return filepath.Join(s.dir, "snapshot_"+sanitizeKey(userKey(userID))+".json")
}

// sanitizeKey keeps the storage key filesystem-safe; the derived user id
// comes out of an untrusted token payload.
func sanitizeKey(key string) string {
	var builder strings.Builder
	builder.Grow(len(key))
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			builder.WriteRune(r)
		default:
			builder.WriteByte('~')
		}
	}
	return builder.String()
}
