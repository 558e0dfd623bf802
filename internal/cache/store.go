package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"quill/internal/types"
)

const (
	BackendFile  = "file"
	BackendBbolt = "bbolt"
)

// DefaultTTL bounds snapshot staleness. A snapshot older than this is
// treated as absent and the caller falls through to a network fetch.
const DefaultTTL = 24 * time.Hour

// globalKey is the fallback partition when no user id can be derived from
// the credential. Accepted risk: accounts sharing a machine without a
// derivable id share this slot.
const globalKey = "global"

// SnapshotStore persists one snapshot per known user.
//
// Load treats a missing or unparsable entry as a miss, never an error; a
// corrupt snapshot is indistinguishable from no snapshot.
type SnapshotStore interface {
	Load(ctx context.Context, userID string) (*types.Snapshot, bool, error)
	Save(ctx context.Context, userID string, snapshot *types.Snapshot) error
	Delete(ctx context.Context, userID string) error
	Close() error
}

type Paths struct {
	Dir    string
	DBPath string
}

func Open(backend string, paths Paths) (SnapshotStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendBbolt:
		if strings.TrimSpace(paths.DBPath) == "" {
			return nil, errors.New("db path is required for bbolt snapshot store")
		}
		return NewBboltStore(paths.DBPath)
	case BackendFile:
		if strings.TrimSpace(paths.Dir) == "" {
			return nil, errors.New("dir is required for file snapshot store")
		}
		return NewFileStore(paths.Dir), nil
	default:
		return nil, errors.New("unsupported snapshot backend: " + backend)
	}
}

// Valid reports whether a snapshot taken at ts is still fresh under ttl.
func Valid(ts time.Time, ttl time.Duration) bool {
	if ts.IsZero() {
		return false
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return time.Since(ts) < ttl
}

// userKey maps a derived user id onto the storage key namespace.
func userKey(userID string) string {
	id := strings.TrimSpace(userID)
	if id == "" {
		return globalKey
	}
	return "user_" + id
}
