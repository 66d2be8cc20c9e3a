package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/matzehuels/stackdeck/pkg/deck"
	"github.com/matzehuels/stackdeck/pkg/errors"
	"github.com/matzehuels/stackdeck/pkg/observability"
)

// snapshotPrefix namespaces snapshot keys inside a shared cache.
const snapshotPrefix = "snapshot:"

// Snapshots stores named deck snapshots as JSON in a Cache.
type Snapshots struct {
	cache   Cache
	backend string
	ttl     time.Duration
}

// NewSnapshots creates a snapshot store. backend names the cache in
// metrics ("file", "redis", "mongo"); ttl of zero keeps snapshots forever.
func NewSnapshots(c Cache, backend string, ttl time.Duration) *Snapshots {
	if c == nil {
		c = NewNullCache()
	}
	return &Snapshots{cache: c, backend: backend, ttl: ttl}
}

// Save stores snap under name, replacing any previous snapshot.
func (s *Snapshots) Save(ctx context.Context, name string, snap deck.Snapshot) error {
	if err := errors.ValidateDeckName(name); err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot %s", name)
	}
	if err := s.cache.Set(ctx, snapshotPrefix+name, data, s.ttl); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save snapshot %s", name)
	}
	observability.Store().OnStoreSet(ctx, s.backend, len(data))
	return nil
}

// Load returns the snapshot stored under name. A missing snapshot is a
// NOT_FOUND error wrapping ErrNotFound.
func (s *Snapshots) Load(ctx context.Context, name string) (deck.Snapshot, error) {
	var snap deck.Snapshot
	if err := errors.ValidateDeckName(name); err != nil {
		return snap, err
	}
	data, ok, err := s.cache.Get(ctx, snapshotPrefix+name)
	if err != nil {
		return snap, errors.Wrap(errors.ErrCodeStorage, err, "load snapshot %s", name)
	}
	if !ok {
		observability.Store().OnStoreMiss(ctx, s.backend)
		return snap, errors.Wrap(errors.ErrCodeNotFound, ErrNotFound, "snapshot %s", name)
	}
	observability.Store().OnStoreHit(ctx, s.backend)
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, errors.Wrap(errors.ErrCodeStorage, err, "decode snapshot %s", name)
	}
	return snap, nil
}

// Delete removes the snapshot stored under name.
func (s *Snapshots) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateDeckName(name); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, snapshotPrefix+name); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete snapshot %s", name)
	}
	return nil
}

// List returns the stored snapshot names in sorted order. Caches that
// cannot enumerate keys report no names.
func (s *Snapshots) List(ctx context.Context) ([]string, error) {
	l, ok := s.cache.(Lister)
	if !ok {
		return nil, nil
	}
	keys, err := l.Keys(ctx, snapshotPrefix)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list snapshots")
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, snapshotPrefix))
	}
	return names, nil
}

// Close closes the underlying cache.
func (s *Snapshots) Close() error { return s.cache.Close() }
