// Package dedupe tracks which matches a run has already handled so a batch
// can resume without re-exporting them.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen match ids.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded and records it
	// if it was not.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a failed match is retried on the next run.
	Unrecord(ctx context.Context, id string)

	// Size is the number of recorded ids.
	Size() int64
}

type checkpoint struct {
	mu   sync.RWMutex
	seen map[string]struct{}
	seed []string
}

// NewCheckpoint creates an in-memory Deduper, optionally seeded with ids
// already persisted by a previous run.
func NewCheckpoint(opts ...Option) Deduper {
	d := &checkpoint{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, len(d.seed))
	for _, id := range d.seed {
		if id != "" {
			d.seen[id] = struct{}{}
		}
	}
	d.seed = nil
	return d
}

func (d *checkpoint) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *checkpoint) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	delete(d.seen, id)
	d.mu.Unlock()
}

func (d *checkpoint) Size() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return int64(len(d.seen))
}
