package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/fantasy-cricket/internal/domain/model"
	"github.com/okian/fantasy-cricket/internal/domain/types"
	"github.com/okian/fantasy-cricket/pkg/logger"
)

type pointKey struct {
	matchID  string
	identity string
}

// MemoryStore keeps points in process memory. It has the same upsert
// semantics as SQLiteStore and is used for dry runs.
type MemoryStore struct {
	mu        sync.RWMutex
	cfg       config
	points    map[pointKey]model.PlayerPoints
	order     []pointKey
	processed map[string]model.Match
	closed    bool
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		cfg:       newConfig(opts),
		points:    make(map[pointKey]model.PlayerPoints),
		processed: make(map[string]model.Match),
	}
}

// UpsertPoints validates every row before writing any of them.
func (s *MemoryStore) UpsertPoints(ctx context.Context, rows []model.PlayerPoints) error {
	if err := validate(rows); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for _, r := range rows {
		k := pointKey{matchID: r.MatchID, identity: Identity(r)}
		if _, ok := s.points[k]; !ok {
			s.order = append(s.order, k)
		}
		s.points[k] = r
	}
	s.cfg.logger.Debug(ctx, "points upserted in memory", logger.Int("rows", len(rows)))
	return nil
}

// MarkProcessed records the match as exported.
func (s *MemoryStore) MarkProcessed(_ context.Context, m model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.processed[m.ID] = m
	return nil
}

// ProcessedMatches returns exported match ids in ascending order.
func (s *MemoryStore) ProcessedMatches(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	ids := make([]string, 0, len(s.processed))
	for id := range s.processed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// MatchPoints returns the rows stored for one match in insertion order.
func (s *MemoryStore) MatchPoints(_ context.Context, matchID string) ([]model.PlayerPoints, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	var out []model.PlayerPoints
	for _, k := range s.order {
		if k.matchID == matchID {
			out = append(out, s.points[k])
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	return out, nil
}

// Count returns the number of stored point rows.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return len(s.points), nil
}

// Standings aggregates points per player across every stored match.
func (s *MemoryStore) Standings(_ context.Context, n int) ([]types.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	byIdentity := make(map[string]*types.Entry)
	var keys []string
	for _, k := range s.order {
		p := s.points[k]
		e, ok := byIdentity[k.identity]
		if !ok {
			e = &types.Entry{}
			byIdentity[k.identity] = e
			keys = append(keys, k.identity)
		}
		if p.PlayerID > e.PlayerID {
			e.PlayerID = p.PlayerID
		}
		if p.Player > e.Player {
			e.Player = p.Player
		}
		if p.Team > e.Team {
			e.Team = p.Team
		}
		e.Matches++
		e.Batting += p.Batting
		e.Bowling += p.Bowling
		e.Fielding += p.Fielding
		e.POTM += p.POTM
		e.Total += p.Total()
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := byIdentity[keys[i]], byIdentity[keys[j]]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.Player != b.Player {
			return a.Player < b.Player
		}
		return keys[i] < keys[j]
	})

	out := make([]types.Entry, 0, len(keys))
	for i, k := range keys {
		if n > 0 && i >= n {
			break
		}
		e := *byIdentity[k]
		e.Rank = i + 1
		out = append(out, e)
	}
	return out, nil
}

// Close releases the store. Further calls return ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
