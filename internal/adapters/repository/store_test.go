package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/fantasy-cricket/internal/domain/model"
	"github.com/okian/fantasy-cricket/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func fixedClock() time.Time { return time.Date(2025, 2, 20, 18, 0, 0, 0, time.UTC) }

// stores returns a fresh instance of every Store implementation.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()
	sq, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "nested", "points.db"), WithClock(fixedClock))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	mem := NewMemoryStore(WithClock(fixedClock))
	t.Cleanup(func() {
		_ = sq.Close()
		_ = mem.Close()
	})
	return map[string]Store{"sqlite": sq, "memory": mem}
}

func matchRows() []model.PlayerPoints {
	return []model.PlayerPoints{
		{MatchID: "115015", PlayerID: "201", Player: "Jess Jones", Team: "Delhi Capitals Women", Bowling: 120, Fielding: 10, POTM: 50},
		{MatchID: "115015", PlayerID: "100", Player: "Hayley Matthews", Team: "Mumbai Indians Women", Batting: 85, Bowling: 40},
		{MatchID: "115015", Player: "Sajana", Team: "Mumbai Indians Women", Fielding: 10},
	}
}

func TestStore_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.UpsertPoints(ctx, matchRows()); err != nil {
				t.Fatalf("first upsert: %v", err)
			}
			first, err := store.Count(ctx)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if first != 3 {
				t.Fatalf("expected 3 rows, got %d", first)
			}

			// Re-export with a corrected value.
			rows := matchRows()
			rows[1].Batting = 90
			if err := store.UpsertPoints(ctx, rows); err != nil {
				t.Fatalf("second upsert: %v", err)
			}
			second, _ := store.Count(ctx)
			if second != first {
				t.Errorf("expected count to stay %d, got %d", first, second)
			}

			got, err := store.MatchPoints(ctx, "115015")
			if err != nil {
				t.Fatalf("match points: %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("expected 3 stored rows, got %d", len(got))
			}
			if got[1].Batting != 90 {
				t.Errorf("expected updated batting 90, got %d", got[1].Batting)
			}
			if got[0].Player != "Jess Jones" || got[0].POTM != 50 {
				t.Errorf("unexpected first row %+v", got[0])
			}
		})
	}
}

func TestStore_IdentityFallsBackToNameAndTeam(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			rows := []model.PlayerPoints{
				{MatchID: "1", Player: "Kaur", Team: "India Women", Batting: 10},
				{MatchID: "1", Player: "Kaur", Team: "Punjab Women", Batting: 20},
				{MatchID: "1", Player: "kaur", Team: "india women", Batting: 30},
			}
			if err := store.UpsertPoints(ctx, rows); err != nil {
				t.Fatalf("upsert: %v", err)
			}
			if n, _ := store.Count(ctx); n != 2 {
				t.Errorf("expected 2 identities, got %d", n)
			}
		})
	}
}

func TestStore_RejectsIncompleteRows(t *testing.T) {
	ctx := context.Background()
	bad := [][]model.PlayerPoints{
		{{Player: "No Match"}},
		{{MatchID: "1"}},
	}
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, rows := range bad {
				err := store.UpsertPoints(ctx, rows)
				if !errors.Is(err, ErrExport) {
					t.Errorf("expected ErrExport, got %v", err)
				}
			}
			if n, _ := store.Count(ctx); n != 0 {
				t.Errorf("expected nothing written, got %d rows", n)
			}
		})
	}
}

func TestStore_ProcessedMatches(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ids, err := store.ProcessedMatches(ctx)
			if err != nil {
				t.Fatalf("processed: %v", err)
			}
			if len(ids) != 0 {
				t.Fatalf("expected no processed matches, got %v", ids)
			}

			for _, m := range []model.Match{
				{ID: "115020", TeamA: "A", TeamB: "B", StartsAt: fixedClock()},
				{ID: "115010", TeamA: "C", TeamB: "D"},
				{ID: "115020", TeamA: "A", TeamB: "B", Result: "A won"},
			} {
				if err := store.MarkProcessed(ctx, m); err != nil {
					t.Fatalf("mark %s: %v", m.ID, err)
				}
			}
			ids, _ = store.ProcessedMatches(ctx)
			if len(ids) != 2 || ids[0] != "115010" || ids[1] != "115020" {
				t.Errorf("unexpected processed ids %v", ids)
			}
		})
	}
}

func TestStore_Standings(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_ = store.UpsertPoints(ctx, matchRows())
			_ = store.UpsertPoints(ctx, []model.PlayerPoints{
				{MatchID: "115020", PlayerID: "100", Player: "Hayley Matthews", Team: "Mumbai Indians Women", Batting: 30, Fielding: 10},
				{MatchID: "115020", PlayerID: "300", Player: "Amelia Kerr", Team: "Mumbai Indians Women", Bowling: 10},
				{MatchID: "115020", PlayerID: "301", Player: "Aaron Zed", Team: "Mumbai Indians Women", Bowling: 10},
			})

			all, err := store.Standings(ctx, 0)
			if err != nil {
				t.Fatalf("standings: %v", err)
			}
			if len(all) != 5 {
				t.Fatalf("expected 5 players, got %d", len(all))
			}
			top := all[0]
			if top.Player != "Jess Jones" || top.Total != 180 || top.Rank != 1 {
				t.Errorf("unexpected leader %+v", top)
			}
			second := all[1]
			if second.Player != "Hayley Matthews" || second.Matches != 2 || second.Batting != 115 || second.Total != 165 {
				t.Errorf("unexpected second %+v", second)
			}
			// Equal totals break by name.
			if all[2].Player != "Aaron Zed" || all[3].Player != "Amelia Kerr" {
				t.Errorf("expected name tie-break, got %s then %s", all[2].Player, all[3].Player)
			}
			if all[4].Player != "Sajana" || all[4].PlayerID != "" {
				t.Errorf("unexpected last %+v", all[4])
			}

			top2, _ := store.Standings(ctx, 2)
			if len(top2) != 2 || top2[1].Rank != 2 {
				t.Errorf("expected 2 ranked entries, got %+v", top2)
			}
		})
	}
}

func TestStore_MatchPointsNotFound(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.MatchPoints(ctx, "nope")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_Closed(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}
			if err := store.Close(); err != nil {
				t.Errorf("second close: %v", err)
			}
			if err := store.UpsertPoints(ctx, matchRows()); !errors.Is(err, ErrClosed) {
				t.Errorf("expected ErrClosed, got %v", err)
			}
			if _, err := store.Count(ctx); !errors.Is(err, ErrClosed) {
				t.Errorf("expected ErrClosed from Count, got %v", err)
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	cases := []struct {
		in   model.PlayerPoints
		want string
	}{
		{model.PlayerPoints{PlayerID: " 100 ", Player: "X"}, "id:100"},
		{model.PlayerPoints{Player: " Jess Jones ", Team: "DC"}, "name:jess jones|dc"},
	}
	for _, tc := range cases {
		if got := Identity(tc.in); got != tc.want {
			t.Errorf("Identity(%+v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewSQLiteStore_InMemory(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	if err := s.UpsertPoints(ctx, matchRows()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if n, _ := s.Count(ctx); n != 3 {
		t.Errorf("expected 3 rows, got %d", n)
	}
}
