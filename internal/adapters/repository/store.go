// Package repository persists per-match fantasy points and the set of
// matches already exported.
package repository

import (
	"context"
	"strings"

	"github.com/okian/fantasy-cricket/internal/domain/model"
	"github.com/okian/fantasy-cricket/internal/domain/types"
)

// Store provides read/write access to exported points.
type Store interface {
	// UpsertPoints writes one match's rows. Rows are keyed by
	// (match id, player identity); writing the same key again replaces it.
	UpsertPoints(ctx context.Context, rows []model.PlayerPoints) error

	// MarkProcessed records that a match has been fully exported.
	MarkProcessed(ctx context.Context, m model.Match) error

	// ProcessedMatches returns the ids of exported matches in ascending order.
	ProcessedMatches(ctx context.Context) ([]string, error)

	// MatchPoints returns the stored rows for one match.
	// Returns ErrNotFound if the match has no rows.
	MatchPoints(ctx context.Context, matchID string) ([]model.PlayerPoints, error)

	// Count returns the number of stored point rows.
	Count(ctx context.Context) (int, error)

	// Standings returns season totals per player, best first. n <= 0 means all.
	Standings(ctx context.Context, n int) ([]types.Entry, error)

	Close() error
}

// Identity is the stable per-player key of a point row: the upstream profile
// id when known, otherwise the lowercased name and team.
func Identity(p model.PlayerPoints) string {
	if id := strings.TrimSpace(p.PlayerID); id != "" {
		return "id:" + id
	}
	return "name:" + strings.ToLower(strings.TrimSpace(p.Player)) + "|" + strings.ToLower(strings.TrimSpace(p.Team))
}

func validate(rows []model.PlayerPoints) error {
	for _, r := range rows {
		if strings.TrimSpace(r.MatchID) == "" {
			return errMissing("match id", r.Player)
		}
		if strings.TrimSpace(r.Player) == "" && strings.TrimSpace(r.PlayerID) == "" {
			return errMissing("player", r.MatchID)
		}
	}
	return nil
}
