package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/okian/fantasy-cricket/internal/domain/model"
	"github.com/okian/fantasy-cricket/internal/domain/types"
	"github.com/okian/fantasy-cricket/pkg/logger"
)

const memoryDSN = ":memory:"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		team_a TEXT NOT NULL DEFAULT '',
		team_b TEXT NOT NULL DEFAULT '',
		starts_at TEXT NOT NULL DEFAULT '',
		venue TEXT NOT NULL DEFAULT '',
		result TEXT NOT NULL DEFAULT '',
		processed_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS player_points (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id TEXT NOT NULL,
		player_identity TEXT NOT NULL,
		player_id TEXT NOT NULL DEFAULT '',
		player TEXT NOT NULL,
		team TEXT NOT NULL DEFAULT '',
		batting INTEGER NOT NULL DEFAULT 0,
		bowling INTEGER NOT NULL DEFAULT 0,
		fielding INTEGER NOT NULL DEFAULT 0,
		potm INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL,
		UNIQUE (match_id, player_identity)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_player_points_identity ON player_points (player_identity)`,
}

const upsertPointsSQL = `INSERT INTO player_points
	(match_id, player_identity, player_id, player, team, batting, bowling, fielding, potm, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (match_id, player_identity) DO UPDATE SET
		player_id = excluded.player_id,
		player = excluded.player,
		team = excluded.team,
		batting = excluded.batting,
		bowling = excluded.bowling,
		fielding = excluded.fielding,
		potm = excluded.potm,
		updated_at = excluded.updated_at`

const markProcessedSQL = `INSERT INTO matches (id, team_a, team_b, starts_at, venue, result, processed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		team_a = excluded.team_a,
		team_b = excluded.team_b,
		starts_at = excluded.starts_at,
		venue = excluded.venue,
		result = excluded.result,
		processed_at = excluded.processed_at`

const standingsSQL = `SELECT
		player_identity,
		MAX(player_id),
		MAX(player) AS name,
		MAX(team),
		COUNT(*),
		SUM(batting),
		SUM(bowling),
		SUM(fielding),
		SUM(potm),
		SUM(batting + bowling + fielding + potm) AS total
	FROM player_points
	GROUP BY player_identity
	ORDER BY total DESC, name ASC, player_identity ASC
	LIMIT ?`

// SQLiteStore keeps points in a SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	cfg    config
	closed atomic.Bool
}

// NewSQLiteStore opens (and if needed creates) the database at path.
// ":memory:" gives a private in-memory database.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	cfg := newConfig(opts)
	if path != memoryDSN {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection serializes writers and keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, cfg: cfg}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	cfg.logger.Debug(ctx, "sqlite store ready", logger.String("path", path))
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	for _, q := range schema {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
	}
	return nil
}

// UpsertPoints writes all rows in one transaction.
func (s *SQLiteStore) UpsertPoints(ctx context.Context, rows []model.PlayerPoints) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if len(rows) == 0 {
		return nil
	}
	if err := validate(rows); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrExport, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertPointsSQL)
	if err != nil {
		return fmt.Errorf("%w: prepare: %w", ErrExport, err)
	}
	defer stmt.Close()

	now := s.cfg.now().UTC().Format(time.RFC3339Nano)
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.MatchID, Identity(r), r.PlayerID, r.Player, r.Team,
			r.Batting, r.Bowling, r.Fielding, r.POTM, now,
		); err != nil {
			return fmt.Errorf("%w: match %s player %q: %w", ErrExport, r.MatchID, r.Player, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrExport, err)
	}
	return nil
}

// MarkProcessed records the match as exported.
func (s *SQLiteStore) MarkProcessed(ctx context.Context, m model.Match) error {
	if s.closed.Load() {
		return ErrClosed
	}
	var starts string
	if !m.StartsAt.IsZero() {
		starts = m.StartsAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, markProcessedSQL,
		m.ID, m.TeamA, m.TeamB, starts, m.Venue, m.Result,
		s.cfg.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("%w: mark match %s processed: %w", ErrExport, m.ID, err)
	}
	return nil
}

// ProcessedMatches returns the ids of exported matches.
func (s *SQLiteStore) ProcessedMatches(ctx context.Context) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM matches WHERE processed_at IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query processed matches: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan processed match: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MatchPoints returns the rows stored for one match in insertion order.
func (s *SQLiteStore) MatchPoints(ctx context.Context, matchID string) ([]model.PlayerPoints, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `SELECT match_id, player_id, player, team, batting, bowling, fielding, potm
		FROM player_points WHERE match_id = ? ORDER BY id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query match points: %w", err)
	}
	defer rows.Close()

	var out []model.PlayerPoints
	for rows.Next() {
		var p model.PlayerPoints
		if err := rows.Scan(&p.MatchID, &p.PlayerID, &p.Player, &p.Team, &p.Batting, &p.Bowling, &p.Fielding, &p.POTM); err != nil {
			return nil, fmt.Errorf("scan match points: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	return out, nil
}

// Count returns the number of stored point rows.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM player_points`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}
	return n, nil
}

// Standings aggregates points per player across every stored match.
func (s *SQLiteStore) Standings(ctx context.Context, n int) ([]types.Entry, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	limit := n
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, standingsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	defer rows.Close()

	var out []types.Entry
	for rows.Next() {
		var (
			identity string
			e        types.Entry
		)
		if err := rows.Scan(&identity, &e.PlayerID, &e.Player, &e.Team, &e.Matches,
			&e.Batting, &e.Bowling, &e.Fielding, &e.POTM, &e.Total); err != nil {
			return nil, fmt.Errorf("scan standings: %w", err)
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database. Further calls return ErrClosed.
func (s *SQLiteStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := s.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}
	return nil
}
