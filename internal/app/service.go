// Package service runs the scoring pipeline: list fixtures, fetch and parse
// each scorecard, score every player and export the points.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fantasy-cricket/internal/adapters/repository"
	"github.com/okian/fantasy-cricket/internal/domain/dedupe"
	"github.com/okian/fantasy-cricket/internal/domain/identity"
	"github.com/okian/fantasy-cricket/internal/domain/merge"
	"github.com/okian/fantasy-cricket/internal/domain/model"
	"github.com/okian/fantasy-cricket/internal/domain/scoring"
	"github.com/okian/fantasy-cricket/internal/domain/types"
	"github.com/okian/fantasy-cricket/internal/report"
	"github.com/okian/fantasy-cricket/pkg/logger"
	"github.com/okian/fantasy-cricket/pkg/metrics"
)

// Source supplies upstream match data.
type Source interface {
	Matches(ctx context.Context) ([]model.Match, error)
	Scorecard(ctx context.Context, matchID string) (*model.Scorecard, *identity.Resolver, error)
	PlayerOfMatch(ctx context.Context, matchID string) (model.Award, error)
	DotBalls(ctx context.Context, matchID string, innings int, playerID string) (int, error)
}

// Service processes matches one at a time. A failing match is recorded in
// the run summary and the run moves on.
type Service struct {
	source     Source
	store      repository.Store
	engine     *scoring.Engine
	checkpoint dedupe.Deduper

	limit         int
	completedOnly bool
	dotBalls      bool
	resume        bool

	out        io.Writer
	reportJSON bool

	logger logger.Logger
	now    func() time.Time
}

// New constructs a Service reading from src and exporting to store.
func New(src Source, store repository.Store, opts ...Option) *Service {
	s := &Service{
		source:        src,
		store:         store,
		completedOnly: true,
		resume:        true,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = scoring.NewEngine()
	}
	if s.logger == nil {
		s.logger = logger.Named("pipeline")
	}
	return s
}

// Run processes every selected match. The returned error is non-nil only
// when the listing cannot be read or ctx is cancelled between matches; in
// the latter case the partial summary is returned too.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	started := s.now()
	sum := &Summary{RunID: uuid.NewString(), StartedAt: started}
	rid := logger.String("run_id", sum.RunID)
	defer func() {
		sum.Duration = s.now().Sub(started)
		metrics.RecordRunFinished(s.now(), sum.Duration)
	}()

	if err := s.prepareCheckpoint(ctx); err != nil {
		return nil, err
	}

	t := s.now()
	matches, err := s.source.Matches(ctx)
	metrics.ObserveStage("list", s.now().Sub(t))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListMatches, err)
	}
	sum.Listed = len(matches)

	selected := s.selectMatches(ctx, matches, sum)
	sum.Selected = len(selected)
	s.logger.Info(ctx, "run started", rid,
		logger.Int("checkpointed", int(s.checkpoint.Size())),
		logger.Int("listed", sum.Listed),
		logger.Int("selected", sum.Selected),
		logger.Int("skipped", sum.Skipped),
	)

	for i, m := range selected {
		if err := ctx.Err(); err != nil {
			for _, rest := range selected[i:] {
				s.checkpoint.Unrecord(ctx, rest.ID)
			}
			s.logger.Warn(ctx, "run interrupted", rid, logger.Int("remaining", len(selected)-i))
			return sum, err
		}

		rows, err := s.processMatch(ctx, m)
		switch {
		case err == nil:
			sum.Exported++
			sum.Rows += rows
			metrics.RecordMatchProcessed(metrics.OutcomeExported)
			s.logger.Info(ctx, "match exported", rid,
				logger.String("match_id", m.ID),
				logger.String("match", m.Title()),
				logger.Int("rows", rows),
			)
		case errors.Is(err, ErrEmptyScorecard):
			s.checkpoint.Unrecord(ctx, m.ID)
			sum.Skipped++
			metrics.RecordMatchProcessed(metrics.OutcomeSkipped)
			s.logger.Warn(ctx, "match skipped", rid, logger.String("match_id", m.ID), logger.Error(err))
		default:
			s.checkpoint.Unrecord(ctx, m.ID)
			sum.fail(m, err)
			metrics.RecordMatchProcessed(metrics.OutcomeFailed)
			s.logger.Error(ctx, "match failed", rid, logger.String("match_id", m.ID), logger.Error(err))
		}
	}

	s.logger.Info(ctx, "run finished", rid,
		logger.Int("exported", sum.Exported),
		logger.Int("rows", sum.Rows),
		logger.Int("skipped", sum.Skipped),
		logger.Int("failed", len(sum.Failed)),
		logger.Duration("took", s.now().Sub(started)),
	)
	return sum, nil
}

// Standings returns season totals from the store.
func (s *Service) Standings(ctx context.Context, n int) ([]types.Entry, error) {
	return s.store.Standings(ctx, n)
}

func (s *Service) prepareCheckpoint(ctx context.Context) error {
	if s.checkpoint != nil {
		return nil
	}
	if !s.resume {
		s.checkpoint = dedupe.NewCheckpoint()
		return nil
	}
	ids, err := s.store.ProcessedMatches(ctx)
	if err != nil {
		return fmt.Errorf("load processed matches: %w", err)
	}
	s.checkpoint = dedupe.NewCheckpoint(dedupe.WithSeed(ids...))
	return nil
}

// selectMatches orders fixtures by start time, drops incomplete, processed
// and repeated ones, and applies the limit. Selected ids are recorded in the
// checkpoint.
func (s *Service) selectMatches(ctx context.Context, matches []model.Match, sum *Summary) []model.Match {
	sorted := append([]model.Match(nil), matches...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartsAt.Before(sorted[j].StartsAt)
	})

	var out []model.Match
	for _, m := range sorted {
		if s.limit > 0 && len(out) >= s.limit {
			break
		}
		if s.completedOnly && !m.Completed() {
			sum.Skipped++
			continue
		}
		if s.checkpoint.SeenAndRecord(ctx, m.ID) {
			s.logger.Debug(ctx, "match already processed", logger.String("match_id", m.ID))
			sum.Skipped++
			continue
		}
		out = append(out, m)
	}
	return out
}

func (s *Service) processMatch(ctx context.Context, m model.Match) (int, error) {
	t := s.now()
	sc, resolver, err := s.source.Scorecard(ctx, m.ID)
	metrics.ObserveStage("scorecard", s.now().Sub(t))
	if err != nil {
		return 0, fmt.Errorf("scorecard: %w", err)
	}
	if sc.Empty() {
		return 0, fmt.Errorf("%w: match %s", ErrEmptyScorecard, m.ID)
	}

	if s.dotBalls {
		t = s.now()
		s.fillDotBalls(ctx, sc)
		metrics.ObserveStage("dot_balls", s.now().Sub(t))
	}

	t = s.now()
	award := s.playerOfMatch(ctx, m.ID, resolver)
	metrics.ObserveStage("potm", s.now().Sub(t))

	t = s.now()
	points := s.engine.Points(m.ID, merge.Merge(sc), award)
	metrics.ObserveStage("score", s.now().Sub(t))

	if s.out != nil {
		if err := s.render(m, points); err != nil {
			s.logger.Warn(ctx, "could not write match report", logger.String("match_id", m.ID), logger.Error(err))
		}
	}

	t = s.now()
	rows, err := report.Export(ctx, s.store, points)
	if err == nil {
		err = s.store.MarkProcessed(ctx, m)
	}
	metrics.ObserveStage("export", s.now().Sub(t))
	if err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	return rows, nil
}

// fillDotBalls sets DotBalls on every bowling row with a profile id. A
// failed lookup leaves the row at zero.
func (s *Service) fillDotBalls(ctx context.Context, sc *model.Scorecard) {
	for i := range sc.Bowling {
		b := &sc.Bowling[i]
		if b.PlayerID == "" {
			continue
		}
		n, err := s.source.DotBalls(ctx, sc.MatchID, b.Innings, b.PlayerID)
		if err != nil {
			s.logger.Warn(ctx, "dot balls unavailable",
				logger.String("match_id", sc.MatchID),
				logger.String("player", b.Name),
				logger.Error(err),
			)
			continue
		}
		b.DotBalls = n
	}
}

// playerOfMatch fetches the award and maps its name onto the scorecard's
// canonical form. A missing award is not an error.
func (s *Service) playerOfMatch(ctx context.Context, matchID string, r *identity.Resolver) model.Award {
	award, err := s.source.PlayerOfMatch(ctx, matchID)
	if err != nil {
		s.logger.Warn(ctx, "player of the match unavailable", logger.String("match_id", matchID), logger.Error(err))
		return model.Award{MatchID: matchID}
	}
	if award.Name != "" && r != nil {
		if name, ok := r.Resolve(award.Name); ok {
			award.Name = name
			if award.PlayerID == "" {
				award.PlayerID = r.ID(name)
			}
		}
	}
	if award.Empty() {
		s.logger.Debug(ctx, "no player of the match", logger.String("match_id", matchID))
	}
	return award
}

func (s *Service) render(m model.Match, points []model.PlayerPoints) error {
	entries := report.Rank(report.Filter(points))
	if s.reportJSON {
		return report.RenderJSON(s.out, entries)
	}
	title := fmt.Sprintf("%s (%s)", m.Title(), m.ID)
	if err := report.Render(s.out, title, entries); err != nil {
		return err
	}
	_, err := fmt.Fprintln(s.out)
	return err
}
