// Package cricbuzz reads fixtures, scorecards, awards and commentary from
// Cricbuzz markup.
package cricbuzz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/fantasy-cricket/internal/domain/identity"
	"github.com/okian/fantasy-cricket/internal/domain/model"
	"github.com/okian/fantasy-cricket/pkg/logger"
	"github.com/okian/fantasy-cricket/pkg/metrics"
)

const (
	defaultBaseURL   = "https://www.cricbuzz.com"
	defaultSeriesURL = defaultBaseURL + "/cricket-series/9351/womens-premier-league-2025/matches"
)

// Getter fetches a page body.
type Getter interface {
	Get(ctx context.Context, url string) (string, error)
}

// Source fetches and parses upstream pages.
type Source struct {
	get       Getter
	baseURL   string
	seriesURL string
	names     NameLookup
	logger    logger.Logger
	now       func() time.Time
}

// NewSource creates a Source reading through g.
func NewSource(g Getter, opts ...Option) *Source {
	s := &Source{
		get:       g,
		baseURL:   defaultBaseURL,
		seriesURL: defaultSeriesURL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("cricbuzz")
	}
	s.baseURL = strings.TrimRight(s.baseURL, "/")
	return s
}

// Matches lists the series fixtures in page order.
func (s *Source) Matches(ctx context.Context) ([]model.Match, error) {
	body, err := s.get.Get(ctx, s.seriesURL)
	if err != nil {
		return nil, err
	}
	res, err := ParseMatchList(strings.NewReader(body), s.baseURL, s.now())
	if err != nil {
		return nil, err
	}
	if res.Dropped > 0 {
		s.logger.Warn(ctx, "listing entries without a match link were skipped",
			logger.Int("dropped", res.Dropped))
	}
	metrics.RecordMatchesListed(len(res.Matches))
	return res.Matches, nil
}

// Scorecard fetches and parses one match scorecard.
func (s *Source) Scorecard(ctx context.Context, matchID string) (*model.Scorecard, *identity.Resolver, error) {
	body, err := s.get.Get(ctx, s.baseURL+"/api/html/cricket-scorecard/"+matchID)
	if err != nil {
		return nil, nil, err
	}
	sc, resolver, err := ParseScorecard(strings.NewReader(body), matchID, s.names)
	if err != nil {
		return nil, nil, err
	}

	for _, sk := range sc.Skipped {
		metrics.RecordRowSkipped(string(sk.Kind))
		s.logger.Debug(ctx, "scorecard row skipped",
			logger.String("match_id", matchID),
			logger.Int("innings", sk.Innings),
			logger.String("kind", string(sk.Kind)),
			logger.String("reason", sk.Reason),
		)
	}
	for _, name := range sc.Unresolved {
		metrics.RecordIdentityMiss()
		s.logger.Debug(ctx, "fielder did not match a known player",
			logger.String("match_id", matchID), logger.String("name", name))
	}
	if amb := resolver.Ambiguous(); len(amb) > 0 {
		metrics.RecordAmbiguousNames(len(amb))
		for _, k := range resolver.AmbiguousKeys() {
			s.logger.Warn(ctx, "name variation shared by several players",
				logger.String("match_id", matchID),
				logger.String("variation", k),
				logger.Any("candidates", amb[k]),
			)
		}
	}
	return sc, resolver, nil
}

// PlayerOfMatch fetches the match page and returns its award.
func (s *Source) PlayerOfMatch(ctx context.Context, matchID string) (model.Award, error) {
	body, err := s.get.Get(ctx, s.baseURL+"/cricket-scores/"+matchID)
	if err != nil {
		return model.Award{}, err
	}
	return ParsePlayerOfMatch(strings.NewReader(body), matchID)
}

// DotBalls counts a bowler's dot balls in one innings from commentary.
func (s *Source) DotBalls(ctx context.Context, matchID string, innings int, playerID string) (int, error) {
	u := fmt.Sprintf("%s/player-match-highlights/%s/%d/%s/bowling", s.baseURL, matchID, innings, playerID)
	body, err := s.get.Get(ctx, u)
	if err != nil {
		return 0, err
	}
	return CountDotBalls(strings.NewReader(body))
}
