package cricbuzz

import (
	"time"

	"github.com/okian/fantasy-cricket/pkg/logger"
)

// Option applies a configuration option to the Source.
type Option func(*Source)

// WithBaseURL sets the site root used for scorecard, match and commentary pages.
func WithBaseURL(u string) Option {
	return func(s *Source) {
		if u != "" {
			s.baseURL = u
		}
	}
}

// WithSeriesURL sets the tournament listing page.
func WithSeriesURL(u string) Option {
	return func(s *Source) {
		if u != "" {
			s.seriesURL = u
		}
	}
}

// WithNames supplies reference full names keyed by profile id.
func WithNames(n NameLookup) Option {
	return func(s *Source) {
		s.names = n
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for fixtures without a timestamp.
func WithClock(fn func() time.Time) Option {
	return func(s *Source) {
		if fn != nil {
			s.now = fn
		}
	}
}
