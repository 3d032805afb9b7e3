package service

import (
	"io"
	"time"

	"github.com/okian/fantasy-cricket/internal/domain/dedupe"
	"github.com/okian/fantasy-cricket/internal/domain/scoring"
	"github.com/okian/fantasy-cricket/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithEngine sets the scoring engine. Defaults to the standard point table.
func WithEngine(e *scoring.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithCheckpoint sets the processed-match tracker. Without one, Run seeds a
// fresh tracker from the store when resuming.
func WithCheckpoint(d dedupe.Deduper) Option {
	return func(s *Service) {
		s.checkpoint = d
	}
}

// WithMatchLimit caps how many matches a run processes. 0 means all.
func WithMatchLimit(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.limit = n
		}
	}
}

// WithCompletedOnly drops fixtures without a result.
func WithCompletedOnly(v bool) Option {
	return func(s *Service) {
		s.completedOnly = v
	}
}

// WithDotBalls enables the per-bowler commentary lookup.
func WithDotBalls(v bool) Option {
	return func(s *Service) {
		s.dotBalls = v
	}
}

// WithResume skips matches the store already marks as processed.
func WithResume(v bool) Option {
	return func(s *Service) {
		s.resume = v
	}
}

// WithReport writes a per-match table (or JSON when asJSON) to w.
func WithReport(w io.Writer, asJSON bool) Option {
	return func(s *Service) {
		s.out = w
		s.reportJSON = asJSON
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}
