package repository

import (
	"time"

	"github.com/okian/fantasy-cricket/pkg/logger"
)

type config struct {
	logger logger.Logger
	now    func() time.Time
}

func newConfig(opts []Option) config {
	c := config{now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = logger.Named("store")
	}
	return c
}

// Option applies a configuration option to a store.
type Option func(*config)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces time.Now for processed and updated timestamps.
func WithClock(fn func() time.Time) Option {
	return func(c *config) {
		if fn != nil {
			c.now = fn
		}
	}
}
