package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/fantasy-cricket/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.SeriesURL, convey.ShouldContainSubstring, "/cricket-series/")
			convey.So(cfg.RetryMaxAttempts, convey.ShouldEqual, 5)
			convey.So(cfg.RetryInitialDelay(), convey.ShouldEqual, time.Second)
			convey.So(cfg.RequestDelay(), convey.ShouldEqual, 2*time.Second)
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreSQLite)
			convey.So(cfg.Scoring.POTM, convey.ShouldEqual, 50)
			convey.So(cfg.Scoring.Catch, convey.ShouldEqual, 10)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given an otherwise valid config", t, func() {
		cfg := config.New()

		cases := []struct {
			name   string
			mutate func()
		}{
			{"empty series url", func() { cfg.SeriesURL = " " }},
			{"empty base url", func() { cfg.BaseURL = "" }},
			{"zero attempts", func() { cfg.RetryMaxAttempts = 0 }},
			{"negative limit", func() { cfg.MatchLimit = -1 }},
			{"negative delay", func() { cfg.RequestDelayMS = -5 }},
			{"unknown driver", func() { cfg.StoreDriver = "postgres" }},
			{"sqlite without path", func() { cfg.DatabasePath = "" }},
			{"unknown report format", func() { cfg.ReportFormat = "csv" }},
		}
		for _, tc := range cases {
			convey.Convey("When it has "+tc.name, func() {
				tc.mutate()
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("When the memory driver has no database path", func() {
			cfg.StoreDriver = config.StoreMemory
			cfg.DatabasePath = ""
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
