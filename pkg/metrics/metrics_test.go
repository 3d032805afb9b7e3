package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func value(reg *prometheus.Registry, name string, labels map[string]string) float64 {
	families, err := reg.Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	metric:
		for _, m := range f.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metric
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return 0
}

func TestManager(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(reg), WithConstLabels(map[string]string{"series": "wpl"}))

		Convey("When pipeline events are recorded", func() {
			m.RecordMatchesListed(4)
			m.RecordMatchProcessed(OutcomeExported)
			m.RecordMatchProcessed(OutcomeExported)
			m.RecordMatchProcessed(OutcomeFailed)
			m.RecordFetch(OutcomeOK)
			m.RecordFetchRetry()
			m.RecordRowSkipped("bowling")
			m.RecordIdentityMiss()
			m.RecordAmbiguousNames(2)
			m.RecordRowsExported(22)
			m.ObserveStage("parse", 30*time.Millisecond)
			m.RecordRunFinished(time.Unix(1700000000, 0), 2*time.Second)

			Convey("Then the counters reflect them", func() {
				So(value(reg, "fantasy_pipeline_matches_listed_total", nil), ShouldEqual, 4)
				So(value(reg, "fantasy_pipeline_matches_processed_total", map[string]string{"outcome": "exported"}), ShouldEqual, 2)
				So(value(reg, "fantasy_pipeline_matches_processed_total", map[string]string{"outcome": "failed"}), ShouldEqual, 1)
				So(value(reg, "fantasy_pipeline_rows_exported_total", nil), ShouldEqual, 22)
				So(value(reg, "fantasy_pipeline_identity_ambiguous_total", nil), ShouldEqual, 2)
				So(value(reg, "fantasy_pipeline_stage_duration_seconds", map[string]string{"stage": "parse"}), ShouldEqual, 1)
				So(value(reg, "fantasy_pipeline_last_run_timestamp_seconds", nil), ShouldEqual, 1700000000)
			})
		})

		Convey("When the manager is disabled", func() {
			reg2 := prometheus.NewRegistry()
			off := NewManager(WithPrometheusRegistry(reg2), WithMetricsEnabled(false))
			off.RecordMatchesListed(3)
			So(value(reg2, "fantasy_pipeline_matches_listed_total", nil), ShouldEqual, 0)
		})
	})

	Convey("Given custom naming options", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(
			WithPrometheusRegistry(reg),
			WithNamespace("wpl"),
			WithSubsystem("scraper"),
		)
		m.RecordIdentityMiss()
		So(value(reg, "wpl_scraper_identity_misses_total", nil), ShouldEqual, 1)
	})
}

func TestInit(t *testing.T) {
	Convey("Given the global manager rebuilt with naming and labels", t, func() {
		Init(WithNamespace("wpl"), WithConstLabels(map[string]string{"series": "9351"}))
		Reset(func() { Init() })

		RecordMatchesListed(3)

		Convey("Then the package helpers record under the new names", func() {
			So(value(GetRegistry(), "wpl_pipeline_matches_listed_total", map[string]string{"series": "9351"}), ShouldEqual, 3)
			So(value(GetRegistry(), "fantasy_pipeline_matches_listed_total", nil), ShouldEqual, 0)
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given the global registry", t, func() {
		RecordMatchesListed(1)
		path := filepath.Join(t.TempDir(), "fantasy.prom")

		Convey("When written as a textfile", func() {
			So(WriteTextfile(path, nil), ShouldBeNil)

			Convey("Then the file holds the exposition format", func() {
				raw, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, "fantasy_pipeline_matches_listed_total")
			})
		})

		Convey("When the directory does not exist", func() {
			err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"), GetRegistry())
			So(errors.Is(err, ErrWriteTextfile), ShouldBeTrue)
		})
	})
}
