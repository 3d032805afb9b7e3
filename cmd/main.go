package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/fantasy-cricket/internal/adapters/cricbuzz"
	"github.com/okian/fantasy-cricket/internal/adapters/fetch"
	"github.com/okian/fantasy-cricket/internal/adapters/playerref"
	"github.com/okian/fantasy-cricket/internal/adapters/repository"
	service "github.com/okian/fantasy-cricket/internal/app"
	"github.com/okian/fantasy-cricket/internal/config"
	"github.com/okian/fantasy-cricket/internal/domain/scoring"
	"github.com/okian/fantasy-cricket/internal/report"
	"github.com/okian/fantasy-cricket/pkg/logger"
	"github.com/okian/fantasy-cricket/pkg/metrics"
)

func main() {
	// Initialize logging with defaults until the config is known.
	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM; a run stops between matches.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(
		logger.WithOutput(os.Stderr),
		logger.WithFormat(cfg.LogFormat),
		logger.WithLevel(cfg.LogLevel),
	); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := run(ctx, cfg, os.Stdout); err != nil {
		logger.Get().Error(ctx, "run failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run wires the pipeline from cfg, processes the selected matches and prints
// season standings to out.
func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	log := logger.Named("main")

	metrics.Init(
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithConstLabels(cfg.MetricsLabels),
	)

	dir, err := playerref.Load(cfg.PlayersPath)
	if err != nil {
		return err
	}
	log.Info(ctx, "player reference loaded", logger.Int("players", dir.Len()))

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn(ctx, "closing store", logger.Error(err))
		}
	}()

	client := fetch.New(
		fetch.WithRetryPolicy(fetch.RetryPolicy{
			MaxAttempts:  cfg.RetryMaxAttempts,
			InitialDelay: cfg.RetryInitialDelay(),
			MaxDelay:     cfg.RetryMaxDelay(),
			Multiplier:   2,
		}),
		fetch.WithMinInterval(cfg.RequestDelay()),
		fetch.WithTimeout(cfg.HTTPTimeout()),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithFallbackIPs(cfg.FallbackIPs),
	)
	src := cricbuzz.NewSource(client,
		cricbuzz.WithBaseURL(cfg.BaseURL),
		cricbuzz.WithSeriesURL(cfg.SeriesURL),
		cricbuzz.WithNames(dir),
	)

	asJSON := cfg.ReportFormat == config.ReportJSON
	svc := service.New(src, store,
		service.WithEngine(scoring.NewEngine(scoring.WithRules(rulesFromConfig(cfg.Scoring)))),
		service.WithMatchLimit(cfg.MatchLimit),
		service.WithCompletedOnly(cfg.CompletedOnly),
		service.WithDotBalls(cfg.DotBalls),
		service.WithResume(cfg.Resume),
		service.WithReport(out, asJSON),
	)

	sum, runErr := svc.Run(ctx)
	if sum == nil {
		return runErr
	}
	for _, f := range sum.Failed {
		log.Warn(ctx, "match not exported",
			logger.String("match_id", f.MatchID),
			logger.String("match", f.Title),
			logger.Error(f.Err),
		)
	}

	// Standings are read with a fresh context so an interrupted run still
	// prints what it exported.
	entries, err := svc.Standings(context.WithoutCancel(ctx), cfg.StandingsLimit)
	if err != nil {
		return err
	}
	if asJSON {
		err = report.RenderJSON(out, entries)
	} else {
		err = report.Render(out, fmt.Sprintf("Season standings (%d matches exported this run)", sum.Exported), entries)
	}
	if err != nil {
		return err
	}

	if cfg.MetricsPath != "" {
		if err := metrics.WriteTextfile(cfg.MetricsPath, nil); err != nil {
			log.Warn(ctx, "metrics textfile not written", logger.Error(err))
		}
	}
	return runErr
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	if cfg.StoreDriver == config.StoreMemory {
		return repository.NewMemoryStore(), nil
	}
	return repository.NewSQLiteStore(ctx, cfg.DatabasePath)
}

// rulesFromConfig overlays the configured weights on the default table.
// Strike-rate and economy bands are not configurable.
func rulesFromConfig(s config.Scoring) scoring.Rules {
	r := scoring.DefaultRules()
	r.Run = s.Run
	r.Four = s.Four
	r.Six = s.Six
	r.MilestoneRuns = s.MilestoneRuns
	r.MilestoneBonus = s.MilestoneBonus
	r.StrikeRateMinBalls = s.StrikeRateMinBalls
	r.Wicket = s.Wicket
	r.WicketBonus = s.WicketBonus
	r.Maiden = s.Maiden
	r.DotBall = s.DotBall
	r.EconomyMinOvers = s.EconomyMinOvers
	r.WidesPerPenalty = s.WidesPerPenalty
	r.NoBallPenalty = s.NoBallPenalty
	r.Catch = s.Catch
	r.Stumping = s.Stumping
	r.RunOut = s.RunOut
	r.POTM = s.POTM
	return r
}
