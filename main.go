package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/flux/components"
	"github.com/pthm-cable/flux/config"
	"github.com/pthm-cable/flux/sim"
	"github.com/pthm-cable/flux/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	dt := flag.Float64("dt", 0, "Fixed timestep in seconds (0 = 1/tick-rate)")
	tickRate := flag.Int("tick-rate", 60, "Ticks per second")
	analysisInterval := flag.Float64("analysis-interval", 0, "Seconds between analyses (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Log collision stats with every analysis")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	s, err := sim.New(cfg.Domain.Width, cfg.Domain.Height, cfg,
		sim.WithSeed(rngSeed),
		sim.WithLogger(logger),
		sim.WithOutputDir(*outputDir),
	)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	interval := cfg.Analysis.Interval
	if *analysisInterval > 0 {
		interval = *analysisInterval
	}

	s.OnAnalysis(func(r telemetry.Result) {
		slog.Info("analysis", "result", r)
		if *logStats {
			slog.Info("stats", "totals", s.Stats())
			s.PerfStats().LogStats()
		}
	})
	s.OnCollision(func(ev components.CollisionEvent) {
		if ev.Classification == components.ResponseDestroy {
			slog.Debug("destructive collision",
				"a", ev.AID, "b", ev.BID,
				"impact", ev.ImpactForce)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := &sim.FixedStepDriver{
		TickRate:         *tickRate,
		DT:               *dt,
		AnalysisInterval: time.Duration(interval * float64(time.Second)),
		MaxTicks:         *maxTicks,
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"tick_rate", *tickRate,
		"max_ticks", *maxTicks,
		"analysis_interval_sec", interval,
	)

	s.Start()
	if err := driver.Run(ctx, s); err != nil && ctx.Err() == nil {
		slog.Error("driver stopped", "error", err)
		os.Exit(1)
	}
	s.Stop()

	// Final summary before exit
	s.Analyze()
	slog.Info("simulation finished",
		"ticks", s.Tick(),
		"sim_time", s.Time(),
		"totals", s.Stats(),
	)
}
