// Package pipeline ties the planner, scheduler, reporter and post-pass
// together for one invocation: validate up front, plan every source,
// submit in planning order, drain, then post-process.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexmbird/albumconv/pkg/codec"
	"github.com/alexmbird/albumconv/pkg/encoder"
	"github.com/alexmbird/albumconv/pkg/logging"
	"github.com/alexmbird/albumconv/pkg/metrics"
	"github.com/alexmbird/albumconv/pkg/models"
	"github.com/alexmbird/albumconv/pkg/planner"
	"github.com/alexmbird/albumconv/pkg/postproc"
	"github.com/alexmbird/albumconv/pkg/report"
	"github.com/alexmbird/albumconv/pkg/scheduler"
)

// Config is the validated effect of the CLI layer: everything here is
// fixed before planning starts.
type Config struct {
	Sources     []string
	Codec       string
	Quality     string // empty means the strategy's default
	Jobs        int    // 0 means auto
	Clobber     bool
	EncoderPath string // empty means PATH probing
	ReplayGain  bool
	Rules       models.Rules

	Log      *logging.Logger
	Out      io.Writer // per-job status blocks and summary
	Exporter *metrics.Exporter
}

// Run executes one full invocation. The returned error is non-nil for
// pre-flight (validation/planning) failures, for fatal copy I/O
// failures, and when any individual encode failed; per-job outcomes are
// always reported through the status blocks regardless.
func Run(ctx context.Context, cfg Config) (*models.RunStats, error) {
	strat, err := codec.Lookup(cfg.Codec)
	if err != nil {
		return nil, err
	}

	quality := cfg.Quality
	if quality == "" {
		quality = strat.DefaultQuality()
	}
	if err := strat.CheckQuality(quality); err != nil {
		return nil, err
	}

	encoderPath, err := encoder.Find(cfg.EncoderPath)
	if err != nil {
		return nil, err
	}
	supported, err := encoder.SupportsLibrary(encoderPath, strat.Library())
	if err != nil {
		return nil, err
	}
	if !supported {
		return nil, fmt.Errorf("%s is built without %s", encoderPath, strat.Library())
	}

	workers := cfg.Jobs
	if workers < 1 {
		workers = scheduler.DefaultWorkers()
		if strat.Multithreaded() {
			// A multithreaded encoder already saturates cores on its own.
			workers = max(1, workers/2)
		}
	}

	cfg.Log.Info("Starting run", map[string]interface{}{
		"codec":   strat.Name(),
		"quality": quality,
		"encoder": encoderPath,
		"workers": workers,
		"sources": len(cfg.Sources),
	})

	// Plan every source before submitting anything, so a planning error
	// on the last source still aborts before any encode starts.
	plans := make([]*planner.Plan, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		plan, err := planner.PlanSource(src, strat, quality, cfg.Rules, cfg.Clobber)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	stats := &models.RunStats{}
	reporter := report.New(cfg.Out)
	start := time.Now()

	transcode := func(ctx context.Context, job models.Job) models.JobResult {
		cfg.Exporter.JobStarted()
		res := codec.Transcode(ctx, encoderPath, strat, job.SourcePath, job.DestPath, quality)
		inBytes, outBytes := fileSize(job.SourcePath), fileSize(job.DestPath)
		stats.RecordEncode(res.Success, inBytes, outBytes)
		cfg.Exporter.JobFinished(res.Success, inBytes, outBytes)
		return res
	}

	pool := scheduler.NewPool(workers, transcode, reporter.Report)

	for _, plan := range plans {
		stats.AddPlanned(len(plan.Jobs))
		for _, job := range plan.Jobs {
			if ctx.Err() != nil {
				cfg.Log.Warn("Interrupted, no further jobs will be submitted")
				pool.Drain()
				return stats, ctx.Err()
			}
			if err := pool.Submit(ctx, job); err != nil {
				// Copy failures are fatal, but the encodes already in
				// flight still finish and report.
				pool.Drain()
				return stats, err
			}
			if job.Kind == models.JobKindCopy {
				stats.RecordCopy()
				cfg.Exporter.CopyDone()
			}
		}
	}

	pool.Drain()

	if cfg.ReplayGain && ctx.Err() == nil {
		targets := make([]string, 0, len(plans))
		for _, plan := range plans {
			targets = append(targets, plan.GainTarget)
		}
		if err := postproc.ReplayGain(ctx, strat.GainTool(), targets, cfg.Log); err != nil {
			cfg.Log.Warn("Loudness pass aborted", map[string]interface{}{"error": err.Error()})
		}
	}

	reporter.Summary(stats, time.Since(start))

	_, _, _, failed, _, _ := stats.Snapshot()
	if failed > 0 {
		planned, _, _, _, _, _ := stats.Snapshot()
		return stats, fmt.Errorf("%d of %d jobs failed", failed, planned)
	}
	return stats, nil
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}
