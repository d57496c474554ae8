// Package scheduler executes the planned job stream: transcode jobs on
// a bounded worker pool, copy jobs inline on the submitting goroutine.
// Copies run inline because a directory's contents and metadata must be
// settled in submission order, and they are cheap next to an encode.
package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/alexmbird/albumconv/pkg/fsutil"
	"github.com/alexmbird/albumconv/pkg/models"
)

// TranscodeFunc runs one transcode job to completion and reports its
// outcome. An encode failure is a JobResult with Success=false, not an
// error.
type TranscodeFunc func(ctx context.Context, job models.Job) models.JobResult

// Pool is a fixed-width execution engine for one invocation.
type Pool struct {
	transcode TranscodeFunc
	onResult  func(models.JobResult)
	slots     chan struct{}
	wg        sync.WaitGroup
}

// NewPool creates a pool with the given number of worker slots. onResult
// is invoked exactly once per submitted job and must be safe for
// concurrent use.
func NewPool(workers int, transcode TranscodeFunc, onResult func(models.JobResult)) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		transcode: transcode,
		onResult:  onResult,
		slots:     make(chan struct{}, workers),
	}
}

// Submit hands one job to the pool. Transcode jobs are dispatched to a
// worker goroutine; Submit blocks only while all slots are busy. Copy
// jobs run before Submit returns; a copy failure is fatal to the run
// and is returned as an error without producing a JobResult.
func (p *Pool) Submit(ctx context.Context, job models.Job) error {
	switch job.Kind {
	case models.JobKindCopy:
		if err := fsutil.CopyAny(job.SourcePath, job.DestPath); err != nil {
			return fmt.Errorf("copy job: %w", err)
		}
		p.onResult(models.JobResult{SourcePath: job.SourcePath, Success: true})
		return nil

	case models.JobKindTranscode:
		select {
		case p.slots <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			defer func() { <-p.slots }()
			p.onResult(p.transcode(ctx, job))
		}()
		return nil

	default:
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}
}

// Drain blocks until every in-flight transcode job has completed. No
// post-processing pass may start before Drain returns, so none can
// observe a partially written destination file.
func (p *Pool) Drain() {
	p.wg.Wait()
}

// DefaultWorkers returns the host's logical CPU count.
func DefaultWorkers() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}
