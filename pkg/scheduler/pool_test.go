package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexmbird/albumconv/pkg/models"
)

// TestPoolConcurrencyBound submits 5 gated transcode jobs into a pool
// of width 2 and checks no more than 2 ever run at once.
func TestPoolConcurrencyBound(t *testing.T) {
	const width = 2
	const jobCount = 5

	var running, peak int32
	release := make(chan struct{})

	transcode := func(ctx context.Context, job models.Job) models.JobResult {
		n := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}
		<-release
		atomic.AddInt32(&running, -1)
		return models.JobResult{SourcePath: job.SourcePath, Success: true}
	}

	var mu sync.Mutex
	var results []models.JobResult
	pool := NewPool(width, transcode, func(r models.JobResult) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < jobCount; i++ {
			job := models.Job{Kind: models.JobKindTranscode, SourcePath: "src"}
			if err := pool.Submit(context.Background(), job); err != nil {
				t.Errorf("Submit failed: %v", err)
			}
		}
	}()

	// Let the first two jobs occupy both slots, then free everyone.
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&running); got != width {
		t.Errorf("running = %d, want %d while gated", got, width)
	}
	close(release)
	<-done
	pool.Drain()

	if got := atomic.LoadInt32(&peak); got > width {
		t.Errorf("peak concurrency = %d, exceeds pool width %d", got, width)
	}
	if len(results) != jobCount {
		t.Errorf("got %d results, want %d", len(results), jobCount)
	}
}

func TestPoolCopyJobRunsInline(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "cover.jpg")
	dst := filepath.Join(dir, "out", "cover.jpg")
	if err := os.WriteFile(src, []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "out"), 0o755); err != nil {
		t.Fatal(err)
	}

	var results []models.JobResult
	pool := NewPool(1, nil, func(r models.JobResult) { results = append(results, r) })

	job := models.Job{Kind: models.JobKindCopy, SourcePath: src, DestPath: dst}
	if err := pool.Submit(context.Background(), job); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Inline execution: the file exists before Submit returns
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("copy destination missing: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("copied content = %q", data)
	}
	if len(results) != 1 || !results[0].Success {
		t.Errorf("results = %+v, want one success", results)
	}
}

func TestPoolCopyFailureIsError(t *testing.T) {
	pool := NewPool(1, nil, func(models.JobResult) {
		t.Error("failed copy must not produce a JobResult")
	})
	job := models.Job{
		Kind:       models.JobKindCopy,
		SourcePath: filepath.Join(t.TempDir(), "missing.jpg"),
		DestPath:   filepath.Join(t.TempDir(), "out.jpg"),
	}
	if err := pool.Submit(context.Background(), job); err == nil {
		t.Fatal("expected error for missing copy source")
	}
}

func TestPoolSubmitAfterCancel(t *testing.T) {
	gate := make(chan struct{})
	transcode := func(ctx context.Context, job models.Job) models.JobResult {
		<-gate
		return models.JobResult{Success: true}
	}
	pool := NewPool(1, transcode, func(models.JobResult) {})

	ctx, cancel := context.WithCancel(context.Background())
	if err := pool.Submit(ctx, models.Job{Kind: models.JobKindTranscode}); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	// Slot is occupied; a cancelled context must unblock the second
	// submission with an error instead of queueing it.
	cancel()
	if err := pool.Submit(ctx, models.Job{Kind: models.JobKindTranscode}); err == nil {
		t.Error("expected error submitting after cancellation")
	}

	close(gate)
	pool.Drain()
}
