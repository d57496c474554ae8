// Package report renders per-job status blocks and the end-of-run
// summary table. It never alters success/failure semantics.
package report

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alexmbird/albumconv/pkg/models"
)

const delimiter = "----------------------------------------"

// Reporter prints one delimited block per completed job. Worker
// goroutines report concurrently, so writes are serialized.
type Reporter struct {
	mu sync.Mutex
	w  io.Writer
}

func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Report prints the status block for one JobResult.
func (r *Reporter) Report(res models.JobResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := "SUCCESS"
	if !res.Success {
		status = "FAILED"
	}

	fmt.Fprintln(r.w, delimiter)
	fmt.Fprintf(r.w, "%s: %s\n", status, res.SourcePath)
	if len(res.Output) > 0 {
		fmt.Fprintln(r.w, string(res.Output))
	}
	fmt.Fprintln(r.w, delimiter)
}

// Summary renders the aggregate table for the whole invocation.
func (r *Reporter) Summary(stats *models.RunStats, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	planned, encoded, copied, failed, inBytes, outBytes := stats.Snapshot()

	table := tablewriter.NewWriter(r.w)
	table.Header("Metric", "Value")
	table.Append("Jobs planned", fmt.Sprintf("%d", planned))
	table.Append("Encoded", fmt.Sprintf("%d", encoded))
	table.Append("Copied", fmt.Sprintf("%d", copied))
	table.Append("Failed", fmt.Sprintf("%d", failed))
	table.Append("Input bytes", formatBytes(inBytes))
	table.Append("Output bytes", formatBytes(outBytes))
	table.Append("Elapsed", elapsed.Round(time.Second).String())
	table.Render()
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
