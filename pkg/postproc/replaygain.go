// Package postproc runs the loudness-normalization pass over finished
// destination trees. It only ever runs after the scheduler drains, so it
// never observes a partially written file.
package postproc

import (
	"bytes"
	"context"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"github.com/alexmbird/albumconv/pkg/logging"
)

// gainConcurrency bounds simultaneous gain-tool processes. The tools are
// I/O bound; two keeps the disk busy without thrashing it.
const gainConcurrency = 2

// ReplayGain runs tool once per target (a destination directory or a
// single destination file). A failing gain pass is logged and skipped:
// the transcoded tree is complete and usable without loudness tags.
func ReplayGain(ctx context.Context, tool string, targets []string, log *logging.Logger) error {
	toolPath, err := exec.LookPath(tool)
	if err != nil {
		log.Warn("Gain tool not found, skipping loudness pass", map[string]interface{}{"tool": tool})
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(gainConcurrency)

	for _, target := range targets {
		target := target
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			cmd := exec.CommandContext(ctx, toolPath, target)
			var output bytes.Buffer
			cmd.Stdout = &output
			cmd.Stderr = &output
			cmd.Stdin = nil

			if err := cmd.Run(); err != nil {
				log.Warn("Loudness pass failed", map[string]interface{}{
					"target": target,
					"error":  err.Error(),
					"output": output.String(),
				})
				return nil
			}
			log.Debug("Loudness pass done", map[string]interface{}{"target": target})
			return nil
		})
	}
	return g.Wait()
}
