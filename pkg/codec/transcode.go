package codec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/alexmbird/albumconv/pkg/fsutil"
	"github.com/alexmbird/albumconv/pkg/models"
)

// Transcode runs the encoder subprocess for one file and returns its
// outcome as a JobResult. A non-zero exit is a normal per-job failure
// carried in the result, never an error: one bad rip must not abort its
// siblings.
//
// Stdin stays detached so the encoder can never block on an interactive
// prompt. Stdout and stderr are captured combined, in order.
//
// Whether or not the encode succeeded, if the destination file exists
// afterwards the source's mtime and permission bits are copied onto it;
// a half-written output with honest timestamps is easier to triage than
// one stamped with the encode time.
func Transcode(ctx context.Context, encoderPath string, s Strategy, src, dst, quality string) models.JobResult {
	args := s.BuildArgs(src, dst, quality)

	cmd := exec.CommandContext(ctx, encoderPath, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.Stdin = nil

	err := cmd.Run()
	if err != nil {
		fmt.Fprintf(&output, "\n%s: %v\n", encoderPath, err)
	}

	if _, statErr := os.Stat(dst); statErr == nil {
		// Best effort: a failure to restamp metadata must not turn a
		// good encode into a failed job.
		_ = fsutil.CopyMeta(src, dst)
	}

	return models.JobResult{
		SourcePath: src,
		Success:    err == nil,
		Output:     output.Bytes(),
	}
}
