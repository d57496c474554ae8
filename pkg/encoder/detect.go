// Package encoder locates the external encoder binary and verifies the
// codec library the chosen strategy needs is compiled into it. Both
// checks run before planning so a missing encoder fails the run before
// any side effects.
package encoder

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Candidates are probed, in order, when no explicit path is given.
var Candidates = []string{"ffmpeg", "avconv"}

// Find resolves the encoder binary. An explicit override is taken as-is
// (paths with a separator are stat'd, bare names looked up in PATH);
// otherwise each candidate name is probed in order.
func Find(override string) (string, error) {
	if override != "" {
		if strings.ContainsRune(override, os.PathSeparator) {
			if _, err := os.Stat(override); err != nil {
				return "", fmt.Errorf("encoder %s: %w", override, err)
			}
			return override, nil
		}
		return exec.LookPath(override)
	}

	for _, name := range Candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no encoder found in PATH (tried %s)", strings.Join(Candidates, ", "))
}

// SupportsLibrary reports whether the encoder binary has the given
// codec library ("libmp3lame", "libopus") compiled in.
func SupportsLibrary(encoderPath, library string) (bool, error) {
	cmd := exec.Command(encoderPath, "-hide_banner", "-encoders")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &bytes.Buffer{} // Discard stderr

	if err := cmd.Run(); err != nil {
		return false, fmt.Errorf("querying %s -encoders: %w", encoderPath, err)
	}

	for _, name := range ParseEncoders(stdout.String()) {
		if name == library {
			return true, nil
		}
	}
	return false, nil
}

// ParseEncoders extracts encoder names from `-encoders` output. Encoder
// lines start with a flags column, e.g. "A..... libmp3lame".
func ParseEncoders(output string) []string {
	var encoders []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		// Skip header lines and empty lines
		if line == "" || strings.HasPrefix(line, "---") || strings.HasPrefix(line, "Encoders:") {
			continue
		}
		if len(line) > 7 && (line[0] == 'V' || line[0] == 'A' || line[0] == 'S') {
			parts := strings.Fields(line[7:])
			// The legend at the top ("V..... = Video") parses like an
			// encoder line; the "=" gives it away.
			if len(parts) > 0 && parts[0] != "=" {
				encoders = append(encoders, parts[0])
			}
		}
	}
	return encoders
}
