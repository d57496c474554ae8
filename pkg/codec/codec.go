// Package codec defines the target-codec strategy abstraction: each
// strategy describes one codec's encode command, quality validation and
// naming rules. Strategies are pure descriptors; the only side-effecting
// operation is Transcode, which runs the encoder subprocess.
package codec

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Strategy describes one target codec.
type Strategy interface {
	// Name is the identifier used on the command line ("mp3", "opus").
	Name() string

	// Extension is the output file extension, with leading dot.
	Extension() string

	// DefaultQuality is used when the caller supplies none.
	DefaultQuality() string

	// Multithreaded reports whether the encoder itself uses multiple
	// cores; the pipeline halves the default pool width when it does.
	Multithreaded() bool

	// Library is the encoder library that must be compiled into the
	// encoder binary ("libmp3lame", "libopus").
	Library() string

	// CheckQuality validates a quality setting. Runs once, before any
	// planning, so a bad value fails the whole run up front.
	CheckQuality(quality string) error

	// RenameFile replaces the final extension of path with the
	// strategy's extension.
	RenameFile(path string) string

	// FormatLabel renders the directory-name token for a quality
	// setting, e.g. "mp3_vbr3" or "opus_160k".
	FormatLabel(quality string) string

	// BuildArgs returns the encoder argument vector for one file.
	BuildArgs(src, dst, quality string) []string

	// GainTool is the external loudness-tagging tool run over each
	// destination directory after all encodes drain.
	GainTool() string
}

// ValidationError reports a quality setting the chosen codec rejects.
// It is fatal to the whole invocation and raised before any job runs.
type ValidationError struct {
	Codec   string
	Quality string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid quality %q for codec %s: %s", e.Quality, e.Codec, e.Reason)
}

var strategies = map[string]Strategy{
	"mp3":  Mp3Lame{},
	"opus": Opus{},
}

// Lookup returns the strategy registered under name.
func Lookup(name string) (Strategy, error) {
	s, ok := strategies[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown codec %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return s, nil
}

// Names lists registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// replaceExt swaps the final extension of path for ext.
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
