package codec

import (
	"fmt"
	"regexp"
)

var opusBitrateRe = regexp.MustCompile(`^[0-9]+k$`)

// Opus encodes to Opus via libopus. Quality is a bitrate string ending
// in "k", e.g. "140k".
type Opus struct{}

func (Opus) Name() string           { return "opus" }
func (Opus) Extension() string      { return ".opus" }
func (Opus) DefaultQuality() string { return "140k" }
func (Opus) Multithreaded() bool    { return false }
func (Opus) Library() string        { return "libopus" }
func (Opus) GainTool() string       { return "loudgain" }

func (s Opus) CheckQuality(quality string) error {
	if !opusBitrateRe.MatchString(quality) {
		return &ValidationError{Codec: s.Name(), Quality: quality, Reason: `must be a bitrate like "140k"`}
	}
	return nil
}

func (s Opus) RenameFile(path string) string {
	return replaceExt(path, s.Extension())
}

func (s Opus) FormatLabel(quality string) string {
	return fmt.Sprintf("opus_%s", quality)
}

func (s Opus) BuildArgs(src, dst, quality string) []string {
	return []string{
		"-hide_banner", "-nostdin",
		"-i", src,
		"-codec:v", "copy",
		"-codec:a", "libopus",
		"-b:a", quality,
		"-map_metadata", "0",
		"-y", dst,
	}
}
