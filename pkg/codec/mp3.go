package codec

import (
	"fmt"
	"strconv"
)

// Mp3Lame encodes to MP3 via libmp3lame in VBR mode. Quality is the
// LAME VBR level: an integer 0-9, lower is better.
type Mp3Lame struct{}

func (Mp3Lame) Name() string           { return "mp3" }
func (Mp3Lame) Extension() string      { return ".mp3" }
func (Mp3Lame) DefaultQuality() string { return "2" }
func (Mp3Lame) Multithreaded() bool    { return false }
func (Mp3Lame) Library() string        { return "libmp3lame" }
func (Mp3Lame) GainTool() string       { return "mp3gain" }

func (s Mp3Lame) CheckQuality(quality string) error {
	v, err := strconv.Atoi(quality)
	if err != nil {
		return &ValidationError{Codec: s.Name(), Quality: quality, Reason: "must be an integer"}
	}
	if v < 0 || v > 9 {
		return &ValidationError{Codec: s.Name(), Quality: quality, Reason: "VBR level must be in 0-9"}
	}
	return nil
}

func (s Mp3Lame) RenameFile(path string) string {
	return replaceExt(path, s.Extension())
}

func (s Mp3Lame) FormatLabel(quality string) string {
	return fmt.Sprintf("mp3_vbr%s", quality)
}

// BuildArgs copies non-audio streams (embedded cover art) verbatim,
// passes tags through, and writes both ID3v2.3 and ID3v1 so legacy
// players see the metadata too.
func (s Mp3Lame) BuildArgs(src, dst, quality string) []string {
	return []string{
		"-hide_banner", "-nostdin",
		"-i", src,
		"-codec:v", "copy",
		"-codec:a", "libmp3lame",
		"-qscale:a", quality,
		"-map_metadata", "0",
		"-id3v2_version", "3",
		"-write_id3v1", "1",
		"-y", dst,
	}
}
