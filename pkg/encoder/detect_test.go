package encoder

import (
	"path/filepath"
	"testing"
)

const sampleEncoders = `Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC (codec h264)
 A....D aac                  AAC (Advanced Audio Coding)
 A....D libmp3lame           libmp3lame MP3 (MPEG audio layer 3) (codec mp3)
 A....D libopus              libopus Opus (codec opus)
 S..... srt                  SubRip subtitle
`

func TestParseEncoders(t *testing.T) {
	got := ParseEncoders(sampleEncoders)

	want := map[string]bool{"libx264": true, "aac": true, "libmp3lame": true, "libopus": true, "srt": true}
	for _, name := range got {
		if !want[name] {
			t.Errorf("unexpected encoder %q", name)
		}
		delete(want, name)
	}
	for name := range want {
		t.Errorf("missing encoder %q", name)
	}
}

func TestParseEncodersSkipsHeaders(t *testing.T) {
	for _, name := range ParseEncoders(sampleEncoders) {
		if name == "=" || name == "Video" || name == "Audio" {
			t.Errorf("header leaked into encoder list: %q", name)
		}
	}
}

func TestFindMissingOverride(t *testing.T) {
	if _, err := Find(filepath.Join(t.TempDir(), "no-such-encoder")); err == nil {
		t.Error("expected error for missing override path")
	}
}
