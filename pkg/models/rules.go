package models

import (
	"path/filepath"
	"strings"
)

// Rules holds the extension sets the planner classifies against. It is
// passed in explicitly so callers can widen the audio set without
// touching package state.
type Rules struct {
	// AudioExts are extensions (with leading dot, lower case) that map
	// to transcode jobs.
	AudioExts []string
	// ExcludeExts are sidecar extensions that produce no job at all:
	// rip logs, cue sheets, playlists, checksums.
	ExcludeExts []string
}

// DefaultRules returns the extension sets used by the stock CLI.
func DefaultRules() Rules {
	return Rules{
		AudioExts:   []string{".flac", ".wav", ".ape", ".wv", ".aiff"},
		ExcludeExts: []string{".log", ".cue", ".m3u", ".md5"},
	}
}

// IsAudio reports whether path has a recognized audio extension.
func (r Rules) IsAudio(path string) bool {
	return containsFold(r.AudioExts, filepath.Ext(path))
}

// IsExcluded reports whether path has a transcode-irrelevant sidecar
// extension.
func (r Rules) IsExcluded(path string) bool {
	return containsFold(r.ExcludeExts, filepath.Ext(path))
}

func containsFold(exts []string, ext string) bool {
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
