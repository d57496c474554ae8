// Package planner walks a source path, classifies each entry and
// produces the job list for one invocation. Planning is synchronous and
// single-threaded: the destination directory for a source exists, with
// metadata copied, before PlanSource returns, so every job handed to the
// scheduler already has a valid parent to write into.
package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alexmbird/albumconv/pkg/codec"
	"github.com/alexmbird/albumconv/pkg/fsutil"
	"github.com/alexmbird/albumconv/pkg/models"
)

// PlanningError is fatal before any job runs: the source is missing or
// the wrong type, or the destination collides without --clobber.
type PlanningError struct {
	Path   string
	Reason string
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("cannot plan %s: %s", e.Path, e.Reason)
}

// flacToken matches the token "flac" on word boundaries, any case, in a
// directory basename. "Album (flac)" and "FLAC rip" match; "flactory"
// does not.
var flacToken = regexp.MustCompile(`(?i)\bflac\b`)

// Plan is the output of one planning pass over one source.
type Plan struct {
	// Jobs in submission order.
	Jobs []models.Job
	// GainTarget is what the loudness post-pass operates on: the
	// destination directory for album sources, the destination file for
	// single-file sources.
	GainTarget string
}

// Classify reports what kind of source a path is.
func Classify(path string, rules models.Rules) models.SourceKind {
	fi, err := os.Stat(path)
	if err != nil {
		return models.SourceInvalid
	}
	if fi.IsDir() {
		return models.SourceDirectory
	}
	if rules.IsAudio(path) {
		return models.SourceAudioFile
	}
	return models.SourceInvalid
}

// DestDirName computes the destination directory basename: the "flac"
// token is substituted with the bracketed codec label, or the label is
// appended as a suffix when the token is absent.
func DestDirName(srcName, label string) string {
	if flacToken.MatchString(srcName) {
		return flacToken.ReplaceAllString(srcName, "["+label+"]")
	}
	return srcName + " [" + label + "]"
}

// PlanSource plans one source path. For directories it creates the
// destination tree root as a side effect; clobber permits deleting a
// pre-existing destination first.
func PlanSource(src string, strat codec.Strategy, quality string, rules models.Rules, clobber bool) (*Plan, error) {
	src = filepath.Clean(src)

	switch Classify(src, rules) {
	case models.SourceAudioFile:
		dst := strat.RenameFile(src)
		return &Plan{
			Jobs: []models.Job{{
				Kind:       models.JobKindTranscode,
				SourcePath: src,
				DestPath:   dst,
			}},
			GainTarget: dst,
		}, nil

	case models.SourceDirectory:
		return planDirectory(src, strat, quality, rules, clobber)

	default:
		return nil, &PlanningError{Path: src, Reason: "not a recognized audio file or directory"}
	}
}

func planDirectory(src string, strat codec.Strategy, quality string, rules models.Rules, clobber bool) (*Plan, error) {
	label := strat.FormatLabel(quality)
	destDir := filepath.Join(filepath.Dir(src), DestDirName(filepath.Base(src), label))

	if _, err := os.Stat(destDir); err == nil {
		if !clobber {
			return nil, &PlanningError{Path: src, Reason: fmt.Sprintf("destination %s already exists (use --clobber to replace it)", destDir)}
		}
		if err := os.RemoveAll(destDir); err != nil {
			return nil, &PlanningError{Path: src, Reason: fmt.Sprintf("clobbering %s: %v", destDir, err)}
		}
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, &PlanningError{Path: src, Reason: fmt.Sprintf("creating %s: %v", destDir, err)}
	}
	if err := fsutil.CopyMeta(src, destDir); err != nil {
		return nil, &PlanningError{Path: src, Reason: err.Error()}
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, &PlanningError{Path: src, Reason: err.Error()}
	}

	plan := &Plan{GainTarget: destDir}
	seen := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		child := filepath.Join(src, name)

		var job models.Job
		switch {
		case !e.IsDir() && rules.IsExcluded(name):
			// Rip logs, cue sheets, playlists, checksums: meaningless
			// for the transcoded tree.
			continue
		case !e.IsDir() && rules.IsAudio(name):
			job = models.Job{
				Kind:       models.JobKindTranscode,
				SourcePath: child,
				DestPath:   filepath.Join(destDir, strat.RenameFile(name)),
			}
		default:
			// Cover art, booklets and whole subdirectories are copied
			// verbatim. Subdirectories are not re-classified: nested
			// audio stays in its source codec.
			job = models.Job{
				Kind:       models.JobKindCopy,
				SourcePath: child,
				DestPath:   filepath.Join(destDir, name),
			}
		}

		if prev, dup := seen[job.DestPath]; dup {
			return nil, &PlanningError{
				Path:   src,
				Reason: fmt.Sprintf("%s and %s both map to %s", prev, child, job.DestPath),
			}
		}
		seen[job.DestPath] = child
		plan.Jobs = append(plan.Jobs, job)
	}

	return plan, nil
}
