package planner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexmbird/albumconv/pkg/codec"
	"github.com/alexmbird/albumconv/pkg/models"
)

func TestDestDirName(t *testing.T) {
	cases := []struct {
		src, label, want string
	}{
		{"Album (flac)", "mp3_vbr2", "Album ([mp3_vbr2])"},
		{"Album", "mp3_vbr2", "Album [mp3_vbr2]"},
		{"Album FLAC", "opus_160k", "Album [opus_160k]"},
		{"flac rip", "mp3_vbr3", "[mp3_vbr3] rip"},
		// "flac" must match on word boundaries only
		{"Flactory Sessions", "mp3_vbr2", "Flactory Sessions [mp3_vbr2]"},
	}
	for _, c := range cases {
		if got := DestDirName(c.src, c.label); got != c.want {
			t.Errorf("DestDirName(%q, %q) = %q, want %q", c.src, c.label, got, c.want)
		}
	}
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	rules := models.DefaultRules()

	flac := filepath.Join(dir, "track.flac")
	if err := os.WriteFile(flac, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	jpg := filepath.Join(dir, "cover.jpg")
	if err := os.WriteFile(jpg, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := Classify(flac, rules); got != models.SourceAudioFile {
		t.Errorf("Classify(flac) = %v", got)
	}
	if got := Classify(dir, rules); got != models.SourceDirectory {
		t.Errorf("Classify(dir) = %v", got)
	}
	if got := Classify(jpg, rules); got != models.SourceInvalid {
		t.Errorf("Classify(jpg) = %v", got)
	}
	if got := Classify(filepath.Join(dir, "missing.flac"), rules); got != models.SourceInvalid {
		t.Errorf("Classify(missing) = %v", got)
	}
}

// makeAlbum builds the canonical test album: two flacs, cover art, a
// rip log and a nested subdirectory.
func makeAlbum(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	album := filepath.Join(root, "Album (flac)")
	if err := os.Mkdir(album, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"track1.flac", "track2.flac", "cover.jpg", "ripper.log", ".DS_Store"} {
		if err := os.WriteFile(filepath.Join(album, name), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(album, "artwork"), 0o755); err != nil {
		t.Fatal(err)
	}
	return album
}

func TestPlanDirectory(t *testing.T) {
	album := makeAlbum(t)
	strat := codec.Mp3Lame{}
	rules := models.DefaultRules()

	plan, err := PlanSource(album, strat, "3", rules, false)
	if err != nil {
		t.Fatalf("PlanSource failed: %v", err)
	}

	destDir := filepath.Join(filepath.Dir(album), "Album ([mp3_vbr3])")
	if plan.GainTarget != destDir {
		t.Errorf("GainTarget = %q, want %q", plan.GainTarget, destDir)
	}
	if fi, err := os.Stat(destDir); err != nil || !fi.IsDir() {
		t.Fatalf("destination directory not created: %v", err)
	}

	byDest := map[string]models.Job{}
	for _, j := range plan.Jobs {
		byDest[filepath.Base(j.DestPath)] = j
	}

	// One transcode job per flac
	for _, name := range []string{"track1.mp3", "track2.mp3"} {
		j, ok := byDest[name]
		if !ok {
			t.Errorf("no job for %s", name)
			continue
		}
		if j.Kind != models.JobKindTranscode {
			t.Errorf("%s: kind = %v, want transcode", name, j.Kind)
		}
	}

	// Cover art and the subdirectory are copy jobs
	for _, name := range []string{"cover.jpg", "artwork"} {
		j, ok := byDest[name]
		if !ok {
			t.Errorf("no job for %s", name)
			continue
		}
		if j.Kind != models.JobKindCopy {
			t.Errorf("%s: kind = %v, want copy", name, j.Kind)
		}
	}

	// Rip log and dotfile produce no job
	if len(plan.Jobs) != 4 {
		t.Errorf("got %d jobs, want 4: %v", len(plan.Jobs), plan.Jobs)
	}
}

func TestPlanSingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "track.flac")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	plan, err := PlanSource(src, codec.Opus{}, "140k", models.DefaultRules(), false)
	if err != nil {
		t.Fatalf("PlanSource failed: %v", err)
	}
	if len(plan.Jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(plan.Jobs))
	}
	want := filepath.Join(dir, "track.opus")
	if plan.Jobs[0].DestPath != want {
		t.Errorf("DestPath = %q, want %q", plan.Jobs[0].DestPath, want)
	}
	if plan.Jobs[0].Kind != models.JobKindTranscode {
		t.Errorf("Kind = %v, want transcode", plan.Jobs[0].Kind)
	}
	if plan.GainTarget != want {
		t.Errorf("GainTarget = %q, want %q", plan.GainTarget, want)
	}
}

func TestPlanInvalidSource(t *testing.T) {
	_, err := PlanSource(filepath.Join(t.TempDir(), "nope.flac"), codec.Mp3Lame{}, "2", models.DefaultRules(), false)
	var perr *PlanningError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *PlanningError", err)
	}
}

func TestPlanDestinationCollision(t *testing.T) {
	album := makeAlbum(t)
	strat := codec.Mp3Lame{}
	rules := models.DefaultRules()

	if _, err := PlanSource(album, strat, "3", rules, false); err != nil {
		t.Fatalf("first plan failed: %v", err)
	}

	// Second pass must refuse the existing destination
	_, err := PlanSource(album, strat, "3", rules, false)
	var perr *PlanningError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *PlanningError", err)
	}

	// With clobber the existing destination is replaced
	destDir := filepath.Join(filepath.Dir(album), "Album ([mp3_vbr3])")
	marker := filepath.Join(destDir, "stale.txt")
	if err := os.WriteFile(marker, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := PlanSource(album, strat, "3", rules, true); err != nil {
		t.Fatalf("clobbered plan failed: %v", err)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Error("clobber did not delete the pre-existing destination")
	}
}

func TestPlanDuplicateDestinations(t *testing.T) {
	root := t.TempDir()
	album := filepath.Join(root, "Album")
	if err := os.Mkdir(album, 0o755); err != nil {
		t.Fatal(err)
	}
	// Same basename, different audio extensions: both rename to track.mp3
	for _, name := range []string{"track.flac", "track.wav"} {
		if err := os.WriteFile(filepath.Join(album, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	_, err := PlanSource(album, codec.Mp3Lame{}, "2", models.DefaultRules(), false)
	var perr *PlanningError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *PlanningError for colliding destinations", err)
	}
}
