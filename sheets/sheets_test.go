package sheets

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/milk9111/spriteanim/compact"
	"github.com/milk9111/spriteanim/sprite"
)

func TestEmbeddedSheets(t *testing.T) {
	cases := []struct {
		name       string
		frames     int
		animations []string
		autoPlay   string
	}{
		{"hero.yaml", 8, []string{"attack", "idle", "run"}, "idle"},
		{"sheets/slime.json", 3, []string{"bounce"}, ""},
	}

	lib := Library{}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			snap, err := lib.LoadDocument(c.name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			doc := snap.Restore(nil)
			if len(doc.Frames) != c.frames {
				t.Fatalf("expected %d frames, got %d", c.frames, len(doc.Frames))
			}
			if got := doc.AnimationNames(); !slices.Equal(got, c.animations) {
				t.Fatalf("expected animations %v, got %v", c.animations, got)
			}
			if doc.AutoPlay != c.autoPlay {
				t.Fatalf("expected autoplay %q, got %q", c.autoPlay, doc.AutoPlay)
			}
		})
	}
}

func TestSlimeLegacySettings(t *testing.T) {
	snap, err := Library{}.LoadDocument("slime.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	m := snap.AnimationsMeta["bounce"]
	if m.EffectiveFPS() != 5 || m.Multiplier(2) != 0.5 {
		t.Fatalf("legacy settings not migrated: %+v", m)
	}
	if _, ok := snap.Meta[compact.LegacySettingsKey]; ok {
		t.Fatalf("legacy key should be gone")
	}
}

func TestHeroCompacts(t *testing.T) {
	snap, err := LoadDocument("hero.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	res := compact.Compact(snap.Restore(nil))
	if len(res.Frames) != 6 {
		t.Fatalf("expected 6 frames after compaction, got %d", len(res.Frames))
	}
	if got := res.Animations["run"]; !slices.Equal(got, sprite.Sequence{3, 4, 1}) {
		t.Fatalf("expected run [3 4 1], got %v", got)
	}
	if res.FrameIndexMap[7] != -1 || res.FrameIndexMap[6] != 1 {
		t.Fatalf("unexpected index map %v", res.FrameIndexMap)
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	body := `{"frames": [{"x": 1, "y": 2, "w": 3, "h": 4}], "animations": {"only": [0]}}`
	if err := os.WriteFile(filepath.Join(dir, "hero.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "extra.json"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	lib := Library{Dir: dir}
	snap, err := lib.LoadDocument("hero.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Frames) != 1 || snap.Frames[0].H != 4 {
		t.Fatalf("disk copy should win, got %+v", snap.Frames)
	}
	if _, ok := lib.ModTime("hero.yaml"); !ok {
		t.Fatalf("expected mod time for disk copy")
	}
	if _, ok := lib.ModTime("slime.json"); ok {
		t.Fatalf("embedded-only sheet has no mod time")
	}

	names := lib.Names()
	for _, want := range []string{"extra.json", "hero.yaml", "slime.json"} {
		if !slices.Contains(names, want) {
			t.Fatalf("expected %s in %v", want, names)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	lib := Library{}
	if _, err := lib.LoadDocument("missing.yaml"); err == nil {
		t.Fatalf("expected error for missing sheet")
	}
	if _, err := lib.Load(""); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if _, err := lib.LoadScript("nope"); err == nil {
		t.Fatalf("expected error for missing script")
	}
}

func TestLoadScriptPaths(t *testing.T) {
	for _, name := range []string{"tidy", "tidy.tengo", "scripts/tidy.tengo", "sheets/scripts/tidy.tengo"} {
		t.Run(name, func(t *testing.T) {
			src, err := LoadScript(name)
			if err != nil || len(src) == 0 {
				t.Fatalf("expected script source, got %v", err)
			}
		})
	}
}

func TestWatcherReportsSheetChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	target := filepath.Join(dir, "hero.json")
	if err := os.WriteFile(target, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case name := <-w.Events:
		if name != target {
			t.Fatalf("expected %s, got %s", target, name)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatalf("no event for sheet change")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	_ = w.Close()
	if _, ok := <-w.Events; ok {
		t.Fatalf("events channel should be closed")
	}
}

func TestFileFilters(t *testing.T) {
	cases := map[string]bool{
		"a.json":  true,
		"a.YAML":  true,
		"a.yml":   true,
		"a.tengo": true,
		"a.txt":   false,
		"a":       false,
	}
	for path, want := range cases {
		if got := isDocumentFile(path) || isScriptFile(path); got != want {
			t.Fatalf("%s: expected %v", path, want)
		}
	}
}
