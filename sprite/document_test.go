package sprite

import (
	"math"
	"testing"
)

func TestAnimationMetaDefaults(t *testing.T) {
	cases := []struct {
		name     string
		meta     AnimationMeta
		loop     bool
		fps      float64
		mult0    float64
		multLast float64
	}{
		{"empty", AnimationMeta{}, true, DefaultFPS, 1, 1},
		{"explicit_no_loop", AnimationMeta{Loop: BoolPtr(false)}, false, DefaultFPS, 1, 1},
		{"fps_too_high", AnimationMeta{FPS: FloatPtr(240)}, true, MaxFPS, 1, 1},
		{"fps_too_low", AnimationMeta{FPS: FloatPtr(0)}, true, MinFPS, 1, 1},
		{"fps_nan", AnimationMeta{FPS: FloatPtr(math.NaN())}, true, DefaultFPS, 1, 1},
		{"fps_inf", AnimationMeta{FPS: FloatPtr(math.Inf(1))}, true, DefaultFPS, 1, 1},
		{"multiplier_floor", AnimationMeta{Multipliers: []float64{0.01, -3}}, true, DefaultFPS, MinMultiplier, MinMultiplier},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.meta.IsLoop(); got != c.loop {
				t.Fatalf("IsLoop = %v, want %v", got, c.loop)
			}
			if got := c.meta.EffectiveFPS(); got != c.fps {
				t.Fatalf("EffectiveFPS = %v, want %v", got, c.fps)
			}
			if got := c.meta.Multiplier(0); got != c.mult0 {
				t.Fatalf("Multiplier(0) = %v, want %v", got, c.mult0)
			}
			if got := c.meta.Multiplier(1); got != c.multLast {
				t.Fatalf("Multiplier(1) = %v, want %v", got, c.multLast)
			}
		})
	}
}

func TestAnimationMetaNormalizedPadsAndTruncates(t *testing.T) {
	meta := AnimationMeta{FPS: FloatPtr(90), Multipliers: []float64{2, 0.05, 3}}

	padded := meta.Normalized(5)
	want := []float64{2, MinMultiplier, 3, 1, 1}
	if len(padded.Multipliers) != len(want) {
		t.Fatalf("expected %d multipliers, got %v", len(want), padded.Multipliers)
	}
	for i := range want {
		if padded.Multipliers[i] != want[i] {
			t.Fatalf("multiplier %d = %v, want %v", i, padded.Multipliers[i], want[i])
		}
	}
	if *padded.FPS != MaxFPS {
		t.Fatalf("expected clamped fps, got %v", *padded.FPS)
	}

	truncated := meta.Normalized(1)
	if len(truncated.Multipliers) != 1 || truncated.Multipliers[0] != 2 {
		t.Fatalf("expected [2], got %v", truncated.Multipliers)
	}
}

func TestDocumentCloneIsDetached(t *testing.T) {
	doc := NewDocument()
	doc.Frames = []Frame{{ID: "a", W: 8, H: 8}}
	doc.Animations["idle"] = Sequence{0}
	doc.AnimationsMeta["idle"] = AnimationMeta{Loop: BoolPtr(true), Multipliers: []float64{1}}
	doc.Meta["tags"] = map[string]any{"kind": "hero", "list": []any{1.0}}

	clone := doc.Clone()
	clone.Frames[0].X = 99
	clone.Animations["idle"][0] = 5
	*clone.AnimationsMeta["idle"].Loop = false
	clone.AnimationsMeta["idle"].Multipliers[0] = 7
	clone.Meta["tags"].(map[string]any)["kind"] = "villain"
	clone.Meta["tags"].(map[string]any)["list"].([]any)[0] = 2.0

	if doc.Frames[0].X != 0 {
		t.Fatalf("frame mutated through clone")
	}
	if doc.Animations["idle"][0] != 0 {
		t.Fatalf("sequence mutated through clone")
	}
	if !*doc.AnimationsMeta["idle"].Loop || doc.AnimationsMeta["idle"].Multipliers[0] != 1 {
		t.Fatalf("meta mutated through clone")
	}
	tags := doc.Meta["tags"].(map[string]any)
	if tags["kind"] != "hero" || tags["list"].([]any)[0] != 1.0 {
		t.Fatalf("free-form meta mutated through clone: %v", tags)
	}
}

func TestSnapshotCloneIsDetached(t *testing.T) {
	doc := NewDocument()
	doc.Frames = []Frame{{ID: "a", W: 8, H: 8}}
	doc.Animations["idle"] = Sequence{0}
	doc.Selected = []string{"a"}
	doc.Clipboard = []Frame{{ID: "c"}}

	snap := doc.Snapshot()
	clone := snap.Clone()
	clone.Frames[0].W = 1
	clone.Animations["idle"][0] = 3
	clone.Selected[0] = "b"

	if snap.Frames[0].W != 8 || snap.Animations["idle"][0] != 0 || snap.Selected[0] != "a" {
		t.Fatalf("snapshot mutated through clone: %+v", snap)
	}
	if !snap.Equal(doc.Snapshot()) {
		t.Fatalf("snapshot should match the document it came from")
	}
	if restored := snap.Restore(nil); len(restored.Clipboard) != 0 {
		t.Fatalf("snapshots do not carry the clipboard")
	}
}

func TestDocumentValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(d *Document)
		wantErr bool
	}{
		{"valid", func(d *Document) {}, false},
		{"out_of_range", func(d *Document) { d.Animations["idle"] = Sequence{0, 2} }, true},
		{"negative", func(d *Document) { d.Animations["idle"] = Sequence{-1} }, true},
		{"unknown_selection", func(d *Document) { d.Selected = []string{"zzz"} }, true},
		{"orphan_meta", func(d *Document) { d.AnimationsMeta["run"] = AnimationMeta{} }, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc := NewDocument()
			doc.Frames = []Frame{{ID: "a"}, {ID: "b"}}
			doc.Animations["idle"] = Sequence{0, 1}
			doc.Selected = []string{"b"}
			c.mutate(doc)
			err := doc.Validate()
			if (err != nil) != c.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestDocumentEqualIgnoresClipboard(t *testing.T) {
	a := NewDocument()
	a.Frames = []Frame{{ID: "a"}}
	b := a.Clone()
	b.Clipboard = []Frame{{ID: "x"}}
	if !a.Equal(b) {
		t.Fatalf("clipboard should not participate in equality")
	}
	b.Frames[0].W = 3
	if a.Equal(b) {
		t.Fatalf("expected frames difference to be detected")
	}
}

func TestFrameIndexesAscending(t *testing.T) {
	doc := NewDocument()
	doc.Frames = []Frame{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got := doc.FrameIndexes([]string{"c", "missing", "a"})
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("expected [0 2], got %v", got)
	}
}

func TestNewFrameIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewFrameID()
		if id == "" || seen[id] {
			t.Fatalf("expected unique non-empty ids, got %q", id)
		}
		seen[id] = true
	}
}

func TestFramePatchApply(t *testing.T) {
	f := Frame{ID: "a", X: 1, Y: 2, W: 3, H: 4}
	x := 10.0
	ref := "sheet.png"
	got := FramePatch{X: &x, ImageRef: &ref}.Apply(f)
	if got.ID != "a" || got.X != 10 || got.Y != 2 || got.ImageRef != "sheet.png" {
		t.Fatalf("unexpected patched frame %+v", got)
	}
	if !(FramePatch{}).IsEmpty() {
		t.Fatalf("zero patch should be empty")
	}
}
