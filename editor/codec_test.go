package editor

import (
	"errors"
	"slices"
	"testing"

	"github.com/milk9111/spriteanim/sprite"
)

// exportOnly can encode but not decode.
type exportOnly struct{}

func (exportOnly) ToJSON(doc *sprite.Document) (int, error) { return len(doc.Frames), nil }

// snapCodec hands back a fixed snapshot on import.
type snapCodec struct {
	snap *sprite.Snapshot
}

func (c snapCodec) ToJSON(doc *sprite.Document) (*sprite.Snapshot, error) {
	s := doc.Snapshot()
	return &s, nil
}

func (c snapCodec) FromJSON(payload *sprite.Snapshot) *sprite.Snapshot { return payload }

func TestImportWithoutDecoderFails(t *testing.T) {
	e := newTestEngine(t, 2)
	before := e.Document()

	ok, err := Import[int](e, exportOnly{}, 3)
	if ok {
		t.Fatalf("expected import to fail")
	}
	if !errors.Is(err, ErrImportUnsupported) {
		t.Fatalf("expected ErrImportUnsupported, got %v", err)
	}
	var coded *Error
	if !errors.As(err, &coded) || coded.Code != CodeCapability {
		t.Fatalf("expected capability error, got %#v", err)
	}
	if e.Document() != before {
		t.Fatalf("failed import must not touch the document")
	}
}

func TestImportNilSnapshotIsNoOp(t *testing.T) {
	e := newTestEngine(t, 2)
	before := e.Document()

	ok, err := Import[*sprite.Snapshot](e, snapCodec{}, nil)
	if ok || err != nil {
		t.Fatalf("expected silent no-op, got %v %v", ok, err)
	}
	if e.Document() != before || e.HistoryLen() != 2 {
		t.Fatalf("no-op import changed engine state")
	}
}

func TestImportReplacesDocument(t *testing.T) {
	e := newTestEngine(t, 2)
	e.SelectAll()
	e.Copy()

	snap := &sprite.Snapshot{
		Frames: []sprite.Frame{
			{ID: "old-a", X: 1, W: 4, H: 4},
			{ID: "old-b", X: 5, W: 4, H: 4},
		},
		Animations:     map[string]sprite.Sequence{"idle": {0, 1, 9}},
		AnimationsMeta: map[string]sprite.AnimationMeta{"idle": {FPS: sprite.FloatPtr(6)}, "ghost": {}},
		Selected:       []string{"old-a"},
		Meta:           map[string]any{"tile": 16},
		AutoPlay:       "idle",
	}

	ok, err := Import[*sprite.Snapshot](e, snapCodec{}, snap)
	if !ok || err != nil {
		t.Fatalf("expected import, got %v %v", ok, err)
	}

	doc := e.Document()
	if len(doc.Frames) != 2 || doc.Frames[0].X != 1 || doc.Frames[1].X != 5 {
		t.Fatalf("unexpected frames %+v", doc.Frames)
	}
	for _, f := range doc.Frames {
		if f.ID == "old-a" || f.ID == "old-b" || f.ID == "" {
			t.Fatalf("imported frames need fresh ids, got %q", f.ID)
		}
	}
	if !slices.Equal(doc.Animations["idle"], sprite.Sequence{0, 1}) {
		t.Fatalf("expected filtered sequence, got %v", doc.Animations["idle"])
	}
	if _, ok := doc.AnimationsMeta["ghost"]; ok {
		t.Fatalf("orphan meta should be dropped")
	}
	if len(doc.Selected) != 0 || len(doc.Clipboard) != 0 {
		t.Fatalf("selection and clipboard should be cleared")
	}
	if doc.AutoPlay != "idle" || doc.Meta["tile"] != 16 {
		t.Fatalf("expected autoplay and meta carried, got %q %v", doc.AutoPlay, doc.Meta)
	}
	if e.CanUndo() || e.CanRedo() {
		t.Fatalf("import should reset history")
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("imported document invalid: %v", err)
	}
	if snap.Frames[0].ID != "old-a" {
		t.Fatalf("import must not modify the decoded snapshot")
	}
}

func TestExportCompactedLeavesEngineUntouched(t *testing.T) {
	e := newTestEngine(t, 3)
	e.UpdateFrame("f2", sprite.FramePatch{X: floatPtr(0)})
	e.SetAnimation("idle", sprite.Sequence{0, 1})
	before := e.Document()

	out, err := ExportCompacted[*sprite.Snapshot](e, snapCodec{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(out.Frames) != 1 {
		t.Fatalf("expected duplicates merged and unused frame dropped, got %d frames", len(out.Frames))
	}
	if !slices.Equal(out.Animations["idle"], sprite.Sequence{0, 0}) {
		t.Fatalf("expected idle [0 0], got %v", out.Animations["idle"])
	}
	if e.Document() != before || len(before.Frames) != 3 {
		t.Fatalf("compacted export must not modify the engine")
	}
}

func floatPtr(v float64) *float64 { return &v }
