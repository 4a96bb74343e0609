package sprite

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sort"
)

// Document is the editable sprite document. Edits never mutate a Document in
// place; they produce a new value via Clone.
type Document struct {
	Frames         []Frame
	Animations     map[string]Sequence
	AnimationsMeta map[string]AnimationMeta
	Selected       []string
	Clipboard      []Frame
	Meta           map[string]any
	AutoPlay       string
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		Animations:     map[string]Sequence{},
		AnimationsMeta: map[string]AnimationMeta{},
		Meta:           map[string]any{},
	}
}

// Snapshot is a detached copy of the document content tracked by history.
// The clipboard is deliberately not part of it.
type Snapshot struct {
	Frames         []Frame
	Animations     map[string]Sequence
	AnimationsMeta map[string]AnimationMeta
	Selected       []string
	Meta           map[string]any
	AutoPlay       string
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return NewDocument()
	}
	return &Document{
		Frames:         CloneFrames(d.Frames),
		Animations:     CloneAnimations(d.Animations),
		AnimationsMeta: CloneAnimationsMeta(d.AnimationsMeta),
		Selected:       slices.Clone(d.Selected),
		Clipboard:      CloneFrames(d.Clipboard),
		Meta:           CloneMeta(d.Meta),
		AutoPlay:       d.AutoPlay,
	}
}

// Snapshot captures the history-tracked content of the document.
func (d *Document) Snapshot() Snapshot {
	if d == nil {
		return Snapshot{}
	}
	return Snapshot{
		Frames:         CloneFrames(d.Frames),
		Animations:     CloneAnimations(d.Animations),
		AnimationsMeta: CloneAnimationsMeta(d.AnimationsMeta),
		Selected:       slices.Clone(d.Selected),
		Meta:           CloneMeta(d.Meta),
		AutoPlay:       d.AutoPlay,
	}
}

// Restore builds a document from a snapshot, keeping the given clipboard.
func (s Snapshot) Restore(clipboard []Frame) *Document {
	doc := &Document{
		Frames:         CloneFrames(s.Frames),
		Animations:     CloneAnimations(s.Animations),
		AnimationsMeta: CloneAnimationsMeta(s.AnimationsMeta),
		Selected:       slices.Clone(s.Selected),
		Clipboard:      CloneFrames(clipboard),
		Meta:           CloneMeta(s.Meta),
		AutoPlay:       s.AutoPlay,
	}
	if doc.Animations == nil {
		doc.Animations = map[string]Sequence{}
	}
	if doc.AnimationsMeta == nil {
		doc.AnimationsMeta = map[string]AnimationMeta{}
	}
	if doc.Meta == nil {
		doc.Meta = map[string]any{}
	}
	return doc
}

func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Frames:         CloneFrames(s.Frames),
		Animations:     CloneAnimations(s.Animations),
		AnimationsMeta: CloneAnimationsMeta(s.AnimationsMeta),
		Selected:       slices.Clone(s.Selected),
		Meta:           CloneMeta(s.Meta),
		AutoPlay:       s.AutoPlay,
	}
}

// IndexOf returns the frame-array position of id, or -1.
func (d *Document) IndexOf(id string) int {
	if d == nil {
		return -1
	}
	for i, f := range d.Frames {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// FrameIndexes resolves ids to frame-array positions in ascending order.
// Unknown ids are skipped.
func (d *Document) FrameIndexes(ids []string) []int {
	if d == nil || len(ids) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []int
	for i, f := range d.Frames {
		if _, ok := want[f.ID]; ok {
			out = append(out, i)
		}
	}
	return out
}

// AnimationNames returns the animation names in sorted order.
func (d *Document) AnimationNames() []string {
	if d == nil {
		return nil
	}
	names := slices.Collect(maps.Keys(d.Animations))
	sort.Strings(names)
	return names
}

// Validate reports the first broken cross-reference invariant, if any.
func (d *Document) Validate() error {
	if d == nil {
		return nil
	}
	for _, name := range d.AnimationNames() {
		for pos, idx := range d.Animations[name] {
			if idx < 0 || idx >= len(d.Frames) {
				return fmt.Errorf("sprite: animation %q entry %d references frame %d of %d", name, pos, idx, len(d.Frames))
			}
		}
	}
	ids := make(map[string]struct{}, len(d.Frames))
	for _, f := range d.Frames {
		ids[f.ID] = struct{}{}
	}
	for _, id := range d.Selected {
		if _, ok := ids[id]; !ok {
			return fmt.Errorf("sprite: selected id %q is not a frame", id)
		}
	}
	for name := range d.AnimationsMeta {
		if _, ok := d.Animations[name]; !ok {
			return fmt.Errorf("sprite: meta for unknown animation %q", name)
		}
	}
	return nil
}

// Equal compares the history-tracked content of two documents by value.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.Snapshot().Equal(o.Snapshot())
}

// Equal compares two snapshots by value. Nil and empty collections are equal.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.AutoPlay != o.AutoPlay {
		return false
	}
	if !slices.Equal(s.Frames, o.Frames) || !slices.Equal(s.Selected, o.Selected) {
		return false
	}
	if !maps.EqualFunc(s.Animations, o.Animations, func(a, b Sequence) bool { return slices.Equal(a, b) }) {
		return false
	}
	if !maps.EqualFunc(s.AnimationsMeta, o.AnimationsMeta, AnimationMeta.Equal) {
		return false
	}
	if len(s.Meta) == 0 && len(o.Meta) == 0 {
		return true
	}
	return reflect.DeepEqual(s.Meta, o.Meta)
}

func CloneAnimations(in map[string]Sequence) map[string]Sequence {
	if in == nil {
		return nil
	}
	out := make(map[string]Sequence, len(in))
	for name, seq := range in {
		out[name] = seq.Clone()
	}
	return out
}

func CloneAnimationsMeta(in map[string]AnimationMeta) map[string]AnimationMeta {
	if in == nil {
		return nil
	}
	out := make(map[string]AnimationMeta, len(in))
	for name, m := range in {
		out[name] = m.Clone()
	}
	return out
}

// CloneMeta deep-copies the free-form meta map. Nested maps and slices of the
// shapes produced by JSON/YAML decoding are copied; other values are shared.
func CloneMeta(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneMeta(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []float64:
		return slices.Clone(t)
	case []int:
		return slices.Clone(t)
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}
