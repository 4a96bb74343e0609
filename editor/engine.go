// Package editor is the document mutation engine: every edit is a transform
// from the current sprite document to a new one, recorded in a bounded undo
// history.
package editor

import (
	"github.com/milk9111/spriteanim/sprite"
)

// DefaultHistoryLimit is how many snapshots undo keeps.
const DefaultHistoryLimit = 100

// Transform produces the next document from the current one. Returning nil
// or the same pointer means nothing happened. Transforms must not modify cur.
type Transform func(cur *sprite.Document) *sprite.Document

// Engine owns the current document and its undo/redo stacks. It is not safe
// for concurrent use; hosts that share it across goroutines must serialize
// calls.
type Engine struct {
	doc            *sprite.Document
	history        []sprite.Snapshot
	future         []sprite.Snapshot
	maxUndo        int
	trackSelection bool
	newID          func() string

	observers []observer
	nextObsID int
}

type observer struct {
	id int
	fn func(*sprite.Document)
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistoryLimit bounds the undo history. Values below 1 disable history.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) {
		if n < 0 {
			n = 0
		}
		e.maxUndo = n
	}
}

// WithTrackSelection records selection-only changes in history.
func WithTrackSelection(track bool) Option {
	return func(e *Engine) { e.trackSelection = track }
}

// WithIDGenerator overrides frame id generation.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// WithDocument starts the engine from a copy of doc.
func WithDocument(doc *sprite.Document) Option {
	return func(e *Engine) {
		if doc != nil {
			e.doc = doc.Clone()
		}
	}
}

// New creates an engine holding an empty document.
func New(opts ...Option) *Engine {
	e := &Engine{
		doc:     sprite.NewDocument(),
		maxUndo: DefaultHistoryLimit,
		newID:   sprite.NewFrameID,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.doc = sanitize(e.doc, e.newID)
	return e
}

// Document returns the current document. Callers must treat it as read-only;
// the engine replaces it on every edit rather than mutating it.
func (e *Engine) Document() *sprite.Document {
	if e == nil {
		return nil
	}
	return e.doc
}

// Subscribe registers fn to be called with the new document after every
// change, including undo, redo and import. It returns an unsubscribe func.
func (e *Engine) Subscribe(fn func(*sprite.Document)) func() {
	if e == nil || fn == nil {
		return func() {}
	}
	e.nextObsID++
	id := e.nextObsID
	e.observers = append(e.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range e.observers {
			if o.id == id {
				e.observers = append(e.observers[:i], e.observers[i+1:]...)
				return
			}
		}
	}
}

// Apply runs fn against the current document. When fn produces a new document
// it replaces the current one; if record is set the previous content is
// pushed onto the undo history and the redo stack is cleared. Apply reports
// whether anything changed.
func (e *Engine) Apply(fn Transform, record bool) bool {
	if e == nil || fn == nil {
		return false
	}
	cur := e.doc
	next := fn(cur)
	if next == nil || next == cur {
		return false
	}
	if record {
		e.pushSnapshot(cur.Snapshot())
		e.future = nil
	}
	e.doc = next
	e.notify()
	return true
}

// pushSnapshot stores a snapshot for undo, dropping the oldest above the limit.
func (e *Engine) pushSnapshot(snap sprite.Snapshot) {
	if e.maxUndo == 0 {
		return
	}
	e.history = append(e.history, snap)
	if len(e.history) > e.maxUndo {
		// drop oldest
		e.history = e.history[len(e.history)-e.maxUndo:]
	}
}

// Undo restores the last snapshot if available.
func (e *Engine) Undo() bool {
	if e == nil {
		return false
	}
	n := len(e.history)
	if n == 0 {
		return false
	}
	snap := e.history[n-1]
	e.history = e.history[:n-1]
	e.future = append(e.future, e.doc.Snapshot())
	e.doc = snap.Restore(e.doc.Clipboard)
	e.notify()
	return true
}

// Redo re-applies the last undone snapshot if available.
func (e *Engine) Redo() bool {
	if e == nil {
		return false
	}
	n := len(e.future)
	if n == 0 {
		return false
	}
	snap := e.future[n-1]
	e.future = e.future[:n-1]
	e.pushSnapshot(e.doc.Snapshot())
	e.doc = snap.Restore(e.doc.Clipboard)
	e.notify()
	return true
}

func (e *Engine) CanUndo() bool { return e != nil && len(e.history) > 0 }

func (e *Engine) CanRedo() bool { return e != nil && len(e.future) > 0 }

// HistoryLen returns the number of undo snapshots held.
func (e *Engine) HistoryLen() int {
	if e == nil {
		return 0
	}
	return len(e.history)
}

// FutureLen returns the number of redo snapshots held.
func (e *Engine) FutureLen() int {
	if e == nil {
		return 0
	}
	return len(e.future)
}

// Reset replaces the document with an empty one and forgets all history.
func (e *Engine) Reset() {
	if e == nil {
		return
	}
	e.doc = sprite.NewDocument()
	e.history = nil
	e.future = nil
	e.notify()
}

// replace swaps in doc without recording history and clears both stacks.
func (e *Engine) replace(doc *sprite.Document) {
	e.doc = doc
	e.history = nil
	e.future = nil
	e.notify()
}

func (e *Engine) notify() {
	if len(e.observers) == 0 {
		return
	}
	obs := append([]observer(nil), e.observers...)
	for _, o := range obs {
		o.fn(e.doc)
	}
}

// sanitize enforces the cross-reference invariants on a document coming from
// outside the engine: unique non-empty frame ids, in-range sequence entries,
// selection limited to known ids and meta limited to known animations.
func sanitize(doc *sprite.Document, newID func() string) *sprite.Document {
	out := doc.Clone()
	seen := make(map[string]struct{}, len(out.Frames))
	for i := range out.Frames {
		id := out.Frames[i].ID
		if _, dup := seen[id]; id == "" || dup {
			id = newID()
			out.Frames[i].ID = id
		}
		seen[id] = struct{}{}
	}
	if out.Animations == nil {
		out.Animations = map[string]sprite.Sequence{}
	}
	for name, seq := range out.Animations {
		if !seq.Valid(len(out.Frames)) {
			out.Animations[name] = seq.Filter(len(out.Frames))
		}
	}
	out.AnimationsMeta = metaForAnimations(out.AnimationsMeta, out.Animations)
	out.Selected = filterIDs(out.Selected, seen)
	if out.Meta == nil {
		out.Meta = map[string]any{}
	}
	if _, ok := out.Animations[out.AutoPlay]; !ok {
		out.AutoPlay = ""
	}
	return out
}

func metaForAnimations(meta map[string]sprite.AnimationMeta, anims map[string]sprite.Sequence) map[string]sprite.AnimationMeta {
	out := make(map[string]sprite.AnimationMeta, len(meta))
	for name, m := range meta {
		if _, ok := anims[name]; ok {
			out[name] = m.Clone()
		}
	}
	return out
}

func filterIDs(ids []string, known map[string]struct{}) []string {
	var out []string
	dedup := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			continue
		}
		if _, dup := dedup[id]; dup {
			continue
		}
		dedup[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
