package editor

import (
	"slices"

	"github.com/milk9111/spriteanim/sprite"
)

// Clipboard returns a copy of the clipboard frames.
func (e *Engine) Clipboard() []sprite.Frame {
	if e == nil {
		return nil
	}
	return sprite.CloneFrames(e.doc.Clipboard)
}

// Copy stores the selected frames, in frame order, in the clipboard. The
// clipboard is not part of history.
func (e *Engine) Copy() bool {
	return e.Apply(func(cur *sprite.Document) *sprite.Document {
		copied := selectedFrames(cur)
		if len(copied) == 0 {
			return nil
		}
		next := cur.Clone()
		next.Clipboard = copied
		return next
	}, false)
}

// Cut copies the selection and removes the selected frames in one undoable
// step.
func (e *Engine) Cut() bool {
	return e.Apply(func(cur *sprite.Document) *sprite.Document {
		copied := selectedFrames(cur)
		if len(copied) == 0 {
			return nil
		}
		next := cur.Clone()
		next.Clipboard = copied
		removeIndexes(next, cur.FrameIndexes(cur.Selected))
		return next
	}, true)
}

// Paste inserts clones of the clipboard frames, each with a fresh id, right
// after the last selected frame or at the end when nothing is selected.
// Sequences are shifted exactly as for InsertFrameAt and the pasted frames
// become the selection. The pasted frames are returned.
func (e *Engine) Paste() []sprite.Frame {
	if e == nil {
		return nil
	}
	var pasted []sprite.Frame
	e.Apply(func(cur *sprite.Document) *sprite.Document {
		if len(cur.Clipboard) == 0 {
			return nil
		}
		at := len(cur.Frames)
		if idxs := cur.FrameIndexes(cur.Selected); len(idxs) > 0 {
			at = slices.Max(idxs) + 1
		}

		pasted = make([]sprite.Frame, len(cur.Clipboard))
		ids := make([]string, len(cur.Clipboard))
		used := make(map[string]struct{}, len(cur.Clipboard))
		for i, f := range cur.Clipboard {
			f.ID = e.freshID(cur, f.ID, used)
			used[f.ID] = struct{}{}
			pasted[i] = f
			ids[i] = f.ID
		}

		next := cur.Clone()
		next.Frames = slices.Insert(next.Frames, at, pasted...)
		shiftSequences(next, at, len(pasted))
		next.Selected = ids
		return next
	}, true)
	return pasted
}

// freshID returns a generated id that differs from avoid, from every id in
// doc and from the ids already handed out in used.
func (e *Engine) freshID(doc *sprite.Document, avoid string, used map[string]struct{}) string {
	for {
		id := e.newID()
		if _, taken := used[id]; taken || id == "" || id == avoid {
			continue
		}
		if doc.IndexOf(id) < 0 {
			return id
		}
	}
}

func selectedFrames(doc *sprite.Document) []sprite.Frame {
	idxs := doc.FrameIndexes(doc.Selected)
	if len(idxs) == 0 {
		return nil
	}
	out := make([]sprite.Frame, len(idxs))
	for i, idx := range idxs {
		out[i] = doc.Frames[idx]
	}
	return out
}
