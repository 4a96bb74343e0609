package editor

import (
	"slices"

	"github.com/milk9111/spriteanim/sprite"
)

// SelectMode controls how SelectFrame combines with the current selection.
type SelectMode int

const (
	// SelectReplace makes the frame the only selected one.
	SelectReplace SelectMode = iota
	// SelectAdditive adds the frame to the selection.
	SelectAdditive
	// SelectToggle flips the frame's membership in the selection.
	SelectToggle
)

// Selection returns the selected frame ids.
func (e *Engine) Selection() []string {
	if e == nil {
		return nil
	}
	return slices.Clone(e.doc.Selected)
}

// SetSelection replaces the selection. Unknown ids are ignored.
func (e *Engine) SetSelection(ids []string) bool {
	return e.applySelection(func(cur *sprite.Document) []string {
		known := make(map[string]struct{}, len(cur.Frames))
		for _, f := range cur.Frames {
			known[f.ID] = struct{}{}
		}
		return filterIDs(ids, known)
	})
}

// SelectFrame selects a single frame according to mode.
func (e *Engine) SelectFrame(id string, mode SelectMode) bool {
	return e.applySelection(func(cur *sprite.Document) []string {
		if cur.IndexOf(id) < 0 {
			return cur.Selected
		}
		at := slices.Index(cur.Selected, id)
		switch mode {
		case SelectAdditive:
			if at >= 0 {
				return cur.Selected
			}
			return append(slices.Clone(cur.Selected), id)
		case SelectToggle:
			if at >= 0 {
				return slices.Delete(slices.Clone(cur.Selected), at, at+1)
			}
			return append(slices.Clone(cur.Selected), id)
		default:
			return []string{id}
		}
	})
}

// SelectAll selects every frame in frame order.
func (e *Engine) SelectAll() bool {
	return e.applySelection(func(cur *sprite.Document) []string {
		ids := make([]string, len(cur.Frames))
		for i, f := range cur.Frames {
			ids[i] = f.ID
		}
		return ids
	})
}

// ClearSelection deselects everything.
func (e *Engine) ClearSelection() bool {
	return e.applySelection(func(cur *sprite.Document) []string {
		return nil
	})
}

// applySelection swaps in a new selection. Selection-only changes reach the
// history only when selection tracking is enabled.
func (e *Engine) applySelection(pick func(cur *sprite.Document) []string) bool {
	if e == nil {
		return false
	}
	return e.Apply(func(cur *sprite.Document) *sprite.Document {
		sel := pick(cur)
		if slices.Equal(sel, cur.Selected) {
			return nil
		}
		next := cur.Clone()
		next.Selected = slices.Clone(sel)
		return next
	}, e.trackSelection)
}
