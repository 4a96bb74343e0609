package editor

import (
	"slices"
	"sort"

	"github.com/milk9111/spriteanim/common"
	"github.com/milk9111/spriteanim/sprite"
)

// InsertFrame appends f to the frame array. See InsertFrameAt.
func (e *Engine) InsertFrame(f sprite.Frame) sprite.Frame {
	if e == nil {
		return f
	}
	return e.InsertFrameAt(f, len(e.Document().Frames))
}

// InsertFrameAt splices f in at index (clamped into [0, len(frames)]), shifts
// every sequence entry at or after index by one and selects the new frame. A
// frame without an id, or with an id already in use, gets a generated one.
// The inserted frame is returned.
func (e *Engine) InsertFrameAt(f sprite.Frame, index int) sprite.Frame {
	if e == nil {
		return f
	}
	e.Apply(func(cur *sprite.Document) *sprite.Document {
		if f.ID == "" || cur.IndexOf(f.ID) >= 0 {
			f.ID = e.newID()
		}
		next := cur.Clone()
		index = common.ClampInt(index, 0, len(next.Frames))
		next.Frames = slices.Insert(next.Frames, index, f)
		shiftSequences(next, index, 1)
		next.Selected = []string{f.ID}
		return next
	}, true)
	return f
}

// UpdateFrame merges patch into the frame with the given id. Sequences are
// untouched since the frame keeps its position.
func (e *Engine) UpdateFrame(id string, patch sprite.FramePatch) bool {
	return e.Apply(func(cur *sprite.Document) *sprite.Document {
		idx := cur.IndexOf(id)
		if idx < 0 || patch.IsEmpty() {
			return nil
		}
		updated := patch.Apply(cur.Frames[idx])
		if updated == cur.Frames[idx] {
			return nil
		}
		next := cur.Clone()
		next.Frames[idx] = updated
		return next
	}, true)
}

// RemoveFrames deletes the frames with the given ids. Every occurrence of a
// removed position is stripped from every sequence (with its multiplier) and
// later positions are shifted down. Animations left empty keep existing.
func (e *Engine) RemoveFrames(ids []string) bool {
	return e.Apply(func(cur *sprite.Document) *sprite.Document {
		indexes := cur.FrameIndexes(ids)
		if len(indexes) == 0 {
			return nil
		}
		next := cur.Clone()
		removeIndexes(next, indexes)
		return next
	}, true)
}

// ReorderFrames moves the frame at from to position to. Sequence entries are
// deliberately left as they are, so after a reorder an animation shows
// whatever frame now occupies each position.
func (e *Engine) ReorderFrames(from, to int) bool {
	return e.Apply(func(cur *sprite.Document) *sprite.Document {
		n := len(cur.Frames)
		if from == to || from < 0 || from >= n || to < 0 || to >= n {
			return nil
		}
		next := cur.Clone()
		moved := next.Frames[from]
		next.Frames = slices.Delete(next.Frames, from, from+1)
		next.Frames = slices.Insert(next.Frames, to, moved)
		return next
	}, true)
}

// shiftSequences adds delta to every sequence entry >= at.
func shiftSequences(doc *sprite.Document, at, delta int) {
	for name, seq := range doc.Animations {
		for i, idx := range seq {
			if idx >= at {
				seq[i] = idx + delta
			}
		}
		doc.Animations[name] = seq
	}
}

// removeIndexes drops the frames at the given positions from doc, repairing
// sequences, multipliers and selection. doc must be a private copy.
func removeIndexes(doc *sprite.Document, indexes []int) {
	desc := slices.Clone(indexes)
	sort.Sort(sort.Reverse(sort.IntSlice(desc)))
	desc = slices.Compact(desc)

	removedIDs := make(map[string]struct{}, len(desc))
	for _, idx := range desc {
		removedIDs[doc.Frames[idx].ID] = struct{}{}
		doc.Frames = slices.Delete(doc.Frames, idx, idx+1)

		for name, seq := range doc.Animations {
			meta, hasMeta := doc.AnimationsMeta[name]
			out := seq[:0]
			var mults []float64
			for pos, entry := range seq {
				if entry == idx {
					continue
				}
				if entry > idx {
					entry--
				}
				out = append(out, entry)
				if hasMeta && pos < len(meta.Multipliers) {
					mults = append(mults, meta.Multipliers[pos])
				}
			}
			if hasMeta && len(meta.Multipliers) > 0 && len(out) != len(seq) {
				meta.Multipliers = mults
				doc.AnimationsMeta[name] = meta
			}
			doc.Animations[name] = out
		}
	}

	selected := doc.Selected[:0]
	for _, id := range doc.Selected {
		if _, gone := removedIDs[id]; !gone {
			selected = append(selected, id)
		}
	}
	doc.Selected = selected
}
