// Package compact deduplicates and garbage-collects the frames of a sprite
// document and re-points every animation sequence at the surviving frames.
package compact

import (
	"slices"

	"github.com/milk9111/spriteanim/sprite"
)

// Result is the output of Compact. FrameIndexMap maps every original frame
// position to its final position, or -1 when the frame was dropped.
type Result struct {
	Frames         []sprite.Frame
	Animations     map[string]sprite.Sequence
	AnimationsMeta map[string]sprite.AnimationMeta
	FrameIndexMap  []int
	AutoPlay       string
	Meta           map[string]any
	Selected       []string
}

// Document assembles the result into a fresh document with an empty clipboard.
func (r Result) Document() *sprite.Document {
	doc := sprite.NewDocument()
	doc.Frames = sprite.CloneFrames(r.Frames)
	doc.Animations = sprite.CloneAnimations(r.Animations)
	doc.AnimationsMeta = sprite.CloneAnimationsMeta(r.AnimationsMeta)
	doc.Meta = sprite.CloneMeta(r.Meta)
	doc.Selected = slices.Clone(r.Selected)
	doc.AutoPlay = r.AutoPlay
	if doc.Meta == nil {
		doc.Meta = map[string]any{}
	}
	return doc
}

// frameKey is the content identity of a frame. Duration participates so that
// frames differing only by a legacy per-frame duration stay distinct.
type frameKey struct {
	x, y, w, h float64
	duration   float64
	imageRef   string
}

func keyOf(f sprite.Frame) frameKey {
	return frameKey{x: f.X, y: f.Y, w: f.W, h: f.H, duration: f.Duration, imageRef: f.ImageRef}
}

// Compact merges duplicate frames, drops frames no sequence can reach and
// remaps every sequence. The input document is not modified.
func Compact(doc *sprite.Document) Result {
	if doc == nil {
		doc = sprite.NewDocument()
	}

	meta := sprite.CloneMeta(doc.Meta)
	animsMeta := MigrateLegacySettings(meta, doc.AnimationsMeta, doc.Animations)

	n := len(doc.Frames)

	// raw positions referenced by any sequence
	referenced := make([]bool, n)
	anyReferenced := false
	for _, seq := range doc.Animations {
		for _, idx := range seq {
			if idx >= 0 && idx < n {
				referenced[idx] = true
				anyReferenced = true
			}
		}
	}

	// canonical groups: first position seen for a content key wins
	canonical := make([]int, n)
	firstByKey := make(map[frameKey]int, n)
	for i, f := range doc.Frames {
		k := keyOf(f)
		if first, ok := firstByKey[k]; ok {
			canonical[i] = first
			continue
		}
		firstByKey[k] = i
		canonical[i] = i
	}

	keep := make([]bool, n)
	switch {
	case anyReferenced:
		for i := range doc.Frames {
			if referenced[i] {
				keep[canonical[i]] = true
			}
		}
	case len(doc.Animations) > 0:
		// animations exist but none are assigned yet: keep every canonical frame
		for i := range doc.Frames {
			if canonical[i] == i {
				keep[i] = true
			}
		}
	}

	final := make([]int, n)
	frames := make([]sprite.Frame, 0, n)
	for i, f := range doc.Frames {
		if !keep[i] {
			final[i] = -1
			continue
		}
		final[i] = len(frames)
		frames = append(frames, sprite.Frame{
			ID:       f.ID,
			X:        f.X,
			Y:        f.Y,
			W:        f.W,
			H:        f.H,
			ImageRef: f.ImageRef,
		})
	}

	indexMap := make([]int, n)
	for i := range doc.Frames {
		indexMap[i] = final[canonical[i]]
	}

	animations := make(map[string]sprite.Sequence, len(doc.Animations))
	outMeta := make(map[string]sprite.AnimationMeta, len(animsMeta))
	for name, seq := range doc.Animations {
		remapped := make(sprite.Sequence, 0, len(seq))
		var kept []int
		for pos, idx := range seq {
			if idx < 0 || idx >= n || indexMap[idx] < 0 {
				continue
			}
			remapped = append(remapped, indexMap[idx])
			kept = append(kept, pos)
		}
		animations[name] = remapped

		m, ok := animsMeta[name]
		if !ok {
			continue
		}
		if len(seq) > 0 && len(remapped) == 0 {
			continue
		}
		if len(kept) != len(seq) && len(m.Multipliers) > 0 {
			aligned := make([]float64, 0, len(kept))
			for _, pos := range kept {
				if pos < len(m.Multipliers) {
					aligned = append(aligned, m.Multipliers[pos])
				}
			}
			m.Multipliers = aligned
		}
		outMeta[name] = m.Normalized(len(remapped))
	}

	autoPlay := doc.AutoPlay
	if _, ok := animations[autoPlay]; !ok {
		autoPlay = ""
	}

	var selected []string
	if len(doc.Selected) > 0 {
		surviving := make(map[string]struct{}, len(frames))
		for _, f := range frames {
			surviving[f.ID] = struct{}{}
		}
		for _, id := range doc.Selected {
			if _, ok := surviving[id]; ok {
				selected = append(selected, id)
			}
		}
	}

	return Result{
		Frames:         frames,
		Animations:     animations,
		AnimationsMeta: outMeta,
		FrameIndexMap:  indexMap,
		AutoPlay:       autoPlay,
		Meta:           meta,
		Selected:       selected,
	}
}
