package editor

import (
	"maps"
	"slices"

	"github.com/milk9111/spriteanim/sprite"
)

// SetAnimations replaces every animation. Entries that are not valid frame
// positions are dropped, as is meta for names that no longer exist.
func (e *Engine) SetAnimations(anims map[string]sprite.Sequence) bool {
	return e.Apply(func(cur *sprite.Document) *sprite.Document {
		clean := make(map[string]sprite.Sequence, len(anims))
		for name, seq := range anims {
			if name == "" {
				continue
			}
			clean[name] = seq.Filter(len(cur.Frames))
		}
		if maps.EqualFunc(clean, cur.Animations, sequencesEqual) {
			return nil
		}
		next := cur.Clone()
		next.Animations = clean
		next.AnimationsMeta = metaForAnimations(next.AnimationsMeta, clean)
		if _, ok := clean[next.AutoPlay]; !ok {
			next.AutoPlay = ""
		}
		return next
	}, true)
}

// SetAnimation adds or replaces one animation.
func (e *Engine) SetAnimation(name string, seq sprite.Sequence) bool {
	return e.Apply(func(cur *sprite.Document) *sprite.Document {
		if name == "" {
			return nil
		}
		clean := seq.Filter(len(cur.Frames))
		if old, ok := cur.Animations[name]; ok && slices.Equal(old, clean) {
			return nil
		}
		next := cur.Clone()
		next.Animations[name] = clean
		return next
	}, true)
}

// RenameAnimation moves an animation, its meta and the autoplay reference to
// a new name. Renaming onto an existing name is a no-op.
func (e *Engine) RenameAnimation(from, to string) bool {
	return e.Apply(func(cur *sprite.Document) *sprite.Document {
		seq, ok := cur.Animations[from]
		if !ok || to == "" || from == to {
			return nil
		}
		if _, taken := cur.Animations[to]; taken {
			return nil
		}
		next := cur.Clone()
		delete(next.Animations, from)
		next.Animations[to] = seq.Clone()
		if m, ok := next.AnimationsMeta[from]; ok {
			delete(next.AnimationsMeta, from)
			next.AnimationsMeta[to] = m
		}
		if next.AutoPlay == from {
			next.AutoPlay = to
		}
		return next
	}, true)
}

// DeleteAnimation removes an animation together with its meta.
func (e *Engine) DeleteAnimation(name string) bool {
	return e.Apply(func(cur *sprite.Document) *sprite.Document {
		if _, ok := cur.Animations[name]; !ok {
			return nil
		}
		next := cur.Clone()
		delete(next.Animations, name)
		delete(next.AnimationsMeta, name)
		if next.AutoPlay == name {
			next.AutoPlay = ""
		}
		return next
	}, true)
}

// SetAnimationsMeta replaces all animation meta. Entries for unknown
// animations are dropped.
func (e *Engine) SetAnimationsMeta(meta map[string]sprite.AnimationMeta) bool {
	return e.Apply(func(cur *sprite.Document) *sprite.Document {
		clean := metaForAnimations(meta, cur.Animations)
		if maps.EqualFunc(clean, cur.AnimationsMeta, sprite.AnimationMeta.Equal) {
			return nil
		}
		next := cur.Clone()
		next.AnimationsMeta = clean
		return next
	}, true)
}

// SetAnimationMeta replaces the meta of one existing animation.
func (e *Engine) SetAnimationMeta(name string, meta sprite.AnimationMeta) bool {
	return e.Apply(func(cur *sprite.Document) *sprite.Document {
		if _, ok := cur.Animations[name]; !ok {
			return nil
		}
		if old, ok := cur.AnimationsMeta[name]; ok && old.Equal(meta) {
			return nil
		}
		next := cur.Clone()
		next.AnimationsMeta[name] = meta.Clone()
		return next
	}, true)
}

// UpdateMeta merges patch into the free-form document meta. A nil value
// deletes the key.
func (e *Engine) UpdateMeta(patch map[string]any) bool {
	return e.Apply(func(cur *sprite.Document) *sprite.Document {
		if len(patch) == 0 {
			return nil
		}
		next := cur.Clone()
		for k, v := range sprite.CloneMeta(patch) {
			if v == nil {
				delete(next.Meta, k)
				continue
			}
			next.Meta[k] = v
		}
		if cur.Equal(next) {
			return nil
		}
		return next
	}, true)
}

// SetAutoPlay names the animation a player should start with. An empty name
// clears it; unknown names are ignored.
func (e *Engine) SetAutoPlay(name string) bool {
	return e.Apply(func(cur *sprite.Document) *sprite.Document {
		if name == cur.AutoPlay {
			return nil
		}
		if _, ok := cur.Animations[name]; name != "" && !ok {
			return nil
		}
		next := cur.Clone()
		next.AutoPlay = name
		return next
	}, true)
}

func sequencesEqual(a, b sprite.Sequence) bool {
	return slices.Equal(a, b)
}
