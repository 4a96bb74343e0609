package sprite

import (
	"slices"

	"github.com/milk9111/spriteanim/common"
)

const (
	DefaultFPS        = 12.0
	MinFPS            = 1.0
	MaxFPS            = 60.0
	DefaultMultiplier = 1.0
	MinMultiplier     = 0.1
)

// Sequence is an ordered list of positions into a document's frame array.
// Positions, not frame ids: any structural change to the frame array must
// repair every sequence.
type Sequence []int

// Clone copies the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// Valid reports whether every entry is a valid index for n frames.
func (s Sequence) Valid(n int) bool {
	for _, idx := range s {
		if idx < 0 || idx >= n {
			return false
		}
	}
	return true
}

// Filter returns the entries that are valid indexes for n frames.
func (s Sequence) Filter(n int) Sequence {
	out := make(Sequence, 0, len(s))
	for _, idx := range s {
		if idx >= 0 && idx < n {
			out = append(out, idx)
		}
	}
	return out
}

// Reversed returns a reversed copy.
func (s Sequence) Reversed() Sequence {
	out := s.Clone()
	slices.Reverse(out)
	return out
}

// AnimationMeta is the per-animation playback metadata. Loop and FPS are
// pointers so an absent value can fall back to its default.
type AnimationMeta struct {
	Loop        *bool
	FPS         *float64
	Multipliers []float64
}

// IsLoop reports whether the animation loops. Absent means true.
func (m AnimationMeta) IsLoop() bool {
	if m.Loop == nil {
		return true
	}
	return *m.Loop
}

// EffectiveFPS returns the fps clamped to [MinFPS, MaxFPS], or DefaultFPS if
// absent or not finite.
func (m AnimationMeta) EffectiveFPS() float64 {
	return ClampFPS(m.FPS)
}

// Multiplier returns the duration multiplier for sequence entry i.
func (m AnimationMeta) Multiplier(i int) float64 {
	if i < 0 || i >= len(m.Multipliers) {
		return DefaultMultiplier
	}
	return ClampMultiplier(m.Multipliers[i])
}

// Normalized returns a copy with fps clamped and multipliers clamped, padded
// with DefaultMultiplier or truncated to seqLen. Loop is carried as is.
func (m AnimationMeta) Normalized(seqLen int) AnimationMeta {
	fps := ClampFPS(m.FPS)
	out := AnimationMeta{FPS: &fps}
	if m.Loop != nil {
		loop := *m.Loop
		out.Loop = &loop
	}
	if seqLen < 0 {
		seqLen = 0
	}
	out.Multipliers = make([]float64, seqLen)
	for i := range out.Multipliers {
		out.Multipliers[i] = m.Multiplier(i)
	}
	return out
}

// Clone returns a detached copy.
func (m AnimationMeta) Clone() AnimationMeta {
	out := AnimationMeta{Multipliers: slices.Clone(m.Multipliers)}
	if m.Loop != nil {
		loop := *m.Loop
		out.Loop = &loop
	}
	if m.FPS != nil {
		fps := *m.FPS
		out.FPS = &fps
	}
	return out
}

// Equal compares two metas by value.
func (m AnimationMeta) Equal(o AnimationMeta) bool {
	if (m.Loop == nil) != (o.Loop == nil) || (m.Loop != nil && *m.Loop != *o.Loop) {
		return false
	}
	if (m.FPS == nil) != (o.FPS == nil) || (m.FPS != nil && *m.FPS != *o.FPS) {
		return false
	}
	return slices.Equal(m.Multipliers, o.Multipliers)
}

// ClampFPS resolves an optional fps value.
func ClampFPS(fps *float64) float64 {
	if fps == nil || !common.IsFinite(*fps) {
		return DefaultFPS
	}
	return common.ClampFloat(*fps, MinFPS, MaxFPS)
}

// ClampMultiplier floors a multiplier at MinMultiplier. Non-finite values map
// to DefaultMultiplier.
func ClampMultiplier(v float64) float64 {
	if !common.IsFinite(v) {
		return DefaultMultiplier
	}
	if v < MinMultiplier {
		return MinMultiplier
	}
	return v
}

// BoolPtr and FloatPtr build optional meta fields.
func BoolPtr(b bool) *bool { return &b }

func FloatPtr(f float64) *float64 { return &f }
