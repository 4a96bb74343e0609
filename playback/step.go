package playback

import (
	"math"

	"github.com/milk9111/spriteanim/common"
	"github.com/milk9111/spriteanim/sprite"
)

const (
	DefaultSpeed = 1.0
	MinSpeed     = 0.01
	MaxSpeed     = 32.0

	// MinFrameMs is the floor on a scaled frame duration.
	MinFrameMs = 1.0
)

// ClampSpeed bounds a speed scale. Non-finite values fall back to DefaultSpeed.
func ClampSpeed(s float64) float64 {
	if !common.IsFinite(s) {
		return DefaultSpeed
	}
	return common.ClampFloat(s, MinSpeed, MaxSpeed)
}

// Timing resolves frame durations for one animation.
type Timing struct {
	Frames []sprite.Frame
	Meta   sprite.AnimationMeta
	Loop   bool
}

// TimingFor builds the timing of the named animation in doc. loop, when
// non-nil, overrides the animation's own loop flag.
func TimingFor(doc *sprite.Document, animation string, loop *bool) Timing {
	t := Timing{Loop: true}
	if doc == nil {
		return t
	}
	t.Frames = doc.Frames
	t.Meta = doc.AnimationsMeta[animation]
	t.Loop = t.Meta.IsLoop()
	if loop != nil {
		t.Loop = *loop
	}
	return t
}

// BaseDuration is the unscaled duration in ms of the frame at frameIndex,
// shown as entry pos of the forward sequence. A frame's own duration wins;
// otherwise it is derived from the animation fps and the entry multiplier.
func (t Timing) BaseDuration(frameIndex, pos int) float64 {
	if frameIndex >= 0 && frameIndex < len(t.Frames) {
		if d := t.Frames[frameIndex].Duration; d > 0 && common.IsFinite(d) {
			return d
		}
	}
	return 1000 / t.Meta.EffectiveFPS() / t.Meta.Multiplier(pos)
}

// DurationOf is BaseDuration divided by the clamped speed scale, never below
// MinFrameMs.
func (t Timing) DurationOf(frameIndex, pos int, speed float64) float64 {
	return math.Max(t.BaseDuration(frameIndex, pos)/ClampSpeed(speed), MinFrameMs)
}

// StepResult describes what a Step did.
type StepResult struct {
	// Advanced is set when the cursor moved or wrapped.
	Advanced bool
	// Loops counts how many times the sequence wrapped around.
	Loops int
	// Finished is set when a one-shot sequence reached its end during this
	// step. The returned state is paused on the last entry.
	Finished bool
}

// Step advances st by deltaMs of wall time. It is a no-op unless st is
// running. Whole loops are skipped arithmetically, so a large delta costs at
// most a couple of passes over the sequence.
func Step(st State, t Timing, deltaMs float64) (State, StepResult) {
	var res StepResult
	n := len(st.Sequence)
	if st.Mode() != Running || !(deltaMs > 0) || !common.IsFinite(deltaMs) {
		return st, res
	}

	st.Cursor = common.ClampInt(st.Cursor, 0, n-1)
	st.AccumulatedMs += deltaMs
	dur := func(pos int) float64 {
		return t.DurationOf(st.Sequence[pos], st.forward(pos), st.SpeedScale)
	}

	if t.Loop {
		var cycle float64
		for pos := range st.Sequence {
			cycle += dur(pos)
		}
		if st.AccumulatedMs >= cycle {
			loops := math.Floor(st.AccumulatedMs / cycle)
			st.AccumulatedMs -= loops * cycle
			res.Loops += int(loops)
			res.Advanced = true
		}
	}

	for {
		d := dur(st.Cursor)
		if st.AccumulatedMs < d {
			break
		}
		if st.Cursor+1 < n {
			st.AccumulatedMs -= d
			st.Cursor++
			res.Advanced = true
			continue
		}
		if t.Loop {
			st.AccumulatedMs -= d
			st.Cursor = 0
			res.Loops++
			res.Advanced = true
			continue
		}
		st.Cursor = n - 1
		st.AccumulatedMs = 0
		st.Playing = false
		res.Finished = true
		res.Advanced = true
		break
	}
	return st, res
}
