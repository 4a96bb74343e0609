// Package playback drives a cursor over an animation sequence in time.
//
// Step is the pure state transition; Scheduler wraps it with a clock, a
// document and change notifications.
package playback

import (
	"fmt"
	"slices"
	"strings"
)

// Direction is the order a sequence is played in.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// ParseDirection accepts "forward"/"fwd" and "reverse"/"rev"/"backward".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "forward", "fwd":
		return Forward, nil
	case "reverse", "rev", "backward":
		return Reverse, nil
	default:
		return Forward, fmt.Errorf("playback: unknown direction %q", s)
	}
}

// Mode summarizes a State.
type Mode int

const (
	Idle Mode = iota
	Paused
	Running
	Forced
)

func (m Mode) String() string {
	switch m {
	case Paused:
		return "paused"
	case Running:
		return "running"
	case Forced:
		return "forced"
	default:
		return "idle"
	}
}

// State is the playback state of one session. Sequence is stored with the
// direction already applied and Cursor indexes into it.
type State struct {
	Animation     string
	Sequence      []int
	Cursor        int
	AccumulatedMs float64
	Playing       bool
	SpeedScale    float64
	ForcedFrame   *int
	Direction     Direction
}

// NewState returns a stopped state for the given forward sequence.
func NewState(animation string, seq []int, dir Direction) State {
	return State{
		Animation:  animation,
		Sequence:   applyDirection(seq, dir),
		SpeedScale: DefaultSpeed,
		Direction:  dir,
	}
}

func (s State) Mode() Mode {
	switch {
	case s.ForcedFrame != nil:
		return Forced
	case s.Animation == "" || len(s.Sequence) == 0:
		return Idle
	case s.Playing:
		return Running
	default:
		return Paused
	}
}

// FrameIndex is the frame-array position currently shown, or -1. A forced
// frame wins over the sequence.
func (s State) FrameIndex() int {
	if s.ForcedFrame != nil {
		return *s.ForcedFrame
	}
	if s.Cursor < 0 || s.Cursor >= len(s.Sequence) {
		return -1
	}
	return s.Sequence[s.Cursor]
}

// ForwardCursor reports the cursor as a position in the forward sequence.
func (s State) ForwardCursor() int {
	return s.forward(s.Cursor)
}

func (s State) forward(pos int) int {
	if s.Direction == Reverse && len(s.Sequence) > 0 {
		return len(s.Sequence) - 1 - pos
	}
	return pos
}

// ForwardSequence returns the sequence in its stored (forward) order.
func (s State) ForwardSequence() []int {
	return applyDirection(s.Sequence, s.Direction)
}

// Clone returns a copy that shares nothing with s.
func (s State) Clone() State {
	out := s
	out.Sequence = slices.Clone(s.Sequence)
	if s.ForcedFrame != nil {
		f := *s.ForcedFrame
		out.ForcedFrame = &f
	}
	return out
}

func applyDirection(seq []int, dir Direction) []int {
	out := slices.Clone(seq)
	if dir == Reverse {
		slices.Reverse(out)
	}
	return out
}
