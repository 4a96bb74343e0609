// Package sprite holds the passive data model shared by the editor, compaction
// and playback packages: frames sliced from a sprite sheet, named animation
// sequences that index into the frame array, and per-animation timing meta.
package sprite

import "github.com/google/uuid"

// Frame is one rectangular region of a sprite sheet. Geometry is in source
// image pixel space. A zero Duration means the animation's derived timing is
// used; a positive Duration (milliseconds) overrides it.
type Frame struct {
	ID       string
	X        float64
	Y        float64
	W        float64
	H        float64
	Duration float64
	ImageRef string
}

// HasDuration reports whether the frame carries its own duration override.
func (f Frame) HasDuration() bool {
	return f.Duration > 0
}

// FramePatch is a partial update for a frame. Nil fields are left untouched.
type FramePatch struct {
	X        *float64
	Y        *float64
	W        *float64
	H        *float64
	Duration *float64
	ImageRef *string
}

// IsEmpty reports whether the patch changes nothing.
func (p FramePatch) IsEmpty() bool {
	return p.X == nil && p.Y == nil && p.W == nil && p.H == nil && p.Duration == nil && p.ImageRef == nil
}

// Apply returns f with the patch merged in. The id is never changed.
func (p FramePatch) Apply(f Frame) Frame {
	if p.X != nil {
		f.X = *p.X
	}
	if p.Y != nil {
		f.Y = *p.Y
	}
	if p.W != nil {
		f.W = *p.W
	}
	if p.H != nil {
		f.H = *p.H
	}
	if p.Duration != nil {
		f.Duration = *p.Duration
	}
	if p.ImageRef != nil {
		f.ImageRef = *p.ImageRef
	}
	return f
}

// NewFrameID returns a fresh opaque frame id.
func NewFrameID() string {
	return uuid.New().String()
}

// CloneFrames copies a frame slice. Frames are plain values so a shallow copy
// of the slice is a detached copy.
func CloneFrames(frames []Frame) []Frame {
	if frames == nil {
		return nil
	}
	out := make([]Frame, len(frames))
	copy(out, frames)
	return out
}
