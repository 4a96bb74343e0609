// Package codec reads and writes the persisted sprite document shape:
//
//	{
//	  frames: [{x, y, w, h, duration?, imageUri?}],
//	  animations: {name: [index, ...]},
//	  animationsMeta?: {name: {loop?, fps?, multipliers?}},
//	  autoPlayAnimation?: name | null,
//	  meta?: {...}
//	}
//
// Frame ids are never written. Decoding assigns no ids either; the editor
// generates fresh ones on import.
//
// A duration of zero or less means the frame has no override, so it is read
// as unset and not written back. Files round-trip exactly only when every
// duration they carry is positive.
package codec

import (
	"github.com/milk9111/spriteanim/compact"
	"github.com/milk9111/spriteanim/sprite"
)

type fileFrame struct {
	X        float64  `json:"x" yaml:"x"`
	Y        float64  `json:"y" yaml:"y"`
	W        float64  `json:"w" yaml:"w"`
	H        float64  `json:"h" yaml:"h"`
	Duration *float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
	ImageURI string   `json:"imageUri,omitempty" yaml:"imageUri,omitempty"`
}

type fileMeta struct {
	Loop        *bool     `json:"loop,omitempty" yaml:"loop,omitempty"`
	FPS         *float64  `json:"fps,omitempty" yaml:"fps,omitempty"`
	Multipliers []float64 `json:"multipliers,omitempty" yaml:"multipliers,omitempty"`
}

type fileDocument struct {
	Frames         []fileFrame         `json:"frames" yaml:"frames"`
	Animations     map[string][]int    `json:"animations" yaml:"animations"`
	AnimationsMeta map[string]fileMeta `json:"animationsMeta,omitempty" yaml:"animationsMeta,omitempty"`
	AutoPlay       *string             `json:"autoPlayAnimation,omitempty" yaml:"autoPlayAnimation,omitempty"`
	Meta           map[string]any      `json:"meta,omitempty" yaml:"meta,omitempty"`

	// Settings is the legacy global settings block some older files carry at
	// the top level. It is only read.
	Settings map[string]any `json:"settings,omitempty" yaml:"settings,omitempty"`
}

func toFile(doc *sprite.Document) fileDocument {
	out := fileDocument{
		Frames:     make([]fileFrame, len(doc.Frames)),
		Animations: make(map[string][]int, len(doc.Animations)),
	}
	for i, f := range doc.Frames {
		ff := fileFrame{X: f.X, Y: f.Y, W: f.W, H: f.H, ImageURI: f.ImageRef}
		if f.HasDuration() {
			d := f.Duration
			ff.Duration = &d
		}
		out.Frames[i] = ff
	}
	for name, seq := range doc.Animations {
		entries := make([]int, len(seq))
		copy(entries, seq)
		out.Animations[name] = entries
	}
	for name, m := range doc.AnimationsMeta {
		seq, ok := doc.Animations[name]
		if !ok {
			continue
		}
		if out.AnimationsMeta == nil {
			out.AnimationsMeta = make(map[string]fileMeta, len(doc.AnimationsMeta))
		}
		out.AnimationsMeta[name] = metaToFile(m, len(seq))
	}
	if doc.AutoPlay != "" {
		name := doc.AutoPlay
		out.AutoPlay = &name
	}
	if len(doc.Meta) > 0 {
		out.Meta = sprite.CloneMeta(doc.Meta)
	}
	return out
}

// metaToFile writes only the fields that are set. Multipliers, when present,
// are aligned to the sequence length.
func metaToFile(m sprite.AnimationMeta, seqLen int) fileMeta {
	out := fileMeta{}
	if m.Loop != nil {
		loop := *m.Loop
		out.Loop = &loop
	}
	if m.FPS != nil {
		fps := sprite.ClampFPS(m.FPS)
		out.FPS = &fps
	}
	if len(m.Multipliers) > 0 {
		out.Multipliers = m.Normalized(seqLen).Multipliers
	}
	return out
}

func (f fileDocument) snapshot() *sprite.Snapshot {
	snap := &sprite.Snapshot{
		Frames:         make([]sprite.Frame, len(f.Frames)),
		Animations:     make(map[string]sprite.Sequence, len(f.Animations)),
		AnimationsMeta: make(map[string]sprite.AnimationMeta, len(f.AnimationsMeta)),
		Meta:           sprite.CloneMeta(f.Meta),
	}
	for i, ff := range f.Frames {
		fr := sprite.Frame{X: ff.X, Y: ff.Y, W: ff.W, H: ff.H, ImageRef: ff.ImageURI}
		if ff.Duration != nil && *ff.Duration > 0 {
			fr.Duration = *ff.Duration
		}
		snap.Frames[i] = fr
	}
	for name, entries := range f.Animations {
		snap.Animations[name] = sprite.Sequence(entries).Filter(len(snap.Frames))
	}
	for name, fm := range f.AnimationsMeta {
		if _, ok := snap.Animations[name]; !ok {
			continue
		}
		m := sprite.AnimationMeta{Loop: fm.Loop, FPS: fm.FPS}
		if len(fm.Multipliers) > 0 {
			m.Multipliers = append([]float64(nil), fm.Multipliers...)
		}
		snap.AnimationsMeta[name] = m
	}
	if f.AutoPlay != nil {
		if _, ok := snap.Animations[*f.AutoPlay]; ok {
			snap.AutoPlay = *f.AutoPlay
		}
	}
	if snap.Meta == nil {
		snap.Meta = map[string]any{}
	}
	if f.Settings != nil {
		if _, ok := snap.Meta[compact.LegacySettingsKey]; !ok {
			snap.Meta[compact.LegacySettingsKey] = sprite.CloneMeta(f.Settings)
		}
	}
	snap.AnimationsMeta = compact.MigrateLegacySettings(snap.Meta, snap.AnimationsMeta, snap.Animations)
	return snap
}
