package compact

import (
	"fmt"
	"strconv"

	"github.com/milk9111/spriteanim/sprite"
)

// LegacySettingsKey is the document meta key older editors used for global
// playback settings: {fps: {name: n}, multipliers: {name: {index: n}}}.
const LegacySettingsKey = "settings"

// MigrateLegacySettings folds the legacy global settings found in meta into a
// copy of animsMeta and deletes the legacy key from meta. Values already
// present in animsMeta win over legacy values. Animations that do not exist
// are ignored.
func MigrateLegacySettings(meta map[string]any, animsMeta map[string]sprite.AnimationMeta, animations map[string]sprite.Sequence) map[string]sprite.AnimationMeta {
	out := sprite.CloneAnimationsMeta(animsMeta)
	if out == nil {
		out = map[string]sprite.AnimationMeta{}
	}
	if meta == nil {
		return out
	}
	raw, ok := meta[LegacySettingsKey]
	if !ok {
		return out
	}
	delete(meta, LegacySettingsKey)

	settings, ok := asMap(raw)
	if !ok {
		return out
	}

	if fpsByName, ok := asMap(settings["fps"]); ok {
		for name, v := range fpsByName {
			if _, exists := animations[name]; !exists {
				continue
			}
			fps, ok := asFloat(v)
			if !ok {
				continue
			}
			m := out[name]
			if m.FPS == nil {
				m.FPS = sprite.FloatPtr(fps)
			}
			out[name] = m
		}
	}

	if multByName, ok := asMap(settings["multipliers"]); ok {
		for name, v := range multByName {
			seq, exists := animations[name]
			if !exists {
				continue
			}
			byIndex, ok := asMap(v)
			if !ok {
				continue
			}
			m := out[name]
			if len(m.Multipliers) > 0 {
				continue
			}
			mults := make([]float64, len(seq))
			for i := range mults {
				mults[i] = sprite.DefaultMultiplier
			}
			for k, raw := range byIndex {
				idx, err := strconv.Atoi(k)
				if err != nil || idx < 0 || idx >= len(mults) {
					continue
				}
				if f, ok := asFloat(raw); ok {
					mults[idx] = f
				}
			}
			m.Multipliers = mults
			out[name] = m
		}
	}

	return out
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = item
		}
		return out, true
	case map[int]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[strconv.Itoa(k)] = item
		}
		return out, true
	default:
		return nil, false
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
