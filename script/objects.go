package script

import (
	"strings"

	"github.com/d5/tengo/v2"

	"github.com/milk9111/spriteanim/sprite"
)

func frameObject(f sprite.Frame) tengo.Object {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"id":       &tengo.String{Value: f.ID},
		"x":        &tengo.Float{Value: f.X},
		"y":        &tengo.Float{Value: f.Y},
		"w":        &tengo.Float{Value: f.W},
		"h":        &tengo.Float{Value: f.H},
		"duration": &tengo.Float{Value: f.Duration},
		"image":    &tengo.String{Value: f.ImageRef},
	}}
}

func objectFields(obj tengo.Object) (map[string]tengo.Object, bool) {
	switch v := obj.(type) {
	case *tengo.Map:
		return v.Value, true
	case *tengo.ImmutableMap:
		return v.Value, true
	default:
		return nil, false
	}
}

func frameFromObject(obj tengo.Object) (sprite.Frame, bool) {
	fields, ok := objectFields(obj)
	if !ok {
		return sprite.Frame{}, false
	}
	patch, _ := patchFromObject(obj)
	f := patch.Apply(sprite.Frame{})
	if id, ok := fields["id"]; ok {
		f.ID = argString(id)
	}
	return f, true
}

func patchFromObject(obj tengo.Object) (sprite.FramePatch, bool) {
	fields, ok := objectFields(obj)
	if !ok {
		return sprite.FramePatch{}, false
	}
	num := func(key string) *float64 {
		v, ok := fields[key]
		if !ok {
			return nil
		}
		f, ok := tengo.ToFloat64(v)
		if !ok {
			return nil
		}
		return &f
	}
	p := sprite.FramePatch{
		X:        num("x"),
		Y:        num("y"),
		W:        num("w"),
		H:        num("h"),
		Duration: num("duration"),
	}
	if img, ok := fields["image"]; ok {
		s := argString(img)
		p.ImageRef = &s
	}
	return p, true
}

func arrayItems(obj tengo.Object) ([]tengo.Object, bool) {
	switch v := obj.(type) {
	case *tengo.Array:
		return v.Value, true
	case *tengo.ImmutableArray:
		return v.Value, true
	default:
		return nil, false
	}
}

func intsFromObject(obj tengo.Object) (sprite.Sequence, bool) {
	items, ok := arrayItems(obj)
	if !ok {
		return nil, false
	}
	out := make(sprite.Sequence, 0, len(items))
	for _, item := range items {
		n, ok := tengo.ToInt(item)
		if !ok {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

func floatsFromObject(obj tengo.Object) ([]float64, bool) {
	items, ok := arrayItems(obj)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		f, ok := tengo.ToFloat64(item)
		if !ok {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}

// stringsFromArgs accepts either string arguments or one array of strings.
func stringsFromArgs(args []tengo.Object) []string {
	if len(args) == 1 {
		if items, ok := arrayItems(args[0]); ok {
			args = items
		}
	}
	out := make([]string, 0, len(args))
	for _, a := range args {
		if s := strings.TrimSpace(argString(a)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringArray(values []string) tengo.Object {
	out := make([]tengo.Object, len(values))
	for i, v := range values {
		out[i] = &tengo.String{Value: v}
	}
	return &tengo.ImmutableArray{Value: out}
}

func intArray(values []int) tengo.Object {
	out := make([]tengo.Object, len(values))
	for i, v := range values {
		out[i] = &tengo.Int{Value: int64(v)}
	}
	return &tengo.ImmutableArray{Value: out}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

// argString reads an animation name or frame id argument. Undefined reads as
// empty; non-strings use their script rendering.
func argString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	s, _ := tengo.ToString(obj)
	return s
}

// metaValue converts a script value into the shapes document meta holds after
// decoding a file: float64 numbers, []any, map[string]any and strings.
func metaValue(obj tengo.Object) any {
	if items, ok := arrayItems(obj); ok {
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = metaValue(item)
		}
		return out
	}
	if fields, ok := objectFields(obj); ok {
		out := make(map[string]any, len(fields))
		for k, item := range fields {
			out[k] = metaValue(item)
		}
		return out
	}
	switch v := obj.(type) {
	case nil, *tengo.Undefined:
		return nil
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Int, *tengo.Float:
		f, _ := tengo.ToFloat64(v)
		return f
	default:
		return argString(v)
	}
}
