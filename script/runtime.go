// Package script runs tengo edit scripts against an editor engine. Scripts see
// a single global, `sprite`, whose functions map onto engine operations, so
// every scripted edit lands in the undo history like an interactive one.
//
//	idle := sprite.insert_frame({x: 0, y: 0, w: 16, h: 16})
//	sprite.set_animation("idle", [0])
//	sprite.set_fps("idle", 8)
package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/spriteanim/compact"
	"github.com/milk9111/spriteanim/editor"
	"github.com/milk9111/spriteanim/sprite"
)

// Result summarizes a script run.
type Result struct {
	// Edits counts document changes, undo and redo included.
	Edits int
	// Logs holds the lines the script printed with sprite.log.
	Logs []string
}

// Run compiles src and runs it against e. name is only used in errors.
func Run(ctx context.Context, e *editor.Engine, name string, src []byte) (Result, error) {
	var res Result
	if e == nil {
		return res, fmt.Errorf("script: run %s: nil engine", name)
	}

	unsubscribe := e.Subscribe(func(*sprite.Document) { res.Edits++ })
	defer unsubscribe()

	script := tengo.NewScript(src)
	if err := script.Add("sprite", buildEngineModule(e, &res)); err != nil {
		return res, fmt.Errorf("script: run %s: %w", name, err)
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return res, fmt.Errorf("script: compile %s: %w", name, err)
	}
	if err := compiled.RunContext(ctx); err != nil {
		return res, fmt.Errorf("script: run %s: %w", name, err)
	}
	return res, nil
}

func buildEngineModule(e *editor.Engine, res *Result) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	fn := func(name string, f tengo.CallableFunc) {
		values[name] = &tengo.UserFunction{Name: name, Value: f}
	}

	fn("log", func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, argString(a))
		}
		res.Logs = append(res.Logs, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	})

	fn("frames", func(args ...tengo.Object) (tengo.Object, error) {
		doc := e.Document()
		out := make([]tengo.Object, len(doc.Frames))
		for i, f := range doc.Frames {
			out[i] = frameObject(f)
		}
		return &tengo.ImmutableArray{Value: out}, nil
	})

	fn("frame_count", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(len(e.Document().Frames))}, nil
	})

	fn("insert_frame", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		f, ok := frameFromObject(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "frame", Expected: "map", Found: args[0].TypeName()}
		}
		var inserted sprite.Frame
		if len(args) > 1 {
			idx, ok := tengo.ToInt(args[1])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "index", Expected: "int", Found: args[1].TypeName()}
			}
			inserted = e.InsertFrameAt(f, idx)
		} else {
			inserted = e.InsertFrame(f)
		}
		return &tengo.String{Value: inserted.ID}, nil
	})

	fn("update_frame", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		patch, ok := patchFromObject(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "patch", Expected: "map", Found: args[1].TypeName()}
		}
		return boolObject(e.UpdateFrame(argString(args[0]), patch)), nil
	})

	fn("remove_frames", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(e.RemoveFrames(stringsFromArgs(args))), nil
	})

	fn("reorder", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		from, ok1 := tengo.ToInt(args[0])
		to, ok2 := tengo.ToInt(args[1])
		if !ok1 || !ok2 {
			return tengo.FalseValue, nil
		}
		return boolObject(e.ReorderFrames(from, to)), nil
	})

	fn("select", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(e.SetSelection(stringsFromArgs(args))), nil
	})
	fn("select_all", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(e.SelectAll()), nil
	})
	fn("clear_selection", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(e.ClearSelection()), nil
	})
	fn("selection", func(args ...tengo.Object) (tengo.Object, error) {
		return stringArray(e.Selection()), nil
	})

	fn("copy", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(e.Copy()), nil
	})
	fn("cut", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(e.Cut()), nil
	})
	fn("paste", func(args ...tengo.Object) (tengo.Object, error) {
		pasted := e.Paste()
		ids := make([]string, len(pasted))
		for i, f := range pasted {
			ids[i] = f.ID
		}
		return stringArray(ids), nil
	})

	fn("undo", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(e.Undo()), nil
	})
	fn("redo", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(e.Redo()), nil
	})

	fn("animations", func(args ...tengo.Object) (tengo.Object, error) {
		doc := e.Document()
		out := make(map[string]tengo.Object, len(doc.Animations))
		for name, seq := range doc.Animations {
			out[name] = intArray(seq)
		}
		return &tengo.ImmutableMap{Value: out}, nil
	})

	fn("set_animation", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		seq, ok := intsFromObject(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "sequence", Expected: "array", Found: args[1].TypeName()}
		}
		return boolObject(e.SetAnimation(argString(args[0]), seq)), nil
	})
	fn("delete_animation", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		return boolObject(e.DeleteAnimation(argString(args[0]))), nil
	})
	fn("rename_animation", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		return boolObject(e.RenameAnimation(argString(args[0]), argString(args[1]))), nil
	})
	fn("set_autoplay", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		return boolObject(e.SetAutoPlay(argString(args[0]))), nil
	})

	fn("set_fps", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		fps, ok := tengo.ToFloat64(args[1])
		if !ok {
			return tengo.FalseValue, nil
		}
		return boolObject(updateMeta(e, argString(args[0]), func(m *sprite.AnimationMeta) {
			m.FPS = sprite.FloatPtr(fps)
		})), nil
	})
	fn("set_loop", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		loop := !args[1].IsFalsy()
		return boolObject(updateMeta(e, argString(args[0]), func(m *sprite.AnimationMeta) {
			m.Loop = sprite.BoolPtr(loop)
		})), nil
	})
	fn("set_multipliers", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		mults, ok := floatsFromObject(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "multipliers", Expected: "array", Found: args[1].TypeName()}
		}
		return boolObject(updateMeta(e, argString(args[0]), func(m *sprite.AnimationMeta) {
			m.Multipliers = mults
		})), nil
	})

	fn("set_meta", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		return boolObject(e.UpdateMeta(map[string]any{argString(args[0]): metaValue(args[1])})), nil
	})

	fn("compact", func(args ...tengo.Object) (tengo.Object, error) {
		before := len(e.Document().Frames)
		e.Apply(func(cur *sprite.Document) *sprite.Document {
			next := compact.Compact(cur).Document()
			next.Clipboard = sprite.CloneFrames(cur.Clipboard)
			if next.Equal(cur) {
				return nil
			}
			return next
		}, true)
		return &tengo.Int{Value: int64(before - len(e.Document().Frames))}, nil
	})

	return &tengo.ImmutableMap{Value: values}
}

// updateMeta edits the meta of an existing animation through a recorded
// engine edit.
func updateMeta(e *editor.Engine, name string, edit func(m *sprite.AnimationMeta)) bool {
	doc := e.Document()
	if _, ok := doc.Animations[name]; !ok {
		return false
	}
	m := doc.AnimationsMeta[name].Clone()
	edit(&m)
	return e.SetAnimationMeta(name, m)
}
