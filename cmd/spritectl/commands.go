package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/milk9111/spriteanim/codec"
	"github.com/milk9111/spriteanim/compact"
	"github.com/milk9111/spriteanim/editor"
	"github.com/milk9111/spriteanim/script"
	"github.com/milk9111/spriteanim/sprite"
)

// load reads a document from disk, falling back to the sheet library for
// names that are not files.
func (e *env) load(path string) (*sprite.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return codec.Load(path, data)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return e.lib.LoadDocument(path)
}

func (e *env) engine(snap *sprite.Snapshot) *editor.Engine {
	opts := append(e.cfg.EditorOptions(), editor.WithDocument(snap.Restore(nil)))
	return editor.New(opts...)
}

// outputFormat picks the codec for an output: an explicit name wins, then
// the output extension, then the session default.
func (e *env) outputFormat(name, out string) (codec.Format, error) {
	if name != "" {
		return codec.ByName(name)
	}
	if out != "" && out != "-" {
		if f, err := codec.ForPath(out); err == nil {
			return f, nil
		}
	}
	return e.cfg.Format()
}

func (e *env) write(out string, data []byte) error {
	if out == "" || out == "-" {
		_, err := e.stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(out, data, 0o644)
}

func newFlagSet(name string) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	return flags
}

func (e *env) info(args []string) error {
	flags := newFlagSet("info")
	if err := flags.Parse(args); err != nil || flags.NArg() == 0 {
		return errUsage
	}

	for _, path := range flags.Args() {
		snap, err := e.load(path)
		if err != nil {
			return err
		}
		doc := snap.Restore(nil)
		res := compact.Compact(doc)

		fmt.Fprintf(e.stdout, "%s\n", path)
		fmt.Fprintf(e.stdout, "  frames: %d (%d after compaction)\n", len(doc.Frames), len(res.Frames))
		if doc.AutoPlay != "" {
			fmt.Fprintf(e.stdout, "  autoplay: %s\n", doc.AutoPlay)
		}
		for _, name := range doc.AnimationNames() {
			m := doc.AnimationsMeta[name]
			fmt.Fprintf(e.stdout, "  %s: %v fps=%g loop=%t\n", name, []int(doc.Animations[name]), m.EffectiveFPS(), m.IsLoop())
		}
		if err := doc.Validate(); err != nil {
			fmt.Fprintf(e.stdout, "  invalid: %v\n", err)
		}
	}
	return nil
}

func (e *env) compact(args []string) error {
	flags := newFlagSet("compact")
	outDir := flags.String("o", "", "output directory (default: next to each input)")
	format := flags.String("format", "", "output format (json or yaml)")
	jobs := flags.Int("j", runtime.NumCPU(), "files compacted in parallel")
	if err := flags.Parse(args); err != nil || flags.NArg() == 0 {
		return errUsage
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(*jobs, 1))
	for _, path := range flags.Args() {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return e.compactOne(path, *outDir, *format)
		})
	}
	return g.Wait()
}

func (e *env) compactOne(path, outDir, formatName string) error {
	snap, err := e.load(path)
	if err != nil {
		return err
	}
	eng := e.engine(snap)

	// Without -format the output keeps the input's encoding.
	f, err := e.outputFormat(formatName, path)
	if err != nil {
		return err
	}
	out := withExt(compactedPath(path, outDir), f.Name())

	data, err := editor.ExportCompacted(eng, f)
	if err != nil {
		return fmt.Errorf("compact %s: %w", path, err)
	}
	if err := e.write(out, data); err != nil {
		return fmt.Errorf("compact %s: %w", path, err)
	}

	before := len(eng.Document().Frames)
	after := len(compact.Compact(eng.Document()).Frames)
	log.Printf("compacted %s -> %s (%d -> %d frames)", path, out, before, after)
	return nil
}

// compactedPath places the output in outDir, or beside the input with a
// .compact suffix.
func compactedPath(path, outDir string) string {
	base := filepath.Base(path)
	if outDir != "" {
		return filepath.Join(outDir, base)
	}
	ext := filepath.Ext(base)
	return filepath.Join(filepath.Dir(path), strings.TrimSuffix(base, ext)+".compact"+ext)
}

func withExt(path, format string) string {
	ext := "." + format
	if strings.EqualFold(filepath.Ext(path), ext) || (format == "yaml" && strings.EqualFold(filepath.Ext(path), ".yml")) {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func (e *env) runScript(args []string) error {
	flags := newFlagSet("run")
	scriptName := flags.String("script", "", "script file or bundled script name")
	out := flags.String("o", "-", "output file (- for stdout)")
	format := flags.String("format", "", "output format (json or yaml)")
	timeout := flags.Duration("timeout", 10*time.Second, "abort the script after this long")
	if err := flags.Parse(args); err != nil || flags.NArg() != 1 || *scriptName == "" {
		return errUsage
	}

	snap, err := e.load(flags.Arg(0))
	if err != nil {
		return err
	}
	src, err := os.ReadFile(*scriptName)
	if errors.Is(err, fs.ErrNotExist) {
		src, err = e.lib.LoadScript(*scriptName)
	}
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	eng := e.engine(snap)
	res, err := script.Run(ctx, eng, *scriptName, src)
	if err != nil {
		return err
	}
	for _, line := range res.Logs {
		log.Printf("[%s] %s", *scriptName, line)
	}
	log.Printf("%s: %d edits", *scriptName, res.Edits)

	f, err := e.outputFormat(*format, *out)
	if err != nil {
		return err
	}
	data, err := editor.Export(eng, f)
	if err != nil {
		return err
	}
	return e.write(*out, data)
}

func (e *env) convert(args []string) error {
	flags := newFlagSet("convert")
	to := flags.String("to", "", "target format (json or yaml)")
	out := flags.String("o", "-", "output file (- for stdout)")
	if err := flags.Parse(args); err != nil || flags.NArg() != 1 {
		return errUsage
	}

	snap, err := e.load(flags.Arg(0))
	if err != nil {
		return err
	}
	f, err := e.outputFormat(*to, *out)
	if err != nil {
		return err
	}
	data, err := editor.Export(e.engine(snap), f)
	if err != nil {
		return err
	}
	return e.write(*out, data)
}
