package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/spriteanim/codec"
	"github.com/milk9111/spriteanim/sprite"
)

func decodeFile(t *testing.T, path string) *sprite.Snapshot {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	snap, err := codec.Load(path, data)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return snap
}

func TestInfo(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"info", "hero.yaml"}, &out); err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{
		"frames: 8 (6 after compaction)",
		"autoplay: idle",
		"idle: [0 1 2 1] fps=6 loop=true",
		"attack: [5 2]",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in\n%s", want, out.String())
		}
	}
}

func TestConvert(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"convert", "-to", "yaml", "slime.json"}, &out); err != nil {
		t.Fatalf("convert: %v", err)
	}
	snap, err := codec.YAML{}.Decode(out.Bytes())
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if len(snap.Frames) != 3 || snap.AnimationsMeta["bounce"].Multiplier(2) != 0.5 {
		t.Fatalf("unexpected converted sheet %+v", snap)
	}
}

func TestCompactMany(t *testing.T) {
	dir := t.TempDir()
	if err := run([]string{"compact", "-o", dir, "-j", "2", "hero.yaml", "slime.json"}, &bytes.Buffer{}); err != nil {
		t.Fatalf("compact: %v", err)
	}

	cases := []struct {
		file   string
		frames int
	}{
		{"hero.yaml", 6},
		{"slime.json", 3},
	}
	for _, c := range cases {
		t.Run(c.file, func(t *testing.T) {
			snap := decodeFile(t, filepath.Join(dir, c.file))
			if len(snap.Frames) != c.frames {
				t.Fatalf("expected %d frames, got %d", c.frames, len(snap.Frames))
			}
		})
	}
}

func TestCompactBesideInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "dup.json")
	body := `{"frames": [{"x": 0, "y": 0, "w": 4, "h": 4}, {"x": 0, "y": 0, "w": 4, "h": 4}], "animations": {"a": [0, 1]}}`
	if err := os.WriteFile(in, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := run([]string{"compact", "-format", "yaml", in}, &bytes.Buffer{}); err != nil {
		t.Fatalf("compact: %v", err)
	}
	snap := decodeFile(t, filepath.Join(dir, "dup.compact.yaml"))
	if len(snap.Frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(snap.Frames))
	}
}

func TestRunScript(t *testing.T) {
	out := filepath.Join(t.TempDir(), "hero.json")
	if err := run([]string{"run", "-script", "tidy", "-o", out, "hero.yaml"}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	snap := decodeFile(t, out)
	if len(snap.Frames) != 6 {
		t.Fatalf("expected tidy to leave 6 frames, got %d", len(snap.Frames))
	}
}

func TestUsageErrors(t *testing.T) {
	cases := [][]string{
		nil,
		{"bogus"},
		{"info"},
		{"run", "hero.yaml"},
		{"convert", "a.json", "b.json"},
	}
	for _, args := range cases {
		if err := run(args, &bytes.Buffer{}); !errors.Is(err, errUsage) {
			t.Fatalf("%v: expected usage error, got %v", args, err)
		}
	}

	if err := run([]string{"info", "missing.yaml"}, &bytes.Buffer{}); err == nil || errors.Is(err, errUsage) {
		t.Fatalf("expected load error, got %v", err)
	}
}
