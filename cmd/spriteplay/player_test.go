package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/spriteanim/config"
	"github.com/milk9111/spriteanim/playback"
	"github.com/milk9111/spriteanim/sheets"
)

func TestPlayOneShot(t *testing.T) {
	var out bytes.Buffer
	p, err := newPlayer(config.Default(), sheets.Library{}, "hero.yaml", &out)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	defer p.Close()

	clock := playback.NewManualClock(time.Unix(0, 0))
	if err := p.Start("attack", clock); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(120 * time.Millisecond)
	clock.Advance(100 * time.Millisecond)

	want := "attack[0] frame 5 (32,32 32x32)\nattack[1] frame 2 (64,0 32x32)\n"
	if out.String() != want {
		t.Fatalf("unexpected trace:\n%s", out.String())
	}
	select {
	case <-p.Halted():
	default:
		t.Fatalf("one-shot attack should halt")
	}
}

func writeSheet(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestStartPicksAnimation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.json")
	writeSheet(t, path, `{"frames": [{"w": 1, "h": 1}, {"x": 1, "w": 1, "h": 1}], "animations": {"b": [1], "a": [0]}}`)

	p, _ := newPlayer(config.Default(), sheets.Library{}, path, &bytes.Buffer{})
	defer p.Close()
	if err := p.Start("", playback.NewManualClock(time.Unix(0, 0))); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := p.sched.State().Animation; got != "a" {
		t.Fatalf("expected first animation by name, got %q", got)
	}

	writeSheet(t, path, `{"frames": [{"w": 1, "h": 1}, {"x": 1, "w": 1, "h": 1}], "animations": {"a": [1, 0]}}`)
	if err := p.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := p.sched.State().ForwardSequence(); !slices.Equal(got, []int{1, 0}) {
		t.Fatalf("expected reloaded sequence, got %v", got)
	}
}

func TestStartErrors(t *testing.T) {
	if _, err := newPlayer(config.Default(), sheets.Library{}, "", nil); err == nil {
		t.Fatalf("expected error for empty sheet")
	}

	cases := []struct {
		name  string
		sheet string
		anim  string
		want  string
	}{
		{"unknown_animation", "hero.yaml", "fly", `no animation "fly"`},
		{"missing_sheet", "nope.yaml", "", "sheets: load nope.yaml"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, _ := newPlayer(config.Default(), sheets.Library{}, c.sheet, &bytes.Buffer{})
			defer p.Close()
			err := p.Start(c.anim, playback.NewManualClock(time.Unix(0, 0)))
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("expected error containing %q, got %v", c.want, err)
			}
		})
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blink.json")
	writeSheet(t, path, `{"frames": [{"w": 1, "h": 1}, {"x": 1, "w": 1, "h": 1}], "animations": {"blink": [0]}, "autoPlayAnimation": "blink"}`)

	p, _ := newPlayer(config.Default(), sheets.Library{}, path, &bytes.Buffer{})
	defer p.Close()
	if err := p.Start("", playback.NewManualClock(time.Unix(0, 0))); err != nil {
		t.Fatalf("start: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Watch(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// give the watcher a moment to register the directory
	time.Sleep(50 * time.Millisecond)
	writeSheet(t, path, `{"frames": [{"w": 1, "h": 1}, {"x": 1, "w": 1, "h": 1}], "animations": {"blink": [1, 0]}}`)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if slices.Equal(p.sched.State().ForwardSequence(), []int{1, 0}) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("sheet change was not picked up, sequence %v", p.sched.State().ForwardSequence())
}
