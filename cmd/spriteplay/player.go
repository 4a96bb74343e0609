package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/milk9111/spriteanim/codec"
	"github.com/milk9111/spriteanim/config"
	"github.com/milk9111/spriteanim/playback"
	"github.com/milk9111/spriteanim/sheets"
	"github.com/milk9111/spriteanim/sprite"
)

type player struct {
	cfg   config.Session
	lib   sheets.Library
	sheet string
	out   io.Writer

	sched    *playback.Scheduler
	unsub    []func()
	halted   chan struct{}
	haltOnce sync.Once
}

func newPlayer(cfg config.Session, lib sheets.Library, sheet string, out io.Writer) (*player, error) {
	if sheet == "" {
		return nil, fmt.Errorf("spriteplay: no sheet given")
	}
	return &player{
		cfg:    cfg,
		lib:    lib,
		sheet:  sheet,
		out:    out,
		halted: make(chan struct{}),
	}, nil
}

// load reads the sheet from disk, or from the sheet library when no such
// file exists.
func (p *player) load() (*sprite.Document, error) {
	data, err := os.ReadFile(p.sheet)
	if err == nil {
		snap, err := codec.Load(p.sheet, data)
		if err != nil {
			return nil, err
		}
		return snap.Restore(nil), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	snap, err := p.lib.LoadDocument(p.sheet)
	if err != nil {
		return nil, err
	}
	return snap.Restore(nil), nil
}

// Start loads the sheet and begins playing anim, or the sheet's autoplay
// animation, or its first animation by name.
func (p *player) Start(anim string, clock playback.Clock) error {
	doc, err := p.load()
	if err != nil {
		return err
	}
	opts, err := p.cfg.PlaybackOptions()
	if err != nil {
		return err
	}

	if anim == "" {
		anim = doc.AutoPlay
	}
	if anim == "" {
		if names := doc.AnimationNames(); len(names) > 0 {
			anim = names[0]
		}
	}
	if _, ok := doc.Animations[anim]; !ok {
		return fmt.Errorf("spriteplay: %s has no animation %q", p.sheet, anim)
	}

	p.sched = playback.New(clock, opts...)
	p.unsub = append(p.unsub,
		p.sched.Subscribe(playback.EventFrameChanged, p.onFrame),
		p.sched.Subscribe(playback.EventFinished, func(evt playback.Event) {
			log.Printf("%s finished", evt.Animation)
		}),
		p.sched.Subscribe(playback.EventHalted, func(playback.Event) {
			p.haltOnce.Do(func() { close(p.halted) })
		}),
	)

	p.sched.SetAnimation(anim)
	p.sched.SetDocument(doc)
	if !p.sched.Play() {
		return fmt.Errorf("spriteplay: %s %q has no playable frames", p.sheet, anim)
	}
	return nil
}

func (p *player) onFrame(evt playback.Event) {
	doc := p.sched.Document()
	if doc == nil || evt.FrameIndex < 0 || evt.FrameIndex >= len(doc.Frames) {
		fmt.Fprintf(p.out, "%s[%d] no frame\n", evt.Animation, evt.Cursor)
		return
	}
	f := doc.Frames[evt.FrameIndex]
	fmt.Fprintf(p.out, "%s[%d] frame %d (%g,%g %gx%g)\n", evt.Animation, evt.Cursor, evt.FrameIndex, f.X, f.Y, f.W, f.H)
}

// Halted is closed the first time playback halts.
func (p *player) Halted() <-chan struct{} {
	return p.halted
}

// Reload re-reads the sheet and hands it to the scheduler. A finished one-shot
// animation starts over so the edit can be seen.
func (p *player) Reload() error {
	doc, err := p.load()
	if err != nil {
		return err
	}
	p.sched.SetDocument(doc)
	p.sched.Play()
	log.Printf("reloaded %s", p.sheet)
	return nil
}

func (p *player) watchDir() string {
	if _, err := os.Stat(p.sheet); err == nil {
		return filepath.Dir(p.sheet)
	}
	return filepath.Dir(filepath.Join(p.lib.Dir, filepath.FromSlash(p.sheet)))
}

// Watch reloads the sheet on every change until ctx is done.
func (p *player) Watch(ctx context.Context) error {
	w, err := sheets.NewWatcher(p.watchDir())
	if err != nil {
		return fmt.Errorf("spriteplay: watch %s: %w", p.sheet, err)
	}
	defer w.Close()

	base := filepath.Base(p.sheet)
	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(name) != base {
				continue
			}
			if err := p.Reload(); err != nil {
				log.Printf("reload %s: %v", name, err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %v", err)
		}
	}
}

func (p *player) Close() {
	for _, fn := range p.unsub {
		fn()
	}
	if p.sched != nil {
		p.sched.Close()
	}
}
