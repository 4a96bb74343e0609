// Command spriteplay plays one animation of a sprite sheet and prints each
// frame change. With -watch it reloads the sheet whenever the file changes.
//
//	spriteplay -anim run -speed 2 sheets/hero.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/milk9111/spriteanim/config"
	"github.com/milk9111/spriteanim/playback"
	"github.com/milk9111/spriteanim/sheets"
)

func main() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	log.SetPrefix("spriteplay: ")

	configPath := flag.String("config", "", "session config (yaml)")
	anim := flag.String("anim", "", "animation to play (default: the sheet's autoplay)")
	speed := flag.Float64("speed", 0, "speed scale override")
	reverse := flag.Bool("reverse", false, "play backwards")
	duration := flag.Duration("for", 0, "stop after this long (0 runs until interrupted)")
	watch := flag.Bool("watch", false, "reload the sheet when it changes on disk")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: spriteplay [flags] sheet")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *speed > 0 {
		cfg.SpeedScale = *speed
	}
	if *reverse {
		cfg.Direction = playback.Reverse.String()
	}

	p, err := newPlayer(cfg, sheets.Library{Dir: cfg.SheetsDir}, flag.Arg(0), os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	if err := p.Start(*anim, playback.NewFrameClock(cfg.FrameInterval)); err != nil {
		log.Fatal(err)
	}

	if *watch {
		if err := p.Watch(ctx); err != nil {
			log.Fatal(err)
		}
		return
	}

	select {
	case <-ctx.Done():
	case <-p.Halted():
	}
}
