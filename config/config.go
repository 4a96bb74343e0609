// Package config loads session settings for the sprite tools: a YAML file
// first, then SPRITE_* environment variables on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/spriteanim/codec"
	"github.com/milk9111/spriteanim/editor"
	"github.com/milk9111/spriteanim/playback"
)

// Loop modes.
const (
	LoopAuto   = "auto"
	LoopAlways = "always"
	LoopNever  = "never"
)

type Session struct {
	HistoryLimit   int           `yaml:"history_limit" env:"SPRITE_HISTORY_LIMIT"`
	TrackSelection bool          `yaml:"track_selection" env:"SPRITE_TRACK_SELECTION"`
	FrameInterval  time.Duration `yaml:"frame_interval" env:"SPRITE_FRAME_INTERVAL"`
	SpeedScale     float64       `yaml:"speed_scale" env:"SPRITE_SPEED"`
	Direction      string        `yaml:"direction" env:"SPRITE_DIRECTION"`
	// Loop is auto (use animation meta), always or never.
	Loop      string `yaml:"loop" env:"SPRITE_LOOP"`
	Codec     string `yaml:"codec" env:"SPRITE_CODEC"`
	SheetsDir string `yaml:"sheets_dir" env:"SPRITE_SHEETS_DIR"`
}

// Default returns the built-in settings.
func Default() Session {
	return Session{
		HistoryLimit:  editor.DefaultHistoryLimit,
		FrameInterval: playback.DefaultFrameInterval,
		SpeedScale:    playback.DefaultSpeed,
		Direction:     playback.Forward.String(),
		Loop:          LoopAuto,
		Codec:         "json",
		SheetsDir:     "sheets",
	}
}

// Load reads path (when non-empty) over the defaults and applies environment
// overrides. A missing file is an error; use an empty path to skip it.
func Load(path string) (Session, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Session{}, fmt.Errorf("config: load %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Session{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Session{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Session{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be used.
func (s Session) Validate() error {
	var errs []error
	if s.HistoryLimit < 0 {
		errs = append(errs, fmt.Errorf("history_limit must not be negative, got %d", s.HistoryLimit))
	}
	if s.FrameInterval < 0 {
		errs = append(errs, fmt.Errorf("frame_interval must not be negative, got %s", s.FrameInterval))
	}
	if _, err := playback.ParseDirection(s.Direction); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.loopOverride(); err != nil {
		errs = append(errs, err)
	}
	if _, err := codec.ByName(s.Codec); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid session: %w", err)
	}
	return nil
}

// EditorOptions maps the session onto editor options.
func (s Session) EditorOptions() []editor.Option {
	return []editor.Option{
		editor.WithHistoryLimit(s.HistoryLimit),
		editor.WithTrackSelection(s.TrackSelection),
	}
}

// PlaybackOptions maps the session onto scheduler options.
func (s Session) PlaybackOptions() ([]playback.Option, error) {
	dir, err := playback.ParseDirection(s.Direction)
	if err != nil {
		return nil, err
	}
	opts := []playback.Option{
		playback.WithSpeed(s.SpeedScale),
		playback.WithDirection(dir),
	}
	loop, err := s.loopOverride()
	if err != nil {
		return nil, err
	}
	if loop != nil {
		opts = append(opts, playback.WithLoop(*loop))
	}
	return opts, nil
}

// Format returns the configured codec.
func (s Session) Format() (codec.Format, error) {
	return codec.ByName(s.Codec)
}

func (s Session) loopOverride() (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(s.Loop)) {
	case "", LoopAuto:
		return nil, nil
	case LoopAlways, "true", "on":
		v := true
		return &v, nil
	case LoopNever, "false", "off":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("config: unknown loop mode %q", s.Loop)
	}
}
