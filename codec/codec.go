package codec

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/milk9111/spriteanim/editor"
	"github.com/milk9111/spriteanim/sprite"
)

// Format is a byte codec that can both export and import documents.
type Format interface {
	editor.Codec[[]byte]
	editor.Decoder[[]byte]

	// Name is the short format name used in config and on the command line.
	Name() string
	// Decode is FromJSON with the parse error kept.
	Decode(data []byte) (*sprite.Snapshot, error)
}

var (
	_ Format = JSON{}
	_ Format = YAML{}
)

// ByName returns the format registered under name ("json", "yaml" or "yml").
func ByName(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSON{Indent: "  "}, nil
	case "yaml", "yml":
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("codec: unknown format %q", name)
	}
}

// ForPath picks a format from the file extension of path.
func ForPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("codec: no extension on %s", path)
	}
	return ByName(ext)
}

// Load decodes data with the format matching path.
func Load(path string, data []byte) (*sprite.Snapshot, error) {
	f, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	snap, err := f.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("codec: load %s: %w", path, err)
	}
	return snap, nil
}

func isBlank(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("~"))
}
