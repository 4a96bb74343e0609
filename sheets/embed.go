// Package sheets holds the bundled sample sprite documents and edit scripts.
// Files found on disk under a library's directory take precedence over the
// embedded copies, so sheets can be edited without rebuilding.
package sheets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/milk9111/spriteanim/codec"
	"github.com/milk9111/spriteanim/sprite"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml *.json
var SheetsFS embed.FS

// Library resolves sheet and script names against Dir, falling back to the
// embedded files.
type Library struct {
	Dir string
}

// Default looks in ./sheets.
var Default = Library{Dir: "sheets"}

func Load(name string) ([]byte, error)                   { return Default.Load(name) }
func LoadDocument(name string) (*sprite.Snapshot, error) { return Default.LoadDocument(name) }
func LoadScript(name string) ([]byte, error)             { return Default.LoadScript(name) }

// Load returns the raw bytes of a sheet.
func (l Library) Load(name string) ([]byte, error) {
	clean := cleanSheetPath(name)
	if clean == "" {
		return nil, fmt.Errorf("sheets: empty name")
	}
	if l.Dir != "" {
		if data, err := os.ReadFile(l.diskPath(clean)); err == nil {
			return data, nil
		}
	}
	return SheetsFS.ReadFile(clean)
}

// LoadDocument loads and decodes a sheet, choosing the codec by extension.
func (l Library) LoadDocument(name string) (*sprite.Snapshot, error) {
	data, err := l.Load(name)
	if err != nil {
		return nil, fmt.Errorf("sheets: load %s: %w", name, err)
	}
	snap, err := codec.Load(name, data)
	if err != nil {
		return nil, fmt.Errorf("sheets: decode %s: %w", name, err)
	}
	return snap, nil
}

// LoadScript returns the source of an edit script.
func (l Library) LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if l.Dir != "" {
		if data, err := os.ReadFile(l.diskPath(clean)); err == nil {
			return data, nil
		}
	}
	data, err := ScriptsFS.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("sheets: load script %s: %w", name, err)
	}
	return data, nil
}

// ModTime reports the modification time of the on-disk copy of a sheet.
func (l Library) ModTime(name string) (time.Time, bool) {
	if l.Dir == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(l.diskPath(cleanSheetPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Names lists the sheets available, embedded and on disk, sorted.
func (l Library) Names() []string {
	seen := make(map[string]struct{})
	add := func(name string) {
		if isDocumentFile(name) {
			seen[filepath.ToSlash(name)] = struct{}{}
		}
	}
	entries, _ := fs.ReadDir(SheetsFS, ".")
	for _, e := range entries {
		if !e.IsDir() {
			add(e.Name())
		}
	}
	if l.Dir != "" {
		if disk, err := os.ReadDir(l.Dir); err == nil {
			for _, e := range disk {
				if !e.IsDir() {
					add(e.Name())
				}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (l Library) diskPath(clean string) string {
	return filepath.Join(l.Dir, filepath.FromSlash(clean))
}

func cleanSheetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "sheets/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "sheets/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "sheets/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	if filepath.Ext(s) == "" {
		s += ".tengo"
	}

	return fmt.Sprintf("scripts/%s", s)
}
