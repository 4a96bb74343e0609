package codec

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/spriteanim/sprite"
)

// YAML writes the same document shape as JSON for hand-edited sheets.
type YAML struct{}

func (YAML) Name() string { return "yaml" }

func (YAML) ToJSON(doc *sprite.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("codec: encode yaml: nil document")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toFile(doc)); err != nil {
		return nil, fmt.Errorf("codec: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("codec: encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func (c YAML) FromJSON(payload []byte) *sprite.Snapshot {
	snap, err := c.Decode(payload)
	if err != nil {
		return nil
	}
	return snap
}

func (YAML) Decode(data []byte) (*sprite.Snapshot, error) {
	if isBlank(data) {
		return nil, fmt.Errorf("codec: decode yaml: empty payload")
	}
	var file fileDocument
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("codec: decode yaml: %w", err)
	}
	return file.snapshot(), nil
}
