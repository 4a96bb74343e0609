package codec

import (
	"encoding/json"
	"fmt"

	"github.com/milk9111/spriteanim/sprite"
)

// JSON is the canonical exchange codec.
type JSON struct {
	// Indent, when set, pretty-prints the output.
	Indent string
}

func (JSON) Name() string { return "json" }

// ToJSON encodes doc without frame ids.
func (c JSON) ToJSON(doc *sprite.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("codec: encode json: nil document")
	}
	file := toFile(doc)
	var (
		data []byte
		err  error
	)
	if c.Indent != "" {
		data, err = json.MarshalIndent(file, "", c.Indent)
	} else {
		data, err = json.Marshal(file)
	}
	if err != nil {
		return nil, fmt.Errorf("codec: encode json: %w", err)
	}
	return data, nil
}

// FromJSON decodes a payload, returning nil when it is malformed.
func (c JSON) FromJSON(payload []byte) *sprite.Snapshot {
	snap, err := c.Decode(payload)
	if err != nil {
		return nil
	}
	return snap
}

func (JSON) Decode(data []byte) (*sprite.Snapshot, error) {
	if isBlank(data) {
		return nil, fmt.Errorf("codec: decode json: empty payload")
	}
	var file fileDocument
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("codec: decode json: %w", err)
	}
	return file.snapshot(), nil
}
