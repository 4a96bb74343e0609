package editor

import (
	"fmt"

	"github.com/milk9111/spriteanim/compact"
	"github.com/milk9111/spriteanim/sprite"
)

// Codec encodes a document into its exchange form T.
type Codec[T any] interface {
	ToJSON(doc *sprite.Document) (T, error)
}

// Decoder is the optional import capability of a Codec. A malformed payload
// yields a nil snapshot rather than an error.
type Decoder[T any] interface {
	FromJSON(payload T) *sprite.Snapshot
}

// Export encodes the current document.
func Export[T any](e *Engine, c Codec[T]) (T, error) {
	var zero T
	if e == nil || c == nil {
		return zero, fmt.Errorf("editor: export: nil engine or codec")
	}
	return c.ToJSON(e.doc)
}

// ExportCompacted compacts the current document before encoding it. The
// engine's own document is left untouched.
func ExportCompacted[T any](e *Engine, c Codec[T]) (T, error) {
	var zero T
	if e == nil || c == nil {
		return zero, fmt.Errorf("editor: export: nil engine or codec")
	}
	return c.ToJSON(compact.Compact(e.doc).Document())
}

// Import replaces the document content with the snapshot decoded from
// payload. Frames get fresh ids, the selection and clipboard are cleared and
// history is reset so undo cannot cross an import. A codec without a Decoder
// fails with ErrImportUnsupported; a payload the codec cannot decode is a
// no-op. Import reports whether the document was replaced.
func Import[T any](e *Engine, c Codec[T], payload T) (bool, error) {
	if e == nil {
		return false, nil
	}
	dec, ok := c.(Decoder[T])
	if !ok {
		return false, &Error{
			Code:    CodeCapability,
			Message: fmt.Sprintf("editor: codec %T does not support import", c),
		}
	}
	snap := dec.FromJSON(payload)
	if snap == nil {
		return false, nil
	}
	doc := snap.Restore(nil)
	for i := range doc.Frames {
		doc.Frames[i].ID = e.newID()
	}
	doc.Selected = nil
	e.replace(sanitize(doc, e.newID))
	return true, nil
}
