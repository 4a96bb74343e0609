package editor

// Code is a machine-readable error code.
type Code string

const (
	// CodeCapability marks a collaborator that lacks a required capability,
	// such as a codec without a decoder.
	CodeCapability Code = "CAPABILITY"
)

// Error is the editor error type.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ErrImportUnsupported is returned when importing through a codec that
// cannot decode.
var ErrImportUnsupported = &Error{Code: CodeCapability, Message: "editor: codec does not support import"}
