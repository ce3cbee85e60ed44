package document

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when a document has an extension no loader handles.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrInvalidFormat is returned when an input file is not valid JSON or not a .json file.
	ErrInvalidFormat = errors.New("invalid file format")
)

// UnsupportedFormatError carries the rejected extension.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	ext := e.Ext
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("unsupported document type: %s", ext)
}

// Is lets errors.Is match UnsupportedFormatError against ErrUnsupportedFormat.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}
