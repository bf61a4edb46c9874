package pointcloud

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrFormat classifies data that does not conform to the potree on-disk
// format. Match with errors.Is to distinguish format corruption from
// transport failures; format errors are fatal to the load that hit them and
// are never retried.
var ErrFormat = errors.New("malformed potree data")

// FormatError describes a malformed metadata document, node name or
// hierarchy list.
type FormatError struct {
	msg string
}

// NewFormatErrorf returns a FormatError with a formatted message.
func NewFormatErrorf(format string, args ...interface{}) error {
	return &FormatError{msg: fmt.Sprintf(format, args...)}
}

func (e *FormatError) Error() string {
	return e.msg
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// BoundsError reports a payload buffer that cannot supply the declared
// number of records. It is a format violation; the decoder checks it before
// reading anything.
type BoundsError struct {
	Need int
	Have int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("point buffer too short: need %d bytes, have %d", e.Need, e.Have)
}

func (e *BoundsError) Unwrap() error {
	return ErrFormat
}
