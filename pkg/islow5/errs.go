package islow5

import "errors"

var (
	// ErrBadMagic indicates the file does not start with the ISLOW5 magic.
	ErrBadMagic = errors.New("islow5: bad magic")

	// ErrShortChunk indicates a chunk body was truncated or its length
	// field was invalid.
	ErrShortChunk = errors.New("islow5: short chunk")
)
