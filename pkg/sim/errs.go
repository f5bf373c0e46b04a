package sim

import "errors"

var (
	// ErrBadOptions indicates option derivation violated an invariant.
	ErrBadOptions = errors.New("sim: bad options")

	// ErrDirExists indicates the output directory already exists.
	ErrDirExists = errors.New("sim: output directory already exists")

	// ErrInvariant indicates a pipeline accounting invariant failed
	// (read conservation, sample conservation, or a container not at
	// clean EOF after drainage).
	ErrInvariant = errors.New("sim: invariant violated")
)
