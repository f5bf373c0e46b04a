package slow5

import "errors"

var (
	// ErrBadMagic indicates the file does not start with the BLOW5 magic.
	ErrBadMagic = errors.New("slow5: bad magic")

	// ErrHeaderWritten indicates SetPress or a second WriteHeader after
	// WriteHeader. Header mutations after WriteHeader do not return it.
	ErrHeaderWritten = errors.New("slow5: header already written")

	// ErrNoHeader indicates WriteRecord before WriteHeader.
	ErrNoHeader = errors.New("slow5: header not written")

	// ErrAttrExists indicates AddAttr of an attribute that is already
	// declared.
	ErrAttrExists = errors.New("slow5: attribute already exists")

	// ErrAttrUndeclared indicates SetAttr of an attribute that was never
	// added.
	ErrAttrUndeclared = errors.New("slow5: attribute not declared")

	// ErrBadReadGroup indicates an out-of-range read group index.
	ErrBadReadGroup = errors.New("slow5: bad read group")

	// ErrAuxExists indicates AddAuxField of a field that is already
	// declared.
	ErrAuxExists = errors.New("slow5: auxiliary field already exists")

	// ErrAuxUndeclared indicates a record carries an auxiliary value the
	// header does not declare.
	ErrAuxUndeclared = errors.New("slow5: auxiliary field not declared")

	// ErrAuxMissing indicates a record lacks a value for a declared
	// auxiliary field.
	ErrAuxMissing = errors.New("slow5: auxiliary field not set")

	// ErrAuxType indicates an auxiliary value whose type does not match
	// the header declaration.
	ErrAuxType = errors.New("slow5: auxiliary field type mismatch")

	// ErrBadPress indicates an unknown compression identifier.
	ErrBadPress = errors.New("slow5: unknown compression")

	// ErrCorrupt indicates a structurally invalid header or record.
	ErrCorrupt = errors.New("slow5: corrupt file")
)
