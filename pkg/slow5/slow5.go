// Package slow5 implements the final signal record container written by the
// simulator and read back by the pseudo-basecaller. A file carries a header
// (named string attributes plus typed auxiliary field declarations) followed
// by length-prefixed records. Records hold the primary signal fields and one
// value per declared auxiliary field.
//
// Compression is two-tier: the raw signal is first run through a
// signal-specific differential codec, then the whole record payload goes
// through a general-purpose compressor. Both tiers are recorded in the file
// preamble so readers need no out-of-band knowledge.
//
// Layout (little-endian):
//
//	magic    "BLOW5" 0x01
//	rpress   uint8 record payload compressor
//	spress   uint8 signal codec
//	header   uint32 length, then the header payload (uncompressed)
//	record*  uint32 length, then the (possibly compressed) record payload
//
// A clean end of file is io.EOF exactly on a record length field; anything
// shorter is corruption.
package slow5

// Magic identifies a container file, version included.
var Magic = []byte{'B', 'L', 'O', 'W', '5', 0x01}

// FieldType is the wire type of an auxiliary field.
type FieldType uint8

const (
	FieldString FieldType = iota + 1
	FieldDouble
	FieldInt32
	FieldUint8
	FieldUint64
)

func (t FieldType) String() string {
	switch t {
	case FieldString:
		return "string"
	case FieldDouble:
		return "double"
	case FieldInt32:
		return "int32"
	case FieldUint8:
		return "uint8"
	case FieldUint64:
		return "uint64"
	}
	return "unknown"
}

func (t FieldType) valid() bool { return t >= FieldString && t <= FieldUint64 }
