package slow5

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
)

type auxField struct {
	name string
	typ  FieldType
}

// Header holds the per-file metadata: string attributes for read group 0
// and the ordered auxiliary field declarations every record must satisfy.
type Header struct {
	numGroups uint32
	attrNames []string // declaration order
	attrs     map[string]string
	aux       []auxField
}

func newHeader() *Header {
	return &Header{numGroups: 1, attrs: make(map[string]string)}
}

// AddAttr declares a new header attribute.
func (h *Header) AddAttr(name string) error {
	if _, ok := h.attrs[name]; ok {
		return fmt.Errorf("%w: %q", ErrAttrExists, name)
	}
	h.attrNames = append(h.attrNames, name)
	h.attrs[name] = ""
	return nil
}

// SetAttr sets the value of a declared attribute for the given read group.
func (h *Header) SetAttr(name, value string, readGroup int) error {
	if readGroup < 0 || uint32(readGroup) >= h.numGroups {
		return fmt.Errorf("%w: %d", ErrBadReadGroup, readGroup)
	}
	if _, ok := h.attrs[name]; !ok {
		return fmt.Errorf("%w: %q", ErrAttrUndeclared, name)
	}
	h.attrs[name] = value
	return nil
}

// Attr returns the value of a declared attribute for the given read group.
func (h *Header) Attr(name string, readGroup int) (string, error) {
	if readGroup < 0 || uint32(readGroup) >= h.numGroups {
		return "", fmt.Errorf("%w: %d", ErrBadReadGroup, readGroup)
	}
	v, ok := h.attrs[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrAttrUndeclared, name)
	}
	return v, nil
}

// AddAuxField declares a typed auxiliary field. Declaration order is the
// wire order of auxiliary values in every record.
func (h *Header) AddAuxField(name string, typ FieldType) error {
	if !typ.valid() {
		return fmt.Errorf("slow5: invalid field type %d", typ)
	}
	if slices.ContainsFunc(h.aux, func(f auxField) bool { return f.name == name }) {
		return fmt.Errorf("%w: %q", ErrAuxExists, name)
	}
	h.aux = append(h.aux, auxField{name: name, typ: typ})
	return nil
}

// AuxFields returns the declared auxiliary field names in wire order.
func (h *Header) AuxFields() []string {
	names := make([]string, len(h.aux))
	for i, f := range h.aux {
		names[i] = f.name
	}
	return names
}

func (h *Header) encode() []byte {
	var b []byte
	b = binary.LittleEndian.AppendUint32(b, h.numGroups)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(h.attrNames)))
	for _, name := range h.attrNames {
		b = appendStr(b, name)
		b = appendStr(b, h.attrs[name])
	}
	b = binary.LittleEndian.AppendUint32(b, uint32(len(h.aux)))
	for _, f := range h.aux {
		b = appendStr(b, f.name)
		b = append(b, byte(f.typ))
	}
	return b
}

func decodeHeader(b []byte) (*Header, error) {
	h := newHeader()
	d := decoder{buf: b}
	h.numGroups = d.u32()
	nattr := d.u32()
	for range nattr {
		name := d.str()
		value := d.str()
		if d.err != nil {
			break
		}
		h.attrNames = append(h.attrNames, name)
		h.attrs[name] = value
	}
	naux := d.u32()
	for range naux {
		name := d.str()
		typ := FieldType(d.u8())
		if d.err != nil {
			break
		}
		if !typ.valid() {
			return nil, fmt.Errorf("%w: aux field %q has type %d", ErrCorrupt, name, typ)
		}
		h.aux = append(h.aux, auxField{name: name, typ: typ})
	}
	if d.err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorrupt, d.err)
	}
	if d.off != len(b) {
		return nil, fmt.Errorf("%w: %d trailing header bytes", ErrCorrupt, len(b)-d.off)
	}
	return h, nil
}

func appendStr(b []byte, s string) []byte {
	b = binary.LittleEndian.AppendUint16(b, uint16(len(s)))
	return append(b, s...)
}

// decoder is a cursor over a record or header payload. The first failed
// read latches err; subsequent reads return zero values.
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.off+n > len(d.buf) {
		d.err = fmt.Errorf("need %d bytes at offset %d, have %d", n, d.off, len(d.buf)-d.off)
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u16() uint16 {
	b := d.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (d *decoder) u32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) u64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *decoder) i32() int32 { return int32(d.u32()) }

func (d *decoder) f64() float64 { return math.Float64frombits(d.u64()) }

func (d *decoder) str() string {
	n := d.u16()
	b := d.take(int(n))
	if b == nil {
		return ""
	}
	return string(b)
}
