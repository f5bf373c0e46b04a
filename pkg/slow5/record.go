package slow5

import (
	"encoding/binary"
	"fmt"
	"math"
)

type auxValue struct {
	typ FieldType
	s   string
	f   float64
	i32 int32
	u8  uint8
	u64 uint64
}

// Record is one signal read. Primary fields are exported; auxiliary values
// are set and read through the typed accessors and validated against the
// header declarations when the record is written.
type Record struct {
	ReadID       string
	ReadGroup    uint32
	Digitisation float64
	Offset       float64
	Range        float64
	SamplingRate float64
	LenRawSignal uint64
	RawSignal    []int16

	aux map[string]auxValue
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{aux: make(map[string]auxValue)}
}

func (r *Record) setAux(name string, v auxValue) {
	if r.aux == nil {
		r.aux = make(map[string]auxValue)
	}
	r.aux[name] = v
}

// SetAuxString sets a string auxiliary value.
func (r *Record) SetAuxString(name, v string) {
	r.setAux(name, auxValue{typ: FieldString, s: v})
}

// SetAuxDouble sets a double auxiliary value.
func (r *Record) SetAuxDouble(name string, v float64) {
	r.setAux(name, auxValue{typ: FieldDouble, f: v})
}

// SetAuxInt32 sets an int32 auxiliary value.
func (r *Record) SetAuxInt32(name string, v int32) {
	r.setAux(name, auxValue{typ: FieldInt32, i32: v})
}

// SetAuxUint8 sets a uint8 auxiliary value.
func (r *Record) SetAuxUint8(name string, v uint8) {
	r.setAux(name, auxValue{typ: FieldUint8, u8: v})
}

// SetAuxUint64 sets a uint64 auxiliary value.
func (r *Record) SetAuxUint64(name string, v uint64) {
	r.setAux(name, auxValue{typ: FieldUint64, u64: v})
}

func (r *Record) auxOfType(name string, typ FieldType) (auxValue, error) {
	v, ok := r.aux[name]
	if !ok {
		return auxValue{}, fmt.Errorf("%w: %q", ErrAuxMissing, name)
	}
	if v.typ != typ {
		return auxValue{}, fmt.Errorf("%w: %q is %s, want %s", ErrAuxType, name, v.typ, typ)
	}
	return v, nil
}

// AuxString returns a string auxiliary value.
func (r *Record) AuxString(name string) (string, error) {
	v, err := r.auxOfType(name, FieldString)
	return v.s, err
}

// AuxDouble returns a double auxiliary value.
func (r *Record) AuxDouble(name string) (float64, error) {
	v, err := r.auxOfType(name, FieldDouble)
	return v.f, err
}

// AuxInt32 returns an int32 auxiliary value.
func (r *Record) AuxInt32(name string) (int32, error) {
	v, err := r.auxOfType(name, FieldInt32)
	return v.i32, err
}

// AuxUint8 returns a uint8 auxiliary value.
func (r *Record) AuxUint8(name string) (uint8, error) {
	v, err := r.auxOfType(name, FieldUint8)
	return v.u8, err
}

// AuxUint64 returns a uint64 auxiliary value.
func (r *Record) AuxUint64(name string) (uint64, error) {
	v, err := r.auxOfType(name, FieldUint64)
	return v.u64, err
}

// encode serialises the record payload, pre-compression. Auxiliary values
// are emitted in header declaration order; every declared field must be
// present with the declared type, and no undeclared values may remain.
func (r *Record) encode(h *Header, sp SigPress) ([]byte, error) {
	for name := range r.aux {
		found := false
		for _, f := range h.aux {
			if f.name == name {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrAuxUndeclared, name)
		}
	}

	var b []byte
	b = appendStr(b, r.ReadID)
	b = binary.LittleEndian.AppendUint32(b, r.ReadGroup)
	b = binary.LittleEndian.AppendUint64(b, math.Float64bits(r.Digitisation))
	b = binary.LittleEndian.AppendUint64(b, math.Float64bits(r.Offset))
	b = binary.LittleEndian.AppendUint64(b, math.Float64bits(r.Range))
	b = binary.LittleEndian.AppendUint64(b, math.Float64bits(r.SamplingRate))
	b = binary.LittleEndian.AppendUint64(b, r.LenRawSignal)

	sig, err := encodeSignal(sp, r.RawSignal)
	if err != nil {
		return nil, err
	}
	b = binary.LittleEndian.AppendUint64(b, uint64(len(sig)))
	b = append(b, sig...)

	for _, f := range h.aux {
		v, err := r.auxOfType(f.name, f.typ)
		if err != nil {
			return nil, err
		}
		switch f.typ {
		case FieldString:
			b = appendStr(b, v.s)
		case FieldDouble:
			b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v.f))
		case FieldInt32:
			b = binary.LittleEndian.AppendUint32(b, uint32(v.i32))
		case FieldUint8:
			b = append(b, v.u8)
		case FieldUint64:
			b = binary.LittleEndian.AppendUint64(b, v.u64)
		}
	}
	return b, nil
}

func decodeRecord(h *Header, sp SigPress, payload []byte) (*Record, error) {
	r := NewRecord()
	d := decoder{buf: payload}
	r.ReadID = d.str()
	r.ReadGroup = d.u32()
	r.Digitisation = d.f64()
	r.Offset = d.f64()
	r.Range = d.f64()
	r.SamplingRate = d.f64()
	r.LenRawSignal = d.u64()

	slen := d.u64()
	sig := d.take(int(slen))
	if d.err == nil {
		var err error
		r.RawSignal, err = decodeSignal(sp, sig, r.LenRawSignal)
		if err != nil {
			return nil, err
		}
	}

	for _, f := range h.aux {
		v := auxValue{typ: f.typ}
		switch f.typ {
		case FieldString:
			v.s = d.str()
		case FieldDouble:
			v.f = d.f64()
		case FieldInt32:
			v.i32 = d.i32()
		case FieldUint8:
			v.u8 = d.u8()
		case FieldUint64:
			v.u64 = d.u64()
		}
		r.aux[f.name] = v
	}
	if d.err != nil {
		return nil, fmt.Errorf("%w: record: %v", ErrCorrupt, d.err)
	}
	if d.off != len(payload) {
		return nil, fmt.Errorf("%w: %d trailing record bytes", ErrCorrupt, len(payload)-d.off)
	}
	return r, nil
}
