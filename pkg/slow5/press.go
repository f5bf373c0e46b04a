package slow5

import (
	"encoding/binary"
	"fmt"
	"runtime"

	"github.com/klauspost/compress/zstd"
)

// Press selects the record payload compressor.
type Press uint8

const (
	PressNone Press = iota
	PressZstd
)

// SigPress selects the signal codec applied before the payload compressor.
type SigPress uint8

const (
	SigPressNone SigPress = iota
	// SigPressDelta stores each sample as the zig-zag encoded varint delta
	// against the previous sample. Neighbouring nanopore samples are close
	// in value, so deltas are small and the payload compressor sees long
	// runs of short varints.
	SigPressDelta
)

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	e, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		panic(err)
	}
	zstdEncoder = e
	d, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(runtime.GOMAXPROCS(0)))
	if err != nil {
		panic(err)
	}
	zstdDecoder = d
}

func compress(p Press, src []byte) ([]byte, error) {
	switch p {
	case PressNone:
		return src, nil
	case PressZstd:
		return zstdEncoder.EncodeAll(src, nil), nil
	}
	return nil, fmt.Errorf("%w: record press %d", ErrBadPress, p)
}

func decompress(p Press, src []byte) ([]byte, error) {
	switch p {
	case PressNone:
		return src, nil
	case PressZstd:
		return zstdDecoder.DecodeAll(src, nil)
	}
	return nil, fmt.Errorf("%w: record press %d", ErrBadPress, p)
}

func encodeSignal(p SigPress, sig []int16) ([]byte, error) {
	switch p {
	case SigPressNone:
		out := make([]byte, 2*len(sig))
		for i, s := range sig {
			binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
		}
		return out, nil
	case SigPressDelta:
		out := make([]byte, 0, 2*len(sig))
		prev := int32(0)
		for _, s := range sig {
			d := int32(s) - prev
			out = binary.AppendUvarint(out, uint64(uint32((d<<1)^(d>>31))))
			prev = int32(s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: signal press %d", ErrBadPress, p)
}

func decodeSignal(p SigPress, data []byte, n uint64) ([]int16, error) {
	sig := make([]int16, n)
	switch p {
	case SigPressNone:
		if uint64(len(data)) != 2*n {
			return nil, fmt.Errorf("%w: signal length %d for %d samples", ErrCorrupt, len(data), n)
		}
		for i := range sig {
			sig[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
		}
		return sig, nil
	case SigPressDelta:
		prev := int32(0)
		off := 0
		for i := range sig {
			v, k := binary.Uvarint(data[off:])
			if k <= 0 {
				return nil, fmt.Errorf("%w: truncated signal delta at sample %d", ErrCorrupt, i)
			}
			off += k
			z := uint32(v)
			d := int32(z>>1) ^ -int32(z&1)
			prev += d
			sig[i] = int16(prev)
		}
		if off != len(data) {
			return nil, fmt.Errorf("%w: %d trailing signal bytes", ErrCorrupt, len(data)-off)
		}
		return sig, nil
	}
	return nil, fmt.Errorf("%w: signal press %d", ErrBadPress, p)
}
