package slow5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalCodec_Roundtrip(t *testing.T) {
	signals := [][]int16{
		nil,
		{0},
		{500, 501, 499, 500, 500},
		{-32768, 32767, 0, -1, 1},
		{1000, -1000, 1000, -1000},
	}
	for _, p := range []SigPress{SigPressNone, SigPressDelta} {
		for _, sig := range signals {
			enc, err := encodeSignal(p, sig)
			require.NoError(t, err)
			dec, err := decodeSignal(p, enc, uint64(len(sig)))
			require.NoError(t, err)
			if len(sig) == 0 {
				assert.Empty(t, dec)
			} else {
				assert.Equal(t, sig, dec)
			}
		}
	}
}

func TestSignalCodec_DeltaShrinksNearbySamples(t *testing.T) {
	sig := make([]int16, 4096)
	v := int16(500)
	for i := range sig {
		v += int16(i%3 - 1)
		sig[i] = v
	}
	plain, err := encodeSignal(SigPressNone, sig)
	require.NoError(t, err)
	delta, err := encodeSignal(SigPressDelta, sig)
	require.NoError(t, err)
	assert.Less(t, len(delta), len(plain))
}

func TestSignalCodec_Corrupt(t *testing.T) {
	enc, err := encodeSignal(SigPressDelta, []int16{100, 200, 300})
	require.NoError(t, err)

	_, err = decodeSignal(SigPressDelta, enc[:1], 3)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = decodeSignal(SigPressDelta, append(enc, 0x00), 3)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = decodeSignal(SigPressNone, []byte{1, 2, 3}, 2)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestCompress_Zstd(t *testing.T) {
	src := make([]byte, 1<<16)
	for i := range src {
		src[i] = byte(i % 7)
	}
	enc, err := compress(PressZstd, src)
	require.NoError(t, err)
	assert.Less(t, len(enc), len(src))

	dec, err := decompress(PressZstd, enc)
	require.NoError(t, err)
	assert.Equal(t, src, dec)
}
