package slow5

import (
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// declareHeader mirrors the header every simulator container carries.
func declareHeader(t *testing.T, w *Writer) {
	t.Helper()
	h := w.Header()
	require.NoError(t, h.AddAttr("run_id"))
	require.NoError(t, h.AddAttr("asic_id"))
	require.NoError(t, h.SetAttr("run_id", "run_0", 0))
	require.NoError(t, h.SetAttr("asic_id", "asic_id_0", 0))
	require.NoError(t, h.AddAuxField("channel_number", FieldString))
	require.NoError(t, h.AddAuxField("median_before", FieldDouble))
	require.NoError(t, h.AddAuxField("read_number", FieldInt32))
	require.NoError(t, h.AddAuxField("start_mux", FieldUint8))
	require.NoError(t, h.AddAuxField("start_time", FieldUint64))
}

func makeRecord(readNumber int32, signal []int16) *Record {
	rec := NewRecord()
	rec.ReadID = fmt.Sprintf("read_0_4_%d", readNumber)
	rec.ReadGroup = 0
	rec.Digitisation = 2048.0
	rec.Offset = 3.0
	rec.Range = 10.0
	rec.SamplingRate = 4000
	rec.LenRawSignal = uint64(len(signal))
	rec.RawSignal = signal
	rec.SetAuxString("channel_number", "4")
	rec.SetAuxDouble("median_before", 0.1)
	rec.SetAuxInt32("read_number", readNumber)
	rec.SetAuxUint8("start_mux", uint8(readNumber))
	rec.SetAuxUint64("start_time", 100)
	return rec
}

func TestWriteRead_Roundtrip(t *testing.T) {
	for _, tc := range []struct {
		name   string
		rpress Press
		spress SigPress
	}{
		{"none", PressNone, SigPressNone},
		{"zstd-delta", PressZstd, SigPressDelta},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "pos0_0.blow5")
			w, err := Create(path)
			require.NoError(t, err)
			require.NoError(t, w.SetPress(tc.rpress, tc.spress))
			declareHeader(t, w)
			require.NoError(t, w.WriteHeader())

			sig := make([]int16, 3000)
			for i := range sig {
				sig[i] = int16(500 + i%100)
			}
			for rn := int32(0); rn < 5; rn++ {
				require.NoError(t, w.WriteRecord(makeRecord(rn, sig)))
			}
			require.NoError(t, w.Close())

			r, err := Open(path)
			require.NoError(t, err)
			defer r.Close()

			runID, err := r.Header().Attr("run_id", 0)
			require.NoError(t, err)
			assert.Equal(t, "run_0", runID)
			assert.Equal(t,
				[]string{"channel_number", "median_before", "read_number", "start_mux", "start_time"},
				r.Header().AuxFields())

			for rn := int32(0); rn < 5; rn++ {
				rec, err := r.Next()
				require.NoError(t, err)
				assert.Equal(t, fmt.Sprintf("read_0_4_%d", rn), rec.ReadID)
				assert.Equal(t, uint32(0), rec.ReadGroup)
				assert.Equal(t, 2048.0, rec.Digitisation)
				assert.Equal(t, 3.0, rec.Offset)
				assert.Equal(t, 10.0, rec.Range)
				assert.Equal(t, float64(4000), rec.SamplingRate)
				assert.Equal(t, uint64(len(sig)), rec.LenRawSignal)
				assert.Equal(t, sig, rec.RawSignal)

				cn, err := rec.AuxString("channel_number")
				require.NoError(t, err)
				assert.Equal(t, "4", cn)
				mb, err := rec.AuxDouble("median_before")
				require.NoError(t, err)
				assert.Equal(t, 0.1, mb)
				gotRN, err := rec.AuxInt32("read_number")
				require.NoError(t, err)
				assert.Equal(t, rn, gotRN)
				mux, err := rec.AuxUint8("start_mux")
				require.NoError(t, err)
				assert.Equal(t, uint8(rn), mux)
				st, err := rec.AuxUint64("start_time")
				require.NoError(t, err)
				assert.Equal(t, uint64(100), st)
			}

			_, err = r.Next()
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestReader_SeesFlushedRecordsWhileWriting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos0_1.blow5")
	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.SetPress(PressZstd, SigPressDelta))
	declareHeader(t, w)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRecord(makeRecord(0, []int16{1, 2, 3})))
	require.NoError(t, w.Flush())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), rec.LenRawSignal)

	// writer is still open; the reader has consumed everything flushed so far
	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)

	require.NoError(t, w.WriteRecord(makeRecord(1, []int16{4, 5})))
	require.NoError(t, w.Flush())

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), rec.LenRawSignal)

	require.NoError(t, w.Close())
}

func TestHeader_DeclarationErrors(t *testing.T) {
	w, err := Create(filepath.Join(t.TempDir(), "x.blow5"))
	require.NoError(t, err)
	defer w.Close()
	h := w.Header()

	require.NoError(t, h.AddAttr("run_id"))
	assert.ErrorIs(t, h.AddAttr("run_id"), ErrAttrExists)
	assert.ErrorIs(t, h.SetAttr("nope", "v", 0), ErrAttrUndeclared)
	assert.ErrorIs(t, h.SetAttr("run_id", "v", 1), ErrBadReadGroup)
	_, err = h.Attr("nope", 0)
	assert.ErrorIs(t, err, ErrAttrUndeclared)

	require.NoError(t, h.AddAuxField("start_time", FieldUint64))
	assert.ErrorIs(t, h.AddAuxField("start_time", FieldUint64), ErrAuxExists)
}

func TestWriteRecord_AuxValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.blow5")
	w, err := Create(path)
	require.NoError(t, err)
	defer w.Close()
	declareHeader(t, w)

	rec := makeRecord(0, []int16{1})
	assert.ErrorIs(t, w.WriteRecord(rec), ErrNoHeader)
	require.NoError(t, w.WriteHeader())

	// undeclared aux value
	bad := makeRecord(0, []int16{1})
	bad.SetAuxUint64("bogus", 1)
	assert.ErrorIs(t, w.WriteRecord(bad), ErrAuxUndeclared)

	// missing aux value
	missing := NewRecord()
	missing.ReadID = "read_0_0_0"
	assert.ErrorIs(t, w.WriteRecord(missing), ErrAuxMissing)

	// wrong type for a declared field
	wrong := makeRecord(0, []int16{1})
	wrong.SetAuxInt32("start_time", 5)
	assert.ErrorIs(t, w.WriteRecord(wrong), ErrAuxType)

	require.NoError(t, w.WriteRecord(rec))
}

func TestWriter_HeaderStateErrors(t *testing.T) {
	w, err := Create(filepath.Join(t.TempDir(), "x.blow5"))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.WriteHeader())
	assert.ErrorIs(t, w.WriteHeader(), ErrHeaderWritten)
	assert.ErrorIs(t, w.SetPress(PressZstd, SigPressDelta), ErrHeaderWritten)
}

func TestOpen_BadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.blow5")
	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	// file holds no magic at all (header never written)
	_, err = Open(path)
	assert.Error(t, err)
}
