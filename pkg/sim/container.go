package sim

import (
	"fmt"
	"strconv"

	"github.com/ja7ad/slowion/pkg/slow5"
)

// createContainer opens a final container for writing with the standard
// compression pair, header attributes, and auxiliary field declarations.
// Both containers of a position carry identical headers.
func createContainer(opt *Opt, mypos, kind int) (*slow5.Writer, error) {
	w, err := slow5.Create(containerPath(opt.Dir, mypos, kind))
	if err != nil {
		return nil, err
	}
	if err := w.SetPress(slow5.PressZstd, slow5.SigPressDelta); err != nil {
		w.Close()
		return nil, err
	}

	h := w.Header()
	steps := []error{
		h.AddAttr("run_id"),
		h.AddAttr("asic_id"),
		h.SetAttr("run_id", "run_0", 0),
		h.SetAttr("asic_id", "asic_id_0", 0),
		h.AddAuxField("channel_number", slow5.FieldString),
		h.AddAuxField("median_before", slow5.FieldDouble),
		h.AddAuxField("read_number", slow5.FieldInt32),
		h.AddAuxField("start_mux", slow5.FieldUint8),
		h.AddAuxField("start_time", slow5.FieldUint64),
	}
	for _, err := range steps {
		if err != nil {
			w.Close()
			return nil, err
		}
	}
	if err := w.WriteHeader(); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// newRecord builds one container record for a completed read. start_mux is
// assigned from the read number and wraps at 256; that is part of the
// persisted output contract.
func newRecord(opt *Opt, mypos, chanIdx int, readNumber int32, signal []int16) *slow5.Record {
	rec := slow5.NewRecord()
	rec.ReadID = fmt.Sprintf("read_%d_%d_%d", mypos, chanIdx, readNumber)
	rec.ReadGroup = 0
	rec.Digitisation = 2048.0
	rec.Offset = 3.0
	rec.Range = 10.0
	rec.SamplingRate = float64(opt.Freq)
	rec.LenRawSignal = uint64(len(signal))
	rec.RawSignal = signal
	rec.SetAuxString("channel_number", strconv.Itoa(chanIdx))
	rec.SetAuxDouble("median_before", 0.1)
	rec.SetAuxInt32("read_number", readNumber)
	rec.SetAuxUint8("start_mux", uint8(readNumber))
	rec.SetAuxUint64("start_time", 100)
	return rec
}
