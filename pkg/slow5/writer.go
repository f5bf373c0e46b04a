package slow5

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// Writer appends records to a container file. The header must be fully
// declared and written before the first record. Records only become
// visible to concurrent readers once Flush returns.
type Writer struct {
	f      *os.File
	bw     *bufio.Writer
	hdr    *Header
	rpress Press
	spress SigPress

	headerWritten bool
}

// Create opens a new container file at path. Compression defaults to none.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Writer{
		f:   f,
		bw:  bufio.NewWriter(f),
		hdr: newHeader(),
	}, nil
}

// SetPress selects the record payload compressor and the signal codec.
// Must be called before WriteHeader.
func (w *Writer) SetPress(rp Press, sp SigPress) error {
	if w.headerWritten {
		return ErrHeaderWritten
	}
	if rp > PressZstd {
		return fmt.Errorf("%w: record press %d", ErrBadPress, rp)
	}
	if sp > SigPressDelta {
		return fmt.Errorf("%w: signal press %d", ErrBadPress, sp)
	}
	w.rpress = rp
	w.spress = sp
	return nil
}

// Header returns the mutable header. Mutations after WriteHeader are not
// persisted; callers must declare everything up front.
func (w *Writer) Header() *Header { return w.hdr }

// WriteHeader writes the preamble and the header payload.
func (w *Writer) WriteHeader() error {
	if w.headerWritten {
		return ErrHeaderWritten
	}
	if _, err := w.bw.Write(Magic); err != nil {
		return err
	}
	if _, err := w.bw.Write([]byte{byte(w.rpress), byte(w.spress)}); err != nil {
		return err
	}
	payload := w.hdr.encode()
	var lenbuf [4]byte
	binary.LittleEndian.PutUint32(lenbuf[:], uint32(len(payload)))
	if _, err := w.bw.Write(lenbuf[:]); err != nil {
		return err
	}
	if _, err := w.bw.Write(payload); err != nil {
		return err
	}
	w.headerWritten = true
	return nil
}

// WriteRecord validates rec against the header declarations and appends it.
func (w *Writer) WriteRecord(rec *Record) error {
	if !w.headerWritten {
		return ErrNoHeader
	}
	payload, err := rec.encode(w.hdr, w.spress)
	if err != nil {
		return err
	}
	payload, err = compress(w.rpress, payload)
	if err != nil {
		return err
	}
	var lenbuf [4]byte
	binary.LittleEndian.PutUint32(lenbuf[:], uint32(len(payload)))
	if _, err := w.bw.Write(lenbuf[:]); err != nil {
		return err
	}
	_, err = w.bw.Write(payload)
	return err
}

// Flush pushes buffered records to the OS, making them visible to readers
// of the same file.
func (w *Writer) Flush() error { return w.bw.Flush() }

// Close flushes and closes the file.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
