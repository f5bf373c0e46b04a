// Package islow5 implements the intermediate spill container used while a
// long read is being acquired. One file holds exactly one read: a fixed
// magic, the read number, then raw signal chunks appended one per
// acquisition tick. The format is deliberately uncompressed and not
// self-describing beyond the magic; its only consumer reads the whole file
// once and deletes it.
//
// Layout (little-endian):
//
//	magic        7 bytes  "ISLOW5" 0x01
//	read_number  int32
//	chunk*       int64 sample count, then that many int16 samples
//
// End of the chunk list is detected by EOF on the sample-count field.
package islow5

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Magic identifies an intermediate spill file.
var Magic = []byte{'I', 'S', 'L', 'O', 'W', '5', 0x01}

// Writer appends signal chunks to a spill file.
type Writer struct {
	f  *os.File
	bw *bufio.Writer
}

// Create opens a new spill file at path and writes the magic and read number.
func Create(path string, readNumber int32) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(f)
	if _, err := bw.Write(Magic); err != nil {
		f.Close()
		return nil, err
	}
	if err := binary.Write(bw, binary.LittleEndian, readNumber); err != nil {
		f.Close()
		return nil, err
	}
	return &Writer{f: f, bw: bw}, nil
}

// WriteChunk appends one signal chunk.
func (w *Writer) WriteChunk(signal []int16) error {
	if err := binary.Write(w.bw, binary.LittleEndian, int64(len(signal))); err != nil {
		return err
	}
	buf := make([]byte, 2*len(signal))
	for i, s := range signal {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	_, err := w.bw.Write(buf)
	return err
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// ReadAll reads a whole spill file back: the read number and the
// concatenation of all chunks in append order.
func ReadAll(path string) (readNumber int32, signal []int16, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return 0, nil, fmt.Errorf("%s: reading magic: %w", path, err)
	}
	if !bytes.Equal(magic, Magic) {
		return 0, nil, fmt.Errorf("%s: %w", path, ErrBadMagic)
	}
	if err := binary.Read(br, binary.LittleEndian, &readNumber); err != nil {
		return 0, nil, fmt.Errorf("%s: reading read number: %w", path, err)
	}

	for {
		var n int64
		err := binary.Read(br, binary.LittleEndian, &n)
		if errors.Is(err, io.EOF) {
			break // clean end of the chunk list
		}
		if err != nil {
			return 0, nil, fmt.Errorf("%s: reading chunk length: %w", path, err)
		}
		if n < 0 {
			return 0, nil, fmt.Errorf("%s: %w: negative chunk length %d", path, ErrShortChunk, n)
		}
		buf := make([]byte, 2*n)
		if _, err := io.ReadFull(br, buf); err != nil {
			return 0, nil, fmt.Errorf("%s: %w: %v", path, ErrShortChunk, err)
		}
		off := len(signal)
		signal = append(signal, make([]int16, n)...)
		for i := range int(n) {
			signal[off+i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
		}
	}
	return readNumber, signal, nil
}
