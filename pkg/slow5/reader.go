package slow5

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Reader iterates a container file sequentially. It is safe to read a file
// that is still being appended to, provided the caller never reads past
// records the writer has flushed.
type Reader struct {
	f      *os.File
	br     *bufio.Reader
	hdr    *Header
	rpress Press
	spress SigPress
}

// Open opens a container file and reads its preamble and header.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := &Reader{f: f, br: bufio.NewReader(f)}
	if err := r.readHeader(); err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func (r *Reader) readHeader() error {
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r.br, magic); err != nil {
		return fmt.Errorf("reading magic: %w", err)
	}
	if !bytes.Equal(magic, Magic) {
		return ErrBadMagic
	}
	var press [2]byte
	if _, err := io.ReadFull(r.br, press[:]); err != nil {
		return fmt.Errorf("reading compression flags: %w", err)
	}
	r.rpress = Press(press[0])
	r.spress = SigPress(press[1])
	if r.rpress > PressZstd || r.spress > SigPressDelta {
		return fmt.Errorf("%w: press %d/%d", ErrBadPress, press[0], press[1])
	}
	var lenbuf [4]byte
	if _, err := io.ReadFull(r.br, lenbuf[:]); err != nil {
		return fmt.Errorf("reading header length: %w", err)
	}
	payload := make([]byte, binary.LittleEndian.Uint32(lenbuf[:]))
	if _, err := io.ReadFull(r.br, payload); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	hdr, err := decodeHeader(payload)
	if err != nil {
		return err
	}
	r.hdr = hdr
	return nil
}

// Header returns the file header.
func (r *Reader) Header() *Header { return r.hdr }

// Next returns the next record. A clean end of file is reported as io.EOF;
// a record truncated mid-payload is an error.
func (r *Reader) Next() (*Record, error) {
	var lenbuf [4]byte
	if _, err := io.ReadFull(r.br, lenbuf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: record length: %v", ErrCorrupt, err)
	}
	payload := make([]byte, binary.LittleEndian.Uint32(lenbuf[:]))
	if _, err := io.ReadFull(r.br, payload); err != nil {
		return nil, fmt.Errorf("%w: record payload: %v", ErrCorrupt, err)
	}
	payload, err := decompress(r.rpress, payload)
	if err != nil {
		return nil, err
	}
	return decodeRecord(r.hdr, r.spress, payload)
}

// Close closes the file.
func (r *Reader) Close() error { return r.f.Close() }
