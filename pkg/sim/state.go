package sim

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/ja7ad/slowion/pkg/islow5"
)

// channel is the per-pore acquisition state. All fields are owned by the
// acquisition worker except cS (owned by the consolidator) and cISlow5,
// which is the published handoff counter between the two.
type channel struct {
	readNumber   int32
	lenRawSignal uint64  // target samples for the current read; 0 = draw anew
	rawSignal    []int16 // scratch, capacity cz
	aq           uint64  // samples generated so far for the current read
	chunkNumber  int32

	spill *islow5.Writer // open while a multi-chunk read is in progress

	cISlow5 atomic.Int32 // spill files completed on this channel
	cS      int32        // spill files consolidated; consolidator-owned
}

// position is the state shared by the three workers of one position.
// Every cross-worker field is written by exactly one worker; flushing the
// corresponding container before the store is what makes a published
// count safe to consume.
type position struct {
	nchan int
	chans []*channel

	cDirect atomic.Int64 // reads in the direct container (acquisition)
	cS      atomic.Int64 // reads in the streamed container (consolidator)

	cBD int64 // direct reads basecalled; basecaller-owned
	cBS int64 // streamed reads basecalled; basecaller-owned

	totalSamples atomic.Int64
	aqDone       atomic.Bool
	sDone        atomic.Bool
}

// fleet is the whole simulated instrument.
type fleet struct {
	opt *Opt
	pos []*position
}

// newFleet creates the output directory tree and the per-position state.
// The output directory must not pre-exist.
func newFleet(opt *Opt) (*fleet, error) {
	if err := os.Mkdir(opt.Dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s (delete it first)", ErrDirExists, opt.Dir)
		}
		return nil, err
	}

	f := &fleet{opt: opt, pos: make([]*position, opt.NPos)}
	for p := range f.pos {
		if err := os.Mkdir(posDir(opt.Dir, p), 0o755); err != nil {
			return nil, err
		}
		pos := &position{nchan: opt.NChan, chans: make([]*channel, opt.NChan)}
		for c := range pos.chans {
			pos.chans[c] = &channel{rawSignal: make([]int16, opt.CZ)}
		}
		f.pos[p] = pos
	}
	return f, nil
}

// posDir is the transient spill directory of a position.
func posDir(dir string, pos int) string {
	return filepath.Join(dir, fmt.Sprintf("pos%d", pos))
}

// containerPath is the final container of a position; kind 0 is direct,
// kind 1 is streamed.
func containerPath(dir string, pos, kind int) string {
	return filepath.Join(dir, fmt.Sprintf("pos%d_%d.blow5", pos, kind))
}

// spillPath is the intermediate file of one in-flight long read.
func spillPath(dir string, pos, chanIdx int, index int32) string {
	return filepath.Join(posDir(dir, pos), fmt.Sprintf("chan%d_%d.iblow5", chanIdx, index))
}
