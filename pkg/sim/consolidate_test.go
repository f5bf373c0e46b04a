package sim

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/slowion/pkg/islow5"
	"github.com/ja7ad/slowion/pkg/slow5"
)

func TestConsolidateOne(t *testing.T) {
	opt := &Opt{Freq: 4000, Dir: filepath.Join(t.TempDir(), "out"), CZ: 8}
	require.NoError(t, os.Mkdir(opt.Dir, 0o755))
	require.NoError(t, os.Mkdir(posDir(opt.Dir, 0), 0o755))

	// two chunks of one long read on channel 3
	path := spillPath(opt.Dir, 0, 3, 0)
	w, err := islow5.Create(path, 7)
	require.NoError(t, err)
	require.NoError(t, w.WriteChunk([]int16{1, 2, 3, 4, 5, 6, 7, 8}))
	require.NoError(t, w.WriteChunk([]int16{9, 10, 11}))
	require.NoError(t, w.Close())

	streamed, err := createContainer(opt, 0, 1)
	require.NoError(t, err)

	samples, err := consolidateOne(opt, streamed, 0, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(11), samples)
	require.NoError(t, streamed.Close())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "consumed spill file must be deleted")

	r, err := slow5.Open(containerPath(opt.Dir, 0, 1))
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "read_0_3_7", rec.ReadID)
	assert.Equal(t, uint64(11), rec.LenRawSignal)
	assert.Equal(t, []int16{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, rec.RawSignal)

	cn, err := rec.AuxString("channel_number")
	require.NoError(t, err)
	assert.Equal(t, "3", cn)
	rn, err := rec.AuxInt32("read_number")
	require.NoError(t, err)
	assert.Equal(t, int32(7), rn)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestConsolidateOne_MissingSpill(t *testing.T) {
	opt := &Opt{Freq: 4000, Dir: filepath.Join(t.TempDir(), "out"), CZ: 8}
	require.NoError(t, os.Mkdir(opt.Dir, 0o755))
	require.NoError(t, os.Mkdir(posDir(opt.Dir, 0), 0o755))

	streamed, err := createContainer(opt, 0, 1)
	require.NoError(t, err)
	defer streamed.Close()

	_, err = consolidateOne(opt, streamed, 0, 0, 0)
	assert.Error(t, err)
}
