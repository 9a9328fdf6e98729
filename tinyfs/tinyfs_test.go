package tinyfs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nullblock/tinyblockfs/internal/disktest"
	"github.com/nullblock/tinyblockfs/tinyfs"
)

func newFileSys(t *testing.T) *tinyfs.FileSys {
	t.Helper()
	d := disktest.NewMemoryDisk(tinyfs.BlockSize, tinyfs.NumBlocks)
	bfs, err := tinyfs.Mount(d)
	require.NoError(t, err)
	return tinyfs.NewFileSys(bfs)
}

func name(t *testing.T, s string) tinyfs.Name {
	t.Helper()
	n, err := tinyfs.NewName(s)
	require.NoError(t, err)
	return n
}
