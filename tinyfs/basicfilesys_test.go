package tinyfs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nullblock/tinyblockfs/internal/disktest"
	"github.com/nullblock/tinyblockfs/tinyfs"
)

func TestMountFormatsNewImage(t *testing.T) {
	d := disktest.NewMemoryDisk(tinyfs.BlockSize, tinyfs.NumBlocks)
	bfs, err := tinyfs.Mount(d)
	require.NoError(t, err)

	// Blocks 0 and 1 are reserved; everything else is free.
	require.Equal(t, tinyfs.NumBlocks-2, bfs.BlocksFree())
}

func TestMountReusesExistingSuperblock(t *testing.T) {
	d := disktest.NewMemoryDisk(tinyfs.BlockSize, tinyfs.NumBlocks)
	bfs, err := tinyfs.Mount(d)
	require.NoError(t, err)

	id, err := bfs.GetFreeBlock()
	require.NoError(t, err)
	require.EqualValues(t, 2, id)

	// Re-mounting the same Disk must not re-zero it: block 2 stays used.
	bfs2, err := tinyfs.Mount(d)
	require.NoError(t, err)
	require.Equal(t, tinyfs.NumBlocks-3, bfs2.BlocksFree())
}

func TestGetFreeBlockIsLowestIndexFirst(t *testing.T) {
	d := disktest.NewMemoryDisk(tinyfs.BlockSize, tinyfs.NumBlocks)
	bfs, err := tinyfs.Mount(d)
	require.NoError(t, err)

	a, err := bfs.GetFreeBlock()
	require.NoError(t, err)
	b, err := bfs.GetFreeBlock()
	require.NoError(t, err)
	require.EqualValues(t, 2, a)
	require.EqualValues(t, 3, b)

	require.NoError(t, bfs.ReclaimBlock(a))
	c, err := bfs.GetFreeBlock()
	require.NoError(t, err)
	require.Equal(t, a, c, "reclaimed block should be reused before higher ids")
}

func TestReclaimAlreadyFreeBlockIsNoOp(t *testing.T) {
	d := disktest.NewMemoryDisk(tinyfs.BlockSize, tinyfs.NumBlocks)
	bfs, err := tinyfs.Mount(d)
	require.NoError(t, err)
	require.NoError(t, bfs.ReclaimBlock(500))
}

func TestGetFreeBlockDiskFull(t *testing.T) {
	d := disktest.NewMemoryDisk(tinyfs.BlockSize, tinyfs.NumBlocks)
	bfs, err := tinyfs.Mount(d)
	require.NoError(t, err)

	free := bfs.BlocksFree()
	for i := 0; i < free; i++ {
		_, err := bfs.GetFreeBlock()
		require.NoError(t, err)
	}

	_, err = bfs.GetFreeBlock()
	require.Error(t, err)
}
