package tinyfs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nullblock/tinyblockfs/errors"
	"github.com/nullblock/tinyblockfs/internal/disktest"
	"github.com/nullblock/tinyblockfs/tinyfs"
)

func TestDirInodeAddAndFindEntries(t *testing.T) {
	d := disktest.NewMemoryDisk(tinyfs.BlockSize, tinyfs.NumBlocks)
	bfs, err := tinyfs.Mount(d)
	require.NoError(t, err)
	fs := tinyfs.NewFileSys(bfs)

	require.NoError(t, fs.Mkdir(name(t, "sub")))
	require.NoError(t, fs.Create(name(t, "f")))

	entries, err := fs.CurrentEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var sawDir, sawFile bool
	for _, e := range entries {
		switch e.Name.String() {
		case "sub":
			require.True(t, e.IsDir)
			sawDir = true
		case "f":
			require.False(t, e.IsDir)
			sawFile = true
		}
	}
	require.True(t, sawDir)
	require.True(t, sawFile)
}

func TestDirInodeHasFreeEntryBecomesFalseAtCapacity(t *testing.T) {
	fs := newFileSys(t)
	for i := 0; i < tinyfs.MaxDirEntries; i++ {
		n, err := tinyfs.NewName(string(rune('a'+i%26)) + string(rune('0'+i/26)))
		require.NoError(t, err)
		require.NoError(t, fs.Create(n))
	}

	entries, err := fs.CurrentEntries()
	require.NoError(t, err)
	require.Len(t, entries, tinyfs.MaxDirEntries)
	require.ErrorIs(t, fs.Create(name(t, "overflow")), errors.ErrDirFull)
}

func TestDirEntryRemovalFreesSlotForReuse(t *testing.T) {
	fs := newFileSys(t)
	require.NoError(t, fs.Create(name(t, "f")))
	require.NoError(t, fs.Rm(name(t, "f")))

	entries, err := fs.CurrentEntries()
	require.NoError(t, err)
	require.Empty(t, entries)

	// The freed slot and the freed inode block must both be reusable.
	require.NoError(t, fs.Create(name(t, "g")))
	entries, err = fs.CurrentEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "g", entries[0].Name.String())
	require.EqualValues(t, 2, entries[0].Target, "g should reuse f's reclaimed inode block")
}

func TestSubdirectoryEntriesAreIndependentOfParent(t *testing.T) {
	fs := newFileSys(t)
	require.NoError(t, fs.Mkdir(name(t, "d")))
	require.NoError(t, fs.Create(name(t, "top")))

	require.NoError(t, fs.Cd(name(t, "d")))
	listing, err := fs.Ls()
	require.NoError(t, err)
	require.Equal(t, "", listing)

	require.NoError(t, fs.Create(name(t, "nested")))
	listing, err = fs.Ls()
	require.NoError(t, err)
	require.Equal(t, "nested", listing)

	fs.Home()
	listing, err = fs.Ls()
	require.NoError(t, err)
	require.Equal(t, "d/ top", listing)
}
