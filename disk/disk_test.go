package disk_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nullblock/tinyblockfs/disk"
	"github.com/nullblock/tinyblockfs/internal/disktest"
)

func TestReadWriteBlockRoundTrips(t *testing.T) {
	d := disktest.NewMemoryDisk(1024, 8)

	block := bytes.Repeat([]byte{0xAB}, 1024)
	require.NoError(t, d.WriteBlock(3, block))

	out := make([]byte, 1024)
	require.NoError(t, d.ReadBlock(3, out))
	require.Equal(t, block, out)

	other := make([]byte, 1024)
	require.NoError(t, d.ReadBlock(0, other))
	require.True(t, bytes.Equal(other, make([]byte, 1024)), "untouched block should be zero")
}

func TestReadBlockRejectsOutOfRange(t *testing.T) {
	d := disktest.NewMemoryDisk(1024, 8)
	out := make([]byte, 1024)
	require.Error(t, d.ReadBlock(8, out))
	require.Error(t, d.ReadBlock(-1, out))
}

func TestReadBlockRejectsWrongBufferSize(t *testing.T) {
	d := disktest.NewMemoryDisk(1024, 8)
	require.Error(t, d.ReadBlock(0, make([]byte, 10)))
	require.Error(t, d.WriteBlock(0, make([]byte, 10)))
}

func TestMountExtendsBrandNewFileToFullGeometry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image")
	d, err := disk.Mount(path, 1024, 8)
	require.NoError(t, err)
	defer d.Close()

	out := make([]byte, 1024)
	require.NoError(t, d.ReadBlock(7, out))
	require.True(t, bytes.Equal(out, make([]byte, 1024)))
}

func TestMountLeavesExistingContentsUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image")

	d, err := disk.Mount(path, 1024, 8)
	require.NoError(t, err)
	require.NoError(t, d.WriteBlock(2, bytes.Repeat([]byte{0x7A}, 1024)))
	require.NoError(t, d.Close())

	d2, err := disk.Mount(path, 1024, 8)
	require.NoError(t, err)
	defer d2.Close()

	out := make([]byte, 1024)
	require.NoError(t, d2.ReadBlock(2, out))
	require.Equal(t, bytes.Repeat([]byte{0x7A}, 1024), out)
}
