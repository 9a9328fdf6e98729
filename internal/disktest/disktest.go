// Package disktest builds in-memory backing stores for Disk, so tests that
// use it never touch the real filesystem.
package disktest

import (
	"github.com/xaionaro-go/bytesextra"

	"github.com/nullblock/tinyblockfs/disk"
)

// NewMemoryDisk returns a zeroed Disk of exactly blockSize*numBlocks bytes,
// backed entirely by memory.
func NewMemoryDisk(blockSize, numBlocks int) *disk.Disk {
	buf := make([]byte, blockSize*numBlocks)
	rws := bytesextra.NewReadWriteSeeker(buf)
	return disk.NewFromReadWriteSeeker(rws, blockSize, numBlocks)
}
