package tinyfs

import (
	bitmap "github.com/boljen/go-bitmap"

	"github.com/nullblock/tinyblockfs/errors"
)

// blockAllocator owns the free-space bitmap stored in block 0. It finds the
// lowest-indexed free block deterministically, a simple first-fit strategy.
type blockAllocator struct {
	bits bitmap.Bitmap
}

func newBlockAllocator(numBlocks int) blockAllocator {
	return blockAllocator{bits: bitmap.New(numBlocks)}
}

func loadBlockAllocator(raw []byte) blockAllocator {
	bits := bitmap.New(len(raw) * 8)
	copy(bits, raw)
	return blockAllocator{bits: bits}
}

// bytes returns the bitmap trimmed to NumBlocks/8 bytes, exactly one block,
// the length Disk.WriteBlock requires for the superblock.
func (a *blockAllocator) bytes() []byte {
	return a.bits.Data(false)[:NumBlocks/8]
}

func (a *blockAllocator) isUsed(id BlockID) bool {
	return a.bits.Get(int(id))
}

func (a *blockAllocator) markUsed(id BlockID) {
	a.bits.Set(int(id), true)
}

func (a *blockAllocator) markFree(id BlockID) {
	a.bits.Set(int(id), false)
}

// allocate scans byte-by-byte, then bit-by-bit LSB-first (the semantics of
// go-bitmap's Get/Set), for the first clear bit, marks it used, and returns
// its index.
func (a *blockAllocator) allocate(numBlocks int) (BlockID, error) {
	for i := 0; i < numBlocks; i++ {
		if !a.bits.Get(i) {
			a.bits.Set(i, true)
			return BlockID(i), nil
		}
	}
	return 0, errors.ErrDiskFull
}
