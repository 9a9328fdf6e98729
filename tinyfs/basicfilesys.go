package tinyfs

import (
	"github.com/nullblock/tinyblockfs/disk"
	"github.com/nullblock/tinyblockfs/errors"
)

// BasicFileSys owns the Disk and the free-block bitmap stored in block 0.
// It knows nothing about directories or files; it only hands out and
// reclaims block ids and passes raw blocks through to the Disk.
type BasicFileSys struct {
	d         *disk.Disk
	allocator blockAllocator
}

// Mount opens d as a tinyfs image. If block 0's lowest bit is unset, the
// image is treated as new: every block is zeroed, a superblock with bits 0
// and 1 pre-marked is written, and an empty home DirInode is written to
// block 1. Otherwise the existing superblock is reused as-is.
func Mount(d *disk.Disk) (*BasicFileSys, error) {
	if d.BlockSize() != BlockSize || d.NumBlocks() != NumBlocks {
		return nil, errors.ErrFileSysError.WithMessage("disk geometry does not match tinyfs layout")
	}

	bfs := &BasicFileSys{d: d}

	raw := make([]byte, BlockSize)
	if err := d.ReadBlock(0, raw); err != nil {
		return nil, err
	}

	if bitIsSet(raw, 0) {
		bfs.allocator = loadBlockAllocator(raw)
		return bfs, nil
	}

	return bfs, bfs.format()
}

func bitIsSet(raw []byte, bit int) bool {
	return raw[bit/8]&(1<<uint(bit%8)) != 0
}

// format zero-initializes every block, marks blocks 0 and 1 permanently
// allocated, and writes an empty home directory into block 1.
func (bfs *BasicFileSys) format() error {
	bfs.allocator = newBlockAllocator(NumBlocks)

	zero := make([]byte, BlockSize)
	for i := 0; i < NumBlocks; i++ {
		if err := bfs.d.WriteBlock(i, zero); err != nil {
			return err
		}
	}

	bfs.allocator.markUsed(0)
	bfs.allocator.markUsed(HomeDirID)
	if err := bfs.persistAllocator(); err != nil {
		return err
	}

	homeBlock, err := encodeDirBlock(rawDirBlock{Magic: DirMagic})
	if err != nil {
		return err
	}
	return bfs.d.WriteBlock(int(HomeDirID), homeBlock)
}

func (bfs *BasicFileSys) persistAllocator() error {
	return bfs.d.WriteBlock(0, bfs.allocator.bytes())
}

// GetFreeBlock returns the lowest-indexed unallocated block, marks it used,
// and persists the superblock before returning.
func (bfs *BasicFileSys) GetFreeBlock() (BlockID, error) {
	id, err := bfs.allocator.allocate(NumBlocks)
	if err != nil {
		return 0, err
	}
	if err := bfs.persistAllocator(); err != nil {
		bfs.allocator.markFree(id)
		return 0, err
	}
	return id, nil
}

// ReclaimBlock clears id's bitmap bit and persists the superblock.
// Reclaiming an already-free block is a no-op.
func (bfs *BasicFileSys) ReclaimBlock(id BlockID) error {
	if !bfs.allocator.isUsed(id) {
		return nil
	}
	bfs.allocator.markFree(id)
	return bfs.persistAllocator()
}

// ReadBlock reads block id into out, which must be BlockSize bytes.
func (bfs *BasicFileSys) ReadBlock(id BlockID, out []byte) error {
	return bfs.d.ReadBlock(int(id), out)
}

// WriteBlock durably writes in, which must be BlockSize bytes, to block id.
func (bfs *BasicFileSys) WriteBlock(id BlockID, in []byte) error {
	return bfs.d.WriteBlock(int(id), in)
}

// Close releases the underlying Disk.
func (bfs *BasicFileSys) Close() error {
	return bfs.d.Close()
}

// TotalBlocks reports the fixed geometry of the image.
func (bfs *BasicFileSys) TotalBlocks() int {
	return NumBlocks
}

// BlocksFree counts unallocated blocks by scanning the bitmap. It's O(n)
// and meant for diagnostics (report.Snapshot), not the hot path.
func (bfs *BasicFileSys) BlocksFree() int {
	free := 0
	for i := 0; i < NumBlocks; i++ {
		if !bfs.allocator.isUsed(BlockID(i)) {
			free++
		}
	}
	return free
}
