// Package tinyfs implements the block-structured virtual filesystem: a
// superblock bitmap, directory blocks, and inode blocks with indirect data
// blocks, all packed into a single fixed-size backing image.
package tinyfs

// BlockID identifies a single block in the image. Block 0 is always the
// superblock; block 1 is always the home directory.
type BlockID uint32

const (
	// BlockSize is the size, in bytes, of every block in the image.
	BlockSize = 1024

	// NumBlocks is the total number of blocks in the image. It's chosen so
	// that the free-space bitmap fits in exactly one block: BlockSize * 8
	// bits.
	NumBlocks = BlockSize * 8

	// MaxFNameSize is the fixed width, in bytes, of a directory entry's
	// name field. Shorter names are right-padded with zero bytes.
	MaxFNameSize = 9

	// blockHeaderSize is the size, in bytes, of the (Magic, count) pair
	// every DirInode and FileInode block begins with.
	blockHeaderSize = 8

	// dirEntrySize is the on-disk size, in bytes, of one DirEntry slot.
	dirEntrySize = 32

	// blockRefSize is the on-disk size, in bytes, of one FileInode data
	// block reference.
	blockRefSize = 4

	// MaxDirEntries is the number of DirEntry slots a single DirInode block
	// can hold.
	MaxDirEntries = (BlockSize - blockHeaderSize) / dirEntrySize

	// MaxDataBlocks is the number of data block references a single
	// FileInode block can hold.
	MaxDataBlocks = (BlockSize - blockHeaderSize) / blockRefSize

	// MaxFileSize is the largest a file's contents can grow, in bytes.
	MaxFileSize = MaxDataBlocks * BlockSize

	// DirMagic and InodeMagic tag a block's first four bytes so its kind
	// can be recovered without external metadata.
	DirMagic   uint32 = 0xFFFFFFFF
	InodeMagic uint32 = 0xFFFFFFFE

	// UnusedID marks a DirEntry slot or FileInode block-ref slot as free.
	UnusedID = BlockID(0)

	// HomeDirID is the block id of the home directory, always present
	// after mount.
	HomeDirID = BlockID(1)

	// DefaultImagePath is the backing file name used when none is given
	// explicitly.
	DefaultImagePath = "DISK"
)

// Name is a fixed-width, zero-padded directory entry name.
type Name [MaxFNameSize]byte

// NewName validates s (1-9 bytes) and right-pads it with zero bytes.
func NewName(s string) (Name, error) {
	var n Name
	if len(s) == 0 || len(s) > MaxFNameSize {
		return n, errFileNameTooLong(len(s))
	}
	copy(n[:], s)
	return n, nil
}

// String returns the name with trailing zero bytes trimmed.
func (n Name) String() string {
	i := len(n)
	for i > 0 && n[i-1] == 0 {
		i--
	}
	return string(n[:i])
}
