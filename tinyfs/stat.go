package tinyfs

// Stat is a read-only snapshot of the mounted image's block usage plus the
// current directory's namespace counts. There's no permission, ownership,
// or timestamp tracking in this filesystem, so unlike a POSIX stat struct
// it carries only block and entry counts. Used only by the report package;
// the CRUD path never reads it.
type Stat struct {
	// TotalBlocks is the fixed number of blocks in the image.
	TotalBlocks int
	// BlocksFree is the number of currently unallocated blocks.
	BlocksFree int
	// DirCount is the number of subdirectory entries in the current
	// directory.
	DirCount int
	// FileCount is the number of file entries in the current directory.
	FileCount int
	// BytesUsed is the total size, in bytes, of the allocated blocks in
	// the image.
	BytesUsed uint64
}

// BlocksUsed returns the number of allocated blocks.
func (s Stat) BlocksUsed() int {
	return s.TotalBlocks - s.BlocksFree
}
