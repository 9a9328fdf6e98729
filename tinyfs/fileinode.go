package tinyfs

import "github.com/nullblock/tinyblockfs/errors"

// FileInode is a handle over one inode block plus the DataBlock handles it
// references, materialized in slot order at load time.
type FileInode struct {
	id     BlockID
	size   uint32
	blocks []*DataBlock
}

// allocateFileInode allocates a new inode block and writes an empty inode
// image: magic, zero size, all 254 refs unused.
func allocateFileInode(bfs *BasicFileSys) (*FileInode, error) {
	id, err := bfs.GetFreeBlock()
	if err != nil {
		return nil, err
	}

	raw, err := encodeFileBlock(rawFileBlock{Magic: InodeMagic})
	if err != nil {
		return nil, err
	}
	if err := bfs.WriteBlock(id, raw); err != nil {
		return nil, err
	}

	return &FileInode{id: id}, nil
}

// loadFileInode reads block id, validates the magic, and eagerly loads
// every referenced DataBlock in slot order.
func loadFileInode(bfs *BasicFileSys, id BlockID) (*FileInode, error) {
	raw := make([]byte, BlockSize)
	if err := bfs.ReadBlock(id, raw); err != nil {
		return nil, err
	}

	block, err := decodeFileBlock(raw)
	if err != nil {
		return nil, err
	}
	if block.Magic != InodeMagic {
		return nil, errors.ErrFileSysError.WithMessage("block does not hold a file inode")
	}

	fi := &FileInode{id: id, size: block.Size}
	for _, ref := range block.Blocks {
		if BlockID(ref) == UnusedID {
			continue
		}
		db, err := loadDataBlock(bfs, BlockID(ref))
		if err != nil {
			return nil, err
		}
		fi.blocks = append(fi.blocks, db)
	}
	return fi, nil
}

// ID returns the inode's own block id.
func (fi *FileInode) ID() BlockID {
	return fi.id
}

// Size returns the file's logical size, in bytes.
func (fi *FileInode) Size() uint32 {
	return fi.size
}

// Blocks returns the file's data blocks in slot order.
func (fi *FileInode) Blocks() []*DataBlock {
	return fi.blocks
}

// HasFreeSlot reports whether another data block can be registered.
func (fi *FileInode) HasFreeSlot() bool {
	return len(fi.blocks) < MaxDataBlocks
}

// TrailingFragment returns the number of useful bytes in the file's last
// data block; 0 if the file is empty or exactly fills its last block.
func (fi *FileInode) TrailingFragment() uint32 {
	return fi.size % BlockSize
}

func (fi *FileInode) writeThrough(bfs *BasicFileSys) error {
	var refs [MaxDataBlocks]uint32
	for i, db := range fi.blocks {
		refs[i] = uint32(db.id)
	}
	raw, err := encodeFileBlock(rawFileBlock{
		Magic:  InodeMagic,
		Size:   fi.size,
		Blocks: refs,
	})
	if err != nil {
		return err
	}
	return bfs.WriteBlock(fi.id, raw)
}

// AddBlock places db in the first free slot and persists the inode.
func (fi *FileInode) AddBlock(bfs *BasicFileSys, db *DataBlock) error {
	if !fi.HasFreeSlot() {
		return errors.ErrFileFull
	}
	fi.blocks = append(fi.blocks, db)
	return fi.writeThrough(bfs)
}

// RemoveBlock finds the slot holding db's id, shifts the remaining slots
// left (packed, no holes), and persists the inode.
func (fi *FileInode) RemoveBlock(bfs *BasicFileSys, db *DataBlock) error {
	idx := -1
	for i, b := range fi.blocks {
		if b.id == db.id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return errors.ErrFileSysError.WithMessage("data block not registered to this inode")
	}
	fi.blocks = append(fi.blocks[:idx], fi.blocks[idx+1:]...)
	return fi.writeThrough(bfs)
}

// SetSize updates the file's logical size, in bytes, and persists the
// inode.
func (fi *FileInode) SetSize(bfs *BasicFileSys, size uint32) error {
	fi.size = size
	return fi.writeThrough(bfs)
}

// destroy reclaims only the inode block; the caller must reclaim the data
// blocks first.
func (fi *FileInode) destroy(bfs *BasicFileSys) error {
	return bfs.ReclaimBlock(fi.id)
}
