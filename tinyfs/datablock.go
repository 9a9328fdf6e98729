package tinyfs

import "github.com/nullblock/tinyblockfs/errors"

// DataBlock is a short-lived handle over one raw data block: an id and its
// cached bytes. It's discarded at the end of the operation that created
// it — it must not outlive the operation because a later operation may
// reuse its block id.
type DataBlock struct {
	id  BlockID
	raw []byte
}

// allocateDataBlock asks bfs for a free block and caches a zero-filled
// buffer. It doesn't write. Reclaim never scrubs data, so a reused block
// may still hold its previous occupant's bytes on disk until Write
// replaces the whole block.
func allocateDataBlock(bfs *BasicFileSys) (*DataBlock, error) {
	id, err := bfs.GetFreeBlock()
	if err != nil {
		return nil, err
	}
	return &DataBlock{id: id, raw: make([]byte, BlockSize)}, nil
}

// loadDataBlock reads block id into a new handle's cache.
func loadDataBlock(bfs *BasicFileSys, id BlockID) (*DataBlock, error) {
	raw := make([]byte, BlockSize)
	if err := bfs.ReadBlock(id, raw); err != nil {
		return nil, err
	}
	return &DataBlock{id: id, raw: raw}, nil
}

// ID returns the block this handle refers to.
func (db *DataBlock) ID() BlockID {
	return db.id
}

// Bytes returns the cached contents of the block.
func (db *DataBlock) Bytes() []byte {
	return db.raw
}

// Write validates that data is no longer than one block, right-pads it
// with zeros if shorter, persists it, and updates the cache.
func (db *DataBlock) Write(bfs *BasicFileSys, data []byte) error {
	if len(data) > BlockSize {
		return errors.ErrFileSysError.WithMessage("data block payload exceeds block size")
	}
	buf := make([]byte, BlockSize)
	copy(buf, data)

	if err := bfs.WriteBlock(db.id, buf); err != nil {
		return err
	}
	db.raw = buf
	return nil
}

// destroy reclaims the block. The handle must not be used afterward.
func (db *DataBlock) destroy(bfs *BasicFileSys) error {
	return bfs.ReclaimBlock(db.id)
}
