package tinyfs

import (
	"bytes"
	"encoding/binary"

	"github.com/noxer/bytewriter"

	"github.com/nullblock/tinyblockfs/errors"
)

// Every on-disk record in tinyfs is fixed-width and little-endian: build a
// plain Go struct whose fields are all fixed-size, binary.Write it into a
// block-sized buffer via bytewriter, and binary.Read it back the same way
// on load.

// rawDirEntry is the on-disk layout of one DirInode slot: a name, the
// target block id, and reserved padding out to dirEntrySize bytes.
type rawDirEntry struct {
	Name   Name
	Target uint32
	_      [dirEntrySize - MaxFNameSize - 4]byte
}

// rawDirBlock is the complete on-disk layout of a directory block.
type rawDirBlock struct {
	Magic      uint32
	NumEntries uint32
	Entries    [MaxDirEntries]rawDirEntry
}

// rawFileBlock is the complete on-disk layout of a file inode block.
type rawFileBlock struct {
	Magic  uint32
	Size   uint32
	Blocks [MaxDataBlocks]uint32
}

// encodeDirBlock serializes block into a fresh BlockSize-byte buffer.
func encodeDirBlock(block rawDirBlock) ([]byte, error) {
	buf := make([]byte, BlockSize)
	w := bytewriter.New(buf)
	if err := binary.Write(w, binary.LittleEndian, &block); err != nil {
		return nil, errors.ErrSerializeError.Wrap(err)
	}
	return buf, nil
}

// decodeDirBlock parses a BlockSize-byte buffer as a directory block.
func decodeDirBlock(buf []byte) (rawDirBlock, error) {
	var block rawDirBlock
	r := bytes.NewReader(buf)
	if err := binary.Read(r, binary.LittleEndian, &block); err != nil {
		return block, errors.ErrSerializeError.Wrap(err)
	}
	return block, nil
}

// encodeFileBlock serializes block into a fresh BlockSize-byte buffer.
func encodeFileBlock(block rawFileBlock) ([]byte, error) {
	buf := make([]byte, BlockSize)
	w := bytewriter.New(buf)
	if err := binary.Write(w, binary.LittleEndian, &block); err != nil {
		return nil, errors.ErrSerializeError.Wrap(err)
	}
	return buf, nil
}

// decodeFileBlock parses a BlockSize-byte buffer as a file inode block.
func decodeFileBlock(buf []byte) (rawFileBlock, error) {
	var block rawFileBlock
	r := bytes.NewReader(buf)
	if err := binary.Read(r, binary.LittleEndian, &block); err != nil {
		return block, errors.ErrSerializeError.Wrap(err)
	}
	return block, nil
}
