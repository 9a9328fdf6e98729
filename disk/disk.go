// Package disk provides scoped access to a backing image file, treated as a
// flat array of fixed-size blocks.
package disk

import (
	"io"
	"os"

	"github.com/nullblock/tinyblockfs/errors"
)

// Disk is the lowest layer of tinyblockfs: it knows nothing about bitmaps,
// inodes, or directories, only how to seek to block n and read or write
// exactly blockSize bytes there. It wraps any io.ReadWriteSeeker, so
// production code backs it with an *os.File while tests back it with an
// in-memory buffer (see disktest.NewMemoryDisk).
type Disk struct {
	backing    io.ReadWriteSeeker
	closer     io.Closer
	blockSize  int
	numBlocks  int
}

// Mount opens (creating if necessary) the image file at path and wraps it
// as a Disk with the given geometry. A file shorter than blockSize*numBlocks
// — including a brand new, empty one — is extended (sparsely) to exactly
// that length, so every block is readable even before BasicFileSys.Mount
// has written anything to it. Content already present is left untouched;
// BasicFileSys.Mount is what decides whether an existing image's contents
// should be trusted or reformatted.
func Mount(path string, blockSize, numBlocks int) (*Disk, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, errors.ErrIOError.Wrap(err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.ErrIOError.Wrap(err)
	}

	wantSize := int64(blockSize) * int64(numBlocks)
	if info.Size() < wantSize {
		if err := f.Truncate(wantSize); err != nil {
			f.Close()
			return nil, errors.ErrIOError.Wrap(err)
		}
	}

	return &Disk{backing: f, closer: f, blockSize: blockSize, numBlocks: numBlocks}, nil
}

// NewFromReadWriteSeeker wraps an already-open backing store, e.g. an
// in-memory buffer used by tests. The caller owns closing it, if it needs
// closing at all; Close is a no-op in that case.
func NewFromReadWriteSeeker(backing io.ReadWriteSeeker, blockSize, numBlocks int) *Disk {
	return &Disk{backing: backing, blockSize: blockSize, numBlocks: numBlocks}
}

// Close releases the backing file, if Disk owns one.
func (d *Disk) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// BlockSize returns the fixed size, in bytes, of every block.
func (d *Disk) BlockSize() int {
	return d.blockSize
}

// NumBlocks returns the total number of addressable blocks in the image.
func (d *Disk) NumBlocks() int {
	return d.numBlocks
}

func (d *Disk) offsetOf(blockNum int) (int64, error) {
	if blockNum < 0 || blockNum >= d.numBlocks {
		return 0, errors.ErrFileSysError.WithMessage(
			"invalid block number")
	}
	return int64(blockNum) * int64(d.blockSize), nil
}

// ReadBlock fills out, which must be exactly BlockSize() bytes, with the
// contents of block blockNum.
func (d *Disk) ReadBlock(blockNum int, out []byte) error {
	if len(out) != d.blockSize {
		return errors.ErrFileSysError.WithMessage("read buffer is not one block long")
	}
	offset, err := d.offsetOf(blockNum)
	if err != nil {
		return err
	}

	newOffset, err := d.backing.Seek(offset, io.SeekStart)
	if err != nil {
		return errors.ErrSeekFailure.Wrap(err)
	}
	if newOffset != offset {
		return errors.ErrSeekFailure
	}

	if _, err := io.ReadFull(d.backing, out); err != nil {
		return errors.ErrIOError.Wrap(err)
	}
	return nil
}

// WriteBlock durably writes in, which must be exactly BlockSize() bytes, to
// block blockNum.
func (d *Disk) WriteBlock(blockNum int, in []byte) error {
	if len(in) != d.blockSize {
		return errors.ErrFileSysError.WithMessage("write buffer is not one block long")
	}
	offset, err := d.offsetOf(blockNum)
	if err != nil {
		return err
	}

	newOffset, err := d.backing.Seek(offset, io.SeekStart)
	if err != nil {
		return errors.ErrSeekFailure.Wrap(err)
	}
	if newOffset != offset {
		return errors.ErrSeekFailure
	}

	if _, err := d.backing.Write(in); err != nil {
		return errors.ErrIOError.Wrap(err)
	}
	return nil
}
