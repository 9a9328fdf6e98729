package tinyfs

import (
	"strings"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/nullblock/tinyblockfs/errors"
)

// FileSys is the top-level API: mkdir/cd/home/rmdir/ls/create/append/cat/rm,
// enforcing the cross-component namespace invariants and holding the
// current working directory's block id.
type FileSys struct {
	bfs *BasicFileSys
	cwd BlockID
}

// NewFileSys mounts bfs as a namespace rooted at the home directory.
func NewFileSys(bfs *BasicFileSys) *FileSys {
	return &FileSys{bfs: bfs, cwd: HomeDirID}
}

// Close releases the underlying image.
func (fs *FileSys) Close() error {
	return fs.bfs.Close()
}

func (fs *FileSys) loadCwd() (*DirInode, error) {
	return loadDirInode(fs.bfs, fs.cwd)
}

// validateNewEntry runs the shared mkdir/create preflight: the directory
// must have a free slot and must not already contain name.
func (fs *FileSys) validateNewEntry(dir *DirInode, name Name) error {
	if !dir.HasFreeEntry() {
		return errors.ErrDirFull
	}
	if dir.HasName(name) {
		return errors.ErrFileExists
	}
	return nil
}

// Mkdir creates a new, empty subdirectory of the current directory.
//
// Known gap: if the parent-entry insert fails after the child directory
// block has already been allocated, that block is leaked rather than
// reclaimed.
func (fs *FileSys) Mkdir(name Name) error {
	dir, err := fs.loadCwd()
	if err != nil {
		return err
	}
	if err := fs.validateNewEntry(dir, name); err != nil {
		return err
	}

	child, err := allocateDirInode(fs.bfs)
	if err != nil {
		return err
	}
	return dir.AddDirEntry(fs.bfs, name, child.ID())
}

// Cd changes the current directory to the named subdirectory of the
// current directory.
func (fs *FileSys) Cd(name Name) error {
	dir, err := fs.loadCwd()
	if err != nil {
		return err
	}
	entry, ok := dir.FindEntry(name)
	if !ok || !entry.IsDir {
		return errors.ErrFileNotFound
	}
	fs.cwd = entry.Target
	return nil
}

// Home resets the current directory to the home directory.
func (fs *FileSys) Home() {
	fs.cwd = HomeDirID
}

// Rmdir removes the named, empty subdirectory of the current directory.
func (fs *FileSys) Rmdir(name Name) error {
	dir, err := fs.loadCwd()
	if err != nil {
		return err
	}

	entry, ok := find(dir.DirEntries(), name)
	if !ok {
		return errors.ErrFileNotFound
	}

	target, err := loadDirInode(fs.bfs, entry.Target)
	if err != nil {
		return err
	}
	if target.NumEntries() > 0 {
		return errors.ErrDirNotEmpty
	}

	if err := dir.RemoveDirEntry(fs.bfs, entry.Target); err != nil {
		return err
	}
	return target.destroy(fs.bfs)
}

// Ls renders a space-separated listing of the current directory: every
// subdirectory name followed by "/", then every file name, in the order
// entries appear in the directory's on-disk entry table.
func (fs *FileSys) Ls() (string, error) {
	dir, err := fs.loadCwd()
	if err != nil {
		return "", err
	}

	var names []string
	for _, e := range dir.DirEntries() {
		names = append(names, e.Name.String()+"/")
	}
	for _, e := range dir.FileEntries() {
		names = append(names, e.Name.String())
	}
	return strings.Join(names, " "), nil
}

// Create creates a new, empty file in the current directory.
//
// Like Mkdir, a failed parent-entry insert after the inode block has been
// allocated leaks that block.
func (fs *FileSys) Create(name Name) error {
	dir, err := fs.loadCwd()
	if err != nil {
		return err
	}
	if err := fs.validateNewEntry(dir, name); err != nil {
		return err
	}

	inode, err := allocateFileInode(fs.bfs)
	if err != nil {
		return err
	}
	return dir.AddFileEntry(fs.bfs, name, inode.ID())
}

// Append appends data to the named file, allocating new data blocks as
// needed and filling the previous last block's trailing fragment first.
func (fs *FileSys) Append(name Name, data []byte) error {
	dir, err := fs.loadCwd()
	if err != nil {
		return err
	}

	entry, ok := dir.FindEntry(name)
	if !ok {
		return errors.ErrFileNotFound
	}
	if entry.IsDir {
		return errors.ErrNotAFile
	}

	file, err := loadFileInode(fs.bfs, entry.Target)
	if err != nil {
		return err
	}

	newSize := uint64(file.Size()) + uint64(len(data))
	blocksNeeded := (newSize + BlockSize - 1) / BlockSize
	if blocksNeeded > MaxDataBlocks {
		return errors.ErrFileFull
	}

	pos := 0
	var lastBlock *DataBlock
	var lastBlockBackup []byte

	if frag := file.TrailingFragment(); frag > 0 && len(file.Blocks()) > 0 {
		lastBlock = file.Blocks()[len(file.Blocks())-1]
		lastBlockBackup = append([]byte(nil), lastBlock.Bytes()...)

		room := BlockSize - int(frag)
		n := len(data)
		if n > room {
			n = room
		}

		fragged := make([]byte, int(frag)+n)
		copy(fragged, lastBlockBackup[:frag])
		copy(fragged[frag:], data[:n])
		if err := lastBlock.Write(fs.bfs, fragged); err != nil {
			return err
		}
		pos = n
	}

	var newBlocks []*DataBlock
	rollback := func(cause error) error {
		if lastBlock != nil {
			if werr := lastBlock.Write(fs.bfs, lastBlockBackup[:file.TrailingFragment()]); werr != nil {
				cause = multierror.Append(cause, werr)
			}
		}
		var reclaimErrs *multierror.Error
		for _, nb := range newBlocks {
			if rerr := nb.destroy(fs.bfs); rerr != nil {
				reclaimErrs = multierror.Append(reclaimErrs, rerr)
			}
		}
		if reclaimErrs != nil {
			return multierror.Append(cause, reclaimErrs).ErrorOrNil()
		}
		return cause
	}

	for pos < len(data) {
		end := pos + BlockSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[pos:end]

		db, err := allocateDataBlock(fs.bfs)
		if err != nil {
			return rollback(err)
		}
		if err := db.Write(fs.bfs, chunk); err != nil {
			return rollback(err)
		}
		newBlocks = append(newBlocks, db)
		pos = end
	}

	for _, db := range newBlocks {
		if err := file.AddBlock(fs.bfs, db); err != nil {
			return rollback(err)
		}
	}

	return file.SetSize(fs.bfs, uint32(newSize))
}

// Cat returns the named file's full contents, concatenating its data
// blocks in slot order and truncating to its logical size.
func (fs *FileSys) Cat(name Name) ([]byte, error) {
	dir, err := fs.loadCwd()
	if err != nil {
		return nil, err
	}

	entry, ok := dir.FindEntry(name)
	if !ok {
		return nil, errors.ErrFileNotFound
	}
	if entry.IsDir {
		return nil, errors.ErrNotAFile
	}

	file, err := loadFileInode(fs.bfs, entry.Target)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, file.Size())
	remaining := int(file.Size())
	for _, db := range file.Blocks() {
		n := remaining
		if n > BlockSize {
			n = BlockSize
		}
		out = append(out, db.Bytes()[:n]...)
		remaining -= n
	}
	return out, nil
}

// Rm removes the named file, reclaiming its data blocks and then its
// inode block, aggregating any reclaim failures via multierror rather
// than stopping at the first one.
func (fs *FileSys) Rm(name Name) error {
	dir, err := fs.loadCwd()
	if err != nil {
		return err
	}

	entry, ok := dir.FindEntry(name)
	if !ok {
		return errors.ErrFileNotFound
	}
	if entry.IsDir {
		return errors.ErrNotAFile
	}

	file, err := loadFileInode(fs.bfs, entry.Target)
	if err != nil {
		return err
	}

	if err := dir.RemoveFileEntry(fs.bfs, entry.Target); err != nil {
		return err
	}

	var reclaimErrs *multierror.Error
	for _, db := range file.Blocks() {
		if err := db.destroy(fs.bfs); err != nil {
			reclaimErrs = multierror.Append(reclaimErrs, err)
		}
	}
	if err := file.destroy(fs.bfs); err != nil {
		reclaimErrs = multierror.Append(reclaimErrs, err)
	}
	if reclaimErrs != nil {
		return reclaimErrs.ErrorOrNil()
	}
	return nil
}

func find(entries []DirEntry, name Name) (DirEntry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return DirEntry{}, false
}

// CurrentDirID exposes the cwd's block id, for diagnostics (report).
func (fs *FileSys) CurrentDirID() BlockID {
	return fs.cwd
}

// CurrentEntries exposes the cwd's entry table, for diagnostics (report).
// It never mutates state and must not be used to bypass FileSys's own
// namespace operations.
func (fs *FileSys) CurrentEntries() ([]DirEntry, error) {
	dir, err := fs.loadCwd()
	if err != nil {
		return nil, err
	}
	return dir.AllEntries(), nil
}

// FileSize reads the logical size, in bytes, of the file inode at target,
// for diagnostics (report). It never mutates state.
func (fs *FileSys) FileSize(target BlockID) (uint32, error) {
	file, err := loadFileInode(fs.bfs, target)
	if err != nil {
		return 0, err
	}
	return file.Size(), nil
}

// Stat reports a read-only snapshot of the mounted image's block usage
// together with the current directory's namespace counts.
func (fs *FileSys) Stat() (Stat, error) {
	dir, err := fs.loadCwd()
	if err != nil {
		return Stat{}, err
	}

	blocksFree := fs.bfs.BlocksFree()
	return Stat{
		TotalBlocks: NumBlocks,
		BlocksFree:  blocksFree,
		DirCount:    len(dir.DirEntries()),
		FileCount:   len(dir.FileEntries()),
		BytesUsed:   uint64(NumBlocks-blocksFree) * BlockSize,
	}, nil
}
