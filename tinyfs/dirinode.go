package tinyfs

import "github.com/nullblock/tinyblockfs/errors"

// DirEntry is one resolved slot of a directory's entry table: a name and
// the block id it points to. Unlike the raw on-disk slot, a DirEntry
// carries the kind it was classified as at load time (derived from the
// target block's magic), so callers never need to re-read the target to
// know whether it's a file or a subdirectory.
type DirEntry struct {
	Name   Name
	Target BlockID
	IsDir  bool
}

// DirInode is a handle over one directory block plus a materialized,
// classified view of its entries. The dir/file split is cached here at
// load time and never recomputed mid-operation.
type DirInode struct {
	id         BlockID
	numEntries int
	slots      [MaxDirEntries]DirEntry // Target == UnusedID marks a free slot
	dirs       []DirEntry
	files      []DirEntry
}

// allocateDirInode allocates a new directory block and writes an empty
// directory image.
func allocateDirInode(bfs *BasicFileSys) (*DirInode, error) {
	id, err := bfs.GetFreeBlock()
	if err != nil {
		return nil, err
	}
	raw, err := encodeDirBlock(rawDirBlock{Magic: DirMagic})
	if err != nil {
		return nil, err
	}
	if err := bfs.WriteBlock(id, raw); err != nil {
		return nil, err
	}
	return &DirInode{id: id}, nil
}

// loadDirInode reads block id, validates the magic, then for every
// occupied slot reads the target block and classifies it by magic. A
// target block whose magic is neither DirMagic nor InodeMagic is a
// consistency violation.
func loadDirInode(bfs *BasicFileSys, id BlockID) (*DirInode, error) {
	raw := make([]byte, BlockSize)
	if err := bfs.ReadBlock(id, raw); err != nil {
		return nil, err
	}

	block, err := decodeDirBlock(raw)
	if err != nil {
		return nil, err
	}
	if block.Magic != DirMagic {
		return nil, errors.ErrFileSysError.WithMessage("block does not hold a directory")
	}

	di := &DirInode{id: id, numEntries: int(block.NumEntries)}
	targetBuf := make([]byte, BlockSize)

	for i, rawEntry := range block.Entries {
		target := BlockID(rawEntry.Target)
		if target == UnusedID {
			continue
		}

		if err := bfs.ReadBlock(target, targetBuf); err != nil {
			return nil, err
		}
		magic := dirOrInodeMagic(targetBuf)

		entry := DirEntry{Name: rawEntry.Name, Target: target}
		switch magic {
		case DirMagic:
			entry.IsDir = true
			di.dirs = append(di.dirs, entry)
		case InodeMagic:
			entry.IsDir = false
			di.files = append(di.files, entry)
		default:
			return nil, errors.ErrFileSysError.WithMessage("directory entry targets an untagged block")
		}
		di.slots[i] = entry
	}
	return di, nil
}

// dirOrInodeMagic reads the first four little-endian bytes of buf, the
// position every block's magic tag occupies.
func dirOrInodeMagic(buf []byte) uint32 {
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}

// ID returns the directory's own block id.
func (di *DirInode) ID() BlockID {
	return di.id
}

// NumEntries returns the directory's occupied slot count.
func (di *DirInode) NumEntries() int {
	return di.numEntries
}

// HasFreeEntry reports whether another entry can be added.
func (di *DirInode) HasFreeEntry() bool {
	return di.numEntries < MaxDirEntries
}

// HasName reports whether any slot already holds name.
func (di *DirInode) HasName(name Name) bool {
	for _, e := range di.slots {
		if e.Target != UnusedID && e.Name == name {
			return true
		}
	}
	return false
}

// DirEntries returns the directory's subdirectory entries, in table order.
func (di *DirInode) DirEntries() []DirEntry {
	return di.dirs
}

// FileEntries returns the directory's file entries, in table order.
func (di *DirInode) FileEntries() []DirEntry {
	return di.files
}

// AllEntries returns every entry in the order they appear in the on-disk
// entry table, used by ls to render a single listing.
func (di *DirInode) AllEntries() []DirEntry {
	entries := make([]DirEntry, 0, di.numEntries)
	for _, e := range di.slots {
		if e.Target != UnusedID {
			entries = append(entries, e)
		}
	}
	return entries
}

// FindEntry looks up name across both subdirectory and file entries, in
// on-disk table order, and reports whether it was found.
func (di *DirInode) FindEntry(name Name) (DirEntry, bool) {
	for _, e := range di.slots {
		if e.Target != UnusedID && e.Name == name {
			return e, true
		}
	}
	return DirEntry{}, false
}

func (di *DirInode) firstFreeSlot() int {
	for i, e := range di.slots {
		if e.Target == UnusedID {
			return i
		}
	}
	return -1
}

func (di *DirInode) writeThrough(bfs *BasicFileSys) error {
	var block rawDirBlock
	block.Magic = DirMagic
	block.NumEntries = uint32(di.numEntries)
	for i, e := range di.slots {
		if e.Target == UnusedID {
			continue
		}
		block.Entries[i] = rawDirEntry{Name: e.Name, Target: uint32(e.Target)}
	}
	raw, err := encodeDirBlock(block)
	if err != nil {
		return err
	}
	return bfs.WriteBlock(di.id, raw)
}

// addEntry places entry into the first free slot, increments the entry
// count, and persists the block. The caller is responsible for having
// already written the target block with the correct magic, and for
// having checked the name isn't already taken.
func (di *DirInode) addEntry(bfs *BasicFileSys, entry DirEntry) error {
	idx := di.firstFreeSlot()
	if idx == -1 {
		return errors.ErrDirFull
	}

	di.slots[idx] = entry
	di.numEntries++
	if err := di.writeThrough(bfs); err != nil {
		di.slots[idx] = DirEntry{}
		di.numEntries--
		return err
	}

	if entry.IsDir {
		di.dirs = append(di.dirs, entry)
	} else {
		di.files = append(di.files, entry)
	}
	return nil
}

// AddDirEntry adds a subdirectory entry. See addEntry.
func (di *DirInode) AddDirEntry(bfs *BasicFileSys, name Name, target BlockID) error {
	return di.addEntry(bfs, DirEntry{Name: name, Target: target, IsDir: true})
}

// AddFileEntry adds a file entry. See addEntry.
func (di *DirInode) AddFileEntry(bfs *BasicFileSys, name Name, target BlockID) error {
	return di.addEntry(bfs, DirEntry{Name: name, Target: target, IsDir: false})
}

// removeEntry locates the slot pointing at target, zeros it, and persists
// the block. Removing a not-found id is silent.
func (di *DirInode) removeEntry(bfs *BasicFileSys, target BlockID, wantDir bool) error {
	for i, e := range di.slots {
		if e.Target != target {
			continue
		}
		di.slots[i] = DirEntry{}
		di.numEntries--
		if err := di.writeThrough(bfs); err != nil {
			di.slots[i] = e
			di.numEntries++
			return err
		}
		if wantDir {
			di.dirs = removeByTarget(di.dirs, target)
		} else {
			di.files = removeByTarget(di.files, target)
		}
		return nil
	}
	return nil
}

// RemoveDirEntry removes the subdirectory entry targeting target.
func (di *DirInode) RemoveDirEntry(bfs *BasicFileSys, target BlockID) error {
	return di.removeEntry(bfs, target, true)
}

// RemoveFileEntry removes the file entry targeting target.
func (di *DirInode) RemoveFileEntry(bfs *BasicFileSys, target BlockID) error {
	return di.removeEntry(bfs, target, false)
}

func removeByTarget(entries []DirEntry, target BlockID) []DirEntry {
	for i, e := range entries {
		if e.Target == target {
			return append(entries[:i], entries[i+1:]...)
		}
	}
	return entries
}

// destroy reclaims the directory's own block. The caller must ensure it's
// empty first.
func (di *DirInode) destroy(bfs *BasicFileSys) error {
	return bfs.ReclaimBlock(di.id)
}
