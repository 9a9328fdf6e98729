// Package report renders a snapshot of a directory's entries and a
// filesystem's block usage as CSV, using csv-tagged structs and gocsv the
// way a static reference table would, but built live from whatever
// directory a tinyfs.FileSys currently has open.
package report

import (
	"io"

	"github.com/gocarina/gocsv"

	"github.com/nullblock/tinyblockfs/tinyfs"
)

// EntryRow describes one directory entry for CSV export. Size is the
// file's logical byte size for file rows, and 0 for directory rows.
type EntryRow struct {
	Name   string `csv:"name"`
	Kind   string `csv:"kind"`
	Target uint32 `csv:"target_block"`
	Size   uint32 `csv:"size"`
}

// Snapshot walks the current directory's entry table and returns one
// EntryRow per entry, alongside the image's block-usage stat.
func Snapshot(fs *tinyfs.FileSys) (tinyfs.Stat, []EntryRow, error) {
	entries, err := fs.CurrentEntries()
	if err != nil {
		return tinyfs.Stat{}, nil, err
	}

	rows := make([]EntryRow, 0, len(entries))
	for _, e := range entries {
		kind := "file"
		var size uint32
		if e.IsDir {
			kind = "dir"
		} else {
			size, err = fs.FileSize(e.Target)
			if err != nil {
				return tinyfs.Stat{}, nil, err
			}
		}
		rows = append(rows, EntryRow{
			Name:   e.Name.String(),
			Kind:   kind,
			Target: uint32(e.Target),
			Size:   size,
		})
	}

	stat, err := fs.Stat()
	if err != nil {
		return tinyfs.Stat{}, nil, err
	}
	return stat, rows, nil
}

// WriteCSV marshals rows to w.
func WriteCSV(w io.Writer, rows []EntryRow) error {
	return gocsv.Marshal(rows, w)
}
