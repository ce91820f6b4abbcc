package directory

import (
	"io"
)

// Handle is a cursor over the occupied slots of a directory. The zero value
// starts at the first slot, so listing can be restarted by resetting it.
type Handle struct {
	slot int
}

func (h *Handle) Reset() { h.slot = 0 }

// ReadNext populates `info` with the next occupied slot after `h`, or returns
// io.EOF once every slot has been visited.
func (d *Directory) ReadNext(h *Handle, info *FileInfo) error {
	for h.slot < len(d.entries) {
		entry := &d.entries[h.slot]
		h.slot++

		// free slots may hold stale size and chain fields
		if entry.Free() {
			continue
		}

		*info = FileInfo{
			Slot:       h.slot - 1,
			Name:       entry.Name,
			Size:       entry.Size,
			FirstIndex: entry.FirstIndex,
		}
		return nil
	}
	return io.EOF
}

// List collects every occupied slot in slot order.
func (d *Directory) List() []FileInfo {
	var (
		h     Handle
		info  FileInfo
		infos []FileInfo
	)
	for d.ReadNext(&h, &info) == nil {
		infos = append(infos, info)
	}
	return infos
}
