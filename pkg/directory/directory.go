// Package directory manages the root directory: a fixed array of entries in
// which an empty name marks a free slot.
package directory

import (
	"fmt"
	"strings"

	"github.com/weberc2/ecsfs/pkg/encode"
	"github.com/weberc2/ecsfs/pkg/fat"
	. "github.com/weberc2/ecsfs/pkg/types"
)

type Directory struct {
	entries [MaxFiles]DirEntry
	records encode.DirRecords
}

// New returns a directory with every slot free.
func New() Directory {
	var d Directory
	for i := range d.entries {
		d.entries[i].Clear()
	}
	return d
}

func (d *Directory) Decode(b *[BlockSize]byte) {
	encode.DecodeDirectory(&d.entries, &d.records, b)
}

func (d *Directory) Encode(b *[BlockSize]byte) {
	encode.EncodeDirectory(&d.entries, &d.records, b)
}

// ValidateName checks that `name` fits the on-disk name field with its NUL
// terminator.
func ValidateName(name string) error {
	if name == "" || strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("validating name `%q`: %w", name, InvalidNameErr)
	}
	if Byte(len(name)) >= NameSize {
		return fmt.Errorf(
			"validating name `%s`: `%d` bytes exceeds `%d`: %w",
			name,
			len(name),
			NameSize-1,
			NameTooLongErr,
		)
	}
	return nil
}

// Create claims the lowest free slot for an empty file called `name`.
func (d *Directory) Create(name string) (int, error) {
	if err := ValidateName(name); err != nil {
		return -1, fmt.Errorf("creating file: %w", err)
	}

	free := -1
	for i := range d.entries {
		entry := &d.entries[i]
		if entry.Free() {
			if free < 0 {
				free = i
			}
			continue
		}
		if entry.Name == name {
			return -1, fmt.Errorf(
				"creating file `%s`: %w",
				name,
				AlreadyExistsErr,
			)
		}
	}
	if free < 0 {
		return -1, fmt.Errorf("creating file `%s`: %w", name, NoFreeSlotErr)
	}

	d.entries[free] = DirEntry{Name: name, FirstIndex: IndexNone}
	return free, nil
}

// Delete releases the chain of the file called `name` back to `table` and
// frees its slot. It returns the slot that was freed.
func (d *Directory) Delete(name string, table *fat.Table) (int, error) {
	slot, err := d.Lookup(name)
	if err != nil {
		return -1, fmt.Errorf("deleting file: %w", err)
	}
	if _, err := table.Release(d.entries[slot].FirstIndex); err != nil {
		return -1, fmt.Errorf("deleting file `%s`: %w", name, err)
	}
	d.entries[slot].Clear()
	return slot, nil
}

// Lookup returns the slot of the file called `name`.
func (d *Directory) Lookup(name string) (int, error) {
	if name != "" {
		for i := range d.entries {
			if !d.entries[i].Free() && d.entries[i].Name == name {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("looking up `%s`: %w", name, NotFoundErr)
}

// Entry returns the live entry at `slot`. The write path updates size and
// chain head through it.
func (d *Directory) Entry(slot int) *DirEntry {
	return &d.entries[slot]
}

func (d *Directory) FreeCount() int {
	var count int
	for i := range d.entries {
		if d.entries[i].Free() {
			count++
		}
	}
	return count
}
