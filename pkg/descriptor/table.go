// Package descriptor tracks open files: each descriptor binds a directory
// slot to its own cursor.
package descriptor

import (
	"fmt"

	. "github.com/weberc2/ecsfs/pkg/types"
)

const (
	InvalidHandleErr ConstError = "invalid file descriptor"
	InvalidOffsetErr ConstError = "invalid offset"
	TooManyOpenErr   ConstError = "too many open files"
)

type FD int

type Descriptor struct {
	Slot   int
	Offset Byte
}

type Table struct {
	descriptors [MaxOpen]*Descriptor
	count       int
}

// Open claims the lowest free descriptor for directory slot `slot` with its
// cursor at the start of the file.
func (t *Table) Open(slot int) (FD, error) {
	for fd := range t.descriptors {
		if t.descriptors[fd] == nil {
			t.descriptors[fd] = &Descriptor{Slot: slot}
			t.count++
			return FD(fd), nil
		}
	}
	return -1, fmt.Errorf(
		"opening slot `%d`: `%d` descriptors open: %w",
		slot,
		MaxOpen,
		TooManyOpenErr,
	)
}

func (t *Table) Close(fd FD) error {
	if _, err := t.Get(fd); err != nil {
		return fmt.Errorf("closing: %w", err)
	}
	t.descriptors[fd] = nil
	t.count--
	return nil
}

func (t *Table) Get(fd FD) (*Descriptor, error) {
	if fd < 0 || int(fd) >= len(t.descriptors) || t.descriptors[fd] == nil {
		return nil, fmt.Errorf("descriptor `%d`: %w", fd, InvalidHandleErr)
	}
	return t.descriptors[fd], nil
}

// Seek moves the cursor of `fd` to `offset`. Offsets past the end of the file
// are allowed.
func (t *Table) Seek(fd FD, offset Byte) error {
	d, err := t.Get(fd)
	if err != nil {
		return fmt.Errorf("seeking: %w", err)
	}
	if offset < 0 {
		return fmt.Errorf("seeking `%d` to `%d`: %w", fd, offset, InvalidOffsetErr)
	}
	d.Offset = offset
	return nil
}

func (t *Table) Count() int { return t.count }

// Purge closes every descriptor open on directory slot `slot` and returns how
// many were closed.
func (t *Table) Purge(slot int) int {
	var purged int
	for fd, d := range t.descriptors {
		if d != nil && d.Slot == slot {
			t.descriptors[fd] = nil
			t.count--
			purged++
		}
	}
	return purged
}

// Reset closes every descriptor.
func (t *Table) Reset() { *t = Table{} }
