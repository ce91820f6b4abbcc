package fs

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/weberc2/ecsfs/pkg/descriptor"
	"github.com/weberc2/ecsfs/pkg/directory"
	. "github.com/weberc2/ecsfs/pkg/types"
)

func (fs *FileSystem) Create(name string) error {
	m, err := fs.mounted()
	if err != nil {
		return fmt.Errorf("creating `%s`: %w", name, err)
	}
	slot, err := m.directory.Create(name)
	if err != nil {
		return err
	}
	m.logger.WithFields(logrus.Fields{
		"name": name,
		"slot": slot,
	}).Debug("created file")
	return nil
}

// Delete removes `name` and returns its blocks to the free pool. Descriptors
// open on the file are closed.
func (fs *FileSystem) Delete(name string) error {
	m, err := fs.mounted()
	if err != nil {
		return fmt.Errorf("deleting `%s`: %w", name, err)
	}
	freeBefore := m.table.FreeCount()
	slot, err := m.directory.Delete(name, &m.table)
	if err != nil {
		return err
	}
	purged := m.descriptors.Purge(slot)
	m.logger.WithFields(logrus.Fields{
		"name":        name,
		"slot":        slot,
		"freed":       m.table.FreeCount() - freeBefore,
		"descriptors": purged,
	}).Debug("deleted file")
	return nil
}

// ReadDir populates `info` with the next file after `h`. It returns io.EOF
// once every file has been listed.
func (fs *FileSystem) ReadDir(h *directory.Handle, info *directory.FileInfo) error {
	m, err := fs.mounted()
	if err != nil {
		return fmt.Errorf("listing: %w", err)
	}
	return m.directory.ReadNext(h, info)
}

// Ls lists every file in slot order.
func (fs *FileSystem) Ls() ([]directory.FileInfo, error) {
	m, err := fs.mounted()
	if err != nil {
		return nil, fmt.Errorf("listing: %w", err)
	}
	return m.directory.List(), nil
}

func (fs *FileSystem) Open(name string) (descriptor.FD, error) {
	m, err := fs.mounted()
	if err != nil {
		return -1, fmt.Errorf("opening `%s`: %w", name, err)
	}
	slot, err := m.directory.Lookup(name)
	if err != nil {
		return -1, fmt.Errorf("opening: %w", err)
	}
	fd, err := m.descriptors.Open(slot)
	if err != nil {
		return -1, fmt.Errorf("opening `%s`: %w", name, err)
	}
	return fd, nil
}

func (fs *FileSystem) Close(fd descriptor.FD) error {
	m, err := fs.mounted()
	if err != nil {
		return fmt.Errorf("closing `%d`: %w", fd, err)
	}
	return m.descriptors.Close(fd)
}

// Stat returns the current size of the file open on `fd`.
func (fs *FileSystem) Stat(fd descriptor.FD) (Byte, error) {
	m, err := fs.mounted()
	if err != nil {
		return 0, fmt.Errorf("stat `%d`: %w", fd, err)
	}
	d, err := m.descriptors.Get(fd)
	if err != nil {
		return 0, fmt.Errorf("stat: %w", err)
	}
	return Byte(m.directory.Entry(d.Slot).Size), nil
}

// Seek moves the cursor of `fd`. Seeking past the end of the file is allowed.
func (fs *FileSystem) Seek(fd descriptor.FD, offset Byte) error {
	m, err := fs.mounted()
	if err != nil {
		return fmt.Errorf("seeking `%d`: %w", fd, err)
	}
	return m.descriptors.Seek(fd, offset)
}
