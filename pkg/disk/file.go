package disk

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	. "github.com/weberc2/ecsfs/pkg/types"
)

// File implements Device on top of an image file.
type File struct {
	file   *os.File
	blocks int
}

// Open opens an existing image file for reading and writing.
func Open(path string) (*File, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening disk `%s`: %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("opening disk `%s`: %w", path, err)
	}
	if Byte(info.Size())%BlockSize != 0 {
		file.Close()
		return nil, fmt.Errorf(
			"opening disk `%s`: %w",
			path,
			errors.Wrapf(ErrBlockSize, "file size %d", info.Size()),
		)
	}
	return &File{file: file, blocks: int(Byte(info.Size()) / BlockSize)}, nil
}

// Create creates (or truncates) an image file of `blocks` zeroed blocks.
func Create(path string, blocks int) (*File, error) {
	if blocks < 1 || blocks > MaxBlocks {
		return nil, fmt.Errorf(
			"creating disk `%s`: %w",
			path,
			errors.Wrapf(ErrOutOfBounds, "%d blocks", blocks),
		)
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating disk `%s`: %w", path, err)
	}
	if err := file.Truncate(int64(Byte(blocks) * BlockSize)); err != nil {
		file.Close()
		return nil, fmt.Errorf("creating disk `%s`: %w", path, err)
	}
	return &File{file: file, blocks: blocks}, nil
}

func (f *File) Name() string { return f.file.Name() }

func (f *File) BlockCount() int { return f.blocks }

func (f *File) ReadBlock(index Block, p []byte) error {
	if err := check(f.blocks, index, p); err != nil {
		return err
	}
	if _, err := f.file.ReadAt(p, int64(Byte(index)*BlockSize)); err != nil {
		return fmt.Errorf(
			"reading block `%d` of `%s`: %w",
			index,
			f.file.Name(),
			err,
		)
	}
	return nil
}

func (f *File) WriteBlock(index Block, p []byte) error {
	if err := check(f.blocks, index, p); err != nil {
		return err
	}
	if _, err := f.file.WriteAt(p, int64(Byte(index)*BlockSize)); err != nil {
		return fmt.Errorf(
			"writing block `%d` of `%s`: %w",
			index,
			f.file.Name(),
			err,
		)
	}
	return nil
}

// Close syncs the image to stable storage and closes it.
func (f *File) Close() error {
	return multierr.Combine(f.file.Sync(), f.file.Close())
}
