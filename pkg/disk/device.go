// Package disk provides the fixed-size block devices that an ecsfs image lives
// on.
package disk

import (
	"github.com/pkg/errors"

	. "github.com/weberc2/ecsfs/pkg/types"
)

var (
	// ErrBlockSize indicates that a buffer passed to ReadBlock or WriteBlock
	// is not exactly one block long, or that a backing file's size is not a
	// multiple of the block size.
	ErrBlockSize = errors.New("argument is not exactly one block")

	// ErrOutOfBounds indicates that the requested block does not exist.
	ErrOutOfBounds = errors.New("block is out of bounds")
)

// Device is a fixed number of `BlockSize` blocks addressed from zero.
type Device interface {
	// BlockCount returns the fixed number of blocks on the device.
	BlockCount() int

	// ReadBlock fills `p`, which must be exactly `BlockSize` bytes, with the
	// contents of block `index`.
	ReadBlock(index Block, p []byte) error

	// WriteBlock replaces the contents of block `index` with `p`, which must
	// be exactly `BlockSize` bytes.
	WriteBlock(index Block, p []byte) error

	// Close releases the device. The device is unusable afterwards.
	Close() error
}

func check(blocks int, index Block, p []byte) error {
	if Byte(len(p)) != BlockSize {
		return errors.Wrapf(ErrBlockSize, "len(p) = %d", len(p))
	}
	if int(index) >= blocks {
		return errors.Wrapf(
			ErrOutOfBounds,
			"block %d of %d",
			index,
			blocks,
		)
	}
	return nil
}
