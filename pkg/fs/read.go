package fs

import (
	"fmt"

	"github.com/weberc2/ecsfs/pkg/descriptor"
	"github.com/weberc2/ecsfs/pkg/fat"
	"github.com/weberc2/ecsfs/pkg/math"
	. "github.com/weberc2/ecsfs/pkg/types"
)

// Read copies up to len(p) bytes from the cursor of `fd` into `p` and
// advances the cursor. Reading at or past the end of the file returns 0 and
// no error.
func (fs *FileSystem) Read(fd descriptor.FD, p []byte) (int, error) {
	m, err := fs.mounted()
	if err != nil {
		return 0, fmt.Errorf("reading `%d`: %w", fd, err)
	}
	d, err := m.descriptors.Get(fd)
	if err != nil {
		return 0, fmt.Errorf("reading: %w", err)
	}
	entry := m.directory.Entry(d.Slot)

	size := Byte(entry.Size)
	if d.Offset >= size || len(p) < 1 {
		return 0, nil
	}
	want := math.Min(Byte(len(p)), size-d.Offset)

	hops, within := math.Split(d.Offset, BlockSize)
	index, err := m.table.Walk(entry.FirstIndex, int(hops))
	if err == fat.ChainExhaustedErr {
		m.logger.WithField("name", entry.Name).
			Warn("chain shorter than file size")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading `%s`: %w", entry.Name, err)
	}

	var n Byte
	for {
		if err := m.device.ReadBlock(
			m.superblock.DataBlock(index),
			m.scratch[:],
		); err != nil {
			return int(n), fmt.Errorf("reading `%s`: %w", entry.Name, err)
		}
		chunk := math.Min(BlockSize-within, want-n)
		copy(p[n:n+chunk], m.scratch[within:within+chunk])
		n += chunk
		d.Offset += chunk
		if n >= want {
			break
		}

		within = 0
		index, err = m.table.Walk(index, 1)
		if err == fat.ChainExhaustedErr {
			m.logger.WithField("name", entry.Name).
				Warn("chain shorter than file size")
			break
		}
		if err != nil {
			return int(n), fmt.Errorf("reading `%s`: %w", entry.Name, err)
		}
	}
	return int(n), nil
}
