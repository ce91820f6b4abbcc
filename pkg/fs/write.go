package fs

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/weberc2/ecsfs/pkg/descriptor"
	"github.com/weberc2/ecsfs/pkg/fat"
	"github.com/weberc2/ecsfs/pkg/math"
	. "github.com/weberc2/ecsfs/pkg/types"
)

// Write copies `p` to the cursor of `fd`, growing the file and its chain as
// needed, and advances the cursor. If the cursor is past the end of the file,
// the gap is filled with zeros first. When the disk fills up part way, Write
// returns the bytes written so far; it only returns DiskFullErr when nothing
// could be written.
func (fs *FileSystem) Write(fd descriptor.FD, p []byte) (int, error) {
	m, err := fs.mounted()
	if err != nil {
		return 0, fmt.Errorf("writing `%d`: %w", fd, err)
	}
	d, err := m.descriptors.Get(fd)
	if err != nil {
		return 0, fmt.Errorf("writing: %w", err)
	}
	if len(p) < 1 {
		return 0, nil
	}
	entry := m.directory.Entry(d.Slot)

	var zeros [BlockSize]byte
	for size := Byte(entry.Size); size < d.Offset; size = Byte(entry.Size) {
		chunk := math.Min(BlockSize, d.Offset-size)
		if _, err := m.writeAt(entry, size, zeros[:chunk]); err != nil {
			return 0, m.writeErr(entry, err)
		}
	}

	n, err := m.writeAt(entry, d.Offset, p)
	d.Offset += n
	if err != nil {
		if n > 0 && errors.Is(err, fat.OutOfBlocksErr) {
			m.logger.WithFields(logrus.Fields{
				"name":    entry.Name,
				"wanted":  len(p),
				"written": n,
			}).Warn("short write: disk full")
			return int(n), nil
		}
		return int(n), m.writeErr(entry, err)
	}
	return int(n), nil
}

func (m *mountState) writeErr(entry *DirEntry, err error) error {
	if errors.Is(err, fat.OutOfBlocksErr) {
		m.logger.WithField("name", entry.Name).Warn("disk full")
		return fmt.Errorf("writing `%s`: %w", entry.Name, DiskFullErr)
	}
	return fmt.Errorf("writing `%s`: %w", entry.Name, err)
}

// writeAt writes `p` at `offset`, which must not be past the end of the file,
// and returns the number of bytes that landed. The file size is updated after
// every block so it stays accurate when allocation fails part way.
func (m *mountState) writeAt(
	entry *DirEntry,
	offset Byte,
	p []byte,
) (Byte, error) {
	if entry.FirstIndex == IndexNone {
		head, err := m.table.AllocateHead()
		if err != nil {
			return 0, err
		}
		entry.FirstIndex = head
		m.logger.WithFields(logrus.Fields{
			"name":  entry.Name,
			"index": head,
		}).Debug("allocated chain")
	}

	hops, within := math.Split(offset, BlockSize)
	index, err := m.walkOrExtend(entry, entry.FirstIndex, int(hops))
	if err != nil {
		return 0, err
	}

	var n Byte
	want := Byte(len(p))
	for {
		chunk := math.Min(BlockSize-within, want-n)
		block := m.superblock.DataBlock(index)

		// partial blocks are read first so the bytes around the write survive
		if chunk < BlockSize {
			if err := m.device.ReadBlock(block, m.scratch[:]); err != nil {
				return n, err
			}
		}
		copy(m.scratch[within:within+chunk], p[n:n+chunk])
		if err := m.device.WriteBlock(block, m.scratch[:]); err != nil {
			return n, err
		}

		n += chunk
		if end := offset + n; end > Byte(entry.Size) {
			entry.Size = uint32(end)
		}
		if n >= want {
			return n, nil
		}

		within = 0
		if index, err = m.walkOrExtend(entry, index, 1); err != nil {
			return n, err
		}
	}
}

// walkOrExtend follows `hops` links from `start`, appending blocks to the
// chain whenever it ends early.
func (m *mountState) walkOrExtend(
	entry *DirEntry,
	start Index,
	hops int,
) (Index, error) {
	current, err := m.table.Walk(start, 0)
	if err != nil {
		return IndexNone, err
	}
	for ; hops > 0; hops-- {
		next, err := m.table.Walk(current, 1)
		if err == fat.ChainExhaustedErr {
			if next, err = m.table.Extend(current); err == nil {
				m.logger.WithFields(logrus.Fields{
					"name":  entry.Name,
					"index": next,
				}).Debug("extended chain")
			}
		}
		if err != nil {
			return IndexNone, err
		}
		current = next
	}
	return current, nil
}
