package disk

import (
	. "github.com/weberc2/ecsfs/pkg/types"
)

// Memory implements Device using a []byte.
type Memory []byte

func NewMemory(blocks int) Memory {
	return make(Memory, Byte(blocks)*BlockSize)
}

func (m Memory) BlockCount() int { return int(Byte(len(m)) / BlockSize) }

func (m Memory) ReadBlock(index Block, p []byte) error {
	if err := check(m.BlockCount(), index, p); err != nil {
		return err
	}
	copy(p, m[Byte(index)*BlockSize:])
	return nil
}

func (m Memory) WriteBlock(index Block, p []byte) error {
	if err := check(m.BlockCount(), index, p); err != nil {
		return err
	}
	copy(m[Byte(index)*BlockSize:], p)
	return nil
}

func (Memory) Close() error { return nil }

// Region returns the bytes of blocks [start, start+count).
func (m Memory) Region(start Block, count int) []byte {
	return m[Byte(start)*BlockSize : Byte(int(start)+count)*BlockSize]
}
