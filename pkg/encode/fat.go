package encode

import (
	. "github.com/weberc2/ecsfs/pkg/types"
)

// EncodeFATBlock writes the `n`th block of the FAT region from `entries`.
// Slots past the end of `entries` are written as zero.
func EncodeFATBlock(entries []uint16, n int, b *[BlockSize]byte) {
	p := b[:]
	first := n * FATEntriesPerBlock
	for i := 0; i < FATEntriesPerBlock; i++ {
		var entry uint16
		if first+i < len(entries) {
			entry = entries[first+i]
		}
		putU16(p, Byte(i)*FATEntrySize, entry)
	}
}

// DecodeFATBlock reads the `n`th block of the FAT region into `entries`.
// Slots that fall past the end of `entries` are ignored.
func DecodeFATBlock(entries []uint16, n int, b *[BlockSize]byte) {
	p := b[:]
	first := n * FATEntriesPerBlock
	for i := 0; i < FATEntriesPerBlock && first+i < len(entries); i++ {
		entries[first+i] = getU16(p, Byte(i)*FATEntrySize)
	}
}
