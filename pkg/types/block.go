package types

// Block is an absolute block number on the device.
type Block uint16

// Byte is a byte count or byte offset.
type Byte int64

const (
	BlockSize Byte = 4096

	// SuperblockBlock is always the first block on the device.
	SuperblockBlock Block = 0

	// FATStartBlock is the first block of the FAT region; the region is
	// `Superblock.FATBlocks` blocks long.
	FATStartBlock Block = 1

	// FATEntrySize is the size of a single encoded FAT entry.
	FATEntrySize Byte = 2

	// FATEntriesPerBlock is the number of FAT entries held by one FAT block.
	FATEntriesPerBlock = int(BlockSize / FATEntrySize)

	// MaxBlocks is the largest device a superblock can describe.
	MaxBlocks = 0xFFFF
)
