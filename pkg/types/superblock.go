package types

// Signature identifies an ecsfs image. It occupies the first 8 bytes of the
// superblock and is not NUL-terminated.
const Signature = "ECS150FS"

type Superblock struct {
	TotalBlocks Block
	RootDir     Block
	DataStart   Block
	DataBlocks  Block
	FATBlocks   uint8
}

// DataBlock translates a FAT index into the device block holding its data.
func (sb *Superblock) DataBlock(index Index) Block {
	return sb.DataStart + Block(index)
}

// FATEntries returns the number of entry slots in the persisted FAT region,
// including the padding after the last meaningful entry.
func (sb *Superblock) FATEntries() int {
	return int(sb.FATBlocks) * FATEntriesPerBlock
}
