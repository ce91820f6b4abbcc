package types

// Index identifies a data block by its position in the FAT (and therefore
// relative to `Superblock.DataStart`), not by its device block number.
type Index uint16

const (
	// IndexNone is stored in a directory entry whose file owns no data
	// blocks. It shares its value with the FAT's end-of-chain marker.
	IndexNone Index = 0xFFFF

	// IndexReserved is never handed out by the allocator.
	IndexReserved Index = 0
)
