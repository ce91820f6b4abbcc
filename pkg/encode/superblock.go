package encode

import (
	"fmt"

	. "github.com/weberc2/ecsfs/pkg/types"
)

const (
	BadSignatureErr       ConstError = "bad signature"
	BlockCountMismatchErr ConstError = "block count mismatch"
)

// EncodeSuperblock writes `sb` into `b`. Everything after the last field is
// zeroed padding.
func EncodeSuperblock(sb *Superblock, b *[BlockSize]byte) {
	p := b[:]
	*b = [BlockSize]byte{}
	copy(p[superblockSignatureStart:superblockSignatureEnd], Signature)
	putBlock(p, superblockTotalBlocksStart, sb.TotalBlocks)
	putBlock(p, superblockRootDirStart, sb.RootDir)
	putBlock(p, superblockDataStartStart, sb.DataStart)
	putBlock(p, superblockDataBlocksStart, sb.DataBlocks)
	putU8(p, superblockFATBlocksStart, sb.FATBlocks)
}

// DecodeSuperblock populates `sb` from `b`. `sb` is left untouched if the
// signature doesn't match.
func DecodeSuperblock(sb *Superblock, b *[BlockSize]byte) error {
	p := b[:]
	if signature := string(
		p[superblockSignatureStart:superblockSignatureEnd],
	); signature != Signature {
		return fmt.Errorf(
			"decoding superblock: found signature `%q`: %w",
			signature,
			BadSignatureErr,
		)
	}
	*sb = Superblock{
		TotalBlocks: getBlock(p, superblockTotalBlocksStart),
		RootDir:     getBlock(p, superblockRootDirStart),
		DataStart:   getBlock(p, superblockDataStartStart),
		DataBlocks:  getBlock(p, superblockDataBlocksStart),
		FATBlocks:   getU8(p, superblockFATBlocksStart),
	}
	return nil
}

// ValidateSuperblock checks that `sb` describes a consistent layout on a
// device of `deviceBlocks` blocks.
func ValidateSuperblock(sb *Superblock, deviceBlocks int) error {
	if int(sb.TotalBlocks) != deviceBlocks {
		return fmt.Errorf(
			"validating superblock: superblock declares `%d` blocks; "+
				"device has `%d`: %w",
			sb.TotalBlocks,
			deviceBlocks,
			BlockCountMismatchErr,
		)
	}
	if sb.FATBlocks < 1 || sb.DataBlocks < 1 {
		return fmt.Errorf(
			"validating superblock: `%d` FAT blocks for `%d` data blocks: %w",
			sb.FATBlocks,
			sb.DataBlocks,
			BlockCountMismatchErr,
		)
	}
	if wanted := 2 + int(sb.FATBlocks) + int(sb.DataBlocks); wanted !=
		int(sb.TotalBlocks) {
		return fmt.Errorf(
			"validating superblock: 1 superblock + `%d` FAT blocks + 1 "+
				"directory block + `%d` data blocks != `%d` total blocks: %w",
			sb.FATBlocks,
			sb.DataBlocks,
			sb.TotalBlocks,
			BlockCountMismatchErr,
		)
	}
	if sb.RootDir != FATStartBlock+Block(sb.FATBlocks) ||
		sb.DataStart != sb.RootDir+1 {
		return fmt.Errorf(
			"validating superblock: root directory at `%d` and data at "+
				"`%d` don't follow `%d` FAT blocks: %w",
			sb.RootDir,
			sb.DataStart,
			sb.FATBlocks,
			BlockCountMismatchErr,
		)
	}
	if sb.FATEntries() < int(sb.DataBlocks) {
		return fmt.Errorf(
			"validating superblock: `%d` FAT blocks can't index `%d` "+
				"data blocks: %w",
			sb.FATBlocks,
			sb.DataBlocks,
			BlockCountMismatchErr,
		)
	}
	return nil
}

const (
	superblockSignatureStart Byte = 0
	superblockSignatureSize  Byte = Byte(len(Signature))
	superblockSignatureEnd        = superblockSignatureStart +
		superblockSignatureSize

	superblockTotalBlocksStart = superblockSignatureEnd
	superblockTotalBlocksSize  = 2
	superblockTotalBlocksEnd   = superblockTotalBlocksStart +
		superblockTotalBlocksSize

	superblockRootDirStart = superblockTotalBlocksEnd
	superblockRootDirSize  = 2
	superblockRootDirEnd   = superblockRootDirStart + superblockRootDirSize

	superblockDataStartStart = superblockRootDirEnd
	superblockDataStartSize  = 2
	superblockDataStartEnd   = superblockDataStartStart +
		superblockDataStartSize

	superblockDataBlocksStart = superblockDataStartEnd
	superblockDataBlocksSize  = 2
	superblockDataBlocksEnd   = superblockDataBlocksStart +
		superblockDataBlocksSize

	superblockFATBlocksStart = superblockDataBlocksEnd
	superblockFATBlocksSize  = 1
	superblockFATBlocksEnd   = superblockFATBlocksStart +
		superblockFATBlocksSize

	// SuperblockUsedSize is the number of meaningful bytes in the superblock;
	// the rest of the block is padding.
	SuperblockUsedSize = superblockFATBlocksEnd
)
