// Package format lays out fresh ecsfs images.
package format

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/weberc2/ecsfs/pkg/directory"
	"github.com/weberc2/ecsfs/pkg/disk"
	"github.com/weberc2/ecsfs/pkg/encode"
	"github.com/weberc2/ecsfs/pkg/fat"
	"github.com/weberc2/ecsfs/pkg/math"
	. "github.com/weberc2/ecsfs/pkg/types"
)

const (
	TooSmallErr ConstError = "device too small"
	TooLargeErr ConstError = "device too large"
)

// MinBlocks is the smallest image: superblock, one FAT block, the root
// directory, and one data block.
const MinBlocks = 4

// Layout computes the superblock for a device of `totalBlocks` blocks. When
// no FAT size fits the device exactly, the FAT gets one block more than it
// strictly needs.
func Layout(totalBlocks int) (Superblock, error) {
	if totalBlocks < MinBlocks {
		return Superblock{}, fmt.Errorf(
			"laying out `%d` blocks: minimum is `%d`: %w",
			totalBlocks,
			MinBlocks,
			TooSmallErr,
		)
	}
	if totalBlocks > MaxBlocks {
		return Superblock{}, fmt.Errorf(
			"laying out `%d` blocks: maximum is `%d`: %w",
			totalBlocks,
			MaxBlocks,
			TooLargeErr,
		)
	}

	// every FAT block accounts for itself plus the data blocks it indexes
	fatBlocks := math.DivRoundUp(totalBlocks-2, FATEntriesPerBlock+1)
	return Superblock{
		TotalBlocks: Block(totalBlocks),
		RootDir:     FATStartBlock + Block(fatBlocks),
		DataStart:   FATStartBlock + Block(fatBlocks) + 1,
		DataBlocks:  Block(totalBlocks - 2 - fatBlocks),
		FATBlocks:   uint8(fatBlocks),
	}, nil
}

// TotalBlocks returns the size of the smallest device holding `dataBlocks`
// data blocks.
func TotalBlocks(dataBlocks int) (int, error) {
	if dataBlocks < 1 {
		return 0, fmt.Errorf(
			"sizing image for `%d` data blocks: %w",
			dataBlocks,
			TooSmallErr,
		)
	}
	total := dataBlocks + math.DivRoundUp(dataBlocks, FATEntriesPerBlock) + 2
	if total > MaxBlocks {
		return 0, fmt.Errorf(
			"sizing image for `%d` data blocks: `%d` blocks exceeds `%d`: %w",
			dataBlocks,
			total,
			MaxBlocks,
			TooLargeErr,
		)
	}
	return total, nil
}

// Format writes an empty filesystem over the whole device. Data blocks are
// left as they are.
func Format(dev disk.Device) error {
	sb, err := Layout(dev.BlockCount())
	if err != nil {
		return fmt.Errorf("formatting: %w", err)
	}

	var buf [BlockSize]byte
	encode.EncodeSuperblock(&sb, &buf)
	if err := dev.WriteBlock(SuperblockBlock, buf[:]); err != nil {
		return fmt.Errorf("formatting: writing superblock: %w", err)
	}

	table := fat.New(int(sb.DataBlocks))
	raw := table.Raw(sb.FATEntries())
	for n := 0; n < int(sb.FATBlocks); n++ {
		encode.EncodeFATBlock(raw, n, &buf)
		if err := dev.WriteBlock(FATStartBlock+Block(n), buf[:]); err != nil {
			return fmt.Errorf("formatting: writing FAT block `%d`: %w", n, err)
		}
	}

	dir := directory.New()
	dir.Encode(&buf)
	if err := dev.WriteBlock(sb.RootDir, buf[:]); err != nil {
		return fmt.Errorf("formatting: writing root directory: %w", err)
	}

	log.WithFields(log.Fields{
		"blocks":      sb.TotalBlocks,
		"fat_blocks":  sb.FATBlocks,
		"data_blocks": sb.DataBlocks,
	}).Debug("formatted device")
	return nil
}

// Create creates an image file at `path` with room for `dataBlocks` data
// blocks and formats it.
func Create(path string, dataBlocks int) (err error) {
	total, err := TotalBlocks(dataBlocks)
	if err != nil {
		return fmt.Errorf("creating image `%s`: %w", path, err)
	}
	dev, err := disk.Create(path, total)
	if err != nil {
		return fmt.Errorf("creating image: %w", err)
	}
	defer func() {
		if closeErr := dev.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("creating image `%s`: %w", path, closeErr)
		}
	}()
	if err := Format(dev); err != nil {
		return fmt.Errorf("creating image `%s`: %w", path, err)
	}
	log.WithFields(log.Fields{
		"image":       path,
		"data_blocks": dataBlocks,
	}).Info("created image")
	return nil
}
