// Package fs ties the on-disk regions together into a mountable filesystem.
// A FileSystem holds at most one mounted image; every file operation fails
// with NotMountedErr until Mount succeeds.
package fs

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/weberc2/ecsfs/pkg/descriptor"
	"github.com/weberc2/ecsfs/pkg/directory"
	"github.com/weberc2/ecsfs/pkg/disk"
	"github.com/weberc2/ecsfs/pkg/encode"
	"github.com/weberc2/ecsfs/pkg/fat"
	. "github.com/weberc2/ecsfs/pkg/types"
)

const (
	NotMountedErr     ConstError = "no image mounted"
	AlreadyMountedErr ConstError = "an image is already mounted"
	DiskFullErr       ConstError = "disk full"

	BadSignatureErr       = encode.BadSignatureErr
	BlockCountMismatchErr = encode.BlockCountMismatchErr
	CorruptChainErr       = fat.CorruptChainErr
	NameTooLongErr        = directory.NameTooLongErr
	InvalidNameErr        = directory.InvalidNameErr
	AlreadyExistsErr      = directory.AlreadyExistsErr
	NotFoundErr           = directory.NotFoundErr
	NoFreeSlotErr         = directory.NoFreeSlotErr
	InvalidHandleErr      = descriptor.InvalidHandleErr
	InvalidOffsetErr      = descriptor.InvalidOffsetErr
	TooManyOpenErr        = descriptor.TooManyOpenErr
)

type FileSystem struct {
	logger logrus.FieldLogger
	mount  *mountState
}

// mountState is everything loaded from (and flushed back to) a mounted
// image.
type mountState struct {
	id          string
	logger      logrus.FieldLogger
	device      disk.Device
	superblock  Superblock
	table       fat.Table
	directory   directory.Directory
	descriptors descriptor.Table
	scratch     [BlockSize]byte
}

// New returns an unmounted filesystem. A nil logger logs to the logrus
// standard logger.
func New(logger logrus.FieldLogger) *FileSystem {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FileSystem{logger: logger}
}

func (fs *FileSystem) Mounted() bool { return fs.mount != nil }

// Mount opens the image file at `path` and mounts it.
func (fs *FileSystem) Mount(path string) error {
	if fs.mount != nil {
		return fmt.Errorf("mounting `%s`: %w", path, AlreadyMountedErr)
	}
	dev, err := disk.Open(path)
	if err != nil {
		return fmt.Errorf("mounting: %w", err)
	}
	if err := fs.mountDevice(
		dev,
		fs.logger.WithField("image", path),
	); err != nil {
		return multierr.Append(
			fmt.Errorf("mounting `%s`: %w", path, err),
			dev.Close(),
		)
	}
	return nil
}

// MountDevice mounts an image that is already open. On failure the device is
// left open and the filesystem stays unmounted.
func (fs *FileSystem) MountDevice(dev disk.Device) error {
	if err := fs.mountDevice(dev, fs.logger); err != nil {
		return fmt.Errorf("mounting device: %w", err)
	}
	return nil
}

func (fs *FileSystem) mountDevice(
	dev disk.Device,
	logger logrus.FieldLogger,
) error {
	if fs.mount != nil {
		return AlreadyMountedErr
	}

	m := mountState{id: uuid.NewString(), device: dev}
	m.logger = logger.WithField("mount", m.id)

	if err := dev.ReadBlock(SuperblockBlock, m.scratch[:]); err != nil {
		return fmt.Errorf("reading superblock: %w", err)
	}
	if err := encode.DecodeSuperblock(&m.superblock, &m.scratch); err != nil {
		return err
	}
	if err := encode.ValidateSuperblock(
		&m.superblock,
		dev.BlockCount(),
	); err != nil {
		return err
	}

	raw := make([]uint16, m.superblock.FATEntries())
	for n := 0; n < int(m.superblock.FATBlocks); n++ {
		if err := dev.ReadBlock(
			FATStartBlock+Block(n),
			m.scratch[:],
		); err != nil {
			return fmt.Errorf("reading FAT block `%d`: %w", n, err)
		}
		encode.DecodeFATBlock(raw, n, &m.scratch)
	}
	table, err := fat.Decode(raw, int(m.superblock.DataBlocks))
	if err != nil {
		return fmt.Errorf("loading FAT: %w", err)
	}
	m.table = table

	if err := dev.ReadBlock(m.superblock.RootDir, m.scratch[:]); err != nil {
		return fmt.Errorf("reading root directory: %w", err)
	}
	m.directory.Decode(&m.scratch)

	fs.mount = &m
	m.logger.WithFields(logrus.Fields{
		"blocks":      m.superblock.TotalBlocks,
		"data_blocks": m.superblock.DataBlocks,
		"free_blocks": m.table.FreeCount(),
	}).Info("mounted")
	return nil
}

// Unmount flushes every region and closes the device. The filesystem is
// unmounted afterwards even if flushing or closing fails. Open descriptors
// are discarded.
func (fs *FileSystem) Unmount() error {
	m := fs.mount
	if m == nil {
		return fmt.Errorf("unmounting: %w", NotMountedErr)
	}
	fs.mount = nil

	if open := m.descriptors.Count(); open > 0 {
		m.logger.WithField("open", open).Warn("discarding open descriptors")
	}
	if err := multierr.Combine(m.flush(), m.device.Close()); err != nil {
		m.logger.WithError(err).Error("unmounting")
		return fmt.Errorf("unmounting: %w", err)
	}
	m.logger.Info("unmounted")
	return nil
}

// Flush writes the superblock, FAT, and root directory to the device without
// unmounting.
func (fs *FileSystem) Flush() error {
	m, err := fs.mounted()
	if err != nil {
		return fmt.Errorf("flushing: %w", err)
	}
	return m.flush()
}

func (m *mountState) flush() error {
	encode.EncodeSuperblock(&m.superblock, &m.scratch)
	if err := m.device.WriteBlock(SuperblockBlock, m.scratch[:]); err != nil {
		return fmt.Errorf("flushing superblock: %w", err)
	}

	raw := m.table.Raw(m.superblock.FATEntries())
	for n := 0; n < int(m.superblock.FATBlocks); n++ {
		encode.EncodeFATBlock(raw, n, &m.scratch)
		if err := m.device.WriteBlock(
			FATStartBlock+Block(n),
			m.scratch[:],
		); err != nil {
			return fmt.Errorf("flushing FAT block `%d`: %w", n, err)
		}
	}

	m.directory.Encode(&m.scratch)
	if err := m.device.WriteBlock(
		m.superblock.RootDir,
		m.scratch[:],
	); err != nil {
		return fmt.Errorf("flushing root directory: %w", err)
	}
	m.logger.Debug("flushed")
	return nil
}

func (fs *FileSystem) mounted() (*mountState, error) {
	if fs.mount == nil {
		return nil, NotMountedErr
	}
	return fs.mount, nil
}

// Info describes the layout and occupancy of the mounted image.
type Info struct {
	TotalBlocks    int
	FATBlocks      int
	RootDir        int
	DataStart      int
	DataBlocks     int
	FreeDataBlocks int
	FreeDirEntries int
}

func (fs *FileSystem) Info() (Info, error) {
	m, err := fs.mounted()
	if err != nil {
		return Info{}, fmt.Errorf("info: %w", err)
	}
	return Info{
		TotalBlocks:    int(m.superblock.TotalBlocks),
		FATBlocks:      int(m.superblock.FATBlocks),
		RootDir:        int(m.superblock.RootDir),
		DataStart:      int(m.superblock.DataStart),
		DataBlocks:     int(m.superblock.DataBlocks),
		FreeDataBlocks: m.table.FreeCount(),
		FreeDirEntries: m.directory.FreeCount(),
	}, nil
}
