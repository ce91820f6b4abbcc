package encode

import (
	"bytes"

	. "github.com/weberc2/ecsfs/pkg/types"
)

func EncodeDirEntry(entry *DirEntry, b *[DirEntrySize]byte) {
	p := b[:]
	*b = [DirEntrySize]byte{}
	// the name field always keeps room for the NUL terminator
	copy(p[dirEntryNameStart:dirEntryNameEnd-1], entry.Name)
	putU32(p, dirEntrySizeStart, entry.Size)
	putU16(p, dirEntryFirstIndexStart, uint16(entry.FirstIndex))
}

func DecodeDirEntry(entry *DirEntry, b *[DirEntrySize]byte) {
	p := b[:]
	name := p[dirEntryNameStart:dirEntryNameEnd]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	*entry = DirEntry{
		Name:       string(name),
		Size:       getU32(p, dirEntrySizeStart),
		FirstIndex: Index(getU16(p, dirEntryFirstIndexStart)),
	}
}

// DirRecords holds the raw records of a directory block as last read or
// written. Stale name tails and padding live only here.
type DirRecords [MaxFiles][DirEntrySize]byte

// EncodeDirectory writes the whole root directory into its block. A slot whose
// entry still matches its record is written back byte for byte; any other slot
// gets a clean record, which also replaces the one in `records`.
func EncodeDirectory(
	entries *[MaxFiles]DirEntry,
	records *DirRecords,
	b *[BlockSize]byte,
) {
	var current DirEntry
	for i := range entries {
		DecodeDirEntry(&current, &records[i])
		if current != entries[i] {
			EncodeDirEntry(&entries[i], &records[i])
		}
		start := Byte(i) * DirEntrySize
		copy(b[start:start+DirEntrySize], records[i][:])
	}
}

// DecodeDirectory reads the whole root directory from its block, keeping the
// raw records in `records`.
func DecodeDirectory(
	entries *[MaxFiles]DirEntry,
	records *DirRecords,
	b *[BlockSize]byte,
) {
	for i := range entries {
		start := Byte(i) * DirEntrySize
		copy(records[i][:], b[start:start+DirEntrySize])
		DecodeDirEntry(&entries[i], &records[i])
	}
}

const (
	dirEntryNameStart Byte = 0
	dirEntryNameSize       = NameSize
	dirEntryNameEnd        = dirEntryNameStart + dirEntryNameSize

	dirEntrySizeStart = dirEntryNameEnd
	dirEntrySizeSize  = 4
	dirEntrySizeEnd   = dirEntrySizeStart + dirEntrySizeSize

	dirEntryFirstIndexStart = dirEntrySizeEnd
	dirEntryFirstIndexSize  = 2
	dirEntryFirstIndexEnd   = dirEntryFirstIndexStart + dirEntryFirstIndexSize

	dirEntryPaddingStart = dirEntryFirstIndexEnd
	dirEntryPaddingSize  = 10
	dirEntryPaddingEnd   = dirEntryPaddingStart + dirEntryPaddingSize

	DirEntrySize = dirEntryPaddingEnd
)
