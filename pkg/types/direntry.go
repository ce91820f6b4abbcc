package types

const (
	// NameSize is the size of the on-disk name field including the NUL
	// terminator, so names are at most NameSize-1 bytes long.
	NameSize Byte = 16

	// MaxFiles is the number of entries in the root directory.
	MaxFiles = 128

	// MaxOpen is the number of descriptors that may be open at once.
	MaxOpen = 32
)

// DirEntry is one slot of the root directory. A slot with an empty `Name` is
// free regardless of its other fields.
type DirEntry struct {
	Name       string
	Size       uint32
	FirstIndex Index
}

func (entry *DirEntry) Free() bool { return entry.Name == "" }

// Clear returns the slot to its free state.
func (entry *DirEntry) Clear() {
	*entry = DirEntry{FirstIndex: IndexNone}
}
