package fat

import (
	"fmt"

	. "github.com/weberc2/ecsfs/pkg/types"
)

type Kind uint8

const (
	KindFree Kind = iota
	KindEndOfChain
	KindNext
)

func (k Kind) String() string {
	switch k {
	case KindFree:
		return "free"
	case KindEndOfChain:
		return "end-of-chain"
	case KindNext:
		return "next"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

const (
	rawFree       uint16 = 0
	rawEndOfChain uint16 = 0xFFFF
)

// Entry is one slot of the allocation table. The raw encoding is only
// interpreted here; callers deal in kinds.
type Entry struct {
	Kind Kind
	Next Index
}

func Free() Entry       { return Entry{Kind: KindFree} }
func EndOfChain() Entry { return Entry{Kind: KindEndOfChain} }
func Next(i Index) Entry {
	return Entry{Kind: KindNext, Next: i}
}

func DecodeEntry(raw uint16) Entry {
	switch raw {
	case rawFree:
		return Free()
	case rawEndOfChain:
		return EndOfChain()
	default:
		return Next(Index(raw))
	}
}

func (e Entry) Encode() uint16 {
	switch e.Kind {
	case KindFree:
		return rawFree
	case KindEndOfChain:
		return rawEndOfChain
	default:
		return uint16(e.Next)
	}
}

func (e Entry) String() string {
	if e.Kind == KindNext {
		return fmt.Sprintf("next(%d)", e.Next)
	}
	return e.Kind.String()
}
