// Package fat manages the in-memory file allocation table: one entry per
// data block, each either free, the end of a chain, or a link to the next
// block of its chain.
package fat

import (
	"fmt"

	. "github.com/weberc2/ecsfs/pkg/types"
)

const (
	OutOfBlocksErr    ConstError = "out of data blocks"
	InvalidIndexErr   ConstError = "invalid data block index"
	CorruptChainErr   ConstError = "corrupt chain"
	ChainExhaustedErr ConstError = "chain exhausted"
)

type Table struct {
	entries []Entry
}

// New returns a table of `count` free entries, except for the reserved entry
// 0 which is always end-of-chain.
func New(count int) Table {
	entries := make([]Entry, count)
	if count > 0 {
		entries[IndexReserved] = EndOfChain()
	}
	return Table{entries: entries}
}

// Decode builds a table from raw on-disk entries. Only the first `count`
// entries are meaningful; the rest of `raw` is padding.
func Decode(raw []uint16, count int) (Table, error) {
	if count > len(raw) {
		return Table{}, fmt.Errorf(
			"decoding table: wanted `%d` entries; found `%d`",
			count,
			len(raw),
		)
	}
	t := Table{entries: make([]Entry, count)}
	for i := range t.entries {
		t.entries[i] = DecodeEntry(raw[i])
	}
	if count > 0 && t.entries[IndexReserved].Kind != KindEndOfChain {
		return Table{}, fmt.Errorf(
			"decoding table: reserved entry is `%s`: %w",
			t.entries[IndexReserved],
			CorruptChainErr,
		)
	}
	return t, nil
}

// Raw returns the on-disk form of the table padded out to `slots` entries.
func (t *Table) Raw(slots int) []uint16 {
	if slots < len(t.entries) {
		slots = len(t.entries)
	}
	raw := make([]uint16, slots)
	for i, e := range t.entries {
		raw[i] = e.Encode()
	}
	return raw
}

func (t *Table) Len() int { return len(t.entries) }

func (t *Table) Get(i Index) (Entry, error) {
	if err := t.check(i); err != nil {
		return Entry{}, err
	}
	return t.entries[i], nil
}

// FindFree returns the lowest free index. Index 0 is never returned.
func (t *Table) FindFree() (Index, error) {
	for i := 1; i < len(t.entries); i++ {
		if t.entries[i].Kind == KindFree {
			return Index(i), nil
		}
	}
	return IndexNone, OutOfBlocksErr
}

// FreeCount returns the number of free entries, never counting the reserved
// entry.
func (t *Table) FreeCount() int {
	var count int
	for i := 1; i < len(t.entries); i++ {
		if t.entries[i].Kind == KindFree {
			count++
		}
	}
	return count
}

// AllocateHead claims a free entry as a new single-block chain.
func (t *Table) AllocateHead() (Index, error) {
	i, err := t.FindFree()
	if err != nil {
		return IndexNone, fmt.Errorf("allocating chain head: %w", err)
	}
	t.entries[i] = EndOfChain()
	return i, nil
}

// Extend appends a newly claimed entry after `last`, which must be the end of
// its chain.
func (t *Table) Extend(last Index) (Index, error) {
	if err := t.check(last); err != nil {
		return IndexNone, fmt.Errorf("extending chain: %w", err)
	}
	if e := t.entries[last]; e.Kind != KindEndOfChain {
		return IndexNone, fmt.Errorf(
			"extending chain at `%d`: entry is `%s`, not end-of-chain: %w",
			last,
			e,
			CorruptChainErr,
		)
	}
	i, err := t.FindFree()
	if err != nil {
		return IndexNone, fmt.Errorf("extending chain at `%d`: %w", last, err)
	}
	t.entries[i] = EndOfChain()
	t.entries[last] = Next(i)
	return i, nil
}

// Walk follows `hops` links from `start`. It returns ChainExhaustedErr if the
// chain ends first; the returned index is then the last block of the chain.
func (t *Table) Walk(start Index, hops int) (Index, error) {
	current := start
	for hop := 0; hop < hops; hop++ {
		e, err := t.link(current, hop)
		if err != nil {
			return IndexNone, fmt.Errorf(
				"walking `%d` hops from `%d`: %w",
				hops,
				start,
				err,
			)
		}
		if e.Kind == KindEndOfChain {
			return current, ChainExhaustedErr
		}
		current = e.Next
	}
	if err := t.check(current); err != nil {
		return IndexNone, fmt.Errorf(
			"walking `%d` hops from `%d`: %w",
			hops,
			start,
			err,
		)
	}
	return current, nil
}

// ChainLength counts the blocks in the chain starting at `start`.
func (t *Table) ChainLength(start Index) (int, error) {
	if start == IndexNone {
		return 0, nil
	}
	current := start
	for length := 1; ; length++ {
		e, err := t.link(current, length-1)
		if err != nil {
			return 0, fmt.Errorf("measuring chain `%d`: %w", start, err)
		}
		if e.Kind == KindEndOfChain {
			return length, nil
		}
		current = e.Next
	}
}

// Release frees every entry of the chain starting at `start` and returns how
// many were freed. Releasing IndexNone is a no-op.
func (t *Table) Release(start Index) (int, error) {
	if start == IndexNone {
		return 0, nil
	}

	// validate the whole chain before touching it so a corrupt chain is
	// left as it was found
	length, err := t.ChainLength(start)
	if err != nil {
		return 0, fmt.Errorf("releasing chain `%d`: %w", start, err)
	}

	current := start
	for i := 0; i < length; i++ {
		next := t.entries[current].Next
		t.entries[current] = Free()
		current = next
	}
	return length, nil
}

// link returns the entry at `i`, which must be part of a chain. `hop` bounds
// the walk so that cycles are detected.
func (t *Table) link(i Index, hop int) (Entry, error) {
	if err := t.check(i); err != nil {
		return Entry{}, err
	}
	if hop >= len(t.entries) {
		return Entry{}, fmt.Errorf(
			"chain longer than the table at `%d`: %w",
			i,
			CorruptChainErr,
		)
	}
	e := t.entries[i]
	switch {
	case e.Kind == KindFree:
		return Entry{}, fmt.Errorf(
			"free entry `%d` inside a chain: %w",
			i,
			CorruptChainErr,
		)
	case e.Kind == KindNext && (e.Next == IndexReserved || e.Next == i):
		return Entry{}, fmt.Errorf(
			"entry `%d` links to `%d`: %w",
			i,
			e.Next,
			CorruptChainErr,
		)
	}
	return e, nil
}

func (t *Table) check(i Index) error {
	if i == IndexReserved || int(i) >= len(t.entries) {
		return fmt.Errorf(
			"index `%d` outside `[1, %d)`: %w",
			i,
			len(t.entries),
			InvalidIndexErr,
		)
	}
	return nil
}
