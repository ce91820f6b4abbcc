package descriptor

import (
	"errors"
	"testing"

	. "github.com/weberc2/ecsfs/pkg/types"
)

func TestOpenClose(t *testing.T) {
	var table Table
	a, err := table.Open(3)
	if err != nil {
		t.Fatalf("Open(): unexpected err: %v", err)
	}
	b, err := table.Open(3)
	if err != nil {
		t.Fatalf("Open(): unexpected err: %v", err)
	}
	if a != 0 || b != 1 {
		t.Fatalf("Open(): wanted `0, 1`; found `%d, %d`", a, b)
	}

	if err := table.Seek(a, 100); err != nil {
		t.Fatalf("Seek(): unexpected err: %v", err)
	}
	if d, _ := table.Get(b); d.Offset != 0 {
		t.Fatalf("Get(): cursors aren't independent: found `%d`", d.Offset)
	}

	if err := table.Close(a); err != nil {
		t.Fatalf("Close(): unexpected err: %v", err)
	}
	if err := table.Close(a); !errors.Is(err, InvalidHandleErr) {
		t.Fatalf("Close(): wanted `%v`; found `%v`", InvalidHandleErr, err)
	}
	if table.Count() != 1 {
		t.Fatalf("Count(): wanted `1`; found `%d`", table.Count())
	}

	// the freed descriptor is reused first
	if fd, _ := table.Open(4); fd != a {
		t.Fatalf("Open(): wanted `%d`; found `%d`", a, fd)
	}
}

func TestInvalidHandles(t *testing.T) {
	var table Table
	for _, fd := range []FD{-1, 0, MaxOpen, MaxOpen + 1} {
		if _, err := table.Get(fd); !errors.Is(err, InvalidHandleErr) {
			t.Fatalf("Get(%d): wanted `%v`; found `%v`", fd, InvalidHandleErr, err)
		}
		if err := table.Seek(fd, 0); !errors.Is(err, InvalidHandleErr) {
			t.Fatalf("Seek(%d): wanted `%v`; found `%v`", fd, InvalidHandleErr, err)
		}
	}
}

func TestSeek_NegativeOffset(t *testing.T) {
	var table Table
	fd, err := table.Open(0)
	if err != nil {
		t.Fatalf("Open(): unexpected err: %v", err)
	}
	if err := table.Seek(fd, 7); err != nil {
		t.Fatalf("Seek(): unexpected err: %v", err)
	}
	if err := table.Seek(fd, -1); !errors.Is(err, InvalidOffsetErr) {
		t.Fatalf("Seek(): wanted `%v`; found `%v`", InvalidOffsetErr, err)
	}
	if d, _ := table.Get(fd); d.Offset != 7 {
		t.Fatalf("Get(): wanted offset `7`; found `%d`", d.Offset)
	}
}

func TestTooManyOpen(t *testing.T) {
	var table Table
	for i := 0; i < MaxOpen; i++ {
		if _, err := table.Open(0); err != nil {
			t.Fatalf("Open(): unexpected err: %v", err)
		}
	}
	if _, err := table.Open(0); !errors.Is(err, TooManyOpenErr) {
		t.Fatalf("Open(): wanted `%v`; found `%v`", TooManyOpenErr, err)
	}
}

func TestPurge(t *testing.T) {
	var table Table
	a, _ := table.Open(1)
	b, _ := table.Open(2)
	c, _ := table.Open(1)

	if purged := table.Purge(1); purged != 2 {
		t.Fatalf("Purge(): wanted `2`; found `%d`", purged)
	}
	for _, fd := range []FD{a, c} {
		if _, err := table.Get(fd); !errors.Is(err, InvalidHandleErr) {
			t.Fatalf("Get(%d): wanted `%v`; found `%v`", fd, InvalidHandleErr, err)
		}
	}
	if _, err := table.Get(b); err != nil {
		t.Fatalf("Get(%d): unexpected err: %v", b, err)
	}

	table.Reset()
	if table.Count() != 0 {
		t.Fatalf("Count(): wanted `0`; found `%d`", table.Count())
	}
}
