package format

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/weberc2/ecsfs/pkg/disk"
	"github.com/weberc2/ecsfs/pkg/encode"
	. "github.com/weberc2/ecsfs/pkg/types"
)

func TestLayout(t *testing.T) {
	for _, tc := range []struct {
		total  int
		wanted Superblock
	}{
		{
			total: 4,
			wanted: Superblock{
				TotalBlocks: 4,
				RootDir:     2,
				DataStart:   3,
				DataBlocks:  1,
				FATBlocks:   1,
			},
		},
		{
			total: 2051,
			wanted: Superblock{
				TotalBlocks: 2051,
				RootDir:     2,
				DataStart:   3,
				DataBlocks:  2048,
				FATBlocks:   1,
			},
		},
		{
			// 2049 data blocks would need a second FAT block, which leaves
			// room for only 2048
			total: 2052,
			wanted: Superblock{
				TotalBlocks: 2052,
				RootDir:     3,
				DataStart:   4,
				DataBlocks:  2048,
				FATBlocks:   2,
			},
		},
		{
			total: 8198,
			wanted: Superblock{
				TotalBlocks: 8198,
				RootDir:     5,
				DataStart:   6,
				DataBlocks:  8192,
				FATBlocks:   4,
			},
		},
	} {
		found, err := Layout(tc.total)
		if err != nil {
			t.Fatalf("Layout(%d): unexpected err: %v", tc.total, err)
		}
		if diff := cmp.Diff(tc.wanted, found); diff != "" {
			t.Fatalf("Layout(%d): (-wanted, +found):\n%s", tc.total, diff)
		}
		if err := encode.ValidateSuperblock(&found, tc.total); err != nil {
			t.Fatalf("ValidateSuperblock(): unexpected err: %v", err)
		}
	}

	if _, err := Layout(3); !errors.Is(err, TooSmallErr) {
		t.Fatalf("Layout(3): wanted `%v`; found `%v`", TooSmallErr, err)
	}
	if _, err := Layout(MaxBlocks + 1); !errors.Is(err, TooLargeErr) {
		t.Fatalf("Layout(): wanted `%v`; found `%v`", TooLargeErr, err)
	}
}

func TestTotalBlocks(t *testing.T) {
	for _, tc := range []struct {
		data, wanted int
	}{
		{1, 4},
		{2048, 2051},
		{2049, 2053},
		{8192, 8198},
		{65501, 65535},
	} {
		found, err := TotalBlocks(tc.data)
		if err != nil {
			t.Fatalf("TotalBlocks(%d): unexpected err: %v", tc.data, err)
		}
		if found != tc.wanted {
			t.Fatalf(
				"TotalBlocks(%d): wanted `%d`; found `%d`",
				tc.data,
				tc.wanted,
				found,
			)
		}

		// laying out the computed size gives back the same data blocks
		sb, err := Layout(found)
		if err != nil {
			t.Fatalf("Layout(%d): unexpected err: %v", found, err)
		}
		if int(sb.DataBlocks) != tc.data {
			t.Fatalf(
				"Layout(%d): wanted `%d` data blocks; found `%d`",
				found,
				tc.data,
				sb.DataBlocks,
			)
		}
	}

	for _, data := range []int{0, 65502} {
		if _, err := TotalBlocks(data); err == nil {
			t.Fatalf("TotalBlocks(%d): wanted error; found `nil`", data)
		}
	}
}

func TestFormat(t *testing.T) {
	dev := disk.NewMemory(10)
	if err := Format(dev); err != nil {
		t.Fatalf("Format(): unexpected err: %v", err)
	}

	var buf [BlockSize]byte
	copy(buf[:], dev.Region(SuperblockBlock, 1))
	var sb Superblock
	if err := encode.DecodeSuperblock(&sb, &buf); err != nil {
		t.Fatalf("DecodeSuperblock(): unexpected err: %v", err)
	}
	if sb.DataBlocks != 7 {
		t.Fatalf("DecodeSuperblock(): wanted `7` data blocks; found `%d`", sb.DataBlocks)
	}

	copy(buf[:], dev.Region(FATStartBlock, 1))
	raw := make([]uint16, 3)
	encode.DecodeFATBlock(raw, 0, &buf)
	if diff := cmp.Diff([]uint16{0xFFFF, 0, 0}, raw); diff != "" {
		t.Fatalf("DecodeFATBlock(): (-wanted, +found):\n%s", diff)
	}
}

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	if err := Create(path, 100); err != nil {
		t.Fatalf("Create(): unexpected err: %v", err)
	}
	dev, err := disk.Open(path)
	if err != nil {
		t.Fatalf("disk.Open(): unexpected err: %v", err)
	}
	defer dev.Close()
	if dev.BlockCount() != 103 {
		t.Fatalf("BlockCount(): wanted `103`; found `%d`", dev.BlockCount())
	}
}
