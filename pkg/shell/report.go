package shell

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/weberc2/ecsfs/pkg/directory"
	"github.com/weberc2/ecsfs/pkg/fs"
	. "github.com/weberc2/ecsfs/pkg/types"
)

// PrintInfo writes the layout report for a mounted image.
func PrintInfo(w io.Writer, info *fs.Info) {
	fmt.Fprintf(w, "FS Info:\n")
	fmt.Fprintf(w, "total_blk_count=%d\n", info.TotalBlocks)
	fmt.Fprintf(w, "fat_blk_count=%d\n", info.FATBlocks)
	fmt.Fprintf(w, "rdir_blk=%d\n", info.RootDir)
	fmt.Fprintf(w, "data_blk=%d\n", info.DataStart)
	fmt.Fprintf(w, "data_blk_count=%d\n", info.DataBlocks)
	fmt.Fprintf(w, "fat_free_ratio=%d/%d\n", info.FreeDataBlocks, info.DataBlocks)
	fmt.Fprintf(w, "rdir_free_ratio=%d/%d\n", info.FreeDirEntries, MaxFiles)
	fmt.Fprintf(
		w,
		"data_size=%s free_size=%s\n",
		humanize.IBytes(uint64(Byte(info.DataBlocks)*BlockSize)),
		humanize.IBytes(uint64(Byte(info.FreeDataBlocks)*BlockSize)),
	)
}

// PrintEntries writes one line per file.
func PrintEntries(w io.Writer, entries []directory.FileInfo) {
	fmt.Fprintf(w, "FS Ls\n")
	for i := range entries {
		fmt.Fprintf(
			w,
			"file: %s, size: %d, data_blk: %d\n",
			entries[i].Name,
			entries[i].Size,
			entries[i].FirstIndex,
		)
	}
}
