package shell

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/weberc2/ecsfs/pkg/format"
	"github.com/weberc2/ecsfs/pkg/fs"
)

func newShell(t *testing.T) (*Shell, *bytes.Buffer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disk.img")
	if err := format.Create(path, 16); err != nil {
		t.Fatalf("format.Create(): unexpected err: %v", err)
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	var out bytes.Buffer
	return New(fs.New(logger), &out, false), &out, path
}

func TestRun(t *testing.T) {
	s, out, path := newShell(t)
	script := strings.Join([]string{
		"# comment lines and blank lines are skipped",
		"",
		"mount " + path,
		"create 'my file'",
		"open 'my file'",
		"write 0 \"hello world\"",
		"stat 0",
		"seek 0 6",
		"read 0 100",
		"close 0",
		"ls",
		"delete 'my file'",
		"umount",
	}, "\n")

	failed, err := s.Run(strings.NewReader(script))
	if err != nil {
		t.Fatalf("Run(): unexpected err: %v", err)
	}
	if failed != 0 {
		t.Fatalf("Run(): wanted `0` failures; found `%d`:\n%s", failed, out)
	}

	for _, wanted := range []string{
		"ok fd=0\n",
		"ok wrote=11\n",
		"ok size=11\n",
		"ok read=5 \"world\"\n",
		"file: my file, size: 11, data_blk: 1\n",
	} {
		if !strings.Contains(out.String(), wanted) {
			t.Fatalf("Run(): wanted output containing `%q`; found:\n%s", wanted, out)
		}
	}
}

func TestExec_Errors(t *testing.T) {
	s, out, path := newShell(t)
	for _, tc := range []struct {
		line   string
		wanted error
	}{
		{"ls", fs.NotMountedErr},
		{"frobnicate", UnknownCommandErr},
		{"mount", UsageErr},
		{"mount " + path, nil},
		{"mount " + path, fs.AlreadyMountedErr},
		{"open missing", fs.NotFoundErr},
		{"close 3", fs.InvalidHandleErr},
		{"create abcdefghijklmnop", fs.NameTooLongErr},
		{"read 5 9223372036854775807", fs.InvalidHandleErr},
		{"create huge", nil},
		{"open huge", nil},
		{"write 0 abc", nil},
		{"seek 0 0", nil},
		{"read 0 9223372036854775807", nil},
	} {
		out.Reset()
		err := s.Exec(tc.line)
		if tc.wanted == nil {
			if err != nil {
				t.Fatalf("Exec(%q): unexpected err: %v", tc.line, err)
			}
			continue
		}
		if !errors.Is(err, tc.wanted) {
			t.Fatalf("Exec(%q): wanted `%v`; found `%v`", tc.line, tc.wanted, err)
		}
		if !strings.HasPrefix(out.String(), "error: ") {
			t.Fatalf("Exec(%q): wanted `error: ...`; found `%s`", tc.line, out)
		}
	}
	if wanted := "ok read=3 \"abc\"\n"; out.String() != wanted {
		t.Fatalf("Exec(read): wanted `%q`; found `%q`", wanted, out)
	}
	if err := s.FS.Unmount(); err != nil {
		t.Fatalf("Unmount(): unexpected err: %v", err)
	}
}

func TestInfo(t *testing.T) {
	s, out, path := newShell(t)
	if err := s.Exec("mount " + path); err != nil {
		t.Fatalf("Exec(mount): unexpected err: %v", err)
	}
	defer s.FS.Unmount()
	out.Reset()
	if err := s.Exec("info"); err != nil {
		t.Fatalf("Exec(info): unexpected err: %v", err)
	}
	wanted := strings.Join([]string{
		"FS Info:",
		"total_blk_count=19",
		"fat_blk_count=1",
		"rdir_blk=2",
		"data_blk=3",
		"data_blk_count=16",
		"fat_free_ratio=15/16",
		"rdir_free_ratio=128/128",
		"data_size=64 KiB free_size=60 KiB",
		"ok",
		"",
	}, "\n")
	if out.String() != wanted {
		t.Fatalf("Exec(info): wanted:\n%s\nfound:\n%s", wanted, out)
	}
}
