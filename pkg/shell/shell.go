// Package shell runs line-oriented scripts against a filesystem. Every
// command prints either `ok ...` or `error: ...`, and a failed command
// doesn't stop the script.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/shlex"

	"github.com/weberc2/ecsfs/pkg/descriptor"
	"github.com/weberc2/ecsfs/pkg/fs"
	. "github.com/weberc2/ecsfs/pkg/types"
)

const (
	UnknownCommandErr ConstError = "unknown command"
	UsageErr          ConstError = "usage"
)

type Shell struct {
	FS  *fs.FileSystem
	Out io.Writer

	ok   *color.Color
	fail *color.Color
}

func New(filesystem *fs.FileSystem, out io.Writer, colored bool) *Shell {
	s := Shell{
		FS:   filesystem,
		Out:  out,
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed, color.Bold),
	}
	if colored {
		s.ok.EnableColor()
		s.fail.EnableColor()
	} else {
		s.ok.DisableColor()
		s.fail.DisableColor()
	}
	return &s
}

// Run executes every line of `r`. Blank lines and lines starting with `#`
// are skipped. It returns the number of commands that failed.
func (s *Shell) Run(r io.Reader) (int, error) {
	var failed int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := s.Exec(line); err != nil {
			failed++
		}
	}
	if err := scanner.Err(); err != nil {
		return failed, fmt.Errorf("reading script: %w", err)
	}
	return failed, nil
}

// Exec runs a single command line and prints its outcome. The returned
// error is the one that was printed.
func (s *Shell) Exec(line string) error {
	args, err := shlex.Split(line)
	if err == nil && len(args) < 1 {
		return nil
	}
	var msg string
	if err == nil {
		msg, err = s.exec(args[0], args[1:])
	}
	if err != nil {
		s.fail.Fprintf(s.Out, "error: %v\n", err)
		return err
	}
	if msg == "" {
		s.ok.Fprintln(s.Out, "ok")
	} else {
		s.ok.Fprintf(s.Out, "ok %s\n", msg)
	}
	return nil
}

type command struct {
	args []string
	run  func(s *Shell, args []string) (string, error)
}

var commands = map[string]command{
	"mount": {
		args: []string{"IMAGE"},
		run: func(s *Shell, args []string) (string, error) {
			return "", s.FS.Mount(args[0])
		},
	},
	"umount": {
		run: func(s *Shell, args []string) (string, error) {
			return "", s.FS.Unmount()
		},
	},
	"info": {
		run: func(s *Shell, args []string) (string, error) {
			info, err := s.FS.Info()
			if err != nil {
				return "", err
			}
			PrintInfo(s.Out, &info)
			return "", nil
		},
	},
	"create": {
		args: []string{"NAME"},
		run: func(s *Shell, args []string) (string, error) {
			return "", s.FS.Create(args[0])
		},
	},
	"delete": {
		args: []string{"NAME"},
		run: func(s *Shell, args []string) (string, error) {
			return "", s.FS.Delete(args[0])
		},
	},
	"ls": {
		run: func(s *Shell, args []string) (string, error) {
			entries, err := s.FS.Ls()
			if err != nil {
				return "", err
			}
			PrintEntries(s.Out, entries)
			return "", nil
		},
	},
	"open": {
		args: []string{"NAME"},
		run: func(s *Shell, args []string) (string, error) {
			fd, err := s.FS.Open(args[0])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("fd=%d", fd), nil
		},
	},
	"close": {
		args: []string{"FD"},
		run: func(s *Shell, args []string) (string, error) {
			fd, err := parseFD(args[0])
			if err != nil {
				return "", err
			}
			return "", s.FS.Close(fd)
		},
	},
	"stat": {
		args: []string{"FD"},
		run: func(s *Shell, args []string) (string, error) {
			fd, err := parseFD(args[0])
			if err != nil {
				return "", err
			}
			size, err := s.FS.Stat(fd)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("size=%d", size), nil
		},
	},
	"seek": {
		args: []string{"FD", "OFFSET"},
		run: func(s *Shell, args []string) (string, error) {
			fd, err := parseFD(args[0])
			if err != nil {
				return "", err
			}
			offset, err := parseCount("OFFSET", args[1])
			if err != nil {
				return "", err
			}
			return "", s.FS.Seek(fd, Byte(offset))
		},
	},
	"read": {
		args: []string{"FD", "COUNT"},
		run: func(s *Shell, args []string) (string, error) {
			fd, err := parseFD(args[0])
			if err != nil {
				return "", err
			}
			count, err := parseCount("COUNT", args[1])
			if err != nil {
				return "", err
			}
			// nothing past the end of the file is ever read
			size, err := s.FS.Stat(fd)
			if err != nil {
				return "", err
			}
			if Byte(count) > size {
				count = int(size)
			}
			p := make([]byte, count)
			n, err := s.FS.Read(fd, p)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("read=%d %q", n, p[:n]), nil
		},
	},
	"write": {
		args: []string{"FD", "TEXT"},
		run: func(s *Shell, args []string) (string, error) {
			fd, err := parseFD(args[0])
			if err != nil {
				return "", err
			}
			n, err := s.FS.Write(fd, []byte(args[1]))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("wrote=%d", n), nil
		},
	},
}

func (s *Shell) exec(name string, args []string) (string, error) {
	cmd, found := commands[name]
	if !found {
		return "", fmt.Errorf("`%s`: %w", name, UnknownCommandErr)
	}
	if len(args) != len(cmd.args) {
		return "", fmt.Errorf(
			"%w: %s",
			UsageErr,
			strings.Join(append([]string{name}, cmd.args...), " "),
		)
	}
	return cmd.run(s, args)
}

func parseFD(arg string) (descriptor.FD, error) {
	fd, err := strconv.Atoi(arg)
	if err != nil {
		return -1, fmt.Errorf("parsing FD `%s`: %w", arg, err)
	}
	return descriptor.FD(fd), nil
}

func parseCount(what, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("parsing %s `%s`: %w", what, arg, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("parsing %s `%s`: negative", what, arg)
	}
	return n, nil
}
