package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/weberc2/ecsfs/pkg/config"
	"github.com/weberc2/ecsfs/pkg/format"
	"github.com/weberc2/ecsfs/pkg/fs"
	"github.com/weberc2/ecsfs/pkg/logger"
	"github.com/weberc2/ecsfs/pkg/shell"
)

func main() {
	app := cli.App{
		Name:  "ecsfs",
		Usage: "create and manipulate ECS150 FAT filesystem images",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "image",
				Aliases: []string{"i"},
				Usage:   "path to the image file (overrides ECSFS_IMAGE)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn, or error (overrides ECSFS_LOG_LEVEL)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json (overrides ECSFS_LOG_FORMAT)",
			},
			&cli.BoolFlag{
				Name:  "color",
				Usage: "colorize output (overrides ECSFS_COLOR)",
			},
		},
		Commands: []*cli.Command{{
			Name:      "mkfs",
			Aliases:   []string{"format"},
			Usage:     "create a new, empty image",
			ArgsUsage: "[IMAGE]",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "blocks",
					Aliases:  []string{"b"},
					Usage:    "number of data blocks",
					Required: true,
				},
				&cli.StringFlag{
					Name: "label",
					Usage: "human readable name; the image file is named " +
						"after it when no IMAGE is given",
				},
			},
			Action: func(ctx *cli.Context) error {
				c, err := loadConfig(ctx)
				if err != nil {
					return err
				}
				image := ctx.Args().First()
				if image == "" && ctx.String("label") != "" {
					image = slug.Make(ctx.String("label")) + ".img"
				}
				if image == "" {
					image = c.Image
				}
				if image == "" {
					return fmt.Errorf(
						"mkfs: missing IMAGE, --label, or --image",
					)
				}
				if _, err := newLogger(c); err != nil {
					return err
				}
				if err := format.Create(image, ctx.Int("blocks")); err != nil {
					return err
				}
				fmt.Println(image)
				return nil
			},
		}, {
			Name:  "info",
			Usage: "print the layout and free space of an image",
			Action: withFS(func(filesystem *fs.FileSystem, ctx *cli.Context) error {
				info, err := filesystem.Info()
				if err != nil {
					return err
				}
				shell.PrintInfo(os.Stdout, &info)
				return nil
			}),
		}, {
			Name:  "ls",
			Usage: "list the files in an image",
			Action: withFS(func(filesystem *fs.FileSystem, ctx *cli.Context) error {
				entries, err := filesystem.Ls()
				if err != nil {
					return err
				}
				shell.PrintEntries(os.Stdout, entries)
				return nil
			}),
		}, {
			Name:      "add",
			Aliases:   []string{"put"},
			Usage:     "copy a host file into the image",
			ArgsUsage: "HOSTFILE [NAME]",
			Action: withFS(func(filesystem *fs.FileSystem, ctx *cli.Context) error {
				host := ctx.Args().Get(0)
				if host == "" {
					return fmt.Errorf("add: missing HOSTFILE")
				}
				name := ctx.Args().Get(1)
				if name == "" {
					name = filepath.Base(host)
				}
				return add(filesystem, host, name)
			}),
		}, {
			Name:      "cat",
			Usage:     "write a file from the image to stdout",
			ArgsUsage: "NAME",
			Action: withFS(func(filesystem *fs.FileSystem, ctx *cli.Context) error {
				return cat(filesystem, ctx.Args().First(), os.Stdout)
			}),
		}, {
			Name:      "rm",
			Aliases:   []string{"delete"},
			Usage:     "delete a file from the image",
			ArgsUsage: "NAME",
			Action: withFS(func(filesystem *fs.FileSystem, ctx *cli.Context) error {
				return filesystem.Delete(ctx.Args().First())
			}),
		}, {
			Name:      "stat",
			Usage:     "print the size of a file in the image",
			ArgsUsage: "NAME",
			Action: withFS(func(filesystem *fs.FileSystem, ctx *cli.Context) error {
				name := ctx.Args().First()
				fd, err := filesystem.Open(name)
				if err != nil {
					return err
				}
				size, err := filesystem.Stat(fd)
				if err != nil {
					return multierr.Append(err, filesystem.Close(fd))
				}
				fmt.Printf("file: %s, size: %d\n", name, size)
				return filesystem.Close(fd)
			}),
		}, {
			Name:      "shell",
			Usage:     "run filesystem commands from a script or stdin",
			ArgsUsage: "[SCRIPT]",
			Action: func(ctx *cli.Context) error {
				c, err := loadConfig(ctx)
				if err != nil {
					return err
				}
				log, err := newLogger(c)
				if err != nil {
					return err
				}

				var script io.Reader = os.Stdin
				if path := ctx.Args().First(); path != "" {
					file, err := os.Open(path)
					if err != nil {
						return fmt.Errorf("opening script: %w", err)
					}
					defer file.Close()
					script = file
				}

				filesystem := fs.New(log)
				if c.Image != "" {
					if err := filesystem.Mount(c.Image); err != nil {
						return err
					}
				}
				failed, err := shell.New(filesystem, os.Stdout, c.Color).
					Run(script)
				if filesystem.Mounted() {
					err = multierr.Append(err, filesystem.Unmount())
				}
				if err != nil {
					return err
				}
				if failed > 0 {
					return fmt.Errorf("shell: `%d` commands failed", failed)
				}
				return nil
			},
		}},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

// loadConfig loads the config file and environment, then applies any global
// flags that were set explicitly.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	c, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if ctx.IsSet("image") {
		c.Image = ctx.String("image")
	}
	if ctx.IsSet("log-level") {
		c.LogLevel = ctx.String("log-level")
	}
	if ctx.IsSet("log-format") {
		c.LogFormat = ctx.String("log-format")
	}
	if ctx.IsSet("color") {
		c.Color = ctx.Bool("color")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// newLogger builds the configured logger and installs it as the logrus
// standard logger too, since the format package logs there.
func newLogger(c *config.Config) (*logrus.Logger, error) {
	log, err := logger.New(os.Stderr, c)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(log.GetLevel())
	logrus.SetFormatter(log.Formatter)
	return log, nil
}

func withFS(f func(*fs.FileSystem, *cli.Context) error) cli.ActionFunc {
	return func(ctx *cli.Context) (err error) {
		c, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		if c.Image == "" {
			return fmt.Errorf(
				"missing required configuration: image / ECSFS_IMAGE",
			)
		}
		log, err := newLogger(c)
		if err != nil {
			return err
		}

		filesystem := fs.New(log)
		if err := filesystem.Mount(c.Image); err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, filesystem.Unmount()) }()
		return f(filesystem, ctx)
	}
}

func add(filesystem *fs.FileSystem, host, name string) error {
	data, err := os.ReadFile(host)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	if err := filesystem.Create(name); err != nil {
		return err
	}
	fd, err := filesystem.Open(name)
	if err != nil {
		return err
	}
	n, err := filesystem.Write(fd, data)
	if err == nil && n < len(data) {
		err = fmt.Errorf(
			"add: wrote `%d` of `%d` bytes of `%s`: %w",
			n,
			len(data),
			host,
			fs.DiskFullErr,
		)
	}
	return multierr.Append(err, filesystem.Close(fd))
}

func cat(filesystem *fs.FileSystem, name string, w io.Writer) error {
	fd, err := filesystem.Open(name)
	if err != nil {
		return err
	}
	size, err := filesystem.Stat(fd)
	if err != nil {
		return multierr.Append(err, filesystem.Close(fd))
	}
	p := make([]byte, size)
	n, err := filesystem.Read(fd, p)
	if err == nil {
		_, err = w.Write(p[:n])
	}
	return multierr.Append(err, filesystem.Close(fd))
}
