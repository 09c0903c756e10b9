package main

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/bodgit/netpbm"
	"github.com/bodgit/netpbm/catalog"
)

const defaultDB = "netpbm.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	for _, file := range c.Args().Slice() {
		f, err := catalog.Open(file)
		if err != nil {
			return cli.Exit(err, 1)
		}

		h, err := netpbm.DecodeHeader(f)
		f.Close()
		if err != nil {
			return cli.Exit(fmt.Errorf("%s: %w", file, err), 1)
		}

		fmt.Printf("%s: %s %s %dx%d maxval %d\n", file, h.Magic, netpbm.MIMEType(h.Magic), h.Width, h.Height, h.MaxVal)
	}

	return nil
}

// formatFor picks the target subformat from an explicit flag or, failing
// that, the destination extension.
func formatFor(c *cli.Context, dst string) string {
	if format := c.String("format"); format != "" {
		return format
	}
	return strings.TrimPrefix(filepath.Ext(dst), ".")
}

func main() {
	app := cli.NewApp()

	app.Name = "netpbm"
	app.Usage = "Netpbm image utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "info",
			Usage:     "Print the header of one or more Netpbm files",
			ArgsUsage: "FILE...",
			Action:    info,
		},
		{
			Name:      "convert",
			Usage:     "Convert an image to a Netpbm format",
			ArgsUsage: "SRC DST",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Usage:   "target format: pbm, pgm or ppm (defaults to the DST extension)",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				src, dst := c.Args().Get(0), c.Args().Get(1)
				if err := convert(src, dst, formatFor(c, dst)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "scan",
			Usage:     "Scan a directory tree and catalog every Netpbm file",
			ArgsUsage: "DIRECTORY",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "db",
					EnvVars: []string{"NETPBM_DB"},
					Value:   filepath.Join(cwd, defaultDB),
					Usage:   "path to catalog database",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := catalog.New(c.String("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				s := catalog.NewScanner(db, newLogger(c))
				if err := s.Scan(c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
