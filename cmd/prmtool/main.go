// Command prmtool logs PRISMS-PF calculations to a spreadsheet run log and
// organizes simulation directories for archival import.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/prisms-tools/prm"
	"github.com/prisms-tools/prm/organize"
	"github.com/prisms-tools/prm/sheet"
)

func main() {
	app := &cli.App{
		Name:  "prmtool",
		Usage: "log simulation parameter files and organize run directories",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			level := slog.LevelInfo
			if c.Bool("verbose") {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
		Commands: []*cli.Command{
			logCommand(),
			importCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("prmtool failed", "error", err)
		os.Exit(1)
	}
}

func logCommand() *cli.Command {
	return &cli.Command{
		Name:      "log",
		Usage:     "parse a parameter file and append the calculation to the run spreadsheet",
		ArgsUsage: "<parameters.prm>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "calc",
				Usage:    "calculation label",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "source directory holding the sidecar files (default: directory of the parameter file)",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "spreadsheet path",
			},
			&cli.StringFlag{
				Name:  "sheet",
				Usage: "sheet label (default: the calculation label)",
			},
			&cli.BoolFlag{
				Name:  "deep",
				Usage: "one column per parameter at any depth, named by dotted path",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML file with spreadsheet defaults",
			},
		},
		Action: runLog,
	}
}

func runLog(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one parameter file", 2)
	}
	prmFile := c.Args().First()

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}

	calc := c.String("calc")
	out := firstOf(c.String("out"), cfg.Spreadsheet, defaultSpreadsheet)
	label := firstOf(c.String("sheet"), cfg.Sheet, calc)
	srcDir := c.String("dir")
	if srcDir == "" {
		srcDir = filepath.Dir(prmFile)
	}

	doc, err := prm.NewParser().ParseFile(prmFile)
	if err != nil {
		return fmt.Errorf("parse %s: %w", prmFile, err)
	}
	if n := len(doc.Diags); n > 0 {
		slog.Info("parameter file had unparseable lines", "file", prmFile, "count", n)
	}

	var rec prm.Record
	if c.Bool("deep") {
		rec, err = doc.DeepRecord(calc, srcDir)
	} else {
		rec, err = doc.Record(calc, srcDir)
	}
	if err != nil {
		return err
	}

	if err := sheet.Append(out, label, rec); err != nil {
		return fmt.Errorf("append to %s: %w", out, err)
	}
	slog.Info("logged calculation",
		"calc", calc,
		"spreadsheet", out,
		"sheet", label,
		"columns", len(rec.Columns),
	)
	return nil
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "organize a run directory into the archival layout",
		ArgsUsage: "<src> [dst]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "move",
				Usage: "move bulk output files instead of copying them",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 || c.NArg() > 2 {
				return cli.Exit("expected a source directory and an optional destination", 2)
			}
			res := organize.Run(organize.Options{
				SrcDir:     c.Args().Get(0),
				DstDir:     c.Args().Get(1),
				CopyOutput: !c.Bool("move"),
			})
			if !res.Success {
				slog.Error("import failed", "src", res.SrcDir, "dst", res.DstDir, "message", res.Message)
				return cli.Exit(res.Message, 1)
			}
			slog.Info("import finished", "src", res.SrcDir, "dst", res.DstDir, "elapsed", res.Elapsed)
			return nil
		},
	}
}
