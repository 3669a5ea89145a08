package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/joshuapare/onestore/onestore/printer"
	"github.com/joshuapare/onestore/pkg/onenote"
	"github.com/joshuapare/onestore/pkg/types"
)

var (
	dumpFormat         string
	dumpDepth          int
	dumpMaxValueLength int
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVar(&dumpFormat, "format", "json", "Output format: json or text")
	cmd.Flags().IntVar(&dumpDepth, "depth", 0, "Maximum depth for text output (0 = unlimited)")
	cmd.Flags().
		IntVar(&dumpMaxValueLength, "max-value-length", printer.DefaultMaxValueLength, "Truncate text values longer than this (0 = no limit)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Dump the file node tree",
		Long: `The dump command prints the structure the walker builds: the header,
each revision and every file node with its property set.

Example:
  onectl dump Notes.one
  onectl dump Notes.one --format text --depth 6
  onectl dump Notes.one --crawl-all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	path := args[0]
	opts, err := loadOptions()
	if err != nil {
		return err
	}
	f, err := printer.ParseFormat(dumpFormat)
	if err != nil {
		return err
	}

	printVerbose("Parsing %s\n", path)
	res, err := onenote.ParseFile(path, types.Sinks{}, opts)
	if err != nil {
		return err
	}
	if res.Mode != onenote.ModeStructured {
		return errors.Errorf("%s: no file node tree, the file is in the %s layout", path, res.Header.GUIDFileFormat)
	}

	p := printer.New(os.Stdout, printer.Options{
		Format:         f,
		IndentSize:     printer.DefaultIndentSize,
		MaxDepth:       dumpDepth,
		MaxValueLength: dumpMaxValueLength,
	})
	return p.Print(res.Structure)
}
