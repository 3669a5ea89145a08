package main

import (
	"bytes"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/onestore/pkg/onenote"
	"github.com/joshuapare/onestore/pkg/types"
)

var (
	textXHTML   bool
	textHeaders bool
)

func init() {
	cmd := newTextCmd()
	cmd.Flags().BoolVar(&textXHTML, "xhtml", false, "Write XHTML elements instead of plain text")
	cmd.Flags().BoolVar(&textHeaders, "headers", false, "Print a ==> FILE <== line before each file")
	rootCmd.AddCommand(cmd)
}

func newTextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text <file>...",
		Short: "Extract the text of one or more files",
		Long: `The text command extracts the printable text of each file. Files are
parsed concurrently; output is written in argument order.

Example:
  onectl text Notes.one
  onectl text --xhtml Notes.one
  onectl text --all-revisions *.one`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runText(args)
		},
	}
	return cmd
}

func runText(args []string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	outputs := make([]bytes.Buffer, len(args))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range args {
		g.Go(func() error {
			printVerbose("Parsing %s\n", path)
			if textXHTML {
				_, err := onenote.ParseFile(path, types.Sinks{Content: onenote.NewXHTMLSink(&outputs[i])}, opts)
				return errors.Wrap(err, path)
			}
			var sink onenote.TextSink
			if _, err := onenote.ParseFile(path, types.Sinks{Content: &sink}, opts); err != nil {
				return errors.Wrap(err, path)
			}
			outputs[i].WriteString(sink.String())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range outputs {
		if textHeaders {
			printInfo("==> %s <==\n", args[i])
		}
		if _, err := os.Stdout.Write(outputs[i].Bytes()); err != nil {
			return err
		}
	}
	return nil
}
