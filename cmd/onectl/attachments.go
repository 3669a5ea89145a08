package main

import (
	"os"

	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/joshuapare/onestore/pkg/onenote"
	"github.com/joshuapare/onestore/pkg/types"
)

var attachmentsDir string

func init() {
	cmd := newAttachmentsCmd()
	cmd.Flags().StringVarP(&attachmentsDir, "output", "o", ".", "Directory the files are written to")
	rootCmd.AddCommand(cmd)
}

func newAttachmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attachments <file>",
		Short: "Write the embedded files of a file to a directory",
		Long: `The attachments command writes every embedded file (images, printouts,
attached documents) once, named after its file data GUID.

Example:
  onectl attachments Notes.one -o ./out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttachments(args)
		},
	}
	return cmd
}

func runAttachments(args []string) error {
	path := args[0]
	opts, err := loadOptions()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(attachmentsDir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", attachmentsDir)
	}

	printVerbose("Parsing %s\n", path)
	dir := &onenote.DirAttachments{Dir: attachmentsDir}
	if _, err := onenote.ParseFile(path, types.Sinks{Embedded: dir}, opts); err != nil {
		return err
	}

	written := dir.Written()
	var total uint64
	for _, a := range written {
		total += uint64(a.Size)
		printInfo("%s  %s  %s\n", a.Path, a.ContentType, humanize.IBytes(uint64(a.Size)))
	}
	printInfo("%d file(s), %s\n", len(written), humanize.IBytes(total))
	return nil
}
