package main

import (
	"os"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/onestore/internal/format"
	"github.com/joshuapare/onestore/pkg/onenote"
	"github.com/joshuapare/onestore/pkg/types"
)

var infoJSON bool

func init() {
	cmd := newInfoCmd()
	cmd.Flags().BoolVar(&infoJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(cmd)
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Report the header and metadata of a file",
		Long: `The info command parses a file and displays its header fields,
authors and timestamps together with counts of the objects it holds.

Example:
  onectl info Notes.one
  onectl info Notes.one --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

// fileInfo is the --json form of the info command.
type fileInfo struct {
	File       string              `json:"file"`
	Size       int64               `json:"size"`
	Type       string              `json:"type"`
	Mode       onenote.Mode        `json:"mode"`
	Metadata   onenote.MapMetadata `json:"metadata"`
	Objects    int                 `json:"objects,omitempty"`
	Revisions  int                 `json:"revisions,omitempty"`
	FileData   int                 `json:"fileData,omitempty"`
	LegacyRuns int                 `json:"legacyRuns,omitempty"`
}

func fileTypeName(g format.GUID) string {
	switch g {
	case format.FileTypeOne:
		return "section (.one)"
	case format.FileTypeOneToc2:
		return "table of contents (.onetoc2)"
	}
	return "unknown " + g.String()
}

func runInfo(args []string) error {
	path := args[0]
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	printVerbose("Parsing %s\n", path)
	meta := onenote.MapMetadata{}
	res, err := onenote.ParseFile(path, types.Sinks{Metadata: meta}, opts)
	if err != nil {
		return err
	}

	info := fileInfo{
		File:       path,
		Type:       fileTypeName(res.Header.GUIDFileType),
		Mode:       res.Mode,
		Metadata:   meta,
		LegacyRuns: res.Strings,
	}
	if stat, err := os.Stat(path); err == nil {
		info.Size = stat.Size()
	}
	if doc := res.Document; doc != nil {
		info.Objects = len(doc.Objects)
		info.Revisions = len(doc.Revisions)
		info.FileData = len(doc.FileData)
	}

	if infoJSON {
		return printJSON(info)
	}

	printInfo("\nFile Information:\n")
	printInfo("  File: %s\n", info.File)
	printInfo("  Size: %s\n", humanize.IBytes(uint64(info.Size)))
	printInfo("  Type: %s\n", info.Type)
	printInfo("  Format: %s\n", res.Header.GUIDFileFormat)
	printInfo("  Mode: %s\n", info.Mode)
	if res.Mode == onenote.ModeStructured {
		printInfo("  Objects: %s\n", humanize.Comma(int64(info.Objects)))
		printInfo("  Revisions: %s\n", humanize.Comma(int64(info.Revisions)))
		printInfo("  Embedded files: %s\n", humanize.Comma(int64(info.FileData)))
	} else {
		printInfo("  Strings: %s\n", humanize.Comma(int64(info.LegacyRuns)))
	}

	if len(meta) > 0 {
		printInfo("\nMetadata:\n")
		for _, k := range meta.Keys() {
			for _, v := range meta[k] {
				printInfo("  %s: %s\n", k, v)
			}
		}
	}
	return nil
}
