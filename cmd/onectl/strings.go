package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/onestore/onestore"
	"github.com/joshuapare/onestore/onestore/legacy"
)

var (
	stringsCmd       *cobra.Command
	stringsMinLength int
	stringsMinRatio  float64
	stringsOffsets   bool
)

func init() {
	cmd := newStringsCmd()
	stringsCmd = cmd
	cmd.Flags().IntVar(&stringsMinLength, "min-length", legacy.DefaultMinLength, "Shortest run reported")
	cmd.Flags().
		Float64Var(&stringsMinRatio, "min-ratio", legacy.DefaultMinAlphaRatio, "Share of letters and spaces a run must exceed")
	cmd.Flags().BoolVar(&stringsOffsets, "offsets", true, "Prefix each run with its file offset")
	rootCmd.AddCommand(cmd)
}

func newStringsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strings <file>",
		Short: "Scan a file for printable text runs",
		Long: `The strings command skips the structured parser and scans the raw bytes
for printable ASCII and UTF-16LE runs, the way files in legacy or
alternative packaging are handled. UTF-16 runs are marked with "w".

Example:
  onectl strings Notes.one
  onectl strings Notes.one --min-length 12 --offsets=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStrings(args)
		},
	}
	return cmd
}

func runStrings(args []string) error {
	path := args[0]
	opts := legacy.Options{MinLength: stringsMinLength, MinAlphaRatio: stringsMinRatio}
	if configPath != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if v := cfg.Legacy.MinLength; v != nil && !stringsCmd.Flags().Changed("min-length") {
			opts.MinLength = *v
		}
		if v := cfg.Legacy.MinAlphaRatio; v != nil && !stringsCmd.Flags().Changed("min-ratio") {
			opts.MinAlphaRatio = *v
		}
	}

	f, err := onestore.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return legacy.Scan(f, opts, func(r legacy.Run) error {
		switch {
		case !stringsOffsets:
			printInfo("%s\n", r.Text)
		case r.Wide:
			printInfo("%08x w %s\n", r.Offset, r.Text)
		default:
			printInfo("%08x   %s\n", r.Offset, r.Text)
		}
		return nil
	})
}
