package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath    string
	crawlAll      bool
	allRevisions  bool
	printProperty []string
	verbose       bool
	trace         bool
	quiet         bool
)

var rootCmd = &cobra.Command{
	Use:   "onectl",
	Short: "Extract text, metadata and attachments from OneNote files",
	Long: `onectl reads OneNote section (.one) and table of contents (.onetoc2)
files. It reconstructs the revision store, walks the latest revision of every
page and writes the text, metadata and embedded files it finds. Files it cannot
parse structurally are scanned for printable strings.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Load options from a TOML file")
	rootCmd.PersistentFlags().BoolVar(&crawlAll, "crawl-all", false, "Walk every file node from the root instead of the revision graph")
	rootCmd.PersistentFlags().BoolVar(&allRevisions, "all-revisions", false, "Walk every revision, not just the latest")
	rootCmd.PersistentFlags().
		StringSliceVar(&printProperty, "print-property", nil, "Property kind whose text is printed (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "Enable trace logging (one record per property)")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

func configureLogging() {
	logrus.SetOutput(os.Stderr)
	switch {
	case trace:
		logrus.SetLevel(logrus.TraceLevel)
	case verbose:
		logrus.SetLevel(logrus.DebugLevel)
	case quiet:
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.WarnLevel)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
