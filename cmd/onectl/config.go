package main

import (
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/joshuapare/onestore/internal/format"
	"github.com/joshuapare/onestore/onestore/walker"
	"github.com/joshuapare/onestore/pkg/onenote"
)

// fileConfig is the layout of the --config file. Unset keys keep their
// defaults.
type fileConfig struct {
	CrawlAllFileNodesFromRoot *bool    `toml:"crawl_all_file_nodes_from_root"`
	OnlyLatestRevision        *bool    `toml:"only_latest_revision"`
	UTF16PropertiesToPrint    []string `toml:"utf16_properties_to_print"`
	MaxListDepth              *int     `toml:"max_list_depth"`

	Legacy struct {
		MinLength     *int     `toml:"min_length"`
		MinAlphaRatio *float64 `toml:"min_alpha_ratio"`
	} `toml:"legacy"`
}

func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load TOML: %s", path)
	}
	if err := tree.Unmarshal(cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal TOML: %s", path)
	}
	return cfg, nil
}

func (c *fileConfig) apply(opts *onenote.Options) error {
	if c.CrawlAllFileNodesFromRoot != nil {
		opts.Walker.CrawlAllFileNodesFromRoot = *c.CrawlAllFileNodesFromRoot
	}
	if c.OnlyLatestRevision != nil {
		opts.Walker.OnlyLatestRevision = *c.OnlyLatestRevision
	}
	if c.UTF16PropertiesToPrint != nil {
		set, err := propertySet(c.UTF16PropertiesToPrint)
		if err != nil {
			return errors.Wrap(err, "utf16_properties_to_print")
		}
		opts.Walker.UTF16PropertiesToPrint = set
	}
	if c.MaxListDepth != nil {
		opts.MaxListDepth = *c.MaxListDepth
	}
	if c.Legacy.MinLength != nil {
		opts.Legacy.MinLength = *c.Legacy.MinLength
	}
	if c.Legacy.MinAlphaRatio != nil {
		opts.Legacy.MinAlphaRatio = *c.Legacy.MinAlphaRatio
	}
	return nil
}

func propertySet(names []string) (map[format.PropertyKind]struct{}, error) {
	kinds := make([]format.PropertyKind, 0, len(names))
	for _, name := range names {
		k, err := format.ParsePropertyKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return walker.PropertySet(kinds...), nil
}

// loadOptions builds the parse options from the defaults, the --config file
// and the global flags, in that order.
func loadOptions() (onenote.Options, error) {
	opts := onenote.DefaultOptions()
	if configPath != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return opts, err
		}
		if err := cfg.apply(&opts); err != nil {
			return opts, err
		}
	}

	flags := rootCmd.PersistentFlags()
	if flags.Changed("crawl-all") {
		opts.Walker.CrawlAllFileNodesFromRoot = crawlAll
	}
	if flags.Changed("all-revisions") {
		opts.Walker.OnlyLatestRevision = !allRevisions
	}
	if flags.Changed("print-property") {
		set, err := propertySet(printProperty)
		if err != nil {
			return opts, errors.Wrap(err, "--print-property")
		}
		opts.Walker.UTF16PropertiesToPrint = set
	}
	return opts, nil
}
