package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/corey/jsgettext/internal/config"
)

// extractFlags are the flags shared by extract and watch. A flag only
// overrides the loaded configuration when it was given.
type extractFlags struct {
	keywords      []string
	noDefaultKw   bool
	commentPrefix string
	noComments    bool
	output        string
	format        string
	dialect       string
	workers       int
	noCache       bool
	fresh         bool
	prefilter     bool
	keepGoing     bool
	include       []string
	exclude       []string
	packageName   string
	packageVer    string
	bugsAddress   string
}

func (f *extractFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringArrayVarP(&f.keywords, "keyword", "k", nil, "Keyword spec, e.g. gettext, pgettext:1c,2, ngettext:1,2 (repeatable)")
	fl.BoolVar(&f.noDefaultKw, "no-default-keywords", false, "Drop the configured keywords; use only --keyword")
	fl.StringVar(&f.commentPrefix, "comment-prefix", "", "Translator comment regex, must not be empty (default: translators:)")
	fl.BoolVar(&f.noComments, "no-comments", false, "Do not collect translator comments")
	fl.StringVarP(&f.output, "output", "o", "", "Output file (default: stdout)")
	fl.StringVarP(&f.format, "format", "f", "", "Output format: po, json, records")
	fl.StringVar(&f.dialect, "dialect", "", "Parse every file with this grammar (default: by extension)")
	fl.IntVarP(&f.workers, "workers", "j", 0, "Parallel workers (default: one per CPU)")
	fl.BoolVar(&f.noCache, "no-cache", false, "Do not read or write the extraction cache")
	fl.BoolVar(&f.fresh, "fresh", false, "Discard cached results before extracting")
	fl.BoolVar(&f.prefilter, "prefilter", false, "Skip files with no keyword text without parsing them")
	fl.BoolVar(&f.keepGoing, "keep-going", false, "Skip files that fail to parse instead of aborting")
	fl.StringArrayVar(&f.include, "include", nil, "Glob of files to extract when walking directories (repeatable)")
	fl.StringArrayVar(&f.exclude, "exclude", nil, "Glob of files to skip when walking directories (repeatable)")
	fl.StringVar(&f.packageName, "package-name", "", "Package name for the PO header")
	fl.StringVar(&f.packageVer, "package-version", "", "Package version for the PO header")
	fl.StringVar(&f.bugsAddress, "msgid-bugs-address", "", "Report-Msgid-Bugs-To for the PO header")
}

// apply overlays the given flags onto cfg.
func (f *extractFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed

	if f.noDefaultKw {
		cfg.Keywords = nil
	}
	if changed("keyword") {
		cfg.Keywords = append(cfg.Keywords, f.keywords...)
	}
	if changed("comment-prefix") {
		if f.commentPrefix == "" {
			return errors.New("--comment-prefix must not be empty (use --no-comments to drop comments)")
		}
		cfg.CommentPrefix = f.commentPrefix
	}
	if changed("no-comments") {
		cfg.NoComments = f.noComments
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("format") {
		cfg.Format = f.format
	}
	if changed("dialect") {
		cfg.Dialect = f.dialect
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("no-cache") {
		cfg.Cache = !f.noCache
	}
	if changed("prefilter") {
		cfg.Prefilter = f.prefilter
	}
	if changed("keep-going") {
		cfg.KeepGoing = f.keepGoing
	}
	if changed("include") {
		cfg.Include = f.include
	}
	if changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if changed("package-name") {
		cfg.Package.Name = f.packageName
	}
	if changed("package-version") {
		cfg.Package.Version = f.packageVer
	}
	if changed("msgid-bugs-address") {
		cfg.Package.BugsAddress = f.bugsAddress
	}
	return nil
}

// loadConfig loads the project configuration and overlays the flags.
func loadConfig(cmd *cobra.Command, root string, f *extractFlags) (*config.Config, error) {
	cfg, err := config.Load(root, configPath)
	if err != nil {
		return nil, err
	}
	if f != nil {
		if err := f.apply(cmd, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
