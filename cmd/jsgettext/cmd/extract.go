package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/jsgettext/internal/app"
	"github.com/corey/jsgettext/internal/config"
)

var extractOpts extractFlags

var extractCmd = &cobra.Command{
	Use:   "extract [path...]",
	Short: "Extract translatable strings",
	Long: "Extracts strings from the given files, directories and globs (default: the\n" +
		"project root). Use - to read source from stdin.\n\n" +
		"Examples:\n" +
		"  jsgettext extract src -o locale/messages.pot\n" +
		"  jsgettext extract -k pgettext:1c,2 -k ngettext:1,2 'src/**/*.tsx'\n" +
		"  cat app.js | jsgettext extract --format json -",
	RunE: runExtract,
}

func init() {
	extractOpts.bind(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, &extractOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := setupContext()
	defer cancel()

	res, err := a.Run(ctx, args)
	if err != nil {
		return err
	}
	if err := a.WriteOutput(res); err != nil {
		return err
	}
	if verbose || a.Settings().Output != "" {
		fmt.Fprintln(os.Stderr, formatSummary(res, resolveColor(colorMode, isStderrTTY)))
	}
	return nil
}

// openApp loads configuration for the project root and builds the App.
func openApp(cmd *cobra.Command, f *extractFlags) (*app.App, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(cmd, root, f)
	if err != nil {
		return nil, err
	}
	a, err := newApp(root, cfg)
	if err != nil {
		return nil, err
	}
	if f.fresh {
		if err := a.PurgeCache(); err != nil {
			a.Close()
			return nil, fmt.Errorf("purge cache: %w", err)
		}
	}
	return a, nil
}

func newApp(root string, cfg *config.Config) (*app.App, error) {
	a, err := app.New(app.Config{ProjectRoot: root, Settings: cfg})
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%w\n%s", err, diagnoseDBLock())
		}
		return nil, err
	}
	return a, nil
}
