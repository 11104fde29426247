package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/jsgettext/internal/adapters/fsnotify"
	"github.com/corey/jsgettext/internal/app"
)

var watchOpts extractFlags

var watchCmd = &cobra.Command{
	Use:   "watch [path...]",
	Short: "Re-extract whenever a source file changes",
	Long: "Runs extract, then watches the project root and writes the output again\n" +
		"after every change to a matching source file. Stop with Ctrl-C.",
	RunE: runWatch,
}

func init() {
	watchOpts.bind(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, &watchOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	w, err := fsnotify.NewWatcher(fsnotify.WithFilter(a.Accepts))
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	ctx, cancel := setupContext()
	defer cancel()

	color := resolveColor(colorMode, isStderrTTY)
	return a.Watch(ctx, args, w, func(res *app.Result) error {
		if err := a.WriteOutput(res); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, formatSummary(res, color))
		return nil
	})
}
