package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	rootDir    string
	colorMode  string
)

var rootCmd = &cobra.Command{
	Use:   "jsgettext",
	Short: "jsgettext: gettext string extraction for JavaScript",
	Long: "Finds calls to gettext keyword functions in JavaScript, JSX and TypeScript\n" +
		"sources and writes the strings as a PO template or JSON.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// setupLogging sends human-readable logs to stderr so stdout stays free
// for catalog output.
func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: !resolveColor(colorMode, isStderrTTY),
	})
}

// projectRoot returns --root, or the working directory.
func projectRoot() (string, error) {
	if rootDir != "" {
		return rootDir, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return dir, nil
}

// setupContext returns a context cancelled on SIGINT or SIGTERM.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log progress and cache activity to stderr")
	pf.StringVar(&configPath, "config", "", "Config file (default: .jsgettext.yaml in the project root)")
	pf.StringVar(&rootDir, "root", "", "Project root (default: current directory)")
	pf.StringVar(&colorMode, "color", "auto", "Color output: auto, always, never")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(grammarsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(statusCmd)
}
