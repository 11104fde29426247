package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/jsgettext/internal/app"
	"github.com/corey/jsgettext/internal/domain/status"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the summary of the last extraction run",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the raw status JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	p := app.NewPaths(root)
	sd, err := status.ReadJSON(p.Status)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("no run recorded in %s (run jsgettext extract first)", p.Root)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", p.Status, err)
	}

	if statusJSON {
		data, err := os.ReadFile(p.Status)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	c := newPalette(resolveColor(colorMode, func() bool { return isTTY(os.Stdout) }))
	fmt.Print(formatStatus(sd, c))
	return nil
}

// formatStatus renders a status summary for the terminal.
func formatStatus(sd *status.StatusData, c palette) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s⚡ last run%s %s%s%s\n", c.bold, c.reset, c.gray, sd.Finished.Local().Format(time.DateTime), c.reset)
	fmt.Fprintf(&sb, "  Messages:   %d (%s)\n", sd.Messages, sd.Format)
	fmt.Fprintf(&sb, "  Files:      %d (%d parsed, %d cached, %d skipped)\n", sd.Files, sd.Parsed, sd.Cached, sd.Prefiltered)
	fmt.Fprintf(&sb, "  Duration:   %s\n", formatDuration(time.Duration(sd.DurationMS)*time.Millisecond))
	if len(sd.TopFiles) > 0 {
		fmt.Fprintf(&sb, "  Top files:  %s%s%s\n", c.cyan, strings.Join(sd.TopFiles, ", "), c.reset)
	}
	if sd.Failed > 0 {
		fmt.Fprintf(&sb, "  %sFailed:     %s%s\n", c.yellow, strings.Join(sd.FailedList, ", "), c.reset)
	}
	if sd.Dropped > 0 {
		fmt.Fprintf(&sb, "  %sDropped:    %d raw records%s\n", c.yellow, sd.Dropped, c.reset)
	}
	return sb.String()
}
