package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/jsgettext/internal/app"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the extraction cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cache database and run summary",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	p := app.NewPaths(root)
	if err := p.Clean(); err != nil {
		return err
	}
	fmt.Printf("cleared %s\n", p.Root)
	return nil
}
