package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/jsgettext/internal/adapters/treesitter"
	"github.com/corey/jsgettext/internal/app"
)

var grammarsCmd = &cobra.Command{
	Use:   "grammars",
	Short: "List dialect grammars",
	Long: "Lists compiled-in grammars, grammar libraries found in the search paths,\n" +
		"and the file extensions mapped to each dialect.",
	RunE: runGrammars,
}

func runGrammars(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, root, nil)
	if err != nil {
		return err
	}

	paths := app.GrammarPaths(root, cfg)
	p := treesitter.NewParser()
	p.SetGrammarPaths(paths)
	if err := p.LoadManifests(paths); err != nil {
		return err
	}

	builtin := treesitter.BuiltinManifest()
	compiled := make(map[string]bool)
	for _, d := range p.Dialects() {
		compiled[d] = true
	}

	// Group the registered extensions by dialect.
	exts := make(map[string][]string)
	for _, ext := range p.SupportedExtensions() {
		d := p.DialectFor("x" + ext)
		exts[d] = append(exts[d], ext)
	}
	installed := p.Loader().InstalledGrammars()
	names := make(map[string]bool)
	for d := range exts {
		names[d] = true
	}
	for _, d := range installed {
		names[d] = true
	}
	sorted := make([]string, 0, len(names))
	for d := range names {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	c := newPalette(resolveColor(colorMode, func() bool { return isTTY(os.Stdout) }))
	fmt.Printf("%s⚡ grammars%s %s(%s)%s\n", c.bold, c.reset, c.gray, treesitter.PlatformString(), c.reset)
	for _, d := range sorted {
		state := fmt.Sprintf("%s✗ missing%s", c.yellow, c.reset)
		switch {
		case compiled[d]:
			state = fmt.Sprintf("%s✓ built-in%s", c.green, c.reset)
		case p.Loader().GrammarPath(d) != "":
			state = fmt.Sprintf("%s✓ %s%s", c.green, p.Loader().GrammarPath(d), c.reset)
		}
		version := ""
		if info, ok := builtin.Grammars[d]; ok && compiled[d] {
			version = " " + info.Version
		}
		fmt.Printf("  %s%-12s%s %s%s  %s\n", c.cyan, d, c.reset, state, version, strings.Join(exts[d], " "))
	}

	fmt.Printf("\n  Search paths:\n")
	for _, dir := range p.Loader().SearchPaths() {
		fmt.Printf("    %s\n", dir)
	}
	fmt.Printf("  Libraries are named %s (entry point %s).\n",
		treesitter.SOBaseName("<dialect>")+treesitter.LibExtension(), treesitter.CSymbolName("<dialect>"))
	return nil
}
