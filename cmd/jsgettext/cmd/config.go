package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/corey/jsgettext/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  "Prints the configuration after applying the config file, .env and JSGETTEXT_* variables.",
	RunE:  runConfigShow,
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .jsgettext.yaml",
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, root, nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c := newPalette(resolveColor(colorMode, func() bool { return isTTY(os.Stdout) }))
	source := configPath
	if source == "" {
		source = filepath.Join(root, config.DefaultFile)
		if !config.Exists(source) {
			source = "(defaults)"
		}
	}
	fmt.Printf("%s⚡ jsgettext config%s %s# %s%s\n", c.bold, c.reset, c.gray, source, c.reset)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	path := configPath
	if path == "" {
		path = filepath.Join(root, config.DefaultFile)
	}
	if config.Exists(path) && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.DefaultConfig().SaveToFile(path); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
