package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ntripcaster/caster/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a default casterd configuration file.

By default this writes to $XDG_CONFIG_HOME/casterd/config.yaml. Use --config
to write somewhere else.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := GetConfigFile()
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()
	if err := config.SaveConfig(cfg, path); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	fmt.Printf("Wrote default configuration to %s\n", path)
	return nil
}
