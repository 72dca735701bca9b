// Package commands implements the casterd CLI: start the caster, initialize
// a configuration file, and administer the mount-authentication file.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/ntripcaster/caster/cmd/casterd/commands/mounts"
)

// Version, Commit, and Date are set from main via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "casterd",
	Short: "An NTRIP caster",
	Long: `casterd is an NTRIP caster: it accepts connections from GNSS base
stations and rover clients, authenticates each against a mount-point access
list, and relays correction streams between them.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to configuration file (default: $XDG_CONFIG_HOME/casterd/config.yaml)")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(mounts.Command())
}

// GetConfigFile returns the --config flag value, empty when unset.
func GetConfigFile() string {
	return configFile
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
