// Package mounts implements `casterd mounts`, administering the mount
// authentication file without hand-editing it. `list` reads the file with
// the same parser (internal/ntrip/auth.Parse) the running server uses for
// hot-reload; `add` and `remove` rewrite the mountpoint's line by path
// prefix without going through that parser. A change followed by the
// server's periodic mtime check (or `casterd mounts reload`) takes effect
// without a restart.
package mounts

import (
	"github.com/spf13/cobra"
)

// Command returns the "mounts" command group.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mounts",
		Short: "Administer the mount authentication file",
	}
	cmd.AddCommand(listCmd)
	cmd.AddCommand(addCmd)
	cmd.AddCommand(removeCmd)
	cmd.AddCommand(reloadCmd)
	return cmd
}

// resolveMountFile returns the mount file path: the --config flag's
// configured auth.mount_file if set, otherwise the default configuration's.
func resolveMountFile(cmd *cobra.Command) (string, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configFile)
	if err != nil {
		return "", err
	}
	return cfg.Auth.MountFile, nil
}
