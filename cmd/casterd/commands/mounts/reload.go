package mounts

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Force a running server to pick up mount file changes immediately",
	Long: `Touches the mount authentication file's modification time so a
running server's periodic mtime check reloads it immediately, instead of
waiting up to auth.rehash_interval.`,
	RunE: runReload,
}

func runReload(cmd *cobra.Command, args []string) error {
	path, err := resolveMountFile(cmd)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		return fmt.Errorf("touch mount file: %w", err)
	}

	fmt.Printf("Touched %s; the server will reload it on its next check.\n", path)
	return nil
}
