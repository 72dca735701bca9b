package mounts

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var removeUsername string

var removeCmd = &cobra.Command{
	Use:   "remove <mountpoint>",
	Short: "Remove a mountpoint, or one user from it with --username",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	removeCmd.Flags().StringVar(&removeUsername, "username", "", "Remove only this user, leaving the rest of the mountpoint's ACL intact")
}

func runRemove(cmd *cobra.Command, args []string) error {
	path, err := resolveMountFile(cmd)
	if err != nil {
		return err
	}

	mountpoint := args[0]
	if !strings.HasPrefix(mountpoint, "/") {
		mountpoint = "/" + mountpoint
	}

	lines, err := readLines(path)
	if err != nil {
		return err
	}

	out := make([]string, 0, len(lines))
	removed := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, mountpoint+":") {
			out = append(out, line)
			continue
		}

		if removeUsername == "" {
			removed = true
			continue
		}

		rewritten, ok := removeUserFromLine(trimmed, removeUsername)
		if ok {
			removed = true
		}
		if rewritten != "" {
			out = append(out, rewritten)
		}
	}

	if !removed {
		return fmt.Errorf("mountpoint %s not found in %s", mountpoint, path)
	}

	if err := writeLines(path, out); err != nil {
		return err
	}

	if removeUsername != "" {
		fmt.Printf("Removed %s from %s in %s\n", removeUsername, mountpoint, path)
	} else {
		fmt.Printf("Removed %s from %s\n", mountpoint, path)
	}
	return nil
}

// removeUserFromLine drops username's credential from a
// "/mount:user1:pw1,user2:pw2" line, reporting whether it was present. An
// empty return with ok=true means the mountpoint had no users left and the
// whole line should be dropped.
func removeUserFromLine(line, username string) (rewritten string, ok bool) {
	path, rest, found := strings.Cut(line, ":")
	if !found {
		return line, false
	}

	var kept []string
	for _, pair := range strings.Split(rest, ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(pair), ":")
		if name == username {
			ok = true
			continue
		}
		if pair != "" {
			kept = append(kept, pair)
		}
	}

	if !ok {
		return line, false
	}
	if len(kept) == 0 {
		return "", true
	}
	return path + ":" + strings.Join(kept, ","), true
}
