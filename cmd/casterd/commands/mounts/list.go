package mounts

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ntripcaster/caster/internal/cli/output"
	"github.com/ntripcaster/caster/internal/ntrip/auth"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List mountpoints and their authorized users",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	path, err := resolveMountFile(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No mount authentication file at %s yet (every mount is public).\n", path)
			return nil
		}
		return fmt.Errorf("read mount file: %w", err)
	}

	_, mountsTree, _ := auth.Parse(data)

	rows := make([][]string, 0, mountsTree.Len())
	for _, p := range mountsTree.Paths() {
		m, _ := mountsTree.Get(p)
		rows = append(rows, []string{p, strconv.Itoa(m.UserCount()), joinUsernames(m.Usernames())})
	}

	output.PrintTable(os.Stdout, []string{"Mountpoint", "Users", "Usernames"}, rows)
	return nil
}

func joinUsernames(names []string) string {
	if len(names) == 0 {
		return "(public)"
	}
	out := names[0]
	for _, n := range names[1:] {
		out += ", " + n
	}
	return out
}
