package mounts

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ntripcaster/caster/internal/cli/prompt"
)

var (
	addMountpoint string
	addUsername   string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a user to a mountpoint, prompting for any values not given as flags",
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addMountpoint, "mountpoint", "", "Mountpoint path, e.g. /MOUNT1")
	addCmd.Flags().StringVar(&addUsername, "username", "", "Username to authorize")
}

func runAdd(cmd *cobra.Command, args []string) error {
	path, err := resolveMountFile(cmd)
	if err != nil {
		return err
	}

	mountpoint := addMountpoint
	if mountpoint == "" {
		mountpoint, err = prompt.InputRequired("Mountpoint (e.g. /MOUNT1)")
		if err != nil {
			return err
		}
	}
	if !strings.HasPrefix(mountpoint, "/") {
		mountpoint = "/" + mountpoint
	}

	username := addUsername
	if username == "" {
		username, err = prompt.InputRequired("Username")
		if err != nil {
			return err
		}
	}

	password, err := prompt.Password("Password", 4)
	if err != nil {
		return err
	}
	confirm, err := prompt.Password("Confirm password", 4)
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	ok, err := prompt.Confirm(fmt.Sprintf("Add %s:%s to %s", username, strings.Repeat("*", len(password)), mountpoint))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Aborted")
		return nil
	}

	if err := appendCredential(path, mountpoint, username, password); err != nil {
		return err
	}

	fmt.Printf("Added %s to %s in %s\n", username, mountpoint, path)
	return nil
}

// appendCredential adds name:password to mountpoint's line in the mount
// file, creating both the file and the line if they don't yet exist.
// Following the grammar of internal/ntrip/auth.Parse: a line is
// "/<mountpoint>:<user1>:<pw1>,<user2>:<pw2>,…"; a later duplicate
// mountpoint line wins entirely, so this rewrites the single line for
// mountpoint in place rather than appending a second one.
func appendCredential(path, mountpoint, username, password string) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}

	credential := username + ":" + password
	found := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, mountpoint+":") {
			continue
		}
		lines[i] = trimmed + "," + credential
		found = true
		break
	}
	if !found {
		lines = append(lines, mountpoint+":"+credential)
	}

	return writeLines(path, lines)
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read mount file: %w", err)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func writeLines(path string, lines []string) error {
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("write mount file: %w", err)
	}
	return nil
}
