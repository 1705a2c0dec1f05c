package cmd

import (
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const updateRepo = "lukrum/fxmodels"

// updateCmd updates the binary to the latest release
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update fxmodels to the latest version",
	RunE:  runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if _, err := semver.ParseTolerant(version); err != nil {
		return fmt.Errorf("cannot update a non-release build (%s): %w", version, err)
	}

	ctx := cmd.Context()
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(updateRepo))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found || latest.LessOrEqual(version) {
		fmt.Printf("Current version %s is the latest.\n", version)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}

	fmt.Printf("Updating %s -> %s...\n", version, latest.Version())
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Printf("Successfully updated to %s\n", latest.Version())
	return nil
}
