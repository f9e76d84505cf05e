// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/libhtlc-go/config"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the resolved settings to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			path := config.ConfigPath(rootOpts.Config.DataDir)
			if _, err := os.Stat(path); err == nil && !force {
				return failure(out, "init", usageError("%s exists (use --force to overwrite)", path))
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return failure(out, "init", err)
			}

			if err := config.SaveConfig(path, rootOpts.Config); err != nil {
				return failure(out, "init", err)
			}
			rootOpts.Log.Info("config written")
			return success(out, struct {
				Path   string        `json:"path"`
				Config config.Config `json:"config"`
			}{path, rootOpts.Config})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
