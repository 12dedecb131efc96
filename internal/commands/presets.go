package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bankfeed-dev/bankfeed/internal/preset"
)

func newPresetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage saved column-mapping presets",
	}
	cmd.AddCommand(newPresetsListCommand())
	cmd.AddCommand(newPresetsDeleteCommand())
	cmd.AddCommand(newPresetsUnlinkCommand())
	return cmd
}

func presetStore(cmd *cobra.Command) *preset.Store {
	return preset.NewStore(preset.NewFileKV(filepath.Join(workspaceDir(cmd), "presets")))
}

func newPresetsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := presetStore(cmd).All()
			if len(presets) == 0 {
				fmt.Println("No presets saved.")
				return nil
			}
			for _, p := range presets {
				scope := "generic"
				if !p.Generic() {
					scope = "account " + p.LinkedAccountID
				}
				fmt.Printf("%s  %-30s  %s\n", p.ID, p.Name, scope)
			}
			return nil
		},
	}
}

func newPresetsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return presetStore(cmd).Delete(args[0])
		},
	}
}

func newPresetsUnlinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <id>",
		Short: "Clear a preset's account binding, making it generic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return presetStore(cmd).Unlink(args[0])
		},
	}
}
