package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bankfeed-dev/bankfeed/internal/registry"
)

func newAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List registered accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.Load(workspaceDir(cmd))
			if err != nil {
				return err
			}
			accounts := reg.Accounts()
			if len(accounts) == 0 {
				fmt.Println("No accounts registered. Edit accounts.csv in the workspace root.")
				return nil
			}
			for _, a := range accounts {
				line := a.ID + "  " + a.Name
				if a.Institution != "" {
					line += " (" + a.Institution + ")"
				}
				if a.LastFour != "" {
					line += " *" + a.LastFour
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	return cmd
}
