package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bankfeed-dev/bankfeed/internal/config"
	"github.com/bankfeed-dev/bankfeed/internal/model"
	"github.com/bankfeed-dev/bankfeed/internal/registry"
)

func newInitCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new bankfeed workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(absDir, name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "workspace name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runInit(dir, name string) error {
	dirs := []string{
		"ledger",
		"presets",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name)
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	reg := registry.NewService(nil, defaultCategories())
	if err := reg.Save(dir); err != nil {
		return fmt.Errorf("writing registries: %w", err)
	}

	fmt.Printf("Initialized bankfeed workspace at %s\n", dir)
	return nil
}

// defaultCategories seeds a new workspace with a starter category registry.
func defaultCategories() []model.Category {
	return []model.Category{
		{ID: "food", Name: "Food & Dining"},
		{ID: "transport", Name: "Transportation"},
		{ID: "shopping", Name: "Shopping"},
		{ID: "housing", Name: "Housing"},
		{ID: "utilities", Name: "Utilities"},
		{ID: "health", Name: "Health & Fitness"},
		{ID: "entertainment", Name: "Entertainment"},
		{ID: "salary", Name: "Salary"},
		{ID: "investment", Name: "Investment"},
		{ID: "transfer", Name: "Transfer"},
		{ID: "other", Name: "Other"},
	}
}
