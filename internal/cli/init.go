package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	initTitles []string
	initForce  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a hearing.yaml with the current settings",
	Long: `Write the effective configuration (defaults, an existing config file,
HEARING_* variables and flags) to hearing.yaml in --dir.

Examples:
  hearing init
  hearing init -t Senator -t "Madam Chair" --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringArrayVarP(&initTitles, "title", "t", nil, "speaker title, repeatable (default from config)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing hearing.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	cmd.SilenceUsage = true

	if cmd.Flags().Changed("title") {
		cfg.Titles = initTitles
	}
	warnNoTitles(GetLogger(), cfg.Titles)

	path := filepath.Join(rootDir, "hearing.yaml")
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
