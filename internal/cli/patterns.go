package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"hearing/internal/adapter/render"
	"hearing/internal/adapter/speaker"
)

var (
	patternsTitles []string
	patternsJSON   bool
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Show the speaker introduction patterns",
	Long: `Print the patterns generated from the configured titles, in the order they
are tried. The first pattern that matches a paragraph decides its speaker.

Examples:
  hearing patterns
  hearing patterns -t Senator -t "Madam Chair"`,
	Args: cobra.NoArgs,
	RunE: runPatterns,
}

func init() {
	rootCmd.AddCommand(patternsCmd)
	patternsCmd.Flags().StringArrayVarP(&patternsTitles, "title", "t", nil, "speaker title, repeatable (default from config)")
	patternsCmd.Flags().BoolVar(&patternsJSON, "json", false, "output as JSON")
}

func runPatterns(cmd *cobra.Command, args []string) error {
	titles := GetConfig().Titles
	if cmd.Flags().Changed("title") {
		titles = patternsTitles
	}
	warnNoTitles(GetLogger(), titles)

	patterns := speaker.BuildPatterns(titles)
	out := cmd.OutOrStdout()
	if patternsJSON {
		data, err := json.MarshalIndent(patterns, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	if len(patterns) == 0 {
		fmt.Fprintln(out, "No patterns.")
		return nil
	}
	return render.NewPrinter(out).Patterns(patterns)
}
