package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/staffscope-cli/internal/hierarchy"
	"github.com/KaramelBytes/staffscope-cli/internal/utils"
)

var hierFormat string

var hierarchyCmd = &cobra.Command{
	Use:   "hierarchy [file]",
	Short: "Print the org chart (company, departments, managers, employees)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, raws, err := loadSource(cmd.Context(), args)
		if err != nil {
			return err
		}
		opt := analysisOptions()
		root := hierarchy.Build(raws, opt.Company, currentLocale())
		if !root.Available() {
			fmt.Fprintln(os.Stderr, "⚠ Warning: no department column found; org chart skipped")
		}
		out := cmd.OutOrStdout()
		switch strings.ToLower(hierFormat) {
		case "", "text":
			return root.Render(out)
		case "json":
			b, err := utils.PrettyJSON(root)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		default:
			return fmt.Errorf("unsupported --format: %s (use text|json)", hierFormat)
		}
	},
}

func init() {
	rootCmd.AddCommand(hierarchyCmd)
	hierarchyCmd.Flags().StringVar(&hierFormat, "format", "text", "output format: text | json")
}
