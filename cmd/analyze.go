package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/staffscope-cli/internal/analysis"
	"github.com/KaramelBytes/staffscope-cli/internal/utils"
)

var (
	anFormat      string
	anOutput      string
	anSave        bool
	anNoHierarchy bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze an employee file and print a compensation report",
	Long: `Analyze loads an employee file (or URL), normalizes every record and prints the
report as Markdown or JSON. Without an argument the configured default_dataset is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, raws, err := loadSource(cmd.Context(), args)
		if err != nil {
			return err
		}
		opt := analysisOptions()
		if anNoHierarchy {
			opt.Hierarchy = false
		}
		rep := analysis.Run(name, raws, opt)
		for _, w := range rep.Warnings {
			fmt.Fprintf(os.Stderr, "⚠ Warning: %s\n", w)
		}

		out, err := renderReport(rep, anFormat)
		if err != nil {
			return err
		}
		stdout := cmd.OutOrStdout()
		if anOutput != "" {
			if err := utils.SafeWriteFile(anOutput, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(stdout, "✓ Wrote report to %s\n", anOutput)
		} else {
			fmt.Fprintln(stdout, string(out))
		}

		if anSave {
			store, err := snapshotStore()
			if err != nil {
				return err
			}
			snap, err := store.Save(name, rep)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "✓ Saved snapshot %s\n", snap.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anFormat, "format", "md", "output format: md | json")
	analyzeCmd.Flags().StringVarP(&anOutput, "output", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().BoolVar(&anSave, "save", false, "archive the report as a snapshot")
	analyzeCmd.Flags().BoolVar(&anNoHierarchy, "no-hierarchy", false, "skip building the org chart")
}
