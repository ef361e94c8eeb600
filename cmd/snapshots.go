package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/staffscope-cli/internal/utils"
)

var snapFormat string

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Browse reports archived with analyze --save",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := snapshotStore()
		if err != nil {
			return err
		}
		metas, err := store.List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(metas) == 0 {
			fmt.Fprintln(out, "(no snapshots)")
			return nil
		}
		for _, m := range metas {
			fmt.Fprintf(out, "- %s  %s  %s (%d rows)\n", m.ID, m.CreatedAt.Local().Format(time.DateTime), m.Source, m.Rows)
		}
		return nil
	},
}

var snapshotsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved report; a unique id prefix is enough",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := snapshotStore()
		if err != nil {
			return err
		}
		snap, err := store.Load(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch strings.ToLower(snapFormat) {
		case "", "md", "markdown":
			fmt.Fprintf(out, "Snapshot %s of %s, %s\n\n", snap.ID, snap.Source, snap.CreatedAt.Local().Format(time.DateTime))
			fmt.Fprintln(out, snap.Report.Markdown())
		case "json":
			b, err := utils.PrettyJSON(snap)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		default:
			return fmt.Errorf("unsupported --format: %s (use md|json)", snapFormat)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsShowCmd)
	snapshotsShowCmd.Flags().StringVar(&snapFormat, "format", "md", "output format: md | json")
}
