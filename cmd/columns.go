package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/staffscope-cli/internal/record"
)

var columnsCmd = &cobra.Command{
	Use:   "columns [file]",
	Short: "Show which source columns feed each employee field",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, raws, err := loadSource(cmd.Context(), args)
		if err != nil {
			return err
		}
		ds := record.Normalize(raws)
		f := ds.Fields
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "[FIELDS] %s (%d rows)\n", name, len(ds.Employees))
		fields := []struct {
			key, col string
		}{
			{"employeeId", f.EmployeeID},
			{"name", f.Name},
			{"jobTitle", f.JobTitle},
			{"department", f.Department},
			{"nationality", f.Nationality},
			{"gender", f.Gender},
			{"joinDate", f.JoinDate},
			{"experienceYears", f.Experience},
			{"location", f.Location},
			{"manager", f.Manager},
			{"baseSalary", f.BaseSalary},
			{"totalComp", f.Total},
		}
		for _, fl := range fields {
			if f.Found[fl.key] {
				fmt.Fprintf(out, "✓ %s: %s\n", fl.key, fl.col)
			} else {
				fmt.Fprintf(out, "✗ %s: (not found)\n", fl.key)
			}
		}

		fmt.Fprintln(out, "\n[ALLOWANCES]")
		if len(ds.AllowanceColumns) == 0 {
			fmt.Fprintln(out, "(none)")
		}
		for _, c := range ds.AllowanceColumns {
			fmt.Fprintf(out, "- %s\n", c)
		}

		fmt.Fprintln(out, "\n[COLUMNS]")
		fmt.Fprintln(out, strings.Join(ds.Columns, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
}
