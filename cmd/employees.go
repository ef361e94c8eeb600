package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/staffscope-cli/internal/record"
	"github.com/KaramelBytes/staffscope-cli/internal/utils"
)

var (
	empDept   string
	empJob    string
	empSearch string
	empSort   string
	empDesc   bool
	empLimit  int
	empFormat string

	empListDepts bool
	empListJobs  bool
)

type employeeTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Total   int        `json:"total"`
}

var employeesCmd = &cobra.Command{
	Use:   "employees [file]",
	Short: "List employees with filters, search and sorting",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, raws, err := loadSource(cmd.Context(), args)
		if err != nil {
			return err
		}
		ds := record.Normalize(raws)
		loc := currentLocale()
		if empListDepts || empListJobs {
			values := ds.DistinctDepartments(loc.Unspecified, loc.Collator())
			if empListJobs {
				values = ds.DistinctJobTitles(loc.Unspecified, loc.Collator())
			}
			for _, v := range values {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", v)
			}
			return nil
		}
		q := record.Query{
			Department: empDept,
			JobTitle:   empJob,
			Search:     empSearch,
			SortColumn: empSort,
			Desc:       empDesc,
		}
		matched := q.Apply(ds, loc.Collator())
		shown := matched
		if empLimit > 0 && len(shown) > empLimit {
			shown = shown[:empLimit]
		}

		cols := ds.DisplayColumns()
		tbl := employeeTable{Columns: cols, Rows: make([][]string, 0, len(shown)), Total: len(matched)}
		for _, e := range shown {
			row := make([]string, len(cols))
			for i, c := range cols {
				row[i] = e.Cell(c)
			}
			tbl.Rows = append(tbl.Rows, row)
		}

		out := cmd.OutOrStdout()
		switch strings.ToLower(empFormat) {
		case "", "md", "markdown":
			writeMarkdownTable(out, tbl.Columns, tbl.Rows)
			fmt.Fprintf(out, "\n%d of %d employees\n", len(tbl.Rows), len(ds.Employees))
		case "json":
			b, err := utils.PrettyJSON(tbl)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		default:
			return fmt.Errorf("unsupported --format: %s (use md|json)", empFormat)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(employeesCmd)
	employeesCmd.Flags().StringVar(&empDept, "dept", "", "only this department")
	employeesCmd.Flags().StringVar(&empJob, "job", "", "only this job title")
	employeesCmd.Flags().StringVar(&empSearch, "search", "", "case-insensitive text to find in any column")
	employeesCmd.Flags().StringVar(&empSort, "sort", "", "column to sort by")
	employeesCmd.Flags().BoolVar(&empDesc, "desc", false, "sort descending")
	employeesCmd.Flags().IntVar(&empLimit, "limit", 0, "maximum rows to print (0 = all)")
	employeesCmd.Flags().StringVar(&empFormat, "format", "md", "output format: md | json")
	employeesCmd.Flags().BoolVar(&empListDepts, "list-depts", false, "only list the distinct departments")
	employeesCmd.Flags().BoolVar(&empListJobs, "list-jobs", false, "only list the distinct job titles")
}
