package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/staffscope-cli/internal/analysis"
	"github.com/KaramelBytes/staffscope-cli/internal/parser"
	"github.com/KaramelBytes/staffscope-cli/internal/utils"
)

var (
	abJobs      int
	abFormat    string
	abOutputDir string
	abQuiet     bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze several employee files concurrently",
	Long: `Analyze-batch expands each argument as a glob, analyzes the matching files in parallel
and prints (or writes) the reports in input order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		switch strings.ToLower(abFormat) {
		case "", "md", "markdown", "json":
		default:
			return fmt.Errorf("unsupported --format: %s (use md|json)", abFormat)
		}
		popt, err := parseOptions()
		if err != nil {
			return err
		}
		opt := analysisOptions()

		jobs := abJobs
		if jobs <= 0 {
			jobs = runtime.NumCPU()
		}
		reports := make([]*analysis.Report, len(files))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(jobs)
		for i, path := range files {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				raws, err := parser.LoadFile(path, popt)
				if err != nil {
					return err
				}
				reports[i] = analysis.Run(filepath.Base(path), raws, opt)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		stdout := cmd.OutOrStdout()
		if abOutputDir != "" {
			if err := utils.EnsureDir(abOutputDir); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		total := len(files)
		for i, rep := range reports {
			if !abQuiet {
				fmt.Fprintf(stdout, "[%d/%d] %s (%d rows)\n", i+1, total, files[i], rep.Rows)
				for _, w := range rep.Warnings {
					fmt.Fprintf(os.Stderr, "⚠ Warning: %s: %s\n", filepath.Base(files[i]), w)
				}
			}
			out, err := renderReport(rep, abFormat)
			if err != nil {
				return err
			}
			if abOutputDir == "" {
				fmt.Fprintln(stdout, string(out))
				continue
			}
			outFile := batchOutputPath(abOutputDir, files[i], abFormat)
			if err := utils.SafeWriteFile(outFile, out); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !abQuiet {
				fmt.Fprintf(stdout, "✓ Wrote %s\n", outFile)
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeping literal paths that exist, and drops
// repeats while preserving argument order.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	return files
}

// batchOutputPath names the report file for input, adding a __N suffix when
// the name is already taken.
func batchOutputPath(dir, input, format string) string {
	ext := ".md"
	if strings.EqualFold(format, "json") {
		ext = ".json"
	}
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	outFile := filepath.Join(dir, base+".report"+ext)
	if _, err := os.Stat(outFile); err != nil {
		return outFile
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d.report%s", base, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().IntVar(&abJobs, "jobs", 0, "files analyzed in parallel (default: number of CPUs)")
	analyzeBatchCmd.Flags().StringVar(&abFormat, "format", "md", "output format: md | json")
	analyzeBatchCmd.Flags().StringVar(&abOutputDir, "output-dir", "", "write one report per file into this directory")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
