package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/staffscope-cli/internal/config"
	"github.com/KaramelBytes/staffscope-cli/internal/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Dataset flags (override config if set)
	flagLang       string
	flagCompany    string
	flagDelimiter  string
	flagEncoding   string
	flagSheetName  string
	flagSheetIndex int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "staffscope",
	Short: "StaffScope CLI: compensation reports from employee spreadsheets",
	Long: `StaffScope loads employee files (CSV, TSV, JSON, XLSX, XLS) with Arabic or English
headers, normalizes salaries and allowances, and reports pay by department, nationality,
gender and experience together with an org chart and recommendations.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.staffscope/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagLang, "lang", "", "report language: ar | en (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagCompany, "company", "", "company name at the root of the org chart (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe' (auto-detect if omitted)")
	rootCmd.PersistentFlags().StringVar(&flagEncoding, "encoding", "", "text encoding: auto | utf-8 | utf-16le | utf-16be | windows-1256")
	rootCmd.PersistentFlags().StringVar(&flagSheetName, "sheet-name", "", "Excel: sheet name to read")
	rootCmd.PersistentFlags().IntVar(&flagSheetIndex, "sheet-index", 0, "Excel: 1-based sheet index (used if --sheet-name not provided)")
}

func loadConfig() {
	logging.Setup(os.Stderr, debug)

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("lang") {
		cfg.Language = flagLang
	}
	if f.Changed("company") {
		cfg.CompanyName = flagCompany
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("encoding") {
		cfg.Encoding = flagEncoding
	}
	if f.Changed("sheet-name") {
		cfg.SheetName = flagSheetName
	}
	if f.Changed("sheet-index") && flagSheetIndex > 0 {
		cfg.SheetIndex = flagSheetIndex
	}
}
