package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/staffscope-cli/internal/config"
	"github.com/KaramelBytes/staffscope-cli/internal/parser"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set StaffScope configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		printConfig(cmd, cfg)
		return nil
	},
}

func printConfig(cmd *cobra.Command, c *cfgpkg.Global) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "company_name: %s\n", c.CompanyName)
	fmt.Fprintf(out, "language: %s\n", c.Language)
	fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
	fmt.Fprintf(out, "encoding: %s\n", c.Encoding)
	fmt.Fprintf(out, "sheet_name: %s\n", c.SheetName)
	fmt.Fprintf(out, "sheet_index: %d\n", c.SheetIndex)
	fmt.Fprintf(out, "default_dataset: %s\n", c.DefaultDataset)
	fmt.Fprintf(out, "low_ratio: %.3f\n", c.LowRatio)
	fmt.Fprintf(out, "high_ratio: %.3f\n", c.HighRatio)
	fmt.Fprintf(out, "gender_gap: %.3f\n", c.GenderGap)
	fmt.Fprintf(out, "corr_weak: %.3f\n", c.CorrWeak)
	fmt.Fprintf(out, "corr_strong: %.3f\n", c.CorrStrong)
	fmt.Fprintf(out, "top_nationalities: %d\n", c.TopNationalities)
	fmt.Fprintf(out, "top_allowance_nationalities: %d\n", c.TopAllowanceNationalities)
	fmt.Fprintf(out, "snapshots_dir: %s\n", c.SnapshotsDir)
	fmt.Fprintf(out, "server_addr: %s\n", c.ServerAddr)
	fmt.Fprintf(out, "max_upload_mb: %d\n", c.MaxUploadMB)
	fmt.Fprintf(out, "fetch_timeout_sec: %d\n", c.FetchTimeoutSec)
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the stored file so flag overrides are not persisted.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := setConfigValue(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s\n", key)
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "company_name":
		c.CompanyName = val
	case "language":
		switch strings.ToLower(val) {
		case "ar", "en":
			c.Language = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid language: %s (use ar or en)", val)
		}
	case "delimiter":
		if _, err := parseDelimiter(val); err != nil {
			return err
		}
		c.Delimiter = val
	case "encoding":
		if _, _, err := parser.Decode(nil, val); err != nil {
			return fmt.Errorf("invalid encoding: %s", val)
		}
		c.Encoding = val
	case "sheet_name":
		c.SheetName = val
	case "sheet_index":
		n, err := parseInt(key, val, 1)
		if err != nil {
			return err
		}
		c.SheetIndex = n
	case "default_dataset":
		c.DefaultDataset = val
	case "low_ratio":
		return parseFloatInto(&c.LowRatio, key, val)
	case "high_ratio":
		return parseFloatInto(&c.HighRatio, key, val)
	case "gender_gap":
		return parseFloatInto(&c.GenderGap, key, val)
	case "corr_weak":
		return parseFloatInto(&c.CorrWeak, key, val)
	case "corr_strong":
		return parseFloatInto(&c.CorrStrong, key, val)
	case "top_nationalities":
		n, err := parseInt(key, val, 0)
		if err != nil {
			return err
		}
		c.TopNationalities = n
	case "top_allowance_nationalities":
		n, err := parseInt(key, val, 0)
		if err != nil {
			return err
		}
		c.TopAllowanceNationalities = n
	case "snapshots_dir":
		c.SnapshotsDir = val
	case "server_addr":
		c.ServerAddr = val
	case "max_upload_mb":
		n, err := parseInt(key, val, 1)
		if err != nil {
			return err
		}
		c.MaxUploadMB = n
	case "fetch_timeout_sec":
		n, err := parseInt(key, val, 1)
		if err != nil {
			return err
		}
		c.FetchTimeoutSec = n
	default:
		return fmt.Errorf("unknown key: %s (valid keys: %s)", key, strings.Join(cfgpkg.Keys, ", "))
	}
	return nil
}

func parseInt(key, val string, lo int) (int, error) {
	n, err := strconv.Atoi(val)
	if err != nil || n < lo {
		return 0, fmt.Errorf("invalid %s: %s (want an integer >= %d)", key, val, lo)
	}
	return n, nil
}

func parseFloatInto(dst *float64, key, val string) error {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f < 0 {
		return fmt.Errorf("invalid %s: %s (want a non-negative number)", key, val)
	}
	*dst = f
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
