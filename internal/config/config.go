package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	CompanyName string `mapstructure:"company_name" yaml:"company_name"`
	Language    string `mapstructure:"language" yaml:"language"`

	// Input handling
	Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
	Encoding       string `mapstructure:"encoding" yaml:"encoding"`
	SheetName      string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex     int    `mapstructure:"sheet_index" yaml:"sheet_index"`
	DefaultDataset string `mapstructure:"default_dataset" yaml:"default_dataset"`

	// Recommendation thresholds
	LowRatio   float64 `mapstructure:"low_ratio" yaml:"low_ratio"`
	HighRatio  float64 `mapstructure:"high_ratio" yaml:"high_ratio"`
	GenderGap  float64 `mapstructure:"gender_gap" yaml:"gender_gap"`
	CorrWeak   float64 `mapstructure:"corr_weak" yaml:"corr_weak"`
	CorrStrong float64 `mapstructure:"corr_strong" yaml:"corr_strong"`

	TopNationalities          int `mapstructure:"top_nationalities" yaml:"top_nationalities"`
	TopAllowanceNationalities int `mapstructure:"top_allowance_nationalities" yaml:"top_allowance_nationalities"`

	SnapshotsDir string `mapstructure:"snapshots_dir" yaml:"snapshots_dir"`

	// HTTP
	ServerAddr      string `mapstructure:"server_addr" yaml:"server_addr"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	FetchTimeoutSec int    `mapstructure:"fetch_timeout_sec" yaml:"fetch_timeout_sec"`
}

// Keys lists every settable configuration key in display order.
var Keys = []string{
	"company_name", "language",
	"delimiter", "encoding", "sheet_name", "sheet_index", "default_dataset",
	"low_ratio", "high_ratio", "gender_gap", "corr_weak", "corr_strong",
	"top_nationalities", "top_allowance_nationalities",
	"snapshots_dir",
	"server_addr", "max_upload_mb", "fetch_timeout_sec",
}

// Dir returns ~/.staffscope.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".staffscope"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.staffscope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
// A .env file in the working directory is read first; it never overrides
// variables already set in the environment.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("STAFFSCOPE")
	v.AutomaticEnv()

	v.SetDefault("company_name", "شركة الراشد")
	v.SetDefault("language", "ar")
	v.SetDefault("delimiter", "")
	v.SetDefault("encoding", "auto")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	v.SetDefault("default_dataset", "")
	v.SetDefault("low_ratio", 0.8)
	v.SetDefault("high_ratio", 1.2)
	v.SetDefault("gender_gap", 0.1)
	v.SetDefault("corr_weak", 0.1)
	v.SetDefault("corr_strong", 0.6)
	v.SetDefault("top_nationalities", 6)
	v.SetDefault("top_allowance_nationalities", 10)
	v.SetDefault("snapshots_dir", "")
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("max_upload_mb", 20)
	v.SetDefault("fetch_timeout_sec", 30)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve snapshots_dir default: ~/.staffscope/snapshots
	if c.SnapshotsDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.SnapshotsDir = filepath.Join(dir, "snapshots")
	}
	return &c, nil
}
