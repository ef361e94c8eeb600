package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/staffscope-cli/internal/analysis"
	"github.com/KaramelBytes/staffscope-cli/internal/locale"
	"github.com/KaramelBytes/staffscope-cli/internal/parser"
	"github.com/KaramelBytes/staffscope-cli/internal/record"
	"github.com/KaramelBytes/staffscope-cli/internal/snapshot"
	"github.com/KaramelBytes/staffscope-cli/internal/utils"
)

// analysisOptions layers the loaded configuration over the stock thresholds.
func analysisOptions() analysis.Options {
	opt := analysis.DefaultOptions()
	if cfg == nil {
		return opt
	}
	if cfg.CompanyName != "" {
		opt.Company = cfg.CompanyName
	}
	if cfg.Language != "" {
		opt.Language = cfg.Language
	}
	opt.LowRatio = cfg.LowRatio
	opt.HighRatio = cfg.HighRatio
	opt.GenderGap = cfg.GenderGap
	opt.CorrWeak = cfg.CorrWeak
	opt.CorrStrong = cfg.CorrStrong
	opt.TopNationalities = cfg.TopNationalities
	opt.TopAllowanceNationalities = cfg.TopAllowanceNationalities
	return opt
}

func currentLocale() locale.Locale {
	return locale.Lookup(analysisOptions().Language)
}

func parseOptions() (parser.Options, error) {
	var opt parser.Options
	if cfg == nil {
		return opt, nil
	}
	d, err := parseDelimiter(cfg.Delimiter)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = d
	opt.Encoding = cfg.Encoding
	opt.SheetName = cfg.SheetName
	opt.SheetIndex = cfg.SheetIndex
	return opt, nil
}

// parseDelimiter maps a flag or config value to a delimiter rune; "" means
// auto-detect.
func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ','|';'|'tab'|'pipe')", s)
	}
}

// loadSource loads the dataset named by args[0], or the configured
// default_dataset when no argument is given. URLs are fetched.
func loadSource(ctx context.Context, args []string) (string, []*record.Raw, error) {
	src := ""
	if len(args) > 0 {
		src = args[0]
	} else if cfg != nil {
		src = cfg.DefaultDataset
	}
	if strings.TrimSpace(src) == "" {
		return "", nil, errors.New("no input file given and default_dataset is not set")
	}
	popt, err := parseOptions()
	if err != nil {
		return "", nil, err
	}
	if parser.IsURL(src) {
		timeout := 30 * time.Second
		if cfg != nil && cfg.FetchTimeoutSec > 0 {
			timeout = time.Duration(cfg.FetchTimeoutSec) * time.Second
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		raws, err := parser.Fetch(ctx, src, popt)
		if err != nil {
			return "", nil, err
		}
		return src, raws, nil
	}
	path, err := utils.ExpandHome(src)
	if err != nil {
		return "", nil, err
	}
	raws, err := parser.LoadFile(path, popt)
	if err != nil {
		return "", nil, err
	}
	return filepath.Base(path), raws, nil
}

func snapshotStore() (*snapshot.Store, error) {
	dir := ""
	if cfg != nil {
		dir = cfg.SnapshotsDir
	}
	if dir == "" {
		return nil, errors.New("snapshots_dir is not configured")
	}
	dir, err := utils.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	return snapshot.NewStore(dir), nil
}

// renderReport encodes a report as Markdown ("md", the default) or JSON.
func renderReport(rep *analysis.Report, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "md", "markdown":
		return []byte(rep.Markdown()), nil
	case "json":
		return rep.JSON()
	default:
		return nil, fmt.Errorf("unsupported --format: %s (use md|json)", format)
	}
}

// writeMarkdownTable prints a pipe table; cell pipes and newlines would
// break the layout and are replaced.
func writeMarkdownTable(w io.Writer, head []string, rows [][]string) {
	clean := func(s string) string {
		return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
	}
	line := func(cells []string) {
		out := make([]string, len(cells))
		for i, c := range cells {
			out[i] = clean(c)
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(out, " | "))
	}
	line(head)
	sep := make([]string, len(head))
	for i := range sep {
		sep[i] = "---"
	}
	line(sep)
	for _, r := range rows {
		line(r)
	}
}
