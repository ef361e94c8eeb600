package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/staffscope-cli/internal/record"
)

// Loader turns the bytes of one file format into raw records.
type Loader interface {
	CanLoad(filename string) bool
	Load(data []byte, opt Options) ([]*record.Raw, error)
}

// Options tune how a file is read. Zero values mean auto-detect or the
// first sheet.
type Options struct {
	Delimiter  rune
	Encoding   string
	SheetName  string
	SheetIndex int // 1-based
}

var registry []Loader

// Register adds a loader to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(csvLoader{})
	Register(jsonLoader{})
	Register(xlsxLoader{})
	Register(xlsLoader{})
}

// ErrUnsupported indicates a file format or encoding that no loader handles.
var ErrUnsupported = errors.New("unsupported file format")

// ErrNotArray is returned for JSON input whose top level is not an array.
var ErrNotArray = errors.New("json input is not an array of records")

// Supported reports whether some registered loader accepts filename.
func Supported(filename string) bool {
	return lookup(filename) != nil
}

func lookup(filename string) Loader {
	for _, l := range registry {
		if l.CanLoad(filename) {
			return l
		}
	}
	return nil
}

// LoadFile reads path and dispatches on its extension.
func LoadFile(path string, opt Options) ([]*record.Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return LoadBytes(filepath.Base(path), data, opt)
}

// LoadBytes loads already-read content; name only selects the loader.
func LoadBytes(name string, data []byte, opt Options) ([]*record.Raw, error) {
	l := lookup(name)
	if l == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	rows, err := l.Load(data, opt)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	log.Debug().Str("file", name).Int("records", len(rows)).Msg("loaded dataset")
	return rows, nil
}

// IsURL reports whether src should be fetched rather than opened.
func IsURL(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads a dataset and loads it by the extension of the URL path.
func Fetch(ctx context.Context, rawURL string, opt Options) ([]*record.Raw, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	name := path.Base(u.Path)
	if lookup(name) == nil {
		// extensionless endpoints are treated as CSV
		name += ".csv"
	}
	log.Debug().Str("url", rawURL).Int("bytes", len(data)).Msg("fetched dataset")
	return LoadBytes(name, data, opt)
}
