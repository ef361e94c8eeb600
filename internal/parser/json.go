package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/staffscope-cli/internal/record"
)

type jsonLoader struct{}

func (jsonLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

func (jsonLoader) Load(data []byte, opt Options) ([]*record.Raw, error) {
	text, _, err := Decode(data, opt.Encoding)
	if err != nil {
		return nil, err
	}
	return ParseJSON([]byte(text))
}

// ParseJSON reads a top-level array of objects. Key order inside each
// object is preserved so column order matches the file. Elements that are
// not objects are skipped; a top-level value that is not an array is
// ErrNotArray. Blank input yields no records.
func ParseJSON(data []byte) ([]*record.Raw, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, bomUTF8))
	if len(data) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, ErrNotArray
	}
	var rows []*record.Raw
	idx := 0
	for dec.More() {
		r, err := readObject(dec)
		if err != nil {
			return nil, fmt.Errorf("parse json element %d: %w", idx, err)
		}
		if r == nil {
			log.Debug().Int("element", idx).Msg("skipping non-object json element")
		} else {
			rows = append(rows, r)
		}
		idx++
	}
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return rows, nil
}

// readObject consumes one array element. It returns nil (and no error) for
// elements that are not objects.
func readObject(dec *json.Decoder) (*record.Raw, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return nil, nil
	}
	if d != '{' {
		// nested array: drain it
		depth := 1
		for depth > 0 {
			t, err := dec.Token()
			if err != nil {
				return nil, err
			}
			if dd, ok := t.(json.Delim); ok {
				switch dd {
				case '[', '{':
					depth++
				case ']', '}':
					depth--
				}
			}
		}
		return nil, nil
	}
	var cols []string
	vals := map[string]any{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", kt)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if _, dup := vals[key]; !dup {
			cols = append(cols, key)
		}
		vals[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return record.NewRaw(cols, vals), nil
}
