package parser

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/staffscope-cli/internal/record"
)

// DelimiterCandidates are tried in order; the first wins ties.
var DelimiterCandidates = []rune{',', ';', '\t', '|'}

// sniffLines bounds how many lines delimiter detection looks at.
const sniffLines = 10

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (csvLoader) Load(data []byte, opt Options) ([]*record.Raw, error) {
	text, enc, err := Decode(data, opt.Encoding)
	if err != nil {
		return nil, err
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(SplitLines(text))
	}
	log.Debug().Str("encoding", enc).Str("delimiter", string(delim)).Msg("read delimited text")
	return ParseCSVWith(text, delim), nil
}

// ParseCSV parses delimited text into records keyed by the header line,
// detecting the delimiter. Empty input yields no records.
func ParseCSV(text string) []*record.Raw {
	return ParseCSVWith(text, 0)
}

// ParseCSVWith parses like ParseCSV but uses delim when it is non-zero.
//
// Lines are split on '\n' after removing every '\r'; blank lines are
// dropped, so quoted fields cannot span lines. Missing trailing fields read
// as "" and surplus fields are ignored.
func ParseCSVWith(text string, delim rune) []*record.Raw {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return nil
	}
	if delim == 0 {
		delim = DetectDelimiter(lines)
	}
	header := SplitLine(lines[0], delim)
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}
	rows := make([]*record.Raw, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := SplitLine(line, delim)
		vals := make(map[string]any, len(header))
		for i, h := range header {
			v := ""
			if i < len(fields) {
				v = fields[i]
			}
			// a repeated header keeps the rightmost value
			vals[h] = v
		}
		rows = append(rows, record.NewRaw(header, vals))
	}
	return rows
}

// SplitLines strips a leading byte-order mark, normalizes line endings and
// drops blank lines.
func SplitLines(text string) []string {
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.ReplaceAll(text, "\r", "")
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// SplitLine splits one line on delim, honoring double-quoted fields. A
// doubled quote inside quotes is a literal quote; quote characters are not
// kept in the output.
func SplitLine(line string, delim rune) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == delim && !inQuotes:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	return append(out, cur.String())
}

// DetectDelimiter scores each candidate over the first lines as
//
//	(max field count, or 0 when it is 1) - (distinct field counts - 1)
//
// and returns the best one. Only a strictly higher score replaces the
// current pick, so ',' wins ties.
func DetectDelimiter(lines []string) rune {
	if len(lines) > sniffLines {
		lines = lines[:sniffLines]
	}
	best := DelimiterCandidates[0]
	bestScore := 0
	first := true
	for _, d := range DelimiterCandidates {
		score := delimiterScore(lines, d)
		if first || score > bestScore {
			best, bestScore, first = d, score, false
		}
	}
	return best
}

func delimiterScore(lines []string, d rune) int {
	counts := map[int]struct{}{}
	maxCount := 0
	for _, l := range lines {
		n := len(SplitLine(l, d))
		counts[n] = struct{}{}
		if n > maxCount {
			maxCount = n
		}
	}
	if maxCount <= 1 {
		maxCount = 0
	}
	return maxCount - (len(counts) - 1)
}
