package parser

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names reported by Decode and accepted in Options.Encoding.
const (
	EncodingAuto        = "auto"
	EncodingUTF8        = "utf-8"
	EncodingUTF8BOM     = "utf-8-bom"
	EncodingUTF16LE     = "utf-16le"
	EncodingUTF16BE     = "utf-16be"
	EncodingWindows1256 = "windows-1256"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts file bytes to text. With enc "" or "auto" it honors a
// byte-order mark, accepts valid UTF-8, and otherwise falls back to the
// Windows Arabic code page that legacy HR exports use. It returns the text
// and the encoding it settled on.
func Decode(data []byte, enc string) (string, string, error) {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", EncodingAuto:
	case EncodingUTF8, "utf8":
		return string(bytes.TrimPrefix(data, bomUTF8)), EncodingUTF8, nil
	case EncodingWindows1256, "cp1256":
		return decodeWith(charmap.Windows1256, data, EncodingWindows1256)
	case EncodingUTF16LE:
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), data, EncodingUTF16LE)
	case EncodingUTF16BE:
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.UseBOM), data, EncodingUTF16BE)
	default:
		return "", "", fmt.Errorf("%w: encoding %q", ErrUnsupported, enc)
	}

	switch {
	case len(data) == 0:
		return "", EncodingUTF8, nil
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), EncodingUTF8BOM, nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data, EncodingUTF16LE)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data, EncodingUTF16BE)
	case utf8.Valid(data):
		return string(data), EncodingUTF8, nil
	}
	return decodeWith(charmap.Windows1256, data, EncodingWindows1256)
}

func decodeWith(e encoding.Encoding, data []byte, name string) (string, string, error) {
	out, err := e.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), name, nil
}
