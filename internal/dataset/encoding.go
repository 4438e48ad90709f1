package dataset

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names reported by decodeText.
const (
	EncodingUTF8        = "UTF-8"
	EncodingUTF8BOM     = "UTF-8-BOM"
	EncodingUTF16LE     = "UTF-16LE"
	EncodingUTF16BE     = "UTF-16BE"
	EncodingWindows1252 = "Windows-1252"
	EncodingISO88591    = "ISO-8859-1"
)

// decodeText detects the encoding of a dataset file and converts it to UTF-8.
// Spreadsheet exports on Windows are often UTF-16 or Windows-1252, hence the
// fallbacks.
func decodeText(data []byte) (string, string, error) {
	// Check for UTF-8 BOM
	if bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		return string(data[3:]), EncodingUTF8BOM, nil
	}

	// Check for UTF-16 BOM
	if len(data) >= 2 {
		if data[0] == 0xFF && data[1] == 0xFE {
			content, err := decodeWith(data, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM))
			if err == nil {
				return content, EncodingUTF16LE, nil
			}
		}
		if data[0] == 0xFE && data[1] == 0xFF {
			content, err := decodeWith(data, unicode.UTF16(unicode.BigEndian, unicode.UseBOM))
			if err == nil {
				return content, EncodingUTF16BE, nil
			}
		}
	}

	if utf8.Valid(data) {
		return string(data), EncodingUTF8, nil
	}

	// The two Latin charsets only differ in 0x80-0x9F: control codes in
	// ISO-8859-1, printable punctuation such as curly quotes in Windows-1252.
	if hasC1Bytes(data) {
		content, err := decodeWith(data, charmap.Windows1252)
		if err != nil {
			return "", "", err
		}
		return content, EncodingWindows1252, nil
	}

	content, err := decodeWith(data, charmap.ISO8859_1)
	if err != nil {
		return "", "", err
	}
	return content, EncodingISO88591, nil
}

// hasC1Bytes reports whether data contains a byte in the C1 control range.
func hasC1Bytes(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 && b <= 0x9F {
			return true
		}
	}
	return false
}

func decodeWith(data []byte, enc encoding.Encoding) (string, error) {
	reader := transform.NewReader(bytes.NewReader(data), enc.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
