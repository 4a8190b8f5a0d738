package source

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNotText is returned for content that does not decode to text.
var ErrNotText = errors.New("content is not valid text")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts data to a UTF-8 string. A UTF-8 byte order mark is
// stripped and UTF-16 input with a BOM is transcoded. Input without a BOM is
// taken as is. Anything that is not valid UTF-8 afterwards, or that contains
// NUL bytes, fails with ErrNotText.
func Decode(data []byte) (string, error) {
	dec := unicode.BOMOverride(transform.Nop)
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", errors.Join(ErrNotText, err)
	}
	if err := checkText(out); err != nil {
		return "", err
	}
	return string(out), nil
}

// DecodeVerbatim is Decode for documents whose bytes must survive unchanged:
// UTF-8 input, BOM included, is returned as is. UTF-16 is still transcoded.
func DecodeVerbatim(data []byte) (string, error) {
	if !bytes.HasPrefix(data, utf8BOM) {
		return Decode(data)
	}
	if err := checkText(data); err != nil {
		return "", err
	}
	return string(data), nil
}

func checkText(b []byte) error {
	if !utf8.Valid(b) || bytes.IndexByte(b, 0) >= 0 {
		return ErrNotText
	}
	return nil
}
