package parse

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadScript loads a script and decodes it to text.
func ReadScript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	text, err := Decode(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts raw script bytes to text. A UTF-8 or UTF-16 byte-order mark
// selects that encoding and is dropped. Input claiming UTF-8, marked or not,
// must be valid UTF-8; input that is not is read as ISO-8859-1, which accepts
// any byte sequence.
func Decode(data []byte) (string, error) {
	var unmarked []byte
	if bytes.HasPrefix(data, utf8BOM) {
		// BOMOverride would replace invalid bytes with U+FFFD.
		unmarked = data[len(utf8BOM):]
	} else {
		var err error
		unmarked, _, err = transform.Bytes(unicode.BOMOverride(transform.Nop), data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}
	if utf8.Valid(unmarked) {
		return string(unmarked), nil
	}

	latin, err := charmap.ISO8859_1.NewDecoder().Bytes(unmarked)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return string(latin), nil
}
