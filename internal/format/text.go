package format

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// DecodeUTF16 decodes UTF-16LE bytes into a UTF-8 string. An odd trailing
// byte is dropped. Unpaired surrogates become U+FFFD.
func DecodeUTF16(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	data = data[:len(data)&^1]

	// Fast path: ASCII in UTF-16LE is [byte, 0x00].
	ascii := true
	for i := 0; i < len(data); i += 2 {
		if data[i+1] != 0 || data[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		var b strings.Builder
		b.Grow(len(data) / 2)
		for i := 0; i < len(data); i += 2 {
			b.WriteByte(data[i])
		}
		return b.String(), nil
	}

	out, err := utf16le.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DecodeUTF16Z decodes UTF-16LE up to the first NUL code unit, or the whole
// buffer when there is none.
func DecodeUTF16Z(data []byte) (string, error) {
	for i := 0; i+1 < len(data); i += 2 {
		if data[i] == 0 && data[i+1] == 0 {
			return DecodeUTF16(data[:i])
		}
	}
	return DecodeUTF16(data)
}

// EncodeUTF16 encodes s as UTF-16LE without a terminator.
func EncodeUTF16(s string) []byte {
	// The encoder substitutes U+FFFD for invalid UTF-8 and never fails.
	out, _ := utf16le.NewEncoder().Bytes([]byte(s))
	return out
}

// DecodeExtendedASCII decodes single-byte text stored as Windows-1252.
func DecodeExtendedASCII(data []byte) (string, error) {
	for _, c := range data {
		if c >= 0x80 {
			out, err := charmap.Windows1252.NewDecoder().Bytes(data)
			if err != nil {
				return "", err
			}
			return string(out), nil
		}
	}
	return string(data), nil
}
