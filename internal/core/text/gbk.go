// Package text converts between Go strings and the GBK (code page 936) bytes
// used by the login server, the game's INI files and the embedded container.
package text

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// Encode converts s to GBK. Characters with no GBK representation are
// written as '?'.
func Encode(s string) []byte {
	if s == "" {
		return nil
	}

	encoder := simplifiedchinese.GBK.NewEncoder()
	encoded := make([]byte, 0, len(s))
	var runeBuf [utf8.UTFMax]byte

	for _, r := range s {
		if r < utf8.RuneSelf {
			encoded = append(encoded, byte(r))
			continue
		}
		n := utf8.EncodeRune(runeBuf[:], r)
		b, err := encoder.Bytes(runeBuf[:n])
		if err != nil {
			encoded = append(encoded, '?')
			continue
		}
		encoded = append(encoded, b...)
	}
	return encoded
}

// EncodeTruncated converts s to GBK and cuts the result to at most n bytes.
func EncodeTruncated(s string, n int) []byte {
	b := Encode(s)
	if len(b) > n {
		b = b[:n]
	}
	return b
}

// Decode converts GBK bytes to a string. Invalid sequences decode to U+FFFD.
func Decode(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}
