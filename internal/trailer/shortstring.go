package trailer

import (
	"github.com/dcrodman/mirlauncher/internal/core/text"
	"github.com/dcrodman/mirlauncher/internal/encryption"
)

// ShortString is a length-prefixed string field with a fixed capacity. On
// disk it occupies MaxLength+1 bytes: the length, then the content padded
// with zeros.
type ShortString struct {
	MaxLength int
	Content   []byte
}

// FieldBytes returns the on-disk form of s. Content beyond MaxLength is
// dropped.
func (s ShortString) FieldBytes() []byte {
	field := make([]byte, s.MaxLength+1)
	n := len(s.Content)
	if n > s.MaxLength {
		n = s.MaxLength
	}
	field[0] = byte(n)
	copy(field[1:], s.Content[:n])
	return field
}

// ParseShortString reads a field of capacity maxLength. A length byte larger
// than the capacity is clamped to it.
func ParseShortString(field []byte, maxLength int) ShortString {
	n := int(field[0])
	if n > maxLength {
		n = maxLength
	}
	content := make([]byte, n)
	copy(content, field[1:1+n])
	return ShortString{MaxLength: maxLength, Content: content}
}

// cipherString converts value to GBK, cuts it to maxLength bytes and XORs
// it with key.
func cipherString(value string, maxLength int, key byte) ShortString {
	return ShortString{
		MaxLength: maxLength,
		Content:   encryption.XOR(text.EncodeTruncated(value, maxLength), key),
	}
}

// decipherString reverses cipherString.
func decipherString(s ShortString, key byte) string {
	return text.Decode(encryption.XOR(s.Content, key))
}
