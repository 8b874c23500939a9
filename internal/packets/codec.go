package packets

import (
	"errors"
	"fmt"

	"github.com/dcrodman/mirlauncher/internal/core/bytes"
	"github.com/dcrodman/mirlauncher/internal/core/text"
	"github.com/dcrodman/mirlauncher/internal/encryption"
)

var (
	ErrShortMessage = errors.New("packets: encoded message is too short")
	ErrShortBuffer  = errors.New("packets: encoded buffer is too short")
)

// EncodeMessage serializes msg to its 12 little endian bytes and returns the
// 16 character encoded form.
func EncodeMessage(msg DefaultMessage) string {
	raw, _ := bytes.BytesFromStruct(msg)
	return encryption.EncodeSixBit(raw)
}

// DecodeMessage parses the header at the start of s. Only the first
// DefBlockSize characters are considered.
func DecodeMessage(s string) (DefaultMessage, error) {
	if len(s) > DefBlockSize {
		s = s[:DefBlockSize]
	}

	var msg DefaultMessage
	raw := encryption.DecodeSixBit(s)
	if len(raw) < DefaultMessageSize {
		return msg, fmt.Errorf("%w: decoded %d bytes", ErrShortMessage, len(raw))
	}
	if err := bytes.StructFromBytes(raw[:DefaultMessageSize], &msg); err != nil {
		return msg, fmt.Errorf("%w: %v", ErrShortMessage, err)
	}
	return msg, nil
}

// EncodeString converts s to GBK and encodes the result.
func EncodeString(s string) string {
	return encryption.EncodeSixBit(text.Encode(s))
}

// DecodeString decodes s, discards everything from the first 0 byte on and
// converts the remaining GBK bytes back to a string.
func DecodeString(s string) string {
	return text.Decode(bytes.TruncateAtNull(encryption.DecodeSixBit(s)))
}

// EncodeBuffer encodes b. Buffers of BufferSize bytes or more are not sent
// by the protocol and produce an empty string.
func EncodeBuffer(b []byte) string {
	if len(b) >= BufferSize {
		return ""
	}
	return encryption.EncodeSixBit(b)
}

// DecodeBuffer decodes s and returns its first n bytes.
func DecodeBuffer(s string, n int) ([]byte, error) {
	raw := encryption.DecodeSixBit(s)
	if len(raw) < n {
		return nil, fmt.Errorf("%w: want %d bytes, decoded %d", ErrShortBuffer, n, len(raw))
	}
	return raw[:n], nil
}
