// Six-bit text transform used by the login server protocol.
//
// Every byte is XORed with a fixed key and then spread over printable
// characters: three input bytes become four characters, the fourth one
// carrying the high bits the first three could not hold. The alphabet starts
// at ';' so the output never contains the '#', '!', '*' or '+' framing
// characters.
package encryption

const (
	sixBitKey  = 0xEB
	sixBitBase = 0x3B
)

// EncodeSixBit transforms src into its six-bit text form. One leftover byte
// yields two characters and two leftover bytes yield three.
func EncodeSixBit(src []byte) string {
	dst := make([]byte, 0, (len(src)*4+2)/3)

	var (
		state int
		flags byte
	)
	for _, b := range src {
		v := b ^ sixBitKey
		if state < 2 {
			dst = append(dst, ((v>>2)&0x3C|v&0x03)+sixBitBase)
			flags = (v>>2)&0x03 | flags<<2
			state++
			continue
		}

		dst = append(dst, (v&0x3F)+sixBitBase, ((v>>2)&0x30|flags)+sixBitBase)
		flags = 0
		state = 0
	}
	if state != 0 {
		dst = append(dst, flags+sixBitBase)
	}
	return string(dst)
}

// DecodeSixBit reverses EncodeSixBit. Each complete group of four characters
// yields three bytes, a trailing pair yields one byte and a trailing triple
// yields two. A single stray trailing character is ignored. Input outside the
// alphabet is never rejected; it decodes to garbage with byte arithmetic.
func DecodeSixBit(src string) []byte {
	dst := make([]byte, 0, len(src)*3/4+2)

	i := 0
	for ; i+4 <= len(src); i += 4 {
		c1 := src[i] - sixBitBase
		c2 := src[i+1] - sixBitBase
		c3 := src[i+2] - sixBitBase
		c4 := src[i+3] - sixBitBase

		dst = append(dst,
			((c1&0xFC)<<2|c1&0x03|c4&0x0C)^sixBitKey,
			((c2&0xFC)<<2|c2&0x03|(c4&0x03)<<2)^sixBitKey,
			(c3|(c4&0x30)<<2)^sixBitKey,
		)
	}

	switch len(src) - i {
	case 2:
		c1 := src[i] - sixBitBase
		c2 := src[i+1] - sixBitBase
		dst = append(dst, ((c1&0xFC)<<2|c1&0x03|(c2&0x03)<<2)^sixBitKey)
	case 3:
		c1 := src[i] - sixBitBase
		c2 := src[i+1] - sixBitBase
		c4 := src[i+2] - sixBitBase
		dst = append(dst,
			((c1&0xFC)<<2|c1&0x03|c4&0x0C)^sixBitKey,
			((c2&0xFC)<<2|c2&0x03|(c4&0x03)<<2)^sixBitKey,
		)
	}
	return dst
}
