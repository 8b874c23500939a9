package encryption

// XOR returns a copy of data with every byte XORed with key. Applying it
// twice with the same key yields the original bytes.
func XOR(data []byte, key byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key
	}
	return out
}
