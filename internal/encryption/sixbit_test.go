package encryption

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestEncodeSixBit(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		want string
	}{
		{
			name: "empty input",
			src:  []byte{},
			want: "",
		},
		{
			name: "single zero byte",
			src:  []byte{0x00},
			want: "v=",
		},
		{
			name: "full group of zero bytes",
			src:  []byte{0x00, 0x00, 0x00},
			want: "vvfu",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeSixBit(tt.src); got != tt.want {
				t.Errorf("EncodeSixBit() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeSixBit(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []byte
	}{
		{
			name: "empty input",
			src:  "",
			want: []byte{},
		},
		{
			name: "single stray character is ignored",
			src:  "v",
			want: []byte{},
		},
		{
			name: "trailing character after a full group",
			src:  "vvfuv",
			want: []byte{0x00, 0x00, 0x00},
		},
		{
			name: "two character tail",
			src:  "v=",
			want: []byte{0x00},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeSixBit(tt.src); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeSixBit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSixBitRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 0; n <= 300; n++ {
		src := make([]byte, n)
		rng.Read(src)

		encoded := EncodeSixBit(src)
		if want := (n*4 + 2) / 3; len(encoded) != want {
			t.Fatalf("EncodeSixBit(%d bytes) produced %d characters, want %d", n, len(encoded), want)
		}
		for i := 0; i < len(encoded); i++ {
			if c := encoded[i]; c < sixBitBase || c > sixBitBase+0x3F {
				t.Fatalf("EncodeSixBit(%d bytes) produced out of range character %q", n, c)
			}
		}
		if got := DecodeSixBit(encoded); !reflect.DeepEqual(got, src) {
			t.Fatalf("round trip of %d bytes failed: got %v, want %v", n, got, src)
		}
	}
}

func TestDecodeSixBit_ArbitraryInput(t *testing.T) {
	inputs := []string{"\x00\xff\x10", "####!!!!", "\xff\xff\xff\xff\xff", "a"}
	for _, in := range inputs {
		// Must not panic on characters outside the alphabet.
		_ = DecodeSixBit(in)
	}
}

func TestXOR(t *testing.T) {
	data := []byte("ckdsmfvju")
	ciphered := XOR(data, 1)
	if want := []byte("bjerlgwkt"); !reflect.DeepEqual(ciphered, want) {
		t.Errorf("XOR() = %q, want %q", ciphered, want)
	}
	if got := XOR(ciphered, 1); !reflect.DeepEqual(got, data) {
		t.Errorf("XOR() applied twice = %q, want %q", got, data)
	}
	if string(data) != "ckdsmfvju" {
		t.Errorf("XOR() modified its input")
	}
}
