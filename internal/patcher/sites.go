package patcher

// DefaultSites turn the client's conditional jumps around its login checks
// into unconditional ones. Expected values are the first four bytes at each
// address, read as a little endian uint32.
var DefaultSites = []Site{
	{Address: 0x0040370E, Expected: 0xF474860F, Replacement: []byte{0xE9, 0x75, 0xF4, 0xFF, 0xFF, 0x90}},
	{Address: 0x0040373A, Expected: 0xF458860F, Replacement: []byte{0xE9, 0x59, 0xF4, 0xFF, 0xFF, 0x90}},
	{Address: 0x00404DAA, Expected: 0xF470860F, Replacement: []byte{0xE9, 0x71, 0xF4, 0xFF, 0xFF, 0x90}},
	{Address: 0x00404F0C, Expected: 0xF45E860F, Replacement: []byte{0xE9, 0x5F, 0xF4, 0xFF, 0xFF, 0x90}},
	{Address: 0x00404D1A, Expected: 0xF450860F, Replacement: []byte{0xE9, 0x51, 0xF4, 0xFF, 0xFF, 0x90}},
	{Address: 0x004042B9, Expected: 0xF5E1860F, Replacement: []byte{0xE9, 0xE2, 0xF5, 0xFF, 0xFF, 0x90}},
	{Address: 0x004052FD, Expected: 0x0D8B2576, Replacement: []byte{0xE9, 0xF1, 0xF5, 0xFF, 0xFF, 0x90}},
	{Address: 0x00403EC2, Expected: 0x0D8B1E76, Replacement: []byte{0xE9, 0x49, 0xF6, 0xFF, 0xFF, 0x90}},
	{Address: 0x00403F04, Expected: 0xF607860F, Replacement: []byte{0xE9, 0x08, 0xF6, 0xFF, 0xFF, 0x90}},
	{Address: 0x00403ED4, Expected: 0xF607860F, Replacement: []byte{0xE9, 0x08, 0xF6, 0xFF, 0xFF, 0x90}},
	// Short jump.
	{Address: 0x00403E92, Expected: 0x0D8B1E76, Replacement: []byte{0xEB}},
}
