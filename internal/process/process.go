// Package process starts the game client and gives access to its memory.
// Only Windows is supported; elsewhere every operation fails with
// ErrUnsupported so the rest of the launcher still builds and tests.
package process

import "errors"

var ErrUnsupported = errors.New("process: not supported on this platform")

// Memory reads and writes the address space of another process. Addresses
// are 32-bit since the game client is a 32-bit executable.
type Memory interface {
	ReadBytes(address uint32, n int) ([]byte, error)
	WriteBytes(address uint32, data []byte) error
	Close() error
}
