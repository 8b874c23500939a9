//go:build !windows

package process

// OpenMemory always fails outside Windows.
func OpenMemory(pid uint32) (Memory, error) {
	return nil, ErrUnsupported
}

// Process is a child process created in the suspended state.
type Process struct {
	PID uint32
}

// StartSuspended always fails outside Windows.
func StartSuspended(path, dir string) (*Process, error) {
	return nil, ErrUnsupported
}

func (p *Process) Resume() error { return ErrUnsupported }
func (p *Process) Close() error  { return nil }
