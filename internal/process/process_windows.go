//go:build windows

package process

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const memoryAccess = windows.PROCESS_VM_READ |
	windows.PROCESS_VM_WRITE |
	windows.PROCESS_VM_OPERATION |
	windows.PROCESS_QUERY_INFORMATION

type processMemory struct {
	handle windows.Handle
}

// OpenMemory opens the process identified by pid for reading and writing.
func OpenMemory(pid uint32) (Memory, error) {
	h, err := windows.OpenProcess(memoryAccess, false, pid)
	if err != nil {
		return nil, fmt.Errorf("error opening process %d: %w", pid, err)
	}
	return &processMemory{handle: h}, nil
}

func (m *processMemory) ReadBytes(address uint32, n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	var read uintptr
	err := windows.ReadProcessMemory(m.handle, uintptr(address), &buf[0], uintptr(n), &read)
	if err != nil {
		return nil, fmt.Errorf("error reading %d bytes at 0x%08X: %w", n, address, err)
	}
	return buf[:read], nil
}

func (m *processMemory) WriteBytes(address uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var written uintptr
	err := windows.WriteProcessMemory(m.handle, uintptr(address), &data[0], uintptr(len(data)), &written)
	if err != nil {
		return fmt.Errorf("error writing %d bytes at 0x%08X: %w", len(data), address, err)
	}
	if int(written) != len(data) {
		return fmt.Errorf("short write at 0x%08X: %d of %d bytes", address, written, len(data))
	}
	return nil
}

func (m *processMemory) Close() error {
	return windows.CloseHandle(m.handle)
}

// Process is a child process created in the suspended state.
type Process struct {
	PID uint32

	process windows.Handle
	thread  windows.Handle
}

// StartSuspended creates a process for the executable at path with dir as
// its working directory. Its main thread does not run until Resume.
func StartSuspended(path, dir string) (*Process, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("error locating %s: %w", path, err)
	}

	appName, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}
	cmdLine, err := syscall.UTF16PtrFromString(windows.EscapeArg(path))
	if err != nil {
		return nil, err
	}
	workDir, err := syscall.UTF16PtrFromString(dir)
	if err != nil {
		return nil, err
	}

	si := &windows.StartupInfo{
		Flags:      windows.STARTF_USESHOWWINDOW,
		ShowWindow: windows.SW_NORMAL,
	}
	si.Cb = uint32(unsafe.Sizeof(*si))
	var pi windows.ProcessInformation

	err = windows.CreateProcess(appName, cmdLine, nil, nil, false,
		windows.CREATE_SUSPENDED, nil, workDir, si, &pi)
	if err != nil {
		return nil, fmt.Errorf("error creating process for %s: %w", path, err)
	}

	return &Process{PID: pi.ProcessId, process: pi.Process, thread: pi.Thread}, nil
}

// Resume lets the main thread of p run.
func (p *Process) Resume() error {
	if _, err := windows.ResumeThread(p.thread); err != nil {
		return fmt.Errorf("error resuming process %d: %w", p.PID, err)
	}
	return nil
}

// Close releases the handles to p without affecting the process itself.
func (p *Process) Close() error {
	err := windows.CloseHandle(p.thread)
	if cerr := windows.CloseHandle(p.process); err == nil {
		err = cerr
	}
	return err
}
