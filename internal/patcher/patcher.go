// Package patcher rewrites instructions in the running game client. Every
// site is verified against the bytes the unmodified client has there before
// anything is written, so a different client build is left untouched.
package patcher

import (
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dcrodman/mirlauncher/internal/process"
)

const expectedSize = 4

// Site is a location in the client's memory to patch.
type Site struct {
	Address     uint32
	Expected    uint32
	Replacement []byte
}

// Matches reports whether current, the bytes read at site.Address, are the
// ones the patch expects to replace.
func Matches(current []byte, site Site) bool {
	if len(current) < expectedSize {
		return false
	}
	return binary.LittleEndian.Uint32(current) == site.Expected
}

type Patcher struct {
	Logger *logrus.Logger
	// Opens the memory of a process. Defaults to process.OpenMemory.
	Open  func(pid uint32) (process.Memory, error)
	Sites []Site
}

// New returns a Patcher for the default sites.
func New(logger *logrus.Logger) *Patcher {
	return &Patcher{
		Logger: logger,
		Open:   process.OpenMemory,
		Sites:  DefaultSites,
	}
}

// Apply patches every site of the process identified by pid whose current
// bytes match and returns how many were written. Only failing to open the
// process is an error; unreadable or mismatched sites are skipped and failed
// writes are logged.
func (p *Patcher) Apply(pid uint32) (applied int, err error) {
	open := p.Open
	if open == nil {
		open = process.OpenMemory
	}

	mem, err := open(pid)
	if err != nil {
		return 0, fmt.Errorf("error opening game process: %w", err)
	}
	defer func() {
		if cerr := mem.Close(); cerr != nil {
			p.Logger.Warnf("error closing game process handle: %s", cerr)
		}
	}()

	for _, site := range p.Sites {
		fields := logrus.Fields{"pid": pid, "address": fmt.Sprintf("0x%08X", site.Address)}

		current, err := mem.ReadBytes(site.Address, expectedSize)
		if err != nil {
			p.Logger.WithFields(fields).Debugf("skipping unreadable patch site: %s", err)
			continue
		}
		if !Matches(current, site) {
			p.Logger.WithFields(fields).Debugf("skipping patch site with unexpected bytes % X", current)
			continue
		}

		if err := mem.WriteBytes(site.Address, site.Replacement); err != nil {
			p.Logger.WithFields(fields).Warnf("failed to patch site: %s", err)
			continue
		}
		applied++
	}

	p.Logger.WithField("pid", pid).Infof("patched %d of %d sites", applied, len(p.Sites))
	return applied, nil
}
