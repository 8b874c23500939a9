package serverlist

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/dcrodman/mirlauncher/internal/core/text"
)

func init() {
	// The game reads its INI files with a parser that expects bare key=value
	// lines.
	ini.PrettyFormat = false
	ini.PrettyEqual = false
}

var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	SkipUnrecognizableLines: true,
}

// loadINI reads a GBK encoded INI file. A missing file yields an empty one.
func loadINI(path string) (*ini.File, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ini.Empty(loadOptions), nil
	} else if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return parseINI(raw)
}

func parseINI(raw []byte) (*ini.File, error) {
	f, err := ini.LoadSources(loadOptions, []byte(text.Decode(raw)))
	if err != nil {
		return nil, fmt.Errorf("error parsing ini: %w", err)
	}
	return f, nil
}

// sections returns the named sections of f in file order.
func sections(f *ini.File) []*ini.Section {
	var named []*ini.Section
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		named = append(named, sec)
	}
	return named
}

// findSection looks a section up ignoring case.
func findSection(f *ini.File, name string) *ini.Section {
	for _, sec := range sections(f) {
		if strings.EqualFold(sec.Name(), name) {
			return sec
		}
	}
	return nil
}

// lookupKey returns the value of the named key ignoring case.
func lookupKey(sec *ini.Section, name string) (string, bool) {
	if sec == nil {
		return "", false
	}
	for _, k := range sec.Keys() {
		if strings.EqualFold(k.Name(), name) {
			return k.Value(), true
		}
	}
	return "", false
}

// setKey replaces the value of the named key, matched ignoring case, or adds
// the key.
func setKey(sec *ini.Section, name, value string) error {
	for _, k := range sec.Keys() {
		if strings.EqualFold(k.Name(), name) {
			k.SetValue(value)
			return nil
		}
	}
	_, err := sec.NewKey(name, value)
	return err
}

// saveINI writes f to path in GBK with every section's keys sorted ignoring
// case.
func saveINI(f *ini.File, path string) error {
	sorted := ini.Empty(loadOptions)
	for _, sec := range sections(f) {
		out, err := sorted.NewSection(sec.Name())
		if err != nil {
			return fmt.Errorf("error adding section %s: %w", sec.Name(), err)
		}

		keys := sec.Keys()
		sort.SliceStable(keys, func(i, j int) bool {
			return strings.ToLower(keys[i].Name()) < strings.ToLower(keys[j].Name())
		})
		for _, k := range keys {
			if _, err := out.NewKey(k.Name(), k.Value()); err != nil {
				return fmt.Errorf("error adding key %s: %w", k.Name(), err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := sorted.WriteTo(&buf); err != nil {
		return fmt.Errorf("error serializing ini: %w", err)
	}
	if err := os.WriteFile(path, text.Encode(buf.String()), 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}
