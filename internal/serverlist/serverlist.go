// Package serverlist manages the launcher's INI files: the list of
// selectable servers (serverlist.ini) and the files the game client reads
// its connection settings from. All of them are stored in GBK.
package serverlist

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Keys of a server section.
const (
	keyName    = "ServerName"
	keyAddress = "ServerAdd"
	keyPort    = "ServerPort"
	keyWebURL  = "WebUrl"
	keyInfoURL = "infoUrl"
	keyShopURL = "shopUrl"
)

// Entry is one selectable server.
type Entry struct {
	Caption string
	Name    string
	Address string
	Port    string
	WebURL  string
	InfoURL string
	ShopURL string
}

var ErrIncompleteEntry = errors.New("serverlist: server needs a caption, address and port")

// Validate checks that e names a reachable server.
func (e Entry) Validate() error {
	for _, v := range []string{e.Caption, e.Address, e.Port} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %q", ErrIncompleteEntry, e.Caption)
		}
	}
	return nil
}

// Defaults fill in keys a server section leaves out.
type Defaults struct {
	Address string
	Port    string
	WebURL  string
}

// List is the set of servers in a serverlist.ini file, in file order.
type List struct {
	file *ini.File
}

// New returns an empty List.
func New() *List {
	return &List{file: ini.Empty(loadOptions)}
}

// Load reads the server list at path. A missing file yields an empty List.
func Load(path string) (*List, error) {
	f, err := loadINI(path)
	if err != nil {
		return nil, err
	}
	return &List{file: f}, nil
}

// Parse reads a server list from GBK encoded INI data.
func Parse(raw []byte) (*List, error) {
	f, err := parseINI(raw)
	if err != nil {
		return nil, err
	}
	return &List{file: f}, nil
}

// FromEntries builds a List holding entries in order.
func FromEntries(entries []Entry) (*List, error) {
	l := New()
	for _, e := range entries {
		if err := l.Put(e); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Save writes the list to path.
func (l *List) Save(path string) error {
	return saveINI(l.file, path)
}

// Captions returns the caption of every server in file order.
func (l *List) Captions() []string {
	var captions []string
	for _, sec := range sections(l.file) {
		captions = append(captions, sec.Name())
	}
	return captions
}

// Len returns the number of servers.
func (l *List) Len() int {
	return len(sections(l.file))
}

// Has reports whether a server with the given caption exists.
func (l *List) Has(caption string) bool {
	return findSection(l.file, caption) != nil
}

// Lookup returns the server with the given caption. Missing keys, or a
// missing server, are filled from d; the name defaults to the caption.
func (l *List) Lookup(caption string, d Defaults) Entry {
	sec := findSection(l.file, caption)
	get := func(key, fallback string) string {
		if v, ok := lookupKey(sec, key); ok {
			return v
		}
		return fallback
	}

	return Entry{
		Caption: caption,
		Name:    get(keyName, caption),
		Address: get(keyAddress, d.Address),
		Port:    get(keyPort, d.Port),
		WebURL:  get(keyWebURL, d.WebURL),
		InfoURL: get(keyInfoURL, d.WebURL),
		ShopURL: get(keyShopURL, d.WebURL),
	}
}

// Put adds e, or replaces the keys of the server with the same caption.
func (l *List) Put(e Entry) error {
	sec := findSection(l.file, e.Caption)
	if sec == nil {
		var err error
		if sec, err = l.file.NewSection(e.Caption); err != nil {
			return fmt.Errorf("error adding server %s: %w", e.Caption, err)
		}
	}

	values := []struct{ key, value string }{
		{keyName, e.Name},
		{keyAddress, e.Address},
		{keyPort, e.Port},
		{keyWebURL, e.WebURL},
		{keyInfoURL, e.InfoURL},
		{keyShopURL, e.ShopURL},
	}
	for _, kv := range values {
		if err := setKey(sec, kv.key, kv.value); err != nil {
			return fmt.Errorf("error setting %s of server %s: %w", kv.key, e.Caption, err)
		}
	}
	return nil
}

// Entries returns every server with defaults applied, in file order.
func (l *List) Entries(d Defaults) []Entry {
	var entries []Entry
	for _, caption := range l.Captions() {
		entries = append(entries, l.Lookup(caption, d))
	}
	return entries
}
