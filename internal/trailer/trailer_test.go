package trailer

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testServers = []ServerEntry{
	{
		Caption: "一区",
		Name:    "传奇一区",
		Address: "192.168.1.10",
		Port:    "7000",
		WebURL:  "http://www.example.com",
		InfoURL: "http://www.example.com/info",
		ShopURL: "http://www.example.com/shop",
	},
	{
		Caption: "Test",
		Name:    "Test Server",
		Address: "10.0.0.1",
		Port:    "7100",
	},
	{
		Caption: "Local",
		Name:    "Local",
		Address: "127.0.0.1",
		Port:    "7000",
		WebURL:  "http://localhost",
	},
}

var hostBytes = []byte("MZ\x90\x00 pretend this is an executable")

func writeHost(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "launcher.exe")
	if err := os.WriteFile(path, hostBytes, 0644); err != nil {
		t.Fatalf("error writing host file: %v", err)
	}
	return path
}

func TestAppendAndRead(t *testing.T) {
	path := writeHost(t)
	picture := make([]byte, 300)
	for i := range picture {
		picture[i] = byte(i * 7)
	}

	err := Append(path, Options{
		Title:       "测试登录器",
		DownloadURL: "http://www.example.com/serverlist.ini",
		Servers:     testServers,
		Picture:     picture,
		Backup:      true,
	})
	if err != nil {
		t.Fatalf("Append() returned unexpected error: %v", err)
	}

	info, _ := os.Stat(path)
	wantSize := int64(len(hostBytes) + len(picture) + ServerSize*len(testServers) + HeaderSize)
	if info.Size() != wantSize {
		t.Errorf("file size = %d, want %d", info.Size(), wantSize)
	}

	backup, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("error reading backup: %v", err)
	}
	if diff := cmp.Diff(hostBytes, backup); diff != "" {
		t.Errorf("backup differs from the original; diff:\n%s", diff)
	}

	c, err := Read(path)
	if err != nil {
		t.Fatalf("Read() returned unexpected error: %v", err)
	}
	if got := c.Title(); got != "测试登录器" {
		t.Errorf("Title() = %q", got)
	}
	if got := c.DownloadURL(); got != "http://www.example.com/serverlist.ini" {
		t.Errorf("DownloadURL() = %q", got)
	}
	if diff := cmp.Diff(picture, c.Picture); diff != "" {
		t.Errorf("picture did not survive the round trip; diff:\n%s", diff)
	}
	if diff := cmp.Diff(testServers, c.ServerEntries()); diff != "" {
		t.Errorf("servers did not survive the round trip; diff:\n%s", diff)
	}
	if c.Header.ExeType != 1 || c.Header.NoticeSize != 0 || len(c.Header.Version.Content) != 0 {
		t.Errorf("unexpected fixed header fields: %+v", c.Header)
	}

	if _, err := c.Server(len(testServers)); err == nil {
		t.Error("Server() expected an error for an out of range index")
	}
}

func TestAppend_SecondAppendRefused(t *testing.T) {
	path := writeHost(t)
	opts := Options{Title: "x", Servers: testServers[:1], Picture: []byte{1, 2, 3}}
	if err := Append(path, opts); err != nil {
		t.Fatalf("Append() returned unexpected error: %v", err)
	}
	before, _ := os.ReadFile(path)

	if err := Append(path, opts); !errors.Is(err, ErrAlreadyContainerized) {
		t.Fatalf("second Append() error = %v, want ErrAlreadyContainerized", err)
	}
	after, _ := os.ReadFile(path)
	if len(before) != len(after) {
		t.Errorf("refused Append() changed the file size from %d to %d", len(before), len(after))
	}
}

func TestAppend_Preconditions(t *testing.T) {
	t.Run("missing target", func(t *testing.T) {
		err := Append(filepath.Join(t.TempDir(), "missing.exe"), Options{Picture: []byte{1}})
		if !errors.Is(err, ErrTargetMissing) {
			t.Errorf("Append() error = %v, want ErrTargetMissing", err)
		}
	})

	t.Run("empty picture", func(t *testing.T) {
		path := writeHost(t)
		if err := Append(path, Options{Backup: true}); !errors.Is(err, ErrEmptyPicture) {
			t.Errorf("Append() error = %v, want ErrEmptyPicture", err)
		}
		if _, err := os.Stat(path + ".bak"); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("backup was created despite the failed precondition")
		}
		contents, _ := os.ReadFile(path)
		if diff := cmp.Diff(hostBytes, contents); diff != "" {
			t.Errorf("file was modified; diff:\n%s", diff)
		}
	})
}

func TestAppend_TruncatesLongFields(t *testing.T) {
	path := writeHost(t)
	longName := strings.Repeat("n", 30)
	err := Append(path, Options{
		Title:   strings.Repeat("t", 25),
		Servers: []ServerEntry{{Caption: "c", Name: longName, Address: "1234567890123456789"}},
		Picture: []byte{9},
	})
	if err != nil {
		t.Fatalf("Append() returned unexpected error: %v", err)
	}

	c, err := Read(path)
	if err != nil {
		t.Fatalf("Read() returned unexpected error: %v", err)
	}
	if got := c.Title(); got != strings.Repeat("t", 20) {
		t.Errorf("Title() = %q, want 20 characters", got)
	}
	s, _ := c.Server(0)
	if s.Name != longName[:20] || s.Address != "123456789012345" {
		t.Errorf("server fields were not truncated: %+v", s)
	}
}

func TestRead_NoContainer(t *testing.T) {
	tests := []struct {
		name     string
		contents []byte
	}{
		{name: "shorter than a header", contents: []byte("tiny")},
		{name: "no marker", contents: make([]byte, 4096)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "plain.exe")
			if err := os.WriteFile(path, tt.contents, 0644); err != nil {
				t.Fatalf("error writing file: %v", err)
			}
			if _, err := Read(path); !errors.Is(err, ErrNoContainer) {
				t.Errorf("Read() error = %v, want ErrNoContainer", err)
			}
			if has, err := HasContainer(path); has || err != nil {
				t.Errorf("HasContainer() = (%v, %v), want (false, nil)", has, err)
			}
		})
	}
}

func TestRead_SizeMismatch(t *testing.T) {
	path := writeHost(t)
	if err := Append(path, Options{Servers: testServers, Picture: []byte{1, 2, 3, 4}}); err != nil {
		t.Fatalf("Append() returned unexpected error: %v", err)
	}

	contents, _ := os.ReadFile(path)
	// Picture size sits after marker(21), count(2), title(21), version(6) and type(2).
	offset := len(contents) - HeaderSize + 21 + 2 + 21 + 6 + 2
	binary.LittleEndian.PutUint32(contents[offset:], 1<<20)
	if err := os.WriteFile(path, contents, 0644); err != nil {
		t.Fatalf("error rewriting file: %v", err)
	}

	if _, err := Read(path); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Read() error = %v, want ErrSizeMismatch", err)
	}
}

func TestKeyIsLowByteOfPictureSize(t *testing.T) {
	// A 256 byte picture yields key 0, leaving the fields in plain text.
	path := writeHost(t)
	if err := Append(path, Options{Title: "plain", Picture: make([]byte, 256)}); err != nil {
		t.Fatalf("Append() returned unexpected error: %v", err)
	}

	c, err := Read(path)
	if err != nil {
		t.Fatalf("Read() returned unexpected error: %v", err)
	}
	if string(c.Header.Title.Content) != "plain" {
		t.Errorf("title content = %q, want unciphered text", c.Header.Title.Content)
	}
}

func TestShortString(t *testing.T) {
	s := ShortString{MaxLength: 5, Content: []byte("abcdefg")}
	field := s.FieldBytes()
	if diff := cmp.Diff([]byte{5, 'a', 'b', 'c', 'd', 'e'}, field); diff != "" {
		t.Errorf("FieldBytes() diff:\n%s", diff)
	}

	clamped := ParseShortString([]byte{200, 'x', 'y', 'z'}, 3)
	if string(clamped.Content) != "xyz" {
		t.Errorf("ParseShortString() content = %q, want clamped to capacity", clamped.Content)
	}

	empty := ParseShortString(make([]byte, 6), 5)
	if len(empty.Content) != 0 {
		t.Errorf("ParseShortString() of a zero field = %q", empty.Content)
	}
}

func TestMarker(t *testing.T) {
	if string(markerBytes) != "bjerlgwkt" {
		t.Errorf("marker = %q", markerBytes)
	}
}
