package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dcrodman/mirlauncher/internal/core/text"
	"github.com/dcrodman/mirlauncher/internal/serverlist"
	"github.com/dcrodman/mirlauncher/internal/trailer"
)

func writeServers(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "servers.ini")
	if err := os.WriteFile(path, text.Encode(contents), 0644); err != nil {
		t.Fatalf("error writing servers: %v", err)
	}
	return path
}

func TestLoadServers(t *testing.T) {
	path := writeServers(t, "[一区]\nServerName=传奇\nServerAdd=10.0.0.1\nServerPort=7000\nshopUrl=http://shop\n[二区]\nServerAdd=10.0.0.2\nServerPort=7001\n")

	servers, err := loadServers(path)
	if err != nil {
		t.Fatalf("loadServers() returned unexpected error: %v", err)
	}
	want := []trailer.ServerEntry{
		{Caption: "一区", Name: "传奇", Address: "10.0.0.1", Port: "7000", ShopURL: "http://shop"},
		{Caption: "二区", Name: "二区", Address: "10.0.0.2", Port: "7001"},
	}
	if diff := cmp.Diff(want, servers); diff != "" {
		t.Errorf("loadServers() diff:\n%s", diff)
	}
}

func TestLoadServers_Invalid(t *testing.T) {
	if _, err := loadServers(writeServers(t, "")); !errors.Is(err, errNoServers) {
		t.Errorf("loadServers() error = %v, want errNoServers", err)
	}
	if _, err := loadServers(writeServers(t, "[一区]\nServerAdd=10.0.0.1\n")); !errors.Is(err, serverlist.ErrIncompleteEntry) {
		t.Errorf("loadServers() error = %v, want ErrIncompleteEntry", err)
	}
	if _, err := loadServers(filepath.Join(t.TempDir(), "missing.ini")); err == nil {
		t.Error("loadServers() expected an error for a missing file")
	}
}

func TestEmbed(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "launcher.exe")
	picture := filepath.Join(dir, "picture.bmp")
	if err := os.WriteFile(exe, []byte("MZ launcher"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(picture, []byte("BM picture"), 0644); err != nil {
		t.Fatal(err)
	}

	embedFlags.exe = exe
	embedFlags.title = "登录器"
	embedFlags.downloadURL = "http://example.com/serverlist.ini"
	embedFlags.picture = picture
	embedFlags.servers = writeServers(t, "[一区]\nServerAdd=10.0.0.1\nServerPort=7000\n")
	embedFlags.noBackup = false

	if err := embed(); err != nil {
		t.Fatalf("embed() returned unexpected error: %v", err)
	}
	if _, err := os.Stat(exe + ".bak"); err != nil {
		t.Errorf("embed() did not keep a backup: %v", err)
	}

	c, err := trailer.Read(exe)
	if err != nil {
		t.Fatalf("error reading embedded configuration: %v", err)
	}
	if c.Title() != "登录器" || c.DownloadURL() != "http://example.com/serverlist.ini" || string(c.Picture) != "BM picture" {
		t.Errorf("embedded configuration = %q, %q, %q", c.Title(), c.DownloadURL(), c.Picture)
	}

	if err := embed(); !errors.Is(err, trailer.ErrAlreadyContainerized) {
		t.Errorf("second embed() error = %v, want ErrAlreadyContainerized", err)
	}
}
