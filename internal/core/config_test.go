package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() returned unexpected error: %v", err)
	}

	if cfg.BaseDir != dir {
		t.Errorf("BaseDir = %s, want %s", cfg.BaseDir, dir)
	}
	if cfg.ServerListFile != "serverlist.ini" {
		t.Errorf("ServerListFile = %s, want serverlist.ini", cfg.ServerListFile)
	}
	if cfg.Defaults.ServerPort != "7000" {
		t.Errorf("Defaults.ServerPort = %s, want 7000", cfg.Defaults.ServerPort)
	}
	if cfg.Network.DownloadTimeout != 10*time.Second {
		t.Errorf("Network.DownloadTimeout = %v, want 10s", cfg.Network.DownloadTimeout)
	}
	if diff := cmp.Diff([]string{"woool.dat.update", "woool.dat"}, cfg.GameFiles); diff != "" {
		t.Errorf("GameFiles did not match expected; diff:\n%s", diff)
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	contents := []byte(`
log_level: debug
data_dir: client
network:
  connect_timeout: 2s
database:
  engine: postgres
  host: db.local
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), contents, 0644); err != nil {
		t.Fatalf("error writing config file: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() returned unexpected error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.Network.ConnectTimeout != 2*time.Second {
		t.Errorf("Network.ConnectTimeout = %v, want 2s", cfg.Network.ConnectTimeout)
	}
	if cfg.Database.Engine != "postgres" || cfg.Database.Host != "db.local" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if got, want := cfg.DataPath("game.ini"), filepath.Join(dir, "client", "game.ini"); got != want {
		t.Errorf("DataPath() = %s, want %s", got, want)
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log_level: [unterminated"), 0644); err != nil {
		t.Fatalf("error writing config file: %v", err)
	}
	if _, err := LoadConfig(dir); err == nil {
		t.Error("LoadConfig() expected an error for malformed yaml")
	}
}

func TestConfig_QualifiedPath(t *testing.T) {
	cfg := &Config{BaseDir: "/opt/launcher"}
	if got := cfg.QualifiedPath("serverlist.ini"); got != "/opt/launcher/serverlist.ini" {
		t.Errorf("QualifiedPath() = %s", got)
	}
	if got := cfg.QualifiedPath("/tmp/x.ini"); got != "/tmp/x.ini" {
		t.Errorf("QualifiedPath() altered an absolute path: %s", got)
	}
}

func TestConfig_DatabaseURL(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.Name = "testdb"
	cfg.Database.Username = "testuser"
	cfg.Database.Password = "testpassword"
	cfg.Database.SSLMode = "disable"

	url := cfg.DatabaseURL()
	expected := "host=localhost port=5432 dbname=testdb user=testuser password=testpassword sslmode=disable"
	if url != expected {
		t.Errorf("DatabaseURL() want = %s, got = %s", expected, url)
	}
}

func TestConfig_DatabaseSource(t *testing.T) {
	cfg := &Config{BaseDir: "/opt/launcher"}
	cfg.Database.Engine = "sqlite"
	cfg.Database.Filename = "launcher.db"
	if got := cfg.DatabaseSource(); got != "/opt/launcher/launcher.db" {
		t.Errorf("DatabaseSource() = %s", got)
	}

	cfg.Database.Engine = "Postgres"
	if got := cfg.DatabaseSource(); got != cfg.DatabaseURL() {
		t.Errorf("DatabaseSource() = %s, want the postgres URL", got)
	}
}
