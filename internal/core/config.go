package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config contains all of the configuration options available to the launcher
// and its companion tools.
type Config struct {
	// Directory relative paths in this file are resolved against. Defaults to
	// the directory the config was loaded from.
	BaseDir string `mapstructure:"base_dir"`
	// Full path to file to which logs will be written. Blank will write to stdout.
	LogFilePath string `mapstructure:"log_file_path"`
	// Minimum level of a log required to be written. Options: debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`
	// Title shown when the executable carries no embedded configuration.
	DefaultTitle string `mapstructure:"default_title"`
	// INI file holding the selectable servers.
	ServerListFile string `mapstructure:"server_list_file"`
	// Directory containing the game client and its INI files.
	DataDir string `mapstructure:"data_dir"`
	// Game executables in order of preference, relative to DataDir.
	GameFiles []string `mapstructure:"game_files"`

	Defaults struct {
		// Values used when a server list entry leaves a key out.
		ServerAddress string `mapstructure:"server_address"`
		ServerPort    string `mapstructure:"server_port"`
		WebURL        string `mapstructure:"web_url"`
	} `mapstructure:"defaults"`

	Network struct {
		// How long to wait for the login server to accept a connection.
		ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
		// How long to wait for the login server to answer a request.
		ResponseTimeout time.Duration `mapstructure:"response_timeout"`
		// Limit on fetching the remote server list.
		DownloadTimeout time.Duration `mapstructure:"download_timeout"`
	} `mapstructure:"network"`

	Game struct {
		// Apply the memory patches after starting the game.
		PatchEnabled bool `mapstructure:"patch_enabled"`
		// Time the game is given to unpack itself before it is patched.
		PatchDelay time.Duration `mapstructure:"patch_delay"`
	} `mapstructure:"game"`

	Database struct {
		// Options: sqlite, postgres
		Engine string `mapstructure:"engine"`
		// SQLite database file, relative to BaseDir.
		Filename string `mapstructure:"filename"`
		// Hostname of the Postgres database instance.
		Host string `mapstructure:"host"`
		// Port on db_host on which the Postgres instance is accepting connections.
		Port int `mapstructure:"port"`
		// Name of the database in Postgres.
		Name string `mapstructure:"name"`
		// Username and password of a user with full RW privileges to ${db_name}.
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		// Set to verify-full if the Postgres instance supports SSL.
		SSLMode string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	Debugging struct {
		// Log every frame sent to and received from the login server.
		PacketLoggingEnabled bool `mapstructure:"packet_logging_enabled"`
		// Enable database-level query logging.
		DatabaseLoggingEnabled bool `mapstructure:"database_logging_enabled"`
	} `mapstructure:"debugging"`
}

const envVarPrefix = "MIRLAUNCHER"

var defaults = map[string]interface{}{
	"log_level":                          "info",
	"default_title":                      "LyoMirWorld测试登录器，仅供学习！",
	"server_list_file":                   "serverlist.ini",
	"data_dir":                           "data",
	"game_files":                         []string{"woool.dat.update", "woool.dat"},
	"defaults.server_address":            "127.0.0.1",
	"defaults.server_port":               "7000",
	"defaults.web_url":                   "http://www.chengxihot.top",
	"network.connect_timeout":            "5s",
	"network.response_timeout":           "15s",
	"network.download_timeout":           "10s",
	"game.patch_enabled":                 true,
	"game.patch_delay":                   "1s",
	"database.engine":                    "sqlite",
	"database.filename":                  "launcher.db",
	"database.port":                      5432,
	"database.sslmode":                   "disable",
	"debugging.packet_logging_enabled":   false,
	"debugging.database_logging_enabled": false,
}

// LoadConfig reads config.yaml from configPath. The launcher ships without a
// config file, so a missing one leaves every option at its default.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(envVarPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, database.host can be set using: <envVarPrefix>_DATABASE_HOST
	for _, k := range v.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := v.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			return nil, fmt.Errorf("error binding %s to %s: %w", k, envVarPrefix+"_"+envVar, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config object: %w", err)
	}
	if config.BaseDir == "" {
		config.BaseDir = configPath
	}
	return config, nil
}

// QualifiedPath returns path resolved against BaseDir. Absolute paths are
// returned as-is.
func (c *Config) QualifiedPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// DataPath resolves a file inside the game's data directory.
func (c *Config) DataPath(name string) string {
	return filepath.Join(c.QualifiedPath(c.DataDir), name)
}

const databaseURITemplate = "host=%s port=%d dbname=%s user=%s password=%s sslmode=%s"

// DatabaseURL returns a database URL generated from the provided config values.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		databaseURITemplate,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.Username,
		c.Database.Password,
		c.Database.SSLMode,
	)
}

// DatabaseSource returns what data.Open needs to reach the configured engine:
// a file path for sqlite, a connection string for postgres.
func (c *Config) DatabaseSource() string {
	if strings.EqualFold(c.Database.Engine, "postgres") {
		return c.DatabaseURL()
	}
	return c.QualifiedPath(c.Database.Filename)
}
