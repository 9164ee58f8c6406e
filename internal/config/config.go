// Package config loads json2sql settings from a TOML file and the environment.
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-sql-driver/mysql"
)

const (
	// DefaultFile is read when no config path is given. A missing default file is not an error.
	DefaultFile = "json2sql.toml"
	// EnvDSN overrides the connection settings of the file.
	EnvDSN = "JSON2SQL_DSN"

	defaultOutputDir = "sql"
	defaultPort      = 3306
)

// Config is the top-level TOML document.
type Config struct {
	Prefix    string `toml:"prefix"`
	OutputDir string `toml:"output_dir"`
	Sync      *bool  `toml:"sync"`
	Log       *bool  `toml:"log"`
	Format    string `toml:"format"`
	MySQL     MySQL  `toml:"mysql"`
}

// MySQL maps [mysql]. DSN wins over the individual fields when set.
type MySQL struct {
	DSN      string            `toml:"dsn"`
	Host     string            `toml:"host"`
	Port     int               `toml:"port"`
	User     string            `toml:"user"`
	Password string            `toml:"password"`
	Database string            `toml:"database"`
	Params   map[string]string `toml:"params"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{OutputDir: defaultOutputDir}
}

// Load reads the file at path. An empty path reads DefaultFile if it exists.
func Load(path string) (*Config, error) {
	optional := path == ""
	if optional {
		path = DefaultFile
	}

	f, err := os.Open(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: open file %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a TOML document. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("config: unknown keys: %s", strings.Join(keys, ", "))
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if dsn := strings.TrimSpace(getenv(EnvDSN)); dsn != "" {
		c.MySQL = MySQL{DSN: dsn}
	}
}

// SyncEnabled reports whether tables are dropped before they are created.
func (c *Config) SyncEnabled() bool {
	return c.Sync == nil || *c.Sync
}

// LogEnabled reports whether progress is printed.
func (c *Config) LogEnabled() bool {
	return c.Log == nil || *c.Log
}

// DSN returns the go-sql-driver/mysql data source name. It returns an empty
// string when no connection is configured.
func (c *Config) DSN() (string, error) {
	m := c.MySQL
	if m.DSN != "" {
		if _, err := mysql.ParseDSN(m.DSN); err != nil {
			return "", fmt.Errorf("config: invalid dsn: %w", err)
		}
		return m.DSN, nil
	}
	if m.Host == "" && m.Database == "" && m.User == "" {
		return "", nil
	}

	host := m.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := m.Port
	if port == 0 {
		port = defaultPort
	}

	cfg := mysql.NewConfig()
	cfg.User = m.User
	cfg.Passwd = m.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	cfg.DBName = m.Database
	if len(m.Params) > 0 {
		cfg.Params = maps.Clone(m.Params)
	}
	return cfg.FormatDSN(), nil
}
