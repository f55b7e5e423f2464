// Package config loads user settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/truchet/config.toml (falling back to
// ~/.config/truchet/config.toml). A missing file yields the defaults; keys
// present in the file override them, and command-line flags override both.
//
//	[generate]
//	grid_size = 16
//	shape     = "circle"
//	sigma     = 0.2
//
//	[library]
//	backend = "sqlite"
//
//	[cache]
//	backend    = "redis"
//	redis_addr = "localhost:6379"
//	ttl        = "72h"
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/truchet/pkg/errors"
	"github.com/matzehuels/truchet/pkg/placement"
)

// Library backends.
const (
	LibraryFile   = "file"
	LibrarySQLite = "sqlite"
	LibraryMongo  = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the full configuration file.
type Config struct {
	Generate GenerateConfig `toml:"generate"`
	Library  LibraryConfig  `toml:"library"`
	Cache    CacheConfig    `toml:"cache"`
}

// GenerateConfig holds defaults for the generate command.
type GenerateConfig struct {
	GridSize    int      `toml:"grid_size"`
	Shape       string   `toml:"shape"`
	Rotation    string   `toml:"rotation"`
	Sigma       float64  `toml:"sigma"`
	TileSize    int      `toml:"tile_size"`
	Seed        *uint64  `toml:"seed"`
	Formats     []string `toml:"formats"`
	Output      string   `toml:"output"`
	Background  string   `toml:"background"`
	Stroke      string   `toml:"stroke"`
	StrokeWidth float64  `toml:"stroke_width"`
}

// LibraryConfig selects where the tile library is stored.
type LibraryConfig struct {
	Backend         string `toml:"backend"`
	Path            string `toml:"path"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// CacheConfig selects the pipeline cache backend.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a Go duration string ("36h").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.defaults()
	return c
}

// defaults fills every empty field.
func (c *Config) defaults() {
	g := &c.Generate
	if g.GridSize == 0 {
		g.GridSize = placement.DefaultGridSize
	}
	if g.Shape == "" {
		g.Shape = string(placement.DefaultShape)
	}
	if g.Rotation == "" {
		g.Rotation = string(placement.DefaultRotation)
	}
	if g.Sigma == 0 {
		g.Sigma = placement.DefaultSigma
	}
	if g.TileSize == 0 {
		g.TileSize = placement.DefaultTileSize
	}
	if len(g.Formats) == 0 {
		g.Formats = []string{"svg"}
	}
	if g.Output == "" {
		g.Output = "truchet_tiles.svg"
	}

	l := &c.Library
	if l.Backend == "" {
		l.Backend = LibraryFile
	}
	if l.MongoURI == "" {
		l.MongoURI = "mongodb://localhost:27017"
	}
	if l.MongoDatabase == "" {
		l.MongoDatabase = appName
	}
	if l.MongoCollection == "" {
		l.MongoCollection = "tiles"
	}

	k := &c.Cache
	if k.Backend == "" {
		k.Backend = CacheFile
	}
	if k.RedisAddr == "" {
		k.RedisAddr = "localhost:6379"
	}
	if k.TTL.Duration == 0 {
		k.TTL.Duration = 7 * 24 * time.Hour
	}
}

// Load reads the configuration at path. An empty path means [DefaultPath].
// A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML, applies defaults and validates the result. Unknown
// keys are rejected so typos do not pass silently.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	c.defaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks backend names and generation defaults.
func (c *Config) Validate() error {
	switch c.Library.Backend {
	case LibraryFile, LibrarySQLite, LibraryMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"library.backend %q (must be one of: file, sqlite, mongo)", c.Library.Backend)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache.backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	return nil
}

// Params returns the generation defaults as placement parameters.
func (c *Config) Params() placement.Params {
	return placement.Params{
		GridSize: c.Generate.GridSize,
		Shape:    placement.Shape(c.Generate.Shape),
		Rotation: placement.Rotation(c.Generate.Rotation),
		Sigma:    c.Generate.Sigma,
		TileSize: c.Generate.TileSize,
	}
}

// LibraryPath returns the configured library location, or the default file
// for the backend under [DataDir]. It is empty for the mongo backend.
func (c *Config) LibraryPath() (string, error) {
	if c.Library.Path != "" || c.Library.Backend == LibraryMongo {
		return c.Library.Path, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	name := "tiles.json"
	if c.Library.Backend == LibrarySQLite {
		name = "tiles.db"
	}
	return join(dir, name), nil
}

// CacheDir returns the configured cache directory or the XDG default.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return CacheDir()
}

// Write encodes the configuration as TOML.
func (c *Config) Write(w io.Writer) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
