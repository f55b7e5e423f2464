package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/truchet/pkg/errors"
	"github.com/matzehuels/truchet/pkg/placement"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, placement.DefaultParams(), c.Params())
	assert.Equal(t, LibraryFile, c.Library.Backend)
	assert.Equal(t, CacheFile, c.Cache.Backend)
	assert.Nil(t, c.Generate.Seed, "no seed by default")
	assert.Equal(t, "truchet_tiles.svg", c.Generate.Output)
	assert.Equal(t, 7*24*time.Hour, c.Cache.TTL.Duration)
	assert.NoError(t, c.Validate(), "defaults should validate")
}

func TestParseOverrides(t *testing.T) {
	c, err := Parse([]byte(`
[generate]
grid_size = 24
seed = 77
shape = "circle"
sigma = 0.4
formats = ["svg", "json"]

[library]
backend = "sqlite"
path = "/tmp/tiles.db"

[cache]
backend = "redis"
redis_db = 3
ttl = "36h"
`))
	require.NoError(t, err)

	p := c.Params()
	assert.Equal(t, 24, p.GridSize)
	assert.Equal(t, placement.ShapeCircle, p.Shape)
	assert.Equal(t, 0.4, p.Sigma)
	assert.Equal(t, placement.RotationDefault, p.Rotation, "unset fields keep defaults")
	assert.Equal(t, placement.DefaultTileSize, p.TileSize, "unset fields keep defaults")

	require.NotNil(t, c.Generate.Seed)
	assert.Equal(t, uint64(77), *c.Generate.Seed)
	assert.Len(t, c.Generate.Formats, 2)

	assert.Equal(t, LibrarySQLite, c.Library.Backend)
	assert.Equal(t, "/tmp/tiles.db", c.Library.Path)

	assert.Equal(t, CacheRedis, c.Cache.Backend)
	assert.Equal(t, 3, c.Cache.RedisDB)
	assert.Equal(t, "localhost:6379", c.Cache.RedisAddr)
	assert.Equal(t, 36*time.Hour, c.Cache.TTL.Duration)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `[generate`},
		{"unknown key", "[generate]\ngird_size = 9"},
		{"bad library backend", "[library]\nbackend = \"s3\""},
		{"bad cache backend", "[cache]\nbackend = \"memcached\""},
		{"bad ttl", "[cache]\nttl = \"soon\""},
		{"grid out of range", "[generate]\ngrid_size = 4"},
		{"bad shape", "[generate]\nshape = \"spiral\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("[generate]\ngird_size = 9"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "unknown key code = %v", errors.GetCode(err))
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, placement.DefaultGridSize, c.Generate.GridSize, "missing file gives defaults")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[generate]\nrotation = \"pyramid\"\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.EqualValues(t, "pyramid", c.Generate.Rotation)
}

func TestXDGPaths(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))

	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "cfg", "truchet", "config.toml"), p)

	c := Default()
	p, _ = c.LibraryPath()
	assert.Equal(t, filepath.Join(base, "data", "truchet", "tiles.json"), p)

	c.Library.Backend = LibrarySQLite
	p, _ = c.LibraryPath()
	assert.Equal(t, filepath.Join(base, "data", "truchet", "tiles.db"), p)

	c.Library.Backend = LibraryMongo
	p, _ = c.LibraryPath()
	assert.Empty(t, p, "mongo has no local path")

	d, _ := c.CacheDir()
	assert.Equal(t, filepath.Join(base, "cache", "truchet"), d)

	c.Cache.Dir = "/elsewhere"
	d, _ = c.CacheDir()
	assert.Equal(t, "/elsewhere", d)
}

func TestWriteRoundTrip(t *testing.T) {
	c := Default()
	c.Generate.Shape = "gradient"
	c.Cache.TTL.Duration = 90 * time.Minute

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf))

	back, err := Parse(buf.Bytes())
	require.NoError(t, err, buf.String())
	assert.EqualValues(t, "gradient", back.Generate.Shape)
	assert.Equal(t, 90*time.Minute, back.Cache.TTL.Duration)
}
