package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/truchet/pkg/config"
	"github.com/matzehuels/truchet/pkg/errors"
	"github.com/matzehuels/truchet/pkg/library"
	"github.com/matzehuels/truchet/pkg/pipeline"
	"github.com/matzehuels/truchet/pkg/tile"
)

const (
	arcSVG  = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path fill="red" d="M0 12A12 12 0 0 1 12 0"/></svg>`
	diagSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="48" height="48"><path d="M0 0L48 48"/></svg>`
)

// isolate points every XDG base directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, env := range []string{"XDG_CONFIG_HOME", "XDG_DATA_HOME", "XDG_CACHE_HOME"} {
		t.Setenv(env, filepath.Join(root, strings.ToLower(env)))
	}
	return root
}

func writeTiles(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"arc.svg":       arcSVG,
		"diag.svg":      diagSVG,
		"notes.txt":     "not a tile",
		"busyness.yaml": "arc.svg: 9\ndiag.svg: 2\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// run executes the root command and returns command output plus status lines.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	prev := statusOut
	statusOut = &out
	defer func() { statusOut = prev }()

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateWritesFormats(t *testing.T) {
	root := isolate(t)
	tiles := filepath.Join(root, "tiles")
	writeTiles(t, tiles)
	base := filepath.Join(root, "out", "pattern")

	out, err := run(t, "generate", tiles, "-o", base, "-f", "svg,json", "--seed", "7", "--grid", "8")
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if !strings.Contains(out, "non-SVG") && !strings.Contains(out, "not SVGs") {
		t.Errorf("expected a skipped-files warning, got:\n%s", out)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if n := strings.Count(string(svg), "<g "); n != 64 {
		t.Errorf("svg has %d cells, want 64", n)
	}
	if strings.Contains(string(svg), `fill="red"`) {
		t.Error("fill survived normalization")
	}
	if _, err := os.Stat(base + ".json"); err != nil {
		t.Errorf("json not written: %v", err)
	}

	// same seed, same pattern, now served from the cache
	out, err = run(t, "generate", tiles, "-o", base, "--seed", "7", "--grid", "8")
	if err != nil {
		t.Fatalf("second generate error: %v", err)
	}
	again, _ := os.ReadFile(base + ".svg")
	if !bytes.Equal(svg, again) {
		t.Error("same seed produced a different pattern")
	}
	if !strings.Contains(out, "cached") {
		t.Errorf("second run should report a cache hit, got:\n%s", out)
	}
}

func TestGenerateIntoTileDirectory(t *testing.T) {
	root := isolate(t)
	tiles := filepath.Join(root, "tiles")
	writeTiles(t, tiles)
	base := filepath.Join(tiles, "pattern")

	if _, err := run(t, "generate", tiles, "-o", base, "--seed", "3"); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	out, err := run(t, "generate", tiles, "-o", base, "--seed", "3")
	if err != nil {
		t.Fatalf("second generate error: %v", err)
	}
	if !strings.Contains(out, "cached") {
		t.Errorf("the previous composite changed the tile set:\n%s", out)
	}
	svg, _ := os.ReadFile(base + ".svg")
	if strings.Contains(string(svg), `id="pattern.svg"`) {
		t.Error("the previous composite was placed as a tile")
	}
}

func TestOutputSet(t *testing.T) {
	set := outputSet("out/pattern", []string{"svg", "json"})
	for _, p := range []string{"out/pattern.svg", "out/pattern.json"} {
		if !set.Has(p) {
			t.Errorf("outputSet misses %s", p)
		}
	}
	if set.Has("out/pattern.pdf") {
		t.Error("outputSet holds a format that is not written")
	}
	if outputSet(stdoutName, []string{"svg"}) != nil {
		t.Error("stdout output should exclude nothing")
	}
}

func TestGenerateInvalidOptions(t *testing.T) {
	root := isolate(t)
	tiles := filepath.Join(root, "tiles")
	writeTiles(t, tiles)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"grid too small", []string{"--grid", "2"}, errors.ErrCodeInvalidGridSize},
		{"unknown shape", []string{"--shape", "spiral"}, errors.ErrCodeInvalidShape},
		{"unknown format", []string{"-f", "png"}, errors.ErrCodeInvalidFormat},
		{"two formats to stdout", []string{"-o", "-", "-f", "svg,json"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"generate", tiles}, tt.args...)
			_, err := run(t, args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestGenerateNeedsInput(t *testing.T) {
	isolate(t)
	if _, err := run(t, "generate"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("generate without tiles: error = %v", err)
	}
	if _, err := run(t, "generate", "--watch", "--library"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("watch with library: error = %v", err)
	}
}

func TestGenerateUsesConfig(t *testing.T) {
	root := isolate(t)
	tiles := filepath.Join(root, "tiles")
	writeTiles(t, tiles)
	out := filepath.Join(root, "configured.svg")

	cfgPath := filepath.Join(root, "truchet.toml")
	cfg := "[generate]\ngrid_size = 9\nseed = 3\noutput = \"" + filepath.ToSlash(out) + "\"\n\n[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "--config", cfgPath, "generate", tiles); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	svg, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("configured output not written: %v", err)
	}
	if n := strings.Count(string(svg), "<g "); n != 81 {
		t.Errorf("svg has %d cells, want 81", n)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, format, want string
	}{
		{"", "svg", "truchet_tiles.svg"},
		{"truchet_tiles.svg", "json", "truchet_tiles.json"},
		{"out/pattern", "pdf", "out/pattern.pdf"},
		{"pattern.SVG", "svg", "pattern.svg"},
		{"v1.2", "svg", "v1.2.svg"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.format); got != tt.want {
			t.Errorf("outputPath(%q, %q) = %q, want %q", tt.output, tt.format, got, tt.want)
		}
	}
}

func TestCheckOutput(t *testing.T) {
	if err := checkOutput("pattern", []string{"svg", "json", "pdf"}); err != nil {
		t.Errorf("file output: %v", err)
	}
	if err := checkOutput(stdoutName, []string{pipeline.FormatSVG}); err != nil {
		t.Errorf("single svg to stdout: %v", err)
	}
	if err := checkOutput(stdoutName, []string{"svg", "json"}); err == nil {
		t.Error("several formats to stdout should fail")
	}
}

func TestWatchDirs(t *testing.T) {
	root := t.TempDir()
	writeTiles(t, root)
	got := watchDirs([]string{root, filepath.Join(root, "arc.svg"), filepath.Join(root, "gone", "x.svg")})
	want := []string{filepath.Clean(root), filepath.Join(root, "gone")}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("watchDirs() = %v, want %v", got, want)
	}
}

func TestNormalizeCommand(t *testing.T) {
	root := isolate(t)
	writeTiles(t, root)

	out, err := run(t, "normalize", filepath.Join(root, "diag.svg"), "--tile-size", "32")
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}
	if !strings.Contains(out, `viewBox="0 0 32 32"`) {
		t.Errorf("canonical tile not sized to 32:\n%s", out)
	}
	if !strings.HasPrefix(out, "<svg") || !strings.Contains(out, `xmlns="http://www.w3.org/2000/svg"`) {
		t.Errorf("printed tile is not a standalone SVG document:\n%s", out)
	}

	if _, err := run(t, "normalize", filepath.Join(root, "notes.txt")); err == nil {
		t.Error("normalizing a non-SVG should fail")
	}
}

func libraryTiles(t *testing.T) []tile.RawTile {
	t.Helper()
	path, err := config.Default().LibraryPath()
	if err != nil {
		t.Fatal(err)
	}
	store, err := library.NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	tiles, err := store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return tiles
}

func TestTilesCommands(t *testing.T) {
	root := isolate(t)
	dir := filepath.Join(root, "tiles")
	writeTiles(t, dir)

	if _, err := run(t, "tiles", "add", dir); err != nil {
		t.Fatalf("tiles add error: %v", err)
	}
	tiles := libraryTiles(t)
	if len(tiles) != 2 || tiles[0].FileName != "arc.svg" || tiles[0].Busyness != 9 || tiles[1].Busyness != 2 {
		t.Fatalf("library after add = %+v", tiles)
	}

	out, err := run(t, "tiles", "ls")
	if err != nil {
		t.Fatalf("tiles ls error: %v", err)
	}
	if !strings.Contains(out, "arc.svg") || !strings.Contains(out, shortID(tiles[1].ID)) {
		t.Errorf("listing misses tiles:\n%s", out)
	}

	if _, err := run(t, "tiles", "busyness", shortID(tiles[1].ID), "6"); err != nil {
		t.Fatalf("tiles busyness error: %v", err)
	}
	if got := libraryTiles(t)[1].Busyness; got != 6 {
		t.Errorf("busyness = %d, want 6", got)
	}
	if _, err := run(t, "tiles", "busyness", tiles[1].ID, "11"); !errors.Is(err, errors.ErrCodeInvalidBusyness) {
		t.Errorf("busyness 11: error = %v", err)
	}

	if _, err := run(t, "generate", "--library", "-o", filepath.Join(root, "lib.svg"), "--seed", "1"); err != nil {
		t.Fatalf("generate --library error: %v", err)
	}

	if _, err := run(t, "tiles", "rm", tiles[0].ID); err != nil {
		t.Fatalf("tiles rm error: %v", err)
	}
	if _, err := run(t, "tiles", "rm", tiles[0].ID); !errors.Is(err, errors.ErrCodeTileNotFound) {
		t.Errorf("removing twice: error = %v", err)
	}
	if _, err := run(t, "tiles", "clear"); err != nil {
		t.Fatalf("tiles clear error: %v", err)
	}
	if got := libraryTiles(t); len(got) != 0 {
		t.Errorf("library after clear has %d tiles", len(got))
	}
}

func TestTilesAddBusynessFlag(t *testing.T) {
	root := isolate(t)
	writeTiles(t, root)

	if _, err := run(t, "tiles", "add", "-b", "12", filepath.Join(root, "arc.svg")); !errors.Is(err, errors.ErrCodeInvalidBusyness) {
		t.Errorf("busyness 12: error = %v", err)
	}
	if _, err := run(t, "tiles", "add", "-b", "0", filepath.Join(root, "arc.svg")); err != nil {
		t.Fatalf("tiles add error: %v", err)
	}
	if got := libraryTiles(t); len(got) != 1 || got[0].Busyness != 0 {
		t.Errorf("library = %+v", got)
	}
}

func TestResolveTile(t *testing.T) {
	store, err := library.NewFileStore(filepath.Join(t.TempDir(), "tiles.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()
	added, err := store.Add(ctx, tile.New("a.svg", arcSVG), tile.New("b.svg", diagSVG))
	if err != nil {
		t.Fatal(err)
	}

	got, err := resolveTile(ctx, store, added[1].ID[:shortIDLen])
	if err != nil || got.ID != added[1].ID {
		t.Errorf("resolve by prefix = %v, %v", got.ID, err)
	}
	got, err = resolveTile(ctx, store, added[0].ID)
	if err != nil || got.FileName != "a.svg" {
		t.Errorf("resolve by id = %v, %v", got.FileName, err)
	}
	if _, err := resolveTile(ctx, store, added[0].ID[:4]); !errors.Is(err, errors.ErrCodeTileNotFound) {
		t.Errorf("short prefix: error = %v", err)
	}
}

func TestConfigCommands(t *testing.T) {
	root := isolate(t)

	out, err := run(t, "config", "path")
	if err != nil {
		t.Fatalf("config path error: %v", err)
	}
	want := filepath.Join(root, "xdg_config_home", "truchet", "config.toml")
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), want)
	}

	out, err = run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	if _, err := config.Parse([]byte(out)); err != nil {
		t.Errorf("config show output does not parse: %v\n%s", err, out)
	}
}

func TestCacheCommands(t *testing.T) {
	root := isolate(t)

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	want := filepath.Join(root, "xdg_cache_home", "truchet")
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}

	if _, err := run(t, "cache", "clear"); err != nil {
		t.Errorf("cache clear error: %v", err)
	}

	stale := filepath.Join(want, ".tmp-1")
	if err := os.WriteFile(stale, []byte("partial"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "cache", "prune")
	if err != nil {
		t.Fatalf("cache prune error: %v", err)
	}
	if !strings.Contains(out, "1 stale file") {
		t.Errorf("prune output = %q", out)
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "tile"); got != "1 tile" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(3, "tile"); got != "3 tiles" {
		t.Errorf("plural(3) = %q", got)
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := run(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s error: %v", shell, err)
		}
		if !strings.Contains(out, "truchet") {
			t.Errorf("completion %s does not mention the command", shell)
		}
	}
	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}
