package ingest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/truchet/pkg/errors"
	"github.com/matzehuels/truchet/pkg/tile"
)

// maxFileSize bounds a single tile file.
const maxFileSize = 4 << 20

// Skipped records a file that was not turned into a tile.
type Skipped struct {
	Path string
	Err  error
}

// Result is the outcome of a [Load].
type Result struct {
	Tiles   []tile.RawTile
	Skipped []Skipped
}

// PathSet is a set of files keyed by absolute, cleaned path.
type PathSet map[string]bool

// NewPathSet builds a set from paths. Paths that cannot be made absolute are
// kept cleaned as given.
func NewPathSet(paths ...string) PathSet {
	s := make(PathSet, len(paths))
	for _, p := range paths {
		s[absPath(p)] = true
	}
	return s
}

// Has reports whether path is in the set. A nil set is empty.
func (s PathSet) Has(path string) bool {
	return len(s) > 0 && s[absPath(path)]
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// Load reads tiles from files and directories. A path that does not exist
// or a malformed manifest is an error; individual non-SVG files are skipped.
func Load(paths ...string) (Result, error) {
	return LoadExcept(nil, paths...)
}

// LoadExcept is [Load] that silently leaves out every file in exclude, such
// as composites written next to their tiles.
func LoadExcept(exclude PathSet, paths ...string) (Result, error) {
	var res Result
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				return res, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s does not exist", p)
			}
			return res, fmt.Errorf("stat %s: %w", p, err)
		}

		if info.IsDir() {
			if err := loadDir(p, exclude, &res); err != nil {
				return res, err
			}
			continue
		}
		if exclude.Has(p) {
			continue
		}

		t, err := ReadFile(p)
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Path: p, Err: err})
			continue
		}
		res.Tiles = append(res.Tiles, t)
	}
	return res, nil
}

func loadDir(dir string, exclude PathSet, res *Result) error {
	manifest, err := LoadManifest(dir)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || name == ManifestName {
			continue
		}
		path := filepath.Join(dir, name)
		if exclude.Has(path) {
			continue
		}
		t, err := ReadFile(path)
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Path: path, Err: err})
			continue
		}
		if b, ok := manifest[name]; ok {
			t.Busyness = b
		}
		res.Tiles = append(res.Tiles, t)
	}
	return nil
}

// ReadFile reads one SVG file into a sanitized tile with the default
// busyness. Files without an .svg extension or without an <svg> element
// fail with NOT_SVG.
func ReadFile(path string) (tile.RawTile, error) {
	if err := errors.ValidateSVGExtension(path); err != nil {
		return tile.RawTile{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return tile.RawTile{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	if info.Size() > maxFileSize {
		return tile.RawTile{}, errors.New(errors.ErrCodeInvalidInput,
			"%s is too large (%d bytes, max %d)", filepath.Base(path), info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tile.RawTile{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		return tile.RawTile{}, errors.New(errors.ErrCodeNotSVG, "%s contains no <svg> element", filepath.Base(path))
	}

	return tile.New(filepath.Base(path), Sanitize(string(data))), nil
}

// SkippedNonSVG reports whether any skipped file was rejected for not being
// an SVG.
func (r Result) SkippedNonSVG() bool {
	for _, s := range r.Skipped {
		if errors.Is(s.Err, errors.ErrCodeNotSVG) {
			return true
		}
	}
	return false
}
