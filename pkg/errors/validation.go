package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Busyness bounds. Mirrored from the tile package, which cannot be imported
// here without a cycle.
const (
	minBusyness = 0
	maxBusyness = 10
)

// ValidateBusyness checks that b lies in [0, 10].
func ValidateBusyness(b int) error {
	if b < minBusyness || b > maxBusyness {
		return New(ErrCodeInvalidBusyness, "busyness %d out of range [%d, %d]", b, minBusyness, maxBusyness)
	}
	return nil
}

// ValidateTileFileName validates the display file name of a tile.
// The name is stored and later used as an SVG group id, so it must be a
// plain base name.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 255 characters
//   - No control characters or null bytes
//   - No path separators
func ValidateTileFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "tile file name cannot be empty")
	}

	if len(name) > 255 {
		return New(ErrCodeInvalidInput, "tile file name too long (max 255 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "tile file name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "tile file name cannot contain path separators")
	}

	return nil
}

// ValidateSVGExtension reports a NOT_SVG error unless path ends in .svg
// (case-insensitive).
func ValidateSVGExtension(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".svg") {
		return New(ErrCodeNotSVG, "%s is not an SVG file", filepath.Base(path))
	}
	return nil
}
