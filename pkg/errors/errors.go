// Package errors provides the coded errors shared by every truchet package.
//
// An [*Error] carries a machine-readable [Code], a message meant for the
// user, and an optional cause. Codes fall into a few kinds (see [Kind]) that
// decide how the CLI reports them and which exit status it uses.
//
//	err := errors.New(errors.ErrCodeInvalidGridSize, "grid size %d out of range", n)
//	if errors.Is(err, errors.ErrCodeInvalidGridSize) {
//	    // reject the flag
//	}
//
//	err = errors.Wrap(errors.ErrCodeStorage, ioErr, "write library")
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidGridSize Code = "INVALID_GRID_SIZE"
	ErrCodeInvalidShape    Code = "INVALID_SHAPE"
	ErrCodeInvalidRotation Code = "INVALID_ROTATION"
	ErrCodeInvalidSigma    Code = "INVALID_SIGMA"
	ErrCodeInvalidTileSize Code = "INVALID_TILE_SIZE"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidBusyness Code = "INVALID_BUSYNESS"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeNotSVG          Code = "NOT_SVG"

	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeTileNotFound Code = "TILE_NOT_FOUND"

	ErrCodeStorage     Code = "STORAGE_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Kind groups codes by how a caller should react to them.
type Kind int

const (
	KindUnknown     Kind = iota // plain errors and unclassified codes
	KindValidation              // the input was wrong; retrying won't help
	KindNotFound                // a named file or tile does not exist
	KindStorage                 // the tile library failed
	KindUnsupported             // the environment lacks a needed tool
)

var kinds = map[Code]Kind{
	ErrCodeInvalidInput:    KindValidation,
	ErrCodeInvalidGridSize: KindValidation,
	ErrCodeInvalidShape:    KindValidation,
	ErrCodeInvalidRotation: KindValidation,
	ErrCodeInvalidSigma:    KindValidation,
	ErrCodeInvalidTileSize: KindValidation,
	ErrCodeInvalidFormat:   KindValidation,
	ErrCodeInvalidBusyness: KindValidation,
	ErrCodeInvalidManifest: KindValidation,
	ErrCodeInvalidConfig:   KindValidation,
	ErrCodeNotSVG:          KindValidation,
	ErrCodeFileNotFound:    KindNotFound,
	ErrCodeTileNotFound:    KindNotFound,
	ErrCodeStorage:         KindStorage,
	ErrCodeUnsupported:     KindUnsupported,
}

// Kind returns the kind of c.
func (c Code) Kind() Kind {
	return kinds[c]
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's chain has the given code, so a
// TILE_NOT_FOUND stays visible under a STORAGE_ERROR wrapper.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// KindOf returns the kind of err's outermost code.
func KindOf(err error) Kind {
	return GetCode(err).Kind()
}

// UserMessage returns the message without the code prefix or cause. Plain
// errors are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsNotFound reports whether err names a missing file or tile.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// ExitCode maps err to a process exit status. nil is 0 and unknown errors
// are 1; every other kind has its own status starting at 2.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindValidation:
		return 2
	case KindNotFound:
		return 3
	case KindStorage:
		return 4
	case KindUnsupported:
		return 5
	default:
		return 1
	}
}
