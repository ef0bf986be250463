// Package validation checks user-supplied paths and documents before they
// reach the correction pipeline.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limits on user input.
const (
	// MaxDocumentSize is the largest document accepted for checking (64 MB).
	MaxDocumentSize = 64 << 20
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
	// sniffLength is how much of a document IsLikelyText inspects.
	sniffLength = 4096
)

// Common validation errors.
var (
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrTooLarge         = errors.New("document too large")
	ErrBinaryContent    = errors.New("document is not text")
)

// ValidatePath checks a path for length limits and characters that no
// legitimate file name contains.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// ValidateDocument checks that data is a text document of acceptable size.
// Empty documents are valid.
func ValidateDocument(data []byte) error {
	if len(data) > MaxDocumentSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(data), MaxDocumentSize)
	}
	if len(data) > 0 && !IsLikelyText(data) {
		return ErrBinaryContent
	}
	return nil
}

// IsLikelyText reports whether the start of buf looks like UTF-8 text: no
// null bytes, valid encoding, and at most 5% control characters other than
// whitespace.
func IsLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	if len(buf) > sniffLength {
		buf = buf[:sniffLength]
		// Drop a rune cut in half by the limit.
		for i := 0; i < utf8.UTFMax && len(buf) > 0 && !utf8.Valid(buf); i++ {
			buf = buf[:len(buf)-1]
		}
	}

	printable, control := 0, 0
	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		buf = buf[size:]
		switch {
		case r == utf8.RuneError && size <= 1:
			return false
		case r == 0:
			return false
		case r == '\t' || r == '\n' || r == '\r' || r == '\f':
			printable++
		case unicode.IsControl(r):
			control++
		default:
			printable++
		}
	}
	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
