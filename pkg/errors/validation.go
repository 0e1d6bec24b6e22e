package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateID validates an operator or graph identifier for safety.
// It rejects values that could be used for path traversal or injection when
// IDs end up in file paths, cache keys or URLs.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No path traversal sequences (.., //, etc.)
//   - Maximum length of 256 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "identifier too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identifier contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
		"/",    // Path separator
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "identifier contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// exportFormats are the artifact formats the export pipeline supports.
var exportFormats = map[string]bool{
	"json": true,
	"svg":  true,
	"dot":  true,
	"png":  true,
}

// ValidateExportFormat validates an export format name.
func ValidateExportFormat(format string) error {
	if !exportFormats[format] {
		return New(ErrCodeInvalidFormat, "unknown export format %q (json, svg, dot, png)", format)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// weightInputRegex matches the digits-only input the weight prompts accept.
var weightInputRegex = regexp.MustCompile(`^-?[0-9]+$`)

// ValidateWeightInput validates raw weight prompt input before parsing.
func ValidateWeightInput(input string) error {
	s := strings.TrimSpace(input)
	if s == "" {
		return New(ErrCodeInvalidWeight, "weight cannot be empty")
	}
	if !weightInputRegex.MatchString(s) {
		return New(ErrCodeInvalidWeight, "weight must be a whole number: %q", s)
	}
	return nil
}
