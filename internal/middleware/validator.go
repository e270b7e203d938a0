package middleware

import (
	"fmt"
	"strings"
)

// Input validation and sanitization utilities

// MaxUploadBytes caps uploaded image size at 5MB.
const MaxUploadBytes = 5 << 20

// maxHistoryTurns bounds how much caller-supplied history is forwarded to
// the inference provider in one call.
const maxHistoryTurns = 50

// ValidateMediaType checks the declared media type of an uploaded file.
// Any image type is accepted; everything else is rejected.
func ValidateMediaType(mediaType string) error {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if mt == "" {
		return fmt.Errorf("media type is required for image uploads")
	}
	if !strings.HasPrefix(mt, "image/") {
		return fmt.Errorf("unsupported media type: %s (images only)", mediaType)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateHistoryLen caps the number of conversation turns accepted.
func ValidateHistoryLen(n int) error {
	if n > maxHistoryTurns {
		return fmt.Errorf("history too long: %d turns (max %d)", n, maxHistoryTurns)
	}
	return nil
}
