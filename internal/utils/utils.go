// Package utils provides small helpers for safe file handling and unique
// IDs.
//
// Functions:
//   - SanitizeFilename: returns a safe filename for storage.
//   - GenerateUUID: returns a new UUID string.
//   - OutputName: builds a prefixed, collision-free output filename.
package utils

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func SanitizeFilename(name string) string {
	base := filepath.Base(name)
	safe := unsafeChars.ReplaceAllString(base, "_")
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return safe
}

func GenerateUUID() string {
	return uuid.New().String()
}

// OutputName returns "<prefix>-<uuid>.<ext>" for generated output files.
func OutputName(prefix, ext string) string {
	return fmt.Sprintf("%s-%s.%s", prefix, GenerateUUID(), ext)
}
