// utils/file.go
package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
)

// Object key prefixes by asset type
const (
	KeyPrefixAudio  = "audio"
	KeyPrefixCover  = "covers"
	KeyPrefixAvatar = "avatars"
)

// SanitizeFilename reduces an arbitrary client filename to a slug that is
// safe inside an object key. The extension is kept (lowercased).
func SanitizeFilename(filename string) string {
	filename = norm.NFKC.String(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	s := slug.Make(base)
	if s == "" {
		s = "file"
	}
	return s + ext
}

// ObjectKey builds the storage key for an uploaded asset:
// <prefix>/<sanitized-base>-<unix>-<random>.<ext>
// Timestamp plus random suffix keeps repeated uploads of the same
// filename from colliding.
func ObjectKey(prefix, filename string) string {
	sanitized := SanitizeFilename(filename)
	ext := filepath.Ext(sanitized)
	base := strings.TrimSuffix(sanitized, ext)

	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s/%s-%d-%s%s", prefix, base, time.Now().Unix(), suffix, ext)
}
