// Package util contains any functions used across the application that don't match
// any other package
package util

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// maxNameSize bounds the sanitized filename suffix so a full key stays far
// below the 1024 byte key limit of S3 compatible stores
const maxNameSize = 100

// SanitizeName reduces a client supplied filename to characters that are safe
// inside object keys and URLs. Path separators are stripped first so a crafted
// name can't place the object under another prefix.
func SanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := strings.TrimLeft(b.String(), ".")
	if len(out) > maxNameSize {
		ext := path.Ext(out)
		if len(ext) >= maxNameSize {
			return out[:maxNameSize]
		}

		// Keep the extension when truncating
		out = out[:maxNameSize-len(ext)] + ext
	}

	return out
}

// NewObjectKey mints a bucket key that's unique for all practical purposes.
// The millisecond timestamp keeps raw listings roughly chronological, the UUID
// makes keys collision free and unguessable, and the sanitized original name
// keeps downloads recognizable. The original filename is never the only part
// of the key.
func NewObjectKey(filename, contentType string) string {
	name := SanitizeName(filename)
	if name == "" {
		ext := ".bin"
		if mt := mimetype.Lookup(contentType); mt != nil && mt.Extension() != "" {
			ext = mt.Extension()
		}

		name = "upload" + ext
	}

	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString(), name)
}
