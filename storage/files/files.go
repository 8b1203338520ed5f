// Package files stores uploaded submission and material files.
package files

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// objectName returns a unique name for an upload, keeping the client's base name for readability.
func objectName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20 || r == '/' || r == 0x7f:
			return -1
		}
		return r
	}, base)
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return uuid.NewString() + "-" + base
}
