package util

import (
	"path"
	"regexp"
	"strings"
)

var unsafePart = regexp.MustCompile(`[^a-z0-9_\-]`)

func ClampText(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > max {
		return string(r[:max])
	}
	return s
}

// ExtFromFilename returns the lower-cased extension, or "" when the name has
// none or the extension contains unsafe characters.
func ExtFromFilename(filename string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(filename, "\\", "/")))
	if ext == "." || unsafePart.MatchString(strings.TrimPrefix(ext, ".")) {
		return ""
	}
	return ext
}

func ExtFromFilenameOrMime(filename, mime string) string {
	if ext := ExtFromFilename(filename); ext != "" {
		return ext
	}
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	default:
		return ""
	}
}

func SanitizePart(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafePart.ReplaceAllString(s, "")
	if s == "" {
		return "unknown"
	}
	return s
}
