package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Make 标题 → URL 安全 slug："Hello, World! 2026" → "hello-world-2026"
func Make(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = nonAlphanumeric.ReplaceAllString(out, "")
	out = strings.ReplaceAll(out, " ", "-")
	out = multipleHyphens.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}
