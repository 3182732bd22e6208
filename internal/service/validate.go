package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go-blog-api/internal/domain"
)

var (
	emailRx    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRx = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	hexColorRx = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// fieldErrors 累积字段级校验错误
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) { f[field] = msg }
func (f fieldErrors) empty() bool           { return len(f) == 0 }

func lenBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// normalizeTags 小写去重，丢弃空白项
func normalizeTags(tags []string) domain.TagList {
	seen := make(map[string]struct{}, len(tags))
	out := make(domain.TagList, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
