package export

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9\-]+`)

var latinFold = strings.NewReplacer(
	"č", "c", "ć", "c", "š", "s", "ž", "z", "đ", "dj",
	"Č", "c", "Ć", "c", "Š", "s", "Ž", "z", "Đ", "dj",
)

func slugify(s string) string {
	s = latinFold.Replace(s)
	s = strings.ToLower(s)
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = nonSlug.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}

// Filename builds a download name like "cola-biljeske-ai.docx".
func Filename(base, ext string) string {
	s := slugify(base)
	if s == "" {
		s = "slidenotes"
	}
	return s + "." + strings.TrimPrefix(ext, ".")
}
