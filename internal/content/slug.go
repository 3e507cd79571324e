package content

import (
	"regexp"
	"strings"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	dashesRe     = regexp.MustCompile(`-+`)
	wikilinkRe   = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
)

// lowercases, strips non-word characters and joins words with single dashes
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonWordRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = dashesRe.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// rewrites [[Page]] and [[Page|label]] into site-relative markdown links
func ConvertWikilinks(body string) string {
	return wikilinkRe.ReplaceAllStringFunc(body, func(m string) string {
		inner := wikilinkRe.FindStringSubmatch(m)[1]
		target, label := inner, inner

		if i := strings.Index(inner, "|"); i >= 0 {
			target = strings.TrimSpace(inner[:i])
			label = strings.TrimSpace(inner[i+1:])
		}

		return "[" + label + "](" + URLPath(Slugify(target)) + ")"
	})
}

// the public path of a post
func URLPath(slug string) string {
	return "/" + slug + "/"
}
