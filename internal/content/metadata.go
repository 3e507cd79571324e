package content

import (
	"regexp"
	"strings"
)

const wordsPerMinute = 200

var (
	codeFenceRe    = regexp.MustCompile("```")
	markdownImgRe  = regexp.MustCompile(`!\[.*\]\(.*\)`)
	externalLinkRe = regexp.MustCompile(`\[.*\]\((https?://.*)\)`)
	punctuationRe  = regexp.MustCompile(`[^\w\s]`)
)

// scans a (wikilink-converted) markdown body
func ExtractMetadata(body string) Metadata {
	words := strings.Fields(punctuationRe.ReplaceAllString(body, ""))

	return Metadata{
		HasCodeExamples:  codeFenceRe.MatchString(body),
		HasImages:        markdownImgRe.MatchString(body) || strings.Contains(body, "<img"),
		HasExternalLinks: externalLinkRe.MatchString(body),
		WordCount:        len(words),
		ReadingTime:      ReadingTime(len(words)),
	}
}

// minutes at 200 wpm, rounded up
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}

	return (words + wordsPerMinute - 1) / wordsPerMinute
}
