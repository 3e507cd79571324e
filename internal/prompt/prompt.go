package prompt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"codeberg.org/blogchat/server/internal/content"
	"codeberg.org/blogchat/server/internal/retriever"
)

const (
	TemplateVersion = "v1"

	// stands in for the context when retrieval found nothing
	NoRelevantContentMarker = "[no relevant blog content found]"

	// byte caps; every cut lands on a rune boundary
	ExcerptLimit  = 500
	MaxTitleLen   = 200
	MaxTopicLen   = 80
	MaxSummaryLen = 400
	MaxSlugLen    = 200

	blockDelimiter = "\n---\n"
	ellipsis       = "..."
	noSummary      = "No summary available"
	noTopic        = "General"
	noDifficulty   = "n/a"
)

const blockFormat = "**%s** (Topic: %s, Difficulty: %s)\nSummary: %s\nContent Preview: %s\nURL: %s"

// largest block minus its excerpt, delimiter included
var BlockOverhead = len(fmt.Sprintf(blockFormat, "", "", "", "", "", "")) +
	len(blockDelimiter) +
	MaxTitleLen + MaxTopicLen + MaxSummaryLen + 3*len(ellipsis) +
	len(noDifficulty) +
	MaxSlugLen + 2 +
	len(ellipsis)

type Citation struct {
	ID    string
	Title string
	Slug  string
	Topic string
}

type Prompt struct {
	Text      string
	Context   string
	Citations []Citation
	Version   string
}

// upper bound on len(Prompt.Context) for up to topK candidates (topK >= 1)
func MaxContextLen(topK int) int {
	return topK * (ExcerptLimit + BlockOverhead)
}

// Build formats candidates into context blocks in the order given and wraps
// them in the versioned instruction template.
func Build(query string, candidates []retriever.Candidate) Prompt {
	citations := make([]Citation, 0, len(candidates))
	blocks := make([]string, 0, len(candidates))

	for _, c := range candidates {
		blocks = append(blocks, formatBlock(c.Document))
		citations = append(citations, Citation{
			ID:    c.ID,
			Title: c.Title,
			Slug:  c.Slug,
			Topic: c.PrimaryTopic,
		})
	}

	ctx := NoRelevantContentMarker
	if len(blocks) > 0 {
		ctx = strings.Join(blocks, blockDelimiter)
	}

	return Prompt{
		Text:      render(query, ctx),
		Context:   ctx,
		Citations: citations,
		Version:   TemplateVersion,
	}
}

func formatBlock(d content.Document) string {
	summary := strings.TrimSpace(d.Summary)
	if summary == "" {
		summary = noSummary
	}

	topic := strings.TrimSpace(d.PrimaryTopic)
	if topic == "" {
		topic = noTopic
	}

	difficulty := noDifficulty
	if d.DifficultyLevel >= 1 && d.DifficultyLevel <= 5 {
		difficulty = strconv.Itoa(d.DifficultyLevel) + "/5"
	}

	return fmt.Sprintf(blockFormat,
		clip(oneLine(d.Title), MaxTitleLen),
		clip(oneLine(topic), MaxTopicLen),
		difficulty,
		clip(oneLine(summary), MaxSummaryLen),
		Excerpt(d.Content),
		content.URLPath(truncate(d.Slug, MaxSlugLen)),
	)
}

// first ExcerptLimit bytes of the whitespace-collapsed body, "..." appended when cut
func Excerpt(body string) string {
	return clip(oneLine(body), ExcerptLimit)
}

func clip(s string, max int) string {
	cut := truncate(s, max)
	if len(cut) < len(s) {
		return cut + ellipsis
	}

	return cut
}

// cuts s to at most max bytes without splitting a rune
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}

	return s[:max]
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
