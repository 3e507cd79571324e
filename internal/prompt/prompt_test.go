package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"codeberg.org/blogchat/server/internal/content"
	"codeberg.org/blogchat/server/internal/retriever"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(id, title string) retriever.Candidate {
	return retriever.Candidate{
		Document: content.Document{
			ID:              id,
			Slug:            content.Slugify(title),
			Title:           title,
			Summary:         "Summary of " + title,
			Content:         "Body of " + title,
			PrimaryTopic:    "Go",
			DifficultyLevel: 2,
			Status:          content.StatusPublished,
		},
		Score:  0.8,
		Source: retriever.SourceVector,
	}
}

func TestBuild_Blocks(t *testing.T) {
	p := Build("how do channels work?", []retriever.Candidate{
		candidate("1", "Go Channels"),
		candidate("2", "Select Statements"),
	})

	want := "**Go Channels** (Topic: Go, Difficulty: 2/5)\n" +
		"Summary: Summary of Go Channels\n" +
		"Content Preview: Body of Go Channels\n" +
		"URL: /go-channels/" +
		"\n---\n" +
		"**Select Statements** (Topic: Go, Difficulty: 2/5)\n" +
		"Summary: Summary of Select Statements\n" +
		"Content Preview: Body of Select Statements\n" +
		"URL: /select-statements/"

	assert.Equal(t, want, p.Context)
	assert.Equal(t, TemplateVersion, p.Version)
	assert.Contains(t, p.Text, `User Question: "how do channels work?"`)
	assert.Contains(t, p.Text, want)

	require.Len(t, p.Citations, 2)
	assert.Equal(t, Citation{ID: "1", Title: "Go Channels", Slug: "go-channels", Topic: "Go"}, p.Citations[0])
}

func TestBuild_Placeholders(t *testing.T) {
	c := candidate("1", "Bare")
	c.Summary = ""
	c.PrimaryTopic = ""
	c.DifficultyLevel = 0

	p := Build("q", []retriever.Candidate{c})

	assert.Contains(t, p.Context, "Summary: No summary available")
	assert.Contains(t, p.Context, "Topic: General")
	assert.Contains(t, p.Context, "Difficulty: n/a")
}

func TestBuild_EmptyUsesMarker(t *testing.T) {
	p := Build("anything about kubernetes?", nil)

	assert.Equal(t, NoRelevantContentMarker, p.Context)
	assert.Empty(t, p.Citations)
	assert.NotNil(t, p.Citations)
	assert.Contains(t, p.Text, NoRelevantContentMarker)
}

func TestExcerpt(t *testing.T) {
	short := "a short body"
	assert.Equal(t, short, Excerpt(short))

	long := strings.Repeat("x", ExcerptLimit+50)
	got := Excerpt(long)
	assert.Equal(t, ExcerptLimit+len("..."), len(got))
	assert.True(t, strings.HasSuffix(got, "..."))

	exact := strings.Repeat("y", ExcerptLimit)
	assert.Equal(t, exact, Excerpt(exact))
}

func TestExcerpt_RuneSafe(t *testing.T) {
	// 3-byte runes never line up with the limit
	body := strings.Repeat("€", ExcerptLimit)

	got := Excerpt(body)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), ExcerptLimit+len("..."))
}

func TestExcerpt_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "line one line two", Excerpt("line one\n\n  line   two\n"))
}

func TestBuild_ContextLengthBound(t *testing.T) {
	huge := retriever.Candidate{Document: content.Document{
		ID:              "h",
		Title:           strings.Repeat("T", 5000),
		Slug:            strings.Repeat("s", 5000),
		Summary:         strings.Repeat("S", 5000),
		Content:         strings.Repeat("C", 50000),
		PrimaryTopic:    strings.Repeat("P", 5000),
		DifficultyLevel: 9,
		Status:          content.StatusPublished,
	}}

	for k := 1; k <= 10; k++ {
		cands := make([]retriever.Candidate, k)
		for i := range cands {
			cands[i] = huge
		}

		p := Build("q", cands)
		assert.LessOrEqual(t, len(p.Context), MaxContextLen(k), "k=%d", k)
	}
}

func TestBuild_PreservesOrder(t *testing.T) {
	p := Build("q", []retriever.Candidate{candidate("b", "Beta"), candidate("a", "Alpha")})

	assert.Less(t, strings.Index(p.Context, "Beta"), strings.Index(p.Context, "Alpha"))
	assert.Equal(t, "b", p.Citations[0].ID)
}

// rewording the template means bumping TemplateVersion and this fixture together
func TestBuild_TemplateV1Pinned(t *testing.T) {
	require.Equal(t, "v1", TemplateVersion)

	p := Build("  how do channels work?  ", []retriever.Candidate{candidate("1", "Go Channels")})

	want := `You are an AI assistant for a personal blog. Answer the user's question based ONLY on the provided blog content. Be helpful, accurate, and conversational.

User Question: "how do channels work?"

Relevant Blog Content:
**Go Channels** (Topic: Go, Difficulty: 2/5)
Summary: Summary of Go Channels
Content Preview: Body of Go Channels
URL: /go-channels/

Instructions:
- Answer based only on the provided content
- If the content doesn't fully answer the question, say so and suggest what topics might be helpful
- Include references to specific posts when relevant (use the post titles and URLs)
- Be conversational and helpful
- If asked about topics not covered in the content, politely explain that those topics aren't covered in this blog yet
- If the content is "[no relevant blog content found]", say that the blog doesn't cover this yet

Response:`

	assert.Equal(t, want, p.Text)
}
