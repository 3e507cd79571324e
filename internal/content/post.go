package content

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const frontMatterSeparator = "---"

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// accepts either a YAML sequence or a comma-separated scalar
type stringList []string

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = cleanList(items)
	case yaml.ScalarNode:
		*l = cleanList(strings.Split(node.Value, ","))
	default:
		return fmt.Errorf("line %d: expected a list or a string", node.Line)
	}

	return nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}

	return out
}

// the frontmatter keys a post may carry
type FrontMatter struct {
	Title                string     `yaml:"title"`
	Slug                 string     `yaml:"slug"`
	Summary              string     `yaml:"summary"`
	Description          string     `yaml:"description"`
	PrimaryTopic         string     `yaml:"primary_topic"`
	SecondaryTopics      stringList `yaml:"secondary_topics"`
	Tags                 stringList `yaml:"tags"`
	TargetAudience       string     `yaml:"target_audience"`
	DifficultyLevel      int        `yaml:"difficulty_level"`
	PrerequisiteConcepts stringList `yaml:"prerequisite_concepts"`
	EstimatedValue       string     `yaml:"estimated_value"`
	Date                 string     `yaml:"date"`
	PublishedDate        string     `yaml:"published_date"`
	Status               string     `yaml:"status"`
	Draft                bool       `yaml:"draft"`
}

// splits a leading YAML block delimited by --- lines from the body
func SplitFrontMatter(data []byte) (FrontMatter, string, error) {
	var fm FrontMatter

	src := string(bytes.TrimPrefix(data, []byte("\ufeff")))
	src = strings.ReplaceAll(src, "\r\n", "\n")
	lines := strings.Split(src, "\n")

	if len(lines) < 2 || strings.TrimSpace(lines[0]) != frontMatterSeparator {
		return fm, src, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterSeparator {
			end = i
			break
		}
	}

	if end == -1 {
		return fm, src, fmt.Errorf("frontmatter: no closing separator")
	}

	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &fm); err != nil {
		return fm, "", fmt.Errorf("frontmatter: %w", err)
	}

	return fm, strings.Join(lines[end+1:], "\n"), nil
}

// turns one markdown file into a Document ready to upsert
func ParsePost(filename string, data []byte, defaultStatus Status) (*Document, error) {
	fm, body, err := SplitFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	body = ConvertWikilinks(body)

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = titleFromFilename(filename)
	}

	if title == "" && strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmptyPost)
	}

	slug := Slugify(fm.Slug)
	if slug == "" {
		slug = Slugify(title)
	}

	// titles without ASCII word characters slugify to nothing
	if slug == "" {
		slug = Slugify(titleFromFilename(filename))
	}

	if slug == "" {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmptySlug)
	}

	status := defaultStatus
	if fm.Status != "" {
		if status, err = ParseStatus(strings.ToLower(fm.Status)); err != nil {
			return nil, fmt.Errorf("%s: status %q: %w", filename, fm.Status, err)
		}
	}

	if fm.Draft {
		status = StatusDraft
	}

	summary := fm.Summary
	if summary == "" {
		summary = fm.Description
	}

	difficulty := fm.DifficultyLevel
	if difficulty < 0 || difficulty > 5 {
		difficulty = 0
	}

	meta := ExtractMetadata(body)

	doc := &Document{
		Slug:                 slug,
		Title:                title,
		Summary:              strings.TrimSpace(summary),
		Content:              PlainText(body),
		PrimaryTopic:         fm.PrimaryTopic,
		SecondaryTopics:      fm.SecondaryTopics,
		Tags:                 fm.Tags,
		TargetAudience:       fm.TargetAudience,
		DifficultyLevel:      difficulty,
		PrerequisiteConcepts: fm.PrerequisiteConcepts,
		EstimatedValue:       fm.EstimatedValue,
		HasCodeExamples:      meta.HasCodeExamples,
		HasImages:            meta.HasImages,
		HasExternalLinks:     meta.HasExternalLinks,
		WordCount:            meta.WordCount,
		ReadingTime:          meta.ReadingTime,
		PublishedDate:        parseDate(fm.PublishedDate, fm.Date),
		Status:               status,
	}

	return doc, nil
}

// parses every *.md file in dir, sorted by name.
// files that fail to parse are returned in errs and do not stop the walk.
func LoadDir(dir string, defaultStatus Status) (docs []*Document, errs []error, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read posts directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		names = append(names, e.Name())
	}

	sort.Strings(names)

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}

		doc, err := ParsePost(name, data, defaultStatus)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		docs = append(docs, doc)
	}

	return docs, errs, nil
}

func parseDate(values ...string) *time.Time {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				t = t.UTC()
				return &t
			}
		}
	}

	return nil
}

func titleFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)

	return strings.TrimSpace(base)
}
