package content

import "strings"

// labelled text the embed job sends to the embedding model
func EmbeddingText(d *Document) string {
	parts := []string{
		labelled("Title", d.Title),
		labelled("Summary", d.Summary),
		labelled("Topic", d.PrimaryTopic),
		labelled("Subtopics", strings.Join(d.SecondaryTopics, ", ")),
		labelled("Tags", strings.Join(d.Tags, ", ")),
		labelled("Audience", d.TargetAudience),
		labelled("Prerequisites", strings.Join(d.PrerequisiteConcepts, ", ")),
		labelled("Value", d.EstimatedValue),
		labelled("Content", d.Content),
	}

	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, "\n\n")
}

func labelled(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}

	return label + ": " + value
}
