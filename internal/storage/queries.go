package storage

const (
	// shared column list for every read of blog_posts; nullable text is coalesced
	postColumns = `
		id::text,
		slug,
		title,
		COALESCE(summary, ''),
		COALESCE(content, ''),
		COALESCE(primary_topic, ''),
		COALESCE(secondary_topics, '{}'),
		COALESCE(tags, '{}'),
		COALESCE(target_audience, ''),
		COALESCE(difficulty_level, 0),
		COALESCE(prerequisite_concepts, '{}'),
		COALESCE(estimated_value, ''),
		published_date,
		COALESCE(reading_time, 0),
		status
	`

	vectorSearchQuery = `
		SELECT` + postColumns + `,
			similarity::real
		FROM search_posts_by_similarity($1, $2, $3)
	`

	// $1 is a LIKE pattern, $2 the raw query for exact tag match
	keywordSearchQuery = `
		SELECT` + postColumns + `
		FROM blog_posts
		WHERE status = $3
			AND (title ILIKE $1 OR content ILIKE $1 OR $2 = ANY(tags))
		ORDER BY published_date DESC NULLS LAST, id
		LIMIT $4
	`

	// edits to the embedded text clear the stale vector so the embed job picks the post up again
	upsertPostQuery = `
		INSERT INTO blog_posts (
			slug, title, summary, content, primary_topic, secondary_topics, tags,
			target_audience, difficulty_level, prerequisite_concepts, estimated_value,
			has_code_examples, has_images, has_external_links, word_count, reading_time,
			published_date, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, 0), $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			content = EXCLUDED.content,
			primary_topic = EXCLUDED.primary_topic,
			secondary_topics = EXCLUDED.secondary_topics,
			tags = EXCLUDED.tags,
			target_audience = EXCLUDED.target_audience,
			difficulty_level = EXCLUDED.difficulty_level,
			prerequisite_concepts = EXCLUDED.prerequisite_concepts,
			estimated_value = EXCLUDED.estimated_value,
			has_code_examples = EXCLUDED.has_code_examples,
			has_images = EXCLUDED.has_images,
			has_external_links = EXCLUDED.has_external_links,
			word_count = EXCLUDED.word_count,
			reading_time = EXCLUDED.reading_time,
			published_date = EXCLUDED.published_date,
			status = EXCLUDED.status,
			embedding = CASE
				WHEN blog_posts.title IS DISTINCT FROM EXCLUDED.title
					OR blog_posts.summary IS DISTINCT FROM EXCLUDED.summary
					OR blog_posts.content IS DISTINCT FROM EXCLUDED.content
					OR blog_posts.primary_topic IS DISTINCT FROM EXCLUDED.primary_topic
					OR blog_posts.tags IS DISTINCT FROM EXCLUDED.tags
				THEN NULL
				ELSE blog_posts.embedding
			END,
			updated_at = now()
		RETURNING id::text, (xmax = 0) AS inserted
	`

	missingEmbeddingsQuery = `
		SELECT` + postColumns + `
		FROM blog_posts
		WHERE embedding IS NULL
		ORDER BY created_at, id
		LIMIT NULLIF($1::int, 0)
	`

	updateEmbeddingQuery = `
		UPDATE blog_posts
		SET embedding = $2, updated_at = now()
		WHERE id = $1::uuid
	`

	postStatsQuery = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'published'),
			COUNT(*) FILTER (WHERE status = 'draft'),
			COUNT(embedding)
		FROM blog_posts
	`

	insertInteractionQuery = `
		INSERT INTO chat_interactions (id, query, response, sources_used, conversation_id, timestamp)
		VALUES ($1::uuid, $2, $3, $4, NULLIF($5, ''), $6)
	`
)
