package guardrails

// Task is a generation task profile: the system instruction the provider
// receives, the keys its JSON response must carry and the sampling
// temperature.
type Task struct {
	Name         string
	SystemPrompt string
	RequiredKeys []string
	Temperature  float64
}

const summarizationPrompt = `You are a technical news editor specializing in AI and machine learning.

Summarize the article the user provides for an audience of AI practitioners and builders.

Respond with a JSON object and nothing else, using exactly these keys:
{
  "title": "cleaned, concise article title",
  "summary": "50-150 word summary of the article",
  "key_points": ["three to five bullet points"],
  "relevance_score": 0.0,
  "category": "one of: research, product, industry, governance, tooling"
}

Critical constraints:
- Do not include source URLs or links of any kind.
- Do not use promotional language.
- relevance_score is your 0.0-1.0 judgment of how relevant the article is to AI builders.
- Output must be the JSON object only, with no surrounding prose.`

const ideaPrompt = `You are a content strategist for a channel covering AI tools and automation for builders.

Given an article summary, propose one video idea that would interest AI builders and indie hackers.

Respond with a JSON object and nothing else, using exactly these keys:
{
  "video_title": "compelling video title under 100 characters",
  "video_description": "2-3 sentence description of the video",
  "content_outline": ["four to six outline segments"],
  "target_duration_minutes": 10,
  "suggested_thumbnail_prompt": "visual prompt for a thumbnail image",
  "difficulty_level": "beginner, intermediate or advanced",
  "estimated_engagement_score": 0.0
}

Critical constraints:
- Do not include source URLs or links of any kind.
- Do not use promotional language or clickbait superlatives.
- Output must be the JSON object only, with no surrounding prose.`

// SummarizationTask produces a structured summary of one record.
var SummarizationTask = Task{
	Name:         "summarization",
	SystemPrompt: summarizationPrompt,
	RequiredKeys: []string{"title", "summary", "key_points", "relevance_score", "category"},
	Temperature:  0.3,
}

// IdeaTask turns a summary into a video idea. Higher temperature: idea
// generation benefits from variety.
var IdeaTask = Task{
	Name:         "idea_generation",
	SystemPrompt: ideaPrompt,
	RequiredKeys: []string{
		"video_title", "video_description", "content_outline",
		"target_duration_minutes", "suggested_thumbnail_prompt",
		"difficulty_level", "estimated_engagement_score",
	},
	Temperature: 0.8,
}
