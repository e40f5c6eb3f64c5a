package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

// MaxSummaryLength bounds a vibe summary, in characters.
const MaxSummaryLength = 150

// ErrEmptySummary is returned when the model produced no usable text.
var ErrEmptySummary = errors.New("gemini returned an empty summary")

// Generator produces text for a prompt.
type Generator interface {
	GenerateText(ctx context.Context, model, prompt string, config *genai.GenerateContentConfig) (string, error)
}

// ModelsGenerator adapts a genai client to Generator.
type ModelsGenerator struct {
	Client *genai.Client
}

// GenerateText calls GenerateContent with a single text part.
func (g ModelsGenerator) GenerateText(ctx context.Context, model, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := g.Client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", ErrEmptySummary
	}
	return result.Text(), nil
}

// NewClient creates a Gemini API client for apiKey.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("GEMINI_API_KEY must be set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return client, nil
}

// Summarizer writes one-sentence vibe summaries for listings.
type Summarizer struct {
	gen   Generator
	model string
}

// NewSummarizer builds a summarizer. An empty model selects DefaultModel.
func NewSummarizer(gen Generator, model string) *Summarizer {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Summarizer{gen: gen, model: model}
}

// Summarize returns a cleaned vibe summary for the listing.
func (s *Summarizer) Summarize(ctx context.Context, name, category, address string) (string, error) {
	text, err := s.gen.GenerateText(ctx, s.model, BuildPrompt(name, category, address), BuildConfig())
	if err != nil {
		return "", fmt.Errorf("generate vibe summary: %w", err)
	}
	summary := CleanSummary(text)
	if summary == "" {
		return "", ErrEmptySummary
	}
	return summary, nil
}

// BuildConfig returns the generation settings for vibe summaries.
func BuildConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	}
}

// BuildPrompt renders the vibe-check prompt. An empty category reads as "Business".
func BuildPrompt(name, category, address string) string {
	if strings.TrimSpace(category) == "" {
		category = "Business"
	}
	var sb strings.Builder
	sb.WriteString("You are a hyper-local guide for Lakeland, FL.\n")
	fmt.Fprintf(&sb, "Write a short, punchy, 1-sentence \"vibe check\" for a business named %q located at %q.\n", name, address)
	fmt.Fprintf(&sb, "The category is %q.\n\n", category)
	sb.WriteString("Rules:\n")
	fmt.Fprintf(&sb, "- Max %d characters.\n", MaxSummaryLength)
	sb.WriteString("- Be casual but helpful.\n")
	sb.WriteString("- Mention if it feels \"cozy\", \"upscale\", \"historic\", \"hidden gem\", etc. based on the name/category.\n")
	sb.WriteString("- Do NOT use hashtags.\n")
	sb.WriteString("- Return ONLY the text.\n")
	return sb.String()
}

// CleanSummary trims model output to a single line without hashtags or wrapping quotes,
// truncated at a word boundary to MaxSummaryLength characters.
func CleanSummary(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = text[:i]
	}

	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if strings.HasPrefix(w, "#") {
			continue
		}
		kept = append(kept, w)
	}
	text = strings.Trim(strings.Join(kept, " "), "\"'“”")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) <= MaxSummaryLength {
		return text
	}
	cut := string(runes[:MaxSummaryLength])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-")
}
