package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"lifeos/internal/core"
)

// Generator produces the per-session suggestion. When a Gemini API key is
// configured it asks the model to phrase the message; the deterministic
// rule table is always computed first and serves as the fallback, so a
// failed or unconfigured call degrades gracefully and never errors.
type Generator struct {
	apiKey  string
	model   string
	timeout time.Duration
	now     func() time.Time
}

type Option func(*Generator)

// WithClock replaces the wall-clock source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func NewGenerator(apiKey, model string, timeout time.Duration, opts ...Option) *Generator {
	g := &Generator{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns one suggestion for the session. The rule id, type and
// actionable flag always come from the rule table; only the message text
// is model-generated when the LLM call succeeds.
func (g *Generator) Generate(ctx context.Context, hour int, balance core.Money) core.Suggestion {
	suggestion := core.PickSuggestion(hour, balance, g.now())

	if g.apiKey == "" {
		return suggestion
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.complete(ctx, suggestion, hour, balance)
	if err != nil {
		slog.WarnContext(ctx, "LLM suggestion failed, using rule message",
			"rule_id", suggestion.ID, "error", err)
		return suggestion
	}
	text = cleanModelText(text)
	if text == "" {
		slog.WarnContext(ctx, "LLM returned empty suggestion, using rule message",
			"rule_id", suggestion.ID)
		return suggestion
	}

	suggestion.Message = text
	return suggestion
}

func (g *Generator) complete(ctx context.Context, s core.Suggestion, hour int, balance core.Money) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildPrompt(s, hour, balance)},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

func buildPrompt(s core.Suggestion, hour int, balance core.Money) string {
	return fmt.Sprintf(
		"You are a friendly personal finance and wellness coach inside a mobile app.\n\n"+
			"Context:\n"+
			"- Local hour of day: %d\n"+
			"- Remaining monthly balance: %.2f\n"+
			"- Suggestion theme: %s\n"+
			"- Suggestion kind: %s\n\n"+
			"Write ONE short suggestion for the user on this theme.\n"+
			"Rules:\n"+
			"- At most two sentences.\n"+
			"- Plain text only. No Markdown, no quotes, no emoji.\n"+
			"- Do not mention that you are an AI or that this is generated.\n",
		hour, balance.Rupees(), s.ID, s.Type)
}

// cleanModelText strips fences and surrounding quotes the model sometimes
// adds despite instructions.
func cleanModelText(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
