package suggest

import (
	"context"
	"strings"
	"testing"
	"time"

	"lifeos/internal/core"
)

func TestGenerator_UnconfiguredFallsBackToRules(t *testing.T) {
	now := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)
	g := NewGenerator("", "gemini-2.0-flash", 5*time.Second, WithClock(func() time.Time { return now }))

	tests := []struct {
		name     string
		hour     int
		balance  core.Money
		wantRule string
	}{
		{name: "morning", hour: 9, balance: core.Money{Cents: 500000}, wantRule: core.RuleMorningProductivity},
		{name: "night", hour: 21, balance: core.Money{Cents: 500000}, wantRule: core.RuleNightReflection},
		{name: "low balance", hour: 14, balance: core.Money{Cents: 50000}, wantRule: core.RuleLowBalance},
		{name: "high balance", hour: 14, balance: core.Money{Cents: 2000000}, wantRule: core.RuleSavingsOpportunity},
		{name: "default", hour: 14, balance: core.Money{Cents: 500000}, wantRule: core.RuleMiddayWellness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Generate(context.Background(), tt.hour, tt.balance)
			if got.ID != tt.wantRule {
				t.Errorf("rule = %s, want %s", got.ID, tt.wantRule)
			}
			if got.Message == "" {
				t.Error("fallback message must not be empty")
			}
			if !got.CreatedAt.Equal(now) {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, now)
			}
		})
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	g := NewGenerator("", "gemini-2.0-flash", 5*time.Second)
	a := g.Generate(context.Background(), 14, core.Money{Cents: 500000})
	b := g.Generate(context.Background(), 14, core.Money{Cents: 500000})
	if a.ID != b.ID || a.Message != b.Message {
		t.Errorf("fallback not deterministic: %+v vs %+v", a, b)
	}
}

func TestCleanModelText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Take a walk.", want: "Take a walk."},
		{name: "surrounding whitespace", input: "  Take a walk. \n", want: "Take a walk."},
		{name: "quoted", input: `"Take a walk."`, want: "Take a walk."},
		{name: "fenced", input: "```\nTake a walk.\n```", want: "Take a walk."},
		{name: "fenced with language", input: "```text\nTake a walk.\n```", want: "Take a walk."},
		{name: "empty", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelText(tt.input); got != tt.want {
				t.Errorf("cleanModelText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	s := core.Suggestion{ID: core.RuleLowBalance, Type: core.SuggestionWarning}
	prompt := buildPrompt(s, 14, core.Money{Cents: 50000})

	for _, want := range []string{core.RuleLowBalance, "500.00", "hour of day: 14"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
