package core

import (
	"testing"
	"time"
)

func TestPickSuggestion(t *testing.T) {
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		hour     int
		balance  Money
		wantRule string
		wantType SuggestionType
	}{
		{name: "morning wins over balance", hour: 9, balance: rupees(5000), wantRule: RuleMorningProductivity, wantType: SuggestionTip},
		{name: "night wins over balance", hour: 21, balance: rupees(5000), wantRule: RuleNightReflection, wantType: SuggestionInsight},
		{name: "low balance at midday", hour: 14, balance: rupees(500), wantRule: RuleLowBalance, wantType: SuggestionWarning},
		{name: "high balance at midday", hour: 14, balance: rupees(20000), wantRule: RuleSavingsOpportunity, wantType: SuggestionTip},
		{name: "default midday wellness", hour: 14, balance: rupees(5000), wantRule: RuleMiddayWellness, wantType: SuggestionTip},
		{name: "morning wins over low balance", hour: 0, balance: rupees(0), wantRule: RuleMorningProductivity, wantType: SuggestionTip},
		{name: "boundary hour ten falls through", hour: 10, balance: rupees(5000), wantRule: RuleMiddayWellness, wantType: SuggestionTip},
		{name: "boundary hour twenty is night", hour: 20, balance: rupees(5000), wantRule: RuleNightReflection, wantType: SuggestionInsight},
		{name: "exactly 1000 is not low", hour: 14, balance: rupees(1000), wantRule: RuleMiddayWellness, wantType: SuggestionTip},
		{name: "exactly 10000 is not high", hour: 14, balance: rupees(10000), wantRule: RuleMiddayWellness, wantType: SuggestionTip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickSuggestion(tt.hour, tt.balance, now)
			if got.ID != tt.wantRule {
				t.Errorf("PickSuggestion(%d, %d) rule = %s, want %s",
					tt.hour, tt.balance.Cents, got.ID, tt.wantRule)
			}
			if got.Type != tt.wantType {
				t.Errorf("type = %s, want %s", got.Type, tt.wantType)
			}
			if got.Message == "" {
				t.Error("message must not be empty")
			}
			if !got.CreatedAt.Equal(now) {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, now)
			}
		})
	}
}

func TestPickSuggestion_Deterministic(t *testing.T) {
	now := time.Now()
	a := PickSuggestion(14, rupees(5000), now)
	b := PickSuggestion(14, rupees(5000), now)
	if a != b {
		t.Errorf("same inputs produced different suggestions: %+v vs %+v", a, b)
	}
}
