package core

import "time"

const (
	SuggestionTip     SuggestionType = "tip"
	SuggestionWarning SuggestionType = "warning"
	SuggestionInsight SuggestionType = "insight"
)

// Rule identifiers, stable across releases so clients can key behavior on them.
const (
	RuleMorningProductivity = "morning_productivity"
	RuleNightReflection     = "night_reflection"
	RuleLowBalance          = "low_balance"
	RuleSavingsOpportunity  = "savings_opportunity"
	RuleMiddayWellness      = "midday_wellness"
)

type (
	SuggestionType string

	// Suggestion is ephemeral: one per session load, held in memory only.
	Suggestion struct {
		ID         string
		Message    string
		Type       SuggestionType
		Actionable bool
		CreatedAt  time.Time
	}
)

// Balance thresholds for the rule table, in cents.
const (
	lowBalanceCents  = 1000 * 100
	highBalanceCents = 10000 * 100
)

type suggestionRule struct {
	id         string
	message    string
	kind       SuggestionType
	actionable bool
	matches    func(hour int, balance Money) bool
}

// Evaluated in order; the first match wins and exactly one rule fires.
var suggestionRules = []suggestionRule{
	{
		id:         RuleMorningProductivity,
		message:    "Start your day with your hardest task. Mornings are your focus window.",
		kind:       SuggestionTip,
		actionable: true,
		matches:    func(hour int, _ Money) bool { return hour < 10 },
	},
	{
		id:         RuleNightReflection,
		message:    "Before bed, glance over today's spending. Small leaks sink big budgets.",
		kind:       SuggestionInsight,
		actionable: false,
		matches:    func(hour int, _ Money) bool { return hour >= 20 },
	},
	{
		id:         RuleLowBalance,
		message:    "Your balance is running low. Consider pausing non-essential spending this week.",
		kind:       SuggestionWarning,
		actionable: true,
		matches:    func(_ int, balance Money) bool { return balance.Cents < lowBalanceCents },
	},
	{
		id:         RuleSavingsOpportunity,
		message:    "You have a healthy surplus. Moving some of it into savings now compounds later.",
		kind:       SuggestionTip,
		actionable: true,
		matches:    func(_ int, balance Money) bool { return balance.Cents > highBalanceCents },
	},
	{
		id:         RuleMiddayWellness,
		message:    "Midday check-in: stretch, hydrate, and take five minutes away from the screen.",
		kind:       SuggestionTip,
		actionable: false,
		matches:    func(int, Money) bool { return true },
	},
}

// PickSuggestion evaluates the rule table in fixed priority order. It is a
// pure function: the same hour and balance always select the same rule.
func PickSuggestion(hour int, balance Money, now time.Time) Suggestion {
	for _, rule := range suggestionRules {
		if rule.matches(hour, balance) {
			return Suggestion{
				ID:         rule.id,
				Message:    rule.message,
				Type:       rule.kind,
				Actionable: rule.actionable,
				CreatedAt:  now,
			}
		}
	}
	// Unreachable: the last rule always matches.
	return Suggestion{}
}
