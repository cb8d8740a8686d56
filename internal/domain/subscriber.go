package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// StateFocusAll is the state focus that matches bills from every state.
const StateFocusAll = "all"

// InterestSeparator joins the goal and supplementary interests for scoring.
const InterestSeparator = "; "

// Subscriber is one monitoring user, identified by email.
type Subscriber struct {
	ID              uuid.UUID
	Email           string
	Goal            *string
	StateFocus      string
	Interests       []string
	TermsAcceptedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasGoal reports whether the subscriber has a non-empty primary goal.
func (s Subscriber) HasGoal() bool {
	return s.Goal != nil && strings.TrimSpace(*s.Goal) != ""
}

// CombinedInterests returns the goal followed by each interest.
func (s Subscriber) CombinedInterests() string {
	parts := make([]string, 0, len(s.Interests)+1)
	if s.HasGoal() {
		parts = append(parts, strings.TrimSpace(*s.Goal))
	}
	for _, in := range s.Interests {
		if in = strings.TrimSpace(in); in != "" {
			parts = append(parts, in)
		}
	}
	return strings.Join(parts, InterestSeparator)
}

// Covers reports whether the bill falls inside the subscriber's state focus.
// Federal bills are always covered.
func (s Subscriber) Covers(b Bill) bool {
	focus := strings.TrimSpace(s.StateFocus)
	if focus == "" || strings.EqualFold(focus, StateFocusAll) || !b.IsState() {
		return true
	}
	return b.StateCode != nil && strings.EqualFold(*b.StateCode, focus)
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeStateFocus uppercases a two-letter state code. Empty input and
// any casing of "all" yield StateFocusAll.
func NormalizeStateFocus(state string) string {
	state = strings.TrimSpace(state)
	if state == "" || strings.EqualFold(state, StateFocusAll) {
		return StateFocusAll
	}
	return strings.ToUpper(state)
}
