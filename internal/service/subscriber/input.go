package subscriber

import (
	"net/mail"
	"strings"

	"github.com/dailylaw/ledge-backend/internal/domain"
)

const (
	maxEmailLen    = 254
	maxGoalLen     = 1000
	maxInterestLen = 200
	maxInterests   = 20
)

// OnboardInput holds parameters for creating a subscriber.
type OnboardInput struct {
	Email       string
	Goal        string
	StateFocus  string
	Interests   []string
	AcceptTerms bool
}

// Validate validates the onboarding input.
func (i OnboardInput) Validate() error {
	var c domain.Checks

	checkEmail(&c, i.Email)
	if c.Require(strings.TrimSpace(i.Goal) != "", "goal", "required") {
		c.Require(len(i.Goal) <= maxGoalLen, "goal", "too long")
	}
	checkStateFocus(&c, i.StateFocus)
	c.Require(len(i.Interests) <= maxInterests, "interests", "too many")
	for _, in := range i.Interests {
		if !c.Require(len(in) <= maxInterestLen, "interests", "interest too long") {
			break
		}
	}
	c.Require(i.AcceptTerms, "accept_terms", "terms must be accepted")

	return c.Err()
}

// UpdateSettingsInput holds parameters for a settings change.
// All fields are optional (nil = don't change). An empty goal clears it.
type UpdateSettingsInput struct {
	Goal       *string
	StateFocus *string
}

// Validate validates the update settings input.
func (i UpdateSettingsInput) Validate() error {
	var c domain.Checks
	if i.Goal != nil {
		c.Require(len(*i.Goal) <= maxGoalLen, "goal", "too long")
	}
	if i.StateFocus != nil {
		checkStateFocus(&c, *i.StateFocus)
	}
	return c.Err()
}

func checkEmail(c *domain.Checks, email string) {
	email = strings.TrimSpace(email)
	if !c.Require(email != "", "email", "required") || !c.Require(len(email) <= maxEmailLen, "email", "too long") {
		return
	}
	addr, err := mail.ParseAddress(email)
	c.Require(err == nil && addr.Address == email, "email", "invalid email")
}

func checkStateFocus(c *domain.Checks, state string) {
	state = domain.NormalizeStateFocus(state)
	if state == domain.StateFocusAll {
		return
	}
	ok := len(state) == 2 && state[0] >= 'A' && state[0] <= 'Z' && state[1] >= 'A' && state[1] <= 'Z'
	c.Require(ok, "state_focus", "must be a two-letter state code or all")
}

// normalizeInterest trims an interest topic.
func normalizeInterest(topic string) string {
	return strings.Join(strings.Fields(topic), " ")
}
