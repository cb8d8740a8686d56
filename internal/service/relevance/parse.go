package relevance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/provider"
)

// ParseQuickScore keeps only the digits of reply and clamps the result to
// [0,100]. A reply without digits scores 0.
func ParseQuickScore(reply string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, reply)

	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return 0
	}
	if len(digits) > 3 {
		return 100
	}
	n, _ := strconv.Atoi(digits)
	return clamp(n)
}

type fullScore struct {
	MatchScore   flexInt `json:"match_score"`
	Summary      string  `json:"summary"`
	WhyItMatters string  `json:"why_it_matters"`
	Implications string  `json:"implications"`
}

// flexInt accepts a JSON number or a numeric string.
type flexInt struct {
	value int
	set   bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("match_score: %w", err)
	}
	if math.IsNaN(v) {
		return errors.New("match_score: NaN")
	}
	switch {
	case v > 100:
		f.value = 100
	case v < 0:
		f.value = 0
	default:
		f.value = int(math.Round(v))
	}
	f.set = true
	return nil
}

// ParseFullScore extracts the JSON object from reply. match_score is
// required and clamped to [0,100]; text fields are trimmed.
func ParseFullScore(reply string) (Outcome, error) {
	raw, err := provider.ExtractJSON(reply)
	if err != nil {
		return Outcome{}, err
	}

	var fs fullScore
	if err := json.Unmarshal([]byte(raw), &fs); err != nil {
		return Outcome{}, fmt.Errorf("decode full score: %w", err)
	}
	if !fs.MatchScore.set {
		return Outcome{}, errors.New("full score: missing match_score")
	}

	return Scored(
		fs.MatchScore.value,
		strings.TrimSpace(fs.Summary),
		strings.TrimSpace(fs.WhyItMatters),
		strings.TrimSpace(fs.Implications),
	), nil
}

var rateLimitMarkers = []string{"rate limit", "rate_limit", "429", "overloaded"}

// IsRateLimit reports whether err signals throttling, either by wrapping
// domain.ErrRateLimited or by its text.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range rateLimitMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) == -1
}
