package relevance

// Kind tags an Outcome.
type Kind int

const (
	// KindScored is a real judgment, including a score of 0.
	KindScored Kind = iota + 1
	// KindUnavailable means no judgment could be made.
	KindUnavailable
)

// Outcome is the result of scoring one bill against one set of interests.
// Only Scored outcomes may be persisted.
type Outcome struct {
	Kind Kind

	Score        int
	Summary      string
	WhyItMatters string
	Implications string

	// Set for Unavailable outcomes.
	RateLimited bool
	Reason      string
}

// Scored builds a scored outcome.
func Scored(score int, summary, why, implications string) Outcome {
	return Outcome{
		Kind:         KindScored,
		Score:        clamp(score),
		Summary:      summary,
		WhyItMatters: why,
		Implications: implications,
	}
}

// Unavailable builds an outcome for a failed scoring attempt.
func Unavailable(reason string, rateLimited bool) Outcome {
	return Outcome{Kind: KindUnavailable, Reason: reason, RateLimited: rateLimited}
}

// IsScored reports whether the outcome carries a judgment.
func (o Outcome) IsScored() bool { return o.Kind == KindScored }

func clamp(n int) int {
	switch {
	case n < 0:
		return 0
	case n > 100:
		return 100
	}
	return n
}
