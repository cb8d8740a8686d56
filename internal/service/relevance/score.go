package relevance

import (
	"context"
	"fmt"
	"log/slog"
)

const quickSystemPrompt = `You rate how relevant a piece of legislation is to an organization's interests.
Use this rubric:
90-100: the bill directly addresses the topic
70-89: strongly related
50-69: meaningful indirect connection
30-49: tangential
1-29: minor connection
0: unrelated
Respond with ONLY an integer from 0 to 100. No words, no punctuation.`

const fullSystemPrompt = `You are a policy analyst explaining why a bill matters to a specific organization.
Respond with ONLY a JSON object with exactly these keys:
{"match_score": <integer 0-100>, "summary": "<2-3 sentence plain-language summary of the bill>",
"why_it_matters": "<why this bill matters to the organization>",
"implications": "<concrete implications or actions for the organization>"}
No markdown, no explanations outside the JSON.`

// Score rates bill against interests. It never returns an error: failures
// yield an Unavailable outcome. A quick score below threshold is returned
// as-is without the explanatory second call.
func (s *Scorer) Score(ctx context.Context, bill BillText, interests string, threshold int) Outcome {
	if isBlank(interests) {
		return Unavailable("no interests to score against", false)
	}

	quickReply, err := s.llm.Complete(ctx, quickRequest(bill, interests, s.cfg.QuickMaxTokens))
	if err != nil {
		return s.unavailable(ctx, "quick score", bill, err)
	}

	quick := ParseQuickScore(quickReply)
	if quick < threshold {
		return Scored(quick, "", "", "")
	}

	fullReply, err := s.llm.Complete(ctx, fullRequest(bill, interests, s.cfg.FullMaxTokens))
	if err != nil {
		return s.unavailable(ctx, "full score", bill, err)
	}

	out, err := ParseFullScore(fullReply)
	if err != nil {
		s.log.WarnContext(ctx, "malformed full score",
			slog.String("title", bill.Title),
			slog.Int("quick_score", quick),
			slog.String("error", err.Error()),
		)
		return Unavailable(fmt.Sprintf("full score: %v", err), false)
	}
	return out
}

func (s *Scorer) unavailable(ctx context.Context, phase string, bill BillText, err error) Outcome {
	limited := IsRateLimit(err)
	s.log.WarnContext(ctx, "scoring unavailable",
		slog.String("phase", phase),
		slog.String("title", bill.Title),
		slog.Bool("rate_limited", limited),
		slog.String("error", err.Error()),
	)
	return Unavailable(fmt.Sprintf("%s: %v", phase, err), limited)
}
