package rest

import (
	"time"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/service/matching"
)

type billResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Summary          string     `json:"summary"`
	Body             string     `json:"body,omitempty"`
	Slug             string     `json:"slug"`
	Keywords         []string   `json:"keywords"`
	Source           string     `json:"source"`
	StateCode        *string    `json:"state_code,omitempty"`
	Status           *string    `json:"status,omitempty"`
	StatusUpdatedAt  *time.Time `json:"status_updated_at,omitempty"`
	LatestAction     string     `json:"latest_action,omitempty"`
	LatestActionDate *time.Time `json:"latest_action_date,omitempty"`
	UpdateNotice     *string    `json:"update_notice,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// toBillResponse renders a bill. Lists leave the body out.
func toBillResponse(b domain.Bill, withBody bool) billResponse {
	resp := billResponse{
		ID:               b.ID.String(),
		Title:            b.Title,
		Summary:          b.Summary,
		Slug:             b.Slug,
		Keywords:         b.Keywords,
		Source:           b.Source.String(),
		StateCode:        b.StateCode,
		StatusUpdatedAt:  b.StatusUpdatedAt,
		LatestAction:     b.LatestAction,
		LatestActionDate: b.LatestActionDate,
		UpdateNotice:     b.UpdateNotice,
		CreatedAt:        b.CreatedAt,
	}
	if resp.Keywords == nil {
		resp.Keywords = []string{}
	}
	if withBody {
		resp.Body = b.Body
	}
	if b.Status != nil {
		s := string(*b.Status)
		resp.Status = &s
	}
	return resp
}

func toBillList(bills []domain.Bill) []billResponse {
	out := make([]billResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, toBillResponse(b, false))
	}
	return out
}

type subscriberResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Goal            *string    `json:"goal"`
	StateFocus      string     `json:"state_focus"`
	Interests       []string   `json:"interests"`
	TermsAcceptedAt *time.Time `json:"terms_accepted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toSubscriberResponse(s *domain.Subscriber) subscriberResponse {
	resp := subscriberResponse{
		ID:              s.ID.String(),
		Email:           s.Email,
		Goal:            s.Goal,
		StateFocus:      s.StateFocus,
		Interests:       s.Interests,
		TermsAcceptedAt: s.TermsAcceptedAt,
		CreatedAt:       s.CreatedAt,
	}
	if resp.Interests == nil {
		resp.Interests = []string{}
	}
	return resp
}

type matchResponse struct {
	Bill         billResponse `json:"bill"`
	Score        int          `json:"match_score"`
	Summary      string       `json:"summary"`
	WhyItMatters string       `json:"why_it_matters"`
	Implications string       `json:"implications"`
	ScoredAt     time.Time    `json:"scored_at"`
}

func toMatchList(matches []domain.MatchedBill) []matchResponse {
	out := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, matchResponse{
			Bill:         toBillResponse(m.Bill, false),
			Score:        m.Score,
			Summary:      m.Summary,
			WhyItMatters: m.WhyItMatters,
			Implications: m.Implications,
			ScoredAt:     m.UpdatedAt,
		})
	}
	return out
}

type starredResponse struct {
	Bill      billResponse `json:"bill"`
	HasUpdate bool         `json:"has_update"`
	StarredAt time.Time    `json:"starred_at"`
}

func toStarredList(stars []domain.StarredBill) []starredResponse {
	out := make([]starredResponse, 0, len(stars))
	for _, s := range stars {
		out = append(out, starredResponse{
			Bill:      toBillResponse(s.Bill, false),
			HasUpdate: s.HasUpdate,
			StarredAt: s.CreatedAt,
		})
	}
	return out
}

type exploreHitResponse struct {
	Bill         billResponse `json:"bill"`
	Score        int          `json:"match_score"`
	Summary      string       `json:"summary"`
	WhyItMatters string       `json:"why_it_matters"`
	Implications string       `json:"implications"`
}

type exploreResponse struct {
	RunID    string               `json:"run_id"`
	Query    string               `json:"query"`
	Scanned  int                  `json:"scanned"`
	Results  []exploreHitResponse `json:"results"`
	TimedOut bool                 `json:"timed_out"`
}

func toExploreResponse(res *matching.ExploreResult) exploreResponse {
	resp := exploreResponse{
		RunID:    res.RunID,
		Query:    res.Query,
		Scanned:  res.Scanned,
		Results:  make([]exploreHitResponse, 0, len(res.Hits)),
		TimedOut: res.TimedOut,
	}
	for _, hit := range res.Hits {
		resp.Results = append(resp.Results, exploreHitResponse{
			Bill:         toBillResponse(hit.Bill, false),
			Score:        hit.Score,
			Summary:      hit.Summary,
			WhyItMatters: hit.WhyItMatters,
			Implications: hit.Implications,
		})
	}
	return resp
}
