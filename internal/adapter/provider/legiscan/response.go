package legiscan

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/dailylaw/ledge-backend/internal/domain"
)

type envelope struct {
	Status string `json:"status"`
	Alert  *struct {
		Message string `json:"message"`
	} `json:"alert"`
}

// masterListResponse keys entries by position, next to a "session" object.
type masterListResponse struct {
	MasterList map[string]json.RawMessage `json:"masterlist"`
}

type masterEntry struct {
	BillID         int    `json:"bill_id"`
	Number         string `json:"number"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	LastActionDate string `json:"last_action_date"`
	LastAction     string `json:"last_action"`
}

func (r masterListResponse) entries() []masterEntry {
	out := make([]masterEntry, 0, len(r.MasterList))
	for key, raw := range r.MasterList {
		if key == "session" {
			continue
		}
		var e masterEntry
		if err := json.Unmarshal(raw, &e); err != nil || e.BillID == 0 || e.Number == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (e masterEntry) toDomain(state string) domain.Bill {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		title = strings.TrimSpace(e.Description)
	}
	code := state
	bill := domain.Bill{
		ExternalID:   ExternalID(state, e.Number, e.BillID),
		Title:        title,
		Source:       domain.SourceLegiScan,
		StateCode:    &code,
		LatestAction: strings.TrimSpace(e.LastAction),
	}
	if d, err := time.Parse(time.DateOnly, e.LastActionDate); err == nil {
		bill.LatestActionDate = &d
	}
	status := domain.ParseStatusFromAction(bill.LatestAction)
	bill.Status = &status
	return bill
}

type billResponse struct {
	Bill *billDetail `json:"bill"`
}

type billDetail struct {
	BillID  int `json:"bill_id"`
	History []struct {
		Date   string `json:"date"`
		Action string `json:"action"`
	} `json:"history"`
	Texts []textDoc `json:"texts"`
}

type textDoc struct {
	DocID int    `json:"doc_id"`
	Date  string `json:"date"`
	Mime  string `json:"mime"`
}

// latestAction returns the last history entry; LegiScan lists history oldest first.
func (b *billDetail) latestAction() *domain.BillAction {
	if len(b.History) == 0 {
		return nil
	}
	h := b.History[len(b.History)-1]
	if strings.TrimSpace(h.Action) == "" {
		return nil
	}
	action := &domain.BillAction{Text: strings.TrimSpace(h.Action)}
	if d, err := time.Parse(time.DateOnly, h.Date); err == nil {
		action.Date = &d
	}
	return action
}

func (b *billDetail) newestText() *textDoc {
	var newest *textDoc
	for i := range b.Texts {
		t := &b.Texts[i]
		if newest == nil || t.Date > newest.Date || (t.Date == newest.Date && t.DocID > newest.DocID) {
			newest = t
		}
	}
	return newest
}

type textResponse struct {
	Text *struct {
		DocID int    `json:"doc_id"`
		Mime  string `json:"mime"`
		Doc   string `json:"doc"`
	} `json:"text"`
}
