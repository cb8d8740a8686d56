package congress

import (
	"strings"
	"time"

	"github.com/dailylaw/ledge-backend/internal/domain"
)

type listResponse struct {
	Bills []apiBill `json:"bills"`
}

type detailResponse struct {
	Bill apiBill `json:"bill"`
}

type apiBill struct {
	Congress     int        `json:"congress"`
	Type         string     `json:"type"`
	Number       string     `json:"number"`
	Title        string     `json:"title"`
	LatestAction *apiAction `json:"latestAction"`
}

type apiAction struct {
	ActionDate string `json:"actionDate"`
	Text       string `json:"text"`
}

type textResponse struct {
	TextVersions []struct {
		Date    *string `json:"date"`
		Type    string  `json:"type"`
		Formats []struct {
			Type string `json:"type"`
			URL  string `json:"url"`
		} `json:"formats"`
	} `json:"textVersions"`
}

// formattedTextURL returns the HTML rendition of the first version that has one.
func (r textResponse) formattedTextURL() string {
	for _, v := range r.TextVersions {
		for _, f := range v.Formats {
			if strings.EqualFold(f.Type, "Formatted Text") && f.URL != "" {
				return f.URL
			}
		}
	}
	return ""
}

func (b apiBill) toDomain() domain.Bill {
	bill := domain.Bill{
		ExternalID: ExternalID(b.Type, b.Number, b.Congress),
		Title:      strings.TrimSpace(b.Title),
		Source:     domain.SourceFederal,
	}
	if b.LatestAction != nil {
		action := b.LatestAction.toDomain()
		bill.LatestAction = action.Text
		bill.LatestActionDate = action.Date
	}
	status := domain.ParseStatusFromAction(bill.LatestAction)
	bill.Status = &status
	return bill
}

func (a apiAction) toDomain() *domain.BillAction {
	action := &domain.BillAction{Text: strings.TrimSpace(a.Text)}
	if d, err := time.Parse(time.DateOnly, a.ActionDate); err == nil {
		action.Date = &d
	}
	return action
}
