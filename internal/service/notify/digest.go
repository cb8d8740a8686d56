package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/dailylaw/ledge-backend/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var digestTmpl = template.Must(template.ParseFS(templateFS, "templates/digest.html.tmpl"))

type digestItem struct {
	Title        string
	ExternalID   string
	Status       string
	Score        int
	Summary      string
	WhyItMatters string
	URL          string
}

type digestData struct {
	Intro        string
	Items        []digestItem
	DashboardURL string
}

// Subject is the digest subject line for n matches.
func Subject(n int) string {
	if n == 1 {
		return "1 new bill matches your interests"
	}
	return fmt.Sprintf("%d new bills match your interests", n)
}

func intro(n int) string {
	if n == 1 {
		return "One new bill is relevant to your goal."
	}
	return fmt.Sprintf("%d new bills are relevant to your goal.", n)
}

// RenderDigest renders the digest body for one subscriber.
func RenderDigest(siteURL string, matches []domain.MatchedBill) (string, error) {
	base := strings.TrimRight(siteURL, "/")
	data := digestData{
		Intro:        intro(len(matches)),
		DashboardURL: base + "/dashboard",
	}
	for _, m := range matches {
		item := digestItem{
			Title:        m.Bill.Title,
			ExternalID:   m.Bill.ExternalID,
			Score:        m.Score,
			Summary:      m.Summary,
			WhyItMatters: m.WhyItMatters,
			URL:          base + "/articles/" + url.PathEscape(m.Bill.Slug),
		}
		if m.Bill.Status != nil {
			item.Status = m.Bill.Status.String()
		}
		data.Items = append(data.Items, item)
	}

	var buf bytes.Buffer
	if err := digestTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}
