package synthesis

import (
	"fmt"
	"strings"

	"github.com/dailylaw/ledge-backend/internal/provider"
)

const systemPrompt = `You are a legislative journalist writing for The Daily Law, a plain-language
newsletter for nonprofits and small organizations. Write accurately from the bill text;
never invent provisions. Respond with ONLY a JSON object with exactly these keys:
{"title": "<headline, under 100 characters>",
 "summary": "<2-3 sentence summary>",
 "body": "<400-800 word article in Markdown: what the bill does, who it affects, where it stands>",
 "slug": "<short-url-slug>",
 "keywords": ["<3-8 lowercase topic keywords>"]}`

func buildPrompt(in Input, maxTextBytes int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Bill: %s\n", in.Bill.ExternalID)
	fmt.Fprintf(&sb, "Official title: %s\n", in.Bill.Title)
	if in.Bill.StateCode != nil {
		fmt.Fprintf(&sb, "State: %s\n", *in.Bill.StateCode)
	} else {
		sb.WriteString("Jurisdiction: United States Congress\n")
	}
	if in.Bill.LatestAction != "" {
		fmt.Fprintf(&sb, "Latest action: %s\n", in.Bill.LatestAction)
	}

	if len(in.Context) > 0 {
		sb.WriteString("\nBackground:\n")
		for _, c := range in.Context {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
	}

	text := provider.Truncate(in.Text, maxTextBytes)
	sb.WriteString("\nBill text:\n")
	sb.WriteString(text)
	if len(text) < len(in.Text) {
		sb.WriteString("\n[text truncated]")
	}
	return sb.String()
}
