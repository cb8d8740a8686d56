package relevance

import (
	"fmt"

	"github.com/dailylaw/ledge-backend/internal/provider"
)

func billBlock(bill BillText) string {
	summary := bill.Summary
	if summary == "" {
		summary = "(no summary available)"
	}
	return fmt.Sprintf("Bill title: %s\nBill summary: %s", bill.Title, summary)
}

func quickRequest(bill BillText, interests string, maxTokens int64) provider.CompletionRequest {
	return provider.CompletionRequest{
		System:    quickSystemPrompt,
		Prompt:    fmt.Sprintf("Organization interests: %s\n\n%s\n\nScore:", interests, billBlock(bill)),
		MaxTokens: maxTokens,
	}
}

func fullRequest(bill BillText, interests string, maxTokens int64) provider.CompletionRequest {
	return provider.CompletionRequest{
		System:    fullSystemPrompt,
		Prompt:    fmt.Sprintf("Organization interests: %s\n\n%s", interests, billBlock(bill)),
		MaxTokens: maxTokens,
	}
}
