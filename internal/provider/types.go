// Package provider holds the value types exchanged with outbound providers.
package provider

import (
	"errors"
	"strings"
)

// CompletionRequest is one single-turn LLM completion.
type CompletionRequest struct {
	System    string
	Prompt    string
	MaxTokens int64
}

// Email is one outgoing message.
type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// ExtractJSON returns the text between the first '{' and the last '}' of an
// LLM reply, dropping any surrounding prose or code fences.
func ExtractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", errors.New("no JSON object found in response")
	}
	return s[start : end+1], nil
}

// Truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 && !utf8Start(s[len(cut)]) {
		cut = cut[:len(cut)-1]
	}
	return cut
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}
