package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BillSource identifies the legislative feed a bill came from.
type BillSource string

const (
	SourceFederal  BillSource = "federal"
	SourceState    BillSource = "state"
	SourceLegiScan BillSource = "legiscan"
)

func (s BillSource) String() string { return string(s) }

func (s BillSource) IsValid() bool {
	switch s {
	case SourceFederal, SourceState, SourceLegiScan:
		return true
	}
	return false
}

// IsState reports whether bills from this source belong to a single state.
func (s BillSource) IsState() bool {
	return s == SourceState || s == SourceLegiScan
}

// Bill is one piece of legislation together with its synthesized article.
// Only the status fields and UpdateNotice change after synthesis.
type Bill struct {
	ID               uuid.UUID
	ExternalID       string
	Title            string
	Summary          string
	Body             string
	Slug             string
	Keywords         []string
	Source           BillSource
	StateCode        *string
	Status           *BillStatus
	StatusUpdatedAt  *time.Time
	LatestAction     string
	LatestActionDate *time.Time
	UpdateNotice     *string
	Published        bool
	CreatedAt        time.Time
}

// IsState reports whether the bill is a state bill.
func (b Bill) IsState() bool {
	return b.Source.IsState()
}

// BillAction is the most recent action recorded by a legislative source.
type BillAction struct {
	Text string
	Date *time.Time
}

// Article is the structured output of the synthesis stage.
type Article struct {
	Title    string
	Summary  string
	Body     string
	Slug     string
	Keywords []string
}

// ApplyArticle copies the synthesized article onto the bill and publishes it.
func (b *Bill) ApplyArticle(a Article) {
	if a.Title != "" {
		b.Title = a.Title
	}
	b.Summary = a.Summary
	b.Body = a.Body
	b.Slug = a.Slug
	b.Keywords = a.Keywords
	b.Published = true
}

// StatusUpdate is the set of fields the status tracker may write.
type StatusUpdate struct {
	Status           BillStatus
	LatestAction     string
	LatestActionDate *time.Time
	UpdatedAt        time.Time
	// Notice is appended to the bill's update notice when non-empty.
	Notice string
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with dashes.
// The result is cut to at most maxLen characters on a dash boundary.
func Slugify(s string, maxLen int) string {
	slug := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if maxLen > 0 && len(slug) > maxLen {
		cut := slug[:maxLen]
		if slug[maxLen] != '-' {
			if i := strings.LastIndex(cut, "-"); i > 0 {
				cut = cut[:i]
			}
		}
		slug = strings.Trim(cut, "-")
	}
	return slug
}
