package domain

import (
	"time"

	"github.com/google/uuid"
)

// Match is the relevance of one bill to one subscriber's combined interests.
// A row with Score 0 is a real judgment. A missing row means not yet scored.
type Match struct {
	SubscriberID uuid.UUID
	BillID       uuid.UUID
	Score        int
	Summary      string
	WhyItMatters string
	Implications string
	Notified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MatchedBill is a match joined with the bill it refers to.
type MatchedBill struct {
	Match
	Bill Bill
}

// StarredBill is a subscriber's bookmark on a bill.
type StarredBill struct {
	SubscriberID uuid.UUID
	BillID       uuid.UUID
	HasUpdate    bool
	CreatedAt    time.Time
	Bill         Bill
}

// PendingAlert groups a subscriber with the unnotified matches to send.
type PendingAlert struct {
	Subscriber Subscriber
	Matches    []MatchedBill
}
