package domain

import (
	"regexp"
	"strings"
)

// BillStatus is a label from the fixed legislative status taxonomy.
type BillStatus string

const (
	StatusIntroduced           BillStatus = "Introduced"
	StatusReferred             BillStatus = "Referred to Committee"
	StatusReported             BillStatus = "Reported by Committee"
	StatusOnCalendar           BillStatus = "On Calendar"
	StatusPassedHouse          BillStatus = "Passed House"
	StatusPassedSenate         BillStatus = "Passed Senate"
	StatusPassed               BillStatus = "Passed"
	StatusReceivedSenate       BillStatus = "Received in Senate"
	StatusReceivedHouse        BillStatus = "Received in House"
	StatusResolvingDifferences BillStatus = "Resolving Differences"
	StatusSentToPresident      BillStatus = "Sent to President"
	StatusSignedIntoLaw        BillStatus = "Signed into Law"
	StatusVetoed               BillStatus = "Vetoed"
)

func (s BillStatus) String() string { return string(s) }

func (s BillStatus) IsValid() bool {
	switch s {
	case StatusIntroduced, StatusReferred, StatusReported, StatusOnCalendar,
		StatusPassedHouse, StatusPassedSenate, StatusPassed,
		StatusReceivedSenate, StatusReceivedHouse, StatusResolvingDifferences,
		StatusSentToPresident, StatusSignedIntoLaw, StatusVetoed:
		return true
	}
	return false
}

// statusRule maps action text to a status. Lower precedence is checked first.
// A generic rule is skipped for procedural actions.
type statusRule struct {
	precedence int
	status     BillStatus
	pattern    *regexp.Regexp
	generic    bool
}

// statusRules must stay sorted by precedence, most advanced stage first.
// Generic patterns ("passed", "committee") rely on the specific ones above them.
var statusRules = []statusRule{
	{10, StatusSignedIntoLaw, regexp.MustCompile(`(?i)became public law|public law no|signed by (the )?president|signed by (the )?governor|approved by (the )?governor|chaptered`), false},
	{20, StatusVetoed, regexp.MustCompile(`(?i)veto`), false},
	{30, StatusSentToPresident, regexp.MustCompile(`(?i)(presented|sent) to (the )?(president|governor)|enrolled`), false},
	{40, StatusResolvingDifferences, regexp.MustCompile(`(?i)resolving differences|conference (committee|report)|conferees|concur`), false},
	{50, StatusPassed, regexp.MustCompile(`(?i)passed both|cleared for (the )?(white house|president)`), false},
	{60, StatusPassedSenate, regexp.MustCompile(`(?i)passed (the )?senate|senate passed|passed/agreed to in senate`), false},
	{70, StatusPassedHouse, regexp.MustCompile(`(?i)passed (the )?house|house passed|passed/agreed to in house`), false},
	{80, StatusReceivedSenate, regexp.MustCompile(`(?i)received in the senate`), false},
	{90, StatusReceivedHouse, regexp.MustCompile(`(?i)received in the house`), false},
	{100, StatusPassed, regexp.MustCompile(`(?i)\bpassed\b|\bagreed to\b`), true},
	{110, StatusOnCalendar, regexp.MustCompile(`(?i)placed on (the )?[a-z .]*calendar|calendar no\.`), false},
	{120, StatusReported, regexp.MustCompile(`(?i)reported\s*(by|to|with|without|favorably|amended|\(amended\)|an original|in the nature)|ordered to be reported`), false},
	{130, StatusReferred, regexp.MustCompile(`(?i)referred to|committee`), false},
	{140, StatusIntroduced, regexp.MustCompile(`(?i)introduced`), false},
}

// proceduralAction matches floor motions and amendment votes. Their
// "agreed to" says nothing about the bill itself.
var proceduralAction = regexp.MustCompile(`(?i)motion to (reconsider|table|proceed|recommit|adjourn|instruct|discharge)|laid on the table|cloture|on agreeing to the [^.]*amendment`)

// IsProceduralAction reports whether action records a motion or amendment
// vote rather than a step of the bill.
func IsProceduralAction(action string) bool {
	return proceduralAction.MatchString(action)
}

// ParseStatusFromAction maps free-text legislative action to a BillStatus.
// Empty or unrecognized text yields StatusIntroduced.
func ParseStatusFromAction(action string) BillStatus {
	action = strings.TrimSpace(action)
	if action == "" {
		return StatusIntroduced
	}
	procedural := IsProceduralAction(action)
	for _, r := range statusRules {
		if r.generic && procedural {
			continue
		}
		if r.pattern.MatchString(action) {
			return r.status
		}
	}
	return StatusIntroduced
}

// NextStatus is the status a bill moves to after action. A procedural
// action keeps the known status.
func NextStatus(prev *BillStatus, action string) BillStatus {
	if prev != nil && IsProceduralAction(action) {
		return *prev
	}
	return ParseStatusFromAction(action)
}

// forwardProgress lists the statuses that count as a real step forward.
// Arrival and referral restatements are deliberately absent.
var forwardProgress = map[BillStatus]bool{
	StatusReported:             true,
	StatusPassedHouse:          true,
	StatusPassedSenate:         true,
	StatusPassed:               true,
	StatusResolvingDifferences: true,
	StatusSentToPresident:      true,
	StatusSignedIntoLaw:        true,
	StatusVetoed:               true,
}

// IsSignificantChange reports whether moving from prev to next should flag
// starred bills. A nil prev is the first observation and always counts.
func IsSignificantChange(prev *BillStatus, next BillStatus) bool {
	if prev == nil {
		return true
	}
	if *prev == next {
		return false
	}
	return forwardProgress[next]
}
