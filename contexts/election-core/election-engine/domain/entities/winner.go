package entities

import "time"

type TallyOutcome string

const (
	OutcomeWin       TallyOutcome = "win"
	OutcomeTie       TallyOutcome = "tie"
	OutcomeAbstained TallyOutcome = "abstained"
)

// WinnerEntry is one member of a resolved election's winner set, in party
// registry order.
type WinnerEntry struct {
	ElectionKey string
	PartyID     string
	PartyName   string
	VoteCount   uint64
	Position    int
	ResolvedAt  time.Time
}

// TallyResult is the outcome of winner resolution. Winners is empty exactly
// when Outcome is abstained; an abstained outcome is never persisted, so a
// later resolution attempt remains possible.
type TallyResult struct {
	ElectionKey string
	Outcome     TallyOutcome
	Winners     []WinnerEntry
	MaxVotes    uint64
	ResolvedAt  time.Time
}
