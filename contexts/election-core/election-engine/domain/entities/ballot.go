package entities

import "time"

// VoterRecord marks that an identity has voted in an election. Once Voted is
// set it is permanent for that election key.
type VoterRecord struct {
	ElectionKey string
	VoterID     string
	Voted       bool
	VotedAt     time.Time
}

// Ballot is the accepted-vote view returned to callers after a successful
// cast: the party credited and the voter record written.
type Ballot struct {
	Party Party
	Voter VoterRecord
}
