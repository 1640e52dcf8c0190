package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateElectionRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	StopTime    time.Time `json:"stop_time"`
	VoteFee     uint64    `json:"vote_fee"`
}

type UpdateElectionRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	StopTime    time.Time `json:"stop_time"`
	VoteFee     uint64    `json:"vote_fee"`
}

type ElectionResponse struct {
	ElectionKey string    `json:"election_key"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Creator     string    `json:"creator"`
	StartTime   time.Time `json:"start_time"`
	StopTime    time.Time `json:"stop_time"`
	VoteFee     uint64    `json:"vote_fee"`
	Paused      bool      `json:"paused"`
	Cancelled   bool      `json:"cancelled"`
	Status      string    `json:"status"`
}

type ElectionListResponse struct {
	Items []ElectionResponse `json:"items"`
}

type AdminRequest struct {
	AdminID string `json:"admin_id"`
}

type AddPartyRequest struct {
	Name string `json:"name"`
}

type RemovePartyRequest struct {
	Name string `json:"name"`
}

type PartyResponse struct {
	PartyID   string `json:"party_id"`
	Name      string `json:"name"`
	VoteCount uint64 `json:"vote_count"`
	Status    string `json:"status"`
	Position  int    `json:"position"`
}

type PartyListResponse struct {
	ElectionKey string          `json:"election_key"`
	Items       []PartyResponse `json:"items"`
}

type CastVoteRequest struct {
	PartyName  string `json:"party_name"`
	PaidAmount uint64 `json:"paid_amount"`
}

type VoteResponse struct {
	ElectionKey string    `json:"election_key"`
	PartyID     string    `json:"party_id"`
	PartyName   string    `json:"party_name"`
	VoteCount   uint64    `json:"vote_count"`
	VoterID     string    `json:"voter_id"`
	VotedAt     time.Time `json:"voted_at"`
}

type WinnerItem struct {
	PartyID   string `json:"party_id"`
	PartyName string `json:"party_name"`
	VoteCount uint64 `json:"vote_count"`
	Position  int    `json:"position"`
}

type WinnerSetResponse struct {
	ElectionKey string       `json:"election_key"`
	Outcome     string       `json:"outcome"`
	MaxVotes    uint64       `json:"max_votes"`
	Winners     []WinnerItem `json:"winners"`
}

type ElectionResultsResponse struct {
	Election ElectionResponse `json:"election"`
	Parties  []PartyResponse  `json:"parties"`
	Winners  []WinnerItem     `json:"winners"`
	Resolved bool             `json:"resolved"`
}
