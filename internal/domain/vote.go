package domain

import "time"

// ReconnectionVote is the single tie-breaking vote cast when a
// disconnected player's reconnection window expires. It is ephemeral
// and cleared as soon as it resolves.
type ReconnectionVote struct {
	VoterID         string    `json:"voterId"`
	VoterName       string    `json:"voterName"`
	ContinueWithout bool      `json:"continueWithout"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewReconnectionVote creates a reconnection vote
func NewReconnectionVote(voterID, voterName string, continueWithout bool) *ReconnectionVote {
	return &ReconnectionVote{
		VoterID:         voterID,
		VoterName:       voterName,
		ContinueWithout: continueWithout,
		Timestamp:       time.Now(),
	}
}
