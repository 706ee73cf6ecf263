package domain

import "time"

// Player represents a player in a room. ID is the opaque connection id
// and is reissued when the player reconnects.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Emoji string `json:"emoji"`

	Score     int  `json:"score"`
	LikeScore int  `json:"likeScore"`
	IsVIP     bool `json:"isVip"`
	IsBot     bool `json:"isBot"`

	// One-shot abilities. Refresh, triple sound and the nuclear option
	// are usable once per game; the activated flag resets every round.
	HasUsedRefresh          bool `json:"hasUsedRefresh"`
	HasUsedTripleSound      bool `json:"hasUsedTripleSound"`
	HasActivatedTripleSound bool `json:"hasActivatedTripleSound"`
	HasUsedNuclearOption    bool `json:"hasUsedNuclearOption"`

	// SoundSet holds the candidate sound ids offered this round.
	SoundSet []string `json:"soundSet,omitempty"`

	JoinedAt time.Time `json:"joinedAt"`
}

// NewPlayer creates a new player with the given connection id and identity
func NewPlayer(id, name, color, emoji string) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Color:    color,
		Emoji:    emoji,
		JoinedAt: time.Now(),
	}
}

// ResetForNewRound clears per-round state
func (p *Player) ResetForNewRound() {
	p.HasActivatedTripleSound = false
	p.SoundSet = nil
}

// ResetForNewGame clears scores and one-shot abilities for a restart
func (p *Player) ResetForNewGame() {
	p.Score = 0
	p.LikeScore = 0
	p.HasUsedRefresh = false
	p.HasUsedTripleSound = false
	p.HasActivatedTripleSound = false
	p.HasUsedNuclearOption = false
	p.SoundSet = nil
}

// MaxSounds returns how many sounds this player may submit this round
func (p *Player) MaxSounds() int {
	if p.HasActivatedTripleSound {
		return 3
	}
	return 2
}

// DisconnectedPlayer is a snapshot of a player who lost their connection.
// It is reconciled back into the room on reconnection using the
// (name, prior connection id) pair as the match key.
type DisconnectedPlayer struct {
	Player         *Player   `json:"player"`
	PriorID        string    `json:"priorId"`
	Index          int       `json:"index"` // position held in the player list
	DisconnectedAt time.Time `json:"disconnectedAt"`
}
