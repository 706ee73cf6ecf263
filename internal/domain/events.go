package domain

import "time"

// EventType represents the type of a server-to-client event
type EventType string

const (
	EventRoomUpdated          EventType = "roomUpdated"
	EventGameStateChanged     EventType = "gameStateChanged"
	EventTimeUpdate           EventType = "timeUpdate"
	EventPlayerDisconnected   EventType = "playerDisconnected"
	EventPlayerReconnected    EventType = "playerReconnected"
	EventPlayerLeft           EventType = "playerLeft"
	EventReconnectionTime     EventType = "reconnectionTimeUpdate"
	EventGamePaused           EventType = "gamePausedForDisconnection"
	EventGameResumed          EventType = "gameResumed"
	EventReconnectionVote     EventType = "reconnectionVoteRequested"
	EventSoundSubmitted       EventType = "soundSubmitted"
	EventSoundSetAssigned     EventType = "soundSetAssigned"
	EventSoundSetRefreshed    EventType = "soundSetRefreshed"
	EventTripleSoundActivated EventType = "tripleSoundActivated"
	EventNuclearOptionUsed    EventType = "nuclearOptionUsed"
	EventSubmissionLiked      EventType = "submissionLiked"
	EventPlayNextSubmission   EventType = "playNextSubmission"
	EventJudgingPlayback      EventType = "judgingPlayback"
	EventRoundComplete        EventType = "roundComplete"
	EventGameComplete         EventType = "gameComplete"
	EventTieBreakerRound      EventType = "tieBreakerRound"
	EventMainScreenUpdate     EventType = "mainScreenUpdate"
	EventError                EventType = "error"
)

// Audience selects which connections of a room receive an event
type Audience int

const (
	AudienceAll     Audience = iota // every player and viewer connection
	AudiencePlayers                 // player connections only
	AudienceViewers                 // viewer connections only
)

// Event is a broadcastable room event. When Target is set the event is
// delivered only to that connection, otherwise to the audience.
type Event struct {
	Type      EventType   `json:"type"`
	RoomCode  string      `json:"roomCode"`
	Target    string      `json:"-"`
	Audience  Audience    `json:"-"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates an event for every connection in the room
func NewEvent(eventType EventType, roomCode string, payload interface{}) *Event {
	return &Event{
		Type:      eventType,
		RoomCode:  roomCode,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewTargetEvent creates an event for a single connection
func NewTargetEvent(eventType EventType, roomCode, target string, payload interface{}) *Event {
	e := NewEvent(eventType, roomCode, payload)
	e.Target = target
	return e
}

// NewAudienceEvent creates an event for one class of connections
func NewAudienceEvent(eventType EventType, roomCode string, audience Audience, payload interface{}) *Event {
	e := NewEvent(eventType, roomCode, payload)
	e.Audience = audience
	return e
}

// Payload types for the event catalog

// RoomSnapshot is the full client-facing view of a room, sent on
// roomUpdated and on (re)join.
type RoomSnapshot struct {
	Code           string       `json:"code"`
	State          GameState    `json:"state"`
	Round          int          `json:"round"`
	Settings       GameSettings `json:"settings"`
	Players        []*Player    `json:"players"`
	CurrentJudgeID string       `json:"currentJudgeId,omitempty"`
	CurrentPrompt  *Prompt      `json:"currentPrompt,omitempty"`
	LastWinner     *RoundWinner `json:"lastWinner,omitempty"`
	ViewerCount    int          `json:"viewerCount"`
}

// Snapshot builds the client-facing view of the room
func (r *Room) Snapshot(viewerCount int) *RoomSnapshot {
	return &RoomSnapshot{
		Code:           r.Code,
		State:          r.State,
		Round:          r.Round,
		Settings:       r.Settings,
		Players:        r.Players,
		CurrentJudgeID: r.CurrentJudgeID,
		CurrentPrompt:  r.CurrentPrompt,
		LastWinner:     r.LastWinner,
		ViewerCount:    viewerCount,
	}
}

// StateChangedPayload is sent on every round-machine transition
type StateChangedPayload struct {
	State          GameState     `json:"state"`
	Round          int           `json:"round"`
	CurrentJudgeID string        `json:"currentJudgeId,omitempty"`
	Prompt         *Prompt       `json:"prompt,omitempty"`
	Candidates     []Prompt      `json:"candidates,omitempty"`
	Submissions    []*Submission `json:"submissions,omitempty"`
	SubmissionSeed uint32        `json:"submissionSeed,omitempty"`
}

// TimeUpdatePayload carries the remaining seconds of the active countdown
type TimeUpdatePayload struct {
	TimeLeft int `json:"timeLeft"`
}

// DisconnectPayload describes a lost, returned or departed player
type DisconnectPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// PausedPayload is sent when the room pauses for a disconnection
type PausedPayload struct {
	PlayerName string `json:"playerName"`
	TimeLeft   int    `json:"timeLeft"`
}

// ResumedPayload is sent when a paused room resumes
type ResumedPayload struct {
	State GameState `json:"state"`
}

// VoteRequestPayload asks a single connected player to break the tie
// between waiting longer and continuing without the missing player.
type VoteRequestPayload struct {
	VoterID           string `json:"voterId"`
	VoterName         string `json:"voterName"`
	MissingPlayerName string `json:"missingPlayerName"`
}

// SoundSubmittedPayload reports submission progress without revealing sounds
type SoundSubmittedPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Submitted  int    `json:"submitted"`
	Expected   int    `json:"expected"`
}

// SoundSetPayload delivers a player's candidate sound ids
type SoundSetPayload struct {
	Sounds []string `json:"sounds"`
}

// LikePayload reports a like on a submission by shuffled index
type LikePayload struct {
	Index     int    `json:"index"`
	PlayerID  string `json:"playerId"`
	LikeCount int    `json:"likeCount"`
}

// PlaybackPayload carries one submission for the main screen to play
type PlaybackPayload struct {
	Index      int         `json:"index"`
	Total      int         `json:"total"`
	Submission *Submission `json:"submission"`
}

// JudgingPlaybackPayload replays a submission on the judge's request
type JudgingPlaybackPayload struct {
	Index  int      `json:"index"`
	Sounds []string `json:"sounds"`
}

// RoundCompletePayload announces the round winner
type RoundCompletePayload struct {
	Winner *RoundWinner `json:"winner"`
	Round  int          `json:"round"`
}

// GameCompletePayload announces the game winner and final standings
type GameCompletePayload struct {
	WinnerID   string    `json:"winnerId"`
	WinnerName string    `json:"winnerName"`
	Standings  []*Player `json:"standings"`
}

// TieBreakerPayload announces a sudden-death round
type TieBreakerPayload struct {
	Round   int      `json:"round"`
	Leaders []string `json:"leaders"`
}

// MainScreenPayload reports viewer election results
type MainScreenPayload struct {
	ViewerCount int  `json:"viewerCount"`
	IsPrimary   bool `json:"isPrimary"`
}

// ErrorPayload carries a short human-readable failure message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
