package domain

import (
	"time"
)

// GameSettings holds configurable per-room game parameters
type GameSettings struct {
	MinPlayers           int  `json:"minPlayers"`
	MaxPlayers           int  `json:"maxPlayers"`
	MaxRounds            int  `json:"maxRounds"`
	MaxScore             int  `json:"maxScore"`
	AllowExplicitContent bool `json:"allowExplicitContent"`
}

// DefaultGameSettings returns the default game settings
func DefaultGameSettings() GameSettings {
	return GameSettings{
		MinPlayers:           3,
		MaxPlayers:           8,
		MaxRounds:            5,
		MaxScore:             3,
		AllowExplicitContent: false,
	}
}

// Validate checks the adjustable settings against their allowed bounds
func (s GameSettings) Validate() error {
	if s.MaxRounds < 1 || s.MaxRounds > 20 {
		return ErrInvalidSettings
	}
	if s.MaxScore < 1 || s.MaxScore > 20 {
		return ErrInvalidSettings
	}
	return nil
}

// RoundWinner records the outcome of the last completed round so it can
// be replayed to reconnecting clients.
type RoundWinner struct {
	PlayerID   string      `json:"playerId"`
	PlayerName string      `json:"playerName"`
	Submission *Submission `json:"submission"`
	Nuclear    bool        `json:"nuclear"`
}

// Room represents one isolated game session, keyed by a 4-letter code.
// All mutation must be serialized by the owning session; Room itself
// holds no locks.
type Room struct {
	Code     string       `json:"code"`
	Players  []*Player    `json:"players"`
	Settings GameSettings `json:"settings"`
	State    GameState    `json:"state"`

	Round            int      `json:"round"`
	CurrentJudgeID   string   `json:"currentJudgeId,omitempty"`
	CurrentPrompt    *Prompt  `json:"currentPrompt,omitempty"`
	PromptCandidates []Prompt `json:"promptCandidates,omitempty"`
	UsedPromptIDs    []string `json:"-"`

	Submissions           []*Submission `json:"submissions"`
	RandomizedSubmissions []*Submission `json:"randomizedSubmissions"`
	SubmissionSeed        uint32        `json:"submissionSeed"`

	// Disconnection bookkeeping, keyed by the prior connection id.
	Disconnected map[string]*DisconnectedPlayer `json:"-"`

	// Pause bookkeeping. InterruptedState is restored on resume;
	// RemainingSeconds preserves a mid-flight sound-selection countdown.
	InterruptedState GameState         `json:"-"`
	RemainingSeconds int               `json:"-"`
	PendingVoterID   string            `json:"-"`
	PausedForID      string            `json:"-"`
	LastVote         *ReconnectionVote `json:"-"`

	LastWinner *RoundWinner `json:"lastWinner,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// NewRoom creates a room in the lobby state
func NewRoom(code string, settings GameSettings) *Room {
	return &Room{
		Code:         code,
		Players:      make([]*Player, 0, settings.MaxPlayers),
		Settings:     settings,
		State:        StateLobby,
		Disconnected: make(map[string]*DisconnectedPlayer),
		CreatedAt:    time.Now(),
	}
}

// AddPlayer adds a player to the room. The first player (or the first
// after the VIP left) becomes VIP.
func (r *Room) AddPlayer(p *Player) error {
	if r.State != StateLobby {
		return ErrGameInProgress
	}
	if len(r.Players) >= r.Settings.MaxPlayers {
		return ErrRoomFull
	}
	for _, existing := range r.Players {
		if existing.Name == p.Name {
			return ErrNameTaken
		}
	}

	r.Players = append(r.Players, p)
	if !p.IsBot && !r.hasVIP() {
		p.IsVIP = true
	}
	return nil
}

// RemovePlayer removes a player permanently, reassigning the VIP role
// if the departing player held it. The removed player is returned.
func (r *Room) RemovePlayer(playerID string) (*Player, error) {
	idx := r.playerIndex(playerID)
	if idx < 0 {
		return nil, ErrPlayerNotFound
	}

	p := r.Players[idx]
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)

	if p.IsVIP {
		p.IsVIP = false
		r.reassignVIP()
	}
	return p, nil
}

// GetPlayer returns a player by connection id
func (r *Room) GetPlayer(playerID string) (*Player, error) {
	if idx := r.playerIndex(playerID); idx >= 0 {
		return r.Players[idx], nil
	}
	return nil, ErrPlayerNotFound
}

// CurrentJudge returns the judge if present in the player list. A
// disconnected judge keeps CurrentJudgeID set while absent from
// Players, which signals "awaiting judge return".
func (r *Room) CurrentJudge() *Player {
	if r.CurrentJudgeID == "" {
		return nil
	}
	p, err := r.GetPlayer(r.CurrentJudgeID)
	if err != nil {
		return nil
	}
	return p
}

// IsJudge reports whether the given player is the current judge
func (r *Room) IsJudge(playerID string) bool {
	return r.CurrentJudgeID != "" && r.CurrentJudgeID == playerID
}

// IsVIP reports whether the given player holds the VIP role
func (r *Room) IsVIP(playerID string) bool {
	p, err := r.GetPlayer(playerID)
	return err == nil && p.IsVIP
}

// HumanCount returns the number of non-bot players
func (r *Room) HumanCount() int {
	count := 0
	for _, p := range r.Players {
		if !p.IsBot {
			count++
		}
	}
	return count
}

// NonJudgePlayers returns every player except the current judge
func (r *Room) NonJudgePlayers() []*Player {
	players := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.ID != r.CurrentJudgeID {
			players = append(players, p)
		}
	}
	return players
}

// RotateJudge advances the judge role round-robin by player-list
// position. The first round assigns the first player.
func (r *Room) RotateJudge() *Player {
	if len(r.Players) == 0 {
		r.CurrentJudgeID = ""
		return nil
	}

	next := 0
	if idx := r.playerIndex(r.CurrentJudgeID); idx >= 0 {
		next = (idx + 1) % len(r.Players)
	}
	r.CurrentJudgeID = r.Players[next].ID
	return r.Players[next]
}

// ResetForNewRound clears per-round state before judge selection
func (r *Room) ResetForNewRound() {
	r.CurrentPrompt = nil
	r.PromptCandidates = nil
	r.Submissions = make([]*Submission, 0, len(r.Players))
	r.RandomizedSubmissions = nil
	r.SubmissionSeed = 0
	for _, p := range r.Players {
		p.ResetForNewRound()
	}
}

// ResetForNewGame returns the room to a fresh lobby, keeping players
// and previously used prompts (prompts never repeat within a room's
// lifetime).
func (r *Room) ResetForNewGame() {
	r.State = StateLobby
	r.Round = 0
	r.CurrentJudgeID = ""
	r.LastWinner = nil
	r.ResetForNewRound()
	for _, p := range r.Players {
		p.ResetForNewGame()
	}
}

// AddSubmission validates and records a submission for the current
// round. Submissions never exceed players-1 because the judge is
// excluded and each player submits at most once.
func (r *Room) AddSubmission(playerID string, sounds []string) (*Submission, error) {
	if r.State != StateSoundSelection {
		return nil, ErrInvalidState
	}
	if r.IsJudge(playerID) {
		return nil, ErrJudgeCannotSubmit
	}

	p, err := r.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}
	if r.SubmissionBy(playerID) != nil {
		return nil, ErrAlreadySubmitted
	}
	if len(sounds) < 1 || len(sounds) > p.MaxSounds() {
		return nil, ErrInvalidSoundCount
	}
	for _, id := range sounds {
		if !contains(p.SoundSet, id) {
			return nil, ErrSoundNotInSet
		}
	}
	if len(r.Submissions) >= len(r.Players)-1 {
		return nil, ErrInvalidState
	}

	sub := NewSubmission(p.ID, p.Name, sounds)
	r.Submissions = append(r.Submissions, sub)
	return sub, nil
}

// SubmissionBy returns the current round's submission from the given
// player, or nil.
func (r *Room) SubmissionBy(playerID string) *Submission {
	for _, s := range r.Submissions {
		if s.PlayerID == playerID {
			return s
		}
	}
	return nil
}

// AllSubmitted reports whether every present non-judge player has a
// submission in. Players who left mid-round are not waited on.
func (r *Room) AllSubmitted() bool {
	for _, p := range r.NonJudgePlayers() {
		if r.SubmissionBy(p.ID) == nil {
			return false
		}
	}
	return true
}

// MarkPromptUsed records a prompt id so it is never offered again in
// this room.
func (r *Room) MarkPromptUsed(promptID string) {
	r.UsedPromptIDs = append(r.UsedPromptIDs, promptID)
}

// WinOutcome is the result of evaluating the win condition after a round
type WinOutcome struct {
	GameOver bool
	TieBreak bool
	Winner   *Player
	Leaders  []*Player
}

// EvaluateWin applies the win condition: the game ends only when a
// terminal condition is reached (round ceiling or score threshold) AND
// exactly one player holds the top score. A multi-way tie at the
// terminal condition forces a sudden-death round instead.
func (r *Room) EvaluateWin() WinOutcome {
	maxScore := 0
	for _, p := range r.Players {
		if p.Score > maxScore {
			maxScore = p.Score
		}
	}

	leaders := make([]*Player, 0, 1)
	for _, p := range r.Players {
		if p.Score == maxScore {
			leaders = append(leaders, p)
		}
	}

	terminal := r.Round >= r.Settings.MaxRounds || maxScore >= r.Settings.MaxScore
	if !terminal {
		return WinOutcome{Leaders: leaders}
	}
	if len(leaders) == 1 {
		return WinOutcome{GameOver: true, Winner: leaders[0], Leaders: leaders}
	}
	return WinOutcome{TieBreak: true, Leaders: leaders}
}

// EnsureVIP reassigns the VIP role after the holder departed
func (r *Room) EnsureVIP() {
	if !r.hasVIP() {
		r.reassignVIP()
	}
}

func (r *Room) hasVIP() bool {
	for _, p := range r.Players {
		if p.IsVIP {
			return true
		}
	}
	return false
}

// reassignVIP gives the VIP role to the first human player, falling
// back to the first player when only bots remain.
func (r *Room) reassignVIP() {
	for _, p := range r.Players {
		if !p.IsBot {
			p.IsVIP = true
			return
		}
	}
	if len(r.Players) > 0 {
		r.Players[0].IsVIP = true
	}
}

func (r *Room) playerIndex(playerID string) int {
	if playerID == "" {
		return -1
	}
	for i, p := range r.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
