package domain

// GameState represents the current state of a room's round machine
type GameState string

const (
	StateLobby           GameState = "LOBBY"                     // Waiting for players to join
	StateJudgeSelection  GameState = "JUDGE_SELECTION"           // Announcing this round's judge
	StatePromptSelection GameState = "PROMPT_SELECTION"          // Judge picking the prompt
	StateSoundSelection  GameState = "SOUND_SELECTION"           // Players submitting sounds
	StatePlayback        GameState = "PLAYBACK"                  // Main screen playing submissions
	StateJudging         GameState = "JUDGING"                   // Judge picking a winner
	StateRoundResults    GameState = "ROUND_RESULTS"             // Showing the round winner
	StateGameOver        GameState = "GAME_OVER"                 // Final standings
	StatePaused          GameState = "PAUSED_FOR_DISCONNECTION"  // Waiting on a lost player
)

// String returns the string representation of the state
func (s GameState) String() string {
	return string(s)
}

// InRound reports whether the state is part of an active round. A
// disconnect in an in-round state triggers the grace/pause protocol;
// anywhere else the player is simply removed or unregistered.
func (s GameState) InRound() bool {
	switch s {
	case StateJudgeSelection, StatePromptSelection, StateSoundSelection,
		StatePlayback, StateJudging, StateRoundResults:
		return true
	}
	return false
}

// CanTransitionTo checks if a transition from current state to target state is valid
func (s GameState) CanTransitionTo(target GameState) bool {
	// Any in-round state may be interrupted by a pause, and a resume
	// returns to whichever state was interrupted.
	if target == StatePaused {
		return s.InRound()
	}
	if s == StatePaused {
		return target.InRound()
	}

	validTransitions := map[GameState][]GameState{
		StateLobby:           {StateJudgeSelection},
		StateJudgeSelection:  {StatePromptSelection},
		StatePromptSelection: {StateSoundSelection},
		StateSoundSelection:  {StatePlayback, StateJudging}, // JUDGING directly when no viewer is connected
		StatePlayback:        {StateJudging},
		StateJudging:         {StateRoundResults},
		StateRoundResults:    {StateJudgeSelection, StateGameOver},
		StateGameOver:        {StateLobby}, // Host restart
	}

	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == target {
			return true
		}
	}
	return false
}
