package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameState_HappyPathTransitions(t *testing.T) {
	assert.True(t, StateLobby.CanTransitionTo(StateJudgeSelection))
	assert.True(t, StateJudgeSelection.CanTransitionTo(StatePromptSelection))
	assert.True(t, StatePromptSelection.CanTransitionTo(StateSoundSelection))
	assert.True(t, StateSoundSelection.CanTransitionTo(StatePlayback))
	assert.True(t, StatePlayback.CanTransitionTo(StateJudging))
	assert.True(t, StateJudging.CanTransitionTo(StateRoundResults))
	assert.True(t, StateRoundResults.CanTransitionTo(StateJudgeSelection))
	assert.True(t, StateRoundResults.CanTransitionTo(StateGameOver))
	assert.True(t, StateGameOver.CanTransitionTo(StateLobby))
}

func TestGameState_PlaybackSkippedWithoutViewers(t *testing.T) {
	assert.True(t, StateSoundSelection.CanTransitionTo(StateJudging))
}

func TestGameState_RejectedTransitions(t *testing.T) {
	assert.False(t, StateLobby.CanTransitionTo(StateSoundSelection))
	assert.False(t, StateJudging.CanTransitionTo(StateLobby))
	assert.False(t, StatePlayback.CanTransitionTo(StateRoundResults))
	assert.False(t, StateGameOver.CanTransitionTo(StateJudgeSelection))
	assert.False(t, StateLobby.CanTransitionTo(StatePaused))
	assert.False(t, StateGameOver.CanTransitionTo(StatePaused))
}

func TestGameState_PauseFromAnyInRoundState(t *testing.T) {
	for _, s := range []GameState{
		StateJudgeSelection, StatePromptSelection, StateSoundSelection,
		StatePlayback, StateJudging, StateRoundResults,
	} {
		assert.True(t, s.CanTransitionTo(StatePaused), "pause from %s", s)
		assert.True(t, StatePaused.CanTransitionTo(s), "resume to %s", s)
	}
}

func TestGameState_InRound(t *testing.T) {
	assert.False(t, StateLobby.InRound())
	assert.False(t, StateGameOver.InRound())
	assert.False(t, StatePaused.InRound())
	assert.True(t, StateSoundSelection.InRound())
	assert.True(t, StateRoundResults.InRound())
}
