package app

import (
	"time"

	"soundclash/internal/config"
)

// Timing holds every delay the round machine and the disconnection
// coordinator use. Countdown phases are expressed in ticks (one tick is
// one client-visible "second"); TickInterval scales them, which lets
// tests run whole games in milliseconds.
type Timing struct {
	TickInterval time.Duration

	JudgeRevealSeconds     int
	PromptSelectionSeconds int
	SoundSelectionSeconds  int
	ResultsPauseSeconds    int
	ReconnectWindowSeconds int

	GracePeriod time.Duration

	BotDelayMin time.Duration
	BotDelayMax time.Duration

	EmptyRoomDelay       time.Duration
	BotOnlyDelay         time.Duration
	BotOnlyDelayPostGame time.Duration
}

// DefaultTiming returns production timing
func DefaultTiming() Timing {
	return Timing{
		TickInterval:           time.Second,
		JudgeRevealSeconds:     5,
		PromptSelectionSeconds: 30,
		SoundSelectionSeconds:  60,
		ResultsPauseSeconds:    8,
		ReconnectWindowSeconds: 60,
		GracePeriod:            15 * time.Second,
		BotDelayMin:            2 * time.Second,
		BotDelayMax:            6 * time.Second,
		EmptyRoomDelay:         30 * time.Second,
		BotOnlyDelay:           10 * time.Minute,
		BotOnlyDelayPostGame:   30 * time.Second,
	}
}

// TimingFromConfig builds timing from the loaded configuration
func TimingFromConfig(cfg config.GameConfig) Timing {
	return Timing{
		TickInterval:           time.Second,
		JudgeRevealSeconds:     cfg.JudgeRevealSeconds,
		PromptSelectionSeconds: cfg.PromptSelectionSeconds,
		SoundSelectionSeconds:  cfg.SoundSelectionSeconds,
		ResultsPauseSeconds:    cfg.ResultsPauseSeconds,
		ReconnectWindowSeconds: cfg.ReconnectWindowSeconds,
		GracePeriod:            cfg.GracePeriod,
		BotDelayMin:            cfg.BotDelayMin,
		BotDelayMax:            cfg.BotDelayMax,
		EmptyRoomDelay:         cfg.EmptyRoomDelay,
		BotOnlyDelay:           cfg.BotOnlyDelay,
		BotOnlyDelayPostGame:   cfg.BotOnlyDelayPostGame,
	}
}

// tickDuration converts a tick count into wall time
func (t Timing) tickDuration(ticks int) time.Duration {
	return time.Duration(ticks) * t.TickInterval
}
