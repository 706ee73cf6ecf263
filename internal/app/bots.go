package app

import (
	"time"

	"github.com/google/uuid"

	"soundclash/internal/domain"
)

// Bot decision probabilities. Bots submit after a randomized delay,
// lean toward two sounds, and occasionally burn a one-shot ability so
// rooms with bots feel less mechanical.
const (
	botRefreshChance  = 0.05
	botTripleChance   = 0.10
	botNuclearChance  = 0.05
	botOneSoundChance = 0.25
)

var botNames = []string{
	"Beep", "Boop", "Reverb", "Echo", "Statico", "Subwoofer",
	"Tweeter", "Fuzzbox", "Chorus", "Detune",
}

var botColors = []string{"#8e44ad", "#16a085", "#d35400", "#2c3e50", "#c0392b"}

var botEmojis = []string{"🤖", "📻", "🔊", "🎺", "🥁"}

// fillBots seats synthetic players until the minimum player count is
// met. Caller must hold mu.
func (s *RoomSession) fillBots() {
	for len(s.room.Players) < s.room.Settings.MinPlayers {
		n := len(s.room.Players)
		bot := domain.NewPlayer(
			"bot-"+uuid.New().String(),
			botNames[s.rng.Intn(len(botNames))]+"-"+uuid.New().String()[:4],
			botColors[n%len(botColors)],
			botEmojis[n%len(botEmojis)],
		)
		bot.IsBot = true
		if err := s.room.AddPlayer(bot); err != nil {
			s.logger.Warn("failed to seat bot", "roomCode", s.room.Code, "error", err)
			return
		}
		s.logger.Info("bot seated", "roomCode", s.room.Code, "name", bot.Name)
	}
}

// removeBotsInLobby clears all bots once enough humans are seated on
// their own. Caller must hold mu.
func (s *RoomSession) removeBotsInLobby() {
	if s.room.State != domain.StateLobby || s.room.HumanCount() < s.room.Settings.MinPlayers {
		return
	}
	kept := s.room.Players[:0]
	for _, p := range s.room.Players {
		if !p.IsBot {
			kept = append(kept, p)
		}
	}
	if len(kept) != len(s.room.Players) {
		s.room.Players = kept
		s.logger.Info("bots dismissed, enough humans seated", "roomCode", s.room.Code)
	}
}

// botDelay returns a randomized think time. Caller must hold mu (rng).
func (s *RoomSession) botDelay() time.Duration {
	spread := s.timing.BotDelayMax - s.timing.BotDelayMin
	if spread <= 0 {
		return s.timing.BotDelayMin
	}
	return s.timing.BotDelayMin + time.Duration(s.rng.Int63n(int64(spread)))
}

// scheduleBotPromptPick lets a bot judge choose a prompt after a
// delay. The callback re-validates everything that could have changed
// while the delay ran (state, judge, round) before acting, then goes
// through the same selection path a human pick uses. Caller must hold
// mu.
func (s *RoomSession) scheduleBotPromptPick(botID string, round int) {
	time.AfterFunc(s.botDelay(), func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed || s.room.State != domain.StatePromptSelection ||
			s.room.CurrentJudgeID != botID || s.room.Round != round ||
			len(s.room.PromptCandidates) == 0 {
			return
		}
		s.selectPrompt(s.room.PromptCandidates[s.rng.Intn(len(s.room.PromptCandidates))])
	})
}

// scheduleBotSubmissions arms one delayed submission per bot that
// still owes one this round. Caller must hold mu.
func (s *RoomSession) scheduleBotSubmissions() {
	for _, p := range s.room.NonJudgePlayers() {
		if p.IsBot && s.room.SubmissionBy(p.ID) == nil {
			s.scheduleBotSubmission(p.ID, s.room.Round)
		}
	}
}

// scheduleBotSubmission submits 1-3 sounds for a bot after a delay,
// with a bias toward two sounds and a small chance of spending the
// refresh or triple-sound ability first. Caller must hold mu.
func (s *RoomSession) scheduleBotSubmission(botID string, round int) {
	time.AfterFunc(s.botDelay(), func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed || s.room.State != domain.StateSoundSelection || s.room.Round != round {
			return
		}
		bot, err := s.room.GetPlayer(botID)
		if err != nil || s.room.IsJudge(botID) || s.room.SubmissionBy(botID) != nil {
			return
		}

		if !bot.HasUsedRefresh && s.rng.Float64() < botRefreshChance {
			bot.HasUsedRefresh = true
			bot.SoundSet = s.library.RandomSounds(soundSetSize, s.room.Settings.AllowExplicitContent)
		}
		if !bot.HasUsedTripleSound && s.rng.Float64() < botTripleChance {
			bot.HasUsedTripleSound = true
			bot.HasActivatedTripleSound = true
		}

		count := 2
		if bot.HasActivatedTripleSound {
			count = 3
		} else if s.rng.Float64() < botOneSoundChance {
			count = 1
		}

		sounds := s.randomPicks(bot.SoundSet, count)
		if err := s.submitSounds(botID, sounds); err != nil {
			s.logger.Warn("bot submission rejected", "roomCode", s.room.Code, "botID", botID, "error", err)
		}
	})
}

// scheduleBotJudgeDecision lets a bot judge pick a winner after a
// delay, with a small chance of the nuclear skip instead. Caller must
// hold mu.
func (s *RoomSession) scheduleBotJudgeDecision(botID string, round int) {
	time.AfterFunc(s.botDelay(), func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed || s.room.State != domain.StateJudging ||
			s.room.CurrentJudgeID != botID || s.room.Round != round {
			return
		}
		bot, err := s.room.GetPlayer(botID)
		if err != nil {
			return
		}
		if len(s.room.RandomizedSubmissions) == 0 {
			return
		}

		if !bot.HasUsedNuclearOption && s.rng.Float64() < botNuclearChance {
			s.useNuclearOption(bot)
			return
		}
		if err := s.selectWinner(s.rng.Intn(len(s.room.RandomizedSubmissions))); err != nil {
			s.logger.Warn("bot winner pick rejected", "roomCode", s.room.Code, "botID", botID, "error", err)
		}
	})
}
