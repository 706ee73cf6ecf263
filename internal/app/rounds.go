package app

import (
	"time"

	"soundclash/internal/content"
	"soundclash/internal/domain"
)

const (
	promptCandidateCount = 6
	soundSetSize         = 6
)

// StartGame starts the game. VIP-only; bots are seated first when
// fewer than the minimum player count are present.
func (s *RoomSession) StartGame(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.room.IsVIP(playerID) {
		return domain.ErrNotVIP
	}
	if s.room.State != domain.StateLobby {
		return domain.ErrInvalidState
	}
	if len(s.room.Players) == 0 {
		return domain.ErrNotEnoughPlayers
	}

	s.fillBots()
	s.room.Round = 0
	s.logger.Info("game started", "roomCode", s.room.Code, "players", len(s.room.Players))
	s.startRound()
	return nil
}

// startRound resets per-round state, rotates the judge and enters
// judge selection. Prompt selection follows automatically after the
// reveal delay. Caller must hold mu.
func (s *RoomSession) startRound() {
	s.room.Round++
	s.room.ResetForNewRound()
	s.playbackIndex = 0
	judge := s.room.RotateJudge()

	s.transitionTo(domain.StateJudgeSelection)
	s.queueEvent(domain.NewEvent(domain.EventGameStateChanged, s.room.Code, &domain.StateChangedPayload{
		State:          domain.StateJudgeSelection,
		Round:          s.room.Round,
		CurrentJudgeID: judge.ID,
	}))
	s.queueEvent(domain.NewEvent(domain.EventRoomUpdated, s.room.Code, s.room.Snapshot(s.viewerCount())))

	s.scheduleAfter(s.timing.JudgeRevealSeconds, domain.StateJudgeSelection, s.beginPromptSelection)
}

// beginPromptSelection generates a fresh candidate prompt set, never
// repeating a prompt this room has already used, and starts the pick
// countdown. Caller must hold mu, state JUDGE_SELECTION or resume.
func (s *RoomSession) beginPromptSelection() {
	candidates := s.library.RandomPrompts(promptCandidateCount, s.room.UsedPromptIDs, s.room.Settings.AllowExplicitContent)
	s.room.PromptCandidates = candidates

	s.transitionTo(domain.StatePromptSelection)
	s.queueEvent(domain.NewEvent(domain.EventGameStateChanged, s.room.Code, &domain.StateChangedPayload{
		State:          domain.StatePromptSelection,
		Round:          s.room.Round,
		CurrentJudgeID: s.room.CurrentJudgeID,
		Candidates:     candidates,
	}))

	s.startTimer(domain.StatePromptSelection, s.timing.PromptSelectionSeconds, domain.EventTimeUpdate, s.promptSelectionTimeout)

	if judge := s.room.CurrentJudge(); judge != nil && judge.IsBot {
		s.scheduleBotPromptPick(judge.ID, s.room.Round)
	}
}

// SelectPrompt applies the judge's prompt choice
func (s *RoomSession) SelectPrompt(playerID, promptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State != domain.StatePromptSelection {
		return domain.ErrInvalidState
	}
	if !s.room.IsJudge(playerID) {
		return domain.ErrNotJudge
	}

	for _, c := range s.room.PromptCandidates {
		if c.ID == promptID {
			s.selectPrompt(c)
			return nil
		}
	}
	return domain.ErrInvalidPrompt
}

// promptSelectionTimeout auto-picks the first candidate when the judge
// ran out of time. Shares the selection path with the explicit pick.
func (s *RoomSession) promptSelectionTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State != domain.StatePromptSelection || len(s.room.PromptCandidates) == 0 {
		return
	}
	s.logger.Debug("prompt selection timed out, auto-picking", "roomCode", s.room.Code)
	s.selectPrompt(s.room.PromptCandidates[0])
}

// selectPrompt binds player names into the template, marks the prompt
// used and moves to sound selection. Caller must hold mu.
func (s *RoomSession) selectPrompt(prompt domain.Prompt) {
	names := make([]string, 0, len(s.room.Players))
	for _, p := range s.room.Players {
		names = append(names, p.Name)
	}
	// Binding is seeded from immutable room facts so every client can
	// reproduce the exact same text.
	bindSeed := domain.SubmissionSeed(s.room.Code, s.room.Round, s.room.CreatedAt)
	s.room.CurrentPrompt = &domain.Prompt{
		ID:   prompt.ID,
		Text: content.BindPlayerNames(prompt.Text, names, bindSeed),
	}
	s.room.MarkPromptUsed(prompt.ID)
	s.room.PromptCandidates = nil

	s.beginSoundSelection()
}

// beginSoundSelection deals every non-judge player a fresh sound pool
// and opens the submission phase. The countdown intentionally does not
// start until the first submission arrives. Caller must hold mu.
func (s *RoomSession) beginSoundSelection() {
	s.clearTimer()

	for _, p := range s.room.NonJudgePlayers() {
		p.SoundSet = s.library.RandomSounds(soundSetSize, s.room.Settings.AllowExplicitContent)
		if !p.IsBot {
			s.queueEvent(domain.NewTargetEvent(domain.EventSoundSetAssigned, s.room.Code, p.ID, &domain.SoundSetPayload{Sounds: p.SoundSet}))
		}
	}

	s.transitionTo(domain.StateSoundSelection)
	s.queueEvent(domain.NewEvent(domain.EventGameStateChanged, s.room.Code, &domain.StateChangedPayload{
		State:          domain.StateSoundSelection,
		Round:          s.room.Round,
		CurrentJudgeID: s.room.CurrentJudgeID,
		Prompt:         s.room.CurrentPrompt,
	}))
	s.queueEvent(domain.NewEvent(domain.EventRoomUpdated, s.room.Code, s.room.Snapshot(s.viewerCount())))

	s.scheduleBotSubmissions()
}

// SubmitSounds records a player's submission for the round
func (s *RoomSession) SubmitSounds(playerID string, sounds []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitSounds(playerID, sounds)
}

// submitSounds is the shared completion path for human and bot
// submissions. The first submission of the round starts the countdown.
// Caller must hold mu.
func (s *RoomSession) submitSounds(playerID string, sounds []string) error {
	sub, err := s.room.AddSubmission(playerID, sounds)
	if err != nil {
		return err
	}

	if len(s.room.Submissions) == 1 {
		s.startTimer(domain.StateSoundSelection, s.timing.SoundSelectionSeconds, domain.EventTimeUpdate, s.soundSelectionTimeout)
	}

	s.queueEvent(domain.NewEvent(domain.EventSoundSubmitted, s.room.Code, &domain.SoundSubmittedPayload{
		PlayerID:   sub.PlayerID,
		PlayerName: sub.PlayerName,
		Submitted:  len(s.room.Submissions),
		Expected:   len(s.room.NonJudgePlayers()),
	}))

	if s.room.AllSubmitted() {
		s.closeSoundSelection()
	}
	return nil
}

// RefreshSounds deals the player a replacement sound pool. One use per
// game, and only before they have submitted.
func (s *RoomSession) RefreshSounds(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State != domain.StateSoundSelection {
		return domain.ErrInvalidState
	}
	p, err := s.room.GetPlayer(playerID)
	if err != nil {
		return err
	}
	if s.room.IsJudge(playerID) {
		return domain.ErrJudgeCannotSubmit
	}
	if p.HasUsedRefresh {
		return domain.ErrAbilityUsed
	}
	if s.room.SubmissionBy(playerID) != nil {
		return domain.ErrAlreadySubmitted
	}

	p.HasUsedRefresh = true
	p.SoundSet = s.library.RandomSounds(soundSetSize, s.room.Settings.AllowExplicitContent)
	s.queueEvent(domain.NewTargetEvent(domain.EventSoundSetRefreshed, s.room.Code, p.ID, &domain.SoundSetPayload{Sounds: p.SoundSet}))
	return nil
}

// ActivateTripleSound lets the player submit three sounds this round.
// One use per game.
func (s *RoomSession) ActivateTripleSound(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State != domain.StateSoundSelection {
		return domain.ErrInvalidState
	}
	p, err := s.room.GetPlayer(playerID)
	if err != nil {
		return err
	}
	if s.room.IsJudge(playerID) {
		return domain.ErrJudgeCannotSubmit
	}
	if p.HasUsedTripleSound {
		return domain.ErrAbilityUsed
	}
	if s.room.SubmissionBy(playerID) != nil {
		return domain.ErrAlreadySubmitted
	}

	p.HasUsedTripleSound = true
	p.HasActivatedTripleSound = true
	s.queueEvent(domain.NewEvent(domain.EventTripleSoundActivated, s.room.Code, &domain.DisconnectPayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
	}))
	return nil
}

// soundSelectionTimeout closes the phase when time runs out,
// auto-filling random picks from each straggler's assigned pool.
func (s *RoomSession) soundSelectionTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State != domain.StateSoundSelection {
		return
	}

	for _, p := range s.room.NonJudgePlayers() {
		if s.room.SubmissionBy(p.ID) != nil || len(p.SoundSet) == 0 {
			continue
		}
		picks := s.randomPicks(p.SoundSet, 2)
		if err := s.submitSoundsAutoFill(p.ID, picks); err != nil {
			s.logger.Warn("auto-fill submission failed", "roomCode", s.room.Code, "playerID", p.ID, "error", err)
		}
	}

	if s.room.State == domain.StateSoundSelection {
		s.closeSoundSelection()
	}
}

// submitSoundsAutoFill records a straggler's submission without the
// first-submission timer side effect (the timer just expired).
func (s *RoomSession) submitSoundsAutoFill(playerID string, sounds []string) error {
	sub, err := s.room.AddSubmission(playerID, sounds)
	if err != nil {
		return err
	}
	s.queueEvent(domain.NewEvent(domain.EventSoundSubmitted, s.room.Code, &domain.SoundSubmittedPayload{
		PlayerID:   sub.PlayerID,
		PlayerName: sub.PlayerName,
		Submitted:  len(s.room.Submissions),
		Expected:   len(s.room.NonJudgePlayers()),
	}))
	return nil
}

// closeSoundSelection derives the shuffle seed, snapshots the
// randomized order and moves on: to playback when a main screen is
// connected, straight to judging otherwise. Caller must hold mu.
func (s *RoomSession) closeSoundSelection() {
	s.clearTimer()

	seed := domain.SubmissionSeed(s.room.Code, s.room.Round, time.Now())
	s.room.SubmissionSeed = seed
	s.room.RandomizedSubmissions = domain.ShuffleSubmissions(s.room.Submissions, seed)
	s.playbackIndex = 0

	if s.viewerCount() > 0 {
		s.transitionTo(domain.StatePlayback)
		s.queueEvent(domain.NewEvent(domain.EventGameStateChanged, s.room.Code, &domain.StateChangedPayload{
			State:          domain.StatePlayback,
			Round:          s.room.Round,
			CurrentJudgeID: s.room.CurrentJudgeID,
			Prompt:         s.room.CurrentPrompt,
			Submissions:    s.room.RandomizedSubmissions,
			SubmissionSeed: seed,
		}))
		return
	}
	s.beginJudging()
}

// RequestNextSubmission advances playback by one submission. Primary
// viewer only; advancing past the last submission enters judging.
func (s *RoomSession) RequestNextSubmission(viewerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isPrimaryViewer(viewerID) {
		return domain.ErrNotPrimaryViewer
	}
	if s.room.State != domain.StatePlayback {
		return domain.ErrInvalidState
	}

	if s.playbackIndex >= len(s.room.RandomizedSubmissions) {
		s.beginJudging()
		return nil
	}

	s.queueEvent(domain.NewEvent(domain.EventPlayNextSubmission, s.room.Code, &domain.PlaybackPayload{
		Index:      s.playbackIndex,
		Total:      len(s.room.RandomizedSubmissions),
		Submission: s.room.RandomizedSubmissions[s.playbackIndex],
	}))
	s.playbackIndex++
	return nil
}

// beginJudging opens the winner pick. Caller must hold mu.
func (s *RoomSession) beginJudging() {
	s.transitionTo(domain.StateJudging)
	s.queueEvent(domain.NewEvent(domain.EventGameStateChanged, s.room.Code, &domain.StateChangedPayload{
		State:          domain.StateJudging,
		Round:          s.room.Round,
		CurrentJudgeID: s.room.CurrentJudgeID,
		Prompt:         s.room.CurrentPrompt,
		Submissions:    s.room.RandomizedSubmissions,
		SubmissionSeed: s.room.SubmissionSeed,
	}))

	if judge := s.room.CurrentJudge(); judge != nil && judge.IsBot {
		s.scheduleBotJudgeDecision(judge.ID, s.room.Round)
	}
}

// RequestJudgingPlayback replays one submission on the main screens at
// the judge's request during judging.
func (s *RoomSession) RequestJudgingPlayback(playerID string, index int, sounds []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State != domain.StateJudging {
		return domain.ErrInvalidState
	}
	if !s.room.IsJudge(playerID) {
		return domain.ErrNotJudge
	}
	if index < 0 || index >= len(s.room.RandomizedSubmissions) {
		return domain.ErrInvalidSubmission
	}

	sub := s.room.RandomizedSubmissions[index]
	if len(sounds) != len(sub.Sounds) {
		return domain.ErrInvalidSubmission
	}
	for i, id := range sounds {
		if sub.Sounds[i] != id {
			return domain.ErrInvalidSubmission
		}
	}

	s.queueEvent(domain.NewAudienceEvent(domain.EventJudgingPlayback, s.room.Code, domain.AudienceViewers, &domain.JudgingPlaybackPayload{
		Index:  index,
		Sounds: sub.Sounds,
	}))
	return nil
}

// LikeSubmission records a like on a submission by its shuffled index.
// Non-judge, non-author players only, once per submission each.
func (s *RoomSession) LikeSubmission(playerID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State != domain.StatePlayback && s.room.State != domain.StateJudging {
		return domain.ErrInvalidState
	}
	if s.room.IsJudge(playerID) {
		return domain.ErrNotJudge
	}
	p, err := s.room.GetPlayer(playerID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(s.room.RandomizedSubmissions) {
		return domain.ErrInvalidSubmission
	}

	sub := s.room.RandomizedSubmissions[index]
	if err := sub.AddLike(p.ID, p.Name); err != nil {
		return err
	}
	if author, err := s.room.GetPlayer(sub.PlayerID); err == nil {
		author.LikeScore++
	}

	s.queueEvent(domain.NewEvent(domain.EventSubmissionLiked, s.room.Code, &domain.LikePayload{
		Index:     index,
		PlayerID:  p.ID,
		LikeCount: sub.LikeCount(),
	}))
	return nil
}

// SelectWinner applies the judge's winner pick by shuffled index
func (s *RoomSession) SelectWinner(playerID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State != domain.StateJudging {
		return domain.ErrInvalidState
	}
	if !s.room.IsJudge(playerID) {
		return domain.ErrNotJudge
	}
	return s.selectWinner(index)
}

// selectWinner is the shared completion path for human and bot winner
// picks. Caller must hold mu.
func (s *RoomSession) selectWinner(index int) error {
	if index < 0 || index >= len(s.room.RandomizedSubmissions) {
		return domain.ErrInvalidSubmission
	}

	sub := s.room.RandomizedSubmissions[index]
	s.room.LastWinner = &domain.RoundWinner{
		PlayerID:   sub.PlayerID,
		PlayerName: sub.PlayerName,
		Submission: sub,
	}
	// The winner may have disconnected since submitting; the round is
	// still announced, the score just has nowhere to go.
	if winner, err := s.room.GetPlayer(sub.PlayerID); err == nil {
		winner.Score++
	}

	s.beginRoundResults()
	return nil
}

// UseNuclearOption voids the round's winner entirely. Judge-only, one
// use per game, irreversible.
func (s *RoomSession) UseNuclearOption(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State != domain.StateJudging {
		return domain.ErrInvalidState
	}
	if !s.room.IsJudge(playerID) {
		return domain.ErrNotJudge
	}
	judge, err := s.room.GetPlayer(playerID)
	if err != nil {
		return err
	}
	if judge.HasUsedNuclearOption {
		return domain.ErrAbilityUsed
	}

	s.useNuclearOption(judge)
	return nil
}

// useNuclearOption is shared by human and bot judges. A nuked round is
// a round with no winner: the counter still advances, no score changes.
// Caller must hold mu.
func (s *RoomSession) useNuclearOption(judge *domain.Player) {
	judge.HasUsedNuclearOption = true
	s.room.LastWinner = &domain.RoundWinner{Nuclear: true}

	s.queueEvent(domain.NewEvent(domain.EventNuclearOptionUsed, s.room.Code, &domain.DisconnectPayload{
		PlayerID:   judge.ID,
		PlayerName: judge.Name,
	}))
	s.beginRoundResults()
}

// beginRoundResults announces the winner. With a main screen connected
// the next round waits for its winnerAudioComplete report; without one
// the server times the pause itself. Caller must hold mu.
func (s *RoomSession) beginRoundResults() {
	s.transitionTo(domain.StateRoundResults)
	s.queueEvent(domain.NewEvent(domain.EventRoundComplete, s.room.Code, &domain.RoundCompletePayload{
		Winner: s.room.LastWinner,
		Round:  s.room.Round,
	}))
	s.queueEvent(domain.NewEvent(domain.EventRoomUpdated, s.room.Code, s.room.Snapshot(s.viewerCount())))

	if s.viewerCount() == 0 {
		s.scheduleAfter(s.timing.ResultsPauseSeconds, domain.StateRoundResults, s.finishRound)
	}
}

// WinnerAudioComplete is the primary viewer's report that the winner
// announcement finished playing; it releases the round.
func (s *RoomSession) WinnerAudioComplete(viewerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isPrimaryViewer(viewerID) {
		return domain.ErrNotPrimaryViewer
	}
	if s.room.State != domain.StateRoundResults {
		return domain.ErrInvalidState
	}

	s.finishRound()
	return nil
}

// finishRound runs win evaluation and either ends the game, forces a
// sudden-death round on a terminal tie, or starts the next round.
// Caller must hold mu.
func (s *RoomSession) finishRound() {
	outcome := s.room.EvaluateWin()

	switch {
	case outcome.GameOver:
		s.transitionTo(domain.StateGameOver)
		s.queueEvent(domain.NewEvent(domain.EventGameComplete, s.room.Code, &domain.GameCompletePayload{
			WinnerID:   outcome.Winner.ID,
			WinnerName: outcome.Winner.Name,
			Standings:  s.standings(),
		}))
		s.logger.Info("game complete", "roomCode", s.room.Code, "winner", outcome.Winner.Name, "rounds", s.room.Round)
		s.scheduleDestroyIfAbandoned()

	case outcome.TieBreak:
		leaders := make([]string, 0, len(outcome.Leaders))
		for _, p := range outcome.Leaders {
			leaders = append(leaders, p.Name)
		}
		s.queueEvent(domain.NewEvent(domain.EventTieBreakerRound, s.room.Code, &domain.TieBreakerPayload{
			Round:   s.room.Round + 1,
			Leaders: leaders,
		}))
		s.logger.Info("tie at terminal condition, sudden death", "roomCode", s.room.Code, "leaders", leaders)
		s.startRound()

	default:
		s.startRound()
	}
}

// transitionTo moves the round machine to the target state, logging
// any transition the state table rejects. Internal callers sequence
// states correctly; the log is the tripwire for when they do not.
func (s *RoomSession) transitionTo(target domain.GameState) {
	if !s.room.State.CanTransitionTo(target) {
		s.logger.Warn("unexpected state transition", "roomCode", s.room.Code, "from", s.room.State, "to", target)
	}
	s.room.State = target
}

// randomPicks returns n distinct random elements of pool
func (s *RoomSession) randomPicks(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	idx := s.rng.Perm(len(pool))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}
