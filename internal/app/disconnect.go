package app

import (
	"time"

	"soundclash/internal/domain"
)

// HandlePlayerGone processes a lost player connection. In the lobby
// the player is removed outright; after game over their connection is
// simply unregistered so final standings keep them visible. Mid-game
// losses enter the grace period: the round continues without them, and
// only if they stay gone does the room pause.
func (s *RoomSession) HandlePlayerGone(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.room.GetPlayer(playerID)
	if err != nil {
		// Already removed (vote, leave) or never joined.
		return
	}

	switch s.room.State {
	case domain.StateLobby:
		s.room.RemovePlayer(playerID)
		s.queueEvent(domain.NewEvent(domain.EventPlayerLeft, s.room.Code, &domain.DisconnectPayload{
			PlayerID:   p.ID,
			PlayerName: p.Name,
		}))
		s.handleDepartureUnlocked(p)

	case domain.StateGameOver:
		s.scheduleDestroyIfAbandoned()

	default:
		s.moveToDisconnected(p)
	}
}

// moveToDisconnected takes a player out of the active list, preserving
// their snapshot and position for reconnection, and arms the grace
// timer. The judge id is deliberately left pointing at the absent
// player ("awaiting judge return"). Caller must hold mu.
func (s *RoomSession) moveToDisconnected(p *domain.Player) {
	idx := -1
	for i, cur := range s.room.Players {
		if cur.ID == p.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	s.room.Players = append(s.room.Players[:idx], s.room.Players[idx+1:]...)

	s.room.Disconnected[p.ID] = &domain.DisconnectedPlayer{
		Player:         p,
		PriorID:        p.ID,
		Index:          idx,
		DisconnectedAt: time.Now(),
	}

	s.logger.Info("player disconnected mid-game", "roomCode", s.room.Code, "playerID", p.ID, "name", p.Name, "state", s.room.State)
	s.queueEvent(domain.NewEvent(domain.EventPlayerDisconnected, s.room.Code, &domain.DisconnectPayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
	}))
	s.queueEvent(domain.NewEvent(domain.EventRoomUpdated, s.room.Code, s.room.Snapshot(s.viewerCount())))

	priorID := p.ID
	s.graceTimers[priorID] = time.AfterFunc(s.timing.GracePeriod, func() {
		s.graceExpired(priorID)
	})

	// The sound-selection phase stays open even if every remaining
	// player has submitted: inside the grace period the absent player
	// can still return and submit. The countdown expiry or the pause
	// protocol settles the round for one who stays gone.

	s.scheduleDestroyIfAbandoned()
}

// graceExpired fires when the silent grace period lapses without a
// reconnection and escalates to a visible pause.
func (s *RoomSession) graceExpired(priorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.graceTimers, priorID)

	dp, ok := s.room.Disconnected[priorID]
	if !ok || s.closed {
		// Reconnected in time; nothing visible ever happened.
		return
	}

	if !s.room.State.InRound() {
		if s.room.State != domain.StatePaused {
			// The game ended (or went back to lobby) while they were
			// gone; there is nothing left to return to.
			delete(s.room.Disconnected, priorID)
			s.scheduleDestroyIfAbandoned()
		}
		return
	}

	s.pauseForDisconnection(dp)
}

// pauseForDisconnection interrupts the round: every timer stops, the
// interrupted state (and a mid-flight sound-selection countdown) is
// recorded for restoration, and the visible reconnection window
// starts. Caller must hold mu.
func (s *RoomSession) pauseForDisconnection(dp *domain.DisconnectedPlayer) {
	s.room.InterruptedState = s.room.State
	s.room.RemainingSeconds = 0
	if s.room.State == domain.StateSoundSelection && s.timer != nil {
		s.room.RemainingSeconds = s.timer.remaining
	}
	s.clearTimer()
	s.delayGen++ // invalidate any scheduled phase advance

	s.transitionTo(domain.StatePaused)
	s.room.PausedForID = dp.PriorID

	s.logger.Info("game paused for disconnection", "roomCode", s.room.Code, "name", dp.Player.Name, "interrupted", s.room.InterruptedState)
	s.queueEvent(domain.NewEvent(domain.EventGamePaused, s.room.Code, &domain.PausedPayload{
		PlayerName: dp.Player.Name,
		TimeLeft:   s.timing.ReconnectWindowSeconds,
	}))

	s.startReconnectWindow()
}

// startReconnectWindow runs the visible countdown that precedes the
// single-voter fallback. Caller must hold mu.
func (s *RoomSession) startReconnectWindow() {
	s.startTimer(domain.StatePaused, s.timing.ReconnectWindowSeconds, domain.EventReconnectionTime, s.reconnectWindowExpired)
}

// reconnectWindowExpired asks one randomly chosen connected player to
// break the tie: keep waiting or continue without the missing player.
// With no human left to ask, the room continues on its own.
func (s *RoomSession) reconnectWindowExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State != domain.StatePaused {
		return
	}
	dp, ok := s.room.Disconnected[s.room.PausedForID]
	if !ok {
		s.resume()
		return
	}

	voter := s.pickVoter()
	if voter == nil {
		s.logger.Info("no connected player to vote, continuing without", "roomCode", s.room.Code, "name", dp.Player.Name)
		s.continueWithout(dp)
		return
	}

	s.room.PendingVoterID = voter.ID
	s.queueEvent(domain.NewEvent(domain.EventReconnectionVote, s.room.Code, &domain.VoteRequestPayload{
		VoterID:           voter.ID,
		VoterName:         voter.Name,
		MissingPlayerName: dp.Player.Name,
	}))
}

// pickVoter selects a random currently connected human player. Caller
// must hold mu.
func (s *RoomSession) pickVoter() *domain.Player {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	candidates := make([]*domain.Player, 0, len(s.room.Players))
	for _, p := range s.room.Players {
		if p.IsBot {
			continue
		}
		if _, connected := s.clients[p.ID]; connected {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[s.rng.Intn(len(candidates))]
}

// VoteOnReconnection applies the fallback vote. Continuing removes the
// missing player for good; waiting restarts the reconnection window.
func (s *RoomSession) VoteOnReconnection(playerID string, continueWithout bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State != domain.StatePaused || s.room.PendingVoterID == "" {
		return domain.ErrNoPendingVote
	}
	if playerID != s.room.PendingVoterID {
		return domain.ErrNotSelectedVoter
	}

	voter, err := s.room.GetPlayer(playerID)
	if err != nil {
		return err
	}

	s.room.LastVote = domain.NewReconnectionVote(voter.ID, voter.Name, continueWithout)
	s.room.PendingVoterID = ""

	dp, ok := s.room.Disconnected[s.room.PausedForID]
	if !ok {
		s.resume()
		return nil
	}

	if continueWithout {
		s.logger.Info("vote: continue without missing player", "roomCode", s.room.Code, "voter", voter.Name, "name", dp.Player.Name)
		s.continueWithout(dp)
	} else {
		s.logger.Info("vote: keep waiting", "roomCode", s.room.Code, "voter", voter.Name, "name", dp.Player.Name)
		s.startReconnectWindow()
	}
	return nil
}

// continueWithout permanently removes the missing player, reassigning
// the judge and VIP roles only if the departed player held them, then
// resumes the round. Caller must hold mu.
func (s *RoomSession) continueWithout(dp *domain.DisconnectedPlayer) {
	delete(s.room.Disconnected, dp.PriorID)
	if t, ok := s.graceTimers[dp.PriorID]; ok {
		t.Stop()
		delete(s.graceTimers, dp.PriorID)
	}

	if s.room.CurrentJudgeID == dp.PriorID {
		s.room.RotateJudge()
	}
	if dp.Player.IsVIP {
		s.room.EnsureVIP()
	}

	s.queueEvent(domain.NewEvent(domain.EventPlayerLeft, s.room.Code, &domain.DisconnectPayload{
		PlayerID:   dp.PriorID,
		PlayerName: dp.Player.Name,
	}))
	s.room.LastVote = nil
	s.resume()
	s.scheduleDestroyIfAbandoned()
}

// ReconnectPlayer reintegrates a returning player. The match key is
// (claimed name, previously issued connection id) so an unrelated
// player cannot hijack a slot by reusing a display name. Reconnection
// always beats a pending vote.
func (s *RoomSession) ReconnectPlayer(name, priorID, newID string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dp, ok := s.room.Disconnected[priorID]
	if !ok || dp.Player.Name != name {
		return nil, domain.ErrNoDisconnectMatch
	}

	delete(s.room.Disconnected, priorID)
	if t, tok := s.graceTimers[priorID]; tok {
		t.Stop()
		delete(s.graceTimers, priorID)
	}

	p := dp.Player
	p.ID = newID

	idx := dp.Index
	if idx > len(s.room.Players) {
		idx = len(s.room.Players)
	}
	s.room.Players = append(s.room.Players[:idx], append([]*domain.Player{p}, s.room.Players[idx:]...)...)

	// Re-key everything that referenced the old connection id.
	if s.room.CurrentJudgeID == priorID {
		s.room.CurrentJudgeID = newID
	}
	for _, sub := range s.room.Submissions {
		if sub.PlayerID == priorID {
			sub.PlayerID = newID
		}
	}

	s.cancelDestroyTimer()

	s.logger.Info("player reconnected", "roomCode", s.room.Code, "name", name, "priorID", priorID, "playerID", newID)
	s.queueEvent(domain.NewEvent(domain.EventPlayerReconnected, s.room.Code, &domain.DisconnectPayload{
		PlayerID:   newID,
		PlayerName: name,
	}))

	if s.room.State == domain.StatePaused && s.room.PausedForID == priorID {
		s.room.PendingVoterID = "" // cancels any pending vote
		s.resume()
	} else {
		s.queueEvent(domain.NewEvent(domain.EventRoomUpdated, s.room.Code, s.room.Snapshot(s.viewerCount())))
	}

	return p, nil
}

// resume restores the interrupted state and whatever timer machinery
// it needs: a mid-flight sound-selection countdown picks up from its
// recorded remaining time rather than restarting. Caller must hold mu.
func (s *RoomSession) resume() {
	state := s.room.InterruptedState
	if !state.InRound() {
		state = domain.StateJudgeSelection
	}

	s.clearTimer()
	s.room.State = state
	s.room.PausedForID = ""
	s.room.PendingVoterID = ""
	s.room.InterruptedState = ""

	s.queueEvent(domain.NewEvent(domain.EventGameResumed, s.room.Code, &domain.ResumedPayload{State: state}))
	s.queueEvent(domain.NewEvent(domain.EventRoomUpdated, s.room.Code, s.room.Snapshot(s.viewerCount())))

	switch state {
	case domain.StateJudgeSelection:
		s.scheduleAfter(s.timing.JudgeRevealSeconds, domain.StateJudgeSelection, s.beginPromptSelection)

	case domain.StatePromptSelection:
		s.startTimer(domain.StatePromptSelection, s.timing.PromptSelectionSeconds, domain.EventTimeUpdate, s.promptSelectionTimeout)
		if judge := s.room.CurrentJudge(); judge != nil && judge.IsBot {
			s.scheduleBotPromptPick(judge.ID, s.room.Round)
		}

	case domain.StateSoundSelection:
		if s.room.RemainingSeconds > 0 {
			s.startTimer(domain.StateSoundSelection, s.room.RemainingSeconds, domain.EventTimeUpdate, s.soundSelectionTimeout)
		}
		s.room.RemainingSeconds = 0
		if len(s.room.Submissions) > 0 && s.room.AllSubmitted() {
			s.closeSoundSelection()
		} else {
			s.scheduleBotSubmissions()
		}

	case domain.StatePlayback:
		if s.viewerCount() == 0 {
			s.beginJudging()
		}

	case domain.StateJudging:
		if judge := s.room.CurrentJudge(); judge != nil && judge.IsBot {
			s.scheduleBotJudgeDecision(judge.ID, s.room.Round)
		}

	case domain.StateRoundResults:
		if s.viewerCount() == 0 {
			s.scheduleAfter(s.timing.ResultsPauseSeconds, domain.StateRoundResults, s.finishRound)
		}
	}

	// Another player may have gone missing while the room was paused;
	// if their grace already ran out, pause again right away.
	s.pauseForOverdue()
}

// pauseForOverdue re-pauses for the longest-missing player whose grace
// period elapsed while the room was busy pausing for someone else.
// Caller must hold mu.
func (s *RoomSession) pauseForOverdue() {
	if !s.room.State.InRound() {
		return
	}

	var overdue *domain.DisconnectedPlayer
	for id, dp := range s.room.Disconnected {
		if _, pending := s.graceTimers[id]; pending {
			continue // still inside their own grace period
		}
		if overdue == nil || dp.DisconnectedAt.Before(overdue.DisconnectedAt) {
			overdue = dp
		}
	}
	if overdue != nil {
		s.pauseForDisconnection(overdue)
	}
}
