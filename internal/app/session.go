package app

import (
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"soundclash/internal/content"
	"soundclash/internal/domain"
)

// ClientConn represents a connected client (player or viewer)
type ClientConn interface {
	Send(message interface{}) error
	Close() error
}

// RoomSession wraps a room with concurrency control, client management
// and the timers that drive the round machine. All room mutation is
// serialized through the session mutex; events queued under the lock
// are broadcast by a dedicated goroutine in queue order.
type RoomSession struct {
	room *domain.Room
	mu   sync.Mutex

	clients       map[string]ClientConn // playerID -> connection
	viewers       map[string]ClientConn // viewerID -> connection
	viewerOrder   []string              // registration order, oldest first
	primaryViewer string
	clientsMu     sync.RWMutex

	logger  *slog.Logger
	timing  Timing
	library *content.Library

	events chan *domain.Event
	done   chan struct{}
	closed bool

	// Active phase countdown, at most one per room.
	timer    *phaseTimer
	timerGen uint64

	// Generation counter for one-shot scheduled advances (judge reveal,
	// results pause). Bumped on pause so stale callbacks are ignored.
	delayGen uint64

	playbackIndex int

	graceTimers  map[string]*time.Timer
	destroyTimer *time.Timer
	onDestroy    func(roomCode string)

	rng *rand.Rand // bot decisions and voter picks; guarded by mu
}

// NewRoomSession creates a session around a freshly created room.
// onDestroy is invoked (off-lock) when the room qualifies for delayed
// destruction; the hub uses it to drop the session from the registry.
func NewRoomSession(room *domain.Room, logger *slog.Logger, timing Timing, library *content.Library, onDestroy func(roomCode string)) *RoomSession {
	s := &RoomSession{
		room:        room,
		clients:     make(map[string]ClientConn),
		viewers:     make(map[string]ClientConn),
		logger:      logger,
		timing:      timing,
		library:     library,
		events:      make(chan *domain.Event, 256),
		done:        make(chan struct{}),
		graceTimers: make(map[string]*time.Timer),
		onDestroy:   onDestroy,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	go s.eventLoop()

	return s
}

// RoomCode returns the room code
func (s *RoomSession) RoomCode() string {
	return s.room.Code
}

// CreatedAt returns when the room was created
func (s *RoomSession) CreatedAt() time.Time {
	return s.room.CreatedAt
}

// State returns the current game state
func (s *RoomSession) State() domain.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.State
}

// PlayerCount returns the number of players in the room
func (s *RoomSession) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.room.Players)
}

// CanJoin checks if a new player can join
func (s *RoomSession) CanJoin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.State == domain.StateLobby && len(s.room.Players) < s.room.Settings.MaxPlayers
}

// Snapshot returns the client-facing view of the room
func (s *RoomSession) Snapshot() *domain.RoomSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Snapshot(s.viewerCount())
}

// RegisterClient registers a player connection
func (s *RoomSession) RegisterClient(playerID string, conn ClientConn) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[playerID] = conn
}

// UnregisterClient removes a player connection
func (s *RoomSession) UnregisterClient(playerID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, playerID)
}

// AddPlayer adds a player to the lobby. The first human in becomes VIP;
// bots are cleared out as soon as enough humans are seated.
func (s *RoomSession) AddPlayer(playerID, name, color, emoji string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := domain.NewPlayer(playerID, name, color, emoji)
	if err := s.room.AddPlayer(p); err != nil {
		return nil, err
	}

	s.cancelDestroyTimer()
	s.removeBotsInLobby()

	s.queueEvent(domain.NewEvent(domain.EventRoomUpdated, s.room.Code, s.room.Snapshot(s.viewerCount())))
	return p, nil
}

// LeaveRoom removes a player voluntarily, in any state, with no grace
// period.
func (s *RoomSession) LeaveRoom(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.room.RemovePlayer(playerID)
	if err != nil {
		return err
	}

	s.queueEvent(domain.NewEvent(domain.EventPlayerLeft, s.room.Code, &domain.DisconnectPayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
	}))

	s.handleDepartureUnlocked(p)
	return nil
}

// UpdateSettings applies new game settings. VIP-only, lobby-only.
func (s *RoomSession) UpdateSettings(playerID string, maxRounds, maxScore int, allowExplicit bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.room.IsVIP(playerID) {
		return domain.ErrNotVIP
	}
	if s.room.State != domain.StateLobby {
		return domain.ErrInvalidState
	}

	settings := s.room.Settings
	settings.MaxRounds = maxRounds
	settings.MaxScore = maxScore
	settings.AllowExplicitContent = allowExplicit
	if err := settings.Validate(); err != nil {
		return err
	}

	s.room.Settings = settings
	s.queueEvent(domain.NewEvent(domain.EventRoomUpdated, s.room.Code, s.room.Snapshot(s.viewerCount())))
	return nil
}

// RestartGame returns a finished game to the lobby, keeping players and
// used prompts but resetting scores and abilities. VIP-only.
func (s *RoomSession) RestartGame(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.room.IsVIP(playerID) {
		return domain.ErrNotVIP
	}
	if s.room.State != domain.StateGameOver {
		return domain.ErrInvalidState
	}

	s.room.ResetForNewGame()
	s.cancelDestroyTimer()
	s.queueEvent(domain.NewEvent(domain.EventRoomUpdated, s.room.Code, s.room.Snapshot(s.viewerCount())))
	s.queueEvent(domain.NewEvent(domain.EventGameStateChanged, s.room.Code, &domain.StateChangedPayload{
		State: domain.StateLobby,
	}))
	return nil
}

// standings returns players sorted by score, likes breaking ties
func (s *RoomSession) standings() []*domain.Player {
	out := make([]*domain.Player, len(s.room.Players))
	copy(out, s.room.Players)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].LikeScore > out[j].LikeScore
	})
	return out
}

// handleDepartureUnlocked runs the shared bookkeeping after a player is
// permanently removed. Caller must hold mu.
func (s *RoomSession) handleDepartureUnlocked(p *domain.Player) {
	if s.room.IsJudge(p.ID) && s.room.State.InRound() {
		s.room.RotateJudge()
	}

	if s.room.State == domain.StateSoundSelection && len(s.room.Submissions) > 0 && s.room.AllSubmitted() {
		s.closeSoundSelection()
	}

	s.queueEvent(domain.NewEvent(domain.EventRoomUpdated, s.room.Code, s.room.Snapshot(s.viewerCount())))
	s.scheduleDestroyIfAbandoned()
}

// queueEvent adds an event to the broadcast queue
func (s *RoomSession) queueEvent(event *domain.Event) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "roomCode", s.room.Code, "type", event.Type)
	}
}

// eventLoop processes events and broadcasts them to clients
func (s *RoomSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent delivers an event to its target or audience
func (s *RoomSession) broadcastEvent(event *domain.Event) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	if event.Target != "" {
		conn, ok := s.clients[event.Target]
		if !ok {
			conn, ok = s.viewers[event.Target]
		}
		if ok {
			if err := conn.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "roomCode", s.room.Code, "target", event.Target, "error", err)
			}
		}
		return
	}

	if event.Audience == domain.AudienceAll || event.Audience == domain.AudiencePlayers {
		for id, conn := range s.clients {
			if err := conn.Send(event); err != nil {
				s.logger.Debug("failed to send to player", "roomCode", s.room.Code, "playerID", id, "error", err)
			}
		}
	}
	if event.Audience == domain.AudienceAll || event.Audience == domain.AudienceViewers {
		for id, conn := range s.viewers {
			if err := conn.Send(event); err != nil {
				s.logger.Debug("failed to send to viewer", "roomCode", s.room.Code, "viewerID", id, "error", err)
			}
		}
	}
}

// Close shuts down the session, its timers and every connection
func (s *RoomSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)

	s.clearTimer()
	for id, t := range s.graceTimers {
		t.Stop()
		delete(s.graceTimers, id)
	}
	s.cancelDestroyTimer()
	s.mu.Unlock()

	s.clientsMu.Lock()
	for _, conn := range s.clients {
		conn.Close()
	}
	for _, conn := range s.viewers {
		conn.Close()
	}
	s.clients = make(map[string]ClientConn)
	s.viewers = make(map[string]ClientConn)
	s.viewerOrder = nil
	s.primaryViewer = ""
	s.clientsMu.Unlock()
}

// cancelDestroyTimer stops a pending delayed destruction. Caller must
// hold mu.
func (s *RoomSession) cancelDestroyTimer() {
	if s.destroyTimer != nil {
		s.destroyTimer.Stop()
		s.destroyTimer = nil
	}
}

// scheduleDestroyIfAbandoned arms delayed room destruction when nobody
// worth keeping the room for is left: immediately-short for a fully
// empty room, long for a bot-only room mid-game, short for a bot-only
// room after game over. Caller must hold mu.
func (s *RoomSession) scheduleDestroyIfAbandoned() {
	viewerCount := s.viewerCount()

	var delay time.Duration
	switch {
	case len(s.room.Disconnected) > 0:
		// Someone is still inside the grace period or the reconnection
		// window; the room outlives its connections until that resolves.
		s.cancelDestroyTimer()
		return
	case len(s.room.Players) == 0 && viewerCount == 0:
		delay = s.timing.EmptyRoomDelay
	case s.room.HumanCount() == 0 && viewerCount == 0:
		if s.room.State == domain.StateGameOver {
			delay = s.timing.BotOnlyDelayPostGame
		} else {
			delay = s.timing.BotOnlyDelay
		}
	default:
		s.cancelDestroyTimer()
		return
	}

	s.cancelDestroyTimer()
	code := s.room.Code
	s.destroyTimer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		abandoned := !s.closed && s.room.HumanCount() == 0 && len(s.room.Disconnected) == 0 && s.viewerCount() == 0
		s.mu.Unlock()
		if abandoned {
			s.onDestroy(code)
		}
	})
}
