package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"soundclash/internal/content"
	"soundclash/internal/domain"
)

const (
	// RoomCodeLength is the length of a room code: exactly four
	// uppercase letters, human-typeable.
	RoomCodeLength = 4

	// StaleRoomTimeout is how long a dead room may linger before the
	// sweep removes it regardless of its own destruction timers.
	StaleRoomTimeout = 2 * time.Hour
)

// RoomCodeChars are the characters room codes are built from
const RoomCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RoomHub is the authoritative registry of live rooms. It owns only
// the map; per-room state is serialized by each session's own lock,
// so registry operations never block on a room's internals.
type RoomHub struct {
	sessions map[string]*RoomSession
	mu       sync.RWMutex

	logger   *slog.Logger
	timing   Timing
	library  *content.Library
	defaults domain.GameSettings

	done chan struct{}
}

// NewRoomHub creates a room hub and starts its cleanup sweep
func NewRoomHub(logger *slog.Logger, timing Timing, library *content.Library, defaults domain.GameSettings) *RoomHub {
	hub := &RoomHub{
		sessions: make(map[string]*RoomSession),
		logger:   logger,
		timing:   timing,
		library:  library,
		defaults: defaults,
		done:     make(chan struct{}),
	}

	go hub.cleanupLoop()

	return hub
}

// CreateRoom allocates a room under a fresh unique code. Codes are
// collision-checked against live rooms only; a destroyed room's code
// is recyclable.
func (h *RoomHub) CreateRoom() (*RoomSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var code string
	for attempts := 0; attempts < 10; attempts++ {
		code = generateRoomCode()
		if _, exists := h.sessions[code]; !exists {
			break
		}
	}
	if _, exists := h.sessions[code]; exists {
		return nil, fmt.Errorf("failed to generate unique room code")
	}

	room := domain.NewRoom(code, h.defaults)
	session := NewRoomSession(room, h.logger, h.timing, h.library, h.DeleteSession)
	h.sessions[code] = session

	h.logger.Info("room created", "roomCode", code)

	return session, nil
}

// GetSession returns a room session by code
func (h *RoomHub) GetSession(code string) (*RoomSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[code]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return session, nil
}

// DeleteSession removes and closes a room session
func (h *RoomHub) DeleteSession(code string) {
	h.mu.Lock()
	session, ok := h.sessions[code]
	if ok {
		delete(h.sessions, code)
	}
	h.mu.Unlock()

	if ok {
		session.Close()
		h.logger.Info("room destroyed", "roomCode", code)
	}
}

// RoomCount returns the number of live rooms
func (h *RoomHub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// TotalPlayerCount returns the number of players across all rooms
func (h *RoomHub) TotalPlayerCount() int {
	h.mu.RLock()
	sessions := make([]*RoomSession, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	total := 0
	for _, s := range sessions {
		total += s.PlayerCount()
	}
	return total
}

// Close shuts down the hub and every session
func (h *RoomHub) Close() {
	close(h.done)

	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*RoomSession)
	h.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

// generateRoomCode returns a random 4-letter room code
func generateRoomCode() string {
	b := make([]byte, RoomCodeLength)
	rand.Read(b)

	code := make([]byte, RoomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}
	return string(code)
}

// cleanupLoop periodically sweeps rooms that somehow outlived their
// own destruction timers.
func (h *RoomHub) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupStaleRooms()
		}
	}
}

// cleanupStaleRooms removes old rooms with no players left
func (h *RoomHub) cleanupStaleRooms() {
	h.mu.RLock()
	candidates := make([]*RoomSession, 0)
	for _, session := range h.sessions {
		candidates = append(candidates, session)
	}
	h.mu.RUnlock()

	now := time.Now()
	for _, session := range candidates {
		if session.PlayerCount() == 0 && session.viewerCount() == 0 && now.Sub(session.CreatedAt()) > StaleRoomTimeout {
			h.DeleteSession(session.RoomCode())
			h.logger.Info("stale room swept", "roomCode", session.RoomCode())
		}
	}
}
