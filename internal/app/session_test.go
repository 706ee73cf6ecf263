package app

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundclash/internal/content"
	"soundclash/internal/domain"
)

const (
	waitFor = 5 * time.Second
	tick    = 2 * time.Millisecond
)

// fakeConn records every event delivered to a connection
type fakeConn struct {
	mu     sync.Mutex
	events []*domain.Event
}

func (c *fakeConn) Send(message interface{}) error {
	if e, ok := message.(*domain.Event); ok {
		c.mu.Lock()
		c.events = append(c.events, e)
		c.mu.Unlock()
	}
	return nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) saw(eventType domain.EventType) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.events {
		if e.Type == eventType {
			return true
		}
	}
	return false
}

func (c *fakeConn) lastOf(eventType domain.EventType) *domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Type == eventType {
			return c.events[i]
		}
	}
	return nil
}

// testTiming compresses every game delay so whole rounds run in
// milliseconds.
func testTiming() Timing {
	return Timing{
		TickInterval:           2 * time.Millisecond,
		JudgeRevealSeconds:     2,
		PromptSelectionSeconds: 100,
		SoundSelectionSeconds:  100,
		ResultsPauseSeconds:    2,
		ReconnectWindowSeconds: 5,
		GracePeriod:            10 * time.Millisecond,
		BotDelayMin:            time.Millisecond,
		BotDelayMax:            2 * time.Millisecond,
		EmptyRoomDelay:         100 * time.Millisecond,
		BotOnlyDelay:           time.Minute,
		BotOnlyDelayPostGame:   time.Minute,
	}
}

func newTestSessionWith(t *testing.T, timing Timing, settings domain.GameSettings) *RoomSession {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	room := domain.NewRoom("ABCD", settings)
	s := NewRoomSession(room, logger, timing, content.NewLibrary(), func(string) {})
	t.Cleanup(s.Close)
	return s
}

func newTestSession(t *testing.T) *RoomSession {
	return newTestSessionWith(t, testTiming(), domain.DefaultGameSettings())
}

// newTestSessionOnDestroy wires a destruction callback so tests can
// observe delayed room teardown.
func newTestSessionOnDestroy(t *testing.T, timing Timing, onDestroy func(roomCode string)) *RoomSession {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	room := domain.NewRoom("ABCD", domain.DefaultGameSettings())
	s := NewRoomSession(room, logger, timing, content.NewLibrary(), onDestroy)
	t.Cleanup(s.Close)
	return s
}

// seatPlayers joins n players, each with a recording connection
func seatPlayers(t *testing.T, s *RoomSession, n int) ([]string, []*fakeConn) {
	t.Helper()
	ids := make([]string, n)
	conns := make([]*fakeConn, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("conn-%d", i+1)
		conns[i] = &fakeConn{}
		s.RegisterClient(ids[i], conns[i])
		_, err := s.AddPlayer(ids[i], fmt.Sprintf("Player%d", i+1), "#e74c3c", "🎧")
		require.NoError(t, err)
	}
	return ids, conns
}

// withRoom runs fn with the session lock held
func withRoom(s *RoomSession, fn func(r *domain.Room)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.room)
}

func TestSession_AddPlayer_FirstIsVIP(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 2)

	withRoom(s, func(r *domain.Room) {
		assert.True(t, r.IsVIP(ids[0]))
		assert.False(t, r.IsVIP(ids[1]))
	})
}

func TestSession_UpdateSettings(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 2)

	require.NoError(t, s.UpdateSettings(ids[0], 7, 4, true))

	withRoom(s, func(r *domain.Room) {
		assert.Equal(t, 7, r.Settings.MaxRounds)
		assert.Equal(t, 4, r.Settings.MaxScore)
		assert.True(t, r.Settings.AllowExplicitContent)
	})
}

func TestSession_UpdateSettings_VIPOnly(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 2)

	assert.ErrorIs(t, s.UpdateSettings(ids[1], 5, 3, false), domain.ErrNotVIP)
}

func TestSession_UpdateSettings_Bounds(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 2)

	assert.ErrorIs(t, s.UpdateSettings(ids[0], 0, 3, false), domain.ErrInvalidSettings)
	assert.ErrorIs(t, s.UpdateSettings(ids[0], 5, 21, false), domain.ErrInvalidSettings)
}

func TestSession_LeaveRoom(t *testing.T) {
	s := newTestSession(t)
	ids, conns := seatPlayers(t, s, 3)

	require.NoError(t, s.LeaveRoom(ids[2]))

	assert.Equal(t, 2, s.PlayerCount())
	require.Eventually(t, func() bool {
		return conns[0].saw(domain.EventPlayerLeft)
	}, waitFor, tick)
}

func TestSession_RestartGame_RequiresGameOver(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 3)

	assert.ErrorIs(t, s.RestartGame(ids[0]), domain.ErrInvalidState)

	withRoom(s, func(r *domain.Room) {
		r.State = domain.StateGameOver
		r.Round = 5
		r.Players[0].Score = 3
	})

	require.NoError(t, s.RestartGame(ids[0]))
	assert.Equal(t, domain.StateLobby, s.State())
	withRoom(s, func(r *domain.Room) {
		assert.Equal(t, 0, r.Players[0].Score)
	})
}

func TestSession_EventsReachAllPlayers(t *testing.T) {
	s := newTestSession(t)
	_, conns := seatPlayers(t, s, 3)

	require.Eventually(t, func() bool {
		for _, c := range conns {
			if !c.saw(domain.EventRoomUpdated) {
				return false
			}
		}
		return true
	}, waitFor, tick)
}

func TestSession_TargetedEventReachesOnlyTarget(t *testing.T) {
	s := newTestSession(t)
	ids, conns := seatPlayers(t, s, 2)

	withRoom(s, func(r *domain.Room) {
		s.queueEvent(domain.NewTargetEvent(domain.EventSoundSetAssigned, r.Code, ids[1], &domain.SoundSetPayload{Sounds: []string{"snd-a"}}))
	})

	require.Eventually(t, func() bool {
		return conns[1].saw(domain.EventSoundSetAssigned)
	}, waitFor, tick)
	assert.False(t, conns[0].saw(domain.EventSoundSetAssigned))
}
