package app

import (
	"time"

	"soundclash/internal/domain"
)

// phaseTimer is the per-room countdown. Exactly one is active at a
// time; starting a new one cancels the previous. It knows nothing
// about game semantics beyond the state it was started for, which the
// tick loop checks so a stale timer can never drive a room that has
// already moved on.
type phaseTimer struct {
	state      domain.GameState
	tickEvent  domain.EventType
	remaining  int
	gen        uint64
	cancel     chan struct{}
	onComplete func()
}

// startTimer installs a countdown of the given tick count for the
// current state. The first tick event carries the full duration and is
// queued immediately so clients can render "time left" without an
// extra round trip. Caller must hold mu.
func (s *RoomSession) startTimer(state domain.GameState, seconds int, tickEvent domain.EventType, onComplete func()) {
	s.clearTimer()

	s.timerGen++
	t := &phaseTimer{
		state:      state,
		tickEvent:  tickEvent,
		remaining:  seconds,
		gen:        s.timerGen,
		cancel:     make(chan struct{}),
		onComplete: onComplete,
	}
	s.timer = t

	s.queueEvent(domain.NewEvent(tickEvent, s.room.Code, &domain.TimeUpdatePayload{TimeLeft: seconds}))

	go s.runTimer(t)
}

// clearTimer cancels the active countdown and returns its remaining
// tick count, or zero if none was running. Idempotent. Caller must
// hold mu.
func (s *RoomSession) clearTimer() int {
	if s.timer == nil {
		return 0
	}
	remaining := s.timer.remaining
	close(s.timer.cancel)
	s.timer = nil
	return remaining
}

// runTimer drives one countdown. Each tick re-checks under the lock
// that this timer is still the installed one and that the room is
// still in the state it was started for; a transition that happened in
// the meantime simply orphans the goroutine.
func (s *RoomSession) runTimer(t *phaseTimer) {
	ticker := time.NewTicker(s.timing.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.cancel:
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.timer != t || t.gen != s.timerGen || s.room.State != t.state {
				s.mu.Unlock()
				return
			}

			t.remaining--
			if t.remaining <= 0 {
				s.timer = nil
				complete := t.onComplete
				s.mu.Unlock()
				complete()
				return
			}

			s.queueEvent(domain.NewEvent(t.tickEvent, s.room.Code, &domain.TimeUpdatePayload{TimeLeft: t.remaining}))
			s.mu.Unlock()
		}
	}
}

// scheduleAfter runs fn under the lock after the given tick count,
// provided the room is still in expectState and no later schedule or
// pause superseded this one. Used for the one-shot phase advances
// (judge reveal, results pause) that have no visible countdown.
// Caller must hold mu.
func (s *RoomSession) scheduleAfter(seconds int, expectState domain.GameState, fn func()) {
	s.delayGen++
	gen := s.delayGen

	time.AfterFunc(s.timing.tickDuration(seconds), func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.delayGen != gen || s.room.State != expectState {
			return
		}
		fn()
	})
}
