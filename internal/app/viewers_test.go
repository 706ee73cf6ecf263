package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundclash/internal/domain"
)

func TestViewers_FirstIsPrimary(t *testing.T) {
	s := newTestSession(t)
	seatPlayers(t, s, 3)

	v1, v2 := &fakeConn{}, &fakeConn{}
	s.AddViewer("viewer-1", v1)
	s.AddViewer("viewer-2", v2)

	assert.True(t, s.IsPrimaryViewer("viewer-1"))
	assert.False(t, s.IsPrimaryViewer("viewer-2"))

	require.Eventually(t, func() bool {
		e := v1.lastOf(domain.EventMainScreenUpdate)
		if e == nil {
			return false
		}
		p, ok := e.Payload.(*domain.MainScreenPayload)
		return ok && p.IsPrimary && p.ViewerCount == 2
	}, waitFor, tick)
}

func TestViewers_OldestPromotedWhenPrimaryLeaves(t *testing.T) {
	s := newTestSession(t)
	seatPlayers(t, s, 3)

	v1, v2, v3 := &fakeConn{}, &fakeConn{}, &fakeConn{}
	s.AddViewer("viewer-1", v1)
	s.AddViewer("viewer-2", v2)
	s.AddViewer("viewer-3", v3)

	s.HandleViewerGone("viewer-1")

	assert.True(t, s.IsPrimaryViewer("viewer-2"))
	assert.False(t, s.IsPrimaryViewer("viewer-3"))

	s.HandleViewerGone("viewer-2")
	assert.True(t, s.IsPrimaryViewer("viewer-3"))

	s.HandleViewerGone("viewer-3")
	assert.False(t, s.IsPrimaryViewer("viewer-3"))
}

func TestViewers_ElectionBroadcastToPlayers(t *testing.T) {
	s := newTestSession(t)
	_, conns := seatPlayers(t, s, 2)

	s.AddViewer("viewer-1", &fakeConn{})

	require.Eventually(t, func() bool {
		e := conns[0].lastOf(domain.EventMainScreenUpdate)
		if e == nil {
			return false
		}
		p, ok := e.Payload.(*domain.MainScreenPayload)
		return ok && p.ViewerCount == 1 && !p.IsPrimary
	}, waitFor, tick)
}

func TestPlayback_RunsOnlyWithViewers(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 3)

	viewer := &fakeConn{}
	s.AddViewer("viewer-1", viewer)

	advanceToPromptSelection(t, s, ids[0])
	pickFirstPrompt(t, s)
	submitAll(t, s, ids[1], ids[2])

	// With a main screen connected the shuffled entries are played
	// back one by one before judging opens.
	require.Equal(t, domain.StatePlayback, s.State())

	assert.ErrorIs(t, s.RequestNextSubmission("viewer-2"), domain.ErrNotPrimaryViewer)
	assert.ErrorIs(t, s.RequestNextSubmission(ids[0]), domain.ErrNotPrimaryViewer)

	require.NoError(t, s.RequestNextSubmission("viewer-1"))
	require.NoError(t, s.RequestNextSubmission("viewer-1"))
	require.Eventually(t, func() bool {
		return viewer.saw(domain.EventPlayNextSubmission)
	}, waitFor, tick)

	// Advancing past the last entry enters judging.
	require.NoError(t, s.RequestNextSubmission("viewer-1"))
	assert.Equal(t, domain.StateJudging, s.State())
}

func TestRoundResults_WaitForPrimaryViewerReport(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 3)

	viewer := &fakeConn{}
	s.AddViewer("viewer-1", viewer)

	advanceToPromptSelection(t, s, ids[0])
	pickFirstPrompt(t, s)
	submitAll(t, s, ids[1], ids[2])

	require.NoError(t, s.RequestNextSubmission("viewer-1"))
	require.NoError(t, s.RequestNextSubmission("viewer-1"))
	require.NoError(t, s.RequestNextSubmission("viewer-1"))
	require.Equal(t, domain.StateJudging, s.State())

	require.NoError(t, s.SelectWinner(ids[0], 0))
	require.Equal(t, domain.StateRoundResults, s.State())

	// The server does not time the pause itself; the round waits for
	// the main screen's report.
	assert.ErrorIs(t, s.WinnerAudioComplete(ids[0]), domain.ErrNotPrimaryViewer)
	require.NoError(t, s.WinnerAudioComplete("viewer-1"))

	withRoom(s, func(r *domain.Room) {
		assert.Equal(t, 2, r.Round)
	})
}

func TestRoundResults_LastViewerLeavingFallsBackToServerPause(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 3)

	viewer := &fakeConn{}
	s.AddViewer("viewer-1", viewer)

	advanceToPromptSelection(t, s, ids[0])
	pickFirstPrompt(t, s)
	submitAll(t, s, ids[1], ids[2])

	require.NoError(t, s.RequestNextSubmission("viewer-1"))
	require.NoError(t, s.RequestNextSubmission("viewer-1"))
	require.NoError(t, s.RequestNextSubmission("viewer-1"))
	require.NoError(t, s.SelectWinner(ids[0], 0))
	require.Equal(t, domain.StateRoundResults, s.State())

	// The report the round was waiting for can no longer arrive; the
	// server takes over timing the pause.
	s.HandleViewerGone("viewer-1")

	require.Eventually(t, func() bool {
		var round int
		withRoom(s, func(r *domain.Room) { round = r.Round })
		return round == 2
	}, waitFor, tick)
}

func TestJudgingPlayback_ValidatesRequestedSounds(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 3)

	viewer := &fakeConn{}
	s.AddViewer("viewer-1", viewer)

	advanceToPromptSelection(t, s, ids[0])
	pickFirstPrompt(t, s)
	submitAll(t, s, ids[1], ids[2])

	require.NoError(t, s.RequestNextSubmission("viewer-1"))
	require.NoError(t, s.RequestNextSubmission("viewer-1"))
	require.NoError(t, s.RequestNextSubmission("viewer-1"))
	require.Equal(t, domain.StateJudging, s.State())

	var sounds []string
	withRoom(s, func(r *domain.Room) {
		sounds = r.RandomizedSubmissions[0].Sounds
	})

	assert.ErrorIs(t, s.RequestJudgingPlayback(ids[1], 0, sounds), domain.ErrNotJudge)
	assert.ErrorIs(t, s.RequestJudgingPlayback(ids[0], 0, []string{"snd-wrong", "snd-wrong"}), domain.ErrInvalidSubmission)
	require.NoError(t, s.RequestJudgingPlayback(ids[0], 0, sounds))

	require.Eventually(t, func() bool {
		return viewer.saw(domain.EventJudgingPlayback)
	}, waitFor, tick)
}
