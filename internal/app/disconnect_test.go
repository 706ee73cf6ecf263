package app

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundclash/internal/domain"
)

func TestHandlePlayerGone_LobbyRemovesOutright(t *testing.T) {
	s := newTestSession(t)
	ids, conns := seatPlayers(t, s, 3)

	s.UnregisterClient(ids[2])
	s.HandlePlayerGone(ids[2])

	assert.Equal(t, 2, s.PlayerCount())
	withRoom(s, func(r *domain.Room) {
		assert.Empty(t, r.Disconnected)
	})
	require.Eventually(t, func() bool {
		return conns[0].saw(domain.EventPlayerLeft)
	}, waitFor, tick)
}

func TestHandlePlayerGone_MidGameEntersGracePeriod(t *testing.T) {
	timing := testTiming()
	timing.GracePeriod = time.Second // long enough that the pause never fires here
	s := newTestSessionWith(t, timing, domain.DefaultGameSettings())
	ids, conns := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])

	s.UnregisterClient(ids[2])
	s.HandlePlayerGone(ids[2])

	assert.Equal(t, domain.StatePromptSelection, s.State())
	assert.Equal(t, 2, s.PlayerCount())
	withRoom(s, func(r *domain.Room) {
		require.Contains(t, r.Disconnected, ids[2])
		assert.Equal(t, "Player3", r.Disconnected[ids[2]].Player.Name)
	})
	require.Eventually(t, func() bool {
		return conns[0].saw(domain.EventPlayerDisconnected)
	}, waitFor, tick)
	assert.False(t, conns[0].saw(domain.EventGamePaused))
}

func TestReconnectWithinGrace_NothingVisibleHappens(t *testing.T) {
	timing := testTiming()
	timing.GracePeriod = time.Second
	s := newTestSessionWith(t, timing, domain.DefaultGameSettings())
	ids, conns := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])

	s.UnregisterClient(ids[2])
	s.HandlePlayerGone(ids[2])

	newConn := &fakeConn{}
	s.RegisterClient("conn-3b", newConn)
	p, err := s.ReconnectPlayer("Player3", ids[2], "conn-3b")
	require.NoError(t, err)
	assert.Equal(t, "conn-3b", p.ID)

	assert.Equal(t, domain.StatePromptSelection, s.State())
	assert.Equal(t, 3, s.PlayerCount())
	withRoom(s, func(r *domain.Room) {
		assert.Empty(t, r.Disconnected)
	})

	// Even after the original grace period would have lapsed, the room
	// never pauses.
	time.Sleep(30 * time.Millisecond)
	assert.False(t, conns[0].saw(domain.EventGamePaused))
	assert.Equal(t, domain.StatePromptSelection, s.State())
}

func TestReconnect_RequiresNameAndPriorID(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])

	s.UnregisterClient(ids[2])
	s.HandlePlayerGone(ids[2])

	_, err := s.ReconnectPlayer("Impostor", ids[2], "conn-x")
	assert.ErrorIs(t, err, domain.ErrNoDisconnectMatch)
	_, err = s.ReconnectPlayer("Player3", "bogus-id", "conn-x")
	assert.ErrorIs(t, err, domain.ErrNoDisconnectMatch)
}

func TestGraceExpiry_PausesAndStartsReconnectWindow(t *testing.T) {
	s := newTestSession(t)
	ids, conns := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])

	s.UnregisterClient(ids[2])
	s.HandlePlayerGone(ids[2])

	require.Eventually(t, func() bool {
		return s.State() == domain.StatePaused
	}, waitFor, tick)

	withRoom(s, func(r *domain.Room) {
		assert.Equal(t, domain.StatePromptSelection, r.InterruptedState)
		assert.Equal(t, ids[2], r.PausedForID)
	})
	require.Eventually(t, func() bool {
		return conns[0].saw(domain.EventGamePaused)
	}, waitFor, tick)
}

func TestReconnectDuringPause_ResumesInterruptedState(t *testing.T) {
	s := newTestSession(t)
	ids, conns := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])

	s.UnregisterClient(ids[2])
	s.HandlePlayerGone(ids[2])
	require.Eventually(t, func() bool {
		return s.State() == domain.StatePaused
	}, waitFor, tick)

	newConn := &fakeConn{}
	s.RegisterClient("conn-3b", newConn)
	_, err := s.ReconnectPlayer("Player3", ids[2], "conn-3b")
	require.NoError(t, err)

	assert.Equal(t, domain.StatePromptSelection, s.State())
	withRoom(s, func(r *domain.Room) {
		assert.Empty(t, r.PausedForID)
		assert.Empty(t, r.PendingVoterID)
		_, err := r.GetPlayer("conn-3b")
		assert.NoError(t, err)
	})
	require.Eventually(t, func() bool {
		return conns[0].saw(domain.EventGameResumed)
	}, waitFor, tick)
}

func TestReconnectWindowExpiry_AsksOneConnectedPlayerToVote(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])

	s.UnregisterClient(ids[2])
	s.HandlePlayerGone(ids[2])

	var voterID string
	require.Eventually(t, func() bool {
		withRoom(s, func(r *domain.Room) { voterID = r.PendingVoterID })
		return voterID != ""
	}, waitFor, tick)

	assert.Contains(t, []string{ids[0], ids[1]}, voterID)
}

func TestVoteContinueWithout_RemovesPlayerForGood(t *testing.T) {
	s := newTestSession(t)
	ids, conns := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])

	s.UnregisterClient(ids[2])
	s.HandlePlayerGone(ids[2])

	var voterID string
	require.Eventually(t, func() bool {
		withRoom(s, func(r *domain.Room) { voterID = r.PendingVoterID })
		return voterID != ""
	}, waitFor, tick)

	other := ids[0]
	if voterID == ids[0] {
		other = ids[1]
	}
	assert.ErrorIs(t, s.VoteOnReconnection(other, true), domain.ErrNotSelectedVoter)

	require.NoError(t, s.VoteOnReconnection(voterID, true))

	assert.Equal(t, domain.StatePromptSelection, s.State())
	assert.Equal(t, 2, s.PlayerCount())
	withRoom(s, func(r *domain.Room) {
		assert.Empty(t, r.Disconnected)
	})
	require.Eventually(t, func() bool {
		return conns[0].saw(domain.EventPlayerLeft)
	}, waitFor, tick)

	// A late reconnection attempt finds nothing to return to.
	_, err := s.ReconnectPlayer("Player3", ids[2], "conn-3b")
	assert.ErrorIs(t, err, domain.ErrNoDisconnectMatch)
}

func TestVoteKeepWaiting_RestartsWindow(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])

	s.UnregisterClient(ids[2])
	s.HandlePlayerGone(ids[2])

	var voterID string
	require.Eventually(t, func() bool {
		withRoom(s, func(r *domain.Room) { voterID = r.PendingVoterID })
		return voterID != ""
	}, waitFor, tick)

	require.NoError(t, s.VoteOnReconnection(voterID, false))

	assert.Equal(t, domain.StatePaused, s.State())
	assert.Equal(t, 2, s.PlayerCount())
	withRoom(s, func(r *domain.Room) {
		assert.Contains(t, r.Disconnected, ids[2])
	})
}

func TestVoteWithNoError_RequiresPendingVote(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])

	assert.ErrorIs(t, s.VoteOnReconnection(ids[0], true), domain.ErrNoPendingVote)
}

func TestNoConnectedHumans_ContinuesWithoutAutomatically(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])

	// Nobody is left to ask, so the room decides on its own.
	s.UnregisterClient(ids[0])
	s.UnregisterClient(ids[1])
	s.UnregisterClient(ids[2])
	s.HandlePlayerGone(ids[2])

	require.Eventually(t, func() bool {
		return s.State() == domain.StatePromptSelection && s.PlayerCount() == 2
	}, waitFor, tick)
	withRoom(s, func(r *domain.Room) {
		assert.Empty(t, r.Disconnected)
	})
}

func TestJudgeDisconnect_RoleHeldOpenAndRekeyedOnReturn(t *testing.T) {
	timing := testTiming()
	timing.GracePeriod = time.Second
	s := newTestSessionWith(t, timing, domain.DefaultGameSettings())
	ids, _ := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])

	// The judge drops. The role is not rotated away during the grace
	// period; the round is waiting for exactly this player.
	s.UnregisterClient(ids[0])
	s.HandlePlayerGone(ids[0])

	withRoom(s, func(r *domain.Room) {
		assert.Equal(t, ids[0], r.CurrentJudgeID)
		assert.Nil(t, r.CurrentJudge(), "judge is absent from the player list")
	})

	newConn := &fakeConn{}
	s.RegisterClient("conn-1b", newConn)
	_, err := s.ReconnectPlayer("Player1", ids[0], "conn-1b")
	require.NoError(t, err)

	withRoom(s, func(r *domain.Room) {
		assert.Equal(t, "conn-1b", r.CurrentJudgeID)
		require.NotNil(t, r.CurrentJudge())
	})
}

func TestLastHoldoutDisconnect_SoundSelectionStaysOpen(t *testing.T) {
	timing := testTiming()
	timing.GracePeriod = time.Second
	s := newTestSessionWith(t, timing, domain.DefaultGameSettings())
	ids, _ := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])
	pickFirstPrompt(t, s)

	var pool2, pool3 []string
	withRoom(s, func(r *domain.Room) {
		p2, _ := r.GetPlayer(ids[1])
		pool2 = p2.SoundSet
		p3, _ := r.GetPlayer(ids[2])
		pool3 = p3.SoundSet
	})
	require.NoError(t, s.SubmitSounds(ids[1], pool2[:2]))

	// The only player still to submit drops. The round must not close
	// out from under them while their grace period runs.
	s.UnregisterClient(ids[2])
	s.HandlePlayerGone(ids[2])
	assert.Equal(t, domain.StateSoundSelection, s.State())

	newConn := &fakeConn{}
	s.RegisterClient("conn-3b", newConn)
	_, err := s.ReconnectPlayer("Player3", ids[2], "conn-3b")
	require.NoError(t, err)

	require.NoError(t, s.SubmitSounds("conn-3b", pool3[:2]))
	assert.Equal(t, domain.StateJudging, s.State())
}

func TestReconnectAfterVoteRequested_CancelsPendingVote(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])

	s.UnregisterClient(ids[2])
	s.HandlePlayerGone(ids[2])

	var voterID string
	require.Eventually(t, func() bool {
		withRoom(s, func(r *domain.Room) { voterID = r.PendingVoterID })
		return voterID != ""
	}, waitFor, tick)

	newConn := &fakeConn{}
	s.RegisterClient("conn-3b", newConn)
	_, err := s.ReconnectPlayer("Player3", ids[2], "conn-3b")
	require.NoError(t, err)

	assert.Equal(t, domain.StatePromptSelection, s.State())
	withRoom(s, func(r *domain.Room) {
		assert.Empty(t, r.PendingVoterID)
	})
	assert.ErrorIs(t, s.VoteOnReconnection(voterID, true), domain.ErrNoPendingVote)
}

func TestAllPlayersGone_RoomKeptWhileReconnectionPromised(t *testing.T) {
	timing := testTiming()
	timing.EmptyRoomDelay = 20 * time.Millisecond
	timing.GracePeriod = 500 * time.Millisecond
	var destroyed atomic.Bool
	s := newTestSessionOnDestroy(t, timing, func(string) { destroyed.Store(true) })
	ids, _ := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])

	for _, id := range ids {
		s.UnregisterClient(id)
		s.HandlePlayerGone(id)
	}
	assert.Equal(t, 0, s.PlayerCount())

	// Well past the empty-room delay, everyone is still inside their
	// grace period and has been promised a way back in.
	time.Sleep(60 * time.Millisecond)
	assert.False(t, destroyed.Load())

	newConn := &fakeConn{}
	s.RegisterClient("conn-1b", newConn)
	_, err := s.ReconnectPlayer("Player1", ids[0], "conn-1b")
	require.NoError(t, err)
}

func TestSoundSelectionCountdown_ResumesFromRemaining(t *testing.T) {
	s := newTestSession(t)
	ids, _ := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])
	pickFirstPrompt(t, s)

	// First submission starts the countdown.
	var pool []string
	withRoom(s, func(r *domain.Room) {
		p, _ := r.GetPlayer(ids[1])
		pool = p.SoundSet
	})
	require.NoError(t, s.SubmitSounds(ids[1], pool[:2]))

	s.UnregisterClient(ids[2])
	s.HandlePlayerGone(ids[2])
	require.Eventually(t, func() bool {
		return s.State() == domain.StatePaused
	}, waitFor, tick)

	withRoom(s, func(r *domain.Room) {
		assert.Equal(t, domain.StateSoundSelection, r.InterruptedState)
		assert.Greater(t, r.RemainingSeconds, 0, "mid-flight countdown is preserved")
	})

	newConn := &fakeConn{}
	s.RegisterClient("conn-3b", newConn)
	_, err := s.ReconnectPlayer("Player3", ids[2], "conn-3b")
	require.NoError(t, err)

	assert.Equal(t, domain.StateSoundSelection, s.State())
	withRoom(s, func(r *domain.Room) {
		assert.Equal(t, 0, r.RemainingSeconds)
		require.NotNil(t, s.timer)
	})
}

func TestReconnect_RekeysSubmissions(t *testing.T) {
	timing := testTiming()
	timing.GracePeriod = time.Second
	s := newTestSessionWith(t, timing, domain.DefaultGameSettings())
	ids, _ := seatPlayers(t, s, 3)
	advanceToPromptSelection(t, s, ids[0])
	pickFirstPrompt(t, s)

	var pool []string
	withRoom(s, func(r *domain.Room) {
		p, _ := r.GetPlayer(ids[1])
		pool = p.SoundSet
	})
	require.NoError(t, s.SubmitSounds(ids[1], pool[:2]))

	s.UnregisterClient(ids[1])
	s.HandlePlayerGone(ids[1])

	newConn := &fakeConn{}
	s.RegisterClient("conn-2b", newConn)
	_, err := s.ReconnectPlayer("Player2", ids[1], "conn-2b")
	require.NoError(t, err)

	withRoom(s, func(r *domain.Room) {
		require.Len(t, r.Submissions, 1)
		assert.Equal(t, "conn-2b", r.Submissions[0].PlayerID)
	})
}
