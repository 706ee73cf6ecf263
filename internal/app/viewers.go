package app

import "soundclash/internal/domain"

// AddViewer registers a passive display connection. The first viewer
// to register becomes the primary, the one authorized to pace playback
// and report winner-audio completion.
func (s *RoomSession) AddViewer(viewerID string, conn ClientConn) {
	s.mu.Lock()
	s.cancelDestroyTimer()
	s.mu.Unlock()

	s.clientsMu.Lock()
	s.viewers[viewerID] = conn
	s.viewerOrder = append(s.viewerOrder, viewerID)
	if s.primaryViewer == "" {
		s.primaryViewer = viewerID
	}
	s.clientsMu.Unlock()

	s.logger.Info("viewer registered", "roomCode", s.room.Code, "viewerID", viewerID)
	s.broadcastViewerElection()
}

// HandleViewerGone unregisters a viewer. If the primary left, the
// oldest remaining viewer is promoted; with none left the playback
// phase stalls until one (re)registers.
func (s *RoomSession) HandleViewerGone(viewerID string) {
	s.clientsMu.Lock()
	if _, ok := s.viewers[viewerID]; !ok {
		s.clientsMu.Unlock()
		return
	}
	delete(s.viewers, viewerID)
	for i, id := range s.viewerOrder {
		if id == viewerID {
			s.viewerOrder = append(s.viewerOrder[:i], s.viewerOrder[i+1:]...)
			break
		}
	}
	if s.primaryViewer == viewerID {
		s.primaryViewer = ""
		if len(s.viewerOrder) > 0 {
			s.primaryViewer = s.viewerOrder[0]
		}
	}
	s.clientsMu.Unlock()

	s.logger.Info("viewer gone", "roomCode", s.room.Code, "viewerID", viewerID)
	s.broadcastViewerElection()

	s.mu.Lock()
	if s.room.State == domain.StateRoundResults && s.viewerCount() == 0 {
		// The winner-audio report this phase was waiting on can no
		// longer arrive; the server times the pause itself.
		s.scheduleAfter(s.timing.ResultsPauseSeconds, domain.StateRoundResults, s.finishRound)
	}
	s.scheduleDestroyIfAbandoned()
	s.mu.Unlock()
}

// broadcastViewerElection tells every connection the viewer count and
// each viewer whether it is the primary.
func (s *RoomSession) broadcastViewerElection() {
	s.clientsMu.RLock()
	count := len(s.viewers)
	primary := s.primaryViewer
	ids := make([]string, 0, count)
	for id := range s.viewers {
		ids = append(ids, id)
	}
	s.clientsMu.RUnlock()

	s.queueEvent(domain.NewAudienceEvent(domain.EventMainScreenUpdate, s.room.Code, domain.AudiencePlayers, &domain.MainScreenPayload{
		ViewerCount: count,
	}))
	for _, id := range ids {
		s.queueEvent(domain.NewTargetEvent(domain.EventMainScreenUpdate, s.room.Code, id, &domain.MainScreenPayload{
			ViewerCount: count,
			IsPrimary:   id == primary,
		}))
	}
}

// IsPrimaryViewer reports whether the given viewer is the current
// primary.
func (s *RoomSession) IsPrimaryViewer(viewerID string) bool {
	return s.isPrimaryViewer(viewerID)
}

// viewerCount returns the number of registered viewers. Safe with or
// without mu held (it takes only the connection lock).
func (s *RoomSession) viewerCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.viewers)
}

// isPrimaryViewer reports whether the given connection is the primary
// viewer. Requests from anyone else are rejected, not silently honored.
func (s *RoomSession) isPrimaryViewer(viewerID string) bool {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return s.primaryViewer != "" && s.primaryViewer == viewerID
}
