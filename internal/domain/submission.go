package domain

import "time"

// Like records one player liking a submission
type Like struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// Submission represents the sounds a non-judge player submitted for the
// current prompt. PlayerName is denormalized so it stays displayable
// after the author disconnects.
type Submission struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Sounds     []string  `json:"sounds"`
	Likes      []Like    `json:"likes,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewSubmission creates a submission
func NewSubmission(playerID, playerName string, sounds []string) *Submission {
	return &Submission{
		PlayerID:   playerID,
		PlayerName: playerName,
		Sounds:     sounds,
		Timestamp:  time.Now(),
	}
}

// LikeCount returns the number of likes on this submission
func (s *Submission) LikeCount() int {
	return len(s.Likes)
}

// HasLikeFrom checks if a player already liked this submission
func (s *Submission) HasLikeFrom(playerID string) bool {
	for _, l := range s.Likes {
		if l.PlayerID == playerID {
			return true
		}
	}
	return false
}

// AddLike records a like. At most one like per player per submission,
// and authors cannot like their own entry.
func (s *Submission) AddLike(playerID, playerName string) error {
	if s.PlayerID == playerID {
		return ErrCannotLikeOwn
	}
	if s.HasLikeFrom(playerID) {
		return ErrAlreadyLiked
	}
	s.Likes = append(s.Likes, Like{PlayerID: playerID, PlayerName: playerName})
	return nil
}
