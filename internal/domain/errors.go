package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is full")
	ErrGameInProgress    = errors.New("game already in progress")
	ErrNotEnoughPlayers  = errors.New("not enough players to start")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrNotVIP            = errors.New("only the host can perform this action")
	ErrNotJudge          = errors.New("only the judge can perform this action")
	ErrJudgeCannotSubmit = errors.New("the judge cannot submit sounds")
	ErrInvalidState      = errors.New("invalid action for current game state")
	ErrAlreadySubmitted  = errors.New("already submitted this round")
	ErrInvalidSoundCount = errors.New("submission must contain 1 to 3 sounds")
	ErrSoundNotInSet     = errors.New("sound is not in the assigned sound set")
	ErrInvalidSubmission = errors.New("invalid submission index")
	ErrInvalidPrompt     = errors.New("prompt is not among the current candidates")
	ErrAbilityUsed       = errors.New("ability already used this game")
	ErrCannotLikeOwn     = errors.New("cannot like your own submission")
	ErrAlreadyLiked      = errors.New("already liked this submission")
	ErrNotPrimaryViewer  = errors.New("only the main screen can perform this action")
	ErrNoPendingVote     = errors.New("no reconnection vote is pending")
	ErrNotSelectedVoter  = errors.New("a different player was asked to vote")
	ErrNoDisconnectMatch = errors.New("no disconnected player matches")
	ErrInvalidSettings   = errors.New("invalid game settings")
	ErrNameTaken         = errors.New("name already in use in this room")
)
