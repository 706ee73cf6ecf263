package ws

import (
	"encoding/json"
	"time"

	"soundclash/internal/domain"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgCreateRoom            MessageType = "createRoom"
	MsgJoinRoom              MessageType = "joinRoom"
	MsgJoinRoomAsViewer      MessageType = "joinRoomAsViewer"
	MsgReconnectToRoom       MessageType = "reconnectToRoom"
	MsgStartGame             MessageType = "startGame"
	MsgUpdateGameSettings    MessageType = "updateGameSettings"
	MsgSelectPrompt          MessageType = "selectPrompt"
	MsgSubmitSounds          MessageType = "submitSounds"
	MsgRefreshSounds         MessageType = "refreshSounds"
	MsgActivateTripleSound   MessageType = "activateTripleSound"
	MsgSelectWinner          MessageType = "selectWinner"
	MsgUseNuclearOption      MessageType = "useNuclearOption"
	MsgLikeSubmission        MessageType = "likeSubmission"
	MsgRequestNextSubmission MessageType = "requestNextSubmission"
	MsgRequestJudgingPlay    MessageType = "requestJudgingPlayback"
	MsgWinnerAudioComplete   MessageType = "winnerAudioComplete"
	MsgVoteOnReconnection    MessageType = "voteOnReconnection"
	MsgRestartGame           MessageType = "restartGame"
	MsgLeaveRoom             MessageType = "leaveRoom"
	MsgPing                  MessageType = "ping"
)

// Server → Client message types for direct replies. Game events are
// broadcast as domain.Event and carry their own type field.
const (
	MsgRoomCreated  MessageType = "roomCreated"
	MsgRoomJoined   MessageType = "roomJoined"
	MsgViewerJoined MessageType = "viewerJoined"
	MsgReconnected  MessageType = "reconnected"
	MsgError        MessageType = "error"
	MsgPong         MessageType = "pong"
)

// ClientMessage represents a message from client to server. The payload
// is decoded per message type.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a direct reply from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// CreateRoomPayload is the payload for createRoom
type CreateRoomPayload struct {
	PlayerName string `json:"playerName"`
	Color      string `json:"color"`
	Emoji      string `json:"emoji"`
}

// JoinRoomPayload is the payload for joinRoom
type JoinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
	Color      string `json:"color"`
	Emoji      string `json:"emoji"`
}

// JoinAsViewerPayload is the payload for joinRoomAsViewer
type JoinAsViewerPayload struct {
	RoomCode string `json:"roomCode"`
}

// ReconnectPayload is the payload for reconnectToRoom
type ReconnectPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
	PriorID    string `json:"priorPlayerId"`
}

// UpdateSettingsPayload is the payload for updateGameSettings
type UpdateSettingsPayload struct {
	MaxRounds            int  `json:"maxRounds"`
	MaxScore             int  `json:"maxScore"`
	AllowExplicitContent bool `json:"allowExplicitContent"`
}

// SelectPromptPayload is the payload for selectPrompt
type SelectPromptPayload struct {
	PromptID string `json:"promptId"`
}

// SubmitSoundsPayload is the payload for submitSounds
type SubmitSoundsPayload struct {
	Sounds []string `json:"sounds"`
}

// SubmissionIndexPayload is the payload for selectWinner and
// likeSubmission, indexing into the randomized submission order.
type SubmissionIndexPayload struct {
	Index int `json:"index"`
}

// JudgingPlaybackPayload is the payload for requestJudgingPlayback
type JudgingPlaybackPayload struct {
	Index  int      `json:"index"`
	Sounds []string `json:"sounds"`
}

// VotePayload is the payload for voteOnReconnection
type VotePayload struct {
	ContinueWithout bool `json:"continueWithout"`
}

// Server reply payloads

// JoinedPayload confirms a player binding and carries the room view
type JoinedPayload struct {
	PlayerID string               `json:"playerId"`
	RoomCode string               `json:"roomCode"`
	Room     *domain.RoomSnapshot `json:"room"`
}

// ViewerJoinedPayload confirms a viewer binding
type ViewerJoinedPayload struct {
	ViewerID  string               `json:"viewerId"`
	RoomCode  string               `json:"roomCode"`
	IsPrimary bool                 `json:"isPrimary"`
	Room      *domain.RoomSnapshot `json:"room"`
}

// ErrorPayload is the payload for error messages
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeRoomNotFound   = "ROOM_NOT_FOUND"
	ErrCodeRoomFull       = "ROOM_FULL"
	ErrCodeNameTaken      = "NAME_TAKEN"
	ErrCodeInvalidAction  = "INVALID_ACTION"
	ErrCodeNotVIP         = "NOT_VIP"
	ErrCodeNotJudge       = "NOT_JUDGE"
	ErrCodeNotPrimary     = "NOT_PRIMARY_VIEWER"
	ErrCodeAlreadyBound   = "ALREADY_IN_ROOM"
	ErrCodeNotInRoom      = "NOT_IN_ROOM"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
