package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"soundclash/internal/app"
	"soundclash/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Size of the send channel buffer
	sendBufferSize = 256
)

type clientRole int

const (
	roleNone clientRole = iota
	rolePlayer
	roleViewer
)

// Client represents a WebSocket connection. It starts unbound and
// attaches to a room session on the first create/join/reconnect
// message; the role it binds with decides the cleanup path on
// disconnect.
type Client struct {
	conn   *websocket.Conn
	hub    *app.RoomHub
	id     string
	logger *slog.Logger

	// Bound state, touched only from the read pump goroutine.
	session *app.RoomSession
	role    clientRole

	send   chan []byte
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *app.RoomHub, id string, logger *slog.Logger) *Client {
	return &Client{
		conn:   conn,
		hub:    hub,
		id:     id,
		logger: logger,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the connection ID, used as player or viewer ID once bound
func (c *Client) ID() string {
	return c.id
}

// Send implements app.ClientConn
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, message dropped", "connID", c.id)
		return nil
	}
}

// Close implements app.ClientConn
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		switch c.role {
		case rolePlayer:
			c.session.UnregisterClient(c.id)
			c.session.HandlePlayerGone(c.id)
		case roleViewer:
			c.session.HandleViewerGone(c.id)
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "connID", c.id, "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic handling message", "connID", c.id, "panic", r)
			c.sendError(ErrCodeInternalError, "Internal error")
		}
	}()

	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgCreateRoom:
		c.handleCreateRoom(msg.Payload)
	case MsgJoinRoom:
		c.handleJoinRoom(msg.Payload)
	case MsgJoinRoomAsViewer:
		c.handleJoinAsViewer(msg.Payload)
	case MsgReconnectToRoom:
		c.handleReconnect(msg.Payload)
	case MsgPing:
		c.Send(NewServerMessage(MsgPong, nil))
	default:
		c.handleBound(msg)
	}
}

// handleBound dispatches messages that require a room binding
func (c *Client) handleBound(msg ClientMessage) {
	if c.session == nil {
		c.sendError(ErrCodeNotInRoom, "Join a room first")
		return
	}

	switch msg.Type {
	case MsgStartGame:
		c.replyOnError(c.session.StartGame(c.id))
	case MsgUpdateGameSettings:
		var p UpdateSettingsPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		c.replyOnError(c.session.UpdateSettings(c.id, p.MaxRounds, p.MaxScore, p.AllowExplicitContent))
	case MsgSelectPrompt:
		var p SelectPromptPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		c.replyOnError(c.session.SelectPrompt(c.id, p.PromptID))
	case MsgSubmitSounds:
		var p SubmitSoundsPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		c.replyOnError(c.session.SubmitSounds(c.id, p.Sounds))
	case MsgRefreshSounds:
		c.replyOnError(c.session.RefreshSounds(c.id))
	case MsgActivateTripleSound:
		c.replyOnError(c.session.ActivateTripleSound(c.id))
	case MsgSelectWinner:
		var p SubmissionIndexPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		c.replyOnError(c.session.SelectWinner(c.id, p.Index))
	case MsgUseNuclearOption:
		c.replyOnError(c.session.UseNuclearOption(c.id))
	case MsgLikeSubmission:
		var p SubmissionIndexPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		c.replyOnError(c.session.LikeSubmission(c.id, p.Index))
	case MsgRequestNextSubmission:
		c.replyOnError(c.session.RequestNextSubmission(c.id))
	case MsgRequestJudgingPlay:
		var p JudgingPlaybackPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		c.replyOnError(c.session.RequestJudgingPlayback(c.id, p.Index, p.Sounds))
	case MsgWinnerAudioComplete:
		c.replyOnError(c.session.WinnerAudioComplete(c.id))
	case MsgVoteOnReconnection:
		var p VotePayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		c.replyOnError(c.session.VoteOnReconnection(c.id, p.ContinueWithout))
	case MsgRestartGame:
		c.replyOnError(c.session.RestartGame(c.id))
	case MsgLeaveRoom:
		c.handleLeaveRoom()
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleCreateRoom creates a room and seats the sender as its first
// player, making them VIP.
func (c *Client) handleCreateRoom(payload json.RawMessage) {
	if c.session != nil {
		c.sendError(ErrCodeAlreadyBound, "Already in a room")
		return
	}

	var p CreateRoomPayload
	if !c.decode(payload, &p) {
		return
	}
	if p.PlayerName == "" {
		c.sendError(ErrCodeInvalidMessage, "Player name is required")
		return
	}

	session, err := c.hub.CreateRoom()
	if err != nil {
		c.sendError(ErrCodeInternalError, err.Error())
		return
	}

	session.RegisterClient(c.id, c)
	if _, err := session.AddPlayer(c.id, p.PlayerName, p.Color, p.Emoji); err != nil {
		session.UnregisterClient(c.id)
		c.hub.DeleteSession(session.RoomCode())
		c.sendError(ErrCodeInternalError, err.Error())
		return
	}

	c.session = session
	c.role = rolePlayer
	c.Send(NewServerMessage(MsgRoomCreated, &JoinedPayload{
		PlayerID: c.id,
		RoomCode: session.RoomCode(),
		Room:     session.Snapshot(),
	}))
}

// handleJoinRoom seats the sender in an existing lobby
func (c *Client) handleJoinRoom(payload json.RawMessage) {
	if c.session != nil {
		c.sendError(ErrCodeAlreadyBound, "Already in a room")
		return
	}

	var p JoinRoomPayload
	if !c.decode(payload, &p) {
		return
	}
	if p.RoomCode == "" || p.PlayerName == "" {
		c.sendError(ErrCodeInvalidMessage, "Room code and player name are required")
		return
	}

	session, err := c.hub.GetSession(p.RoomCode)
	if err != nil {
		c.sendError(ErrCodeRoomNotFound, "Room not found")
		return
	}

	session.RegisterClient(c.id, c)
	if _, err := session.AddPlayer(c.id, p.PlayerName, p.Color, p.Emoji); err != nil {
		session.UnregisterClient(c.id)
		c.sendDomainError(err)
		return
	}

	c.session = session
	c.role = rolePlayer
	c.Send(NewServerMessage(MsgRoomJoined, &JoinedPayload{
		PlayerID: c.id,
		RoomCode: session.RoomCode(),
		Room:     session.Snapshot(),
	}))
}

// handleJoinAsViewer binds the sender as a passive display
func (c *Client) handleJoinAsViewer(payload json.RawMessage) {
	if c.session != nil {
		c.sendError(ErrCodeAlreadyBound, "Already in a room")
		return
	}

	var p JoinAsViewerPayload
	if !c.decode(payload, &p) {
		return
	}

	session, err := c.hub.GetSession(p.RoomCode)
	if err != nil {
		c.sendError(ErrCodeRoomNotFound, "Room not found")
		return
	}

	session.AddViewer(c.id, c)
	c.session = session
	c.role = roleViewer
	c.Send(NewServerMessage(MsgViewerJoined, &ViewerJoinedPayload{
		ViewerID:  c.id,
		RoomCode:  session.RoomCode(),
		IsPrimary: session.IsPrimaryViewer(c.id),
		Room:      session.Snapshot(),
	}))
}

// handleReconnect reattaches a disconnected player under this
// connection's ID.
func (c *Client) handleReconnect(payload json.RawMessage) {
	if c.session != nil {
		c.sendError(ErrCodeAlreadyBound, "Already in a room")
		return
	}

	var p ReconnectPayload
	if !c.decode(payload, &p) {
		return
	}

	session, err := c.hub.GetSession(p.RoomCode)
	if err != nil {
		c.sendError(ErrCodeRoomNotFound, "Room not found")
		return
	}

	session.RegisterClient(c.id, c)
	player, err := session.ReconnectPlayer(p.PlayerName, p.PriorID, c.id)
	if err != nil {
		session.UnregisterClient(c.id)
		c.sendDomainError(err)
		return
	}

	c.session = session
	c.role = rolePlayer
	c.logger.Info("player reconnected", "roomCode", p.RoomCode, "playerID", player.ID)
	c.Send(NewServerMessage(MsgReconnected, &JoinedPayload{
		PlayerID: player.ID,
		RoomCode: session.RoomCode(),
		Room:     session.Snapshot(),
	}))
}

// handleLeaveRoom removes the sender from their room immediately and
// returns the connection to the unbound state.
func (c *Client) handleLeaveRoom() {
	if c.role == roleViewer {
		c.session.HandleViewerGone(c.id)
	} else {
		c.session.UnregisterClient(c.id)
		if err := c.session.LeaveRoom(c.id); err != nil && !errors.Is(err, domain.ErrPlayerNotFound) {
			c.sendDomainError(err)
		}
	}
	c.session = nil
	c.role = roleNone
}

// decode unmarshals a payload, reporting a protocol error on failure
func (c *Client) decode(payload json.RawMessage, v interface{}) bool {
	if len(payload) == 0 {
		c.sendError(ErrCodeInvalidMessage, "Payload is required")
		return false
	}
	if err := json.Unmarshal(payload, v); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return false
	}
	return true
}

// replyOnError reports an action error back to the sender; successful
// actions answer through broadcast events instead.
func (c *Client) replyOnError(err error) {
	if err != nil {
		c.sendDomainError(err)
	}
}

// sendDomainError maps a domain error to a protocol error code
func (c *Client) sendDomainError(err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		c.sendError(ErrCodeRoomNotFound, err.Error())
	case errors.Is(err, domain.ErrRoomFull):
		c.sendError(ErrCodeRoomFull, err.Error())
	case errors.Is(err, domain.ErrNameTaken):
		c.sendError(ErrCodeNameTaken, err.Error())
	case errors.Is(err, domain.ErrNotVIP):
		c.sendError(ErrCodeNotVIP, err.Error())
	case errors.Is(err, domain.ErrNotJudge), errors.Is(err, domain.ErrJudgeCannotSubmit):
		c.sendError(ErrCodeNotJudge, err.Error())
	case errors.Is(err, domain.ErrNotPrimaryViewer):
		c.sendError(ErrCodeNotPrimary, err.Error())
	case errors.Is(err, domain.ErrGameInProgress),
		errors.Is(err, domain.ErrNotEnoughPlayers),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrAlreadySubmitted),
		errors.Is(err, domain.ErrInvalidSoundCount),
		errors.Is(err, domain.ErrSoundNotInSet),
		errors.Is(err, domain.ErrInvalidSubmission),
		errors.Is(err, domain.ErrInvalidPrompt),
		errors.Is(err, domain.ErrAbilityUsed),
		errors.Is(err, domain.ErrCannotLikeOwn),
		errors.Is(err, domain.ErrAlreadyLiked),
		errors.Is(err, domain.ErrNoPendingVote),
		errors.Is(err, domain.ErrNotSelectedVoter),
		errors.Is(err, domain.ErrNoDisconnectMatch),
		errors.Is(err, domain.ErrInvalidSettings),
		errors.Is(err, domain.ErrPlayerNotFound):
		c.sendError(ErrCodeInvalidAction, err.Error())
	default:
		c.sendError(ErrCodeInternalError, err.Error())
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.Send(NewServerMessage(MsgError, &ErrorPayload{
		Code:    code,
		Message: message,
	}))
}
