// Package coordinator is the inbound façade between transports and rooms: it
// decodes client envelopes, tracks which room each connection is in, and
// routes commands to room workers through the registry.
package coordinator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/scrawl/internal/game/event"
	"github.com/cory-johannsen/scrawl/internal/game/registry"
	"github.com/cory-johannsen/scrawl/internal/game/room"
	"github.com/cory-johannsen/scrawl/internal/game/stroke"
)

// Inbound envelope types.
const (
	MsgRoomCreate  = "room:create"
	MsgRoomJoin    = "room:join"
	MsgRoomState   = "room:get-state"
	MsgChat        = "chat:message"
	MsgStrokes     = "draw:strokes"
	MsgCanvasClear = "canvas:clear"
	MsgSetColor    = "draw:set-color"
	MsgInterpolate = "draw:interpolate"
	MsgGameStart   = "game:start"
	MsgSelectWord  = "round:select-word"
	MsgGameExit    = "game:exit"
)

// Coordinator routes inbound client events to rooms.
type Coordinator struct {
	registry *registry.Registry
	log      *zap.Logger
}

// New builds a Coordinator over the given registry.
func New(reg *registry.Registry, logger *zap.Logger) *Coordinator {
	return &Coordinator{registry: reg, log: logger}
}

// Session is the coordinator-side state of one client connection. Not safe
// for concurrent use: the transport must call HandleMessage and Close from a
// single goroutine, matching a connection's read loop.
type Session struct {
	coord  *Coordinator
	connID string
	sink   room.EventSink
	room   *room.Handle
	log    *zap.Logger
}

// NewSession registers a connection and returns its session. The connection
// id is fresh per session; reconnects get a new identity.
func (c *Coordinator) NewSession(sink room.EventSink) *Session {
	connID := uuid.NewString()
	return &Session{
		coord:  c,
		connID: connID,
		sink:   sink,
		log:    c.log.With(zap.String("conn_id", connID)),
	}
}

// ConnID returns the session's connection id.
func (s *Session) ConnID() string {
	return s.connID
}

// Close leaves the session's room, if any. Idempotent.
func (s *Session) Close() {
	if s.room != nil {
		s.room.Leave(s.connID)
		s.room = nil
	}
}

// HandleMessage decodes one inbound envelope and routes it. Malformed or
// unknown messages are reported back to this connection only; nothing here
// fails the connection.
func (s *Session) HandleMessage(raw []byte) {
	var env event.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.pushError("malformed message")
		return
	}

	switch env.Type {
	case MsgRoomCreate:
		s.handleCreate(env.Data)
	case MsgRoomJoin:
		s.handleJoin(env.Data)
	case MsgRoomState:
		s.handleGetState(env.Data)
	case MsgChat:
		s.handleChat(env.Data)
	case MsgStrokes:
		s.handleStrokes(env.Data)
	case MsgCanvasClear:
		s.inRoom(func(h *room.Handle) { h.ClearCanvas(s.connID) })
	case MsgSetColor:
		s.handleSetColor(env.Data)
	case MsgInterpolate:
		s.handleInterpolate(env.Data)
	case MsgGameStart:
		s.inRoom(func(h *room.Handle) { h.StartGame(s.connID) })
	case MsgSelectWord:
		s.handleSelectWord(env.Data)
	case MsgGameExit:
		s.inRoom(func(h *room.Handle) { h.ExitGame(s.connID) })
	default:
		s.log.Debug("unknown message type", zap.String("type", env.Type))
		s.pushError(fmt.Sprintf("unknown message type %q", env.Type))
	}
}

type createPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

func (s *Session) handleCreate(data json.RawMessage) {
	var p createPayload
	if !s.decode(data, &p) {
		return
	}
	roomID := strings.TrimSpace(p.RoomID)
	username := strings.TrimSpace(p.Username)
	if roomID == "" || username == "" {
		s.pushError("room id and username are required")
		return
	}
	if s.room != nil {
		s.pushError("already in a room")
		return
	}

	h, err := s.coord.registry.Create(roomID, &room.Player{
		ConnID:   s.connID,
		Username: username,
		Sink:     s.sink,
	})
	if err != nil {
		if errors.Is(err, registry.ErrDuplicateRoom) {
			s.pushError(fmt.Sprintf("room %q already exists, join it instead", roomID))
			return
		}
		s.pushError("could not create room")
		return
	}

	s.room = h
}

type joinPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	// GameState is the client's belief that a game is already running,
	// carried through so the room can resynchronize the joiner.
	GameState bool `json:"gameState"`
}

func (s *Session) handleJoin(data json.RawMessage) {
	var p joinPayload
	if !s.decode(data, &p) {
		return
	}
	roomID := strings.TrimSpace(p.RoomID)
	username := strings.TrimSpace(p.Username)
	if roomID == "" || username == "" {
		s.pushError("room id and username are required")
		return
	}
	if s.room != nil {
		s.pushError("already in a room")
		return
	}

	h, err := s.coord.registry.Lookup(roomID)
	if err != nil {
		s.pushError(fmt.Sprintf("room %q not found", roomID))
		return
	}

	joined := h.Join(&room.Player{
		ConnID:   s.connID,
		Username: username,
		Sink:     s.sink,
	}, p.GameState)
	if !joined {
		// The room emptied between lookup and join.
		s.pushError(fmt.Sprintf("room %q not found", roomID))
		return
	}

	s.room = h
}

type statePayload struct {
	RoomID string `json:"roomId"`
}

// handleGetState serves a roster snapshot without requiring membership, so a
// reloaded page can resynchronize before rejoining.
func (s *Session) handleGetState(data json.RawMessage) {
	var p statePayload
	if !s.decode(data, &p) {
		return
	}

	h := s.room
	if roomID := strings.TrimSpace(p.RoomID); roomID != "" {
		found, err := s.coord.registry.Lookup(roomID)
		if err != nil {
			s.pushError(fmt.Sprintf("room %q not found", roomID))
			return
		}
		h = found
	}
	if h == nil {
		s.pushError("not in a room")
		return
	}
	h.GetState(s.sink)
}

type chatPayload struct {
	Text string `json:"text"`
}

func (s *Session) handleChat(data json.RawMessage) {
	var p chatPayload
	if !s.decode(data, &p) {
		return
	}
	s.inRoom(func(h *room.Handle) { h.Chat(s.connID, p.Text) })
}

type strokesPayload struct {
	Points []stroke.RawPoint `json:"points"`
}

func (s *Session) handleStrokes(data json.RawMessage) {
	var p strokesPayload
	if !s.decode(data, &p) {
		return
	}
	if len(p.Points) == 0 {
		return
	}
	s.inRoom(func(h *room.Handle) { h.Strokes(s.connID, p.Points) })
}

type setColorPayload struct {
	ColorName string `json:"colorName"`
}

func (s *Session) handleSetColor(data json.RawMessage) {
	var p setColorPayload
	if !s.decode(data, &p) {
		return
	}
	s.inRoom(func(h *room.Handle) { h.SetColor(s.connID, p.ColorName) })
}

type interpolatePayload struct {
	Start event.Coord `json:"startpoint"`
	End   event.Coord `json:"lastpoint"`
}

func (s *Session) handleInterpolate(data json.RawMessage) {
	var p interpolatePayload
	if !s.decode(data, &p) {
		return
	}
	s.inRoom(func(h *room.Handle) { h.Interpolate(s.connID, p.Start, p.End) })
}

type selectWordPayload struct {
	Word string `json:"word"`
}

func (s *Session) handleSelectWord(data json.RawMessage) {
	var p selectWordPayload
	if !s.decode(data, &p) {
		return
	}
	s.inRoom(func(h *room.Handle) { h.SelectWord(s.connID, p.Word) })
}

// inRoom runs fn against the session's room, reporting an error to the
// client when there is none.
func (s *Session) inRoom(fn func(h *room.Handle)) {
	if s.room == nil {
		s.pushError("not in a room")
		return
	}
	fn(s.room)
}

// decode unmarshals a payload, reporting malformed data to the client.
func (s *Session) decode(data json.RawMessage, v any) bool {
	if len(data) == 0 {
		s.pushError("missing message data")
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.pushError("malformed message data")
		return false
	}
	return true
}

func (s *Session) pushError(msg string) {
	if err := s.sink.Push(event.New(event.TypeRoomError, event.RoomError{Message: msg})); err != nil {
		s.log.Debug("dropping error event", zap.Error(err))
	}
}
