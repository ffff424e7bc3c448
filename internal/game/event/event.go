// Package event defines the wire contract between the session coordinator
// and its clients: outbound broadcast events and the inbound JSON envelope.
package event

import (
	"encoding/json"
	"fmt"

	"github.com/cory-johannsen/scrawl/internal/game/stroke"
)

// Type identifies an outbound broadcast event.
type Type string

// Outbound event types.
const (
	TypeRoomCreated        Type = "room-created"
	TypeRoomJoined         Type = "room-joined"
	TypeUpdatedPlayers     Type = "room-updated-players"
	TypeRoomError          Type = "room-error"
	TypeRoomMessage        Type = "room-message"
	TypeNewHost            Type = "new-host"
	TypeStrokeBatch        Type = "stroke-batch"
	TypeCanvasCleared      Type = "canvas-cleared"
	TypeStrokeColorChanged Type = "stroke-color-changed"
	TypeInterpolate        Type = "interpolate"
	TypeGameRunning        Type = "game-running"
	TypeRoundStarted       Type = "round-started"
	TypeWordSelected       Type = "word-selected"
	TypeTimerStarted       Type = "timer-started"
	TypeTimeUpdate         Type = "time-update"
	TypeGuessCorrect       Type = "guess-correct"
	TypeRoundEnded         Type = "round-ended"
	TypeGameOver           Type = "game-over"
	TypeDrawerQuit         Type = "drawer-quit"
	TypeGameEndedByQuit    Type = "game-ended-by-quit"
)

// Event is an outbound broadcast: a type tag plus its payload.
type Event struct {
	Type Type `json:"type"`
	Data any  `json:"data,omitempty"`
}

// New builds an Event.
func New(t Type, data any) Event {
	return Event{Type: t, Data: data}
}

// Encode marshals the event for the wire.
//
// Postcondition: Returns the JSON encoding or a non-nil error.
func (e Event) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding %s event: %w", e.Type, err)
	}
	return data, nil
}

// Envelope is an inbound client message before payload decoding.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// PlayerInfo is the client-visible view of a room member.
type PlayerInfo struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

// Coord is a bare canvas coordinate used by interpolation hints.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RoomCreated acknowledges room creation to its members.
type RoomCreated struct {
	RoomID string `json:"roomId"`
	Host   string `json:"host"`
}

// RoomJoined announces a new member to the whole room.
type RoomJoined struct {
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
	Host     string `json:"host"`
}

// UpdatedPlayers carries the authoritative player list and host.
type UpdatedPlayers struct {
	RoomID  string       `json:"roomId"`
	Players []PlayerInfo `json:"players"`
	Host    string       `json:"host"`
}

// RoomError reports a request-scoped failure to the requester only.
type RoomError struct {
	Message string `json:"message"`
}

// RoomMessage is a plain room-wide notice or chat line.
type RoomMessage struct {
	Username string `json:"username,omitempty"`
	Text     string `json:"text"`
}

// NewHost announces host reassignment.
type NewHost struct {
	Username string `json:"username"`
}

// StrokeBatch carries validated, colored points.
type StrokeBatch struct {
	Points []stroke.Point `json:"points"`
}

// Interpolate is a straight-line fill hint between two points, tagged with
// the room color. Purely a rendering aid; never stored.
type Interpolate struct {
	Start Coord  `json:"startpoint"`
	End   Coord  `json:"lastpoint"`
	Color string `json:"color"`
}

// GameRunning announces that a game has started.
type GameRunning struct {
	Players []PlayerInfo `json:"players"`
}

// RoundStarted announces a new round awaiting word selection.
type RoundStarted struct {
	Round         int            `json:"round"`
	Drawer        PlayerInfo     `json:"drawer"`
	WordOptions   []string       `json:"wordOptions,omitempty"`
	TimeRemaining int            `json:"timeRemaining"`
	Scores        map[string]int `json:"scores"`
}

// WordSelected announces the chosen word. Word is populated for the drawer
// only; everyone else sees just the length.
type WordSelected struct {
	Drawer     string `json:"drawer"`
	WordLength int    `json:"wordLength"`
	Word       string `json:"word,omitempty"`
}

// TimerStarted signals the countdown beginning.
type TimerStarted struct {
	TimeRemaining int `json:"timeRemaining"`
}

// TimeUpdate carries the countdown value after a tick.
type TimeUpdate struct {
	TimeRemaining int `json:"timeRemaining"`
}

// GuessCorrect announces a correct guess and the updated scores.
type GuessCorrect struct {
	Guesser       string         `json:"guesser"`
	Points        int            `json:"points"`
	TimeRemaining int            `json:"timeRemaining"`
	Scores        map[string]int `json:"scores"`
}

// RoundEnded reveals the word and reports round scores.
type RoundEnded struct {
	Word       string         `json:"word"`
	Scores     map[string]int `json:"scores"`
	AllGuessed bool           `json:"allGuessed"`
}

// GameOver carries the final ledger.
type GameOver struct {
	Scores  map[string]int `json:"scores"`
	Players []PlayerInfo   `json:"players"`
}

// DrawerQuit announces that the drawer abandoned an active round.
type DrawerQuit struct {
	Drawer  string `json:"drawer"`
	Message string `json:"message"`
}

// GameEndedByQuit carries final scores after a mid-game departure.
type GameEndedByQuit struct {
	Scores     map[string]int `json:"scores"`
	Players    []PlayerInfo   `json:"players"`
	QuitPlayer string         `json:"quitPlayer"`
	Reason     string         `json:"reason"`
}
