package room

import "github.com/cory-johannsen/scrawl/internal/game/event"

// EventSink receives outbound events for one connection. Implementations
// must not block: the room worker pushes from its own goroutine and a slow
// consumer must not stall the room.
type EventSink interface {
	// Push enqueues an event for delivery. Returns an error if the sink is
	// closed or full; the event is dropped in that case.
	Push(ev event.Event) error
}

// Player is a room member: one active connection with a display name.
// A username is display-only and not unique; the connection id is unique per
// active connection and unstable across reconnects.
type Player struct {
	ConnID   string
	Username string
	Sink     EventSink
}

// Info returns the client-visible view of the player.
func (p *Player) Info() event.PlayerInfo {
	return event.PlayerInfo{Username: p.Username, ID: p.ConnID}
}
