// Package room implements the per-room state, the round state machine, and
// the sequential worker that owns them. All room mutations flow through one
// goroutine per room, so room state needs no locks; timer ticks and phase
// transition pauses are channels in the same select loop.
package room

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/scrawl/internal/config"
	"github.com/cory-johannsen/scrawl/internal/game/event"
	"github.com/cory-johannsen/scrawl/internal/game/stroke"
	"github.com/cory-johannsen/scrawl/internal/game/words"
)

// Options configures a new room.
type Options struct {
	// Config holds the round engine tunables.
	Config config.GameConfig
	// Words is the drawable word list. Must be non-nil.
	Words *words.List
	// Logger must be non-nil.
	Logger *zap.Logger
	// Rand is the randomness source for word offers. Nil uses a fresh
	// auto-seeded source.
	Rand *rand.Rand
	// OnEmpty is invoked from the worker goroutine when the last player has
	// left, just before the worker exits. May be nil.
	OnEmpty func(roomID string)
}

// Room holds one game session's state. Only its worker goroutine touches it.
type Room struct {
	id      string
	host    string
	players []*Player
	strokes *stroke.Log
	color   stroke.Color
	game    *game // nil while idle

	cfg   config.GameConfig
	words *words.List
	rng   *rand.Rand
	log   *zap.Logger

	inbox   chan command
	done    chan struct{}
	onEmpty func(string)
}

// Handle is the concurrency-safe reference to a running room held by the
// registry and the coordinator. All methods enqueue work for the room's
// worker and report false once the room has shut down.
type Handle struct {
	roomID string
	inbox  chan command
	done   chan struct{}
}

// newRoom builds a Room with the creating player as host and sole member.
// The worker goroutine is not started; tests drive handlers directly.
func newRoom(id string, creator *Player, opts Options) *Room {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Room{
		id:      id,
		host:    creator.Username,
		players: []*Player{creator},
		strokes: stroke.NewLog(),
		color:   stroke.DefaultColor(),
		cfg:     opts.Config,
		words:   opts.Words,
		rng:     rng,
		log:     opts.Logger.With(zap.String("room_id", id)),
		inbox:   make(chan command, 256),
		done:    make(chan struct{}),
		onEmpty: opts.OnEmpty,
	}
}

// Start creates a room owned by the creating player, announces it, and
// launches the worker goroutine.
//
// Precondition: creator must have a non-nil Sink; opts.Words and opts.Logger
// must be non-nil.
// Postcondition: Returns a Handle whose methods are safe for concurrent use.
func Start(id string, creator *Player, opts Options) *Handle {
	r := newRoom(id, creator, opts)

	// The worker has not started yet, so announcing here is still
	// single-threaded.
	r.broadcast(event.New(event.TypeRoomCreated, event.RoomCreated{RoomID: id, Host: creator.Username}))
	r.broadcastUpdatedPlayers()
	r.log.Info("room created", zap.String("host", creator.Username))

	go r.run()

	return &Handle{roomID: id, inbox: r.inbox, done: r.done}
}

// RoomID returns the room's identifier.
func (h *Handle) RoomID() string {
	return h.roomID
}

// send enqueues a command unless the room has shut down.
func (h *Handle) send(c command) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.inbox <- c:
		return true
	case <-h.done:
		return false
	}
}

// Join adds a player to the room. hintGameState mirrors the client's belief
// that a game is running, and triggers a game-running notice to the joiner.
func (h *Handle) Join(p *Player, hintGameState bool) bool {
	return h.send(cmdJoin{player: p, hintGameState: hintGameState})
}

// Leave removes the player with the given connection id. A no-op if the room
// is already gone.
func (h *Handle) Leave(connID string) bool {
	return h.send(cmdLeave{connID: connID})
}

// Chat submits a chat message, which doubles as a guess during an active round.
func (h *Handle) Chat(connID, text string) bool {
	return h.send(cmdChat{connID: connID, text: text})
}

// Strokes submits a raw point batch for validation, storage, and broadcast.
func (h *Handle) Strokes(connID string, points []stroke.RawPoint) bool {
	return h.send(cmdStrokes{connID: connID, points: points})
}

// ClearCanvas empties the stroke log and notifies all members.
func (h *Handle) ClearCanvas(connID string) bool {
	return h.send(cmdClear{connID: connID})
}

// SetColor switches the room's shared stroke color.
func (h *Handle) SetColor(connID, colorName string) bool {
	return h.send(cmdSetColor{connID: connID, name: colorName})
}

// Interpolate re-broadcasts a straight-line fill hint to everyone but the sender.
func (h *Handle) Interpolate(connID string, start, end event.Coord) bool {
	return h.send(cmdInterpolate{connID: connID, start: start, end: end})
}

// StartGame asks to start a game. Host-only; enforced by the worker.
func (h *Handle) StartGame(connID string) bool {
	return h.send(cmdStartGame{connID: connID})
}

// SelectWord submits the drawer's chosen word. Drawer-only; enforced by the worker.
func (h *Handle) SelectWord(connID, word string) bool {
	return h.send(cmdSelectWord{connID: connID, word: word})
}

// ExitGame broadcasts a departure notice without changing membership.
func (h *Handle) ExitGame(connID string) bool {
	return h.send(cmdExitGame{connID: connID})
}

// GetState sends the current player list and host to the given sink only.
// Used to resynchronize a connection after a page reload.
func (h *Handle) GetState(sink EventSink) bool {
	return h.send(cmdGetState{sink: sink})
}

// command is an inbound unit of work for the room worker.
type command interface{}

type cmdJoin struct {
	player        *Player
	hintGameState bool
}

type cmdLeave struct{ connID string }

type cmdChat struct {
	connID string
	text   string
}

type cmdStrokes struct {
	connID string
	points []stroke.RawPoint
}

type cmdClear struct{ connID string }

type cmdSetColor struct {
	connID string
	name   string
}

type cmdInterpolate struct {
	connID     string
	start, end event.Coord
}

type cmdStartGame struct{ connID string }

type cmdSelectWord struct {
	connID string
	word   string
}

type cmdExitGame struct{ connID string }

type cmdGetState struct{ sink EventSink }

// run is the worker loop. It exits when the last player leaves.
func (r *Room) run() {
	for {
		select {
		case c := <-r.inbox:
			r.dispatch(c)
		case <-r.tickC():
			r.handleTick()
		case <-r.pauseC():
			r.handlePause()
		}

		if len(r.players) == 0 {
			r.teardown()
			return
		}
	}
}

// tickC returns the countdown tick channel, or nil when no round is active.
// A nil channel never fires in the select.
func (r *Room) tickC() <-chan time.Time {
	if r.game != nil && r.game.ticker != nil {
		return r.game.ticker.C
	}
	return nil
}

// pauseC returns the pending transition pause channel, or nil.
func (r *Room) pauseC() <-chan time.Time {
	if r.game != nil && r.game.pause != nil {
		return r.game.pause.C
	}
	return nil
}

func (r *Room) dispatch(c command) {
	switch c := c.(type) {
	case cmdJoin:
		r.handleJoin(c.player, c.hintGameState)
	case cmdLeave:
		r.handleLeave(c.connID)
	case cmdChat:
		r.handleChat(c.connID, c.text)
	case cmdStrokes:
		r.handleStrokes(c.connID, c.points)
	case cmdClear:
		r.handleClear(c.connID)
	case cmdSetColor:
		r.handleSetColor(c.connID, c.name)
	case cmdInterpolate:
		r.handleInterpolate(c.connID, c.start, c.end)
	case cmdStartGame:
		r.handleStartGame(c.connID)
	case cmdSelectWord:
		r.handleSelectWord(c.connID, c.word)
	case cmdExitGame:
		r.handleExitGame(c.connID)
	case cmdGetState:
		r.handleGetState(c.sink)
	default:
		r.log.Warn("unknown room command", zap.Any("command", c))
	}
}

// teardown stops all timers before any state is discarded, so a late tick
// cannot fire against a deleted room.
func (r *Room) teardown() {
	if r.game != nil {
		r.game.stopTimers()
		r.game = nil
	}
	if r.onEmpty != nil {
		r.onEmpty(r.id)
	}
	close(r.done)
	r.log.Info("room deleted, no players left")
}

// findPlayer returns the member with the given connection id and its index,
// or (nil, -1).
func (r *Room) findPlayer(connID string) (*Player, int) {
	for i, p := range r.players {
		if p.ConnID == connID {
			return p, i
		}
	}
	return nil, -1
}

func (r *Room) playerInfos() []event.PlayerInfo {
	infos := make([]event.PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		infos = append(infos, p.Info())
	}
	return infos
}

// broadcast pushes an event to every member in processing order.
func (r *Room) broadcast(ev event.Event) {
	for _, p := range r.players {
		r.push(p, ev)
	}
}

// broadcastExcept pushes an event to every member except the given connection.
func (r *Room) broadcastExcept(connID string, ev event.Event) {
	for _, p := range r.players {
		if p.ConnID == connID {
			continue
		}
		r.push(p, ev)
	}
}

// sendTo pushes an event to a single member, if present.
func (r *Room) sendTo(connID string, ev event.Event) {
	if p, _ := r.findPlayer(connID); p != nil {
		r.push(p, ev)
	}
}

func (r *Room) push(p *Player, ev event.Event) {
	if err := p.Sink.Push(ev); err != nil {
		r.log.Debug("dropping event for slow or closed sink",
			zap.String("conn_id", p.ConnID),
			zap.String("event", string(ev.Type)),
			zap.Error(err),
		)
	}
}

func (r *Room) broadcastUpdatedPlayers() {
	r.broadcast(event.New(event.TypeUpdatedPlayers, event.UpdatedPlayers{
		RoomID:  r.id,
		Players: r.playerInfos(),
		Host:    r.host,
	}))
}
