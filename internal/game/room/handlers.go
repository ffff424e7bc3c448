package room

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/scrawl/internal/game/event"
	"github.com/cory-johannsen/scrawl/internal/game/stroke"
)

// handleJoin appends the player to the end of the member list, preserving
// turn order, replays the stroke history and current color to the joiner
// only, and announces the new roster to the whole room.
func (r *Room) handleJoin(p *Player, hintGameState bool) {
	r.players = append(r.players, p)

	// Snapshot for the late joiner. Replaying the log then applying live
	// broadcasts reproduces exactly what original members saw.
	if snap := r.strokes.Snapshot(); len(snap) > 0 {
		r.push(p, event.New(event.TypeStrokeBatch, event.StrokeBatch{Points: snap}))
	}
	r.push(p, event.New(event.TypeStrokeColorChanged, r.color))
	if hintGameState {
		r.push(p, event.New(event.TypeGameRunning, event.GameRunning{Players: r.playerInfos()}))
	}

	r.broadcast(event.New(event.TypeRoomJoined, event.RoomJoined{
		Username: p.Username,
		RoomID:   r.id,
		Host:     r.host,
	}))
	r.broadcastUpdatedPlayers()
	r.broadcast(event.New(event.TypeRoomMessage, event.RoomMessage{
		Text: fmt.Sprintf("%s Joined the Room", p.Username),
	}))

	r.log.Info("player joined",
		zap.String("username", p.Username),
		zap.String("conn_id", p.ConnID),
		zap.Int("players", len(r.players)),
	)
}

// handleLeave removes a disconnected player. A departure during an active
// round ends the whole game first; a departure at any other time is a normal
// room departure with host reassignment.
func (r *Room) handleLeave(connID string) {
	p, idx := r.findPlayer(connID)
	if p == nil {
		return
	}

	if r.game != nil && r.game.phase == phaseRoundActive {
		r.endGameByQuit(p)
	}

	r.players = append(r.players[:idx], r.players[idx+1:]...)

	if r.game != nil {
		r.playerRemovedDuringGame(p, idx)
	}

	if len(r.players) == 0 {
		// The worker loop tears the room down after this handler returns.
		return
	}

	if r.host == p.Username {
		r.host = r.players[0].Username
		r.broadcast(event.New(event.TypeNewHost, event.NewHost{Username: r.host}))
		r.log.Info("host reassigned", zap.String("new_host", r.host))
	}

	r.broadcast(event.New(event.TypeRoomMessage, event.RoomMessage{
		Text: fmt.Sprintf("%s left the room", p.Username),
	}))
	r.broadcastUpdatedPlayers()

	r.log.Info("player left",
		zap.String("username", p.Username),
		zap.Int("players", len(r.players)),
	)
}

// handleExitGame announces a voluntary exit without touching membership; the
// transport-level disconnect that follows does the removal.
func (r *Room) handleExitGame(connID string) {
	p, _ := r.findPlayer(connID)
	if p == nil {
		return
	}
	r.broadcast(event.New(event.TypeRoomMessage, event.RoomMessage{
		Text: fmt.Sprintf("%s left the Game", p.Username),
	}))
}

// handleGetState reports the roster to the requesting sink only. The
// requester may not be a member yet (page reload).
func (r *Room) handleGetState(sink EventSink) {
	ev := event.New(event.TypeUpdatedPlayers, event.UpdatedPlayers{
		RoomID:  r.id,
		Players: r.playerInfos(),
		Host:    r.host,
	})
	if err := sink.Push(ev); err != nil {
		r.log.Debug("dropping state snapshot", zap.Error(err))
	}
}

// handleStrokes validates a raw point batch, tags survivors with the room's
// active color, appends them to the log, and broadcasts to everyone but the
// sender. An all-invalid batch is dropped whole.
func (r *Room) handleStrokes(connID string, raw []stroke.RawPoint) {
	if _, idx := r.findPlayer(connID); idx < 0 {
		return
	}

	accepted := stroke.Filter(raw, r.color)
	if len(accepted) == 0 {
		return
	}

	r.strokes.Append(accepted)
	r.broadcastExcept(connID, event.New(event.TypeStrokeBatch, event.StrokeBatch{Points: accepted}))
}

// handleClear empties the stroke log and notifies every member, the sender
// included.
func (r *Room) handleClear(connID string) {
	if _, idx := r.findPlayer(connID); idx < 0 {
		return
	}
	r.strokes.Clear()
	r.broadcast(event.New(event.TypeCanvasCleared, nil))
}

// handleSetColor resolves the palette name and switches the room's shared
// ink. Unknown names are rejected back to the requester, never defaulted.
func (r *Room) handleSetColor(connID, name string) {
	if _, idx := r.findPlayer(connID); idx < 0 {
		return
	}

	c, err := stroke.ResolveColor(name)
	if err != nil {
		r.sendTo(connID, event.New(event.TypeRoomError, event.RoomError{
			Message: fmt.Sprintf("unknown stroke color %q", name),
		}))
		return
	}

	r.color = c
	r.broadcast(event.New(event.TypeStrokeColorChanged, c))
}

// handleInterpolate re-broadcasts a straight-line fill hint tagged with the
// current room color. Never stored; purely a rendering aid.
func (r *Room) handleInterpolate(connID string, start, end event.Coord) {
	if _, idx := r.findPlayer(connID); idx < 0 {
		return
	}
	r.broadcastExcept(connID, event.New(event.TypeInterpolate, event.Interpolate{
		Start: start,
		End:   end,
		Color: r.color.Value,
	}))
}
