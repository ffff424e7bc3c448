package room

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/cory-johannsen/scrawl/internal/game/event"
	"github.com/cory-johannsen/scrawl/internal/game/score"
)

// phase is the round engine's state. An idle room has no game at all.
type phase int

const (
	// phasePending: game started, waiting out the start delay before round 1.
	phasePending phase = iota
	// phaseSelectingWord: word offer is out, timer not running, guesses inert.
	phaseSelectingWord
	// phaseRoundActive: word chosen, countdown running, guesses evaluated.
	phaseRoundActive
	// phaseRoundEnd: word revealed, waiting out the pause to the next round.
	phaseRoundEnd
)

// game is the per-room round state machine. Owned by the room worker; the
// ticker and pause timer it holds are the only scheduled work tied to a
// round, and both are stopped on every transition that ends a round or game.
type game struct {
	phase         phase
	round         int // completed drawer turns, 0-based
	totalRounds   int
	drawerIndex   int // index into the room's live player list
	currentWord   string
	wordOptions   []string
	guessers      map[string]bool // connIDs that guessed correctly this round
	timeRemaining int
	ledger        *score.Ledger

	ticker *time.Ticker // countdown, non-nil only while phaseRoundActive
	pause  *time.Timer  // start delay or inter-round pause
}

// stopTimers cancels all scheduled work. Must be called before the game
// state is discarded, so a stale tick can never fire against reset state.
func (g *game) stopTimers() {
	if g.ticker != nil {
		g.ticker.Stop()
		g.ticker = nil
	}
	if g.pause != nil {
		g.pause.Stop()
		g.pause = nil
	}
}

// currentDrawer returns the player whose turn it is, or nil when no game is
// running or the room is empty.
func (r *Room) currentDrawer() *Player {
	if r.game == nil || len(r.players) == 0 {
		return nil
	}
	return r.players[r.game.drawerIndex%len(r.players)]
}

// handleStartGame starts a game: host-only, two players minimum. The score
// ledger is seeded with zero for every current player and round 1 begins
// after the configured start delay.
func (r *Room) handleStartGame(connID string) {
	p, _ := r.findPlayer(connID)
	if p == nil {
		return
	}
	if p.Username != r.host {
		// Stale client state; ignored, not erred.
		r.log.Debug("start-game from non-host ignored", zap.String("username", p.Username))
		return
	}
	if r.game != nil {
		return
	}
	if len(r.players) < 2 {
		r.sendTo(connID, event.New(event.TypeRoomError, event.RoomError{
			Message: "Need at least 2 players to start the game!",
		}))
		return
	}

	connIDs := make([]string, 0, len(r.players))
	for _, member := range r.players {
		connIDs = append(connIDs, member.ConnID)
	}

	r.game = &game{
		phase:         phasePending,
		totalRounds:   r.cfg.TotalRounds,
		guessers:      make(map[string]bool),
		timeRemaining: r.cfg.RoundDuration,
		ledger:        score.NewLedger(connIDs),
	}

	r.broadcast(event.New(event.TypeGameRunning, event.GameRunning{Players: r.playerInfos()}))

	// Short delay so clients can render game-start UI before the word offer.
	r.game.pause = time.NewTimer(r.cfg.StartDelay)

	r.log.Info("game started",
		zap.Int("players", len(r.players)),
		zap.Int("total_rounds", r.game.totalRounds),
	)
}

// handlePause fires when the start delay or inter-round pause elapses.
func (r *Room) handlePause() {
	if r.game == nil {
		return
	}
	if r.game.pause != nil {
		r.game.pause.Stop()
		r.game.pause = nil
	}
	r.advanceRound()
}

// advanceRound enters the next round, or ends the game once every scheduled
// round has been played.
func (r *Room) advanceRound() {
	if r.game.round >= r.game.totalRounds {
		r.finishGame()
		return
	}
	r.beginRound()
}

// beginRound enters SelectingWord: fresh word offer, cleared canvas, reset
// guessers and clock. The countdown does not run yet.
func (r *Room) beginRound() {
	g := r.game
	g.phase = phaseSelectingWord
	g.guessers = make(map[string]bool)
	g.timeRemaining = r.cfg.RoundDuration
	g.currentWord = ""
	if len(r.players) > 0 {
		g.drawerIndex %= len(r.players)
	}
	g.wordOptions = r.words.PickOptions(r.rng, r.cfg.WordOptions)

	r.strokes.Clear()
	r.broadcast(event.New(event.TypeCanvasCleared, nil))

	drawer := r.currentDrawer()
	r.broadcast(event.New(event.TypeRoundStarted, event.RoundStarted{
		Round:         g.round + 1,
		Drawer:        drawer.Info(),
		WordOptions:   g.wordOptions,
		TimeRemaining: g.timeRemaining,
		Scores:        g.ledger.Snapshot(),
	}))

	r.log.Info("round started",
		zap.Int("round", g.round+1),
		zap.String("drawer", drawer.Username),
	)
}

// handleSelectWord records the drawer's choice and activates the round.
// Selection by anyone but the current drawer, or outside SelectingWord, is
// silently ignored to tolerate stale client state.
func (r *Room) handleSelectWord(connID, word string) {
	g := r.game
	if g == nil || g.phase != phaseSelectingWord {
		return
	}
	drawer := r.currentDrawer()
	if drawer == nil || drawer.ConnID != connID {
		r.log.Debug("select-word from non-drawer ignored", zap.String("conn_id", connID))
		return
	}
	word = strings.TrimSpace(word)
	if word == "" {
		return
	}

	g.currentWord = word
	g.phase = phaseRoundActive

	// Non-drawers learn only the length; the drawer gets the word back.
	for _, p := range r.players {
		selected := event.WordSelected{
			Drawer:     drawer.Username,
			WordLength: utf8.RuneCountInString(word),
		}
		if p.ConnID == connID {
			selected.Word = word
		}
		r.push(p, event.New(event.TypeWordSelected, selected))
	}

	r.broadcast(event.New(event.TypeTimerStarted, event.TimerStarted{TimeRemaining: g.timeRemaining}))
	g.ticker = time.NewTicker(r.cfg.TickInterval)

	r.log.Info("word selected, countdown running", zap.String("drawer", drawer.Username))
}

// handleChat evaluates the message as a guess first; anything else is plain
// room chat, broadcast to everyone including the sender. The sender's
// display name comes from the membership list, never the wire.
func (r *Room) handleChat(connID, text string) {
	p, _ := r.findPlayer(connID)
	if p == nil {
		return
	}
	if r.evaluateGuess(p, text) {
		// Correct guesses are announced via guess-correct, never echoed as
		// chat, or the word would leak to the remaining guessers.
		return
	}
	r.broadcast(event.New(event.TypeRoomMessage, event.RoomMessage{
		Username: p.Username,
		Text:     text,
	}))
}

// evaluateGuess awards points for a correct guess and ends the round early
// once every non-drawer has guessed. Returns true if the message was a
// correct guess.
func (r *Room) evaluateGuess(p *Player, text string) bool {
	g := r.game
	if g == nil || g.phase != phaseRoundActive || g.currentWord == "" {
		return false
	}
	drawer := r.currentDrawer()
	if drawer == nil || drawer.ConnID == p.ConnID {
		return false
	}
	if g.guessers[p.ConnID] {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(text), g.currentWord) {
		return false
	}

	points := score.PointsFor(g.timeRemaining)
	g.ledger.Award(p.ConnID, points)
	g.guessers[p.ConnID] = true

	r.broadcast(event.New(event.TypeGuessCorrect, event.GuessCorrect{
		Guesser:       p.Username,
		Points:        points,
		TimeRemaining: g.timeRemaining,
		Scores:        g.ledger.Snapshot(),
	}))

	r.log.Info("correct guess",
		zap.String("guesser", p.Username),
		zap.Int("points", points),
		zap.Int("time_remaining", g.timeRemaining),
	)

	if len(g.guessers) >= len(r.players)-1 {
		r.endRound(true)
	}
	return true
}

// handleTick advances the countdown by one time unit. A tick that arrives
// after the round ended is a no-op.
func (r *Room) handleTick() {
	g := r.game
	if g == nil || g.phase != phaseRoundActive {
		return
	}
	g.timeRemaining--
	r.broadcast(event.New(event.TypeTimeUpdate, event.TimeUpdate{TimeRemaining: g.timeRemaining}))
	if g.timeRemaining <= 0 {
		r.endRound(false)
	}
}

// endRound closes the current round on either path (all guessed or timeout):
// cancel the countdown, reveal the word, rotate the drawer, and schedule the
// next transition.
func (r *Room) endRound(allGuessed bool) {
	g := r.game
	if g.ticker != nil {
		g.ticker.Stop()
		g.ticker = nil
	}
	g.phase = phaseRoundEnd

	r.broadcast(event.New(event.TypeRoundEnded, event.RoundEnded{
		Word:       g.currentWord,
		Scores:     g.ledger.Snapshot(),
		AllGuessed: allGuessed,
	}))

	g.round++
	if n := len(r.players); n > 0 {
		g.drawerIndex = (g.drawerIndex + 1) % n
	}
	g.pause = time.NewTimer(r.cfg.RoundPause)

	r.log.Info("round ended",
		zap.Int("rounds_played", g.round),
		zap.Bool("all_guessed", allGuessed),
	)
}

// finishGame broadcasts the final ledger and returns the room to idle.
func (r *Room) finishGame() {
	g := r.game
	g.stopTimers()
	r.broadcast(event.New(event.TypeGameOver, event.GameOver{
		Scores:  g.ledger.Snapshot(),
		Players: r.playerInfos(),
	}))
	r.game = nil
	r.log.Info("game over")
}

// endGameByQuit ends the whole game because a player disconnected during an
// active round. No partial-round continuation: final scores are broadcast as
// they stood, with no points for the aborted round.
func (r *Room) endGameByQuit(quitter *Player) {
	g := r.game
	g.stopTimers()

	scores := g.ledger.Snapshot()
	players := r.playerInfos()
	reason := "A player quit during the game"

	drawer := r.currentDrawer()
	if drawer != nil && drawer.ConnID == quitter.ConnID {
		reason = "Drawer quit during active round"
		r.broadcast(event.New(event.TypeDrawerQuit, event.DrawerQuit{
			Drawer:  quitter.Username,
			Message: fmt.Sprintf("%s (drawer) quit! Round cancelled. No points awarded.", quitter.Username),
		}))
	}

	r.broadcast(event.New(event.TypeGameEndedByQuit, event.GameEndedByQuit{
		Scores:     scores,
		Players:    players,
		QuitPlayer: quitter.Username,
		Reason:     reason,
	}))

	r.game = nil
	r.log.Info("game ended by quit",
		zap.String("quit_player", quitter.Username),
		zap.String("reason", reason),
	)
}

// playerRemovedDuringGame keeps the rotation valid after a departure that
// did not end the game: the drawer index is re-clamped against the shrunken
// list, a pending word offer is re-issued if it belonged to the departed
// drawer, and the game is aborted when fewer than two players remain.
func (r *Room) playerRemovedDuringGame(departed *Player, removedIdx int) {
	g := r.game

	if len(r.players) < 2 {
		g.stopTimers()
		r.broadcast(event.New(event.TypeGameEndedByQuit, event.GameEndedByQuit{
			Scores:     g.ledger.Snapshot(),
			Players:    r.playerInfos(),
			QuitPlayer: departed.Username,
			Reason:     "Not enough players to continue",
		}))
		r.game = nil
		r.log.Info("game aborted, not enough players")
		return
	}

	wasDrawer := removedIdx == g.drawerIndex
	if removedIdx < g.drawerIndex {
		g.drawerIndex--
	}
	g.drawerIndex %= len(r.players)

	if wasDrawer && g.phase == phaseSelectingWord {
		r.beginRound()
	}
}
