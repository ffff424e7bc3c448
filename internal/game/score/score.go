// Package score provides the per-game score ledger and the time-based
// points schedule for correct guesses.
package score

// PointsFor returns the points awarded for a correct guess made with the
// given time remaining. Rewards step down as time runs out.
//
// Postcondition: Returns a value in {0, 50, 100, 150, 200, 250}; 0 only when
// timeRemaining <= 0.
func PointsFor(timeRemaining int) int {
	switch {
	case timeRemaining > 50:
		return 250
	case timeRemaining > 40:
		return 200
	case timeRemaining > 30:
		return 150
	case timeRemaining > 20:
		return 100
	case timeRemaining > 10:
		return 50
	case timeRemaining > 0:
		return 50
	default:
		return 0
	}
}

// Ledger tracks each player's running point total for one game, keyed by
// connection id. It persists across rounds and is reset only when a new game
// starts. Not safe for concurrent use; owned by the room worker.
type Ledger struct {
	totals map[string]int
}

// NewLedger creates a ledger seeded with a zero entry for every given
// connection id.
//
// Postcondition: Total(id) == 0 for every seeded id.
func NewLedger(connIDs []string) *Ledger {
	totals := make(map[string]int, len(connIDs))
	for _, id := range connIDs {
		totals[id] = 0
	}
	return &Ledger{totals: totals}
}

// Award adds points to the given player's total.
//
// Precondition: points must be >= 0.
// Postcondition: Total(connID) increased by points; a missing entry is
// created first, seeded at zero.
func (l *Ledger) Award(connID string, points int) {
	l.totals[connID] += points
}

// Total returns the player's current total, or zero if unknown.
func (l *Ledger) Total(connID string) int {
	return l.totals[connID]
}

// Snapshot returns a copy of all totals.
//
// Postcondition: The returned map is independent of the ledger's storage.
func (l *Ledger) Snapshot() map[string]int {
	out := make(map[string]int, len(l.totals))
	for id, total := range l.totals {
		out[id] = total
	}
	return out
}
