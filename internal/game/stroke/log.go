package stroke

// Log is a room's append-only stroke history. It is not safe for concurrent
// use; each room's worker goroutine owns its Log exclusively.
type Log struct {
	points []Point
}

// NewLog creates an empty stroke log.
func NewLog() *Log {
	return &Log{}
}

// Append adds validated points to the end of the log.
//
// Precondition: pts must already have passed Filter.
func (l *Log) Append(pts []Point) {
	l.points = append(l.points, pts...)
}

// Clear discards the entire history. Used on explicit canvas clears and at
// the start of every round.
func (l *Log) Clear() {
	l.points = nil
}

// Len returns the number of stored points.
func (l *Log) Len() int {
	return len(l.points)
}

// Snapshot returns a copy of the history in append order, for replay to a
// late joiner.
//
// Postcondition: The returned slice is independent of the log's storage.
func (l *Log) Snapshot() []Point {
	if len(l.points) == 0 {
		return nil
	}
	out := make([]Point, len(l.points))
	copy(out, l.points)
	return out
}
