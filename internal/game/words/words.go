// Package words provides the drawable word list and random word offers
// for the round engine.
package words

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// defaultWords is the built-in drawable word list, used when no words file
// is configured.
var defaultWords = []string{
	"apple", "banana", "cat", "dog", "house", "tree", "sun", "moon", "star", "cloud",
	"car", "bus", "train", "plane", "bicycle", "boat", "flower", "fish", "bird", "butterfly",
	"pizza", "hamburger", "ice cream", "cake", "sandwich", "heart", "diamond", "circle", "square",
	"mountain", "river", "bridge", "tower", "castle", "rocket", "alien", "dinosaur", "elephant", "lion",
	"snake", "spider", "guitar", "piano", "drum", "flag", "umbrella", "shoe", "hat", "cup",
	"bottle", "clock", "telescope", "microscope", "anchor", "book", "pencil", "scissors",
}

// List is a validated, deduplicated set of drawable words.
type List struct {
	words []string
}

// NewList builds a List from the given words.
// Entries are trimmed and deduplicated case-insensitively; order of first
// occurrence is preserved.
//
// Precondition: ws must contain at least one non-blank entry.
// Postcondition: Returns a List with no duplicates, or a non-nil error.
func NewList(ws []string) (*List, error) {
	seen := make(map[string]bool, len(ws))
	deduped := make([]string, 0, len(ws))
	for _, w := range ws {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		key := strings.ToLower(w)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, w)
	}
	if len(deduped) == 0 {
		return nil, errors.New("word list is empty")
	}
	return &List{words: deduped}, nil
}

// Default returns the built-in word list.
func Default() *List {
	l, err := NewList(defaultWords)
	if err != nil {
		panic(fmt.Sprintf("words: invalid built-in list: %v", err))
	}
	return l
}

// Len returns the number of words in the list.
func (l *List) Len() int {
	return len(l.words)
}

// Contains reports whether w is in the list, compared case-insensitively.
func (l *List) Contains(w string) bool {
	key := strings.ToLower(strings.TrimSpace(w))
	for _, cand := range l.words {
		if strings.ToLower(cand) == key {
			return true
		}
	}
	return false
}

// PickOptions returns n distinct random words from the list.
// If n exceeds the list length, every word is returned.
//
// Precondition: rng must be non-nil; n must be >= 1.
// Postcondition: The returned slice contains no duplicates.
func (l *List) PickOptions(rng *rand.Rand, n int) []string {
	if n > len(l.words) {
		n = len(l.words)
	}
	perm := rng.Perm(len(l.words))
	picked := make([]string, 0, n)
	for _, idx := range perm[:n] {
		picked = append(picked, l.words[idx])
	}
	return picked
}
