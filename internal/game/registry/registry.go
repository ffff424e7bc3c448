// Package registry maps room ids to running rooms. It is the only shared
// mutable structure in the coordinator and the only place a lock is held;
// everything behind a Handle is single-threaded.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/scrawl/internal/config"
	"github.com/cory-johannsen/scrawl/internal/game/room"
	"github.com/cory-johannsen/scrawl/internal/game/words"
)

var (
	// ErrDuplicateRoom is returned when creating a room whose id is taken.
	ErrDuplicateRoom = errors.New("room id already exists")
	// ErrRoomNotFound is returned when looking up an unknown room id.
	ErrRoomNotFound = errors.New("room not found")
)

// Registry holds all live rooms keyed by room id. Safe for concurrent use.
type Registry struct {
	cfg    config.GameConfig
	words  *words.List
	logger *zap.Logger

	mu    sync.Mutex
	rooms map[string]*room.Handle
}

// New builds an empty registry. Every room it creates shares the given game
// config and word list.
func New(cfg config.GameConfig, wl *words.List, logger *zap.Logger) *Registry {
	return &Registry{
		cfg:    cfg,
		words:  wl,
		logger: logger,
		rooms:  make(map[string]*room.Handle),
	}
}

// Create starts a new room with the creating player as host and sole member.
// Rooms remove themselves from the registry when their last player leaves.
//
// Postcondition: Returns a live Handle registered under roomID, or
// ErrDuplicateRoom if the id is taken.
func (reg *Registry) Create(roomID string, creator *room.Player) (*room.Handle, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.rooms[roomID]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateRoom, roomID)
	}

	var h *room.Handle
	h = room.Start(roomID, creator, room.Options{
		Config: reg.cfg,
		Words:  reg.words,
		Logger: reg.logger,
		// Runs on the room worker; h is visible because both Create and
		// remove synchronize on reg.mu.
		OnEmpty: func(id string) { reg.remove(id, h) },
	})
	reg.rooms[roomID] = h

	return h, nil
}

// Lookup returns the handle for roomID, or ErrRoomNotFound.
func (reg *Registry) Lookup(roomID string) (*room.Handle, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	h, ok := reg.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, roomID)
	}
	return h, nil
}

// Len returns the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}

// remove drops the mapping for id, but only if it still points at h: the id
// may have been reused by a room created after h emptied.
func (reg *Registry) remove(id string, h *room.Handle) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if current, ok := reg.rooms[id]; ok && current == h {
		delete(reg.rooms, id)
	}
}
