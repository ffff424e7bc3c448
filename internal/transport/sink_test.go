package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/scrawl/internal/game/event"
)

func TestSinkPushAndClose(t *testing.T) {
	s := newConnSink(2)

	require.NoError(t, s.Push(event.New(event.TypeCanvasCleared, nil)))
	s.Close()

	err := s.Push(event.New(event.TypeCanvasCleared, nil))
	assert.ErrorIs(t, err, ErrSinkClosed)

	// Close is idempotent.
	s.Close()
}

func TestSinkDropsWhenFull(t *testing.T) {
	s := newConnSink(1)

	require.NoError(t, s.Push(event.New(event.TypeCanvasCleared, nil)))
	err := s.Push(event.New(event.TypeCanvasCleared, nil))
	assert.ErrorIs(t, err, ErrSinkFull)
}
