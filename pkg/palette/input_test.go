package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleKeyProtocol(t *testing.T) {
	e, h := newTestEngine(scenarioRegistry())
	assert.False(t, e.HandleKey(KeyDown), "closed palette must not consume keys")

	e.Open()
	assert.True(t, e.HandleKey(KeyDown))
	assert.Equal(t, 1, cursorOf(t, e))
	assert.True(t, e.HandleKey(KeyUp))
	assert.True(t, e.HandleKey(KeyUp))
	assert.Equal(t, 2, cursorOf(t, e))
	assert.False(t, e.HandleKey(KeyNone))

	assert.True(t, e.HandleKey(KeyEnter))
	assert.Equal(t, []string{"/products/new"}, h.navigated)
	assert.False(t, e.IsOpen())

	e.Open()
	assert.True(t, e.HandleKey(KeyEscape))
	assert.False(t, e.IsOpen())
	assert.Len(t, h.navigated, 1)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "down", KeyDown.String())
	assert.Equal(t, "escape", KeyEscape.String())
	assert.Equal(t, "none", Key(99).String())
}

func TestPointerDownBackdropDismisses(t *testing.T) {
	e, h := newTestEngine(scenarioRegistry())
	e.Open()
	e.PointerDown(SurfacePanel, "")
	assert.True(t, e.IsOpen())

	e.PointerDown(SurfaceBackdrop, "")
	assert.False(t, e.IsOpen())
	assert.Equal(t, []CloseReason{CloseDismissed}, h.closed)
	assert.Empty(t, h.navigated)

	// Closed palette ignores pointer events.
	e.PointerDown(SurfaceBackdrop, "")
	assert.Len(t, h.closed, 1)
}

func TestPointerDownItemConfirms(t *testing.T) {
	e, h := newTestEngine(scenarioRegistry())
	e.Open()
	e.PointerDown(SurfaceItem, "missing")
	assert.True(t, e.IsOpen())

	e.PointerDown(SurfaceItem, "users")
	assert.Equal(t, []string{"/users"}, h.navigated)
	assert.False(t, e.IsOpen())
}

func TestPointerMoveHovers(t *testing.T) {
	e, _ := newTestEngine(scenarioRegistry())
	e.Open()
	e.PointerMove("create-product")
	assert.Equal(t, 2, cursorOf(t, e))
}
