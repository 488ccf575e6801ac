package palette

// Key is a palette key in the fixed input protocol. Hosts translate their
// native key events into these.
type Key int

const (
	KeyNone Key = iota
	KeyDown
	KeyUp
	KeyEnter
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "escape"
	default:
		return "none"
	}
}

// HandleKey applies the transition bound to k. It returns false when the
// palette is closed or k is KeyNone, so the host can route the key elsewhere.
func (e *Engine) HandleKey(k Key) bool {
	if e.s == nil {
		return false
	}
	switch k {
	case KeyDown:
		e.MoveNext()
	case KeyUp:
		e.MovePrevious()
	case KeyEnter:
		e.Confirm()
	case KeyEscape:
		e.Dismiss()
	default:
		return false
	}
	return true
}

// Surface identifies what a pointer event landed on.
type Surface int

const (
	// SurfaceBackdrop is anything outside the palette box.
	SurfaceBackdrop Surface = iota
	// SurfacePanel is the palette box outside any result row (header, input, borders).
	SurfacePanel
	// SurfaceItem is a result row; the event carries the row's item id.
	SurfaceItem
)

// PointerDown handles a pointer press. A press on the backdrop dismisses; a
// press on a row selects and confirms it; a press on the panel does nothing.
func (e *Engine) PointerDown(surface Surface, id string) {
	if e.s == nil {
		return
	}
	switch surface {
	case SurfaceBackdrop:
		e.Dismiss()
	case SurfaceItem:
		if e.Hover(id) {
			e.Confirm()
		}
	}
}

// PointerMove handles pointer hover over a result row.
func (e *Engine) PointerMove(id string) {
	e.Hover(id)
}
