package palette

// Host is the application embedding the palette. The engine calls Navigate
// when a navigation item is confirmed; path strings are passed through
// untouched.
type Host interface {
	Navigate(path string)
}

// FocusRequester is implemented by hosts that want a signal to move input
// focus into the palette when it opens. The call is fire-and-forget.
type FocusRequester interface {
	RequestFocus()
}

// CloseObserver is implemented by hosts that need to know when the palette
// closes and why.
type CloseObserver interface {
	PaletteClosed(reason CloseReason)
}

// CloseReason says how a session ended.
type CloseReason int

const (
	// CloseDismissed means the session ended without dispatch (Escape,
	// outside pointer press, host close).
	CloseDismissed CloseReason = iota
	// CloseConfirmed means an item was dispatched.
	CloseConfirmed
)

func (r CloseReason) String() string {
	switch r {
	case CloseConfirmed:
		return "confirmed"
	default:
		return "dismissed"
	}
}

// HostFuncs adapts plain functions to Host, FocusRequester and CloseObserver.
// Nil fields are skipped.
type HostFuncs struct {
	NavigateFn func(path string)
	FocusFn    func()
	ClosedFn   func(reason CloseReason)
}

func (h HostFuncs) Navigate(path string) {
	if h.NavigateFn != nil {
		h.NavigateFn(path)
	}
}

func (h HostFuncs) RequestFocus() {
	if h.FocusFn != nil {
		h.FocusFn()
	}
}

func (h HostFuncs) PaletteClosed(reason CloseReason) {
	if h.ClosedFn != nil {
		h.ClosedFn(reason)
	}
}
