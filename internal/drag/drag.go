// Package drag implements the pointer-interaction state machine for moving
// a placed signature.
//
// One Session tracks one drag from pointer-down to pointer-up. Every
// pointer-move updates a live-preview rectangle only; nothing is persisted
// until release. A session is single-user and terminal: once committed or
// cancelled it ignores further events, and a new pointer-down always starts
// a fresh Session.
package drag

import (
	"fmt"

	"go-signpdf/internal/geometry"
	"go-signpdf/internal/position"
)

type State int

const (
	Dragging State = iota
	Committed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Session is one in-progress drag. All methods are synchronous O(1)
// updates; the session is meant for a single goroutine.
type Session struct {
	page    geometry.Page
	offset  geometry.Point // pointer-down offset inside the rectangle
	origin  geometry.Rect  // pre-drag rendered rectangle, for revert
	preview geometry.Rect  // live rendered rectangle
	state   State
}

// Begin starts a drag with the pointer at p over a signature currently
// rendered at rect. The pointer must hit the rectangle.
func Begin(p geometry.Point, rect geometry.Rect, pg geometry.Page) (*Session, error) {
	if !pg.Valid() {
		return nil, fmt.Errorf("invalid page snapshot %+v", pg)
	}
	if rect.W <= 0 || rect.H <= 0 {
		return nil, fmt.Errorf("signature rectangle %+v has no area", rect)
	}
	if p.X < rect.X || p.X > rect.X+rect.W || p.Y < rect.Y || p.Y > rect.Y+rect.H {
		return nil, fmt.Errorf("pointer (%.2f,%.2f) outside hit region %+v", p.X, p.Y, rect)
	}
	return &Session{
		page:    pg,
		offset:  geometry.Point{X: p.X - rect.X, Y: p.Y - rect.Y},
		origin:  rect,
		preview: rect,
		state:   Dragging,
	}, nil
}

// Move advances the live preview to follow the pointer. The rectangle is
// clamped so it stays fully inside the rendered page; partial overlap is
// not allowed. Moves after commit or cancel are ignored.
func (s *Session) Move(p geometry.Point) geometry.Rect {
	if s.state != Dragging {
		return s.preview
	}
	rw, rh := s.page.RenderedSize()
	next := geometry.Rect{
		X: p.X - s.offset.X,
		Y: p.Y - s.offset.Y,
		W: s.preview.W,
		H: s.preview.H,
	}
	s.preview = geometry.ClampRect(next, rw, rh)
	return s.preview
}

// Release ends the drag at pointer position p and converts the final
// rendered rectangle into a Freeform position carrying the page snapshot.
// On conversion failure the session cancels itself and the preview reverts
// to the pre-drag rectangle.
func (s *Session) Release(p geometry.Point) (position.Freeform, error) {
	if s.state != Dragging {
		return position.Freeform{}, fmt.Errorf("release in terminal state %s", s.state)
	}
	final := s.Move(p)
	pos := position.Freeform{Rect: final, Snapshot: s.page}
	if _, err := geometry.RectToPageNative(final, s.page); err != nil {
		s.state = Cancelled
		s.preview = s.origin
		return position.Freeform{}, fmt.Errorf("drag release: %w", err)
	}
	s.state = Committed
	return pos, nil
}

// Cancel aborts the drag and reverts the preview. Safe to call in any
// state; used both for explicit cancellation and when applying the
// committed position fails downstream.
func (s *Session) Cancel() geometry.Rect {
	s.state = Cancelled
	s.preview = s.origin
	return s.preview
}

// Preview returns the current live rectangle in rendered pixels.
func (s *Session) Preview() geometry.Rect { return s.preview }

func (s *Session) State() State { return s.state }

// Page returns the snapshot captured at pointer-down.
func (s *Session) Page() geometry.Page { return s.page }
