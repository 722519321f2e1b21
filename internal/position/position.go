// Package position models where a signature goes on a page: either a named
// grid cell or a free-form rectangle captured from a drag.
//
// A Position resolves to a page-native rectangle. Grid positions resolve
// against the live page geometry; free-form positions resolve against the
// viewport snapshot captured when the user released the drag, so a later
// zoom or resize cannot relocate an already-placed signature.
package position

import (
	"errors"
	"fmt"

	"go-signpdf/internal/geometry"
)

// ErrInvalidPosition reports malformed grid or free-form data.
var ErrInvalidPosition = errors.New("invalid position")

// GridCell is one of the nine fixed placement slots.
type GridCell int

const (
	TopLeft GridCell = iota
	TopCenter
	TopRight
	MiddleLeft
	MiddleCenter
	MiddleRight
	BottomLeft
	BottomCenter
	BottomRight
)

// Fractional grid geometry. Cells keep a margin from the page edge and are
// sized so every cell lies fully inside the page.
const (
	cellMargin = 0.05
	cellWidth  = 0.25
	cellHeight = 0.10
)

var cellNames = map[GridCell]string{
	TopLeft:      "top-left",
	TopCenter:    "top-center",
	TopRight:     "top-right",
	MiddleLeft:   "middle-left",
	MiddleCenter: "middle-center",
	MiddleRight:  "middle-right",
	BottomLeft:   "bottom-left",
	BottomCenter: "bottom-center",
	BottomRight:  "bottom-right",
}

func (c GridCell) String() string {
	if s, ok := cellNames[c]; ok {
		return s
	}
	return fmt.Sprintf("grid-cell(%d)", int(c))
}

// ParseGridCell maps a wire name like "top-left" to its cell.
func ParseGridCell(name string) (GridCell, error) {
	for c, s := range cellNames {
		if s == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown grid cell %q: %w", name, ErrInvalidPosition)
}

// Fraction returns the cell's fixed fractional rectangle of the page.
func (c GridCell) Fraction() geometry.Rect {
	var fx, fy float64
	switch c {
	case TopLeft, MiddleLeft, BottomLeft:
		fx = cellMargin
	case TopCenter, MiddleCenter, BottomCenter:
		fx = (1 - cellWidth) / 2
	case TopRight, MiddleRight, BottomRight:
		fx = 1 - cellMargin - cellWidth
	}
	switch c {
	case TopLeft, TopCenter, TopRight:
		fy = cellMargin
	case MiddleLeft, MiddleCenter, MiddleRight:
		fy = (1 - cellHeight) / 2
	case BottomLeft, BottomCenter, BottomRight:
		fy = 1 - cellMargin - cellHeight
	}
	return geometry.Rect{X: fx, Y: fy, W: cellWidth, H: cellHeight}
}

// Position is the placement sum type. The two variants are Grid and
// Freeform; the unexported method keeps the set closed so Resolve can
// match exhaustively.
type Position interface {
	isPosition()
}

// Grid places the signature in a fixed cell of whatever page it is
// resolved against.
type Grid struct {
	Cell GridCell
}

// Freeform places the signature at a rectangle captured in rendered
// viewport pixels, together with the page snapshot needed to map it back
// to native units without re-reading the live viewport.
type Freeform struct {
	Rect     geometry.Rect
	Snapshot geometry.Page
}

func (Grid) isPosition()     {}
func (Freeform) isPosition() {}

// Resolve converts a Position to a page-native rectangle on the given page.
//
// Grid cells scale their fractional rectangle by the page's native size, so
// the same cell on the same page always yields the identical rectangle.
// Freeform positions are mapped through the stored snapshot; the live page
// is only used to confirm the result still fits the page.
func Resolve(p Position, pg geometry.Page) (geometry.Rect, error) {
	switch v := p.(type) {
	case Grid:
		if _, ok := cellNames[v.Cell]; !ok {
			return geometry.Rect{}, fmt.Errorf("grid cell %d: %w", int(v.Cell), ErrInvalidPosition)
		}
		frac := v.Cell.Fraction()
		return geometry.Rect{
			X: frac.X * pg.Width,
			Y: frac.Y * pg.Height,
			W: frac.W * pg.Width,
			H: frac.H * pg.Height,
		}, nil
	case Freeform:
		if v.Rect.W <= 0 || v.Rect.H <= 0 {
			return geometry.Rect{}, fmt.Errorf("free-form size %.2fx%.2f: %w", v.Rect.W, v.Rect.H, ErrInvalidPosition)
		}
		if !v.Snapshot.Valid() {
			return geometry.Rect{}, fmt.Errorf("free-form snapshot %+v: %w", v.Snapshot, ErrInvalidPosition)
		}
		native, err := geometry.RectToPageNative(v.Rect, v.Snapshot)
		if err != nil {
			return geometry.Rect{}, err
		}
		if !geometry.InsidePage(native, pg) {
			return geometry.Rect{}, fmt.Errorf("free-form rectangle %+v exceeds page %vx%v: %w",
				native, pg.Width, pg.Height, geometry.ErrOutOfBounds)
		}
		return native, nil
	case nil:
		return geometry.Rect{}, fmt.Errorf("missing position: %w", ErrInvalidPosition)
	default:
		return geometry.Rect{}, fmt.Errorf("position type %T: %w", p, ErrInvalidPosition)
	}
}

// Equivalent reports whether two positions resolve to the same rectangle on
// the given page, within the native-unit epsilon.
func Equivalent(a, b Position, pg geometry.Page) bool {
	ra, err := Resolve(a, pg)
	if err != nil {
		return false
	}
	rb, err := Resolve(b, pg)
	if err != nil {
		return false
	}
	return geometry.EqualRect(ra, rb)
}
