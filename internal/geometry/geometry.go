// Package geometry converts points and rectangles between the rendered
// viewport and a page's native coordinate system.
//
// Three coordinate spaces are involved:
//   - page-native units: intrinsic to the PDF page, origin top-left
//   - rendered pixels: the page image as currently displayed, after the
//     viewer's scale and rotation have been applied
//   - viewport pixels: same as rendered pixels here; callers subtract the
//     page image's screen offset before calling in
//
// All conversions rotate about the rendered center before scaling, so a page
// rotated 90 or 270 degrees swaps its effective axes correctly.
package geometry

import (
	"errors"
	"fmt"
)

// Epsilon is the tolerance used when comparing resolved coordinates in
// native units.
const Epsilon = 1e-6

// ErrOutOfBounds reports a point or rectangle outside the page area.
var ErrOutOfBounds = errors.New("out of page bounds")

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle with origin at its top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Page describes one page as the renderer displays it: native size,
// rotation in degrees (0/90/180/270) and the display scale factor
// (rendered pixels per native unit).
type Page struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation int     `json:"rotation"`
	Scale    float64 `json:"scale"`
}

// Valid reports whether the page snapshot can be used for conversions.
func (pg Page) Valid() bool {
	if pg.Width <= 0 || pg.Height <= 0 || pg.Scale <= 0 {
		return false
	}
	switch pg.Rotation {
	case 0, 90, 180, 270:
		return true
	}
	return false
}

// RenderedSize returns the on-screen size of the page image. Rotating by
// 90 or 270 degrees swaps the axes.
func (pg Page) RenderedSize() (w, h float64) {
	if pg.Rotation == 90 || pg.Rotation == 270 {
		return pg.Height * pg.Scale, pg.Width * pg.Scale
	}
	return pg.Width * pg.Scale, pg.Height * pg.Scale
}

// ToPageNative maps a rendered-viewport point to native units. Points
// outside the rendered page area are rejected with ErrOutOfBounds.
func ToPageNative(p Point, pg Page) (Point, error) {
	if !pg.Valid() {
		return Point{}, fmt.Errorf("invalid page snapshot %+v", pg)
	}
	rw, rh := pg.RenderedSize()
	if p.X < 0 || p.Y < 0 || p.X > rw || p.Y > rh {
		return Point{}, fmt.Errorf("viewport point (%.2f,%.2f) outside rendered area %vx%v: %w",
			p.X, p.Y, rw, rh, ErrOutOfBounds)
	}
	return unrotate(p, pg), nil
}

// ToViewport is the inverse of ToPageNative.
func ToViewport(p Point, pg Page) (Point, error) {
	if !pg.Valid() {
		return Point{}, fmt.Errorf("invalid page snapshot %+v", pg)
	}
	if p.X < 0 || p.Y < 0 || p.X > pg.Width || p.Y > pg.Height {
		return Point{}, fmt.Errorf("native point (%.2f,%.2f) outside page %vx%v: %w",
			p.X, p.Y, pg.Width, pg.Height, ErrOutOfBounds)
	}
	return rotate(p, pg), nil
}

// unrotate undoes the display rotation about the rendered center, then
// divides out the scale.
func unrotate(p Point, pg Page) Point {
	rw, rh := pg.RenderedSize()
	s := pg.Scale
	switch pg.Rotation {
	case 90:
		return Point{X: p.Y / s, Y: (rw - p.X) / s}
	case 180:
		return Point{X: (rw - p.X) / s, Y: (rh - p.Y) / s}
	case 270:
		return Point{X: (rh - p.Y) / s, Y: p.X / s}
	default:
		return Point{X: p.X / s, Y: p.Y / s}
	}
}

func rotate(p Point, pg Page) Point {
	rw, rh := pg.RenderedSize()
	s := pg.Scale
	switch pg.Rotation {
	case 90:
		return Point{X: rw - p.Y*s, Y: p.X * s}
	case 180:
		return Point{X: rw - p.X*s, Y: rh - p.Y*s}
	case 270:
		return Point{X: p.Y * s, Y: rh - p.X*s}
	default:
		return Point{X: p.X * s, Y: p.Y * s}
	}
}

// RectToPageNative maps a rendered rectangle to native units by converting
// opposite corners and renormalizing, so the result is valid for any
// rotation. Either corner landing outside the rendered area fails with
// ErrOutOfBounds.
func RectToPageNative(r Rect, pg Page) (Rect, error) {
	tl, err := ToPageNative(Point{X: r.X, Y: r.Y}, pg)
	if err != nil {
		return Rect{}, err
	}
	br, err := ToPageNative(Point{X: r.X + r.W, Y: r.Y + r.H}, pg)
	if err != nil {
		return Rect{}, err
	}
	return normalize(tl, br), nil
}

func normalize(a, b Point) Rect {
	x, y := a.X, a.Y
	if b.X < x {
		x = b.X
	}
	if b.Y < y {
		y = b.Y
	}
	w, h := a.X-b.X, a.Y-b.Y
	if w < 0 {
		w = -w
	}
	if h < 0 {
		h = -h
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

// ClampRect shifts r so that it lies fully inside the box (0,0,w,h).
// Rectangles larger than the box are pinned to the origin.
func ClampRect(r Rect, w, h float64) Rect {
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	if r.X+r.W > w {
		r.X = w - r.W
	}
	if r.Y+r.H > h {
		r.Y = h - r.H
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	return r
}

// InsidePage reports whether r lies fully inside the page in native units,
// allowing Epsilon slack at the edges.
func InsidePage(r Rect, pg Page) bool {
	return r.X >= -Epsilon && r.Y >= -Epsilon &&
		r.X+r.W <= pg.Width+Epsilon && r.Y+r.H <= pg.Height+Epsilon
}

// EqualRect compares two native-unit rectangles within Epsilon.
func EqualRect(a, b Rect) bool {
	return close(a.X, b.X) && close(a.Y, b.Y) && close(a.W, b.W) && close(a.H, b.H)
}

func close(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= Epsilon
}
