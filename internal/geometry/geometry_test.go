package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCenterMapsToCenter(t *testing.T) {
	t.Parallel()

	for _, rot := range []int{0, 90, 180, 270} {
		pg := Page{Width: 612, Height: 792, Rotation: rot, Scale: 1.5}
		rw, rh := pg.RenderedSize()
		got, err := ToPageNative(Point{X: rw / 2, Y: rh / 2}, pg)
		require.NoError(t, err, "rotation %d", rot)
		require.InDelta(t, pg.Width/2, got.X, Epsilon, "rotation %d", rot)
		require.InDelta(t, pg.Height/2, got.Y, Epsilon, "rotation %d", rot)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	points := []Point{
		{X: 0, Y: 0},
		{X: 10, Y: 20},
		{X: 300, Y: 400},
		{X: 612, Y: 792},
	}
	for _, rot := range []int{0, 90, 180, 270} {
		pg := Page{Width: 612, Height: 792, Rotation: rot, Scale: 0.75}
		for _, p := range points {
			vp, err := ToViewport(p, pg)
			require.NoError(t, err, "rotation %d point %+v", rot, p)
			back, err := ToPageNative(vp, pg)
			require.NoError(t, err, "rotation %d point %+v", rot, p)
			require.InDelta(t, p.X, back.X, Epsilon)
			require.InDelta(t, p.Y, back.Y, Epsilon)
		}
	}
}

func TestRotationSwapsAxes(t *testing.T) {
	t.Parallel()

	pg := Page{Width: 612, Height: 792, Rotation: 90, Scale: 1}
	rw, rh := pg.RenderedSize()
	require.Equal(t, 792.0, rw)
	require.Equal(t, 612.0, rh)

	// The rendered top-right corner is the native origin under 90cw.
	got, err := ToPageNative(Point{X: rw, Y: 0}, pg)
	require.NoError(t, err)
	require.InDelta(t, 0, got.X, Epsilon)
	require.InDelta(t, 0, got.Y, Epsilon)
}

func TestOutOfBoundsRejected(t *testing.T) {
	t.Parallel()

	pg := Page{Width: 612, Height: 792, Rotation: 0, Scale: 1}
	_, err := ToPageNative(Point{X: -1, Y: 10}, pg)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = ToPageNative(Point{X: 10, Y: 793}, pg)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = ToViewport(Point{X: 613, Y: 10}, pg)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestInvalidSnapshotRejected(t *testing.T) {
	t.Parallel()

	_, err := ToPageNative(Point{X: 1, Y: 1}, Page{Width: 612, Height: 792, Rotation: 45, Scale: 1})
	require.Error(t, err)

	_, err = ToPageNative(Point{X: 1, Y: 1}, Page{Width: 612, Height: 792, Rotation: 0, Scale: 0})
	require.Error(t, err)
}

func TestRectToPageNative(t *testing.T) {
	t.Parallel()

	pg := Page{Width: 612, Height: 792, Rotation: 0, Scale: 2}
	got, err := RectToPageNative(Rect{X: 100, Y: 200, W: 50, H: 20}, pg)
	require.NoError(t, err)
	require.InDelta(t, 50, got.X, Epsilon)
	require.InDelta(t, 100, got.Y, Epsilon)
	require.InDelta(t, 25, got.W, Epsilon)
	require.InDelta(t, 10, got.H, Epsilon)
}

func TestRectToPageNativeRotated(t *testing.T) {
	t.Parallel()

	// Under rotation the mapped corners swap roles; the result must still
	// be a normalized rectangle inside the page.
	pg := Page{Width: 612, Height: 792, Rotation: 90, Scale: 1}
	got, err := RectToPageNative(Rect{X: 100, Y: 100, W: 50, H: 20}, pg)
	require.NoError(t, err)
	require.True(t, got.W > 0 && got.H > 0)
	require.True(t, InsidePage(got, pg))
	// Axes swap: rendered width becomes native height.
	require.InDelta(t, 20, got.W, Epsilon)
	require.InDelta(t, 50, got.H, Epsilon)
}

func TestClampRect(t *testing.T) {
	t.Parallel()

	got := ClampRect(Rect{X: -10, Y: 5, W: 50, H: 20}, 100, 100)
	require.Equal(t, Rect{X: 0, Y: 5, W: 50, H: 20}, got)

	got = ClampRect(Rect{X: 80, Y: 90, W: 50, H: 20}, 100, 100)
	require.Equal(t, Rect{X: 50, Y: 80, W: 50, H: 20}, got)
}

func TestInsidePage(t *testing.T) {
	t.Parallel()

	pg := Page{Width: 612, Height: 792, Rotation: 0, Scale: 1}
	require.True(t, InsidePage(Rect{X: 0, Y: 0, W: 612, H: 792}, pg))
	require.False(t, InsidePage(Rect{X: 0, Y: 0, W: 612.1, H: 792}, pg))
	require.False(t, InsidePage(Rect{X: -0.1, Y: 0, W: 10, H: 10}, pg))
}
