package placement

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"go-signpdf/internal/geometry"
)

// fakeEncoder records calls and fails on request.
type fakeEncoder struct {
	calls   int
	failFor map[string]error // document ID -> error
}

func (f *fakeEncoder) Encode(ctx context.Context, doc *Document, pageNr int, art *Artifact, rect geometry.Rect) (string, error) {
	f.calls++
	if err, ok := f.failFor[doc.ID]; ok {
		return "", err
	}
	return fmt.Sprintf("/out/%s-p%d-%d.pdf", doc.ID, pageNr, f.calls), nil
}

func testArtifact(owner string) *Artifact {
	return &Artifact{ID: "art-1", Name: "sig", Holder: "Jo Doe", Owner: owner, ImagePath: "/img/sig.png"}
}

func testDocument(id, owner string) *Document {
	return &Document{
		ID:    id,
		Name:  id + ".pdf",
		Path:  "/in/" + id + ".pdf",
		Owner: owner,
		Pages: []geometry.Page{{Width: 612, Height: 792, Rotation: 0, Scale: 1}},
	}
}

func TestApplySuccess(t *testing.T) {
	t.Parallel()

	enc := &fakeEncoder{}
	a := NewApplier(enc)
	pl, err := a.Apply(context.Background(), "alice", testArtifact("alice"), testDocument("doc-1", "alice"),
		1, geometry.Rect{X: 30, Y: 40, W: 150, H: 80})
	require.NoError(t, err)
	require.NotEmpty(t, pl.ID)
	require.NotEmpty(t, pl.Revision.ID)
	require.Equal(t, "doc-1", pl.DocumentID)
	require.Equal(t, 1, pl.Page)
	require.Equal(t, 1, enc.calls)
}

func TestApplyOutOfBoundsNeverClamped(t *testing.T) {
	t.Parallel()

	enc := &fakeEncoder{}
	a := NewApplier(enc)
	// One native unit past the right edge is enough to reject.
	_, err := a.Apply(context.Background(), "alice", testArtifact("alice"), testDocument("doc-1", "alice"),
		1, geometry.Rect{X: 560, Y: 40, W: 53, H: 80})
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindOutOfBounds, kind)
	require.Zero(t, enc.calls, "encoder must not run for an out-of-bounds rectangle")
}

func TestApplyMissingArtifact(t *testing.T) {
	t.Parallel()

	a := NewApplier(&fakeEncoder{})
	_, err := a.Apply(context.Background(), "alice", nil, testDocument("doc-1", "alice"),
		1, geometry.Rect{X: 10, Y: 10, W: 50, H: 20})
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindNotFound, kind)
}

func TestApplyForeignArtifactForbidden(t *testing.T) {
	t.Parallel()

	a := NewApplier(&fakeEncoder{})
	_, err := a.Apply(context.Background(), "mallory", testArtifact("alice"), testDocument("doc-1", "mallory"),
		1, geometry.Rect{X: 10, Y: 10, W: 50, H: 20})
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindForbidden, kind)
}

func TestApplyMissingPage(t *testing.T) {
	t.Parallel()

	a := NewApplier(&fakeEncoder{})
	_, err := a.Apply(context.Background(), "alice", testArtifact("alice"), testDocument("doc-1", "alice"),
		7, geometry.Rect{X: 10, Y: 10, W: 50, H: 20})
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindNotFound, kind)
}

func TestApplyEncoderFailureIsTransient(t *testing.T) {
	t.Parallel()

	enc := &fakeEncoder{failFor: map[string]error{"doc-1": errors.New("disk full")}}
	a := NewApplier(enc)
	_, err := a.Apply(context.Background(), "alice", testArtifact("alice"), testDocument("doc-1", "alice"),
		1, geometry.Rect{X: 10, Y: 10, W: 50, H: 20})
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindTransientIO, kind)
}

func TestApplyMintsFreshRevisions(t *testing.T) {
	t.Parallel()

	a := NewApplier(&fakeEncoder{})
	art := testArtifact("alice")
	doc := testDocument("doc-1", "alice")
	rect := geometry.Rect{X: 10, Y: 10, W: 50, H: 20}

	first, err := a.Apply(context.Background(), "alice", art, doc, 1, rect)
	require.NoError(t, err)
	second, err := a.Apply(context.Background(), "alice", art, doc, 1, rect)
	require.NoError(t, err)
	require.NotEqual(t, first.Revision.ID, second.Revision.ID)
	require.NotEqual(t, first.ID, second.ID)
}
