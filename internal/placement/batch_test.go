package placement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"go-signpdf/internal/position"
)

func TestBatchPartialFailure(t *testing.T) {
	t.Parallel()

	enc := &fakeEncoder{failFor: map[string]error{"B": errors.New("connection reset")}}
	orch := NewOrchestrator(NewApplier(enc))
	art := testArtifact("alice")
	targets := []Target{
		{Document: testDocument("A", "alice"), Page: 1},
		{Document: testDocument("B", "alice"), Page: 1},
		{Document: testDocument("C", "alice"), Page: 1},
	}

	res := orch.Run(context.Background(), "alice", art, targets, position.Grid{Cell: position.TopLeft})

	require.Len(t, res.Outcomes, 3)
	require.Equal(t, 2, res.Applied)
	require.Equal(t, 1, res.Failed)
	require.False(t, res.Succeeded())

	// Order is preserved: A applied, B failed, C applied.
	require.Equal(t, Applied, res.Outcomes[0].State)
	require.Equal(t, "A", res.Outcomes[0].Placement.DocumentID)
	require.Equal(t, Failed, res.Outcomes[1].State)
	kind, ok := KindOf(res.Outcomes[1].Err)
	require.True(t, ok)
	require.Equal(t, KindTransientIO, kind)
	require.Equal(t, Applied, res.Outcomes[2].State)
	require.Equal(t, "C", res.Outcomes[2].Placement.DocumentID)

	// B's failure did not stop C: all three targets reached the encoder
	// except the rejected one, which still consumed a call.
	require.Equal(t, 3, enc.calls)
}

func TestBatchAllSucceed(t *testing.T) {
	t.Parallel()

	orch := NewOrchestrator(NewApplier(&fakeEncoder{}))
	targets := []Target{
		{Document: testDocument("A", "alice"), Page: 1},
		{Document: testDocument("B", "alice"), Page: 1},
	}
	res := orch.Run(context.Background(), "alice", testArtifact("alice"), targets, position.Grid{Cell: position.BottomRight})
	require.True(t, res.Succeeded())
	require.Equal(t, 2, res.Applied)
	require.Zero(t, res.Failed)
}

func TestBatchMissingDocumentFailsThatTargetOnly(t *testing.T) {
	t.Parallel()

	orch := NewOrchestrator(NewApplier(&fakeEncoder{}))
	targets := []Target{
		{Document: testDocument("A", "alice"), Page: 1},
		{Document: nil, Page: 1},
	}
	res := orch.Run(context.Background(), "alice", testArtifact("alice"), targets, position.Grid{Cell: position.TopLeft})
	require.Equal(t, 1, res.Applied)
	require.Equal(t, 1, res.Failed)
	kind, ok := KindOf(res.Outcomes[1].Err)
	require.True(t, ok)
	require.Equal(t, KindNotFound, kind)
}

func TestBatchInvalidPositionFailsAllTargetsIndividually(t *testing.T) {
	t.Parallel()

	orch := NewOrchestrator(NewApplier(&fakeEncoder{}))
	targets := []Target{
		{Document: testDocument("A", "alice"), Page: 1},
		{Document: testDocument("B", "alice"), Page: 1},
	}
	res := orch.Run(context.Background(), "alice", testArtifact("alice"), targets, nil)
	require.Equal(t, 2, res.Failed)
	for _, out := range res.Outcomes {
		kind, ok := KindOf(out.Err)
		require.True(t, ok)
		require.Equal(t, KindInvalidPosition, kind)
	}
}

func TestBatchNotIdempotent(t *testing.T) {
	t.Parallel()

	orch := NewOrchestrator(NewApplier(&fakeEncoder{}))
	targets := []Target{{Document: testDocument("A", "alice"), Page: 1}}
	art := testArtifact("alice")

	first := orch.Run(context.Background(), "alice", art, targets, position.Grid{Cell: position.TopLeft})
	second := orch.Run(context.Background(), "alice", art, targets, position.Grid{Cell: position.TopLeft})
	require.True(t, first.Succeeded())
	require.True(t, second.Succeeded())
	require.NotEqual(t, first.Outcomes[0].Placement.Revision.ID, second.Outcomes[0].Placement.Revision.ID)
}

func TestBatchResolvesPerTargetGeometry(t *testing.T) {
	t.Parallel()

	small := testDocument("small", "alice")
	small.Pages[0].Width = 200
	small.Pages[0].Height = 100
	targets := []Target{
		{Document: testDocument("letter", "alice"), Page: 1},
		{Document: small, Page: 1},
	}
	orch := NewOrchestrator(NewApplier(&fakeEncoder{}))
	res := orch.Run(context.Background(), "alice", testArtifact("alice"), targets, position.Grid{Cell: position.TopLeft})
	require.True(t, res.Succeeded())

	// The same cell lands proportionally on each page.
	require.InDelta(t, 30.6, res.Outcomes[0].Placement.Rect.X, 1e-6)
	require.InDelta(t, 10.0, res.Outcomes[1].Placement.Rect.X, 1e-6)
}
