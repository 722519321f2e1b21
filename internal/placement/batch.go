package placement

import (
	"context"

	"go-signpdf/internal/position"
)

// Target is one (document, page) pair in a batch run.
type Target struct {
	Document *Document
	Page     int
}

type OutcomeState int

const (
	Pending OutcomeState = iota
	Applied
	Failed
)

func (s OutcomeState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Applied:
		return "applied"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Outcome is one target's result slot. Written at most once, by the task
// that processed the target.
type Outcome struct {
	State     OutcomeState
	Placement *Placement
	Err       error
}

// BatchResult aggregates a run. Outcomes preserve the input target order so
// callers can correlate positionally.
type BatchResult struct {
	Outcomes []Outcome
	Applied  int
	Failed   int
}

// Succeeded reports whether every target applied.
func (r BatchResult) Succeeded() bool {
	return r.Failed == 0 && r.Applied == len(r.Outcomes)
}

// Orchestrator runs one artifact + position across many targets.
type Orchestrator struct {
	applier *Applier
}

func NewOrchestrator(a *Applier) *Orchestrator {
	return &Orchestrator{applier: a}
}

// Run applies the shared position to every target in order. A failing
// target records its error and the run continues; there is no fail-fast and
// no automatic retry. Repeated runs with identical arguments are not
// idempotent: each successful application mints a new revision.
//
// The position is resolved per target against that document page's own
// geometry, so one grid cell lands proportionally on pages of differing
// sizes. Targets are processed sequentially; each outcome slot is written
// exactly once, so a concurrent fan-out would need no additional locking.
func (o *Orchestrator) Run(ctx context.Context, principal string, art *Artifact, targets []Target, pos position.Position) BatchResult {
	res := BatchResult{Outcomes: make([]Outcome, len(targets))}
	for i, tgt := range targets {
		res.Outcomes[i] = o.applyOne(ctx, principal, art, tgt, pos)
		if res.Outcomes[i].State == Applied {
			res.Applied++
		} else {
			res.Failed++
		}
	}
	return res
}

func (o *Orchestrator) applyOne(ctx context.Context, principal string, art *Artifact, tgt Target, pos position.Position) Outcome {
	if tgt.Document == nil {
		return Outcome{State: Failed, Err: E(KindNotFound, "target document does not exist")}
	}
	pg, ok := tgt.Document.PageGeometry(tgt.Page)
	if !ok {
		return Outcome{State: Failed, Err: E(KindNotFound, "document %s has no page %d", tgt.Document.ID, tgt.Page)}
	}
	rect, err := position.Resolve(pos, pg)
	if err != nil {
		return Outcome{State: Failed, Err: Wrap(KindInvalidPosition, err, "resolving position for document %s page %d", tgt.Document.ID, tgt.Page)}
	}
	pl, err := o.applier.Apply(ctx, principal, art, tgt.Document, tgt.Page, rect)
	if err != nil {
		return Outcome{State: Failed, Err: err}
	}
	return Outcome{State: Applied, Placement: pl}
}
