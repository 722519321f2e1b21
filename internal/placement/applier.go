// Package placement applies signature artifacts to documents, one page at a
// time, and orchestrates multi-document batch runs.
//
// The Applier validates ownership and bounds, then delegates the actual
// page mutation to the Encoder collaborator (pdfcpu in production). Each
// successful call produces exactly one new Placement with a fresh Revision;
// nothing is retried implicitly.
package placement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-signpdf/internal/geometry"
)

// Encoder is the storage/encoding collaborator. It stamps the artifact
// image onto the given page of the document and returns the path of the new
// output file. It owns every file-format concern.
type Encoder interface {
	Encode(ctx context.Context, doc *Document, pageNr int, art *Artifact, rect geometry.Rect) (outputPath string, err error)
}

type Applier struct {
	enc Encoder
}

func NewApplier(enc Encoder) *Applier {
	return &Applier{enc: enc}
}

// Apply stamps the artifact at rect (native units) on the given page and
// returns the resulting Placement.
//
// Validation failures come back as typed errors: KindNotFound for a missing
// artifact, document or page, KindForbidden when the principal does not own
// them, KindOutOfBounds when the rectangle leaves the page. Encoder errors
// surface as KindTransientIO and are left for the caller to retry.
func (a *Applier) Apply(ctx context.Context, principal string, art *Artifact, doc *Document, pageNr int, rect geometry.Rect) (*Placement, error) {
	if art == nil {
		return nil, E(KindNotFound, "signature artifact does not exist")
	}
	if art.Owner != principal {
		return nil, E(KindForbidden, "artifact %s is not owned by the requester", art.ID)
	}
	if doc == nil {
		return nil, E(KindNotFound, "document does not exist")
	}
	if doc.Owner != principal {
		return nil, E(KindForbidden, "document %s is not owned by the requester", doc.ID)
	}
	pg, ok := doc.PageGeometry(pageNr)
	if !ok {
		return nil, E(KindNotFound, "document %s has no page %d", doc.ID, pageNr)
	}
	if rect.W <= 0 || rect.H <= 0 {
		return nil, E(KindInvalidPosition, "rectangle %+v has no area", rect)
	}
	if !geometry.InsidePage(rect, pg) {
		return nil, E(KindOutOfBounds, "rectangle %+v exceeds page %d bounds %vx%v",
			rect, pageNr, pg.Width, pg.Height)
	}

	out, err := a.enc.Encode(ctx, doc, pageNr, art, rect)
	if err != nil {
		return nil, Wrap(KindTransientIO, err, "encoding page %d of document %s", pageNr, doc.ID)
	}

	return &Placement{
		ID:         uuid.New().String(),
		ArtifactID: art.ID,
		DocumentID: doc.ID,
		Page:       pageNr,
		Rect:       rect,
		Revision:   Revision{ID: uuid.New().String(), OutputPath: out},
		CreatedAt:  time.Now(),
	}, nil
}
