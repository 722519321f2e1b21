package placement

import (
	"time"

	"go-signpdf/internal/geometry"
)

// Artifact is one signature the user can place: an optional raster image
// plus the holder metadata printed on certificates. Immutable once created;
// placements reference it by ID and never copy it.
type Artifact struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ImagePath    string    `json:"-"`
	Holder       string    `json:"holder"`
	Organization string    `json:"organization,omitempty"`
	Location     string    `json:"location,omitempty"`
	TimeZone     string    `json:"timeZone,omitempty"`
	Owner        string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Document is an uploaded PDF plus its per-page native geometry as reported
// by the renderer. Pages are read-only to the engine.
type Document struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Path  string          `json:"-"`
	Owner string          `json:"-"`
	Pages []geometry.Page `json:"pages"`
}

// PageGeometry returns the native geometry of a 1-based page number.
func (d *Document) PageGeometry(pageNr int) (geometry.Page, bool) {
	if pageNr < 1 || pageNr > len(d.Pages) {
		return geometry.Page{}, false
	}
	return d.Pages[pageNr-1], true
}

// Revision identifies one signed output of a document.
type Revision struct {
	ID         string `json:"id"`
	OutputPath string `json:"-"`
}

// Placement is a committed signature position: one artifact on one page of
// one document at a resolved native rectangle. A move supersedes the prior
// placement rather than mutating it.
type Placement struct {
	ID         string        `json:"id"`
	ArtifactID string        `json:"artifactId"`
	DocumentID string        `json:"documentId"`
	Page       int           `json:"page"`
	Rect       geometry.Rect `json:"rect"`
	Revision   Revision      `json:"revision"`
	Supersedes string        `json:"supersedes,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}
