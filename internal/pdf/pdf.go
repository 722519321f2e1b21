// Package pdf is the pdfcpu-backed collaborator layer: it reads page
// geometry for uploaded documents, stamps signature images onto pages,
// merges signed outputs, and generates signing certificates.
//
// Functions:
//   - Validate: checks an uploaded file is a readable PDF.
//   - Geometry: returns per-page native dimensions.
//   - Encoder.Encode: stamps a signature image at a native-unit rectangle
//     and writes a new output file.
//   - WriteCertificate: renders a one-page certificate PDF for a placement.
//   - MergePDFs / RemoveBookmarks: combine signed outputs for download.
//
// These functions are used by the API handlers; the engine packages never
// touch pdfcpu directly.
package pdf

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"go-signpdf/internal/geometry"
	"go-signpdf/internal/placement"
)

// Validate checks that the file at path parses as a PDF.
func Validate(path string) error {
	return pdfapi.ValidateFile(path, model.NewDefaultConfiguration())
}

// Geometry reads the native size of every page. Rotation and scale are
// viewer concerns: the renderer reports them per session, so pages start
// unrotated at scale 1 here.
func Geometry(path string) ([]geometry.Page, error) {
	dims, err := pdfapi.PageDimsFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}
	pages := make([]geometry.Page, len(dims))
	for i, d := range dims {
		pages[i] = geometry.Page{Width: d.Width, Height: d.Height, Rotation: 0, Scale: 1}
	}
	return pages, nil
}

// Encoder implements placement.Encoder by stamping the artifact image onto
// a copy of the document with a pdfcpu image watermark.
type Encoder struct {
	OutputDir string
}

// Encode stamps the artifact's image so it fills rect on the given page.
// rect is in native units with a top-left origin; pdfcpu offsets are
// measured from the bottom-left corner, so the vertical axis is flipped
// against the page height before stamping.
func (e Encoder) Encode(ctx context.Context, doc *placement.Document, pageNr int, art *placement.Artifact, rect geometry.Rect) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if art.ImagePath == "" {
		return "", fmt.Errorf("artifact %s has no raster image", art.ID)
	}
	pg, ok := doc.PageGeometry(pageNr)
	if !ok {
		return "", fmt.Errorf("document %s has no page %d", doc.ID, pageNr)
	}

	scale, err := imageScale(art.ImagePath, rect.W)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(e.OutputDir, fmt.Sprintf("signed-%s.pdf", uuid.New().String()))
	if err := copyFile(doc.Path, outPath); err != nil {
		return "", fmt.Errorf("failed to copy PDF: %w", err)
	}

	desc := fmt.Sprintf("scale:%.4f abs, pos:bl, rot:0, op:1", scale)
	wm, err := pdfcpu.ParseImageWatermarkDetails(art.ImagePath, desc, true, types.POINTS)
	if err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("failed to parse image watermark: %w", err)
	}

	// Anchor at bottom-left plus offsets.
	wm.Dx = rect.X
	wm.Dy = pg.Height - rect.Y - rect.H

	config := model.NewDefaultConfiguration()
	pages := []string{fmt.Sprintf("%d", pageNr)}
	if err := pdfapi.AddWatermarksFile(outPath, "", pages, wm, config); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("failed to apply signature: %w", err)
	}
	return outPath, nil
}

// imageScale computes the absolute watermark scale so the image's natural
// width (pixels, taken as points at 72dpi) shrinks or grows to targetW.
func imageScale(imagePath string, targetW float64) (float64, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open signature image: %w", err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, fmt.Errorf("failed to decode signature image: %w", err)
	}
	if cfg.Width <= 0 {
		return 0, fmt.Errorf("signature image has zero width")
	}
	return targetW / float64(cfg.Width), nil
}

type certContent struct {
	Text []certText `json:"text"`
}

type certPageEntry struct {
	Content certContent `json:"content"`
}

// certSpec mirrors the subset of pdfcpu's create-JSON schema used for
// certificates.
type certSpec struct {
	Paper string                   `json:"paper"`
	Pages map[string]certPageEntry `json:"pages"`
}

type certText struct {
	Value  string   `json:"value"`
	Anchor string   `json:"anchor"`
	Dx     float64  `json:"dx,omitempty"`
	Dy     float64  `json:"dy,omitempty"`
	Font   certFont `json:"font"`
}

type certFont struct {
	Name string  `json:"name"`
	Size float64 `json:"size"`
}

// WriteCertificate generates a one-page signing certificate for a
// placement, listing who signed what, where on the page, and the resulting
// revision. The page is built with pdfcpu's create API from a JSON
// description written to a scratch file next to the output.
func WriteCertificate(pl *placement.Placement, art *placement.Artifact, doc *placement.Document, outPath string) error {
	lines := []struct {
		text string
		size float64
		dy   float64
	}{
		{"Signing Certificate", 24, -120},
		{fmt.Sprintf("Document: %s", doc.Name), 12, -170},
		{fmt.Sprintf("Signed by: %s", holderLine(art)), 12, -190},
		{fmt.Sprintf("Location: %s", orDash(art.Location)), 12, -210},
		{fmt.Sprintf("Page %d at (%.1f, %.1f), %.1f x %.1f native units",
			pl.Page, pl.Rect.X, pl.Rect.Y, pl.Rect.W, pl.Rect.H), 12, -230},
		{fmt.Sprintf("Revision: %s", pl.Revision.ID), 12, -250},
		{fmt.Sprintf("Issued: %s", time.Now().UTC().Format(time.RFC3339)), 10, -280},
	}

	var entry certPageEntry
	for _, ln := range lines {
		entry.Content.Text = append(entry.Content.Text, certText{
			Value:  ln.text,
			Anchor: "center",
			Dy:     ln.dy,
			Font:   certFont{Name: "Helvetica", Size: ln.size},
		})
	}
	spec := certSpec{Paper: "A4", Pages: map[string]certPageEntry{"1": entry}}

	blob, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to marshal certificate spec: %w", err)
	}
	jsonPath := outPath + ".json"
	if err := os.WriteFile(jsonPath, blob, 0644); err != nil {
		return fmt.Errorf("failed to write certificate spec: %w", err)
	}
	defer os.Remove(jsonPath)

	config := model.NewDefaultConfiguration()
	if err := pdfapi.CreateFile("", jsonPath, outPath, config); err != nil {
		return fmt.Errorf("failed to create certificate: %w", err)
	}
	return nil
}

func holderLine(art *placement.Artifact) string {
	if art.Organization != "" {
		return fmt.Sprintf("%s (%s)", art.Holder, art.Organization)
	}
	return art.Holder
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// MergePDFs merges multiple PDF files into a single output file.
func MergePDFs(files []string, outputPath string) error {
	config := model.NewDefaultConfiguration()
	return pdfapi.MergeCreateFile(files, outputPath, false, config)
}

// RemoveBookmarks removes bookmarks from a PDF file in-place.
func RemoveBookmarks(pdfPath string) error {
	config := model.NewDefaultConfiguration()
	return pdfapi.RemoveBookmarksFile(pdfPath, pdfPath, config)
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}
