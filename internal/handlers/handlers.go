// Package handlers provides HTTP handlers for the document-signing API.
//
// This package contains the endpoints for session management, document and
// signature-artifact upload, grid and drag placement, single and batch
// application, certificates, and download.
//
// Example usage:
//
//	h := handlers.NewAPIHandler(sessionManager, uploadDir, outputDir, encoder, certifier)
//	r := chi.NewRouter()
//	r.Post("/api/sessions/", h.CreateSession)
//
// All handlers are designed to be used with the chi router.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"go-signpdf/internal/drag"
	"go-signpdf/internal/geometry"
	"go-signpdf/internal/pdf"
	"go-signpdf/internal/placement"
	"go-signpdf/internal/position"
	"go-signpdf/internal/session"
	"go-signpdf/internal/utils"
)

// Certifier generates a downloadable certificate PDF for a placement.
type Certifier interface {
	WriteCertificate(pl *placement.Placement, art *placement.Artifact, doc *placement.Document, outPath string) error
}

// CertifierFunc adapts a plain function to the Certifier interface.
type CertifierFunc func(pl *placement.Placement, art *placement.Artifact, doc *placement.Document, outPath string) error

func (f CertifierFunc) WriteCertificate(pl *placement.Placement, art *placement.Artifact, doc *placement.Document, outPath string) error {
	return f(pl, art, doc, outPath)
}

type APIHandler struct {
	SessionManager *session.SessionManager
	UploadDir      string
	OutputDir      string
	Certifier      Certifier

	applier      *placement.Applier
	orchestrator *placement.Orchestrator
}

func NewAPIHandler(sm *session.SessionManager, uploadDir, outputDir string, enc placement.Encoder, cert Certifier) *APIHandler {
	applier := placement.NewApplier(enc)
	return &APIHandler{
		SessionManager: sm,
		UploadDir:      uploadDir,
		OutputDir:      outputDir,
		Certifier:      cert,
		applier:        applier,
		orchestrator:   placement.NewOrchestrator(applier),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeEngineError maps engine failure kinds to HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	writeEngineErrorWith(w, err, nil)
}

func writeEngineErrorWith(w http.ResponseWriter, err error, extra map[string]any) {
	body := map[string]any{"error": err.Error()}
	for k, v := range extra {
		body[k] = v
	}
	kind, ok := placement.KindOf(err)
	if !ok {
		switch {
		case errors.Is(err, geometry.ErrOutOfBounds):
			kind = placement.KindOutOfBounds
		case errors.Is(err, position.ErrInvalidPosition):
			kind = placement.KindInvalidPosition
		default:
			log.Printf("Unclassified engine error: %v", err)
			writeJSON(w, http.StatusInternalServerError, body)
			return
		}
	}
	body["kind"] = kind.String()
	status := http.StatusInternalServerError
	switch kind {
	case placement.KindOutOfBounds, placement.KindInvalidPosition:
		status = http.StatusUnprocessableEntity
	case placement.KindNotFound:
		status = http.StatusNotFound
	case placement.KindForbidden:
		status = http.StatusForbidden
	case placement.KindTransientIO:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, body)
}

// pageSnapshot is the renderer-reported display state of one page.
type pageSnapshot struct {
	PageWidth  float64 `json:"pageWidth"`
	PageHeight float64 `json:"pageHeight"`
	Rotation   int     `json:"rotation"`
	Scale      float64 `json:"scale"`
}

func (s pageSnapshot) page() geometry.Page {
	return geometry.Page{Width: s.PageWidth, Height: s.PageHeight, Rotation: s.Rotation, Scale: s.Scale}
}

// positionPayload is the wire form of the Grid/Freeform position union.
type positionPayload struct {
	Type     string        `json:"type"` // "grid" or "freeform"
	Cell     string        `json:"cell,omitempty"`
	X        float64       `json:"x,omitempty"`
	Y        float64       `json:"y,omitempty"`
	Width    float64       `json:"width,omitempty"`
	Height   float64       `json:"height,omitempty"`
	Snapshot *pageSnapshot `json:"snapshot,omitempty"`
}

func (p *positionPayload) toPosition() (position.Position, error) {
	if p == nil {
		return nil, fmt.Errorf("missing position: %w", position.ErrInvalidPosition)
	}
	switch p.Type {
	case "grid":
		cell, err := position.ParseGridCell(p.Cell)
		if err != nil {
			return nil, err
		}
		return position.Grid{Cell: cell}, nil
	case "freeform":
		if p.Snapshot == nil {
			return nil, fmt.Errorf("free-form position without snapshot: %w", position.ErrInvalidPosition)
		}
		return position.Freeform{
			Rect:     geometry.Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height},
			Snapshot: p.Snapshot.page(),
		}, nil
	default:
		return nil, fmt.Errorf("position type %q: %w", p.Type, position.ErrInvalidPosition)
	}
}

// CreateSession godoc
// @Summary      Create a new session
// @Description  Creates a new signing session and returns a session ID
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  map[string]string  "{ sessionId: string }"
// @Router       /api/sessions/ [post]
func (h *APIHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.SessionManager.CreateSession()
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": s.ID})
}

func (h *APIHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, exists := h.SessionManager.GetSession(chi.URLParam(r, "sessionID"))
	if !exists {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

// UploadDocument godoc
// @Summary      Upload a PDF document
// @Description  Uploads a PDF, validates it, and returns its page geometry
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Param        pdf        formData  file    true  "PDF file"
// @Success      200  {object}  map[string]interface{}  "{ documentId: string, pages: [] }"
// @Failure      400  {string}  string  "Bad request"
// @Failure      404  {string}  string  "Session not found"
// @Router       /api/sessions/{sessionID}/documents [post]
func (h *APIHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	const maxUploadSize = 25 * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("pdf")
	if err != nil {
		http.Error(w, "Error retrieving file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if filepath.Ext(handler.Filename) != ".pdf" {
		http.Error(w, "Only PDF files are allowed", http.StatusBadRequest)
		return
	}

	header := make([]byte, 5)
	if _, err := file.Read(header); err != nil {
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return
	}
	if string(header) != "%PDF-" {
		http.Error(w, "Uploaded file is not a valid PDF", http.StatusBadRequest)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		http.Error(w, "Failed to process file", http.StatusInternalServerError)
		return
	}

	name := utils.SanitizeFilename(handler.Filename)
	path := filepath.Join(h.UploadDir, fmt.Sprintf("%s-%s", utils.GenerateUUID(), name))
	dst, err := os.Create(path)
	if err != nil {
		http.Error(w, "Failed to create file", http.StatusInternalServerError)
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	if err := pdf.Validate(path); err != nil {
		os.Remove(path)
		http.Error(w, "Uploaded file is not a valid PDF", http.StatusBadRequest)
		return
	}
	pages, err := pdf.Geometry(path)
	if err != nil {
		os.Remove(path)
		log.Printf("Error reading page geometry: %v", err)
		http.Error(w, "Failed to read page geometry", http.StatusInternalServerError)
		return
	}

	doc := &placement.Document{
		ID:    utils.GenerateUUID(),
		Name:  name,
		Path:  path,
		Owner: s.ID,
		Pages: pages,
	}
	s.AddDocument(doc)
	writeJSON(w, http.StatusOK, map[string]any{
		"documentId": doc.ID,
		"filename":   name,
		"size":       handler.Size,
		"pages":      pages,
	})
}

// ListPages godoc
// @Summary      List page geometry
// @Description  Returns native width/height per page for a document
// @Tags         documents
// @Produce      json
// @Param        sessionID   path  string  true  "Session ID"
// @Param        documentID  path  string  true  "Document ID"
// @Success      200  {object}  map[string]interface{}  "{ pages: [] }"
// @Failure      404  {string}  string  "Session or document not found"
// @Router       /api/sessions/{sessionID}/documents/{documentID}/pages [get]
func (h *APIHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	doc, ok := s.GetDocument(chi.URLParam(r, "documentID"))
	if !ok {
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documentId": doc.ID, "pages": doc.Pages})
}

// CreateArtifact godoc
// @Summary      Create a signature artifact
// @Description  Uploads an optional signature image (PNG/JPEG) with holder metadata
// @Tags         artifacts
// @Accept       multipart/form-data
// @Produce      json
// @Param        sessionID  path      string  true   "Session ID"
// @Param        image      formData  file    false  "Signature image file (PNG/JPEG)"
// @Param        name       formData  string  true   "Display name"
// @Param        holder     formData  string  true   "Holder name"
// @Success      200  {object}  placement.Artifact
// @Failure      400  {string}  string  "Bad request - invalid image format"
// @Failure      404  {string}  string  "Session not found"
// @Router       /api/sessions/{sessionID}/artifacts [post]
func (h *APIHandler) CreateArtifact(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	const maxUploadSize = 5 * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}

	holder := r.FormValue("holder")
	if holder == "" {
		http.Error(w, "Missing holder name", http.StatusBadRequest)
		return
	}
	name := r.FormValue("name")
	if name == "" {
		name = holder
	}

	imagePath := ""
	file, handler, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		imagePath, err = h.saveSignatureImage(file, handler.Filename)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	} else if err != http.ErrMissingFile {
		http.Error(w, "Error retrieving file", http.StatusBadRequest)
		return
	}

	art := &placement.Artifact{
		ID:           utils.GenerateUUID(),
		Name:         name,
		ImagePath:    imagePath,
		Holder:       holder,
		Organization: r.FormValue("organization"),
		Location:     r.FormValue("location"),
		TimeZone:     r.FormValue("timeZone"),
		Owner:        s.ID,
		CreatedAt:    time.Now(),
	}
	s.AddArtifact(art)
	writeJSON(w, http.StatusOK, art)
}

// saveSignatureImage validates the upload is really a PNG or JPEG, with an
// extension matching the sniffed content type, and stores it.
func (h *APIHandler) saveSignatureImage(file io.ReadSeeker, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return "", fmt.Errorf("only PNG and JPEG images are allowed")
	}

	header := make([]byte, 512)
	if _, err := file.Read(header); err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to process file")
	}

	contentType := http.DetectContentType(header)
	validExtensions := map[string][]string{
		"image/jpeg": {".jpg", ".jpeg"},
		"image/png":  {".png"},
	}
	extensions, ok := validExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("invalid image format, only PNG and JPEG images are allowed")
	}
	if !slices.Contains(extensions, ext) {
		return "", fmt.Errorf("file extension doesn't match content type")
	}

	path := filepath.Join(h.UploadDir, fmt.Sprintf("sig-%s-%s", utils.GenerateUUID(), utils.SanitizeFilename(filename)))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file")
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to save file")
	}
	return path, nil
}

// DeleteArtifact godoc
// @Summary      Delete a signature artifact
// @Tags         artifacts
// @Produce      json
// @Param        sessionID   path  string  true  "Session ID"
// @Param        artifactID  path  string  true  "Artifact ID"
// @Success      200  {object}  map[string]bool  "{ deleted: true }"
// @Failure      404  {string}  string  "Session or artifact not found"
// @Router       /api/sessions/{sessionID}/artifacts/{artifactID} [delete]
func (h *APIHandler) DeleteArtifact(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if !s.RemoveArtifact(chi.URLParam(r, "artifactID")) {
		http.Error(w, "Artifact not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type applyRequest struct {
	ArtifactID string           `json:"artifactId"`
	DocumentID string           `json:"documentId"`
	Page       int              `json:"page"`
	Position   *positionPayload `json:"position"`
	Supersedes string           `json:"supersedes,omitempty"`
}

// ApplyPlacement godoc
// @Summary      Apply a signature to one document
// @Description  Resolves a grid or free-form position and stamps the artifact on the page
// @Tags         placements
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string        true  "Session ID"
// @Param        request    body  applyRequest  true  "Apply request"
// @Success      200  {object}  map[string]interface{}  "{ placement, downloadUrl }"
// @Failure      403  {string}  string  "Forbidden"
// @Failure      404  {string}  string  "Not found"
// @Failure      422  {string}  string  "Out of bounds or invalid position"
// @Router       /api/sessions/{sessionID}/placements [post]
func (h *APIHandler) ApplyPlacement(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	pos, err := req.Position.toPosition()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	h.applyPosition(w, r, s, req, pos)
}

type gridRequest struct {
	ArtifactID string `json:"artifactId"`
	DocumentID string `json:"documentId"`
	Page       int    `json:"page"`
	Cell       string `json:"cell"`
}

// SelectGridCell godoc
// @Summary      Apply a signature at a named grid cell
// @Tags         placements
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string       true  "Session ID"
// @Param        request    body  gridRequest  true  "Grid selection"
// @Success      200  {object}  map[string]interface{}  "{ placement, downloadUrl }"
// @Failure      422  {string}  string  "Unknown grid cell"
// @Router       /api/sessions/{sessionID}/placements/grid [post]
func (h *APIHandler) SelectGridCell(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req gridRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	cell, err := position.ParseGridCell(req.Cell)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	h.applyPosition(w, r, s, applyRequest{
		ArtifactID: req.ArtifactID,
		DocumentID: req.DocumentID,
		Page:       req.Page,
	}, position.Grid{Cell: cell})
}

// applyPosition resolves pos against the target page and runs the applier,
// committing the resulting placement to the session.
func (h *APIHandler) applyPosition(w http.ResponseWriter, r *http.Request, s *session.Session, req applyRequest, pos position.Position) {
	art, _ := s.GetArtifact(req.ArtifactID)
	doc, ok := s.GetDocument(req.DocumentID)
	if !ok {
		writeEngineError(w, placement.E(placement.KindNotFound, "document %s not found", req.DocumentID))
		return
	}
	pg, ok := doc.PageGeometry(req.Page)
	if !ok {
		writeEngineError(w, placement.E(placement.KindNotFound, "document %s has no page %d", doc.ID, req.Page))
		return
	}
	rect, err := position.Resolve(pos, pg)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	pl, err := h.applier.Apply(r.Context(), s.ID, art, doc, req.Page, rect)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	pl.Supersedes = req.Supersedes
	s.CommitPlacement(pl)
	writeJSON(w, http.StatusOK, map[string]any{
		"placement":   pl,
		"downloadUrl": h.downloadURL(s.ID, pl.Revision.OutputPath),
	})
}

func (h *APIHandler) downloadURL(sessionID, outputPath string) string {
	return fmt.Sprintf("/api/sessions/%s/files/%s", sessionID, filepath.Base(outputPath))
}

type beginDragRequest struct {
	ArtifactID       string         `json:"artifactId"`
	DocumentID       string         `json:"documentId"`
	Page             int            `json:"page"`
	Pointer          geometry.Point `json:"pointer"`
	Rect             geometry.Rect  `json:"rect"`
	Scale            float64        `json:"scale"`
	Rotation         int            `json:"rotation"`
	PriorPlacementID string         `json:"priorPlacementId,omitempty"`
}

// BeginDrag godoc
// @Summary      Start dragging a placed signature
// @Description  Opens a drag session; the pointer must hit the signature's rendered rectangle
// @Tags         drag
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string            true  "Session ID"
// @Param        request    body  beginDragRequest  true  "Pointer-down event"
// @Success      200  {object}  map[string]interface{}  "{ state, preview }"
// @Failure      400  {string}  string  "Pointer outside hit region"
// @Router       /api/sessions/{sessionID}/drag/begin [post]
func (h *APIHandler) BeginDrag(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req beginDragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	doc, ok := s.GetDocument(req.DocumentID)
	if !ok {
		writeEngineError(w, placement.E(placement.KindNotFound, "document %s not found", req.DocumentID))
		return
	}
	pg, ok := doc.PageGeometry(req.Page)
	if !ok {
		writeEngineError(w, placement.E(placement.KindNotFound, "document %s has no page %d", doc.ID, req.Page))
		return
	}
	// The renderer reports the live display state; native size comes from
	// the document.
	pg.Scale = req.Scale
	pg.Rotation = req.Rotation

	machine, err := drag.Begin(req.Pointer, req.Rect, pg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.BeginDrag(&session.DragContext{
		Machine:          machine,
		ArtifactID:       req.ArtifactID,
		DocumentID:       req.DocumentID,
		Page:             req.Page,
		PriorPlacementID: req.PriorPlacementID,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"state":   machine.State().String(),
		"preview": machine.Preview(),
	})
}

type pointerRequest struct {
	Pointer geometry.Point `json:"pointer"`
}

// MoveDrag godoc
// @Summary      Advance the drag preview
// @Description  Updates the live-preview rectangle, clamped to the rendered page bounds
// @Tags         drag
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string          true  "Session ID"
// @Param        request    body  pointerRequest  true  "Pointer-move event"
// @Success      200  {object}  map[string]interface{}  "{ state, preview }"
// @Failure      409  {string}  string  "No drag in progress"
// @Router       /api/sessions/{sessionID}/drag/move [post]
func (h *APIHandler) MoveDrag(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	dc, ok := s.CurrentDrag()
	if !ok {
		http.Error(w, "No drag in progress", http.StatusConflict)
		return
	}
	var req pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	preview := dc.Machine.Move(req.Pointer)
	writeJSON(w, http.StatusOK, map[string]any{
		"state":   dc.Machine.State().String(),
		"preview": preview,
	})
}

// ReleaseDrag godoc
// @Summary      Release the drag and apply the signature
// @Description  Commits the final rectangle as a free-form position and stamps the artifact
// @Tags         drag
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string          true  "Session ID"
// @Param        request    body  pointerRequest  true  "Pointer-up event"
// @Success      200  {object}  map[string]interface{}  "{ placement, downloadUrl }"
// @Failure      409  {string}  string  "No drag in progress"
// @Failure      422  {string}  string  "Out of bounds"
// @Router       /api/sessions/{sessionID}/drag/release [post]
func (h *APIHandler) ReleaseDrag(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	dc, ok := s.CurrentDrag()
	if !ok {
		http.Error(w, "No drag in progress", http.StatusConflict)
		return
	}
	var req pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	pos, err := dc.Machine.Release(req.Pointer)
	if err != nil {
		s.EndDrag()
		writeEngineError(w, err)
		return
	}

	doc, ok := s.GetDocument(dc.DocumentID)
	if !ok {
		dc.Machine.Cancel()
		s.EndDrag()
		writeEngineError(w, placement.E(placement.KindNotFound, "document %s not found", dc.DocumentID))
		return
	}
	pg, _ := doc.PageGeometry(dc.Page)
	art, _ := s.GetArtifact(dc.ArtifactID)

	rect, err := position.Resolve(pos, pg)
	if err == nil {
		var pl *placement.Placement
		pl, err = h.applier.Apply(r.Context(), s.ID, art, doc, dc.Page, rect)
		if err == nil {
			pl.Supersedes = dc.PriorPlacementID
			s.CommitPlacement(pl)
			s.EndDrag()
			writeJSON(w, http.StatusOK, map[string]any{
				"placement":   pl,
				"downloadUrl": h.downloadURL(s.ID, pl.Revision.OutputPath),
			})
			return
		}
	}

	// Application failed after commit: cancel the machine so the preview
	// reverts to the pre-drag rectangle, and report the failure.
	preview := dc.Machine.Cancel()
	s.EndDrag()
	writeEngineErrorWith(w, err, map[string]any{"preview": preview})
}

// CancelDrag godoc
// @Summary      Cancel the drag
// @Description  Reverts the live preview to the pre-drag rectangle; nothing is applied
// @Tags         drag
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  map[string]interface{}  "{ state, preview }"
// @Failure      409  {string}  string  "No drag in progress"
// @Router       /api/sessions/{sessionID}/drag/cancel [post]
func (h *APIHandler) CancelDrag(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	dc, ok := s.CurrentDrag()
	if !ok {
		http.Error(w, "No drag in progress", http.StatusConflict)
		return
	}
	preview := dc.Machine.Cancel()
	s.EndDrag()
	writeJSON(w, http.StatusOK, map[string]any{
		"state":   dc.Machine.State().String(),
		"preview": preview,
	})
}

type batchRequest struct {
	ArtifactID string           `json:"artifactId"`
	Targets    []batchTarget    `json:"targets"`
	Position   *positionPayload `json:"position"`
}

type batchTarget struct {
	DocumentID string `json:"documentId"`
	Page       int    `json:"page"`
}

// ApplyBatch godoc
// @Summary      Apply one signature across many documents
// @Description  Stamps the artifact at the shared position on every target; one target's failure does not abort the rest
// @Tags         placements
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string        true  "Session ID"
// @Param        request    body  batchRequest  true  "Batch request"
// @Success      200  {object}  map[string]interface{}  "{ applied, failed, success, outcomes }"
// @Failure      400  {string}  string  "No targets"
// @Router       /api/sessions/{sessionID}/batch [post]
func (h *APIHandler) ApplyBatch(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if len(req.Targets) == 0 {
		http.Error(w, "No targets to sign", http.StatusBadRequest)
		return
	}
	pos, err := req.Position.toPosition()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	art, _ := s.GetArtifact(req.ArtifactID)

	targets := make([]placement.Target, len(req.Targets))
	for i, t := range req.Targets {
		doc, _ := s.GetDocument(t.DocumentID)
		targets[i] = placement.Target{Document: doc, Page: t.Page}
	}

	res := h.orchestrator.Run(r.Context(), s.ID, art, targets, pos)

	outcomes := make([]map[string]any, len(res.Outcomes))
	for i, out := range res.Outcomes {
		entry := map[string]any{
			"documentId": req.Targets[i].DocumentID,
			"page":       req.Targets[i].Page,
			"status":     out.State.String(),
		}
		switch out.State {
		case placement.Applied:
			s.CommitPlacement(out.Placement)
			entry["placementId"] = out.Placement.ID
			entry["revisionId"] = out.Placement.Revision.ID
			entry["downloadUrl"] = h.downloadURL(s.ID, out.Placement.Revision.OutputPath)
		case placement.Failed:
			entry["error"] = out.Err.Error()
			if kind, ok := placement.KindOf(out.Err); ok {
				entry["kind"] = kind.String()
			}
		}
		outcomes[i] = entry
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"applied":  res.Applied,
		"failed":   res.Failed,
		"success":  res.Succeeded(),
		"outcomes": outcomes,
	})
}

// Certificate godoc
// @Summary      Download the signing certificate for a placement
// @Tags         placements
// @Produce      application/pdf
// @Param        sessionID    path  string  true  "Session ID"
// @Param        placementID  path  string  true  "Placement ID"
// @Success      200  {file}  file  "Certificate PDF"
// @Failure      404  {string}  string  "Session or placement not found"
// @Router       /api/sessions/{sessionID}/placements/{placementID}/certificate [get]
func (h *APIHandler) Certificate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	pl, ok := s.GetPlacement(chi.URLParam(r, "placementID"))
	if !ok {
		http.Error(w, "Placement not found", http.StatusNotFound)
		return
	}
	art, ok := s.GetArtifact(pl.ArtifactID)
	if !ok {
		http.Error(w, "Artifact not found", http.StatusNotFound)
		return
	}
	doc, ok := s.GetDocument(pl.DocumentID)
	if !ok {
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	}

	outPath := filepath.Join(h.OutputDir, fmt.Sprintf("cert-%s.pdf", pl.ID))
	if _, err := os.Stat(outPath); os.IsNotExist(err) {
		if err := h.Certifier.WriteCertificate(pl, art, doc, outPath); err != nil {
			log.Printf("Error generating certificate: %v", err)
			http.Error(w, "Failed to generate certificate", http.StatusInternalServerError)
			return
		}
		s.AddOutput(outPath)
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\"certificate.pdf\"")
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, outPath)
}

// MergeSigned godoc
// @Summary      Merge all signed outputs
// @Description  Combines every signed revision in the session into one download
// @Tags         files
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  map[string]string  "{ downloadUrl: string }"
// @Failure      400  {string}  string  "Nothing signed yet"
// @Router       /api/sessions/{sessionID}/actions/merge [post]
func (h *APIHandler) MergeSigned(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	files := s.SignedOutputs()
	if len(files) == 0 {
		http.Error(w, "Nothing signed yet", http.StatusBadRequest)
		return
	}

	outputFilename := utils.OutputName("merged", "pdf")
	outputPath := filepath.Join(h.OutputDir, outputFilename)
	if err := pdf.MergePDFs(files, outputPath); err != nil {
		log.Printf("Error merging PDFs: %v", err)
		http.Error(w, "Failed to merge PDFs", http.StatusInternalServerError)
		return
	}
	if err := pdf.RemoveBookmarks(outputPath); err != nil {
		log.Printf("Error removing bookmarks: %v", err)
		http.Error(w, "Failed to process merged PDF", http.StatusInternalServerError)
		return
	}
	s.AddOutput(outputPath)
	writeJSON(w, http.StatusOK, map[string]string{
		"downloadUrl": fmt.Sprintf("/api/sessions/%s/files/%s", s.ID, outputFilename),
	})
}

// DownloadFile godoc
// @Summary      Download an output file
// @Description  Downloads a signed revision, merged PDF, or certificate owned by the session
// @Tags         files
// @Produce      application/pdf
// @Param        sessionID  path  string  true  "Session ID"
// @Param        filename   path  string  true  "Output filename"
// @Success      200  {file}  file  "PDF file download"
// @Failure      403  {string}  string  "Unauthorized access to file"
// @Failure      404  {string}  string  "Session or file not found"
// @Router       /api/sessions/{sessionID}/files/{filename} [get]
func (h *APIHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	filename := chi.URLParam(r, "filename")
	path, ok := s.Output(filename)
	if !ok {
		http.Error(w, "Unauthorized access to file", http.StatusForbidden)
		return
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}
