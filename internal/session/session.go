// Package session manages user sessions for the signing API.
//
// A Session is the authentication context for the engine: its ID is the
// opaque principal used for ownership checks. It owns the uploaded
// documents, signature artifacts, committed placements, and at most one
// live drag session. SessionManager manages all active sessions and is
// safe for concurrent use.
package session

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go-signpdf/internal/drag"
	"go-signpdf/internal/placement"
	"go-signpdf/internal/utils"
)

// DragContext binds a live drag state machine to the artifact, document and
// page it is moving a signature on, plus the placement being superseded.
type DragContext struct {
	Machine          *drag.Session
	ArtifactID       string
	DocumentID       string
	Page             int
	PriorPlacementID string
}

type Session struct {
	ID         string
	CreatedAt  time.Time
	Documents  map[string]*placement.Document
	Artifacts  map[string]*placement.Artifact
	Placements map[string]*placement.Placement
	Drag       *DragContext
	// Output files owned by this session (signed revisions, merged
	// downloads, certificates), by filename.
	Outputs map[string]string
	Mutex   sync.Mutex
}

type SessionManager struct {
	Sessions map[string]*Session
	Mutex    sync.RWMutex
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		Sessions: make(map[string]*Session),
	}
}

func (sm *SessionManager) CreateSession() *Session {
	sm.Mutex.Lock()
	defer sm.Mutex.Unlock()

	session := &Session{
		ID:         utils.GenerateUUID(),
		CreatedAt:  time.Now(),
		Documents:  make(map[string]*placement.Document),
		Artifacts:  make(map[string]*placement.Artifact),
		Placements: make(map[string]*placement.Placement),
		Outputs:    make(map[string]string),
	}
	sm.Sessions[session.ID] = session
	return session
}

func (sm *SessionManager) GetSession(id string) (*Session, bool) {
	sm.Mutex.RLock()
	defer sm.Mutex.RUnlock()
	session, exists := sm.Sessions[id]
	return session, exists
}

func (sm *SessionManager) DeleteSession(id string) {
	sm.Mutex.Lock()
	defer sm.Mutex.Unlock()
	delete(sm.Sessions, id)
}

// AddDocument registers an uploaded document with the session as owner.
func (s *Session) AddDocument(doc *placement.Document) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	s.Documents[doc.ID] = doc
}

func (s *Session) GetDocument(id string) (*placement.Document, bool) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	doc, ok := s.Documents[id]
	return doc, ok
}

func (s *Session) AddArtifact(art *placement.Artifact) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	s.Artifacts[art.ID] = art
}

func (s *Session) GetArtifact(id string) (*placement.Artifact, bool) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	art, ok := s.Artifacts[id]
	return art, ok
}

// RemoveArtifact deletes an artifact and its image file. Artifacts are only
// ever removed by explicit user action.
func (s *Session) RemoveArtifact(id string) bool {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	art, ok := s.Artifacts[id]
	if !ok {
		return false
	}
	if art.ImagePath != "" {
		os.Remove(art.ImagePath)
	}
	delete(s.Artifacts, id)
	return true
}

// CommitPlacement stores a new placement and discards the one it
// supersedes, if any. A move never mutates the prior record.
func (s *Session) CommitPlacement(pl *placement.Placement) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	if pl.Supersedes != "" {
		delete(s.Placements, pl.Supersedes)
	}
	s.Placements[pl.ID] = pl
	s.Outputs[filepath.Base(pl.Revision.OutputPath)] = pl.Revision.OutputPath
}

func (s *Session) GetPlacement(id string) (*placement.Placement, bool) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	pl, ok := s.Placements[id]
	return pl, ok
}

// BeginDrag installs a fresh drag context, discarding any prior
// unterminated one (a new pointer-down always starts a fresh machine).
func (s *Session) BeginDrag(dc *DragContext) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	s.Drag = dc
}

func (s *Session) CurrentDrag() (*DragContext, bool) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	if s.Drag == nil {
		return nil, false
	}
	return s.Drag, true
}

// EndDrag drops the drag context; the machine is discarded on commit or
// cancel.
func (s *Session) EndDrag() {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	s.Drag = nil
}

// AddOutput registers an output file (merged download, certificate) so
// DownloadFile can authorize access and Cleanup can remove it.
func (s *Session) AddOutput(path string) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	s.Outputs[filepath.Base(path)] = path
}

func (s *Session) Output(filename string) (string, bool) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	path, ok := s.Outputs[filename]
	return path, ok
}

// SignedOutputs returns the output paths of all committed placements, in
// creation order.
func (s *Session) SignedOutputs() []string {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	pls := make([]*placement.Placement, 0, len(s.Placements))
	for _, pl := range s.Placements {
		pls = append(pls, pl)
	}
	sort.Slice(pls, func(i, j int) bool { return pls[i].CreatedAt.Before(pls[j].CreatedAt) })
	paths := make([]string, 0, len(pls))
	for _, pl := range pls {
		paths = append(paths, pl.Revision.OutputPath)
	}
	return paths
}

// Cleanup removes every file the session owns.
func (s *Session) Cleanup() {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	for _, doc := range s.Documents {
		if doc.Path != "" {
			os.Remove(doc.Path)
		}
	}
	for _, art := range s.Artifacts {
		if art.ImagePath != "" {
			os.Remove(art.ImagePath)
		}
	}
	for _, path := range s.Outputs {
		os.Remove(path)
	}
}

