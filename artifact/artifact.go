// Package artifact holds finished audio in memory behind revocable URLs.
//
// A Store plays the role of an object-URL registry: Publish hands out a
// dereferenceable URL for a blob, and Revoke makes that URL dead. Nothing is
// written to disk and nothing outlives the process.
package artifact

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Artifact is a published, playable blob.
type Artifact struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	MIMEType  string    `json:"mime_type"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`

	Blob []byte `json:"-"`
}

// Store is an in-memory registry of published artifacts. It is safe for
// concurrent use.
type Store struct {
	baseURL string

	mu    sync.RWMutex
	blobs map[string]*Artifact
}

// NewStore creates a store whose URLs are rooted at baseURL, e.g.
// "http://localhost:8080". An empty baseURL yields path-only URLs.
func NewStore(baseURL string) *Store {
	return &Store{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		blobs:   make(map[string]*Artifact),
	}
}

// Publish registers blob and returns its artifact. ext is the filename
// suffix, including the dot.
func (s *Store) Publish(blob []byte, mimeType, ext string) *Artifact {
	id := uuid.NewString()
	a := &Artifact{
		ID:        id,
		URL:       s.baseURL + "/artifacts/" + id + ext,
		Filename:  "briefing-" + id[:8] + ext,
		MIMEType:  mimeType,
		Size:      len(blob),
		CreatedAt: time.Now(),
		Blob:      blob,
	}

	s.mu.Lock()
	s.blobs[id] = a
	s.mu.Unlock()

	slog.Debug("artifact: published", "id", id, "size", len(blob))
	return a
}

// Open returns the live artifact with the given id.
func (s *Store) Open(id string) (*Artifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.blobs[id]
	return a, ok
}

// Revoke kills the artifact's URL. Revoking twice, or revoking nil, is a
// no-op.
func (s *Store) Revoke(a *Artifact) {
	if a == nil {
		return
	}
	s.mu.Lock()
	_, ok := s.blobs[a.ID]
	delete(s.blobs, a.ID)
	s.mu.Unlock()

	if ok {
		slog.Debug("artifact: revoked", "id", a.ID)
	}
}

// Len returns the number of live artifacts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Slot holds the single current artifact and owns its revocation.
type Slot struct {
	store *Store

	mu      sync.Mutex
	current *Artifact
}

// NewSlot creates an empty slot backed by store.
func NewSlot(store *Store) *Slot {
	return &Slot{store: store}
}

// Replace makes a the current artifact and revokes the one it supersedes.
func (s *Slot) Replace(a *Artifact) {
	s.mu.Lock()
	old := s.current
	s.current = a
	s.mu.Unlock()

	if old != nil && old != a {
		s.store.Revoke(old)
	}
}

// Clear revokes the current artifact, if any.
func (s *Slot) Clear() {
	s.Replace(nil)
}

// Current returns the current artifact or nil.
func (s *Slot) Current() *Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
