package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NewNote carries the fields supplied when a note is created.
type NewNote struct {
	SourceURL string
	Prompt    string
	Content   string
	Tags      []string
}

// Patch lists the fields to change on an existing note. Nil fields are left untouched.
type Patch struct {
	Prompt  *string
	Content *string
	Tags    *[]string
}

// ClearToken is handed out by RequestClear and must be presented to ConfirmClear.
type ClearToken string

// Service is the note store: an in-memory collection backed by a Repository.
// It assumes a single writer; the mutex only guards introspection reads.
type Service struct {
	mu           sync.RWMutex
	repo         Repository
	logger       *slog.Logger
	notes        []Note
	loaded       bool
	unreadable   bool
	readOnly     bool
	urlCheck     func(string) bool
	now          func() time.Time
	pendingClear ClearToken
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used for degraded loads and persistence failures.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithURLCheck sets the predicate a source URL must satisfy before a note is created.
// The store trusts the caller to have validated the URL; this is a last guard.
func WithURLCheck(check func(string) bool) ServiceOption {
	return func(s *Service) {
		if check != nil {
			s.urlCheck = check
		}
	}
}

// WithReadOnly makes every mutation fail with ErrReadOnly.
func WithReadOnly(enabled bool) ServiceOption {
	return func(s *Service) {
		s.readOnly = enabled
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new Service. The collection is read lazily on first use.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:     repo,
		logger:   slog.New(slog.DiscardHandler),
		urlCheck: func(u string) bool { return u != "" },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load (re)reads the durable document and returns the collection.
// Read failures are absorbed: the store falls back to an empty collection.
func (s *Service) Load(ctx context.Context) []Note {
	notes, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load notes, starting empty", "error", err)
		notes = nil
	}
	s.mu.Lock()
	s.notes = notes
	s.loaded = true
	s.unreadable = err != nil
	s.mu.Unlock()
	return s.Notes(ctx)
}

func (s *Service) ensureLoaded(ctx context.Context) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if !loaded {
		s.Load(ctx)
	}
}

// Notes returns a copy of the collection in store order.
func (s *Service) Notes(ctx context.Context) []Note {
	s.ensureLoaded(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = n.clone()
	}
	return out
}

// Get returns the note with the given id.
func (s *Service) Get(ctx context.Context, id string) (Note, error) {
	s.ensureLoaded(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.notes[i].clone(), nil
	}
	return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Create normalizes tags, assigns an id and timestamp, appends and persists the note.
func (s *Service) Create(ctx context.Context, in NewNote) (Note, error) {
	if s.readOnly {
		return Note{}, ErrReadOnly
	}
	if !s.urlCheck(in.SourceURL) {
		return Note{}, fmt.Errorf("%w: source url %q was not validated", ErrValidation, in.SourceURL)
	}
	s.ensureLoaded(ctx)

	note := Note{
		ID:        uuid.NewString(),
		SourceURL: in.SourceURL,
		Prompt:    in.Prompt,
		Content:   in.Content,
		Tags:      NormalizeTags(in.Tags),
		CreatedAt: NewTimestamp(s.now()),
	}

	next := append(s.snapshot(), note)
	if err := s.commit(ctx, next); err != nil {
		return Note{}, err
	}
	s.logger.Debug("note created", "id", note.ID, "url", note.SourceURL)
	return note.clone(), nil
}

// Update applies the non-nil fields of p to the note and persists the change.
func (s *Service) Update(ctx context.Context, id string, p Patch) (Note, error) {
	if s.readOnly {
		return Note{}, ErrReadOnly
	}
	s.ensureLoaded(ctx)

	next := s.snapshot()
	i := indexOf(next, id)
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if p.Prompt != nil {
		next[i].Prompt = *p.Prompt
	}
	if p.Content != nil {
		next[i].Content = *p.Content
	}
	if p.Tags != nil {
		next[i].Tags = NormalizeTags(*p.Tags)
	}
	if err := s.commit(ctx, next); err != nil {
		return Note{}, err
	}
	s.logger.Debug("note updated", "id", id)
	return next[i].clone(), nil
}

// Delete removes the note. Deleting an absent note is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.readOnly {
		return ErrReadOnly
	}
	s.ensureLoaded(ctx)

	current := s.snapshot()
	i := indexOf(current, id)
	if i < 0 {
		return nil
	}
	next := append(current[:i:i], current[i+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.logger.Debug("note deleted", "id", id)
	return nil
}

// ClearAll empties the collection unconditionally.
// Interactive callers should go through RequestClear and ConfirmClear.
func (s *Service) ClearAll(ctx context.Context) error {
	if s.readOnly {
		return ErrReadOnly
	}
	s.ensureLoaded(ctx)
	if err := s.commit(ctx, []Note{}); err != nil {
		return err
	}
	s.logger.Info("all notes cleared")
	return nil
}

// RequestClear issues a single-use token that authorizes one ConfirmClear call.
// A new request invalidates any earlier token.
func (s *Service) RequestClear() ClearToken {
	token := ClearToken(uuid.NewString())
	s.mu.Lock()
	s.pendingClear = token
	s.mu.Unlock()
	return token
}

// ConfirmClear clears the store if token matches the outstanding request.
func (s *Service) ConfirmClear(ctx context.Context, token ClearToken) error {
	s.mu.Lock()
	pending := s.pendingClear
	if token == "" || token != pending {
		s.mu.Unlock()
		return ErrConfirmation
	}
	s.pendingClear = ""
	s.mu.Unlock()
	return s.ClearAll(ctx)
}

// snapshot copies the collection so a failed write can leave it untouched.
func (s *Service) snapshot() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = n.clone()
	}
	return out
}

// commit persists next and only then swaps it in.
func (s *Service) commit(ctx context.Context, next []Note) error {
	if err := s.setAsideUnreadable(ctx); err != nil {
		s.logger.Error("failed to back up unreadable notes", "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := s.repo.Store(ctx, next); err != nil {
		s.logger.Error("failed to persist notes", "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.mu.Lock()
	s.notes = next
	s.mu.Unlock()
	return nil
}

// setAsideUnreadable moves a document that failed to load out of the way before the
// first write replaces it.
func (s *Service) setAsideUnreadable(ctx context.Context) error {
	s.mu.RLock()
	unreadable := s.unreadable
	s.mu.RUnlock()
	if !unreadable {
		return nil
	}

	if b, ok := s.repo.(Backupable); ok {
		path, err := b.Backup(ctx)
		if err != nil {
			return err
		}
		s.logger.Warn("unreadable notes set aside", "backup", path)
	} else {
		s.logger.Warn("overwriting unreadable notes")
	}

	s.mu.Lock()
	s.unreadable = false
	s.mu.Unlock()
	return nil
}

func (s *Service) indexOf(id string) int {
	return indexOf(s.notes, id)
}

func indexOf(notes []Note, id string) int {
	for i, n := range notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Watch observes external changes to the durable document if the repository supports it.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx)
}
