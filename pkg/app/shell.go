// Package app holds the application shell: the handlers a front end calls and the
// explicit State they pass around instead of session globals.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/vidnote/pkg/core"
	"github.com/aretw0/vidnote/pkg/ingest"
	"github.com/aretw0/vidnote/pkg/query"
	"github.com/aretw0/vidnote/pkg/videourl"
)

// DefaultPrompt is used when a submission carries no prompt.
const DefaultPrompt = "Summarize the main points of this video."

// Analyzer turns a video URL and a prompt into analysis text.
// *ingest.Client satisfies it.
type Analyzer interface {
	SubmitAndAnalyze(ctx context.Context, videoURL, prompt string, observer ingest.Observer) (string, error)
}

// Prober reports whether a URL currently answers. *videourl.Prober satisfies it.
type Prober interface {
	IsReachable(ctx context.Context, rawURL string) bool
}

// State is the presentation state owned by the caller.
// Handlers take a State and return the next one; they never keep it.
type State struct {
	Search       string
	Tags         []string
	EditingID    string
	PendingClear core.ClearToken
}

// Form is a video submission.
type Form struct {
	URL      string
	Prompt   string
	Tags     string
	Observer ingest.Observer
}

// Edit carries the user's changes to the note being edited.
type Edit struct {
	Prompt  string
	Content string
	Tags    string
}

// View is what a front end renders for a State.
type View struct {
	Notes         []core.Note
	AvailableTags []string
	Editing       *core.Note
	ClearPending  bool
}

// Shell wires the note store to the ingestion client.
type Shell struct {
	Notes  *core.Service
	Ingest Analyzer
	Prober Prober
	Logger *slog.Logger
}

func (s *Shell) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// Submit validates the URL, checks it is reachable, analyzes it and stores the result.
// Nothing is stored when any step fails.
func (s *Shell) Submit(ctx context.Context, st State, f Form) (State, core.Note, error) {
	url := strings.TrimSpace(f.URL)
	if !videourl.IsValidVideoURL(url) {
		return st, core.Note{}, fmt.Errorf("%w: %q is not a video url", core.ErrValidation, url)
	}
	if s.Prober != nil && !s.Prober.IsReachable(ctx, url) {
		return st, core.Note{}, fmt.Errorf("%w: %q is not reachable", core.ErrValidation, url)
	}

	prompt := strings.TrimSpace(f.Prompt)
	if prompt == "" {
		prompt = DefaultPrompt
	}

	s.logger().Info("analyzing video", "url", url)
	text, err := s.Ingest.SubmitAndAnalyze(ctx, url, prompt, f.Observer)
	if err != nil {
		return st, core.Note{}, err
	}

	note, err := s.Notes.Create(ctx, core.NewNote{
		SourceURL: url,
		Prompt:    prompt,
		Content:   text,
		Tags:      core.ParseTags(f.Tags),
	})
	if err != nil {
		return st, core.Note{}, err
	}
	return st, note, nil
}

// Filter replaces the search text and tag selection.
func (s *Shell) Filter(st State, search string, tags []string) State {
	st.Search = search
	st.Tags = append([]string(nil), tags...)
	return st
}

// BeginEdit marks id as the note being edited.
func (s *Shell) BeginEdit(ctx context.Context, st State, id string) (State, core.Note, error) {
	note, err := s.Notes.Get(ctx, id)
	if err != nil {
		return st, core.Note{}, err
	}
	st.EditingID = id
	return st, note, nil
}

// CancelEdit leaves edit mode without saving.
func (s *Shell) CancelEdit(st State) State {
	st.EditingID = ""
	return st
}

// SaveEdit writes e to the note being edited and leaves edit mode.
// If the note vanished meanwhile, edit mode is left and ErrNotFound is returned.
func (s *Shell) SaveEdit(ctx context.Context, st State, e Edit) (State, core.Note, error) {
	if st.EditingID == "" {
		return st, core.Note{}, fmt.Errorf("%w: no note is being edited", core.ErrValidation)
	}
	tags := core.ParseTags(e.Tags)
	note, err := s.Notes.Update(ctx, st.EditingID, core.Patch{
		Prompt:  &e.Prompt,
		Content: &e.Content,
		Tags:    &tags,
	})
	if errors.Is(err, core.ErrNotFound) {
		st.EditingID = ""
		return st, core.Note{}, err
	}
	if err != nil {
		return st, core.Note{}, err
	}
	st.EditingID = ""
	return st, note, nil
}

// Delete removes the note. Deleting a note that is already gone is not an error.
func (s *Shell) Delete(ctx context.Context, st State, id string) (State, error) {
	if err := s.Notes.Delete(ctx, id); err != nil {
		return st, err
	}
	if st.EditingID == id {
		st.EditingID = ""
	}
	return st, nil
}

// RequestClear arms the clear-all gate.
func (s *Shell) RequestClear(st State) State {
	st.PendingClear = s.Notes.RequestClear()
	return st
}

// ConfirmClear empties the store when confirmed is true and a clear is pending.
// The pending token is consumed either way.
func (s *Shell) ConfirmClear(ctx context.Context, st State, confirmed bool) (State, error) {
	token := st.PendingClear
	st.PendingClear = ""
	if !confirmed {
		return st, fmt.Errorf("%w: not confirmed", core.ErrConfirmation)
	}
	if err := s.Notes.ConfirmClear(ctx, token); err != nil {
		return st, err
	}
	st.EditingID = ""
	return st, nil
}

// View projects the store through the current filters.
func (s *Shell) View(ctx context.Context, st State) View {
	all := s.Notes.Notes(ctx)
	v := View{
		Notes:         query.Filter(all, st.Search, st.Tags),
		AvailableTags: query.AvailableTags(all),
		ClearPending:  st.PendingClear != "",
	}
	if st.EditingID != "" {
		if n, err := s.Notes.Get(ctx, st.EditingID); err == nil {
			v.Editing = &n
		}
	}
	return v
}
