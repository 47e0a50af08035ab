// Package session drives one search form: it owns the current selection,
// issues queries, projects responses into chart data and handles the
// "save to history?" prompt that follows every submission.
//
// Submission flow:
//
//	Idle -> Submitting -> {Success, Failed} -> PromptingSave -> Idle
//
// The prompt opens as soon as a search is submitted, before the response is
// known, so a search can be saved even when its fetch fails.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rewired-gh/boligpris/internal/history"
	"github.com/rewired-gh/boligpris/internal/logger"
	"github.com/rewired-gh/boligpris/internal/models"
	"github.com/rewired-gh/boligpris/internal/quarters"
	"github.com/rewired-gh/boligpris/internal/query"
	"github.com/rewired-gh/boligpris/internal/ssb"
)

// ErrNoPrompt is returned when confirming or declining a prompt that is not open.
var ErrNoPrompt = errors.New("no matching save prompt is open")

// State is a step of the submission flow.
type State int

const (
	Idle State = iota
	Submitting
	Success
	Failed
	PromptingSave
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	case PromptingSave:
		return "prompting_save"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Fetcher runs a table query against the remote API.
type Fetcher interface {
	Query(ctx context.Context, payload query.Payload) (*ssb.Dataset, error)
}

// Prompt is an open "save to history?" question.
type Prompt struct {
	ID        string
	Selection models.Selection
}

// Session is the state behind one search form.
type Session struct {
	mu        sync.Mutex
	builder   *query.Builder
	fetcher   Fetcher
	recorder  *history.Recorder
	projector *Projector

	selection models.Selection
	prompt    *Prompt
	inflight  int
	outcome   State
	lastErr   error
}

// New creates a session starting from the default selection.
func New(builder *query.Builder, fetcher Fetcher, recorder *history.Recorder) *Session {
	return &Session{
		builder:   builder,
		fetcher:   fetcher,
		recorder:  recorder,
		projector: NewProjector(),
		selection: models.DefaultSelection(),
		outcome:   Idle,
	}
}

// Selection returns the current selection.
func (s *Session) Selection() models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Select changes the current selection without submitting it.
func (s *Session) Select(sel models.Selection) error {
	if err := sel.Validate(quarters.Len()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = sel
	return nil
}

// State reports where the session is in the submission flow.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.inflight > 0:
		return Submitting
	case s.prompt != nil:
		return PromptingSave
	default:
		return Idle
	}
}

// LastOutcome returns Success or Failed for the newest completed request, or
// Idle if none has completed, together with its error.
func (s *Session) LastOutcome() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome, s.lastErr
}

// Prompt returns the open save prompt, if any.
func (s *Session) Prompt() (Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prompt == nil {
		return Prompt{}, false
	}
	return *s.prompt, true
}

// Result returns the series currently on display.
func (s *Session) Result() models.SeriesResult {
	return s.projector.Result()
}

// DisplayedCategory returns the category the displayed result was fetched
// for. It can differ from Selection's while a newer request is in flight or
// after one failed.
func (s *Session) DisplayedCategory() (models.Category, bool) {
	return s.projector.Category()
}

// Submit makes sel current, builds its query, opens the save prompt and
// starts the fetch. The fetch is not tied to ctx's cancellation; ctx only
// carries values. Use the returned Submission to wait for completion.
func (s *Session) Submit(ctx context.Context, sel models.Selection) (*Submission, error) {
	q, err := s.builder.Build(sel)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.selection = sel
	s.prompt = &Prompt{ID: uuid.NewString(), Selection: sel}
	s.inflight++
	sub := &Submission{
		Token:  s.projector.Issue(),
		Prompt: *s.prompt,
		Query:  q,
		done:   make(chan struct{}),
	}
	s.mu.Unlock()

	logger.Info("Submitting query %s (%s), token %d", q.RangeLabel(), q.Category.Label, sub.Token)
	go s.fetch(context.WithoutCancel(ctx), sub)
	return sub, nil
}

func (s *Session) fetch(ctx context.Context, sub *Submission) {
	ds, err := s.fetcher.Query(ctx, sub.Query.Payload)

	s.mu.Lock()
	s.inflight--
	current := s.projector.Current(sub.Token)
	if err != nil {
		logger.Error("Query %s failed: %v", sub.Query.RangeLabel(), err)
		if current {
			s.outcome, s.lastErr = Failed, err
		}
	} else {
		sub.applied = s.projector.Apply(sub.Token, sub.Query.Category, sub.Query.Periods, ds)
		if sub.applied {
			s.outcome, s.lastErr = Success, nil
			logger.Debug("Applied %d values for %s", len(ds.Values()), sub.Query.RangeLabel())
		} else {
			logger.Debug("Discarding stale response for token %d", sub.Token)
		}
	}
	s.mu.Unlock()

	sub.err = err
	close(sub.done)
}

// Confirm appends the current selection to history and closes the prompt.
func (s *Session) Confirm(promptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prompt == nil || s.prompt.ID != promptID {
		return ErrNoPrompt
	}
	s.prompt = nil
	return s.recorder.Append(s.selection)
}

// Decline closes the prompt without writing anything.
func (s *Session) Decline(promptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prompt == nil || s.prompt.ID != promptID {
		return ErrNoPrompt
	}
	s.prompt = nil
	return nil
}

// History returns the persisted records.
func (s *Session) History() []models.QueryRecord {
	return s.recorder.List()
}

// Submission tracks one in-flight request.
type Submission struct {
	Token  uint64
	Prompt Prompt
	Query  *query.Query

	done    chan struct{}
	applied bool
	err     error
}

// Done is closed when the fetch has completed.
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the fetch completes or ctx is done, and returns the
// fetch error, if any.
func (s *Submission) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Applied reports whether the response replaced the displayed result.
// Only meaningful after Done is closed.
func (s *Submission) Applied() bool {
	<-s.done
	return s.applied
}
