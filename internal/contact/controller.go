// Package contact tracks one visitor's contact form: the draft being typed,
// its delivery to the form endpoint, and the status shown on the submit button.
package contact

import (
	"context"
	"errors"
	"sync"
	"time"

	applog "mlsweb/internal/log"
)

// DefaultResetDelay is how long the succeeded status is displayed.
const DefaultResetDelay = 3 * time.Second

// GenericFailureMessage is shown when the endpoint could not be reached.
const GenericFailureMessage = "Something went wrong sending your message. Please try again."

var (
	// ErrSubmissionInFlight is returned by Submit while a previous submission is pending.
	ErrSubmissionInFlight = errors.New("contact: submission already in progress")
	// ErrClosed is returned once the controller has been torn down.
	ErrClosed = errors.New("contact: controller closed")
)

// Status is the lifecycle of one submission attempt.
type Status int

const (
	Idle Status = iota
	Submitting
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Submitter delivers a draft to the form-processing endpoint. A rejected
// submission is reported through FieldErrors with a nil error; a non-nil
// error means the request itself failed.
type Submitter interface {
	Submit(ctx context.Context, draft Draft) (FieldErrors, error)
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, draft Draft) (FieldErrors, error)

func (f SubmitterFunc) Submit(ctx context.Context, draft Draft) (FieldErrors, error) {
	return f(ctx, draft)
}

// Outcome describes how a Submit call ended.
type Outcome struct {
	Status Status
	Errors FieldErrors
	// Draft is the draft that was sent.
	Draft Draft
	// Err carries the transport failure, if any.
	Err error
}

// Snapshot is a consistent copy of the controller state for rendering.
type Snapshot struct {
	Draft  Draft
	Status Status
	Errors FieldErrors
}

// Controller owns the draft and submission status for one visitor.
type Controller struct {
	submitter  Submitter
	resetDelay time.Duration

	mu         sync.Mutex
	draft      Draft
	status     Status
	errs       FieldErrors
	timer      *time.Timer
	generation uint64
	closed     bool
	observers  []func(Status)
}

// NewController builds a Controller. A non-positive resetDelay uses DefaultResetDelay.
func NewController(submitter Submitter, resetDelay time.Duration) *Controller {
	if resetDelay <= 0 {
		resetDelay = DefaultResetDelay
	}
	return &Controller{
		submitter:  submitter,
		resetDelay: resetDelay,
	}
}

// OnChange registers fn to observe every status transition. Observers run
// synchronously on the goroutine that caused the transition.
func (c *Controller) OnChange(fn func(Status)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// UpdateField overwrites one field of the draft.
func (c *Controller) UpdateField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Set(name, value)
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Status returns the current submission status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Snapshot returns the draft, status, and errors under one lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Draft: c.draft, Status: c.status, Errors: c.errs.clone()}
}

// ResetDelay reports how long the succeeded status stays visible.
func (c *Controller) ResetDelay() time.Duration {
	return c.resetDelay
}

// Submit sends the current draft. It returns ErrSubmissionInFlight without
// contacting the endpoint while an earlier submission is still pending.
// Remote rejections and transport failures are reported through the Outcome;
// the returned error is reserved for calls the controller refused.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	return c.SubmitFields(ctx, nil)
}

// SubmitFields applies fields to the draft and sends it, as one step. Nothing
// is applied when an earlier submission is still pending, so the draft in
// flight is never altered.
func (c *Controller) SubmitFields(ctx context.Context, fields map[string]string) (Outcome, error) {
	c.mu.Lock()
	if c.closed {
		status := c.status
		c.mu.Unlock()
		return Outcome{Status: status}, ErrClosed
	}
	if c.status == Submitting {
		c.mu.Unlock()
		return Outcome{Status: Submitting}, ErrSubmissionInFlight
	}
	if c.submitter == nil {
		status := c.status
		c.mu.Unlock()
		return Outcome{Status: status}, errors.New("contact: submitter not configured")
	}
	for name, value := range fields {
		c.draft.Set(name, value)
	}
	c.cancelTimerLocked()
	draft := c.draft
	c.errs = nil
	notify := c.transitionLocked(Submitting)
	c.mu.Unlock()
	notify()

	fieldErrs, err := c.submitter.Submit(ctx, draft)

	c.mu.Lock()
	outcome := Outcome{Draft: draft}
	switch {
	case len(fieldErrs) > 0:
		c.errs = fieldErrs.clone()
		outcome.Status = Failed
		outcome.Errors = fieldErrs.clone()
	case err != nil:
		applog.Error(ctx, "contact form delivery failed", "error", err)
		c.errs = FieldErrors{FormErrorKey: GenericFailureMessage}
		outcome.Status = Failed
		outcome.Errors = c.errs.clone()
		outcome.Err = err
	default:
		c.draft = Draft{}
		outcome.Status = Succeeded
	}
	notify = c.transitionLocked(outcome.Status)
	c.mu.Unlock()
	notify()

	if outcome.Status == Succeeded {
		// Scheduled after observers ran so the idle transition is never seen first.
		c.mu.Lock()
		if !c.closed && c.status == Succeeded && c.timer == nil {
			c.scheduleResetLocked()
		}
		c.mu.Unlock()
	}

	return outcome, nil
}

// Close tears the controller down and cancels a pending reset. It is safe to
// call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cancelTimerLocked()
}

func (c *Controller) scheduleResetLocked() {
	c.generation++
	gen := c.generation
	c.timer = time.AfterFunc(c.resetDelay, func() {
		c.reset(gen)
	})
}

func (c *Controller) cancelTimerLocked() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) reset(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation || c.status != Succeeded {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	notify := c.transitionLocked(Idle)
	c.mu.Unlock()
	notify()
}

// transitionLocked sets the status and returns a function that informs the
// observers; callers invoke it after releasing the lock.
func (c *Controller) transitionLocked(next Status) func() {
	c.status = next
	observers := append([]func(Status){}, c.observers...)
	return func() {
		for _, fn := range observers {
			fn(next)
		}
	}
}
