package contact

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubmitter struct {
	calls    atomic.Int32
	release  chan struct{}
	started  chan struct{}
	errs     FieldErrors
	err      error
	received Draft
	mu       sync.Mutex
}

func (s *recordingSubmitter) Submit(ctx context.Context, draft Draft) (FieldErrors, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.received = draft
	s.mu.Unlock()
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	return s.errs, s.err
}

type statusLog struct {
	mu  sync.Mutex
	seq []Status
}

func (l *statusLog) record(s Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq = append(l.seq, s)
}

func (l *statusLog) snapshot() []Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Status(nil), l.seq...)
}

func fillDraft(c *Controller) {
	c.UpdateField(FieldName, "Jo")
	c.UpdateField(FieldPhone, "123")
	c.UpdateField(FieldEventType, "wedding")
	c.UpdateField(FieldMessage, "hi")
}

func TestUpdateFieldOverwritesAndIgnoresUnknown(t *testing.T) {
	t.Parallel()

	c := NewController(&recordingSubmitter{}, 0)
	c.UpdateField(FieldName, "J")
	c.UpdateField(FieldName, "Jo")
	c.UpdateField("email", "jo@example.com")

	assert.Equal(t, Draft{Name: "Jo"}, c.Draft())
	assert.Equal(t, DefaultResetDelay, c.ResetDelay())
}

func TestSuccessfulSubmissionClearsDraftAndResets(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{}
	c := NewController(sub, 30*time.Millisecond)
	t.Cleanup(c.Close)

	log := &statusLog{}
	log.record(c.Status())
	c.OnChange(log.record)
	fillDraft(c)

	outcome, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Succeeded, outcome.Status)
	assert.Empty(t, outcome.Errors)
	assert.Equal(t, Draft{}, c.Draft())
	assert.Equal(t, Draft{Name: "Jo", Phone: "123", EventType: "wedding", Message: "hi"}, sub.received)

	require.Eventually(t, func() bool { return c.Status() == Idle }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []Status{Idle, Submitting, Succeeded, Idle}, log.snapshot())
}

func TestSubmitWhileSubmittingIsRejected(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{release: make(chan struct{}), started: make(chan struct{})}
	c := NewController(sub, time.Hour)
	t.Cleanup(c.Close)
	fillDraft(c)

	done := make(chan Outcome, 1)
	go func() {
		outcome, _ := c.Submit(context.Background())
		done <- outcome
	}()
	<-sub.started
	assert.Equal(t, Submitting, c.Status())

	outcome, err := c.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Equal(t, Submitting, outcome.Status)

	close(sub.release)
	first := <-done
	assert.Equal(t, Succeeded, first.Status)
	assert.EqualValues(t, 1, sub.calls.Load())
}

func TestSubmitFieldsAppliesValuesAndSends(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{}
	c := NewController(sub, time.Hour)
	t.Cleanup(c.Close)

	outcome, err := c.SubmitFields(context.Background(), map[string]string{
		FieldName:    "Ana",
		FieldMessage: "gala",
		"unknown":    "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, Succeeded, outcome.Status)
	assert.Equal(t, Draft{Name: "Ana", Message: "gala"}, outcome.Draft)
	assert.Equal(t, Draft{Name: "Ana", Message: "gala"}, sub.received)
	assert.True(t, c.Draft().IsEmpty())
}

func TestSubmitFieldsWhileSubmittingLeavesDraftInFlight(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{release: make(chan struct{}), started: make(chan struct{}), errs: FieldErrors{FieldPhone: "invalid"}}
	c := NewController(sub, time.Hour)
	t.Cleanup(c.Close)

	done := make(chan Outcome, 1)
	go func() {
		outcome, _ := c.SubmitFields(context.Background(), map[string]string{FieldName: "First"})
		done <- outcome
	}()
	<-sub.started

	_, err := c.SubmitFields(context.Background(), map[string]string{FieldName: "Second"})
	require.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Equal(t, "First", c.Draft().Name)

	close(sub.release)
	first := <-done
	assert.Equal(t, Failed, first.Status)
	assert.Equal(t, "First", first.Draft.Name)
	assert.Equal(t, "First", c.Draft().Name)
	assert.EqualValues(t, 1, sub.calls.Load())
}

func TestSubmitAfterCloseReportsStatus(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{errs: FieldErrors{FieldPhone: "invalid"}}
	c := NewController(sub, time.Hour)
	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	c.Close()

	outcome, err := c.Submit(context.Background())
	require.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, Failed, outcome.Status)
	assert.EqualValues(t, 1, sub.calls.Load())
}

func TestRemoteRejectionKeepsDraft(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{errs: FieldErrors{FieldPhone: "should be a valid phone number"}}
	c := NewController(sub, 10*time.Millisecond)
	t.Cleanup(c.Close)
	fillDraft(c)
	before := c.Draft()

	outcome, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Failed, outcome.Status)
	assert.Contains(t, outcome.Errors, FieldPhone)
	assert.Equal(t, before, c.Draft())

	snap := c.Snapshot()
	assert.Equal(t, Failed, snap.Status)
	assert.Equal(t, "should be a valid phone number", snap.Errors.Field(FieldPhone))

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, Failed, c.Status(), "failures never reset automatically")
	assert.EqualValues(t, 1, sub.calls.Load(), "failures are not retried")
}

func TestTransportFailureReportsGenericMessage(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{err: errors.New("dial tcp: connection refused")}
	c := NewController(sub, 0)
	t.Cleanup(c.Close)
	fillDraft(c)

	outcome, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Failed, outcome.Status)
	assert.Error(t, outcome.Err)
	assert.Equal(t, GenericFailureMessage, outcome.Errors.Form())
	assert.Equal(t, "Jo", c.Draft().Name)
}

func TestResubmitAfterFailureClearsErrors(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{errs: FieldErrors{FieldName: "required"}}
	c := NewController(sub, time.Hour)
	t.Cleanup(c.Close)

	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Failed, c.Status())

	sub.errs = nil
	c.UpdateField(FieldName, "Jo")
	outcome, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Succeeded, outcome.Status)
	assert.Empty(t, c.Snapshot().Errors)
}

func TestCloseCancelsPendingReset(t *testing.T) {
	t.Parallel()

	c := NewController(&recordingSubmitter{}, 20*time.Millisecond)
	log := &statusLog{}
	c.OnChange(log.record)

	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	c.Close()
	c.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, Succeeded, c.Status())
	assert.Equal(t, []Status{Submitting, Succeeded}, log.snapshot())

	_, err = c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSubmitWithoutSubmitterFails(t *testing.T) {
	t.Parallel()

	c := NewController(nil, 0)
	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, Idle, c.Status())
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "submitting", Submitting.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", Status(42).String())
}
