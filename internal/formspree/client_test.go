package formspree

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlsweb/internal/contact"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(Config{Endpoint: srv.URL + "/f/test"})
	require.NoError(t, err)
	return client
}

func TestNewClientValidatesEndpoint(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{})
	assert.Error(t, err)
	_, err = NewClient(Config{Endpoint: "formspree"})
	assert.Error(t, err)

	client, err := NewClient(Config{Endpoint: " https://formspree.io/f/mwvnejgy "})
	require.NoError(t, err)
	assert.Equal(t, "https://formspree.io/f/mwvnejgy", client.Endpoint())
}

func TestSubmitPostsFourFields(t *testing.T) {
	t.Parallel()

	var got map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/f/test", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"next":"/thanks","ok":true}`))
	})

	draft := contact.Draft{Name: "Jo", Phone: "123", EventType: "wedding", Message: "hi"}
	errs, err := client.Submit(context.Background(), draft)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, map[string]string{
		"name":      "Jo",
		"phone":     "123",
		"eventType": "wedding",
		"message":   "hi",
	}, got)
}

func TestSubmitMapsFieldErrors(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":[
			{"field":"phone","code":"TYPE_TEL","message":"should be a valid phone number"},
			{"code":"EMPTY","message":"form is empty"}
		]}`))
	})

	errs, err := client.Submit(context.Background(), contact.Draft{Phone: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "should be a valid phone number", errs.Field(contact.FieldPhone))
	assert.Equal(t, "form is empty", errs.Form())
}

func TestSubmitUsesTopLevelError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"Form not found"}`))
	})

	errs, err := client.Submit(context.Background(), contact.Draft{})
	require.NoError(t, err)
	assert.Equal(t, "Form not found", errs.Form())
}

func TestSubmitWrapsTransportFailures(t *testing.T) {
	t.Parallel()

	t.Run("undecodable body", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		})
		errs, err := client.Submit(context.Background(), contact.Draft{})
		assert.ErrorIs(t, err, ErrTransport)
		assert.Nil(t, errs)
	})

	t.Run("connection refused", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		endpoint := srv.URL
		srv.Close()

		client, err := NewClient(Config{Endpoint: endpoint, Timeout: time.Second})
		require.NoError(t, err)
		_, err = client.Submit(context.Background(), contact.Draft{})
		assert.ErrorIs(t, err, ErrTransport)
	})
}

func TestClientDrivesControllerEndToEnd(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctrl := contact.NewController(client, 25*time.Millisecond)
	t.Cleanup(ctrl.Close)

	var seq []contact.Status
	seq = append(seq, ctrl.Status())
	done := make(chan struct{})
	ctrl.OnChange(func(s contact.Status) {
		seq = append(seq, s)
		if s == contact.Idle {
			close(done)
		}
	})

	ctrl.UpdateField(contact.FieldName, "Jo")
	ctrl.UpdateField(contact.FieldPhone, "123")
	ctrl.UpdateField(contact.FieldEventType, "wedding")
	ctrl.UpdateField(contact.FieldMessage, "hi")

	outcome, err := ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, contact.Succeeded, outcome.Status)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("status never returned to idle")
	}
	assert.Equal(t, []contact.Status{contact.Idle, contact.Submitting, contact.Succeeded, contact.Idle}, seq)
	assert.Equal(t, contact.Draft{}, ctrl.Draft())
}
