package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/a-h/templ"

	"mlsweb/internal/contact"
	"mlsweb/internal/db"
	applog "mlsweb/internal/log"
	"mlsweb/internal/views/layout"
	"mlsweb/internal/views/pages"
	themeview "mlsweb/internal/views/theme"
)

var contactPage = layout.PageData{
	Title:       "Contact",
	Description: "Get a free consultation and quote for your next event.",
	Path:        "/contact",
}

// Contact renders the contact page on GET and submits the form on POST.
func Contact(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		showContact(w, r)
	case http.MethodPost:
		submitContact(w, r)
	default:
		applog.Debug(r.Context(), "method not allowed for contact", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ContactForm renders the form panel alone, polled by the page while a
// submission is pending or its success message is showing.
func ContactForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctrl, ok := acquireForm(w, r)
	if !ok {
		return
	}
	renderContactForm(w, r, ctrl, http.StatusOK)
}

func acquireForm(w http.ResponseWriter, r *http.Request) (*contact.Controller, bool) {
	if forms == nil {
		applog.Debug(r.Context(), "contact form registry unavailable")
		http.Error(w, "contact form not available", http.StatusServiceUnavailable)
		return nil, false
	}
	return forms.Acquire(ensureVisitorID(w, r)), true
}

func showContact(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := acquireForm(w, r)
	if !ok {
		return
	}
	view := contactView(r, ctrl)
	page := contactPage
	page.Palette = view.Palette
	writePage(w, r, layout.Layout(page, pages.Contact(view)))
}

func submitContact(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := acquireForm(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		applog.Debug(r.Context(), "failed to parse contact form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string, len(contact.Fields))
	for _, field := range contact.Fields {
		if values, present := r.PostForm[field]; present && len(values) > 0 {
			fields[field] = values[0]
		}
	}

	// The delivery is not cancelled when the visitor disconnects mid-request.
	ctx := context.WithoutCancel(r.Context())
	outcome, err := ctrl.SubmitFields(ctx, fields)
	switch {
	case errors.Is(err, contact.ErrSubmissionInFlight):
		applog.Debug(r.Context(), "ignored duplicate contact submission")
		renderContactForm(w, r, ctrl, http.StatusConflict)
		return
	case err != nil:
		applog.Error(r.Context(), "contact submission unavailable", "error", err)
		http.Error(w, "contact form not available", http.StatusServiceUnavailable)
		return
	}

	applog.Info(r.Context(), "contact form submitted", "status", outcome.Status, "fieldErrors", len(outcome.Errors))
	recordSubmission(ctx, r, outcome)

	renderContactForm(w, r, ctrl, http.StatusOK)
}

func recordSubmission(ctx context.Context, r *http.Request, outcome contact.Outcome) {
	if journal == nil {
		return
	}
	if err := journal.Record(ctx, db.VisitorKey(readVisitorID(r)), outcome.Draft, outcome); err != nil {
		applog.Error(ctx, "failed to journal contact submission", "error", err)
	}
}

func contactView(r *http.Request, ctrl *contact.Controller) pages.ContactView {
	return pages.ContactView{
		Palette:    themeview.Resolve(currentTheme(r)),
		Form:       ctrl.Snapshot(),
		ResetDelay: ctrl.ResetDelay(),
	}
}

// renderContactForm answers HTMX swaps with the form panel and everything
// else with the full page.
func renderContactForm(w http.ResponseWriter, r *http.Request, ctrl *contact.Controller, status int) {
	view := contactView(r, ctrl)

	var component templ.Component
	if isFragment(r) {
		component = pages.ContactForm(view)
	} else {
		page := contactPage
		page.Palette = view.Palette
		component = layout.Layout(page, pages.Contact(view))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render contact form", "error", err)
	}
}
