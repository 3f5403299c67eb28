package htmlbuilder

import (
	"context"
	"io"
	"net/http"
)

const contentType = "text/html; charset=utf-8"

// ViewFunc is the part of a handler specific to its View. It can customize the
// page through the Scope, with SetBlock and SetAttr, before the page gets
// rendered. Returning an error renders the server error page instead.
type ViewFunc func(ctx context.Context, scope *Scope) error

// Site serves the pages of a Registry over HTTP. Each server should have one
// Site, shared by all its handlers.
type Site struct {
	registry  *Registry
	errorPage ContentFunc
}

// SiteOption configures a Site.
type SiteOption func(*Site)

// WithServerErrorPage sets the content rendered when a page can't be. The
// content is resolved outside of any block, against a fresh Scope for the
// same View, so it can only use placeholders with default content.
func WithServerErrorPage(content ContentFunc) SiteOption {
	return func(s *Site) {
		s.errorPage = content
	}
}

// NewSite returns a Site serving registry.
func NewSite(registry *Registry, opts ...SiteOption) *Site {
	site := &Site{registry: registry}
	for _, opt := range opts {
		opt(site)
	}
	return site
}

// Registry returns the Registry the Site serves.
func (s *Site) Registry() *Registry {
	return s.registry
}

// Handle returns an http.Handler serving view. For every request, it creates
// a Scope, makes it available through ScopeFromContext, runs fn if it's not
// nil, and writes the rendered page.
func (s *Site) Handle(view View, fn ViewFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope := s.registry.NewScope(view)
		ctx := WithScope(r.Context(), scope)
		if fn != nil {
			if err := fn(ctx, scope); err != nil {
				logger(ctx).ErrorContext(ctx, "error running view", "view", string(view), "error", err)
				s.serverError(ctx, w, view)
				return
			}
		}
		s.Render(ctx, w, scope)
	})
}

// Render renders the Scope's page to the ResponseWriter. If it can't, a
// server error page is written instead: the one set with
// WithServerErrorPage, if there is one and it renders, or a plain text
// message if not.
func (s *Site) Render(ctx context.Context, w http.ResponseWriter, scope *Scope) {
	out, err := scope.Render(ctx)
	if err != nil {
		logger(ctx).ErrorContext(ctx, "error rendering page", "view", string(scope.View()), "error", err)
		s.serverError(ctx, w, scope.View())
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, out); err != nil {
		logger(ctx).ErrorContext(ctx, "error writing page", "view", string(scope.View()), "error", err)
	}
}

func (s *Site) serverError(ctx context.Context, w http.ResponseWriter, view View) {
	if s.errorPage != nil {
		out, err := s.renderErrorPage(ctx, view)
		if err == nil {
			w.Header().Set("Content-Type", contentType)
			w.WriteHeader(http.StatusInternalServerError)
			if _, err := io.WriteString(w, out); err != nil {
				logger(ctx).ErrorContext(ctx, "error writing server error page", "error", err)
			}
			return
		}
		// if we can't do that, everything's doomed, fall back to
		// plain text
		logger(ctx).ErrorContext(ctx, "error rendering server error page", "error", err)
	}
	http.Error(w, "Server error.", http.StatusInternalServerError)
}

func (s *Site) renderErrorPage(ctx context.Context, view View) (string, error) {
	scope := s.registry.NewScope(view)
	content, err := s.errorPage(ctx, scope)
	if err != nil {
		return "", err
	}
	tree, err := scope.ResolveContent(ctx, nil, content)
	if err != nil {
		return "", err
	}
	return render(tree, 0, false, s.registry.strict)
}
