package htmlbuilder

import "context"

// Scope holds the state of a single request: the View being served, blocks
// the view set for itself, and the request's attribute store. A Scope must not
// be shared between requests, and isn't safe for concurrent use.
type Scope struct {
	registry  *Registry
	view      View
	overrides map[string]any
	attrs     map[string]any
}

// NewScope returns an empty Scope for a request served by view.
func (r *Registry) NewScope(view View) *Scope {
	return &Scope{
		registry:  r,
		view:      view,
		overrides: map[string]any{},
		attrs:     map[string]any{},
	}
}

// View returns the View the Scope's request is served by.
func (s *Scope) View() View {
	return s.view
}

// Registry returns the Registry the Scope resolves against.
func (s *Scope) Registry() *Registry {
	return s.registry
}

// SetBlock fills every context called name, for this request only, with
// content. It takes precedence over any registered block and over a
// placeholder's default content. A single child is used as is, unless the
// context has default content, which always renders as a block; more than
// one are grouped into a Seq.
func (s *Scope) SetBlock(name string, content ...any) {
	if len(content) == 1 {
		s.overrides[name] = content[0]
		return
	}
	s.overrides[name] = Seq(content)
}

// SetAttr stores value under name in the request's attribute store. Setting a
// nil value is the same as never setting it.
func (s *Scope) SetAttr(name string, value any) {
	if value == nil {
		delete(s.attrs, name)
		return
	}
	s.attrs[name] = value
}

// Attr returns the value stored under name in the request's attribute store.
func (s *Scope) Attr(name string) (any, bool) {
	val, ok := s.attrs[name]
	return val, ok
}

// HasAttr reports whether the request's attribute store has a non-nil value
// for name.
func (s *Scope) HasAttr(name string) bool {
	_, ok := s.attrs[name]
	return ok
}

// HasBlock reports whether the context called name, under owner, would be
// filled for this request, either by SetBlock or by a registered block. It
// doesn't call any content function.
func (s *Scope) HasBlock(owner *Block, name string) bool {
	if _, ok := s.overrides[name]; ok {
		return true
	}
	return s.registry.Select(owner, name, s.view) != nil
}

type scopeCtxKey struct{}

// WithScope returns a copy of ctx carrying scope.
func WithScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeCtxKey{}, scope)
}

// ScopeFromContext returns the Scope carried by ctx, if there is one.
func ScopeFromContext(ctx context.Context) (*Scope, bool) {
	scope, ok := ctx.Value(scopeCtxKey{}).(*Scope)
	return scope, ok && scope != nil
}
