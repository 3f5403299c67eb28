package htmlbuilder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "impractical.co/htmlbuilder"

// View identifies the route or handler a request is being served by. Blocks
// can be scoped to a set of Views.
type View string

// ContentFunc produces the content of a block. It's called every time the
// block is selected while resolving a request, never cached, so it's free to
// use request-scoped data from the Scope.
//
// The returned value may be anything that can be rendered, plus placeholders
// (Ctx) for the contexts this block owns, conditionals (HasBlock, HasAttr),
// and attribute references (Attr). A nil result renders as nothing.
type ContentFunc func(ctx context.Context, scope *Scope) (any, error)

// Static returns a ContentFunc that always produces the passed content.
func Static(content ...any) ContentFunc {
	return func(context.Context, *Scope) (any, error) {
		if len(content) == 1 {
			return content[0], nil
		}
		return Seq(content), nil
	}
}

// Block is a registered candidate for filling a context. Blocks are created
// by a Builder and are only meaningful to the Registry that Builder builds.
type Block struct {
	builder *Builder

	// seq is the position the block was declared at; later declarations
	// win ties.
	seq int

	context string
	owner   *Block
	content ContentFunc
	views   []View
}

// Context returns the name of the context the block fills, or an empty string
// for the root block.
func (b *Block) Context() string {
	return b.context
}

// Owner returns the block that owns the context this block fills, or nil for
// the root block.
func (b *Block) Owner() *Block {
	return b.owner
}

// Views returns the Views the block is scoped to. An empty result means the
// block is the default for every View.
func (b *Block) Views() []View {
	return slices.Clone(b.views)
}

// IsRoot reports whether the block is a root block.
func (b *Block) IsRoot() bool {
	return b.owner == nil
}

func (b *Block) String() string {
	if b.owner == nil {
		return "root"
	}
	return b.owner.String() + "/" + b.context + "#" + strconv.Itoa(b.seq)
}

type contextKey struct {
	owner *Block
	name  string
}

// Builder collects block declarations for a Registry. It's meant to be used at
// startup, from a single goroutine; Build turns it into a Registry that can
// be shared by every request.
//
// Declaration methods don't return errors. Problems are remembered and
// reported, all together, by Build.
type Builder struct {
	root   *Block
	blocks []*Block
	errs   []error

	strict         bool
	tracerProvider trace.TracerProvider
}

// Option configures a Builder.
type Option func(*Builder)

// StrictTags makes renders fail with ErrUnknownTag when they encounter an
// element whose tag KnownTag doesn't recognize.
func StrictTags() Option {
	return func(b *Builder) {
		b.strict = true
	}
}

// WithTracerProvider sets the TracerProvider spans are started from. By
// default, the global TracerProvider is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(b *Builder) {
		b.tracerProvider = tp
	}
}

// NewBuilder returns a Builder that's ready to have blocks declared on it.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Root declares the root block, the one resolution starts from. Only one root
// block may be declared; declaring a second one makes Build fail with
// ErrDuplicateRoot, and the returned Block is never registered.
func (b *Builder) Root(content ContentFunc) *Block {
	blk := &Block{
		builder: b,
		seq:     len(b.blocks),
		content: content,
	}
	if content == nil {
		b.errs = append(b.errs, fmt.Errorf("error declaring root block: %w", ErrMissingContent))
	}
	if b.root != nil {
		b.errs = append(b.errs, ErrDuplicateRoot)
		return blk
	}
	b.root = blk
	b.blocks = append(b.blocks, blk)
	return blk
}

// Block declares a candidate for filling the context called name, owned by
// owner. If views are passed, the block is only a candidate while serving
// those Views; otherwise it's the default for every View.
func (b *Builder) Block(name string, owner *Block, content ContentFunc, views ...View) *Block {
	blk := &Block{
		builder: b,
		seq:     len(b.blocks),
		context: name,
		owner:   owner,
		content: content,
	}
	for _, view := range views {
		if !slices.Contains(blk.views, view) {
			blk.views = append(blk.views, view)
		}
	}
	if owner == nil || owner.builder != b {
		b.errs = append(b.errs, fmt.Errorf("error declaring block for context %q: %w", name, ErrForeignBlock))
		return blk
	}
	if content == nil {
		b.errs = append(b.errs, fmt.Errorf("error declaring block for context %q: %w", name, ErrMissingContent))
		return blk
	}
	b.blocks = append(b.blocks, blk)
	return blk
}

// Build validates the declarations and returns a Registry holding them. The
// Registry doesn't change after it's built, and can be used by any number of
// goroutines at once.
//
// Build fails if no root block was declared, if any declaration was rejected,
// if the blocks don't form a single tree under the root block, or if two
// blocks scoped to the same View were declared for the same context.
func (b *Builder) Build() (*Registry, error) {
	errs := slices.Clone(b.errs)
	if b.root == nil {
		errs = append(errs, ErrNoRoot)
	}

	tree := newGraph[*Block]()
	contexts := map[contextKey][]*Block{}
	for _, blk := range b.blocks {
		tree.add(blk)
		if blk.owner == nil {
			continue
		}
		tree.connect(blk.owner, blk)
		key := contextKey{owner: blk.owner, name: blk.context}
		contexts[key] = append(contexts[key], blk)
	}
	if _, err := tree.walk((*Block).String); err != nil {
		errs = append(errs, err)
	}
	for _, blk := range b.blocks {
		if blk == b.root {
			continue
		}
		top := blk
		for top.owner != nil {
			top = top.owner
		}
		if top != b.root {
			errs = append(errs, fmt.Errorf("error declaring block %s: %w", blk, ErrForeignBlock))
		}
	}
	for key, candidates := range contexts {
		seen := map[View]*Block{}
		for _, blk := range candidates {
			for _, view := range blk.views {
				if prev, ok := seen[view]; ok {
					errs = append(errs, fmt.Errorf("%w: %s and %s both fill %q for view %q", ErrAmbiguousBlock, prev, blk, key.name, view))
					continue
				}
				seen[view] = blk
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	tp := b.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Registry{
		root:     b.root,
		contexts: contexts,
		strict:   b.strict,
		tracer:   tp.Tracer(instrumentationName),
	}, nil
}

// Registry holds every block declared for an application, and selects which
// one fills each context for a given View. A Registry is immutable once
// built; request-specific state lives in a Scope.
type Registry struct {
	root     *Block
	contexts map[contextKey][]*Block
	strict   bool
	tracer   trace.Tracer
}

// Root returns the root block.
func (r *Registry) Root() *Block {
	return r.root
}

// Candidates returns every block declared for the context called name under
// owner, in declaration order.
func (r *Registry) Candidates(owner *Block, name string) []*Block {
	return slices.Clone(r.contexts[contextKey{owner: owner, name: name}])
}

// Select returns the block that fills the context called name under owner
// when serving view, or nil if no block does. A block scoped to view is
// preferred over a default block; among equals, the last one declared wins.
func (r *Registry) Select(owner *Block, name string, view View) *Block {
	candidates := r.contexts[contextKey{owner: owner, name: name}]
	var fallback *Block
	for i := len(candidates) - 1; i >= 0; i-- {
		blk := candidates[i]
		if len(blk.views) < 1 {
			if fallback == nil {
				fallback = blk
			}
			continue
		}
		if slices.Contains(blk.views, view) {
			return blk
		}
	}
	return fallback
}
