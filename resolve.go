package htmlbuilder

import (
	"context"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Render resolves the Scope's request starting from the root block and
// serializes the result the way Render does. On error, no output is
// returned.
func (s *Scope) Render(ctx context.Context) (string, error) {
	ctx, span := s.registry.tracer.Start(ctx, "htmlbuilder.Render", trace.WithAttributes(
		attribute.String("htmlbuilder.view", string(s.view)),
	))
	defer span.End()

	tree, err := s.Resolve(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "error resolving blocks")
		return "", err
	}
	out, err := render(tree, 0, false, s.registry.strict)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "error rendering")
		return "", fmt.Errorf("error rendering view %q: %w", s.view, err)
	}
	return out, nil
}

// Resolve produces the concrete tree for the Scope's request: the root
// block's content, with every placeholder, conditional, and attribute
// reference in it replaced, recursively.
func (s *Scope) Resolve(ctx context.Context) (any, error) {
	return s.resolveBlock(ctx, s.registry.root)
}

// ResolveContent resolves content as if it were produced by owner. A nil
// owner resolves it outside of any block, so its placeholders can only be
// filled by SetBlock or their default content.
func (s *Scope) ResolveContent(ctx context.Context, owner *Block, content any) (any, error) {
	return s.resolve(ctx, content, owner)
}

func (s *Scope) resolveBlock(ctx context.Context, blk *Block) (any, error) {
	ctx, span := s.registry.tracer.Start(ctx, "htmlbuilder.block", trace.WithAttributes(
		attribute.String("htmlbuilder.block", blk.String()),
		attribute.String("htmlbuilder.context", blk.context),
		attribute.Bool("htmlbuilder.view_scoped", len(blk.views) > 0),
	))
	defer span.End()

	content, err := blk.content(ctx, s)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "error producing content")
		return nil, fmt.Errorf("error producing content for block %s: %w", blk, err)
	}
	if content == nil {
		return Seq{}, nil
	}
	return s.resolve(ctx, content, blk)
}

// resolve returns value with everything request-dependent in it replaced.
// owner is the block value was produced by, and owns any contexts value
// references.
func (s *Scope) resolve(ctx context.Context, value any, owner *Block) (any, error) {
	switch v := value.(type) {
	case *Element:
		if v == nil {
			return v, nil
		}
		return s.resolveElement(ctx, v, owner)
	case Seq:
		children, err := s.resolveAll(ctx, v, owner)
		return Seq(children), err
	case []any:
		children, err := s.resolveAll(ctx, v, owner)
		return Seq(children), err
	case []Node:
		children := make([]any, 0, len(v))
		for _, child := range v {
			children = append(children, child)
		}
		resolved, err := s.resolveAll(ctx, children, owner)
		return Seq(resolved), err
	case Join:
		children, err := s.resolveAll(ctx, v, owner)
		return Join(children), err
	case AttrRef:
		val, ok := s.attrs[v.Name]
		if !ok {
			return Seq{}, nil
		}
		return val, nil
	case *Placeholder:
		return s.fill(ctx, v, owner)
	case *Conditional:
		var include bool
		switch v.kind {
		case conditionBlock:
			include = s.HasBlock(owner, v.name)
		case conditionAttr:
			include = s.HasAttr(v.name)
		}
		if !include {
			return Seq{}, nil
		}
		children, err := s.resolveAll(ctx, v.children, owner)
		return Seq(children), err
	}
	// anything else is either a leaf or something the renderer will
	// reject
	return value, nil
}

func (s *Scope) resolveAll(ctx context.Context, values []any, owner *Block) ([]any, error) {
	results := make([]any, 0, len(values))
	for _, value := range values {
		res, err := s.resolve(ctx, value, owner)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Scope) resolveElement(ctx context.Context, elem *Element, owner *Block) (*Element, error) {
	resolved := &Element{
		tag:    elem.tag,
		attrs:  elem.attrs,
		called: elem.called,
	}
	var copied bool
	for pos, attr := range elem.attrs {
		ref, ok := attr.Value.(AttrRef)
		if !ok {
			continue
		}
		if !copied {
			// elem is shared between requests, never write to its
			// attributes
			resolved.attrs = slices.Clone(elem.attrs)
			copied = true
		}
		resolved.attrs[pos].Value = s.attrs[ref.Name]
	}
	children, err := s.resolveAll(ctx, elem.children, owner)
	if err != nil {
		return nil, err
	}
	resolved.children = children
	return resolved, nil
}

// fill resolves the context a placeholder stands for: a SetBlock override
// first, then the block the Registry selects, then the placeholder's default
// content, then nothing.
func (s *Scope) fill(ctx context.Context, placeholder *Placeholder, owner *Block) (any, error) {
	if override, ok := s.overrides[placeholder.Name]; ok {
		// a placeholder with default content stays block-level when
		// overridden
		if _, isSeq := override.(Seq); !isSeq && len(placeholder.defaults) > 0 {
			override = Seq{override}
		}
		return s.resolve(ctx, override, owner)
	}
	if blk := s.registry.Select(owner, placeholder.Name, s.view); blk != nil {
		return s.resolveBlock(ctx, blk)
	}
	if len(placeholder.defaults) == 0 {
		logger(ctx).DebugContext(ctx, "context resolved to nothing",
			"context", placeholder.Name,
			"owner", ownerName(owner),
			"view", string(s.view))
		return Seq{}, nil
	}
	return s.resolve(ctx, Seq(placeholder.defaults), owner)
}

func ownerName(owner *Block) string {
	if owner == nil {
		return "none"
	}
	return owner.String()
}
