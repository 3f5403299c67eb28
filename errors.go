package htmlbuilder

import "errors"

var (
	// ErrTypeConstraint is returned when a value that isn't a string, a
	// Node, or an AttrRef is used as element content, or when a value that
	// isn't a string, nil, or an AttrRef is used as an attribute value.
	ErrTypeConstraint = errors.New("unsupported value type")

	// ErrUnresolvedPlaceholder is returned when a tree containing a
	// placeholder, a conditional, or an attribute reference is rendered
	// without being resolved against a Scope first.
	ErrUnresolvedPlaceholder = errors.New("placeholder was not resolved")

	// ErrUnknownTag is returned by strict renders when an element's tag
	// isn't a known HTML tag name.
	ErrUnknownTag = errors.New("unknown tag")

	// ErrNoRoot is returned when building a Registry that no root block was
	// declared for.
	ErrNoRoot = errors.New("no root block declared")

	// ErrDuplicateRoot is returned when a root block is declared more than
	// once. Only one root block is allowed per Registry.
	ErrDuplicateRoot = errors.New("root block already declared")

	// ErrForeignBlock is returned when a block is declared with an owner
	// that doesn't belong to the Builder it's being declared on.
	ErrForeignBlock = errors.New("owner block belongs to another builder")

	// ErrBlockCycle is returned when the declared blocks don't form a tree
	// rooted at the root block. It always indicates a declaration tree that
	// contains itself.
	ErrBlockCycle = errors.New("block cycle detected")

	// ErrAmbiguousBlock is returned when two blocks scoped to the same view
	// are declared for the same context.
	ErrAmbiguousBlock = errors.New("more than one block for the same context and view")

	// ErrMissingContent is returned when a block is declared without a
	// content function.
	ErrMissingContent = errors.New("block has no content function")
)
