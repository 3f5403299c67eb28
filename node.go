package htmlbuilder

import (
	"html/template"
	"slices"
	"strings"
)

// Node is implemented by every value the package knows how to resolve and
// render. Strings, template.HTML values and AttrRefs are also accepted
// wherever a Node is, as are []any and []Node slices, which behave like Seq.
type Node interface {
	node()
}

// Attribute is a single name/value pair on an Element. A nil Value omits the
// attribute from the output. Other than nil, only strings and AttrRefs are
// valid values; anything else fails with ErrTypeConstraint at render time.
type Attribute struct {
	Name  string
	Value any
}

// A builds an Attribute.
func A(name string, value any) Attribute {
	return Attribute{Name: name, Value: value}
}

// Element is an HTML element. Elements are immutable once built: With
// returns a copy rather than changing the receiver, so an Element can be
// shared between trees and requests.
type Element struct {
	tag      string
	attrs    []Attribute
	children []any

	// called is true once With has been invoked, even with no children.
	// It's what decides between <tag /> and <tag></tag>.
	called bool
}

// El returns a void element. Rendered as is, it uses the self-closing form;
// call With on it to get an element that renders with an open and a close
// tag.
//
// If the same attribute name is passed more than once, the last value wins,
// but the attribute keeps the position of its first occurrence.
func El(tag string, attrs ...Attribute) *Element {
	elem := &Element{tag: tag}
	for _, attr := range attrs {
		pos := slices.IndexFunc(elem.attrs, func(existing Attribute) bool {
			return existing.Name == attr.Name
		})
		if pos >= 0 {
			elem.attrs[pos].Value = attr.Value
			continue
		}
		elem.attrs = append(elem.attrs, attr)
	}
	return elem
}

// With returns a copy of the element holding the passed children, appended
// after any children the element already had. The copy always renders with
// explicit open and close tags, even when no children are passed.
func (e *Element) With(children ...any) *Element {
	return &Element{
		tag:      e.tag,
		attrs:    e.attrs,
		children: append(slices.Clip(e.children), children...),
		called:   true,
	}
}

// Tag returns the element's tag name.
func (e *Element) Tag() string {
	return e.tag
}

// Attrs returns a copy of the element's attributes, in the order they were
// declared.
func (e *Element) Attrs() []Attribute {
	return slices.Clone(e.attrs)
}

// Children returns a copy of the element's children.
func (e *Element) Children() []any {
	return slices.Clone(e.children)
}

// Void reports whether the element will render in the self-closing form.
func (e *Element) Void() bool {
	return !e.called
}

func (*Element) node() {}

// Text is text content. It's escaped when rendered. A plain string child is
// equivalent to Text.
type Text string

func (Text) node() {}

// Raw is trusted markup, rendered verbatim without any escaping.
type Raw string

func (Raw) node() {}

// Safe returns its argument as a Raw leaf.
func Safe(markup string) Raw {
	return Raw(markup)
}

// Comment renders as an HTML comment. Its content is not escaped.
type Comment string

func (Comment) node() {}

// Doctype renders as a doctype declaration, e.g. Doctype("html") becomes
// <!doctype html>.
type Doctype string

func (Doctype) node() {}

// Newline renders as an empty line when indenting and as nothing when
// rendering compactly.
type Newline struct{}

func (Newline) node() {}

// Seq is an ordered group of children that has no tag of its own. It's
// flattened into whatever contains it.
type Seq []any

func (Seq) node() {}

// Join groups children that should render on a single line, concatenated as
// if they were text, even when the surrounding render is indenting.
type Join []any

func (Join) node() {}

// AttrRef is a value looked up in the request-scoped attribute store at
// resolution time. Used as an attribute value, it omits the attribute when the
// store has no value for it; used as a child, it renders the stored value as
// text, or nothing.
type AttrRef struct {
	Name string
}

func (AttrRef) node() {}

// Attr returns a reference to the request-scoped attribute called name.
func Attr(name string) AttrRef {
	return AttrRef{Name: name}
}

// Placeholder marks the spot in a block's output where the context called
// Name gets filled in. See Ctx.
type Placeholder struct {
	Name     string
	defaults []any
}

func (*Placeholder) node() {}

// Ctx returns a placeholder for the context called name, owned by whichever
// block produced the tree the placeholder is in. At resolution time it's
// replaced by the output of the block selected for that context, or by
// nothing if no block qualifies.
func Ctx(name string) *Placeholder {
	return &Placeholder{Name: name}
}

// Default returns a copy of the placeholder that renders the passed children
// when neither a request override nor a registered block fills the context.
// Default content, and any request override replacing it, renders on lines of
// its own rather than inline with the enclosing tags.
func (p *Placeholder) Default(children ...any) *Placeholder {
	return &Placeholder{
		Name:     p.Name,
		defaults: append(slices.Clip(p.defaults), children...),
	}
}

// conditionKind says what a Conditional checks.
type conditionKind int

const (
	conditionBlock conditionKind = iota
	conditionAttr
)

// Conditional includes its children only when its check passes. Build one
// with HasBlock or HasAttr.
type Conditional struct {
	kind     conditionKind
	name     string
	children []any
}

func (*Conditional) node() {}

// HasBlock includes children only if the context called name, owned by the
// block the conditional appears in, would be filled by a request override or
// a registered block. Checking doesn't resolve the context.
func HasBlock(name string, children ...any) *Conditional {
	return &Conditional{kind: conditionBlock, name: name, children: children}
}

// HasAttr includes children only if the request-scoped attribute store holds
// a non-nil value for name.
func HasAttr(name string, children ...any) *Conditional {
	return &Conditional{kind: conditionAttr, name: name, children: children}
}

// isInline reports whether child renders on the same line as its parent's
// tags when it's the parent's only child. Markup spanning several lines gets
// lines of its own.
func isInline(child any) bool {
	switch c := child.(type) {
	case string, Text:
		return true
	case Raw:
		return !strings.Contains(string(c), "\n")
	case template.HTML:
		return !strings.Contains(string(c), "\n")
	}
	return false
}
