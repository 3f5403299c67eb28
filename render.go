package htmlbuilder

import (
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/net/html/atom"
)

const indentUnit = "  "

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Render serializes a resolved tree, one element per line, indented by two
// spaces per nesting level. Each line, the last included, ends in a newline.
//
// The tree must not contain placeholders, conditionals, or attribute
// references; resolve it with a Scope first. If anything in the tree can't be
// rendered, an error is returned and no output is.
func Render(node any) (string, error) {
	return render(node, 0, false, false)
}

// RenderLevel serializes a resolved tree the same way Render does, but
// starting at the passed nesting level and without the trailing newline. It's
// meant for rendering a fragment that will be embedded in an already indented
// document.
func RenderLevel(node any, level int) (string, error) {
	out, err := render(node, level, false, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(out, "\n"), nil
}

// RenderCompact serializes a resolved tree without any indentation or line
// breaks. Newline leaves contribute nothing.
func RenderCompact(node any) (string, error) {
	return render(node, 0, true, false)
}

// KnownTag reports whether name is a standard HTML tag name. Custom element
// names, which must contain a hyphen, are always reported as known.
func KnownTag(name string) bool {
	if strings.Contains(name, "-") {
		return true
	}
	return atom.Lookup([]byte(name)) != 0
}

func render(node any, level int, compact, strict bool) (string, error) {
	r := &renderer{compact: compact, strict: strict}
	if err := r.node(node, level); err != nil {
		return "", err
	}
	return r.out.String(), nil
}

type renderer struct {
	out     strings.Builder
	compact bool

	// strict rejects tags that KnownTag doesn't know.
	strict bool
}

// line writes content on a line of its own, at the passed level.
func (r *renderer) line(level int, content string) {
	for i := 0; i < level; i++ {
		r.out.WriteString(indentUnit)
	}
	r.out.WriteString(content)
	r.out.WriteString("\n")
}

// leaf writes content verbatim in compact mode, or as a line of its own
// otherwise.
func (r *renderer) leaf(level int, content string) {
	if r.compact {
		r.out.WriteString(content)
		return
	}
	r.line(level, content)
}

func (r *renderer) node(node any, level int) error {
	switch n := node.(type) {
	case string:
		r.leaf(level, escaper.Replace(n))
	case Text:
		r.leaf(level, escaper.Replace(string(n)))
	case Raw:
		r.leaf(level, string(n))
	case template.HTML:
		r.leaf(level, string(n))
	case Comment:
		r.leaf(level, "<!--"+string(n)+"-->")
	case Doctype:
		r.leaf(level, "<!doctype "+string(n)+">")
	case Newline:
		if !r.compact {
			r.line(level, "")
		}
	case Seq:
		return r.nodes(n, level)
	case []any:
		return r.nodes(n, level)
	case []Node:
		for _, child := range n {
			if err := r.node(child, level); err != nil {
				return err
			}
		}
	case Join:
		if r.compact {
			return r.nodes(n, level)
		}
		joined, err := render(Seq(n), 0, true, r.strict)
		if err != nil {
			return err
		}
		if joined != "" {
			r.line(level, joined)
		}
	case *Element:
		if n == nil {
			return fmt.Errorf("%w: nil *Element", ErrTypeConstraint)
		}
		return r.element(n, level)
	case AttrRef:
		return fmt.Errorf("%w: attribute reference %q", ErrUnresolvedPlaceholder, n.Name)
	case *Placeholder:
		return fmt.Errorf("%w: context %q", ErrUnresolvedPlaceholder, n.Name)
	case *Conditional:
		return fmt.Errorf("%w: conditional on %q", ErrUnresolvedPlaceholder, n.name)
	default:
		return fmt.Errorf("%w: %T used as content", ErrTypeConstraint, node)
	}
	return nil
}

func (r *renderer) nodes(nodes []any, level int) error {
	for _, child := range nodes {
		if err := r.node(child, level); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) element(elem *Element, level int) error {
	if r.strict && !KnownTag(elem.tag) {
		return fmt.Errorf("%w: <%s>", ErrUnknownTag, elem.tag)
	}
	open, err := openTag(elem)
	if err != nil {
		return err
	}
	closing := "</" + elem.tag + ">"

	switch {
	case !elem.called:
		r.leaf(level, open+" />")
		return nil
	case isEmpty(elem.children):
		r.leaf(level, open+">"+closing)
		return nil
	case r.compact:
		r.out.WriteString(open + ">")
		if err := r.nodes(elem.children, level); err != nil {
			return fmt.Errorf("error rendering <%s>: %w", elem.tag, err)
		}
		r.out.WriteString(closing)
		return nil
	case len(elem.children) == 1 && isInline(elem.children[0]):
		inner, err := render(elem.children[0], 0, true, r.strict)
		if err != nil {
			return fmt.Errorf("error rendering <%s>: %w", elem.tag, err)
		}
		r.line(level, open+">"+inner+closing)
		return nil
	}

	r.line(level, open+">")
	if err := r.nodes(elem.children, level+1); err != nil {
		return fmt.Errorf("error rendering <%s>: %w", elem.tag, err)
	}
	r.line(level, closing)
	return nil
}

// openTag returns the element's opening tag and attributes, without the
// closing bracket.
func openTag(elem *Element) (string, error) {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(elem.tag)
	for _, attr := range elem.attrs {
		switch value := attr.Value.(type) {
		case nil:
			continue
		case string:
			b.WriteString(" ")
			b.WriteString(attr.Name)
			b.WriteString(`="`)
			b.WriteString(escaper.Replace(value))
			b.WriteString(`"`)
		case AttrRef:
			return "", fmt.Errorf("%w: attribute %q of <%s> references %q", ErrUnresolvedPlaceholder, attr.Name, elem.tag, value.Name)
		default:
			return "", fmt.Errorf("%w: %T used as value of attribute %q of <%s>", ErrTypeConstraint, attr.Value, attr.Name, elem.tag)
		}
	}
	return b.String(), nil
}

// isEmpty reports whether children holds nothing but groups with nothing in
// them, like the remains of a placeholder that resolved to nothing.
func isEmpty(children []any) bool {
	for _, child := range children {
		switch c := child.(type) {
		case Seq:
			if !isEmpty(c) {
				return false
			}
		case []any:
			if !isEmpty(c) {
				return false
			}
		case Join:
			if !isEmpty(c) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
