package htmlbuilder_test

import (
	"testing"

	"impractical.co/htmlbuilder"
)

func TestMarkdown(t *testing.T) {
	t.Parallel()

	leaf := htmlbuilder.Markdown("Hello *world*")
	if expected := htmlbuilder.Raw("<p>Hello <em>world</em></p>"); leaf != expected {
		t.Errorf("Expected %q, got %q", expected, leaf)
	}

	out, err := htmlbuilder.Render(htmlbuilder.El("article").With(leaf))
	if err != nil {
		t.Fatalf("Unexpected error rendering: %s", err)
	}
	if expected := "<article><p>Hello <em>world</em></p></article>\n"; out != expected {
		t.Errorf("Expected %q, got %q", expected, out)
	}
}
