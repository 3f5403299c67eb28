package htmlbuilder_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"impractical.co/htmlbuilder"
)

func renderView(t *testing.T, scope *htmlbuilder.Scope) string {
	t.Helper()
	out, err := scope.Render(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error rendering view %q: %s", scope.View(), err)
	}
	return out
}

func expectRender(t *testing.T, scope *htmlbuilder.Scope, expected string) {
	t.Helper()
	if out := renderView(t, scope); out != expected {
		t.Errorf("Expected view %q to render as\n%s\ngot\n%s", scope.View(), expected, out)
	}
}

func TestRequestBlock(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	b.Root(siteRoot)
	registry := mustBuild(t, b)

	scope := registry.NewScope("index")
	scope.SetBlock("body", "Hello, World!")
	expectRender(t, scope, `<!doctype html>
<html>
  <head></head>
  <body>Hello, World!</body>
</html>
`)
}

func TestDefaultBlock(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	root := b.Root(siteRoot)
	b.Block("body", root, paragraph("Hello, World!"))
	registry := mustBuild(t, b)

	for _, view := range []htmlbuilder.View{"a", "b", ""} {
		expectRender(t, registry.NewScope(view), `<!doctype html>
<html>
  <head></head>
  <body>
    <p>Hello, World!</p>
  </body>
</html>
`)
	}
}

func TestViewScopedBlocks(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	root := b.Root(siteRoot)
	b.Block("body", root, paragraph("Hello, View A!"), "a")
	b.Block("body", root, paragraph("Hello, View B!"), "b")
	registry := mustBuild(t, b)

	for view, text := range map[htmlbuilder.View]string{
		"a": "Hello, View A!",
		"b": "Hello, View B!",
	} {
		expectRender(t, registry.NewScope(view), fmt.Sprintf(`<!doctype html>
<html>
  <head></head>
  <body>
    <p>%s</p>
  </body>
</html>
`, text))
	}

	// no block applies to other views, so the context is empty
	expectRender(t, registry.NewScope("c"), `<!doctype html>
<html>
  <head></head>
  <body></body>
</html>
`)
}

func TestViewScopedBlockOverridesDefault(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	root := b.Root(siteRoot)
	b.Block("body", root, paragraph("Hello, View A!"), "a")
	b.Block("body", root, paragraph("Hello, Default Block!"))
	registry := mustBuild(t, b)

	expectRender(t, registry.NewScope("a"), `<!doctype html>
<html>
  <head></head>
  <body>
    <p>Hello, View A!</p>
  </body>
</html>
`)
	expectRender(t, registry.NewScope("b"), `<!doctype html>
<html>
  <head></head>
  <body>
    <p>Hello, Default Block!</p>
  </body>
</html>
`)
}

func TestMultipleContexts(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	root := b.Root(func(_ context.Context, _ *htmlbuilder.Scope) (any, error) {
		return htmlbuilder.Seq{
			htmlbuilder.Doctype("html"),
			htmlbuilder.El("html").With(
				htmlbuilder.El("head").With(
					htmlbuilder.El("title").With(htmlbuilder.Ctx("title")),
				),
				htmlbuilder.El("body").With(htmlbuilder.Ctx("body")),
			),
		}, nil
	})
	b.Block("body", root, paragraph("This is the body."))
	b.Block("title", root, htmlbuilder.Static("Title"))
	registry := mustBuild(t, b)

	expectRender(t, registry.NewScope("a"), `<!doctype html>
<html>
  <head>
    <title>Title</title>
  </head>
  <body>
    <p>This is the body.</p>
  </body>
</html>
`)
}

func TestNestedContexts(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	root := b.Root(siteRoot)
	body := b.Block("body", root, htmlbuilder.Static(
		htmlbuilder.El("div", htmlbuilder.A("class", "container")).With(htmlbuilder.Ctx("container")),
	))
	b.Block("container", body, htmlbuilder.Static(
		htmlbuilder.El("div").With(htmlbuilder.Ctx("inner")),
	))
	// a context with the same name under a different owner is a
	// different context
	b.Block("container", root, paragraph("never used"))
	registry := mustBuild(t, b)

	scope := registry.NewScope("a")
	expectRender(t, scope, `<!doctype html>
<html>
  <head></head>
  <body>
    <div class="container">
      <div></div>
    </div>
  </body>
</html>
`)
}

func TestDeclaredTree(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	b.Declare(htmlbuilder.DeclareRoot(siteRoot,
		htmlbuilder.DeclareContext("body",
			htmlbuilder.DeclareBlock(paragraph("Default body.")),
			htmlbuilder.DeclareBlock(htmlbuilder.Static(
				htmlbuilder.El("div", htmlbuilder.A("class", "container")).With(htmlbuilder.Ctx("container")),
			), "a").Nest(
				htmlbuilder.DeclareContext("container",
					htmlbuilder.DeclareBlock(htmlbuilder.Static(htmlbuilder.El("div").With("Container content."))),
				),
			),
		),
	))
	registry := mustBuild(t, b)

	expectRender(t, registry.NewScope("a"), `<!doctype html>
<html>
  <head></head>
  <body>
    <div class="container">
      <div>Container content.</div>
    </div>
  </body>
</html>
`)
	expectRender(t, registry.NewScope("b"), `<!doctype html>
<html>
  <head></head>
  <body>
    <p>Default body.</p>
  </body>
</html>
`)
}

func TestDeclaredTreeReusesDeclarations(t *testing.T) {
	t.Parallel()

	shared := htmlbuilder.DeclareBlock(htmlbuilder.Static("shared"))
	b := htmlbuilder.NewBuilder()
	root := b.Declare(htmlbuilder.DeclareRoot(func(_ context.Context, _ *htmlbuilder.Scope) (any, error) {
		return htmlbuilder.El("div").With(htmlbuilder.Ctx("left"), htmlbuilder.Ctx("right")), nil
	},
		htmlbuilder.DeclareContext("left", shared),
	))
	b.DeclareUnder(root, htmlbuilder.DeclareContext("right", shared))
	registry := mustBuild(t, b)

	expectRender(t, registry.NewScope("a"), "<div>\n  shared\n  shared\n</div>\n")
}

func TestHasBlock(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	root := b.Root(siteRoot)
	b.Block("body", root, htmlbuilder.Static(
		htmlbuilder.HasBlock("container",
			htmlbuilder.El("div", htmlbuilder.A("class", "container")).With(
				htmlbuilder.Ctx("container"),
				htmlbuilder.Ctx("undefined"),
				htmlbuilder.HasBlock("noblock", htmlbuilder.El("p").With()),
			),
		),
	))
	registry := mustBuild(t, b)

	scope := registry.NewScope("a")
	scope.SetBlock("container", htmlbuilder.El("div").With("Container content."))
	expectRender(t, scope, `<!doctype html>
<html>
  <head></head>
  <body>
    <div class="container">
      <div>Container content.</div>
    </div>
  </body>
</html>
`)

	// without the block, the whole conditional is left out
	expectRender(t, registry.NewScope("a"), `<!doctype html>
<html>
  <head></head>
  <body></body>
</html>
`)
}

func TestHasBlockDoesNotResolve(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	b := htmlbuilder.NewBuilder()
	root := b.Root(func(_ context.Context, _ *htmlbuilder.Scope) (any, error) {
		return htmlbuilder.HasBlock("body", htmlbuilder.El("p").With("has a body")), nil
	})
	body := b.Block("body", root, func(_ context.Context, _ *htmlbuilder.Scope) (any, error) {
		calls.Add(1)
		return "body", nil
	}, "a")
	registry := mustBuild(t, b)

	scope := registry.NewScope("a")
	if !scope.HasBlock(root, "body") {
		t.Error("Expected body to be filled for view a")
	}
	if registry.NewScope("b").HasBlock(root, "body") {
		t.Error("Expected body not to be filled for view b")
	}
	if scope.HasBlock(body, "body") {
		t.Error("Expected no body context under the body block")
	}
	expectRender(t, scope, "<p>has a body</p>\n")
	if n := calls.Load(); n != 0 {
		t.Errorf("Expected body's content function not to be called, was called %d times", n)
	}
}

func TestHasAttr(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	b.Root(func(_ context.Context, _ *htmlbuilder.Scope) (any, error) {
		return htmlbuilder.Seq{
			htmlbuilder.Doctype("html"),
			htmlbuilder.El("html").With(
				htmlbuilder.El("head").With(
					htmlbuilder.HasAttr("description",
						htmlbuilder.El("meta", htmlbuilder.A("content", htmlbuilder.Attr("description"))),
					),
					htmlbuilder.HasAttr("author",
						htmlbuilder.El("meta", htmlbuilder.A("content", htmlbuilder.Attr("author"))),
					),
				),
				htmlbuilder.El("body").With(),
			),
		}, nil
	})
	registry := mustBuild(t, b)

	scope := registry.NewScope("a")
	scope.SetAttr("description", "A description")
	scope.SetAttr("author", nil)
	expectRender(t, scope, `<!doctype html>
<html>
  <head>
    <meta content="A description" />
  </head>
  <body></body>
</html>
`)
	if val, ok := scope.Attr("description"); !ok || val != "A description" {
		t.Errorf("Expected description to be stored, got %v (%v)", val, ok)
	}
	if scope.HasAttr("author") {
		t.Error("Expected a nil attribute not to count as set")
	}
}

func TestAttrReferences(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	b.Root(htmlbuilder.Static(htmlbuilder.El("p", htmlbuilder.A("title", htmlbuilder.Attr("tooltip")), htmlbuilder.A("id", "greeting")).With(
		htmlbuilder.Attr("greeting"),
	)))
	registry := mustBuild(t, b)

	scope := registry.NewScope("a")
	scope.SetAttr("greeting", "hi <you>")
	scope.SetAttr("tooltip", `say "hi"`)
	expectRender(t, scope, "<p title=\"say &quot;hi&quot;\" id=\"greeting\">hi &lt;you&gt;</p>\n")

	// without the values, the attribute is omitted and the text is empty
	expectRender(t, registry.NewScope("a"), "<p id=\"greeting\"></p>\n")

	scope = registry.NewScope("a")
	scope.SetAttr("tooltip", 42)
	if _, err := scope.Render(context.Background()); !errors.Is(err, htmlbuilder.ErrTypeConstraint) {
		t.Errorf("Expected a number attribute to fail with %v, got %v", htmlbuilder.ErrTypeConstraint, err)
	}
}

func TestPlaceholderDefault(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	b.Root(htmlbuilder.Static(htmlbuilder.El("title").With(
		htmlbuilder.Ctx("title").Default("Default Title"),
	)))
	registry := mustBuild(t, b)

	expectRender(t, registry.NewScope("a"), "<title>\n  Default Title\n</title>\n")

	scope := registry.NewScope("b")
	scope.SetBlock("title", "New Title")
	expectRender(t, scope, "<title>\n  New Title\n</title>\n")

	// overrides don't leak into other requests
	expectRender(t, registry.NewScope("a"), "<title>\n  Default Title\n</title>\n")
}

func TestRequestBlockBeatsRegisteredBlocks(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	root := b.Root(siteRoot)
	b.Block("body", root, paragraph("default"))
	b.Block("body", root, paragraph("scoped"), "a")
	registry := mustBuild(t, b)

	scope := registry.NewScope("a")
	scope.SetBlock("body", htmlbuilder.El("h1").With("Override"), htmlbuilder.Ctx("nested").Default("fallback"))
	expectRender(t, scope, `<!doctype html>
<html>
  <head></head>
  <body>
    <h1>Override</h1>
    fallback
  </body>
</html>
`)
}

func TestContentIsFreshPerRequest(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	b := htmlbuilder.NewBuilder()
	b.Root(func(_ context.Context, _ *htmlbuilder.Scope) (any, error) {
		return htmlbuilder.El("p").With(fmt.Sprintf("call %d", calls.Add(1))), nil
	})
	registry := mustBuild(t, b)

	expectRender(t, registry.NewScope("a"), "<p>call 1</p>\n")
	expectRender(t, registry.NewScope("a"), "<p>call 2</p>\n")
}

func TestContentFunctionsSeeTheScope(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	root := b.Root(siteRoot)
	b.Block("body", root, func(_ context.Context, scope *htmlbuilder.Scope) (any, error) {
		name, ok := scope.Attr("name")
		if !ok {
			return nil, nil
		}
		return htmlbuilder.El("p").With(fmt.Sprintf("Hello, %s, from %s.", name, scope.View())), nil
	})
	registry := mustBuild(t, b)

	scope := registry.NewScope("greeter")
	scope.SetAttr("name", "Visitor")
	expectRender(t, scope, `<!doctype html>
<html>
  <head></head>
  <body>
    <p>Hello, Visitor, from greeter.</p>
  </body>
</html>
`)
	expectRender(t, registry.NewScope("greeter"), `<!doctype html>
<html>
  <head></head>
  <body></body>
</html>
`)
}

var errDatabaseDown = errors.New("database down")

func TestContentErrors(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	root := b.Root(siteRoot)
	b.Block("body", root, func(_ context.Context, _ *htmlbuilder.Scope) (any, error) {
		return nil, errDatabaseDown
	})
	registry := mustBuild(t, b)

	out, err := registry.NewScope("a").Render(context.Background())
	if !errors.Is(err, errDatabaseDown) {
		t.Errorf("Expected %v, got %v", errDatabaseDown, err)
	}
	if out != "" {
		t.Errorf("Expected no output on error, got %q", out)
	}
}

func TestStrictTags(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder(htmlbuilder.StrictTags())
	root := b.Root(siteRoot)
	b.Block("body", root, htmlbuilder.Static(htmlbuilder.El("marquee-ish").With(htmlbuilder.El("section").With("fine"))), "custom")
	b.Block("body", root, htmlbuilder.Static(htmlbuilder.El("pargraph").With("typo")), "typo")
	registry := mustBuild(t, b)

	renderView(t, registry.NewScope("custom"))
	out, err := registry.NewScope("typo").Render(context.Background())
	if !errors.Is(err, htmlbuilder.ErrUnknownTag) {
		t.Errorf("Expected %v, got %v", htmlbuilder.ErrUnknownTag, err)
	}
	if out != "" {
		t.Errorf("Expected no output on error, got %q", out)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	root := b.Root(siteRoot)
	b.Block("body", root, paragraph("resolved"))
	registry := mustBuild(t, b)

	tree, err := registry.NewScope("a").Resolve(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error resolving: %s", err)
	}
	// the resolved tree is plain content, the package-level renderers
	// accept it
	out, err := htmlbuilder.RenderCompact(tree)
	if err != nil {
		t.Fatalf("Unexpected error rendering resolved tree: %s", err)
	}
	if expected := "<!doctype html><html><head></head><body><p>resolved</p></body></html>"; out != expected {
		t.Errorf("Expected %q, got %q", expected, out)
	}
}

func TestConcurrentScopes(t *testing.T) {
	t.Parallel()

	b := htmlbuilder.NewBuilder()
	root := b.Root(siteRoot)
	b.Block("body", root, func(_ context.Context, scope *htmlbuilder.Scope) (any, error) {
		return htmlbuilder.El("p", htmlbuilder.A("data-n", htmlbuilder.Attr("n"))).With(string(scope.View())), nil
	})
	registry := mustBuild(t, b)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			view := htmlbuilder.View(fmt.Sprintf("view-%d", i))
			scope := registry.NewScope(view)
			scope.SetAttr("n", fmt.Sprint(i))
			out, err := scope.Render(context.Background())
			if err != nil {
				t.Errorf("Unexpected error rendering %s: %s", view, err)
				return
			}
			expected := fmt.Sprintf(`<!doctype html>
<html>
  <head></head>
  <body>
    <p data-n="%d">view-%d</p>
  </body>
</html>
`, i, i)
			if out != expected {
				t.Errorf("Expected %q, got %q", expected, out)
			}
		}(i)
	}
	wg.Wait()
}
