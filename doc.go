// Package htmlbuilder builds HTML documents out of Go values instead of text
// templates, and fills a single page skeleton differently for every route of
// a web application.
//
// Documents are trees of Elements, built with El and With, and leaves: text
// (plain strings or Text), trusted markup (Raw or template.HTML), Comment,
// Doctype, Newline, and the Seq and Join groups. Render, RenderLevel and
// RenderCompact serialize them.
//
// Pages are assembled from blocks. The root block produces the skeleton every
// page shares; wherever it wants route-specific content, it places a
// placeholder for a named context with Ctx. Other blocks are declared as
// candidates for filling a context, either for every View or only for some.
// Blocks can own contexts of their own, so a Registry is a tree of
// blocks and contexts:
//
//	b := htmlbuilder.NewBuilder()
//	root := b.Root(func(ctx context.Context, s *htmlbuilder.Scope) (any, error) {
//		return htmlbuilder.Seq{
//			htmlbuilder.Doctype("html"),
//			htmlbuilder.El("html").With(
//				htmlbuilder.El("head").With(),
//				htmlbuilder.El("body").With(htmlbuilder.Ctx("body")),
//			),
//		}, nil
//	})
//	b.Block("body", root, htmlbuilder.Static(htmlbuilder.El("p").With("Hello")))
//	b.Block("body", root, htmlbuilder.Static(htmlbuilder.El("p").With("Hi")), "greeting")
//	registry, err := b.Build()
//
// The same Registry can also be declared as a nested value, with DeclareRoot,
// DeclareContext and DeclareBlock.
//
// Every request gets a Scope from Registry.NewScope, naming the View serving
// it. Resolving the Scope walks the tree from the root block, filling each
// context with exactly one block: one set for the request with
// Scope.SetBlock, or else the last declared block scoped to the View, or else
// the last declared default block. A context nothing fills renders as
// nothing, or as the placeholder's Default content. HasBlock and HasAttr
// include content only when a context would be filled or when the request's
// attribute store holds a value, and Attr references a value in that store.
//
// Site serves a Registry over HTTP, giving each handler a Scope and writing
// the rendered page as the response.
package htmlbuilder
