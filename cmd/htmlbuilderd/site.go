package main

import (
	"context"
	"net/http"

	"impractical.co/htmlbuilder"
)

// buildRegistry declares the blocks of the site: one skeleton shared by every
// page, a default body with a content area and an optional sidebar, and a
// title, content and sidebar block scoped to each configured page.
func buildRegistry(cfg config) (*htmlbuilder.Registry, error) {
	b := htmlbuilder.NewBuilder(htmlbuilder.StrictTags())
	root := b.Root(func(_ context.Context, _ *htmlbuilder.Scope) (any, error) {
		return htmlbuilder.Seq{
			htmlbuilder.Doctype("html"),
			htmlbuilder.El("html", htmlbuilder.A("lang", "en")).With(
				htmlbuilder.El("head").With(
					htmlbuilder.El("meta", htmlbuilder.A("charset", "utf-8")),
					htmlbuilder.El("title").With(htmlbuilder.Ctx("title").Default(cfg.Title)),
					htmlbuilder.HasAttr("description",
						htmlbuilder.El("meta",
							htmlbuilder.A("name", "description"),
							htmlbuilder.A("content", htmlbuilder.Attr("description")),
						),
					),
				),
				htmlbuilder.El("body").With(htmlbuilder.Ctx("body")),
			),
		}, nil
	})
	body := b.Block("body", root, func(_ context.Context, _ *htmlbuilder.Scope) (any, error) {
		return htmlbuilder.Seq{
			htmlbuilder.El("main").With(htmlbuilder.Ctx("content").Default(
				htmlbuilder.El("p").With("Nothing here yet."),
			)),
			htmlbuilder.HasBlock("sidebar",
				htmlbuilder.El("aside").With(htmlbuilder.Ctx("sidebar")),
			),
		}, nil
	})
	for _, p := range cfg.Pages {
		view := htmlbuilder.View(p.View)
		if p.Title != "" {
			b.Block("title", root, htmlbuilder.Static(p.Title+" | "+cfg.Title), view)
		}
		if p.Body != "" {
			b.Block("content", body, htmlbuilder.Static(htmlbuilder.Markdown(p.Body)), view)
		}
		if p.Sidebar != "" {
			b.Block("sidebar", body, htmlbuilder.Static(htmlbuilder.Markdown(p.Sidebar)), view)
		}
	}
	return b.Build()
}

func serverErrorPage(_ context.Context, _ *htmlbuilder.Scope) (any, error) {
	return htmlbuilder.Seq{
		htmlbuilder.Doctype("html"),
		htmlbuilder.El("html", htmlbuilder.A("lang", "en")).With(
			htmlbuilder.El("head").With(
				htmlbuilder.El("title").With("Server Error"),
			),
			htmlbuilder.El("body").With(
				htmlbuilder.El("h1").With("Server error"),
				htmlbuilder.El("p").With("Something went wrong, sorry about that."),
			),
		),
	}, nil
}

// newHandler returns the handler serving every configured page.
func newHandler(cfg config, registry *htmlbuilder.Registry) http.Handler {
	site := htmlbuilder.NewSite(registry, htmlbuilder.WithServerErrorPage(serverErrorPage))
	mux := http.NewServeMux()
	for _, p := range cfg.Pages {
		description := p.Description
		if description == "" {
			description = cfg.Description
		}
		mux.Handle("GET "+p.Path, site.Handle(htmlbuilder.View(p.View), func(_ context.Context, scope *htmlbuilder.Scope) error {
			if description != "" {
				scope.SetAttr("description", description)
			}
			return nil
		}))
	}
	return mux
}
