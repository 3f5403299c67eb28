package htmlbuilder_test

import (
	"context"
	"errors"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"impractical.co/htmlbuilder"
)

func TestRenderSpans(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})

	b := htmlbuilder.NewBuilder(htmlbuilder.WithTracerProvider(tp))
	root := b.Root(siteRoot)
	body := b.Block("body", root, htmlbuilder.Static(htmlbuilder.Ctx("article")))
	b.Block("article", body, paragraph("article"), "article")
	registry := mustBuild(t, b)

	renderView(t, registry.NewScope("article"))

	spans := recorder.Ended()
	counts := map[string]int{}
	for _, span := range spans {
		counts[span.Name()]++
	}
	if counts["htmlbuilder.Render"] != 1 {
		t.Errorf("Expected 1 render span, got %d", counts["htmlbuilder.Render"])
	}
	if counts["htmlbuilder.block"] != 3 {
		t.Errorf("Expected 3 block spans, got %d", counts["htmlbuilder.block"])
	}
	for _, span := range spans {
		if span.Name() != "htmlbuilder.block" {
			continue
		}
		if span.Parent().TraceID() != spans[len(spans)-1].SpanContext().TraceID() {
			t.Errorf("Expected block span %v to be in the render's trace", span.Name())
		}
	}
}

func TestRenderSpanRecordsErrors(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})

	b := htmlbuilder.NewBuilder(htmlbuilder.WithTracerProvider(tp))
	b.Root(func(_ context.Context, _ *htmlbuilder.Scope) (any, error) {
		return nil, errDatabaseDown
	})
	registry := mustBuild(t, b)

	if _, err := registry.NewScope("a").Render(context.Background()); !errors.Is(err, errDatabaseDown) {
		t.Fatalf("Expected %v, got %v", errDatabaseDown, err)
	}
	for _, span := range recorder.Ended() {
		if len(span.Events()) < 1 {
			t.Errorf("Expected span %s to record the error", span.Name())
		}
	}
}
