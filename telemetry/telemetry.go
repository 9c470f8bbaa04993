// Package telemetry provides opt-in timing collection for validation runs.
// A Collector travels through context so instrumentation stays out of
// function signatures; when no collector is attached, every call is a no-op.
//
// Example usage:
//
//	collector := telemetry.NewSpanCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	span := telemetry.FromContext(ctx).Start("check ledger.json")
//	// ... work ...
//	span.End()
//
//	collector.Report(os.Stderr)
package telemetry

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

type contextKey struct{}

// Collector accumulates timing spans.
type Collector interface {
	// Start begins timing a named operation. End the returned span when
	// the operation completes.
	Start(name string) Span

	// Report writes the collected timings.
	Report(w io.Writer)
}

// Span tracks one timed operation.
type Span interface {
	End()
}

// WithCollector attaches a collector to the context.
func WithCollector(ctx context.Context, c Collector) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the context's collector, or a no-op one.
func FromContext(ctx context.Context) Collector {
	if c, ok := ctx.Value(contextKey{}).(Collector); ok {
		return c
	}
	return noopCollector{}
}

// SpanCollector records spans in start order.
type SpanCollector struct {
	mu    sync.Mutex
	spans []*span
}

type span struct {
	name    string
	started time.Time
	elapsed time.Duration
	c       *SpanCollector
}

// NewSpanCollector creates an empty collector.
func NewSpanCollector() *SpanCollector {
	return &SpanCollector{}
}

// Start begins timing a named operation.
func (c *SpanCollector) Start(name string) Span {
	s := &span{name: name, started: time.Now(), c: c}
	c.mu.Lock()
	c.spans = append(c.spans, s)
	c.mu.Unlock()
	return s
}

func (s *span) End() {
	s.c.mu.Lock()
	s.elapsed = time.Since(s.started)
	s.c.mu.Unlock()
}

// Report writes one line per span in start order.
func (c *SpanCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.spans {
		fmt.Fprintf(w, "%-40s %s\n", s.name, s.elapsed.Round(time.Microsecond))
	}
}

type noopCollector struct{}

func (noopCollector) Start(string) Span { return noopSpan{} }
func (noopCollector) Report(io.Writer)  {}

type noopSpan struct{}

func (noopSpan) End() {}
