package authgate

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// recordingTracer keeps every span it starts.
type recordingTracer struct {
	noop.Tracer

	mu    sync.Mutex
	spans []*recordingSpan
}

func (r *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordingSpan{name: name, attrs: map[attribute.Key]attribute.Value{}}
	s.SetAttributes(cfg.Attributes()...)

	r.mu.Lock()
	r.spans = append(r.spans, s)
	r.mu.Unlock()

	return trace.ContextWithSpan(ctx, s), s
}

func (r *recordingTracer) last() *recordingSpan {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.spans) == 0 {
		return nil
	}
	return r.spans[len(r.spans)-1]
}

type recordingSpan struct {
	noop.Span

	name   string
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	ended  bool
}

func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) {
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *recordingSpan) SetStatus(code codes.Code, _ string) { s.status = code }
func (s *recordingSpan) End(...trace.SpanEndOption)          { s.ended = true }
