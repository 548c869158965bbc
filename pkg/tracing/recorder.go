package tracing

import (
	"context"
	"sync"
)

// Recorder is an in-memory Tracer for tests. It records every span it
// starts, tracks parent/child links through the context, and is safe for
// concurrent use.
type Recorder struct {
	mu    sync.Mutex
	spans []*RecordedSpan
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

type recorderSpanKey struct{}

// Start records a new span and makes it the active span on the returned
// context. The span's parent is whatever Recorder span was active on ctx.
func (r *Recorder) Start(ctx context.Context, name string) (context.Context, Span) {
	parent, _ := ctx.Value(recorderSpanKey{}).(*RecordedSpan)
	span := &RecordedSpan{name: name, parent: parent}

	r.mu.Lock()
	r.spans = append(r.spans, span)
	r.mu.Unlock()

	return context.WithValue(ctx, recorderSpanKey{}, span), span
}

// Spans returns a snapshot of all spans started so far, in start order.
func (r *Recorder) Spans() []*RecordedSpan {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*RecordedSpan, len(r.spans))
	copy(out, r.spans)
	return out
}

// Active returns the Recorder span active on ctx, or nil.
func (r *Recorder) Active(ctx context.Context) *RecordedSpan {
	span, _ := ctx.Value(recorderSpanKey{}).(*RecordedSpan)
	return span
}

// RecordedSpan is the Recorder's Span implementation. Accessors snapshot the
// span's state under the same lock the mutators take.
type RecordedSpan struct {
	mu     sync.Mutex
	name   string
	parent *RecordedSpan

	attrs       Attributes
	statusSet   bool
	statusOK    bool
	description string
	errs        []error
	ends        int
}

func (s *RecordedSpan) SetAttributes(attrs Attributes) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attrs == nil {
		s.attrs = make(Attributes, len(attrs))
	}
	for k, v := range attrs {
		s.attrs[k] = v
	}
}

func (s *RecordedSpan) SetStatus(ok bool, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusSet = true
	s.statusOK = ok
	s.description = description
}

func (s *RecordedSpan) RecordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *RecordedSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ends++
}

// Name returns the span's name.
func (s *RecordedSpan) Name() string {
	return s.name
}

// Parent returns the span active when this span was started, or nil for a
// root span.
func (s *RecordedSpan) Parent() *RecordedSpan {
	return s.parent
}

// Attr returns the recorded value for key.
func (s *RecordedSpan) Attr(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.attrs[key]
	return v, ok
}

// Status reports whether a status was set, whether it was OK, and its
// description.
func (s *RecordedSpan) Status() (set bool, ok bool, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusSet, s.statusOK, s.description
}

// Errors returns the errors recorded on the span.
func (s *RecordedSpan) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]error, len(s.errs))
	copy(out, s.errs)
	return out
}

// Ends returns how many times End was called.
func (s *RecordedSpan) Ends() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ends
}
