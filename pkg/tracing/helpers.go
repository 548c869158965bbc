package tracing

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"runtime"
	"strings"
)

// Canonical span names and attribute keys used by the category helpers.
const (
	SpanNameQuery = "db.query"
	SpanNameCall  = "http.call"

	AttrDBSystem      = "db.system"
	AttrDBStatement   = "db.statement"
	AttrHTTPMethod    = "http.method"
	AttrURLFull       = "url.full"
	AttrServerAddress = "server.address"
	AttrRecordCount   = "record.count"
)

const (
	stepPrefix    = "step."
	processPrefix = "process."
	loadSuffix    = ".load"
	fetchSuffix   = ".fetch"
)

// MergeAttributes combines helper defaults with caller-supplied attributes.
// Caller keys win on collision; every helper in this package follows that
// rule. A nil result means both inputs were empty.
func MergeAttributes(defaults, overrides Attributes) Attributes {
	if len(defaults) == 0 {
		return overrides
	}
	merged := make(Attributes, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// QueryAttributes builds the attribute set for a data-store span. The
// statement key is omitted entirely when statement is empty.
func QueryAttributes(system, statement string) Attributes {
	attrs := Attributes{AttrDBSystem: system}
	if statement != "" {
		attrs[AttrDBStatement] = statement
	}
	return attrs
}

// CallAttributes builds the attribute set for an outbound-call span,
// deriving the peer host from rawURL. A URL that cannot be parsed or has no
// host is a programmer error and yields a descriptive error instead of a
// span with a malformed attribute.
func CallAttributes(method, rawURL string) (Attributes, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("tracing: malformed call url %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("tracing: call url %q has no host", rawURL)
	}
	return Attributes{
		AttrHTTPMethod:    method,
		AttrURLFull:       rawURL,
		AttrServerAddress: u.Hostname(),
	}, nil
}

// Query runs fn inside a data-store span. system identifies the backend
// (e.g. "postgresql"); statement, when non-empty, is recorded verbatim.
// Caller attrs override the fixed keys on collision.
func (r *Runner) Query(ctx context.Context, system, statement string, attrs Attributes, fn func(context.Context) error) error {
	return r.Run(ctx, SpanNameQuery, MergeAttributes(QueryAttributes(system, statement), attrs), fn)
}

// Call runs fn inside an outbound-call span carrying method, full URL, and
// the peer host parsed from rawURL. It fails before any span is created when
// rawURL is malformed.
func (r *Runner) Call(ctx context.Context, method, rawURL string, attrs Attributes, fn func(context.Context) error) error {
	defaults, err := CallAttributes(method, rawURL)
	if err != nil {
		return err
	}
	return r.Run(ctx, SpanNameCall, MergeAttributes(defaults, attrs), fn)
}

// Step runs fn inside a named sub-operation span ("step." + name).
func (r *Runner) Step(ctx context.Context, name string, attrs Attributes, fn func(context.Context) error) error {
	return r.Run(ctx, stepPrefix+name, attrs, fn)
}

// Process runs fn inside a processing span ("process." + name). count is the
// number of records being processed; pass a negative count to omit the
// record-count attribute entirely.
func (r *Runner) Process(ctx context.Context, name string, count int64, attrs Attributes, fn func(context.Context) error) error {
	var defaults Attributes
	if count >= 0 {
		defaults = Attributes{AttrRecordCount: count}
	}
	return r.Run(ctx, processPrefix+name, MergeAttributes(defaults, attrs), fn)
}

// Load runs fn inside a span named component + ".load", passing attrs
// through unchanged.
func (r *Runner) Load(ctx context.Context, component string, attrs Attributes, fn func(context.Context) error) error {
	return r.Run(ctx, component+loadSuffix, attrs, fn)
}

// Fetch runs fn inside a span named component + ".fetch", passing attrs
// through unchanged.
func (r *Runner) Fetch(ctx context.Context, component string, attrs Attributes, fn func(context.Context) error) error {
	return r.Run(ctx, component+fetchSuffix, attrs, fn)
}

// NamedOp runs fn inside a span named after fn's own identifier, prefixed
// with prefix when one is given. See OperationName for the naming rules.
func (r *Runner) NamedOp(ctx context.Context, prefix string, fn func(context.Context) error) error {
	return r.Run(ctx, OperationName(prefix, fn), nil, fn)
}

// OperationName derives a span name from a function value's runtime
// identifier: prefix + "." + identifier when prefix is non-empty, the bare
// identifier otherwise. Closures and other functions without a stable
// identifier fall back to "anonymous". The result is deterministic for the
// same function and prefix.
func OperationName(prefix string, fn interface{}) string {
	name := functionIdent(fn)
	if name == "" {
		name = "anonymous"
	}
	if prefix != "" {
		return prefix + "." + name
	}
	return name
}

// functionIdent resolves the declared identifier of a function value, or ""
// when none is available.
func functionIdent(fn interface{}) string {
	if fn == nil {
		return ""
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return ""
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return ""
	}

	name := rf.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	// Method values carry a -fm suffix.
	name = strings.TrimSuffix(name, "-fm")

	if name == "" {
		return ""
	}

	last := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		last = name[i+1:]
	}
	if isClosureIdent(last) {
		return ""
	}
	return name
}

// isClosureIdent reports whether s is a compiler-assigned closure name
// (funcN).
func isClosureIdent(s string) bool {
	rest, found := strings.CutPrefix(s, "func")
	if !found || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
