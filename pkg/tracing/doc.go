// Package tracing wraps arbitrary operations in tracing spans without tying
// callers to any one tracing backend.
//
// The Runner is the core: it starts a span, attaches attributes, executes
// the caller's operation exactly once, records the outcome (status, error),
// and ends the span on every exit path. The backend is injected through the
// narrow Tracer/Span capability interfaces, so tests run against the
// in-memory Recorder and production runs against OpenTelemetry (see the
// tracer package).
//
// Basic Usage:
//
//	import (
//		"github.com/traceably/spanwrap/pkg/tracer"
//		"github.com/traceably/spanwrap/pkg/tracing"
//	)
//
//	client := tracer.NewClient(tracer.Config{ServiceName: "my-service"}, log)
//	runner := tracing.NewRunner(client.Provider())
//
//	err := runner.Run(ctx, "sync-accounts", nil, func(ctx context.Context) error {
//		return syncAccounts(ctx)
//	})
//
//	// Value-returning operations:
//	n, err := tracing.RunValue(runner, ctx, "count-rows", nil,
//		func(ctx context.Context) (int64, error) {
//			return countRows(ctx)
//		})
//
// Category Helpers:
//
// The helpers derive span names and pre-fill standard attributes for
// recurring operation shapes. Caller-supplied attributes override the
// helper defaults on key collisions.
//
//	// Data-store operation: span "db.query" with db.system/db.statement.
//	err := runner.Query(ctx, "postgresql", "SELECT 1", nil, doQuery)
//
//	// Outbound call: span "http.call" with method, URL, and peer host.
//	err := runner.Call(ctx, "GET", "https://api.example.com/v1/users", nil, doCall)
//
//	// Named sub-operation and processing step:
//	err := runner.Step(ctx, "validate", nil, validate)
//	err := runner.Process(ctx, "invoices", int64(len(batch)), nil, handleBatch)
//
//	// Component load/fetch:
//	err := runner.Load(ctx, "profile", tracing.Attributes{"user.id": id}, loadProfile)
//
// Error Handling:
//
// The Runner never swallows, wraps, or substitutes errors: the operation's
// error (or panic) is recorded on the span and then propagated with its
// identity intact. Calling through the Runner is observably identical to
// calling the operation directly, apart from the span side effect.
//
// Nesting:
//
// Operations receive the context carrying the active span, so nested Runner
// calls produce child spans through the backend's own context rules. The
// Runner itself keeps no shared mutable state; concurrent invocations each
// own their span exclusively.
package tracing
