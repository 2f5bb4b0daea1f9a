// Package trace records what wscheck is doing while it runs.
//
// The driver opens a span for each run, file and pass (lex, detect, fix).
// Tracing is off unless requested:
//
//	wscheck check --trace=- --trace-level=detail ./src
//
// Events go to a Writer (streamed as text or NDJSON), to a Ring kept in
// memory and dumped on exit or panic, or to both via Tee. LevelPhase records
// runs and passes, LevelDetail adds per-file events, LevelDebug records
// everything.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "detect", parentID)
//	defer span.End("")
package trace
