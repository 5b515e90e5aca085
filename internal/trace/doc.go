// Package trace records what the code generator is doing: driver steps,
// pipeline stages, per-unit work and, at the highest level, single declarations.
//
// A Tracer is attached to a context with WithTracer and picked up by the
// pipeline and the codegen session through FromContext. Spans are opened with
// Begin and closed with End; the stream tracer writes them as text or NDJSON.
//
//	ccgen build --trace=- --trace-level=detail unit.yaml
package trace
