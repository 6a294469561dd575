// Package tracing wraps OpenTelemetry so that the extraction engine can
// record spans for runs, workflow steps, field executions and branch
// selections without importing the upstream packages directly. Spans are
// no-op until Init or InitWithExporter installs a provider.
package tracing
