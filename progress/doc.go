// Package progress keeps aggregated field and workflow counters for a single
// extraction run. The tracker travels in the context so that the orchestrator
// can update it without a global registry, and callers can observe changes
// through a callback.
package progress
