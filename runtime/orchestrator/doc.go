// Package orchestrator runs field extractions and decision/explanation
// workflow steps over one input text.
//
// An Orchestrator owns a single-flight result cache keyed by field id, so one
// instance represents one input: a second text passed to the same instance
// receives cached values for fields that were already resolved. Create a new
// Orchestrator per text, or use the structor.Service facade that does so.
//
// Root workflow steps progress through Start, DataResolved, BranchChosen or
// NoBranch, ExplainDataResolved and Done. A failing step is reported as a
// *StepError and omitted from the merged result while sibling steps complete.
package orchestrator
