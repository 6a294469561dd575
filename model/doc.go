// Package model contains the declarative representation of an extraction
// engine: data fields extracted from the input text and the decision and
// explanation workflows that group them.
//
// Definitions are usually decoded from YAML, JSON or HCL by the meta service
// and keep the declaration order of the source document, so that iteration
// over fields and workflows is deterministic.
package model
