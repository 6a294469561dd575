// Package idgen generates orchestrator session identifiers. Callers should
// treat identifiers as opaque strings.
package idgen
