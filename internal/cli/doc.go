// Package cli implements the structor command line: run, validate and serve.
package cli
