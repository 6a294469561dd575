package idgen

import "github.com/google/uuid"

// NewFunc generates identifiers, tests may replace it.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new session identifier
func New() string { return NewFunc() }
