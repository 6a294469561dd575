package field

import "errors"

var (
	// ErrNoFields is returned when a registry is created without fields.
	ErrNoFields = errors.New("field: no fields declared")

	// ErrNoModel is returned when a registry is created without a model.
	ErrNoModel = errors.New("field: model is required")

	// ErrMissingType is returned when a field declares no type.
	ErrMissingType = errors.New("field: type is required")

	// ErrUnsupportedType is returned when a field declares a type without strategy.
	ErrUnsupportedType = errors.New("field: unsupported type")

	// ErrDuplicateField is returned when two fields share an id.
	ErrDuplicateField = errors.New("field: duplicate field id")

	// ErrFieldNotFound is returned by lookups of undeclared field ids.
	ErrFieldNotFound = errors.New("field: not found")

	// ErrParse is returned by strategies when model output cannot be parsed.
	// Executors recover it as an absent value.
	ErrParse = errors.New("field: unable to parse model output")
)
