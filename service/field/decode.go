package field

import "fmt"

// Decode converts an object or list field value into T, for example a caller
// defined struct or []string
func Decode[T any](value interface{}) (T, error) {
	var ret T
	if value == nil {
		return ret, fmt.Errorf("%w: value was nil", ErrParse)
	}
	if err := converter.Convert(value, &ret); err != nil {
		return ret, fmt.Errorf("failed to decode %T into %T: %w", value, ret, err)
	}
	return ret, nil
}
