package confluence

import "fmt"

type configError struct {
	field string
}

func (e *configError) Error() string {
	return fmt.Sprintf("confluence: missing required configuration: %s", e.field)
}

func errMissing(field string) error {
	return &configError{field: field}
}
