package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for this package.
var (
	ErrInvalidCatalog = errors.New("invalid plan catalog")
	ErrPlanNotFound   = errors.New("plan not found")
)

// FieldError is a single schema violation at a JSON path.
type FieldError struct {
	Field   string
	Message string
}

// SchemaError lists every schema violation found in a catalog document.
type SchemaError struct {
	Errors []FieldError
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrInvalidCatalog.Error())
	sb.WriteString(": schema validation failed")
	for i, fe := range e.Errors {
		sb.WriteString(fmt.Sprintf("\n  %d. %s: %s", i+1, fe.Field, fe.Message))
	}
	return sb.String()
}

// Unwrap exposes ErrInvalidCatalog to errors.Is.
func (e *SchemaError) Unwrap() error { return ErrInvalidCatalog }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(format, args...))
}
