// internal/chat/normalizer.go
package chat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Field names which entity a measure came from, for error messages.
type Field string

const (
	FieldPrice    Field = "price"
	FieldQuantity Field = "quantity"
)

const defaultUnit = "kg"

// Measure is a normalized numeric entity with its unit.
type Measure struct {
	Value decimal.Decimal
	Unit  string
}

// Leading numeric run, optional separator, optional trailing alphabetic
// run. Covers "50/kg", "300kg", "50" and "12.5 kg".
var measurePattern = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*/?\s*([a-zA-Z]*)`)

// Normalize parses a raw entity string into a value and unit. The unit
// defaults to "kg" when the text carries none. Pure; no side effects.
func Normalize(raw string, field Field) (Measure, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Measure{}, fmt.Errorf("%w: missing %s", ErrValidation, field)
	}

	match := measurePattern.FindStringSubmatch(trimmed)
	if match == nil {
		return Measure{}, fmt.Errorf("%w: no numeric value in %s %q", ErrValidation, field, raw)
	}

	value, err := decimal.NewFromString(match[1])
	if err != nil {
		return Measure{}, fmt.Errorf("%w: unparsable %s %q", ErrValidation, field, raw)
	}
	if value.IsNegative() {
		return Measure{}, fmt.Errorf("%w: negative %s %q", ErrValidation, field, raw)
	}

	unit := strings.ToLower(match[2])
	if unit == "" {
		unit = defaultUnit
	}

	return Measure{Value: value, Unit: unit}, nil
}
