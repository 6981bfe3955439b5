// Package mapping converts the backend's loosely-typed wire payloads into
// the canonical internal model. Every mapper is pure and total-or-erroring:
// a payload missing a field the internal model requires yields a
// *MappingError naming the entity and field, never a silently-defaulted
// entity. Optional fields get explicit defaults. Array order is always
// preserved.
package mapping

import "fmt"

// MappingError reports a wire payload that violated the internal contract.
// The mapping layer never swallows one; it always reaches the caller, because
// a malformed canonical entity is worse than a visible failure.
type MappingError struct {
	Entity string
	Field  string
}

// Error implements the error interface
func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping %s: missing required field %q", e.Entity, e.Field)
}

func missingField(entity, field string) *MappingError {
	return &MappingError{Entity: entity, Field: field}
}
