package template

import "fmt"

// O(1) lookup sets for enum validation.
var (
	validAttrTypes  = make(map[AttrType]bool)
	validValueTypes = make(map[ValueType]bool)
)

func init() {
	for _, t := range AllAttrTypes() {
		validAttrTypes[t] = true
	}
	for _, v := range AllValueTypes() {
		validValueTypes[v] = true
	}
}

// Validate checks the template against its structural invariants:
// a non-empty label, valid attribute enums, static values present on
// static attributes, and attribute labels unique within the template.
func (t *Template) Validate() error {
	if t.Label == "" {
		return ErrInvalidLabel
	}

	seen := make(map[string]bool, len(t.Attrs))
	for _, a := range t.Attrs {
		if a.Label == "" {
			return fmt.Errorf("%w: attribute label is required", ErrInvalidLabel)
		}
		if seen[a.Label] {
			return fmt.Errorf("%w: %q", ErrDuplicateAttrLabel, a.Label)
		}
		seen[a.Label] = true

		if !validAttrTypes[a.Type] {
			return fmt.Errorf("%w: %q", ErrInvalidAttrType, a.Type)
		}
		if !validValueTypes[a.ValueType] {
			return fmt.Errorf("%w: %q", ErrInvalidValueType, a.ValueType)
		}
		if a.Type == AttrTypeStatic && (a.StaticValue == nil || *a.StaticValue == "") {
			return fmt.Errorf("%w: %q", ErrMissingStaticValue, a.Label)
		}
	}

	return nil
}
