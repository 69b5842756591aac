package template

import "errors"

var (
	// ErrTemplateNotFound indicates the requested template does not exist
	// within the caller's tenant.
	ErrTemplateNotFound = errors.New("template: not found")

	// ErrInvalidLabel indicates a missing or empty label.
	ErrInvalidLabel = errors.New("template: label is required")

	// ErrDuplicateAttrLabel indicates two attributes in one template
	// share a label.
	ErrDuplicateAttrLabel = errors.New("template: duplicate attribute label")

	// ErrInvalidAttrType indicates an unrecognised attribute type.
	ErrInvalidAttrType = errors.New("template: invalid attribute type")

	// ErrInvalidValueType indicates an unrecognised attribute value type.
	ErrInvalidValueType = errors.New("template: invalid attribute value type")

	// ErrMissingStaticValue indicates a static attribute without a value.
	ErrMissingStaticValue = errors.New("template: static attribute requires a value")

	// ErrInvalidFilter indicates a malformed query criterion, such as an
	// attr filter without '=' or an unsortable sortBy field.
	ErrInvalidFilter = errors.New("template: invalid filter")

	// ErrInvalidPayload indicates a create or update payload that could
	// not be decoded.
	ErrInvalidPayload = errors.New("template: invalid payload")
)

// validationErrs is the set of sentinels that represent caller input
// problems rather than storage failures.
var validationErrs = []error{
	ErrInvalidLabel,
	ErrDuplicateAttrLabel,
	ErrInvalidAttrType,
	ErrInvalidValueType,
	ErrMissingStaticValue,
	ErrInvalidFilter,
	ErrInvalidPayload,
}

// IsValidation reports whether err is a validation failure that should
// be reported to the caller without retry.
func IsValidation(err error) bool {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
