package template

import "time"

// AttrType classifies an attribute as fixed configuration or a
// telemetry placeholder.
type AttrType string

const (
	// AttrTypeStatic attributes carry a fixed value stored in the template.
	AttrTypeStatic AttrType = "static"
	// AttrTypeDynamic attributes are placeholders populated later by
	// device telemetry; they have no value at definition time.
	AttrTypeDynamic AttrType = "dynamic"
)

// ValueType declares the expected data type of an attribute's values.
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeFloat   ValueType = "float"
	ValueTypeInteger ValueType = "integer"
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeGeo     ValueType = "geo"
	ValueTypeObject  ValueType = "object"
)

// AllAttrTypes returns all valid attribute types.
func AllAttrTypes() []AttrType {
	return []AttrType{AttrTypeStatic, AttrTypeDynamic}
}

// AllValueTypes returns all valid attribute value types.
func AllValueTypes() []ValueType {
	return []ValueType{
		ValueTypeString, ValueTypeFloat, ValueTypeInteger,
		ValueTypeBoolean, ValueTypeGeo, ValueTypeObject,
	}
}

// Attribute is one entry in a template's schema. It belongs to exactly
// one template; attributes are replaced as a whole set on update, never
// patched individually.
type Attribute struct {
	ID         int64     `json:"id"`
	TemplateID int64     `json:"template_id"`
	Label      string    `json:"label"`
	Type       AttrType  `json:"type"`
	ValueType  ValueType `json:"value_type"`

	// StaticValue is set only when Type is static.
	StaticValue *string `json:"static_value,omitempty"`
}

// Template is a named schema of attributes shared by many device
// instances. Attrs preserves insertion order.
type Template struct {
	ID        int64       `json:"id"`
	Tenant    string      `json:"-"`
	Label     string      `json:"label"`
	Attrs     []Attribute `json:"attrs"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// StaticAttrs returns the template's static attributes in insertion order.
func (t *Template) StaticAttrs() []Attribute {
	return t.attrsOfType(AttrTypeStatic)
}

// DynamicAttrs returns the template's dynamic attributes in insertion order.
func (t *Template) DynamicAttrs() []Attribute {
	return t.attrsOfType(AttrTypeDynamic)
}

func (t *Template) attrsOfType(at AttrType) []Attribute {
	out := make([]Attribute, 0)
	for _, a := range t.Attrs {
		if a.Type == at {
			out = append(out, a)
		}
	}
	return out
}
