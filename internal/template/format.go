package template

import "time"

// AttrFormat selects which attribute shapes a template view carries.
type AttrFormat string

const (
	// FormatSingle emits one combined attrs list in insertion order.
	FormatSingle AttrFormat = "single"
	// FormatSplit emits config_attrs (static) and data_attrs (dynamic).
	FormatSplit AttrFormat = "split"
	// FormatBoth emits all three lists.
	FormatBoth AttrFormat = "both"
)

// ParseAttrFormat maps a caller-supplied mode string to an AttrFormat.
// Unrecognised modes fall back to FormatBoth, the most permissive view.
func ParseAttrFormat(mode string) AttrFormat {
	switch AttrFormat(mode) {
	case FormatSingle:
		return FormatSingle
	case FormatSplit:
		return FormatSplit
	default:
		return FormatBoth
	}
}

// View is the client-facing shape of a template. Attribute lists are
// pointers so that a selected mode serialises an empty list while a
// suppressed mode omits the key entirely.
type View struct {
	ID          int64        `json:"id"`
	Label       string       `json:"label"`
	Attrs       *[]Attribute `json:"attrs,omitempty"`
	ConfigAttrs *[]Attribute `json:"config_attrs,omitempty"`
	DataAttrs   *[]Attribute `json:"data_attrs,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Format produces the client-facing view of a template for the given
// mode. It is a pure function of its inputs.
func Format(mode AttrFormat, t *Template) View {
	v := View{
		ID:        t.ID,
		Label:     t.Label,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}

	switch mode {
	case FormatSingle:
		v.Attrs = attrList(t.Attrs)
	case FormatSplit:
		v.ConfigAttrs = attrList(t.StaticAttrs())
		v.DataAttrs = attrList(t.DynamicAttrs())
	default:
		v.Attrs = attrList(t.Attrs)
		v.ConfigAttrs = attrList(t.StaticAttrs())
		v.DataAttrs = attrList(t.DynamicAttrs())
	}

	return v
}

// attrList returns a non-nil list so selected modes serialise [] rather
// than disappearing under omitempty.
func attrList(attrs []Attribute) *[]Attribute {
	if attrs == nil {
		attrs = []Attribute{}
	}
	return &attrs
}
