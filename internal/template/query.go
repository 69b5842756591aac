package template

import (
	"fmt"
	"strings"
)

// Filter holds caller-supplied listing criteria. All filters are
// conjunctive: a template matches only if it satisfies every one.
type Filter struct {
	// Label is a case-insensitive substring match on the template label.
	Label string
	// Attrs are "key=value" entries matched against any owned static
	// attribute's (label, value) pair.
	Attrs []string
	// AttrTypes restrict to templates owning at least one attribute of
	// each listed type.
	AttrTypes []string
	// SortBy names a template field for ascending sort. Empty means
	// default ordering by id.
	SortBy string
}

type attrPair struct {
	key   string
	value string
}

// attrPairs parses the raw "key=value" filter entries. A missing '='
// is a validation failure, never silently dropped.
func (f Filter) attrPairs() ([]attrPair, error) {
	pairs := make([]attrPair, 0, len(f.Attrs))
	for _, raw := range f.Attrs {
		key, value, found := strings.Cut(raw, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: attr filter %q must be key=value", ErrInvalidFilter, raw)
		}
		pairs = append(pairs, attrPair{key: key, value: value})
	}
	return pairs, nil
}

// sortableFields whitelists the template columns callers may sort by.
var sortableFields = map[string]bool{
	"id":         true,
	"label":      true,
	"created_at": true,
	"updated_at": true,
}

// orderBy returns the ORDER BY column for the filter. Unknown sortBy
// fields are rejected rather than silently falling back to the default.
func (f Filter) orderBy() (string, error) {
	if f.SortBy == "" {
		return "t.id", nil
	}
	if !sortableFields[f.SortBy] {
		return "", fmt.Errorf("%w: cannot sort by %q", ErrInvalidFilter, f.SortBy)
	}
	return "t." + f.SortBy, nil
}

// whereClause builds the SQL conditions and arguments for the filter,
// always scoped to the given tenant. Attribute filters use existence
// checks against the attribute table so each one narrows the candidate
// set independently.
func (f Filter) whereClause(tenant string) (string, []any, error) {
	conds := []string{"t.tenant = ?"}
	args := []any{tenant}

	if f.Label != "" {
		conds = append(conds, "instr(lower(t.label), lower(?)) > 0")
		args = append(args, f.Label)
	}

	pairs, err := f.attrPairs()
	if err != nil {
		return "", nil, err
	}
	for _, p := range pairs {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM template_attrs a
			WHERE a.template_id = t.id AND a.label = ? AND a.static_value = ?)`)
		args = append(args, p.key, p.value)
	}

	for _, at := range f.AttrTypes {
		if !validAttrTypes[AttrType(at)] {
			return "", nil, fmt.Errorf("%w: unknown attr_type %q", ErrInvalidFilter, at)
		}
		conds = append(conds, `EXISTS (
			SELECT 1 FROM template_attrs a
			WHERE a.template_id = t.id AND a.type = ?)`)
		args = append(args, at)
	}

	return strings.Join(conds, " AND "), args, nil
}
