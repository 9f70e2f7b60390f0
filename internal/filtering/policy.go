package filtering

import "github.com/harrison/plumb/internal/models"

// Policy decides which fields are "advanced": fields the terminal action
// cannot apply natively, forcing an explicit glob/filter pass.
type Policy struct {
	advanced map[Field]bool
}

// DefaultPolicy treats every field as advanced except WithPathStarting and
// WithExtension, which action engines accept as discovery inputs.
func DefaultPolicy() Policy {
	advanced := make(map[Field]bool)
	for _, field := range AllFields() {
		if field != WithPathStarting && field != WithExtension {
			advanced[field] = true
		}
	}
	return Policy{advanced: advanced}
}

// NewPolicy builds a policy from field names or flags. A nil list yields
// DefaultPolicy; an empty non-nil list marks no field as advanced.
func NewPolicy(names []string) (Policy, error) {
	if names == nil {
		return DefaultPolicy(), nil
	}
	advanced := make(map[Field]bool, len(names))
	for _, name := range names {
		field, err := ParseField(name)
		if err != nil {
			return Policy{}, err
		}
		advanced[field] = true
	}
	return Policy{advanced: advanced}, nil
}

// IsAdvanced reports whether field counts as advanced.
func (p Policy) IsAdvanced(field Field) bool {
	if p.advanced == nil {
		return DefaultPolicy().advanced[field]
	}
	return p.advanced[field]
}

// HasAdvanced reports whether any advanced field of filtering is non-empty.
func (p Policy) HasAdvanced(filtering models.FileFiltering) bool {
	for _, field := range AllFields() {
		if p.IsAdvanced(field) && len(field.Values(filtering)) > 0 {
			return true
		}
	}
	return false
}

// Fields lists the advanced fields in canonical order.
func (p Policy) Fields() []Field {
	var fields []Field
	for _, field := range AllFields() {
		if p.IsAdvanced(field) {
			fields = append(fields, field)
		}
	}
	return fields
}
