// Package filtering evaluates FileFiltering predicates against path entries and
// converts them to and from the flat token form passed between processes.
package filtering

import (
	"fmt"
	"strings"

	"github.com/harrison/plumb/internal/models"
)

// Field identifies one of the ten predicate attributes.
type Field int

// Fields in canonical serialization order.
const (
	WithPathStarting Field = iota
	WithoutPathStarting
	WithExtension
	WithoutExtension
	WithPathSegment
	WithoutPathSegment
	WithTag
	WithoutTag
	WithTagStarting
	WithoutTagStarting
)

type fieldSpec struct {
	name   string
	flag   string
	values func(f *models.FileFiltering) *[]string
}

var fieldSpecs = [...]fieldSpec{
	WithPathStarting:    {"withPathStarting", "--with-path-starting", func(f *models.FileFiltering) *[]string { return &f.WithPathStarting }},
	WithoutPathStarting: {"withoutPathStarting", "--without-path-starting", func(f *models.FileFiltering) *[]string { return &f.WithoutPathStarting }},
	WithExtension:       {"withExtension", "--with-extension", func(f *models.FileFiltering) *[]string { return &f.WithExtension }},
	WithoutExtension:    {"withoutExtension", "--without-extension", func(f *models.FileFiltering) *[]string { return &f.WithoutExtension }},
	WithPathSegment:     {"withPathSegment", "--with-path-segment", func(f *models.FileFiltering) *[]string { return &f.WithPathSegment }},
	WithoutPathSegment:  {"withoutPathSegment", "--without-path-segment", func(f *models.FileFiltering) *[]string { return &f.WithoutPathSegment }},
	WithTag:             {"withTag", "--with-tag", func(f *models.FileFiltering) *[]string { return &f.WithTag }},
	WithoutTag:          {"withoutTag", "--without-tag", func(f *models.FileFiltering) *[]string { return &f.WithoutTag }},
	WithTagStarting:     {"withTagStarting", "--with-tag-starting", func(f *models.FileFiltering) *[]string { return &f.WithTagStarting }},
	WithoutTagStarting:  {"withoutTagStarting", "--without-tag-starting", func(f *models.FileFiltering) *[]string { return &f.WithoutTagStarting }},
}

// AllFields returns every field in canonical order.
func AllFields() []Field {
	fields := make([]Field, len(fieldSpecs))
	for i := range fieldSpecs {
		fields[i] = Field(i)
	}
	return fields
}

// Name returns the field's configuration name, e.g. "withTag".
func (f Field) Name() string {
	return fieldSpecs[f].name
}

// Flag returns the field's token flag, e.g. "--with-tag".
func (f Field) Flag() string {
	return fieldSpecs[f].flag
}

func (f Field) String() string {
	return f.Name()
}

// Values returns the field's values in filtering.
func (f Field) Values(filtering models.FileFiltering) []string {
	return *fieldSpecs[f].values(&filtering)
}

// Set replaces the field's values in filtering with a copy of values.
func (f Field) Set(filtering *models.FileFiltering, values []string) {
	*fieldSpecs[f].values(filtering) = append([]string(nil), values...)
}

// ParseField resolves a configuration name ("withTag") or flag ("--with-tag").
func ParseField(s string) (Field, error) {
	for i, spec := range fieldSpecs {
		if s == spec.name || s == spec.flag {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown filtering field %q", s)
}

func fieldForFlag(token string) (Field, bool) {
	for i, spec := range fieldSpecs {
		if token == spec.flag {
			return Field(i), true
		}
	}
	return 0, false
}

// IsEmpty reports whether no field constrains anything.
func IsEmpty(filtering models.FileFiltering) bool {
	for _, field := range AllFields() {
		if len(field.Values(filtering)) > 0 {
			return false
		}
	}
	return true
}

// Equal compares two predicates field by field; nil and empty fields are equal.
func Equal(a, b models.FileFiltering) bool {
	for _, field := range AllFields() {
		av, bv := field.Values(a), field.Values(b)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
	}
	return true
}

// Describe renders the non-empty fields for log lines.
func Describe(filtering models.FileFiltering) string {
	var parts []string
	for _, field := range AllFields() {
		if values := field.Values(filtering); len(values) > 0 {
			parts = append(parts, fmt.Sprintf("%s=%s", field.Name(), strings.Join(values, ",")))
		}
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}
