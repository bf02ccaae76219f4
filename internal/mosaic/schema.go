// Package mosaic implements custom mosaic query resolution: normalizing
// submitted form data and mapping it onto a deduplicated persisted task.
package mosaic

import (
	"strconv"
	"time"

	"github.com/datacube/mosaic-go/internal/errors"
)

// FormData is a mapping of submitted field names to raw string values, as
// produced by upstream HTTP form parsing.
type FormData map[string]string

// FieldKind describes how a submitted field value is parsed.
type FieldKind int

const (
	KindString FieldKind = iota
	KindFloat
	KindDate
	KindReference
)

// Field declares one submittable field of a mosaic task: the form key it
// arrives under, the task column it is stored in, and how its value parses.
type Field struct {
	Name   string    // submitted form key
	Column string    // task column name
	Kind   FieldKind // value parser
}

// ReferenceKind identifies which lookup entity a reference field points at.
type ReferenceKind string

const (
	RefResultType    ReferenceKind = "result_type"
	RefAnimationType ReferenceKind = "animation_type"
	RefCompositor    ReferenceKind = "compositor"
)

// referenceTargets maps reference form keys to their lookup entity.
var referenceTargets = map[string]ReferenceKind{
	"query_type":       RefResultType,
	"animated_product": RefAnimationType,
	"compositor":       RefCompositor,
}

// TaskFields is the static schema of submittable task fields. Filtering form
// data consults this list instead of runtime reflection: any submitted key
// not declared here is dropped silently.
var TaskFields = []Field{
	{Name: "platform", Column: "platform", Kind: KindString},
	{Name: "product", Column: "product", Kind: KindString},
	{Name: "area_id", Column: "area_id", Kind: KindString},
	{Name: "user_id", Column: "user_id", Kind: KindString},
	{Name: "title", Column: "title", Kind: KindString},
	{Name: "description", Column: "description", Kind: KindString},
	{Name: "time_start", Column: "time_start", Kind: KindDate},
	{Name: "time_end", Column: "time_end", Kind: KindDate},
	{Name: "latitude_min", Column: "latitude_min", Kind: KindFloat},
	{Name: "latitude_max", Column: "latitude_max", Kind: KindFloat},
	{Name: "longitude_min", Column: "longitude_min", Kind: KindFloat},
	{Name: "longitude_max", Column: "longitude_max", Kind: KindFloat},
	{Name: "query_type", Column: "query_type_id", Kind: KindReference},
	{Name: "animated_product", Column: "animated_product_id", Kind: KindReference},
	{Name: "compositor", Column: "compositor_id", Kind: KindReference},
}

// Accepted submission formats for date fields, tried in order.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
}

// ReferenceResolver converts a reference field's external identifier to the
// primary key of the referenced lookup row.
type ReferenceResolver func(kind ReferenceKind, externalID string) (uint, error)

// FilterFields restricts form data to the declared task fields, parsing each
// present value according to its kind. The returned map is keyed by task
// column name and contains only the fields that were actually submitted;
// extraneous keys never survive filtering.
func FilterFields(form FormData, resolveRef ReferenceResolver) (map[string]any, error) {
	fields := make(map[string]any, len(TaskFields))

	for _, field := range TaskFields {
		raw, ok := form[field.Name]
		if !ok {
			continue
		}

		switch field.Kind {
		case KindString:
			fields[field.Column] = raw

		case KindFloat:
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fieldError(field.Name, raw, "invalid decimal value")
			}
			fields[field.Column] = value

		case KindDate:
			value, err := parseDate(raw)
			if err != nil {
				return nil, fieldError(field.Name, raw, "invalid date value")
			}
			fields[field.Column] = value

		case KindReference:
			id, err := resolveRef(referenceTargets[field.Name], raw)
			if err != nil {
				return nil, err
			}
			fields[field.Column] = id
		}
	}

	return fields, nil
}

// parseDate parses a submitted date value using the accepted formats.
func parseDate(raw string) (time.Time, error) {
	var err error
	for _, format := range dateFormats {
		var value time.Time
		if value, err = time.Parse(format, raw); err == nil {
			return value, nil
		}
	}
	return time.Time{}, err
}

// fieldError creates a validation error for a malformed submitted value.
func fieldError(field, value, message string) error {
	return errors.Newf("field %s: %s", field, message).
		Component("mosaic").
		Category(errors.CategoryValidation).
		Context("field", field).
		Context("value", value).
		Build()
}
