package models

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their form/json name so errors line up with the inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that title, slug and markdown are all present.
// It returns FieldErrors keyed by form field name, or nil.
func (p *Post) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fieldErrs := FieldErrors{}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fieldErrs[fe.Field()] = fmt.Sprintf("%s is required", fe.StructField())
		default:
			fieldErrs[fe.Field()] = fmt.Sprintf("%s is invalid", fe.StructField())
		}
	}
	return fieldErrs
}

// Apply copies the editable fields of other onto p.
func (p *Post) Apply(other *Post) {
	p.Title = other.Title
	p.Slug = other.Slug
	p.Markdown = other.Markdown
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, e[f])
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether field has an error.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}
