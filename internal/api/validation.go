package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/scryptocybershield/sportsclub/internal/database"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// ValidationError carries field-level problems, keyed by JSON field name.
// It is rendered as a 422 response.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// Add records a problem with field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// orNil returns e when it holds problems and nil otherwise.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// badRequestError marks a body that could not be decoded at all.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

// newValidator builds the validator used for every payload. Field names in
// errors are taken from json tags, and the closed enums get their own rules.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("venue_type", func(fl validator.FieldLevel) bool {
		value := database.VenueType(fl.Field().String())
		for _, vt := range database.VenueTypes {
			if value == vt {
				return true
			}
		}
		return false
	})

	v.RegisterValidation("certification", func(fl validator.FieldLevel) bool {
		value := database.Certification(fl.Field().String())
		for _, c := range database.Certifications {
			if value == c {
				return true
			}
		}
		return false
	})

	return v
}

// validate runs struct validation and converts failures to a ValidationError.
func (s *Server) validate(payload interface{}) error {
	err := s.validator.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "field required"
	case "max":
		if isString {
			return fmt.Sprintf("ensure this value has at most %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("ensure this value is greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "email":
		return "value is not a valid email address"
	case "venue_type":
		return "value is not a valid enumeration member; permitted: " + joinEnum(database.VenueTypes)
	case "certification":
		return "value is not a valid enumeration member; permitted: " + joinEnum(database.Certifications)
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = "'" + string(v) + "'"
	}
	return strings.Join(parts, ", ")
}

// decodeJSON reads a single JSON object from the request body into dst.
// Type mismatches are reported against the offending field as validation
// failures; anything else that cannot be parsed is a bad request.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		var syntaxErr *json.SyntaxError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr):
			field := typeErr.Field
			if field == "" {
				field = "body"
			}
			verr := &ValidationError{}
			verr.Add(field, "value is not a valid "+describeType(typeErr.Type))
			return verr
		case errors.As(err, &syntaxErr):
			return &badRequestError{fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)}
		case errors.As(err, &maxErr):
			return &badRequestError{"request body too large"}
		case errors.Is(err, io.EOF):
			return &badRequestError{"request body must not be empty"}
		default:
			return &badRequestError{"could not decode JSON: " + err.Error()}
		}
	}

	if dec.More() {
		return &badRequestError{"request body must contain a single JSON object"}
	}
	return nil
}

func describeType(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t {
	case reflect.TypeOf(Date{}):
		return "date (YYYY-MM-DD)"
	case reflect.TypeOf(Timestamp{}):
		return "datetime"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice:
		return "list"
	default:
		return t.Kind().String()
	}
}
