package schema

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/Veraticus/meddoc/internal/model"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	mustRegister("confidence", validateConfidence)
	mustRegister("unit", validateConfidence)
	mustRegister("doctype", validateDocumentType)
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// validateConfidence accepts the closed unit interval. NaN fails both comparisons.
func validateConfidence(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

func validateDocumentType(fl validator.FieldLevel) bool {
	_, ok := model.ParseDocumentType(fl.Field().String())
	return ok
}

// decode unmarshals data into wire and validates it, reporting failures against schemaName.
func decode(schemaName string, data []byte, wire any) error {
	if err := json.Unmarshal(data, wire); err != nil {
		return decodeError(schemaName, err)
	}
	if err := validate.Struct(wire); err != nil {
		return validationError(schemaName, err)
	}
	return nil
}

func decodeError(schemaName string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{
			Schema: schemaName,
			Path:   typeErr.Field,
			Reason: fmt.Sprintf("has wrong type: expected %s, got %s", typeErr.Type, typeErr.Value),
		}
	}
	return &ValidationError{Schema: schemaName, Reason: fmt.Sprintf("malformed JSON: %v", err)}
}

func validationError(schemaName string, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Schema: schemaName, Reason: err.Error()}
	}

	fe := fieldErrs[0]
	ve := &ValidationError{
		Schema: schemaName,
		Path:   fieldPath(fe.Namespace()),
		Reason: describe(fe),
	}
	if fe.Tag() == "doctype" {
		ve.Kind = ErrUnrecognizedDocumentType
	}
	return ve
}

// fieldPath drops the wire struct name from a validator namespace.
func fieldPath(namespace string) string {
	_, path, _ := strings.Cut(namespace, ".")
	return path
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "confidence", "unit":
		return fmt.Sprintf("must be between 0 and 1, got %v", fe.Value())
	case "doctype":
		return fmt.Sprintf("is not a recognized document type: %q", fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
