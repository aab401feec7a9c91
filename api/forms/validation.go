package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/badoux/checkmail"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the custom tags on gin's validator. Safe to
// call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unexpected validator engine")
			return
		}

		v.RegisterTagNameFunc(jsonFieldName)
		registerErr = v.RegisterValidation("mailformat", validateMailFormat)
	})
	return registerErr
}

func validateMailFormat(fl validator.FieldLevel) bool {
	return checkmail.ValidateFormat(fl.Field().String()) == nil
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}

// Bind decodes the request into form and validates it. It returns nil when
// the form is valid.
func Bind(c *gin.Context, form interface{}) []FieldError {
	if err := c.ShouldBind(form); err != nil {
		return Errors(err)
	}
	return nil
}

// Validate runs the binding rules on an already populated form.
func Validate(form interface{}) []FieldError {
	if err := binding.Validator.ValidateStruct(form); err != nil {
		return Errors(err)
	}
	return nil
}

// Errors turns a binding or validation error into field errors.
func Errors(err error) []FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Field: "body", Error: "could not be parsed"}}
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field: fe.Field(),
			Error: message(fe),
		})
	}
	return fieldErrors
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "mailformat", "email":
		return "must be a valid email address"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}
