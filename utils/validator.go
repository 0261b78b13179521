package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateStruct checks `validate` tags and returns the first failure as a
// readable message.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "email":
		return fmt.Errorf("%s must be a valid email address", fe.Field())
	case "min", "gte":
		return fmt.Errorf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Errorf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "url":
		return fmt.Errorf("%s must be a valid URL", fe.Field())
	}
	return fmt.Errorf("%s is invalid", fe.Field())
}
