// Package rules holds the validator configuration shared by request binding
// and the domain packages. It must not depend on the HTTP stack.
package rules

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Register applies the project's tag name func and aliases to v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	v.RegisterAlias("pwd", "min=8,max=72") // runes; helpers.HashPassword enforces 72 bytes
	v.RegisterAlias("sex", "oneof=male female")
	v.RegisterAlias("age", "gte=10,lte=100")
}

// Message renders a single field error as a short human message.
func Message(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	numeric := isNumberKind(fe.Kind())

	switch tag {
	case "required", "nonzero":
		return "is required"
	case "required_with":
		return "is required when " + param + " is present"
	case "required_without":
		return "is required when " + param + " is not present"

	case "email":
		return "must be a valid email"
	case "url", "http_url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "jwt":
		return "must be a valid JWT token"
	case "numeric", "number":
		return "must be numeric"
	case "alphanum":
		return "must contain alphanumeric characters only"
	case "printascii":
		return "must contain printable ASCII characters only"

	case "len":
		if numeric {
			return "must be exactly " + param
		}
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if numeric {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if numeric {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"

	case "eq":
		return "must be equal to " + param
	case "ne":
		return "must not be equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be less than or equal to " + param
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "eqfield":
		return "must be equal to " + param + " field"
	case "nefield":
		return "must not be equal to " + param + " field"

	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")

	case "pwd":
		return "must be between 8 and 72 characters long"
	case "sex":
		return "must be one of: male, female"
	case "age":
		return "must be between 10 and 100"

	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
