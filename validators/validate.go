// Package validators wraps go-playground/validator with the messages shown
// next to form fields.
package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates v and returns field name -> message, or nil.
func Struct(v interface{}) map[string]string {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": "Invalid form!"}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe.Field(), fe.Tag(), fe.Param())
		}
	}
	return out
}

// Var validates one value against a tag string such as "required,max=200".
func Var(field string, value interface{}, tag string) string {
	err := instance().Var(value, tag)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return message(field, verrs[0].Tag(), verrs[0].Param())
	}
	return "Invalid value!"
}

func message(field, tag, param string) string {
	label := Label(field)
	switch tag {
	case "required":
		return label + " is required!"
	case "email":
		return "Invalid email!"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long!", label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long!", label, param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s!", label, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s!", label, param)
	case "eqfield":
		return "Passwords do not match!"
	case "url":
		return label + " must be a valid URL!"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s!", label, strings.ReplaceAll(param, " ", ", "))
	default:
		return label + " is invalid!"
	}
}

// Label turns a form field name into a human label: first_name -> First name.
func Label(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
