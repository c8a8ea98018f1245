package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aldoetobex/mojaz-backend/pkg/models"
)

var (
	v *validator.Validate

	// Username: 3–40 chars, letters, digits, dot, dash, underscore.
	reUsername = regexp.MustCompile(`^[A-Za-z0-9._-]{3,40}$`)

	// Calendar day as sent by forms.
	reDay = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func init() {
	v = validator.New()

	// Use JSON tag as the field name in error output
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Enum tags: empty is left to omitempty/required
	enum := func(tag string, ok func(string) bool) {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			val := strings.TrimSpace(fl.Field().String())
			if val == "" {
				return true
			}
			return ok(val)
		})
	}
	enum("clienttype", func(s string) bool { return models.ClientType(s).Valid() })
	enum("casetype", func(s string) bool { return models.CaseType(s).Valid() })
	enum("casestatus", func(s string) bool { return models.CaseStatus(s).Valid() })
	enum("priority", func(s string) bool { return models.Priority(s).Valid() })
	enum("relatedtype", func(s string) bool { return models.RelatedType(s).Valid() })
	enum("timecategory", func(s string) bool { return models.TimeCategory(s).Valid() })

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return reUsername.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
		val := strings.TrimSpace(fl.Field().String())
		if val == "" {
			return true
		}
		if !reDay.MatchString(val) {
			return false
		}
		_, err := models.ParseDate(val)
		return err == nil
	})
}

// Validate returns map[field][]messages (Laravel-like)
func Validate(s any) (map[string][]string, error) {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, err
		}
		out := make(map[string][]string)
		for _, e := range ve {
			field := e.Field() // already mapped from json tag

			switch e.Tag() {
			case "required":
				out[field] = append(out[field], "This field is required")

			case "email":
				out[field] = append(out[field], "Invalid email format")

			case "min":
				if e.Kind() == reflect.String {
					out[field] = append(out[field], fmt.Sprintf("Must be at least %s characters", e.Param()))
				} else {
					out[field] = append(out[field], fmt.Sprintf("Must be at least %s", e.Param()))
				}

			case "max":
				if e.Kind() == reflect.String {
					out[field] = append(out[field], fmt.Sprintf("Must be at most %s characters", e.Param()))
				} else {
					out[field] = append(out[field], fmt.Sprintf("Must be at most %s", e.Param()))
				}

			case "gt":
				out[field] = append(out[field], fmt.Sprintf("Must be greater than %s", e.Param()))

			case "gte":
				out[field] = append(out[field], fmt.Sprintf("Must be greater than or equal to %s", e.Param()))

			case "lte":
				out[field] = append(out[field], fmt.Sprintf("Must be at most %s", e.Param()))

			case "oneof", "clienttype", "casetype", "casestatus", "priority", "relatedtype", "timecategory":
				out[field] = append(out[field], "Value is not allowed")

			case "username":
				out[field] = append(out[field], "Use 3-40 letters, digits, dots, dashes or underscores")

			case "day":
				out[field] = append(out[field], "Invalid date (use YYYY-MM-DD)")

			default:
				// Fallback to original error text if we missed a tag
				out[field] = append(out[field], e.Error())
			}
		}
		return out, nil
	}
	return nil, nil
}
