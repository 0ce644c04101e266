package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/kindergarten-erp-api/pkg/errors"
)

// issuesFromValidation converts validator errors into issues. root is the
// name of the validated top-level struct, which prefixes every namespace.
func issuesFromValidation(errs validator.ValidationErrors, root string, r *report) {
	for _, fe := range errs {
		path := namespacePath(fe.Namespace(), root)
		if r.hasFailed(path) {
			continue
		}
		r.add(path, message(fe))
	}
}

func namespacePath(namespace, root string) []interface{} {
	namespace = strings.TrimPrefix(namespace, root+".")
	path := []interface{}{}
	for _, segment := range strings.Split(namespace, ".") {
		name := segment
		var indexes []string
		if open := strings.IndexByte(segment, '['); open >= 0 {
			name = segment[:open]
			for _, idx := range strings.Split(segment[open+1:], "[") {
				indexes = append(indexes, strings.TrimSuffix(idx, "]"))
			}
		}
		if name != "" {
			path = append(path, name)
		}
		for _, idx := range indexes {
			if n, err := strconv.Atoi(idx); err == nil {
				path = append(path, n)
			} else {
				path = append(path, idx)
			}
		}
	}
	return path
}

func message(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required", "required_if", "required_with", "required_without":
		return "Required"
	case "oneof":
		options := strings.Fields(param)
		for i, o := range options {
			options[i] = "'" + o + "'"
		}
		return "Invalid enum value. Expected " + strings.Join(options, " | ")
	case "email":
		return "Invalid email"
	case "e164":
		return "Invalid phone number"
	case "numeric", "number":
		return "Must match numeric pattern"
	case "datetime":
		return "Invalid datetime"
	case "min":
		return sizeMessage(fe.Kind(), "at least", param)
	case "max":
		return sizeMessage(fe.Kind(), "at most", param)
	case "len":
		return sizeMessage(fe.Kind(), "exactly", param)
	case "gt":
		return "Number must be greater than " + param
	case "gte":
		return "Number must be greater than or equal to " + param
	case "lt":
		return "Number must be less than " + param
	case "lte":
		return "Number must be less than or equal to " + param
	case "ltefield", "gtefield":
		return fmt.Sprintf("Must be consistent with %s", param)
	}
	return fmt.Sprintf("Invalid value (%s)", fe.Tag())
}

func sizeMessage(kind reflect.Kind, bound, param string) string {
	switch kind {
	case reflect.String:
		return fmt.Sprintf("String must contain %s %s character(s)", bound, param)
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("Array must contain %s %s element(s)", bound, param)
	}
	switch bound {
	case "at least":
		return "Number must be greater than or equal to " + param
	case "at most":
		return "Number must be less than or equal to " + param
	}
	return "Number must be exactly " + param
}

// issuesFromError passes structured validation errors through unchanged and
// wraps anything else into a single issue at path.
func issuesFromError(err error, path []interface{}) []appErrors.Issue {
	appErr := appErrors.FromError(err)
	if len(appErr.Issues) > 0 && appErr.Status == appErrors.ErrValidation.Status {
		return appErr.Issues
	}
	return []appErrors.Issue{{Path: path, Message: err.Error()}}
}
