// Package validation decodes, coerces and validates request input against
// declared contracts before a handler runs.
//
// A contract is a struct whose top-level fields are tagged json:"body",
// json:"query" or json:"params"; Input is the generic carrier. Field rules use
// go-playground/validator tags.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/kindergarten-erp-api/pkg/errors"
	"github.com/noah-isme/kindergarten-erp-api/pkg/patch"
)

// Request locations.
const (
	LocationBody   = "body"
	LocationQuery  = "query"
	LocationParams = "params"
)

const (
	payloadKey   = "validated_payload"
	maxBodyBytes = 1 << 20
)

// None marks an unused request location.
type None struct{}

// Input is the typed, validated replacement for the raw request.
type Input[B, Q, P any] struct {
	Body   B `json:"body"`
	Query  Q `json:"query"`
	Params P `json:"params"`
}

// IDParams is the path contract shared by item routes.
type IDParams struct {
	ID int64 `json:"id" validate:"gt=0"`
}

// Validator binds requests into contracts.
type Validator struct {
	validate *validator.Validate
}

// New constructs a Validator configured for JSON field names and patch wrappers.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return jsonName(f)
	})
	v.RegisterCustomTypeFunc(optionalValue,
		patch.Field[string]{}, patch.Field[int]{}, patch.Field[int64]{}, patch.Field[float64]{},
		patch.Field[bool]{}, patch.Field[time.Time]{},
		patch.Nullable[string]{}, patch.Nullable[int]{}, patch.Nullable[int64]{}, patch.Nullable[float64]{},
		patch.Nullable[bool]{}, patch.Nullable[time.Time]{},
	)
	return &Validator{validate: v}
}

// Engine exposes the underlying validator for struct-only validation.
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

// optionalValue exposes a patch wrapper to the validator as a pointer, so
// omitempty skips absent or null fields but still checks provided zero values.
func optionalValue(field reflect.Value) interface{} {
	opt, ok := field.Interface().(patch.Optional)
	if !ok {
		return nil
	}
	ptrType := reflect.PtrTo(opt.ElemType())
	value := opt.Interface()
	if value == nil {
		return reflect.Zero(ptrType).Interface()
	}
	ptr := reflect.New(opt.ElemType())
	ptr.Elem().Set(reflect.ValueOf(value))
	return ptr.Interface()
}

// Bind fills dst, a pointer to a contract struct, from the request and
// validates it. Failures are returned as a 400 *errors.Error with issues.
func (v *Validator) Bind(c *gin.Context, dst interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return appErrors.Wrap(fmt.Errorf("bind target %T is not a struct pointer", dst), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	target := rv.Elem()
	r := newReport()

	for i := 0; i < target.NumField(); i++ {
		sf := target.Type().Field(i)
		if !sf.IsExported() {
			continue
		}
		loc := jsonName(sf)
		path := []interface{}{loc}

		var raw map[string]json.RawMessage
		switch loc {
		case LocationBody:
			if len(fieldsByName(sf.Type)) == 0 {
				continue
			}
			var ok bool
			if raw, ok = readBody(c, r); !ok {
				continue
			}
		case LocationQuery:
			raw = fromValues(c.Request.URL.Query(), sf.Type)
		case LocationParams:
			values := url.Values{}
			for _, p := range c.Params {
				values.Set(p.Key, p.Value)
			}
			raw = fromValues(values, sf.Type)
		default:
			continue
		}

		coerced := coerceObject(raw, sf.Type, path, r)
		encoded, _ := json.Marshal(coerced)
		if err := json.Unmarshal(encoded, target.Field(i).Addr().Interface()); err != nil {
			for _, issue := range issuesFromError(err, path) {
				r.add(issue.Path, issue.Message)
			}
		}
	}

	if err := v.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		issuesFromValidation(verrs, target.Type().Name(), r)
	}

	if len(r.issues) > 0 {
		return appErrors.Validation(r.issues, nil)
	}
	return nil
}

// Struct validates an already-decoded value, converting failures to issues.
func (v *Validator) Struct(value interface{}) error {
	err := v.validate.Struct(value)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	r := newReport()
	issuesFromValidation(verrs, reflect.Indirect(reflect.ValueOf(value)).Type().Name(), r)
	return appErrors.Validation(r.issues, err)
}

func readBody(c *gin.Context, r *report) (map[string]json.RawMessage, bool) {
	path := []interface{}{LocationBody}
	if c.Request.Body == nil {
		return map[string]json.RawMessage{}, true
	}
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		r.add(path, "Unable to read request body")
		return nil, false
	}
	if strings.TrimSpace(string(data)) == "" {
		return map[string]json.RawMessage{}, true
	}
	if !json.Valid(data) {
		r.add(path, "Invalid JSON")
		return nil, false
	}
	if kind := kindOf(data); kind != kindObject {
		r.add(path, expected("object", kind))
		return nil, false
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		r.add(path, "Invalid JSON")
		return nil, false
	}
	return raw, true
}

// fromValues renders string values as JSON so they run through the same
// coercion as body members. Empty values are treated as absent.
func fromValues(values url.Values, t reflect.Type) map[string]json.RawMessage {
	raw := make(map[string]json.RawMessage)
	for name, field := range fieldsByName(t) {
		vals, ok := values[name]
		if !ok {
			continue
		}
		nonEmpty := make([]string, 0, len(vals))
		for _, v := range vals {
			if v != "" {
				nonEmpty = append(nonEmpty, v)
			}
		}
		if len(nonEmpty) == 0 {
			continue
		}
		var encoded []byte
		if isSliceField(field.Type) {
			encoded, _ = json.Marshal(nonEmpty)
		} else {
			encoded, _ = json.Marshal(nonEmpty[0])
		}
		raw[name] = encoded
	}
	return raw
}

func isSliceField(t reflect.Type) bool {
	if t.Implements(optionalType) {
		t = reflect.Zero(t).Interface().(patch.Optional).ElemType()
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8
}

// Middleware binds T for every request and stores it for Payload. Requests
// that fail validation are aborted with the validation error.
func Middleware[T any](v *Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload := new(T)
		if err := v.Bind(c, payload); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(payloadKey, payload)
		c.Next()
	}
}

// Payload returns the contract bound by Middleware[T].
func Payload[T any](c *gin.Context) (*T, bool) {
	value, exists := c.Get(payloadKey)
	if !exists {
		return nil, false
	}
	payload, ok := value.(*T)
	return payload, ok
}

// RawPayload returns the bound contract without knowing its type.
func RawPayload(c *gin.Context) (interface{}, bool) {
	return c.Get(payloadKey)
}
