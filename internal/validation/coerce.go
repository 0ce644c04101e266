package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/noah-isme/kindergarten-erp-api/pkg/errors"
	"github.com/noah-isme/kindergarten-erp-api/pkg/patch"
)

type jsonKind string

const (
	kindNull    jsonKind = "null"
	kindString  jsonKind = "string"
	kindNumber  jsonKind = "number"
	kindBool    jsonKind = "boolean"
	kindObject  jsonKind = "object"
	kindArray   jsonKind = "array"
	kindInvalid jsonKind = "invalid"
)

const dateLayout = "2006-01-02"

var (
	timeType        = reflect.TypeOf(time.Time{})
	optionalType    = reflect.TypeOf((*patch.Optional)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	jsonNumber      = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)
)

// report collects issues and remembers which paths already failed.
type report struct {
	issues []appErrors.Issue
	failed map[string]struct{}
}

func newReport() *report {
	return &report{failed: make(map[string]struct{})}
}

func (r *report) add(path []interface{}, message string) {
	key := pathKey(path)
	if _, seen := r.failed[key]; seen {
		return
	}
	r.failed[key] = struct{}{}
	r.issues = append(r.issues, appErrors.Issue{Path: path, Message: message})
}

func (r *report) hasFailed(path []interface{}) bool {
	_, ok := r.failed[pathKey(path)]
	return ok
}

func pathKey(path []interface{}) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ".")
}

func appendPath(path []interface{}, segment interface{}) []interface{} {
	out := make([]interface{}, len(path), len(path)+1)
	copy(out, path)
	return append(out, segment)
}

func kindOf(raw json.RawMessage) jsonKind {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return kindInvalid
	}
	switch trimmed[0] {
	case 'n':
		return kindNull
	case '"':
		return kindString
	case 't', 'f':
		return kindBool
	case '{':
		return kindObject
	case '[':
		return kindArray
	default:
		return kindNumber
	}
}

// coerceObject rewrites the members of raw so they decode into t, dropping
// keys t does not declare and members that could not be coerced. Members are
// visited in field declaration order so issues come out in a stable order.
func coerceObject(raw map[string]json.RawMessage, t reflect.Type, path []interface{}, r *report) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(raw))
	for _, nf := range structFields(t) {
		value, ok := raw[nf.name]
		if !ok {
			continue
		}
		if coerced, ok := coerceValue(value, nf.field.Type, appendPath(path, nf.name), r); ok {
			out[nf.name] = coerced
		}
	}
	return out
}

func coerceValue(raw json.RawMessage, t reflect.Type, path []interface{}, r *report) (json.RawMessage, bool) {
	kind := kindOf(raw)

	if t.Implements(optionalType) {
		opt := reflect.Zero(t).Interface().(patch.Optional)
		if kind == kindNull {
			if opt.AcceptsNull() {
				return raw, true
			}
			r.add(path, "Expected a value, received null")
			return nil, false
		}
		t = opt.ElemType()
	}

	if kind == kindNull {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
			return raw, true
		}
		// leave the zero value so "required" reports it
		return nil, false
	}

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == timeType {
		return coerceTime(raw, kind, path, r)
	}
	if reflect.PtrTo(t).Implements(unmarshalerType) {
		return raw, true
	}

	switch t.Kind() {
	case reflect.String:
		if kind != kindString {
			r.add(path, expected("string", kind))
			return nil, false
		}
		return raw, true
	case reflect.Bool:
		if kind == kindBool {
			return raw, true
		}
		if kind == kindString {
			if s := unquote(raw); s == "true" || s == "false" {
				return json.RawMessage(s), true
			}
		}
		r.add(path, expected("boolean", kind))
		return nil, false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return coerceInteger(raw, kind, path, r, func(s string) error {
			_, err := strconv.ParseInt(s, 10, t.Bits())
			return err
		})
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return coerceInteger(raw, kind, path, r, func(s string) error {
			_, err := strconv.ParseUint(s, 10, t.Bits())
			return err
		})
	case reflect.Float32, reflect.Float64:
		num, ok := numberText(raw, kind)
		if !ok {
			r.add(path, expected("number", kind))
			return nil, false
		}
		return json.RawMessage(num), true
	case reflect.Struct:
		if kind != kindObject {
			r.add(path, expected("object", kind))
			return nil, false
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			r.add(path, "Invalid object")
			return nil, false
		}
		return marshal(coerceObject(obj, t, path, r))
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return raw, true
		}
		if kind != kindArray {
			r.add(path, expected("array", kind))
			return nil, false
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			r.add(path, "Invalid array")
			return nil, false
		}
		out := make([]json.RawMessage, len(items))
		for i, item := range items {
			coerced, ok := coerceValue(item, t.Elem(), appendPath(path, i), r)
			if !ok {
				coerced = json.RawMessage("null")
			}
			out[i] = coerced
		}
		return marshal(out)
	}
	return raw, true
}

func coerceInteger(raw json.RawMessage, kind jsonKind, path []interface{}, r *report, parse func(string) error) (json.RawMessage, bool) {
	num, ok := numberText(raw, kind)
	if !ok {
		r.add(path, expected("number", kind))
		return nil, false
	}
	if err := parse(num); err != nil {
		if ne, isNum := err.(*strconv.NumError); isNum && ne.Err == strconv.ErrRange {
			r.add(path, "Number out of range")
		} else {
			r.add(path, "Expected integer, received float")
		}
		return nil, false
	}
	return json.RawMessage(num), true
}

func coerceTime(raw json.RawMessage, kind jsonKind, path []interface{}, r *report) (json.RawMessage, bool) {
	if kind != kindString {
		r.add(path, expected("date", kind))
		return nil, false
	}
	s := strings.TrimSpace(unquote(raw))
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return marshal(ts)
	}
	if ts, err := time.Parse(dateLayout, s); err == nil {
		return marshal(ts.UTC())
	}
	r.add(path, "Invalid date")
	return nil, false
}

// numberText returns a valid JSON number for raw, accepting numeric strings.
func numberText(raw json.RawMessage, kind jsonKind) (string, bool) {
	var s string
	switch kind {
	case kindNumber:
		s = string(bytes.TrimSpace(raw))
	case kindString:
		s = strings.TrimSpace(unquote(raw))
	default:
		return "", false
	}
	if jsonNumber.MatchString(s) {
		return s, true
	}
	if strings.ContainsAny(s, "nNiIxX_") {
		return "", false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

func unquote(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func marshal(v interface{}) (json.RawMessage, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	return b, true
}

func expected(want string, got jsonKind) string {
	return fmt.Sprintf("Expected %s, received %s", want, got)
}

type namedField struct {
	name  string
	field reflect.StructField
}

// structFields lists the exported fields of t by JSON name in declaration
// order, flattening embedded structs. A later field shadows an earlier one
// with the same name.
func structFields(t reflect.Type) []namedField {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var out []namedField
	index := make(map[string]int)
	put := func(nf namedField) {
		if i, ok := index[nf.name]; ok {
			out[i] = nf
			return
		}
		index[nf.name] = len(out)
		out = append(out, nf)
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct && f.Tag.Get("json") == "" {
			for _, inner := range structFields(f.Type) {
				put(inner)
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name := jsonName(f); name != "" {
			put(namedField{name: name, field: f})
		}
	}
	return out
}

// fieldsByName indexes the fields of structFields by JSON name.
func fieldsByName(t reflect.Type) map[string]reflect.StructField {
	fields := make(map[string]reflect.StructField)
	for _, nf := range structFields(t) {
		fields[nf.name] = nf.field
	}
	return fields
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "" {
		return f.Name
	}
	return name
}
