// Package query turns raw list-endpoint query strings into a storage-agnostic
// descriptor made of a pagination window, a single sort key and an
// allow-listed equality filter set.
package query

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query string parameter names shared by every list endpoint.
const (
	ParamPage      = "page"
	ParamPageSize  = "pageSize"
	ParamSortBy    = "sortBy"
	ParamSortOrder = "sortOrder"
)

// Pagination limits and defaults.
const (
	DefaultPage      = 1
	DefaultPageSize  = 20
	MinPageSize      = 1
	MaxPageSize      = 200
	DefaultSortField = "id"

	// keeps Skip inside a 32-bit OFFSET
	maxPage = math.MaxInt32 / MaxPageSize
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Pagination is a normalised page window.
type Pagination struct {
	Page     int
	PageSize int
	Skip     int
	Take     int
}

// Sort is the single active ordering key.
type Sort struct {
	Field     string
	Direction Direction
}

// Filters maps allow-listed field names to equality values (int64, float64 or string).
type Filters map[string]interface{}

// ParsePagination normalises page and pageSize. It never fails: missing or
// non-numeric values fall back to defaults and out-of-range values are clamped.
func ParsePagination(values url.Values) Pagination {
	page := parseInt(values.Get(ParamPage), DefaultPage)
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	size := parseInt(values.Get(ParamPageSize), DefaultPageSize)
	if size < MinPageSize {
		size = MinPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Pagination{Page: page, PageSize: size, Skip: (page - 1) * size, Take: size}
}

// ParseSort reads sortBy/sortOrder. A sortBy outside allowed falls back to
// defaultField; only the exact token "desc" selects descending order.
func ParseSort(values url.Values, allowed []string, defaultField string) Sort {
	if defaultField == "" {
		defaultField = DefaultSortField
	}
	field := values.Get(ParamSortBy)
	if field == "" || !contains(allowed, field) {
		field = defaultField
	}
	dir := Asc
	if values.Get(ParamSortOrder) == string(Desc) {
		dir = Desc
	}
	return Sort{Field: field, Direction: dir}
}

// ParseFilters builds equality predicates for the allowed fields only.
// Empty values are dropped and numeric strings become numbers.
func ParseFilters(values url.Values, allowed []string) Filters {
	filters := Filters{}
	for _, field := range allowed {
		raw := values.Get(field)
		if raw == "" {
			continue
		}
		filters[field] = Coerce(raw)
	}
	return filters
}

// Coerce converts a fully numeric string into int64 or float64 and returns
// any other input unchanged.
func Coerce(raw string) interface{} {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if strings.ContainsAny(raw, "nNiIxX") {
		return raw
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(f, 0) {
		return f
	}
	return raw
}

// Contract declares the sortable and filterable fields of one list endpoint.
type Contract struct {
	SortFields   []string
	DefaultSort  string
	FilterFields []string
}

// Params is the full list descriptor handed to the persistence layer.
type Params struct {
	Pagination Pagination
	Sort       Sort
	Filters    Filters
}

// Parse applies pagination, sort and filter parsing with the contract's allow-lists.
func (c Contract) Parse(values url.Values) Params {
	return Params{
		Pagination: ParsePagination(values),
		Sort:       ParseSort(values, c.SortFields, c.DefaultSort),
		Filters:    ParseFilters(values, c.FilterFields),
	}
}

// Key renders a canonical representation suitable for cache keys. Filter
// values are escaped so a value cannot impersonate a separator.
func (p Params) Key() string {
	keys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "p=%d:s=%d:o=%s.%s", p.Pagination.Page, p.Pagination.PageSize, p.Sort.Field, p.Sort.Direction)
	for _, k := range keys {
		fmt.Fprintf(&b, ":%s=%s", k, url.QueryEscape(fmt.Sprint(p.Filters[k])))
	}
	return b.String()
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
