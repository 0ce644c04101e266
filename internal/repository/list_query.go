package repository

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/kindergarten-erp-api/internal/query"
)

// listQuery holds the SQL rendered from a query.Params descriptor.
type listQuery struct {
	Select string
	Count  string
	Args   []interface{}
}

// buildListQuery renders params against a FROM clause. columns maps API field
// names to SQL columns; fields without a column are ignored, and an unmapped
// sort field falls back to the "id" column. Sorting by any other column adds
// the id column as a tiebreaker so pages stay disjoint.
func buildListQuery(selectCols, from string, columns map[string]string, params query.Params) listQuery {
	keys := make([]string, 0, len(params.Filters))
	for k := range params.Filters {
		if _, ok := columns[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	conditions := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		args = append(args, params.Filters[k])
		conditions = append(conditions, fmt.Sprintf("%s = $%d", columns[k], len(args)))
	}

	base := "FROM " + from
	if len(conditions) > 0 {
		base += " WHERE " + strings.Join(conditions, " AND ")
	}

	idColumn := columns[query.DefaultSortField]
	column, ok := columns[params.Sort.Field]
	if !ok {
		column = idColumn
	}
	order := column + " ASC"
	if params.Sort.Direction == query.Desc {
		order = column + " DESC"
	}
	if column != idColumn && idColumn != "" {
		order += ", " + idColumn + " ASC"
	}

	take := params.Pagination.Take
	if take <= 0 {
		take = query.DefaultPageSize
	}

	return listQuery{
		Select: fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT %d OFFSET %d", selectCols, base, order, take, params.Pagination.Skip),
		Count:  "SELECT COUNT(*) " + base,
		Args:   args,
	}
}
