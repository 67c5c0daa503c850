// Package query builds parameterized Postgres SELECT statements over a
// projection of logical field names onto table columns.
package query

import "strings"

// ProjectionMap resolves logical field names to alias-qualified columns.
// Both the logical name ("DetectionMethod") and the raw column name
// ("detection_method") resolve, so client sort keys in either style work.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns map[string]string
	order   []string
}

func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps column under name and appends it to the select list.
// Columns are double-quoted so reserved words such as timestamp are safe.
func (p *ProjectionMap) Project(column, name string) *ProjectionMap {
	qualified := p.alias + `."` + column + `"`
	p.columns[name] = qualified
	p.columns[column] = qualified
	p.order = append(p.order, qualified)
	return p
}

// Table is the aliased FROM target.
func (p *ProjectionMap) Table() string {
	return p.schema + "." + p.table + " " + p.alias
}

func (p *ProjectionMap) Has(name string) bool {
	_, ok := p.columns[name]
	return ok
}

// Column resolves name, returning it unchanged when unmapped.
func (p *ProjectionMap) Column(name string) string {
	if col, ok := p.columns[name]; ok {
		return col
	}
	return name
}

// Columns is the comma-separated select list in projection order.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.order, ", ")
}
