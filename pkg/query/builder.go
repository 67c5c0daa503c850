package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// condition is a WHERE fragment using ? placeholders, numbered as
// $1..$n when the statement is rendered.
type condition struct {
	clause string
	args   []any
}

// Builder assembles SELECT and COUNT statements over one projection.
// Conditions are ANDed together in the order they were added.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	order       []SortField
	defaultSort []SortField
}

func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{projection: projection, defaultSort: defaultSort}
}

// WhereEquals adds field = value. Nil values are skipped.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	return b.compare(field, "=", value)
}

// WhereGTE adds field >= value. Nil values are skipped.
func (b *Builder) WhereGTE(field string, value any) *Builder {
	return b.compare(field, ">=", value)
}

// WhereLTE adds field <= value. Nil values are skipped.
func (b *Builder) WhereLTE(field string, value any) *Builder {
	return b.compare(field, "<=", value)
}

// WhereRange bounds field inclusively on both sides. Either bound may be
// nil to leave that side open.
func (b *Builder) WhereRange(field string, lo, hi any) *Builder {
	return b.WhereGTE(field, lo).WhereLTE(field, hi)
}

// likeEscaper makes LIKE metacharacters in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// WhereSearch matches search case-insensitively as a literal substring of
// any of fields. A nil or empty search adds nothing.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + likeEscaper.Replace(*search) + "%"
	ors := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		ors[i] = b.projection.Column(f) + ` ILIKE ? ESCAPE '\'`
		args[i] = pattern
	}

	b.conditions = append(b.conditions, condition{
		clause: "(" + strings.Join(ors, " OR ") + ")",
		args:   args,
	})
	return b
}

// OrderByFields replaces the default ordering. Fields the projection does
// not know are dropped.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.order = b.order[:0]
	for _, f := range fields {
		if b.projection.Has(f.Field) {
			b.order = append(b.order, f)
		}
	}
	return b
}

func (b *Builder) Build() (string, []any) {
	return b.selectSQL(""), b.args()
}

// BuildLimit is Build capped at limit rows.
func (b *Builder) BuildLimit(limit int) (string, []any) {
	return b.selectSQL(" LIMIT " + strconv.Itoa(limit)), b.args()
}

// BuildPage is Build restricted to one 1-indexed page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	tail := fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
	return b.selectSQL(tail), b.args()
}

// BuildCount counts the rows matching the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	return "SELECT COUNT(*) FROM " + b.projection.Table() + b.whereSQL(), b.args()
}

func (b *Builder) compare(field, op string, value any) *Builder {
	if isNil(value) {
		return b
	}
	b.conditions = append(b.conditions, condition{
		clause: b.projection.Column(field) + " " + op + " ?",
		args:   []any{value},
	})
	return b
}

func (b *Builder) selectSQL(tail string) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.projection.Columns())
	sb.WriteString(" FROM ")
	sb.WriteString(b.projection.Table())
	sb.WriteString(b.whereSQL())
	sb.WriteString(b.orderSQL())
	sb.WriteString(tail)
	return sb.String()
}

func (b *Builder) whereSQL() string {
	if len(b.conditions) == 0 {
		return ""
	}

	clauses := make([]string, len(b.conditions))
	for i, c := range b.conditions {
		clauses[i] = c.clause
	}
	return " WHERE " + number(strings.Join(clauses, " AND "))
}

func (b *Builder) orderSQL() string {
	fields := b.order
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	terms := make([]string, len(fields))
	for i, f := range fields {
		terms[i] = b.projection.Column(f.Field) + " " + f.direction()
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func (b *Builder) args() []any {
	var out []any
	for _, c := range b.conditions {
		out = append(out, c.args...)
	}
	return out
}

// number rewrites each ? as a positional $n placeholder.
func number(clause string) string {
	var sb strings.Builder
	n := 0
	for _, r := range clause {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}
		n++
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
