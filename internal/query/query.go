// Package query translates request query strings into structured, safe
// data-store filters and applies projection, sorting and pagination on top.
package query

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/devtrail/bootcamp-service/internal/models"
)

// Op identifies a comparison operator in a filter condition.
type Op string

const (
	OpEq  Op = "eq"
	OpNe  Op = "ne"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

const (
	DefaultPage  = 1
	DefaultLimit = 50
)

// Condition is a single constraint on one field. Value holds a coerced
// scalar, or []interface{} when Op is OpIn.
type Condition struct {
	Field string
	Op    Op
	Value interface{}
}

// SortField is one component of a sort spec.
type SortField struct {
	Field string
	Desc  bool
}

// Query is the structured form of a list request: a filter expression plus
// projection, sort and pagination parameters.
type Query struct {
	Conditions []Condition
	Select     []string
	Sort       []SortField
	Page       int
	Limit      int
}

// Field describes how a queryable field maps onto the store.
type Field struct {
	Column string
	// JSONArray marks columns stored as JSON arrays; equality and `in`
	// become containment checks.
	JSONArray bool
}

// Fieldset whitelists the fields a caller may filter, select or sort on,
// keyed by their wire name. Anything outside the set is silently dropped.
type Fieldset map[string]Field

var bracketKey = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9_]*)\[([a-z]+)\]$`)

var knownOps = map[string]Op{
	"eq":  OpEq,
	"ne":  OpNe,
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
	"in":  OpIn,
}

// Parse converts raw query parameters into a Query. Reserved keys (select,
// sort, page, limit) feed the shaping parameters; every other key becomes a
// filter condition. Unknown bracket operators are dropped rather than passed
// through. Malformed pagination values fall back to their defaults.
func Parse(values url.Values) Query {
	q := Query{Page: DefaultPage, Limit: DefaultLimit}

	for key, raw := range values {
		if len(raw) == 0 {
			continue
		}
		switch key {
		case "select":
			q.Select = splitList(raw[0])
		case "sort":
			q.Sort = parseSort(raw[0])
		case "page":
			if n, err := strconv.Atoi(raw[0]); err == nil && n > 0 {
				q.Page = n
			}
		case "limit":
			if n, err := strconv.Atoi(raw[0]); err == nil && n > 0 {
				q.Limit = n
			}
		default:
			if cond, ok := parseCondition(key, raw); ok {
				q.Conditions = append(q.Conditions, cond)
			}
		}
	}
	return q
}

func parseCondition(key string, raw []string) (Condition, bool) {
	if m := bracketKey.FindStringSubmatch(key); m != nil {
		op, ok := knownOps[m[2]]
		if !ok {
			return Condition{}, false
		}
		if op == OpIn {
			// Normalize to a list even for a single scalar value, and
			// merge repeated params with comma-separated ones.
			var list []interface{}
			for _, v := range raw {
				for _, item := range splitList(v) {
					list = append(list, coerce(item))
				}
			}
			return Condition{Field: m[1], Op: OpIn, Value: list}, true
		}
		return Condition{Field: m[1], Op: op, Value: coerce(raw[0])}, true
	}
	if strings.ContainsAny(key, "[]") {
		return Condition{}, false
	}
	return Condition{Field: key, Op: OpEq, Value: coerce(raw[0])}, true
}

// coerce turns a raw query value into a number or bool when it parses as
// one, else keeps the string.
func coerce(s string) interface{} {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseSort(s string) []SortField {
	var sorts []SortField
	for _, f := range splitList(s) {
		if strings.HasPrefix(f, "-") {
			sorts = append(sorts, SortField{Field: f[1:], Desc: true})
		} else {
			sorts = append(sorts, SortField{Field: f})
		}
	}
	return sorts
}

// ApplyFilter adds the filter conditions as WHERE clauses. Fields outside
// the whitelist are skipped.
func (q Query) ApplyFilter(db *gorm.DB, fields Fieldset) *gorm.DB {
	for _, cond := range q.Conditions {
		field, ok := fields[cond.Field]
		if !ok {
			continue
		}
		db = applyCondition(db, field, cond)
	}
	return db
}

func applyCondition(db *gorm.DB, field Field, cond Condition) *gorm.DB {
	if field.JSONArray {
		return applyJSONArrayCondition(db, field, cond)
	}
	switch cond.Op {
	case OpEq:
		return db.Where(field.Column+" = ?", cond.Value)
	case OpNe:
		return db.Where(field.Column+" <> ?", cond.Value)
	case OpGt:
		return db.Where(field.Column+" > ?", cond.Value)
	case OpGte:
		return db.Where(field.Column+" >= ?", cond.Value)
	case OpLt:
		return db.Where(field.Column+" < ?", cond.Value)
	case OpLte:
		return db.Where(field.Column+" <= ?", cond.Value)
	case OpIn:
		if list, ok := cond.Value.([]interface{}); ok && len(list) > 0 {
			return db.Where(field.Column+" IN ?", list)
		}
	}
	return db
}

// applyJSONArrayCondition matches membership in a JSON array column. `in`
// keeps any-of semantics by OR-ing the containment checks.
func applyJSONArrayCondition(db *gorm.DB, field Field, cond Condition) *gorm.DB {
	switch cond.Op {
	case OpEq:
		return db.Where(datatypes.JSONArrayQuery(field.Column).Contains(cond.Value))
	case OpIn:
		list, ok := cond.Value.([]interface{})
		if !ok || len(list) == 0 {
			return db
		}
		expr := db.Session(&gorm.Session{NewDB: true}).
			Where(datatypes.JSONArrayQuery(field.Column).Contains(list[0]))
		for _, v := range list[1:] {
			expr = expr.Or(datatypes.JSONArrayQuery(field.Column).Contains(v))
		}
		return db.Where(expr)
	}
	return db
}

// ApplyShaping adds projection, sort order and the pagination window.
// Projection is restricted to whitelisted fields with id always retained;
// keep names columns the caller needs regardless of the projection, such
// as foreign keys backing a preload. Absent sort defaults to newest-first.
func (q Query) ApplyShaping(db *gorm.DB, fields Fieldset, keep ...string) *gorm.DB {
	if cols := q.selectColumns(fields, keep); len(cols) > 0 {
		db = db.Select(cols)
	}

	ordered := false
	for _, s := range q.Sort {
		field, ok := fields[s.Field]
		if !ok {
			continue
		}
		dir := " ASC"
		if s.Desc {
			dir = " DESC"
		}
		db = db.Order(field.Column + dir)
		ordered = true
	}
	if !ordered {
		db = db.Order("created_at DESC")
	}

	return db.Offset(q.Skip()).Limit(q.Limit)
}

func (q Query) selectColumns(fields Fieldset, keep []string) []string {
	if len(q.Select) == 0 {
		return nil
	}
	cols := []string{"id"}
	seen := map[string]bool{"id": true}
	for _, c := range keep {
		if !seen[c] {
			cols = append(cols, c)
			seen[c] = true
		}
	}
	for _, f := range q.Select {
		field, ok := fields[f]
		if !ok || seen[field.Column] {
			continue
		}
		cols = append(cols, field.Column)
		seen[field.Column] = true
	}
	return cols
}

// Skip is the number of records before the current window.
func (q Query) Skip() int {
	return (q.Page - 1) * q.Limit
}

// Paginate computes the pagination metadata for a full matching count.
func (q Query) Paginate(total int64) *models.Pagination {
	p := &models.Pagination{}
	if int64(q.Skip()+q.Limit) < total {
		p.Next = &models.PageInfo{Page: q.Page + 1, Limit: q.Limit}
	}
	if q.Skip() > 0 {
		p.Prev = &models.PageInfo{Page: q.Page - 1, Limit: q.Limit}
	}
	if p.Next == nil && p.Prev == nil {
		return nil
	}
	return p
}
