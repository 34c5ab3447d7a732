// Package store is the SQLite-backed persistence engine (C5): schema
// and CRUD operations are derived from Go struct tags by reflection
// rather than hand-written per-entity mapping functions, per the
// "reflection-driven persistence" design note — one field-tag walker
// serves every table instead of a generated function pair per entity.
package store

import (
	"database/sql"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// field describes one mapped struct field: its column name, SQL type,
// whether it is the table's primary key, and whether it is an
// optional (pointer) column that may be NULL.
type field struct {
	column   string
	index    int
	sqlType  string
	pk       bool
	optional bool
}

// tableSpec is the reflected shape of one entity type.
type tableSpec struct {
	name   string
	typ    reflect.Type
	fields []field
	pk     *field
}

// specCache avoids re-walking the same struct type's tags on every
// call; reflection itself is cheap but repeated string parsing is not
// worth paying per row.
var specCache = map[reflect.Type]*tableSpec{}

// db struct tag format: `db:"column_name"` or `db:"column_name,pk"`.
// A field with no `db` tag is skipped — it is not part of the mapped
// row (e.g. a Go-only convenience field).
func specFor(table string, v any) *tableSpec {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if spec, ok := specCache[t]; ok {
		return spec
	}

	spec := &tableSpec{name: table, typ: t}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		parts := strings.Split(tag, ",")
		f := field{
			column:   parts[0],
			index:    i,
			sqlType:  sqlType(sf.Type),
			optional: sf.Type.Kind() == reflect.Pointer,
		}
		for _, opt := range parts[1:] {
			if opt == "pk" {
				f.pk = true
			}
		}
		spec.fields = append(spec.fields, f)
		if f.pk {
			pk := f
			spec.pk = &pk
		}
	}

	specCache[t] = spec
	return spec
}

// sqlType maps a Go field type to its SQL column type per §4.5:
// integral -> INTEGER, float -> REAL, bool -> INTEGER (0|1),
// string/enum -> TEXT, time.Time -> TEXT, Optional[T] (pointer) ->
// the inner type's mapping, nullable.
func sqlType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t == reflect.TypeOf(time.Time{}):
		return "TEXT"
	case t.Kind() == reflect.Bool:
		return "INTEGER"
	case t.Kind() == reflect.String:
		return "TEXT"
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		return "REAL"
	default:
		return "INTEGER"
	}
}

// CreateTable emits and executes `CREATE TABLE IF NOT EXISTS` for the
// reflected shape of v, named table.
func CreateTable(db *sql.DB, table string, v any) error {
	spec := specFor(table, v)

	var cols []string
	for _, f := range spec.fields {
		col := f.column + " " + f.sqlType
		if f.pk {
			col += " PRIMARY KEY"
		}
		cols = append(cols, col)
	}

	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(cols, ", "))
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("bad_message: create table %s: %w", table, err)
	}
	return nil
}

// encodeValue converts one Go field value to its SQL literal
// representation per §4.5's reflection mapping, escaping single quotes
// by doubling them. NULL is emitted for a nil Optional[T].
func encodeValue(rv reflect.Value) string {
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "NULL"
		}
		return encodeValue(rv.Elem())
	}

	switch v := rv.Interface().(type) {
	case time.Time:
		if v.IsZero() {
			return "NULL"
		}
		return "'" + v.UTC().Format("2006-01-02T15:04:05Z") + "'"
	case bool:
		if v {
			return "1"
		}
		return "0"
	case string:
		return "'" + escapeQuotes(v) + "'"
	}

	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.String:
		return "'" + escapeQuotes(rv.String()) + "'"
	default:
		return fmt.Sprintf("'%v'", rv.Interface())
	}
}

// escapeQuotes doubles single-quote characters, the SQL string escape
// used by the INSERT builder per §4.5.
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Store inserts v into table and returns the last-insert row id, for
// use as the foreign key of dependent rows (body -> planet_details,
// system -> bodies, etc., per §4.5's insert semantics). If the
// entity's own primary key is not an autoincrement integer (e.g.
// mission_id), it is still included explicitly in the VALUES list.
func Store(db *sql.DB, table string, v any) (int64, error) {
	spec := specFor(table, v)
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}

	var cols, vals []string
	for _, f := range spec.fields {
		cols = append(cols, f.column)
		vals = append(vals, encodeValue(rv.Field(f.index)))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(vals, ", "))
	res, err := db.Exec(query)
	if err != nil {
		return 0, fmt.Errorf("bad_message: insert into %s: %w", table, err)
	}
	return res.LastInsertId()
}

// UpdatePK updates every mapped column of v in table, keyed by the
// table's primary key column and the given pk value.
func UpdatePK(db *sql.DB, table string, pkColumn string, pk any, v any) error {
	spec := specFor(table, v)
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}

	var sets []string
	for _, f := range spec.fields {
		if f.column == pkColumn {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = %s", f.column, encodeValue(rv.Field(f.index))))
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s", table, strings.Join(sets, ", "), pkColumn, encodeValue(reflect.ValueOf(pk)))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("bad_message: update %s: %w", table, err)
	}
	return nil
}

// SelectWhere runs `SELECT <mapped columns> FROM table WHERE clause`
// and scans every row into a freshly allocated T, returning the slice.
// clause may be empty, meaning no WHERE filter.
func SelectWhere[T any](db *sql.DB, table string, clause string, args ...any) ([]T, error) {
	var zero T
	spec := specFor(table, zero)

	cols := make([]string, len(spec.fields))
	for i, f := range spec.fields {
		cols[i] = f.column
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), table)
	if clause != "" {
		query += " WHERE " + clause
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("bad_message: select from %s: %w", table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var item T
		rv := reflect.ValueOf(&item).Elem()

		dest := make([]any, len(spec.fields))
		for i, f := range spec.fields {
			dest[i] = scanTarget(rv.Field(f.index))
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("bad_message: scan %s row: %w", table, err)
		}
		for i, f := range spec.fields {
			assignScanned(rv.Field(f.index), dest[i])
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// scanTarget returns a pointer suitable for sql.Rows.Scan for the
// given destination field, routing nullable/pointer fields through a
// generic nullable holder.
func scanTarget(fv reflect.Value) any {
	if fv.Kind() == reflect.Pointer {
		return new(any)
	}
	switch fv.Interface().(type) {
	case time.Time:
		return new(any)
	}
	return fv.Addr().Interface()
}

// assignScanned copies a scanned value back into a struct field for
// the cases scanTarget routed through a generic holder (pointers and
// time.Time, which SQLite returns as TEXT).
func assignScanned(fv reflect.Value, scanned any) {
	holder, ok := scanned.(*any)
	if !ok {
		return // already scanned directly into fv's address
	}
	raw := *holder

	if fv.Kind() == reflect.Pointer {
		if raw == nil {
			fv.Set(reflect.Zero(fv.Type()))
			return
		}
		inner := reflect.New(fv.Type().Elem())
		setScalar(inner.Elem(), raw)
		fv.Set(inner)
		return
	}

	setScalar(fv, raw)
}

func setScalar(fv reflect.Value, raw any) {
	if _, isTime := fv.Interface().(time.Time); isTime {
		s, _ := raw.(string)
		t, err := time.Parse("2006-01-02T15:04:05Z", s)
		if err == nil {
			fv.Set(reflect.ValueOf(t))
		}
		return
	}

	switch fv.Kind() {
	case reflect.Bool:
		switch r := raw.(type) {
		case int64:
			fv.SetBool(r != 0)
		case bool:
			fv.SetBool(r)
		}
	case reflect.String:
		switch r := raw.(type) {
		case string:
			fv.SetString(r)
		case []byte:
			fv.SetString(string(r))
		}
	case reflect.Float32, reflect.Float64:
		switch r := raw.(type) {
		case float64:
			fv.SetFloat(r)
		case int64:
			fv.SetFloat(float64(r))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if r, ok := raw.(int64); ok {
			fv.SetInt(r)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if r, ok := raw.(int64); ok {
			fv.SetUint(uint64(r))
		}
	}
}

// SelectScalar runs query and returns the single scalar value of its
// first row/column, or ok=false if the result set was empty.
func SelectScalar(db *sql.DB, query string, args ...any) (any, bool, error) {
	row := db.QueryRow(query, args...)
	var v any
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("bad_message: select_scalar: %w", err)
	}
	return v, true, nil
}
