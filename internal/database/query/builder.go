// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

// Package query builds parameterized Postgres WHERE clauses.
package query

import (
	"strconv"
	"strings"
)

// WhereBuilder constructs WHERE clauses with numbered ($1, $2, ...)
// placeholders. Clauses are written with "?" and renumbered as they are
// added, so callers never count arguments by hand.
//
//	wb := query.NewWhereBuilder()
//	wb.AddClause("is_active = ?", true)
//	wb.AddClause("(title ILIKE ? OR company ILIKE ?)", p, p)
//	where, args := wb.BuildWithPrefix()
//	// WHERE is_active = $1 AND (title ILIKE $2 OR company ILIKE $3)
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates an empty builder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// AddClause appends a condition. Each "?" in clause consumes one arg.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	var b strings.Builder
	next := 0
	for i := 0; i < len(clause); i++ {
		if clause[i] == '?' && next < len(args) {
			wb.args = append(wb.args, args[next])
			next++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(len(wb.args)))
			continue
		}
		b.WriteByte(clause[i])
	}
	wb.clauses = append(wb.clauses, b.String())
	return wb
}

// AddContains adds a case-insensitive substring match across columns,
// OR-ed together. Empty terms are skipped.
func (wb *WhereBuilder) AddContains(term string, columns ...string) *WhereBuilder {
	if term == "" || len(columns) == 0 {
		return wb
	}
	pattern := "%" + EscapeLike(term) + "%"
	parts := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE ?"
		args[i] = pattern
	}
	clause := strings.Join(parts, " OR ")
	if len(parts) > 1 {
		clause = "(" + clause + ")"
	}
	return wb.AddClause(clause, args...)
}

// Arg registers a value outside the WHERE clause (LIMIT, OFFSET) and
// returns its placeholder.
func (wb *WhereBuilder) Arg(v interface{}) string {
	wb.args = append(wb.args, v)
	return "$" + strconv.Itoa(len(wb.args))
}

// Build returns the clause without the WHERE keyword, "TRUE" when empty.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "TRUE", wb.args
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the clause with a leading "WHERE ".
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	where, args := wb.Build()
	return "WHERE " + where, args
}

// Count returns the number of clauses.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty reports whether no clauses were added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// EscapeLike escapes LIKE metacharacters using the default backslash escape.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
