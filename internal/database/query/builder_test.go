// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package query

import (
	"reflect"
	"testing"
)

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder()
	where, args := wb.Build()
	if where != "TRUE" {
		t.Errorf("Build() = %q, want TRUE", where)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
	if !wb.IsEmpty() {
		t.Error("IsEmpty() should be true")
	}
}

func TestWhereBuilder_Numbering(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddClause("is_active = ?", true)
	wb.AddContains("go", "title", "company")
	wb.AddContains("berlin", "location")
	limit := wb.Arg(50)

	where, args := wb.BuildWithPrefix()
	wantWhere := "WHERE is_active = $1 AND (title ILIKE $2 OR company ILIKE $3) AND location ILIKE $4"
	if where != wantWhere {
		t.Errorf("BuildWithPrefix() = %q\nwant %q", where, wantWhere)
	}
	if limit != "$5" {
		t.Errorf("Arg() = %q, want $5", limit)
	}
	wantArgs := []interface{}{true, "%go%", "%go%", "%berlin%", 50}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}
	if wb.Count() != 3 {
		t.Errorf("Count() = %d, want 3", wb.Count())
	}
}

func TestWhereBuilder_AddContainsSkipsEmpty(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddContains("", "title")
	if !wb.IsEmpty() {
		t.Error("empty term should not add a clause")
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"plain":    "plain",
		"100%":     `100\%`,
		"snake_ca": `snake\_ca`,
		`back\`:    `back\\`,
	}
	for in, want := range tests {
		if got := EscapeLike(in); got != want {
			t.Errorf("EscapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
