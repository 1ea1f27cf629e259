// Package models tests for model invariants.
package models

import "testing"

// TestTagTargetValid verifies the link-XOR-note invariant check.
func TestTagTargetValid(t *testing.T) {
	tests := []struct {
		name   string
		target TagTarget
		want   bool
	}{
		{"link only", LinkTarget("abc"), true},
		{"note only", NoteTarget("def"), true},
		{"both set", TagTarget{LinkID: "abc", NoteID: "def"}, false},
		{"neither set", TagTarget{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.target.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestTableNames pins the table names the SQL layer depends on.
func TestTableNames(t *testing.T) {
	if got := (Link{}).TableName(); got != "link" {
		t.Errorf("Link table = %q", got)
	}
	if got := (Note{}).TableName(); got != "note" {
		t.Errorf("Note table = %q", got)
	}
	if got := (Tag{}).TableName(); got != "tag" {
		t.Errorf("Tag table = %q", got)
	}
	if got := (Relation{}).TableName(); got != "related_link" {
		t.Errorf("Relation table = %q", got)
	}
}
