package snapshotdiff

import (
	"strings"
	"testing"

	"github.com/wayneeseguin/collex"
)

func TestCompareDetectsChange(t *testing.T) {
	before := collex.GroupSnapshot{ActiveIDs: []string{"a"}, Orders: map[string]int{"a": 0}}
	after := collex.GroupSnapshot{ActiveIDs: []string{"a", "b"}, Orders: map[string]int{"a": 0, "b": 1}}

	report, err := Compare(before, after)
	if err != nil {
		t.Fatalf("Compare: %s", err)
	}
	if !report.Changed {
		t.Fatal("expected Changed to be true for differing snapshots")
	}
	if !strings.Contains(report.Text, "activeIds") {
		t.Fatalf("expected report to mention the changed field, got: %s", report.Text)
	}
}

func TestCompareNoChange(t *testing.T) {
	snap := collex.GroupSnapshot{ActiveIDs: []string{"a"}, Orders: map[string]int{"a": 0}}

	report, err := Compare(snap, snap)
	if err != nil {
		t.Fatalf("Compare: %s", err)
	}
	if report.Changed {
		t.Fatalf("expected no changes, got report: %s", report.Text)
	}
}
