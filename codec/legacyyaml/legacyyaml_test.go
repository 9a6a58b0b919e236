package legacyyaml

import (
	"testing"

	"github.com/wayneeseguin/collex"
)

func TestFilterManagerSnapshotRoundTrip(t *testing.T) {
	snap := collex.FilterManagerSnapshot{Filters: []collex.FilterCriteria{
		{ID: "status", Values: []string{"open", "blocked"}},
	}}
	data, err := MarshalFilterManagerSnapshot(snap)
	if err != nil {
		t.Fatalf("Marshal: %s", err)
	}
	out := UnmarshalFilterManagerSnapshot(data)
	if len(out.Filters) != 1 || out.Filters[0].ID != "status" || len(out.Filters[0].Values) != 2 {
		t.Fatalf("unexpected round-trip result: %+v", out)
	}
}

func TestSortManagerSnapshotRoundTrip(t *testing.T) {
	snap := collex.SortManagerSnapshot{Criteria: []collex.SortCriteria{{ID: "score", Order: "desc"}}}
	data, err := MarshalSortManagerSnapshot(snap)
	if err != nil {
		t.Fatalf("Marshal: %s", err)
	}
	out := UnmarshalSortManagerSnapshot(data)
	if len(out.Criteria) != 1 || out.Criteria[0].Order != "desc" {
		t.Fatalf("unexpected round-trip result: %+v", out)
	}
}

func TestGroupSnapshotMalformedYAMLYieldsEmpty(t *testing.T) {
	out := UnmarshalGroupSnapshot([]byte("not: [valid: yaml"))
	if out.ActiveIDs != nil || out.Orders != nil {
		t.Fatalf("expected empty snapshot on malformed YAML, got %+v", out)
	}
}
