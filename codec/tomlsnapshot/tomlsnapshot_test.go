package tomlsnapshot

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

func TestGroupSnapshotRoundTrip(t *testing.T) {
	snap := collex.GroupSnapshot{ActiveIDs: []string{"a", "b"}, Orders: map[string]int{"a": 0, "b": 1}}
	data, err := MarshalGroupSnapshot(snap)
	if err != nil {
		t.Fatalf("Marshal: %s", err)
	}
	out := UnmarshalGroupSnapshot(data)
	if len(out.ActiveIDs) != 2 || out.Orders["b"] != 1 {
		t.Fatalf("unexpected round-trip result: %+v", out)
	}
}

func TestSortManagerSnapshotMalformedTOMLYieldsEmpty(t *testing.T) {
	out := UnmarshalSortManagerSnapshot([]byte("not valid [[[ toml"))
	if out.Criteria != nil {
		t.Fatalf("expected empty snapshot on malformed TOML, got %+v", out)
	}
}
