// Package tomlsnapshot reads and writes collex snapshots as TOML, for
// deployments whose configuration pipeline is TOML-based end to end
// (internal/config only speaks YAML; this package lets snapshots alone be
// embedded in a TOML config file without pulling the rest of config into
// TOML).
package tomlsnapshot

import (
	"bytes"

	"github.com/BurntSushi/toml"

	"github.com/wayneeseguin/collex"
)

type filterCriteriaTOML struct {
	ID     string   `toml:"id"`
	Values []string `toml:"values"`
}

type filterManagerTOML struct {
	Filters []filterCriteriaTOML `toml:"filters"`
}

// MarshalFilterManagerSnapshot renders snap as a TOML document.
func MarshalFilterManagerSnapshot(snap collex.FilterManagerSnapshot) ([]byte, error) {
	doc := filterManagerTOML{}
	for _, f := range snap.Filters {
		doc.Filters = append(doc.Filters, filterCriteriaTOML{ID: f.ID, Values: f.Values})
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalFilterManagerSnapshot parses data as a TOML FilterManagerSnapshot
// document, returning the empty snapshot on any parse error.
func UnmarshalFilterManagerSnapshot(data []byte) collex.FilterManagerSnapshot {
	var doc filterManagerTOML
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return collex.FilterManagerSnapshot{}
	}
	snap := collex.FilterManagerSnapshot{}
	for _, f := range doc.Filters {
		snap.Filters = append(snap.Filters, collex.FilterCriteria{ID: f.ID, Values: f.Values})
	}
	return snap
}

type sortCriteriaTOML struct {
	ID    string `toml:"id"`
	Order string `toml:"order"`
}

type sortManagerTOML struct {
	Criteria []sortCriteriaTOML `toml:"criteria"`
}

// MarshalSortManagerSnapshot renders snap as a TOML document.
func MarshalSortManagerSnapshot(snap collex.SortManagerSnapshot) ([]byte, error) {
	doc := sortManagerTOML{}
	for _, c := range snap.Criteria {
		doc.Criteria = append(doc.Criteria, sortCriteriaTOML{ID: c.ID, Order: c.Order})
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalSortManagerSnapshot parses data as a TOML SortManagerSnapshot
// document, returning the empty snapshot on any parse error.
func UnmarshalSortManagerSnapshot(data []byte) collex.SortManagerSnapshot {
	var doc sortManagerTOML
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return collex.SortManagerSnapshot{}
	}
	snap := collex.SortManagerSnapshot{}
	for _, c := range doc.Criteria {
		snap.Criteria = append(snap.Criteria, collex.SortCriteria{ID: c.ID, Order: c.Order})
	}
	return snap
}

type groupSnapshotTOML struct {
	ActiveIDs []string       `toml:"activeIds"`
	Orders    map[string]int `toml:"orders"`
}

// MarshalGroupSnapshot renders snap as a TOML document.
func MarshalGroupSnapshot(snap collex.GroupSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	doc := groupSnapshotTOML{ActiveIDs: snap.ActiveIDs, Orders: snap.Orders}
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGroupSnapshot parses data as a TOML GroupSnapshot document,
// returning the empty snapshot on any parse error.
func UnmarshalGroupSnapshot(data []byte) collex.GroupSnapshot {
	var doc groupSnapshotTOML
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return collex.GroupSnapshot{}
	}
	return collex.GroupSnapshot{ActiveIDs: doc.ActiveIDs, Orders: doc.Orders}
}
