// Package legacyyaml reads and writes collex snapshots using yaml.v2, for
// deployments that persisted snapshots before the project's config layer
// moved to yaml.v3 (internal/config uses v3 for everything new; existing
// on-disk snapshot documents authored against v2's looser decoding rules
// still need to load cleanly).
package legacyyaml

import (
	"gopkg.in/yaml.v2"

	"github.com/wayneeseguin/collex"
)

type filterCriteriaYAML struct {
	ID     string   `yaml:"id"`
	Values []string `yaml:"values"`
}

type filterManagerYAML struct {
	Filters []filterCriteriaYAML `yaml:"filters"`
}

// MarshalFilterManagerSnapshot renders snap as a YAML document.
func MarshalFilterManagerSnapshot(snap collex.FilterManagerSnapshot) ([]byte, error) {
	doc := filterManagerYAML{}
	for _, f := range snap.Filters {
		doc.Filters = append(doc.Filters, filterCriteriaYAML{ID: f.ID, Values: f.Values})
	}
	return yaml.Marshal(doc)
}

// UnmarshalFilterManagerSnapshot parses data as a YAML FilterManagerSnapshot
// document, returning the empty snapshot on any parse error (matching the
// never-fault rule collex's JSON/query-string codecs follow).
func UnmarshalFilterManagerSnapshot(data []byte) collex.FilterManagerSnapshot {
	var doc filterManagerYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return collex.FilterManagerSnapshot{}
	}
	snap := collex.FilterManagerSnapshot{}
	for _, f := range doc.Filters {
		snap.Filters = append(snap.Filters, collex.FilterCriteria{ID: f.ID, Values: f.Values})
	}
	return snap
}

type sortCriteriaYAML struct {
	ID    string `yaml:"id"`
	Order string `yaml:"order"`
}

type sortManagerYAML struct {
	Criteria []sortCriteriaYAML `yaml:"criteria"`
}

// MarshalSortManagerSnapshot renders snap as a YAML document.
func MarshalSortManagerSnapshot(snap collex.SortManagerSnapshot) ([]byte, error) {
	doc := sortManagerYAML{}
	for _, c := range snap.Criteria {
		doc.Criteria = append(doc.Criteria, sortCriteriaYAML{ID: c.ID, Order: c.Order})
	}
	return yaml.Marshal(doc)
}

// UnmarshalSortManagerSnapshot parses data as a YAML SortManagerSnapshot
// document, returning the empty snapshot on any parse error.
func UnmarshalSortManagerSnapshot(data []byte) collex.SortManagerSnapshot {
	var doc sortManagerYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return collex.SortManagerSnapshot{}
	}
	snap := collex.SortManagerSnapshot{}
	for _, c := range doc.Criteria {
		snap.Criteria = append(snap.Criteria, collex.SortCriteria{ID: c.ID, Order: c.Order})
	}
	return snap
}

type groupSnapshotYAML struct {
	ActiveIDs []string       `yaml:"activeIds"`
	Orders    map[string]int `yaml:"orders"`
}

// MarshalGroupSnapshot renders snap as a YAML document.
func MarshalGroupSnapshot(snap collex.GroupSnapshot) ([]byte, error) {
	return yaml.Marshal(groupSnapshotYAML{ActiveIDs: snap.ActiveIDs, Orders: snap.Orders})
}

// UnmarshalGroupSnapshot parses data as a YAML GroupSnapshot document,
// returning the empty snapshot on any parse error.
func UnmarshalGroupSnapshot(data []byte) collex.GroupSnapshot {
	var doc groupSnapshotYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return collex.GroupSnapshot{}
	}
	return collex.GroupSnapshot{ActiveIDs: doc.ActiveIDs, Orders: doc.Orders}
}
