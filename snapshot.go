package collex

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// FilterCriteria is one filter's serialisable state.
type FilterCriteria struct {
	ID     string   `json:"id"`
	Values []string `json:"values"`
}

// FilterManagerSnapshot is a FilterManager's full serialisable state: every
// registered filter's active values.
type FilterManagerSnapshot struct {
	Filters []FilterCriteria
}

// ToJSON encodes snap as a JSON array of FilterCriteria.
func (snap FilterManagerSnapshot) ToJSON() []byte {
	if snap.Filters == nil {
		snap.Filters = []FilterCriteria{}
	}
	b, _ := json.Marshal(snap.Filters)
	return b
}

// FilterManagerSnapshotFromJSON parses data per the round-trip law: malformed
// or unrecognised input yields the empty snapshot rather than an error
// (restore is always total, never partial-then-error).
func FilterManagerSnapshotFromJSON(data []byte) FilterManagerSnapshot {
	var criteria []FilterCriteria
	if err := json.Unmarshal(data, &criteria); err != nil {
		return FilterManagerSnapshot{}
	}
	return FilterManagerSnapshot{Filters: criteria}
}

// ToQueryString encodes snap as a single `filter=<id1>:v1,v2;<id2>:v3`
// param. Filter order is positional (the order snap.Filters lists them in),
// matching how SortManagerSnapshot and GroupSnapshot encode their own
// single query keys, so registration order survives a round-trip even
// when it isn't alphabetical.
func (snap FilterManagerSnapshot) ToQueryString() string {
	var parts []string
	for _, fc := range snap.Filters {
		if len(fc.Values) == 0 {
			continue
		}
		parts = append(parts, fc.ID+":"+strings.Join(fc.Values, ","))
	}
	if len(parts) == 0 {
		return ""
	}
	values := url.Values{}
	values.Set("filter", strings.Join(parts, ";"))
	return values.Encode()
}

// FilterManagerSnapshotFromQueryString parses a `filter=<id1>:v1,v2;<id2>:v3`
// query string produced by ToQueryString, preserving the encoded order.
// Malformed input yields the empty snapshot.
func FilterManagerSnapshotFromQueryString(qs string) FilterManagerSnapshot {
	values, err := url.ParseQuery(qs)
	if err != nil {
		return FilterManagerSnapshot{}
	}
	raw := values.Get("filter")
	if raw == "" {
		return FilterManagerSnapshot{}
	}
	var snap FilterManagerSnapshot
	for _, entry := range strings.Split(raw, ";") {
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		snap.Filters = append(snap.Filters, FilterCriteria{ID: parts[0], Values: strings.Split(parts[1], ",")})
	}
	return snap
}

// SortCriteria is one sort option's serialisable state.
type SortCriteria struct {
	ID    string `json:"id"`
	Order string `json:"order"`
}

// SortManagerSnapshot is a SortManager's active list, in order.
type SortManagerSnapshot struct {
	Criteria []SortCriteria
}

// ToJSON encodes snap as a JSON array of SortCriteria.
func (snap SortManagerSnapshot) ToJSON() []byte {
	if snap.Criteria == nil {
		snap.Criteria = []SortCriteria{}
	}
	b, _ := json.Marshal(snap.Criteria)
	return b
}

// SortManagerSnapshotFromJSON parses data, yielding the empty snapshot on
// malformed input.
func SortManagerSnapshotFromJSON(data []byte) SortManagerSnapshot {
	var criteria []SortCriteria
	if err := json.Unmarshal(data, &criteria); err != nil {
		return SortManagerSnapshot{}
	}
	return SortManagerSnapshot{Criteria: criteria}
}

// ToQueryString encodes snap as `sort=<id>:asc,<id2>:desc`.
func (snap SortManagerSnapshot) ToQueryString() string {
	if len(snap.Criteria) == 0 {
		return ""
	}
	parts := make([]string, 0, len(snap.Criteria))
	for _, c := range snap.Criteria {
		parts = append(parts, c.ID+":"+c.Order)
	}
	values := url.Values{}
	values.Set("sort", strings.Join(parts, ","))
	return values.Encode()
}

// SortManagerSnapshotFromQueryString parses a `sort=<id>:asc,...` query
// string, yielding the empty snapshot on malformed input.
func SortManagerSnapshotFromQueryString(qs string) SortManagerSnapshot {
	values, err := url.ParseQuery(qs)
	if err != nil {
		return SortManagerSnapshot{}
	}
	raw := values.Get("sort")
	if raw == "" {
		return SortManagerSnapshot{}
	}
	var snap SortManagerSnapshot
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 || parts[0] == "" {
			continue
		}
		order := parts[1]
		if order != "asc" && order != "desc" {
			continue
		}
		snap.Criteria = append(snap.Criteria, SortCriteria{ID: parts[0], Order: order})
	}
	return snap
}

// GroupSnapshot is a GroupManager's serialisable state: which options are
// active, in order, plus every known option's order value.
type GroupSnapshot struct {
	ActiveIDs []string
	Orders    map[string]int
}

type groupSnapshotJSON struct {
	ActiveIDs []string       `json:"activeIds"`
	Orders    map[string]int `json:"orders"`
}

// ToJSON encodes snap in its canonical shape.
func (snap GroupSnapshot) ToJSON() []byte {
	out := groupSnapshotJSON{ActiveIDs: snap.ActiveIDs, Orders: snap.Orders}
	if out.ActiveIDs == nil {
		out.ActiveIDs = []string{}
	}
	if out.Orders == nil {
		out.Orders = map[string]int{}
	}
	b, _ := json.Marshal(out)
	return b
}

// GroupSnapshotFromJSON parses data, yielding the empty snapshot on
// malformed input.
func GroupSnapshotFromJSON(data []byte) GroupSnapshot {
	var parsed groupSnapshotJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		return GroupSnapshot{}
	}
	return GroupSnapshot{ActiveIDs: parsed.ActiveIDs, Orders: parsed.Orders}
}

// ToQueryString encodes snap as `group=<id1>,<id2>,<id3>`; positions define
// orders on restore.
func (snap GroupSnapshot) ToQueryString() string {
	if len(snap.ActiveIDs) == 0 {
		return ""
	}
	values := url.Values{}
	values.Set("group", strings.Join(snap.ActiveIDs, ","))
	return values.Encode()
}

// GroupSnapshotFromQueryString parses a `group=a,b,c` query string,
// reconstructing orders from positions (0-based). Malformed input yields
// the empty snapshot.
func GroupSnapshotFromQueryString(qs string) GroupSnapshot {
	values, err := url.ParseQuery(qs)
	if err != nil {
		return GroupSnapshot{}
	}
	raw := values.Get("group")
	if raw == "" {
		return GroupSnapshot{}
	}
	ids := strings.Split(raw, ",")
	orders := make(map[string]int, len(ids))
	for i, id := range ids {
		orders[id] = i
	}
	return GroupSnapshot{ActiveIDs: ids, Orders: orders}
}

// ToJSON encodes a PaginationSnapshot in its canonical shape.
func (snap PaginationSnapshot) ToJSON() []byte {
	offsets := snap.Offsets
	if offsets == nil {
		offsets = map[string]int{}
	}
	b, _ := json.Marshal(struct {
		Offsets map[string]int `json:"offsets"`
	}{offsets})
	return b
}

// PaginationSnapshotFromJSON parses data, yielding the empty snapshot on
// malformed input.
func PaginationSnapshotFromJSON(data []byte) PaginationSnapshot {
	var parsed struct {
		Offsets map[string]int `json:"offsets"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return PaginationSnapshot{}
	}
	return PaginationSnapshot{Offsets: parsed.Offsets}
}

// ToQueryString encodes a PaginationSnapshot as `page.<id>=<offset>` pairs
// (cursor-based edges were already dropped at capture time).
func (snap PaginationSnapshot) ToQueryString() string {
	values := url.Values{}
	for id, offset := range snap.Offsets {
		values.Set("page."+id, strconv.Itoa(offset))
	}
	return values.Encode()
}

// PaginationSnapshotFromQueryString parses `page.<id>=<offset>` query
// params, yielding the empty snapshot on malformed input. Non-integer
// offsets are skipped individually rather than faulting the whole snapshot.
func PaginationSnapshotFromQueryString(qs string) PaginationSnapshot {
	values, err := url.ParseQuery(qs)
	if err != nil {
		return PaginationSnapshot{}
	}
	offsets := make(map[string]int)
	for key, vs := range values {
		if !strings.HasPrefix(key, "page.") || len(vs) == 0 {
			continue
		}
		n, err := strconv.Atoi(vs[0])
		if err != nil {
			continue
		}
		offsets[strings.TrimPrefix(key, "page.")] = n
	}
	return PaginationSnapshot{Offsets: offsets}
}
