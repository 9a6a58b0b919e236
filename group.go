package collex

import (
	"fmt"
	"sort"
)

// GroupOption is an id, a tie-break order, an enabled flag, a value
// producer (single- or multi-valued), and an optional key builder
// GroupOption<T,V>).
type GroupOption[T any, V any] struct {
	id         string
	order      int
	enabled    bool
	single     func(item T) (V, bool) // bool false => no value, folder-like
	multi      func(item T) []V       // non-nil => tag-like; takes priority over single
	keyBuilder func(v V) (string, bool)
}

// NewSingleGroupOption builds a folder-like GroupOption: each item
// contributes at most one key at this level. valueOf's bool return is false
// when the item doesn't participate at this level (a null key).
func NewSingleGroupOption[T any, V any](id string, order int, valueOf func(item T) (V, bool)) *GroupOption[T, V] {
	return &GroupOption[T, V]{id: id, order: order, enabled: true, single: valueOf}
}

// NewMultiGroupOption builds a tag-like GroupOption: each item may
// contribute any number of keys at this level, appearing once per key.
func NewMultiGroupOption[T any, V any](id string, order int, valuesOf func(item T) []V) *GroupOption[T, V] {
	return &GroupOption[T, V]{id: id, order: order, enabled: true, multi: valuesOf}
}

// ID returns the option's id.
func (o *GroupOption[T, V]) ID() string { return o.id }

// Order returns the option's tie-break order among sibling options.
func (o *GroupOption[T, V]) Order() int { return o.order }

// SetOrder updates the option's order.
func (o *GroupOption[T, V]) SetOrder(order int) { o.order = order }

// Enabled reports whether the option currently participates in grouping.
func (o *GroupOption[T, V]) Enabled() bool { return o.enabled }

// SetEnabled toggles the option.
func (o *GroupOption[T, V]) SetEnabled(enabled bool) { o.enabled = enabled }

// WithKeyBuilder sets an explicit string-key builder for V; without one,
// the default string form (fmt.Sprintf("%v", v)) is used.
func (o *GroupOption[T, V]) WithKeyBuilder(kb func(v V) (string, bool)) *GroupOption[T, V] {
	o.keyBuilder = kb
	return o
}

func (o *GroupOption[T, V]) keyFor(v V) (string, bool) {
	if o.keyBuilder != nil {
		return o.keyBuilder(v)
	}
	return fmt.Sprintf("%v", v), true
}

// groupOptionHandle is the type-erased surface GroupManager stores.
type groupOptionHandle[T any] interface {
	ID() string
	Order() int
	SetOrder(int)
	Enabled() bool
	SetEnabled(bool)
	// groupKeysFor returns the string keys this option produces for item at
	// this level. A null single value, or a multi-valued option with no
	// values, yields nil (folder-like: stay at this level). An empty, non-nil
	// slice results when a key builder rejects every multi value; it is
	// treated the same as nil — collex does not distinguish "option doesn't
	// apply" from "value was null".
	groupKeysFor(item T) []string
}

type groupOptionAdapter[T any, V any] struct {
	*GroupOption[T, V]
}

func (a groupOptionAdapter[T, V]) groupKeysFor(item T) []string {
	if a.multi != nil {
		values := a.multi(item)
		if len(values) == 0 {
			return nil
		}
		keys := make([]string, 0, len(values))
		for _, v := range values {
			if k, ok := a.keyFor(v); ok {
				keys = append(keys, k)
			}
		}
		return keys
	}
	v, ok := a.single(item)
	if !ok {
		return nil
	}
	k, ok := a.keyFor(v)
	if !ok {
		return nil
	}
	return []string{k}
}

// AsGroupOption adapts a concrete GroupOption[T,V] to the manager's
// type-erased surface.
func AsGroupOption[T any, V any](o *GroupOption[T, V]) groupOptionHandle[T] {
	return groupOptionAdapter[T, V]{o}
}

// GroupManager holds an ordered list of grouping criteria, kept sorted by
// each option's Order (stable against insertion order on ties).
type GroupManager[T any] struct {
	ChangeEmitter

	all  []groupOptionHandle[T]
	byID map[string]groupOptionHandle[T]
}

// NewGroupManager constructs an empty GroupManager.
func NewGroupManager[T any]() *GroupManager[T] {
	return &GroupManager[T]{byID: make(map[string]groupOptionHandle[T])}
}

// Add registers option. If an option with the same id already exists and
// replace is false, Add leaves the existing option in place and returns
// false. Otherwise the existing option (if any) is removed, option is
// appended, and Add returns true.
func (m *GroupManager[T]) Add(option groupOptionHandle[T], replace bool) bool {
	if _, exists := m.byID[option.ID()]; exists {
		if !replace {
			return false
		}
		m.all = removeGroupByID(m.all, option.ID())
	}
	m.byID[option.ID()] = option
	m.all = append(m.all, option)
	m.resort()
	m.Notify()
	return true
}

func removeGroupByID[T any](list []groupOptionHandle[T], id string) []groupOptionHandle[T] {
	out := list[:0]
	for _, o := range list {
		if o.ID() != id {
			out = append(out, o)
		}
	}
	return out
}

// Remove deregisters the option with id.
func (m *GroupManager[T]) Remove(id string) {
	if _, exists := m.byID[id]; !exists {
		return
	}
	delete(m.byID, id)
	m.all = removeGroupByID(m.all, id)
	m.Notify()
}

// Clear deregisters every option.
func (m *GroupManager[T]) Clear() {
	m.all = nil
	m.byID = make(map[string]groupOptionHandle[T])
	m.Notify()
}

// Reorder applies a new Order to each named option (ids not present in the
// map are left unchanged), then re-sorts and notifies once.
func (m *GroupManager[T]) Reorder(orders map[string]int) {
	for id, order := range orders {
		if opt, ok := m.byID[id]; ok {
			opt.SetOrder(order)
		}
	}
	m.resort()
	m.Notify()
}

// SetEnabled toggles an option's participation, re-sorting (order among
// enabled options can matter for display) and notifying.
func (m *GroupManager[T]) SetEnabled(id string, enabled bool) {
	opt, ok := m.byID[id]
	if !ok {
		return
	}
	opt.SetEnabled(enabled)
	m.resort()
	m.Notify()
}

func (m *GroupManager[T]) resort() {
	sort.SliceStable(m.all, func(i, j int) bool {
		return m.all[i].Order() < m.all[j].Order()
	})
}

// OptionByID returns the option registered under id, if any.
func (m *GroupManager[T]) OptionByID(id string) (groupOptionHandle[T], bool) {
	opt, ok := m.byID[id]
	return opt, ok
}

// AllOptions returns every registered option, including disabled ones,
// sorted by Order.
func (m *GroupManager[T]) AllOptions() []groupOptionHandle[T] {
	return append([]groupOptionHandle[T]{}, m.all...)
}

// Options returns only the enabled options, sorted by Order.
func (m *GroupManager[T]) Options() []groupOptionHandle[T] {
	var out []groupOptionHandle[T]
	for _, opt := range m.all {
		if opt.Enabled() {
			out = append(out, opt)
		}
	}
	return out
}

// CaptureState returns a GroupSnapshot of the enabled options' ids (in
// order) and every registered option's current Order.
func (m *GroupManager[T]) CaptureState() GroupSnapshot {
	snap := GroupSnapshot{Orders: make(map[string]int, len(m.all))}
	for _, opt := range m.all {
		snap.Orders[opt.ID()] = opt.Order()
		if opt.Enabled() {
			snap.ActiveIDs = append(snap.ActiveIDs, opt.ID())
		}
	}
	return snap
}

// RestoreState enables exactly the options named in snap.ActiveIDs, setting
// each one's Order from snap.Orders when it has an entry there and from its
// position in snap.ActiveIDs otherwise, disables every other registered
// option, and notifies once. Ids not currently registered are skipped.
func (m *GroupManager[T]) RestoreState(snap GroupSnapshot) {
	active := make(map[string]bool, len(snap.ActiveIDs))
	for i, id := range snap.ActiveIDs {
		opt, ok := m.byID[id]
		if !ok {
			continue
		}
		active[id] = true
		if order, ok := snap.Orders[id]; ok {
			opt.SetOrder(order)
		} else {
			opt.SetOrder(i)
		}
		opt.SetEnabled(true)
	}
	for id, opt := range m.byID {
		if !active[id] {
			opt.SetEnabled(false)
		}
	}
	m.resort()
	m.Notify()
}
