package collex

import "sort"

// SortDirection is the direction a SortOption compares in.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// SortOption is an id, a key extractor, a direction, and a comparator on
// the extracted key type V.
type SortOption[T any, V any] struct {
	id        string
	sortKey   func(item T) (V, bool) // bool is false for a null/absent key
	less      func(a, b V) bool
	direction SortDirection
}

// NewSortOption constructs a SortOption. less must implement V's natural
// strict order; sortKey's second return value is false when the item has
// no value for this key (treated as null — see Compare).
func NewSortOption[T any, V any](id string, sortKey func(item T) (V, bool), less func(a, b V) bool) *SortOption[T, V] {
	return &SortOption[T, V]{id: id, sortKey: sortKey, less: less, direction: Ascending}
}

// ID returns the option's id.
func (o *SortOption[T, V]) ID() string { return o.id }

// Direction returns the option's current direction.
func (o *SortOption[T, V]) Direction() SortDirection { return o.direction }

// SetDirection sets the option's direction.
func (o *SortOption[T, V]) SetDirection(dir SortDirection) { o.direction = dir }

// compareTyped compares a and b using this option's key, direction, and
// null-last rule ("null sorts LAST regardless of direction").
func (o *SortOption[T, V]) compareTyped(a, b T) int {
	av, aok := o.sortKey(a)
	bv, bok := o.sortKey(b)

	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1 // a (null) sorts after b
	case !bok:
		return -1 // b (null) sorts after a
	}

	var cmp int
	switch {
	case o.less(av, bv):
		cmp = -1
	case o.less(bv, av):
		cmp = 1
	default:
		cmp = 0
	}

	if o.direction == Descending {
		cmp = -cmp
	}
	return cmp
}

// sortOptionHandle is the type-erased surface SortManager stores, since a
// manager holds options over heterogeneous V (same rationale as
// FilterManager's BoolFilter[T]).
type sortOptionHandle[T any] interface {
	ID() string
	compare(a, b T) int
}

type sortOptionAdapter[T any, V any] struct {
	*SortOption[T, V]
}

func (a sortOptionAdapter[T, V]) compare(x, y T) int { return a.compareTyped(x, y) }

// AsSortOption adapts a concrete SortOption[T,V] to the manager's
// type-erased surface.
func AsSortOption[T any, V any](o *SortOption[T, V]) sortOptionHandle[T] {
	return sortOptionAdapter[T, V]{o}
}

// SortManager holds an ordered, active list of sort options; Compare walks
// them in order, first non-equal comparison wins, with insertion order as
// the final implicit tie-break (stable sort requirement).
type SortManager[T any] struct {
	ChangeEmitter

	options []sortOptionHandle[T]
	active  []sortOptionHandle[T]
	byID    map[string]sortOptionHandle[T]
}

// NewSortManager constructs an empty SortManager.
func NewSortManager[T any]() *SortManager[T] {
	return &SortManager[T]{byID: make(map[string]sortOptionHandle[T])}
}

// Add registers option, appending it to both the known and active lists.
func (m *SortManager[T]) Add(option sortOptionHandle[T]) {
	m.byID[option.ID()] = option
	m.options = append(m.options, option)
	m.active = append(m.active, option)
	m.Notify()
}

// AddAll registers every option in options, notifying once.
func (m *SortManager[T]) AddAll(options []sortOptionHandle[T]) {
	for _, o := range options {
		m.byID[o.ID()] = o
		m.options = append(m.options, o)
		m.active = append(m.active, o)
	}
	m.Notify()
}

// Remove deregisters the option with id, removing it from the active list
// too if present.
func (m *SortManager[T]) Remove(id string) {
	if _, exists := m.byID[id]; !exists {
		return
	}
	delete(m.byID, id)
	m.options = removeByID(m.options, id)
	m.active = removeByID(m.active, id)
	m.Notify()
}

func removeByID[T any](list []sortOptionHandle[T], id string) []sortOptionHandle[T] {
	out := list[:0]
	for _, o := range list {
		if o.ID() != id {
			out = append(out, o)
		}
	}
	return out
}

// ClearSorts empties the active sort list (options remain registered and
// retrievable, but Compare becomes a no-op total order — everything compares
// equal, so the manager's own insertion order of items is preserved by a
// stable sort).
func (m *SortManager[T]) ClearSorts() {
	m.active = nil
	m.Notify()
}

// SetCurrent makes id the sole active sort option.
func (m *SortManager[T]) SetCurrent(id string) {
	opt, ok := m.byID[id]
	if !ok {
		return
	}
	m.active = []sortOptionHandle[T]{opt}
	m.Notify()
}

// SetSortOrder applies dir to the current (first active) option.
func (m *SortManager[T]) SetSortOrder(dir SortDirection) {
	if len(m.active) == 0 {
		return
	}
	if setter, ok := m.active[0].(interface{ SetDirection(SortDirection) }); ok {
		setter.SetDirection(dir)
	}
	m.Notify()
}

// Current returns the id of the first active sort option, or "" if none.
func (m *SortManager[T]) Current() string {
	if len(m.active) == 0 {
		return ""
	}
	return m.active[0].ID()
}

// Compare implements the manager's total order: walk active options in
// order, return the first non-zero comparison.
func (m *SortManager[T]) Compare(a, b T) int {
	for _, opt := range m.active {
		if c := opt.compare(a, b); c != 0 {
			return c
		}
	}
	return 0
}

// StableSort sorts items using Compare, preserving the relative order of
// elements that compare equal.
func (m *SortManager[T]) StableSort(items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return m.Compare(items[i], items[j]) < 0
	})
}

type directional interface {
	Direction() SortDirection
	SetDirection(SortDirection)
}

// CaptureState returns a SortManagerSnapshot of every active option, in
// order, with its current direction.
func (m *SortManager[T]) CaptureState() SortManagerSnapshot {
	snap := SortManagerSnapshot{}
	for _, opt := range m.active {
		order := "asc"
		if d, ok := opt.(directional); ok && d.Direction() == Descending {
			order = "desc"
		}
		snap.Criteria = append(snap.Criteria, SortCriteria{ID: opt.ID(), Order: order})
	}
	return snap
}

// RestoreState makes snap's criteria the active list, in order, applying
// each one's direction to any registered option with a matching id.
// Criteria naming unregistered ids are skipped. Notifies once.
func (m *SortManager[T]) RestoreState(snap SortManagerSnapshot) {
	var active []sortOptionHandle[T]
	for _, c := range snap.Criteria {
		opt, ok := m.byID[c.ID]
		if !ok {
			continue
		}
		if d, ok := opt.(directional); ok {
			dir := Ascending
			if c.Order == "desc" {
				dir = Descending
			}
			d.SetDirection(dir)
		}
		active = append(active, opt)
	}
	m.active = active
	m.Notify()
}
