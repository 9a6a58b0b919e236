package collex

// CollectionController owns the source items and rebuilds a projected
// Node[T,K] tree whenever any input changes. Filter, sort, group,
// and selection are all optional; a controller with none attached simply
// projects its source items, insertion-ordered, into a single root node.
type CollectionController[T any, K comparable] struct {
	ChangeEmitter

	keyOf KeyOf[T, K]

	itemKeys []K
	itemMap  map[K]T

	filter    *FilterManager[T]
	sort      *SortManager[T]
	group     *GroupManager[T]
	selection *SelectionManager

	root *Node[T, K]

	unsubscribe []func()
}

// NewCollectionController constructs a controller with no items and no
// attached managers. Attach managers with UseFilter/UseSort/UseGroup/
// UseSelection before or after adding items; either order triggers a
// rebuild.
func NewCollectionController[T any, K comparable](keyOf KeyOf[T, K]) *CollectionController[T, K] {
	c := &CollectionController[T, K]{
		keyOf:   keyOf,
		itemMap: make(map[K]T),
	}
	c.root = NewNode[T, K]("root", keyOf)
	return c
}

// UseFilter attaches mgr (replacing any previously attached filter manager)
// and rebuilds. Passing nil detaches filtering entirely.
func (c *CollectionController[T, K]) UseFilter(mgr *FilterManager[T]) {
	c.filter = mgr
	if mgr != nil {
		c.subscribeTo(mgr)
	}
	c.mustRebuild()
}

// UseSort attaches mgr and rebuilds. Passing nil detaches sorting.
func (c *CollectionController[T, K]) UseSort(mgr *SortManager[T]) {
	c.sort = mgr
	if mgr != nil {
		c.subscribeTo(mgr)
	}
	c.mustRebuild()
}

// UseGroup attaches mgr and rebuilds. Passing nil detaches grouping.
func (c *CollectionController[T, K]) UseGroup(mgr *GroupManager[T]) {
	c.group = mgr
	if mgr != nil {
		c.subscribeTo(mgr)
	}
	c.mustRebuild()
}

// UseSelection attaches mgr. Selection does not affect the projection
// shape, so no rebuild is triggered; the controller simply exposes it via
// Selection() for convenience.
func (c *CollectionController[T, K]) UseSelection(mgr *SelectionManager) {
	c.selection = mgr
}

// emitterLike is satisfied by every manager's embedded ChangeEmitter.
type emitterLike interface {
	AddListener(ListenerFunc) *ListenerFunc
	RemoveListener(*ListenerFunc)
}

func (c *CollectionController[T, K]) subscribeTo(mgr emitterLike) {
	if mgr == nil {
		return
	}
	handle := mgr.AddListener(func() { c.mustRebuild() })
	c.unsubscribe = append(c.unsubscribe, func() { mgr.RemoveListener(handle) })
}

// Selection returns the attached SelectionManager, or nil.
func (c *CollectionController[T, K]) Selection() *SelectionManager { return c.selection }

// Root returns the current projected tree. Callers must treat it as
// read-only.
func (c *CollectionController[T, K]) Root() *Node[T, K] { return c.root }

// Items returns the source items in insertion order (unfiltered,
// unsorted, ungrouped).
func (c *CollectionController[T, K]) Items() []T {
	out := make([]T, len(c.itemKeys))
	for i, k := range c.itemKeys {
		out[i] = c.itemMap[k]
	}
	return out
}

// Length returns the projected, flattened item count (filtered, counting
// every group appearance), excluding headers.
func (c *CollectionController[T, K]) Length() int {
	return c.root.FlattenedLength()
}

// At returns the source item stored under k, if present (unaffected by
// filtering).
func (c *CollectionController[T, K]) At(k K) (T, bool) {
	v, ok := c.itemMap[k]
	return v, ok
}

// Add appends item to the source and rebuilds the projection. If item's
// key already exists in the source, it replaces the existing value in
// place (source items are a keyed mapping) rather than erroring —
// duplicate-key rejection is Node's concern, not the source's.
func (c *CollectionController[T, K]) Add(item T) error {
	k := c.keyOf(item)
	if _, exists := c.itemMap[k]; !exists {
		c.itemKeys = append(c.itemKeys, k)
	}
	c.itemMap[k] = item
	return c.rebuild()
}

// AddAll adds every item in order, rebuilding once at the end.
func (c *CollectionController[T, K]) AddAll(items []T) error {
	for _, item := range items {
		k := c.keyOf(item)
		if _, exists := c.itemMap[k]; !exists {
			c.itemKeys = append(c.itemKeys, k)
		}
		c.itemMap[k] = item
	}
	return c.rebuild()
}

// Remove removes the source item under k, rebuilding the projection.
func (c *CollectionController[T, K]) Remove(k K) error {
	if _, exists := c.itemMap[k]; !exists {
		return c.rebuild()
	}
	delete(c.itemMap, k)
	for i, existing := range c.itemKeys {
		if existing == k {
			c.itemKeys = append(c.itemKeys[:i], c.itemKeys[i+1:]...)
			break
		}
	}
	return c.rebuild()
}

// Replace swaps the source item under k for item (item's own key must
// equal k), rebuilding the projection.
func (c *CollectionController[T, K]) Replace(k K, item T) error {
	if _, exists := c.itemMap[k]; !exists {
		return &NotFoundError{What: "item key", ID: k}
	}
	c.itemMap[k] = item
	return c.rebuild()
}

// Clear empties the source and rebuilds.
func (c *CollectionController[T, K]) Clear() error {
	c.itemKeys = nil
	c.itemMap = make(map[K]T)
	return c.rebuild()
}

// Refresh explicitly recomputes the projection without any source change —
// useful when a user callback's external inputs changed in a way the
// engine can't observe.
func (c *CollectionController[T, K]) Refresh() error {
	return c.rebuild()
}

// Dispose unsubscribes from every attached manager and clears the
// controller's own listeners. Attached managers are not themselves
// disposed (it does not dispose externally-provided managers).
func (c *CollectionController[T, K]) Dispose() {
	for _, unsub := range c.unsubscribe {
		unsub()
	}
	c.unsubscribe = nil
	c.ChangeEmitter.Dispose()
}

func (c *CollectionController[T, K]) mustRebuild() {
	// Managers notify the controller on their own mutations; a user
	// callback fault here would leave the controller's tree in its prior
	// state (rebuild's own contract) — there is no caller to propagate an
	// error to from inside a listener callback, so it is swallowed here
	// the same way faults raised inside a listener are handled: they
	// must not abort other listeners, and the controller already isn't one
	// of "other listeners" to itself.
	_ = c.rebuild()
}

// rebuild implements the rebuild algorithm precisely: filter, stable sort,
// group, then swap the new root into place atomically from observers'
// perspective, notifying once. A fault (e.g. a DuplicateKeyError surfaced
// by the grouping step because two items share a key within one group
// node) propagates to the caller and leaves the prior projection in place,
// without notifying.
func (c *CollectionController[T, K]) rebuild() error {
	working := c.Items()

	if c.filter != nil {
		kept := working[:0:0]
		for _, item := range working {
			if c.filter.Apply(item) {
				kept = append(kept, item)
			}
		}
		working = kept
	}

	if c.sort != nil {
		c.sort.StableSort(working)
	}

	newRoot := NewNode[T, K]("root", c.keyOf)

	if c.group != nil {
		if opts := c.group.Options(); len(opts) > 0 {
			if err := buildGroupLevel(newRoot, working, opts, c.keyOf); err != nil {
				return err
			}
			c.root = newRoot
			c.Notify()
			return nil
		}
	}

	if err := newRoot.AddAll(working); err != nil {
		return err
	}
	c.root = newRoot
	c.Notify()
	return nil
}

// buildGroupLevel recursively places items into the tree rooted at parent
// per the remaining group options starting at options[0]. A null key keeps
// the item directly under parent (folder-like); a multi-valued key fans
// the item out into every matching sibling (tag-like), recursing
// independently per branch with the same item order — which is what keeps
// every appearance of a multi-grouped item consistent with the single
// upstream sort pass (multi-grouping must preserve sort stability).
func buildGroupLevel[T any, K comparable](parent *Node[T, K], items []T, options []groupOptionHandle[T], keyOf KeyOf[T, K]) error {
	if len(options) == 0 {
		return parent.AddAll(items)
	}

	opt := options[0]

	var direct []T
	var order []string
	buckets := make(map[string][]T)
	childOf := make(map[string]*Node[T, K])

	for _, item := range items {
		keys := opt.groupKeysFor(item)
		if len(keys) == 0 {
			direct = append(direct, item)
			continue
		}
		for _, key := range keys {
			if _, seen := buckets[key]; !seen {
				order = append(order, key)
				childID := parent.ID() + "/" + opt.ID() + "=" + key
				child := NewNode[T, K](childID, keyOf)
				child.SetGroupMeta(opt.ID(), key)
				childOf[key] = child
			}
			buckets[key] = append(buckets[key], item)
		}
	}

	if err := parent.AddAll(direct); err != nil {
		return err
	}

	for _, key := range order {
		child := childOf[key]
		if err := parent.AddChild(child); err != nil {
			return err
		}
		if err := buildGroupLevel(child, buckets[key], options[1:], keyOf); err != nil {
			return err
		}
	}

	return nil
}
