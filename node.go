package collex

import "sort"

// Collapse is the tri-state a Node's subtree collapse sits in.
type Collapse int

const (
	// Expanded means the node's children are visible.
	Expanded Collapse = iota
	// Collapsed means the node's children are hidden; only its header and
	// total_count are visible to a SlotManager.
	Collapsed
	// Mixed is derived, never set directly: some descendant groups are
	// collapsed while others (or this node) are expanded.
	Mixed
)

func (c Collapse) String() string {
	switch c {
	case Expanded:
		return "expanded"
	case Collapsed:
		return "collapsed"
	case Mixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// KeyOf extracts the stable identity of an item of type T.
type KeyOf[T any, K comparable] func(item T) K

// Node is the ordered, keyed tree vertex: an ordered mapping
// of items, an ordered mapping of children, a weak (non-owning) parent
// back-reference, and a collapse state.
//
// Node is not safe for concurrent use by multiple goroutines without
// external synchronization — the engine is single-threaded
// cooperative and never locks internally.
type Node[T any, K comparable] struct {
	id     string
	keyOf  KeyOf[T, K]
	parent *Node[T, K]

	itemKeys  []K
	itemIndex map[K]int
	items     map[K]T

	childIDs  []string
	childIdx  map[string]int
	children  map[string]*Node[T, K]

	collapse Collapse

	groupID string
	label   string
}

// NewNode constructs an empty Node with identity id, using keyOf to derive
// item identity (the construction contract).
func NewNode[T any, K comparable](id string, keyOf KeyOf[T, K]) *Node[T, K] {
	return &Node[T, K]{
		id:        id,
		keyOf:     keyOf,
		itemIndex: make(map[K]int),
		items:     make(map[K]T),
		childIdx:  make(map[string]int),
		children:  make(map[string]*Node[T, K]),
		collapse:  Expanded,
	}
}

// ID returns the node's identity.
func (n *Node[T, K]) ID() string { return n.id }

// Parent returns the node's parent, or nil if unattached. The returned
// pointer is a weak (non-owning) reference.
func (n *Node[T, K]) Parent() *Node[T, K] { return n.parent }

// CollapseState returns the node's current collapse state.
func (n *Node[T, K]) CollapseState() Collapse { return n.collapse }

// GroupID returns the id of the GroupOption that produced this node, or ""
// for the projection root (which is never produced by a group option).
func (n *Node[T, K]) GroupID() string { return n.groupID }

// Label returns the node's display label (the group key's string form by
// default).
func (n *Node[T, K]) Label() string { return n.label }

// SetGroupMeta records the GroupOption id and display label that produced
// this node. Called by CollectionController while building the projection;
// exported so adapters constructing trees outside the controller can set it
// too.
func (n *Node[T, K]) SetGroupMeta(groupID, label string) {
	n.groupID = groupID
	n.label = label
}

// ---- Item operations ----

// Add appends item to the end of the node's item list. Fails with
// DuplicateKeyError if the item's key already exists in this node (I1).
func (n *Node[T, K]) Add(item T) error {
	k := n.keyOf(item)
	if _, exists := n.itemIndex[k]; exists {
		return &DuplicateKeyError{NodeID: n.id, Key: k}
	}
	n.itemIndex[k] = len(n.itemKeys)
	n.itemKeys = append(n.itemKeys, k)
	n.items[k] = item
	return nil
}

// AddAll appends each item in order, stopping (and returning) at the first
// DuplicateKeyError.
func (n *Node[T, K]) AddAll(items []T) error {
	for _, item := range items {
		if err := n.Add(item); err != nil {
			return err
		}
	}
	return nil
}

// Insert places item at position index in insertion order, shifting later
// items down. index is clamped to [0, len].
func (n *Node[T, K]) Insert(index int, item T) error {
	k := n.keyOf(item)
	if _, exists := n.itemIndex[k]; exists {
		return &DuplicateKeyError{NodeID: n.id, Key: k}
	}
	if index < 0 {
		index = 0
	}
	if index > len(n.itemKeys) {
		index = len(n.itemKeys)
	}
	n.itemKeys = append(n.itemKeys, k)
	copy(n.itemKeys[index+1:], n.itemKeys[index:])
	n.itemKeys[index] = k
	n.items[k] = item
	n.reindexItems()
	return nil
}

// Remove removes the item with the same key as item, if present.
func (n *Node[T, K]) Remove(item T) bool {
	return n.RemoveByKey(n.keyOf(item))
}

// RemoveByKey removes the item identified by k, if present, preserving the
// relative order of the remaining items.
func (n *Node[T, K]) RemoveByKey(k K) bool {
	idx, exists := n.itemIndex[k]
	if !exists {
		return false
	}
	n.itemKeys = append(n.itemKeys[:idx], n.itemKeys[idx+1:]...)
	delete(n.items, k)
	n.reindexItems()
	return true
}

// ReplaceByKey swaps the item stored under k for item, keeping its position.
// item's own key (via keyOf) must equal k.
func (n *Node[T, K]) ReplaceByKey(k K, item T) error {
	if _, exists := n.itemIndex[k]; !exists {
		return &NotFoundError{What: "item key", ID: k}
	}
	n.items[k] = item
	return nil
}

// Clear removes every item (but not children) from the node.
func (n *Node[T, K]) Clear() {
	n.itemKeys = nil
	n.itemIndex = make(map[K]int)
	n.items = make(map[K]T)
}

func (n *Node[T, K]) reindexItems() {
	n.itemIndex = make(map[K]int, len(n.itemKeys))
	for i, k := range n.itemKeys {
		n.itemIndex[k] = i
	}
}

// ---- Item lookup ----

// At returns the item stored under key k and whether it was present.
func (n *Node[T, K]) At(k K) (T, bool) {
	v, ok := n.items[k]
	return v, ok
}

// AtOrNull returns the item stored at position i in insertion order, or the
// zero value and false if out of range.
func (n *Node[T, K]) AtOrNull(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(n.itemKeys) {
		return zero, false
	}
	return n.items[n.itemKeys[i]], true
}

// IndexOf returns the insertion-order position of item's key, or -1.
func (n *Node[T, K]) IndexOf(item T) int {
	if idx, ok := n.itemIndex[n.keyOf(item)]; ok {
		return idx
	}
	return -1
}

// ContainsKey reports whether k is present among this node's items.
func (n *Node[T, K]) ContainsKey(k K) bool {
	_, ok := n.itemIndex[k]
	return ok
}

// Len returns the number of items directly under this node (not counting
// descendants).
func (n *Node[T, K]) Len() int { return len(n.itemKeys) }

// Items returns the node's items in insertion order. The returned slice is
// a fresh copy; mutating it does not affect the node.
func (n *Node[T, K]) Items() []T {
	out := make([]T, len(n.itemKeys))
	for i, k := range n.itemKeys {
		out[i] = n.items[k]
	}
	return out
}

// ---- Iteration ----

// Descendants yields every node reachable through Children, breadth-first
// by default or depth-first when depthFirst is true. The receiver itself is
// not included.
func (n *Node[T, K]) Descendants(depthFirst bool) []*Node[T, K] {
	var out []*Node[T, K]
	if depthFirst {
		for _, id := range n.childIDs {
			child := n.children[id]
			out = append(out, child)
			out = append(out, child.Descendants(true)...)
		}
		return out
	}

	queue := append([]*Node[T, K]{}, n.childNodesInOrder()...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)
		queue = append(queue, cur.childNodesInOrder()...)
	}
	return out
}

func (n *Node[T, K]) childNodesInOrder() []*Node[T, K] {
	out := make([]*Node[T, K], len(n.childIDs))
	for i, id := range n.childIDs {
		out[i] = n.children[id]
	}
	return out
}

// FlattenedItems yields this node's items followed by the FlattenedItems of
// each child, in child order — a full pre-order traversal ignoring collapse.
func (n *Node[T, K]) FlattenedItems() []T {
	out := n.Items()
	for _, child := range n.childNodesInOrder() {
		out = append(out, child.FlattenedItems()...)
	}
	return out
}

// VisibleDescendants is like FlattenedItems but skips the subtree of any
// collapsed child: a collapsed child contributes none of its own items and
// none of its descendants. The receiver's own items are always included;
// when the receiver itself is collapsed, only those are returned.
func (n *Node[T, K]) VisibleDescendants() []T {
	out := n.Items()
	if n.collapse == Collapsed {
		return out
	}
	for _, child := range n.childNodesInOrder() {
		if child.collapse == Collapsed {
			continue
		}
		out = append(out, child.VisibleDescendants()...)
	}
	return out
}

// FlattenedLength is the total item count across the whole subtree (this
// node and every descendant), O(n) over the tree.
func (n *Node[T, K]) FlattenedLength() int {
	total := len(n.itemKeys)
	for _, child := range n.childNodesInOrder() {
		total += child.FlattenedLength()
	}
	return total
}

// ---- Tree operations ----

// Child returns the direct child with the given id, if any.
func (n *Node[T, K]) Child(id string) (*Node[T, K], bool) {
	c, ok := n.children[id]
	return c, ok
}

// Children returns direct children in insertion order.
func (n *Node[T, K]) Children() []*Node[T, K] {
	return n.childNodesInOrder()
}

// AddChild attaches child under n, rejecting cycles (I3) and duplicate
// child ids (I2). A child already attached elsewhere is first detached
// (moved).
func (n *Node[T, K]) AddChild(child *Node[T, K]) error {
	if child == n || child.IsAncestorOf(n) {
		return &CycleDetectedError{ParentID: n.id, ChildID: child.id}
	}
	if _, exists := n.children[child.id]; exists {
		return &DuplicateKeyError{NodeID: n.id, Key: child.id}
	}

	if child.parent != nil {
		child.parent.detachChild(child.id)
	}

	n.childIdx[child.id] = len(n.childIDs)
	n.childIDs = append(n.childIDs, child.id)
	n.children[child.id] = child
	child.parent = n
	return nil
}

func (n *Node[T, K]) detachChild(id string) {
	idx, ok := n.childIdx[id]
	if !ok {
		return
	}
	n.childIDs = append(n.childIDs[:idx], n.childIDs[idx+1:]...)
	delete(n.children, id)
	delete(n.childIdx, id)
	for i, cid := range n.childIDs {
		n.childIdx[cid] = i
	}
}

// RemoveChild detaches and returns the child with id, if present.
func (n *Node[T, K]) RemoveChild(id string) (*Node[T, K], error) {
	child, ok := n.children[id]
	if !ok {
		return nil, &NotFoundError{What: "child id", ID: id}
	}
	n.detachChild(id)
	child.parent = nil
	return child, nil
}

// MoveTo detaches n from its current parent (if any) and attaches it under
// newParent. Rejects cycles exactly like AddChild.
func (n *Node[T, K]) MoveTo(newParent *Node[T, K]) error {
	return newParent.AddChild(n)
}

// FindNode searches the subtree rooted at n (depth-first, including n
// itself) for a node with the given id.
func (n *Node[T, K]) FindNode(id string) (*Node[T, K], bool) {
	if n.id == id {
		return n, true
	}
	for _, child := range n.childNodesInOrder() {
		if found, ok := child.FindNode(id); ok {
			return found, true
		}
	}
	return nil, false
}

// IsAncestorOf reports whether n is an ancestor of other (strict: n itself
// does not count, use n == other to test identity separately). Implemented
// by walking other's parent chain, which is what keeps AddChild's cycle
// check cheap regardless of subtree size.
func (n *Node[T, K]) IsAncestorOf(other *Node[T, K]) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Height returns the longest path, in edges, from n to a leaf descendant.
// A node with no children has height 0.
func (n *Node[T, K]) Height() int {
	maxChild := -1
	for _, child := range n.childNodesInOrder() {
		if h := child.Height(); h > maxChild {
			maxChild = h
		}
	}
	return maxChild + 1
}

// Sort orders this node's items (not descendants) using cmp, stably.
func (n *Node[T, K]) Sort(cmp func(a, b T) int) {
	sort.SliceStable(n.itemKeys, func(i, j int) bool {
		return cmp(n.items[n.itemKeys[i]], n.items[n.itemKeys[j]]) < 0
	})
}

// ---- Cloning ----

// Clone produces an isomorphic copy of the subtree rooted at n, with fresh
// node identity sharing (node ids are preserved, but *Node[T,K] pointers are
// new). When deep is true (the default collex callers should use — see
// DESIGN.md), every descendant is copied too. When deep is false, the clone
// shares the same child *Node[T,K] pointers as the original (children are
// NOT copied) but gets its own independent items map. Either way, item
// values themselves are never deep-copied (items are handles, not owned
// data).
func (n *Node[T, K]) Clone(deep bool) *Node[T, K] {
	clone := NewNode[T, K](n.id, n.keyOf)
	clone.collapse = n.collapse
	clone.itemKeys = append([]K{}, n.itemKeys...)
	for k, v := range n.items {
		clone.items[k] = v
	}
	for k, idx := range n.itemIndex {
		clone.itemIndex[k] = idx
	}

	if !deep {
		for _, id := range n.childIDs {
			child := n.children[id]
			clone.childIDs = append(clone.childIDs, id)
			clone.childIdx[id] = len(clone.childIDs) - 1
			clone.children[id] = child
		}
		return clone
	}

	for _, id := range n.childIDs {
		childClone := n.children[id].Clone(true)
		if err := clone.AddChild(childClone); err != nil {
			// Unreachable: childClone is freshly built and never attached
			// elsewhere, so AddChild cannot fail here.
			panic(err)
		}
	}
	return clone
}

// ---- Collapse state machine ----

// Toggle flips Expanded<->Collapsed. Toggling a Mixed node collapses it.
func (n *Node[T, K]) Toggle() {
	if n.collapse == Collapsed {
		n.collapse = Expanded
	} else {
		n.collapse = Collapsed
	}
}

// SetCollapse forces the node's own collapse state. Passing Mixed is
// rejected silently (a no-op) since Mixed is derived, never set directly.
func (n *Node[T, K]) SetCollapse(state Collapse) {
	if state == Mixed {
		return
	}
	n.collapse = state
}

// ExpandAll recursively sets this node and every descendant to Expanded.
func (n *Node[T, K]) ExpandAll() {
	n.collapse = Expanded
	for _, child := range n.childNodesInOrder() {
		child.ExpandAll()
	}
}

// CollapseAll recursively sets this node and every descendant to Collapsed.
func (n *Node[T, K]) CollapseAll() {
	n.collapse = Collapsed
	for _, child := range n.childNodesInOrder() {
		child.CollapseAll()
	}
}

// CollapseToLevel collapses every node whose depth (n itself is depth 0)
// is >= level, and expands the rest.
func (n *Node[T, K]) CollapseToLevel(level int) {
	n.collapseToLevel(level, 0)
}

func (n *Node[T, K]) collapseToLevel(level, depth int) {
	if depth >= level {
		n.collapse = Collapsed
	} else {
		n.collapse = Expanded
	}
	for _, child := range n.childNodesInOrder() {
		child.collapseToLevel(level, depth+1)
	}
}
