package collex

// SlotKind distinguishes the two Slot variants.
type SlotKind int

const (
	SlotGroupHeader SlotKind = iota
	SlotItem
)

// Slot is a single renderable unit in the flattened output: either a
// GroupHeader or an Item.
type Slot[T any, K comparable] struct {
	Kind  SlotKind
	Depth int

	// GroupHeader fields
	GroupID    string
	Label      string
	ItemCount  int
	TotalCount int
	NodeRef    *Node[T, K]

	// Item fields
	Key  K
	Item T
}

// CollapseInfo is the argument passed to CollapseWhere's predicate.
type CollapseInfo struct {
	GroupID    string
	Depth      int
	ItemCount  int
	TotalCount int
}

// SlotManager flattens a CollectionController's projected tree into a
// linear, index-addressable slot sequence suitable for virtualised
// scrolling. It owns collapse state per group node (tracked on the
// Node itself) and reprojects whenever the controller notifies.
type SlotManager[T any, K comparable] struct {
	ChangeEmitter

	controller *CollectionController[T, K]
	unsubUp    func()

	slots []Slot[T, K]
}

// NewSlotManager constructs a SlotManager bound to controller and performs
// an initial flatten.
func NewSlotManager[T any, K comparable](controller *CollectionController[T, K]) *SlotManager[T, K] {
	sm := &SlotManager[T, K]{controller: controller}
	handle := controller.AddListener(func() { sm.reflatten() })
	sm.unsubUp = func() { controller.RemoveListener(handle) }
	sm.reflatten()
	return sm
}

// Dispose unsubscribes from the controller and clears the slot manager's
// own listeners.
func (sm *SlotManager[T, K]) Dispose() {
	if sm.unsubUp != nil {
		sm.unsubUp()
		sm.unsubUp = nil
	}
	sm.ChangeEmitter.Dispose()
}

func (sm *SlotManager[T, K]) reflatten() {
	sm.slots = flattenNode(sm.controller.Root(), 0)
	sm.Notify()
}

// flattenNode implements the canonical order: a GroupHeader for the node
// itself (skipped for the root, which has no GroupID and is never a
// header), then, if expanded, its child headers (and their own subtrees)
// recursively, then its own direct items. Group headers are always emitted
// before the direct items that sit alongside them at the same node — the
// direct-items-last order is what lets a virtualised view expand a child
// header without having to re-walk past already-rendered sibling items. A
// collapsed node contributes only its header. The root's own collapse state
// is ignored, since it has no header to keep visible.
func flattenNode[T any, K comparable](n *Node[T, K], depth int) []Slot[T, K] {
	var out []Slot[T, K]

	isRoot := n.Parent() == nil && n.GroupID() == "" && depth == 0
	if !isRoot {
		out = append(out, Slot[T, K]{
			Kind:       SlotGroupHeader,
			Depth:      depth,
			GroupID:    n.GroupID(),
			Label:      n.Label(),
			ItemCount:  n.Len(),
			TotalCount: n.FlattenedLength(),
			NodeRef:    n,
		})
	}

	if !isRoot && n.CollapseState() == Collapsed {
		return out
	}

	itemDepth := depth
	if !isRoot {
		itemDepth = depth + 1
	}

	childDepth := itemDepth
	for _, child := range n.Children() {
		out = append(out, flattenNode(child, childDepth)...)
	}

	for _, item := range n.Items() {
		out = append(out, Slot[T, K]{
			Kind:  SlotItem,
			Depth: itemDepth,
			Key:   n.keyOf(item),
			Item:  item,
		})
	}

	return out
}

// TotalSlots returns the total number of slots (headers + item
// appearances).
func (sm *SlotManager[T, K]) TotalSlots() int { return len(sm.slots) }

// IsEmpty reports whether there are no slots at all.
func (sm *SlotManager[T, K]) IsEmpty() bool { return len(sm.slots) == 0 }

// IsHeader reports whether the slot at index is a GroupHeader.
func (sm *SlotManager[T, K]) IsHeader(index int) bool {
	if index < 0 || index >= len(sm.slots) {
		return false
	}
	return sm.slots[index].Kind == SlotGroupHeader
}

// GetSlot returns the slot at index, if in range.
func (sm *SlotManager[T, K]) GetSlot(index int) (Slot[T, K], bool) {
	if index < 0 || index >= len(sm.slots) {
		return Slot[T, K]{}, false
	}
	return sm.slots[index], true
}

// UniqueItemCount counts distinct item keys across all appearances
// (multi-grouped items counted once).
func (sm *SlotManager[T, K]) UniqueItemCount() int {
	seen := make(map[K]struct{})
	for _, s := range sm.slots {
		if s.Kind == SlotItem {
			seen[s.Key] = struct{}{}
		}
	}
	return len(seen)
}

// ---- Collapse ----

// ToggleCollapse flips the collapse state of the group node with the given
// group node id (as found via Node.ID on a header's NodeRef) and
// reflattens.
func (sm *SlotManager[T, K]) ToggleCollapse(nodeID string) {
	if n, ok := sm.controller.Root().FindNode(nodeID); ok {
		n.Toggle()
		sm.reflatten()
	}
}

// ExpandAll expands every node in the tree and reflattens.
func (sm *SlotManager[T, K]) ExpandAll() {
	sm.controller.Root().ExpandAll()
	sm.reflatten()
}

// CollapseAll collapses every node in the tree and reflattens.
func (sm *SlotManager[T, K]) CollapseAll() {
	sm.controller.Root().CollapseAll()
	sm.reflatten()
}

// CollapseToLevel collapses every node at depth >= level and expands the
// rest, then reflattens.
func (sm *SlotManager[T, K]) CollapseToLevel(level int) {
	sm.controller.Root().CollapseToLevel(level)
	sm.reflatten()
}

// CollapseWhere applies predicate to every group node's CollapseInfo,
// collapsing it if predicate returns true and expanding it otherwise, then
// reflattens once.
func (sm *SlotManager[T, K]) CollapseWhere(predicate func(info CollapseInfo) bool) {
	var walk func(n *Node[T, K], depth int)
	walk = func(n *Node[T, K], depth int) {
		if n.GroupID() != "" {
			info := CollapseInfo{
				GroupID:    n.GroupID(),
				Depth:      depth,
				ItemCount:  n.Len(),
				TotalCount: n.FlattenedLength(),
			}
			if predicate(info) {
				n.SetCollapse(Collapsed)
			} else {
				n.SetCollapse(Expanded)
			}
		}
		for _, child := range n.Children() {
			walk(child, depth+1)
		}
	}
	walk(sm.controller.Root(), 0)
	sm.reflatten()
}
