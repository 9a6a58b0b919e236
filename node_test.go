package collex

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type widget struct {
	ID   string
	Name string
}

func widgetKey(w widget) string { return w.ID }

func TestNodeItemOperations(t *testing.T) {
	Convey("Node item operations", t, func() {
		n := NewNode[widget, string]("root", widgetKey)

		Convey("Add rejects duplicate keys", func() {
			So(n.Add(widget{ID: "a"}), ShouldBeNil)
			err := n.Add(widget{ID: "a"})
			So(err, ShouldNotBeNil)
			var dup *DuplicateKeyError
			So(errors.As(err, &dup), ShouldBeTrue)
		})

		Convey("Insert shifts later items down", func() {
			So(n.AddAll([]widget{{ID: "a"}, {ID: "b"}, {ID: "c"}}), ShouldBeNil)
			So(n.Insert(1, widget{ID: "x"}), ShouldBeNil)
			ids := make([]string, 0, 4)
			for _, it := range n.Items() {
				ids = append(ids, it.ID)
			}
			So(ids, ShouldResemble, []string{"a", "x", "b", "c"})
		})

		Convey("RemoveByKey preserves relative order", func() {
			So(n.AddAll([]widget{{ID: "a"}, {ID: "b"}, {ID: "c"}}), ShouldBeNil)
			So(n.RemoveByKey("b"), ShouldBeTrue)
			ids := make([]string, 0, 2)
			for _, it := range n.Items() {
				ids = append(ids, it.ID)
			}
			So(ids, ShouldResemble, []string{"a", "c"})
		})

		Convey("AtOrNull is out-of-range safe", func() {
			_, ok := n.AtOrNull(0)
			So(ok, ShouldBeFalse)
			So(n.Add(widget{ID: "a"}), ShouldBeNil)
			w, ok := n.AtOrNull(0)
			So(ok, ShouldBeTrue)
			So(w.ID, ShouldEqual, "a")
		})
	})
}

func TestNodeTreeOperations(t *testing.T) {
	Convey("Node tree operations", t, func() {
		root := NewNode[widget, string]("root", widgetKey)
		child := NewNode[widget, string]("child", widgetKey)

		Convey("AddChild attaches and sets parent", func() {
			So(root.AddChild(child), ShouldBeNil)
			So(child.Parent(), ShouldEqual, root)
			So(root.IsAncestorOf(child), ShouldBeTrue)
		})

		Convey("AddChild rejects cycles", func() {
			So(root.AddChild(child), ShouldBeNil)
			err := child.AddChild(root)
			So(err, ShouldNotBeNil)
			var cyc *CycleDetectedError
			So(errors.As(err, &cyc), ShouldBeTrue)
		})

		Convey("AddChild re-parents a child already attached elsewhere", func() {
			other := NewNode[widget, string]("other", widgetKey)
			So(root.AddChild(child), ShouldBeNil)
			So(other.AddChild(child), ShouldBeNil)
			So(child.Parent(), ShouldEqual, other)
			_, stillThere := root.Child("child")
			So(stillThere, ShouldBeFalse)
		})

		Convey("FindNode searches the whole subtree", func() {
			grandchild := NewNode[widget, string]("grandchild", widgetKey)
			So(root.AddChild(child), ShouldBeNil)
			So(child.AddChild(grandchild), ShouldBeNil)
			found, ok := root.FindNode("grandchild")
			So(ok, ShouldBeTrue)
			So(found, ShouldEqual, grandchild)
		})

		Convey("FlattenedLength counts the whole subtree", func() {
			So(root.AddAll([]widget{{ID: "a"}}), ShouldBeNil)
			So(root.AddChild(child), ShouldBeNil)
			So(child.AddAll([]widget{{ID: "b"}, {ID: "c"}}), ShouldBeNil)
			So(root.FlattenedLength(), ShouldEqual, 3)
		})
	})
}

func TestNodeCollapseStateMachine(t *testing.T) {
	Convey("Node collapse state machine", t, func() {
		root := NewNode[widget, string]("root", widgetKey)
		child := NewNode[widget, string]("child", widgetKey)
		So(root.AddChild(child), ShouldBeNil)
		So(child.AddAll([]widget{{ID: "a"}, {ID: "b"}}), ShouldBeNil)

		Convey("VisibleDescendants skips collapsed subtrees", func() {
			So(len(root.VisibleDescendants()), ShouldEqual, 2)
			child.SetCollapse(Collapsed)
			So(len(root.VisibleDescendants()), ShouldEqual, 0)
		})

		Convey("SetCollapse rejects Mixed", func() {
			child.SetCollapse(Mixed)
			So(child.CollapseState(), ShouldEqual, Expanded)
		})

		Convey("CollapseToLevel collapses everything at or past the level", func() {
			grandchild := NewNode[widget, string]("grandchild", widgetKey)
			So(child.AddChild(grandchild), ShouldBeNil)
			root.CollapseToLevel(1)
			So(root.CollapseState(), ShouldEqual, Expanded)
			So(child.CollapseState(), ShouldEqual, Collapsed)
			So(grandchild.CollapseState(), ShouldEqual, Collapsed)
		})
	})
}

func TestNodeClone(t *testing.T) {
	Convey("Node.Clone", t, func() {
		root := NewNode[widget, string]("root", widgetKey)
		child := NewNode[widget, string]("child", widgetKey)
		So(root.AddChild(child), ShouldBeNil)
		So(child.Add(widget{ID: "a"}), ShouldBeNil)

		Convey("deep clone has independent child pointers", func() {
			clone := root.Clone(true)
			clonedChild, ok := clone.Child("child")
			So(ok, ShouldBeTrue)
			So(clonedChild, ShouldNotEqual, child)
			w, _ := clonedChild.At("a")
			So(w.ID, ShouldEqual, "a")
		})

		Convey("shallow clone shares child pointers", func() {
			clone := root.Clone(false)
			clonedChild, ok := clone.Child("child")
			So(ok, ShouldBeTrue)
			So(clonedChild, ShouldEqual, child)
		})
	})
}

