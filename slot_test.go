package collex

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func newGroupedTicketFixture() (*CollectionController[ticket, string], *SlotManager[ticket, string]) {
	c := newTicketController()
	gm := NewGroupManager[ticket]()
	gm.Add(AsGroupOption(assigneeOption()), false)
	c.UseGroup(gm)
	c.AddAll([]ticket{
		{ID: "1", Assignee: "sam"},
		{ID: "2", Assignee: "lee"},
		{ID: "3", Assignee: "sam"},
	})
	return c, NewSlotManager(c)
}

func TestSlotManagerFlattening(t *testing.T) {
	Convey("SlotManager flattening", t, func() {
		_, sm := newGroupedTicketFixture()

		Convey("emits a header before each group's items, pre-order", func() {
			So(sm.TotalSlots(), ShouldEqual, 5) // 2 headers + 3 items
			So(sm.IsHeader(0), ShouldBeTrue)
			slot0, _ := sm.GetSlot(0)
			So(slot0.GroupID, ShouldEqual, "assignee")
		})

		Convey("UniqueItemCount counts distinct keys", func() {
			So(sm.UniqueItemCount(), ShouldEqual, 3)
		})

		Convey("ToggleCollapse on a group header hides its items but keeps the header", func() {
			slot0, _ := sm.GetSlot(0)
			before := sm.TotalSlots()
			sm.ToggleCollapse(slot0.NodeRef.ID())
			after := sm.TotalSlots()
			So(after, ShouldBeLessThan, before)
			So(sm.IsHeader(0), ShouldBeTrue) // header still present
		})

		Convey("CollapseAll leaves only headers", func() {
			sm.CollapseAll()
			for i := 0; i < sm.TotalSlots(); i++ {
				So(sm.IsHeader(i), ShouldBeTrue)
			}
		})

		Convey("ExpandAll after CollapseAll restores all slots", func() {
			total := sm.TotalSlots()
			sm.CollapseAll()
			sm.ExpandAll()
			So(sm.TotalSlots(), ShouldEqual, total)
		})

		Convey("CollapseWhere collapses groups matching the predicate", func() {
			sm.CollapseWhere(func(info CollapseInfo) bool { return info.ItemCount >= 2 })
			slot0, _ := sm.GetSlot(0)
			if slot0.ItemCount >= 2 {
				// immediately followed by another header, not an item
				slot1, _ := sm.GetSlot(1)
				So(slot1.Kind, ShouldEqual, SlotGroupHeader)
			}
		})

		Convey("reflattens on upstream controller changes", func() {
			before := sm.TotalSlots()
			c, sm2 := newGroupedTicketFixture()
			So(sm2.TotalSlots(), ShouldEqual, before)
			c.Add(ticket{ID: "4", Assignee: "lee"})
			So(sm2.TotalSlots(), ShouldEqual, before+1)
		})

		Convey("GetSlot/IsHeader are out-of-range safe", func() {
			_, ok := sm.GetSlot(-1)
			So(ok, ShouldBeFalse)
			_, ok = sm.GetSlot(1000)
			So(ok, ShouldBeFalse)
			So(sm.IsHeader(1000), ShouldBeFalse)
		})
	})
}

func TestSlotManagerDispose(t *testing.T) {
	Convey("Dispose stops reflattening on upstream changes", t, func() {
		c, sm := newGroupedTicketFixture()
		before := sm.TotalSlots()
		sm.Dispose()
		c.Add(ticket{ID: "99", Assignee: "sam"})
		So(sm.TotalSlots(), ShouldEqual, before)
	})
}
