package collex

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type ticket struct {
	ID       string
	Assignee string
	Labels   []string
}

func ticketKey(t ticket) string { return t.ID }

func assigneeOption() *GroupOption[ticket, string] {
	return NewSingleGroupOption[ticket, string]("assignee", 0, func(item ticket) (string, bool) {
		if item.Assignee == "" {
			return "", false
		}
		return item.Assignee, true
	})
}

func labelsOption() *GroupOption[ticket, string] {
	return NewMultiGroupOption[ticket, string]("labels", 1, func(item ticket) []string { return item.Labels })
}

func TestGroupManager(t *testing.T) {
	Convey("GroupManager", t, func() {
		m := NewGroupManager[ticket]()

		Convey("Add with replace=false refuses to clobber an existing id", func() {
			first := assigneeOption()
			So(m.Add(AsGroupOption(first), false), ShouldBeTrue)
			second := assigneeOption()
			second.SetOrder(99)
			So(m.Add(AsGroupOption(second), false), ShouldBeFalse)
			opt, _ := m.OptionByID("assignee")
			So(opt.Order(), ShouldEqual, 0)
		})

		Convey("Add with replace=true clobbers", func() {
			first := assigneeOption()
			m.Add(AsGroupOption(first), false)
			second := assigneeOption()
			second.SetOrder(99)
			So(m.Add(AsGroupOption(second), true), ShouldBeTrue)
			opt, _ := m.OptionByID("assignee")
			So(opt.Order(), ShouldEqual, 99)
		})

		Convey("Options returns only enabled options, sorted by Order", func() {
			a := assigneeOption()
			l := labelsOption()
			m.Add(AsGroupOption(l), false)
			m.Add(AsGroupOption(a), false)
			opts := m.Options()
			So(opts[0].ID(), ShouldEqual, "assignee")
			So(opts[1].ID(), ShouldEqual, "labels")

			m.SetEnabled("labels", false)
			opts = m.Options()
			So(len(opts), ShouldEqual, 1)
			So(opts[0].ID(), ShouldEqual, "assignee")
		})

		Convey("groupKeysFor: single-valued null key yields no keys (folder-like)", func() {
			a := AsGroupOption(assigneeOption())
			So(a.groupKeysFor(ticket{Assignee: ""}), ShouldBeNil)
			So(a.groupKeysFor(ticket{Assignee: "sam"}), ShouldResemble, []string{"sam"})
		})

		Convey("groupKeysFor: multi-valued fans out every value (tag-like)", func() {
			l := AsGroupOption(labelsOption())
			keys := l.groupKeysFor(ticket{Labels: []string{"bug", "p1"}})
			So(keys, ShouldResemble, []string{"bug", "p1"})
			So(l.groupKeysFor(ticket{Labels: nil}), ShouldBeNil)
		})

		Convey("CaptureState/RestoreState round-trips active ids and orders", func() {
			a := assigneeOption()
			l := labelsOption()
			m.Add(AsGroupOption(a), false)
			m.Add(AsGroupOption(l), false)
			m.SetEnabled("labels", false)

			snap := m.CaptureState()
			So(snap.ActiveIDs, ShouldResemble, []string{"assignee"})
			So(snap.Orders["labels"], ShouldEqual, 1)

			m.RestoreState(GroupSnapshot{ActiveIDs: []string{"labels", "assignee"}})
			opts := m.Options()
			So(opts[0].ID(), ShouldEqual, "labels")
			So(opts[1].ID(), ShouldEqual, "assignee")
		})
	})
}
