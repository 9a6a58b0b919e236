package collex

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSelectionManager(t *testing.T) {
	Convey("SelectionManager", t, func() {
		m := NewSelectionManager()

		Convey("Select toggles membership within a scope", func() {
			m.Select("a", "", true)
			So(m.IsSelected("a", ""), ShouldBeTrue)
			m.Select("a", "", false)
			So(m.IsSelected("a", ""), ShouldBeFalse)
		})

		Convey("scopes are independent", func() {
			m.Select("a", "left", true)
			So(m.IsSelected("a", "right"), ShouldBeFalse)
			So(m.IsSelected("a", "left"), ShouldBeTrue)
		})

		Convey("StateOf returns yes/no/mixed", func() {
			m.SelectAll([]interface{}{"a", "b"}, "")
			So(m.StateOf([]interface{}{"a", "b"}, ""), ShouldEqual, Yes)
			So(m.StateOf([]interface{}{"a", "c"}, ""), ShouldEqual, MixedState)
			So(m.StateOf([]interface{}{"x"}, ""), ShouldEqual, No)
			So(m.StateOf(nil, ""), ShouldEqual, No)
		})

		Convey("ClearAll only clears the named scope", func() {
			m.Select("a", "s1", true)
			m.Select("b", "s2", true)
			m.ClearAll("s1")
			So(m.IsSelected("a", "s1"), ShouldBeFalse)
			So(m.IsSelected("b", "s2"), ShouldBeTrue)
		})

		Convey("Count/CountIn reflect registered scope sizes", func() {
			m.SelectAll([]interface{}{"a", "b", "c"}, "")
			So(m.Count(), ShouldEqual, 3)
			m.Select("x", "other", true)
			So(m.CountIn("other"), ShouldEqual, 1)
		})

		Convey("mutators notify exactly once per call", func() {
			notified := 0
			m.AddListener(func() { notified++ })
			m.SelectAll([]interface{}{"a", "b"}, "")
			So(notified, ShouldEqual, 1)
		})
	})
}
