package collex

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestChangeEmitter(t *testing.T) {
	Convey("ChangeEmitter", t, func() {
		e := &ChangeEmitter{}

		Convey("notifies listeners in registration order", func() {
			var order []int
			e.AddListener(func() { order = append(order, 1) })
			e.AddListener(func() { order = append(order, 2) })
			So(e.Notify(), ShouldBeNil)
			So(order, ShouldResemble, []int{1, 2})
		})

		Convey("RemoveListener is a no-op for an unknown handle", func() {
			handle := e.AddListener(func() {})
			e.RemoveListener(handle)
			var stray ListenerFunc = func() {}
			e.RemoveListener(&stray)
			So(e.ListenerCount(), ShouldEqual, 0)
		})

		Convey("a listener can add/remove listeners during Notify", func() {
			calls := 0
			var second *ListenerFunc
			first := e.AddListener(func() {
				calls++
				e.RemoveListener(second)
			})
			second = e.AddListener(func() { calls++ })
			So(e.Notify(), ShouldBeNil)
			So(calls, ShouldEqual, 2) // the snapshot already included `second`
			_ = first
		})

		Convey("a panicking listener doesn't block subsequent listeners", func() {
			ran := false
			e.AddListener(func() { panic("boom") })
			e.AddListener(func() { ran = true })
			err := e.Notify()
			So(err, ShouldNotBeNil)
			So(ran, ShouldBeTrue)
		})

		Convey("multiple panicking listeners aggregate into a MultiError", func() {
			e.AddListener(func() { panic("one") })
			e.AddListener(func() { panic("two") })
			err := e.Notify()
			var multi *MultiError
			So(err, ShouldHaveSameTypeAs, multi)
			So(len(err.(*MultiError).Errors), ShouldEqual, 2)
		})

		Convey("Dispose clears listeners and makes Notify a no-op", func() {
			e.AddListener(func() { t.Fatal("should not run after Dispose") })
			e.Dispose()
			So(e.Notify(), ShouldBeNil)
		})
	})
}
