package collex

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPaginationStateMachine(t *testing.T) {
	Convey("PaginationState state machine", t, func() {
		p := NewPaginationState()

		Convey("StartLoading auto-registers and transitions idle->loading", func() {
			So(p.StartLoading(EdgeTrailing), ShouldBeTrue)
			So(p.IsLoading(EdgeTrailing), ShouldBeTrue)
			So(p.StartLoading(EdgeTrailing), ShouldBeFalse) // already loading
		})

		Convey("Complete with a more-token returns to idle", func() {
			p.AddEdge(EdgeTrailing)
			p.StartLoading(EdgeTrailing)
			tok := OffsetToken(20, nil)
			p.Complete(EdgeTrailing, &tok)
			So(p.IsLoading(EdgeTrailing), ShouldBeFalse)
			So(p.GetToken(EdgeTrailing), ShouldResemble, tok)
		})

		Convey("Complete with no token (or end) exhausts and clears the hint", func() {
			p.AddEdge(EdgeTrailing)
			p.SetHint(EdgeTrailing, true)
			p.StartLoading(EdgeTrailing)
			p.Complete(EdgeTrailing, nil)
			So(p.IsExhausted(EdgeTrailing), ShouldBeTrue)
			So(p.HasHint(EdgeTrailing), ShouldBeFalse)
			So(p.CanLoad(EdgeTrailing), ShouldBeFalse)
		})

		Convey("Fail transitions to error and increments retry_count", func() {
			p.AddEdge(EdgeTrailing)
			p.StartLoading(EdgeTrailing)
			p.Fail(EdgeTrailing, "network timeout")
			So(p.HasError(EdgeTrailing), ShouldBeTrue)
			So(p.GetError(EdgeTrailing), ShouldEqual, "network timeout")
			state, _ := p.GetState(EdgeTrailing)
			So(state.RetryCount, ShouldEqual, 1)
			So(p.CanLoad(EdgeTrailing), ShouldBeTrue) // error implies retry eligible
		})

		Convey("Complete on an edge that isn't loading returns a state mismatch error and is a no-op", func() {
			p.AddEdge(EdgeTrailing)
			tok := OffsetToken(5, nil)
			err := p.Complete(EdgeTrailing, &tok)
			So(err, ShouldNotBeNil)
			mismatch, ok := err.(*PaginationStateMismatchError)
			So(ok, ShouldBeTrue)
			So(mismatch.Expected, ShouldEqual, Loading)
			So(mismatch.Actual, ShouldEqual, Idle)
			So(p.GetToken(EdgeTrailing), ShouldResemble, EmptyToken())
		})

		Convey("Complete with a token kind that conflicts with the edge's committed kind returns an invalid token error", func() {
			p.AddEdge(EdgeTrailing)
			p.StartLoading(EdgeTrailing)
			offsetTok := OffsetToken(5, nil)
			So(p.Complete(EdgeTrailing, &offsetTok), ShouldBeNil)

			p.StartLoading(EdgeTrailing)
			cursorTok := CursorToken("opaque")
			err := p.Complete(EdgeTrailing, &cursorTok)
			So(err, ShouldNotBeNil)
			_, ok := err.(*InvalidTokenError)
			So(ok, ShouldBeTrue)
			So(p.GetToken(EdgeTrailing), ShouldResemble, offsetTok) // state untouched
		})

		Convey("Complete/Fail on an unregistered id is a no-op without notify", func() {
			notified := 0
			p.AddListener(func() { notified++ })
			tok := EndToken()
			p.Complete("ghost", &tok)
			p.Fail("ghost", "boom")
			So(notified, ShouldEqual, 0)
			So(p.IsRegistered("ghost"), ShouldBeFalse)
		})

		Convey("Reset returns to idle with the empty token", func() {
			p.AddEdge(EdgeTrailing)
			p.SetHint(EdgeTrailing, true)
			p.StartLoading(EdgeTrailing)
			p.Fail(EdgeTrailing, "x")
			p.Reset(EdgeTrailing, true)
			So(p.GetToken(EdgeTrailing), ShouldResemble, EmptyToken())
			So(p.HasHint(EdgeTrailing), ShouldBeTrue)

			p.Reset(EdgeTrailing, false)
			So(p.HasHint(EdgeTrailing), ShouldBeFalse)
		})

		Convey("LoadableIDs/HintedIDs/IsAllExhausted/IsAnyLoading aggregate across edges", func() {
			p.AddEdge(EdgeLeading)
			p.AddEdge(EdgeTrailing)
			p.SetHint(EdgeLeading, true)
			So(p.HintedIDs(), ShouldContain, EdgeLeading)
			So(p.IsAllExhausted(), ShouldBeFalse)

			tok := EndToken()
			p.StartLoading(EdgeLeading)
			p.Complete(EdgeLeading, &tok)
			p.StartLoading(EdgeTrailing)
			p.Complete(EdgeTrailing, &tok)
			So(p.IsAllExhausted(), ShouldBeTrue)
			So(p.IsAnyLoading(), ShouldBeFalse)
		})
	})
}

func TestPaginationSnapshot(t *testing.T) {
	Convey("PaginationState.CaptureState/RestoreState", t, func() {
		p := NewPaginationState()
		p.AddEdge(EdgeLeading)
		p.AddEdge(EdgeTrailing)

		offsetTok := OffsetToken(40, nil)
		p.StartLoading(EdgeLeading)
		p.Complete(EdgeLeading, &offsetTok)

		cursorTok := CursorToken("opaque-cursor")
		p.StartLoading(EdgeTrailing)
		p.Complete(EdgeTrailing, &cursorTok)

		Convey("capture only includes offset tokens", func() {
			snap := p.CaptureState()
			So(snap.Offsets, ShouldContainKey, EdgeLeading)
			_, hasCursor := snap.Offsets[EdgeTrailing]
			So(hasCursor, ShouldBeFalse)
		})

		Convey("restore sets mentioned ids to offset(n) and resets the rest to empty", func() {
			snap := PaginationSnapshot{Offsets: map[string]int{EdgeLeading: 7}}
			p.RestoreState(snap)
			So(p.GetToken(EdgeLeading), ShouldResemble, OffsetToken(7, nil))
			So(p.GetToken(EdgeTrailing), ShouldResemble, EmptyToken())
		})

		Convey("JSON round-trips", func() {
			snap := p.CaptureState()
			out := PaginationSnapshotFromJSON(snap.ToJSON())
			So(out, ShouldResemble, snap)
		})

		Convey("query-string round-trips", func() {
			snap := PaginationSnapshot{Offsets: map[string]int{EdgeLeading: 7, EdgeTrailing: 3}}
			out := PaginationSnapshotFromQueryString(snap.ToQueryString())
			So(out, ShouldResemble, snap)
		})

		Convey("malformed JSON yields the empty snapshot, never an error", func() {
			out := PaginationSnapshotFromJSON([]byte("not json"))
			So(out.Offsets, ShouldBeNil)
		})
	})
}
