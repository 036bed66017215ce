package batch

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/capreolina/scroll-strategist/internal/engine"
	"github.com/capreolina/scroll-strategist/internal/scroll"
	"github.com/capreolina/scroll-strategist/internal/stats"
)

func req(slots int, cur, goal []int64, percent float64) *engine.Request {
	return &engine.Request{
		Slots: slots,
		Stats: stats.New(cur...),
		Scrolls: []scroll.Kind{
			{Percent: percent, Dark: false, Cost: 50, Delta: stats.New(2, 1)},
		},
		Goal: stats.New(goal...),
	}
}

func TestRun_PreservesOrder(t *testing.T) {
	Convey("Given several independent requests", t, func() {
		requests := []*engine.Request{
			req(5, []int64{108, 10}, []int64{108, 10}, 0.6), // already at goal
			req(1, []int64{106, 9}, []int64{108, 10}, 0.6),  // scenario B
			req(1, []int64{100, 3}, []int64{108, 10}, 0.6),  // infeasible
		}

		Convey("Results line up with their submitting index, not completion order", func() {
			results, err := Run(context.Background(), requests, nil)
			So(err, ShouldBeNil)
			So(len(results), ShouldEqual, 3)
			So(results[0].PGoal, ShouldEqual, 1)
			So(results[1].PGoal, ShouldEqual, 0.6)
			So(results[2].PGoal, ShouldEqual, 0)
		})

		Convey("Progress reports one entry per request", func() {
			progress := make(chan Progress, len(requests))
			_, err := Run(context.Background(), requests, progress)
			So(err, ShouldBeNil)

			seen := map[int]bool{}
			for p := range progress {
				So(p.Err, ShouldBeNil)
				seen[p.Index] = true
			}
			So(len(seen), ShouldEqual, 3)
		})
	})
}

func TestRun_IsolatesMemoPerRequest(t *testing.T) {
	Convey("Given two requests that would collide if they shared a memo key", t, func() {
		a := req(1, []int64{106, 9}, []int64{108, 10}, 0.6)
		b := req(1, []int64{106, 9}, []int64{108, 10}, 0.9)

		Convey("Each evaluates against its own catalog, independent of the other", func() {
			results, err := Run(context.Background(), []*engine.Request{a, b}, nil)
			So(err, ShouldBeNil)
			So(results[0].PGoal, ShouldNotEqual, results[1].PGoal)
		})
	})
}
