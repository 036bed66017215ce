package policyview

import (
	"bytes"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/capreolina/scroll-strategist/internal/engine"
	"github.com/capreolina/scroll-strategist/internal/scroll"
	"github.com/capreolina/scroll-strategist/internal/stats"
)

func TestRender(t *testing.T) {
	Convey("Given the policy tree for a single-slot, single-scroll request", t, func() {
		req := &engine.Request{
			Slots:   1,
			Stats:   stats.New(106, 9),
			Scrolls: []scroll.Kind{{Percent: 0.6, Dark: false, Cost: 50, Delta: stats.New(2, 1)}},
			Goal:    stats.New(108, 10),
		}
		_, tree, err := engine.EvaluateTree(req)
		So(err, ShouldBeNil)

		Convey("Render produces a well-formed svg containing one hexagon per node", func() {
			var buf bytes.Buffer
			err := Render(&buf, tree)
			So(err, ShouldBeNil)

			out := buf.String()
			So(strings.HasPrefix(out, "<svg"), ShouldBeTrue)
			So(strings.Count(out, "<polygon"), ShouldEqual, 3)
		})

		Convey("Render on a nil tree still produces a valid empty svg", func() {
			var buf bytes.Buffer
			So(Render(&buf, nil), ShouldBeNil)
			So(strings.HasPrefix(buf.String(), "<svg"), ShouldBeTrue)
		})
	})
}
