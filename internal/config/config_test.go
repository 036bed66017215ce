package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "request.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writeTemp: %v", err)
	}
	return path
}

const scenarioBYaml = `
slots: 1
stats: [106, 9]
goal: [108, 10]
scrolls:
  - percent: 60
    dark: false
    cost: 50
    delta: [2, 1]
`

func TestLoad_ScenarioB(t *testing.T) {
	Convey("Given a YAML document for scenario B", t, func() {
		path := writeTemp(t, scenarioBYaml)

		Convey("Load produces a request carrying the scenario's slots, arity, probability and cost", func() {
			req, err := Load(path)
			So(err, ShouldBeNil)
			So(req.Slots, ShouldEqual, 1)
			So(req.Stats.Len(), ShouldEqual, 2)
			So(req.Scrolls[0].Percent, ShouldEqual, 0.6)
			So(req.Scrolls[0].Cost, ShouldEqual, 50)
		})
	})
}

func TestLoad_PercentAlreadyProbability(t *testing.T) {
	Convey("Given a scroll whose percent is already expressed as a probability", t, func() {
		doc := &Document{
			Slots: 1,
			Stats: []int64{1, 1},
			Goal:  []int64{2, 2},
			Scrolls: []ScrollDocument{
				{Percent: 0.6, Dark: false, Cost: "50", Delta: []int64{1, 1}},
			},
		}

		Convey("FromDocument leaves it unscaled", func() {
			req, err := FromDocument(doc)
			So(err, ShouldBeNil)
			So(req.Scrolls[0].Percent, ShouldEqual, 0.6)
		})
	})
}

func TestLoad_InfCost(t *testing.T) {
	Convey("Given a scroll with an infinite cost token", t, func() {
		doc := &Document{
			Slots: 1,
			Stats: []int64{1, 1},
			Goal:  []int64{2, 2},
			Scrolls: []ScrollDocument{
				{Percent: 50, Dark: false, Cost: ".inf", Delta: []int64{1, 1}},
			},
		}

		Convey("FromDocument parses it as +Inf, not an error", func() {
			req, err := FromDocument(doc)
			So(err, ShouldBeNil)
			So(math.IsInf(req.Scrolls[0].Cost, 1), ShouldBeTrue)
		})
	})
}

func TestLoad_ValidationRejections(t *testing.T) {
	Convey("Given documents that violate request invariants", t, func() {
		Convey("Mismatched stats/goal arity is rejected", func() {
			doc := &Document{
				Slots:   1,
				Stats:   []int64{1, 1},
				Goal:    []int64{2, 2, 2},
				Scrolls: []ScrollDocument{{Percent: 50, Cost: "1", Delta: []int64{1, 1}}},
			}
			_, err := FromDocument(doc)
			So(err, ShouldNotBeNil)
		})

		Convey("Negative slots is rejected", func() {
			doc := &Document{
				Slots:   -3,
				Stats:   []int64{1, 1},
				Goal:    []int64{2, 2},
				Scrolls: []ScrollDocument{{Percent: 50, Cost: "1", Delta: []int64{1, 1}}},
			}
			_, err := FromDocument(doc)
			So(err, ShouldNotBeNil)
		})

		Convey("Out-of-range percent is rejected", func() {
			doc := &Document{
				Slots:   1,
				Stats:   []int64{1, 1},
				Goal:    []int64{2, 2},
				Scrolls: []ScrollDocument{{Percent: 150, Cost: "1", Delta: []int64{1, 1}}},
			}
			_, err := FromDocument(doc)
			So(err, ShouldNotBeNil)
		})

		Convey("Empty catalog is rejected", func() {
			doc := &Document{
				Slots: 1,
				Stats: []int64{1, 1},
				Goal:  []int64{2, 2},
			}
			_, err := FromDocument(doc)
			So(err, ShouldNotBeNil)
		})
	})
}
