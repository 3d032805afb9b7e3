package model_test

import (
	"testing"

	model "github.com/okian/fantasy-cricket/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestMatch(t *testing.T) {
	convey.Convey("Given a listed match", t, func() {
		m := model.Match{ID: "115010", TeamA: "Mumbai Indians Women", TeamB: "Delhi Capitals Women"}

		convey.Convey("Then it renders its title with the vs separator", func() {
			convey.So(m.Title(), convey.ShouldEqual, "Mumbai Indians Women vs Delhi Capitals Women")
		})

		convey.Convey("When it has no result", func() {
			convey.So(m.Completed(), convey.ShouldBeFalse)
		})

		convey.Convey("When the result is still pending", func() {
			m.Result = "Result Pending"
			convey.So(m.Completed(), convey.ShouldBeFalse)
		})

		convey.Convey("When a result is present", func() {
			m.Result = "Mumbai Indians Women won by 8 runs"
			convey.So(m.Completed(), convey.ShouldBeTrue)
		})
	})
}

func TestPlayerPoints(t *testing.T) {
	convey.Convey("Given a points row", t, func() {
		p := model.PlayerPoints{Batting: 85, Bowling: 120, Fielding: 10, POTM: 50}

		convey.Convey("Then the total is the sum of the components", func() {
			convey.So(p.Total(), convey.ShouldEqual, 265)
		})
	})

	convey.Convey("Given a zero points row", t, func() {
		convey.So(model.PlayerPoints{}.Total(), convey.ShouldEqual, 0)
	})
}

func TestScorecard(t *testing.T) {
	convey.Convey("Given an empty scorecard", t, func() {
		sc := &model.Scorecard{MatchID: "1"}
		convey.So(sc.Empty(), convey.ShouldBeTrue)
		convey.So(sc.Team(0), convey.ShouldEqual, "")

		convey.Convey("When a batting row is added", func() {
			sc.Teams = []string{"A", "B"}
			sc.Batting = append(sc.Batting, model.BattingRow{Name: "X"})
			convey.So(sc.Empty(), convey.ShouldBeFalse)
			convey.So(sc.Team(1), convey.ShouldEqual, "B")
			convey.So(sc.Team(2), convey.ShouldEqual, "")
		})
	})
}
