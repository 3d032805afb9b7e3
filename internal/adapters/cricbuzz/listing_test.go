package cricbuzz_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/okian/fantasy-cricket/internal/adapters/cricbuzz"
	"github.com/okian/fantasy-cricket/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

const base = "https://www.cricbuzz.com"

func openFixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	if err != nil {
		t.Fatalf("open fixture %s: %v", name, err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestParseMatchList(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given a series matches page", t, func() {
		res, err := cricbuzz.ParseMatchList(openFixture(t, "series.html"), base, now)
		So(err, ShouldBeNil)

		Convey("Entries without a match link are dropped", func() {
			So(res.Dropped, ShouldEqual, 1)
			So(res.Matches, ShouldHaveLength, 3)
		})

		Convey("Fixtures keep page order and split the title on vs", func() {
			m := res.Matches[0]
			So(m.ID, ShouldEqual, "115010")
			So(m.TeamA, ShouldEqual, "Royal Challengers Bengaluru Women")
			So(m.TeamB, ShouldEqual, "Gujarat Giants Women")
			So(m.Venue, ShouldEqual, "Kotambi Stadium, Vadodara")
			So(m.Result, ShouldEqual, "Royal Challengers Bengaluru Women won by 6 wkts")
			So(m.Completed(), ShouldBeTrue)
			So(m.ScorecardURL, ShouldEqual, base+"/cricket-scores/115010/rcbw-vs-gg-1st-match-womens-premier-league-2025")
			So(res.Matches[1].ID, ShouldEqual, "115015")
		})

		Convey("The schedule timestamp is read as epoch milliseconds", func() {
			So(res.Matches[0].StartsAt.Equal(time.UnixMilli(1739541600000)), ShouldBeTrue)
		})

		Convey("A fixture with no timestamp or result gets now and stays incomplete", func() {
			m := res.Matches[2]
			So(m.ID, ShouldEqual, "115099")
			So(m.Title(), ShouldEqual, "TBC vs TBC")
			So(m.StartsAt.Equal(now), ShouldBeTrue)
			So(m.Completed(), ShouldBeFalse)
		})
	})

	Convey("Given a page without any fixtures", t, func() {
		res, err := cricbuzz.ParseMatchList(strings.NewReader("<html><body><p>nothing</p></body></html>"), base, now)
		So(err, ShouldBeNil)
		So(res.Matches, ShouldBeEmpty)
		So(res.Dropped, ShouldEqual, 0)
	})

	Convey("Given an absolute link and a title without a separator", t, func() {
		page := `<div class="cb-series-matches">
			<a class="text-hvr-underline" href="https://example.org/live/777/final">Grand Final</a>
		</div>`
		res, err := cricbuzz.ParseMatchList(strings.NewReader(page), base, now)
		So(err, ShouldBeNil)
		So(res.Matches, ShouldHaveLength, 1)
		So(res.Matches[0].ID, ShouldEqual, "777")
		So(res.Matches[0].TeamA, ShouldEqual, "Grand Final")
		So(res.Matches[0].TeamB, ShouldBeEmpty)
		So(res.Matches[0].ScorecardURL, ShouldEqual, "https://example.org/live/777/final")
	})
}
