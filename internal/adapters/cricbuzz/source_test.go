package cricbuzz_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/fantasy-cricket/internal/adapters/cricbuzz"
	. "github.com/smartystreets/goconvey/convey"
)

var errNotFound = errors.New("not found")

type fakeGetter struct {
	pages map[string]string
	calls []string
}

func (f *fakeGetter) Get(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	body, ok := f.pages[url]
	if !ok {
		return "", errNotFound
	}
	return body, nil
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return string(b)
}

func TestSource(t *testing.T) {
	Convey("Given a source over canned pages", t, func() {
		const root = "http://cricbuzz.test"
		series := root + "/series/1/matches"
		g := &fakeGetter{pages: map[string]string{
			series: readFixture(t, "series.html"),
			root + "/api/html/cricket-scorecard/115015":            readFixture(t, "scorecard.html"),
			root + "/cricket-scores/115015":                        readFixture(t, "match.html"),
			root + "/player-match-highlights/115015/1/201/bowling": readFixture(t, "highlights.html"),
		}}
		now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		src := cricbuzz.NewSource(g,
			cricbuzz.WithBaseURL(root+"/"),
			cricbuzz.WithSeriesURL(series),
			cricbuzz.WithClock(func() time.Time { return now }),
		)
		ctx := context.Background()

		Convey("Matches reads the series page with absolute scorecard links", func() {
			ms, err := src.Matches(ctx)
			So(err, ShouldBeNil)
			So(ms, ShouldHaveLength, 3)
			So(ms[1].ScorecardURL, ShouldEqual, root+"/cricket-scores/115015/dcw-vs-miw-2nd-match")
			So(ms[2].StartsAt.Equal(now), ShouldBeTrue)
		})

		Convey("Scorecard fetches the scorecard endpoint for the match", func() {
			sc, resolver, err := src.Scorecard(ctx, "115015")
			So(err, ShouldBeNil)
			So(sc.Batting, ShouldHaveLength, 8)
			So(resolver.Len(), ShouldBeGreaterThan, 0)
		})

		Convey("PlayerOfMatch reads the match page", func() {
			award, err := src.PlayerOfMatch(ctx, "115015")
			So(err, ShouldBeNil)
			So(award.PlayerID, ShouldEqual, "201")
		})

		Convey("DotBalls reads the bowler's commentary for one innings", func() {
			dots, err := src.DotBalls(ctx, "115015", 1, "201")
			So(err, ShouldBeNil)
			So(dots, ShouldEqual, 3)
		})

		Convey("Fetch errors are returned unchanged", func() {
			_, _, err := src.Scorecard(ctx, "404")
			So(errors.Is(err, errNotFound), ShouldBeTrue)
			_, err = src.PlayerOfMatch(ctx, "404")
			So(errors.Is(err, errNotFound), ShouldBeTrue)
		})
	})
}
