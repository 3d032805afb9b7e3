package report_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/fantasy-cricket/internal/domain/model"
	"github.com/okian/fantasy-cricket/internal/domain/types"
	"github.com/okian/fantasy-cricket/internal/report"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingWriter struct {
	got [][]model.PlayerPoints
	err error
}

func (w *recordingWriter) UpsertPoints(_ context.Context, rows []model.PlayerPoints) error {
	if w.err != nil {
		return w.err
	}
	w.got = append(w.got, rows)
	return nil
}

func sample() []model.PlayerPoints {
	return []model.PlayerPoints{
		{MatchID: "1", Player: "Meg Lanning", Team: "DC", Batting: 40},
		{MatchID: "1", Player: "Extras", Team: "DC", Batting: 4},
		{MatchID: "1", Player: "Jess Jones", Team: "DC", Bowling: 120, POTM: 50},
		{MatchID: "1", Player: "", Team: "DC"},
		{MatchID: "1", Player: "Amelia Kerr", Team: "MI", Bowling: 40},
		{MatchID: "1", Player: "total", Team: "MI", Batting: 101},
	}
}

func TestFilter(t *testing.T) {
	Convey("Given rows that include scorecard labels", t, func() {
		got := report.Filter(sample())

		Convey("Labels and nameless rows are dropped and order is kept", func() {
			So(got, ShouldHaveLength, 3)
			So(got[0].Player, ShouldEqual, "Meg Lanning")
			So(got[1].Player, ShouldEqual, "Jess Jones")
			So(got[2].Player, ShouldEqual, "Amelia Kerr")
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given filtered rows", t, func() {
		entries := report.Rank(report.Filter(sample()))

		Convey("They are ordered by total with name as tie-break", func() {
			So(entries, ShouldHaveLength, 3)
			So(entries[0].Player, ShouldEqual, "Jess Jones")
			So(entries[0].Total, ShouldEqual, 170)
			So(entries[0].Rank, ShouldEqual, 1)
			So(entries[1].Player, ShouldEqual, "Amelia Kerr")
			So(entries[2].Player, ShouldEqual, "Meg Lanning")
			So(entries[2].Rank, ShouldEqual, 3)
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given ranked entries", t, func() {
		entries := report.Rank(report.Filter(sample()))

		Convey("The table has a title, a header and one line per player", func() {
			var buf bytes.Buffer
			So(report.Render(&buf, "DC vs MI", entries), ShouldBeNil)
			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			So(lines, ShouldHaveLength, 5)
			So(lines[0], ShouldEqual, "DC vs MI")
			So(lines[1], ShouldContainSubstring, "Player")
			So(lines[2], ShouldContainSubstring, "Jess Jones")
			So(lines[2], ShouldContainSubstring, "170")
		})

		Convey("JSON output decodes back to the same entries", func() {
			var buf bytes.Buffer
			So(report.RenderJSON(&buf, entries), ShouldBeNil)
			var back []types.Entry
			So(jsoniter.Unmarshal(buf.Bytes(), &back), ShouldBeNil)
			So(back, ShouldResemble, entries)
		})

		Convey("An empty JSON report is an empty array", func() {
			var buf bytes.Buffer
			So(report.RenderJSON(&buf, nil), ShouldBeNil)
			So(strings.TrimSpace(buf.String()), ShouldEqual, "[]")
		})
	})
}

func TestExport(t *testing.T) {
	Convey("Given a store writer", t, func() {
		w := &recordingWriter{}

		Convey("Only filtered rows are written, unsorted", func() {
			n, err := report.Export(context.Background(), w, sample())
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 3)
			So(w.got, ShouldHaveLength, 1)
			So(w.got[0][0].Player, ShouldEqual, "Meg Lanning")
		})

		Convey("Nothing to write makes no call", func() {
			n, err := report.Export(context.Background(), w, []model.PlayerPoints{{Player: "Extras"}})
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 0)
			So(w.got, ShouldBeEmpty)
		})

		Convey("Store errors are returned", func() {
			boom := errors.New("disk full")
			w.err = boom
			_, err := report.Export(context.Background(), w, sample())
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})
}
