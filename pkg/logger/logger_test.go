package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("When initialized with an unknown format", func() {
			So(Init(WithFormat("xml")), ShouldNotBeNil)
		})

		Convey("When initialized with an unknown level", func() {
			So(Init(WithLevel("loud")), ShouldNotBeNil)
		})
	})
}

func TestOutput(t *testing.T) {
	ctx := context.Background()

	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat(FormatJSON), WithOutput(&buf)), ShouldBeNil)

		Convey("When logging with fields from a named logger", func() {
			Named("fetch").Info(ctx, "fetched",
				String("url", "https://example.test"),
				Int("attempt", 2),
				Bool("fallback", false),
				Duration("took", 1500*time.Millisecond),
				Error(errors.New("boom")),
			)

			Convey("Then every field and the component appear", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, `"msg":"fetched"`)
				So(out, ShouldContainSubstring, `"component":"fetch"`)
				So(out, ShouldContainSubstring, `"attempt":2`)
				So(out, ShouldContainSubstring, `"took":"1.5s"`)
				So(out, ShouldContainSubstring, `"source":"`)
			})
		})

		Convey("When debug is disabled", func() {
			Get().Debug(ctx, "hidden")
			So(buf.String(), ShouldNotContainSubstring, "hidden")

			Convey("And then enabled", func() {
				So(SetLevelString("DEBUG"), ShouldBeNil)
				Get().Debug(ctx, "shown")
				So(buf.String(), ShouldContainSubstring, "shown")
			})
		})
	})

	Convey("Given a standalone logger", t, func() {
		var buf bytes.Buffer
		l := New(&buf)
		l.Warn(ctx, "careful", Float64("ratio", 0.5))
		So(buf.String(), ShouldContainSubstring, "careful")
		So(buf.String(), ShouldContainSubstring, "ratio=0.5")
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Known levels are accepted", t, func() {
		for _, lvl := range []string{"debug", "info", "", "warn", "warning", "error"} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
	})
}
