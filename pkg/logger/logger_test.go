package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func newBufferLogger(buf *bytes.Buffer, level slog.Level) Logger {
	h := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level})
	return &slogLogger{Logger: slog.New(h)}
}

func TestLogger(t *testing.T) {
	ctx := context.Background()

	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		log := newBufferLogger(&buf, slog.LevelDebug)

		Convey("Info lines carry the message and fields", func() {
			log.Info(ctx, "round registered", String("hackathon", "hack-1"), Int("round", 2))
			out := buf.String()
			So(out, ShouldContainSubstring, "round registered")
			So(out, ShouldContainSubstring, "hackathon=hack-1")
			So(out, ShouldContainSubstring, "round=2")
			So(out, ShouldContainSubstring, "level=INFO")
		})

		Convey("Error fields render the wrapped error", func() {
			log.Error(ctx, "apply failed", Error(errors.New("version mismatch")))
			So(buf.String(), ShouldContainSubstring, "version mismatch")
			So(buf.String(), ShouldContainSubstring, "level=ERROR")
		})

		Convey("Named loggers group their fields", func() {
			log.Named("app").Warn(ctx, "slow build", Float64("ms", 250))
			So(buf.String(), ShouldContainSubstring, "app.ms=250")
		})

		Convey("Every line records a source location", func() {
			log.Debug(ctx, "trace")
			So(buf.String(), ShouldContainSubstring, "source=")
		})
	})

	Convey("Given a logger at warn level", t, func() {
		var buf bytes.Buffer
		log := newBufferLogger(&buf, slog.LevelWarn)

		Convey("Debug and info lines are suppressed", func() {
			log.Debug(ctx, "hidden")
			log.Info(ctx, "hidden too")
			log.Warn(ctx, "visible")
			So(buf.String(), ShouldNotContainSubstring, "hidden")
			So(buf.String(), ShouldContainSubstring, "visible")
		})
	})

	Convey("Given the global logger helpers", t, func() {
		Convey("Get initializes on first use", func() {
			So(func() { Get() }, ShouldNotPanic)
			So(Get(), ShouldNotBeNil)
			So(Named("test"), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("SetLevelString accepts the documented names", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			So(SetLevelString("WARN"), ShouldBeNil)
			So(SetLevelString(" warning "), ShouldBeNil)
			So(SetLevelString("error"), ShouldBeNil)
			So(SetLevelString(""), ShouldBeNil)
			So(SetLevelString("loud"), ShouldNotBeNil)
			SetLevel(slog.LevelInfo)
		})
	})
}
