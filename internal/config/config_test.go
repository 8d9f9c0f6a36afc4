package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/judged/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given a clean environment", t, func() {
		os.Unsetenv("JUDGED_CONFIG")
		os.Unsetenv("JUDGED_ADDR")
		os.Unsetenv("JUDGED_LOG_LEVEL")
		os.Unsetenv("JUDGED_MAX_LEADERBOARD_LIMIT")
		Reset(func() {
			os.Unsetenv("JUDGED_CONFIG")
			os.Unsetenv("JUDGED_ADDR")
			os.Unsetenv("JUDGED_LOG_LEVEL")
			os.Unsetenv("JUDGED_MAX_LEADERBOARD_LIMIT")
		})

		Convey("When nothing is set", func() {
			cfg, err := config.Load(ctx)

			Convey("Then the defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.DatabaseDSN, ShouldBeEmpty)
				So(cfg.MaxLeaderboardLimit, ShouldEqual, 500)
				So(cfg.CriteriaWeights, ShouldHaveLength, 5)
				So(cfg.CriteriaWeights["innovation"], ShouldEqual, 25)
			})
		})

		Convey("When environment variables are set", func() {
			os.Setenv("JUDGED_ADDR", ":7070")
			os.Setenv("JUDGED_LOG_LEVEL", "debug")

			cfg, err := config.Load(ctx)

			Convey("Then they override the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.MaxLeaderboardLimit, ShouldEqual, 500)
			})
		})

		Convey("When a YAML file is provided", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "judged.yaml")
			yaml := "addr: \":6060\"\nlog_level: warn\nmax_leaderboard_limit: 50\n"
			So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
			os.Setenv("JUDGED_CONFIG", path)

			Convey("Then file values override the defaults", func() {
				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.LogLevel, ShouldEqual, "warn")
				So(cfg.MaxLeaderboardLimit, ShouldEqual, 50)
			})

			Convey("And env vars override the file", func() {
				os.Setenv("JUDGED_ADDR", ":5050")
				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":5050")
				So(cfg.LogLevel, ShouldEqual, "warn")
			})
		})

		Convey("When the config file does not exist", func() {
			os.Setenv("JUDGED_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(ctx)
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})

		Convey("When a value fails validation", func() {
			os.Setenv("JUDGED_MAX_LEADERBOARD_LIMIT", "0")

			_, err := config.Load(ctx)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
