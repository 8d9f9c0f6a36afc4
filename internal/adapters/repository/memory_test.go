package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/judged/internal/adapters/repository"
	"github.com/okian/judged/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newSubmission(id, team string) model.Submission {
	return model.Submission{
		ID:          id,
		HackathonID: "hack-1",
		TeamID:      team,
		RoundIndex:  0,
		Status:      model.StatusSubmitted,
		SubmittedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStoreSubmissions(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store := repository.NewMemoryStore()

		Convey("Looking up a missing round returns ErrNotFound", func() {
			_, err := store.Round(ctx, "hack-1", 0)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When a submission is created", func() {
			So(store.CreateSubmission(ctx, newSubmission("s1", "t1")), ShouldBeNil)

			Convey("Then it can be read back by id", func() {
				sub, err := store.Submission(ctx, "s1")
				So(err, ShouldBeNil)
				So(sub.TeamID, ShouldEqual, "t1")
			})

			Convey("And by team within the round", func() {
				sub, err := store.SubmissionByTeam(ctx, "hack-1", 0, "t1")
				So(err, ShouldBeNil)
				So(sub.ID, ShouldEqual, "s1")
			})

			Convey("And it shows up in the round listing", func() {
				subs, err := store.SubmissionsByRound(ctx, "hack-1", 0)
				So(err, ShouldBeNil)
				So(subs, ShouldHaveLength, 1)
			})

			Convey("And creating the same id again is a duplicate", func() {
				err := store.CreateSubmission(ctx, newSubmission("s1", "t9"))
				So(errors.Is(err, repository.ErrDuplicateSubmission), ShouldBeTrue)
			})

			Convey("And an unknown team in the round is ErrNotFound", func() {
				_, err := store.SubmissionByTeam(ctx, "hack-1", 0, "t2")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestMemoryStoreScores(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with one submission", t, func() {
		store := repository.NewMemoryStore()
		So(store.CreateSubmission(ctx, newSubmission("s1", "t1")), ShouldBeNil)

		Convey("Scoring an unknown submission is ErrNotFound", func() {
			err := store.UpsertScore(ctx, model.Score{SubmissionID: "nope", JudgeID: "j1"})
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When the same judge scores twice", func() {
			first := model.Score{SubmissionID: "s1", JudgeID: "j1", Criteria: map[string]float64{"innovation": 4}}
			second := model.Score{SubmissionID: "s1", JudgeID: "j1", Criteria: map[string]float64{"innovation": 9}}
			So(store.UpsertScore(ctx, first), ShouldBeNil)
			So(store.UpsertScore(ctx, second), ShouldBeNil)

			Convey("Then the last write wins and no duplicate remains", func() {
				cards, err := store.ScoresBySubmission(ctx, "s1")
				So(err, ShouldBeNil)
				So(cards, ShouldHaveLength, 1)
				So(cards[0].Criteria["innovation"], ShouldEqual, 9)
			})
		})

		Convey("When two judges score the submission", func() {
			So(store.UpsertScore(ctx, model.Score{SubmissionID: "s1", JudgeID: "j2", Criteria: map[string]float64{"ux": 7}}), ShouldBeNil)
			So(store.UpsertScore(ctx, model.Score{SubmissionID: "s1", JudgeID: "j1", Criteria: map[string]float64{"ux": 5}}), ShouldBeNil)

			Convey("Then reads come back ordered by judge id", func() {
				cards, err := store.ScoresBySubmission(ctx, "s1")
				So(err, ShouldBeNil)
				So(cards, ShouldHaveLength, 2)
				So(cards[0].JudgeID, ShouldEqual, "j1")
				So(cards[1].JudgeID, ShouldEqual, "j2")
			})

			Convey("And the round-wide view includes them", func() {
				bySub, err := store.ScoresByRound(ctx, "hack-1", 0)
				So(err, ShouldBeNil)
				So(bySub["s1"], ShouldHaveLength, 2)
			})
		})

		Convey("Mutating a stored card's criteria map after upsert has no effect", func() {
			criteria := map[string]float64{"innovation": 6}
			So(store.UpsertScore(ctx, model.Score{SubmissionID: "s1", JudgeID: "j1", Criteria: criteria}), ShouldBeNil)
			criteria["innovation"] = 1

			cards, err := store.ScoresBySubmission(ctx, "s1")
			So(err, ShouldBeNil)
			So(cards[0].Criteria["innovation"], ShouldEqual, 6)
		})
	})
}

func TestMemoryStoreApplyShortlist(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with two submissions", t, func() {
		store := repository.NewMemoryStore()
		So(store.CreateSubmission(ctx, newSubmission("s1", "t1")), ShouldBeNil)
		So(store.CreateSubmission(ctx, newSubmission("s2", "t2")), ShouldBeNil)

		progress := model.RoundProgress{
			ID:                     "p1",
			HackathonID:            "hack-1",
			RoundIndex:             0,
			ShortlistedSubmissions: []string{"s1"},
			ShortlistedTeams:       []string{"t1"},
			Finalized:              true,
		}
		statuses := map[string]model.SubmissionStatus{
			"s1": model.StatusShortlisted,
			"s2": model.StatusRejected,
		}

		Convey("When a shortlist is applied", func() {
			So(store.ApplyShortlist(ctx, progress, statuses), ShouldBeNil)

			Convey("Then statuses and the progress record land together", func() {
				s1, _ := store.Submission(ctx, "s1")
				s2, _ := store.Submission(ctx, "s2")
				So(s1.Status, ShouldEqual, model.StatusShortlisted)
				So(s2.Status, ShouldEqual, model.StatusRejected)

				stored, err := store.RoundProgress(ctx, "hack-1", 0)
				So(err, ShouldBeNil)
				So(stored.Version, ShouldEqual, 1)
				So(stored.ShortlistedSubmissions, ShouldResemble, []string{"s1"})
				So(store.CountFinalizedRounds(ctx), ShouldEqual, 1)
			})

			Convey("And a rerun with the current version overwrites cleanly", func() {
				rerun := progress
				rerun.ID = "p-new"
				rerun.Version = 1
				rerun.ShortlistedSubmissions = []string{"s2"}
				rerun.ShortlistedTeams = []string{"t2"}
				So(store.ApplyShortlist(ctx, rerun, map[string]model.SubmissionStatus{
					"s1": model.StatusRejected,
					"s2": model.StatusShortlisted,
				}), ShouldBeNil)

				stored, err := store.RoundProgress(ctx, "hack-1", 0)
				So(err, ShouldBeNil)
				So(stored.ID, ShouldEqual, "p1") // record id stays stable
				So(stored.Version, ShouldEqual, 2)
				So(stored.ShortlistedSubmissions, ShouldResemble, []string{"s2"})
			})

			Convey("And a rerun with a stale version is rejected without side effects", func() {
				stale := progress
				stale.Version = 0
				stale.ShortlistedSubmissions = []string{"s2"}
				err := store.ApplyShortlist(ctx, stale, map[string]model.SubmissionStatus{
					"s1": model.StatusRejected,
				})
				So(errors.Is(err, repository.ErrVersionMismatch), ShouldBeTrue)

				s1, _ := store.Submission(ctx, "s1")
				So(s1.Status, ShouldEqual, model.StatusShortlisted)
			})
		})

		Convey("When a status references an unknown submission", func() {
			bad := map[string]model.SubmissionStatus{
				"s1":      model.StatusShortlisted,
				"missing": model.StatusRejected,
			}
			err := store.ApplyShortlist(ctx, progress, bad)

			Convey("Then nothing is written", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

				s1, _ := store.Submission(ctx, "s1")
				So(s1.Status, ShouldEqual, model.StatusSubmitted)
				_, perr := store.RoundProgress(ctx, "hack-1", 0)
				So(errors.Is(perr, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}
