package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/judged/internal/adapters/http/api"
	"github.com/okian/judged/internal/adapters/repository"
	"github.com/okian/judged/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

const maxTestLimit = 100

func newTestServer() *httptest.Server {
	store := repository.NewMemoryStore()
	svc := app.New(store)
	mux := http.NewServeMux()
	api.NewServer(svc, svc, maxTestLimit).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func postJSON(ts *httptest.Server, path string, body any) (*http.Response, map[string]any) {
	raw, err := json.Marshal(body)
	So(err, ShouldBeNil)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(raw))
	So(err, ShouldBeNil)
	return resp, decodeBody(resp)
}

func getJSON(ts *httptest.Server, path string) (*http.Response, map[string]any) {
	resp, err := http.Get(ts.URL + path)
	So(err, ShouldBeNil)
	return resp, decodeBody(resp)
}

func decodeBody(resp *http.Response) map[string]any {
	defer resp.Body.Close()
	var out map[string]any
	So(json.NewDecoder(resp.Body).Decode(&out), ShouldBeNil)
	return out
}

// seedRound drives the API itself: one round, three teams, two judges.
// Averages come out 9, 6 and 3.
func seedRound(ts *httptest.Server) map[string]string {
	resp, _ := postJSON(ts, "/rounds", map[string]any{
		"hackathon_id": "hack-1",
		"index":        0,
		"type":         "idea",
		"policy":       map[string]any{"mode": "topN", "count": 2},
	})
	So(resp.StatusCode, ShouldEqual, http.StatusCreated)

	subIDs := make(map[string]string, 3)
	for i, team := range []string{"t1", "t2", "t3"} {
		resp, body := postJSON(ts, "/submissions", map[string]any{
			"hackathon_id": "hack-1",
			"team_id":      team,
			"round":        0,
		})
		So(resp.StatusCode, ShouldEqual, http.StatusCreated)
		subIDs[team] = body["id"].(string)

		value := float64(9 - 3*i)
		for _, judge := range []string{"judge-1", "judge-2"} {
			resp, _ := postJSON(ts, "/scores", map[string]any{
				"submission_id": subIDs[team],
				"judge_id":      judge,
				"criteria": map[string]float64{
					"innovation":   value,
					"technical":    value,
					"ux":           value,
					"business":     value,
					"presentation": value,
				},
			})
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		}
	}
	return subIDs
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given a running server", t, func() {
		ts := newTestServer()
		defer ts.Close()

		Convey("The health endpoint reports ok", func() {
			resp, body := getJSON(ts, "/healthz")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["status"], ShouldEqual, "ok")
		})

		Convey("The stats endpoint returns counters", func() {
			resp, body := getJSON(ts, "/stats")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["submissions"], ShouldEqual, 0)
		})
	})
}

func TestRoundAndSubmissionEndpoints(t *testing.T) {
	Convey("Given a running server", t, func() {
		ts := newTestServer()
		defer ts.Close()

		Convey("A round with an unknown type is rejected", func() {
			resp, body := postJSON(ts, "/rounds", map[string]any{
				"hackathon_id": "hack-1",
				"index":        0,
				"type":         "karaoke",
			})
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "bad_request")
		})

		Convey("A submission for an unregistered round is 404", func() {
			resp, body := postJSON(ts, "/submissions", map[string]any{
				"hackathon_id": "hack-1",
				"team_id":      "t1",
				"round":        0,
			})
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			So(body["code"], ShouldEqual, "not_found")
		})

		Convey("A submission without a team id is rejected before the service", func() {
			resp, _ := postJSON(ts, "/submissions", map[string]any{
				"hackathon_id": "hack-1",
				"round":        0,
			})
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("GET on a POST-only route is 404", func() {
			resp, err := http.Get(ts.URL + "/rounds")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestScoreEndpoint(t *testing.T) {
	Convey("Given a seeded server", t, func() {
		ts := newTestServer()
		defer ts.Close()
		subIDs := seedRound(ts)

		Convey("An out-of-range criterion value is a 400", func() {
			resp, _ := postJSON(ts, "/scores", map[string]any{
				"submission_id": subIDs["t1"],
				"judge_id":      "judge-1",
				"criteria":      map[string]float64{"innovation": 11},
			})
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A score for a missing submission is a 404", func() {
			resp, _ := postJSON(ts, "/scores", map[string]any{
				"submission_id": "missing",
				"judge_id":      "judge-1",
				"criteria":      map[string]float64{"innovation": 5},
			})
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("Malformed JSON is a 400", func() {
			resp, err := http.Post(ts.URL+"/scores", "application/json", bytes.NewReader([]byte("{nope")))
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestLeaderboardEndpoint(t *testing.T) {
	Convey("Given a seeded server", t, func() {
		ts := newTestServer()
		defer ts.Close()
		subIDs := seedRound(ts)

		Convey("When the leaderboard is fetched", func() {
			resp, body := getJSON(ts, "/leaderboard?hackathon_id=hack-1&round=0")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			Convey("Then entries are ranked by average", func() {
				entries := body["leaderboard"].([]any)
				So(entries, ShouldHaveLength, 3)
				top := entries[0].(map[string]any)
				So(top["submission_id"], ShouldEqual, subIDs["t1"])
				So(top["rank"], ShouldEqual, 1)
				So(top["average_score"], ShouldAlmostEqual, 9.0, 1e-9)
			})

			Convey("And the summary counts everything as pending", func() {
				summary := body["summary"].(map[string]any)
				So(summary["total"], ShouldEqual, 3)
				So(summary["pending"], ShouldEqual, 3)
			})
		})

		Convey("limit=1 truncates the entries", func() {
			resp, body := getJSON(ts, "/leaderboard?hackathon_id=hack-1&round=0&limit=1")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["leaderboard"].([]any), ShouldHaveLength, 1)
		})

		Convey("A limit beyond the configured maximum is refused", func() {
			resp, body := getJSON(ts, fmt.Sprintf("/leaderboard?hackathon_id=hack-1&round=0&limit=%d", maxTestLimit+1))
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "limit_exceeded")
		})

		Convey("A missing hackathon_id is a 400", func() {
			resp, _ := getJSON(ts, "/leaderboard?round=0")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("An unknown round is a 404", func() {
			resp, _ := getJSON(ts, "/leaderboard?hackathon_id=hack-1&round=9")
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestShortlistEndpoints(t *testing.T) {
	Convey("Given a seeded server", t, func() {
		ts := newTestServer()
		defer ts.Close()
		subIDs := seedRound(ts)

		Convey("When the round is shortlisted with its default policy", func() {
			resp, body := postJSON(ts, "/shortlist", map[string]any{
				"hackathon_id": "hack-1",
				"round":        0,
			})
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			Convey("Then the top two submissions are shortlisted", func() {
				listed := body["shortlisted_submissions"].([]any)
				So(listed, ShouldHaveLength, 2)
				So(listed[0], ShouldEqual, subIDs["t1"])
				So(listed[1], ShouldEqual, subIDs["t2"])
			})

			Convey("And eligibility for round 1 reflects the outcome", func() {
				resp, body := getJSON(ts, "/eligibility?team_id=t1&hackathon_id=hack-1&round=1")
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["is_eligible"], ShouldEqual, true)
				So(body["reason"], ShouldEqual, "shortlisted")
				So(body["shortlisting_source"], ShouldEqual, "round_progress")
				So(body["shortlisting_details"], ShouldNotBeNil)

				resp, body = getJSON(ts, "/eligibility?team_id=t3&hackathon_id=hack-1&round=1")
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["is_eligible"], ShouldEqual, false)
				So(body["reason"], ShouldEqual, "rejected")
			})

			Convey("And toggling the cut submission back on works", func() {
				resp, body := postJSON(ts, "/shortlist/toggle", map[string]any{
					"submission_id": subIDs["t3"],
					"shortlist":     true,
				})
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["shortlisted_submissions"].([]any), ShouldContain, subIDs["t3"])
			})
		})

		Convey("An explicit threshold policy overrides the round default", func() {
			resp, body := postJSON(ts, "/shortlist", map[string]any{
				"hackathon_id": "hack-1",
				"round":        0,
				"policy":       map[string]any{"mode": "threshold", "min_score": 8},
			})
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["shortlisted_submissions"].([]any), ShouldHaveLength, 1)
		})

		Convey("An invalid policy is a 400 with its own code", func() {
			resp, body := postJSON(ts, "/shortlist", map[string]any{
				"hackathon_id": "hack-1",
				"round":        0,
				"policy":       map[string]any{"mode": "lottery"},
			})
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "invalid_policy")
		})

		Convey("Toggling an unknown submission is a 404", func() {
			resp, _ := postJSON(ts, "/shortlist/toggle", map[string]any{
				"submission_id": "missing",
				"shortlist":     true,
			})
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("Submitting to round 1 before shortlisting is forbidden", func() {
			resp, _ := postJSON(ts, "/rounds", map[string]any{
				"hackathon_id": "hack-1",
				"index":        1,
				"type":         "project",
			})
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)

			resp, body := postJSON(ts, "/submissions", map[string]any{
				"hackathon_id": "hack-1",
				"team_id":      "t1",
				"round":        1,
			})
			So(resp.StatusCode, ShouldEqual, http.StatusForbidden)
			So(body["code"], ShouldEqual, "not_eligible")
		})
	})
}

func TestEligibilityEndpointValidation(t *testing.T) {
	Convey("Given a running server", t, func() {
		ts := newTestServer()
		defer ts.Close()

		Convey("Round 0 is open without any state", func() {
			resp, body := getJSON(ts, "/eligibility?team_id=t1&hackathon_id=hack-1&round=0")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["is_eligible"], ShouldEqual, true)
			So(body["reason"], ShouldEqual, "first_round")
		})

		Convey("Missing query parameters are a 400", func() {
			resp, _ := getJSON(ts, "/eligibility?round=1")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A non-numeric round is a 400", func() {
			resp, _ := getJSON(ts, "/eligibility?team_id=t1&hackathon_id=hack-1&round=abc")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}
