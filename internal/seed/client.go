package seed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is a thin JSON client for the judging API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client against baseURL with the given timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) post(path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}
	resp, err := c.client.Post(c.baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	return decodeResponse(resp, path, out)
}

func (c *Client) get(path string, query url.Values, out interface{}) error {
	resp, err := c.client.Get(c.baseURL + path + "?" + query.Encode())
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return decodeResponse(resp, path, out)
}

func decodeResponse(resp *http.Response, path string, out interface{}) error {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// RegisterRound registers a round definition.
func (c *Client) RegisterRound(hackathonID string, index int, roundType string, policy map[string]interface{}) error {
	return c.post("/rounds", map[string]interface{}{
		"hackathon_id": hackathonID,
		"index":        index,
		"type":         roundType,
		"policy":       policy,
	}, nil)
}

// CreateSubmission creates a submission and returns its id.
func (c *Client) CreateSubmission(hackathonID, teamID string, round int) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	err := c.post("/submissions", map[string]interface{}{
		"hackathon_id": hackathonID,
		"team_id":      teamID,
		"round":        round,
	}, &resp)
	return resp.ID, err
}

// RecordScore posts one judge scorecard.
func (c *Client) RecordScore(submissionID string, card Scorecard) error {
	return c.post("/scores", map[string]interface{}{
		"submission_id": submissionID,
		"judge_id":      card.JudgeID,
		"criteria":      card.Criteria,
		"feedback":      card.Feedback,
	}, nil)
}

// Shortlist runs bulk shortlisting for a round.
func (c *Client) Shortlist(hackathonID string, round int, policy map[string]interface{}) (ShortlistResult, error) {
	var resp ShortlistResult
	err := c.post("/shortlist", map[string]interface{}{
		"hackathon_id": hackathonID,
		"round":        round,
		"policy":       policy,
	}, &resp)
	return resp, err
}

// Leaderboard fetches the ranked leaderboard for a round.
func (c *Client) Leaderboard(hackathonID string, round int) (LeaderboardResult, error) {
	query := url.Values{}
	query.Set("hackathon_id", hackathonID)
	query.Set("round", strconv.Itoa(round))
	var resp LeaderboardResult
	err := c.get("/leaderboard", query, &resp)
	return resp, err
}

// Eligibility fetches one team's eligibility for a round.
func (c *Client) Eligibility(hackathonID, teamID string, round int) (EligibilityResult, error) {
	query := url.Values{}
	query.Set("hackathon_id", hackathonID)
	query.Set("team_id", teamID)
	query.Set("round", strconv.Itoa(round))
	var resp EligibilityResult
	err := c.get("/eligibility", query, &resp)
	return resp, err
}

// ShortlistResult mirrors the /shortlist response.
type ShortlistResult struct {
	Message                string   `json:"message"`
	ShortlistedSubmissions []string `json:"shortlisted_submissions"`
	ShortlistedTeams       []string `json:"shortlisted_teams"`
}

// LeaderboardResult mirrors the /leaderboard response.
type LeaderboardResult struct {
	Leaderboard []struct {
		Rank         int     `json:"rank"`
		SubmissionID string  `json:"submission_id"`
		TeamID       string  `json:"team_id"`
		AverageScore float64 `json:"average_score"`
		ScoreCount   int     `json:"score_count"`
		Status       string  `json:"status"`
	} `json:"leaderboard"`
	Summary struct {
		Total       int `json:"total"`
		Shortlisted int `json:"shortlisted"`
		Rejected    int `json:"rejected"`
		Pending     int `json:"pending"`
	} `json:"summary"`
}

// EligibilityResult mirrors the /eligibility response.
type EligibilityResult struct {
	IsEligible bool   `json:"is_eligible"`
	Reason     string `json:"reason"`
}
