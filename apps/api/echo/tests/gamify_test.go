package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/elimucd/backend/core/gamify"
)

func Test_gamifyApi_awardPoints(t *testing.T) {
	app := setup(t)
	app.seedRoles(t)

	instToken := getToken(t, "u-inst", "inst", "instructor")

	tests := []struct {
		name       string
		event      gamify.Event
		wantPoints int
	}{
		{"course completion", gamify.Event{Type: gamify.EventCourseCompletion, Score: 85}, 950},
		{"quiz", gamify.Event{Type: gamify.EventQuiz, Score: 8, MaxScore: 10}, 800},
		{"daily login", gamify.Event{Type: gamify.EventDailyLogin}, 5},
		{"streak day", gamify.Event{Type: gamify.EventStreakDay, ConsecutiveDays: 6}, 12},
		{"badge earned", gamify.Event{Type: gamify.EventBadgeEarned}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/points/award", instToken, marshallObj(t, tt.event))
			app.server.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
			}
			var resp struct {
				Points int `json:"points"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshalling response: %v", err)
			}
			if resp.Points != tt.wantPoints {
				t.Errorf("expected %d points, got %d", tt.wantPoints, resp.Points)
			}
		})
	}

	t.Run("unknown event type rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/points/award", instToken, marshallObj(t, gamify.Event{Type: "vibes"}))
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
	})
}

func Test_gamifyApi_rank(t *testing.T) {
	app := setup(t)
	app.seedRoles(t)

	prev := 1
	entries := []gamify.Entry{
		{UserID: "u1", Points: intPtr(100), PreviousRank: &prev},
		{UserID: "u2", Points: intPtr(300)},
		{UserID: "u3", Points: intPtr(100), Badges: 2},
	}

	req, rec := newAuthRequest(http.MethodPost, "/v1/leaderboard/rank", getToken(t, "u-inst", "inst", "instructor"), marshallObj(t, entries))
	app.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}
	var ranked []struct {
		gamify.Entry
		RankDelta *int `json:"rank_delta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ranked); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(ranked))
	}
	if ranked[0].UserID != "u2" || ranked[1].UserID != "u3" || ranked[2].UserID != "u1" {
		t.Errorf("unexpected order: %s %s %s", ranked[0].UserID, ranked[1].UserID, ranked[2].UserID)
	}
	if ranked[2].Rank != 3 || ranked[2].RankDelta == nil || *ranked[2].RankDelta != -2 {
		t.Errorf("unexpected rank delta for u1: %+v", ranked[2])
	}
	if ranked[0].RankDelta != nil {
		t.Errorf("u2 has no previous rank, delta should be absent, got %d", *ranked[0].RankDelta)
	}
}
