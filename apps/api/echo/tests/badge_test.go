package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/elimucd/backend/core/audit"
	"github.com/elimucd/backend/core/badge"
	testutil "github.com/elimucd/backend/tests"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func Test_badgeApi_query(t *testing.T) {
	app := setup(t)
	app.seedRoles(t)

	b1 := testutil.CreateBadge(t, app.badgeRepo, "First Steps", badge.Criteria{Type: badge.CriteriaCompletion, MinCourses: intPtr(1)}, true)
	b2 := testutil.CreateBadge(t, app.badgeRepo, "Night Owl", badge.Criteria{Type: badge.CriteriaTime, TimeSpent: floatPtr(40)}, false)

	adminToken := getToken(t, "u-admin", "admin", "admin")
	viewerToken := getToken(t, "u-viewer", "viewer", "viewer")

	tests := []httpTest{
		{name: "Auth required", path: "/v1/badges", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "Read permission suffices", path: "/v1/badges", token: viewerToken, wantData: marshallList(t, b1, b2)},
		{name: "Admin bypass", path: "/v1/badges", token: adminToken, wantData: marshallList(t, b1, b2)},
		{
			name: "No role", path: "/v1/badges", token: getToken(t, "u-nobody", "nobody", ""),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "Unknown role", path: "/v1/badges", token: getToken(t, "u-ghost", "ghost", "ghost"),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
	}
	runTests(t, app, tests)
}

func Test_badgeApi_create(t *testing.T) {
	app := setup(t)
	app.seedRoles(t)

	adminToken := getToken(t, "u-admin", "admin", "admin")
	body := marshallObj(t, badge.NewBadge{
		Name:     "Quiz Master",
		Color:    "#1a73e8",
		Criteria: badge.Criteria{Type: badge.CriteriaScore, MinScore: floatPtr(90)},
	})

	tests := []httpTest{
		{
			name: "Create permission required", method: http.MethodPost, path: "/v1/badges", body: body,
			token: getToken(t, "u-viewer", "viewer", "viewer"), wantCode: http.StatusForbidden,
			wantData: marshallObj(t, errForbidden),
		},
		{name: "Created", method: http.MethodPost, path: "/v1/badges", body: body, token: adminToken, wantCode: http.StatusCreated},
		{
			name: "Validation error", method: http.MethodPost, path: "/v1/badges", token: adminToken,
			body:     marshallObj(t, badge.NewBadge{Criteria: badge.Criteria{Type: badge.CriteriaScore}}),
			wantCode: http.StatusBadRequest,
		},
	}
	runTests(t, app, tests)

	// the write landed in the audit trail
	logs, err := app.auditSvc.List(context.Background(), audit.QueryFilter{Resource: audit.ResourceBadge})
	if err != nil {
		t.Fatalf("List audit logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(logs))
	}
	if logs[0].Action != audit.ActionCreate || logs[0].UserID != "u-admin" {
		t.Errorf("unexpected audit entry: %+v", logs[0])
	}
}

func Test_badgeApi_autoAward(t *testing.T) {
	app := setup(t)
	app.seedRoles(t)

	testutil.CreateBadge(t, app.badgeRepo, "First Steps", badge.Criteria{Type: badge.CriteriaCompletion, MinCourses: intPtr(1)}, true)
	adminToken := getToken(t, "u-admin", "admin", "admin")

	body := marshallObj(t, badge.Progress{UserID: "learner-1", CompletedCourses: 2})
	req, rec := newAuthRequest(http.MethodPost, "/v1/badges/auto-award", adminToken, body)
	app.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}
	var awards []badge.Award
	if err := json.Unmarshal(rec.Body.Bytes(), &awards); err != nil {
		t.Fatalf("unmarshalling awards: %v", err)
	}
	if len(awards) != 1 || awards[0].UserID != "learner-1" {
		t.Fatalf("expected 1 award for learner-1, got %+v", awards)
	}

	// the award raised a notification
	list, err := app.notifSvc.QueryAll(context.Background())
	if err != nil {
		t.Fatalf("QueryAll notifications: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(list))
	}
	if list[0].Metadata["user_id"] != "learner-1" {
		t.Errorf("unexpected notification metadata: %+v", list[0].Metadata)
	}
}

func Test_badgeApi_check(t *testing.T) {
	app := setup(t)
	app.seedRoles(t)

	testutil.CreateBadge(t, app.badgeRepo, "Streaker", badge.Criteria{Type: badge.CriteriaStreak, ConsecutiveDays: intPtr(10)}, true)

	body := marshallObj(t, badge.Progress{UserID: "learner-1", ConsecutiveDays: 5})
	req, rec := newAuthRequest(http.MethodPost, "/v1/badges/check", getToken(t, "u-inst", "inst", "instructor"), body)
	app.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}
	var reports []badge.EligibilityReport
	if err := json.Unmarshal(rec.Body.Bytes(), &reports); err != nil {
		t.Fatalf("unmarshalling reports: %v", err)
	}
	if len(reports) != 1 || reports[0].Eligible || reports[0].Progress != 50 {
		t.Fatalf("unexpected reports: %+v", reports)
	}
}
