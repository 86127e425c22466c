package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/elimucd/backend/apps/api/echo"
	"github.com/elimucd/backend/core"
	"github.com/elimucd/backend/core/audit"
	"github.com/elimucd/backend/core/badge"
	"github.com/elimucd/backend/core/notification"
	"github.com/elimucd/backend/core/role"
	logsvc "github.com/elimucd/backend/services/logger"
	inmemdb "github.com/elimucd/backend/storage/database/inmem"
	inmemkv "github.com/elimucd/backend/storage/kv/inmem"
	testutil "github.com/elimucd/backend/tests"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

// testApp bundles a fresh server with the repositories behind it so tests
// can seed state directly.
type testApp struct {
	server Server

	badgeRepo badge.Repository
	roleRepo  role.Repository
	kv        core.KVStore

	badgeSvc badge.Service
	notifSvc notification.Service
	auditSvc audit.Service
	roleSvc  role.Service
}

func setup(t *testing.T) *testApp {
	t.Helper()

	// error bodies are asserted in their production shape
	core.Conf.Debug = false
	core.Conf.TestMode = true

	db := inmemdb.NewDB()
	kv := inmemkv.New()
	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))

	badgeRepo := inmemdb.NewBadgeRepository(db)
	roleRepo := inmemdb.NewRoleRepository(db)

	notifSvc := notification.NewService(kv, nil, logger, 0)
	auditSvc := audit.NewService(kv, logger, 0)
	roleSvc := role.NewService(roleRepo, logger)
	badgeSvc := badge.NewService(badgeRepo, notification.NewBadgeNotifier(notifSvc, logger), logger)

	app := &testApp{
		badgeRepo: badgeRepo,
		roleRepo:  roleRepo,
		kv:        kv,
		badgeSvc:  badgeSvc,
		notifSvc:  notifSvc,
		auditSvc:  auditSvc,
		roleSvc:   roleSvc,
	}
	app.server = NewServer(
		&Options{
			DisableReqLogs:  true,
			BadgeSvc:        badgeSvc,
			RoleSvc:         roleSvc,
			NotificationSvc: notifSvc,
			AuditSvc:        auditSvc,
			Logger:          logger,
		},
	)
	return app
}

// seedRoles installs the fixture roles every API test relies on.
func (app *testApp) seedRoles(t *testing.T) {
	t.Helper()
	testutil.CreateRole(t, app.roleRepo, "role-admin", role.RoleAdmin, nil, true)
	testutil.CreateRole(t, app.roleRepo, "role-instructor", "instructor", []role.Permission{
		{Resource: "badge", Actions: []string{"read"}},
		{Resource: "notification", Actions: []string{"read", "update"}},
		{Resource: "report", Actions: []string{"view"}},
	}, false)
	testutil.CreateRole(t, app.roleRepo, "role-viewer", "viewer", []role.Permission{
		{Resource: "badge", Actions: []string{"read"}},
	}, false)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, userID, username, roleName string) string {
	t.Helper()
	token, err := GenerateToken(NewClaims(userID, username, username+"@test.cd", roleName))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

// nolint
func marshallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runTests(t *testing.T, app *testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			if tt.wantCode == 0 {
				tt.wantCode = http.StatusOK
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
