package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/ciftlik/internal/auth"
	"github.com/stwalsh4118/ciftlik/internal/database"
	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/notify"
	"github.com/stwalsh4118/ciftlik/internal/repository"
	"github.com/stwalsh4118/ciftlik/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "gizli-sifre"

// testServer is the full router over an in-memory database with one admin
// and one regular user already logged in.
type testServer struct {
	t          *testing.T
	router     *gin.Engine
	store      *repository.Store
	auth       auth.Service
	admin      *models.User
	adminToken string
	user       *models.User
	userToken  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))

	log := logger.Nop()
	store := repository.New(db)
	authService := auth.NewService(store, time.Hour, log)
	notifier := notify.NewStoreNotifier(store.Notifications)

	svc := Services{
		Auth:       authService,
		Accounts:   services.NewAccountService(store, log),
		Resources:  services.NewResources(store, log),
		Analysis:   services.NewAnalysisService(store, log),
		Payments:   services.NewPaymentService(store, notifier, false, log),
		Debts:      services.NewDebtService(store, notifier, log),
		Categories: services.NewCategoryService(store.Categories, log),
		Ownerships: services.NewOwnershipService(store, false, log),
		Irrigation: services.NewIrrigationService(store, log),
	}
	opts := RouterOptions{Env: "test", Driver: "sqlite", CORSOrigins: []string{"http://localhost:3000"}}

	ts := &testServer{
		t:      t,
		router: NewRouter(opts, db, svc, log),
		store:  store,
		auth:   authService,
	}
	ts.admin, ts.adminToken = ts.login("yonetici@example.com", models.RoleAdmin)
	ts.user, ts.userToken = ts.login("ciftci@example.com", models.RoleUser)
	return ts
}

// login creates a user and opens a session for it.
func (ts *testServer) login(email, role string) (*models.User, string) {
	ts.t.Helper()
	ctx := context.Background()

	user, err := ts.auth.CreateUser(ctx, email, email, testPassword, role)
	require.NoError(ts.t, err)
	session, _, err := ts.auth.Login(ctx, email, testPassword)
	require.NoError(ts.t, err)
	return user, session.Token
}

// do sends a request with an optional JSON body and bearer token.
func (ts *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	ts.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// create posts body and decodes the created document.
func (ts *testServer) create(path string, body interface{}) map[string]interface{} {
	ts.t.Helper()
	w := ts.do(http.MethodPost, path, ts.adminToken, body)
	require.Equal(ts.t, http.StatusCreated, w.Code, w.Body.String())
	return decodeObject(ts.t, w)
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeObject(t, w)
	detail, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "expected error envelope, got %s", w.Body.String())
	code, _ := detail["code"].(string)
	return code
}
