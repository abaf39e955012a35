package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/finmate/backend/internal/middleware"
	"github.com/anonto42/finmate/backend/internal/models"
	"github.com/anonto42/finmate/backend/internal/repositories"
	"github.com/anonto42/finmate/backend/internal/services"
	"github.com/anonto42/finmate/backend/internal/testutil"
	"github.com/anonto42/finmate/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var base = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

// fakeAuth attaches the identity named by the X-User-ID and X-User-Role
// headers in place of token verification
func fakeAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id := c.Request().Header.Get("X-User-ID"); id != "" {
			middleware.SetCurrentUser(c, &models.JwtCustomClaims{
				UserID: id,
				Role:   models.Role(c.Request().Header.Get("X-User-Role")),
			})
		}
		return next(c)
	}
}

func setupTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	db := testutil.NewTestDB(t)
	notifRepo := repositories.NewNotificationRepository(db)
	userRepo := repositories.NewUserRepository(db)
	svc := services.NewNotificationService(notifRepo, userRepo)

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler

	api := e.Group("/api/v1", fakeAuth)
	NewNotificationHandler(notifRepo).RegisterNotificationRoutes(api.Group("/notifications"))
	NewAdminNotificationHandler(svc, userRepo).RegisterAdminNotificationRoutes(
		api.Group("/admin/notifications", middleware.RequireRole(models.RoleAdmin)))
	e.GET("/health", HealthCheck)

	return e, db
}

func doRequest(e *echo.Echo, method, path, userID string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewReader(jsonBytes)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type listResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthCheck(t *testing.T) {
	e, _ := setupTestServer(t)

	rec := doRequest(e, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"notifications-api"}`, rec.Body.String())
}

func TestGetNotifications_RequiresIdentity(t *testing.T) {
	e, _ := setupTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/notifications"},
		{http.MethodGet, "/api/v1/notifications/counts"},
		{http.MethodPut, "/api/v1/notifications/read"},
		{http.MethodDelete, "/api/v1/notifications/abc"},
	} {
		rec := doRequest(e, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
		assert.JSONEq(t, `{"error":"User not authenticated"}`, rec.Body.String())
	}
}

func TestGetNotifications_Pagination(t *testing.T) {
	e, db := setupTestServer(t)
	for i := 1; i <= 5; i++ {
		testutil.CreateNotification(t, db, "user-a", fmt.Sprintf("n%d", i), base.Add(time.Duration(i)*time.Hour))
	}

	rec := doRequest(e, http.MethodGet, "/api/v1/notifications?limit=2&offset=0", "user-a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[listResponse](t, rec)
	require.Len(t, page.Notifications, 2)
	assert.Equal(t, "n5", page.Notifications[0].Title)
	assert.Equal(t, "n4", page.Notifications[1].Title)
	assert.EqualValues(t, 5, page.UnreadCount)

	rec = doRequest(e, http.MethodGet, "/api/v1/notifications?limit=2&offset=2", "user-a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[listResponse](t, rec)
	require.Len(t, page.Notifications, 2)
	assert.Equal(t, "n3", page.Notifications[0].Title)
	assert.Equal(t, "n2", page.Notifications[1].Title)

	rec = doRequest(e, http.MethodGet, "/api/v1/notifications/", "user-a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[listResponse](t, rec).Notifications, 5)
}

func TestGetNotifications_WireFormat(t *testing.T) {
	e, db := setupTestServer(t)
	n := testutil.CreateNotification(t, db, "user-a", "Budget", base)

	rec := doRequest(e, http.MethodGet, "/api/v1/notifications", "user-a", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw struct {
		Notifications []map[string]any `json:"notifications"`
		UnreadCount   json.Number      `json:"unreadCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw.Notifications, 1)
	got := raw.Notifications[0]
	assert.Equal(t, n.ID, got["id"])
	assert.Equal(t, "user-a", got["userId"])
	assert.Equal(t, "Budget", got["title"])
	assert.Equal(t, "Budget message", got["message"])
	assert.Equal(t, "INFO", got["type"])
	assert.Equal(t, false, got["isRead"])
	assert.Nil(t, got["data"])
	assert.Contains(t, got, "createdAt")
	assert.Equal(t, "1", raw.UnreadCount.String())
}

func TestGetNotifications_EmptyListIsArray(t *testing.T) {
	e, _ := setupTestServer(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/notifications", "nobody", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"notifications":[],"unreadCount":0}`, rec.Body.String())
}

func TestGetNotifications_RejectsMalformedPaging(t *testing.T) {
	e, _ := setupTestServer(t)

	for _, query := range []string{"limit=abc", "offset=x", "limit=0", "limit=101", "offset=-1", "limit=2.5"} {
		rec := doRequest(e, http.MethodGet, "/api/v1/notifications?"+query, "user-a", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Contains(t, decode[map[string]any](t, rec), "error", query)
	}
}

func TestGetUnreadCount(t *testing.T) {
	e, db := setupTestServer(t)
	testutil.CreateNotification(t, db, "user-a", "one", base)
	testutil.CreateNotification(t, db, "user-a", "two", base.Add(time.Minute))
	testutil.CreateNotification(t, db, "user-b", "other", base)

	rec := doRequest(e, http.MethodGet, "/api/v1/notifications/counts", "user-a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":2}`, rec.Body.String())
}

func TestMarkAsRead_All(t *testing.T) {
	for name, body := range map[string]any{
		"absent body": nil,
		"empty ids":   map[string]any{"ids": []string{}},
		"no ids key":  map[string]any{},
		"all flag":    map[string]any{"all": true, "ids": []string{"ignored"}},
	} {
		t.Run(name, func(t *testing.T) {
			e, db := setupTestServer(t)
			testutil.CreateNotification(t, db, "user-a", "one", base)
			testutil.CreateNotification(t, db, "user-a", "two", base.Add(time.Minute))
			testutil.CreateNotification(t, db, "user-b", "other", base)

			rec := doRequest(e, http.MethodPut, "/api/v1/notifications/read", "user-a", body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.JSONEq(t, `{"success":true}`, rec.Body.String())

			rec = doRequest(e, http.MethodGet, "/api/v1/notifications/counts", "user-a", nil)
			assert.JSONEq(t, `{"count":0}`, rec.Body.String())

			rec = doRequest(e, http.MethodGet, "/api/v1/notifications/counts", "user-b", nil)
			assert.JSONEq(t, `{"count":1}`, rec.Body.String())
		})
	}
}

func TestMarkAsRead_Selected(t *testing.T) {
	e, db := setupTestServer(t)
	n1 := testutil.CreateNotification(t, db, "user-a", "one", base)
	n2 := testutil.CreateNotification(t, db, "user-a", "two", base.Add(time.Minute))
	foreign := testutil.CreateNotification(t, db, "user-b", "other", base)

	rec := doRequest(e, http.MethodPut, "/api/v1/notifications/read", "user-a",
		map[string]any{"ids": []string{n1.ID, foreign.ID}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/v1/notifications", "user-a", nil)
	page := decode[listResponse](t, rec)
	assert.EqualValues(t, 1, page.UnreadCount)
	for _, n := range page.Notifications {
		assert.Equal(t, n.ID == n1.ID, n.IsRead, n.Title)
		if n.ID == n2.ID {
			assert.False(t, n.IsRead)
		}
	}

	rec = doRequest(e, http.MethodGet, "/api/v1/notifications/counts", "user-b", nil)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())
}

func TestMarkAsRead_InvalidPayload(t *testing.T) {
	e, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/notifications/read", bytes.NewReader([]byte(`{"ids": "nope"`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-User-ID", "user-a")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request payload"}`, rec.Body.String())

	rec = doRequest(e, http.MethodPut, "/api/v1/notifications/read", "user-a", map[string]any{"ids": []string{""}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteNotification(t *testing.T) {
	e, db := setupTestServer(t)
	mine := testutil.CreateNotification(t, db, "user-a", "mine", base)
	theirs := testutil.CreateNotification(t, db, "user-b", "theirs", base)

	rec := doRequest(e, http.MethodDelete, "/api/v1/notifications/"+theirs.ID, "user-a", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Notification not found"}`, rec.Body.String())

	rec = doRequest(e, http.MethodDelete, "/api/v1/notifications/does-not-exist", "user-a", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(e, http.MethodDelete, "/api/v1/notifications/"+mine.ID, "user-a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = doRequest(e, http.MethodDelete, "/api/v1/notifications/"+mine.ID, "user-a", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/v1/notifications", "user-b", nil)
	page := decode[listResponse](t, rec)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, theirs.ID, page.Notifications[0].ID)
}
