package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/handlers"
	"expense-ledger/internal/logger"
	"expense-ledger/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	// Setup dependencies
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err, "failed to create database")
	defer db.Close()

	if _, err := os.Stat("../../web/templates"); os.IsNotExist(err) {
		t.Skip("Template directory not found, skipping router test")
	}

	// Use relative paths for tests running in cmd/server
	h := handlers.NewHandlers(db, "../../web/templates", handlers.Options{Logger: logger.Discard()})
	mux := setupRouter(h, "../../web/static")

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		allowAlt   []int // Alternative acceptable status codes
	}{
		{
			name:       "Root redirects to /expenses",
			method:     "GET",
			path:       "/",
			wantStatus: http.StatusFound,
		},
		{
			name:       "Static file access",
			method:     "GET",
			path:       "/static/style.css",
			wantStatus: http.StatusOK,
			allowAlt:   []int{http.StatusNotFound}, // File might not exist in test env
		},
		{
			name:       "Login page is public",
			method:     "GET",
			path:       "/login",
			wantStatus: http.StatusOK,
		},
		{
			name:       "List Expenses requires auth",
			method:     "GET",
			path:       "/expenses",
			wantStatus: http.StatusFound, // Should redirect to login
		},
		{
			name:       "Breakdown requires auth",
			method:     "GET",
			path:       "/expenses/breakdown",
			wantStatus: http.StatusFound,
		},
		{
			name:       "Budget requires auth",
			method:     "POST",
			path:       "/budget",
			wantStatus: http.StatusFound,
		},
		{
			name:       "Unknown route",
			method:     "GET",
			path:       "/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			// Check if status matches expected or any alternative
			if len(tt.allowAlt) > 0 {
				acceptableStatuses := append([]int{tt.wantStatus}, tt.allowAlt...)
				assert.Contains(t, acceptableStatuses, w.Code,
					"%s %s returned unexpected status", tt.method, tt.path)
			} else {
				assert.Equal(t, tt.wantStatus, w.Code,
					"%s %s returned unexpected status", tt.method, tt.path)
			}
		})
	}
}

func TestEnsureAdmin(t *testing.T) {
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, ensureAdmin(db, "", "", logger.Discard()), "no admin configured is a no-op")
	count, err := db.UserCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, ensureAdmin(db, "admin", "secret", logger.Discard()))
	user, err := db.GetUserByUsername("admin")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("secret", user.PasswordHash))

	// Existing users suppress the bootstrap
	require.NoError(t, ensureAdmin(db, "other", "secret", logger.Discard()))
	count, err = db.UserCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLoginFlowThroughRouter(t *testing.T) {
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, ensureAdmin(db, "testuser", "testpass123", logger.Discard()))

	h := handlers.NewHandlers(db, "../../web/templates", handlers.Options{Logger: logger.Discard()})
	mux := setupRouter(h, "../../web/static")

	form := strings.NewReader("username=testuser&password=testpass123")
	req := httptest.NewRequest(http.MethodPost, "/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/expenses", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req = httptest.NewRequest(http.MethodGet, "/expenses", http.NoBody)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome, testuser")
}
