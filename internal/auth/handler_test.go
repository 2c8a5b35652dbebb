package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewHandler(NewService(NewInMemoryUserRepository()))
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	return r
}

func post(r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterSuccess(t *testing.T) {
	r := setupTestRouter()

	w := post(r, "/auth/register", map[string]string{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "Password@123",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "Password@123")
}

func TestRegisterMissingFields(t *testing.T) {
	r := setupTestRouter()

	w := post(r, "/auth/register", map[string]string{
		"email": "test@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := setupTestRouter()

	payload := map[string]string{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "Password@123",
	}

	w1 := post(r, "/auth/register", payload)
	require.Equal(t, http.StatusCreated, w1.Code)

	w2 := post(r, "/auth/register", payload)
	assert.Equal(t, http.StatusConflict, w2.Code)
}

func TestLoginFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-12345")
	r := setupTestRouter()

	post(r, "/auth/register", map[string]string{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "Password@123",
	})

	w := post(r, "/auth/login", map[string]string{
		"email":    "test@example.com",
		"password": "Password@123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	w = post(r, "/auth/login", map[string]string{
		"email":    "test@example.com",
		"password": "nope-nope",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
