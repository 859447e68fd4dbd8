package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestEnv(t)
	env.registerUser(t, "shopper@example.com", "shopper")

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "shopper@example.com",
		"password": "correct-horse",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token")
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	env := setupTestEnv(t)
	env.registerUser(t, "shopper@example.com", "shopper")

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "copycat",
		"email":    "shopper@example.com",
		"password": "other-password",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterRejectsBadBody(t *testing.T) {
	env := setupTestEnv(t)

	cases := []gin.H{
		{"username": "shopper", "email": "not-an-email", "password": "correct-horse"},
		{"username": "shopper", "email": "shopper@example.com", "password": "short"},
		{"email": "shopper@example.com", "password": "correct-horse"},
	}
	for _, body := range cases {
		w := env.do(t, http.MethodPost, "/api/v1/auth/register", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	env.registerUser(t, "shopper@example.com", "shopper")

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "shopper@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/lists", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/lists", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
