package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func cronRouter(secret string) *gin.Engine {
	r := gin.New()
	r.POST("/run", CronAuth(secret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doCron(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCronAuth(t *testing.T) {
	r := cronRouter("s3cret")

	assert.Equal(t, http.StatusOK, doCron(r, "Bearer s3cret").Code)
	assert.Equal(t, http.StatusOK, doCron(r, "s3cret").Code, "the Bearer prefix is optional")
	assert.Equal(t, http.StatusUnauthorized, doCron(r, "Bearer wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, doCron(r, "").Code)
}

func TestCronAuthUnconfigured(t *testing.T) {
	r := cronRouter("")
	assert.Equal(t, http.StatusForbidden, doCron(r, "Bearer anything").Code, "no secret disables the endpoint")
}
