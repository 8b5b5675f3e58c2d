package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestOpenListEchoesAnyOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sync/cursos", nil)
	c.Request.Header.Set("Origin", "capacitor://localhost")

	New(nil)(c)

	assert.Equal(t, "capacitor://localhost", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAllowListFiltersOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mw := New([]string{"https://panel.example.com/"})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sync/cursos", nil)
	c.Request.Header.Set("Origin", "https://panel.example.com")
	mw(c)
	assert.Equal(t, "https://panel.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sync/cursos", nil)
	c.Request.Header.Set("Origin", "https://evil.example.com")
	mw(c)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflightShortCircuits(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodOptions, "/sync/cursos", nil)
	c.Request.Header.Set("Origin", "http://localhost")

	New(nil)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}
