package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAddrAndBuildServer(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8081", Addr("0.0.0.0", 8081))

	srv := BuildServer(":0", http.NotFoundHandler(), time.Second, 2*time.Second, 3*time.Second)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
	assert.Equal(t, 3*time.Second, srv.IdleTimeout)
	assert.Equal(t, 1<<20, srv.MaxHeaderBytes)
}

func TestNewRouter_LogsWithContextAndRecovers(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := NewRouter(zap.New(core), Options{
		Name: "gateway",
		Mode: gin.TestMode,
		LogContext: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{zap.String("route", "demo")}
		},
	})
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := logs.FilterField(zap.String("route", "demo")).All()
	assert.NotEmpty(t, entries)
	assert.Equal(t, "gateway", entries[0].ContextMap()["component"])
}

func clientIPOf(r *gin.Engine, remote, xff string) string {
	var ip string
	r.GET("/ip", func(c *gin.Context) { ip = c.ClientIP() })
	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = remote
	req.Header.Set("X-Forwarded-For", xff)
	r.ServeHTTP(httptest.NewRecorder(), req)
	return ip
}

func TestNewRouter_TrustedProxies(t *testing.T) {
	r := NewRouter(zap.NewNop(), Options{Name: "gateway"})
	assert.Equal(t, "198.51.100.7", clientIPOf(r, "198.51.100.7:5000", "10.9.9.9"))

	r = NewRouter(zap.NewNop(), Options{Name: "gateway", TrustedProxies: []string{"198.51.100.0/24"}})
	assert.Equal(t, "10.9.9.9", clientIPOf(r, "198.51.100.7:5000", "10.9.9.9"))

	core, logs := observer.New(zap.WarnLevel)
	r = NewRouter(zap.New(core), Options{Name: "gateway", TrustedProxies: []string{"not-an-ip"}})
	assert.Equal(t, "198.51.100.7", clientIPOf(r, "198.51.100.7:5000", "10.9.9.9"))
	assert.Equal(t, 1, logs.FilterMessage("invalid trusted proxies, trusting none").Len())
}
