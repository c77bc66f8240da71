package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"shop-microservices/internal/core/auth"
	"shop-microservices/internal/testutil"
)

func init() { gin.SetMode(gin.TestMode) }

// echoHeaders 把收到的身份头原样返回
func echoHeaders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":    c.Request.Header.Get(HeaderUserID),
		"email": c.Request.Header.Get(HeaderUserEmail),
		"role":  c.Request.Header.Get(HeaderUserRole),
	})
}

func do(r http.Handler, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func newJWTer(t *testing.T) *auth.JWTer {
	k := testutil.RSAKey(t)
	return &auth.JWTer{PrivateKey: k, PublicKey: &k.PublicKey, TTL: time.Hour}
}

func TestAuthJWT(t *testing.T) {
	j := newJWTer(t)
	public := func(p string) bool { return p == "/open" }

	r := gin.New()
	r.Use(AuthJWT(j, public))
	r.GET("/open", echoHeaders)
	r.GET("/secure", echoHeaders)

	tok, err := j.Issue(42, "ana@shop.com", "ROLE_ADMIN")
	require.NoError(t, err)

	t.Run("valid token injects identity", func(t *testing.T) {
		w := do(r, http.MethodGet, "/secure", map[string]string{"Authorization": "Bearer " + tok})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{"id": "42", "email": "ana@shop.com", "role": "ROLE_ADMIN"}, decode(t, w))
	})

	t.Run("scheme is case-insensitive", func(t *testing.T) {
		w := do(r, http.MethodGet, "/secure", map[string]string{"Authorization": "bearer " + tok})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := do(r, http.MethodGet, "/secure", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "missing bearer token", decode(t, w)["message"])
	})

	t.Run("token from another key", func(t *testing.T) {
		other := newJWTer(t)
		bad, err := other.Issue(42, "ana@shop.com", "ROLE_ADMIN")
		require.NoError(t, err)
		w := do(r, http.MethodGet, "/secure", map[string]string{"Authorization": "Bearer " + bad})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("spoofed headers never pass on public path", func(t *testing.T) {
		w := do(r, http.MethodGet, "/open", map[string]string{HeaderUserID: "1", HeaderUserRole: "ROLE_ADMIN"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{"id": "", "email": "", "role": ""}, decode(t, w))
	})

	t.Run("spoofed headers replaced by token identity", func(t *testing.T) {
		w := do(r, http.MethodGet, "/secure", map[string]string{
			"Authorization": "Bearer " + tok,
			HeaderUserID:    "1",
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "42", decode(t, w)["id"])
	})
}

func TestIdentity(t *testing.T) {
	r := gin.New()
	r.Use(Identity())
	r.GET("/", func(c *gin.Context) {
		uid, ok := c.Get(KeyUserID)
		c.JSON(http.StatusOK, gin.H{"ok": ok, "uid": uid, "role": c.GetString(KeyRole)})
	})

	w := do(r, http.MethodGet, "/", map[string]string{HeaderUserID: "7", HeaderUserRole: "ROLE_USER"})
	require.Equal(t, http.StatusOK, w.Code)
	m := decode(t, w)
	assert.Equal(t, true, m["ok"])
	assert.Equal(t, float64(7), m["uid"])
	assert.Equal(t, "ROLE_USER", m["role"])

	w = do(r, http.MethodGet, "/", nil)
	assert.Equal(t, false, decode(t, w)["ok"])

	for _, bad := range []string{"abc", "0", "-3"} {
		w = do(r, http.MethodGet, "/", map[string]string{HeaderUserID: bad})
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.Request.Header.Get(KeyRequestID)) })

	w := do(r, http.MethodGet, "/", map[string]string{KeyRequestID: "abc"})
	assert.Equal(t, "abc", w.Header().Get(KeyRequestID))
	assert.Equal(t, "abc", w.Body.String())

	w = do(r, http.MethodGet, "/", nil)
	rid := w.Header().Get(KeyRequestID)
	assert.Len(t, rid, 36)
	assert.Equal(t, rid, w.Body.String())
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(0.001, 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, do(r, http.MethodGet, "/", nil).Code)
	}
	assert.Equal(t, []int{204, 204, 429}, codes)
}

func TestRateLimitPerIP_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(nil))
	r.Use(RateLimitPerIP(1, 1))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	passed := 0
	for i := range 20 {
		w := do(r, http.MethodGet, "/", map[string]string{"X-Forwarded-For": fmt.Sprintf("10.0.0.%d", i)})
		if w.Code == http.StatusNoContent {
			passed++
		}
	}
	assert.Equal(t, 1, passed)
}

func TestIPLimiter_EvictsIdleBuckets(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newIPLimiter(1, 1, time.Minute, func() time.Time { return now })

	assert.True(t, l.allow("1.1.1.1"))
	assert.False(t, l.allow("1.1.1.1"))
	assert.True(t, l.allow("2.2.2.2"))
	assert.Equal(t, 2, l.size())

	now = now.Add(30 * time.Second)
	assert.True(t, l.allow("3.3.3.3"))
	assert.Equal(t, 3, l.size())

	// 1.1.1.1 与 2.2.2.2 已空闲满一分钟，3.3.3.3 只空闲 30 秒
	now = now.Add(30 * time.Second)
	assert.True(t, l.allow("4.4.4.4"))
	assert.Equal(t, 2, l.size())
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := do(r, http.MethodGet, "/boom", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "/boom", decode(t, w)["path"])
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodyBytes(8))
	r.POST("/", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var mbe *http.MaxBytesError
		c.JSON(http.StatusOK, gin.H{"tooLarge": err != nil && errors.As(err, &mbe)})
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(strings.Repeat("x", 32)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, true, decode(t, w)["tooLarge"])
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/items/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	do(r, http.MethodGet, "/items/3?token=secret&q=1", nil)
	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "/items/:id", ctx["path"])
	assert.Equal(t, int64(200), ctx["status"])
	assert.Equal(t, url.Values{"token": {"****"}, "q": {"1"}}, ctx["query"])
	assert.Equal(t, int64(2), ctx["size"])
}

func TestAccessLog_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(AccessLog(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	do(r, http.MethodGet, "/boom", nil)
	do(r, http.MethodGet, "/missing", nil)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zap.ErrorLevel, logs.All()[0].Level)
	assert.Equal(t, zap.WarnLevel, logs.All()[1].Level)
	assert.Equal(t, "/missing", logs.All()[1].ContextMap()["path"])
	assert.NotContains(t, logs.All()[1].ContextMap(), "query")
}

func TestRouteOf_Unmatched(t *testing.T) {
	var got []string
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Next(); got = append(got, routeOf(c)) })
	r.GET("/items/:id", func(c *gin.Context) {})

	do(r, http.MethodGet, "/items/9", nil)
	do(r, http.MethodGet, "/nope/9", nil)
	assert.Equal(t, []string{"/items/:id", unmatchedRoute}, got)
}
