package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeResolver map[string]uint

func (f fakeResolver) Current(_ context.Context, tok string) (uint, bool) {
	uid, ok := f[tok]
	return uid, ok
}

func TestSession_SetsIdentityFromCookie(t *testing.T) {
	cookies := &Cookies{Name: "session", TTL: time.Hour}
	r := gin.New()
	r.Use(Session(fakeResolver{"good": 42}, cookies))
	r.GET("/who", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": Identity(c).UserID, "auth": Identity(c).Authenticated()})
	})

	for _, tc := range []struct {
		cookie string
		want   string
	}{
		{"good", `{"auth":true,"uid":42}`},
		{"bad", `{"auth":false,"uid":0}`},
		{"", `{"auth":false,"uid":0}`},
	} {
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		if tc.cookie != "" {
			req.AddCookie(&http.Cookie{Name: "session", Value: tc.cookie})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.JSONEq(t, tc.want, w.Body.String())
	}
}

func TestCookies_SetAndClear(t *testing.T) {
	cookies := &Cookies{Name: "session", Secure: true, SameSite: ParseSameSite("none"), TTL: time.Hour}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)

	cookies.Set(c, "tok")
	set := w.Header().Values("Set-Cookie")
	require.Len(t, set, 1)
	assert.Contains(t, set[0], "session=tok")
	assert.Contains(t, set[0], "HttpOnly")
	assert.Contains(t, set[0], "Secure")
	assert.Contains(t, set[0], "SameSite=None")
	assert.Contains(t, set[0], "Max-Age=3600")

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodDelete, "/logout", nil)
	cookies.Clear(c2)
	assert.Contains(t, w2.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestParseSameSite(t *testing.T) {
	assert.Equal(t, http.SameSiteLaxMode, ParseSameSite("Lax"))
	assert.Equal(t, http.SameSiteStrictMode, ParseSameSite("strict"))
	assert.Equal(t, http.SameSiteNoneMode, ParseSameSite("none"))
	assert.Equal(t, http.SameSiteDefaultMode, ParseSameSite(""))
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimitPerIP(0.001, 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, strings.Repeat("x", 100))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(KeyRequestID))
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) { <-c.Request.Context().Done() })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodyBytes(4))
	r.POST("/", func(c *gin.Context) {
		_, err := c.GetRawData()
		var mbe *http.MaxBytesError
		assert.ErrorAs(t, err, &mbe)
		c.Status(http.StatusBadRequest)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccessLog_MasksAndLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := gin.New()
	r.Use(AccessLog(zap.New(core)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?password=p&q=1", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	q := entries[0].ContextMap()["query"].(map[string][]string)
	assert.Equal(t, []string{"****"}, q["password"])
	assert.Equal(t, []string{"1"}, q["q"])
}
