package ez

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"furrylink/internal/domain"
	mdw "furrylink/internal/transport/http/middleware"
	"furrylink/pkg/validation"
)

type resolver map[string]uint

func (r resolver) Current(_ context.Context, tok string) (uint, bool) {
	uid, ok := r[tok]
	return uid, ok
}

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()
	r := gin.New()
	r.Use(mdw.MaxBodyBytes(64), mdw.Session(resolver{"tok": 7}, &mdw.Cookies{Name: "session", TTL: time.Hour}))
	return r
}

func do(r http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.AddCookie(&http.Cookie{Name: "session", Value: "tok"})
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

func TestRegister_AuthBindAndStatus(t *testing.T) {
	r := newEngine(t)
	e := New(r, zap.NewNop())
	Register(e, Action[echoIn, gin.H]{
		Method: http.MethodPost, Path: "/echo", Binder: BindJSON, Auth: true, Status: http.StatusCreated,
		Handler: func(_ *gin.Context, who domain.Identity, in *echoIn) (gin.H, error) {
			return gin.H{"name": in.Name, "uid": who.UserID}, nil
		},
	})

	w := do(r, http.MethodPost, "/echo", `{"name":"rex"}`, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "User not authorized.", decode(t, w)["message"])

	w = do(r, http.MethodPost, "/echo", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, map[string]any{"name": "is required"}, body["details"])

	w = do(r, http.MethodPost, "/echo", `{"name":"`+strings.Repeat("x", 100)+`"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "File too large", decode(t, w)["message"])

	w = do(r, http.MethodPost, "/echo", `{"name":"rex"}`, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"name":"rex","uid":7}`, w.Body.String())
}

func TestRegister_NoContent(t *testing.T) {
	r := newEngine(t)
	Register(New(r, zap.NewNop()), Action[struct{}, struct{}]{
		Method: http.MethodDelete, Path: "/x", Binder: BindNone, Status: http.StatusNoContent,
		Handler: func(*gin.Context, domain.Identity, *struct{}) (struct{}, error) { return struct{}{}, nil },
	})
	w := do(r, http.MethodDelete, "/x", "", false)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRegister_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.NotFound("No pet found."), 404, "No pet found."},
		{domain.Unauthorized("Not authorized."), 401, "Not authorized."},
		{domain.Unauthenticated("Please log in."), 401, "Please log in."},
		{domain.InvalidArgument("Invalid status."), 400, "Invalid status."},
		{domain.Conflict("User already exists."), 400, "User already exists."},
		{errors.New("db down"), 500, "Internal Server Error"},
	}
	for _, tc := range cases {
		r := newEngine(t)
		Register(New(r, zap.NewNop()), Action[struct{}, gin.H]{
			Method: http.MethodGet, Path: "/x", Binder: BindNone,
			Handler: func(*gin.Context, domain.Identity, *struct{}) (gin.H, error) { return nil, tc.err },
		})
		w := do(r, http.MethodGet, "/x", "", false)
		assert.Equal(t, tc.code, w.Code, tc.msg)
		body := decode(t, w)
		assert.Equal(t, float64(tc.code), body["code"])
		assert.Equal(t, tc.msg, body["message"])
	}
}

func TestRegister_DeferredBindError(t *testing.T) {
	r := newEngine(t)
	Register(New(r, zap.NewNop()), Action[echoIn, gin.H]{
		Method: http.MethodPost, Path: "/x", Binder: BindNone,
		Handler: func(c *gin.Context, _ domain.Identity, in *echoIn) (gin.H, error) {
			if err := c.ShouldBindJSON(in); err != nil {
				return nil, BindError(err)
			}
			return gin.H{"name": in.Name}, nil
		},
	})

	w := do(r, http.MethodPost, "/x", `{}`, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Invalid request.", body["message"])
	assert.Equal(t, "is required", body["details"].(map[string]any)["name"])

	w = do(r, http.MethodPost, "/x", `{"name":"a"}`, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, BindError(nil))
}

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	id, err := ParamID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		c.Params = gin.Params{{Key: "id", Value: bad}}
		_, err = ParamID(c, "id")
		assert.ErrorIs(t, err, domain.ErrNotFound, bad)
	}
}
