package router

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reply(body string) HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, body)
	}
}

func TestMatchWildcardRoute(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"/download/a.csv", "/download/*", true},
		{"/download/", "/download/*", false},
		{"/download/a/b", "/download/*", true},
		{"/api/v1/generations/42", "/api/v1/generations/*", true},
		{"/api/v1/generations/42/errors", "/api/v1/generations/*/errors", true},
		{"/api/v1/generations/42/logs", "/api/v1/generations/*/errors", false},
		{"/api/v1/generations", "/api/v1/generations/*", false},
		{"/other/42", "/api/v1/generations/*", false},
	}
	for _, tt := range tests {
		t.Run(tt.path+" "+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, matchWildcardRoute(tt.path, tt.pattern))
		})
	}
}

func TestRouterDispatch(t *testing.T) {
	type call struct {
		method, route string
		code          int
	}
	var calls []call
	var logBuf bytes.Buffer
	r := New(WithLogWriter(&logBuf), WithObserver(func(method, route string, code int, _ time.Duration) {
		calls = append(calls, call{method, route, code})
	}))

	r.GET("/items", reply("list"))
	r.POST("/items", reply("create"))
	// More specific routes first
	r.GET("/items/*/errors", reply("errors"))
	r.GET("/items/*", reply("item"))
	r.DELETE("/items/*", reply("deleted"))
	r.Mount("/static/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "static")
	}))

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantBody string
		route    string
	}{
		{http.MethodGet, "/items", 200, "list", "/items"},
		{http.MethodPost, "/items", 200, "create", "/items"},
		{http.MethodGet, "/items/7/errors", 200, "errors", "/items/*/errors"},
		{http.MethodGet, "/items/7", 200, "item", "/items/*"},
		{http.MethodDelete, "/items/7", 200, "deleted", "/items/*"},
		{http.MethodPut, "/items", 405, "Method Not Allowed", ""},
		{http.MethodPut, "/items/7", 405, "Method Not Allowed", ""},
		{http.MethodGet, "/static/app.js", 200, "static", "/static/*"},
		{http.MethodGet, "/missing", 404, "Not Found", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			calls = nil
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
			require.Len(t, calls, 1)
			assert.Equal(t, call{tt.method, tt.route, tt.wantCode}, calls[0])
		})
	}

	assert.Contains(t, logBuf.String(), "/items/7/errors")
	assert.Len(t, r.Routes(), 5)
	assert.True(t, r.Paths()["/items/*"])
}

func TestWildcardRegistrationOrder(t *testing.T) {
	r := New(WithLogWriter(io.Discard))
	r.GET("/a/*", reply("generic"))
	r.GET("/a/*", reply("replaced"))
	r.POST("/a/*", reply("post"))
	r.GET("/a/*/b", reply("shadowed"))

	assert.Equal(t, []string{"/a/*", "/a/*/b"}, r.wildcards)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/a/1", nil))
	assert.Equal(t, "replaced", rec.Body.String())

	// "/a/*" matches first and swallows the longer path.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/a/1/b", nil))
	assert.Equal(t, "replaced", rec.Body.String())
}

func TestSegment(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/generations/abc", nil)
	assert.Equal(t, "api", Segment(req, 0))
	assert.Equal(t, "abc", Segment(req, 3))
	assert.Equal(t, "", Segment(req, 4))
	assert.Equal(t, "", Segment(req, -1))
}

func TestStatusWriterKeepsFirstCode(t *testing.T) {
	rec := httptest.NewRecorder()
	lrw := &loggingResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
	_, _ = lrw.Write([]byte("x"))
	lrw.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusOK, lrw.statusCode)
}

func TestServer(t *testing.T) {
	r := New(WithLogWriter(io.Discard))
	srv := r.Server(":0", time.Second, 2*time.Second)
	assert.Equal(t, ":0", srv.Addr)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
	assert.Same(t, r, srv.Handler)
}
