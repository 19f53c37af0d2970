package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	c := qt.New(t)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(g *gin.Context) { g.String(http.StatusOK, g.GetString(KeyRequestID)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	c.Assert(w.Header().Get(KeyRequestID), qt.Not(qt.Equals), "")
	c.Assert(w.Body.String(), qt.Equals, w.Header().Get(KeyRequestID))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(KeyRequestID, "rid-42")
	w = serve(r, req)
	c.Assert(w.Header().Get(KeyRequestID), qt.Equals, "rid-42")
}

func TestRequestIDRejectsUnsafeValues(t *testing.T) {
	c := qt.New(t)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(g *gin.Context) { g.String(http.StatusOK, RequestIDOf(g)) })

	for _, rid := range []string{
		strings.Repeat("a", 65),
		"bad id",
		"rid\r\nX-Injected: 1",
		"<script>",
	} {
		c.Run(rid, func(c *qt.C) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header[http.CanonicalHeaderKey(KeyRequestID)] = []string{rid}
			w := serve(r, req)
			got := w.Header().Get(KeyRequestID)
			c.Assert(got, qt.Not(qt.Equals), rid)
			c.Assert(got, qt.HasLen, 36)
			c.Assert(w.Body.String(), qt.Equals, got)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(KeyRequestID, strings.Repeat("a", 64))
	c.Assert(serve(r, req).Header().Get(KeyRequestID), qt.Equals, strings.Repeat("a", 64))
}

func TestMetricsLabelsEngine(t *testing.T) {
	c := qt.New(t)
	r := gin.New()
	r.Use(Metrics("admin"))
	r.GET("/users/:id", func(g *gin.Context) { g.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	serve(r, httptest.NewRequest(http.MethodGet, "/users/3", nil))
	w := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	c.Assert(w.Body.String(), qt.Contains, `http_requests_total{engine="admin",method="GET",path="/users/:id",status="204"} 1`)
}

func TestRateLimitRejectsOverBurst(t *testing.T) {
	c := qt.New(t)
	r := gin.New()
	r.Use(RateLimit(0.001, 1))
	r.GET("/x", func(g *gin.Context) { g.Status(http.StatusOK) })

	c.Assert(serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code, qt.Equals, http.StatusOK)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	c.Assert(w.Code, qt.Equals, http.StatusTooManyRequests)
	c.Assert(w.Body.String(), qt.Equals, `{"message":"too many requests"}`)
}

func TestRateLimitPerIPIsolatesClients(t *testing.T) {
	c := qt.New(t)
	r := gin.New()
	r.Use(RateLimitPerIP(0.001, 1))
	r.GET("/x", func(g *gin.Context) { g.Status(http.StatusOK) })

	from := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = ip + ":5555"
		return serve(r, req).Code
	}
	c.Assert(from("10.0.0.1"), qt.Equals, http.StatusOK)
	c.Assert(from("10.0.0.1"), qt.Equals, http.StatusTooManyRequests)
	c.Assert(from("10.0.0.2"), qt.Equals, http.StatusOK)
}

func TestMaxBodyBytes(t *testing.T) {
	c := qt.New(t)
	r := gin.New()
	r.Use(MaxBodyBytes(8))
	r.POST("/x", func(g *gin.Context) {
		if _, err := io.ReadAll(g.Request.Body); err != nil {
			g.Status(http.StatusRequestEntityTooLarge)
			return
		}
		g.Status(http.StatusOK)
	})

	c.Assert(serve(r, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("short"))).Code, qt.Equals, http.StatusOK)
	w := serve(r, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("much too long")))
	c.Assert(w.Code, qt.Equals, http.StatusRequestEntityTooLarge)
}

func TestTimeoutWritesGatewayTimeout(t *testing.T) {
	c := qt.New(t)
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(g *gin.Context) { <-g.Request.Context().Done() })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	c.Assert(w.Code, qt.Equals, http.StatusGatewayTimeout)
	c.Assert(w.Body.String(), qt.Equals, `{"message":"timeout"}`)
}

func TestConcurrencyLimitPassesThrough(t *testing.T) {
	c := qt.New(t)
	r := gin.New()
	r.Use(ConcurrencyLimit(1))
	r.GET("/x", func(g *gin.Context) { g.Status(http.StatusNoContent) })
	for i := 0; i < 3; i++ {
		c.Assert(serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code, qt.Equals, http.StatusNoContent)
	}
}

func TestAccessLogLevelsAndMasking(t *testing.T) {
	c := qt.New(t)
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/appointments/:id", func(g *gin.Context) { g.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/appointments/7?token=abc", nil)
	req.Header.Set(KeyRequestID, "rid-1")
	serve(r, req)

	entries := logs.All()
	c.Assert(entries, qt.HasLen, 1)
	e := entries[0]
	c.Assert(e.Level, qt.Equals, zapcore.WarnLevel)
	fields := e.ContextMap()
	c.Assert(fields["rid"], qt.Equals, "rid-1")
	c.Assert(fields["path"], qt.Equals, "/appointments/:id")
	c.Assert(fields["status"], qt.Equals, int64(404))
	c.Assert(fields["query"], qt.DeepEquals, map[string][]string{"token": {"****"}})
}
