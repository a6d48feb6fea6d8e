package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGinMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware("/metrics"))
	r.GET("/wines/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(Handler()))

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/wines/:id", "200"))
	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wines/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/wines/:id", "200"))
	if after-before != 2 {
		t.Fatalf("expected 2 requests recorded, got %v", after-before)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), "cellar_http_requests_total") {
		t.Fatalf("metrics output missing request counter")
	}
}

func TestRecordJob(t *testing.T) {
	before := testutil.ToFloat64(jobRuns.WithLabelValues("catalog_reload", "false"))
	RecordJob("catalog_reload", 10*time.Millisecond, false)
	if got := testutil.ToFloat64(jobRuns.WithLabelValues("catalog_reload", "false")); got-before != 1 {
		t.Fatalf("expected one failed run, got %v", got-before)
	}
	RecordJob("", time.Millisecond, true)
	if got := testutil.ToFloat64(jobRuns.WithLabelValues("unknown", "true")); got < 1 {
		t.Fatalf("empty job name should map to unknown")
	}
}
