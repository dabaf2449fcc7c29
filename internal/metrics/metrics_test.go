package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// インターフェース適合の確認
var _ MetricsCollector = (*Collector)(nil)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("scrape status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	return w.Body.String()
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest(http.MethodGet, "/api/article", 200, 15*time.Millisecond)
	c.RecordHTTPRequest(http.MethodGet, "/api/article", 200, 5*time.Millisecond)
	c.RecordHTTPRequest(http.MethodPost, "/api/article", 400, 2*time.Millisecond)

	body := scrape(t, reg)

	if !strings.Contains(body, `pressbox_http_requests_total{method="GET",route="/api/article",status_code="200"} 2`) {
		t.Errorf("missing GET 200 counter:\n%s", body)
	}
	if !strings.Contains(body, `pressbox_http_requests_total{method="POST",route="/api/article",status_code="400"} 1`) {
		t.Errorf("missing POST 400 counter:\n%s", body)
	}
	if !strings.Contains(body, "pressbox_http_request_duration_seconds") {
		t.Error("missing latency histogram")
	}
}

func TestCollector_RecordImageUploads(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordImageUploadSuccess(3)
	c.RecordImageUploadFailure()
	c.RecordUploadBytes(1024)

	body := scrape(t, reg)

	if !strings.Contains(body, "pressbox_image_upload_success_total 3") {
		t.Errorf("missing upload success counter:\n%s", body)
	}
	if !strings.Contains(body, "pressbox_image_upload_fail_total 1") {
		t.Errorf("missing upload failure counter:\n%s", body)
	}
	if !strings.Contains(body, "pressbox_image_upload_bytes_total 1024") {
		t.Errorf("missing upload bytes counter:\n%s", body)
	}
}

func TestCollector_RecordLogin(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin(true)
	c.RecordLogin(true)
	c.RecordLogin(false)

	body := scrape(t, reg)

	if !strings.Contains(body, `pressbox_login_attempts_total{result="success"} 2`) {
		t.Errorf("missing login success counter:\n%s", body)
	}
	if !strings.Contains(body, `pressbox_login_attempts_total{result="failure"} 1`) {
		t.Errorf("missing login failure counter:\n%s", body)
	}
}

// ルートラベルにはchiのマッチ済みルートパターンが使われる。
func TestMiddleware_RecordsStatusAndRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := chi.NewRouter()
	r.Use(c.Middleware())
	r.Post("/api/users/{action}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/users/signup", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	body := scrape(t, reg)

	if !strings.Contains(body, `pressbox_http_requests_total{method="POST",route="/api/users/{action}",status_code="201"} 1`) {
		t.Errorf("missing middleware-recorded counter:\n%s", body)
	}
}

// WriteHeaderが呼ばれないままボディが書かれた場合は200として記録される。
func TestMiddleware_ImplicitOK(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := chi.NewRouter()
	r.Use(c.Middleware())
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	body := scrape(t, reg)

	if !strings.Contains(body, `pressbox_http_requests_total{method="GET",route="/",status_code="200"} 1`) {
		t.Errorf("missing implicit 200 counter:\n%s", body)
	}
}

// chiルーター外で使われた場合はunmatchedとして記録される。
func TestMiddleware_OutsideRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	handler := c.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	body := scrape(t, reg)

	if !strings.Contains(body, `pressbox_http_requests_total{method="GET",route="unmatched",status_code="404"} 1`) {
		t.Errorf("missing unmatched counter:\n%s", body)
	}
}
