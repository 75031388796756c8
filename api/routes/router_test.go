package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/greenmarket/greenmarket-backend/api/controllers"
	"github.com/greenmarket/greenmarket-backend/pkg/logger"
)

func newBareRouter(metrics prometheus.Gatherer) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return New(Deps{
		Logger:   logg,
		Status:   controllers.NewStatusController(),
		Health:   controllers.NewHealthController(nil, nil, logg),
		Products: controllers.NewProductsController(nil, logg),
		Cart:     controllers.NewCartController(nil, logg),
		Checkout: controllers.NewCheckoutController(nil, logg),
		Metrics:  metrics,
	})
}

func TestMetricsRouteOnlyWithGatherer(t *testing.T) {
	t.Parallel()

	withMetrics := newBareRouter(prometheus.NewRegistry())
	w := httptest.NewRecorder()
	withMetrics.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", w.Code)
	}

	withoutMetrics := newBareRouter(nil)
	w = httptest.NewRecorder()
	withoutMetrics.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without gatherer, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	handler := newBareRouter(nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard CORS origin, got %q", got)
	}
}
