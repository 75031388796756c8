package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/greenmarket/greenmarket-backend/api/controllers"
	"github.com/greenmarket/greenmarket-backend/api/routes"
	"github.com/greenmarket/greenmarket-backend/internal/cart"
	"github.com/greenmarket/greenmarket-backend/internal/catalog"
	"github.com/greenmarket/greenmarket-backend/internal/checkout"
	"github.com/greenmarket/greenmarket-backend/internal/orders"
	"github.com/greenmarket/greenmarket-backend/pkg/db"
	"github.com/greenmarket/greenmarket-backend/pkg/db/models"
	"github.com/greenmarket/greenmarket-backend/pkg/logger"
)

func newTestRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	dsn := "file:controllers_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client := db.NewFromGorm(conn)
	catalogRepo := catalog.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)

	cartService, err := cart.NewService(catalogRepo)
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}
	checkoutService, err := checkout.NewService(client, catalogRepo, ordersRepo, nil)
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}

	handler := routes.New(routes.Deps{
		Logger:   logg,
		Status:   controllers.NewStatusController(),
		Health:   controllers.NewHealthController(client, nil, logg),
		Products: controllers.NewProductsController(catalogRepo, logg),
		Cart:     controllers.NewCartController(cartService, logg),
		Checkout: controllers.NewCheckoutController(checkoutService, logg),
	})
	return handler, conn
}

func seedProduct(t *testing.T, conn *gorm.DB, name string, priceCents int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		PriceCents:  priceCents,
		Category:    "Kitchen",
		Image:       "https://example.com/img.jpg",
		Description: "test product",
		Stock:       stock,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	decoded := map[string]any{}
	if w.Body.Len() > 0 {
		raw := w.Body.Bytes()
		if raw[0] == '{' {
			if err := json.Unmarshal(raw, &decoded); err != nil {
				t.Fatalf("decode response: %v", err)
			}
		}
	}
	return w, decoded
}

func TestRootStatus(t *testing.T) {
	t.Parallel()

	handler, _ := newTestRouter(t)
	w, body := doJSON(t, handler, http.MethodGet, "/", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["status"] != "running" {
		t.Fatalf("unexpected status: %v", body["status"])
	}
	if body["message"] != "GreenMarket API is operational" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	endpoints, ok := body["endpoints"].(map[string]any)
	if !ok || endpoints["products"] != "/api/products" {
		t.Fatalf("unexpected endpoints: %v", body["endpoints"])
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	handler, _ := newTestRouter(t)

	w, _ := doJSON(t, handler, http.MethodGet, "/health/live", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", w.Code)
	}
	w, body := doJSON(t, handler, http.MethodGet, "/health/ready", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", w.Code)
	}
	if body["status"] != "ready" {
		t.Fatalf("unexpected ready payload: %v", body)
	}
}

func TestListProducts(t *testing.T) {
	t.Parallel()

	handler, conn := newTestRouter(t)
	seedProduct(t, conn, "Bamboo Water Bottle", 999, 10)
	seedProduct(t, conn, "Organic Cotton Tote", 349, 20)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var list []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 products, got %d", len(list))
	}
	first := list[0]
	if first["name"] != "Bamboo Water Bottle" || first["price"] != float64(999) || first["stock"] != float64(10) {
		t.Fatalf("unexpected first product: %v", first)
	}
	for _, key := range []string{"id", "category", "image", "description"} {
		if _, ok := first[key]; !ok {
			t.Fatalf("missing %q field in %v", key, first)
		}
	}
}

func TestProductDetail(t *testing.T) {
	t.Parallel()

	handler, conn := newTestRouter(t)
	bottle := seedProduct(t, conn, "Bamboo Water Bottle", 999, 10)

	w, body := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/products/%d", bottle.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["name"] != "Bamboo Water Bottle" {
		t.Fatalf("unexpected product: %v", body)
	}

	w, body = doJSON(t, handler, http.MethodGet, "/api/products/999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing product: expected 404, got %d", w.Code)
	}
	if body["error"] == "" {
		t.Fatalf("expected error message, got %v", body)
	}

	// Non-numeric ids behave like missing products.
	w, _ = doJSON(t, handler, http.MethodGet, "/api/products/abc", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("non-numeric id: expected 404, got %d", w.Code)
	}
}

func TestProductStock(t *testing.T) {
	t.Parallel()

	handler, conn := newTestRouter(t)
	inStock := seedProduct(t, conn, "Bamboo Water Bottle", 999, 10)
	soldOut := seedProduct(t, conn, "Organic Cotton Tote", 349, 0)

	w, body := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/products/%d/stock", inStock.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["available"] != true || body["stock"] != float64(10) {
		t.Fatalf("unexpected stock payload: %v", body)
	}

	_, body = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/products/%d/stock", soldOut.ID), nil)
	if body["available"] != false || body["stock"] != float64(0) {
		t.Fatalf("unexpected sold-out payload: %v", body)
	}
}

func TestVerifyCart(t *testing.T) {
	t.Parallel()

	handler, conn := newTestRouter(t)
	bottle := seedProduct(t, conn, "Bamboo Water Bottle", 999, 3)

	w, body := doJSON(t, handler, http.MethodPost, "/api/cart/verify", map[string]any{
		"items": []map[string]any{{"id": bottle.ID, "quantity": 5}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["valid"] != false {
		t.Fatalf("expected invalid cart, got %v", body)
	}
	if body["message"] != "Some items adjusted to available stock" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	items, ok := body["cart"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("unexpected cart: %v", body["cart"])
	}
	line := items[0].(map[string]any)
	if line["quantity"] != float64(3) || line["max_stock"] != float64(3) {
		t.Fatalf("unexpected clamped line: %v", line)
	}
	if line["price"] != float64(999) {
		t.Fatalf("unexpected price: %v", line["price"])
	}

	w, _ = doJSON(t, handler, http.MethodPost, "/api/cart/verify", map[string]any{
		"items": []map[string]any{{"id": 999, "quantity": 1}},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown product: expected 404, got %d", w.Code)
	}
}

func TestCheckout(t *testing.T) {
	t.Parallel()

	handler, conn := newTestRouter(t)
	bottle := seedProduct(t, conn, "Bamboo Water Bottle", 999, 10)

	w, body := doJSON(t, handler, http.MethodPost, "/api/checkout", map[string]any{
		"items":         []map[string]any{{"id": bottle.ID, "quantity": 2}},
		"paymentMethod": "card",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if body["success"] != true {
		t.Fatalf("expected success payload, got %v", body)
	}
	if body["total"] != float64(2*999) {
		t.Fatalf("unexpected total: %v", body["total"])
	}
	if body["orderId"] == nil {
		t.Fatalf("expected orderId, got %v", body)
	}

	var reloaded models.Product
	if err := conn.First(&reloaded, "id = ?", bottle.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.Stock != 8 {
		t.Fatalf("unexpected stock after checkout: %d", reloaded.Stock)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	t.Parallel()

	handler, conn := newTestRouter(t)
	bottle := seedProduct(t, conn, "Bamboo Water Bottle", 999, 2)

	w, body := doJSON(t, handler, http.MethodPost, "/api/checkout", map[string]any{
		"items": []map[string]any{{"id": bottle.ID, "quantity": 3}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if body["error"] != "Not enough stock for Bamboo Water Bottle" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
	if body["productId"] != float64(bottle.ID) {
		t.Fatalf("expected productId detail, got %v", body)
	}
	if body["available"] != float64(2) {
		t.Fatalf("expected available detail, got %v", body)
	}

	var orderCount int64
	if err := conn.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected no orders, got %d", orderCount)
	}
}

func TestCheckoutRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	handler, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed json: expected 400, got %d", w.Code)
	}

	w, _ = doJSON(t, handler, http.MethodPost, "/api/checkout", map[string]any{
		"items": []map[string]any{},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty cart: expected 400, got %d", w.Code)
	}
}

func TestCheckoutMissingProduct(t *testing.T) {
	t.Parallel()

	handler, _ := newTestRouter(t)

	w, _ := doJSON(t, handler, http.MethodPost, "/api/checkout", map[string]any{
		"items": []map[string]any{{"id": 999, "quantity": 1}},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
