package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/greenmarket/greenmarket-backend/pkg/errors"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if body["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body)
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeNotFound, "Product 42 not found")
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusNotFound {
		t.Fatalf("expected status 404 but got %d", got)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if body["error"] != "Product 42 not found" {
		t.Fatalf("unexpected error message %v", body["error"])
	}
	if body["code"] != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code %v", body["code"])
	}
}

func TestWriteErrorFlattensStockDetails(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInsufficientStock, "Not enough stock for Bamboo Water Bottle").
		WithDetails(map[string]any{"productId": int64(1), "available": 2})
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if body["error"] != "Not enough stock for Bamboo Water Bottle" {
		t.Fatalf("unexpected error message %v", body["error"])
	}
	if body["productId"] != float64(1) {
		t.Fatalf("expected productId detail at top level, got %v", body["productId"])
	}
	if body["available"] != float64(2) {
		t.Fatalf("expected available detail at top level, got %v", body["available"])
	}
}

func TestWriteErrorHidesInternalMessages(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if body["error"] == "boom" {
		t.Fatalf("internal message leaked to the client: %v", body["error"])
	}
	if body["code"] != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %v", body["code"])
	}
}
