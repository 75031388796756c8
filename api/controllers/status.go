package controllers

import (
	"net/http"

	"github.com/greenmarket/greenmarket-backend/api/responses"
)

// StatusController serves the API root banner.
type StatusController struct{}

func NewStatusController() *StatusController {
	return &StatusController{}
}

// Root reports that the API is up and points at the main endpoints.
func (c *StatusController) Root(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]any{
		"status":  "running",
		"message": "GreenMarket API is operational",
		"endpoints": map[string]string{
			"products": "/api/products",
			"checkout": "/api/checkout",
		},
	})
}
