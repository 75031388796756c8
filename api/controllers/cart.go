package controllers

import (
	"net/http"

	"github.com/greenmarket/greenmarket-backend/api/responses"
	"github.com/greenmarket/greenmarket-backend/api/validators"
	"github.com/greenmarket/greenmarket-backend/internal/cart"
	"github.com/greenmarket/greenmarket-backend/pkg/logger"
)

// CartController verifies shopper carts against live stock.
type CartController struct {
	cart   cart.Service
	logger *logger.Logger
}

func NewCartController(service cart.Service, logg *logger.Logger) *CartController {
	return &CartController{cart: service, logger: logg}
}

type cartItemRequest struct {
	ID  int64 `json:"id" validate:"required,min=1"`
	Qty int   `json:"quantity" validate:"min=0"`
}

type verifyCartRequest struct {
	Items []cartItemRequest `json:"items" validate:"required,dive"`
}

type verifiedItemResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price"`
	Image      string `json:"image"`
	Qty        int    `json:"quantity"`
	MaxStock   int    `json:"max_stock"`
}

type verifyCartResponse struct {
	Valid   bool                   `json:"valid"`
	Cart    []verifiedItemResponse `json:"cart"`
	Message string                 `json:"message"`
}

// Verify clamps requested quantities to what is actually in stock and tells
// the client whether anything was adjusted. Nothing is reserved or mutated.
func (c *CartController) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyCartRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	items := make([]cart.ItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = cart.ItemInput{ProductID: item.ID, Qty: item.Qty}
	}

	result, err := c.cart.Verify(ctx, items)
	if err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	out := verifyCartResponse{
		Valid:   result.Valid,
		Cart:    make([]verifiedItemResponse, len(result.Items)),
		Message: result.Message,
	}
	for i, item := range result.Items {
		out.Cart[i] = verifiedItemResponse{
			ID:         item.ProductID,
			Name:       item.Name,
			PriceCents: item.PriceCents,
			Image:      item.Image,
			Qty:        item.Qty,
			MaxStock:   item.MaxStock,
		}
	}

	responses.WriteSuccess(w, out)
}
