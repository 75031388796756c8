package controllers

import (
	"net/http"

	"github.com/greenmarket/greenmarket-backend/api/responses"
	"github.com/greenmarket/greenmarket-backend/api/validators"
	"github.com/greenmarket/greenmarket-backend/internal/checkout"
	"github.com/greenmarket/greenmarket-backend/pkg/logger"
)

// CheckoutController turns a verified cart into a committed order.
type CheckoutController struct {
	checkout checkout.Service
	logger   *logger.Logger
}

func NewCheckoutController(service checkout.Service, logg *logger.Logger) *CheckoutController {
	return &CheckoutController{checkout: service, logger: logg}
}

type checkoutItemRequest struct {
	ID  int64 `json:"id" validate:"required,min=1"`
	Qty int   `json:"quantity" validate:"required,min=1"`
}

type checkoutRequest struct {
	Items         []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string                `json:"paymentMethod"`
}

type checkoutResponse struct {
	Success    bool  `json:"success"`
	OrderID    int64 `json:"orderId"`
	TotalCents int64 `json:"total"`
}

// Create executes the checkout transaction and returns the order receipt.
func (c *CheckoutController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkoutRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	items := make([]checkout.LineInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = checkout.LineInput{ProductID: item.ID, Qty: item.Qty}
	}

	receipt, err := c.checkout.Execute(ctx, checkout.CheckoutInput{
		Items:         items,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, checkoutResponse{
		Success:    true,
		OrderID:    receipt.OrderID,
		TotalCents: receipt.TotalCents,
	})
}
