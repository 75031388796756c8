package cart

import (
	"context"
	"fmt"

	"github.com/greenmarket/greenmarket-backend/pkg/db/models"
)

const (
	messageVerified = "Stock verified"
	messageAdjusted = "Some items adjusted to available stock"
)

type productFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

// ItemInput is a client-requested product/quantity pair.
type ItemInput struct {
	ProductID int64
	Qty       int
}

// VerifiedItem is a cart line clamped against live stock.
type VerifiedItem struct {
	ProductID  int64
	Name       string
	PriceCents int64
	Image      string
	Qty        int
	MaxStock   int
}

// VerificationResult reports whether every requested quantity was fully
// satisfiable and the clamped cart to present to the shopper.
type VerificationResult struct {
	Valid   bool
	Items   []VerifiedItem
	Message string
}

// Service verifies carts against live stock without mutating anything.
type Service interface {
	Verify(ctx context.Context, items []ItemInput) (*VerificationResult, error)
}

type service struct {
	products productFinder
}

// NewService builds the cart verification service.
func NewService(products productFinder) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{products: products}, nil
}

// Verify clamps each requested quantity to available stock and reports whether
// any adjustment was needed. Missing products fail the whole verification.
func (s *service) Verify(ctx context.Context, items []ItemInput) (*VerificationResult, error) {
	verified := make([]VerifiedItem, 0, len(items))
	valid := true

	for _, item := range items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		available := item.Qty
		if available > product.Stock {
			available = product.Stock
		}
		if available < 0 {
			available = 0
		}

		verified = append(verified, VerifiedItem{
			ProductID:  product.ID,
			Name:       product.Name,
			PriceCents: product.PriceCents,
			Image:      product.Image,
			Qty:        available,
			MaxStock:   product.Stock,
		})

		if available != item.Qty {
			valid = false
		}
	}

	message := messageVerified
	if !valid {
		message = messageAdjusted
	}

	return &VerificationResult{
		Valid:   valid,
		Items:   verified,
		Message: message,
	}, nil
}
