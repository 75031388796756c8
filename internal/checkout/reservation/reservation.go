package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/greenmarket/greenmarket-backend/pkg/db/models"
	pkgerrors "github.com/greenmarket/greenmarket-backend/pkg/errors"
	"gorm.io/gorm"
)

// StockReservationRequest asks for qty units of a product.
type StockReservationRequest struct {
	ProductID int64
	Qty       int
}

// StockReservationResult reports the outcome for a single request. Available
// is only meaningful when Reserved is false.
type StockReservationResult struct {
	ProductID int64
	Qty       int
	Reserved  bool
	Available int
}

// ReserveStock decrements product stock for each request inside the caller's
// transaction. The decrement is a guarded update — the WHERE clause re-checks
// stock >= qty at write time, so two transactions racing on the same row
// cannot both pass validation and jointly over-sell. Requests that cannot be
// satisfied are reported per item; nothing is decided about rollback here,
// that is the caller's call.
func ReserveStock(ctx context.Context, tx *gorm.DB, requests []StockReservationRequest) ([]StockReservationResult, error) {
	results := make([]StockReservationResult, 0, len(requests))

	for _, req := range requests {
		if req.Qty < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity %d is not positive for product %d", req.Qty, req.ProductID))
		}

		res := tx.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ? AND stock >= ?", req.ProductID, req.Qty).
			UpdateColumn("stock", gorm.Expr("stock - ?", req.Qty))
		if res.Error != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrement stock")
		}

		if res.RowsAffected > 0 {
			results = append(results, StockReservationResult{
				ProductID: req.ProductID,
				Qty:       req.Qty,
				Reserved:  true,
			})
			continue
		}

		// The guard failed: either the row is missing or stock is short.
		var product models.Product
		if err := tx.WithContext(ctx).First(&product, "id = ?", req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Product %d not found", req.ProductID))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product stock")
		}

		results = append(results, StockReservationResult{
			ProductID: req.ProductID,
			Qty:       req.Qty,
			Reserved:  false,
			Available: product.Stock,
		})
	}

	return results, nil
}
