package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/greenmarket/greenmarket-backend/internal/catalog"
	"github.com/greenmarket/greenmarket-backend/internal/checkout/reservation"
	"github.com/greenmarket/greenmarket-backend/internal/orders"
	"github.com/greenmarket/greenmarket-backend/pkg/db/models"
	"github.com/greenmarket/greenmarket-backend/pkg/enums"
	pkgerrors "github.com/greenmarket/greenmarket-backend/pkg/errors"
	"github.com/greenmarket/greenmarket-backend/pkg/metrics"
	"gorm.io/gorm"
)

// DefaultPaymentMethod is recorded when the client does not send one.
const DefaultPaymentMethod = "unknown"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type reservationRunner interface {
	Reserve(ctx context.Context, tx *gorm.DB, requests []reservation.StockReservationRequest) ([]reservation.StockReservationResult, error)
}

type reservationEngine struct{}

func (reservationEngine) Reserve(ctx context.Context, tx *gorm.DB, requests []reservation.StockReservationRequest) ([]reservation.StockReservationResult, error) {
	return reservation.ReserveStock(ctx, tx, requests)
}

// LineInput is one requested product/quantity pair.
type LineInput struct {
	ProductID int64
	Qty       int
}

// CheckoutInput carries the cart to purchase and how it is paid.
type CheckoutInput struct {
	Items         []LineInput
	PaymentMethod string
}

// Receipt identifies the committed order.
type Receipt struct {
	OrderID    int64
	TotalCents int64
}

// Service executes the checkout transaction.
type Service interface {
	Execute(ctx context.Context, input CheckoutInput) (*Receipt, error)
}

type service struct {
	tx          txRunner
	products    *catalog.Repository
	ordersRepo  orders.Repository
	reservation reservationRunner
	metrics     *metrics.CheckoutMetrics
}

// NewService builds the checkout service. Metrics may be nil.
func NewService(tx txRunner, products *catalog.Repository, ordersRepo orders.Repository, checkoutMetrics *metrics.CheckoutMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{
		tx:          tx,
		products:    products,
		ordersRepo:  ordersRepo,
		reservation: reservationEngine{},
		metrics:     checkoutMetrics,
	}, nil
}

// Execute validates stock, captures prices, persists the order with its line
// items, and decrements inventory — all inside one transaction. Any failure
// rolls everything back; no partial order or partial decrement is ever
// observable.
func (s *service) Execute(ctx context.Context, input CheckoutInput) (*Receipt, error) {
	start := time.Now()

	receipt, err := s.execute(ctx, input)

	outcome := "success"
	if err != nil {
		outcome = "failure"
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeInsufficientStock {
			s.metrics.IncRejection("insufficient_stock")
		}
	} else {
		s.metrics.IncOrders()
	}
	s.metrics.ObserveDuration(outcome, time.Since(start))

	return receipt, err
}

func (s *service) execute(ctx context.Context, input CheckoutInput) (*Receipt, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}
	for _, item := range input.Items {
		if item.Qty < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity %d is not positive for product %d", item.Qty, item.ProductID))
		}
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	var receipt *Receipt
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		// Price capture happens inside the transaction so the order records
		// exactly what the decrement was validated against.
		loaded := make(map[int64]*models.Product, len(input.Items))
		requests := make([]reservation.StockReservationRequest, len(input.Items))
		for i, item := range input.Items {
			product, err := products.FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			loaded[item.ProductID] = product
			requests[i] = reservation.StockReservationRequest{
				ProductID: item.ProductID,
				Qty:       item.Qty,
			}
		}

		reservations, err := s.reservation.Reserve(ctx, tx, requests)
		if err != nil {
			return err
		}
		for _, res := range reservations {
			if res.Reserved {
				continue
			}
			product := loaded[res.ProductID]
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("Not enough stock for %s", product.Name)).
				WithDetails(map[string]any{
					"productId": res.ProductID,
					"available": res.Available,
				})
		}

		var total int64
		for _, item := range input.Items {
			total += loaded[item.ProductID].PriceCents * int64(item.Qty)
		}

		order := &models.Order{
			TotalCents:    total,
			PaymentMethod: paymentMethod,
			Status:        enums.OrderStatusProcessing,
		}
		created, err := ordersRepo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		items := make([]models.OrderItem, len(input.Items))
		for i, item := range input.Items {
			items[i] = models.OrderItem{
				OrderID:        created.ID,
				ProductID:      item.ProductID,
				Qty:            item.Qty,
				UnitPriceCents: loaded[item.ProductID].PriceCents,
			}
		}
		if err := ordersRepo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		receipt = &Receipt{OrderID: created.ID, TotalCents: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}
