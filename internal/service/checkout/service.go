package checkout

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/events"
	orderrepo "shopfront/internal/repository/order"
)

type Service struct {
	orders    orderrepo.Repository
	pricer    Pricer
	publisher events.Publisher
	logger    *log.Logger
	now       func() time.Time
}

func New(orders orderrepo.Repository, pricer Pricer, publisher events.Publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if publisher == nil {
		publisher = events.NewLogPublisher(logger)
	}
	return &Service{
		orders:    orders,
		pricer:    pricer,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Result describes a placed order.
type Result struct {
	Order     domain.Order
	ItemCount int
}

// Checkout converts the caller's cart into a pending order. Reading the cart,
// inserting the order and clearing the cart happen in one transaction that
// holds a per-user lock.
func (s *Service) Checkout(ctx context.Context, id domain.Identity) (*Result, error) {
	var res Result
	err := s.orders.WithinTx(ctx, func(tx orderrepo.Tx) error {
		if err := tx.LockUser(ctx, id.UserID); err != nil {
			return err
		}
		items, err := tx.CartItems(ctx, id.UserID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrCartEmpty
		}

		total, err := s.pricer.Total(ctx, tx, items)
		if err != nil {
			return err
		}
		total = total.Round(2)
		if total.GreaterThan(domain.MaxAmount) {
			return fmt.Errorf("%w: order total %s exceeds %s", domain.ErrInvalidInput, total.StringFixed(2), domain.MaxAmount.StringFixed(2))
		}
		order, err := tx.CreateOrder(ctx, domain.Order{
			UserID:      id.UserID,
			TotalAmount: total,
			Status:      domain.OrderStatusPending,
		})
		if err != nil {
			return err
		}
		if _, err := tx.ClearCart(ctx, id.UserID); err != nil {
			return err
		}
		res = Result{Order: *order, ItemCount: len(items)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Printf("checkout: order placed id=%s user_id=%s total=%s items=%d",
		res.Order.ID, id.UserID, res.Order.TotalAmount.StringFixed(2), res.ItemCount)
	s.publishPlaced(ctx, res)
	return &res, nil
}

func (s *Service) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// publishPlaced runs after commit; the order stands even if delivery fails.
func (s *Service) publishPlaced(ctx context.Context, res Result) {
	env, err := events.NewOrderPlaced(events.Meta{CorrelationID: events.CorrelationID(ctx)}, events.OrderPlacedPayload{
		OrderID:     res.Order.ID,
		UserID:      res.Order.UserID,
		TotalAmount: res.Order.TotalAmount,
		Status:      string(res.Order.Status),
		ItemCount:   res.ItemCount,
	}, s.now())
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil {
		s.logger.Printf("checkout: publish order.placed order_id=%s error=%v", res.Order.ID, err)
	}
}
