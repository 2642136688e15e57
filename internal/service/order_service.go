package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/queue"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/repository"
)

// defaultPaymentMethod is applied when an order does not name one.
const defaultPaymentMethod = "Mercado Pago"

// OrderService implements the ticket-order lifecycle: creation with
// atomic ticket claims, state transitions, cancellation with ticket
// release and the sales aggregate.
type OrderService struct {
	orders   OrderStore
	users    UserStore
	tickets  TicketStore
	notifier Notifier
}

// NewOrderService wires an OrderService.
func NewOrderService(orders OrderStore, users UserStore, tickets TicketStore, notifier Notifier) *OrderService {
	return &OrderService{orders: orders, users: users, tickets: tickets, notifier: notifier}
}

// CreateOrder validates the buyer and every referenced ticket, prices
// the items server-side and persists the order in pending state.  The
// repository claims the tickets in the same transaction as the order
// insert, so a concurrent sale of any item fails the whole order.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*OrderDTO, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrTicketUnavailable)
	}
	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", in.UserID, err)
	}

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		t, err := s.tickets.GetByID(ctx, it.TicketID)
		if err != nil {
			return nil, fmt.Errorf("load ticket %d: %w", it.TicketID, err)
		}
		if !t.Available {
			return nil, fmt.Errorf("%w: ticket %s", ErrTicketUnavailable, t.Code)
		}
		subtotal := t.Price.Mul(decimal.NewFromInt(int64(qty)))
		total = total.Add(subtotal)
		items = append(items, model.OrderItem{
			TicketID:     t.ID,
			TicketCode:   t.Code,
			LocationName: t.LocationName,
			Quantity:     qty,
			UnitPrice:    t.Price,
			Subtotal:     subtotal,
		})
	}

	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = defaultPaymentMethod
	}
	order := &model.Order{
		UserID:        user.ID,
		UserName:      user.FullName(),
		PaymentMethod: method,
		State:         model.StatePending,
		TotalAmount:   total,
		Items:         items,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: a ticket was sold concurrently", ErrTicketUnavailable)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	return orderToDTO(order), nil
}

// Get returns one order with its items.
func (s *OrderService) Get(ctx context.Context, id uint64) (*OrderDTO, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return orderToDTO(o), nil
}

// List returns every order, newest first.
func (s *OrderService) List(ctx context.Context) ([]OrderDTO, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return ordersToDTO(orders), nil
}

// ListByUser returns the orders of one user.  The user must exist.
func (s *OrderService) ListByUser(ctx context.Context, userID uint64) ([]OrderDTO, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ordersToDTO(orders), nil
}

// ListByState returns the orders in one purchase state.
func (s *OrderService) ListByState(ctx context.Context, raw string) ([]OrderDTO, error) {
	state, err := model.ParsePurchaseState(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidState, raw)
	}
	orders, err := s.orders.ListByState(ctx, state)
	if err != nil {
		return nil, err
	}
	return ordersToDTO(orders), nil
}

// UpdateState overwrites the order state with any valid value.
func (s *OrderService) UpdateState(ctx context.Context, id uint64, raw string) (*OrderDTO, error) {
	state, err := model.ParsePurchaseState(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidState, raw)
	}
	if err := s.orders.UpdateState(ctx, id, state); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// UpdatePaymentID attaches the gateway payment id to an order.
func (s *OrderService) UpdatePaymentID(ctx context.Context, id uint64, paymentID string) (*OrderDTO, error) {
	if err := s.orders.UpdatePaymentID(ctx, id, paymentID); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Cancel moves an order to cancelled and releases its tickets back to
// the available pool.  Cancelling an already cancelled order is a
// no-op on the tickets because the release is idempotent.
func (s *OrderService) Cancel(ctx context.Context, id uint64) (*OrderDTO, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateState(ctx, id, model.StateCancelled); err != nil {
		return nil, err
	}
	for _, it := range o.Items {
		if err := s.tickets.MarkAvailable(ctx, it.TicketID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			log.Printf("order %d: release ticket %d: %v", id, it.TicketID, err)
		}
	}
	return s.Get(ctx, id)
}

// TotalSales sums the total amounts of every approved order.
func (s *OrderService) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	orders, err := s.orders.ListByState(ctx, model.StateApproved)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range orders {
		total = total.Add(orders[i].TotalAmount)
	}
	return total, nil
}

// ProcessPurchase is the legacy direct-sale path: it marks the given
// tickets sold for the buyer identified by email when the payment
// status is positive.  Tickets that cannot be claimed are skipped.
// It returns the codes of the tickets that were sold.
func (s *OrderService) ProcessPurchase(ctx context.Context, email string, ticketIDs []uint64, status string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "", "success", "approved":
	default:
		return nil, nil
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	var codes []string
	for _, id := range ticketIDs {
		t, err := s.tickets.GetByID(ctx, id)
		if err != nil {
			log.Printf("process purchase: ticket %d: %v", id, err)
			continue
		}
		if err := s.tickets.MarkSold(ctx, id); err != nil {
			log.Printf("process purchase: mark ticket %d sold: %v", id, err)
			continue
		}
		codes = append(codes, t.Code)
	}
	if len(codes) > 0 {
		name := email
		if user != nil {
			name = user.FullName()
		}
		n := queue.Notification{
			Kind:        queue.KindPurchaseConfirmed,
			Email:       email,
			Name:        name,
			TicketCodes: codes,
			SentAt:      time.Now().UTC(),
		}
		if err := s.notifier.Publish(ctx, n); err != nil {
			log.Printf("process purchase: notify %s: %v", email, err)
		}
	}
	return codes, nil
}
