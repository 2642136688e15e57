package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/queue"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/repository"
)

func testUser() *model.User {
	return &model.User{
		ID:       1,
		Name:     "Ana",
		LastName: "Gomez",
		Email:    "ana@club.com",
		Role:     model.RoleUser,
		Enabled:  true,
	}
}

func testTicket(id uint64, price int64, available bool) *model.Ticket {
	return &model.Ticket{
		ID:           id,
		Code:         "TKT-0000000" + string(rune('0'+id)),
		LocationID:   10,
		LocationName: "Popular Pirata",
		Price:        decimal.NewFromInt(price),
		EventDate:    time.Date(2025, 8, 2, 15, 0, 0, 0, time.UTC),
		Available:    available,
	}
}

func newOrderFixture() (*OrderService, *fakeOrderStore, *fakeTicketStore, *fakeNotifier) {
	users := newFakeUserStore(testUser())
	tickets := newFakeTicketStore(testTicket(1, 8000, true), testTicket(2, 8000, true))
	orders := newFakeOrderStore()
	orders.tickets = tickets
	notifier := &fakeNotifier{}
	return NewOrderService(orders, users, tickets, notifier), orders, tickets, notifier
}

func TestCreateOrderPricesServerSide(t *testing.T) {
	svc, _, tickets, _ := newOrderFixture()

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: 1,
		Items: []OrderItemInput{
			{TicketID: 1, Quantity: 1},
			{TicketID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, string(model.StatePending), order.State)
	assert.Equal(t, "Ana Gomez", order.UserName)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(16000)), "total %s", order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromInt(8000)))
	assert.Equal(t, "Popular Pirata", order.Items[0].LocationName)

	// Both tickets were claimed with the order.
	t1, err := tickets.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, t1.Available)
}

func TestCreateOrderQuantityMultipliesSubtotal(t *testing.T) {
	svc, _, _, _ := newOrderFixture()

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: 1,
		Items:  []OrderItemInput{{TicketID: 1, Quantity: 3}},
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.True(t, order.Items[0].Subtotal.Equal(decimal.NewFromInt(24000)), "subtotal %s", order.Items[0].Subtotal)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(24000)))
}

func TestCreateOrderDefaultsPaymentMethod(t *testing.T) {
	svc, _, _, _ := newOrderFixture()

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: 1,
		Items:  []OrderItemInput{{TicketID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mercado Pago", order.PaymentMethod)
}

func TestCreateOrderRejectsSoldTicket(t *testing.T) {
	users := newFakeUserStore(testUser())
	tickets := newFakeTicketStore(testTicket(1, 8000, false))
	orders := newFakeOrderStore()
	svc := NewOrderService(orders, users, tickets, &fakeNotifier{})

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: 1,
		Items:  []OrderItemInput{{TicketID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrTicketUnavailable)
	assert.Empty(t, orders.orders)
}

func TestCreateOrderConcurrentClaimFails(t *testing.T) {
	svc, orders, _, _ := newOrderFixture()
	orders.createErr = repository.ErrConflict

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: 1,
		Items:  []OrderItemInput{{TicketID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrTicketUnavailable)
}

func TestCreateOrderUnknownUser(t *testing.T) {
	svc, _, _, _ := newOrderFixture()

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: 99,
		Items:  []OrderItemInput{{TicketID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCancelReleasesTicketsAndIsIdempotent(t *testing.T) {
	svc, _, tickets, _ := newOrderFixture()

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: 1,
		Items:  []OrderItemInput{{TicketID: 1, Quantity: 1}, {TicketID: 2, Quantity: 1}},
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StateCancelled), cancelled.State)

	t1, _ := tickets.GetByID(context.Background(), 1)
	t2, _ := tickets.GetByID(context.Background(), 2)
	assert.True(t, t1.Available)
	assert.True(t, t2.Available)

	// Cancelling again must not fail.
	again, err := svc.Cancel(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StateCancelled), again.State)
}

func TestTotalSalesSumsApprovedOnly(t *testing.T) {
	svc, orders, _, _ := newOrderFixture()

	orders.orders[1] = &model.Order{ID: 1, State: model.StateApproved, TotalAmount: decimal.NewFromInt(8000)}
	orders.orders[2] = &model.Order{ID: 2, State: model.StateApproved, TotalAmount: decimal.NewFromInt(4000)}
	orders.orders[3] = &model.Order{ID: 3, State: model.StatePending, TotalAmount: decimal.NewFromInt(100)}
	orders.orders[4] = &model.Order{ID: 4, State: model.StateCancelled, TotalAmount: decimal.NewFromInt(500)}

	total, err := svc.TotalSales(context.Background())
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(12000)), "total %s", total)
}

func TestUpdateStateRejectsUnknownValue(t *testing.T) {
	svc, orders, _, _ := newOrderFixture()
	orders.orders[1] = &model.Order{ID: 1, State: model.StatePending}

	_, err := svc.UpdateState(context.Background(), 1, "shipped")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestProcessPurchaseMarksSoldAndNotifies(t *testing.T) {
	svc, _, tickets, notifier := newOrderFixture()

	codes, err := svc.ProcessPurchase(context.Background(), "ana@club.com", []uint64{1, 2, 99}, "success")
	require.NoError(t, err)
	assert.Len(t, codes, 2)

	t1, _ := tickets.GetByID(context.Background(), 1)
	assert.False(t, t1.Available)

	require.Len(t, notifier.published, 1)
	n := notifier.published[0]
	assert.Equal(t, queue.KindPurchaseConfirmed, n.Kind)
	assert.Equal(t, "ana@club.com", n.Email)
	assert.Equal(t, codes, n.TicketCodes)
}

func TestProcessPurchaseIgnoresFailedPayment(t *testing.T) {
	svc, _, tickets, notifier := newOrderFixture()

	codes, err := svc.ProcessPurchase(context.Background(), "ana@club.com", []uint64{1}, "failure")
	require.NoError(t, err)
	assert.Empty(t, codes)
	assert.Empty(t, notifier.published)

	t1, _ := tickets.GetByID(context.Background(), 1)
	assert.True(t, t1.Available)
}
