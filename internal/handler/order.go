package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/service"
)

// OrderHandler exposes the ticket-order lifecycle.
type OrderHandler struct {
	Orders *service.OrderService
}

func NewOrderHandler(o *service.OrderService) *OrderHandler {
	return &OrderHandler{Orders: o}
}

// Create places an order for the authenticated user.  The user id in
// the body is ignored in favor of the token subject.
func (h *OrderHandler) Create(c echo.Context) error {
	var req service.CreateOrderInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	req.UserID = uid
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "items required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	order, err := h.Orders.CreateOrder(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// Get returns one order.
func (h *OrderHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	order, err := h.Orders.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// List returns all orders.
func (h *OrderHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	orders, err := h.Orders.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// ListByState returns the orders currently in the given state.
func (h *OrderHandler) ListByState(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	orders, err := h.Orders.ListByState(ctx, c.Param("state"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// Mine returns the authenticated user's orders.
func (h *OrderHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	orders, err := h.Orders.ListByUser(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// ListByUser returns the orders of an arbitrary user (admin view).
func (h *OrderHandler) ListByUser(c echo.Context) error {
	uid, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	orders, err := h.Orders.ListByUser(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

type updateStateReq struct {
	State string `json:"state"`
}

// UpdateState overwrites the order state.
func (h *OrderHandler) UpdateState(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateStateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	order, err := h.Orders.UpdateState(ctx, id, req.State)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

type updatePaymentReq struct {
	PaymentID string `json:"payment_id"`
}

// UpdatePayment attaches a gateway payment id.
func (h *OrderHandler) UpdatePayment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updatePaymentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.PaymentID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_id required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	order, err := h.Orders.UpdatePaymentID(ctx, id, strings.TrimSpace(req.PaymentID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// Cancel cancels an order and releases its tickets.
func (h *OrderHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	order, err := h.Orders.Cancel(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// TotalSales reports the sum of approved order amounts.
func (h *OrderHandler) TotalSales(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	total, err := h.Orders.TotalSales(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total})
}

// ProcessPurchase is the payment-return endpoint hit after checkout.
// Query params: userEmail, ticketIds (comma separated), paymentStatus.
func (h *OrderHandler) ProcessPurchase(c echo.Context) error {
	email := strings.TrimSpace(c.QueryParam("userEmail"))
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userEmail required"})
	}
	var ids []uint64
	for _, raw := range strings.Split(c.QueryParam("ticketIds"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticketIds required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	codes, err := h.Orders.ProcessPurchase(ctx, email, ids, c.QueryParam("paymentStatus"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"sold": codes})
}
