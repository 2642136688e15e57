package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postQuery(t *testing.T, target string, h echo.HandlerFunc) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body["error"]
}

// process-purchase takes userEmail, ticketIds and paymentStatus as
// query parameters; the old frontend sends exactly those names.
func TestProcessPurchaseQueryParams(t *testing.T) {
	h := NewOrderHandler(nil)

	rec, msg := postQuery(t, "/api/orders/process-purchase", h.ProcessPurchase)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "userEmail required", msg)

	rec, msg = postQuery(t, "/api/orders/process-purchase?userEmail=ana@club.com", h.ProcessPurchase)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ticketIds required", msg)

	rec, msg = postQuery(t, "/api/orders/process-purchase?userEmail=ana@club.com&ticketIds=1,x", h.ProcessPurchase)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid ticket id", msg)
}

// process-donation identifies the donation by the donationId query
// parameter, not a path segment.
func TestProcessDonationQueryParams(t *testing.T) {
	h := NewDonationHandler(nil)

	rec, msg := postQuery(t, "/api/donations/process-donation", h.Process)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "donationId required", msg)

	rec, msg = postQuery(t, "/api/donations/process-donation?donationId=abc", h.Process)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "donationId required", msg)
}
