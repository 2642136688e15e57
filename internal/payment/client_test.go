package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePreferenceRequest() PreferenceRequest {
	return PreferenceRequest{
		Items: []Item{{
			ID:         "donation_1",
			Title:      "Donación Club Atlético Belgrano",
			Quantity:   1,
			CurrencyID: "ARS",
			UnitPrice:  decimal.NewFromInt(1500),
		}},
		BackURLs: BackURLs{
			Success: "https://belgrano.test/donaciones?payment=success",
			Failure: "https://belgrano.test/donaciones?payment=failure",
			Pending: "https://belgrano.test/donaciones?payment=pending",
		},
		ExternalReference: "donation_1",
	}
}

func TestCreatePreference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, "Bearer sekret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var pr PreferenceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&pr))
		assert.Equal(t, "donation_1", pr.ExternalReference)
		require.Len(t, pr.Items, 1)
		assert.True(t, pr.Items[0].UnitPrice.Equal(decimal.NewFromInt(1500)))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"pref-42","init_point":"https://mp.test/go/pref-42"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sekret")
	pref, err := c.CreatePreference(context.Background(), samplePreferenceRequest())
	require.NoError(t, err)
	assert.Equal(t, "pref-42", pref.ID)
	assert.Equal(t, "https://mp.test/go/pref-42", pref.InitPoint)
}

func TestCreatePreferenceGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid access token"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad")
	_, err := c.CreatePreference(context.Background(), samplePreferenceRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestCreatePreferenceEmptyID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sekret")
	_, err := c.CreatePreference(context.Background(), samplePreferenceRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty preference id")
}

func TestCheckoutURLFallsBackToRedirect(t *testing.T) {
	c := NewClient("http://unused", "sekret")

	assert.Equal(t, "https://mp.test/go/p1", c.CheckoutURL(&Preference{ID: "p1", InitPoint: "https://mp.test/go/p1"}))
	assert.Equal(t,
		"https://www.mercadopago.com.ar/checkout/v1/redirect?pref_id=p1",
		c.CheckoutURL(&Preference{ID: "p1"}))
}
