// Package payment implements a thin HTTP client for the Checkout Pro
// payment gateway.  A preference is the gateway's term for a priced,
// itemized checkout session; the client creates one and returns the
// opaque preference id plus the hosted checkout URL.
package payment

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "time"

    "github.com/shopspring/decimal"
)

// Item is one line of a preference request.  UnitPrice is the amount
// charged per unit in the preference currency.
type Item struct {
    ID          string          `json:"id"`
    Title       string          `json:"title"`
    Description string          `json:"description,omitempty"`
    Quantity    int             `json:"quantity"`
    CurrencyID  string          `json:"currency_id"`
    UnitPrice   decimal.Decimal `json:"unit_price"`
}

// BackURLs are the front-end return addresses the gateway redirects the
// buyer to after checkout.
type BackURLs struct {
    Success string `json:"success"`
    Failure string `json:"failure"`
    Pending string `json:"pending"`
}

// PreferenceRequest is the payload submitted to the gateway.  The
// external reference is an opaque caller-supplied string returned
// unchanged in webhook notifications; it encodes which purchase or
// donation the payment corresponds to.
type PreferenceRequest struct {
    Items             []Item   `json:"items"`
    BackURLs          BackURLs `json:"back_urls"`
    ExternalReference string   `json:"external_reference"`
}

// Preference is the gateway's response to a created preference.
type Preference struct {
    ID        string `json:"id"`
    InitPoint string `json:"init_point"`
}

// Client calls the gateway REST API.  The zero value is not usable;
// construct with NewClient.
type Client struct {
    baseURL     string
    accessToken string
    hc          *http.Client
}

// NewClient returns a Client for the given API base URL and access
// token.  The HTTP client uses a modest request timeout so a stalled
// gateway cannot hold request handlers indefinitely.
func NewClient(baseURL, accessToken string) *Client {
    return &Client{
        baseURL:     baseURL,
        accessToken: accessToken,
        hc:          &http.Client{Timeout: 15 * time.Second},
    }
}

// CreatePreference submits a preference request and decodes the
// created preference.  Any transport error or non-2xx response is
// returned as an error; no partial result is ever returned.
func (c *Client) CreatePreference(ctx context.Context, pr PreferenceRequest) (*Preference, error) {
    body, err := json.Marshal(pr)
    if err != nil {
        return nil, fmt.Errorf("payment: marshal preference: %w", err)
    }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(body))
    if err != nil {
        return nil, fmt.Errorf("payment: build request: %w", err)
    }
    req.Header.Set("Content-Type", "application/json")
    req.Header.Set("Authorization", "Bearer "+c.accessToken)

    resp, err := c.hc.Do(req)
    if err != nil {
        return nil, fmt.Errorf("payment: create preference: %w", err)
    }
    defer resp.Body.Close()

    if resp.StatusCode < 200 || resp.StatusCode > 299 {
        rbody, _ := io.ReadAll(resp.Body)
        return nil, fmt.Errorf("payment: create preference: status %d: %s", resp.StatusCode, rbody)
    }

    var pref Preference
    if err := json.NewDecoder(resp.Body).Decode(&pref); err != nil {
        return nil, fmt.Errorf("payment: decode preference: %w", err)
    }
    if pref.ID == "" {
        return nil, fmt.Errorf("payment: gateway returned empty preference id")
    }
    return &pref, nil
}

// CheckoutURL returns the hosted checkout address for a preference.
// The gateway's init_point is preferred; the redirect URL built from
// the preference id is the fallback the original front end used.
func (c *Client) CheckoutURL(p *Preference) string {
    if p.InitPoint != "" {
        return p.InitPoint
    }
    return "https://www.mercadopago.com.ar/checkout/v1/redirect?pref_id=" + p.ID
}
