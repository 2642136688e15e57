package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/payment"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/queue"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/repository"
)

type checkoutFixture struct {
	svc       *CheckoutService
	gateway   *fakeGateway
	donations *fakeDonationStore
	tickets   *fakeTicketStore
	notifier  *fakeNotifier
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	gateway := &fakeGateway{pref: &payment.Preference{ID: "pref-1", InitPoint: "https://mp.test/checkout/pref-1"}}
	donations := newFakeDonationStore(
		donationAt(7, 500, "Escuela de fútbol", model.StatePending, time.Now().UTC()),
	)
	tickets := newFakeTicketStore(testTicket(1, 8000, true), testTicket(2, 8000, true))
	notifier := &fakeNotifier{}
	users := newFakeUserStore(testUser())
	donationSvc := NewDonationService(donations, users, notifier)
	svc := NewCheckoutService(gateway, donationSvc, tickets, users, notifier, "https://belgrano.test/")
	return &checkoutFixture{svc: svc, gateway: gateway, donations: donations, tickets: tickets, notifier: notifier}
}

func TestCreateDonationPreference(t *testing.T) {
	f := newCheckoutFixture(t)

	pref, err := f.svc.CreateDonationPreference(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "pref-1", pref.PreferenceID)
	assert.Equal(t, "https://mp.test/checkout/pref-1", pref.CheckoutURL)

	req := f.gateway.lastReq
	assert.Equal(t, "donation_7", req.ExternalReference)
	require.Len(t, req.Items, 1)
	assert.Equal(t, "ARS", req.Items[0].CurrencyID)
	assert.True(t, req.Items[0].UnitPrice.IntPart() == 500)
	assert.Equal(t, "https://belgrano.test/donaciones?payment=success", req.BackURLs.Success)
}

func TestCreateDonationPreferenceUnknownDonation(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.CreateDonationPreference(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateDonationPreferenceGatewayFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	f.gateway.err = assert.AnError

	_, err := f.svc.CreateDonationPreference(context.Background(), 7)
	assert.ErrorIs(t, err, ErrGateway)
}

func TestCreateTicketPreferenceEncodesReference(t *testing.T) {
	f := newCheckoutFixture(t)

	pref, err := f.svc.CreateTicketPreference(context.Background(), "ana@club.com", []uint64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "pref-1", pref.PreferenceID)

	req := f.gateway.lastReq
	assert.Equal(t, "tickets_ana@club.com_1,2", req.ExternalReference)
	assert.Len(t, req.Items, 2)
}

func TestCreateTicketPreferenceRejectsSoldTicket(t *testing.T) {
	f := newCheckoutFixture(t)
	require.NoError(t, f.tickets.MarkSold(context.Background(), 2))

	_, err := f.svc.CreateTicketPreference(context.Background(), "ana@club.com", []uint64{1, 2})
	assert.ErrorIs(t, err, ErrTicketUnavailable)
}

func TestCreateTicketPreferenceNoTickets(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.CreateTicketPreference(context.Background(), "ana@club.com", []uint64{98, 99})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func webhookPayload(ref, status, paymentID string) WebhookPayload {
	var p WebhookPayload
	p.Type = "payment"
	p.Action = "payment.updated"
	p.ExternalReference = ref
	p.Data.ID = paymentID
	p.Data.Status = status
	return p
}

func TestWebhookApprovesDonation(t *testing.T) {
	f := newCheckoutFixture(t)

	f.svc.HandleWebhook(context.Background(), webhookPayload("donation_7", "approved", "pay-1"))

	d, err := f.donations.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, model.StateApproved, d.State)
	require.NotNil(t, d.PaymentID)
	assert.Equal(t, "pay-1", *d.PaymentID)

	// The approval path sends the confirmation email.
	require.Len(t, f.notifier.published, 1)
	assert.Equal(t, queue.KindDonationConfirmed, f.notifier.published[0].Kind)
	assert.Equal(t, "pay-1", f.notifier.published[0].PaymentID)
}

func TestWebhookEmptyStatusMeansApproved(t *testing.T) {
	f := newCheckoutFixture(t)

	f.svc.HandleWebhook(context.Background(), webhookPayload("donation_7", "", "pay-1"))

	d, err := f.donations.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, model.StateApproved, d.State)
}

func TestWebhookIgnoresPaymentCreatedAction(t *testing.T) {
	f := newCheckoutFixture(t)

	// payment.created arrives before anything is paid; nothing may be
	// settled on it even though the status field is empty.
	p := webhookPayload("tickets_ana@club.com_1,2", "", "")
	p.Action = "payment.created"
	f.svc.HandleWebhook(context.Background(), p)

	t1, err := f.tickets.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, t1.Available)
	assert.Empty(t, f.notifier.published)

	d := webhookPayload("donation_7", "approved", "pay-9")
	d.Action = "payment.created"
	f.svc.HandleWebhook(context.Background(), d)

	don, err := f.donations.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, model.StatePending, don.State)
}

func TestWebhookIgnoresRejectedPayment(t *testing.T) {
	f := newCheckoutFixture(t)

	f.svc.HandleWebhook(context.Background(), webhookPayload("donation_7", "rejected", "pay-1"))

	d, err := f.donations.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, model.StatePending, d.State)
	assert.Empty(t, f.notifier.published)
}

func TestWebhookSellsTicketsAndSkipsMissing(t *testing.T) {
	f := newCheckoutFixture(t)

	// Ticket 99 no longer exists; the notification must not fail.
	f.svc.HandleWebhook(context.Background(), webhookPayload("tickets_ana@club.com_1,99,2", "approved", "pay-2"))

	t1, _ := f.tickets.GetByID(context.Background(), 1)
	t2, _ := f.tickets.GetByID(context.Background(), 2)
	assert.False(t, t1.Available)
	assert.False(t, t2.Available)

	require.Len(t, f.notifier.published, 1)
	n := f.notifier.published[0]
	assert.Equal(t, queue.KindPurchaseConfirmed, n.Kind)
	assert.Equal(t, "ana@club.com", n.Email)
	assert.Equal(t, "Ana Gomez", n.Name)
	assert.Len(t, n.TicketCodes, 2)
	assert.Equal(t, "pay-2", n.PaymentID)
}

func TestWebhookAlreadySoldTicketsDoNotNotifyTwice(t *testing.T) {
	f := newCheckoutFixture(t)

	payload := webhookPayload("tickets_ana@club.com_1,2", "approved", "pay-2")
	f.svc.HandleWebhook(context.Background(), payload)
	f.svc.HandleWebhook(context.Background(), payload)

	// The retry claims nothing, so only the first delivery notifies.
	assert.Len(t, f.notifier.published, 1)
}

func TestWebhookIgnoresUnknownReference(t *testing.T) {
	f := newCheckoutFixture(t)

	f.svc.HandleWebhook(context.Background(), webhookPayload("subscription_5", "approved", "pay-3"))
	f.svc.HandleWebhook(context.Background(), webhookPayload("", "approved", "pay-3"))
	f.svc.HandleWebhook(context.Background(), webhookPayload("donation_abc", "approved", "pay-3"))
	f.svc.HandleWebhook(context.Background(), webhookPayload("tickets_broken", "approved", "pay-3"))

	assert.Empty(t, f.notifier.published)
	d, _ := f.donations.GetByID(context.Background(), 7)
	assert.Equal(t, model.StatePending, d.State)
}

func TestWebhookReferenceWithUnderscoreEmail(t *testing.T) {
	f := newCheckoutFixture(t)

	f.svc.HandleWebhook(context.Background(), webhookPayload("tickets_juan_perez@club.com_1", "approved", "pay-4"))

	t1, _ := f.tickets.GetByID(context.Background(), 1)
	assert.False(t, t1.Available)
	require.Len(t, f.notifier.published, 1)
	assert.Equal(t, "juan_perez@club.com", f.notifier.published[0].Email)
}
