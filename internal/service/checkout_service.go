package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/payment"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/queue"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/repository"
)

const (
	donationRefPrefix = "donation_"
	ticketsRefPrefix  = "tickets_"
	currencyARS       = "ARS"
)

// WebhookPayload is the payment notification the gateway posts back.
// The external reference may arrive at the top level or nested under
// data depending on the notification variant.
type WebhookPayload struct {
	Type              string `json:"type"`
	Action            string `json:"action"`
	ExternalReference string `json:"external_reference"`
	Data              struct {
		ID                string `json:"id"`
		Status            string `json:"status"`
		ExternalReference string `json:"external_reference"`
	} `json:"data"`
}

func (p *WebhookPayload) reference() string {
	if p.ExternalReference != "" {
		return p.ExternalReference
	}
	return p.Data.ExternalReference
}

// CheckoutService bridges donations and ticket purchases to the
// payment gateway: it creates checkout preferences and settles the
// webhook notifications the gateway posts back.
type CheckoutService struct {
	gateway   PreferenceCreator
	donations *DonationService
	tickets   TicketStore
	users     UserStore
	notifier  Notifier
	frontURL  string
}

// NewCheckoutService wires a CheckoutService.  frontURL is the public
// base address of the frontend used to build the gateway return URLs.
func NewCheckoutService(gateway PreferenceCreator, donations *DonationService, tickets TicketStore, users UserStore, notifier Notifier, frontURL string) *CheckoutService {
	return &CheckoutService{
		gateway:   gateway,
		donations: donations,
		tickets:   tickets,
		users:     users,
		notifier:  notifier,
		frontURL:  strings.TrimRight(frontURL, "/"),
	}
}

// CreateDonationPreference builds a gateway preference for an existing
// pending donation.  The external reference carries the donation id so
// the webhook can settle it later.
func (s *CheckoutService) CreateDonationPreference(ctx context.Context, donationID uint64) (*PreferenceDTO, error) {
	d, err := s.donations.Get(ctx, donationID)
	if err != nil {
		return nil, err
	}
	req := payment.PreferenceRequest{
		Items: []payment.Item{{
			ID:          donationRefPrefix + strconv.FormatUint(d.ID, 10),
			Title:       "Donación Club Atlético Belgrano",
			Description: "Donación para " + d.DestinationName,
			Quantity:    1,
			CurrencyID:  currencyARS,
			UnitPrice:   d.Amount,
		}},
		BackURLs: payment.BackURLs{
			Success: s.frontURL + "/donaciones?payment=success",
			Failure: s.frontURL + "/donaciones?payment=failure",
			Pending: s.frontURL + "/donaciones?payment=pending",
		},
		ExternalReference: donationRefPrefix + strconv.FormatUint(d.ID, 10),
	}
	pref, err := s.gateway.CreatePreference(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return &PreferenceDTO{PreferenceID: pref.ID, CheckoutURL: s.gateway.CheckoutURL(pref)}, nil
}

// CreateTicketPreference builds a gateway preference for a set of
// tickets bought by the user identified by email.  The external
// reference encodes the buyer email and the ticket ids.
func (s *CheckoutService) CreateTicketPreference(ctx context.Context, email string, ticketIDs []uint64) (*PreferenceDTO, error) {
	tickets, err := s.tickets.GetByIDs(ctx, ticketIDs)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, fmt.Errorf("%w: no tickets found", repository.ErrNotFound)
	}

	items := make([]payment.Item, 0, len(tickets))
	ids := make([]string, 0, len(tickets))
	for i := range tickets {
		t := &tickets[i]
		if !t.Available {
			return nil, fmt.Errorf("%w: ticket %s", ErrTicketUnavailable, t.Code)
		}
		items = append(items, payment.Item{
			ID:          "ticket_" + strconv.FormatUint(t.ID, 10),
			Title:       "Entrada Club Atlético Belgrano",
			Description: t.LocationName + " - " + t.EventDate.Format("02/01/2006 15:04"),
			Quantity:    1,
			CurrencyID:  currencyARS,
			UnitPrice:   t.Price,
		})
		ids = append(ids, strconv.FormatUint(t.ID, 10))
	}
	req := payment.PreferenceRequest{
		Items: items,
		BackURLs: payment.BackURLs{
			Success: s.frontURL + "/entradas?payment=success",
			Failure: s.frontURL + "/entradas?payment=failure",
			Pending: s.frontURL + "/entradas?payment=pending",
		},
		ExternalReference: ticketsRefPrefix + email + "_" + strings.Join(ids, ","),
	}
	pref, err := s.gateway.CreatePreference(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return &PreferenceDTO{PreferenceID: pref.ID, CheckoutURL: s.gateway.CheckoutURL(pref)}, nil
}

// HandleWebhook settles a gateway payment notification.  It never
// returns an error: the gateway retries on non-2xx responses and a
// malformed or stale notification must not trigger retries, so every
// failure is logged and swallowed.  An empty payment status is treated
// as approved, matching the gateway's simulated notifications.
func (s *CheckoutService) HandleWebhook(ctx context.Context, p WebhookPayload) {
	if p.Type != "" && p.Type != "payment" {
		return
	}
	// Only the payment.updated action carries a settled payment; the
	// gateway also notifies payment.created for payments still in
	// flight and those must be acknowledged without settling anything.
	if p.Action != "" && p.Action != "payment.updated" {
		return
	}
	status := strings.ToLower(strings.TrimSpace(p.Data.Status))
	if status == "" {
		status = "approved"
	}
	if status != "approved" {
		return
	}
	ref := p.reference()
	switch {
	case strings.HasPrefix(ref, ticketsRefPrefix):
		s.settleTickets(ctx, ref, p.Data.ID)
	case strings.HasPrefix(ref, donationRefPrefix):
		s.settleDonation(ctx, ref, p.Data.ID)
	default:
		log.Printf("webhook: ignoring reference %q", ref)
	}
}

// settleDonation approves the referenced donation and records the
// payment id.  The approval path publishes the confirmation email.
func (s *CheckoutService) settleDonation(ctx context.Context, ref, paymentID string) {
	id, err := strconv.ParseUint(strings.TrimPrefix(ref, donationRefPrefix), 10, 64)
	if err != nil {
		log.Printf("webhook: bad donation reference %q: %v", ref, err)
		return
	}
	if paymentID != "" {
		if _, err := s.donations.UpdatePaymentID(ctx, id, paymentID); err != nil {
			log.Printf("webhook: donation %d payment id: %v", id, err)
		}
	}
	if _, err := s.donations.UpdateState(ctx, id, string(model.StateApproved)); err != nil {
		log.Printf("webhook: approve donation %d: %v", id, err)
	}
}

// settleTickets marks the referenced tickets sold.  Ids that no longer
// resolve are skipped; a partially settled notification is still a
// success from the gateway's point of view.
func (s *CheckoutService) settleTickets(ctx context.Context, ref, paymentID string) {
	rest := strings.TrimPrefix(ref, ticketsRefPrefix)
	// The email may itself contain underscores; the id list never does.
	cut := strings.LastIndex(rest, "_")
	if cut <= 0 || cut == len(rest)-1 {
		log.Printf("webhook: bad tickets reference %q", ref)
		return
	}
	email, idList := rest[:cut], rest[cut+1:]

	var codes []string
	for _, raw := range strings.Split(idList, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			continue
		}
		t, err := s.tickets.GetByID(ctx, id)
		if err != nil {
			log.Printf("webhook: ticket %d: %v", id, err)
			continue
		}
		if err := s.tickets.MarkSold(ctx, id); err != nil {
			if !errors.Is(err, repository.ErrConflict) {
				log.Printf("webhook: mark ticket %d sold: %v", id, err)
			}
			continue
		}
		codes = append(codes, t.Code)
	}
	if len(codes) == 0 {
		return
	}

	name := email
	if u, err := s.users.GetByEmail(ctx, email); err == nil {
		name = u.FullName()
	}
	n := queue.Notification{
		Kind:        queue.KindPurchaseConfirmed,
		Email:       email,
		Name:        name,
		TicketCodes: codes,
		PaymentID:   paymentID,
		SentAt:      time.Now().UTC(),
	}
	if err := s.notifier.Publish(ctx, n); err != nil {
		log.Printf("webhook: notify %s: %v", email, err)
	}
}
