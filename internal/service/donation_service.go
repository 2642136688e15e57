package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/queue"
)

// DonationService implements the donation lifecycle and the admin
// statistics aggregate.  An approved transition publishes a
// confirmation notification on a best-effort basis.
type DonationService struct {
	donations DonationStore
	users     UserStore
	notifier  Notifier
	now       func() time.Time
}

// NewDonationService wires a DonationService.
func NewDonationService(donations DonationStore, users UserStore, notifier Notifier) *DonationService {
	return &DonationService{donations: donations, users: users, notifier: notifier, now: time.Now}
}

// Create validates and persists a pending donation.  The amount must
// be strictly positive and the donor must exist; the destination
// foreign key is enforced by the database.
func (s *DonationService) Create(ctx context.Context, in CreateDonationInput) (*DonationDTO, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, in.Amount)
	}
	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", in.UserID, err)
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = defaultPaymentMethod
	}
	d := &model.Donation{
		UserID:        user.ID,
		UserEmail:     user.Email,
		UserName:      user.FullName(),
		DestinationID: in.DestinationID,
		Amount:        in.Amount,
		PaymentMethod: method,
		State:         model.StatePending,
	}
	if err := s.donations.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}
	return donationToDTO(d), nil
}

// Get returns one donation.
func (s *DonationService) Get(ctx context.Context, id uint64) (*DonationDTO, error) {
	d, err := s.donations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return donationToDTO(d), nil
}

// List returns every donation, newest first.
func (s *DonationService) List(ctx context.Context) ([]DonationDTO, error) {
	ds, err := s.donations.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return donationsToDTO(ds), nil
}

// ListByUser returns the donations of one user.
func (s *DonationService) ListByUser(ctx context.Context, userID uint64) ([]DonationDTO, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	ds, err := s.donations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return donationsToDTO(ds), nil
}

// ListByDestination returns the donations towards one destination.
func (s *DonationService) ListByDestination(ctx context.Context, destinationID uint64) ([]DonationDTO, error) {
	ds, err := s.donations.ListByDestination(ctx, destinationID)
	if err != nil {
		return nil, err
	}
	return donationsToDTO(ds), nil
}

// ListByState returns the donations in one purchase state.
func (s *DonationService) ListByState(ctx context.Context, raw string) ([]DonationDTO, error) {
	state, err := model.ParsePurchaseState(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidState, raw)
	}
	ds, err := s.donations.ListByState(ctx, state)
	if err != nil {
		return nil, err
	}
	return donationsToDTO(ds), nil
}

// UpdateState overwrites the donation state with any valid value.
// Transitioning into approved publishes a confirmation notification;
// a publish failure is logged and never surfaces to the caller.
func (s *DonationService) UpdateState(ctx context.Context, id uint64, raw string) (*DonationDTO, error) {
	state, err := model.ParsePurchaseState(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidState, raw)
	}
	prev, err := s.donations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.donations.UpdateState(ctx, id, state); err != nil {
		return nil, err
	}
	cur, err := s.donations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if state == model.StateApproved && prev.State != model.StateApproved {
		s.notifyConfirmed(ctx, cur)
	}
	return donationToDTO(cur), nil
}

// UpdatePaymentID attaches the gateway payment id to a donation.
func (s *DonationService) UpdatePaymentID(ctx context.Context, id uint64, paymentID string) (*DonationDTO, error) {
	if err := s.donations.UpdatePaymentID(ctx, id, paymentID); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Cancel moves a donation to cancelled.
func (s *DonationService) Cancel(ctx context.Context, id uint64) (*DonationDTO, error) {
	return s.UpdateState(ctx, id, string(model.StateCancelled))
}

// ProcessDonation is the legacy payment-return path: it maps the raw
// gateway status onto a purchase state and applies it, recording the
// payment id when one is given.
func (s *DonationService) ProcessDonation(ctx context.Context, id uint64, status, paymentID string) (*DonationDTO, error) {
	state := model.StatePending
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "success", "approved":
		state = model.StateApproved
	case "failure", "rejected":
		state = model.StateRejected
	}
	if paymentID != "" {
		if err := s.donations.UpdatePaymentID(ctx, id, paymentID); err != nil {
			return nil, err
		}
	}
	return s.UpdateState(ctx, id, string(state))
}

// Statistics aggregates the approved donations: overall count and
// total, current-month total, average rounded half-up to two decimals
// and a per-destination breakdown sorted by amount descending.
func (s *DonationService) Statistics(ctx context.Context) (*DonationStats, error) {
	approved, err := s.donations.ListByState(ctx, model.StateApproved)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	stats := &DonationStats{
		TotalAmount:   decimal.Zero,
		MonthAmount:   decimal.Zero,
		AverageAmount: decimal.Zero,
		ByDestination: []DestinationStats{},
	}
	byDest := make(map[string]*DestinationStats)
	for i := range approved {
		d := &approved[i]
		stats.TotalCount++
		stats.TotalAmount = stats.TotalAmount.Add(d.Amount)
		if d.DonationDate.UTC().Year() == now.Year() && d.DonationDate.UTC().Month() == now.Month() {
			stats.MonthAmount = stats.MonthAmount.Add(d.Amount)
		}
		ds, ok := byDest[d.DestinationName]
		if !ok {
			ds = &DestinationStats{DestinationName: d.DestinationName, Amount: decimal.Zero}
			byDest[d.DestinationName] = ds
		}
		ds.Count++
		ds.Amount = ds.Amount.Add(d.Amount)
	}
	if stats.TotalCount > 0 {
		stats.AverageAmount = stats.TotalAmount.DivRound(decimal.NewFromInt(int64(stats.TotalCount)), 2)
	}
	for _, ds := range byDest {
		stats.ByDestination = append(stats.ByDestination, *ds)
	}
	sort.Slice(stats.ByDestination, func(i, j int) bool {
		a, b := stats.ByDestination[i], stats.ByDestination[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.DestinationName < b.DestinationName
	})
	return stats, nil
}

func (s *DonationService) notifyConfirmed(ctx context.Context, d *model.Donation) {
	n := queue.Notification{
		Kind:            queue.KindDonationConfirmed,
		Email:           d.UserEmail,
		Name:            d.UserName,
		DestinationName: d.DestinationName,
		Amount:          d.Amount,
		SentAt:          time.Now().UTC(),
	}
	if d.PaymentID != nil {
		n.PaymentID = *d.PaymentID
	}
	if err := s.notifier.Publish(ctx, n); err != nil {
		log.Printf("donation %d: notify %s: %v", d.ID, d.UserEmail, err)
	}
}
