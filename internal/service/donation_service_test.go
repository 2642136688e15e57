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
)

func newDonationFixture(donations ...*model.Donation) (*DonationService, *fakeDonationStore, *fakeNotifier) {
	store := newFakeDonationStore(donations...)
	notifier := &fakeNotifier{}
	svc := NewDonationService(store, newFakeUserStore(testUser()), notifier)
	return svc, store, notifier
}

func donationAt(id uint64, amount int64, dest string, state model.PurchaseState, when time.Time) *model.Donation {
	return &model.Donation{
		ID:              id,
		UserID:          1,
		UserEmail:       "ana@club.com",
		UserName:        "Ana Gomez",
		DestinationID:   1,
		DestinationName: dest,
		Amount:          decimal.NewFromInt(amount),
		DonationDate:    when,
		State:           state,
	}
}

func TestCreateDonationRejectsNonPositiveAmount(t *testing.T) {
	svc, _, _ := newDonationFixture()

	for _, amount := range []int64{0, -50} {
		_, err := svc.Create(context.Background(), CreateDonationInput{
			UserID:        1,
			DestinationID: 1,
			Amount:        decimal.NewFromInt(amount),
		})
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %d", amount)
	}
}

func TestCreateDonationStartsPending(t *testing.T) {
	svc, _, notifier := newDonationFixture()

	d, err := svc.Create(context.Background(), CreateDonationInput{
		UserID:        1,
		DestinationID: 1,
		Amount:        decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatePending), d.State)
	assert.Equal(t, "Mercado Pago", d.PaymentMethod)
	assert.Equal(t, "ana@club.com", d.UserEmail)
	// Nothing is sent until the payment is approved.
	assert.Empty(t, notifier.published)
}

func TestUpdateStateApprovedPublishesOnce(t *testing.T) {
	now := time.Now().UTC()
	svc, _, notifier := newDonationFixture(
		donationAt(1, 500, "Escuela de fútbol", model.StatePending, now),
	)

	d, err := svc.UpdateState(context.Background(), 1, "approved")
	require.NoError(t, err)
	assert.Equal(t, string(model.StateApproved), d.State)

	require.Len(t, notifier.published, 1)
	n := notifier.published[0]
	assert.Equal(t, queue.KindDonationConfirmed, n.Kind)
	assert.Equal(t, "ana@club.com", n.Email)
	assert.Equal(t, "Escuela de fútbol", n.DestinationName)
	assert.True(t, n.Amount.Equal(decimal.NewFromInt(500)))

	// Re-approving an approved donation must not send a second email.
	_, err = svc.UpdateState(context.Background(), 1, "approved")
	require.NoError(t, err)
	assert.Len(t, notifier.published, 1)
}

func TestUpdateStateSwallowsNotifierFailure(t *testing.T) {
	now := time.Now().UTC()
	svc, _, notifier := newDonationFixture(
		donationAt(1, 500, "Escuela de fútbol", model.StatePending, now),
	)
	notifier.err = assert.AnError

	d, err := svc.UpdateState(context.Background(), 1, "approved")
	require.NoError(t, err)
	assert.Equal(t, string(model.StateApproved), d.State)
}

func TestProcessDonationMapsGatewayStatus(t *testing.T) {
	cases := []struct {
		status string
		want   model.PurchaseState
	}{
		{"success", model.StateApproved},
		{"approved", model.StateApproved},
		{"failure", model.StateRejected},
		{"rejected", model.StateRejected},
		{"whatever", model.StatePending},
	}
	for _, tc := range cases {
		svc, store, _ := newDonationFixture(
			donationAt(1, 500, "Escuela de fútbol", model.StatePending, time.Now().UTC()),
		)
		_, err := svc.ProcessDonation(context.Background(), 1, tc.status, "pay-9")
		require.NoError(t, err, tc.status)

		d, err := store.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, tc.want, d.State, tc.status)
		require.NotNil(t, d.PaymentID)
		assert.Equal(t, "pay-9", *d.PaymentID)
	}
}

func TestStatisticsAggregatesApprovedDonations(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	svc, _, _ := newDonationFixture(
		donationAt(1, 100, "Escuela de fútbol", model.StateApproved, now),
		donationAt(2, 200, "Obras del estadio", model.StateApproved, lastMonth),
		donationAt(3, 300, "Obras del estadio", model.StateApproved, now),
		donationAt(4, 9999, "Obras del estadio", model.StatePending, now),
	)
	svc.now = func() time.Time { return now }

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalCount)
	assert.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(600)), "total %s", stats.TotalAmount)
	assert.True(t, stats.MonthAmount.Equal(decimal.NewFromInt(400)), "month %s", stats.MonthAmount)
	assert.Equal(t, "200", stats.AverageAmount.String())

	// Breakdown sorted by amount descending.
	require.Len(t, stats.ByDestination, 2)
	assert.Equal(t, "Obras del estadio", stats.ByDestination[0].DestinationName)
	assert.Equal(t, 2, stats.ByDestination[0].Count)
	assert.True(t, stats.ByDestination[0].Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "Escuela de fútbol", stats.ByDestination[1].DestinationName)
}

func TestStatisticsRoundsAverageHalfUp(t *testing.T) {
	now := time.Now().UTC()
	svc, _, _ := newDonationFixture(
		donationAt(1, 100, "Escuela de fútbol", model.StateApproved, now),
		donationAt(2, 100, "Escuela de fútbol", model.StateApproved, now),
		donationAt(3, 101, "Escuela de fútbol", model.StateApproved, now),
	)

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	// 301 / 3 = 100.333..., rounded to two decimals.
	assert.Equal(t, "100.33", stats.AverageAmount.String())
}

func TestStatisticsEmpty(t *testing.T) {
	svc, _, _ := newDonationFixture()

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalCount)
	assert.True(t, stats.TotalAmount.IsZero())
	assert.True(t, stats.AverageAmount.IsZero())
	assert.Empty(t, stats.ByDestination)
}
