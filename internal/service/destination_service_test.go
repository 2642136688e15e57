package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/repository"
)

func TestDestinationCreateAndList(t *testing.T) {
	store := newFakeDestinationStore()
	svc := NewDestinationService(store, newFakeDonationStore())

	d, err := svc.Create(context.Background(), CreateDestinationInput{
		Name:    "  Escuela de fútbol  ",
		Address: "Av. Orgaz 510",
	})
	require.NoError(t, err)
	assert.Equal(t, "Escuela de fútbol", d.Name)
	assert.True(t, d.Active)

	active, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestDestinationDeleteBlockedByDonations(t *testing.T) {
	store := newFakeDestinationStore(&model.Destination{ID: 1, Name: "Escuela de fútbol", Active: true})
	donations := newFakeDonationStore(
		donationAt(1, 500, "Escuela de fútbol", model.StateCancelled, time.Now().UTC()),
	)
	svc := NewDestinationService(store, donations)

	// Even a cancelled donation keeps the destination referenced.
	err := svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Empty(t, store.deleted)
}

func TestDestinationDeleteWithoutDonations(t *testing.T) {
	store := newFakeDestinationStore(&model.Destination{ID: 1, Name: "Escuela de fútbol", Active: true})
	svc := NewDestinationService(store, newFakeDonationStore())

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, []uint64{1}, store.deleted)

	err := svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDestinationSetActive(t *testing.T) {
	store := newFakeDestinationStore(&model.Destination{ID: 1, Name: "Escuela de fútbol", Active: true})
	svc := NewDestinationService(store, newFakeDonationStore())

	d, err := svc.SetActive(context.Background(), 1, false)
	require.NoError(t, err)
	assert.False(t, d.Active)

	active, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, active)
}
