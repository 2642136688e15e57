package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/repository"
)

// DestinationService manages donation destinations.  Deletion is
// blocked while any donation references the destination.
type DestinationService struct {
	destinations DestinationStore
	donations    DonationStore
}

// NewDestinationService wires a DestinationService.
func NewDestinationService(destinations DestinationStore, donations DonationStore) *DestinationService {
	return &DestinationService{destinations: destinations, donations: donations}
}

// CreateDestinationInput is the payload for Create and Update.
type CreateDestinationInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Create persists a new active destination.
func (s *DestinationService) Create(ctx context.Context, in CreateDestinationInput) (*model.Destination, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("destination name is required")
	}
	d := &model.Destination{
		Name:    name,
		Address: strings.TrimSpace(in.Address),
		Phone:   strings.TrimSpace(in.Phone),
		Active:  true,
	}
	if err := s.destinations.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get returns one destination.
func (s *DestinationService) Get(ctx context.Context, id uint64) (*model.Destination, error) {
	return s.destinations.GetByID(ctx, id)
}

// List returns destinations, optionally only the active ones.
func (s *DestinationService) List(ctx context.Context, activeOnly bool) ([]model.Destination, error) {
	return s.destinations.List(ctx, activeOnly)
}

// Update overwrites the editable fields of a destination.
func (s *DestinationService) Update(ctx context.Context, id uint64, in CreateDestinationInput) (*model.Destination, error) {
	d, err := s.destinations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		d.Name = name
	}
	if addr := strings.TrimSpace(in.Address); addr != "" {
		d.Address = addr
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		d.Phone = phone
	}
	if err := s.destinations.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// SetActive toggles a destination in or out of the public list.
func (s *DestinationService) SetActive(ctx context.Context, id uint64, active bool) (*model.Destination, error) {
	d, err := s.destinations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Active = active
	if err := s.destinations.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a destination.  It fails with repository.ErrConflict
// while any donation, in any state, still references it.
func (s *DestinationService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.destinations.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.donations.CountByDestination(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: destination has %d donations", repository.ErrConflict, n)
	}
	return s.destinations.Delete(ctx, id)
}
