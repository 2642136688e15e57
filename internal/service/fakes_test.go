package service

import (
	"context"
	"sort"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/payment"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/queue"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/repository"
)

// In-memory fakes for the store ports.  They implement just enough of
// the repository contracts (conflict on double sell, not-found on
// missing rows) for the services to be exercised without a database.

type fakeUserStore struct {
	users map[uint64]*model.User
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: map[uint64]*model.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeTicketStore struct {
	tickets map[uint64]*model.Ticket
}

func newFakeTicketStore(tickets ...*model.Ticket) *fakeTicketStore {
	s := &fakeTicketStore{tickets: map[uint64]*model.Ticket{}}
	for _, t := range tickets {
		s.tickets[t.ID] = t
	}
	return s
}

func (s *fakeTicketStore) GetByID(_ context.Context, id uint64) (*model.Ticket, error) {
	t, ok := s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *fakeTicketStore) GetByIDs(_ context.Context, ids []uint64) ([]model.Ticket, error) {
	out := []model.Ticket{}
	for _, id := range ids {
		if t, ok := s.tickets[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTicketStore) ListAll(_ context.Context) ([]model.Ticket, error) {
	ids := make([]uint64, 0, len(s.tickets))
	for id := range s.tickets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.Ticket, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.tickets[id])
	}
	return out, nil
}

func (s *fakeTicketStore) MarkSold(_ context.Context, id uint64) error {
	t, ok := s.tickets[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !t.Available {
		return repository.ErrConflict
	}
	t.Available = false
	return nil
}

func (s *fakeTicketStore) MarkAvailable(_ context.Context, id uint64) error {
	t, ok := s.tickets[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.Available = true
	return nil
}

type fakeOrderStore struct {
	orders    map[uint64]*model.Order
	nextID    uint64
	createErr error
	tickets   *fakeTicketStore // claimed atomically on Create when set
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[uint64]*model.Order{}, nextID: 1}
}

func (s *fakeOrderStore) Create(_ context.Context, o *model.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	if s.tickets != nil {
		for _, it := range o.Items {
			if err := s.tickets.MarkSold(context.Background(), it.TicketID); err != nil {
				return repository.ErrConflict
			}
		}
	}
	o.ID = s.nextID
	s.nextID++
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *fakeOrderStore) GetByID(_ context.Context, id uint64) (*model.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *fakeOrderStore) ListAll(_ context.Context) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *fakeOrderStore) ListByUser(_ context.Context, userID uint64) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) ListByState(_ context.Context, state model.PurchaseState) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range s.orders {
		if o.State == state {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) UpdateState(_ context.Context, id uint64, state model.PurchaseState) error {
	o, ok := s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.State = state
	return nil
}

func (s *fakeOrderStore) UpdatePaymentID(_ context.Context, id uint64, paymentID string) error {
	o, ok := s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.PaymentID = &paymentID
	return nil
}

type fakeDonationStore struct {
	donations map[uint64]*model.Donation
	nextID    uint64
}

func newFakeDonationStore(donations ...*model.Donation) *fakeDonationStore {
	s := &fakeDonationStore{donations: map[uint64]*model.Donation{}, nextID: 1}
	for _, d := range donations {
		s.donations[d.ID] = d
		if d.ID >= s.nextID {
			s.nextID = d.ID + 1
		}
	}
	return s
}

func (s *fakeDonationStore) Create(_ context.Context, d *model.Donation) error {
	d.ID = s.nextID
	s.nextID++
	cp := *d
	s.donations[d.ID] = &cp
	return nil
}

func (s *fakeDonationStore) GetByID(_ context.Context, id uint64) (*model.Donation, error) {
	d, ok := s.donations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *fakeDonationStore) ListAll(_ context.Context) ([]model.Donation, error) {
	out := []model.Donation{}
	for _, d := range s.donations {
		out = append(out, *d)
	}
	return out, nil
}

func (s *fakeDonationStore) ListByUser(_ context.Context, userID uint64) ([]model.Donation, error) {
	out := []model.Donation{}
	for _, d := range s.donations {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *fakeDonationStore) ListByDestination(_ context.Context, destinationID uint64) ([]model.Donation, error) {
	out := []model.Donation{}
	for _, d := range s.donations {
		if d.DestinationID == destinationID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *fakeDonationStore) ListByState(_ context.Context, state model.PurchaseState) ([]model.Donation, error) {
	ids := make([]uint64, 0, len(s.donations))
	for id := range s.donations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := []model.Donation{}
	for _, id := range ids {
		if s.donations[id].State == state {
			out = append(out, *s.donations[id])
		}
	}
	return out, nil
}

func (s *fakeDonationStore) UpdateState(_ context.Context, id uint64, state model.PurchaseState) error {
	d, ok := s.donations[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.State = state
	return nil
}

func (s *fakeDonationStore) UpdatePaymentID(_ context.Context, id uint64, paymentID string) error {
	d, ok := s.donations[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.PaymentID = &paymentID
	return nil
}

func (s *fakeDonationStore) CountByDestination(_ context.Context, destinationID uint64) (int64, error) {
	var n int64
	for _, d := range s.donations {
		if d.DestinationID == destinationID {
			n++
		}
	}
	return n, nil
}

type fakeDestinationStore struct {
	destinations map[uint64]*model.Destination
	nextID       uint64
	deleted      []uint64
}

func newFakeDestinationStore(destinations ...*model.Destination) *fakeDestinationStore {
	s := &fakeDestinationStore{destinations: map[uint64]*model.Destination{}, nextID: 1}
	for _, d := range destinations {
		s.destinations[d.ID] = d
		if d.ID >= s.nextID {
			s.nextID = d.ID + 1
		}
	}
	return s
}

func (s *fakeDestinationStore) Create(_ context.Context, d *model.Destination) error {
	d.ID = s.nextID
	s.nextID++
	cp := *d
	s.destinations[d.ID] = &cp
	return nil
}

func (s *fakeDestinationStore) GetByID(_ context.Context, id uint64) (*model.Destination, error) {
	d, ok := s.destinations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *fakeDestinationStore) List(_ context.Context, activeOnly bool) ([]model.Destination, error) {
	out := []model.Destination{}
	for _, d := range s.destinations {
		if !activeOnly || d.Active {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *fakeDestinationStore) Update(_ context.Context, d *model.Destination) error {
	if _, ok := s.destinations[d.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *d
	s.destinations[d.ID] = &cp
	return nil
}

func (s *fakeDestinationStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.destinations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.destinations, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type fakeCalendarStore struct {
	entries []model.Calendar
}

func (s *fakeCalendarStore) List(_ context.Context, activeOnly bool) ([]model.Calendar, error) {
	out := []model.Calendar{}
	for _, e := range s.entries {
		if !activeOnly || e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	published []queue.Notification
	err       error
}

func (n *fakeNotifier) Publish(_ context.Context, msg queue.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.published = append(n.published, msg)
	return nil
}

type fakeGateway struct {
	pref    *payment.Preference
	err     error
	lastReq payment.PreferenceRequest
}

func (g *fakeGateway) CreatePreference(_ context.Context, pr payment.PreferenceRequest) (*payment.Preference, error) {
	g.lastReq = pr
	if g.err != nil {
		return nil, g.err
	}
	return g.pref, nil
}

func (g *fakeGateway) CheckoutURL(p *payment.Preference) string {
	if p.InitPoint != "" {
		return p.InitPoint
	}
	return "https://www.mercadopago.com.ar/checkout/v1/redirect?pref_id=" + p.ID
}
