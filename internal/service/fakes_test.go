package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// memStore backs the in-memory repositories used by service tests.
type memStore struct {
	mu        sync.Mutex
	accounts  map[int64]domain.Account
	tickets   map[int64]domain.Ticket
	histories []domain.TicketHistory
	nextID    int64
}

func newMemStore() *memStore {
	return &memStore{accounts: map[int64]domain.Account{}, tickets: map[int64]domain.Ticket{}}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addAccount(name string, role domain.Role) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := domain.Account{ID: s.id(), Name: name, Email: strings.ToLower(name) + "@example.com", Role: role}
	s.accounts[a.ID] = a
	return &a
}

func (s *memStore) addTicket(owner *domain.Account, public bool, status domain.TicketStatus, assignee *domain.Account) *domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := domain.Ticket{ID: s.id(), Title: "printer", IsPublic: public, Status: status, OwnerID: owner.ID, OwnerName: owner.Name}
	if assignee != nil {
		id, name := assignee.ID, assignee.Name
		t.AssigneeID, t.AssigneeName = &id, &name
	}
	s.tickets[t.ID] = t
	return &t
}

func (s *memStore) historyFor(ticketID int64) []domain.TicketHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.TicketHistory
	for _, h := range s.histories {
		if h.TicketID == ticketID {
			out = append(out, h)
		}
	}
	return out
}

func (s *memStore) ticket(id int64) domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickets[id]
}

type memAccounts struct{ s *memStore }

func (r memAccounts) Create(_ context.Context, a *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	a.ID = r.s.id()
	a.CreatedAt, a.UpdatedAt = time.Now(), time.Now()
	r.s.accounts[a.ID] = *a
	return nil
}

func (r memAccounts) SetSuspended(_ context.Context, id int64, suspended bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a := r.s.accounts[id]
	a.Suspended = suspended
	r.s.accounts[id] = a
	return nil
}

func (r memAccounts) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r memAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if strings.EqualFold(a.Email, email) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r memAccounts) List(_ context.Context) ([]domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memTickets struct{ s *memStore }

func (r memTickets) Create(_ context.Context, t *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.id()
	t.CreatedAt, t.UpdatedAt = time.Now(), time.Now()
	r.s.tickets[t.ID] = *t
	return nil
}

func (r memTickets) Update(_ context.Context, t *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.UpdatedAt = time.Now()
	r.s.tickets[t.ID] = *t
	return nil
}

func (r memTickets) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tickets[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r memTickets) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Ticket, error) {
	return r.GetByID(ctx, id)
}

func (r memTickets) List(_ context.Context, f repository.TicketFilter) ([]domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Ticket
	for _, t := range r.s.tickets {
		if f.OwnerOrPublic != nil && t.OwnerID != *f.OwnerOrPublic && !t.IsPublic {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type memHistory struct{ s *memStore }

func (r memHistory) Create(_ context.Context, h *domain.TicketHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h.ID = r.s.id()
	h.CreatedAt = time.Now()
	r.s.histories = append(r.s.histories, *h)
	return nil
}

func (r memHistory) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketHistory, error) {
	return r.s.historyFor(ticketID), nil
}

// passthroughTx runs fn inline and counts rollbacks.
type passthroughTx struct{ failed int }

func (p *passthroughTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		p.failed++
		return err
	}
	return nil
}

var errHistoryWrite = errors.New("history insert failed")

// failingHistory rejects every append.
type failingHistory struct{ memHistory }

func (failingHistory) Create(context.Context, *domain.TicketHistory) error {
	return errHistoryWrite
}

// rollbackTx snapshots the store before fn and restores it when fn fails.
type rollbackTx struct {
	s        *memStore
	failures []error
}

func (r *rollbackTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.s.mu.Lock()
	tickets := make(map[int64]domain.Ticket, len(r.s.tickets))
	for id, t := range r.s.tickets {
		tickets[id] = t
	}
	histories := append([]domain.TicketHistory(nil), r.s.histories...)
	r.s.mu.Unlock()

	if err := fn(ctx); err != nil {
		r.s.mu.Lock()
		r.s.tickets, r.s.histories = tickets, histories
		r.s.mu.Unlock()
		r.failures = append(r.failures, err)
		return err
	}
	return nil
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.published))
	for _, e := range d.published {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store      *memStore
	tx         *passthroughTx
	dispatcher *recordingDispatcher
	tickets    *TicketService
	assignment *AssignmentService
	accounts   *AccountService
}

func newFixture() *fixture {
	store := newMemStore()
	tx := &passthroughTx{}
	dispatcher := &recordingDispatcher{}
	return &fixture{
		store:      store,
		tx:         tx,
		dispatcher: dispatcher,
		tickets: NewTicketService(TicketDependencies{
			TicketRepo:  memTickets{store},
			HistoryRepo: memHistory{store},
			Tx:          tx,
			Dispatcher:  dispatcher,
		}),
		assignment: NewAssignmentService(AssignmentDependencies{
			TicketRepo:  memTickets{store},
			HistoryRepo: memHistory{store},
			Tx:          tx,
			Dispatcher:  dispatcher,
		}),
		accounts: NewAccountService(AccountDependencies{
			AccountRepo: memAccounts{store},
			Tx:          tx,
			BcryptCost:  4,
		}),
	}
}
