package alert

import (
	"context"
	"sync"
	"time"

	"github.com/alquila-alerts/internal/domain"
)

// memStore enforces dedup-key uniqueness and the pending-only update rule like the real store.
type memStore struct {
	mu    sync.Mutex
	byID    map[string]*domain.Notification
	keys    map[string]string
	order   []string
	claimed map[string]bool

	findErr   error
	createErr error
}

func newMemStore() *memStore {
	return &memStore{byID: map[string]*domain.Notification{}, keys: map[string]string{}, claimed: map[string]bool{}}
}

func (s *memStore) FindByDedupKey(_ context.Context, contractID string, t domain.NotificationType, scheduledDate time.Time) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	nid, ok := s.keys[domain.DedupKey(contractID, t, scheduledDate)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	n := *s.byID[nid]
	return &n, nil
}

func (s *memStore) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, dup := s.keys[n.DedupKey]; dup {
		return nil, domain.ErrConflict
	}
	stored := *n
	s.byID[n.NotificationID] = &stored
	s.keys[n.DedupKey] = n.NotificationID
	s.order = append(s.order, n.NotificationID)
	out := stored
	return &out, nil
}

func (s *memStore) Claim(_ context.Context, notificationID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[notificationID]
	if !ok {
		return domain.ErrNotFound
	}
	if n.Status != domain.NotificationPending || s.claimed[notificationID] {
		return domain.ErrConflict
	}
	s.claimed[notificationID] = true
	return nil
}

func (s *memStore) Update(_ context.Context, notificationID string, u domain.NotificationUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[notificationID]
	if !ok {
		return domain.ErrNotFound
	}
	if n.Status != domain.NotificationPending {
		return domain.ErrConflict
	}
	sent := u.SentDate
	n.Status = u.Status
	n.SentDate = &sent
	n.WhatsAppSent = u.WhatsAppSent
	return nil
}

func (s *memStore) ListPending(_ context.Context, before time.Time) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Notification
	for _, nid := range s.order {
		n := s.byID[nid]
		if n.Status == domain.NotificationPending && !n.ScheduledDate.After(before) {
			out = append(out, *n)
		}
	}
	return out, nil
}

// laggingStore answers ListPending from a snapshot, like an index that has not yet seen
// the status change.
type laggingStore struct {
	*memStore
	snapshot []domain.Notification
}

func (s *laggingStore) ListPending(context.Context, time.Time) ([]domain.Notification, error) {
	out := make([]domain.Notification, len(s.snapshot))
	copy(out, s.snapshot)
	return out, nil
}

func (s *memStore) all() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Notification, 0, len(s.order))
	for _, nid := range s.order {
		out = append(out, *s.byID[nid])
	}
	return out
}

type fakeContracts struct {
	contracts []domain.Contract
	listErr   error
}

func (f *fakeContracts) ListActiveContracts(context.Context) ([]domain.Contract, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.contracts, nil
}

func (f *fakeContracts) GetContract(_ context.Context, contractID string) (*domain.Contract, error) {
	for i := range f.contracts {
		if f.contracts[i].ID == contractID {
			c := f.contracts[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeSettings struct {
	byOwner map[string]*domain.AlertSettings
	errs    map[string]error
}

func (f *fakeSettings) GetByOwner(_ context.Context, ownerID string) (*domain.AlertSettings, error) {
	if err := f.errs[ownerID]; err != nil {
		return nil, err
	}
	s, ok := f.byOwner[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

type sentMessage struct {
	To      string
	Message string
}

type fakeChannel struct {
	mu      sync.Mutex
	deliver bool
	err     error
	sent    []sentMessage
}

func (f *fakeChannel) SendMessage(_ context.Context, to, message string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{To: to, Message: message})
	return f.deliver, f.err
}

type sentMail struct {
	To, Subject, Body string
}

type fakeMailer struct {
	mails []sentMail
	err   error
}

func (f *fakeMailer) SendEmail(to, subject, body string) error {
	f.mails = append(f.mails, sentMail{To: to, Subject: subject, Body: body})
	return f.err
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func lease(id, ownerID, phone string) domain.Contract {
	return domain.Contract{
		ID:          id,
		Property:    domain.Property{ID: "prop-" + id, Title: "Depto Miraflores", OwnerID: ownerID},
		Owner:       &domain.Owner{ID: ownerID, Name: "Luis", Email: ownerID + "@example.com"},
		Tenant:      &domain.Tenant{ID: "ten-" + id, Name: "Ana", WhatsAppNumber: phone},
		MonthlyRent: 3200,
		StartDate:   date(2024, 1, 1),
		EndDate:     date(2025, 12, 31),
		PaymentDay:  1,
		Status:      domain.ContractActive,
	}
}

func enabledSettings(ownerID string, paymentDays, expiryDays int) *domain.AlertSettings {
	return &domain.AlertSettings{
		OwnerID:             ownerID,
		PaymentReminderDays: paymentDays,
		ContractExpiryDays:  expiryDays,
		WhatsAppEnabled:     true,
	}
}

type harness struct {
	store     *memStore
	contracts *fakeContracts
	settings  *fakeSettings
	channel   *fakeChannel
	mailer    *fakeMailer
	scheduler *Scheduler
}

func newHarness(now time.Time, contracts []domain.Contract, settings map[string]*domain.AlertSettings) *harness {
	h := &harness{
		store:     newMemStore(),
		contracts: &fakeContracts{contracts: contracts},
		settings:  &fakeSettings{byOwner: settings, errs: map[string]error{}},
		channel:   &fakeChannel{deliver: true},
		mailer:    &fakeMailer{},
	}
	dispatcher := NewDispatcher(DispatcherDeps{
		Contracts: h.contracts,
		Store:     h.store,
		Channel:   h.channel,
		Settings:  h.settings,
		Mailer:    h.mailer,
		Now:       fixedClock(now),
	})
	h.scheduler = NewScheduler(SchedulerDeps{
		Contracts:  h.contracts,
		Settings:   h.settings,
		Store:      h.store,
		Dispatcher: dispatcher,
		Now:        fixedClock(now),
	})
	return h
}
