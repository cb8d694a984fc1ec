package api

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	db "gajanji-server/src/db/sql"
	"gajanji-server/src/insights"
	"gajanji-server/src/mail"
	"gajanji-server/src/models"

	"github.com/google/uuid"
)

// memStore is an in-memory handlers.Store.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	txs      map[string]*models.Transaction
	budgets  map[string]*models.Budget
	messages []models.ChatMessage
	clock    time.Time

	// beforeBudgetUpdate runs at the start of UpdateBudget, outside the lock.
	beforeBudgetUpdate func()
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]*models.User{},
		txs:     map[string]*models.Transaction{},
		budgets: map[string]*models.Budget{},
		clock:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) CreateUser(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(u.Email)
	for _, existing := range s.users {
		if existing.Email == email {
			return nil, db.ErrConflict
		}
	}
	c := *u
	c.ID = uuid.NewString()
	c.Email = email
	if c.Roles == nil {
		c.Roles = []string{}
	}
	if c.Currency == "" {
		c.Currency = "USD"
	}
	c.CreatedAt = s.tick()
	s.users[c.ID] = &c
	out := c
	return &out, nil
}

func (s *memStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *memStore) UpsertGoogleUser(ctx context.Context, email, name, picture string) (*models.User, error) {
	s.mu.Lock()
	for _, u := range s.users {
		if u.Email == strings.ToLower(email) {
			u.Name, u.Picture, u.Provider, u.IsVerified = name, picture, models.ProviderGoogle, true
			c := *u
			s.mu.Unlock()
			return &c, nil
		}
	}
	s.mu.Unlock()
	return s.CreateUser(ctx, &models.User{
		Name: name, Email: email, Picture: picture, Provider: models.ProviderGoogle,
		IsVerified: true, Notifications: true, Mailing: true,
	})
}

func (s *memStore) UpdateUserProfile(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		return nil, db.ErrNotFound
	}
	c := *existing
	c.Name, c.Picture, c.Phone, c.Gender, c.Job = u.Name, u.Picture, u.Phone, u.Gender, u.Job
	c.Currency, c.Notifications, c.Mailing = u.Currency, u.Notifications, u.Mailing
	s.users[u.ID] = &c
	out := c
	return &out, nil
}

func (s *memStore) UpdateUserPassword(_ context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return db.ErrNotFound
	}
	u.PasswordHash = &hash
	return nil
}

func (s *memStore) CreateTransaction(_ context.Context, t *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *t
	c.ID = uuid.NewString()
	c.CreatedAt = s.tick()
	c.UpdatedAt = c.CreatedAt
	s.txs[c.ID] = &c
	out := c
	return &out, nil
}

func (s *memStore) GetTransactionByID(_ context.Context, id string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (s *memStore) ListTransactions(_ context.Context, userID string, f models.TransactionFilter) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Transaction{}
	for _, t := range s.txs {
		if t.UserID != userID {
			continue
		}
		if f.From != nil && t.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && !t.Date.Before(*f.To) {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *memStore) UpdateTransaction(_ context.Context, t *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.txs[t.ID]
	if !ok || existing.UserID != t.UserID {
		return nil, db.ErrNotFound
	}
	c := *t
	c.UpdatedAt = s.tick()
	s.txs[t.ID] = &c
	out := c
	return &out, nil
}

func (s *memStore) DeleteTransaction(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[id]
	if !ok || t.UserID != userID {
		return db.ErrNotFound
	}
	delete(s.txs, id)
	return nil
}

func (s *memStore) SumByType(ctx context.Context, userID string, from, to time.Time) (float64, float64, error) {
	txs, _ := s.ListTransactions(ctx, userID, models.TransactionFilter{From: &from, To: &to})
	income, expense := insights.Totals(txs)
	return income, expense, nil
}

func (s *memStore) SumExpensesByCategory(ctx context.Context, userID, category string, from, to *time.Time) (float64, error) {
	txs, _ := s.ListTransactions(ctx, userID, models.TransactionFilter{
		From: from, To: to, Type: models.TransactionExpense, Category: category,
	})
	_, expense := insights.Totals(txs)
	return expense, nil
}

func (s *memStore) CreateBudget(_ context.Context, b *models.Budget) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *b
	c.ID = uuid.NewString()
	c.CreatedAt = s.tick()
	c.UpdatedAt = c.CreatedAt
	s.budgets[c.ID] = &c
	out := c
	return &out, nil
}

func (s *memStore) GetBudgetByID(_ context.Context, id string) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	c := *b
	return &c, nil
}

func (s *memStore) ListBudgets(_ context.Context, userID string) ([]models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Budget{}
	for _, b := range s.budgets {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) ListBudgetsByCategory(ctx context.Context, userID, category string) ([]models.Budget, error) {
	all, _ := s.ListBudgets(ctx, userID)
	out := []models.Budget{}
	for _, b := range all {
		if b.Category == category {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memStore) UpdateBudget(_ context.Context, b *models.Budget, rearm bool) (*models.Budget, error) {
	if s.beforeBudgetUpdate != nil {
		s.beforeBudgetUpdate()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.budgets[b.ID]
	if !ok || existing.UserID != b.UserID {
		return nil, db.ErrNotFound
	}
	c := *b
	c.Notified, c.LastNotifiedAt = existing.Notified, existing.LastNotifiedAt
	if rearm {
		c.Notified, c.LastNotifiedAt = false, nil
	}
	c.UpdatedAt = s.tick()
	s.budgets[b.ID] = &c
	out := c
	return &out, nil
}

func (s *memStore) DeleteBudget(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return db.ErrNotFound
	}
	delete(s.budgets, id)
	return nil
}

func (s *memStore) MarkBudgetNotified(_ context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok || b.Notified {
		return false, nil
	}
	b.Notified = true
	b.LastNotifiedAt = &at
	return true, nil
}

func (s *memStore) ResetBudgetNotification(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.budgets[id]; ok {
		b.Notified = false
		b.LastNotifiedAt = nil
	}
	return nil
}

func (s *memStore) CreateChatMessage(_ context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *msg
	c.ID = uuid.NewString()
	c.CreatedAt = s.tick()
	s.messages = append(s.messages, c)
	return &c, nil
}

func (s *memStore) ListChatMessages(_ context.Context, userID string) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ChatMessage{}
	for _, m := range s.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

// mapCache is a synchronous handlers.ViewCache.
type mapCache struct {
	mu    sync.Mutex
	views map[string]map[insights.PeriodSelector]insights.CategoryView
	gen   map[string]uint64
	epoch uint64
}

func newMapCache() *mapCache {
	return &mapCache{
		views: map[string]map[insights.PeriodSelector]insights.CategoryView{},
		gen:   map[string]uint64{},
	}
}

func (c *mapCache) GetCategories(userID string, sel insights.PeriodSelector) (insights.CategoryView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[userID][sel]
	return v, ok
}

func (c *mapCache) Generation(userID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch + c.gen[userID]
}

func (c *mapCache) SetCategories(userID string, sel insights.PeriodSelector, view insights.CategoryView, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.epoch+c.gen[userID] {
		return false
	}
	if c.views[userID] == nil {
		c.views[userID] = map[insights.PeriodSelector]insights.CategoryView{}
	}
	c.views[userID][sel] = view
	return true
}

func (c *mapCache) InvalidateUser(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen[userID]++
	delete(c.views, userID)
}

func (c *mapCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.views = map[string]map[insights.PeriodSelector]insights.CategoryView{}
}

// outbox records sent mail.
type outbox struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (o *outbox) Send(_ context.Context, msg mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) messages() []mail.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]mail.Message(nil), o.sent...)
}
