package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gajanji-server/src/logger"
	"gajanji-server/src/mail"
	"gajanji-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeStore struct {
	mu      sync.Mutex
	users   map[string]*models.User
	budgets map[string]*models.Budget
	txs     []models.Transaction
	sumErr  error
}

func (s *fakeStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	c := *u
	return &c, nil
}

func (s *fakeStore) SumExpensesByCategory(_ context.Context, userID, category string, from, to *time.Time) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sumErr != nil {
		return 0, s.sumErr
	}
	var total float64
	for _, tx := range s.txs {
		if tx.UserID != userID || tx.Category != category || tx.Type != models.TransactionExpense {
			continue
		}
		if from != nil && tx.Date.Before(*from) {
			continue
		}
		if to != nil && !tx.Date.Before(*to) {
			continue
		}
		total += tx.Amount
	}
	return total, nil
}

func (s *fakeStore) MarkBudgetNotified(_ context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.budgets[id]
	if b == nil || b.Notified {
		return false, nil
	}
	b.Notified = true
	b.LastNotifiedAt = &at
	return true, nil
}

func (s *fakeStore) ResetBudgetNotification(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.budgets[id]; b != nil {
		b.Notified = false
		b.LastNotifiedAt = nil
	}
	return nil
}

func (s *fakeStore) snapshot() []models.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		out = append(out, *b)
	}
	return out
}

type fakeSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (s *fakeSender) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type NotifierSuite struct {
	suite.Suite
	now    time.Time
	store  *fakeStore
	sender *fakeSender
	n      *Notifier
}

func (s *NotifierSuite) SetupTest() {
	s.now = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	s.store = &fakeStore{
		users: map[string]*models.User{
			"u1": {ID: "u1", Name: "Asha", Email: "asha@example.com", Mailing: true, Currency: "INR"},
		},
		budgets: map[string]*models.Budget{
			"b1": {ID: "b1", UserID: "u1", Name: "Food", Category: "Groceries", Amount: 500, Recurrence: models.RecurrenceMonthly, ThresholdNotify: 90},
		},
	}
	s.sender = &fakeSender{}
	s.n = New(s.store, s.sender, Config{Concurrency: 4, BudgetsURL: "http://localhost:5173/user/budgets"}, logger.Discard())
	s.n.now = func() time.Time { return s.now }
}

func (s *NotifierSuite) spend(amount float64, at time.Time) {
	s.store.txs = append(s.store.txs, models.Transaction{
		UserID: "u1", Amount: amount, Type: models.TransactionExpense, Category: "Groceries", Date: at,
	})
}

func (s *NotifierSuite) TestBelowThresholdDoesNotAlert() {
	s.spend(300, s.now)

	out, err := s.n.Evaluate(context.Background(), "u1", s.store.snapshot())
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal(300.0, out[0].Spent)
	s.Equal(0, s.sender.count())
}

func (s *NotifierSuite) TestAlertsExactlyOnce() {
	s.spend(460, s.now)

	out, err := s.n.Evaluate(context.Background(), "u1", s.store.snapshot())
	s.Require().NoError(err)
	s.True(out[0].Notified)
	s.Equal(1, s.sender.count())
	s.Equal("Budget Alert: Food", s.sender.sent[0].Subject)
	s.Equal("asha@example.com", s.sender.sent[0].To)

	s.spend(100, s.now)
	_, err = s.n.Evaluate(context.Background(), "u1", s.store.snapshot())
	s.Require().NoError(err)
	s.Equal(1, s.sender.count())
}

func (s *NotifierSuite) TestConcurrentEvaluationsSendOneAlert() {
	s.spend(500, s.now)
	budgets := s.store.snapshot()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.n.Evaluate(context.Background(), "u1", budgets)
			s.NoError(err)
		}()
	}
	wg.Wait()

	s.Equal(1, s.sender.count())
}

func (s *NotifierSuite) TestMailingDisabledSkipsAlert() {
	s.store.users["u1"].Mailing = false
	s.spend(500, s.now)

	_, err := s.n.Evaluate(context.Background(), "u1", s.store.snapshot())
	s.Require().NoError(err)
	s.Equal(0, s.sender.count())
	s.False(s.store.budgets["b1"].Notified)
}

func (s *NotifierSuite) TestFailedSendReleasesGuard() {
	s.spend(500, s.now)
	s.sender.err = errors.New("smtp down")

	out, err := s.n.Evaluate(context.Background(), "u1", s.store.snapshot())
	s.Require().NoError(err)
	s.False(out[0].Notified)
	s.False(s.store.budgets["b1"].Notified)

	s.sender.err = nil
	_, err = s.n.Evaluate(context.Background(), "u1", s.store.snapshot())
	s.Require().NoError(err)
	s.Equal(1, s.sender.count())
	s.True(s.store.budgets["b1"].Notified)
}

func (s *NotifierSuite) TestSpendOutsideWindowIsIgnored() {
	s.spend(500, time.Date(2025, 9, 30, 23, 0, 0, 0, time.UTC))

	out, err := s.n.Evaluate(context.Background(), "u1", s.store.snapshot())
	s.Require().NoError(err)
	s.Equal(0.0, out[0].Spent)
	s.Equal(0, s.sender.count())
}

func (s *NotifierSuite) TestMonthlyBudgetRearmsInNewMonth() {
	last := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)
	s.store.budgets["b1"].Notified = true
	s.store.budgets["b1"].LastNotifiedAt = &last
	s.spend(480, s.now)

	out, err := s.n.Evaluate(context.Background(), "u1", s.store.snapshot())
	s.Require().NoError(err)
	s.Equal(1, s.sender.count())
	s.True(out[0].Notified)
	s.Require().NotNil(out[0].LastNotifiedAt)
	s.Equal(s.now, *out[0].LastNotifiedAt)
}

func (s *NotifierSuite) TestCustomBudgetNeverRearms() {
	last := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)
	b := s.store.budgets["b1"]
	b.Recurrence = models.RecurrenceCustom
	b.Notified = true
	b.LastNotifiedAt = &last
	s.spend(480, s.now)

	_, err := s.n.Evaluate(context.Background(), "u1", s.store.snapshot())
	s.Require().NoError(err)
	s.Equal(0, s.sender.count())
}

func (s *NotifierSuite) TestSpendErrorFailsEvaluation() {
	s.store.sumErr = errors.New("db down")

	_, err := s.n.Evaluate(context.Background(), "u1", s.store.snapshot())
	s.Error(err)
}

func TestNotifierSuite(t *testing.T) {
	suite.Run(t, new(NotifierSuite))
}

func TestDue(t *testing.T) {
	b := models.Budget{Amount: 500, ThresholdNotify: 90}
	assert.False(t, Due(b, 449))
	assert.True(t, Due(b, 450))

	b.Notified = true
	assert.False(t, Due(b, 600))

	assert.False(t, Due(models.Budget{Amount: 0, ThresholdNotify: 90}, 10))
	assert.True(t, Due(models.Budget{Amount: 100}, 90), "zero threshold falls back to the default")
}

func TestPercent(t *testing.T) {
	require.InDelta(t, 92.0, Percent(models.Budget{Amount: 500}, 460), 1e-9)
	assert.Equal(t, 0.0, Percent(models.Budget{}, 10))
}
