package handlers

import (
	"context"
	"time"

	"gajanji-server/src/chat"
	"gajanji-server/src/insights"
	"gajanji-server/src/models"
	"gajanji-server/src/notifier"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertGoogleUser(ctx context.Context, email, name, picture string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, u *models.User) (*models.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID string, f models.TransactionFilter) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) error
	SumByType(ctx context.Context, userID string, from, to time.Time) (income, expense float64, err error)
}

type BudgetStore interface {
	CreateBudget(ctx context.Context, b *models.Budget) (*models.Budget, error)
	GetBudgetByID(ctx context.Context, id string) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID string) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, b *models.Budget, rearm bool) (*models.Budget, error)
	ListBudgetsByCategory(ctx context.Context, userID, category string) ([]models.Budget, error)
	DeleteBudget(ctx context.Context, userID, id string) error
}

// Store is everything the HTTP layer needs from persistence. *db.Store
// satisfies it.
type Store interface {
	UserStore
	TransactionStore
	BudgetStore
	chat.Store
	notifier.Store
}

// ViewCache holds computed category views. *db.ViewCache satisfies it.
// SetCategories drops the view when the user was invalidated after gen was
// read from Generation.
type ViewCache interface {
	GetCategories(userID string, sel insights.PeriodSelector) (insights.CategoryView, bool)
	Generation(userID string) uint64
	SetCategories(userID string, sel insights.PeriodSelector, view insights.CategoryView, gen uint64) bool
	InvalidateUser(userID string)
	Clear()
}
