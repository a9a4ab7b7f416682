package store

import (
	"context"
	"errors"

	"earnwallet/internal/models"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// Store is the single source of truth for users and transactions. Balance
// is only ever changed through AdjustBalance, which implementations must
// issue as one atomic read-modify-write so concurrent adjustments for the
// same user never lose an update.
type Store interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpsertUser(ctx context.Context, u *models.UpsertUser) (*models.User, error)
	ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	SetUserActive(ctx context.Context, id string, isActive bool) error
	SetUserRole(ctx context.Context, id string, role string) error
	AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) error

	CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error)
	GetTransaction(ctx context.Context, id int) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]*models.Transaction, error)
	ListPendingWithdrawals(ctx context.Context) ([]*models.PendingWithdrawal, error)
	UpdateTransactionStatus(ctx context.Context, id int, status models.TransactionStatus, adminID string) (*models.Transaction, error)

	UserStats(ctx context.Context, userID string) (*models.UserStats, error)
	AdminStats(ctx context.Context) (*models.AdminStats, error)

	// WithinTx runs fn against a store bound to a single transaction.
	// Writes made inside fn become visible to other readers all at once on
	// commit, or not at all.
	WithinTx(ctx context.Context, fn func(Store) error) error
}
