package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"earnwallet/internal/models"

	"github.com/shopspring/decimal"
)

// Memory is a mutex-guarded in-memory Store. It backs the test suite and
// local runs without a configured database.
type Memory struct {
	mu   sync.Mutex
	data *memData
}

type memData struct {
	users        map[string]*models.User
	transactions map[int]*models.Transaction
	nextTxID     int
}

func NewMemory() *Memory {
	return &Memory{data: &memData{
		users:        make(map[string]*models.User),
		transactions: make(map[int]*models.Transaction),
		nextTxID:     1,
	}}
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyTransaction(t *models.Transaction) *models.Transaction {
	c := *t
	return &c
}

func (d *memData) snapshot() *memData {
	s := &memData{
		users:        make(map[string]*models.User, len(d.users)),
		transactions: make(map[int]*models.Transaction, len(d.transactions)),
		nextTxID:     d.nextTxID,
	}
	for id, u := range d.users {
		s.users[id] = copyUser(u)
	}
	for id, t := range d.transactions {
		s.transactions[id] = copyTransaction(t)
	}
	return s
}

func (s *Memory) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.getUser(id)
}

func (d *memData) getUser(id string) (*models.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (s *Memory) UpsertUser(ctx context.Context, u *models.UpsertUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.upsertUser(u)
}

func (d *memData) upsertUser(u *models.UpsertUser) (*models.User, error) {
	now := time.Now()
	existing, ok := d.users[u.ID]
	if !ok {
		created := &models.User{
			ID:              u.ID,
			Email:           u.Email,
			FirstName:       u.FirstName,
			LastName:        u.LastName,
			ProfileImageURL: u.ProfileImageURL,
			Role:            string(models.RoleUser),
			Balance:         decimal.Zero,
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		d.users[u.ID] = created
		return copyUser(created), nil
	}
	existing.Email = u.Email
	if u.FirstName != nil {
		existing.FirstName = u.FirstName
	}
	if u.LastName != nil {
		existing.LastName = u.LastName
	}
	if u.ProfileImageURL != nil {
		existing.ProfileImageURL = u.ProfileImageURL
	}
	existing.UpdatedAt = now
	return copyUser(existing), nil
}

func (s *Memory) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.listUsers(filter)
}

func (d *memData) listUsers(filter models.UserFilter) ([]*models.User, error) {
	search := strings.ToLower(filter.Search)
	var users []*models.User
	for _, u := range d.users {
		if search != "" && !userMatches(u, search) {
			continue
		}
		users = append(users, copyUser(u))
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return paginate(users, filter.Limit, filter.Offset), nil
}

func userMatches(u *models.User, search string) bool {
	if strings.Contains(strings.ToLower(u.Email), search) {
		return true
	}
	if u.FirstName != nil && strings.Contains(strings.ToLower(*u.FirstName), search) {
		return true
	}
	if u.LastName != nil && strings.Contains(strings.ToLower(*u.LastName), search) {
		return true
	}
	return false
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (s *Memory) SetUserActive(ctx context.Context, id string, isActive bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.setUserActive(id, isActive)
}

func (d *memData) setUserActive(id string, isActive bool) error {
	u, ok := d.users[id]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = isActive
	u.UpdatedAt = time.Now()
	return nil
}

func (s *Memory) SetUserRole(ctx context.Context, id string, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.setUserRole(id, role)
}

func (d *memData) setUserRole(id string, role string) error {
	u, ok := d.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	return nil
}

func (s *Memory) AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.adjustBalance(userID, delta)
}

func (d *memData) adjustBalance(userID string, delta decimal.Decimal) error {
	u, ok := d.users[userID]
	if !ok {
		return fmt.Errorf("adjust balance for user %s: %w", userID, ErrNotFound)
	}
	u.Balance = u.Balance.Add(delta)
	u.UpdatedAt = time.Now()
	return nil
}

func (s *Memory) CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.createTransaction(txn)
}

func (d *memData) createTransaction(txn *models.Transaction) (*models.Transaction, error) {
	now := time.Now()
	created := copyTransaction(txn)
	created.ID = d.nextTxID
	created.CreatedAt = now
	created.UpdatedAt = now
	d.nextTxID++
	d.transactions[created.ID] = created
	return copyTransaction(created), nil
}

func (s *Memory) GetTransaction(ctx context.Context, id int) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.getTransaction(id)
}

func (d *memData) getTransaction(id int) (*models.Transaction, error) {
	t, ok := d.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyTransaction(t), nil
}

func (s *Memory) ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.listTransactions(userID, filter)
}

func (d *memData) listTransactions(userID string, filter models.TransactionFilter) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	for _, t := range d.transactions {
		if t.UserID != userID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		transactions = append(transactions, copyTransaction(t))
	}
	sort.Slice(transactions, func(i, j int) bool {
		if transactions[i].CreatedAt.Equal(transactions[j].CreatedAt) {
			return transactions[i].ID > transactions[j].ID
		}
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
	return paginate(transactions, filter.Limit, filter.Offset), nil
}

func (s *Memory) ListPendingWithdrawals(ctx context.Context) ([]*models.PendingWithdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.listPendingWithdrawals()
}

func (d *memData) listPendingWithdrawals() ([]*models.PendingWithdrawal, error) {
	var withdrawals []*models.PendingWithdrawal
	for _, t := range d.transactions {
		if t.Type != models.TransactionTypeWithdrawal || t.Status != models.TransactionStatusPending {
			continue
		}
		owner, ok := d.users[t.UserID]
		if !ok {
			return nil, fmt.Errorf("withdrawal %d owner %s: %w", t.ID, t.UserID, ErrNotFound)
		}
		withdrawals = append(withdrawals, &models.PendingWithdrawal{
			ID:        t.ID,
			Amount:    t.Amount,
			Method:    t.Method,
			CreatedAt: t.CreatedAt,
			User:      owner.Public(),
		})
	}
	sort.Slice(withdrawals, func(i, j int) bool {
		if withdrawals[i].CreatedAt.Equal(withdrawals[j].CreatedAt) {
			return withdrawals[i].ID > withdrawals[j].ID
		}
		return withdrawals[i].CreatedAt.After(withdrawals[j].CreatedAt)
	})
	return withdrawals, nil
}

func (s *Memory) UpdateTransactionStatus(ctx context.Context, id int, status models.TransactionStatus, adminID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.updateTransactionStatus(id, status, adminID)
}

func (d *memData) updateTransactionStatus(id int, status models.TransactionStatus, adminID string) (*models.Transaction, error) {
	t, ok := d.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	t.Status = status
	t.AdminID = &adminID
	t.UpdatedAt = time.Now()
	return copyTransaction(t), nil
}

func (s *Memory) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.userStats(userID)
}

func (d *memData) userStats(userID string) (*models.UserStats, error) {
	now := time.Now()
	stats := &models.UserStats{
		TotalEarnings:      decimal.Zero,
		PendingWithdrawals: decimal.Zero,
		ThisMonth:          decimal.Zero,
	}
	for _, t := range d.transactions {
		if t.UserID != userID {
			continue
		}
		switch {
		case t.Type == models.TransactionTypeEarning && t.Status == models.TransactionStatusCompleted:
			stats.TotalEarnings = stats.TotalEarnings.Add(t.Amount)
			if t.CreatedAt.Year() == now.Year() && t.CreatedAt.Month() == now.Month() {
				stats.ThisMonth = stats.ThisMonth.Add(t.Amount)
			}
		case t.Type == models.TransactionTypeWithdrawal && t.Status == models.TransactionStatusPending:
			stats.PendingWithdrawals = stats.PendingWithdrawals.Add(t.Amount)
			stats.PendingWithdrawalCount++
		}
	}
	return stats, nil
}

func (s *Memory) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.adminStats()
}

func (d *memData) adminStats() (*models.AdminStats, error) {
	weekAgo := time.Now().AddDate(0, 0, -7)
	stats := &models.AdminStats{
		PendingWithdrawalAmount: decimal.Zero,
		TotalPlatformBalance:    decimal.Zero,
	}
	for _, u := range d.users {
		stats.TotalUsers++
		if !u.CreatedAt.Before(weekAgo) {
			stats.NewUsersThisWeek++
		}
		stats.TotalPlatformBalance = stats.TotalPlatformBalance.Add(u.Balance)
	}
	for _, t := range d.transactions {
		if t.Type == models.TransactionTypeWithdrawal && t.Status == models.TransactionStatusPending {
			stats.PendingWithdrawalAmount = stats.PendingWithdrawalAmount.Add(t.Amount)
			stats.PendingWithdrawalCount++
		}
	}
	return stats, nil
}

// WithinTx holds the store lock for the whole callback, so other readers
// see either none or all of its writes. The data is snapshotted first and
// restored if fn fails.
func (s *Memory) WithinTx(ctx context.Context, fn func(Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.snapshot()
	if err := fn(&memoryTx{data: s.data}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// memoryTx exposes the already-locked data as a Store for WithinTx
// callbacks.
type memoryTx struct {
	data *memData
}

func (t *memoryTx) GetUser(ctx context.Context, id string) (*models.User, error) {
	return t.data.getUser(id)
}

func (t *memoryTx) UpsertUser(ctx context.Context, u *models.UpsertUser) (*models.User, error) {
	return t.data.upsertUser(u)
}

func (t *memoryTx) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	return t.data.listUsers(filter)
}

func (t *memoryTx) SetUserActive(ctx context.Context, id string, isActive bool) error {
	return t.data.setUserActive(id, isActive)
}

func (t *memoryTx) SetUserRole(ctx context.Context, id string, role string) error {
	return t.data.setUserRole(id, role)
}

func (t *memoryTx) AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) error {
	return t.data.adjustBalance(userID, delta)
}

func (t *memoryTx) CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	return t.data.createTransaction(txn)
}

func (t *memoryTx) GetTransaction(ctx context.Context, id int) (*models.Transaction, error) {
	return t.data.getTransaction(id)
}

func (t *memoryTx) ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]*models.Transaction, error) {
	return t.data.listTransactions(userID, filter)
}

func (t *memoryTx) ListPendingWithdrawals(ctx context.Context) ([]*models.PendingWithdrawal, error) {
	return t.data.listPendingWithdrawals()
}

func (t *memoryTx) UpdateTransactionStatus(ctx context.Context, id int, status models.TransactionStatus, adminID string) (*models.Transaction, error) {
	return t.data.updateTransactionStatus(id, status, adminID)
}

func (t *memoryTx) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	return t.data.userStats(userID)
}

func (t *memoryTx) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	return t.data.adminStats()
}

func (t *memoryTx) WithinTx(ctx context.Context, fn func(Store) error) error {
	return fn(t)
}
