package store

import (
	"context"
	"database/sql"
	"fmt"

	"earnwallet/internal/models"

	"github.com/shopspring/decimal"
)

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MySQL implements Store over database/sql. A MySQL value is either bound
// to the connection pool or, inside WithinTx, to a single transaction.
type MySQL struct {
	db *sql.DB
	q  queryer
}

func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{db: db, q: db}
}

const userColumns = "id, email, first_name, last_name, profile_image_url, role, balance, is_active, created_at, updated_at"

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL,
		&u.Role, &u.Balance, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MySQL) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := s.q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return u, nil
}

func (s *MySQL) UpsertUser(ctx context.Context, u *models.UpsertUser) (*models.User, error) {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO users (id, email, first_name, last_name, profile_image_url)
		 VALUES (?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
			email = VALUES(email),
			first_name = COALESCE(VALUES(first_name), first_name),
			last_name = COALESCE(VALUES(last_name), last_name),
			profile_image_url = COALESCE(VALUES(profile_image_url), profile_image_url),
			updated_at = NOW()`,
		u.ID, u.Email, u.FirstName, u.LastName, u.ProfileImageURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return s.GetUser(ctx, u.ID)
}

func (s *MySQL) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	query := "SELECT " + userColumns + " FROM users"
	args := []any{}
	if filter.Search != "" {
		query += ` WHERE LOWER(email) LIKE LOWER(?)
			OR LOWER(COALESCE(first_name, '')) LIKE LOWER(?)
			OR LOWER(COALESCE(last_name, '')) LIKE LOWER(?)`
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *MySQL) SetUserActive(ctx context.Context, id string, isActive bool) error {
	result, err := s.q.ExecContext(ctx,
		"UPDATE users SET is_active = ?, updated_at = NOW() WHERE id = ?", isActive, id)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	if affected == 0 {
		if _, err := s.GetUser(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// SetUserRole promotes or demotes an account. There is no HTTP route for
// this; it is reached from the admin bootstrap at startup.
func (s *MySQL) SetUserRole(ctx context.Context, id string, role string) error {
	result, err := s.q.ExecContext(ctx,
		"UPDATE users SET role = ?, updated_at = NOW() WHERE id = ?", role, id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if affected == 0 {
		if _, err := s.GetUser(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// AdjustBalance applies the delta as a single statement so concurrent
// adjustments for the same user serialize at the database.
func (s *MySQL) AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) error {
	result, err := s.q.ExecContext(ctx,
		"UPDATE users SET balance = balance + ?, updated_at = NOW() WHERE id = ?", delta, userID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("adjust balance for user %s: %w", userID, ErrNotFound)
	}
	return nil
}

const transactionColumns = "id, user_id, type, amount, status, method, description, admin_id, created_at, updated_at"

func scanTransaction(row interface{ Scan(dest ...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status,
		&t.Method, &t.Description, &t.AdminID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *MySQL) CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	result, err := s.q.ExecContext(ctx,
		`INSERT INTO transactions (user_id, type, amount, status, method, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		txn.UserID, txn.Type, txn.Amount, txn.Status, txn.Method, txn.Description,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction id: %w", err)
	}
	return s.GetTransaction(ctx, int(id))
}

func (s *MySQL) GetTransaction(ctx context.Context, id int) (*models.Transaction, error) {
	row := s.q.QueryRowContext(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}
	return t, nil
}

func (s *MySQL) ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]*models.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE user_id = ?"
	args := []any{userID}
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, filter.Type)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (s *MySQL) ListPendingWithdrawals(ctx context.Context) ([]*models.PendingWithdrawal, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT t.id, t.amount, t.method, t.created_at,
			u.id, u.email, u.first_name, u.last_name, u.profile_image_url
		 FROM transactions t
		 JOIN users u ON u.id = t.user_id
		 WHERE t.type = 'withdrawal' AND t.status = 'pending'
		 ORDER BY t.created_at DESC, t.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []*models.PendingWithdrawal
	for rows.Next() {
		var w models.PendingWithdrawal
		err := rows.Scan(
			&w.ID, &w.Amount, &w.Method, &w.CreatedAt,
			&w.User.ID, &w.User.Email, &w.User.FirstName, &w.User.LastName, &w.User.ProfileImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, &w)
	}
	return withdrawals, rows.Err()
}

func (s *MySQL) UpdateTransactionStatus(ctx context.Context, id int, status models.TransactionStatus, adminID string) (*models.Transaction, error) {
	_, err := s.q.ExecContext(ctx,
		"UPDATE transactions SET status = ?, admin_id = ?, updated_at = NOW() WHERE id = ?",
		status, adminID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction status: %w", err)
	}
	return s.GetTransaction(ctx, id)
}

func (s *MySQL) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	var stats models.UserStats
	err := s.q.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN type = 'earning' AND status = 'completed' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'withdrawal' AND status = 'pending' THEN amount ELSE 0 END), 0),
			COUNT(CASE WHEN type = 'withdrawal' AND status = 'pending' THEN 1 END),
			COALESCE(SUM(CASE WHEN type = 'earning' AND status = 'completed'
				AND DATE_FORMAT(created_at, '%Y-%m') = DATE_FORMAT(NOW(), '%Y-%m') THEN amount ELSE 0 END), 0)
		 FROM transactions WHERE user_id = ?`, userID,
	).Scan(&stats.TotalEarnings, &stats.PendingWithdrawals, &stats.PendingWithdrawalCount, &stats.ThisMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user stats: %w", err)
	}
	return &stats, nil
}

func (s *MySQL) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COUNT(CASE WHEN created_at >= NOW() - INTERVAL 7 DAY THEN 1 END),
			COALESCE(SUM(balance), 0)
		 FROM users`,
	).Scan(&stats.TotalUsers, &stats.NewUsersThisWeek, &stats.TotalPlatformBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user stats: %w", err)
	}

	err = s.q.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN type = 'withdrawal' AND status = 'pending' THEN amount ELSE 0 END), 0),
			COUNT(CASE WHEN type = 'withdrawal' AND status = 'pending' THEN 1 END)
		 FROM transactions`,
	).Scan(&stats.PendingWithdrawalAmount, &stats.PendingWithdrawalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction stats: %w", err)
	}
	return &stats, nil
}

func (s *MySQL) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.db == nil {
		// Already inside a transaction.
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&MySQL{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
