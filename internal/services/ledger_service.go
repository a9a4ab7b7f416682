package services

import (
	"context"
	"errors"
	"fmt"

	"earnwallet/internal/models"
	"earnwallet/internal/store"

	"github.com/rs/zerolog"
)

// ErrInsufficientBalance is returned when a withdrawal request or approval
// exceeds the owner's current balance.
var ErrInsufficientBalance = errors.New("insufficient balance")

// LedgerService owns every balance mutation. The rule it enforces: a
// transaction's status and its owner's balance change together or not at
// all, so balance always equals completed deposits plus completed earnings
// minus completed withdrawals.
type LedgerService struct {
	store  store.Store
	logger zerolog.Logger
}

func NewLedgerService(st store.Store, logger zerolog.Logger) *LedgerService {
	return &LedgerService{
		store:  st,
		logger: logger,
	}
}

// Deposit records an instantly settled deposit and credits the balance in
// one store transaction.
func (s *LedgerService) Deposit(ctx context.Context, userID string, req *models.DepositRequest) (*models.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	description := "Deposit via " + req.Method
	var txn *models.Transaction
	err := s.store.WithinTx(ctx, func(st store.Store) error {
		if _, err := st.GetUser(ctx, userID); err != nil {
			return err
		}
		created, err := st.CreateTransaction(ctx, &models.Transaction{
			UserID:      userID,
			Type:        models.TransactionTypeDeposit,
			Amount:      req.Amount,
			Status:      models.TransactionTypeDeposit.InitialStatus(),
			Method:      &req.Method,
			Description: &description,
		})
		if err != nil {
			return err
		}
		if err := st.AdjustBalance(ctx, userID, req.Amount); err != nil {
			return err
		}
		txn = created
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("amount", req.Amount.String()).Msg("Deposit failed")
		return nil, err
	}

	s.logger.Info().
		Int("transaction_id", txn.ID).
		Str("user_id", userID).
		Str("amount", req.Amount.String()).
		Msg("Deposit completed")
	return txn, nil
}

// RequestWithdrawal checks the balance covers the amount and records a
// pending withdrawal. No funds move until an admin approves it.
func (s *LedgerService) RequestWithdrawal(ctx context.Context, userID string, req *models.WithdrawalRequest) (*models.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Balance.LessThan(req.Amount) {
		return nil, fmt.Errorf("balance %s is less than %s: %w", user.Balance, req.Amount, ErrInsufficientBalance)
	}

	description := "Withdrawal request via " + req.Method
	txn, err := s.store.CreateTransaction(ctx, &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionTypeWithdrawal,
		Amount:      req.Amount,
		Status:      models.TransactionTypeWithdrawal.InitialStatus(),
		Method:      &req.Method,
		Description: &description,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Withdrawal request failed")
		return nil, err
	}

	s.logger.Info().
		Int("transaction_id", txn.ID).
		Str("user_id", userID).
		Str("amount", req.Amount.String()).
		Msg("Withdrawal requested")
	return txn, nil
}

// CompleteTask records the task's reward as a settled earning and credits
// the balance in one store transaction.
func (s *LedgerService) CompleteTask(ctx context.Context, userID string, taskID int) (*models.Transaction, error) {
	task, ok := models.TaskByID(taskID)
	if !ok {
		return nil, fmt.Errorf("task %d: %w", taskID, store.ErrNotFound)
	}

	description := "Completed: " + task.Title
	var txn *models.Transaction
	err := s.store.WithinTx(ctx, func(st store.Store) error {
		if _, err := st.GetUser(ctx, userID); err != nil {
			return err
		}
		created, err := st.CreateTransaction(ctx, &models.Transaction{
			UserID:      userID,
			Type:        models.TransactionTypeEarning,
			Amount:      task.Reward,
			Status:      models.TransactionTypeEarning.InitialStatus(),
			Description: &description,
		})
		if err != nil {
			return err
		}
		if err := st.AdjustBalance(ctx, userID, task.Reward); err != nil {
			return err
		}
		txn = created
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Int("task_id", taskID).Msg("Task completion failed")
		return nil, err
	}

	s.logger.Info().
		Int("transaction_id", txn.ID).
		Str("user_id", userID).
		Int("task_id", taskID).
		Str("reward", task.Reward.String()).
		Msg("Task completed")
	return txn, nil
}

// ResolveWithdrawal settles a pending withdrawal. Approval deducts the
// amount in the same store transaction as the status change; rejection
// never touches the balance. The owner's balance is re-checked on approval
// because other withdrawals may have drained it since the request was made.
func (s *LedgerService) ResolveWithdrawal(ctx context.Context, callerID string, transactionID int, req *models.ResolveWithdrawalRequest) (*models.Transaction, error) {
	admin, err := requireAdmin(ctx, s.store, callerID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resolved *models.Transaction
	err = s.store.WithinTx(ctx, func(st store.Store) error {
		txn, err := st.GetTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		if err := txn.CanTransition(req.Status); err != nil {
			return err
		}

		if req.Status == models.TransactionStatusCompleted {
			owner, err := st.GetUser(ctx, txn.UserID)
			if err != nil {
				return err
			}
			if owner.Balance.LessThan(txn.Amount) {
				return fmt.Errorf("balance %s no longer covers %s: %w", owner.Balance, txn.Amount, ErrInsufficientBalance)
			}
		}

		updated, err := st.UpdateTransactionStatus(ctx, transactionID, req.Status, admin.ID)
		if err != nil {
			return err
		}
		if req.Status == models.TransactionStatusCompleted {
			if err := st.AdjustBalance(ctx, txn.UserID, txn.Amount.Neg()); err != nil {
				return err
			}
		}
		resolved = updated
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).
			Int("transaction_id", transactionID).
			Str("admin_id", admin.ID).
			Msg("Withdrawal resolution failed")
		return nil, err
	}

	s.logger.Info().
		Int("transaction_id", resolved.ID).
		Str("user_id", resolved.UserID).
		Str("admin_id", admin.ID).
		Str("status", string(resolved.Status)).
		Msg("Withdrawal resolved")
	return resolved, nil
}

func (s *LedgerService) Transactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]*models.Transaction, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, models.ValidationErrors{{Field: "type", Message: "type must be one of deposit, withdrawal, earning"}}
	}
	return s.store.ListTransactions(ctx, userID, filter)
}

func (s *LedgerService) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	return s.store.UserStats(ctx, userID)
}

// PendingWithdrawals returns the admin review queue.
func (s *LedgerService) PendingWithdrawals(ctx context.Context, callerID string) ([]*models.PendingWithdrawal, error) {
	if _, err := requireAdmin(ctx, s.store, callerID); err != nil {
		return nil, err
	}
	return s.store.ListPendingWithdrawals(ctx)
}

func (s *LedgerService) AdminStats(ctx context.Context, callerID string) (*models.AdminStats, error) {
	if _, err := requireAdmin(ctx, s.store, callerID); err != nil {
		return nil, err
	}
	return s.store.AdminStats(ctx)
}
