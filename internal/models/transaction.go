package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          int               `json:"id"`
	UserID      string            `json:"user_id"`
	Type        TransactionType   `json:"type"`
	Amount      decimal.Decimal   `json:"amount"`
	Status      TransactionStatus `json:"status"`
	Method      *string           `json:"method,omitempty"`
	Description *string           `json:"description,omitempty"`
	AdminID     *string           `json:"admin_id,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeEarning    TransactionType = "earning"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusRejected  TransactionStatus = "rejected"
)

// ErrInvalidTransition is returned when a status change is requested that
// the transaction's type does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// InitialStatus returns the status a transaction of this type is created
// with. Deposits and earnings settle synchronously; only withdrawals wait
// for admin resolution.
func (t TransactionType) InitialStatus() TransactionStatus {
	switch t {
	case TransactionTypeWithdrawal:
		return TransactionStatusPending
	default:
		return TransactionStatusCompleted
	}
}

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeEarning:
		return true
	}
	return false
}

// CanTransition reports whether this transaction may move to the given
// status. Deposits and earnings are terminal on creation; a withdrawal may
// only go from pending to completed or rejected, and both of those are
// terminal.
func (txn *Transaction) CanTransition(to TransactionStatus) error {
	if txn.Type != TransactionTypeWithdrawal {
		return fmt.Errorf("%w: %s transactions are settled on creation", ErrInvalidTransition, txn.Type)
	}
	if txn.Status != TransactionStatusPending {
		return fmt.Errorf("%w: withdrawal %d is already %s", ErrInvalidTransition, txn.ID, txn.Status)
	}
	if to != TransactionStatusCompleted && to != TransactionStatusRejected {
		return fmt.Errorf("%w: a pending withdrawal can only be completed or rejected", ErrInvalidTransition)
	}
	return nil
}

type TransactionFilter struct {
	Type   TransactionType
	Status TransactionStatus
	Limit  int
	Offset int
}

// PendingWithdrawal is a pending withdrawal joined with its owner's public
// profile, as shown on the admin review queue.
type PendingWithdrawal struct {
	ID        int             `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    *string         `json:"method,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	User      PublicProfile   `json:"user"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors carries per-field detail for malformed input.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s: %s", v[0].Field, v[0].Message)
}

var (
	MinDepositAmount    = decimal.NewFromInt(10)
	MaxDepositAmount    = decimal.NewFromInt(10000)
	MinWithdrawalAmount = decimal.NewFromInt(25)
)

var depositMethods = map[string]bool{
	"credit_card":   true,
	"debit_card":    true,
	"bank_transfer": true,
	"paypal":        true,
}

var withdrawalMethods = map[string]bool{
	"bank_transfer": true,
	"paypal":        true,
	"wire_transfer": true,
}

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

func (r *DepositRequest) Validate() error {
	var errs ValidationErrors
	if r.Amount.LessThan(MinDepositAmount) {
		errs = append(errs, FieldError{Field: "amount", Message: "minimum deposit amount is $10"})
	} else if r.Amount.GreaterThan(MaxDepositAmount) {
		errs = append(errs, FieldError{Field: "amount", Message: "maximum deposit amount is $10,000"})
	}
	if !depositMethods[r.Method] {
		errs = append(errs, FieldError{Field: "method", Message: "method must be one of credit_card, debit_card, bank_transfer, paypal"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type WithdrawalRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

func (r *WithdrawalRequest) Validate() error {
	var errs ValidationErrors
	if r.Amount.LessThan(MinWithdrawalAmount) {
		errs = append(errs, FieldError{Field: "amount", Message: "minimum withdrawal amount is $25"})
	}
	if !withdrawalMethods[r.Method] {
		errs = append(errs, FieldError{Field: "method", Message: "method must be one of bank_transfer, paypal, wire_transfer"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ResolveWithdrawalRequest struct {
	Status TransactionStatus `json:"status"`
}

func (r *ResolveWithdrawalRequest) Validate() error {
	if r.Status != TransactionStatusCompleted && r.Status != TransactionStatusRejected {
		return ValidationErrors{{Field: "status", Message: "status must be completed or rejected"}}
	}
	return nil
}
