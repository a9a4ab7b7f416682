package models

import "github.com/shopspring/decimal"

// UserStats are the dashboard projections for a single user. Only
// completed earnings count as earnings; only pending withdrawals count as
// pending.
type UserStats struct {
	TotalEarnings          decimal.Decimal `json:"total_earnings"`
	PendingWithdrawals     decimal.Decimal `json:"pending_withdrawals"`
	PendingWithdrawalCount int             `json:"pending_withdrawal_count"`
	ThisMonth              decimal.Decimal `json:"this_month"`
}

// AdminStats are the platform-wide dashboard projections.
type AdminStats struct {
	TotalUsers              int             `json:"total_users"`
	NewUsersThisWeek        int             `json:"new_users_this_week"`
	PendingWithdrawalAmount decimal.Decimal `json:"pending_withdrawal_amount"`
	PendingWithdrawalCount  int             `json:"pending_withdrawal_count"`
	TotalPlatformBalance    decimal.Decimal `json:"total_platform_balance"`
}
