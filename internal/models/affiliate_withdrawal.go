package models

import (
	"time"
)

const (
	WithdrawalPending    = "pending"
	WithdrawalApproved   = "approved"
	WithdrawalProcessing = "processing"
	WithdrawalCompleted  = "completed"
	WithdrawalRejected   = "rejected"
)

// WithdrawalStatuses is the full set of values an admin may assign.
var WithdrawalStatuses = []string{
	WithdrawalPending,
	WithdrawalApproved,
	WithdrawalProcessing,
	WithdrawalCompleted,
	WithdrawalRejected,
}

// InFlightWithdrawalStatuses still reserve part of the affiliate's balance.
var InFlightWithdrawalStatuses = []string{
	WithdrawalPending,
	WithdrawalApproved,
	WithdrawalProcessing,
}

type AffiliateWithdrawal struct {
	ID                string     `gorm:"primaryKey;size:36" json:"id"`
	AffiliateID       string     `gorm:"column:affiliate_id;size:36;not null;index:idx_withdrawal_affiliate" json:"affiliate_id"`
	Amount            float64    `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	BankName          string     `gorm:"column:bank_name;size:150;not null" json:"bank_name"`
	AccountNumber     string     `gorm:"column:account_number;size:64;not null" json:"account_number"`
	AccountHolderName string     `gorm:"column:account_holder_name;size:150;not null" json:"account_holder_name"`
	RequestNotes      string     `gorm:"column:request_notes;type:text" json:"request_notes"`
	Status            string     `gorm:"column:status;size:20;not null;default:pending;index" json:"status"`
	AdminNotes        string     `gorm:"column:admin_notes;type:text" json:"admin_notes"`
	TransferReference string     `gorm:"column:transfer_reference;size:150" json:"transfer_reference"`
	ProcessedBy       *string    `gorm:"column:processed_by;size:36" json:"processed_by"`
	ProcessedAt       *time.Time `gorm:"column:processed_at" json:"processed_at"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (AffiliateWithdrawal) TableName() string {
	return "affiliate_withdrawals"
}

func (w AffiliateWithdrawal) IsTerminal() bool {
	return w.Status == WithdrawalCompleted || w.Status == WithdrawalRejected
}
