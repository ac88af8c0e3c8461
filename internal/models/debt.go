package models

import "time"

// Debt is the database row model for the debts table.
type Debt struct {
	ID              int64     `json:"id"`
	BorrowerID      string    `json:"borrowerID"`
	LenderID        string    `json:"lenderID"`
	AmountInitial   int64     `json:"amountInitial"`
	AmountRemaining int64     `json:"amountRemaining"`
	CreatedAt       time.Time `json:"createdAt"`
	LastAccrualAt   time.Time `json:"lastAccrualAt"`
	Status          string    `json:"status"`
	Note            string    `json:"note"`
}
