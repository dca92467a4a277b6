package mmodel

import (
	"github.com/shopspring/decimal"
)

// BalanceChange is the wire schema of the request topic. The amount is signed:
// negative for TRANSFER_OUT, positive for TRANSFER_IN. Messages are partitioned
// by UserID and consumed in per-key order.
type BalanceChange struct {
	ExternalID int64           `json:"externalId"`
	Type       string          `json:"type"`
	UserID     string          `json:"userId"`
	Amount     decimal.Decimal `json:"amount"`
	RelatedID  int64           `json:"relatedId"`
	Timestamp  int64           `json:"timestamp"`
}

// BalanceChangeResult is the wire schema of the result topic. Partitioned by UserID,
// consumed concurrently.
type BalanceChangeResult struct {
	ExternalID    int64            `json:"externalId"`
	Type          string           `json:"type"`
	Success       bool             `json:"success"`
	UserID        string           `json:"userId"`
	OldBalance    *decimal.Decimal `json:"oldBalance,omitempty"`
	NewBalance    *decimal.Decimal `json:"newBalance,omitempty"`
	FailureReason *string          `json:"failureReason,omitempty"`
	Timestamp     int64            `json:"timestamp"`
}
