package mmodel

import (
	"time"

	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/shopspring/decimal"
)

// CreateTransferInput is a struct design to encapsulate request create payload data.
type CreateTransferInput struct {
	FromUserID string          `json:"fromUserId" validate:"required,min=3,max=50"`
	ToUserID   string          `json:"toUserId" validate:"required,min=3,max=50"`
	Amount     decimal.Decimal `json:"amount"`
}

// Transfer is a struct designed to encapsulate a transfer payload.
type Transfer struct {
	ID            int64           `json:"id"`
	FromUserID    string          `json:"fromUserId"`
	ToUserID      string          `json:"toUserId"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	CancelledAt   *time.Time      `json:"cancelledAt,omitempty"`
	FailureReason *string         `json:"failureReason,omitempty"`
}

// transferTransitions is the complete set of legal status edges. Anything outside
// this table is rejected as an invalid transfer state.
var transferTransitions = map[string][]string{
	constant.TransferStatusPending: {
		constant.TransferStatusDebitProcessing,
		constant.TransferStatusCancelled,
	},
	constant.TransferStatusDebitProcessing: {
		constant.TransferStatusCreditProcessing,
		constant.TransferStatusDebitFailed,
	},
	constant.TransferStatusCreditProcessing: {
		constant.TransferStatusCompleted,
	},
}

// CanTransition reports whether the edge from -> to exists in the status graph.
func CanTransition(from, to string) bool {
	for _, next := range transferTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// IsTerminalStatus reports whether the given status has no outgoing edges.
func IsTerminalStatus(status string) bool {
	switch status {
	case constant.TransferStatusCompleted, constant.TransferStatusDebitFailed, constant.TransferStatusCancelled:
		return true
	}

	return false
}

// IsInFlightStatus reports whether the given status is between PENDING and a terminal state.
func IsInFlightStatus(status string) bool {
	switch status {
	case constant.TransferStatusDebitProcessing, constant.TransferStatusCreditProcessing:
		return true
	}

	return false
}

// IsCancellable reports whether the transfer can still be cancelled at the given instant.
// Cancellation is only permitted while the transfer is PENDING and within the
// cancellation window measured from its creation.
func (t *Transfer) IsCancellable(now time.Time) bool {
	if t.Status != constant.TransferStatusPending {
		return false
	}

	return now.Sub(t.CreatedAt) <= constant.CancellationWindow
}
