package mmodel

import (
	"time"

	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/shopspring/decimal"
)

// BalanceMutation is one row of the idempotency ledger. The (ExternalID, Type) pair is
// globally unique; a transfer that completes leaves exactly two COMPLETED rows behind.
type BalanceMutation struct {
	ID            int64            `json:"id"`
	ExternalID    int64            `json:"externalId"`
	Type          string           `json:"type"`
	UserID        string           `json:"userId"`
	Amount        decimal.Decimal  `json:"amount"`
	Status        string           `json:"status"`
	BalanceBefore *decimal.Decimal `json:"balanceBefore,omitempty"`
	BalanceAfter  *decimal.Decimal `json:"balanceAfter,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	CompletedAt   *time.Time       `json:"completedAt,omitempty"`
	FailureReason *string          `json:"failureReason,omitempty"`
}

// Succeeded reports whether the mutation reached COMPLETED.
func (m *BalanceMutation) Succeeded() bool {
	return m.Status == constant.MutationStatusCompleted
}

// ChangeType maps the ledger mutation type onto the wire type of balance-change messages.
func (m *BalanceMutation) ChangeType() string {
	if m.Type == constant.MutationTypeDebit {
		return constant.BalanceChangeTypeTransferOut
	}

	return constant.BalanceChangeTypeTransferIn
}
