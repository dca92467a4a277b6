package mutation

import (
	"database/sql"
	"time"

	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/shopspring/decimal"
)

// BalanceMutationPostgreSQLModel represents the balance_mutation table layout.
type BalanceMutationPostgreSQLModel struct {
	ID            int64
	ExternalID    int64
	Type          string
	UserID        string
	Amount        decimal.Decimal
	Status        string
	BalanceBefore decimal.NullDecimal
	BalanceAfter  decimal.NullDecimal
	CreatedAt     time.Time
	CompletedAt   sql.NullTime
	FailureReason sql.NullString
}

// ToEntity converts a BalanceMutationPostgreSQLModel to entity mmodel.BalanceMutation.
func (m *BalanceMutationPostgreSQLModel) ToEntity() *mmodel.BalanceMutation {
	mutation := &mmodel.BalanceMutation{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		Type:       m.Type,
		UserID:     m.UserID,
		Amount:     m.Amount,
		Status:     m.Status,
		CreatedAt:  m.CreatedAt,
	}

	if m.BalanceBefore.Valid {
		balanceBefore := m.BalanceBefore.Decimal
		mutation.BalanceBefore = &balanceBefore
	}

	if m.BalanceAfter.Valid {
		balanceAfter := m.BalanceAfter.Decimal
		mutation.BalanceAfter = &balanceAfter
	}

	if m.CompletedAt.Valid {
		completedAt := m.CompletedAt.Time
		mutation.CompletedAt = &completedAt
	}

	if m.FailureReason.Valid {
		failureReason := m.FailureReason.String
		mutation.FailureReason = &failureReason
	}

	return mutation
}
