package mutation

import (
	"database/sql"
	"testing"
	"time"

	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMutationModelToEntity(t *testing.T) {
	now := time.Now().UTC()
	completedAt := now.Add(time.Millisecond)

	record := &BalanceMutationPostgreSQLModel{
		ID:            7,
		ExternalID:    3,
		Type:          constant.MutationTypeDebit,
		UserID:        "alice",
		Amount:        decimal.RequireFromString("-300.00"),
		Status:        constant.MutationStatusCompleted,
		BalanceBefore: decimal.NullDecimal{Decimal: decimal.RequireFromString("1000.00"), Valid: true},
		BalanceAfter:  decimal.NullDecimal{Decimal: decimal.RequireFromString("700.00"), Valid: true},
		CreatedAt:     now,
		CompletedAt:   sql.NullTime{Time: completedAt, Valid: true},
	}

	entity := record.ToEntity()

	assert.Equal(t, int64(3), entity.ExternalID)
	assert.True(t, entity.Succeeded())
	assert.Equal(t, constant.BalanceChangeTypeTransferOut, entity.ChangeType())
	assert.True(t, entity.BalanceBefore.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, entity.BalanceAfter.Equal(decimal.RequireFromString("700.00")))
	assert.Equal(t, completedAt, *entity.CompletedAt)
	assert.Nil(t, entity.FailureReason)
}

func TestMutationModelFailedEntity(t *testing.T) {
	record := &BalanceMutationPostgreSQLModel{
		ID:            8,
		ExternalID:    4,
		Type:          constant.MutationTypeCredit,
		UserID:        "bobby",
		Amount:        decimal.RequireFromString("300.00"),
		Status:        constant.MutationStatusFailed,
		FailureReason: sql.NullString{String: "storage fault", Valid: true},
	}

	entity := record.ToEntity()

	assert.False(t, entity.Succeeded())
	assert.Equal(t, constant.BalanceChangeTypeTransferIn, entity.ChangeType())
	assert.Nil(t, entity.BalanceBefore)
	assert.Nil(t, entity.BalanceAfter)
	assert.Equal(t, "storage fault", *entity.FailureReason)
}
