package transfer

import (
	"database/sql"
	"time"

	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/shopspring/decimal"
)

// TransferPostgreSQLModel represents the transfer table layout.
type TransferPostgreSQLModel struct {
	ID            int64
	FromUserID    string
	ToUserID      string
	Amount        decimal.Decimal
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   sql.NullTime
	CancelledAt   sql.NullTime
	FailureReason sql.NullString
}

// ToEntity converts a TransferPostgreSQLModel to entity mmodel.Transfer.
func (t *TransferPostgreSQLModel) ToEntity() *mmodel.Transfer {
	transfer := &mmodel.Transfer{
		ID:         t.ID,
		FromUserID: t.FromUserID,
		ToUserID:   t.ToUserID,
		Amount:     t.Amount,
		Status:     t.Status,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}

	if t.CompletedAt.Valid {
		completedAt := t.CompletedAt.Time
		transfer.CompletedAt = &completedAt
	}

	if t.CancelledAt.Valid {
		cancelledAt := t.CancelledAt.Time
		transfer.CancelledAt = &cancelledAt
	}

	if t.FailureReason.Valid {
		failureReason := t.FailureReason.String
		transfer.FailureReason = &failureReason
	}

	return transfer
}

// FromEntity converts an entity mmodel.Transfer to TransferPostgreSQLModel.
func (t *TransferPostgreSQLModel) FromEntity(transfer *mmodel.Transfer) {
	t.ID = transfer.ID
	t.FromUserID = transfer.FromUserID
	t.ToUserID = transfer.ToUserID
	t.Amount = transfer.Amount
	t.Status = transfer.Status
	t.CreatedAt = transfer.CreatedAt
	t.UpdatedAt = transfer.UpdatedAt

	if transfer.CompletedAt != nil {
		t.CompletedAt = sql.NullTime{Time: *transfer.CompletedAt, Valid: true}
	}

	if transfer.CancelledAt != nil {
		t.CancelledAt = sql.NullTime{Time: *transfer.CancelledAt, Valid: true}
	}

	if transfer.FailureReason != nil {
		t.FailureReason = sql.NullString{String: *transfer.FailureReason, Valid: true}
	}
}
