package command

import (
	"time"

	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
)

// newDebitRequest builds the request-topic message for the debit leg of a transfer.
// The amount is negative on the wire for TRANSFER_OUT.
func newDebitRequest(t *mmodel.Transfer) *mmodel.BalanceChange {
	return &mmodel.BalanceChange{
		ExternalID: t.ID,
		Type:       constant.BalanceChangeTypeTransferOut,
		UserID:     t.FromUserID,
		Amount:     t.Amount.Neg(),
		RelatedID:  t.ID,
		Timestamp:  time.Now().UnixMilli(),
	}
}

// newCreditRequest builds the request-topic message for the credit leg of a transfer.
func newCreditRequest(t *mmodel.Transfer) *mmodel.BalanceChange {
	return &mmodel.BalanceChange{
		ExternalID: t.ID,
		Type:       constant.BalanceChangeTypeTransferIn,
		UserID:     t.ToUserID,
		Amount:     t.Amount,
		RelatedID:  t.ID,
		Timestamp:  time.Now().UnixMilli(),
	}
}
