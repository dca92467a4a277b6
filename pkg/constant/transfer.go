package constant

import "time"

// Transfer statuses. A transfer is created PENDING and ends in exactly one of the
// terminal states (COMPLETED, DEBIT_FAILED, CANCELLED).
const (
	TransferStatusPending          = "PENDING"
	TransferStatusDebitProcessing  = "DEBIT_PROCESSING"
	TransferStatusCreditProcessing = "CREDIT_PROCESSING"
	TransferStatusCompleted        = "COMPLETED"
	TransferStatusDebitFailed      = "DEBIT_FAILED"
	TransferStatusCancelled        = "CANCELLED"
)

// Balance mutation types. The (external_id, type) pair is globally unique and is the
// idempotency fence for the whole pipeline. REFUND is reserved in the key-space for
// compensation entries.
const (
	MutationTypeDebit  = "DEBIT"
	MutationTypeCredit = "CREDIT"
	MutationTypeRefund = "REFUND"
)

// Balance mutation statuses.
const (
	MutationStatusProcessing = "PROCESSING"
	MutationStatusCompleted  = "COMPLETED"
	MutationStatusFailed     = "FAILED"
)

// Wire types carried by balance-change messages.
const (
	BalanceChangeTypeTransferOut = "TRANSFER_OUT"
	BalanceChangeTypeTransferIn  = "TRANSFER_IN"
)

// CancellationWindow is the period, measured from the transfer's creation instant,
// during which a PENDING transfer may still be cancelled.
const CancellationWindow = 10 * time.Minute

// FailureReasonMaxLength bounds the persisted failure_reason column.
const FailureReasonMaxLength = 255
