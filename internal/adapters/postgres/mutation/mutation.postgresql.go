package mutation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
	"github.com/openledgerhq/transfer-engine/pkg/mpostgres"
)

const mutationColumns = "id, external_id, type, user_id, amount, status, balance_before, balance_after, created_at, completed_at, failure_reason"

// Repository provides an interface for operations related to the balance mutation ledger.
//
//go:generate mockgen --destination=mutation.mock.go --package=mutation . Repository
type Repository interface {
	FindByExternalIDAndType(ctx context.Context, externalID int64, mutationType string) (*mmodel.BalanceMutation, error)
	Apply(ctx context.Context, externalID int64, mutationType, userID string, amount decimal.Decimal) (*mmodel.BalanceMutation, bool, error)
}

// BalanceMutationPostgreSQLRepository is a Postgresql-specific implementation of the mutation Repository.
type BalanceMutationPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewBalanceMutationPostgreSQLRepository returns a new instance of BalanceMutationPostgreSQLRepository using the given Postgres connection.
func NewBalanceMutationPostgreSQLRepository(pc *mpostgres.PostgresConnection) *BalanceMutationPostgreSQLRepository {
	c := &BalanceMutationPostgreSQLRepository{
		connection: pc,
		tableName:  "balance_mutation",
	}

	_, err := c.connection.GetDB()
	if err != nil {
		panic("Failed to connect database")
	}

	return c
}

// FindByExternalIDAndType retrieves the ledger row keyed by (external_id, type).
// A missing row is not an error: it returns (nil, nil) so the caller can proceed.
func (r *BalanceMutationPostgreSQLRepository) FindByExternalIDAndType(ctx context.Context, externalID int64, mutationType string) (*mmodel.BalanceMutation, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_balance_mutation")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	record := &BalanceMutationPostgreSQLModel{}

	row := db.QueryRowContext(ctx, "SELECT "+mutationColumns+" FROM balance_mutation WHERE external_id = $1 AND type = $2", externalID, mutationType)

	if err := scanMutation(row, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

		return nil, err
	}

	return record.ToEntity(), nil
}

// Apply performs one idempotent balance mutation. The amount is signed: negative for
// debits, positive for credits. The second return value reports whether an existing
// ledger row short-circuited the call.
//
// The whole read-modify-write runs in a single transaction: the account row lock is
// taken before any balance read, the ledger row is inserted PROCESSING and flipped to
// COMPLETED together with the balance update, and a racing duplicate insert is caught
// on the (external_id, type) unique index and converted into the short-circuit.
func (r *BalanceMutationPostgreSQLRepository) Apply(ctx context.Context, externalID int64, mutationType, userID string, amount decimal.Decimal) (*mmodel.BalanceMutation, bool, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.apply_balance_mutation")
	defer span.End()

	existing, err := r.FindByExternalIDAndType(ctx, externalID, mutationType)
	if err != nil {
		return nil, false, err
	}

	if existing != nil {
		return existing, true, nil
	}

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, false, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to begin transaction", err)

		return nil, false, err
	}

	defer func() {
		_ = tx.Rollback()
	}()

	var balance decimal.Decimal

	row := tx.QueryRowContext(ctx, "SELECT balance FROM user_account WHERE user_id = $1 FOR UPDATE", userID)
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, pkg.ValidateBusinessError(constant.ErrUserNotFound, reflect.TypeOf(mmodel.Account{}).Name(), userID)
		}

		mopentelemetry.HandleSpanError(&span, "Failed to lock account row", err)

		return nil, false, err
	}

	now := time.Now().UTC()

	if amount.IsNegative() && balance.LessThan(amount.Neg()) {
		failureReason := fmt.Sprintf("insufficient balance: have=%s, need=%s", balance.StringFixed(2), amount.Neg().StringFixed(2))

		failed, err := r.insert(ctx, tx, &BalanceMutationPostgreSQLModel{
			ExternalID:    externalID,
			Type:          mutationType,
			UserID:        userID,
			Amount:        amount,
			Status:        constant.MutationStatusFailed,
			BalanceBefore: decimal.NullDecimal{Decimal: balance, Valid: true},
			CreatedAt:     now,
			FailureReason: sql.NullString{String: failureReason, Valid: true},
		})
		if err != nil {
			return r.recoverDuplicate(ctx, &span, externalID, mutationType, err)
		}

		if err := tx.Commit(); err != nil {
			mopentelemetry.HandleSpanError(&span, "Failed to commit transaction", err)

			return nil, false, err
		}

		return failed.ToEntity(), false, nil
	}

	record, err := r.insert(ctx, tx, &BalanceMutationPostgreSQLModel{
		ExternalID:    externalID,
		Type:          mutationType,
		UserID:        userID,
		Amount:        amount,
		Status:        constant.MutationStatusProcessing,
		BalanceBefore: decimal.NullDecimal{Decimal: balance, Valid: true},
		CreatedAt:     now,
	})
	if err != nil {
		return r.recoverDuplicate(ctx, &span, externalID, mutationType, err)
	}

	newBalance := balance.Add(amount)

	_, err = tx.ExecContext(ctx, "UPDATE user_account SET balance = $1, version = version + 1 WHERE user_id = $2", newBalance, userID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to update account balance", err)

		return nil, false, err
	}

	record.Status = constant.MutationStatusCompleted
	record.BalanceAfter = decimal.NullDecimal{Decimal: newBalance, Valid: true}
	record.CompletedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}

	_, err = tx.ExecContext(ctx, "UPDATE balance_mutation SET status = $1, balance_after = $2, completed_at = $3 WHERE id = $4",
		record.Status,
		record.BalanceAfter,
		record.CompletedAt,
		record.ID,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to update mutation status", err)

		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to commit transaction", err)

		return nil, false, err
	}

	return record.ToEntity(), false, nil
}

// insert writes a ledger row inside the given transaction and fills the assigned id.
func (r *BalanceMutationPostgreSQLRepository) insert(ctx context.Context, tx *sql.Tx, record *BalanceMutationPostgreSQLModel) (*BalanceMutationPostgreSQLModel, error) {
	row := tx.QueryRowContext(ctx, `INSERT INTO balance_mutation (external_id, type, user_id, amount, status, balance_before, balance_after, created_at, completed_at, failure_reason)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id`,
		record.ExternalID,
		record.Type,
		record.UserID,
		record.Amount,
		record.Status,
		record.BalanceBefore,
		record.BalanceAfter,
		record.CreatedAt,
		record.CompletedAt,
		record.FailureReason,
	)

	if err := row.Scan(&record.ID); err != nil {
		return nil, err
	}

	return record, nil
}

// recoverDuplicate converts a unique-constraint violation on (external_id, type) into
// the step-1 short-circuit: the racing writer won, so return its row verbatim.
func (r *BalanceMutationPostgreSQLRepository) recoverDuplicate(ctx context.Context, span *trace.Span, externalID int64, mutationType string, err error) (*mmodel.BalanceMutation, bool, error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		existing, findErr := r.FindByExternalIDAndType(ctx, externalID, mutationType)
		if findErr != nil {
			return nil, false, findErr
		}

		if existing != nil {
			return existing, true, nil
		}
	}

	mopentelemetry.HandleSpanError(span, "Failed to insert mutation", err)

	return nil, false, err
}

func scanMutation(row *sql.Row, record *BalanceMutationPostgreSQLModel) error {
	return row.Scan(
		&record.ID,
		&record.ExternalID,
		&record.Type,
		&record.UserID,
		&record.Amount,
		&record.Status,
		&record.BalanceBefore,
		&record.BalanceAfter,
		&record.CreatedAt,
		&record.CompletedAt,
		&record.FailureReason,
	)
}
