package transfer

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"time"

	"github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/trace"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
	"github.com/openledgerhq/transfer-engine/pkg/mpostgres"
)

const transferColumns = "id, from_user_id, to_user_id, amount, status, created_at, updated_at, completed_at, cancelled_at, failure_reason"

// Repository provides an interface for operations related to transfer entities.
// Transition and Cancel take the row lock and enforce the status graph; everything
// else is plain persistence.
//
//go:generate mockgen --destination=transfer.mock.go --package=transfer . Repository
type Repository interface {
	Create(ctx context.Context, transfer *mmodel.Transfer) (*mmodel.Transfer, error)
	Find(ctx context.Context, id int64) (*mmodel.Transfer, error)
	Transition(ctx context.Context, id int64, to string, failureReason *string) (*mmodel.Transfer, string, error)
	Cancel(ctx context.Context, id int64) (*mmodel.Transfer, error)
	FindPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*mmodel.Transfer, error)
	FindStaleByStatus(ctx context.Context, status string, cutoff time.Time, limit int) ([]*mmodel.Transfer, error)
	TouchUpdatedAt(ctx context.Context, id int64) error
	FindAllByUser(ctx context.Context, userID string, page, limit int) ([]*mmodel.Transfer, error)
}

// TransferPostgreSQLRepository is a Postgresql-specific implementation of the transfer Repository.
type TransferPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewTransferPostgreSQLRepository returns a new instance of TransferPostgreSQLRepository using the given Postgres connection.
func NewTransferPostgreSQLRepository(pc *mpostgres.PostgresConnection) *TransferPostgreSQLRepository {
	c := &TransferPostgreSQLRepository{
		connection: pc,
		tableName:  "transfer",
	}

	_, err := c.connection.GetDB()
	if err != nil {
		panic("Failed to connect database")
	}

	return c
}

// Create a new transfer entity into Postgresql and returns it with the assigned id.
func (r *TransferPostgreSQLRepository) Create(ctx context.Context, transfer *mmodel.Transfer) (*mmodel.Transfer, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.create_transfer")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	record := &TransferPostgreSQLModel{}
	record.FromEntity(transfer)

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}

	record.UpdatedAt = record.CreatedAt

	ctx, spanExec := tracer.Start(ctx, "postgres.create_transfer.exec")

	err = mopentelemetry.SetSpanAttributesFromStruct(&spanExec, "transfer_repository_input", record)
	if err != nil {
		mopentelemetry.HandleSpanError(&spanExec, "Failed to convert transfer record from entity to JSON string", err)

		return nil, err
	}

	row := db.QueryRowContext(ctx, `INSERT INTO transfer (from_user_id, to_user_id, amount, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`,
		record.FromUserID,
		record.ToUserID,
		record.Amount,
		record.Status,
		record.CreatedAt,
		record.UpdatedAt,
	)

	if err := row.Scan(&record.ID); err != nil {
		mopentelemetry.HandleSpanError(&spanExec, "Failed to execute query", err)

		return nil, err
	}

	spanExec.End()

	return record.ToEntity(), nil
}

// Find retrieves a transfer entity from the database using the provided ID.
func (r *TransferPostgreSQLRepository) Find(ctx context.Context, id int64) (*mmodel.Transfer, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_transfer")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	ctx, spanQuery := tracer.Start(ctx, "postgres.find_transfer.query")

	row := db.QueryRowContext(ctx, "SELECT "+transferColumns+" FROM transfer WHERE id = $1", id)

	spanQuery.End()

	record := &TransferPostgreSQLModel{}

	if err := scanTransfer(row, record); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkg.ValidateBusinessError(constant.ErrTransferNotFound, reflect.TypeOf(mmodel.Transfer{}).Name())
		}

		return nil, err
	}

	return record.ToEntity(), nil
}

// Transition moves the transfer to the given status under a row-level write lock.
// It validates the edge against the status graph and stamps the terminal payload
// where applicable. It returns the updated row and the status it moved from.
func (r *TransferPostgreSQLRepository) Transition(ctx context.Context, id int64, to string, failureReason *string) (*mmodel.Transfer, string, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.transition_transfer")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, "", err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to begin transaction", err)

		return nil, "", err
	}

	defer func() {
		_ = tx.Rollback()
	}()

	record := &TransferPostgreSQLModel{}

	row := tx.QueryRowContext(ctx, "SELECT "+transferColumns+" FROM transfer WHERE id = $1 FOR UPDATE", id)
	if err := scanTransfer(row, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", pkg.ValidateBusinessError(constant.ErrTransferNotFound, reflect.TypeOf(mmodel.Transfer{}).Name())
		}

		mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

		return nil, "", err
	}

	from := record.Status

	if !mmodel.CanTransition(from, to) {
		return nil, from, pkg.ValidateBusinessError(constant.ErrInvalidTransferState, reflect.TypeOf(mmodel.Transfer{}).Name(), from, to)
	}

	now := time.Now().UTC()

	record.Status = to
	record.UpdatedAt = now

	if to == constant.TransferStatusCompleted {
		record.CompletedAt = sql.NullTime{Time: now, Valid: true}
	}

	if to == constant.TransferStatusCancelled {
		record.CancelledAt = sql.NullTime{Time: now, Valid: true}
	}

	if failureReason != nil {
		reason := *failureReason
		if len(reason) > constant.FailureReasonMaxLength {
			reason = reason[:constant.FailureReasonMaxLength]
		}

		record.FailureReason = sql.NullString{String: reason, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `UPDATE transfer SET status = $1, updated_at = $2, completed_at = $3, cancelled_at = $4, failure_reason = $5 WHERE id = $6`,
		record.Status,
		record.UpdatedAt,
		record.CompletedAt,
		record.CancelledAt,
		record.FailureReason,
		record.ID,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		return nil, from, err
	}

	if err := tx.Commit(); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to commit transaction", err)

		return nil, from, err
	}

	return record.ToEntity(), from, nil
}

// Cancel moves a PENDING transfer to CANCELLED under a row-level write lock, subject
// to the cancellation window measured from the creation instant.
func (r *TransferPostgreSQLRepository) Cancel(ctx context.Context, id int64) (*mmodel.Transfer, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.cancel_transfer")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to begin transaction", err)

		return nil, err
	}

	defer func() {
		_ = tx.Rollback()
	}()

	record := &TransferPostgreSQLModel{}

	row := tx.QueryRowContext(ctx, "SELECT "+transferColumns+" FROM transfer WHERE id = $1 FOR UPDATE", id)
	if err := scanTransfer(row, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkg.ValidateBusinessError(constant.ErrTransferNotFound, reflect.TypeOf(mmodel.Transfer{}).Name())
		}

		mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

		return nil, err
	}

	if !mmodel.CanTransition(record.Status, constant.TransferStatusCancelled) {
		return nil, pkg.ValidateBusinessError(constant.ErrInvalidTransferState, reflect.TypeOf(mmodel.Transfer{}).Name(), record.Status, constant.TransferStatusCancelled)
	}

	now := time.Now().UTC()

	if now.Sub(record.CreatedAt) > constant.CancellationWindow {
		return nil, pkg.ValidateBusinessError(constant.ErrCancellationWindowExpired, reflect.TypeOf(mmodel.Transfer{}).Name())
	}

	record.Status = constant.TransferStatusCancelled
	record.UpdatedAt = now
	record.CancelledAt = sql.NullTime{Time: now, Valid: true}

	_, err = tx.ExecContext(ctx, `UPDATE transfer SET status = $1, updated_at = $2, cancelled_at = $3 WHERE id = $4`,
		record.Status,
		record.UpdatedAt,
		record.CancelledAt,
		record.ID,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		return nil, err
	}

	if err := tx.Commit(); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to commit transaction", err)

		return nil, err
	}

	return record.ToEntity(), nil
}

// FindPendingOlderThan retrieves PENDING transfers created before the cutoff, oldest first.
func (r *TransferPostgreSQLRepository) FindPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*mmodel.Transfer, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_pending_transfers")
	defer span.End()

	findAll := squirrel.Select(transferColumns).
		From(r.tableName).
		Where(squirrel.Eq{"status": constant.TransferStatusPending}).
		Where(squirrel.Lt{"created_at": cutoff}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, &span, findAll)
}

// FindStaleByStatus retrieves in-flight transfers in the given status whose updated_at
// predates the cutoff, oldest first.
func (r *TransferPostgreSQLRepository) FindStaleByStatus(ctx context.Context, status string, cutoff time.Time, limit int) ([]*mmodel.Transfer, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_stale_transfers")
	defer span.End()

	findAll := squirrel.Select(transferColumns).
		From(r.tableName).
		Where(squirrel.Eq{"status": status}).
		Where(squirrel.Lt{"updated_at": cutoff}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, &span, findAll)
}

// TouchUpdatedAt bumps updated_at so a freshly re-driven transfer is not immediately re-scanned.
func (r *TransferPostgreSQLRepository) TouchUpdatedAt(ctx context.Context, id int64) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.touch_transfer")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	_, err = db.ExecContext(ctx, "UPDATE transfer SET updated_at = $1 WHERE id = $2", time.Now().UTC(), id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		return err
	}

	return nil
}

// FindAllByUser retrieves transfers where the user is the sender or the receiver,
// newest first, with zero-based page indexing.
func (r *TransferPostgreSQLRepository) FindAllByUser(ctx context.Context, userID string, page, limit int) ([]*mmodel.Transfer, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_all_transfers_by_user")
	defer span.End()

	findAll := squirrel.Select(transferColumns).
		From(r.tableName).
		Where(squirrel.Or{
			squirrel.Eq{"from_user_id": userID},
			squirrel.Eq{"to_user_id": userID},
		}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(page * limit)).
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, &span, findAll)
}

func (r *TransferPostgreSQLRepository) list(ctx context.Context, span *trace.Span, builder squirrel.SelectBuilder) ([]*mmodel.Transfer, error) {
	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(span, "Failed to get database connection", err)

		return nil, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		mopentelemetry.HandleSpanError(span, "Failed to build query", err)

		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		mopentelemetry.HandleSpanError(span, "Failed to execute query", err)

		return nil, err
	}
	defer rows.Close()

	var transfers []*mmodel.Transfer

	for rows.Next() {
		var record TransferPostgreSQLModel
		if err := rows.Scan(
			&record.ID,
			&record.FromUserID,
			&record.ToUserID,
			&record.Amount,
			&record.Status,
			&record.CreatedAt,
			&record.UpdatedAt,
			&record.CompletedAt,
			&record.CancelledAt,
			&record.FailureReason,
		); err != nil {
			mopentelemetry.HandleSpanError(span, "Failed to scan row", err)

			return nil, err
		}

		transfers = append(transfers, record.ToEntity())
	}

	if err := rows.Err(); err != nil {
		mopentelemetry.HandleSpanError(span, "Failed to iterate rows", err)

		return nil, err
	}

	return transfers, nil
}

func scanTransfer(row *sql.Row, record *TransferPostgreSQLModel) error {
	return row.Scan(
		&record.ID,
		&record.FromUserID,
		&record.ToUserID,
		&record.Amount,
		&record.Status,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.CompletedAt,
		&record.CancelledAt,
		&record.FailureReason,
	)
}
