package account

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
	"github.com/openledgerhq/transfer-engine/pkg/mpostgres"
)

// Repository provides an interface for operations related to user account entities.
//
//go:generate mockgen --destination=account.mock.go --package=account . Repository
type Repository interface {
	Create(ctx context.Context, acc *mmodel.Account) (*mmodel.Account, error)
	Find(ctx context.Context, userID string) (*mmodel.Account, error)
}

// AccountPostgreSQLRepository is a Postgresql-specific implementation of the account Repository.
type AccountPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewAccountPostgreSQLRepository returns a new instance of AccountPostgreSQLRepository using the given Postgres connection.
func NewAccountPostgreSQLRepository(pc *mpostgres.PostgresConnection) *AccountPostgreSQLRepository {
	c := &AccountPostgreSQLRepository{
		connection: pc,
		tableName:  "user_account",
	}

	_, err := c.connection.GetDB()
	if err != nil {
		panic("Failed to connect database")
	}

	return c
}

// Create a new user account entity into Postgresql and returns it.
func (r *AccountPostgreSQLRepository) Create(ctx context.Context, acc *mmodel.Account) (*mmodel.Account, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.create_account")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	record := &AccountPostgreSQLModel{}
	record.FromEntity(acc)

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	ctx, spanExec := tracer.Start(ctx, "postgres.create_account.exec")

	_, err = db.ExecContext(ctx, `INSERT INTO user_account (user_id, balance, version, created_at) VALUES ($1, $2, $3, $4)`,
		record.UserID,
		record.Balance,
		record.Version,
		record.CreatedAt,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&spanExec, "Failed to execute query", err)

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, pkg.ValidateBusinessError(constant.ErrUserAlreadyExists, reflect.TypeOf(mmodel.Account{}).Name(), record.UserID)
		}

		return nil, err
	}

	spanExec.End()

	return record.ToEntity(), nil
}

// Find retrieves a user account entity from the database using the provided user ID.
func (r *AccountPostgreSQLRepository) Find(ctx context.Context, userID string) (*mmodel.Account, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_account")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	account := &AccountPostgreSQLModel{}

	ctx, spanQuery := tracer.Start(ctx, "postgres.find_account.query")

	row := db.QueryRowContext(ctx, "SELECT user_id, balance, version, created_at FROM user_account WHERE user_id = $1", userID)

	spanQuery.End()

	if err := row.Scan(
		&account.UserID,
		&account.Balance,
		&account.Version,
		&account.CreatedAt,
	); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkg.ValidateBusinessError(constant.ErrUserNotFound, reflect.TypeOf(mmodel.Account{}).Name(), userID)
		}

		return nil, err
	}

	return account.ToEntity(), nil
}
