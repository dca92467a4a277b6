package command

import (
	"time"

	"github.com/openledgerhq/transfer-engine/internal/adapters/postgres/account"
	"github.com/openledgerhq/transfer-engine/internal/adapters/postgres/mutation"
	"github.com/openledgerhq/transfer-engine/internal/adapters/postgres/transfer"
	"github.com/openledgerhq/transfer-engine/internal/adapters/rabbitmq"
	"github.com/openledgerhq/transfer-engine/internal/adapters/redis"
	"github.com/openledgerhq/transfer-engine/internal/services"
)

// UseCase is a struct that aggregates various repositories for simplified access in use case implementation.
// It is the write-side orchestrator: it owns no persistence logic of its own.
type UseCase struct {
	// AccountRepo provides an abstraction on top of the user account data source.
	AccountRepo account.Repository

	// TransferRepo provides an abstraction on top of the transfer state engine.
	TransferRepo transfer.Repository

	// MutationRepo provides an abstraction on top of the balance mutation ledger.
	MutationRepo mutation.Repository

	// CacheRepo provides an abstraction on top of the balance projection cache.
	CacheRepo redis.CacheRepository

	// ProducerRepo provides an abstraction on top of the message producer.
	ProducerRepo rabbitmq.ProducerRepository

	// Dispatcher runs the post-commit listeners.
	Dispatcher *services.EventDispatcher

	// CacheTTL bounds the staleness of the balance projection.
	CacheTTL time.Duration
}
