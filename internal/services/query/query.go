package query

import (
	"time"

	"github.com/openledgerhq/transfer-engine/internal/adapters/postgres/account"
	"github.com/openledgerhq/transfer-engine/internal/adapters/postgres/transfer"
	"github.com/openledgerhq/transfer-engine/internal/adapters/redis"
)

// UseCase is a struct that aggregates various repositories for simplified access in use case implementation.
// It is the read-side surface: balances through the cache, history straight from the store.
type UseCase struct {
	// AccountRepo provides an abstraction on top of the user account data source.
	AccountRepo account.Repository

	// TransferRepo provides an abstraction on top of the transfer data source.
	TransferRepo transfer.Repository

	// CacheRepo provides an abstraction on top of the balance projection cache.
	CacheRepo redis.CacheRepository

	// CacheTTL bounds the staleness of the balance projection.
	CacheTTL time.Duration
}
