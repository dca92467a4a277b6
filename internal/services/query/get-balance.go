package query

import (
	"context"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
)

// GetAccountBalance resolves the balance projection of a user, reading through the
// cache and refreshing it from the ledger store on a miss. The projection may lag the
// store by at most one TTL window.
func (uc *UseCase) GetAccountBalance(ctx context.Context, userID string) (*mmodel.BalanceView, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_account_balance")
	defer span.End()

	cached, err := uc.CacheRepo.Get(ctx, userID)
	if err != nil {
		logger.Warnf("Balance cache read failed for user %s: %v", userID, err)
	}

	if cached != nil {
		if view, err := cached.ToView(); err == nil {
			return view, nil
		}

		logger.Warnf("Dropping undecodable cache entry for user %s", userID)
	}

	acc, err := uc.AccountRepo.Find(ctx, userID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to find account", err)

		return nil, err
	}

	if err := uc.CacheRepo.Set(ctx, mmodel.NewCachedBalance(acc), uc.CacheTTL); err != nil {
		logger.Warnf("Balance cache refresh failed for user %s: %v", userID, err)
	}

	return &mmodel.BalanceView{
		UserID:  acc.UserID,
		Balance: acc.Balance,
	}, nil
}
