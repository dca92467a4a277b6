package query

import (
	"context"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
)

// GetTransferHistory retrieves the transfers where the user appears as sender or
// receiver, newest first. The page index is zero-based.
func (uc *UseCase) GetTransferHistory(ctx context.Context, userID string, page, limit int) (*mmodel.Pagination, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_transfer_history")
	defer span.End()

	if _, err := uc.AccountRepo.Find(ctx, userID); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to find account", err)

		return nil, err
	}

	transfers, err := uc.TransferRepo.FindAllByUser(ctx, userID, page, limit)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to list transfers", err)

		logger.Errorf("Failed to list transfers for user %s: %v", userID, err)

		return nil, err
	}

	if transfers == nil {
		transfers = []*mmodel.Transfer{}
	}

	return &mmodel.Pagination{
		Items: transfers,
		Page:  page,
		Limit: limit,
	}, nil
}
