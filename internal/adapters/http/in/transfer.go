package in

import (
	"reflect"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/openledgerhq/transfer-engine/internal/services/command"
	"github.com/openledgerhq/transfer-engine/internal/services/query"
	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	httputil "github.com/openledgerhq/transfer-engine/pkg/net/http"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// TransferHandler struct contains a transfer use case for managing transfer related operations.
type TransferHandler struct {
	Command *command.UseCase
	Query   *query.UseCase
}

// CreateTransfer is a method that creates a transfer between two user accounts.
func (handler *TransferHandler) CreateTransfer(p any, c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := pkg.NewLoggerFromContext(ctx)

	payload := p.(*mmodel.CreateTransferInput)

	logger.Infof("Request to create a transfer with details: %#v", payload)

	transfer, err := handler.Command.CreateTransfer(ctx, payload)
	if err != nil {
		return httputil.WithError(c, err)
	}

	return httputil.Created(c, transfer)
}

// GetTransfers is a method that retrieves the paginated transfer history of a user.
func (handler *TransferHandler) GetTransfers(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID := c.Query("userId")
	if len(userID) < 3 || len(userID) > 50 {
		return httputil.WithError(c, pkg.ValidateBusinessError(constant.ErrInvalidQueryParameter, reflect.TypeOf(mmodel.Transfer{}).Name(), "userId"))
	}

	page, err := parseBoundedInt(c.Query("page", "0"), 0, -1)
	if err != nil {
		return httputil.WithError(c, pkg.ValidateBusinessError(constant.ErrInvalidQueryParameter, reflect.TypeOf(mmodel.Transfer{}).Name(), "page"))
	}

	size, err := strconv.Atoi(c.Query("size", strconv.Itoa(defaultPageSize)))
	if err != nil {
		return httputil.WithError(c, pkg.ValidateBusinessError(constant.ErrInvalidQueryParameter, reflect.TypeOf(mmodel.Transfer{}).Name(), "size"))
	}

	size = clampPageSize(size)

	pagination, err := handler.Query.GetTransferHistory(ctx, userID, page, size)
	if err != nil {
		return httputil.WithError(c, err)
	}

	return httputil.OK(c, pagination)
}

// CancelTransfer is a method that cancels a PENDING transfer within the cancellation window.
func (handler *TransferHandler) CancelTransfer(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := pkg.NewLoggerFromContext(ctx)

	transferID, err := strconv.ParseInt(c.Params("transfer_id"), 10, 64)
	if err != nil || transferID <= 0 {
		return httputil.WithError(c, pkg.ValidateBusinessError(constant.ErrInvalidPathParameter, reflect.TypeOf(mmodel.Transfer{}).Name(), "transferId"))
	}

	logger.Infof("Request to cancel transfer %d", transferID)

	transfer, err := handler.Command.CancelTransfer(ctx, transferID)
	if err != nil {
		return httputil.WithError(c, err)
	}

	return httputil.OK(c, transfer)
}

// parseBoundedInt parses a decimal integer and enforces [min, max]; max < 0 means unbounded.
func parseBoundedInt(raw string, min, max int) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}

	if v < min || (max >= 0 && v > max) {
		return 0, strconv.ErrRange
	}

	return v, nil
}

// clampPageSize silently pulls an out-of-range page size back into [1, maxPageSize].
func clampPageSize(size int) int {
	if size < 1 {
		return 1
	}

	if size > maxPageSize {
		return maxPageSize
	}

	return size
}
