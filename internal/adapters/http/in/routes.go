package in

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/openledgerhq/transfer-engine/pkg/mlog"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
	httputil "github.com/openledgerhq/transfer-engine/pkg/net/http"
)

// NewRouter registers the HTTP surface of the transfer engine.
func NewRouter(lg mlog.Logger, tl *mopentelemetry.Telemetry, ah *AccountHandler, th *TransferHandler) *fiber.App {
	f := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	f.Use(cors.New())
	f.Use(httputil.WithCorrelationID(lg))
	f.Use(httputil.WithHTTPLogging(lg))

	// -- Routes --

	// Users
	f.Post("/users", httputil.WithBody(new(mmodel.CreateAccountInput), ah.CreateAccount))
	f.Get("/users/:user_id/balance", ah.GetBalance)

	// Transfers
	f.Post("/transfers", httputil.WithBody(new(mmodel.CreateTransferInput), th.CreateTransfer))
	f.Get("/transfers", th.GetTransfers)
	f.Post("/transfers/:transfer_id/cancel", th.CancelTransfer)

	// Health
	f.Get("/health", httputil.Ping)

	// Version
	f.Get("/version", httputil.Version("1.0.0"))

	return f
}
