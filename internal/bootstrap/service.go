package bootstrap

import (
	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/mlog"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
)

// Service is the application glue where we put all top level components to be used.
type Service struct {
	*Server
	Consumer  *MultiQueueConsumer
	Scheduler *Scheduler
	Logger    mlog.Logger
	Telemetry *mopentelemetry.Telemetry
}

// Run starts the application.
// This is the only necessary code to run an app in main.go
func (app *Service) Run() {
	defer app.Telemetry.ShutdownTelemetry()

	pkg.NewLauncher(
		pkg.WithLogger(app.Logger),
		pkg.RunApp("HTTP Service", app.Server),
		pkg.RunApp("RabbitMQ Consumer", app.Consumer),
		pkg.RunApp("Sweep Scheduler", app.Scheduler),
	).Run()
}
