package bootstrap

import (
	"context"
	"fmt"
	"time"

	httpin "github.com/openledgerhq/transfer-engine/internal/adapters/http/in"
	"github.com/openledgerhq/transfer-engine/internal/adapters/postgres/account"
	"github.com/openledgerhq/transfer-engine/internal/adapters/postgres/mutation"
	"github.com/openledgerhq/transfer-engine/internal/adapters/postgres/transfer"
	"github.com/openledgerhq/transfer-engine/internal/adapters/rabbitmq"
	"github.com/openledgerhq/transfer-engine/internal/adapters/redis"
	"github.com/openledgerhq/transfer-engine/internal/services"
	"github.com/openledgerhq/transfer-engine/internal/services/command"
	"github.com/openledgerhq/transfer-engine/internal/services/query"
	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
	"github.com/openledgerhq/transfer-engine/pkg/mpostgres"
	"github.com/openledgerhq/transfer-engine/pkg/mrabbitmq"
	"github.com/openledgerhq/transfer-engine/pkg/mredis"
	"github.com/openledgerhq/transfer-engine/pkg/mzap"
)

const ApplicationName = "transfer-engine"

// Config is the top level configuration struct for the entire application.
type Config struct {
	EnvName       string `env:"ENV_NAME"`
	LogLevel      string `env:"LOG_LEVEL"`
	ServerAddress string `env:"SERVER_ADDRESS"`

	PrimaryDBHost      string `env:"DB_HOST"`
	PrimaryDBUser      string `env:"DB_USER"`
	PrimaryDBPassword  string `env:"DB_PASSWORD"`
	PrimaryDBName      string `env:"DB_NAME"`
	PrimaryDBPort      string `env:"DB_PORT"`
	ReplicaDBHost      string `env:"DB_REPLICA_HOST"`
	ReplicaDBUser      string `env:"DB_REPLICA_USER"`
	ReplicaDBPassword  string `env:"DB_REPLICA_PASSWORD"`
	ReplicaDBName      string `env:"DB_REPLICA_NAME"`
	ReplicaDBPort      string `env:"DB_REPLICA_PORT"`
	MaxOpenConnections int    `env:"DB_MAX_OPEN_CONNS"`
	MigrationsPath     string `env:"DB_MIGRATIONS_PATH"`

	RedisURI string `env:"REDIS_URI"`

	RabbitMQHost     string `env:"RABBITMQ_HOST"`
	RabbitMQPortAMQP string `env:"RABBITMQ_PORT_AMQP"`
	RabbitMQUser     string `env:"RABBITMQ_DEFAULT_USER"`
	RabbitMQPass     string `env:"RABBITMQ_DEFAULT_PASS"`

	RabbitMQPartitions      int `env:"RABBITMQ_NUMBERS_OF_PARTITIONS"`
	RabbitMQMaxRedeliveries int `env:"RABBITMQ_MAX_REDELIVERIES"`

	BalanceCacheTTLSeconds int `env:"BALANCE_CACHE_TTL_SECONDS"`

	SweepPendingIntervalSeconds    int `env:"SWEEP_PENDING_INTERVAL_SECONDS"`
	SweepPendingDelaySeconds       int `env:"SWEEP_PENDING_DELAY_SECONDS"`
	SweepPendingBatchSize          int `env:"SWEEP_PENDING_BATCH_SIZE"`
	SweepPendingLockAtMostSeconds  int `env:"SWEEP_PENDING_LOCK_AT_MOST_SECONDS"`
	SweepPendingLockAtLeastSeconds int `env:"SWEEP_PENDING_LOCK_AT_LEAST_SECONDS"`

	SweepDebitIntervalSeconds    int `env:"SWEEP_DEBIT_INTERVAL_SECONDS"`
	SweepDebitDelaySeconds       int `env:"SWEEP_DEBIT_DELAY_SECONDS"`
	SweepDebitBatchSize          int `env:"SWEEP_DEBIT_BATCH_SIZE"`
	SweepDebitLockAtMostSeconds  int `env:"SWEEP_DEBIT_LOCK_AT_MOST_SECONDS"`
	SweepDebitLockAtLeastSeconds int `env:"SWEEP_DEBIT_LOCK_AT_LEAST_SECONDS"`

	SweepCreditIntervalSeconds    int `env:"SWEEP_CREDIT_INTERVAL_SECONDS"`
	SweepCreditDelaySeconds       int `env:"SWEEP_CREDIT_DELAY_SECONDS"`
	SweepCreditBatchSize          int `env:"SWEEP_CREDIT_BATCH_SIZE"`
	SweepCreditLockAtMostSeconds  int `env:"SWEEP_CREDIT_LOCK_AT_MOST_SECONDS"`
	SweepCreditLockAtLeastSeconds int `env:"SWEEP_CREDIT_LOCK_AT_LEAST_SECONDS"`

	OtelServiceName         string `env:"OTEL_RESOURCE_SERVICE_NAME"`
	OtelLibraryName         string `env:"OTEL_LIBRARY_NAME"`
	OtelServiceVersion      string `env:"OTEL_RESOURCE_SERVICE_VERSION"`
	OtelDeploymentEnv       string `env:"OTEL_RESOURCE_DEPLOYMENT_ENVIRONMENT"`
	OtelColExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	EnableTelemetry         bool   `env:"ENABLE_TELEMETRY"`
}

// applyDefaults fills the zero values the deployment may leave out.
func (cfg *Config) applyDefaults() {
	if cfg.ServerAddress == "" {
		cfg.ServerAddress = ":3000"
	}

	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	if cfg.RabbitMQPartitions <= 0 {
		cfg.RabbitMQPartitions = 8
	}

	if cfg.RabbitMQMaxRedeliveries <= 0 {
		cfg.RabbitMQMaxRedeliveries = 5
	}

	if cfg.BalanceCacheTTLSeconds <= 0 {
		cfg.BalanceCacheTTLSeconds = 300
	}

	defaultSweep := func(interval, delay, batch, atMost, atLeast *int, defInterval, defDelay int) {
		if *interval <= 0 {
			*interval = defInterval
		}

		if *delay <= 0 {
			*delay = defDelay
		}

		if *batch <= 0 {
			*batch = 100
		}

		if *atMost <= 0 {
			*atMost = 60
		}

		if *atLeast <= 0 {
			*atLeast = *interval - 1
		}
	}

	defaultSweep(&cfg.SweepPendingIntervalSeconds, &cfg.SweepPendingDelaySeconds, &cfg.SweepPendingBatchSize,
		&cfg.SweepPendingLockAtMostSeconds, &cfg.SweepPendingLockAtLeastSeconds, 10, 5)
	defaultSweep(&cfg.SweepDebitIntervalSeconds, &cfg.SweepDebitDelaySeconds, &cfg.SweepDebitBatchSize,
		&cfg.SweepDebitLockAtMostSeconds, &cfg.SweepDebitLockAtLeastSeconds, 30, 60)
	defaultSweep(&cfg.SweepCreditIntervalSeconds, &cfg.SweepCreditDelaySeconds, &cfg.SweepCreditBatchSize,
		&cfg.SweepCreditLockAtMostSeconds, &cfg.SweepCreditLockAtLeastSeconds, 30, 60)
}

// InitService builds the whole dependency graph and returns the runnable service.
func InitService() *Service {
	cfg := &Config{}

	if err := pkg.SetConfigFromEnvVars(cfg); err != nil {
		panic(err)
	}

	cfg.applyDefaults()

	logger := mzap.InitializeLogger()

	telemetry := &mopentelemetry.Telemetry{
		LibraryName:               cfg.OtelLibraryName,
		ServiceName:               cfg.OtelServiceName,
		ServiceVersion:            cfg.OtelServiceVersion,
		DeploymentEnv:             cfg.OtelDeploymentEnv,
		CollectorExporterEndpoint: cfg.OtelColExporterEndpoint,
		EnableTelemetry:           cfg.EnableTelemetry,
	}

	telemetry.InitializeTelemetry(logger)

	postgreSourcePrimary := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.PrimaryDBHost, cfg.PrimaryDBUser, cfg.PrimaryDBPassword, cfg.PrimaryDBName, cfg.PrimaryDBPort)

	postgreSourceReplica := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.ReplicaDBHost, cfg.ReplicaDBUser, cfg.ReplicaDBPassword, cfg.ReplicaDBName, cfg.ReplicaDBPort)

	postgresConnection := &mpostgres.PostgresConnection{
		ConnectionStringPrimary: postgreSourcePrimary,
		ConnectionStringReplica: postgreSourceReplica,
		PrimaryDBName:           cfg.PrimaryDBName,
		MigrationsPath:          cfg.MigrationsPath,
		MaxOpenConnections:      cfg.MaxOpenConnections,
		Logger:                  logger,
	}

	redisConnection := &mredis.RedisConnection{
		ConnectionStringSource: cfg.RedisURI,
		Logger:                 logger,
	}

	rabbitSource := fmt.Sprintf("amqp://%s:%s@%s:%s",
		cfg.RabbitMQUser, cfg.RabbitMQPass, cfg.RabbitMQHost, cfg.RabbitMQPortAMQP)

	rabbitMQConnection := &mrabbitmq.RabbitMQConnection{
		ConnectionStringSource: rabbitSource,
		Host:                   cfg.RabbitMQHost,
		Port:                   cfg.RabbitMQPortAMQP,
		User:                   cfg.RabbitMQUser,
		Pass:                   cfg.RabbitMQPass,
		Logger:                 logger,
	}

	accountPostgreSQLRepository := account.NewAccountPostgreSQLRepository(postgresConnection)
	transferPostgreSQLRepository := transfer.NewTransferPostgreSQLRepository(postgresConnection)
	mutationPostgreSQLRepository := mutation.NewBalanceMutationPostgreSQLRepository(postgresConnection)

	balanceCacheRepository := redis.NewBalanceCacheRedisRepository(redisConnection)
	lockRepository := redis.NewLockRedisRepository(redisConnection)

	producerRepository := rabbitmq.NewProducerRabbitMQ(rabbitMQConnection, cfg.RabbitMQPartitions)

	dispatcher := &services.EventDispatcher{
		CacheRepo:    balanceCacheRepository,
		ProducerRepo: producerRepository,
	}

	cacheTTL := time.Duration(cfg.BalanceCacheTTLSeconds) * time.Second

	commandUseCase := &command.UseCase{
		AccountRepo:  accountPostgreSQLRepository,
		TransferRepo: transferPostgreSQLRepository,
		MutationRepo: mutationPostgreSQLRepository,
		CacheRepo:    balanceCacheRepository,
		ProducerRepo: producerRepository,
		Dispatcher:   dispatcher,
		CacheTTL:     cacheTTL,
	}

	queryUseCase := &query.UseCase{
		AccountRepo:  accountPostgreSQLRepository,
		TransferRepo: transferPostgreSQLRepository,
		CacheRepo:    balanceCacheRepository,
		CacheTTL:     cacheTTL,
	}

	accountHandler := &httpin.AccountHandler{
		Command: commandUseCase,
		Query:   queryUseCase,
	}

	transferHandler := &httpin.TransferHandler{
		Command: commandUseCase,
		Query:   queryUseCase,
	}

	app := httpin.NewRouter(logger, telemetry, accountHandler, transferHandler)

	server := NewServer(cfg, app, logger, telemetry)

	routes := rabbitmq.NewConsumerRoutes(rabbitMQConnection, cfg.RabbitMQPartitions, cfg.RabbitMQMaxRedeliveries, logger, telemetry)

	multiQueueConsumer := NewMultiQueueConsumer(routes, commandUseCase)

	scheduler := NewScheduler(sweepJobs(cfg, commandUseCase), lockRepository, logger, telemetry)

	return &Service{
		Server:    server,
		Consumer:  multiQueueConsumer,
		Scheduler: scheduler,
		Logger:    logger,
		Telemetry: telemetry,
	}
}

// sweepJobs binds the three sweeps to their configured schedules and leases.
func sweepJobs(cfg *Config, uc *command.UseCase) []SweepJob {
	return []SweepJob{
		{
			Name:           "processPendingTransfers",
			LeaseName:      "processPendingTransfers",
			Interval:       time.Duration(cfg.SweepPendingIntervalSeconds) * time.Second,
			LockAtMostFor:  time.Duration(cfg.SweepPendingLockAtMostSeconds) * time.Second,
			LockAtLeastFor: time.Duration(cfg.SweepPendingLockAtLeastSeconds) * time.Second,
			Run: func(ctx context.Context) error {
				return uc.SweepPendingTransfers(ctx, time.Duration(cfg.SweepPendingDelaySeconds)*time.Second, cfg.SweepPendingBatchSize)
			},
		},
		{
			Name:           "processDebitProcessingTransfers",
			LeaseName:      "processDebitProcessingTransfers",
			Interval:       time.Duration(cfg.SweepDebitIntervalSeconds) * time.Second,
			LockAtMostFor:  time.Duration(cfg.SweepDebitLockAtMostSeconds) * time.Second,
			LockAtLeastFor: time.Duration(cfg.SweepDebitLockAtLeastSeconds) * time.Second,
			Run: func(ctx context.Context) error {
				return uc.SweepStaleTransfers(ctx, constant.TransferStatusDebitProcessing, time.Duration(cfg.SweepDebitDelaySeconds)*time.Second, cfg.SweepDebitBatchSize)
			},
		},
		{
			Name:           "processCreditProcessingTransfers",
			LeaseName:      "processCreditProcessingTransfers",
			Interval:       time.Duration(cfg.SweepCreditIntervalSeconds) * time.Second,
			LockAtMostFor:  time.Duration(cfg.SweepCreditLockAtMostSeconds) * time.Second,
			LockAtLeastFor: time.Duration(cfg.SweepCreditLockAtLeastSeconds) * time.Second,
			Run: func(ctx context.Context) error {
				return uc.SweepStaleTransfers(ctx, constant.TransferStatusCreditProcessing, time.Duration(cfg.SweepCreditDelaySeconds)*time.Second, cfg.SweepCreditBatchSize)
			},
		},
	}
}
