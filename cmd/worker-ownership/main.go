package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ascribe/spool-engine/internal/adapter"
	"github.com/ascribe/spool-engine/internal/bitcoin"
	"github.com/ascribe/spool-engine/internal/broadcaster"
	"github.com/ascribe/spool-engine/internal/config"
	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/logger"
	"github.com/ascribe/spool-engine/internal/migration"
	"github.com/ascribe/spool-engine/internal/ownership"
	"github.com/ascribe/spool-engine/internal/providers/jetstream"
	temporal "github.com/ascribe/spool-engine/internal/providers/temporal"
	"github.com/ascribe/spool-engine/internal/spool"
	"github.com/ascribe/spool-engine/internal/store"
	"github.com/ascribe/spool-engine/internal/wallet"
	"github.com/ascribe/spool-engine/internal/workflows"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadWorkerOwnershipConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "worker-ownership",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Ownership Worker")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("dsn", cfg.Database.DSN()))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()

	// Initialize wallet and ownership service
	w, err := wallet.New(domain.Network(cfg.Bitcoin.Network), []byte(cfg.Wallet.Salt))
	if err != nil {
		logger.FatalCtx(ctx, "Failed to initialize wallet", zap.Error(err), zap.String("network", cfg.Bitcoin.Network))
	}
	ownershipService := ownership.NewService(dataStore, w, clockAdapter, cfg.Wallet.FederationPassword)

	// Initialize bitcoin node client
	nodeClient := bitcoin.NewNodeClient(cfg.Bitcoin.RPCURL, cfg.Bitcoin.RPCUser, cfg.Bitcoin.RPCPassword, 30*time.Second)
	logger.InfoCtx(ctx, "Using bitcoin node", zap.String("rpc_url", cfg.Bitcoin.RPCURL), zap.String("network", cfg.Bitcoin.Network))

	// Initialize NATS JetStream publisher for ownership notifications
	publisher, err := jetstream.NewPublisher(jetstream.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: "spool-engine-worker-ownership",
	}, adapter.NewNatsJetStream(), jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer publisher.Close()
	logger.InfoCtx(ctx, "Connected to NATS", zap.String("stream", cfg.NATS.StreamName))

	// Initialize the broadcast pipeline
	fundingAddress := domain.Address(cfg.Bitcoin.FundingAddress)
	builder := spool.NewBuilder(spool.Config{FundingAddress: fundingAddress}, dataStore)
	reconciler := migration.NewReconciler(dataStore, w, builder, cfg.Wallet.FederationPassword)
	bc := broadcaster.NewBroadcaster(broadcaster.Config{
		FundingAddress:     fundingAddress,
		FundingWIF:         cfg.Bitcoin.FundingWIF,
		FederationPassword: cfg.Wallet.FederationPassword,
	}, dataStore, w, nodeClient, ownershipService, publisher, clockAdapter)

	// Initialize executor for activities
	executor := workflows.NewExecutor(dataStore, builder, reconciler, bc, nodeClient, fundingAddress)

	// Connect to Temporal with logger integration
	temporalLogger := temporal.NewZapLoggerAdapter(logger.Default())
	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    temporalLogger, // Use zap logger adapter for Temporal client
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Temporal", zap.Error(err), zap.String("host_port", cfg.Temporal.HostPort))
	}
	defer temporalClient.Close()

	logger.InfoCtx(ctx, "Connected to Temporal",
		zap.String("host_port", cfg.Temporal.HostPort),
		zap.String("namespace", cfg.Temporal.Namespace),
	)

	// Create Temporal worker with logger and Sentry interceptor
	sentryInterceptor := temporal.NewSentryActivityInterceptor()
	temporalWorker := worker.New(temporalClient,
		cfg.Temporal.OwnershipTaskQueue,
		worker.Options{
			MaxConcurrentActivityExecutionSize: cfg.Temporal.MaxConcurrentActivityExecutionSize,
			WorkerActivitiesPerSecond:          cfg.Temporal.WorkerActivitiesPerSecond,
			MaxConcurrentActivityTaskPollers:   cfg.Temporal.MaxConcurrentActivityTaskPollers,
			Interceptors: []interceptor.WorkerInterceptor{
				sentryInterceptor,
			},
		})

	// Create ownership worker instance
	ownershipWorker := workflows.NewWorkerOwnership(executor, workflows.WorkerOwnershipConfig{
		PollInterval:          cfg.Broadcast.PollInterval,
		SubmitInitialInterval: cfg.Broadcast.SubmitInitialInterval,
		SubmitMaximumInterval: cfg.Broadcast.SubmitMaximumInterval,
		SubmitMaximumAttempts: cfg.Broadcast.SubmitMaximumAttempts,
		OwnershipTaskQueue:    cfg.Temporal.OwnershipTaskQueue,
	})

	// Register workflows
	temporalWorker.RegisterWorkflow(ownershipWorker.BroadcastOwnershipTx)
	temporalWorker.RegisterWorkflow(ownershipWorker.BroadcastTransaction)
	temporalWorker.RegisterWorkflow(ownershipWorker.ReconcileTransactions)
	temporalWorker.RegisterWorkflow(ownershipWorker.RefillFunding)
	logger.InfoCtx(ctx, "Registered workflows")

	// Register activities
	// Activities will be called by workflows
	temporalWorker.RegisterActivity(executor.BuildTransaction)
	temporalWorker.RegisterActivity(executor.ReconcileSpendable)
	temporalWorker.RegisterActivity(executor.SubmitTransaction)
	temporalWorker.RegisterActivity(executor.GetConfirmations)
	temporalWorker.RegisterActivity(executor.ApplyConfirmation)
	temporalWorker.RegisterActivity(executor.RejectTransaction)
	temporalWorker.RegisterActivity(executor.GetTransactionSnapshot)
	temporalWorker.RegisterActivity(executor.ListTransactionsByStatus)
	temporalWorker.RegisterActivity(executor.BuildFuelTransaction)
	temporalWorker.RegisterActivity(executor.ImportFundingUnspents)
	logger.InfoCtx(ctx, "Registered activities")

	// Start the worker
	err = temporalWorker.Start()
	if err != nil {
		logger.FatalCtx(ctx, "Failed to start Temporal worker", zap.Error(err))
	}

	logger.InfoCtx(ctx, "Ownership worker started and listening for tasks",
		zap.String("task_queue", cfg.Temporal.OwnershipTaskQueue),
	)

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.InfoCtx(ctx, "Shutting down ownership worker...")

	// Stop the worker
	temporalWorker.Stop()

	logger.InfoCtx(ctx, "Ownership worker stopped")
}
