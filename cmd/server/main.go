package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/wealthflow-planner/internal/adapter/grpc"
	"github.com/simaogato/wealthflow-planner/internal/adapter/repository/postgres"
	"github.com/simaogato/wealthflow-planner/internal/clock"
	"github.com/simaogato/wealthflow-planner/internal/config"
	"github.com/simaogato/wealthflow-planner/internal/usecase/planner"
	"github.com/simaogato/wealthflow-planner/internal/usecase/seeder"
)

const (
	defaultConfigFile = "config.yaml"
	connectAttempts   = 5
	connectBackoff    = 2 * time.Second
)

func main() {
	// 1. Load configuration
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = defaultConfigFile
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.Log.Setup()

	// 2. Setup Database
	db, err := connect(cfg.Database.ConnString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if cfg.Database.Bootstrap {
		if err := db.Bootstrap(ctx); err != nil {
			log.Fatalf("Failed to bootstrap schema: %v", err)
		}
	}

	// 3. Initialize Repositories (Postgres)
	repos := postgres.NewRepositories(db)

	// Seed the default budget envelopes
	created, err := seeder.NewEnvelopeSeeder(repos.Budgets).Seed(ctx)
	if err != nil {
		log.Fatalf("Failed to seed budget envelopes: %v", err)
	}
	log.Infof("Budget envelopes seeded (%d created)", created)

	// 4. Initialize the planner
	plannerService := planner.NewPlannerService(repos, clock.SystemClock{}, planner.Options{
		WindowDays:         cfg.Engine.Window,
		LookaheadDays:      cfg.Engine.Lookahead,
		AutopayHorizonDays: cfg.Engine.Autopay,
		ForecastWindows:    cfg.Engine.Forecast,
		MemoSize:           cfg.Engine.Memo,
		Location:           cfg.Server.Location(),
	})

	// 5. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(),
			grpcadapter.AuthInterceptor(cfg.Server.Token),
		),
	)
	grpcadapter.RegisterProjectionServer(grpcServer, grpcadapter.NewServer(plannerService))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_SERVING)

	reflection.Register(grpcServer)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", addr, err)
	}

	// Start server in a goroutine
	go func() {
		log.Infof("gRPC server listening on %s", addr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("Failed to serve gRPC server: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(grpcServer, healthServer)
}

// connect retries the connection while Postgres starts up
func connect(connString string) (*postgres.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err := postgres.NewDB(connString)
		if err == nil {
			return db, nil
		}
		lastErr = err
		log.WithError(err).Warnf("Database not ready (attempt %d/%d)", attempt, connectAttempts)
		time.Sleep(connectBackoff)
	}
	return nil, lastErr
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(grpcServer *grpclib.Server, healthServer *health.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Infof("Received signal: %v. Shutting down gracefully...", sig)

	healthServer.Shutdown()
	grpcServer.GracefulStop()
	log.Info("gRPC server stopped")
}
