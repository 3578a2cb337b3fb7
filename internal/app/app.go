package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/freshfold/orderdesk/internal/dal/postgres"
	"github.com/freshfold/orderdesk/internal/dal/rabbitmq"
	orderrepo "github.com/freshfold/orderdesk/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/freshfold/orderdesk/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/freshfold/orderdesk/internal/dal/repositories/product/postgres"
	userrepo "github.com/freshfold/orderdesk/internal/dal/repositories/user/postgres"
	"github.com/freshfold/orderdesk/internal/jaeger"
	"github.com/freshfold/orderdesk/internal/service/services/catalogsvc"
	"github.com/freshfold/orderdesk/internal/service/services/ordersvc"
	"github.com/freshfold/orderdesk/internal/service/services/statssvc"
	"github.com/freshfold/orderdesk/internal/service/services/usersvc"
	httptransport "github.com/freshfold/orderdesk/internal/transport/http"
	outboxworker "github.com/freshfold/orderdesk/internal/worker/outbox"
)

// App represents the application.
type App struct {
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	outboxWorker   *outboxworker.Worker
	tracerProvider *sdktrace.TracerProvider
	userSvc        *usersvc.UserService
}

// MustNewApp creates a new application with all its service handles wired
// explicitly.
func MustNewApp() *App {
	tracerProvider := jaeger.MustSetupTracing()

	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	if _, err := rabbitClient.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    viper.GetString("rabbitmq.orders.queue"),
		Durable: true,
	}); err != nil {
		panic(fmt.Sprintf("failed to declare orders queue: %v", err))
	}

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
	)
	catalogSvc := catalogsvc.MustNewCatalogService(
		catalogsvc.WithProductRepository(productrepo.NewPostgresProductRepository(postgresClient.DB())),
	)
	userSvc := usersvc.MustNewUserService(
		usersvc.WithUserRepository(userrepo.NewPostgresUserRepository(postgresClient.DB())),
	)
	statsSvc := statssvc.MustNewStatsService(
		statssvc.WithOrderRepository(orderrepo.NewPostgresOrderRepository(postgresClient.DB())),
		statssvc.WithUserRepository(userrepo.NewPostgresUserRepository(postgresClient.DB())),
	)

	worker := outboxworker.NewWorker(
		outboxrepo.NewPostgresOutboxRepository(postgresClient.DB()),
		rabbitClient,
	)

	transport := httptransport.NewHTTPTransport(orderSvc, catalogSvc, userSvc, statsSvc)
	transport.RegisterRoutes()

	return &App{
		transport:      transport,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		outboxWorker:   worker,
		tracerProvider: tracerProvider,
		userSvc:        userSvc,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	if err := a.userSvc.EnsureInitialAdmin(
		context.Background(),
		os.Getenv("ORDERDESK_ADMIN_EMAIL"),
		os.Getenv("ORDERDESK_ADMIN_USERNAME"),
		os.Getenv("ORDERDESK_ADMIN_PASSWORD"),
	); err != nil {
		slog.Error("Initial admin bootstrap failed", "error", err)
	}

	go a.outboxWorker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.outboxWorker.Stop()
	cancelWorker()

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	}

	if err := a.postgresClient.Close(); err != nil {
		slog.Error("Database connection close error", "error", err)
	} else {
		slog.Info("Database connection closed gracefully")
	}

	if err := a.tracerProvider.Shutdown(ctx); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
