package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/kitchenpos/internal/config"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iuow"
	"github.com/corray333/kitchenpos/internal/dal/memory"
	"github.com/corray333/kitchenpos/internal/dal/postgres"
	"github.com/corray333/kitchenpos/internal/dal/rabbitmq"
	"github.com/corray333/kitchenpos/internal/dal/uow"
	"github.com/corray333/kitchenpos/internal/otel"
	"github.com/corray333/kitchenpos/internal/service/services/auditsvc"
	"github.com/corray333/kitchenpos/internal/service/services/menugroupsvc"
	"github.com/corray333/kitchenpos/internal/service/services/menusvc"
	"github.com/corray333/kitchenpos/internal/service/services/ordersvc"
	"github.com/corray333/kitchenpos/internal/service/services/productsvc"
	"github.com/corray333/kitchenpos/internal/service/services/tablegroupsvc"
	"github.com/corray333/kitchenpos/internal/service/services/tablesvc"
	"github.com/corray333/kitchenpos/internal/transport/consumer"
	grpctransport "github.com/corray333/kitchenpos/internal/transport/grpc"
	httptransport "github.com/corray333/kitchenpos/internal/transport/http"
	outboxworker "github.com/corray333/kitchenpos/internal/worker/outbox"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// storage is a unit of work factory that can report its health.
type storage interface {
	iuow.Factory
	Ping(ctx context.Context) error
}

// App represents the application.
type App struct {
	httpTransport  *httptransport.HTTPTransport
	grpcTransport  *grpctransport.GRPCTransport
	outboxWorker   *outboxworker.Worker
	auditConsumer  *consumer.Consumer
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	otel           *otel.OtelController
}

// MustNewApp creates a new application from the loaded configuration.
func MustNewApp() *App {
	a := &App{}

	if viper.GetBool("otel.enabled") {
		a.otel = otel.MustInitOtel()
	}

	var store storage
	switch driver := viper.GetString("storage.driver"); driver {
	case config.StoragePostgres:
		a.postgresClient = postgres.MustNewClient()
		store = uow.NewFactory(a.postgresClient)
	case config.StorageMemory:
		store = memory.NewStore()
	default:
		panic(fmt.Sprintf("unknown storage driver %q", driver))
	}
	slog.Info("Storage selected", "driver", viper.GetString("storage.driver"))

	// An empty exchange leaves order events out of the outbox.
	var exchange string
	if viper.GetBool("rabbitmq.enabled") {
		a.rabbitClient = rabbitmq.MustNewClient()
		a.outboxWorker = outboxworker.NewWorker(store, a.rabbitClient)
		exchange = viper.GetString("rabbitmq.exchange")
	}

	audit := auditsvc.MustNewAuditService(auditsvc.WithUnitOfWorkFactory(store))
	if a.rabbitClient != nil && viper.GetBool("rabbitmq.consumer.enabled") {
		a.auditConsumer = consumer.NewConsumer(a.rabbitClient, audit)
	}

	products := productsvc.MustNewProductService(productsvc.WithUnitOfWorkFactory(store))
	orders := ordersvc.MustNewOrderService(
		ordersvc.WithUnitOfWorkFactory(store),
		ordersvc.WithEventExchange(exchange),
	)

	a.httpTransport = httptransport.NewHTTPTransport(httptransport.Services{
		Products:    products,
		MenuGroups:  menugroupsvc.MustNewMenuGroupService(menugroupsvc.WithUnitOfWorkFactory(store)),
		Menus:       menusvc.MustNewMenuService(menusvc.WithUnitOfWorkFactory(store)),
		Tables:      tablesvc.MustNewTableService(tablesvc.WithUnitOfWorkFactory(store)),
		TableGroups: tablegroupsvc.MustNewTableGroupService(tablegroupsvc.WithUnitOfWorkFactory(store)),
		Orders:      orders,
		Audit:       audit,
		Store:       store,
	})
	a.httpTransport.RegisterRoutes()

	if viper.GetBool("server.grpc.enabled") {
		a.grpcTransport = grpctransport.NewGRPCTransport(orders, products)
	}

	return a
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.httpTransport.Run()
	})

	if a.grpcTransport != nil {
		g.Go(func() error {
			return a.grpcTransport.Run()
		})
	}

	if a.outboxWorker != nil {
		g.Go(func() error {
			a.outboxWorker.Start(gctx)

			return nil
		})
	}

	if a.auditConsumer != nil {
		g.Go(func() error {
			return a.auditConsumer.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutdown signal received")
		a.shutdown()

		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("Application error", "error", err)
	}

	a.close()
	slog.Info("Application shutdown complete")
}

func (a *App) shutdown() {
	timeout := time.Duration(viper.GetInt("app.shutdown_timeout_seconds")) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.httpTransport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if a.grpcTransport != nil {
		if err := a.grpcTransport.Shutdown(ctx); err != nil {
			slog.Error("gRPC server shutdown error", "error", err)
		} else {
			slog.Info("gRPC server stopped gracefully")
		}
	}
}

func (a *App) close() {
	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		}
	}

	if a.postgresClient != nil {
		a.postgresClient.Close()
		slog.Info("Database connection closed gracefully")
	}

	if a.otel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otel.Shutdown(ctx); err != nil {
			slog.Error("Tracer provider shutdown error", "error", err)
		}
	}
}
