package grpctransport

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/corray333/kitchenpos/internal/service/models/product"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
)

type orderService interface {
	List(ctx context.Context) ([]order.Order, error)
	ChangeStatus(ctx context.Context, id int64, status string) (order.Order, error)
}

type productService interface {
	List(ctx context.Context) ([]product.Product, error)
}

// GRPCTransport represents the gRPC transport layer.
type GRPCTransport struct {
	server      *grpc.Server
	orderServer *OrderServer
}

// NewGRPCTransport creates a new GRPCTransport with its services registered.
func NewGRPCTransport(orders orderService, products productService) *GRPCTransport {
	g := &GRPCTransport{
		server:      newGRPCServer(),
		orderServer: NewOrderServer(orders, products),
	}
	g.RegisterServices()

	return g
}

// Run listens on server.grpc.port and serves until Shutdown.
func (g *GRPCTransport) Run() error {
	listener, err := net.Listen("tcp", ":"+viper.GetString("server.grpc.port"))
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}

	return g.Serve(listener)
}

// Serve accepts connections on listener.
func (g *GRPCTransport) Serve(listener net.Listener) error {
	slog.Info("Starting gRPC server", "address", listener.Addr().String())

	return g.server.Serve(listener)
}

// Shutdown gracefully shuts down the gRPC server.
func (g *GRPCTransport) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		g.server.Stop()

		return ctx.Err()
	}
}

// RegisterServices registers the gRPC services.
func (g *GRPCTransport) RegisterServices() {
	g.server.RegisterService(&OrderServiceDesc, g.orderServer)
}

// newGRPCServer creates a new gRPC server with default settings.
func newGRPCServer() *grpc.Server {
	keepaliveParams := keepalive.ServerParameters{
		MaxConnectionIdle: time.Duration(
			viper.GetInt("server.grpc.keepalive.max_connection_idle"),
		) * time.Minute,
		MaxConnectionAge: time.Duration(
			viper.GetInt("server.grpc.keepalive.max_connection_age"),
		) * time.Minute,
		MaxConnectionAgeGrace: time.Duration(
			viper.GetInt("server.grpc.keepalive.max_connection_age_grace"),
		) * time.Second,
		Time: time.Duration(
			viper.GetInt("server.grpc.keepalive.time"),
		) * time.Second,
		Timeout: time.Duration(
			viper.GetInt("server.grpc.keepalive.timeout"),
		) * time.Second,
	}

	keepalivePolicy := keepalive.EnforcementPolicy{
		MinTime: time.Duration(
			viper.GetInt("server.grpc.keepalive.min_time"),
		) * time.Second,
		PermitWithoutStream: viper.GetBool("server.grpc.keepalive.permit_without_stream"),
	}

	opts := []grpc.ServerOption{
		grpc.KeepaliveParams(keepaliveParams),
		grpc.KeepaliveEnforcementPolicy(keepalivePolicy),
		grpc.ChainUnaryInterceptor(recoverInterceptor),
	}

	return grpc.NewServer(opts...)
}

// recoverInterceptor turns a handler panic into codes.Internal.
func recoverInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Panic in gRPC handler", "method", info.FullMethod, "panic", r)
			err = toStatus(fmt.Errorf("panic: %v", r))
		}
	}()

	return handler(ctx, req)
}
