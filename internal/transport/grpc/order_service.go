package grpctransport

import (
	"context"
	"errors"
	"log/slog"

	"github.com/corray333/kitchenpos/internal/service/errs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// OrderServiceServer is the server API of kitchenpos.v1.OrderService.
type OrderServiceServer interface {
	ListOrders(ctx context.Context, req *ListOrdersRequest) (*ListOrdersResponse, error)
	ChangeOrderStatus(ctx context.Context, req *ChangeOrderStatusRequest) (*ChangeOrderStatusResponse, error)
	ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error)
}

// OrderServer implements the gRPC OrderService.
type OrderServer struct {
	orders   orderService
	products productService
}

// NewOrderServer creates a new OrderServer.
func NewOrderServer(orders orderService, products productService) *OrderServer {
	return &OrderServer{
		orders:   orders,
		products: products,
	}
}

// ListOrders handles the list orders gRPC request.
func (s *OrderServer) ListOrders(ctx context.Context, _ *ListOrdersRequest) (*ListOrdersResponse, error) {
	slog.InfoContext(ctx, "Received ListOrders gRPC request")

	orders, err := s.orders.List(ctx)
	if err != nil {
		slog.Error("Error getting orders", "error", err)

		return nil, toStatus(err)
	}

	resp := &ListOrdersResponse{Orders: make([]Order, 0, len(orders))}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, orderToMessage(o))
	}

	slog.InfoContext(ctx, "ListOrders completed successfully", "orders_count", len(orders))

	return resp, nil
}

// ChangeOrderStatus handles the change order status gRPC request.
func (s *OrderServer) ChangeOrderStatus(
	ctx context.Context,
	req *ChangeOrderStatusRequest,
) (*ChangeOrderStatusResponse, error) {
	slog.InfoContext(ctx, "Received ChangeOrderStatus gRPC request", "id", req.ID, "order_status", req.OrderStatus)

	o, err := s.orders.ChangeStatus(ctx, req.ID, req.OrderStatus)
	if err != nil {
		slog.Error("Error changing order status", "error", err)

		return nil, toStatus(err)
	}

	return &ChangeOrderStatusResponse{Order: orderToMessage(o)}, nil
}

// ListProducts handles the list products gRPC request.
func (s *OrderServer) ListProducts(ctx context.Context, _ *ListProductsRequest) (*ListProductsResponse, error) {
	slog.InfoContext(ctx, "Received ListProducts gRPC request")

	products, err := s.products.List(ctx)
	if err != nil {
		slog.Error("Error getting products", "error", err)

		return nil, toStatus(err)
	}

	resp := &ListProductsResponse{Products: make([]Product, 0, len(products))}
	for _, p := range products {
		resp.Products = append(resp.Products, productToMessage(p))
	}

	return resp, nil
}

// toStatus maps service errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, errs.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func unaryHandler[Req any, Resp any](
	method string,
	call func(srv OrderServiceServer, ctx context.Context, req *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := new(Req)
		if err := dec(req); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "failed to decode request: %v", err)
		}

		if interceptor == nil {
			return call(srv.(OrderServiceServer), ctx, req)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + method,
		}

		return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(OrderServiceServer), ctx, req.(*Req))
		})
	}
}

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "kitchenpos.v1.OrderService"

// OrderServiceDesc describes kitchenpos.v1.OrderService for grpc.Server.RegisterService.
var OrderServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListOrders",
			Handler:    unaryHandler("ListOrders", OrderServiceServer.ListOrders),
		},
		{
			MethodName: "ChangeOrderStatus",
			Handler:    unaryHandler("ChangeOrderStatus", OrderServiceServer.ChangeOrderStatus),
		},
		{
			MethodName: "ListProducts",
			Handler:    unaryHandler("ListProducts", OrderServiceServer.ListProducts),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "kitchenpos/v1/order_service",
}
