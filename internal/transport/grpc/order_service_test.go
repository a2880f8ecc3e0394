package grpctransport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/corray333/kitchenpos/internal/dal/memory"
	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/corray333/kitchenpos/internal/service/services/menugroupsvc"
	"github.com/corray333/kitchenpos/internal/service/services/menusvc"
	"github.com/corray333/kitchenpos/internal/service/services/ordersvc"
	"github.com/corray333/kitchenpos/internal/service/services/productsvc"
	"github.com/corray333/kitchenpos/internal/service/services/tablesvc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type OrderServerTestSuite struct {
	suite.Suite
	ctx       context.Context
	transport *GRPCTransport
	conn      *grpc.ClientConn

	orders   *ordersvc.OrderService
	products *productsvc.ProductService
	orderID  int64
}

func TestOrderServerSuite(t *testing.T) {
	suite.Run(t, new(OrderServerTestSuite))
}

func (s *OrderServerTestSuite) SetupTest() {
	s.ctx = context.Background()
	store := memory.NewStore()

	s.products = productsvc.MustNewProductService(productsvc.WithUnitOfWorkFactory(store))
	s.orders = ordersvc.MustNewOrderService(ordersvc.WithUnitOfWorkFactory(store))
	groups := menugroupsvc.MustNewMenuGroupService(menugroupsvc.WithUnitOfWorkFactory(store))
	menus := menusvc.MustNewMenuService(menusvc.WithUnitOfWorkFactory(store))
	tables := tablesvc.MustNewTableService(tablesvc.WithUnitOfWorkFactory(store))

	price := decimal.NewFromInt(16000)
	p, err := s.products.Create(s.ctx, "fried chicken", &price)
	require.NoError(s.T(), err)
	g, err := groups.Create(s.ctx, "chicken")
	require.NoError(s.T(), err)
	m, err := menus.Create(s.ctx, menusvc.CreateInput{
		Name:         "fried chicken",
		Price:        &price,
		MenuGroupID:  g.ID,
		MenuProducts: []menusvc.MenuProductInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(s.T(), err)
	table, err := tables.Create(s.ctx, 2, false)
	require.NoError(s.T(), err)
	o, err := s.orders.Create(s.ctx, table.ID, []ordersvc.LineItemInput{{MenuID: m.ID, Quantity: 2}})
	require.NoError(s.T(), err)
	s.orderID = o.ID

	listener := bufconn.Listen(1024 * 1024)
	s.transport = NewGRPCTransport(s.orders, s.products)
	go func() {
		_ = s.transport.Serve(listener)
	}()

	s.conn, err = grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	)
	require.NoError(s.T(), err)
}

func (s *OrderServerTestSuite) TearDownTest() {
	require.NoError(s.T(), s.conn.Close())

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()
	require.NoError(s.T(), s.transport.Shutdown(ctx))
}

func (s *OrderServerTestSuite) invoke(method string, req, resp any) error {
	return s.conn.Invoke(s.ctx, "/"+ServiceName+"/"+method, req, resp)
}

func (s *OrderServerTestSuite) TestListOrders() {
	var resp ListOrdersResponse
	require.NoError(s.T(), s.invoke("ListOrders", &ListOrdersRequest{}, &resp))

	require.Len(s.T(), resp.Orders, 1)
	require.Equal(s.T(), s.orderID, resp.Orders[0].ID)
	require.Equal(s.T(), "COOKING", resp.Orders[0].OrderStatus)
	require.Len(s.T(), resp.Orders[0].OrderLineItems, 1)
	require.Equal(s.T(), int64(2), resp.Orders[0].OrderLineItems[0].Quantity)
	require.Equal(s.T(), "16000", resp.Orders[0].OrderLineItems[0].Price.String())
}

func (s *OrderServerTestSuite) TestChangeOrderStatus() {
	var resp ChangeOrderStatusResponse
	err := s.invoke("ChangeOrderStatus", &ChangeOrderStatusRequest{ID: s.orderID, OrderStatus: "MEAL"}, &resp)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "MEAL", resp.Order.OrderStatus)
	require.Len(s.T(), resp.Order.OrderLineItems, 1)
}

func (s *OrderServerTestSuite) TestChangeOrderStatus_Errors() {
	var resp ChangeOrderStatusResponse

	err := s.invoke("ChangeOrderStatus", &ChangeOrderStatusRequest{ID: 999, OrderStatus: "MEAL"}, &resp)
	require.Equal(s.T(), codes.NotFound, status.Code(err))

	err = s.invoke("ChangeOrderStatus", &ChangeOrderStatusRequest{ID: s.orderID, OrderStatus: "EATING"}, &resp)
	require.Equal(s.T(), codes.InvalidArgument, status.Code(err))

	_, err = s.orders.ChangeStatus(s.ctx, s.orderID, "COMPLETION")
	require.NoError(s.T(), err)

	err = s.invoke("ChangeOrderStatus", &ChangeOrderStatusRequest{ID: s.orderID, OrderStatus: "MEAL"}, &resp)
	require.Equal(s.T(), codes.FailedPrecondition, status.Code(err))
}

func (s *OrderServerTestSuite) TestListProducts() {
	var resp ListProductsResponse
	require.NoError(s.T(), s.invoke("ListProducts", &ListProductsRequest{}, &resp))

	require.Len(s.T(), resp.Products, 1)
	require.Equal(s.T(), "fried chicken", resp.Products[0].Name)
	require.Equal(s.T(), "16000", resp.Products[0].Price.String())
}

func TestToStatus(t *testing.T) {
	require.Equal(t, codes.NotFound, status.Code(toStatus(errs.NotFound("menu %d", 1))))
	require.Equal(t, codes.InvalidArgument, status.Code(toStatus(errs.Validation("bad"))))
	require.Equal(t, codes.FailedPrecondition, status.Code(toStatus(errs.Conflict("busy"))))
	require.Equal(t, codes.Internal, status.Code(toStatus(context.DeadlineExceeded)))
}
