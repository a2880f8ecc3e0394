package httptransport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/kitchenpos/internal/service/models/menu"
	"github.com/corray333/kitchenpos/internal/service/models/menugroup"
	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/corray333/kitchenpos/internal/service/models/orderaudit"
	"github.com/corray333/kitchenpos/internal/service/models/ordertable"
	"github.com/corray333/kitchenpos/internal/service/models/product"
	"github.com/corray333/kitchenpos/internal/service/models/tablegroup"
	"github.com/corray333/kitchenpos/internal/service/services/menusvc"
	"github.com/corray333/kitchenpos/internal/service/services/ordersvc"
	"github.com/corray333/kitchenpos/internal/transport/http/docs"
	"github.com/corray333/kitchenpos/internal/transport/http/menugroups"
	"github.com/corray333/kitchenpos/internal/transport/http/menus"
	"github.com/corray333/kitchenpos/internal/transport/http/orders"
	"github.com/corray333/kitchenpos/internal/transport/http/products"
	"github.com/corray333/kitchenpos/internal/transport/http/response"
	"github.com/corray333/kitchenpos/internal/transport/http/tablegroups"
	"github.com/corray333/kitchenpos/internal/transport/http/tables"
	"github.com/corray333/kitchenpos/pkg/http/middleware/trace"
	"github.com/corray333/kitchenpos/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type productService interface {
	Create(ctx context.Context, name string, price *decimal.Decimal) (product.Product, error)
	List(ctx context.Context) ([]product.Product, error)
}

type menuGroupService interface {
	Create(ctx context.Context, name string) (menugroup.MenuGroup, error)
	List(ctx context.Context) ([]menugroup.MenuGroup, error)
}

type menuService interface {
	Create(ctx context.Context, in menusvc.CreateInput) (menu.Menu, error)
	List(ctx context.Context) ([]menu.Menu, error)
	Update(ctx context.Context, id int64, in menusvc.UpdateInput) (menu.Menu, error)
}

type tableService interface {
	Create(ctx context.Context, numberOfGuests int, empty bool) (ordertable.OrderTable, error)
	List(ctx context.Context) ([]ordertable.OrderTable, error)
	ChangeEmpty(ctx context.Context, id int64, empty bool) (ordertable.OrderTable, error)
	ChangeNumberOfGuests(ctx context.Context, id int64, numberOfGuests int) (ordertable.OrderTable, error)
}

type tableGroupService interface {
	Group(ctx context.Context, tableIDs []int64) (tablegroup.TableGroup, error)
	Ungroup(ctx context.Context, id int64) error
}

type orderService interface {
	Create(ctx context.Context, orderTableID int64, items []ordersvc.LineItemInput) (order.Order, error)
	ChangeStatus(ctx context.Context, id int64, status string) (order.Order, error)
	List(ctx context.Context) ([]order.Order, error)
}

type auditService interface {
	History(ctx context.Context, orderID int64) ([]orderaudit.Entry, error)
}

// pinger reports whether the store is reachable.
type pinger interface {
	Ping(ctx context.Context) error
}

// Services are the application services the REST API is served from.
type Services struct {
	Products    productService
	MenuGroups  menuGroupService
	Menus       menuService
	Tables      tableService
	TableGroups tableGroupService
	Orders      orderService
	Audit       auditService
	Store       pinger
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	services Services
}

func NewHTTPTransport(services Services) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:   server,
		router:   router,
		services: services,
	}
}

// Handler exposes the router, mainly for tests.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

func (h *HTTPTransport) Run() error {
	slog.Info("Starting HTTP server", "addr", h.server.Addr)

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/healthz", h.healthz)
	h.router.Get("/swagger/doc.json", docs.Handler)
	h.router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	h.router.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
		})
		r.Route("/menu-groups", func(r chi.Router) {
			r.Get("/", h.listMenuGroups)
			r.Post("/", h.createMenuGroup)
		})
		r.Route("/menus", func(r chi.Router) {
			r.Get("/", h.listMenus)
			r.Post("/", h.createMenu)
			r.Put("/{id}", h.updateMenu)
		})
		r.Route("/tables", func(r chi.Router) {
			r.Get("/", h.listTables)
			r.Post("/", h.createTable)
			r.Put("/{id}/empty", h.changeTableEmpty)
			r.Put("/{id}/number-of-guests", h.changeNumberOfGuests)
		})
		r.Route("/table-groups", func(r chi.Router) {
			r.Post("/", h.groupTables)
			r.Delete("/{id}", h.ungroupTables)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Post("/", h.createOrder)
			r.Put("/{id}/order-status", h.changeOrderStatus)
			r.Get("/{id}/history", h.orderHistory)
		})
	})
}

func (h *HTTPTransport) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.services.Store.Ping(ctx); err != nil {
		slog.Error("Error pinging store", "error", err)
		response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})

		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPTransport) createProduct(w http.ResponseWriter, r *http.Request) {
	products.Create(w, r, h.services.Products)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	products.List(w, r, h.services.Products)
}

func (h *HTTPTransport) createMenuGroup(w http.ResponseWriter, r *http.Request) {
	menugroups.Create(w, r, h.services.MenuGroups)
}

func (h *HTTPTransport) listMenuGroups(w http.ResponseWriter, r *http.Request) {
	menugroups.List(w, r, h.services.MenuGroups)
}

func (h *HTTPTransport) createMenu(w http.ResponseWriter, r *http.Request) {
	menus.Create(w, r, h.services.Menus)
}

func (h *HTTPTransport) listMenus(w http.ResponseWriter, r *http.Request) {
	menus.List(w, r, h.services.Menus)
}

func (h *HTTPTransport) updateMenu(w http.ResponseWriter, r *http.Request) {
	menus.Update(w, r, h.services.Menus)
}

func (h *HTTPTransport) createTable(w http.ResponseWriter, r *http.Request) {
	tables.Create(w, r, h.services.Tables)
}

func (h *HTTPTransport) listTables(w http.ResponseWriter, r *http.Request) {
	tables.List(w, r, h.services.Tables)
}

func (h *HTTPTransport) changeTableEmpty(w http.ResponseWriter, r *http.Request) {
	tables.ChangeEmpty(w, r, h.services.Tables)
}

func (h *HTTPTransport) changeNumberOfGuests(w http.ResponseWriter, r *http.Request) {
	tables.ChangeNumberOfGuests(w, r, h.services.Tables)
}

func (h *HTTPTransport) groupTables(w http.ResponseWriter, r *http.Request) {
	tablegroups.Group(w, r, h.services.TableGroups)
}

func (h *HTTPTransport) ungroupTables(w http.ResponseWriter, r *http.Request) {
	tablegroups.Ungroup(w, r, h.services.TableGroups)
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	orders.Create(w, r, h.services.Orders)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	orders.List(w, r, h.services.Orders)
}

func (h *HTTPTransport) changeOrderStatus(w http.ResponseWriter, r *http.Request) {
	orders.ChangeStatus(w, r, h.services.Orders)
}

func (h *HTTPTransport) orderHistory(w http.ResponseWriter, r *http.Request) {
	orders.History(w, r, h.services.Audit)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)
	router.Use(middleware.Recoverer)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:              "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
