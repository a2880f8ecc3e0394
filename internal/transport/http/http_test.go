package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/corray333/kitchenpos/internal/dal/memory"
	"github.com/corray333/kitchenpos/internal/service/services/auditsvc"
	"github.com/corray333/kitchenpos/internal/service/services/menugroupsvc"
	"github.com/corray333/kitchenpos/internal/service/services/menusvc"
	"github.com/corray333/kitchenpos/internal/service/services/ordersvc"
	"github.com/corray333/kitchenpos/internal/service/services/productsvc"
	"github.com/corray333/kitchenpos/internal/service/services/tablegroupsvc"
	"github.com/corray333/kitchenpos/internal/service/services/tablesvc"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type HTTPTransportTestSuite struct {
	suite.Suite
	handler http.Handler
}

func TestHTTPTransportSuite(t *testing.T) {
	suite.Run(t, new(HTTPTransportTestSuite))
}

func newServices(store *memory.Store) Services {
	return Services{
		Products:    productsvc.MustNewProductService(productsvc.WithUnitOfWorkFactory(store)),
		MenuGroups:  menugroupsvc.MustNewMenuGroupService(menugroupsvc.WithUnitOfWorkFactory(store)),
		Menus:       menusvc.MustNewMenuService(menusvc.WithUnitOfWorkFactory(store)),
		Tables:      tablesvc.MustNewTableService(tablesvc.WithUnitOfWorkFactory(store)),
		TableGroups: tablegroupsvc.MustNewTableGroupService(tablegroupsvc.WithUnitOfWorkFactory(store)),
		Orders:      ordersvc.MustNewOrderService(ordersvc.WithUnitOfWorkFactory(store)),
		Audit:       auditsvc.MustNewAuditService(auditsvc.WithUnitOfWorkFactory(store)),
		Store:       store,
	}
}

func (s *HTTPTransportTestSuite) SetupTest() {
	transport := NewHTTPTransport(newServices(memory.NewStore()))
	transport.RegisterRoutes()
	s.handler = transport.Handler()
}

func (s *HTTPTransportTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	return w
}

func (s *HTTPTransportTestSuite) created(path, body string) map[string]any {
	w := s.do(http.MethodPost, path, body)
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())

	var out map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(s.T(), path+strconv.FormatInt(id(out), 10), w.Header().Get("Location"))

	return out
}

func id(m map[string]any) int64 {
	return int64(m["id"].(float64))
}

func (s *HTTPTransportTestSuite) requireBadRequest(w *httptest.ResponseRecorder) {
	require.Equal(s.T(), http.StatusBadRequest, w.Code, w.Body.String())

	var out map[string]string
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(s.T(), out["error"])
}

// seedMenu creates a product, a group and a one-product menu priced at price.
func (s *HTTPTransportTestSuite) seedMenu(price string) int64 {
	p := s.created("/api/products/", `{"name":"fried chicken","price":16000}`)
	g := s.created("/api/menu-groups/", `{"name":"chicken"}`)

	m := s.created("/api/menus/", `{
		"name":"fried chicken",
		"price":`+price+`,
		"menuGroupId":`+strconv.FormatInt(id(g), 10)+`,
		"menuProducts":[{"productId":`+strconv.FormatInt(id(p), 10)+`,"quantity":1}]
	}`)

	return id(m)
}

func (s *HTTPTransportTestSuite) TestProducts() {
	p := s.created("/api/products/", `{"name":"fried chicken","price":16000}`)
	require.Equal(s.T(), "fried chicken", p["name"])
	require.Equal(s.T(), float64(16000), p["price"])

	s.requireBadRequest(s.do(http.MethodPost, "/api/products/", `{"name":"fried chicken","price":-1}`))
	s.requireBadRequest(s.do(http.MethodPost, "/api/products/", `{"name":"fried chicken"}`))
	s.requireBadRequest(s.do(http.MethodPost, "/api/products/", ``))

	w := s.do(http.MethodGet, "/api/products/", "")
	require.Equal(s.T(), http.StatusOK, w.Code)
	var products []map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(s.T(), products, 1)
}

func (s *HTTPTransportTestSuite) TestCatalog_RejectsUnstorableInput() {
	g := s.created("/api/menu-groups/", `{"name":"chicken"}`)
	p := s.created("/api/products/", `{"name":"fried chicken","price":16000}`)
	longName := strings.Repeat("a", 256)
	menuBody := func(name, price string) string {
		return `{"name":"` + name + `","price":` + price + `,"menuGroupId":` + strconv.FormatInt(id(g), 10) +
			`,"menuProducts":[{"productId":` + strconv.FormatInt(id(p), 10) + `,"quantity":1}]}`
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "product price below a cent", method: http.MethodPost, path: "/api/products/", body: `{"name":"a","price":1.005}`},
		{name: "product price too large", method: http.MethodPost, path: "/api/products/", body: `{"name":"a","price":1e18}`},
		{name: "product name too long", method: http.MethodPost, path: "/api/products/", body: `{"name":"` + longName + `","price":1}`},
		{name: "menu group name too long", method: http.MethodPost, path: "/api/menu-groups/", body: `{"name":"` + longName + `"}`},
		{name: "menu price below a cent", method: http.MethodPost, path: "/api/menus/", body: menuBody("set", "1.005")},
		{name: "menu name too long", method: http.MethodPost, path: "/api/menus/", body: menuBody(longName, "1000")},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.requireBadRequest(s.do(tt.method, tt.path, tt.body))
		})
	}

	s.created("/api/products/", `{"name":"`+strings.Repeat("a", 255)+`","price":99999999999999999.99}`)
}

func (s *HTTPTransportTestSuite) TestMenus() {
	p := s.created("/api/products/", `{"name":"fried chicken","price":16000}`)
	g := s.created("/api/menu-groups/", `{"name":"chicken"}`)
	productID := strconv.FormatInt(id(p), 10)
	groupID := strconv.FormatInt(id(g), 10)

	s.requireBadRequest(s.do(http.MethodPost, "/api/menus/", `{
		"name":"fried chicken","price":17000,"menuGroupId":`+groupID+`,
		"menuProducts":[{"productId":`+productID+`,"quantity":1}]}`))
	s.requireBadRequest(s.do(http.MethodPost, "/api/menus/", `{
		"name":"fried chicken","price":16000,"menuGroupId":999,
		"menuProducts":[{"productId":`+productID+`,"quantity":1}]}`))

	m := s.created("/api/menus/", `{
		"name":"two chickens","price":30000,"menuGroupId":`+groupID+`,
		"menuProducts":[{"productId":`+productID+`,"quantity":2}]}`)
	require.Len(s.T(), m["menuProducts"], 1)

	menuPath := "/api/menus/" + strconv.FormatInt(id(m), 10)
	w := s.do(http.MethodPut, menuPath, `{"price":28000}`)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	s.requireBadRequest(s.do(http.MethodPut, menuPath, `{"price":33000}`))

	w = s.do(http.MethodGet, "/api/menus/", "")
	require.Equal(s.T(), http.StatusOK, w.Code)
	var menus []map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &menus))
	require.Len(s.T(), menus, 1)
	require.Equal(s.T(), float64(28000), menus[0]["price"])
}

func (s *HTTPTransportTestSuite) TestOrderLifecycle() {
	menuID := strconv.FormatInt(s.seedMenu("16000"), 10)
	table := s.created("/api/tables/", `{"numberOfGuests":4,"empty":false}`)
	tableID := strconv.FormatInt(id(table), 10)

	s.requireBadRequest(s.do(http.MethodPost, "/api/orders/", `{"orderTableId":`+tableID+`,"orderLineItems":[]}`))

	o := s.created("/api/orders/", `{
		"orderTableId":`+tableID+`,
		"orderLineItems":[{"menuId":`+menuID+`,"quantity":2}]}`)
	require.Equal(s.T(), "COOKING", o["orderStatus"])
	require.Len(s.T(), o["orderLineItems"], 1)

	// a table with an order in progress cannot be emptied
	s.requireBadRequest(s.do(http.MethodPut, "/api/tables/"+tableID+"/empty", `{"empty":true}`))

	statusPath := "/api/orders/" + strconv.FormatInt(id(o), 10) + "/order-status"
	s.requireBadRequest(s.do(http.MethodPut, statusPath, `{"orderStatus":"EATING"}`))

	w := s.do(http.MethodPut, statusPath, `{"orderStatus":"COMPLETION"}`)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	s.requireBadRequest(s.do(http.MethodPut, statusPath, `{"orderStatus":"MEAL"}`))

	w = s.do(http.MethodPut, "/api/tables/"+tableID+"/empty", `{"empty":true}`)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/orders/"+strconv.FormatInt(id(o), 10)+"/history", "")
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	require.JSONEq(s.T(), `[]`, w.Body.String())
	s.requireBadRequest(s.do(http.MethodGet, "/api/orders/999/history", ""))

	w = s.do(http.MethodGet, "/api/orders/", "")
	require.Equal(s.T(), http.StatusOK, w.Code)
	var orders []map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(s.T(), orders, 1)
	require.Equal(s.T(), "COMPLETION", orders[0]["orderStatus"])
}

func (s *HTTPTransportTestSuite) TestTables() {
	table := s.created("/api/tables/", `{"numberOfGuests":0,"empty":true}`)
	tableID := strconv.FormatInt(id(table), 10)

	s.requireBadRequest(s.do(http.MethodPut, "/api/tables/"+tableID+"/number-of-guests", `{"numberOfGuests":4}`))
	s.requireBadRequest(s.do(http.MethodPut, "/api/tables/"+tableID+"/empty", `{}`))

	w := s.do(http.MethodPut, "/api/tables/"+tableID+"/empty", `{"empty":false}`)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPut, "/api/tables/"+tableID+"/number-of-guests", `{"numberOfGuests":4}`)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	s.requireBadRequest(s.do(http.MethodPut, "/api/tables/"+tableID+"/number-of-guests", `{"numberOfGuests":-1}`))

	s.requireBadRequest(s.do(http.MethodPut, "/api/tables/abc/empty", `{"empty":true}`))
}

func (s *HTTPTransportTestSuite) TestTableGroups() {
	first := strconv.FormatInt(id(s.created("/api/tables/", `{"numberOfGuests":0,"empty":true}`)), 10)
	second := strconv.FormatInt(id(s.created("/api/tables/", `{"numberOfGuests":0,"empty":true}`)), 10)

	s.requireBadRequest(s.do(http.MethodPost, "/api/table-groups/", `{"orderTables":[{"id":`+first+`}]}`))

	tg := s.created("/api/table-groups/", `{"orderTables":[{"id":`+first+`},{"id":`+second+`}]}`)
	tables := tg["orderTables"].([]any)
	require.Len(s.T(), tables, 2)
	for _, t := range tables {
		require.Equal(s.T(), false, t.(map[string]any)["empty"])
		require.Equal(s.T(), tg["id"], t.(map[string]any)["tableGroupId"])
	}

	w := s.do(http.MethodDelete, "/api/table-groups/"+strconv.FormatInt(id(tg), 10), "")
	require.Equal(s.T(), http.StatusNoContent, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/tables/", "")
	var listed []map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &listed))
	for _, t := range listed {
		require.Nil(s.T(), t["tableGroupId"])
	}
}

func (s *HTTPTransportTestSuite) TestHealthzAndDocs() {
	w := s.do(http.MethodGet, "/healthz", "")
	require.Equal(s.T(), http.StatusOK, w.Code)
	require.JSONEq(s.T(), `{"status":"ok"}`, w.Body.String())

	w = s.do(http.MethodGet, "/swagger/doc.json", "")
	require.Equal(s.T(), http.StatusOK, w.Code)
	require.True(s.T(), json.Valid(w.Body.Bytes()))
}

type downStore struct{}

func (downStore) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestHealthz_StoreDown(t *testing.T) {
	services := newServices(memory.NewStore())
	services.Store = downStore{}
	transport := NewHTTPTransport(services)
	transport.RegisterRoutes()

	w := httptest.NewRecorder()
	transport.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
