package menusvc

import (
	"context"

	"github.com/corray333/kitchenpos/internal/dal/interfaces/imenugrouprepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/imenuproductrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/imenurepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iuow"
	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/corray333/kitchenpos/internal/service/models/menu"
	"github.com/corray333/kitchenpos/internal/service/models/price"
	"github.com/corray333/kitchenpos/internal/service/models/product"
	"github.com/corray333/kitchenpos/internal/service/models/quantity"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
)

// MenuService is a service for managing menus.
type MenuService struct {
	uowFactory iuow.Factory
}

func (s *MenuService) newUOW() unitOfWork {
	return s.uowFactory.New()
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	ProductRepository() iproductrepo.IProductRepository
	MenuGroupRepository() imenugrouprepo.IMenuGroupRepository
	MenuRepository() imenurepo.IMenuRepository
	MenuProductRepository() imenuproductrepo.IMenuProductRepository
}

type option func(*MenuService)

// MustNewMenuService creates a new MenuService.
func MustNewMenuService(opts ...option) *MenuService {
	s := &MenuService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.uowFactory == nil {
		panic("menusvc: unit of work factory is required")
	}

	return s
}

// WithUnitOfWorkFactory sets the unit of work factory for the MenuService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(f iuow.Factory) option {
	return func(s *MenuService) {
		s.uowFactory = f
	}
}

// MenuProductInput is one requested product line of a new menu.
type MenuProductInput struct {
	ProductID int64
	Quantity  int64
}

// CreateInput carries the fields of a new menu.
type CreateInput struct {
	Name         string
	Price        *decimal.Decimal
	MenuGroupID  int64
	MenuProducts []MenuProductInput
}

// UpdateInput carries the fields to change on a menu. Nil fields stay as they are.
type UpdateInput struct {
	Name  *string
	Price *decimal.Decimal
}

// Create validates and stores a menu with its products in one transaction.
func (s *MenuService) Create(ctx context.Context, in CreateInput) (menu.Menu, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "MenuService.Create")
	defer span.End()

	validPrice, err := price.Parse(in.Price)
	if err != nil {
		return menu.Menu{}, err
	}
	if len(in.MenuProducts) == 0 {
		return menu.Menu{}, errs.Validation("menu must contain at least one product")
	}

	m := menu.Menu{
		Name:         in.Name,
		Price:        validPrice,
		MenuGroupID:  in.MenuGroupID,
		MenuProducts: make([]menu.MenuProduct, 0, len(in.MenuProducts)),
	}
	for _, mp := range in.MenuProducts {
		q, err := quantity.New(mp.Quantity)
		if err != nil {
			return menu.Menu{}, err
		}
		m.MenuProducts = append(m.MenuProducts, menu.MenuProduct{ProductID: mp.ProductID, Quantity: q})
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return menu.Menu{}, err
	}
	defer iuow.Rollback(ctx, work)

	exists, err := work.MenuGroupRepository().ExistsByID(ctx, m.MenuGroupID)
	if err != nil {
		return menu.Menu{}, err
	}
	if !exists {
		return menu.Menu{}, errs.NotFound("menu group %d does not exist", m.MenuGroupID)
	}

	if err := s.validatePrice(ctx, work, m); err != nil {
		return menu.Menu{}, err
	}

	saved, err := work.MenuRepository().Insert(ctx, m)
	if err != nil {
		return menu.Menu{}, err
	}

	for i := range m.MenuProducts {
		m.MenuProducts[i].MenuID = saved.ID
	}
	saved.MenuProducts, err = work.MenuProductRepository().BulkInsert(ctx, m.MenuProducts)
	if err != nil {
		return menu.Menu{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return menu.Menu{}, err
	}

	return saved, nil
}

// List returns every menu with its products.
func (s *MenuService) List(ctx context.Context) ([]menu.Menu, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "MenuService.List")
	defer span.End()

	work := s.newUOW()

	menus, err := work.MenuRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(menus) == 0 {
		return []menu.Menu{}, nil
	}

	menuIDs := make([]int64, 0, len(menus))
	for _, m := range menus {
		menuIDs = append(menuIDs, m.ID)
	}
	menuProducts, err := work.MenuProductRepository().FindByMenuIDs(ctx, menuIDs)
	if err != nil {
		return nil, err
	}

	byMenu := make(map[int64][]menu.MenuProduct, len(menus))
	for _, mp := range menuProducts {
		byMenu[mp.MenuID] = append(byMenu[mp.MenuID], mp)
	}
	for i := range menus {
		if mps, ok := byMenu[menus[i].ID]; ok {
			menus[i].MenuProducts = mps
		}
	}

	return menus, nil
}

// Update changes name and price of a menu, re-checking the price against its products.
func (s *MenuService) Update(ctx context.Context, id int64, in UpdateInput) (menu.Menu, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "MenuService.Update")
	defer span.End()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return menu.Menu{}, err
	}
	defer iuow.Rollback(ctx, work)

	found, err := work.MenuRepository().FindByID(ctx, id)
	if err != nil {
		return menu.Menu{}, err
	}
	if found == nil {
		return menu.Menu{}, errs.NotFound("menu %d does not exist", id)
	}
	m := *found

	m.MenuProducts, err = work.MenuProductRepository().FindByMenuIDs(ctx, []int64{m.ID})
	if err != nil {
		return menu.Menu{}, err
	}

	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Price != nil {
		m.Price, err = price.Parse(in.Price)
		if err != nil {
			return menu.Menu{}, err
		}
		if err := s.validatePrice(ctx, work, m); err != nil {
			return menu.Menu{}, err
		}
	}

	if err := work.MenuRepository().Update(ctx, m); err != nil {
		return menu.Menu{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return menu.Menu{}, err
	}

	return m, nil
}

func (s *MenuService) validatePrice(ctx context.Context, work unitOfWork, m menu.Menu) error {
	products, err := work.ProductRepository().FindByIDs(ctx, m.ProductIDs())
	if err != nil {
		return err
	}

	byID := make(map[int64]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	return m.ValidatePrice(byID)
}
