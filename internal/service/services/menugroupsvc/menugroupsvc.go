package menugroupsvc

import (
	"context"

	"github.com/corray333/kitchenpos/internal/dal/interfaces/imenugrouprepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iuow"
	"github.com/corray333/kitchenpos/internal/service/models/menugroup"
	"go.opentelemetry.io/otel"
)

// MenuGroupService is a service for managing menu groups.
type MenuGroupService struct {
	uowFactory iuow.Factory
}

func (s *MenuGroupService) newUOW() unitOfWork {
	return s.uowFactory.New()
}

type unitOfWork interface {
	MenuGroupRepository() imenugrouprepo.IMenuGroupRepository
}

type option func(*MenuGroupService)

// MustNewMenuGroupService creates a new MenuGroupService.
func MustNewMenuGroupService(opts ...option) *MenuGroupService {
	s := &MenuGroupService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.uowFactory == nil {
		panic("menugroupsvc: unit of work factory is required")
	}

	return s
}

// WithUnitOfWorkFactory sets the unit of work factory for the MenuGroupService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(f iuow.Factory) option {
	return func(s *MenuGroupService) {
		s.uowFactory = f
	}
}

func (s *MenuGroupService) Create(ctx context.Context, name string) (menugroup.MenuGroup, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "MenuGroupService.Create")
	defer span.End()

	return s.newUOW().MenuGroupRepository().Insert(ctx, menugroup.MenuGroup{Name: name})
}

func (s *MenuGroupService) List(ctx context.Context) ([]menugroup.MenuGroup, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "MenuGroupService.List")
	defer span.End()

	return s.newUOW().MenuGroupRepository().FindAll(ctx)
}
