package tablesvc

import (
	"context"

	"github.com/corray333/kitchenpos/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iordertablerepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iuow"
	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/corray333/kitchenpos/internal/service/models/ordertable"
	"go.opentelemetry.io/otel"
)

// TableService is a service for managing order tables.
type TableService struct {
	uowFactory iuow.Factory
}

func (s *TableService) newUOW() unitOfWork {
	return s.uowFactory.New()
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderTableRepository() iordertablerepo.IOrderTableRepository
	OrderRepository() iorderrepo.IOrderRepository
}

type option func(*TableService)

// MustNewTableService creates a new TableService.
func MustNewTableService(opts ...option) *TableService {
	s := &TableService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.uowFactory == nil {
		panic("tablesvc: unit of work factory is required")
	}

	return s
}

// WithUnitOfWorkFactory sets the unit of work factory for the TableService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(f iuow.Factory) option {
	return func(s *TableService) {
		s.uowFactory = f
	}
}

// Create stores a standalone table.
func (s *TableService) Create(ctx context.Context, numberOfGuests int, empty bool) (ordertable.OrderTable, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "TableService.Create")
	defer span.End()

	t, err := ordertable.New(numberOfGuests, empty)
	if err != nil {
		return ordertable.OrderTable{}, err
	}

	return s.newUOW().OrderTableRepository().Insert(ctx, t)
}

// List returns every table.
func (s *TableService) List(ctx context.Context) ([]ordertable.OrderTable, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "TableService.List")
	defer span.End()

	return s.newUOW().OrderTableRepository().FindAll(ctx)
}

// ChangeEmpty sets the empty flag of an ungrouped table with no order in progress.
func (s *TableService) ChangeEmpty(ctx context.Context, id int64, empty bool) (ordertable.OrderTable, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "TableService.ChangeEmpty")
	defer span.End()

	return s.update(ctx, id, func(ctx context.Context, work unitOfWork, t *ordertable.OrderTable) error {
		if t.IsGrouped() {
			return t.ChangeEmpty(empty)
		}

		busy, err := work.OrderRepository().ExistsByTableIDsAndStatuses(
			ctx,
			[]int64{t.ID},
			order.InProgressStatuses,
		)
		if err != nil {
			return err
		}
		if busy {
			return errs.Conflict("order table %d has an order in progress", t.ID)
		}

		return t.ChangeEmpty(empty)
	})
}

// ChangeNumberOfGuests sets the guest count of an occupied table.
func (s *TableService) ChangeNumberOfGuests(
	ctx context.Context,
	id int64,
	numberOfGuests int,
) (ordertable.OrderTable, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "TableService.ChangeNumberOfGuests")
	defer span.End()

	if numberOfGuests < 0 {
		return ordertable.OrderTable{}, errs.Validation("number of guests must not be negative: %d", numberOfGuests)
	}

	return s.update(ctx, id, func(_ context.Context, _ unitOfWork, t *ordertable.OrderTable) error {
		return t.ChangeNumberOfGuests(numberOfGuests)
	})
}

// update loads a table, applies change and stores the result in one transaction.
func (s *TableService) update(
	ctx context.Context,
	id int64,
	change func(ctx context.Context, work unitOfWork, t *ordertable.OrderTable) error,
) (ordertable.OrderTable, error) {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return ordertable.OrderTable{}, err
	}
	defer iuow.Rollback(ctx, work)

	t, err := work.OrderTableRepository().FindByID(ctx, id)
	if err != nil {
		return ordertable.OrderTable{}, err
	}
	if t == nil {
		return ordertable.OrderTable{}, errs.NotFound("order table %d does not exist", id)
	}

	if err := change(ctx, work, t); err != nil {
		return ordertable.OrderTable{}, err
	}

	if err := work.OrderTableRepository().Update(ctx, *t); err != nil {
		return ordertable.OrderTable{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return ordertable.OrderTable{}, err
	}

	return *t, nil
}
