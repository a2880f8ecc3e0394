package tablegroupsvc

import (
	"context"
	"time"

	"github.com/corray333/kitchenpos/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iordertablerepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/itablegrouprepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iuow"
	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/corray333/kitchenpos/internal/service/models/ordertable"
	"github.com/corray333/kitchenpos/internal/service/models/tablegroup"
	"go.opentelemetry.io/otel"
)

// TableGroupService is a service for grouping and ungrouping tables.
type TableGroupService struct {
	uowFactory iuow.Factory
	now        func() time.Time
}

func (s *TableGroupService) newUOW() unitOfWork {
	return s.uowFactory.New()
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderTableRepository() iordertablerepo.IOrderTableRepository
	TableGroupRepository() itablegrouprepo.ITableGroupRepository
	OrderRepository() iorderrepo.IOrderRepository
}

type option func(*TableGroupService)

// MustNewTableGroupService creates a new TableGroupService.
func MustNewTableGroupService(opts ...option) *TableGroupService {
	s := &TableGroupService{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.uowFactory == nil {
		panic("tablegroupsvc: unit of work factory is required")
	}

	return s
}

// WithUnitOfWorkFactory sets the unit of work factory for the TableGroupService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(f iuow.Factory) option {
	return func(s *TableGroupService) {
		s.uowFactory = f
	}
}

// WithClock overrides the time source used for createdDate.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *TableGroupService) {
		s.now = now
	}
}

// Group binds the tables into a new group. Every table must exist, be empty and ungrouped.
func (s *TableGroupService) Group(ctx context.Context, tableIDs []int64) (tablegroup.TableGroup, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "TableGroupService.Group")
	defer span.End()

	if len(tableIDs) < tablegroup.MinTables {
		return tablegroup.TableGroup{}, errs.Validation(
			"a table group needs at least %d tables, got %d",
			tablegroup.MinTables,
			len(tableIDs),
		)
	}
	seen := make(map[int64]struct{}, len(tableIDs))
	for _, id := range tableIDs {
		if _, ok := seen[id]; ok {
			return tablegroup.TableGroup{}, errs.Validation("order table %d is listed more than once", id)
		}
		seen[id] = struct{}{}
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return tablegroup.TableGroup{}, err
	}
	defer iuow.Rollback(ctx, work)

	tables, err := work.OrderTableRepository().FindByIDs(ctx, tableIDs)
	if err != nil {
		return tablegroup.TableGroup{}, err
	}
	if len(tables) != len(tableIDs) {
		found := make(map[int64]struct{}, len(tables))
		for _, t := range tables {
			found[t.ID] = struct{}{}
		}
		for _, id := range tableIDs {
			if _, ok := found[id]; !ok {
				return tablegroup.TableGroup{}, errs.NotFound("order table %d does not exist", id)
			}
		}
	}

	for _, t := range tables {
		if t.IsGrouped() || !t.Empty {
			return tablegroup.TableGroup{}, errs.Conflict("order table %d is not available for grouping", t.ID)
		}
	}

	group, err := work.TableGroupRepository().Insert(ctx, tablegroup.TableGroup{CreatedDate: s.now()})
	if err != nil {
		return tablegroup.TableGroup{}, err
	}

	group.OrderTables = make([]ordertable.OrderTable, 0, len(tables))
	for _, t := range tables {
		if err := t.Group(group.ID); err != nil {
			return tablegroup.TableGroup{}, err
		}
		if err := work.OrderTableRepository().Update(ctx, t); err != nil {
			return tablegroup.TableGroup{}, err
		}
		group.OrderTables = append(group.OrderTables, t)
	}

	if err := work.Commit(ctx); err != nil {
		return tablegroup.TableGroup{}, err
	}

	return group, nil
}

// Ungroup releases the tables of a group and deletes it,
// unless one of them has an order in progress.
func (s *TableGroupService) Ungroup(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer("service").Start(ctx, "TableGroupService.Ungroup")
	defer span.End()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return err
	}
	defer iuow.Rollback(ctx, work)

	group, err := work.TableGroupRepository().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if group == nil {
		return errs.NotFound("table group %d does not exist", id)
	}

	tables, err := work.OrderTableRepository().FindByTableGroupID(ctx, id)
	if err != nil {
		return err
	}

	tableIDs := make([]int64, 0, len(tables))
	for _, t := range tables {
		tableIDs = append(tableIDs, t.ID)
	}
	busy, err := work.OrderRepository().ExistsByTableIDsAndStatuses(ctx, tableIDs, order.InProgressStatuses)
	if err != nil {
		return err
	}
	if busy {
		return errs.Conflict("table group %d has an order in progress", id)
	}

	for _, t := range tables {
		t.Ungroup()
		if err := work.OrderTableRepository().Update(ctx, t); err != nil {
			return err
		}
	}

	if err := work.TableGroupRepository().Delete(ctx, id); err != nil {
		return err
	}

	return work.Commit(ctx)
}
