package auditsvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/corray333/kitchenpos/internal/dal/interfaces/iorderauditrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iuow"
	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/corray333/kitchenpos/internal/service/models/orderaudit"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// AuditService records order events and serves the audit trail of an order.
type AuditService struct {
	uowFactory iuow.Factory
	now        func() time.Time
}

func (s *AuditService) newUOW() unitOfWork {
	return s.uowFactory.New()
}

type unitOfWork interface {
	OrderRepository() iorderrepo.IOrderRepository
	OrderAuditRepository() iorderauditrepo.IOrderAuditRepository
}

// option is a function that configures the AuditService.
type option func(*AuditService)

// MustNewAuditService creates a new AuditService.
func MustNewAuditService(opts ...option) *AuditService {
	s := &AuditService{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.uowFactory == nil {
		panic("auditsvc: unit of work factory is required")
	}

	return s
}

// WithUnitOfWorkFactory sets the unit of work factory for the AuditService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(f iuow.Factory) option {
	return func(s *AuditService) {
		s.uowFactory = f
	}
}

// WithClock overrides the time source used for recordedAt.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *AuditService) {
		s.now = now
	}
}

// Record stores an order event once per message id.
// A malformed event is a validation error and must not be redelivered.
func (s *AuditService) Record(ctx context.Context, messageID string, payload []byte) error {
	ctx, span := otel.Tracer("service").Start(ctx, "AuditService.Record")
	defer span.End()

	entry, err := orderaudit.FromEvent(messageID, payload, s.now())
	if err != nil {
		return err
	}
	span.SetAttributes(
		attribute.Int64("order.id", entry.OrderID),
		attribute.String("event.type", entry.EventType),
	)

	inserted, err := s.newUOW().OrderAuditRepository().Insert(ctx, entry)
	if err != nil {
		return err
	}

	if !inserted {
		slog.InfoContext(ctx, "Duplicate order event skipped", "message_id", messageID, "order_id", entry.OrderID)

		return nil
	}

	slog.InfoContext(ctx, "Order event recorded",
		"message_id", messageID,
		"event_type", entry.EventType,
		"order_id", entry.OrderID,
		"order_status", entry.OrderStatus,
	)

	return nil
}

// History returns the recorded events of an existing order, oldest first.
func (s *AuditService) History(ctx context.Context, orderID int64) ([]orderaudit.Entry, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "AuditService.History")
	defer span.End()

	work := s.newUOW()

	o, err := work.OrderRepository().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, errs.NotFound("order %d does not exist", orderID)
	}

	return work.OrderAuditRepository().FindByOrderID(ctx, orderID)
}
