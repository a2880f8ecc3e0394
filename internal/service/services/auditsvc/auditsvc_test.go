package auditsvc

import (
	"context"
	"testing"
	"time"

	"github.com/corray333/kitchenpos/internal/dal/memory"
	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/corray333/kitchenpos/internal/service/models/outbox"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AuditServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *AuditService
	now   time.Time
	order order.Order
}

func TestAuditServiceSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}

func (s *AuditServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.svc = MustNewAuditService(
		WithUnitOfWorkFactory(s.store),
		WithClock(func() time.Time { return s.now }),
	)

	var err error
	s.order, err = s.store.New().OrderRepository().Insert(s.ctx, order.New(1, s.now))
	require.NoError(s.T(), err)
}

func (s *AuditServiceTestSuite) event(routingKey string, o order.Order, at time.Time) outbox.OutboxMessage {
	msg, err := outbox.NewOrderEventMessage("kitchenpos.events", routingKey, o, at)
	require.NoError(s.T(), err)

	return msg
}

func (s *AuditServiceTestSuite) TestRecordAndHistory() {
	created := s.event(outbox.RoutingKeyOrderCreated, s.order, s.now)

	meal := s.order
	meal.OrderStatus = order.StatusMeal
	changed := s.event(outbox.RoutingKeyOrderStatusChanged, meal, s.now.Add(time.Minute))

	// delivered out of order
	require.NoError(s.T(), s.svc.Record(s.ctx, changed.MessageID, changed.Payload))
	require.NoError(s.T(), s.svc.Record(s.ctx, created.MessageID, created.Payload))

	history, err := s.svc.History(s.ctx, s.order.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), history, 2)
	require.Equal(s.T(), outbox.RoutingKeyOrderCreated, history[0].EventType)
	require.Equal(s.T(), order.StatusCooking, history[0].OrderStatus)
	require.Equal(s.T(), order.StatusMeal, history[1].OrderStatus)
	require.Equal(s.T(), s.now, history[1].RecordedAt)
}

func (s *AuditServiceTestSuite) TestRecord_Redelivery() {
	created := s.event(outbox.RoutingKeyOrderCreated, s.order, s.now)

	require.NoError(s.T(), s.svc.Record(s.ctx, created.MessageID, created.Payload))
	require.NoError(s.T(), s.svc.Record(s.ctx, created.MessageID, created.Payload))

	history, err := s.svc.History(s.ctx, s.order.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), history, 1)
}

func (s *AuditServiceTestSuite) TestRecord_Malformed() {
	err := s.svc.Record(s.ctx, "m1", []byte(`not json`))
	require.ErrorIs(s.T(), err, errs.ErrValidation)
}

func (s *AuditServiceTestSuite) TestHistory() {
	history, err := s.svc.History(s.ctx, s.order.ID)
	require.NoError(s.T(), err)
	require.Empty(s.T(), history)

	_, err = s.svc.History(s.ctx, 999)
	require.ErrorIs(s.T(), err, errs.ErrNotFound)
}

func TestMustNewAuditService_PanicsWithoutFactory(t *testing.T) {
	require.Panics(t, func() { MustNewAuditService() })
}
