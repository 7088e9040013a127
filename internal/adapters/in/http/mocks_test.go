package http_test

import (
	"context"
	"io"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
)

type MockJob struct {
	mock.Mock
}

func (m *MockJob) RunOnce(ctx context.Context) (commands.BatchResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(commands.BatchResult), args.Error(1)
}

type MockReplyHandler struct {
	mock.Mock
}

func (m *MockReplyHandler) Handle(ctx context.Context, cmd commands.HandleReplyCommand) (commands.ReplyOutcome, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ReplyOutcome), args.Error(1)
}

type MockConfirmationRequester struct {
	mock.Mock
}

func (m *MockConfirmationRequester) Handle(ctx context.Context, cmd commands.RequestConfirmationCommand) (string, error) {
	args := m.Called(ctx, cmd)
	return args.String(0), args.Error(1)
}

type MockManualTransitioner struct {
	mock.Mock
}

func (m *MockManualTransitioner) Handle(ctx context.Context, cmd commands.ManualTransitionCommand) (order.State, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(order.State), args.Error(1)
}

type MockOrderStateReader struct {
	mock.Mock
}

func (m *MockOrderStateReader) Handle(
	ctx context.Context,
	query queries.GetOrderStateQuery,
) (queries.GetOrderStateQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderStateQueryResponse), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
