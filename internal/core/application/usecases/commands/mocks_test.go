package commands_test

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/labels"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/parcel"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, change ports.StatusChange) {
	m.Called(ctx, change)
}

type MockCarrierClient struct{ mock.Mock }

func (m *MockCarrierClient) FetchParcels(ctx context.Context, req ports.ParcelPageRequest) ([]parcel.Parcel, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]parcel.Parcel), args.Error(1)
}

type MockMessenger struct{ mock.Mock }

func (m *MockMessenger) SendTemplate(ctx context.Context, msg ports.TemplateMessage) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

type MockPendingStore struct{ mock.Mock }

func (m *MockPendingStore) Put(ctx context.Context, messageID, orderNumber string, ttl time.Duration) error {
	args := m.Called(ctx, messageID, orderNumber, ttl)
	return args.Error(0)
}

func (m *MockPendingStore) Consume(ctx context.Context, messageID string) (string, error) {
	args := m.Called(ctx, messageID)
	return args.String(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newOrder builds an order snapshot from a raw tag string.
func newOrder(t *testing.T, id int64, tags string) *order.Order {
	t.Helper()
	return newCustomerOrder(t, id, tags, order.Customer{}, time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC))
}

func newCustomerOrder(t *testing.T, id int64, tags string, customer order.Customer, createdAt time.Time) *order.Order {
	t.Helper()
	state, _ := labels.Decode(labels.Parse(tags))
	o, err := order.NewOrder(id, "#"+strconv.FormatInt(id, 10), customer, createdAt, state)
	require.NoError(t, err)
	return o
}

// withStatus matches an order by id and status in mock expectations.
func withStatus(id int64, status order.Status) any {
	return mock.MatchedBy(func(o *order.Order) bool {
		return o.ID() == id && o.Status() == status
	})
}

// tagsOf renders the labels an Update call would write.
func tagsOf(o *order.Order) []string {
	return labels.Encode(o.State()).Strings()
}
