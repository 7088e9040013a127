package statuschangerepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/statuschangerepo"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// StatusChangeRepositoryIntegrationTestSuite verifies the status-change log
// against a real PostgreSQL container.
type StatusChangeRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *statuschangerepo.GormStatusChangeRepository
}

func (suite *StatusChangeRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&statuschangerepo.StatusChangeDTO{}))
}

func (suite *StatusChangeRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE status_changes").Error)
	suite.repository = statuschangerepo.NewGormStatusChangeRepository(suite.db)
}

func (suite *StatusChangeRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *StatusChangeRepositoryIntegrationTestSuite) TestAdd_ThenListNewestFirst() {
	ctx := context.Background()
	day := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)

	chain := []ports.StatusChange{
		{OrderID: 1, OrderNumber: "#1", Previous: order.Pending, Current: order.OrderReady,
			Actor: ports.ActorOperator, At: day},
		{OrderID: 1, OrderNumber: "#1", Previous: order.OrderReady, Current: order.OnHold,
			Actor: ports.ActorEscalation, At: day.AddDate(0, 0, 2)},
		{OrderID: 1, OrderNumber: "#1", Previous: order.OnHold, Current: order.Cancelled,
			Actor: ports.ActorEscalation, At: day.AddDate(0, 0, 4)},
		{OrderID: 2, OrderNumber: "#2", Previous: order.Shipped, Current: order.Fulfilled,
			Actor: ports.ActorCarrier, At: day},
	}
	for _, c := range chain {
		suite.Require().NoError(suite.repository.Add(ctx, c))
	}

	got, err := suite.repository.ListByOrder(ctx, 1, 10)
	suite.Require().NoError(err)
	suite.Require().Len(got, 3)
	suite.Equal(order.Cancelled, got[0].Current)
	suite.Equal(order.OnHold, got[1].Current)
	suite.Equal(order.OrderReady, got[2].Current)
	suite.Equal(ports.ActorOperator, got[2].Actor)
	suite.True(day.Equal(got[2].At))
}

func (suite *StatusChangeRepositoryIntegrationTestSuite) TestListByOrder_RespectsLimit() {
	ctx := context.Background()
	day := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)

	for i := range 5 {
		suite.Require().NoError(suite.repository.Add(ctx, ports.StatusChange{
			OrderID: 3, Previous: order.ReadyToShip, Current: order.Shipped,
			Actor: ports.ActorCarrier, At: day.Add(time.Duration(i) * time.Hour),
		}))
	}

	got, err := suite.repository.ListByOrder(ctx, 3, 2)
	suite.Require().NoError(err)
	suite.Len(got, 2)
	suite.True(day.Add(4 * time.Hour).Equal(got[0].At))
}

func (suite *StatusChangeRepositoryIntegrationTestSuite) TestListByOrder_UnknownOrder_ReturnsEmpty() {
	got, err := suite.repository.ListByOrder(context.Background(), 404, 10)

	suite.Require().NoError(err)
	suite.Empty(got)
}

func (suite *StatusChangeRepositoryIntegrationTestSuite) TestAdd_InvalidChange() {
	ctx := context.Background()

	err := suite.repository.Add(ctx, ports.StatusChange{OrderID: 0, Current: order.Shipped})
	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)

	err = suite.repository.Add(ctx, ports.StatusChange{OrderID: 1})
	suite.Require().Error(err)

	var count int64
	suite.Require().NoError(suite.db.Model(&statuschangerepo.StatusChangeDTO{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *StatusChangeRepositoryIntegrationTestSuite) TestListByOrder_InvalidLimit() {
	_, err := suite.repository.ListByOrder(context.Background(), 1, 0)

	suite.Require().ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func TestStatusChangeRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(StatusChangeRepositoryIntegrationTestSuite))
}
