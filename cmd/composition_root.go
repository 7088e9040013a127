package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/carrier"
	"fulfillment/internal/adapters/out/memstore"
	"fulfillment/internal/adapters/out/notify"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/statuschangerepo"
	"fulfillment/internal/adapters/out/redisstore"
	"fulfillment/internal/adapters/out/shopify"
	"fulfillment/internal/adapters/out/whatsapp"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// CompositionRoot owns every adapter and builds the use-case handlers on demand.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	registry *prometheus.Registry
	metrics  *metrics.Metrics
	calendar kernel.Calendar

	orders    ports.OrderRepository
	carrier   ports.CarrierClient
	messenger ports.Messenger
	pending   ports.PendingConfirmationStore
	history   ports.StatusChangeRepository
	notifier  *notify.Dispatcher

	closers []func() error
}

func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		calendar: kernel.NewCalendar(cfg.Location),
	}

	if err := c.registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := c.registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}
	m, err := metrics.New(c.registry)
	if err != nil {
		return nil, err
	}
	c.metrics = m

	if err = c.connect(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *CompositionRoot) connect(ctx context.Context) error {
	orders, err := shopify.NewClient(c.cfg.Shopify, c.logger)
	if err != nil {
		return fmt.Errorf("shopify: %w", err)
	}
	c.orders = orders

	parcels, err := carrier.NewClient(c.cfg.Carrier, c.logger)
	if err != nil {
		return fmt.Errorf("carrier: %w", err)
	}
	c.carrier = parcels

	if c.cfg.WhatsApp.PhoneNumberID != "" {
		messenger, err := whatsapp.NewMessenger(c.cfg.WhatsApp, c.logger)
		if err != nil {
			return fmt.Errorf("whatsapp: %w", err)
		}
		c.messenger = messenger
	}

	switch c.cfg.CorrelationStore {
	case CorrelationStoreRedis:
		store, client, err := redisstore.Connect(ctx, c.cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		c.pending = store
		c.closers = append(c.closers, client.Close)
	default:
		c.pending = memstore.New()
	}

	sinks := []notify.Sink{notify.NewLogSink(c.logger), notify.NewMetricsSink(c.metrics)}
	if c.cfg.StatusLogEnabled {
		db, err := postgres.Open(c.cfg.DB.DSN(), c.logger)
		if err != nil {
			return err
		}
		if err = postgres.Migrate(db); err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		c.closers = append(c.closers, sqlDB.Close)

		repo := statuschangerepo.NewGormStatusChangeRepository(db)
		c.history = repo
		sinks = append(sinks, notify.NewHistorySink(repo))
	}
	c.notifier = notify.NewDispatcher(c.cfg.NotifyBuffer, c.logger, sinks...)
	return nil
}

// Close flushes pending notifications and releases connections.
func (c *CompositionRoot) Close() {
	if c.notifier != nil {
		c.notifier.Close()
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.logger.Warn("close failed", "error", err)
		}
	}
	c.closers = nil
}

func (c *CompositionRoot) CreateEscalateOrdersCommandHandler() (commands.EscalateOrdersCommandHandler, error) {
	days := c.cfg.EscalationThresholdDays
	policy, err := services.NewEscalationPolicy(days, days)
	if err != nil {
		return commands.EscalateOrdersCommandHandler{}, err
	}
	return commands.NewEscalateOrdersCommandHandler(
		c.orders, c.notifier, policy, c.calendar, c.cfg.JobConcurrency, c.logger,
	), nil
}

func (c *CompositionRoot) CreateReconcileCarrierCommandHandler() commands.ReconcileCarrierCommandHandler {
	opts := commands.DefaultReconcileOptions()
	if c.cfg.CarrierWindowDays > 0 {
		opts.WindowDays = c.cfg.CarrierWindowDays
	}
	if c.cfg.CarrierMaxWindowDays > 0 {
		opts.MaxWindowDays = c.cfg.CarrierMaxWindowDays
	}
	opts.Concurrency = c.cfg.JobConcurrency
	return commands.NewReconcileCarrierCommandHandler(
		c.orders, c.carrier, c.notifier, c.calendar, opts, c.logger,
	)
}

func (c *CompositionRoot) CreateHandleReplyCommandHandler() commands.HandleReplyCommandHandler {
	return commands.NewHandleReplyCommandHandler(c.orders, c.pending, c.notifier, c.calendar, c.logger).
		WithConfirmPayloads(c.cfg.ConfirmationPayloads...)
}

func (c *CompositionRoot) CreateRequestConfirmationCommandHandler() (commands.RequestConfirmationCommandHandler, error) {
	if c.messenger == nil {
		return commands.RequestConfirmationCommandHandler{},
			errors.New("WHATSAPP_PHONE_NUMBER_ID and WHATSAPP_ACCESS_TOKEN are required to request confirmations")
	}
	return commands.NewRequestConfirmationCommandHandler(
		c.orders, c.messenger, c.pending, c.notifier, c.calendar,
		commands.ConfirmationTemplate{
			Name:     c.cfg.ConfirmationTemplate,
			Language: c.cfg.ConfirmationLanguage,
			TTL:      c.cfg.ConfirmationTTL,
		},
		c.logger,
	), nil
}

func (c *CompositionRoot) CreateManualTransitionCommandHandler() commands.ManualTransitionCommandHandler {
	return commands.NewManualTransitionCommandHandler(c.orders, c.notifier, c.calendar, c.logger)
}

func (c *CompositionRoot) CreateGetOrderStateQueryHandler() queries.GetOrderStateQueryHandler {
	return queries.NewGetOrderStateQueryHandler(c.orders, c.history)
}

func (c *CompositionRoot) CreateEscalationJob() (*jobs.Job, error) {
	handler, err := c.CreateEscalateOrdersCommandHandler()
	if err != nil {
		return nil, err
	}
	return jobs.NewEscalationJob(handler, c.cfg.EscalationCron, c.cfg.Location, c.metrics, c.logger), nil
}

func (c *CompositionRoot) CreateCarrierReconciliationJob() *jobs.Job {
	return jobs.NewCarrierReconciliationJob(
		c.CreateReconcileCarrierCommandHandler(), c.cfg.CarrierCron, c.cfg.Location, c.metrics, c.logger,
	)
}

// CreateHTTPServer shares the job instances with the scheduler so manual and
// scheduled runs of one job never overlap.
func (c *CompositionRoot) CreateHTTPServer(escalation, reconciliation *jobs.Job) (*httpin.Server, error) {
	confirmation, err := c.CreateRequestConfirmationCommandHandler()
	if err != nil {
		return nil, err
	}
	return httpin.NewServer(
		httpin.Handlers{
			Escalation:     escalation,
			Reconciliation: reconciliation,
			Replies:        c.CreateHandleReplyCommandHandler(),
			Confirmation:   confirmation,
			Manual:         c.CreateManualTransitionCommandHandler(),
			OrderState:     c.CreateGetOrderStateQueryHandler(),
		},
		httpin.WebhookConfig{
			VerifyToken: c.cfg.WebhookVerifyToken,
			AppSecret:   c.cfg.WebhookAppSecret,
		},
		c.registry,
		c.metrics,
		c.logger,
	), nil
}
