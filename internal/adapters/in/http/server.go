package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// JobTrigger runs one pass of a scheduled job on demand.
type JobTrigger interface {
	RunOnce(ctx context.Context) (commands.BatchResult, error)
}

type ReplyHandler interface {
	Handle(ctx context.Context, cmd commands.HandleReplyCommand) (commands.ReplyOutcome, error)
}

type ConfirmationRequester interface {
	Handle(ctx context.Context, cmd commands.RequestConfirmationCommand) (string, error)
}

type ManualTransitioner interface {
	Handle(ctx context.Context, cmd commands.ManualTransitionCommand) (order.State, error)
}

type OrderStateReader interface {
	Handle(ctx context.Context, query queries.GetOrderStateQuery) (queries.GetOrderStateQueryResponse, error)
}

// WebhookConfig authenticates the messaging channel's webhook.
type WebhookConfig struct {
	// VerifyToken answers the subscription challenge.
	VerifyToken string
	// AppSecret, when set, requires a valid X-Hub-Signature-256 on every delivery.
	AppSecret string
}

// Error is the JSON body of every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server exposes the operational endpoints, the messaging webhook, health and metrics.
type Server struct {
	// Jobs
	escalation     JobTrigger
	reconciliation JobTrigger

	// Command handlers
	replies      ReplyHandler
	confirmation ConfirmationRequester
	manual       ManualTransitioner

	// Query handlers
	orderState OrderStateReader

	webhook  WebhookConfig
	gatherer prometheus.Gatherer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	Escalation     JobTrigger
	Reconciliation JobTrigger
	Replies        ReplyHandler
	Confirmation   ConfirmationRequester
	Manual         ManualTransitioner
	OrderState     OrderStateReader
}

func NewServer(
	h Handlers,
	webhook WebhookConfig,
	gatherer prometheus.Gatherer,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Server {
	return &Server{
		escalation:     h.Escalation,
		reconciliation: h.Reconciliation,
		replies:        h.Replies,
		confirmation:   h.Confirmation,
		manual:         h.Manual,
		orderState:     h.OrderState,
		webhook:        webhook,
		gatherer:       gatherer,
		metrics:        m,
		logger:         logger.With("component", "http"),
	}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	if s.gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api/v1")
	api.POST("/jobs/escalation", s.RunEscalation)
	api.POST("/jobs/carrier-reconciliation", s.RunReconciliation)
	api.GET("/orders/:id/state", s.GetOrderState)
	api.POST("/orders/:id/request-confirmation", s.RequestConfirmation)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/ready-to-ship", s.MarkReadyToShip)

	e.GET("/webhooks/whatsapp", s.VerifyWebhook)
	e.POST("/webhooks/whatsapp", s.ReceiveWebhook)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// RunEscalation handles POST /api/v1/jobs/escalation.
func (s *Server) RunEscalation(ctx echo.Context) error {
	return s.runJob(ctx, s.escalation)
}

// RunReconciliation handles POST /api/v1/jobs/carrier-reconciliation.
func (s *Server) RunReconciliation(ctx echo.Context) error {
	return s.runJob(ctx, s.reconciliation)
}

func (s *Server) runJob(ctx echo.Context, job JobTrigger) error {
	result, err := job.RunOnce(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, result)
}

// GetOrderState handles GET /api/v1/orders/:id/state?history=true.
func (s *Server) GetOrderState(ctx echo.Context) error {
	id, err := orderID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	withHistory, _ := strconv.ParseBool(ctx.QueryParam("history"))

	query, err := queries.NewGetOrderStateQuery(id, withHistory)
	if err != nil {
		return s.fail(ctx, err)
	}
	resp, err := s.orderState.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, resp)
}

// RequestConfirmation handles POST /api/v1/orders/:id/request-confirmation.
func (s *Server) RequestConfirmation(ctx echo.Context) error {
	id, err := orderID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewRequestConfirmationCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}
	messageID, err := s.confirmation.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusAccepted, map[string]string{"message_id": messageID})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	id, err := orderID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewCancelOrderCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.transition(ctx, id, cmd)
}

type readyToShipRequest struct {
	TrackingToken string `json:"tracking_token"`
}

// MarkReadyToShip handles POST /api/v1/orders/:id/ready-to-ship.
func (s *Server) MarkReadyToShip(ctx echo.Context) error {
	id, err := orderID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var body readyToShipRequest
	if ctx.Request().ContentLength != 0 {
		if err = ctx.Bind(&body); err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "Invalid request body"})
		}
	}
	cmd, err := commands.NewMarkReadyToShipCommand(id, body.TrackingToken)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.transition(ctx, id, cmd)
}

type transitionResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

func (s *Server) transition(ctx echo.Context, id int64, cmd commands.ManualTransitionCommand) error {
	state, err := s.manual.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, transitionResponse{ID: id, Status: state.Status().String()})
}

func orderID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("order id", err)
	}
	return id, nil
}

// fail maps core errors onto HTTP statuses.
func (s *Server) fail(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrTransitionRejected):
		code = http.StatusConflict
	case errors.Is(err, jobs.ErrJobAlreadyRunning):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrTransientAdapter),
		errors.Is(err, commands.ErrCarrierFeedUnavailable):
		code = http.StatusBadGateway
	}

	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"path", ctx.Path(), "error", err)
	}
	return ctx.JSON(code, Error{Code: code, Message: err.Error()})
}
