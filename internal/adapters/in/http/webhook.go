package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	signatureHeader = "X-Hub-Signature-256"
	maxWebhookBody  = 1 << 20

	correlationMiss    = "miss"
	correlationIgnored = "ignored"
	correlationFailed  = "error"
)

type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Messages []inboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	Type    string `json:"type"`
	Context *struct {
		ID string `json:"id"`
	} `json:"context"`
	Button *struct {
		Payload string `json:"payload"`
		Text    string `json:"text"`
	} `json:"button"`
	Interactive *struct {
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
	} `json:"interactive"`
}

func (m inboundMessage) contextID() string {
	if m.Context == nil {
		return ""
	}
	return m.Context.ID
}

func (m inboundMessage) payload() string {
	switch {
	case m.Button != nil:
		return m.Button.Payload
	case m.Interactive != nil && m.Interactive.ButtonReply != nil:
		return m.Interactive.ButtonReply.ID
	default:
		return ""
	}
}

// VerifyWebhook handles GET /webhooks/whatsapp, the subscription challenge.
func (s *Server) VerifyWebhook(ctx echo.Context) error {
	if ctx.QueryParam("hub.mode") != "subscribe" ||
		s.webhook.VerifyToken == "" ||
		!hmac.Equal([]byte(ctx.QueryParam("hub.verify_token")), []byte(s.webhook.VerifyToken)) {
		return ctx.JSON(http.StatusForbidden, Error{Code: http.StatusForbidden, Message: "verification failed"})
	}
	return ctx.String(http.StatusOK, ctx.QueryParam("hub.challenge"))
}

// ReceiveWebhook handles POST /webhooks/whatsapp. Every inbound message is
// handed to the correlator; individual failures are logged and the delivery is
// still acknowledged so the platform does not retry it.
func (s *Server) ReceiveWebhook(ctx echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxWebhookBody))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "unreadable body"})
	}
	if s.webhook.AppSecret != "" && !validSignature(body, ctx.Request().Header.Get(signatureHeader), s.webhook.AppSecret) {
		return ctx.JSON(http.StatusUnauthorized, Error{Code: http.StatusUnauthorized, Message: "invalid signature"})
	}

	var payload webhookPayload
	if err = json.Unmarshal(body, &payload); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "invalid payload"})
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				s.handleReply(ctx, msg)
			}
		}
	}
	return ctx.NoContent(http.StatusOK)
}

func (s *Server) handleReply(ctx echo.Context, msg inboundMessage) {
	reqCtx := ctx.Request().Context()

	cmd, err := commands.NewHandleReplyCommand(msg.ID, msg.From, msg.Type, msg.payload(), msg.contextID())
	if err != nil {
		s.logger.WarnContext(reqCtx, "malformed inbound message", "error", err)
		s.metrics.Correlation(correlationFailed)
		return
	}

	outcome, err := s.replies.Handle(reqCtx, cmd)
	switch {
	case errors.Is(err, commands.ErrReplyIgnored):
		s.metrics.Correlation(correlationIgnored)
	case errors.Is(err, errs.ErrCorrelationMiss):
		s.metrics.Correlation(correlationMiss)
	case err != nil:
		s.metrics.Correlation(correlationFailed)
		s.logger.ErrorContext(reqCtx, "reply not processed", "reply_id", msg.ID, "error", err)
	default:
		s.metrics.Correlation(outcome.Strategy)
		s.logger.InfoContext(reqCtx, "reply correlated",
			"reply_id", msg.ID,
			"order_id", outcome.OrderID,
			"strategy", outcome.Strategy,
			"confirmed", outcome.Confirmed,
		)
	}
}

func validSignature(body []byte, header, secret string) bool {
	sig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
