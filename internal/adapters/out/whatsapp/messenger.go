// Package whatsapp sends template messages through the WhatsApp Cloud API.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const (
	adapterName = "whatsapp"

	DefaultBaseURL    = "https://graph.facebook.com"
	DefaultAPIVersion = "v21.0"
	maxErrorBody      = 512
)

// Config holds the sender account.
type Config struct {
	BaseURL       string
	APIVersion    string
	PhoneNumberID string
	AccessToken   string
	// CountryCode replaces a leading trunk zero of local numbers ("010..." becomes "2010...").
	CountryCode string
	Timeout     time.Duration
}

// Messenger implements ports.Messenger.
type Messenger struct {
	http        *http.Client
	endpoint    string
	token       string
	countryCode string
	logger      *slog.Logger
}

func NewMessenger(cfg Config, logger *slog.Logger) (*Messenger, error) {
	if cfg.PhoneNumberID == "" {
		return nil, errs.NewValueIsRequiredError("whatsapp phone number id")
	}
	if cfg.AccessToken == "" {
		return nil, errs.NewValueIsRequiredError("whatsapp access token")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Messenger{
		http:        &http.Client{Timeout: timeout},
		endpoint:    fmt.Sprintf("%s/%s/%s/messages", base, version, cfg.PhoneNumberID),
		token:       cfg.AccessToken,
		countryCode: cfg.CountryCode,
		logger:      logger.With("component", "whatsapp"),
	}, nil
}

type templateRequest struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Template         templatePayload `json:"template"`
}

type templatePayload struct {
	Name       string      `json:"name"`
	Language   language    `json:"language"`
	Components []component `json:"components,omitempty"`
}

type language struct {
	Code string `json:"code"`
}

type component struct {
	Type       string      `json:"type"`
	Parameters []parameter `json:"parameters"`
}

type parameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SendTemplate sends msg and returns the message id ("wamid...").
func (m *Messenger) SendTemplate(ctx context.Context, msg ports.TemplateMessage) (string, error) {
	to := m.recipient(msg.Phone)
	if to == "" {
		return "", errs.NewValueIsRequiredError("recipient phone")
	}

	payload := templateRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template: templatePayload{
			Name:     msg.Template,
			Language: language{Code: msg.Language},
		},
	}
	if len(msg.Params) > 0 {
		params := make([]parameter, 0, len(msg.Params))
		for _, p := range msg.Params {
			params = append(params, parameter{Type: "text", Text: p})
		}
		payload.Template.Components = []component{{Type: "body", Parameters: params}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+m.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", errs.NewTransientAdapterErrorWithCause(adapterName, "send template", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return "", errs.NewTransientAdapterErrorWithCause(adapterName, "send template", cause)
		}
		return "", fmt.Errorf("%s send template: %w", adapterName, cause)
	}

	var out sendResponse
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s send template: decoding response: %w", adapterName, err)
	}
	if len(out.Messages) == 0 || out.Messages[0].ID == "" {
		return "", fmt.Errorf("%s send template: %w", adapterName, errs.NewValueIsRequiredError("message id"))
	}

	m.logger.InfoContext(ctx, "template sent", "template", msg.Template, "message_id", out.Messages[0].ID)
	return out.Messages[0].ID, nil
}

// recipient converts a stored phone number to the international digits-only form
// the Cloud API expects.
func (m *Messenger) recipient(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "00") {
		return digits[2:]
	}
	if m.countryCode != "" && strings.HasPrefix(digits, "0") {
		return m.countryCode + digits[1:]
	}
	return digits
}
