// Package shopify is the order store adapter. It reads orders from the Shopify
// Admin REST API, decodes their tags into order.State and writes encoded states
// back as the tag list.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/labels"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"golang.org/x/time/rate"
)

const (
	adapterName = "shopify"

	DefaultAPIVersion = "2024-10"
	DefaultPageSize   = 250
	// Shopify's REST leaky bucket refills at 2 requests per second.
	DefaultRequestsPerSecond = 2
	maxErrorBody             = 512
)

// Config selects the shop and its credentials.
type Config struct {
	// ShopURL is the shop's base URL ("https://atelier.myshopify.com"). A bare
	// domain is accepted and gets https.
	ShopURL           string
	AccessToken       string
	APIVersion        string
	PageSize          int
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client implements ports.OrderRepository.
type Client struct {
	http     *http.Client
	base     string
	token    string
	pageSize int
	limiter  *rate.Limiter
	logger   *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.ShopURL), "/")
	if base == "" {
		return nil, errs.NewValueIsRequiredError("shop url")
	}
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	if _, err := url.Parse(base); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("shop url", err)
	}
	if cfg.AccessToken == "" {
		return nil, errs.NewValueIsRequiredError("shopify access token")
	}

	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = DefaultPageSize
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		http:     &http.Client{Timeout: timeout},
		base:     base + "/admin/api/" + version,
		token:    cfg.AccessToken,
		pageSize: pageSize,
		limiter:  rate.NewLimiter(rate.Limit(rps), int(max(rps, 1))),
		logger:   logger.With("component", "shopify"),
	}, nil
}

// Get fetches one order.
func (c *Client) Get(ctx context.Context, id int64) (*order.Order, error) {
	q := url.Values{"fields": {orderFields}}
	var env orderEnvelope
	if _, err := c.do(ctx, http.MethodGet, c.base+"/orders/"+strconv.FormatInt(id, 10)+".json?"+q.Encode(),
		nil, &env, "get order", id); err != nil {
		return nil, err
	}
	return c.toDomain(ctx, env.Order)
}

// List follows Link pagination. The REST API filters by creation range and
// number; statuses and phone are matched on the decoded orders.
func (c *Client) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	next := c.base + "/orders.json?" + c.listQuery(filter).Encode()

	result := make([]*order.Order, 0)
	for next != "" {
		var env ordersEnvelope
		header, err := c.do(ctx, http.MethodGet, next, nil, &env, "list orders", nil)
		if err != nil {
			return nil, err
		}

		for _, dto := range env.Orders {
			o, convErr := c.toDomain(ctx, dto)
			if convErr != nil {
				c.logger.WarnContext(ctx, "order skipped", "order_id", dto.ID, "error", convErr)
				continue
			}
			if matches(o, filter) {
				result = append(result, o)
			}
		}
		next = nextLink(header.Get("Link"))
	}
	return result, nil
}

// Update overwrites the tag list with the encoding of the order's state.
func (c *Client) Update(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	body := tagsUpdateEnvelope{Order: tagsUpdateDTO{ID: o.ID(), Tags: labels.Tags(o.State())}}
	_, err := c.do(ctx, http.MethodPut, c.base+"/orders/"+strconv.FormatInt(o.ID(), 10)+".json",
		body, nil, "update tags", o.ID())
	return err
}

func (c *Client) listQuery(filter ports.OrderFilter) url.Values {
	q := url.Values{
		"status": {"any"},
		"limit":  {strconv.Itoa(c.pageSize)},
		"fields": {orderFields},
	}
	if !filter.CreatedFrom.IsZero() {
		q.Set("created_at_min", filter.CreatedFrom.Format(time.RFC3339))
	}
	if !filter.CreatedTo.IsZero() {
		q.Set("created_at_max", filter.CreatedTo.Format(time.RFC3339))
	}
	if filter.Number != "" {
		q.Set("name", strings.TrimPrefix(strings.TrimSpace(filter.Number), "#"))
	}
	return q
}

func matches(o *order.Order, filter ports.OrderFilter) bool {
	statuses := slices.DeleteFunc(slices.Clone(filter.Statuses), func(s order.Status) bool {
		return s == order.Pending
	})
	if len(statuses) > 0 && !slices.Contains(statuses, o.Status()) {
		return false
	}
	if filter.Phone != "" && !kernel.SamePhone(o.Customer().Phone, filter.Phone) {
		return false
	}
	if filter.Number != "" && !order.SameNumber(o.Number(), filter.Number) {
		return false
	}
	return true
}

func (c *Client) toDomain(ctx context.Context, dto orderDTO) (*order.Order, error) {
	state, warning := labels.Decode(labels.Parse(dto.Tags))
	if warning != nil {
		c.logger.WarnContext(ctx, "conflicting status labels",
			"order_id", dto.ID, "kept", warning.Kept, "ignored", warning.Ignored)
	}
	return order.NewOrder(dto.ID, dto.Name, dto.customer(), dto.CreatedAt, state)
}

// do sends one rate-limited request and decodes a JSON response into out.
// objectID names the order for not-found errors; nil means 404 is not expected.
func (c *Client) do(
	ctx context.Context,
	method, target string,
	in, out any,
	operation string,
	objectID any,
) (http.Header, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errs.NewTransientAdapterErrorWithCause(adapterName, operation, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && objectID != nil:
		return nil, errs.NewObjectNotFoundError("order", objectID)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return nil, errs.NewTransientAdapterErrorWithCause(adapterName, operation, statusError(resp))
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fmt.Errorf("%s %s: %w", adapterName, operation, statusError(resp))
	}

	if out != nil {
		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("%s %s: decoding response: %w", adapterName, operation, err)
		}
	}
	return resp.Header, nil
}

func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
}

// nextLink extracts the rel="next" target of an RFC 8288 Link header.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		target, params, ok := strings.Cut(strings.TrimSpace(part), ";")
		if !ok || !strings.Contains(params, `rel="next"`) {
			continue
		}
		return strings.Trim(strings.TrimSpace(target), "<>")
	}
	return ""
}
