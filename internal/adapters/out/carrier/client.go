// Package carrier reads the courier's parcel feed. A session token obtained with
// the account credentials is cached until it expires and renewed once when the
// API rejects it early.
package carrier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/parcel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	adapterName = "carrier"

	DefaultRequestsPerSecond = 5
	maxErrorBody             = 512
)

var errUnauthorized = errors.New("session rejected")

// Config holds the carrier account and API location.
type Config struct {
	BaseURL           string
	Email             string
	Password          string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client implements ports.CarrierClient.
type Client struct {
	http     *http.Client
	base     string
	email    string
	password string
	limiter  *rate.Limiter
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	tokens oauth2.TokenSource
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errs.NewValueIsRequiredError("carrier base url")
	}
	if cfg.Email == "" || cfg.Password == "" {
		return nil, errs.NewValueIsRequiredError("carrier credentials")
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		http:     &http.Client{Timeout: timeout},
		base:     base,
		email:    cfg.Email,
		password: cfg.Password,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		logger:   logger.With("component", "carrier"),
		now:      time.Now,
	}
	c.tokens = c.newTokenSource()
	return c, nil
}

type deliveriesResponse struct {
	Data struct {
		Deliveries []deliveryDTO `json:"deliveries"`
	} `json:"data"`
}

type deliveryDTO struct {
	TrackingNumber string `json:"trackingNumber"`
	State          struct {
		Value string `json:"value"`
	} `json:"state"`
	Receiver struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		FullName  string `json:"fullName"`
		Phone     string `json:"phone"`
	} `json:"receiver"`
}

func (d deliveryDTO) toDomain() parcel.Parcel {
	name := strings.TrimSpace(d.Receiver.FullName)
	if name == "" {
		name = strings.TrimSpace(d.Receiver.FirstName + " " + d.Receiver.LastName)
	}
	return parcel.Parcel{
		TrackingToken: strings.TrimSpace(d.TrackingNumber),
		Status:        order.CarrierStatus(d.State.Value),
		CustomerName:  name,
		Phone:         strings.TrimSpace(d.Receiver.Phone),
	}
}

// FetchParcels reads one page of one tab.
func (c *Client) FetchParcels(ctx context.Context, req ports.ParcelPageRequest) ([]parcel.Parcel, error) {
	q := url.Values{
		"tab":   {string(req.Tab)},
		"page":  {strconv.Itoa(max(req.Page, 1))},
		"limit": {strconv.Itoa(req.PageSize)},
	}
	if !req.From.IsZero() {
		q.Set("from", req.From.String())
	}
	if !req.To.IsZero() {
		q.Set("to", req.To.String())
	}
	target := c.base + "/api/v2/deliveries?" + q.Encode()

	var body deliveriesResponse
	err := c.get(ctx, target, &body)
	if errors.Is(err, errUnauthorized) {
		c.logger.WarnContext(ctx, "carrier session rejected, logging in again")
		c.resetSession()
		err = c.get(ctx, target, &body)
	}
	if errors.Is(err, errUnauthorized) {
		return nil, fmt.Errorf("%s list parcels: %w", adapterName, err)
	}
	if err != nil {
		return nil, err
	}

	parcels := make([]parcel.Parcel, 0, len(body.Data.Deliveries))
	for _, d := range body.Data.Deliveries {
		parcels = append(parcels, d.toDomain())
	}
	return parcels, nil
}

func (c *Client) get(ctx context.Context, target string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	tok, err := c.tokenSource().Token()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	tok.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errs.NewTransientAdapterErrorWithCause(adapterName, "list parcels", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return errUnauthorized
	}
	if err = checkStatus(resp, "list parcels"); err != nil {
		return err
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s list parcels: decoding response: %w", adapterName, err)
	}
	return nil
}

func (c *Client) newTokenSource() oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, loginSource{client: c})
}

func (c *Client) tokenSource() oauth2.TokenSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

// resetSession drops the cached token so the next request logs in again.
func (c *Client) resetSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = c.newTokenSource()
}

func checkStatus(resp *http.Response, operation string) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return errs.NewTransientAdapterErrorWithCause(adapterName, operation, cause)
	}
	return fmt.Errorf("%s %s: %w", adapterName, operation, cause)
}
