package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fulfillment/internal/pkg/errs"

	"golang.org/x/oauth2"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Data struct {
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expires_in"`
	} `json:"data"`
}

// loginSource exchanges the account credentials for a session token. It is
// wrapped in oauth2.ReuseTokenSource, which calls it only when the cached token
// is missing or expired.
type loginSource struct {
	client *Client
}

func (s loginSource) Token() (*oauth2.Token, error) {
	c := s.client
	ctx, cancel := context.WithTimeout(context.Background(), c.http.Timeout)
	defer cancel()

	payload, err := json.Marshal(loginRequest{Email: c.email, Password: c.password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/v2/users/login", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.NewTransientAdapterErrorWithCause(adapterName, "login", err)
	}
	defer resp.Body.Close()

	if err = checkStatus(resp, "login"); err != nil {
		return nil, err
	}

	var body loginResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%s login: decoding response: %w", adapterName, err)
	}
	if body.Data.Token == "" {
		return nil, fmt.Errorf("%s login: %w", adapterName, errs.NewValueIsRequiredError("session token"))
	}

	tok := &oauth2.Token{AccessToken: body.Data.Token, TokenType: "Bearer"}
	if body.Data.ExpiresIn > 0 {
		tok.Expiry = c.now().Add(time.Duration(body.Data.ExpiresIn) * time.Second)
	}
	c.logger.Info("carrier session opened", "expires_at", tok.Expiry)
	return tok, nil
}
