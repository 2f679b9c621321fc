package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Balamathankumar/store-front/pkg/httpclient"
)

// Customer is the backend's view of an authenticated shopper.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// AuthResult is the backend's response to a successful code verification.
// The token is opaque to the storefront; it is only ever echoed back to the
// backend on authenticated calls.
type AuthResult struct {
	Customer Customer `json:"customer"`
	Token    string   `json:"token"`
}

// AuthGateway drives the backend's email verification-code flow.
type AuthGateway struct {
	client  HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewAuthGateway creates an auth gateway against the given base URL.
func NewAuthGateway(client HTTPDoer, baseURL string, logger *slog.Logger) *AuthGateway {
	return &AuthGateway{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

// RequestCode asks the backend to email a one-time verification code.
func (g *AuthGateway) RequestCode(ctx context.Context, email string) error {
	if err := g.postJSON(ctx, "/auth/send-verification", map[string]string{"email": email}, nil); err != nil {
		return fmt.Errorf("request verification code: %w", err)
	}

	g.logger.InfoContext(ctx, "verification code requested",
		slog.String("email", email),
	)
	return nil
}

// VerifyCode exchanges an emailed code for a customer identity and token.
func (g *AuthGateway) VerifyCode(ctx context.Context, email, code string) (*AuthResult, error) {
	var result AuthResult
	payload := map[string]string{"email": email, "code": code}
	if err := g.postJSON(ctx, "/auth/verify-code", payload, &result); err != nil {
		return nil, fmt.Errorf("verify code: %w", err)
	}

	g.logger.InfoContext(ctx, "verification code accepted",
		slog.Int64("customer_id", result.Customer.ID),
	)
	return &result, nil
}

// postJSON issues a POST with a JSON body and optionally decodes the response.
func (g *AuthGateway) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return httpclient.ParseResponseError(resp, "auth")
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
