package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/mavenapp/admin-gateway/internal/errors"
	"github.com/mavenapp/admin-gateway/internal/model"
)

// Client talks to the platform backend. It is stateless: no credential
// is captured at construction time. Callers that need an authorized
// request read the current session and set the bearer header per call.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenPayload is the nested token object the backend returns on a
// successful admin login: { token: { token, verified, email, id } }.
type tokenPayload struct {
	Token    string `json:"token"`
	Verified bool   `json:"verified"`
	Email    string `json:"email"`
	ID       string `json:"id"`
}

type loginResponse struct {
	Token *tokenPayload `json:"token"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// AdminLogin exchanges email/password for a Credential. Transport
// failures (timeout, DNS, refused connection) come back as a generic
// NETWORK_ERROR, distinct from an authentication rejection.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*model.Credential, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, apperrors.Internal("failed to encode login request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/admin-login", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Internal("failed to build login request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("admin login request failed")
		return nil, apperrors.Network(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.Network(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return nil, apperrors.InvalidCredentials(errResp.Message)
		}
		return nil, apperrors.InvalidCredentials(fmt.Sprintf("Login failed (status %d)", resp.StatusCode))
	}

	var loginResp loginResponse
	if err := json.Unmarshal(respBody, &loginResp); err != nil {
		return nil, apperrors.NoCredential().WithCause(err)
	}
	if loginResp.Token == nil || loginResp.Token.Token == "" {
		return nil, apperrors.NoCredential()
	}

	return &model.Credential{
		Token:    loginResp.Token.Token,
		Verified: loginResp.Token.Verified,
		Email:    loginResp.Token.Email,
		ID:       loginResp.Token.ID,
	}, nil
}
