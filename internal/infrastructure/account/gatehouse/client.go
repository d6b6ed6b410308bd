// Package gatehouse verifies bearer tokens against the account service
// that owns authentication for this deployment. The API itself has no
// login or session routes; it only introspects.
package gatehouse

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
	"github.com/tribalcouncil/fantasy-survivor/internal/platform/resilience"
	"github.com/tribalcouncil/fantasy-survivor/internal/usecase"
)

var errGatehouseTransient = crerr.New("gatehouse transient failure")

type CircuitBreakerConfig struct {
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

type Client struct {
	httpClient    *http.Client
	introspectURL string
	breaker       *resilience.CircuitBreaker
	logger        *slog.Logger
}

func NewClient(httpClient *http.Client, baseURL, introspectPath string, breakerCfg CircuitBreakerConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	breakerCfg = normalizeCircuitBreakerConfig(breakerCfg)

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(baseURL, introspectPath),
		breaker: resilience.NewCircuitBreaker(
			breakerCfg.FailureThreshold,
			breakerCfg.OpenTimeout,
			breakerCfg.HalfOpenMaxReq,
		),
		logger: logger,
	}
}

// VerifyAccessToken introspects the token and returns the principal it
// names. Transient gatehouse failures trip the breaker; denied or
// inactive tokens do not.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	if err := c.breaker.Allow(); err != nil {
		return user.Principal{}, fmt.Errorf("%w: gatehouse circuit open", usecase.ErrDependencyUnavailable)
	}

	principal, err := c.introspect(ctx, token)
	if crerr.Is(err, errGatehouseTransient) {
		c.breaker.RecordFailure()
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}
	c.breaker.RecordSuccess()
	if err != nil {
		return user.Principal{}, err
	}

	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, crerr.Wrap(errGatehouseTransient, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, crerr.Wrap(errGatehouseTransient, "read introspect response")
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		c.logger.WarnContext(ctx, "gatehouse introspection server error",
			slog.Int("statusCode", resp.StatusCode),
		)
		return user.Principal{}, crerr.Wrapf(errGatehouseTransient, "gatehouse status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return user.Principal{}, fmt.Errorf("gatehouse introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if decoded.UserID <= 0 {
		return user.Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	role := user.Role(decoded.Role)
	if role != user.RoleAdmin {
		role = user.RolePlayer
	}

	return user.Principal{
		UserID:   decoded.UserID,
		Username: decoded.Username,
		Role:     role,
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active   bool   `json:"active"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
